package handlers

import (
	"net/http"

	"secondlife/models"
	"secondlife/services/themes"
	"secondlife/utils"

	"github.com/gin-gonic/gin"
)

// ThemeHandler serves the weekly themes.
type ThemeHandler struct {
	ThemeService themes.ThemeService
}

func NewThemeHandler(ts themes.ThemeService) *ThemeHandler {
	return &ThemeHandler{ThemeService: ts}
}

// GetCurrentThemeWeekHandler answers with a null theme between weeks.
func (h *ThemeHandler) GetCurrentThemeWeekHandler(c *gin.Context) {
	current, err := h.ThemeService.Current(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"currentTheme": current})
}

func (h *ThemeHandler) ListThemeWeeksHandler(c *gin.Context) {
	page, err := parsePage(c, themes.DefaultListLimit, themes.MaxListLimit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	result, err := h.ThemeService.List(c.Request.Context(), page.Cursor, page.Limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"themeWeeks": result.Items, "nextCursor": result.NextCursor})
}

func (h *ThemeHandler) CreateThemeWeekHandler(c *gin.Context) {
	var input models.CreateThemeWeekInput
	if err := utils.ParseBody(c, &input); err != nil {
		utils.RespondError(c, err)
		return
	}
	id, err := h.ThemeService.Create(c.Request.Context(), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusCreated, gin.H{"themeWeekId": id})
}
