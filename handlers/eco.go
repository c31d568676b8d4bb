package handlers

import (
	"net/http"

	"secondlife/models"
	"secondlife/services/eco"
	"secondlife/utils"

	"github.com/gin-gonic/gin"
)

// EcoHandler serves the educational content.
type EcoHandler struct {
	EcoService eco.EcoService
}

func NewEcoHandler(es eco.EcoService) *EcoHandler {
	return &EcoHandler{EcoService: es}
}

func parseEcoFilter(c *gin.Context) (models.EcoFilter, error) {
	var filter models.EcoFilter
	contentType, err := queryParam(c, "type", "oneof=article video stat")
	if err != nil {
		return filter, err
	}
	if filter.Tag, err = queryParam(c, "tag", "min=2,max=30"); err != nil {
		return filter, err
	}
	if filter.ThemeWeekID, err = queryParam(c, "themeWeekId", "min=1"); err != nil {
		return filter, err
	}
	if filter.Lang, err = queryParam(c, "lang", "min=2,max=10"); err != nil {
		return filter, err
	}
	filter.Type = models.EcoContentType(contentType)
	return filter, nil
}

func (h *EcoHandler) listWith(c *gin.Context, list func(filter models.EcoFilter, page pageParams) (any, error)) {
	page, err := parsePage(c, eco.DefaultListLimit, eco.MaxListLimit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	filter, err := parseEcoFilter(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	data, err := list(filter, page)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, data)
}

// ListEcoContentsHandler lists published content only.
func (h *EcoHandler) ListEcoContentsHandler(c *gin.Context) {
	h.listWith(c, func(filter models.EcoFilter, page pageParams) (any, error) {
		result, err := h.EcoService.ListPublished(c.Request.Context(), filter, page.Cursor, page.Limit)
		return gin.H{"ecoContents": result.Items, "nextCursor": result.NextCursor}, err
	})
}

// AdminListEcoContentsHandler lists every content, scheduled included.
func (h *EcoHandler) AdminListEcoContentsHandler(c *gin.Context) {
	h.listWith(c, func(filter models.EcoFilter, page pageParams) (any, error) {
		result, err := h.EcoService.ListAll(c.Request.Context(), filter, page.Cursor, page.Limit)
		return gin.H{"ecoContents": result.Items, "nextCursor": result.NextCursor}, err
	})
}

func (h *EcoHandler) GetEcoContentDetailHandler(c *gin.Context) {
	contentID, err := requiredQueryParam(c, "contentId")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	content, err := h.EcoService.GetPublished(c.Request.Context(), contentID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"ecoContent": content})
}

func (h *EcoHandler) TrackEcoViewHandler(c *gin.Context) {
	var input models.TrackEcoViewInput
	if err := utils.ParseBody(c, &input); err != nil {
		utils.RespondError(c, err)
		return
	}
	viewID, err := h.EcoService.TrackView(c.Request.Context(), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusCreated, gin.H{"viewId": viewID})
}

func (h *EcoHandler) AdminCreateEcoContentHandler(c *gin.Context) {
	var input models.CreateEcoContentInput
	if err := utils.ParseBody(c, &input); err != nil {
		utils.RespondError(c, err)
		return
	}
	id, err := h.EcoService.Create(c.Request.Context(), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusCreated, gin.H{"contentId": id})
}
