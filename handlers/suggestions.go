package handlers

import (
	"context"
	"net/http"

	"secondlife/database/repository"
	"secondlife/middleware"
	"secondlife/models"
	"secondlife/services/suggestions"
	"secondlife/utils"

	"github.com/gin-gonic/gin"
)

// SuggestionHandler serves AI suggestion browsing and moderation.
type SuggestionHandler struct {
	SuggestionService suggestions.SuggestionService
}

func NewSuggestionHandler(ss suggestions.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{SuggestionService: ss}
}

func (h *SuggestionHandler) ListPublishedHandler(c *gin.Context) {
	h.list(c, suggestions.DefaultPublishedLimit, h.SuggestionService.ListPublished)
}

func (h *SuggestionHandler) ListPendingHandler(c *gin.Context) {
	h.list(c, suggestions.DefaultPendingLimit, h.SuggestionService.ListPending)
}

type suggestionLister func(ctx context.Context, themeWeekID, cursor string, limit int) (repository.Page[models.AISuggestion], error)

func (h *SuggestionHandler) list(c *gin.Context, defaultLimit int, lister suggestionLister) {
	page, err := parsePage(c, defaultLimit, suggestions.MaxListLimit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	themeWeekID, err := queryParam(c, "themeWeekId", "min=1")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	result, err := lister(c.Request.Context(), themeWeekID, page.Cursor, page.Limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"suggestions": result.Items, "nextCursor": result.NextCursor})
}

func (h *SuggestionHandler) ApproveHandler(c *gin.Context) {
	var input models.SuggestionIDInput
	if err := utils.ParseBody(c, &input); err != nil {
		utils.RespondError(c, err)
		return
	}
	if err := h.SuggestionService.Approve(c.Request.Context(), middleware.MustAuth(c), input.SuggestionID); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"suggestionId": input.SuggestionID, "published": true})
}

func (h *SuggestionHandler) DeleteHandler(c *gin.Context) {
	var input models.SuggestionIDInput
	if err := utils.ParseBody(c, &input); err != nil {
		utils.RespondError(c, err)
		return
	}
	if err := h.SuggestionService.Delete(c.Request.Context(), input.SuggestionID); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"suggestionId": input.SuggestionID, "deleted": true})
}

// GenerateHandler runs the weekly pipeline on demand. Omitted fields use the
// weekly job defaults.
func (h *SuggestionHandler) GenerateHandler(c *gin.Context) {
	var input models.GenerateSuggestionsInput
	if err := utils.ParseBody(c, &input); err != nil {
		utils.RespondError(c, err)
		return
	}
	result, err := h.SuggestionService.Generate(c.Request.Context(), suggestions.OptionsFromInput(input))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, result)
}
