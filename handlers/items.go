package handlers

import (
	"net/http"

	"secondlife/middleware"
	"secondlife/models"
	"secondlife/services/items"
	"secondlife/utils"

	"github.com/gin-gonic/gin"
)

// ItemHandler serves the exchange listings.
type ItemHandler struct {
	ItemService items.ItemService
}

func NewItemHandler(is items.ItemService) *ItemHandler {
	return &ItemHandler{ItemService: is}
}

func (h *ItemHandler) CreateItemHandler(c *gin.Context) {
	var input models.CreateItemInput
	if err := utils.ParseBody(c, &input); err != nil {
		utils.RespondError(c, err)
		return
	}
	id, err := h.ItemService.Create(c.Request.Context(), middleware.MustAuth(c), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusCreated, gin.H{"itemId": id})
}

func (h *ItemHandler) ListItemsHandler(c *gin.Context) {
	page, err := parsePage(c, items.DefaultListLimit, items.MaxListLimit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	status, err := queryParam(c, "status", "oneof=active archived")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	mine, err := utils.QueryBool(c, "mine")
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	result, err := h.ItemService.List(c.Request.Context(), middleware.MustAuth(c), items.ListQuery{
		Limit:  page.Limit,
		Cursor: page.Cursor,
		Status: models.ItemStatus(status),
		Mine:   mine,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, result)
}

func (h *ItemHandler) GetItemDetailHandler(c *gin.Context) {
	itemID, err := requiredQueryParam(c, "itemId")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	detail, err := h.ItemService.GetDetail(c.Request.Context(), middleware.MustAuth(c), itemID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, detail)
}

func (h *ItemHandler) UpdateItemHandler(c *gin.Context) {
	var input models.UpdateItemInput
	if err := utils.ParseBody(c, &input); err != nil {
		utils.RespondError(c, err)
		return
	}
	if err := h.ItemService.Update(c.Request.Context(), middleware.MustAuth(c), input); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"itemId": input.ItemID})
}

func (h *ItemHandler) ArchiveItemHandler(c *gin.Context) {
	var input models.ItemIDInput
	if err := utils.ParseBody(c, &input); err != nil {
		utils.RespondError(c, err)
		return
	}
	if err := h.ItemService.Archive(c.Request.Context(), middleware.MustAuth(c), input.ItemID); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"itemId": input.ItemID, "status": models.ItemArchived})
}

func (h *ItemHandler) AddItemMediaHandler(c *gin.Context) {
	var input models.AddItemMediaInput
	if err := utils.ParseBody(c, &input); err != nil {
		utils.RespondError(c, err)
		return
	}
	mediaID, err := h.ItemService.AddMedia(c.Request.Context(), middleware.MustAuth(c), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusCreated, gin.H{"itemId": input.ItemID, "mediaId": mediaID})
}
