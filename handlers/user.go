package handlers

import (
	"net/http"

	"secondlife/middleware"
	"secondlife/models"
	"secondlife/services/user"
	"secondlife/utils"

	"github.com/gin-gonic/gin"
)

// UserHandler serves the caller's identity and profile.
type UserHandler struct {
	UserService user.UserService
}

func NewUserHandler(us user.UserService) *UserHandler {
	return &UserHandler{UserService: us}
}

// GetSessionContextHandler echoes the resolved identity.
func (h *UserHandler) GetSessionContextHandler(c *gin.Context) {
	utils.RespondOK(c, http.StatusOK, middleware.MustAuth(c))
}

func (h *UserHandler) GetMyProfileHandler(c *gin.Context) {
	profile, err := h.UserService.GetProfile(c.Request.Context(), middleware.MustAuth(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, profile)
}

func (h *UserHandler) UpsertMyProfileHandler(c *gin.Context) {
	caller := middleware.MustAuth(c)
	var input models.UpsertProfileInput
	if err := utils.ParseBody(c, &input); err != nil {
		utils.RespondError(c, err)
		return
	}
	if err := h.UserService.UpsertProfile(c.Request.Context(), caller, input); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"uid": caller.UID})
}
