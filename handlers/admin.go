package handlers

import (
	"net/http"

	"secondlife/services/user"
	"secondlife/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler encapsulates elevated admin-level operations.
type AdminHandler struct {
	UserService user.UserService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(us user.UserService) *AdminHandler {
	return &AdminHandler{UserService: us}
}

// ListUsersHandler returns the first users with their roles.
func (ah *AdminHandler) ListUsersHandler(c *gin.Context) {
	users, err := ah.UserService.ListUsers(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, users)
}
