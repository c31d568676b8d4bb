package handlers

import (
	"net/http"

	"secondlife/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the last backend probe taken by the health monitor.
type HealthHandler struct {
	Status func() utils.HealthStatus
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{Status: utils.GetHealthStatus}
}

func (h *HealthHandler) GetHealthHandler(c *gin.Context) {
	status := h.Status()
	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, utils.Envelope{Success: status.Healthy(), Data: status})
}
