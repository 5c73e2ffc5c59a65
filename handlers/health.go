package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"serviqo/utils"
)

// HealthHandler reports the last observed Mongo and Redis health.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Mongo || !status.Redis {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
