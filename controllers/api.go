package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"speckeeper/internal/config"
	"speckeeper/internal/env"
	"speckeeper/internal/middleware"
	"speckeeper/services"
)

type APIController struct {
	manager *services.SpecManager
}

/**
 * Create new API controller instance
 * @param {*services.SpecManager} manager - Spec manager backing the API
 * @returns {*APIController} New API controller instance
 */
func NewAPIController(manager *services.SpecManager) *APIController {
	return &APIController{
		manager: manager,
	}
}

/**
 * Register housekeeping routes to Gin engine
 * @param {*gin.Engine} r - Gin router instance
 * @description
 * - Registers /healthz and the config/spec reload endpoints
 */
func (a *APIController) RegisterRoutes(r *gin.Engine) {
	r.POST("/speckeeper/api/v1/reload", a.Reload)
	r.GET("/healthz", a.Healthz)
}

// @Summary Reload configuration and rescan the spec directory
// @Tags Config
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} ErrorResponse
// @Router /speckeeper/api/v1/reload [post]
func (a *APIController) Reload(c *gin.Context) {
	if err := config.ReloadConfig(); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	if err := a.manager.Rescan(); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(200, gin.H{"message": "reloaded", "specs": len(a.manager.Specs())})
}

// @Summary Health check
// @Tags Health
// @Success 200 {object} map[string]interface{}
// @Router /healthz [get]
func (a *APIController) Healthz(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":         "ok",
		"daemon":         env.Daemon,
		"listen_port":    env.ListenPort,
		"specs":          len(a.manager.Specs()),
		"total_requests": middleware.GetTotalRequests(),
		"error_requests": middleware.GetErrorRequests(),
	})
}
