package controllers

import (
	"toolkit-keeper/internal/config"
	"toolkit-keeper/internal/middleware"
	"toolkit-keeper/services"

	"github.com/gin-gonic/gin"
)

/**
 * Build Gin engine with every keeper route
 * @param {*services.Server} server - Frame loop host
 * @param {*config.AppConfig} cfg - Application configuration
 * @returns {*gin.Engine} Router ready to serve
 */
func NewRouter(server *services.Server, cfg *config.AppConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.MetricsMiddleware())

	NewAPIController(server).RegisterRoutes(router, cfg.Metrics)
	NewServiceController(server).RegisterRoutes(router)
	NewPlatformController(server).RegisterRoutes(router)
	return router
}
