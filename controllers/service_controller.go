package controllers

import (
	"net/http"

	"toolkit-keeper/services"

	"github.com/gin-gonic/gin"
)

type ServiceController struct {
	server *services.Server
}

/**
 * Create new Service controller instance
 * @param {*services.Server} server - Frame loop host owning the registry
 * @returns {*ServiceController} New Service controller instance
 */
func NewServiceController(server *services.Server) *ServiceController {
	return &ServiceController{
		server: server,
	}
}

/**
 * Register all service API routes to Gin engine
 * @param {*gin.Engine} r - Gin router instance
 * @description
 * - Services are addressed by printable contract name, e.g. "systems.BoundarySystem"
 * - The optional "name" query parameter selects one instance
 */
func (s *ServiceController) RegisterRoutes(r *gin.Engine) {
	api := r.Group(apiPrefix)
	api.GET("/services", s.ListServices)
	api.GET("/services/:contract", s.GetService)
	api.POST("/services/:contract/enable", s.EnableService)
	api.POST("/services/:contract/disable", s.DisableService)
	api.DELETE("/services/:contract", s.RemoveService)
}

// ListServices lists all registered systems and services
//
//	@Summary		List all services
//	@Description	Get registered systems and services in call order
//	@Tags			Services
//	@Produce		json
//	@Success		200	{object}	models.ServiceListResponse	"Registered instances"
//	@Failure		503	{object}	models.ErrorResponse		"Frame loop stopped"
//	@Router			/toolkit/api/v1/services [get]
func (s *ServiceController) ListServices(c *gin.Context) {
	resp, err := s.server.ListServices(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetService gets the instances registered for a contract
//
//	@Summary		Get service information
//	@Description	Get registered instances of a contract, optionally filtered by name
//	@Tags			Services
//	@Produce		json
//	@Param			contract	path		string					true	"Contract name"
//	@Param			name		query		string					false	"Instance name"
//	@Success		200			{array}		models.ServiceDetail	"Matching instances"
//	@Failure		404			{object}	models.ErrorResponse	"Service not found error response"
//	@Router			/toolkit/api/v1/services/{contract} [get]
func (s *ServiceController) GetService(c *gin.Context) {
	details, err := s.server.GetService(c.Request.Context(), c.Param("contract"), c.Query("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// EnableService enables instances of a contract
//
//	@Summary		Enable service
//	@Tags			Services
//	@Produce		json
//	@Param			contract	path		string					true	"Contract name"
//	@Param			name		query		string					false	"Instance name"
//	@Success		200			{object}	map[string]interface{}	"Success response"
//	@Failure		404			{object}	models.ErrorResponse	"Service not found error response"
//	@Failure		500			{object}	models.ErrorResponse	"Enable failed"
//	@Router			/toolkit/api/v1/services/{contract}/enable [post]
func (s *ServiceController) EnableService(c *gin.Context) {
	s.setEnabled(c, true)
}

// DisableService disables instances of a contract
//
//	@Summary		Disable service
//	@Tags			Services
//	@Produce		json
//	@Param			contract	path		string					true	"Contract name"
//	@Param			name		query		string					false	"Instance name"
//	@Success		200			{object}	map[string]interface{}	"Success response"
//	@Failure		404			{object}	models.ErrorResponse	"Service not found error response"
//	@Failure		500			{object}	models.ErrorResponse	"Disable failed"
//	@Router			/toolkit/api/v1/services/{contract}/disable [post]
func (s *ServiceController) DisableService(c *gin.Context) {
	s.setEnabled(c, false)
}

func (s *ServiceController) setEnabled(c *gin.Context, enabled bool) {
	if err := s.server.SetEnabled(c.Request.Context(), c.Param("contract"), c.Query("name"), enabled); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// RemoveService unregisters instances of a contract together with their data providers
//
//	@Summary		Remove service
//	@Tags			Services
//	@Produce		json
//	@Param			contract	path		string					true	"Contract name"
//	@Param			name		query		string					false	"Instance name, empty removes every instance"
//	@Success		200			{object}	map[string]interface{}	"Success response"
//	@Failure		404			{object}	models.ErrorResponse	"Service not found error response"
//	@Router			/toolkit/api/v1/services/{contract} [delete]
func (s *ServiceController) RemoveService(c *gin.Context) {
	if err := s.server.RemoveService(c.Request.Context(), c.Param("contract"), c.Query("name")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
