package controllers

import (
	"net/http"

	"toolkit-keeper/internal/models"
	"toolkit-keeper/services"

	"github.com/gin-gonic/gin"
)

type PlatformController struct {
	server *services.Server
}

func NewPlatformController(server *services.Server) *PlatformController {
	return &PlatformController{
		server: server,
	}
}

func (p *PlatformController) RegisterRoutes(r *gin.Engine) {
	api := r.Group(apiPrefix)
	api.GET("/platforms", p.ListPlatforms)
	api.POST("/platforms/check", p.CheckPlatforms)
}

// ListPlatforms lists discovered platform descriptors
//
//	@Summary		List platforms
//	@Description	Get the runtime environment and every discovered platform with its state
//	@Tags			Platforms
//	@Produce		json
//	@Success		200	{object}	models.PlatformListResponse
//	@Router			/toolkit/api/v1/platforms [get]
func (p *PlatformController) ListPlatforms(c *gin.Context) {
	resp, err := p.server.Platforms(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CheckPlatforms checks whether a platform list is eligible on the active platforms
//
//	@Summary		Check platform eligibility
//	@Tags			Platforms
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.PlatformCheckRequest	true	"Platforms to check"
//	@Success		200		{object}	models.PlatformCheckResponse
//	@Failure		400		{object}	models.ErrorResponse
//	@Router			/toolkit/api/v1/platforms/check [post]
func (p *PlatformController) CheckPlatforms(c *gin.Context) {
	var req models.PlatformCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, &models.ErrorResponse{Code: "request.invalid", Error: err.Error()})
		return
	}
	resp, err := p.server.CheckPlatforms(c.Request.Context(), req.Platforms)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
