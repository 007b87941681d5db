package controllers

import (
	"errors"
	"net/http"

	"toolkit-keeper/internal/config"
	"toolkit-keeper/internal/models"
	"toolkit-keeper/internal/registry"
	"toolkit-keeper/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const apiPrefix = "/toolkit/api/v1"

type APIController struct {
	server *services.Server
}

/**
 * Create new API controller instance
 * @param {*services.Server} server - Frame loop host the handlers talk to
 * @returns {*APIController} New API controller instance
 * @example
 * server := services.NewDefaultServer(&config.Config)
 * controller := controllers.NewAPIController(server)
 */
func NewAPIController(server *services.Server) *APIController {
	return &APIController{
		server: server,
	}
}

/**
 * Register runtime-wide API routes to Gin engine
 * @param {*gin.Engine} r - Gin router instance
 * @param {config.MetricsConfig} metrics - Metrics endpoint settings
 * @description
 * - Registers reload, diagnostics, focus and pause under /toolkit/api/v1
 * - Registers /healthz and, when enabled, the prometheus endpoint
 */
func (a *APIController) RegisterRoutes(r *gin.Engine, metrics config.MetricsConfig) {
	api := r.Group(apiPrefix)
	api.POST("/reload", a.Reload)
	api.GET("/diagnostics", a.Diagnostics)
	api.POST("/focus", a.Focus)
	api.POST("/pause", a.Pause)
	r.GET("/healthz", a.Healthz)
	if metrics.Enabled {
		r.GET(metrics.Path, gin.WrapH(promhttp.Handler()))
	}
}

// errorStatus maps runtime errors to HTTP status codes and error codes.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, registry.ErrNotFound):
		return http.StatusNotFound, "service.notexist"
	case errors.Is(err, registry.ErrAmbiguous):
		return http.StatusConflict, "service.ambiguous"
	case errors.Is(err, services.ErrResetInProgress):
		return http.StatusConflict, "toolkit.busy"
	case errors.Is(err, services.ErrServerStopped):
		return http.StatusServiceUnavailable, "toolkit.stopped"
	default:
		return http.StatusInternalServerError, "toolkit.failed"
	}
}

func respondError(c *gin.Context, err error) {
	status, code := errorStatus(err)
	c.JSON(status, &models.ErrorResponse{
		Code:  code,
		Error: err.Error(),
	})
}

// @Summary 重新加载配置
// @Description 重新读取工具包配置文件并重置运行时
// @Tags Toolkit
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} models.ErrorResponse "正在重置"
// @Failure 500 {object} models.ErrorResponse
// @Router /toolkit/api/v1/reload [post]
func (a *APIController) Reload(c *gin.Context) {
	if err := a.server.Reload(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Profile reloaded successfully",
	})
}

// @Summary 诊断数据
// @Description 返回诊断系统收集的进程资源采样
// @Tags Toolkit
// @Produce json
// @Success 200 {object} models.DiagnosticsResponse
// @Router /toolkit/api/v1/diagnostics [get]
func (a *APIController) Diagnostics(c *gin.Context) {
	resp, err := a.server.Diagnostics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type focusRequest struct {
	Focused *bool `json:"focused" binding:"required"`
}

type pauseRequest struct {
	Paused *bool `json:"paused" binding:"required"`
}

// @Summary 应用焦点变化
// @Description 通知所有服务应用获得或失去焦点
// @Tags Toolkit
// @Accept json
// @Produce json
// @Param request body focusRequest true "focused"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Router /toolkit/api/v1/focus [post]
func (a *APIController) Focus(c *gin.Context) {
	var req focusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, &models.ErrorResponse{Code: "request.invalid", Error: err.Error()})
		return
	}
	if err := a.server.SetFocus(c.Request.Context(), *req.Focused); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// @Summary 应用暂停变化
// @Description 通知所有服务应用暂停或恢复
// @Tags Toolkit
// @Accept json
// @Produce json
// @Param request body pauseRequest true "paused"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Router /toolkit/api/v1/pause [post]
func (a *APIController) Pause(c *gin.Context) {
	var req pauseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, &models.ErrorResponse{Code: "request.invalid", Error: err.Error()})
		return
	}
	if err := a.server.SetPause(c.Request.Context(), *req.Paused); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// @Summary 业务就绪探针
// @Description 检查服务是否已经做好准备，返回服务版本、启动时间、健康状态和关键指标统计结果
// @Tags System
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /healthz [get]
func (a *APIController) Healthz(c *gin.Context) {
	response := a.server.GetHealthz(c.Request.Context())
	c.JSON(http.StatusOK, response)
}
