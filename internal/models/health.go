package models

// HealthResponse 健康检查响应结构
// @Description 健康检查API响应数据结构
type HealthResponse struct {
	Version         string   `json:"version" example:"1.0.0"`
	StartTime       string   `json:"startTime" example:"2024-01-01T10:00:00Z"`
	Status          string   `json:"status" example:"UP"`
	State           string   `json:"state" example:"running"`
	Uptime          string   `json:"uptime" example:"1h30m45s"`
	ActivePlatforms []string `json:"activePlatforms"`
	Metrics         Metrics  `json:"metrics"`
}

// Metrics 关键指标结构
type Metrics struct {
	TotalRequests   int64  `json:"totalRequests" example:"1000"`
	ErrorRequests   int64  `json:"errorRequests" example:"5"`
	Systems         int    `json:"systems" example:"7"`
	Services        int    `json:"services" example:"3"`
	Frames          uint64 `json:"frames" example:"36000"`
	LifecycleErrors int64  `json:"lifecycleErrors" example:"0"`
}
