package models

// PlatformInfo 平台描述信息
type PlatformInfo struct {
	Name                 string   `json:"name" example:"linux"`
	Available            bool     `json:"available"`
	BuildTargetAvailable bool     `json:"buildTargetAvailable"`
	Active               bool     `json:"active"`
	Overrides            []string `json:"overrides,omitempty"`
}

type PlatformListResponse struct {
	Editor      bool           `json:"editor"`
	BuildTarget string         `json:"buildTarget,omitempty"`
	GOOS        string         `json:"goos"`
	Platforms   []PlatformInfo `json:"platforms"`
}

// PlatformCheckRequest asks whether a platform list is eligible.
type PlatformCheckRequest struct {
	Platforms []string `json:"platforms" binding:"required"`
}

type PlatformCheckResponse struct {
	Platforms       []string `json:"platforms"`
	Eligible        bool     `json:"eligible"`
	ActivePlatforms []string `json:"activePlatforms"`
}
