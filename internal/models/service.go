package models

// ServiceDetail describes one registered instance.
type ServiceDetail struct {
	Handle   string `json:"handle"`
	Name     string `json:"name"`
	Contract string `json:"contract"`
	Kind     string `json:"kind"`
	Type     string `json:"type"`
	Priority uint32 `json:"priority"`
	Parent   string `json:"parent,omitempty"`
}

const (
	KindSystem  = "system"
	KindService = "service"
)

// ServiceListResponse is returned by the service listing API.
type ServiceListResponse struct {
	State    string          `json:"state"`
	Systems  []ServiceDetail `json:"systems"`
	Services []ServiceDetail `json:"services"`
}
