package systems

import (
	"toolkit-keeper/internal/models"
	"toolkit-keeper/internal/registry"
)

// CameraSystem owns camera settings of the host.
type CameraSystem interface {
	registry.System
	IsOpaque() bool
}

// InputSystem routes input through its focus provider.
type InputSystem interface {
	registry.System
	FocusProvider() (FocusProvider, bool)
}

// FocusProvider tracks what currently holds input focus.
type FocusProvider interface {
	registry.DataProvider
	FocusTarget() string
}

// BoundarySystem describes the play area.
type BoundarySystem interface {
	registry.System
	IsInsideBoundary(x, z float64) bool
}

// SpatialAwarenessSystem aggregates spatial observers.
type SpatialAwarenessSystem interface {
	registry.System
	ObserverCount() int
}

// TeleportSystem moves the user between locations.
type TeleportSystem interface {
	registry.System
	IsTeleporting() bool
}

// NetworkingSystem reports session connectivity.
type NetworkingSystem interface {
	registry.System
	IsConnected() bool
}

// DiagnosticsSystem collects samples from its data providers.
type DiagnosticsSystem interface {
	registry.System
	ShowDiagnostics() bool
	Samples() []models.ProcessSample
}

// DiagnosticsDataProvider produces resource samples.
type DiagnosticsDataProvider interface {
	registry.DataProvider
	Latest() (models.ProcessSample, bool)
}

// Heartbeat is a general service counting fixed ticks.
type Heartbeat interface {
	registry.Service
	Beats() uint64
}
