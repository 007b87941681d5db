package systems

import "toolkit-keeper/internal/registry"

// Factory keys of the built-in implementations.
const (
	KeyDefault        = "default"
	KeyFocusDefault   = "input.focus"
	KeyProcessMonitor = "diagnostics.process"
	KeyHeartbeat      = "heartbeat"
)

/**
 * Install built-in implementations into a factory table
 * @param {*registry.Factories} f - Factory table to populate
 * @description
 * - Every system contract gets a "default" headless implementation
 * - Providers and general services use keys unique across contracts
 */
func RegisterDefaults(f *registry.Factories) {
	registry.RegisterFactory(f, KeyDefault, newCameraSystem)
	registry.RegisterFactory(f, KeyDefault, newInputSystem)
	registry.RegisterFactory(f, KeyDefault, newBoundarySystem)
	registry.RegisterFactory(f, KeyDefault, newSpatialAwarenessSystem)
	registry.RegisterFactory(f, KeyDefault, newTeleportSystem)
	registry.RegisterFactory(f, KeyDefault, newNetworkingSystem)
	registry.RegisterFactory(f, KeyDefault, newDiagnosticsSystem)

	registry.RegisterFactory(f, KeyFocusDefault, newFocusProvider)
	registry.RegisterFactory(f, KeyProcessMonitor, newProcessProvider)
	registry.RegisterFactory(f, KeyHeartbeat, newHeartbeat)
}
