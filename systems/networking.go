package systems

import "toolkit-keeper/internal/registry"

// networkingSystem is connected while enabled.
type networkingSystem struct {
	registry.BaseSystem
	connected bool
}

func newNetworkingSystem(args registry.Args) (NetworkingSystem, error) {
	return &networkingSystem{BaseSystem: registry.NewBaseSystem(args.Name, args.Priority)}, nil
}

func (n *networkingSystem) Enable() error {
	n.connected = true
	return nil
}

func (n *networkingSystem) Disable() error {
	n.connected = false
	return nil
}

func (n *networkingSystem) IsConnected() bool { return n.connected }
