package systems

import "toolkit-keeper/internal/registry"

type spatialAwarenessSystem struct {
	registry.BaseSystem
	reg *registry.Registry
}

func newSpatialAwarenessSystem(args registry.Args) (SpatialAwarenessSystem, error) {
	return &spatialAwarenessSystem{
		BaseSystem: registry.NewBaseSystem(args.Name, args.Priority),
		reg:        args.Registry,
	}, nil
}

// ObserverCount is the number of data providers registered under this system.
func (s *spatialAwarenessSystem) ObserverCount() int {
	if s.reg == nil {
		return 0
	}
	self := s.reg.Find(s)
	if self == nil {
		return 0
	}
	return len(s.reg.Dependents(self.Handle))
}

type teleportSystem struct {
	registry.BaseSystem
}

func newTeleportSystem(args registry.Args) (TeleportSystem, error) {
	return &teleportSystem{BaseSystem: registry.NewBaseSystem(args.Name, args.Priority)}, nil
}

func (t *teleportSystem) IsTeleporting() bool { return false }
