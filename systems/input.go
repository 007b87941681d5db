package systems

import (
	"toolkit-keeper/internal/logger"
	"toolkit-keeper/internal/registry"
)

type inputSystem struct {
	registry.BaseSystem
	reg *registry.Registry
}

func newInputSystem(args registry.Args) (InputSystem, error) {
	return &inputSystem{
		BaseSystem: registry.NewBaseSystem(args.Name, args.Priority),
		reg:        args.Registry,
	}, nil
}

func (s *inputSystem) Initialize() error {
	if _, ok := s.FocusProvider(); !ok {
		logger.Warnf("Input system [%s] has no focus provider", s.Name())
	}
	return nil
}

func (s *inputSystem) FocusProvider() (FocusProvider, bool) {
	if s.reg == nil {
		return nil, false
	}
	return registry.TryGet[FocusProvider](s.reg, "")
}

// focusProvider follows application focus.
type focusProvider struct {
	registry.BaseDataProvider
	focused bool
}

func newFocusProvider(args registry.Args) (FocusProvider, error) {
	return &focusProvider{
		BaseDataProvider: registry.NewBaseDataProvider(args.Name, args.Priority, args.Parent),
		focused:          true,
	}, nil
}

func (f *focusProvider) OnApplicationFocus(focused bool) {
	f.focused = focused
}

func (f *focusProvider) FocusTarget() string {
	if !f.focused {
		return ""
	}
	return "application"
}
