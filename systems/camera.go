package systems

import "toolkit-keeper/internal/registry"

type cameraSystem struct {
	registry.BaseSystem
	opaque bool
}

func newCameraSystem(args registry.Args) (CameraSystem, error) {
	return &cameraSystem{
		BaseSystem: registry.NewBaseSystem(args.Name, args.Priority),
		opaque:     settingBool(args.Settings, "opaque", true),
	}, nil
}

func (c *cameraSystem) IsOpaque() bool { return c.opaque }
