package systems

import (
	"fmt"
	"math"

	"toolkit-keeper/internal/registry"
)

// boundarySystem is a rectangular play area centred on the origin.
type boundarySystem struct {
	registry.BaseSystem
	width float64
	depth float64
}

func newBoundarySystem(args registry.Args) (BoundarySystem, error) {
	b := &boundarySystem{
		BaseSystem: registry.NewBaseSystem(args.Name, args.Priority),
		width:      settingFloat(args.Settings, "width", 2),
		depth:      settingFloat(args.Settings, "depth", 2),
	}
	if b.width <= 0 || b.depth <= 0 {
		return nil, fmt.Errorf("boundary size must be positive, got %gx%g", b.width, b.depth)
	}
	return b, nil
}

func (b *boundarySystem) IsInsideBoundary(x, z float64) bool {
	return math.Abs(x) <= b.width/2 && math.Abs(z) <= b.depth/2
}
