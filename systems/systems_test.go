package systems

import (
	"testing"
	"time"

	"toolkit-keeper/internal/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build[T registry.Service](t *testing.T, f *registry.Factories, key string, args registry.Args) T {
	t.Helper()
	s, err := f.Build(registry.ContractOf[T](), key, args)
	require.NoError(t, err)
	out, ok := s.(T)
	require.True(t, ok)
	return out
}

func TestRegisterDefaultsCoversEverySlot(t *testing.T) {
	f := registry.NewFactories()
	RegisterDefaults(f)

	for _, contract := range []any{
		registry.ContractOf[CameraSystem](),
		registry.ContractOf[InputSystem](),
		registry.ContractOf[BoundarySystem](),
		registry.ContractOf[SpatialAwarenessSystem](),
		registry.ContractOf[TeleportSystem](),
		registry.ContractOf[NetworkingSystem](),
		registry.ContractOf[DiagnosticsSystem](),
	} {
		assert.Contains(t, f.Contracts(), contract)
	}

	contract, err := f.Resolve(KeyProcessMonitor)
	require.NoError(t, err)
	assert.Equal(t, registry.ContractOf[DiagnosticsDataProvider](), contract)
}

func TestBoundarySystem(t *testing.T) {
	f := registry.NewFactories()
	RegisterDefaults(f)

	b := build[BoundarySystem](t, f, KeyDefault, registry.Args{
		Name:     "boundary",
		Settings: map[string]any{"width": 4.0, "depth": 2},
	})
	assert.True(t, b.IsInsideBoundary(1.9, -0.9))
	assert.False(t, b.IsInsideBoundary(2.1, 0))
	assert.False(t, b.IsInsideBoundary(0, 1.5))

	_, err := f.Build(registry.ContractOf[BoundarySystem](), KeyDefault, registry.Args{
		Name:     "bad",
		Settings: map[string]any{"width": -1.0},
	})
	assert.Error(t, err)
}

func TestNetworkingFollowsEnable(t *testing.T) {
	f := registry.NewFactories()
	RegisterDefaults(f)
	n := build[NetworkingSystem](t, f, KeyDefault, registry.Args{Name: "net"})

	assert.False(t, n.IsConnected())
	require.NoError(t, n.Enable())
	assert.True(t, n.IsConnected())
	require.NoError(t, n.Disable())
	assert.False(t, n.IsConnected())
}

func TestInputSystemFindsFocusProvider(t *testing.T) {
	f := registry.NewFactories()
	RegisterDefaults(f)
	reg := registry.New()

	input := build[InputSystem](t, f, KeyDefault, registry.Args{Name: "input", Registry: reg})
	require.NoError(t, registry.Register(reg, input))
	_, ok := input.FocusProvider()
	assert.False(t, ok)

	focus := build[FocusProvider](t, f, KeyFocusDefault, registry.Args{Name: "focus", Parent: input, Registry: reg})
	require.NoError(t, registry.Register(reg, focus))

	got, ok := input.FocusProvider()
	require.True(t, ok)
	assert.Equal(t, "application", got.FocusTarget())
	got.(registry.FocusHandler).OnApplicationFocus(false)
	assert.Empty(t, got.FocusTarget())
}

func TestProcessProviderSamplesOnInterval(t *testing.T) {
	f := registry.NewFactories()
	RegisterDefaults(f)
	reg := registry.New()

	diag := build[DiagnosticsSystem](t, f, KeyDefault, registry.Args{Name: "diagnostics", Registry: reg})
	require.NoError(t, registry.Register(reg, diag))

	provider := build[DiagnosticsDataProvider](t, f, KeyProcessMonitor, registry.Args{
		Name:     "process",
		Parent:   diag,
		Settings: map[string]any{"interval": "10s"},
	})
	pp := provider.(*processProvider)
	clock := time.Unix(1000, 0)
	pp.now = func() time.Time { return clock }
	require.NoError(t, registry.Register(reg, provider))

	_, ok := provider.Latest()
	assert.False(t, ok)

	require.NoError(t, provider.Update())
	first, ok := provider.Latest()
	require.True(t, ok)
	assert.Equal(t, clock, first.Timestamp)
	assert.NotZero(t, first.RSS)

	clock = clock.Add(time.Second)
	require.NoError(t, provider.Update())
	again, _ := provider.Latest()
	assert.Equal(t, first.Timestamp, again.Timestamp, "within interval")

	clock = clock.Add(10 * time.Second)
	require.NoError(t, provider.Update())
	later, _ := provider.Latest()
	assert.Equal(t, clock, later.Timestamp)

	samples := diag.Samples()
	require.Len(t, samples, 1)
	assert.Equal(t, "process", samples[0].Provider)
}

func TestProcessProviderRejectsBadInterval(t *testing.T) {
	f := registry.NewFactories()
	RegisterDefaults(f)

	for _, v := range []any{"soon", "-1s", 3.5} {
		_, err := f.Build(registry.ContractOf[DiagnosticsDataProvider](), KeyProcessMonitor, registry.Args{
			Name:     "process",
			Settings: map[string]any{"interval": v},
		})
		assert.Error(t, err, "%v", v)
	}
}

func TestHeartbeatCountsWhileEnabled(t *testing.T) {
	f := registry.NewFactories()
	RegisterDefaults(f)
	h := build[Heartbeat](t, f, KeyHeartbeat, registry.Args{Name: "beat"})

	require.NoError(t, h.FixedUpdate())
	assert.Zero(t, h.Beats())
	require.NoError(t, h.Enable())
	require.NoError(t, h.FixedUpdate())
	require.NoError(t, h.FixedUpdate())
	assert.Equal(t, uint64(2), h.Beats())
}

func TestDiagnosticsShowSettingSurvivesEnable(t *testing.T) {
	f := registry.NewFactories()
	RegisterDefaults(f)
	r := registry.New()

	hidden := build[DiagnosticsSystem](t, f, KeyDefault, registry.Args{
		Name:     "Diagnostics System",
		Settings: map[string]any{"show": false},
		Registry: r,
	})
	require.NoError(t, registry.Register(r, hidden))
	assert.False(t, hidden.ShowDiagnostics())

	require.NoError(t, hidden.Disable())
	require.NoError(t, hidden.Enable())
	assert.False(t, hidden.ShowDiagnostics())

	shown := build[DiagnosticsSystem](t, f, KeyDefault, registry.Args{Name: "shown"})
	require.NoError(t, shown.Disable())
	assert.False(t, shown.ShowDiagnostics())
	require.NoError(t, shown.Enable())
	assert.True(t, shown.ShowDiagnostics())
}

func TestHeartbeatRejectsNegativeLogEvery(t *testing.T) {
	f := registry.NewFactories()
	RegisterDefaults(f)

	_, err := f.Build(registry.ContractOf[Heartbeat](), KeyHeartbeat, registry.Args{
		Name:     "beat",
		Settings: map[string]any{"log_every": -3},
	})
	assert.Error(t, err)

	h := build[Heartbeat](t, f, KeyHeartbeat, registry.Args{
		Name:     "beat",
		Settings: map[string]any{"log_every": 2},
	})
	require.NoError(t, h.Enable())
	require.NoError(t, h.FixedUpdate())
	assert.Equal(t, uint64(1), h.Beats())
}
