package registry

import (
	"errors"
	"testing"

	"toolkit-keeper/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type widget interface {
	Service
	Widget()
}

type gadget interface {
	Service
	Gadget()
}

type cameraSys interface {
	System
	Camera()
}

type sensor interface {
	DataProvider
	Sense()
}

type probe struct {
	name     string
	priority uint32
	log      *[]string
	fail     map[string]bool
	panics   map[string]bool
	calls    map[string]int
}

func newProbe(name string, log *[]string) probe {
	return probe{name: name, log: log, fail: map[string]bool{}, panics: map[string]bool{}, calls: map[string]int{}}
}

func (p *probe) hit(phase string) error {
	p.calls[phase]++
	if p.log != nil {
		*p.log = append(*p.log, p.name+"."+phase)
	}
	if p.panics[phase] {
		panic(phase)
	}
	if p.fail[phase] {
		return errors.New(phase + " failed")
	}
	return nil
}

func (p *probe) Name() string       { return p.name }
func (p *probe) Priority() uint32   { return p.priority }
func (p *probe) Initialize() error  { return p.hit("Initialize") }
func (p *probe) Reset() error       { return p.hit("Reset") }
func (p *probe) Enable() error      { return p.hit("Enable") }
func (p *probe) Update() error      { return p.hit("Update") }
func (p *probe) LateUpdate() error  { return p.hit("LateUpdate") }
func (p *probe) FixedUpdate() error { return p.hit("FixedUpdate") }
func (p *probe) Disable() error     { return p.hit("Disable") }
func (p *probe) Destroy() error     { return p.hit("Destroy") }
func (p *probe) Dispose() error     { return p.hit("Dispose") }

type widgetProbe struct{ probe }

func (*widgetProbe) Widget() {}

type cameraProbe struct{ probe }

func (*cameraProbe) system() {}
func (*cameraProbe) Camera() {}

type sensorProbe struct {
	probe
	parent Service
}

func (s *sensorProbe) ParentService() Service { return s.parent }
func (*sensorProbe) Sense()                   {}

func newWidget(name string, log *[]string) *widgetProbe {
	return &widgetProbe{newProbe(name, log)}
}

func newCamera(name string, log *[]string) *cameraProbe {
	return &cameraProbe{newProbe(name, log)}
}

func newSensor(name string, parent Service, log *[]string) *sensorProbe {
	return &sensorProbe{probe: newProbe(name, log), parent: parent}
}

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	logger.SetLogger(zap.New(core))
	t.Cleanup(func() { logger.SetLogger(nil) })
	return logs
}

func TestRegisterValidation(t *testing.T) {
	observe(t)
	r := New()

	var missing *widgetProbe
	assert.ErrorIs(t, Register[widget](r, missing), ErrNilInstance)

	_, err := r.Register(ContractOf[gadget](), newWidget("w", nil))
	assert.ErrorIs(t, err, ErrContractMismatch)

	assert.ErrorIs(t, Register[widget](r, newWidget("   ", nil)), ErrEmptyName)
	assert.ErrorIs(t, Register[widget](r, newWidget("", nil)), ErrEmptyName)

	assert.Equal(t, 0, r.Len())
}

func TestRegisterDuplicateNameKeepsFirst(t *testing.T) {
	observe(t)
	for _, order := range [][2]string{{"a", "b"}, {"b", "a"}} {
		r := New()
		first := newWidget("dup", nil)
		first.priority = 1
		second := newWidget("dup", nil)
		second.priority = 2
		if order[0] == "b" {
			first, second = second, first
		}

		require.NoError(t, Register[widget](r, first))
		assert.ErrorIs(t, Register[widget](r, second), ErrDuplicateName)

		all := GetAll[widget](r, "dup")
		require.Len(t, all, 1)
		assert.Same(t, first, all[0])
	}
}

func TestRegisterSystemSlotIsSingleton(t *testing.T) {
	observe(t)
	r := New()
	require.NoError(t, Register[cameraSys](r, newCamera("main", nil)))
	assert.ErrorIs(t, Register[cameraSys](r, newCamera("other", nil)), ErrSystemOccupied)

	assert.Len(t, r.Systems(), 1)
	assert.True(t, IsSystemRegistered[cameraSys](r))
	cam, err := Get[cameraSys](r, "")
	require.NoError(t, err)
	assert.Equal(t, "main", cam.Name())
}

func TestRegisterAfterStartupInitializesAndEnables(t *testing.T) {
	observe(t)
	r := New()
	w := newWidget("late", nil)
	require.NoError(t, Register[widget](r, w))

	assert.Equal(t, 1, w.calls["Initialize"])
	assert.Equal(t, 1, w.calls["Enable"])
}

func TestRegisterInBulkDefersLifecycle(t *testing.T) {
	r := New()
	r.BeginBulk()
	w := newWidget("bulk", nil)
	require.NoError(t, Register[widget](r, w))
	r.EndBulk()

	assert.Zero(t, w.calls["Initialize"])
	assert.Zero(t, w.calls["Enable"])
	assert.False(t, r.InBulk())
}

func TestRegisterLifecycleFailureStillRegisters(t *testing.T) {
	logs := observe(t)
	r := New()
	w := newWidget("flaky", nil)
	w.fail["Initialize"] = true
	w.panics["Enable"] = true

	require.NoError(t, Register[widget](r, w))
	assert.True(t, IsRegistered[widget](r, "flaky"))
	assert.Equal(t, 2, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestGetAmbiguousAndNamed(t *testing.T) {
	observe(t)
	r := New()
	require.NoError(t, Register[widget](r, newWidget("one", nil)))
	require.NoError(t, Register[widget](r, newWidget("two", nil)))

	_, err := Get[widget](r, "")
	assert.ErrorIs(t, err, ErrAmbiguous)

	two, err := Get[widget](r, "two")
	require.NoError(t, err)
	assert.Equal(t, "two", two.Name())

	assert.Len(t, GetAll[widget](r, ""), 2)

	_, ok := TryGet[widget](r, "three")
	assert.False(t, ok)
	_, ok = TryGet[gadget](r, "")
	assert.False(t, ok)
}

func TestUnregisterCascadesToDataProviders(t *testing.T) {
	observe(t)
	var log []string
	r := New()
	cam := newCamera("camera", &log)
	require.NoError(t, Register[cameraSys](r, cam))
	require.NoError(t, Register[sensor](r, newSensor("left", cam, &log)))
	require.NoError(t, Register[sensor](r, newSensor("right", cam, &log)))

	entry := r.Find(cam)
	require.NotNil(t, entry)
	assert.Len(t, r.Dependents(entry.Handle), 2)

	log = nil
	require.NoError(t, Unregister[cameraSys](r, ""))

	assert.Equal(t, []string{
		"left.Disable", "left.Destroy", "left.Dispose",
		"right.Disable", "right.Destroy", "right.Dispose",
		"camera.Disable", "camera.Destroy", "camera.Dispose",
	}, log)
	assert.Empty(t, GetAll[sensor](r, ""))
	assert.False(t, IsSystemRegistered[cameraSys](r))
}

func TestUnregisterStepsAreIndependent(t *testing.T) {
	observe(t)
	r := New()
	w := newWidget("stubborn", nil)
	w.fail["Disable"] = true
	w.panics["Destroy"] = true
	require.NoError(t, Register[widget](r, w))

	require.NoError(t, Unregister[widget](r, "stubborn"))
	assert.Equal(t, 1, w.calls["Destroy"])
	assert.Equal(t, 1, w.calls["Dispose"])

	_, err := Get[widget](r, "stubborn")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnregisterByContractRemovesAll(t *testing.T) {
	observe(t)
	r := New()
	require.NoError(t, Register[widget](r, newWidget("one", nil)))
	require.NoError(t, Register[widget](r, newWidget("two", nil)))

	require.NoError(t, Unregister[widget](r, ""))
	assert.Equal(t, 0, r.Len())
	assert.ErrorIs(t, Unregister[widget](r, ""), ErrNotFound)
}

func TestUnregisterInstanceRemovesOnlyThatProvider(t *testing.T) {
	observe(t)
	r := New()
	cam := newCamera("camera", nil)
	left := newSensor("left", cam, nil)
	require.NoError(t, Register[cameraSys](r, cam))
	require.NoError(t, Register[sensor](r, left))
	require.NoError(t, Register[sensor](r, newSensor("right", cam, nil)))

	require.NoError(t, r.UnregisterInstance(left))
	assert.Equal(t, 1, left.calls["Dispose"])

	entry := r.Find(cam)
	require.NotNil(t, entry)
	deps := r.Dependents(entry.Handle)
	require.Len(t, deps, 1)
	assert.Equal(t, "right", deps[0].Instance.Name())
	assert.ErrorIs(t, r.UnregisterInstance(left), ErrNotFound)
}

func TestSetEnabled(t *testing.T) {
	observe(t)
	r := New()
	w := newWidget("toggle", nil)
	require.NoError(t, Register[widget](r, w))

	require.NoError(t, DisableService[widget](r, "toggle"))
	require.NoError(t, EnableService[widget](r, "toggle"))
	assert.Equal(t, 1, w.calls["Disable"])
	assert.Equal(t, 2, w.calls["Enable"])
	assert.ErrorIs(t, EnableService[gadget](r, ""), ErrNotFound)
}

func TestReorderRequiresSameEntries(t *testing.T) {
	observe(t)
	r := New()
	require.NoError(t, Register[widget](r, newWidget("one", nil)))
	require.NoError(t, Register[widget](r, newWidget("two", nil)))

	services := r.Services()
	require.NoError(t, r.Reorder(nil, []*Entry{services[1], services[0]}))
	assert.Equal(t, "two", r.Services()[0].Instance.Name())

	assert.Error(t, r.Reorder(nil, services[:1]))
}

func TestClearHidesEntries(t *testing.T) {
	observe(t)
	r := New()
	w := newWidget("gone", nil)
	require.NoError(t, Register[widget](r, w))
	r.Clear()

	assert.Nil(t, r.Find(w))
	assert.False(t, IsRegistered[widget](r, ""))
	assert.Zero(t, w.calls["Dispose"])
}

func TestContractByName(t *testing.T) {
	observe(t)
	r := New()
	require.NoError(t, Register[widget](r, newWidget("one", nil)))

	c, ok := r.ContractByName(ContractName(ContractOf[widget]()))
	require.True(t, ok)
	assert.Equal(t, ContractOf[widget](), c)
}
