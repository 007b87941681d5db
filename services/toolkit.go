package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"toolkit-keeper/internal/logger"
	"toolkit-keeper/internal/models"
	"toolkit-keeper/internal/platform"
	"toolkit-keeper/internal/registry"
	"toolkit-keeper/systems"

	"github.com/looplab/fsm"
	"golang.org/x/time/rate"
)

var (
	ErrResetInProgress   = errors.New("reset or initialization already in progress")
	ErrNilProfile        = errors.New("toolkit profile is nil")
	ErrNoActivePlatforms = platform.ErrNoActivePlatforms
)

// Orchestrator states.
const (
	StateUninitialized = "uninitialized"
	StateResetting     = "resetting"
	StateDisabling     = "disabling"
	StateDestroying    = "destroying"
	StateDiscovering   = "discovering"
	StateRegistering   = "registering"
	StatePrioritizing  = "prioritizing"
	StateInitializing  = "initializing"
	StateRunning       = "running"
)

const (
	evReset      = "reset"
	evDisable    = "disable"
	evDestroy    = "destroy"
	evDiscover   = "discover"
	evRegister   = "register"
	evPrioritize = "prioritize"
	evInitialize = "initialize"
	evRun        = "run"
	evFinish     = "finish"
	evAbort      = "abort"
)

func newStateMachine(onEnter func(from, to string)) *fsm.FSM {
	return fsm.NewFSM(
		StateUninitialized,
		fsm.Events{
			{Name: evReset, Src: []string{StateUninitialized, StateRunning}, Dst: StateResetting},
			{Name: evDisable, Src: []string{StateResetting, StateRunning}, Dst: StateDisabling},
			{Name: evDestroy, Src: []string{StateDisabling}, Dst: StateDestroying},
			{Name: evDiscover, Src: []string{StateResetting, StateDestroying}, Dst: StateDiscovering},
			{Name: evRegister, Src: []string{StateDiscovering}, Dst: StateRegistering},
			{Name: evPrioritize, Src: []string{StateRegistering}, Dst: StatePrioritizing},
			{Name: evInitialize, Src: []string{StatePrioritizing}, Dst: StateInitializing},
			{Name: evRun, Src: []string{StateInitializing}, Dst: StateRunning},
			{Name: evFinish, Src: []string{StateDestroying}, Dst: StateUninitialized},
			{Name: evAbort, Src: []string{
				StateResetting, StateDisabling, StateDestroying, StateDiscovering,
				StateRegistering, StatePrioritizing, StateInitializing,
			}, Dst: StateUninitialized},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				onEnter(e.Src, e.Dst)
			},
		},
	)
}

// slot is one fixed system position in the population order.
type slot struct {
	key         string
	displayName string
	contract    reflect.Type
	profile     func(*models.ToolkitProfile) *models.SystemProfile
}

var systemSlots = []slot{
	{"camera", "Camera System", registry.ContractOf[systems.CameraSystem](),
		func(p *models.ToolkitProfile) *models.SystemProfile { return &p.Camera }},
	{"input", "Input System", registry.ContractOf[systems.InputSystem](),
		func(p *models.ToolkitProfile) *models.SystemProfile { return &p.Input.SystemProfile }},
	{"boundary", "Boundary System", registry.ContractOf[systems.BoundarySystem](),
		func(p *models.ToolkitProfile) *models.SystemProfile { return &p.Boundary }},
	{"spatial_awareness", "Spatial Awareness System", registry.ContractOf[systems.SpatialAwarenessSystem](),
		func(p *models.ToolkitProfile) *models.SystemProfile { return &p.SpatialAwareness }},
	{"teleport", "Teleport System", registry.ContractOf[systems.TeleportSystem](),
		func(p *models.ToolkitProfile) *models.SystemProfile { return &p.Teleport }},
	{"networking", "Networking System", registry.ContractOf[systems.NetworkingSystem](),
		func(p *models.ToolkitProfile) *models.SystemProfile { return &p.Networking }},
	{"diagnostics", "Diagnostics System", registry.ContractOf[systems.DiagnosticsSystem](),
		func(p *models.ToolkitProfile) *models.SystemProfile { return &p.Diagnostics }},
}

// SlotOrder lists the system slots in population order.
func SlotOrder() []string {
	keys := make([]string, 0, len(systemSlots))
	for _, s := range systemSlots {
		keys = append(keys, s.key)
	}
	return keys
}

/**
 * Runtime context owning registry, platform catalog and lifecycle state
 * @description
 * - One Toolkit per process in production, any number in tests
 * - Not safe for concurrent use; Server serializes access on its frame goroutine
 */
type Toolkit struct {
	registry  *registry.Registry
	catalog   *platform.Catalog
	factories *registry.Factories
	profile   *models.ToolkitProfile
	machine   *fsm.FSM

	isResetting    bool
	isInitializing bool

	frames          uint64
	lifecycleErrors int64
	lastReset       time.Time
	lastResetErr    error
	limiters        map[string]*rate.Limiter
}

/**
 * Create toolkit runtime context
 * @param {*platform.Catalog} catalog - Platform catalog, rediscovered on every reset
 * @param {*registry.Factories} factories - Factory table used to build configured entries
 * @returns {*Toolkit} Uninitialized toolkit with an empty registry
 * @example
 * factories := registry.NewFactories()
 * systems.RegisterDefaults(factories)
 * tk := services.NewToolkit(platform.NewCatalog(env), factories)
 * if err := tk.ResetWithConfiguration(profile); err != nil {
 *     logger.Error(err)
 * }
 */
func NewToolkit(catalog *platform.Catalog, factories *registry.Factories) *Toolkit {
	t := &Toolkit{
		registry:  registry.New(),
		catalog:   catalog,
		factories: factories,
		limiters:  map[string]*rate.Limiter{},
	}
	t.machine = newStateMachine(func(from, to string) {
		logger.Debugf("Toolkit state %s -> %s", from, to)
		setStateMetric(from, to)
	})
	return t
}

func (t *Toolkit) Registry() *registry.Registry     { return t.registry }
func (t *Toolkit) Catalog() *platform.Catalog       { return t.catalog }
func (t *Toolkit) Factories() *registry.Factories   { return t.factories }
func (t *Toolkit) Profile() *models.ToolkitProfile  { return t.profile }
func (t *Toolkit) State() string                    { return t.machine.Current() }
func (t *Toolkit) IsResetting() bool                { return t.isResetting }
func (t *Toolkit) IsInitializing() bool             { return t.isInitializing }

func (t *Toolkit) transition(event string) {
	if err := t.machine.Event(context.Background(), event); err != nil {
		var noTransition fsm.NoTransitionError
		if !errors.As(err, &noTransition) {
			logger.Debugf("Toolkit event %s ignored in state %s: %v", event, t.machine.Current(), err)
		}
	}
}

/**
 * Tear down the current registry and repopulate it from profile
 * @param {*models.ToolkitProfile} profile - New root configuration
 * @returns {error} ErrResetInProgress for nested calls, ErrNilProfile or ErrNoActivePlatforms when the pass aborts
 * @description
 * - A nested call while resetting or initializing only logs a warning
 * - Every registered instance is disabled, destroyed and disposed first
 * - Platforms are rediscovered before population
 */
func (t *Toolkit) ResetWithConfiguration(profile *models.ToolkitProfile) error {
	if t.isResetting || t.isInitializing {
		logger.Warnf("Toolkit reset requested while another reset or initialization is running, ignored")
		return ErrResetInProgress
	}
	t.isResetting = true
	defer func() { t.isResetting = false }()

	start := time.Now()
	t.transition(evReset)
	if t.registry.Len() > 0 {
		t.transition(evDisable)
		t.DisableAll()
		t.transition(evDestroy)
		t.DestroyAll()
	}
	t.limiters = map[string]*rate.Limiter{}
	t.profile = profile

	err := t.initializeServiceLocator()
	t.lastReset = time.Now()
	t.lastResetErr = err
	observeReset(time.Since(start), err)
	if err != nil {
		t.transition(evAbort)
		return err
	}
	t.transition(evRun)
	logger.Infof("Toolkit running with %d systems and %d services on platforms %v",
		len(t.registry.Systems()), len(t.registry.Services()), t.catalog.ActiveNames())
	return nil
}

func (t *Toolkit) initializeServiceLocator() error {
	t.transition(evDiscover)
	t.catalog.DiscoverAll()
	if err := t.catalog.ComputeActive(); err != nil {
		logger.Errorf("No active platforms found, toolkit not initialized")
		return err
	}
	if t.profile == nil {
		logger.Errorf("No toolkit profile set, toolkit not initialized")
		return ErrNilProfile
	}

	t.isInitializing = true
	defer func() { t.isInitializing = false }()

	t.registry.BeginBulk()
	t.transition(evRegister)
	t.populate()

	t.transition(evPrioritize)
	t.prioritize()

	t.transition(evInitialize)
	t.InitializeAll()
	t.registry.EndBulk()

	t.EnableAll()
	setRegisteredMetric(len(t.registry.Systems()), len(t.registry.Services()))
	return nil
}

func (t *Toolkit) populate() {
	for _, s := range systemSlots {
		sp := s.profile(t.profile)
		if !sp.Enabled {
			logger.Debugf("System slot [%s] disabled", s.key)
			continue
		}
		if len(sp.Platforms) > 0 && !t.catalog.IsTargetActive(sp.Platforms) {
			logger.Debugf("System slot [%s] not eligible on %v", s.key, t.catalog.ActiveNames())
			continue
		}
		name := sp.Name
		if strings.TrimSpace(name) == "" {
			name = s.displayName
		}
		platforms := sp.Platforms
		if len(platforms) == 0 {
			platforms = []string{platform.All}
		}
		instance, ok := t.construct(s.contract, sp.Type, registry.Args{
			Name:      name,
			Priority:  sp.Priority,
			Platforms: platforms,
			Settings:  sp.Settings,
		})
		if !ok {
			continue
		}
		if _, err := t.registry.Register(s.contract, instance); err != nil {
			continue
		}
		if s.key == "input" && t.profile.Input.FocusProvider != nil {
			t.populateFocusProvider(instance, *t.profile.Input.FocusProvider)
		}
		for _, entry := range sp.Providers {
			t.populateEntry(instance, entry)
		}
	}

	for _, entry := range t.profile.Services {
		t.populateEntry(nil, entry)
	}
}

func (t *Toolkit) populateFocusProvider(input registry.Service, cfg models.ServiceConfiguration) {
	contract := registry.ContractOf[systems.FocusProvider]()
	if len(cfg.Platforms) == 0 {
		cfg.Platforms = []string{platform.All}
	}
	if cfg.Name == "" {
		cfg.Name = "Focus Provider"
	}
	if !t.catalog.IsTargetActive(cfg.Platforms) {
		logger.Debugf("Focus provider [%s] not eligible", cfg.Name)
		return
	}
	instance, ok := t.construct(contract, cfg.Type, t.args(input, cfg))
	if !ok {
		return
	}
	_, _ = t.registry.Register(contract, instance)
}

// populateEntry builds one configured service or data provider and its nested providers.
func (t *Toolkit) populateEntry(parent registry.Service, cfg models.ServiceConfiguration) {
	if len(cfg.Platforms) == 0 {
		logger.Warnf("Service [%s] declares no platforms, skipped", cfg.Name)
		return
	}
	if !t.catalog.IsTargetActive(cfg.Platforms) {
		logger.Debugf("Service [%s] not eligible on %v, skipped", cfg.Name, t.catalog.ActiveNames())
		return
	}
	contract, err := t.factories.Resolve(cfg.Type)
	if err != nil {
		logger.Errorf("Unable to construct service [%s]: %v", cfg.Name, err)
		return
	}
	instance, ok := t.construct(contract, cfg.Type, t.args(parent, cfg))
	if !ok {
		return
	}
	if _, err := t.registry.Register(contract, instance); err != nil {
		return
	}
	for _, child := range cfg.Providers {
		t.populateEntry(instance, child)
	}
}

func (t *Toolkit) args(parent registry.Service, cfg models.ServiceConfiguration) registry.Args {
	return registry.Args{
		Name:      cfg.Name,
		Priority:  cfg.Priority,
		Platforms: cfg.Platforms,
		Settings:  cfg.Settings,
		Parent:    parent,
	}
}

func (t *Toolkit) construct(contract reflect.Type, key string, args registry.Args) (registry.Service, bool) {
	args.Registry = t.registry
	instance, err := t.factories.Build(contract, key, args)
	if err != nil {
		logger.Errorf("Failed to construct %s [%s] from %q: %v", registry.ContractName(contract), args.Name, key, err)
		return nil, false
	}
	return instance, true
}

// prioritize re-inserts both tables sorted by ascending priority.
func (t *Toolkit) prioritize() {
	byPriority := func(list []*registry.Entry) []*registry.Entry {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Instance.Priority() < list[j].Instance.Priority()
		})
		return list
	}
	if err := t.registry.Reorder(byPriority(t.registry.Systems()), byPriority(t.registry.Services())); err != nil {
		logger.Errorf("Failed to prioritize services: %v", err)
	}
}

/**
 * Shut the runtime down
 * @description
 * - Disable, Destroy and Dispose every instance, services before systems
 * - Leaves the toolkit uninitialized with an empty registry
 */
func (t *Toolkit) Shutdown() error {
	if t.isResetting || t.isInitializing {
		logger.Warnf("Toolkit shutdown requested during reset, ignored")
		return ErrResetInProgress
	}
	t.transition(evDisable)
	t.DisableAll()
	t.transition(evDestroy)
	t.DestroyAll()
	t.transition(evFinish)
	setRegisteredMetric(0, 0)
	return nil
}

/**
 * Runtime statistics
 * @property {string} State - Orchestrator state
 * @property {int} Systems - Registered systems
 * @property {int} Services - Registered general services
 * @property {uint64} Frames - Update ticks since the last reset
 * @property {int64} LifecycleErrors - Lifecycle calls that failed since start
 */
type Stats struct {
	State           string
	Systems         int
	Services        int
	Frames          uint64
	LifecycleErrors int64
	ActivePlatforms []string
	LastReset       time.Time
	LastResetError  string
}

func (t *Toolkit) Stats() Stats {
	s := Stats{
		State:           t.State(),
		Systems:         len(t.registry.Systems()),
		Services:        len(t.registry.Services()),
		Frames:          t.frames,
		LifecycleErrors: t.lifecycleErrors,
		ActivePlatforms: t.catalog.ActiveNames(),
		LastReset:       t.lastReset,
	}
	if t.lastResetErr != nil {
		s.LastResetError = t.lastResetErr.Error()
	}
	return s
}

// SetEnabled enables or disables instances by printable contract name and optional instance name.
func (t *Toolkit) SetEnabled(contractName, name string, enabled bool) error {
	contract, ok := t.registry.ContractByName(contractName)
	if !ok {
		return fmt.Errorf("%w: %s", registry.ErrNotFound, contractName)
	}
	return t.registry.SetEnabled(contract, name, enabled)
}

// Unregister removes instances by printable contract name and optional instance name.
func (t *Toolkit) Unregister(contractName, name string) error {
	contract, ok := t.registry.ContractByName(contractName)
	if !ok {
		return fmt.Errorf("%w: %s", registry.ErrNotFound, contractName)
	}
	err := t.registry.Unregister(contract, name)
	setRegisteredMetric(len(t.registry.Systems()), len(t.registry.Services()))
	return err
}
