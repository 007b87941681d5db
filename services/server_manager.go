package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"toolkit-keeper/internal/config"
	"toolkit-keeper/internal/env"
	"toolkit-keeper/internal/logger"
	"toolkit-keeper/internal/models"
	"toolkit-keeper/internal/platform"
	"toolkit-keeper/internal/registry"
	"toolkit-keeper/systems"
)

var (
	ErrServerStopped = errors.New("server frame loop is not running")
	ErrServerRunning = errors.New("server frame loop already running")
)

type task struct {
	fn   func()
	done chan struct{}
}

/**
 * Frame loop host for one Toolkit
 * @description
 * - All Toolkit access runs on the Run goroutine; other goroutines go through Do
 * - Update and LateUpdate tick at frame.rate, FixedUpdate at frame.fixed_rate
 */
type Server struct {
	cfg       *config.AppConfig
	toolkit   *Toolkit
	startTime time.Time
	tasks     chan task
	stopped   chan struct{}
	running   atomic.Bool
	watcher   *config.ProfileWatcher
}

/**
 * Create new server around a toolkit
 * @param {config.AppConfig} cfg - Application configuration
 * @param {*Toolkit} toolkit - Runtime context driven by the frame loop
 * @returns {Server} Returns new server instance
 */
func NewServer(cfg *config.AppConfig, toolkit *Toolkit) *Server {
	return &Server{
		cfg:       cfg,
		toolkit:   toolkit,
		startTime: time.Now(),
		tasks:     make(chan task),
		stopped:   make(chan struct{}),
	}
}

/**
 * Create server with the built-in systems and the configured environment
 * @param {config.AppConfig} cfg - Application configuration
 * @returns {Server} Server whose toolkit is not yet initialized
 */
func NewDefaultServer(cfg *config.AppConfig) *Server {
	factories := registry.NewFactories()
	systems.RegisterDefaults(factories)
	catalog := platform.NewCatalog(platform.CurrentEnvironment(cfg.Runtime.Editor, cfg.Runtime.BuildTarget))
	return NewServer(cfg, NewToolkit(catalog, factories))
}

// Toolkit is only safe to touch from inside Do or before Run starts.
func (s *Server) Toolkit() *Toolkit {
	return s.toolkit
}

/**
 * Load the configured profile and reset the toolkit with it
 * @returns {error} Profile load or reset error
 * @description
 * - Must be called before Run, from the goroutine that will call Run
 */
func (s *Server) Init() error {
	if s.running.Load() {
		return ErrServerRunning
	}
	profile, err := s.loadProfile()
	if err != nil {
		return err
	}
	return s.toolkit.ResetWithConfiguration(profile)
}

func (s *Server) loadProfile() (*models.ToolkitProfile, error) {
	path := s.cfg.Runtime.Profile
	profile, err := config.LoadProfile(path)
	if err != nil {
		return nil, err
	}
	if err := config.ValidateProfile(profile); err != nil {
		return nil, fmt.Errorf("profile %s is invalid: %w", path, err)
	}
	return profile, nil
}

/**
 * Run the frame loop until ctx is cancelled
 * @param {context.Context} ctx - Cancel to stop the loop and shut the toolkit down
 * @returns {error} ErrServerRunning if the loop is already running
 * @example
 * ctx, cancel := context.WithCancel(context.Background())
 * defer cancel()
 * go server.Run(ctx)
 */
func (s *Server) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrServerRunning
	}
	defer close(s.stopped)

	update := time.NewTicker(tickInterval(s.cfg.Frame.Rate, 60))
	defer update.Stop()
	fixed := time.NewTicker(tickInterval(s.cfg.Frame.FixedRate, 50))
	defer fixed.Stop()

	logger.Infof("Frame loop started, rate %d/s, fixed rate %d/s", s.cfg.Frame.Rate, s.cfg.Frame.FixedRate)
	for {
		select {
		case <-ctx.Done():
			if err := s.toolkit.Shutdown(); err != nil {
				logger.Errorf("Toolkit shutdown failed: %v", err)
			}
			logger.Info("Frame loop stopped")
			return nil
		case t := <-s.tasks:
			s.runTask(t)
		case <-update.C:
			s.toolkit.Update()
			s.toolkit.LateUpdate()
		case <-fixed.C:
			s.toolkit.FixedUpdate()
		}
	}
}

func tickInterval(rate, fallback int) time.Duration {
	if rate <= 0 {
		rate = fallback
	}
	return time.Second / time.Duration(rate)
}

func (s *Server) runTask(t task) {
	defer close(t.done)
	if err := registry.Guard(func() error { t.fn(); return nil }); err != nil {
		logger.Errorf("Frame loop task failed: %v", err)
	}
}

/**
 * Run fn on the frame loop goroutine and wait for it
 * @param {context.Context} ctx - Bounds the wait
 * @param {func()} fn - Work touching the toolkit
 * @returns {error} ctx error or ErrServerStopped if fn did not run
 */
func (s *Server) Do(ctx context.Context, fn func()) error {
	t := task{fn: fn, done: make(chan struct{})}
	select {
	case s.tasks <- t:
	case <-s.stopped:
		return ErrServerStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	// once received the task always runs to completion
	<-t.done
	return nil
}

/**
 * Reload the profile file and reset the toolkit
 * @param {context.Context} ctx - Request context
 * @returns {error} Load, validation or reset error
 * @description
 * - The file is read off the frame loop; only the reset runs on it
 */
func (s *Server) Reload(ctx context.Context) error {
	profile, err := s.loadProfile()
	if err != nil {
		return err
	}
	return s.ApplyProfile(ctx, profile)
}

// ApplyProfile resets the toolkit with an already loaded profile.
func (s *Server) ApplyProfile(ctx context.Context, profile *models.ToolkitProfile) error {
	var resetErr error
	if err := s.Do(ctx, func() {
		resetErr = s.toolkit.ResetWithConfiguration(profile)
	}); err != nil {
		return err
	}
	return resetErr
}

/**
 * Watch the profile file and reset on change
 * @returns {error} Error if the profile cannot be read
 * @description
 * - No-op unless runtime.watch is set
 * - Invalid profiles are logged and the running configuration is kept
 */
func (s *Server) StartWatching() error {
	if !s.cfg.Runtime.Watch {
		return nil
	}
	w, err := config.WatchProfile(s.cfg.Runtime.Profile, func(profile *models.ToolkitProfile, err error) {
		if err == nil {
			err = config.ValidateProfile(profile)
		}
		if err != nil {
			logger.Errorf("Profile change ignored: %v", err)
			return
		}
		logger.Infof("Profile %s changed, resetting toolkit", s.cfg.Runtime.Profile)
		if err := s.ApplyProfile(context.Background(), profile); err != nil {
			logger.Errorf("Reset after profile change failed: %v", err)
		}
	})
	if err != nil {
		return err
	}
	s.watcher = w
	logger.Infof("Watching profile %s", w.Path())
	return nil
}

func (s *Server) detail(e *registry.Entry) models.ServiceDetail {
	d := models.ServiceDetail{
		Handle:   e.Handle.String(),
		Name:     e.Instance.Name(),
		Contract: e.ContractName(),
		Kind:     models.KindService,
		Type:     fmt.Sprintf("%T", e.Instance),
		Priority: e.Instance.Priority(),
	}
	if e.IsSystem() {
		d.Kind = models.KindSystem
	}
	if parent, ok := s.toolkit.Registry().Lookup(e.Parent); ok {
		d.Parent = parent.Instance.Name()
	}
	return d
}

/**
 * List registered systems and services
 * @param {context.Context} ctx - Request context
 * @returns {models.ServiceListResponse} Entries in call order
 */
func (s *Server) ListServices(ctx context.Context) (models.ServiceListResponse, error) {
	var resp models.ServiceListResponse
	err := s.Do(ctx, func() {
		resp.State = s.toolkit.State()
		resp.Systems = []models.ServiceDetail{}
		resp.Services = []models.ServiceDetail{}
		for _, e := range s.toolkit.Registry().Systems() {
			resp.Systems = append(resp.Systems, s.detail(e))
		}
		for _, e := range s.toolkit.Registry().Services() {
			resp.Services = append(resp.Services, s.detail(e))
		}
	})
	return resp, err
}

/**
 * Find registered instances by contract name
 * @param {string} contract - Printable contract name, e.g. "systems.BoundarySystem"
 * @param {string} name - Instance name, empty matches every instance
 * @returns {[]models.ServiceDetail} Matches, registry.ErrNotFound if none
 */
func (s *Server) GetService(ctx context.Context, contract, name string) ([]models.ServiceDetail, error) {
	var out []models.ServiceDetail
	var findErr error
	err := s.Do(ctx, func() {
		reg := s.toolkit.Registry()
		t, ok := reg.ContractByName(contract)
		if !ok {
			findErr = fmt.Errorf("%w: %s", registry.ErrNotFound, contract)
			return
		}
		for _, inst := range reg.GetAll(t, name) {
			if e := reg.Find(inst); e != nil {
				out = append(out, s.detail(e))
			}
		}
		if len(out) == 0 {
			findErr = fmt.Errorf("%w: %s [%s]", registry.ErrNotFound, contract, name)
		}
	})
	if err != nil {
		return nil, err
	}
	return out, findErr
}

func (s *Server) SetEnabled(ctx context.Context, contract, name string, enabled bool) error {
	var opErr error
	if err := s.Do(ctx, func() {
		opErr = s.toolkit.SetEnabled(contract, name, enabled)
	}); err != nil {
		return err
	}
	return opErr
}

func (s *Server) RemoveService(ctx context.Context, contract, name string) error {
	var opErr error
	if err := s.Do(ctx, func() {
		opErr = s.toolkit.Unregister(contract, name)
	}); err != nil {
		return err
	}
	return opErr
}

/**
 * Describe every discovered platform
 * @returns {models.PlatformListResponse} Environment and descriptor states
 */
func (s *Server) Platforms(ctx context.Context) (models.PlatformListResponse, error) {
	var resp models.PlatformListResponse
	err := s.Do(ctx, func() {
		catalog := s.toolkit.Catalog()
		e := catalog.Environment()
		resp.Editor = e.Editor
		resp.BuildTarget = e.BuildTarget
		resp.GOOS = e.GOOS
		resp.Platforms = []models.PlatformInfo{}
		for _, p := range catalog.AvailablePlatforms() {
			resp.Platforms = append(resp.Platforms, models.PlatformInfo{
				Name:                 p.Name(),
				Available:            p.IsAvailable(),
				BuildTargetAvailable: p.IsBuildTargetAvailable(),
				Active:               catalog.IsActive(p.Name()),
				Overrides:            p.Overrides(),
			})
		}
	})
	return resp, err
}

// CheckPlatforms evaluates a platform list against the current active set.
func (s *Server) CheckPlatforms(ctx context.Context, names []string) (models.PlatformCheckResponse, error) {
	resp := models.PlatformCheckResponse{Platforms: names}
	err := s.Do(ctx, func() {
		resp.Eligible = s.toolkit.Catalog().IsTargetActive(names)
		resp.ActivePlatforms = s.toolkit.Catalog().ActiveNames()
	})
	return resp, err
}

/**
 * Collect resource samples from the diagnostics system
 * @returns {models.DiagnosticsResponse} Enabled is false when no diagnostics system is registered
 */
func (s *Server) Diagnostics(ctx context.Context) (models.DiagnosticsResponse, error) {
	resp := models.DiagnosticsResponse{Samples: []models.ProcessSample{}}
	err := s.Do(ctx, func() {
		diag, ok := registry.TryGet[systems.DiagnosticsSystem](s.toolkit.Registry(), "")
		if !ok {
			return
		}
		resp.Enabled = diag.ShowDiagnostics()
		resp.Samples = append(resp.Samples, diag.Samples()...)
	})
	return resp, err
}

// SetFocus forwards an application focus change to every instance.
func (s *Server) SetFocus(ctx context.Context, focused bool) error {
	return s.Do(ctx, func() { s.toolkit.OnApplicationFocus(focused) })
}

// SetPause forwards an application pause change to every instance.
func (s *Server) SetPause(ctx context.Context, paused bool) error {
	return s.Do(ctx, func() { s.toolkit.OnApplicationPause(paused) })
}

/**
* Get health check response for the server
* @returns {models.HealthResponse} Returns health check response with server status and metrics
* @description
* - Status is "UP" while the toolkit is running, "DEGRADED" otherwise
* - Status is "DOWN" when the frame loop does not answer
 */
func (s *Server) GetHealthz(ctx context.Context) models.HealthResponse {
	response := models.HealthResponse{
		Version:   env.Version,
		StartTime: s.startTime.Format(time.RFC3339),
		Status:    "DOWN",
		Uptime:    time.Since(s.startTime).String(),
		Metrics: models.Metrics{
			TotalRequests: GetTotalRequestCount(),
			ErrorRequests: GetTotalErrorCount(),
		},
	}
	var stats Stats
	if err := s.Do(ctx, func() { stats = s.toolkit.Stats() }); err != nil {
		return response
	}
	response.State = stats.State
	response.ActivePlatforms = stats.ActivePlatforms
	response.Metrics.Systems = stats.Systems
	response.Metrics.Services = stats.Services
	response.Metrics.Frames = stats.Frames
	response.Metrics.LifecycleErrors = stats.LifecycleErrors
	if stats.State == StateRunning {
		response.Status = "UP"
	} else {
		response.Status = "DEGRADED"
	}
	return response
}

const defaultWaitInterval = 100 * time.Millisecond

/**
 * Wait until a system of type T is registered
 * @param {context.Context} ctx - Bounds the wait
 * @param {*Server} s - Server whose toolkit is polled
 * @param {time.Duration} interval - Poll interval, non-positive values use defaultWaitInterval
 * @returns {T} The registered system
 * @returns {error} ctx error or ErrServerStopped
 * @example
 * ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
 * defer cancel()
 * boundary, err := services.WaitForSystem[systems.BoundarySystem](ctx, server, 100*time.Millisecond)
 */
func WaitForSystem[T registry.System](ctx context.Context, s *Server, interval time.Duration) (T, error) {
	if interval <= 0 {
		interval = defaultWaitInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		var found T
		var ok bool
		if err := s.Do(ctx, func() {
			found, ok = registry.TryGet[T](s.toolkit.Registry(), "")
		}); err != nil {
			return found, err
		}
		if ok {
			return found, nil
		}
		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-ticker.C:
		}
	}
}
