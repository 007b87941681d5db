package services

import (
	"fmt"
	"time"

	"toolkit-keeper/internal/logger"
	"toolkit-keeper/internal/registry"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Lifecycle phase names, also used as metric labels.
const (
	PhaseInitialize  = "initialize"
	PhaseReset       = "reset"
	PhaseEnable      = "enable"
	PhaseUpdate      = "update"
	PhaseLateUpdate  = "late_update"
	PhaseFixedUpdate = "fixed_update"
	PhaseDisable     = "disable"
	PhaseDestroy     = "destroy"
	PhaseDispose     = "dispose"
	PhaseFocus       = "focus"
	PhasePause       = "pause"
)

// frame phases log at most once per second per instance.
var framePhases = map[string]bool{
	PhaseUpdate:      true,
	PhaseLateUpdate:  true,
	PhaseFixedUpdate: true,
}

func (t *Toolkit) forward() []*registry.Entry {
	return append(t.registry.Systems(), t.registry.Services()...)
}

// reverse lists services last-registered first, then systems the same way.
func (t *Toolkit) reverse() []*registry.Entry {
	services := t.registry.Services()
	systems := t.registry.Systems()
	out := make([]*registry.Entry, 0, len(services)+len(systems))
	for i := len(services) - 1; i >= 0; i-- {
		out = append(out, services[i])
	}
	for i := len(systems) - 1; i >= 0; i-- {
		out = append(out, systems[i])
	}
	return out
}

/**
 * Invoke one phase on every entry
 * @param {string} phase - Phase name used for logs and metrics
 * @param {[]*registry.Entry} entries - Entries in call order
 * @param {func(registry.Service) error} call - Phase method to invoke
 * @returns {int} Number of failed calls
 * @description
 * - Errors and panics are caught per instance; the remaining entries still run
 * - Entries retired by an earlier call in the same pass are skipped
 */
func (t *Toolkit) fanOut(phase string, entries []*registry.Entry, call func(registry.Service) error) int {
	start := time.Now()
	failed := 0
	for _, e := range entries {
		if _, ok := t.registry.Lookup(e.Handle); !ok {
			continue
		}
		if err := registry.Guard(func() error { return call(e.Instance) }); err != nil {
			failed++
			t.lifecycleErrors++
			incLifecycleError(phase, e.Instance.Name())
			t.logPhaseError(phase, e, err)
		}
	}
	observePhase(phase, time.Since(start))
	return failed
}

func (t *Toolkit) logPhaseError(phase string, e *registry.Entry, err error) {
	if !framePhases[phase] {
		logger.Errorf("%s %s failed: %v", phase, describe(e), err)
		return
	}
	key := phase + "/" + e.Handle.String()
	limiter, ok := t.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(time.Second), 1)
		t.limiters[key] = limiter
	}
	if limiter.Allow() {
		logger.Errorf("%s %s failed: %v", phase, describe(e), err)
	}
}

/**
 * Initialize every registered instance once
 * @returns {int} Number of failed calls
 * @description
 * - Instances registered by another instance's Initialize during the bulk pass are
 *   initialized in a follow-up round, so nothing reaches Enable uninitialized
 */
func (t *Toolkit) InitializeAll() int {
	done := map[uuid.UUID]bool{}
	failed := 0
	for {
		var pending []*registry.Entry
		for _, e := range t.forward() {
			if !done[e.Handle] {
				done[e.Handle] = true
				pending = append(pending, e)
			}
		}
		if len(pending) == 0 {
			return failed
		}
		failed += t.fanOut(PhaseInitialize, pending, registry.Service.Initialize)
	}
}

func (t *Toolkit) EnableAll() int {
	return t.fanOut(PhaseEnable, t.forward(), registry.Service.Enable)
}

// ResetAll calls Reset on every instance without rebuilding the registry.
func (t *Toolkit) ResetAll() int {
	return t.fanOut(PhaseReset, t.forward(), registry.Service.Reset)
}

// Update runs one frame: systems first, then services, in registration order.
func (t *Toolkit) Update() int {
	t.frames++
	return t.fanOut(PhaseUpdate, t.forward(), registry.Service.Update)
}

func (t *Toolkit) LateUpdate() int {
	return t.fanOut(PhaseLateUpdate, t.forward(), registry.Service.LateUpdate)
}

func (t *Toolkit) FixedUpdate() int {
	return t.fanOut(PhaseFixedUpdate, t.forward(), registry.Service.FixedUpdate)
}

// DisableAll disables services in reverse registration order, then systems.
func (t *Toolkit) DisableAll() int {
	return t.fanOut(PhaseDisable, t.reverse(), registry.Service.Disable)
}

/**
 * Destroy and dispose every instance, then empty the registry
 * @returns {int} Number of failed calls across both passes
 * @description
 * - Destroy pass then Dispose pass, each services-then-systems in reverse order
 * - Disposed instances are hidden from lookups immediately
 */
func (t *Toolkit) DestroyAll() int {
	entries := t.reverse()
	failed := t.fanOut(PhaseDestroy, entries, registry.Service.Destroy)
	failed += t.fanOut(PhaseDispose, entries, func(s registry.Service) error {
		defer func() {
			if e := t.registry.Find(s); e != nil {
				t.registry.MarkDisposed(e)
			}
		}()
		return s.Dispose()
	})
	t.registry.Clear()
	t.frames = 0
	return failed
}

// OnApplicationFocus forwards focus changes to instances implementing registry.FocusHandler.
func (t *Toolkit) OnApplicationFocus(focused bool) int {
	return t.fanOut(PhaseFocus, t.forward(), func(s registry.Service) error {
		if h, ok := s.(registry.FocusHandler); ok {
			h.OnApplicationFocus(focused)
		}
		return nil
	})
}

// OnApplicationPause forwards pause changes to instances implementing registry.PauseHandler.
func (t *Toolkit) OnApplicationPause(paused bool) int {
	return t.fanOut(PhasePause, t.forward(), func(s registry.Service) error {
		if h, ok := s.(registry.PauseHandler); ok {
			h.OnApplicationPause(paused)
		}
		return nil
	})
}

// describe is used by log lines that need contract and name together.
func describe(e *registry.Entry) string {
	return fmt.Sprintf("%s [%s]", e.ContractName(), e.Instance.Name())
}
