package registry

import (
	"fmt"
	"reflect"
)

// DefaultPriority is used by services that do not declare one.
const DefaultPriority uint32 = 5

// Service is the lifecycle every registrable instance implements.
// Lower Priority runs first at initialize and enable, last at teardown.
type Service interface {
	Name() string
	Priority() uint32
	Initialize() error
	Reset() error
	Enable() error
	Update() error
	LateUpdate() error
	FixedUpdate() error
	Disable() error
	Destroy() error
	Dispose() error
}

// System marks a singleton contract: at most one instance per contract.
// Implementations get the marker by embedding BaseSystem.
type System interface {
	Service
	system()
}

// DataProvider is a service owned by another registered service.
type DataProvider interface {
	Service
	ParentService() Service
}

// FocusHandler is notified when the host application gains or loses focus.
type FocusHandler interface {
	OnApplicationFocus(focused bool)
}

// PauseHandler is notified when the host application is paused or resumed.
type PauseHandler interface {
	OnApplicationPause(paused bool)
}

/**
 * Embeddable no-op implementation of Service
 * @description
 * - Every phase returns nil
 * - Dispose only flips the disposed flag once
 * @example
 * type cameraSystem struct {
 *     registry.BaseSystem
 * }
 */
type BaseService struct {
	name     string
	priority uint32
	disposed bool
}

func NewBaseService(name string, priority uint32) BaseService {
	return BaseService{name: name, priority: priority}
}

func (s *BaseService) Name() string       { return s.name }
func (s *BaseService) Priority() uint32   { return s.priority }
func (s *BaseService) Initialize() error  { return nil }
func (s *BaseService) Reset() error       { return nil }
func (s *BaseService) Enable() error      { return nil }
func (s *BaseService) Update() error      { return nil }
func (s *BaseService) LateUpdate() error  { return nil }
func (s *BaseService) FixedUpdate() error { return nil }
func (s *BaseService) Disable() error     { return nil }
func (s *BaseService) Destroy() error     { return nil }

func (s *BaseService) Dispose() error {
	s.disposed = true
	return nil
}

func (s *BaseService) IsDisposed() bool { return s.disposed }

// BaseSystem is BaseService plus the System marker.
type BaseSystem struct {
	BaseService
}

func NewBaseSystem(name string, priority uint32) BaseSystem {
	return BaseSystem{BaseService: NewBaseService(name, priority)}
}

func (BaseSystem) system() {}

// BaseDataProvider is BaseService plus an owning service.
type BaseDataProvider struct {
	BaseService
	parent Service
}

func NewBaseDataProvider(name string, priority uint32, parent Service) BaseDataProvider {
	return BaseDataProvider{BaseService: NewBaseService(name, priority), parent: parent}
}

func (p *BaseDataProvider) ParentService() Service { return p.parent }

// Guard runs one lifecycle call and turns a panic into an error.
func Guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

func isNil(s Service) bool {
	if s == nil {
		return true
	}
	v := reflect.ValueOf(s)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func sameInstance(a, b Service) bool {
	if a == nil || b == nil {
		return false
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
