package registry

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"toolkit-keeper/internal/logger"

	"github.com/google/uuid"
)

var (
	ErrNilInstance      = errors.New("service instance is nil")
	ErrContractMismatch = errors.New("service does not implement contract")
	ErrEmptyName        = errors.New("service name is empty")
	ErrDuplicateName    = errors.New("service name already registered")
	ErrSystemOccupied   = errors.New("system already registered")
	ErrNotFound         = errors.New("service not found")
	ErrAmbiguous        = errors.New("multiple services match, specify a name")
)

var systemType = reflect.TypeFor[System]()

// Entry is one registered instance.
type Entry struct {
	Handle   uuid.UUID
	Contract reflect.Type
	Instance Service
	// Parent is the handle of the owning service, uuid.Nil for top-level entries.
	Parent uuid.UUID

	disposed bool
}

// ContractName is the printable form of the entry's contract.
func (e *Entry) ContractName() string {
	return ContractName(e.Contract)
}

func (e *Entry) IsSystem() bool {
	return IsSystemContract(e.Contract)
}

func ContractName(contract reflect.Type) string {
	if contract == nil {
		return ""
	}
	return contract.String()
}

// IsSystemContract reports whether contract is a singleton contract.
func IsSystemContract(contract reflect.Type) bool {
	return contract != nil && contract.Kind() == reflect.Interface && contract.Implements(systemType)
}

/**
 * Registry maps service contracts to live instances
 * @description
 * - Systems: at most one instance per contract, kept in registration order
 * - Services: ordered list, many instances per contract with unique names
 * - Not safe for concurrent use; callers serialize access on one goroutine
 */
type Registry struct {
	systems     []*Entry
	systemIndex map[reflect.Type]*Entry
	services    []*Entry
	byHandle    map[uuid.UUID]*Entry
	dependents  map[uuid.UUID][]uuid.UUID
	bulk        int
}

func New() *Registry {
	return &Registry{
		systemIndex: map[reflect.Type]*Entry{},
		byHandle:    map[uuid.UUID]*Entry{},
		dependents:  map[uuid.UUID][]uuid.UUID{},
	}
}

// BeginBulk suppresses the automatic Initialize/Enable on Register until EndBulk.
func (r *Registry) BeginBulk() { r.bulk++ }

func (r *Registry) EndBulk() {
	if r.bulk > 0 {
		r.bulk--
	}
}

func (r *Registry) InBulk() bool { return r.bulk > 0 }

/**
 * Register instance under contract
 * @param {reflect.Type} contract - Interface type the instance is registered as
 * @param {Service} instance - Instance to register
 * @returns {*Entry} The new entry
 * @returns {error} Validation or conflict error, registry unchanged
 * @description
 * - Rejects nil, contract mismatch, blank name, duplicate name and occupied system slot
 * - Links data providers to their parent's handle
 * - Outside a bulk pass, runs Initialize then Enable; their failures are logged only
 */
func (r *Registry) Register(contract reflect.Type, instance Service) (*Entry, error) {
	if isNil(instance) {
		logger.Warnf("Unable to register %s: %v", ContractName(contract), ErrNilInstance)
		return nil, ErrNilInstance
	}
	if contract == nil || contract.Kind() != reflect.Interface || !reflect.TypeOf(instance).Implements(contract) {
		logger.Errorf("Unable to register %T as %s: %v", instance, ContractName(contract), ErrContractMismatch)
		return nil, ErrContractMismatch
	}
	name := instance.Name()
	if strings.TrimSpace(name) == "" {
		logger.Errorf("Unable to register %T as %s: %v", instance, ContractName(contract), ErrEmptyName)
		return nil, ErrEmptyName
	}
	if r.findFirst(contract, name) != nil {
		logger.Errorf("Unable to register %s [%s]: %v", ContractName(contract), name, ErrDuplicateName)
		return nil, fmt.Errorf("%w: %s [%s]", ErrDuplicateName, ContractName(contract), name)
	}

	entry := &Entry{
		Handle:   uuid.New(),
		Contract: contract,
		Instance: instance,
	}
	if IsSystemContract(contract) {
		if _, ok := r.systemIndex[contract]; ok {
			logger.Errorf("Unable to register %s [%s]: %v", ContractName(contract), name, ErrSystemOccupied)
			return nil, fmt.Errorf("%w: %s", ErrSystemOccupied, ContractName(contract))
		}
		r.systemIndex[contract] = entry
		r.systems = append(r.systems, entry)
	} else {
		r.services = append(r.services, entry)
	}
	r.byHandle[entry.Handle] = entry
	r.link(entry)

	if !r.InBulk() {
		if err := Guard(instance.Initialize); err != nil {
			logger.Errorf("Initialize [%s] failed: %v", name, err)
		}
		if err := Guard(instance.Enable); err != nil {
			logger.Errorf("Enable [%s] failed: %v", name, err)
		}
	}
	return entry, nil
}

func (r *Registry) link(entry *Entry) {
	dp, ok := entry.Instance.(DataProvider)
	if !ok {
		return
	}
	parent := r.Find(dp.ParentService())
	if parent == nil {
		return
	}
	entry.Parent = parent.Handle
	r.dependents[parent.Handle] = append(r.dependents[parent.Handle], entry.Handle)
}

// Find returns the live entry holding instance.
func (r *Registry) Find(instance Service) *Entry {
	if isNil(instance) {
		return nil
	}
	for _, e := range r.systems {
		if !e.disposed && sameInstance(e.Instance, instance) {
			return e
		}
	}
	for _, e := range r.services {
		if !e.disposed && sameInstance(e.Instance, instance) {
			return e
		}
	}
	return nil
}

func (r *Registry) Lookup(handle uuid.UUID) (*Entry, bool) {
	e, ok := r.byHandle[handle]
	if !ok || e.disposed {
		return nil, false
	}
	return e, true
}

// Dependents returns the live entries owned by handle.
func (r *Registry) Dependents(handle uuid.UUID) []*Entry {
	var out []*Entry
	for _, h := range r.dependents[handle] {
		if e, ok := r.Lookup(h); ok {
			out = append(out, e)
		}
	}
	return out
}

func matches(e *Entry, contract reflect.Type, name string) bool {
	if e.disposed {
		return false
	}
	if name != "" && e.Instance.Name() != name {
		return false
	}
	return e.Contract == contract || reflect.TypeOf(e.Instance).Implements(contract)
}

func (r *Registry) findFirst(contract reflect.Type, name string) *Entry {
	for _, e := range r.systems {
		if matches(e, contract, name) {
			return e
		}
	}
	for _, e := range r.services {
		if matches(e, contract, name) {
			return e
		}
	}
	return nil
}

func (r *Registry) matchAll(contract reflect.Type, name string) []*Entry {
	if IsSystemContract(contract) {
		e, ok := r.systemIndex[contract]
		if !ok || !matches(e, contract, name) {
			return nil
		}
		return []*Entry{e}
	}
	var out []*Entry
	for _, e := range r.services {
		if matches(e, contract, name) {
			out = append(out, e)
		}
	}
	return out
}

/**
 * Look up single instance
 * @param {reflect.Type} contract - Contract to look up
 * @param {string} name - Optional instance name
 * @returns {Service} Matching instance
 * @returns {error} ErrNotFound, or ErrAmbiguous when several unnamed matches exist
 */
func (r *Registry) Get(contract reflect.Type, name string) (Service, error) {
	found := r.matchAll(contract, name)
	switch {
	case len(found) == 0:
		return nil, ErrNotFound
	case len(found) > 1 && name == "":
		logger.Warnf("Found multiple instances of %s, specify a name", ContractName(contract))
		return nil, fmt.Errorf("%w: %s", ErrAmbiguous, ContractName(contract))
	}
	return found[0].Instance, nil
}

// GetAll returns every instance matching contract and optional name.
func (r *Registry) GetAll(contract reflect.Type, name string) []Service {
	found := r.matchAll(contract, name)
	out := make([]Service, 0, len(found))
	for _, e := range found {
		out = append(out, e.Instance)
	}
	return out
}

/**
 * Unregister instances matching contract and name
 * @param {reflect.Type} contract - Contract to unregister
 * @param {string} name - Instance name, empty removes every instance of the contract
 * @returns {error} ErrNotFound if nothing matched
 * @description
 * - Data providers owned by a target are unregistered first
 * - Disable, Destroy and Dispose run independently; failures are logged
 */
func (r *Registry) Unregister(contract reflect.Type, name string) error {
	found := r.matchAll(contract, name)
	if len(found) == 0 {
		logger.Warnf("Unable to find %s [%s] to unregister", ContractName(contract), name)
		return ErrNotFound
	}
	for _, e := range found {
		r.retire(e)
	}
	return nil
}

// UnregisterInstance unregisters one instance by identity.
func (r *Registry) UnregisterInstance(instance Service) error {
	e := r.Find(instance)
	if e == nil {
		return ErrNotFound
	}
	r.retire(e)
	return nil
}

func (r *Registry) retire(e *Entry) {
	if e.disposed {
		return
	}
	for _, child := range r.Dependents(e.Handle) {
		r.retire(child)
	}
	delete(r.dependents, e.Handle)

	name := e.Instance.Name()
	if err := Guard(e.Instance.Disable); err != nil {
		logger.Errorf("Disable [%s] failed: %v", name, err)
	}
	if err := Guard(e.Instance.Destroy); err != nil {
		logger.Errorf("Destroy [%s] failed: %v", name, err)
	}
	if err := Guard(e.Instance.Dispose); err != nil {
		logger.Errorf("Dispose [%s] failed: %v", name, err)
	}
	r.remove(e)
}

// remove drops an entry without lifecycle calls.
func (r *Registry) remove(e *Entry) {
	e.disposed = true
	delete(r.byHandle, e.Handle)
	if e.Parent != uuid.Nil {
		siblings := r.dependents[e.Parent]
		for i, h := range siblings {
			if h == e.Handle {
				r.dependents[e.Parent] = append(siblings[:i:i], siblings[i+1:]...)
				break
			}
		}
	}
	if IsSystemContract(e.Contract) {
		if r.systemIndex[e.Contract] == e {
			delete(r.systemIndex, e.Contract)
		}
		r.systems = without(r.systems, e)
		return
	}
	r.services = without(r.services, e)
}

func without(list []*Entry, e *Entry) []*Entry {
	out := list[:0:0]
	for _, x := range list {
		if x != e {
			out = append(out, x)
		}
	}
	return out
}

// MarkDisposed hides an entry from lookups after its Dispose has run.
func (r *Registry) MarkDisposed(e *Entry) {
	e.disposed = true
}

/**
 * Enable or disable instances by contract and optional name
 * @returns {error} ErrNotFound if nothing matched, otherwise the first lifecycle failure
 */
func (r *Registry) SetEnabled(contract reflect.Type, name string, enabled bool) error {
	found := r.matchAll(contract, name)
	if len(found) == 0 {
		return ErrNotFound
	}
	var first error
	for _, e := range found {
		call, phase := e.Instance.Disable, "Disable"
		if enabled {
			call, phase = e.Instance.Enable, "Enable"
		}
		if err := Guard(call); err != nil {
			logger.Errorf("%s [%s] failed: %v", phase, e.Instance.Name(), err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

// Systems returns live system entries in iteration order.
func (r *Registry) Systems() []*Entry {
	return live(r.systems)
}

// Services returns live general-service entries in iteration order.
func (r *Registry) Services() []*Entry {
	return live(r.services)
}

func live(list []*Entry) []*Entry {
	out := make([]*Entry, 0, len(list))
	for _, e := range list {
		if !e.disposed {
			out = append(out, e)
		}
	}
	return out
}

func (r *Registry) Len() int {
	return len(r.Systems()) + len(r.Services())
}

/**
 * Replace iteration order of both tables
 * @param {[]*Entry} systems - Every system entry, in the new order
 * @param {[]*Entry} services - Every service entry, in the new order
 * @returns {error} Error if the lists are not a permutation of the current entries
 */
func (r *Registry) Reorder(systems, services []*Entry) error {
	if !samePermutation(r.Systems(), systems) || !samePermutation(r.Services(), services) {
		return errors.New("reorder must keep the same entries")
	}
	r.systems = append(r.systems[:0:0], systems...)
	r.services = append(r.services[:0:0], services...)
	return nil
}

func samePermutation(current, next []*Entry) bool {
	if len(current) != len(next) {
		return false
	}
	seen := make(map[*Entry]bool, len(current))
	for _, e := range current {
		seen[e] = true
	}
	for _, e := range next {
		if !seen[e] {
			return false
		}
		delete(seen, e)
	}
	return len(seen) == 0
}

// Clear drops every entry without lifecycle calls.
func (r *Registry) Clear() {
	for _, e := range r.byHandle {
		e.disposed = true
	}
	r.systems = nil
	r.services = nil
	r.systemIndex = map[reflect.Type]*Entry{}
	r.byHandle = map[uuid.UUID]*Entry{}
	r.dependents = map[uuid.UUID][]uuid.UUID{}
}

// ContractByName finds the contract of a registered entry by its printable name.
func (r *Registry) ContractByName(name string) (reflect.Type, bool) {
	for _, e := range r.Systems() {
		if e.ContractName() == name {
			return e.Contract, true
		}
	}
	for _, e := range r.Services() {
		if e.ContractName() == name {
			return e.Contract, true
		}
	}
	return nil, false
}
