package registry

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
)

var (
	ErrUnknownFactory   = errors.New("no factory registered for key")
	ErrAmbiguousFactory = errors.New("factory key registered for several contracts")
	ErrNilProduct       = errors.New("factory returned nil")
)

/**
 * Construction arguments handed to a factory
 * @property {string} Name - Display name from configuration
 * @property {uint32} Priority - Ordering key
 * @property {[]string} Platforms - Platforms the entry is declared for
 * @property {map[string]any} Settings - Opaque settings, passed through untouched
 * @property {Service} Parent - Owning service for data providers, nil otherwise
 * @property {*Registry} Registry - Registry the instance will be registered into
 */
type Args struct {
	Name      string
	Priority  uint32
	Platforms []string
	Settings  map[string]any
	Parent    Service
	Registry  *Registry
}

// Factory builds one service instance.
type Factory func(args Args) (Service, error)

// Factories maps contract -> configuration key -> constructor.
type Factories struct {
	table map[reflect.Type]map[string]Factory
}

func NewFactories() *Factories {
	return &Factories{table: map[reflect.Type]map[string]Factory{}}
}

// Register adds or replaces the factory for contract and key.
func (f *Factories) Register(contract reflect.Type, key string, fn Factory) {
	byKey, ok := f.table[contract]
	if !ok {
		byKey = map[string]Factory{}
		f.table[contract] = byKey
	}
	byKey[key] = fn
}

// RegisterFactory adds a typed constructor for contract T.
func RegisterFactory[T Service](f *Factories, key string, fn func(Args) (T, error)) {
	f.Register(ContractOf[T](), key, func(args Args) (Service, error) {
		v, err := fn(args)
		if err != nil {
			return nil, err
		}
		return v, nil
	})
}

/**
 * Build instance for contract and key
 * @returns {Service} Constructed instance implementing contract
 * @returns {error} ErrUnknownFactory, ErrNilProduct, ErrContractMismatch, the factory's own error, or a recovered panic
 */
func (f *Factories) Build(contract reflect.Type, key string, args Args) (s Service, err error) {
	fn, ok := f.table[contract][key]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownFactory, ContractName(contract), key)
	}
	defer func() {
		if r := recover(); r != nil {
			s, err = nil, fmt.Errorf("factory %s/%s panicked: %v", ContractName(contract), key, r)
		}
	}()
	s, err = fn(args)
	if err != nil {
		return nil, err
	}
	if isNil(s) {
		return nil, fmt.Errorf("%w: %s/%s", ErrNilProduct, ContractName(contract), key)
	}
	if !reflect.TypeOf(s).Implements(contract) {
		return nil, fmt.Errorf("%w: %T is not %s", ErrContractMismatch, s, ContractName(contract))
	}
	return s, nil
}

/**
 * Resolve the contract a configuration key belongs to
 * @param {string} key - Factory key from configuration
 * @returns {reflect.Type} The only contract registering key
 * @returns {error} ErrUnknownFactory or ErrAmbiguousFactory
 */
func (f *Factories) Resolve(key string) (reflect.Type, error) {
	var found reflect.Type
	for _, contract := range f.Contracts() {
		if _, ok := f.table[contract][key]; !ok {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%w: %s", ErrAmbiguousFactory, key)
		}
		found = contract
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFactory, key)
	}
	return found, nil
}

func (f *Factories) Has(contract reflect.Type, key string) bool {
	_, ok := f.table[contract][key]
	return ok
}

// Keys lists the configuration keys registered for contract.
func (f *Factories) Keys(contract reflect.Type) []string {
	keys := make([]string, 0, len(f.table[contract]))
	for k := range f.table[contract] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Contracts lists every contract with at least one factory.
func (f *Factories) Contracts() []reflect.Type {
	out := make([]reflect.Type, 0, len(f.table))
	for c := range f.table {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
