package registry

import "reflect"

// ContractOf returns the registry key for interface type T.
func ContractOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// Register registers instance under contract T.
func Register[T Service](r *Registry, instance T) error {
	_, err := r.Register(ContractOf[T](), instance)
	return err
}

// Get returns the single instance of T, optionally by name.
func Get[T Service](r *Registry, name string) (T, error) {
	var zero T
	s, err := r.Get(ContractOf[T](), name)
	if err != nil {
		return zero, err
	}
	t, ok := s.(T)
	if !ok {
		return zero, ErrContractMismatch
	}
	return t, nil
}

// TryGet is Get without the error detail.
func TryGet[T Service](r *Registry, name string) (T, bool) {
	t, err := Get[T](r, name)
	return t, err == nil
}

func GetAll[T Service](r *Registry, name string) []T {
	var out []T
	for _, s := range r.GetAll(ContractOf[T](), name) {
		if t, ok := s.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

// IsRegistered reports whether at least one instance of T matches name.
func IsRegistered[T Service](r *Registry, name string) bool {
	return len(r.GetAll(ContractOf[T](), name)) > 0
}

func IsSystemRegistered[T System](r *Registry) bool {
	_, ok := r.systemIndex[ContractOf[T]()]
	return ok
}

// Unregister removes instances of T; an empty name removes all of them.
func Unregister[T Service](r *Registry, name string) error {
	return r.Unregister(ContractOf[T](), name)
}

func EnableService[T Service](r *Registry, name string) error {
	return r.SetEnabled(ContractOf[T](), name, true)
}

func DisableService[T Service](r *Registry, name string) error {
	return r.SetEnabled(ContractOf[T](), name, false)
}
