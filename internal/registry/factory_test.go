package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoriesBuild(t *testing.T) {
	f := NewFactories()
	RegisterFactory[widget](f, "default", func(a Args) (widget, error) {
		w := newWidget(a.Name, nil)
		w.priority = a.Priority
		return w, nil
	})

	s, err := f.Build(ContractOf[widget](), "default", Args{Name: "built", Priority: 3})
	require.NoError(t, err)
	assert.Equal(t, "built", s.Name())
	assert.Equal(t, uint32(3), s.Priority())
	assert.True(t, f.Has(ContractOf[widget](), "default"))
	assert.Equal(t, []string{"default"}, f.Keys(ContractOf[widget]()))
}

func TestFactoriesBuildFailures(t *testing.T) {
	f := NewFactories()
	contract := ContractOf[widget]()

	_, err := f.Build(contract, "missing", Args{})
	assert.ErrorIs(t, err, ErrUnknownFactory)

	f.Register(contract, "nil", func(Args) (Service, error) { return nil, nil })
	_, err = f.Build(contract, "nil", Args{})
	assert.ErrorIs(t, err, ErrNilProduct)

	RegisterFactory[widget](f, "typed-nil", func(Args) (widget, error) {
		var w *widgetProbe
		return w, nil
	})
	_, err = f.Build(contract, "typed-nil", Args{})
	assert.ErrorIs(t, err, ErrNilProduct)

	f.Register(contract, "wrong", func(a Args) (Service, error) { return newCamera(a.Name, nil), nil })
	_, err = f.Build(contract, "wrong", Args{Name: "cam"})
	assert.ErrorIs(t, err, ErrContractMismatch)

	boom := errors.New("boom")
	f.Register(contract, "error", func(Args) (Service, error) { return nil, boom })
	_, err = f.Build(contract, "error", Args{})
	assert.ErrorIs(t, err, boom)

	f.Register(contract, "panic", func(Args) (Service, error) { panic("constructor exploded") })
	_, err = f.Build(contract, "panic", Args{})
	assert.ErrorContains(t, err, "constructor exploded")
}

func TestFactoriesResolve(t *testing.T) {
	f := NewFactories()
	RegisterFactory[widget](f, "spinner", func(a Args) (widget, error) { return newWidget(a.Name, nil), nil })
	RegisterFactory[widget](f, "default", func(a Args) (widget, error) { return newWidget(a.Name, nil), nil })
	RegisterFactory[cameraSys](f, "default", func(a Args) (cameraSys, error) { return newCamera(a.Name, nil), nil })

	contract, err := f.Resolve("spinner")
	require.NoError(t, err)
	assert.Equal(t, ContractOf[widget](), contract)

	_, err = f.Resolve("default")
	assert.ErrorIs(t, err, ErrAmbiguousFactory)

	_, err = f.Resolve("nothing")
	assert.ErrorIs(t, err, ErrUnknownFactory)
}
