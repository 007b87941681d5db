package platform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(ps []Platform) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name())
	}
	return out
}

func TestDiscoverAllIsIdempotent(t *testing.T) {
	c := NewCatalog(Environment{GOOS: "linux"})
	c.DiscoverAll()
	first := names(c.AvailablePlatforms())
	c.DiscoverAll()
	assert.Equal(t, first, names(c.AvailablePlatforms()))
	assert.Len(t, first, 8)
}

func TestDiscoverAllSkipsBrokenConstructors(t *testing.T) {
	c := NewCatalog(Environment{GOOS: "linux"})
	c.RegisterConstructor("broken", func(Environment) (Platform, error) {
		return nil, errors.New("no device")
	})
	c.RegisterConstructor("nil", func(Environment) (Platform, error) { return nil, nil })
	c.RegisterConstructor("panics", func(Environment) (Platform, error) { panic("boom") })

	c.DiscoverAll()

	got := names(c.AvailablePlatforms())
	assert.NotContains(t, got, "broken")
	assert.NotContains(t, got, "nil")
	assert.NotContains(t, got, "panics")
	assert.Contains(t, got, Linux)
}

func TestComputeActiveDeployed(t *testing.T) {
	c := NewCatalog(Environment{GOOS: "linux"})
	c.DiscoverAll()
	require.NoError(t, c.ComputeActive())

	assert.ElementsMatch(t, []string{All, Linux}, c.ActiveNames())
}

func TestComputeActiveResolvesOverrides(t *testing.T) {
	c := NewCatalog(Environment{GOOS: "android"})
	c.DiscoverAll()
	require.NoError(t, c.ComputeActive())

	assert.True(t, c.IsActive(Android))
	assert.False(t, c.IsActive(Linux), "android overrides linux")
}

func TestComputeActiveEditorUsesBuildTarget(t *testing.T) {
	c := NewCatalog(Environment{GOOS: "darwin", Editor: true, BuildTarget: "ios"})
	c.DiscoverAll()
	require.NoError(t, c.ComputeActive())

	assert.ElementsMatch(t, []string{All, Editor, IOS}, c.ActiveNames())
}

func TestComputeActiveEmpty(t *testing.T) {
	c := &Catalog{constructors: map[string]Constructor{
		"off": func(Environment) (Platform, error) { return New("off", false, false), nil },
	}}
	c.DiscoverAll()
	assert.ErrorIs(t, c.ComputeActive(), ErrNoActivePlatforms)
}

func TestComputeActiveDeterministic(t *testing.T) {
	c := NewCatalog(Environment{GOOS: "android"})
	c.DiscoverAll()
	require.NoError(t, c.ComputeActive())
	first := c.ActiveNames()
	require.NoError(t, c.ComputeActive())
	assert.Equal(t, first, c.ActiveNames())
}

func TestIsTargetActiveMatchesIntersection(t *testing.T) {
	c := NewCatalog(Environment{GOOS: "linux"})
	c.DiscoverAll()
	require.NoError(t, c.ComputeActive())

	lists := [][]string{
		{Linux},
		{Windows},
		{Windows, Linux},
		{MacOS, IOS},
		{Android},
		{"LINUX"},
	}
	for _, list := range lists {
		want := false
		for _, n := range list {
			if c.IsActive(n) {
				want = true
			}
		}
		assert.Equal(t, want, c.IsTargetActive(list), "%v", list)
	}
	assert.False(t, c.IsTargetActive(nil))
}

func TestIsTargetActiveSentinel(t *testing.T) {
	c := &Catalog{constructors: map[string]Constructor{}}
	c.DiscoverAll()
	assert.True(t, c.IsTargetActive([]string{Windows, All}))
}

func TestIsTargetActiveEditorMustAgree(t *testing.T) {
	deployed := NewCatalog(Environment{GOOS: "linux"})
	deployed.DiscoverAll()
	require.NoError(t, deployed.ComputeActive())
	assert.False(t, deployed.IsTargetActive([]string{Editor, Linux}), "editor listed but inactive")

	editor := NewCatalog(Environment{GOOS: "linux", Editor: true, BuildTarget: Linux})
	editor.DiscoverAll()
	require.NoError(t, editor.ComputeActive())
	assert.True(t, editor.IsTargetActive([]string{Editor, Linux}))
	assert.True(t, editor.IsTargetActive([]string{Linux}))
	assert.False(t, editor.IsTargetActive([]string{Windows}))
}
