package platform

import (
	"runtime"
	"slices"
	"strings"
)

// Names of the built-in platform descriptors.
const (
	All     = "all"
	Editor  = "editor"
	Windows = "windows"
	Linux   = "linux"
	MacOS   = "macos"
	Android = "android"
	IOS     = "ios"
	Web     = "web"
)

// Platform describes one deployment or runtime target.
type Platform interface {
	Name() string
	// IsAvailable reports whether the running environment is this platform.
	IsAvailable() bool
	// IsBuildTargetAvailable reports whether the authoring environment targets this platform.
	IsBuildTargetAvailable() bool
	// Overrides lists descriptors that must not be active while this one is.
	Overrides() []string
}

/**
 * Runtime environment the descriptors evaluate against
 * @property {string} GOOS - Operating system of the running process
 * @property {bool} Editor - True when running inside the authoring environment
 * @property {string} BuildTarget - Platform the authoring environment builds for
 */
type Environment struct {
	GOOS        string `json:"goos"`
	Editor      bool   `json:"editor"`
	BuildTarget string `json:"buildTarget"`
}

// CurrentEnvironment builds an Environment for this process.
func CurrentEnvironment(editor bool, buildTarget string) Environment {
	return Environment{
		GOOS:        runtime.GOOS,
		Editor:      editor,
		BuildTarget: Normalize(buildTarget),
	}
}

// Normalize folds a platform name into its registry form.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

type descriptor struct {
	name        string
	available   bool
	buildTarget bool
	overrides   []string
}

func (d *descriptor) Name() string                 { return d.name }
func (d *descriptor) IsAvailable() bool            { return d.available }
func (d *descriptor) IsBuildTargetAvailable() bool { return d.buildTarget }
func (d *descriptor) Overrides() []string          { return d.overrides }

// New returns a fixed descriptor, mainly for custom constructors and tests.
func New(name string, available, buildTarget bool, overrides ...string) Platform {
	return &descriptor{
		name:        Normalize(name),
		available:   available,
		buildTarget: buildTarget,
		overrides:   overrides,
	}
}

// osPlatform is available when deployed to one of its GOOS values, and
// build-target-available when the editor targets it.
func osPlatform(name string, goos []string, overrides ...string) Constructor {
	return func(env Environment) (Platform, error) {
		return &descriptor{
			name:        name,
			available:   !env.Editor && slices.Contains(goos, env.GOOS),
			buildTarget: env.Editor && env.BuildTarget == name,
			overrides:   overrides,
		}, nil
	}
}

func builtinConstructors() map[string]Constructor {
	return map[string]Constructor{
		All: func(Environment) (Platform, error) {
			return &descriptor{name: All, available: true, buildTarget: true}, nil
		},
		Editor: func(env Environment) (Platform, error) {
			return &descriptor{name: Editor, available: env.Editor, buildTarget: env.Editor}, nil
		},
		Windows: osPlatform(Windows, []string{"windows"}),
		Linux:   osPlatform(Linux, []string{"linux", "android"}),
		MacOS:   osPlatform(MacOS, []string{"darwin", "ios"}),
		Android: osPlatform(Android, []string{"android"}, Linux),
		IOS:     osPlatform(IOS, []string{"ios"}, MacOS),
		Web:     osPlatform(Web, []string{"js", "wasip1"}),
	}
}
