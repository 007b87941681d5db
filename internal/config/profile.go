package config

import (
	"errors"
	"fmt"
	"strings"

	"toolkit-keeper/internal/models"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/oops"
	"github.com/spf13/viper"
)

/**
 * Load toolkit profile from a YAML file
 * @param {string} path - Profile file path
 * @returns {*models.ToolkitProfile} Decoded profile
 * @returns {error} Read or decode error
 * @description
 * - Settings maps are decoded as-is and never interpreted here
 */
func LoadProfile(path string) (*models.ToolkitProfile, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, oops.In(logDomain).With("profile", path).Wrapf(err, "failed to read profile")
	}
	return decodeProfile(v, path)
}

func decodeProfile(v *viper.Viper, path string) (*models.ToolkitProfile, error) {
	var profile models.ToolkitProfile
	if err := v.Unmarshal(&profile); err != nil {
		return nil, oops.In(logDomain).With("profile", path).Wrapf(err, "failed to decode profile")
	}
	return &profile, nil
}

// ProfileWatcher reloads a profile whenever its file changes.
type ProfileWatcher struct {
	v    *viper.Viper
	path string
}

/**
 * Watch profile file for changes
 * @param {string} path - Profile file path
 * @param {func(*models.ToolkitProfile, error)} onChange - Called from the watcher goroutine with the reloaded profile
 * @returns {*ProfileWatcher} Watcher, already started
 * @returns {error} Error if the initial read fails
 */
func WatchProfile(path string, onChange func(*models.ToolkitProfile, error)) (*ProfileWatcher, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, oops.In(logDomain).With("profile", path).Wrapf(err, "failed to read profile")
	}
	w := &ProfileWatcher{v: v, path: path}
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		onChange(decodeProfile(w.v, w.path))
	})
	v.WatchConfig()
	return w, nil
}

func (w *ProfileWatcher) Path() string {
	return w.path
}

/**
 * Check a profile for structural mistakes
 * @param {*models.ToolkitProfile} profile - Profile to check
 * @returns {error} Joined list of problems, nil if none
 * @description
 * - Enabled slots and every entry need a factory type
 * - Entries need a name unique among their siblings
 * - Entries need at least one platform
 */
func ValidateProfile(profile *models.ToolkitProfile) error {
	if profile == nil {
		return errors.New("profile is nil")
	}
	var errs []error
	check := func(slot string, sp *models.SystemProfile) {
		if !sp.Enabled {
			return
		}
		if strings.TrimSpace(sp.Type) == "" {
			errs = append(errs, fmt.Errorf("%s: enabled without type", slot))
		}
		errs = append(errs, validateEntries(slot+".providers", sp.Providers)...)
	}
	check("camera", &profile.Camera)
	check("input", &profile.Input.SystemProfile)
	if profile.Input.Enabled && profile.Input.FocusProvider != nil {
		errs = append(errs, validateEntries("input.focus_provider", []models.ServiceConfiguration{*profile.Input.FocusProvider})...)
	}
	check("boundary", &profile.Boundary)
	check("spatial_awareness", &profile.SpatialAwareness)
	check("teleport", &profile.Teleport)
	check("networking", &profile.Networking)
	check("diagnostics", &profile.Diagnostics)
	errs = append(errs, validateEntries("services", profile.Services)...)
	return errors.Join(errs...)
}

func validateEntries(where string, entries []models.ServiceConfiguration) []error {
	var errs []error
	seen := map[string]bool{}
	for i, e := range entries {
		at := fmt.Sprintf("%s[%d]", where, i)
		if strings.TrimSpace(e.Type) == "" {
			errs = append(errs, fmt.Errorf("%s: missing type", at))
		}
		if strings.TrimSpace(e.Name) == "" {
			errs = append(errs, fmt.Errorf("%s: missing name", at))
		} else if seen[e.Name] {
			errs = append(errs, fmt.Errorf("%s: duplicate name %q", at, e.Name))
		}
		seen[e.Name] = true
		if len(e.Platforms) == 0 {
			errs = append(errs, fmt.Errorf("%s: no platforms", at))
		}
		errs = append(errs, validateEntries(at+".providers", e.Providers)...)
	}
	return errs
}
