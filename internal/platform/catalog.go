package platform

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"toolkit-keeper/internal/logger"
)

var ErrNoActivePlatforms = errors.New("no active platforms")

// Constructor instantiates a descriptor for the given environment.
type Constructor func(env Environment) (Platform, error)

// Catalog discovers platform descriptors and tracks which of them are active.
type Catalog struct {
	env          Environment
	constructors map[string]Constructor
	available    []Platform
	active       []Platform
}

/**
 * Create catalog with the built-in descriptors
 * @param {Environment} env - Environment descriptors are evaluated against
 * @returns {*Catalog} New catalog, nothing discovered yet
 * @example
 * catalog := platform.NewCatalog(platform.CurrentEnvironment(false, ""))
 * catalog.DiscoverAll()
 * if err := catalog.ComputeActive(); err != nil {
 *     logger.Error(err)
 * }
 */
func NewCatalog(env Environment) *Catalog {
	return &Catalog{
		env:          env,
		constructors: builtinConstructors(),
	}
}

func (c *Catalog) Environment() Environment {
	return c.env
}

// SetEnvironment takes effect on the next DiscoverAll.
func (c *Catalog) SetEnvironment(env Environment) {
	c.env = env
}

// RegisterConstructor adds or replaces a descriptor constructor.
func (c *Catalog) RegisterConstructor(name string, ctor Constructor) {
	c.constructors[Normalize(name)] = ctor
}

/**
 * Instantiate every known descriptor
 * @description
 * - Clears the available and active lists first, safe to call repeatedly
 * - Constructors run in name order
 * - A constructor that fails, panics or returns nil is logged and skipped
 */
func (c *Catalog) DiscoverAll() {
	c.available = c.available[:0]
	c.active = c.active[:0]

	names := make([]string, 0, len(c.constructors))
	for name := range c.constructors {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p, err := construct(c.constructors[name], c.env)
		if err != nil {
			logger.Errorf("Failed to instantiate platform [%s]: %v", name, err)
			continue
		}
		c.available = append(c.available, p)
	}
}

func construct(ctor Constructor, env Environment) (p Platform, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	p, err = ctor(env)
	if err == nil && p == nil {
		err = errors.New("constructor returned nil")
	}
	return p, err
}

func eligible(p Platform) bool {
	return p.IsAvailable() || p.IsBuildTargetAvailable()
}

/**
 * Compute active subset of the available descriptors
 * @returns {error} ErrNoActivePlatforms if nothing is active
 * @description
 * - Collects overrides from every available or build-target-available descriptor
 * - Active descriptors are eligible and not overridden by another eligible descriptor
 */
func (c *Catalog) ComputeActive() error {
	overridden := map[string]bool{}
	for _, p := range c.available {
		if !eligible(p) {
			continue
		}
		for _, o := range p.Overrides() {
			o = Normalize(o)
			if o != p.Name() {
				overridden[o] = true
			}
		}
	}

	c.active = c.active[:0]
	for _, p := range c.available {
		if eligible(p) && !overridden[p.Name()] {
			c.active = append(c.active, p)
		}
	}
	if len(c.active) == 0 {
		return ErrNoActivePlatforms
	}
	return nil
}

func (c *Catalog) AvailablePlatforms() []Platform {
	return slices.Clone(c.available)
}

func (c *Catalog) ActivePlatforms() []Platform {
	return slices.Clone(c.active)
}

// ActiveNames returns the names of the active descriptors.
func (c *Catalog) ActiveNames() []string {
	names := make([]string, 0, len(c.active))
	for _, p := range c.active {
		names = append(names, p.Name())
	}
	return names
}

func (c *Catalog) IsActive(name string) bool {
	name = Normalize(name)
	for _, p := range c.active {
		if p.Name() == name {
			return true
		}
	}
	return false
}

func (c *Catalog) Lookup(name string) (Platform, bool) {
	name = Normalize(name)
	for _, p := range c.available {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

/**
 * Check whether a configuration entry may run on the active platforms
 * @param {[]string} candidates - Platform names declared by the entry
 * @returns {bool} True if the entry is eligible
 * @description
 * - The "all" sentinel makes any list eligible
 * - Otherwise at least one candidate must be active
 * - If "editor" is a candidate it must be active too
 */
func (c *Catalog) IsTargetActive(candidates []string) bool {
	matched := false
	editorListed := false
	for _, name := range candidates {
		name = Normalize(name)
		if name == All {
			return true
		}
		if name == Editor {
			editorListed = true
		}
		if c.IsActive(name) {
			matched = true
		}
	}
	if !matched {
		return false
	}
	return !editorListed || c.IsActive(Editor)
}
