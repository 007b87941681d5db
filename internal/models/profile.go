package models

/**
 * One service or data provider to instantiate
 * @property {string} type - Factory key of the concrete implementation
 * @property {string} name - Display name, unique within its contract
 * @property {uint32} priority - Lower runs first at initialize/enable
 * @property {[]string} platforms - Platforms the entry is eligible for
 * @property {map[string]any} settings - Opaque settings passed to the factory
 * @property {[]ServiceConfiguration} providers - Nested data providers
 */
type ServiceConfiguration struct {
	Type      string                 `mapstructure:"type" json:"type" yaml:"type"`
	Name      string                 `mapstructure:"name" json:"name" yaml:"name"`
	Priority  uint32                 `mapstructure:"priority" json:"priority" yaml:"priority"`
	Platforms []string               `mapstructure:"platforms" json:"platforms,omitempty" yaml:"platforms,omitempty"`
	Settings  map[string]any         `mapstructure:"settings" json:"settings,omitempty" yaml:"settings,omitempty"`
	Providers []ServiceConfiguration `mapstructure:"providers" json:"providers,omitempty" yaml:"providers,omitempty"`
}

// SystemProfile configures one system slot.
type SystemProfile struct {
	Enabled   bool                   `mapstructure:"enabled" json:"enabled" yaml:"enabled"`
	Type      string                 `mapstructure:"type" json:"type" yaml:"type"`
	Name      string                 `mapstructure:"name" json:"name,omitempty" yaml:"name,omitempty"`
	Priority  uint32                 `mapstructure:"priority" json:"priority" yaml:"priority"`
	Platforms []string               `mapstructure:"platforms" json:"platforms,omitempty" yaml:"platforms,omitempty"`
	Settings  map[string]any         `mapstructure:"settings" json:"settings,omitempty" yaml:"settings,omitempty"`
	Providers []ServiceConfiguration `mapstructure:"providers" json:"providers,omitempty" yaml:"providers,omitempty"`
}

// InputSystemProfile adds the focus provider the input system depends on.
type InputSystemProfile struct {
	SystemProfile `mapstructure:",squash" yaml:",inline"`
	FocusProvider *ServiceConfiguration `mapstructure:"focus_provider" json:"focusProvider,omitempty" yaml:"focus_provider,omitempty"`
}

/**
 * Root configuration of the service runtime
 * @description
 * - One slot per system, populated in a fixed order
 * - Services lists top-level general services, each with optional providers
 */
type ToolkitProfile struct {
	Name             string                 `mapstructure:"name" json:"name" yaml:"name"`
	Camera           SystemProfile          `mapstructure:"camera" json:"camera" yaml:"camera"`
	Input            InputSystemProfile     `mapstructure:"input" json:"input" yaml:"input"`
	Boundary         SystemProfile          `mapstructure:"boundary" json:"boundary" yaml:"boundary"`
	SpatialAwareness SystemProfile          `mapstructure:"spatial_awareness" json:"spatialAwareness" yaml:"spatial_awareness"`
	Teleport         SystemProfile          `mapstructure:"teleport" json:"teleport" yaml:"teleport"`
	Networking       SystemProfile          `mapstructure:"networking" json:"networking" yaml:"networking"`
	Diagnostics      SystemProfile          `mapstructure:"diagnostics" json:"diagnostics" yaml:"diagnostics"`
	Services         []ServiceConfiguration `mapstructure:"services" json:"services,omitempty" yaml:"services,omitempty"`
}
