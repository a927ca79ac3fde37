// Package config provides configuration loading and management.
package config

import (
	"github.com/amdpack/cli/internal/locator"
)

// CDNConfig contains jsDelivr settings.
type CDNConfig struct {
	// Enabled turns on the CDN fallback for packages missing from node_modules.
	// Env: AMDPACK_CDN, Default: false
	Enabled bool `json:"enabled,omitempty" yaml:"enabled"`

	// BaseURL is the npm endpoint of the CDN.
	// Env: AMDPACK_CDN_BASE_URL, Default: https://cdn.jsdelivr.net/npm
	BaseURL string `json:"baseURL,omitempty" yaml:"baseURL"`

	// CacheSize is the number of CDN responses kept in memory.
	// Default: 1024
	CacheSize int `json:"cacheSize,omitempty" yaml:"cacheSize"`
}

// PackageConfig overrides how one package is found.
type PackageConfig struct {
	// Location is a directory, or another package name to read instead.
	Location string `json:"location,omitempty" yaml:"location,omitempty"`

	// Main forces the main file, ignoring the package's own package.json.
	Main string `json:"main,omitempty" yaml:"main,omitempty"`

	// Version pins the CDN version.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `json:"timestamps,omitempty" yaml:"timestamps,omitempty"`
}

// Config represents the amdpack configuration.
// Loaded from ~/.amdpack/config.yaml, validated against the embedded CUE schema.
type Config struct {
	// NodeModules is the directory node_modules lookups start from.
	// Env: AMDPACK_NODE_MODULES, Default: "."
	NodeModules string `json:"nodeModules,omitempty" yaml:"nodeModules"`

	// CDN contains jsDelivr settings.
	CDN CDNConfig `json:"cdn,omitempty" yaml:"cdn"`

	// Env lists KEY=VALUE pairs injected into the process package.
	Env []string `json:"env,omitempty" yaml:"env,omitempty"`

	// Packages maps package names to lookup overrides.
	Packages map[string]PackageConfig `json:"packages,omitempty" yaml:"packages,omitempty"`

	// Log contains logging-related settings.
	Log LogConfig `json:"log,omitempty" yaml:"log,omitempty"`
}

// DefaultConfig returns a Config with all default values populated.
// Used by `amdpack config init` to generate the initial config file.
func DefaultConfig() *Config {
	return &Config{
		NodeModules: ".",
		CDN: CDNConfig{
			BaseURL:   locator.DefaultCDNBaseURL,
			CacheSize: locator.DefaultCacheSize,
		},
	}
}

// WithDefaults returns a copy of c with unset fields taken from DefaultConfig.
func (c *Config) WithDefaults() *Config {
	out := *c
	def := DefaultConfig()
	if out.NodeModules == "" {
		out.NodeModules = def.NodeModules
	}
	if out.CDN.BaseURL == "" {
		out.CDN.BaseURL = def.CDN.BaseURL
	}
	if out.CDN.CacheSize == 0 {
		out.CDN.CacheSize = def.CDN.CacheSize
	}
	return &out
}

// LocatorPackages converts the package overrides for the locator layer.
func (c *Config) LocatorPackages() map[string]locator.Package {
	out := make(map[string]locator.Package, len(c.Packages))
	for name, p := range c.Packages {
		out[name] = locator.Package{
			Name:     name,
			Location: p.Location,
			Main:     p.Main,
			Version:  p.Version,
		}
	}
	return out
}
