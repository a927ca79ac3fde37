package config

import (
	"os"
	"strconv"

	"github.com/amdpack/cli/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue is one configuration value and where it came from.
type ResolvedValue struct {
	Key    string
	Value  string
	Source ConfigSource

	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]string
}

// ResolveString resolves key using precedence: flag > env > config > default.
// Empty values count as unset.
func ResolveString(key, flagValue, envVar, configValue, defaultValue string) ResolvedValue {
	candidates := []struct {
		source ConfigSource
		value  string
	}{
		{SourceFlag, flagValue},
		{SourceEnv, os.Getenv(envVar)},
		{SourceConfig, configValue},
		{SourceDefault, defaultValue},
	}

	result := ResolvedValue{Key: key, Shadowed: make(map[ConfigSource]string)}
	for _, c := range candidates {
		if c.value == "" {
			continue
		}
		if result.Source == "" {
			result.Value = c.value
			result.Source = c.source
			continue
		}
		result.Shadowed[c.source] = c.value
	}
	return result
}

// ResolveConfigPathOptions contains options for config path resolution.
type ResolveConfigPathOptions struct {
	// FlagValue is the --config flag value (empty if not set).
	FlagValue string
}

// ResolveConfigPathResult contains the resolved config path and its source.
type ResolveConfigPathResult struct {
	// ConfigPath is the resolved config file path.
	ConfigPath string
	// Source indicates where the config path came from.
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]string
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) AMDPACK_CONFIG env, (3) ~/.amdpack/config.yaml default
func ResolveConfigPath(opts ResolveConfigPathOptions) (ResolveConfigPathResult, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return ResolveConfigPathResult{Shadowed: make(map[ConfigSource]string)}, err
	}

	v := ResolveString("config", opts.FlagValue, EnvConfig, "", paths.ConfigFile)
	return ResolveConfigPathResult{
		ConfigPath: v.Value,
		Source:     v.Source,
		Shadowed:   v.Shadowed,
	}, nil
}

// ResolveOptions carries the flag values that override configuration.
type ResolveOptions struct {
	NodeModulesFlag string
	CDNBaseURLFlag  string

	// CDNFlag is set when --cdn was given explicitly.
	CDNFlag *bool

	Config *Config
}

// Resolved is the effective configuration of one command run.
type Resolved struct {
	NodeModules string
	CDN         bool
	CDNBaseURL  string
	CacheSize   int
	Packages    map[string]PackageConfig
	Env         []string

	// Values records every resolved key for verbose logging.
	Values []ResolvedValue
}

// Resolve applies flag > env > config > default precedence to the settings
// commands share.
func Resolve(opts ResolveOptions) *Resolved {
	cfg := opts.Config
	if cfg == nil {
		cfg = &Config{}
	}
	def := DefaultConfig()

	nodeModules := ResolveString("nodeModules", opts.NodeModulesFlag, EnvNodeModules, cfg.NodeModules, def.NodeModules)
	baseURL := ResolveString("cdn.baseURL", opts.CDNBaseURLFlag, EnvCDNBaseURL, cfg.CDN.BaseURL, def.CDN.BaseURL)

	var cdnFlag string
	if opts.CDNFlag != nil {
		cdnFlag = strconv.FormatBool(*opts.CDNFlag)
	}
	var cdnConfig string
	if cfg.CDN.Enabled {
		cdnConfig = "true"
	}
	cdn := ResolveString("cdn.enabled", cdnFlag, EnvCDN, cdnConfig, "false")
	enabled, err := strconv.ParseBool(cdn.Value)
	if err != nil {
		output.Warn("ignoring invalid boolean", "key", cdn.Key, "value", cdn.Value, "source", cdn.Source)
		enabled = false
	}

	cacheSize := cfg.CDN.CacheSize
	if cacheSize <= 0 {
		cacheSize = def.CDN.CacheSize
	}

	return &Resolved{
		NodeModules: nodeModules.Value,
		CDN:         enabled,
		CDNBaseURL:  baseURL.Value,
		CacheSize:   cacheSize,
		Packages:    cfg.Packages,
		Env:         cfg.Env,
		Values:      []ResolvedValue{nodeModules, cdn, baseURL},
	}
}

// LogResolvedValues logs configuration resolution at DEBUG level.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
