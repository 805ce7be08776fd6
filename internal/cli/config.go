package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"

	"protmass/internal/model"
	"protmass/internal/protein"
	"protmass/internal/uniprot"
)

// Config holds all configuration options.
type Config struct {
	CacheDir      string `json:"cache_dir"`                //nolint:tagliatelle // snake_case for config file
	BaseURL       string `json:"base_url,omitempty"`       //nolint:tagliatelle // snake_case for config file
	AnnotationKey string `json:"annotation_key,omitempty"` //nolint:tagliatelle // snake_case for config file
	DelayMS       int    `json:"delay_ms,omitempty"`       //nolint:tagliatelle // snake_case for config file
}

// ConfigSources tracks which config files were loaded.
type ConfigSources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		CacheDir:      filepath.Join("_cache", "uniprot"),
		BaseURL:       uniprot.DefaultBaseURL,
		AnnotationKey: model.DefaultAnnotationKey,
		DelayMS:       int(protein.DefaultDelay.Milliseconds()),
	}
}

// ConfigFileName is the default project config file name.
const ConfigFileName = ".protmass.json"

// getGlobalConfigPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/protmass/config.json if set, otherwise
// ~/.config/protmass/config.json.
// Returns empty string if home directory cannot be determined.
func getGlobalConfigPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "protmass", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "protmass", "config.json")
	}

	home, err := os.UserHomeDir()
	if err == nil {
		return filepath.Join(home, ".config", "protmass", "config.json")
	}

	return ""
}

// LoadConfig loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config ($XDG_CONFIG_HOME/protmass/config.json or ~/.config/protmass/config.json)
// 3. Project config file at default location (.protmass.json, if exists)
// 4. Explicit config file via configPath (if non-empty)
//
// CLI flag overrides are applied by the commands themselves.
func LoadConfig(workDir, configPath string, env map[string]string) (Config, ConfigSources, error) {
	cfg := DefaultConfig()

	var sources ConfigSources

	globalCfg, globalPath, err := loadGlobalConfig(env)
	if err != nil {
		return Config{}, ConfigSources{}, err
	}

	sources.Global = globalPath
	cfg = mergeConfig(cfg, globalCfg)

	projectCfg, projectPath, err := loadProjectConfig(workDir, configPath)
	if err != nil {
		return Config{}, ConfigSources{}, err
	}

	sources.Project = projectPath
	cfg = mergeConfig(cfg, projectCfg)

	if cfg.CacheDir == "" {
		return Config{}, ConfigSources{}, errCacheDirEmpty
	}

	return cfg, sources, nil
}

// fileConfig is a parsed config file plus which fields it set.
type fileConfig struct {
	Config
	set map[string]bool
}

// loadGlobalConfig loads the global user config file if it exists.
// Returns the config, the path if loaded, and any error.
func loadGlobalConfig(env map[string]string) (fileConfig, string, error) {
	globalCfgPath := getGlobalConfigPath(env)
	if globalCfgPath == "" {
		return fileConfig{}, "", nil
	}

	cfg, loaded, err := loadConfigFile(globalCfgPath, false)
	if err != nil {
		return fileConfig{}, "", err
	}

	if !loaded {
		return fileConfig{}, "", nil
	}

	return cfg, globalCfgPath, nil
}

// loadProjectConfig loads the project config file (.protmass.json) or
// an explicit config file. Returns the config, the path if loaded,
// and any error.
func loadProjectConfig(workDir, configPath string) (fileConfig, string, error) {
	var cfgFile string

	var mustExist bool

	if configPath != "" {
		// Explicit config file - must exist
		cfgFile = configPath
		if !filepath.IsAbs(cfgFile) {
			cfgFile = filepath.Join(workDir, cfgFile)
		}

		mustExist = true

		_, statErr := os.Stat(cfgFile)
		if statErr != nil {
			return fileConfig{}, "", fmt.Errorf("%w: %s", errConfigFileNotFound, configPath)
		}
	} else {
		// Default project config file - optional
		cfgFile = filepath.Join(workDir, ConfigFileName)
		mustExist = false
	}

	cfg, loaded, err := loadConfigFile(cfgFile, mustExist)
	if err != nil {
		return fileConfig{}, "", err
	}

	if !loaded {
		return fileConfig{}, "", nil
	}

	return cfg, cfgFile, nil
}

// loadConfigFile loads a config file. If mustExist is false, missing
// files return zero config.
func loadConfigFile(path string, mustExist bool) (fileConfig, bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		if mustExist {
			return fileConfig{}, false, fmt.Errorf("%w: %s", errConfigFileNotFound, path)
		}

		return fileConfig{}, false, nil
	}

	cfg, parseErr := parseConfig(data)
	if parseErr != nil {
		return fileConfig{}, false, fmt.Errorf("%w %s: %w", errConfigInvalid, path, parseErr)
	}

	if cfg.set["cache_dir"] && cfg.CacheDir == "" {
		return fileConfig{}, false, fmt.Errorf("%w %s: %w", errConfigInvalid, path, errCacheDirEmpty)
	}

	return cfg, true, nil
}

func parseConfig(data []byte) (fileConfig, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fileConfig{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	unmarshalErr := json.Unmarshal(standardized, &cfg)
	if unmarshalErr != nil {
		return fileConfig{}, fmt.Errorf("invalid JSON: %w", unmarshalErr)
	}

	// Track which fields the file set at all, so a literal
	// `"delay_ms": 0` survives the merge instead of reading as unset.
	var raw map[string]json.RawMessage

	_ = json.Unmarshal(standardized, &raw)

	set := make(map[string]bool, len(raw))
	for key := range raw {
		set[key] = true
	}

	return fileConfig{Config: cfg, set: set}, nil
}

func mergeConfig(base Config, overlay fileConfig) Config {
	if overlay.set["cache_dir"] {
		base.CacheDir = overlay.CacheDir
	}

	if overlay.set["base_url"] {
		base.BaseURL = overlay.BaseURL
	}

	if overlay.set["annotation_key"] {
		base.AnnotationKey = overlay.AnnotationKey
	}

	if overlay.set["delay_ms"] {
		base.DelayMS = overlay.DelayMS
	}

	return base
}

// FormatConfig returns the config as formatted JSON.
func FormatConfig(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to format config: %w", err)
	}

	return string(data), nil
}
