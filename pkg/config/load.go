package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"gitlab.com/tinyland/lab/appkit-mirror/pkg/connector"
)

// DefaultProjectID is the placeholder project id used when none is configured.
const DefaultProjectID = "f2a3f3bc5f10c9dcd7bf3dc0427516c0"

const appName = "appkit-mirror"

// Load reads configuration from the standard config path.
// Search order:
//  1. $XDG_CONFIG_HOME/appkit-mirror/config.toml
//  2. ~/.config/appkit-mirror/config.toml
//
// If no file exists, returns DefaultConfig() with env overrides applied.
func Load() (*Config, error) {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromFile reads configuration from a specific file path. A missing file
// yields the defaults.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader reads configuration from an io.Reader. Keys not present keep
// their defaults.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		ProjectID: DefaultProjectID,
		Connector: ConnectorConfig{
			Kind: "sim",
			Bridge: BridgeConfig{
				URL:     "ws://127.0.0.1:7777/appkit",
				Timeout: Duration{10 * time.Second},
			},
		},
		AppKit: AppKitConfig{
			Adapters:     []string{"bitcoin"},
			Networks:     []string{"bitcoin", "bitcoin-testnet"},
			SwitchTarget: "bitcoin",
			SignMessage:  "Hello from AppKit",
			Metadata:     defaultMetadata(),
			Features:     connector.Features{Analytics: true},
		},
		Theme: ThemeConfig{
			Mode: "light",
		},
		UI: UIConfig{
			BlockFormat: "json",
			Layout:      "full",
			Mouse:       true,
		},
		Log: LogConfig{
			File:  filepath.Join(xdgStateHome(home), appName, appName+".log"),
			Level: "info",
		},
	}
}

func defaultMetadata() connector.Metadata {
	return connector.Metadata{
		Name:        "AppKit Bitcoin Example",
		Description: "AppKit Bitcoin Example",
		URL:         "https://reown.com/appkit",
		Icons:       []string{"https://avatars.githubusercontent.com/u/179229932?s=200&v=4"},
	}
}

// applyEnvOverrides checks environment variables and overrides config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("APPKIT_PROJECT_ID"); v != "" {
		cfg.ProjectID = v
	}
	if v := os.Getenv("APPKIT_CONNECTOR"); v != "" {
		cfg.Connector.Kind = v
	}
	if v := os.Getenv("APPKIT_BRIDGE_URL"); v != "" {
		cfg.Connector.Bridge.URL = v
	}
	if v := os.Getenv("APPKIT_THEME"); v != "" {
		cfg.Theme.Mode = v
	}
}

// configSearchPaths returns the ordered list of config file paths to try.
func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	var paths []string

	xdg := xdgConfigHome(home)
	paths = append(paths, filepath.Join(xdg, appName, "config.toml"))

	// If XDG_CONFIG_HOME was explicitly set, also try the fallback default.
	defaultXDG := filepath.Join(home, ".config")
	if xdg != defaultXDG {
		paths = append(paths, filepath.Join(defaultXDG, appName, "config.toml"))
	}

	return paths
}

// xdgConfigHome returns XDG_CONFIG_HOME or ~/.config as fallback.
func xdgConfigHome(home string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".config")
}

// xdgStateHome returns XDG_STATE_HOME or ~/.local/state as fallback.
func xdgStateHome(home string) string {
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".local", "state")
}
