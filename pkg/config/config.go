package config

import (
	"gitlab.com/tinyland/lab/appkit-mirror/pkg/connector"
)

// Config is the top-level configuration.
type Config struct {
	// ProjectID identifies the application to the wallet-connection cloud.
	ProjectID string          `toml:"project_id"`
	Connector ConnectorConfig `toml:"connector"`
	AppKit    AppKitConfig    `toml:"appkit"`
	Theme     ThemeConfig     `toml:"theme"`
	UI        UIConfig        `toml:"ui"`
	Log       LogConfig       `toml:"log"`
}

// ConnectorConfig selects and configures the connector implementation.
type ConnectorConfig struct {
	// Kind is "sim" for the built-in simulated wallet or "bridge" for an
	// external AppKit host.
	Kind   string       `toml:"kind"`
	Sim    SimConfig    `toml:"sim"`
	Bridge BridgeConfig `toml:"bridge"`
}

// SimConfig configures the simulated wallet.
type SimConfig struct {
	// Seed makes the wallet key deterministic. Empty means random.
	Seed string `toml:"seed"`
	// ThemeDelay postpones theme confirmations.
	ThemeDelay Duration `toml:"theme_delay"`
	// RejectSign makes the wallet refuse every signing request.
	RejectSign bool `toml:"reject_sign"`
	// NoProvider connects without advertising a bip122 provider.
	NoProvider bool `toml:"no_provider"`
}

// BridgeConfig configures the WebSocket bridge.
type BridgeConfig struct {
	URL     string   `toml:"url"`
	Timeout Duration `toml:"timeout"`
}

// AppKitConfig is passed to the connector at construction.
type AppKitConfig struct {
	Adapters []string `toml:"adapters"`
	// Networks is the whitelist, by catalogue name or CAIP-2 id.
	Networks []string `toml:"networks"`
	// SwitchTarget is the network the switch command moves to.
	SwitchTarget string             `toml:"switch_target"`
	SignMessage  string             `toml:"sign_message"`
	Metadata     connector.Metadata `toml:"metadata"`
	Features     connector.Features `toml:"features"`
}

// ThemeConfig holds theme settings.
type ThemeConfig struct {
	Mode      string            `toml:"mode"`
	Variables map[string]string `toml:"variables"`
	// SetBackground repaints the terminal background on theme changes.
	SetBackground bool `toml:"set_background"`
	// LightFile and DarkFile replace the built-in palettes.
	LightFile string `toml:"light_file"`
	DarkFile  string `toml:"dark_file"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	// BlockFormat is "json" or "yaml".
	BlockFormat string `toml:"block_format"`
	// Layout names a block layout preset.
	Layout string `toml:"layout"`
	Mouse  bool   `toml:"mouse"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}
