package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"gitlab.com/tinyland/lab/appkit-mirror/pkg/connector"
	"gitlab.com/tinyland/lab/appkit-mirror/pkg/network"
)

// Connector kinds.
const (
	ConnectorSim    = "sim"
	ConnectorBridge = "bridge"
)

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.ProjectID) == "" {
		errs = append(errs, errors.New("project_id must not be empty"))
	}

	switch c.Connector.Kind {
	case ConnectorSim:
	case ConnectorBridge:
		if err := validateBridgeURL(c.Connector.Bridge.URL); err != nil {
			errs = append(errs, err)
		}
	default:
		errs = append(errs, fmt.Errorf("connector.kind %q must be %q or %q", c.Connector.Kind, ConnectorSim, ConnectorBridge))
	}

	nets, err := network.Whitelist(c.AppKit.Networks)
	if err != nil {
		errs = append(errs, fmt.Errorf("appkit.networks: %w", err))
	}
	if len(c.AppKit.Networks) == 0 {
		errs = append(errs, errors.New("appkit.networks must list at least one network"))
	}
	if _, ok := network.Lookup(c.AppKit.SwitchTarget); !ok {
		errs = append(errs, fmt.Errorf("appkit.switch_target: unknown network %q", c.AppKit.SwitchTarget))
	} else if err == nil && !contains(nets, c.AppKit.SwitchTarget) {
		errs = append(errs, fmt.Errorf("appkit.switch_target %q is not in appkit.networks", c.AppKit.SwitchTarget))
	}

	if mode := connector.ThemeMode(c.Theme.Mode); !mode.Valid() {
		errs = append(errs, fmt.Errorf("theme.mode %q must be light or dark", c.Theme.Mode))
	}

	switch c.UI.BlockFormat {
	case "json", "yaml":
	default:
		errs = append(errs, fmt.Errorf("ui.block_format %q must be json or yaml", c.UI.BlockFormat))
	}
	if !isLayout(c.UI.Layout) {
		errs = append(errs, fmt.Errorf("ui.layout %q must be one of %s", c.UI.Layout, strings.Join(LayoutNames(), ", ")))
	}

	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func validateBridgeURL(raw string) error {
	if raw == "" {
		return errors.New("connector.bridge.url is required for the bridge connector")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("connector.bridge.url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("connector.bridge.url %q must use ws or wss", raw)
	}
	return nil
}

func contains(nets []connector.Network, name string) bool {
	target, ok := network.Lookup(name)
	if !ok {
		return false
	}
	for _, n := range nets {
		if n.CAIPNetworkID == target.CAIPNetworkID {
			return true
		}
	}
	return false
}

// ConnectorOptions builds the connector construction options.
func (c *Config) ConnectorOptions() (connector.Options, error) {
	nets, err := network.Whitelist(c.AppKit.Networks)
	if err != nil {
		return connector.Options{}, err
	}
	return connector.Options{
		Adapters:       c.AppKit.Adapters,
		Networks:       nets,
		ProjectID:      c.ProjectID,
		Metadata:       c.AppKit.Metadata,
		Features:       c.AppKit.Features,
		ThemeMode:      connector.ThemeMode(c.Theme.Mode),
		ThemeVariables: c.Theme.Variables,
	}, nil
}

// SwitchTarget resolves appkit.switch_target.
func (c *Config) SwitchTarget() (connector.Network, error) {
	n, ok := network.Lookup(c.AppKit.SwitchTarget)
	if !ok {
		return connector.Network{}, fmt.Errorf("unknown network %q", c.AppKit.SwitchTarget)
	}
	return n, nil
}

// SlogLevel returns the configured log level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	lvl, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level %q must be debug, info, warn or error", s)
	}
	return lvl, nil
}
