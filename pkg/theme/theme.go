// Package theme holds the light and dark palettes, theme-variable overrides
// and the process-wide presentation environment the mirror drives.
package theme

import (
	"sort"
	"strings"
	"sync"

	"gitlab.com/tinyland/lab/appkit-mirror/pkg/connector"
)

// Theme defines the complete color palette for the interface.
type Theme struct {
	Name string
	Mode connector.ThemeMode

	// Base colors
	Background string // hex color e.g. "#141414"
	Foreground string
	Dim        string // secondary text
	Accent     string // highlights, focused borders, buttons

	// Block colors
	Border      string
	BorderFocus string
	Title       string // block label text

	// Logo is the wordmark color; it swaps between modes.
	Logo string

	// Status colors
	StatusOK    string
	StatusWarn  string
	StatusError string

	// Buttons
	ButtonFg string
	ButtonBg string

	HelpKey  string
	HelpDesc string
}

var (
	mu       sync.RWMutex
	registry = map[string]Theme{}
	current  Theme
)

func init() {
	thRegisterBuiltins()
	current = thLightTheme()
}

// Get returns a named theme, falling back to light if not found.
func Get(name string) Theme {
	mu.RLock()
	defer mu.RUnlock()
	if t, ok := registry[strings.ToLower(name)]; ok {
		return t
	}
	return registry[string(connector.ThemeLight)]
}

// ForMode returns the palette registered for mode.
func ForMode(mode connector.ThemeMode) Theme {
	if mode == connector.ThemeDark {
		return Get(string(connector.ThemeDark))
	}
	return Get(string(connector.ThemeLight))
}

// Names returns all available theme names sorted alphabetically.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetCurrent sets the active theme by name.
func SetCurrent(name string) {
	t := Get(name)
	mu.Lock()
	current = t
	mu.Unlock()
}

// Active returns the active theme.
func Active() Theme {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Register adds t to the registry under its lowercase name, replacing any
// theme with the same name. Custom palettes loaded from TOML go through here.
func Register(t Theme) {
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(t.Name)] = t
}
