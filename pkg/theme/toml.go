package theme

import (
	"bytes"
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"

	"gitlab.com/tinyland/lab/appkit-mirror/pkg/connector"
)

// thTOMLTheme is the TOML-serializable representation of a Theme.
type thTOMLTheme struct {
	Name   string       `toml:"name"`
	Mode   string       `toml:"mode"`
	Base   thTOMLBase   `toml:"base"`
	Block  thTOMLBlock  `toml:"block"`
	Status thTOMLStatus `toml:"status"`
	Button thTOMLButton `toml:"button"`
	Help   thTOMLHelp   `toml:"help"`
}

type thTOMLBase struct {
	Background string `toml:"background"`
	Foreground string `toml:"foreground"`
	Dim        string `toml:"dim"`
	Accent     string `toml:"accent"`
	Logo       string `toml:"logo"`
}

type thTOMLBlock struct {
	Border      string `toml:"border"`
	BorderFocus string `toml:"border_focus"`
	Title       string `toml:"title"`
}

type thTOMLStatus struct {
	OK    string `toml:"ok"`
	Warn  string `toml:"warn"`
	Error string `toml:"error"`
}

type thTOMLButton struct {
	Foreground string `toml:"foreground"`
	Background string `toml:"background"`
}

type thTOMLHelp struct {
	Key  string `toml:"key"`
	Desc string `toml:"desc"`
}

var thHexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// LoadFromTOML parses a TOML palette. Fields left out fall back to the
// built-in palette for the declared mode, so a file may override only a few
// tokens.
func LoadFromTOML(data []byte) (Theme, error) {
	var tt thTOMLTheme
	if err := toml.Unmarshal(data, &tt); err != nil {
		return Theme{}, fmt.Errorf("theme: parse TOML: %w", err)
	}
	if tt.Name == "" {
		return Theme{}, fmt.Errorf("theme: missing required field %q", "name")
	}

	mode := connector.ThemeMode(tt.Mode)
	if !mode.Valid() {
		return Theme{}, fmt.Errorf("theme: mode %q must be light or dark", tt.Mode)
	}

	base := thLightTheme()
	if mode == connector.ThemeDark {
		base = thDarkTheme()
	}

	t := base
	t.Name = tt.Name
	t.Mode = mode
	thOverride(&t.Background, tt.Base.Background)
	thOverride(&t.Foreground, tt.Base.Foreground)
	thOverride(&t.Dim, tt.Base.Dim)
	thOverride(&t.Accent, tt.Base.Accent)
	thOverride(&t.Logo, tt.Base.Logo)
	thOverride(&t.Border, tt.Block.Border)
	thOverride(&t.BorderFocus, tt.Block.BorderFocus)
	thOverride(&t.Title, tt.Block.Title)
	thOverride(&t.StatusOK, tt.Status.OK)
	thOverride(&t.StatusWarn, tt.Status.Warn)
	thOverride(&t.StatusError, tt.Status.Error)
	thOverride(&t.ButtonFg, tt.Button.Foreground)
	thOverride(&t.ButtonBg, tt.Button.Background)
	thOverride(&t.HelpKey, tt.Help.Key)
	thOverride(&t.HelpDesc, tt.Help.Desc)

	if err := thValidateTheme(t); err != nil {
		return Theme{}, err
	}
	return t, nil
}

// LoadFile reads a TOML palette from path.
func LoadFile(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("theme: read %s: %w", path, err)
	}
	return LoadFromTOML(data)
}

// SaveToTOML serializes a theme to TOML bytes.
func SaveToTOML(t Theme) ([]byte, error) {
	tt := thTOMLTheme{
		Name: t.Name,
		Mode: string(t.Mode),
		Base: thTOMLBase{
			Background: t.Background,
			Foreground: t.Foreground,
			Dim:        t.Dim,
			Accent:     t.Accent,
			Logo:       t.Logo,
		},
		Block: thTOMLBlock{
			Border:      t.Border,
			BorderFocus: t.BorderFocus,
			Title:       t.Title,
		},
		Status: thTOMLStatus{
			OK:    t.StatusOK,
			Warn:  t.StatusWarn,
			Error: t.StatusError,
		},
		Button: thTOMLButton{
			Foreground: t.ButtonFg,
			Background: t.ButtonBg,
		},
		Help: thTOMLHelp{
			Key:  t.HelpKey,
			Desc: t.HelpDesc,
		},
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(tt); err != nil {
		return nil, fmt.Errorf("theme: encode TOML: %w", err)
	}
	return buf.Bytes(), nil
}

func thOverride(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// thValidateTheme checks that every color field is a #RRGGBB hex value.
func thValidateTheme(t Theme) error {
	colorFields := map[string]string{
		"base.background":    t.Background,
		"base.foreground":    t.Foreground,
		"base.dim":           t.Dim,
		"base.accent":        t.Accent,
		"base.logo":          t.Logo,
		"block.border":       t.Border,
		"block.border_focus": t.BorderFocus,
		"block.title":        t.Title,
		"status.ok":          t.StatusOK,
		"status.warn":        t.StatusWarn,
		"status.error":       t.StatusError,
		"button.foreground":  t.ButtonFg,
		"button.background":  t.ButtonBg,
		"help.key":           t.HelpKey,
		"help.desc":          t.HelpDesc,
	}

	for field, value := range colorFields {
		if !thHexColorRegex.MatchString(value) {
			return fmt.Errorf("theme: invalid hex color %q for field %q (expected #RRGGBB)", value, field)
		}
	}
	return nil
}
