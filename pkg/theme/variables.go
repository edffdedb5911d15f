package theme

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Theme variable keys. Keys may be written with or without the "--w3m-"
// prefix AppKit uses, e.g. "--w3m-accent" and "--accent" are the same.
const (
	VarAccent           = "accent"
	VarBackground       = "background"
	VarForeground       = "foreground"
	VarBorder           = "border"
	VarLogo             = "logo"
	VarColorMix         = "color-mix"
	VarColorMixStrength = "color-mix-strength"
)

// normalizeVar strips the CSS custom property prefixes from key.
func normalizeVar(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	key = strings.TrimPrefix(key, "--")
	return strings.TrimPrefix(key, "w3m-")
}

// WithVariables returns t with the overrides in vars applied.
//
// Color variables replace their palette token. A color-mix variable blends
// the background, border and dim tokens toward the mix color by
// color-mix-strength percent (default 0). Unknown keys are ignored. An invalid
// color or strength is an error and leaves t unchanged.
func WithVariables(t Theme, vars map[string]string) (Theme, error) {
	if len(vars) == 0 {
		return t, nil
	}

	out := t
	var mix *colorful.Color
	strength := 0.0

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, raw := range keys {
		value := strings.TrimSpace(vars[raw])
		switch key := normalizeVar(raw); key {
		case VarAccent, VarBackground, VarForeground, VarBorder, VarLogo:
			hex, err := normalizeHex(value)
			if err != nil {
				return t, fmt.Errorf("theme: variable %s: %w", raw, err)
			}
			switch key {
			case VarAccent:
				out.Accent, out.BorderFocus, out.ButtonBg, out.HelpKey = hex, hex, hex, hex
			case VarBackground:
				out.Background = hex
			case VarForeground:
				out.Foreground = hex
			case VarBorder:
				out.Border = hex
			case VarLogo:
				out.Logo = hex
			}
		case VarColorMix:
			c, err := colorful.Hex(value)
			if err != nil {
				return t, fmt.Errorf("theme: variable %s: invalid color %q", raw, value)
			}
			mix = &c
		case VarColorMixStrength:
			n, err := strconv.ParseFloat(strings.TrimSuffix(value, "%"), 64)
			if err != nil || n < 0 || n > 100 {
				return t, fmt.Errorf("theme: variable %s: strength %q must be 0-100", raw, value)
			}
			strength = n / 100
		}
	}

	if mix != nil && strength > 0 {
		out.Background = blend(out.Background, *mix, strength)
		out.Border = blend(out.Border, *mix, strength)
		out.Dim = blend(out.Dim, *mix, strength)
	}
	return out, nil
}

// normalizeHex parses a color and returns it in lowercase #rrggbb form.
func normalizeHex(value string) (string, error) {
	c, err := colorful.Hex(value)
	if err != nil {
		return "", fmt.Errorf("invalid color %q (expected #RRGGBB)", value)
	}
	return c.Clamped().Hex(), nil
}

// blend mixes base toward mix by t in Lab space. An unparsable base is
// returned unchanged.
func blend(base string, mix colorful.Color, t float64) string {
	c, err := colorful.Hex(base)
	if err != nil {
		return base
	}
	return c.BlendLab(mix, t).Clamped().Hex()
}

// Contrast returns the Lab distance between two hex colors, or 0 if either
// fails to parse. Callers use it to warn about unreadable overrides.
func Contrast(a, b string) float64 {
	ca, err := colorful.Hex(a)
	if err != nil {
		return 0
	}
	cb, err := colorful.Hex(b)
	if err != nil {
		return 0
	}
	return ca.DistanceLab(cb)
}
