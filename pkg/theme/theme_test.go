package theme

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/appkit-mirror/pkg/connector"
)

var thTestHexPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// --- Get / SetCurrent / Names ---

func TestGetLight(t *testing.T) {
	th := Get("light")
	if th.Name != "light" || th.Mode != connector.ThemeLight {
		t.Errorf("Get(\"light\") = %q/%q", th.Name, th.Mode)
	}
	if th.Background != "#ffffff" {
		t.Errorf("Get(\"light\").Background = %q, want %q", th.Background, "#ffffff")
	}
}

func TestGetUnknownFallsBackToLight(t *testing.T) {
	th := Get("solarized")
	if th.Name != "light" {
		t.Errorf("Get(\"solarized\").Name = %q, want light", th.Name)
	}
}

func TestForMode(t *testing.T) {
	if got := ForMode(connector.ThemeDark).Name; got != "dark" {
		t.Errorf("ForMode(dark) = %q", got)
	}
	if got := ForMode("").Name; got != "light" {
		t.Errorf("ForMode(\"\") = %q, want light", got)
	}
}

func TestNamesIncludesBuiltins(t *testing.T) {
	names := strings.Join(Names(), ",")
	if !strings.Contains(names, "dark") || !strings.Contains(names, "light") {
		t.Errorf("Names() = %s", names)
	}
}

func TestSetCurrent(t *testing.T) {
	SetCurrent("dark")
	if Active().Name != "dark" {
		t.Errorf("after SetCurrent(\"dark\"), Active().Name = %q", Active().Name)
	}
	SetCurrent("light")
	if Active().Name != "light" {
		t.Errorf("after SetCurrent(\"light\"), Active().Name = %q", Active().Name)
	}
}

func TestLogoSwapsBetweenModes(t *testing.T) {
	if Get("light").Logo == Get("dark").Logo {
		t.Error("light and dark palettes share a logo color")
	}
}

func TestBuiltinsHaveValidHexColors(t *testing.T) {
	for _, name := range []string{"light", "dark"} {
		if err := thValidateTheme(Get(name)); err != nil {
			t.Errorf("built-in %q: %v", name, err)
		}
	}
}

// --- Variables ---

func TestWithVariablesOverridesAccent(t *testing.T) {
	base := Get("light")
	got, err := WithVariables(base, map[string]string{"--w3m-accent": "#FF9900"})
	if err != nil {
		t.Fatalf("WithVariables() error: %v", err)
	}
	if got.Accent != "#ff9900" || got.BorderFocus != "#ff9900" || got.ButtonBg != "#ff9900" {
		t.Errorf("accent override not applied: %+v", got)
	}
	if base.Accent == "#ff9900" {
		t.Error("WithVariables mutated its input")
	}
}

func TestWithVariablesPrefixForms(t *testing.T) {
	for _, key := range []string{"--accent", "accent", "--w3m-accent", " --W3M-ACCENT "} {
		got, err := WithVariables(Get("dark"), map[string]string{key: "#123456"})
		if err != nil || got.Accent != "#123456" {
			t.Errorf("key %q: accent=%q err=%v", key, got.Accent, err)
		}
	}
}

func TestWithVariablesColorMix(t *testing.T) {
	base := Get("light")
	got, err := WithVariables(base, map[string]string{
		"--w3m-color-mix":          "#00bb7f",
		"--w3m-color-mix-strength": "40",
	})
	if err != nil {
		t.Fatalf("WithVariables() error: %v", err)
	}
	if got.Background == base.Background {
		t.Error("color mix did not change the background")
	}
	if !thTestHexPattern.MatchString(got.Background) {
		t.Errorf("blended background %q is not #rrggbb", got.Background)
	}
	if Contrast(got.Background, "#00bb7f") >= Contrast(base.Background, "#00bb7f") {
		t.Error("blended background did not move toward the mix color")
	}
}

func TestWithVariablesMixWithoutStrength(t *testing.T) {
	base := Get("dark")
	got, err := WithVariables(base, map[string]string{"--w3m-color-mix": "#00bb7f"})
	if err != nil {
		t.Fatalf("WithVariables() error: %v", err)
	}
	if got.Background != base.Background {
		t.Error("zero strength should leave the background alone")
	}
}

func TestWithVariablesErrors(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"bad accent", map[string]string{"--accent": "orange"}},
		{"bad mix", map[string]string{"--w3m-color-mix": "#zzzzzz"}},
		{"strength too high", map[string]string{"--w3m-color-mix-strength": "150"}},
		{"strength not a number", map[string]string{"--w3m-color-mix-strength": "lots"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := Get("light")
			got, err := WithVariables(base, tt.vars)
			if err == nil {
				t.Fatal("expected error")
			}
			if got != base {
				t.Error("failed override changed the theme")
			}
		})
	}
}

func TestWithVariablesIgnoresUnknownKeys(t *testing.T) {
	base := Get("light")
	got, err := WithVariables(base, map[string]string{"--w3m-font-family": "Inter"})
	if err != nil || got != base {
		t.Errorf("unknown key changed theme or failed: %v", err)
	}
}

func TestContrast(t *testing.T) {
	if Contrast("#000000", "#ffffff") <= Contrast("#000000", "#111111") {
		t.Error("black/white should contrast more than black/near-black")
	}
	if Contrast("nope", "#ffffff") != 0 {
		t.Error("unparsable color should report 0")
	}
}

// --- TOML ---

func TestLoadFromTOMLPartial(t *testing.T) {
	data := []byte(`
name = "ocean"
mode = "dark"

[base]
accent = "#1ca3ec"
logo = "#e0f7ff"
`)
	th, err := LoadFromTOML(data)
	if err != nil {
		t.Fatalf("LoadFromTOML() error: %v", err)
	}
	if th.Name != "ocean" || th.Mode != connector.ThemeDark {
		t.Errorf("name/mode = %q/%q", th.Name, th.Mode)
	}
	if th.Accent != "#1ca3ec" || th.Logo != "#e0f7ff" {
		t.Errorf("overrides not applied: %+v", th)
	}
	if th.Background != Get("dark").Background {
		t.Errorf("missing background did not fall back to the dark palette")
	}
}

func TestLoadFromTOMLErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"no name", `mode = "light"`, "name"},
		{"bad mode", "name = \"x\"\nmode = \"sepia\"", "mode"},
		{"bad hex", "name = \"x\"\nmode = \"light\"\n[base]\naccent = \"blue\"", "base.accent"},
		{"bad syntax", "name = ", "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromTOML([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestSaveToTOMLRoundtrip(t *testing.T) {
	orig := Get("dark")
	orig.Name = "dark-copy"
	data, err := SaveToTOML(orig)
	if err != nil {
		t.Fatalf("SaveToTOML() error: %v", err)
	}
	back, err := LoadFromTOML(data)
	if err != nil {
		t.Fatalf("LoadFromTOML() error: %v", err)
	}
	if back != orig {
		t.Errorf("roundtrip mismatch:\n got %+v\nwant %+v", back, orig)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palette.toml")
	if err := os.WriteFile(path, []byte("name = \"paper\"\nmode = \"light\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	th, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if th.Name != "paper" {
		t.Errorf("Name = %q", th.Name)
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("LoadFile on a missing file should fail")
	}
}

// --- Ambient environment ---

func TestTerminalApplyTheme(t *testing.T) {
	defer SetCurrent("light")
	defer lipgloss.SetHasDarkBackground(false)

	term := NewTerminal(&bytes.Buffer{}, false)
	term.ApplyTheme(connector.ThemeDark)

	if !lipgloss.HasDarkBackground() {
		t.Error("dark mode did not set lipgloss dark background")
	}
	if Active().Name != "dark" {
		t.Errorf("active palette = %q, want dark", Active().Name)
	}
	if term.Mode() != connector.ThemeDark {
		t.Errorf("Mode() = %q", term.Mode())
	}

	term.ApplyTheme(connector.ThemeLight)
	if lipgloss.HasDarkBackground() || Active().Name != "light" {
		t.Error("last writer did not win")
	}
}

func TestTerminalWithoutBackgroundWritesNothing(t *testing.T) {
	defer SetCurrent("light")
	var buf bytes.Buffer
	term := NewTerminal(&buf, false)
	term.ApplyTheme(connector.ThemeDark)
	term.Restore()
	if buf.Len() != 0 {
		t.Errorf("terminal wrote %q with background disabled", buf.String())
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	if _, ok := r.Last(); ok {
		t.Error("empty recorder reported a mode")
	}
	r.ApplyTheme(connector.ThemeDark)
	r.ApplyTheme(connector.ThemeLight)
	if last, _ := r.Last(); last != connector.ThemeLight {
		t.Errorf("Last() = %q", last)
	}
	if got := r.Modes(); len(got) != 2 || got[0] != connector.ThemeDark {
		t.Errorf("Modes() = %v", got)
	}
}

func TestNewStylesUsesPalette(t *testing.T) {
	s := NewStyles(Get("dark"))
	if got := s.Logo.GetForeground(); got != lipgloss.Color(Get("dark").Logo) {
		t.Errorf("logo foreground = %v", got)
	}
	if got := s.BlockFocused.GetBorderTopForeground(); got != lipgloss.Color(Get("dark").BorderFocus) {
		t.Errorf("focused border = %v", got)
	}
}
