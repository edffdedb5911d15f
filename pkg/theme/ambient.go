package theme

import (
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"gitlab.com/tinyland/lab/appkit-mirror/pkg/connector"
)

// Terminal is the process-wide presentation environment. Applying a mode
// flips lipgloss's dark-background flag and the active palette, and can also
// repaint the terminal background. The last call wins.
type Terminal struct {
	mu            sync.Mutex
	out           *termenv.Output
	setBackground bool
	original      termenv.Color
	mode          connector.ThemeMode
}

// NewTerminal returns an environment writing OSC sequences to w. When
// setBackground is false, w is never written to.
func NewTerminal(w io.Writer, setBackground bool) *Terminal {
	t := &Terminal{setBackground: setBackground}
	if setBackground {
		t.out = termenv.NewOutput(w)
		t.original = t.out.BackgroundColor()
	}
	return t
}

// ApplyTheme makes mode the active presentation mode.
func (t *Terminal) ApplyTheme(mode connector.ThemeMode) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.mode = mode
	lipgloss.SetHasDarkBackground(mode == connector.ThemeDark)
	pal := ForMode(mode)
	SetCurrent(pal.Name)

	if t.setBackground && t.out != nil {
		t.out.SetBackgroundColor(t.out.Color(pal.Background))
	}
}

// Mode returns the last applied mode, or "" if none.
func (t *Terminal) Mode() connector.ThemeMode {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mode
}

// Restore puts back the terminal background seen at construction, if it
// could be queried.
func (t *Terminal) Restore() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.setBackground || t.out == nil {
		return
	}
	if rgb, ok := t.original.(termenv.RGBColor); ok {
		t.out.SetBackgroundColor(rgb)
	}
}

// Recorder is an environment that only records the modes it receives.
type Recorder struct {
	mu    sync.Mutex
	modes []connector.ThemeMode
}

// ApplyTheme records mode.
func (r *Recorder) ApplyTheme(mode connector.ThemeMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modes = append(r.modes, mode)
}

// Modes returns every recorded mode in order.
func (r *Recorder) Modes() []connector.ThemeMode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]connector.ThemeMode(nil), r.modes...)
}

// Last returns the most recent mode.
func (r *Recorder) Last() (connector.ThemeMode, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.modes) == 0 {
		return "", false
	}
	return r.modes[len(r.modes)-1], true
}
