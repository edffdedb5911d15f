// Package tui renders the mirror as an interactive terminal page: a row of
// action buttons above one serialized block per slot.
package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/tinyland/lab/appkit-mirror/pkg/app"
	"gitlab.com/tinyland/lab/appkit-mirror/pkg/config"
	"gitlab.com/tinyland/lab/appkit-mirror/pkg/connector"
	"gitlab.com/tinyland/lab/appkit-mirror/pkg/mirror"
	"gitlab.com/tinyland/lab/appkit-mirror/pkg/theme"
)

// statusTTL is how long a command result stays in the status bar.
const statusTTL = 6 * time.Second

// Feed is the read side of the mirror.
type Feed interface {
	Snapshot() mirror.Snapshot
	Changes() <-chan mirror.Slot
}

// Source is everything the interactive model needs from the mirror.
type Source interface {
	Feed
	app.Commander
	SwitchTarget() connector.Network
}

// Options configures the model.
type Options struct {
	// Format is the block format, "json" or "yaml".
	Format string
	// Blocks lists block ids in display order. Empty means every block.
	Blocks []string
	// Mouse enables clickable buttons.
	Mouse bool
	// ShowProjectWarning adds the placeholder project id notice.
	ShowProjectWarning bool
	Logger             *slog.Logger
	Clipboard          app.ClipboardWriter
}

// button is one clickable action.
type button struct {
	id    string
	label string
	cmd   app.Command
}

// Model is the root bubbletea model.
type Model struct {
	ctx  context.Context
	src  Source
	opts Options

	blocks  []Block
	views   []viewport.Model
	focus   app.FocusRing
	buttons []button

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	zones   *zone.Manager
	styles  theme.Styles
	logger  *slog.Logger

	snap    mirror.Snapshot
	width   int
	height  int
	signing int

	status    string
	statusErr bool
	statusAt  time.Time
}

// New returns a model over src. Commands run with ctx.
func New(ctx context.Context, src Source, opts Options) Model {
	if opts.Format == "" {
		opts.Format = FormatJSON
	}
	if len(opts.Blocks) == 0 {
		opts.Blocks = config.LayoutPreset("full")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Clipboard == nil {
		opts.Clipboard = app.SystemClipboard
	}

	blocks := Blocks(opts.Blocks)
	ids := make([]string, len(blocks))
	for i, b := range blocks {
		ids[i] = b.ID
	}

	m := Model{
		ctx:     ctx,
		src:     src,
		opts:    opts,
		blocks:  blocks,
		views:   make([]viewport.Model, len(blocks)),
		focus:   app.NewFocusRing(ids...),
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		logger:  opts.Logger,
		snap:    src.Snapshot(),
		buttons: []button{
			{id: "btn-open", label: "Open", cmd: app.CmdOpen},
			{id: "btn-disconnect", label: "Disconnect", cmd: app.CmdDisconnect},
			{id: "btn-switch", label: "Switch to " + src.SwitchTarget().Name, cmd: app.CmdSwitchNetwork},
			{id: "btn-sign", label: "Sign Message", cmd: app.CmdSignMessage},
			{id: "btn-theme", label: "Theme", cmd: app.CmdToggleTheme},
		},
	}
	if opts.Mouse {
		m.zones = zone.New()
	}
	for i := range m.views {
		m.views[i] = viewport.New(0, 0)
	}
	m.restyle()
	return m
}

// Init starts listening for mirror changes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(app.WaitForChange(m.src.Changes()), app.TickCmd(time.Second))
}

// Update handles one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case app.SlotChangedEvent:
		m.snap = m.src.Snapshot()
		m.restyle()
		m.refresh()
		return m, app.WaitForChange(m.src.Changes())

	case app.ChangesClosedEvent:
		return m, nil

	case app.CommandResultEvent:
		m.handleResult(msg)
		return m, nil

	case app.TickEvent:
		if m.status != "" && msg.Time.Sub(m.statusAt) > statusTTL {
			m.status, m.statusErr = "", false
		}
		return m, app.TickCmd(time.Second)

	case spinner.TickMsg:
		if m.signing == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil
	case key.Matches(msg, m.keys.Open):
		return m.run(app.CmdOpen)
	case key.Matches(msg, m.keys.Disconnect):
		return m.run(app.CmdDisconnect)
	case key.Matches(msg, m.keys.Switch):
		return m.run(app.CmdSwitchNetwork)
	case key.Matches(msg, m.keys.Sign):
		return m.run(app.CmdSignMessage)
	case key.Matches(msg, m.keys.Theme):
		return m.run(app.CmdToggleTheme)
	case key.Matches(msg, m.keys.Copy):
		return m.run(app.CmdCopyAddress)
	case key.Matches(msg, m.keys.Next):
		m.focus.Next()
	case key.Matches(msg, m.keys.Prev):
		m.focus.Prev()
	case key.Matches(msg, m.keys.Up):
		m.scroll(-1)
	case key.Matches(msg, m.keys.Down):
		m.scroll(1)
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scroll(-1)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.scroll(1)
		return m, nil
	}
	if m.zones == nil || msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	for _, b := range m.buttons {
		if z := m.zones.Get(b.id); z != nil && z.InBounds(msg) {
			return m.run(b.cmd)
		}
	}
	for _, b := range m.blocks {
		if z := m.zones.Get("block-" + b.ID); z != nil && z.InBounds(msg) {
			m.focus.Focus(b.ID)
			return m, nil
		}
	}
	return m, nil
}

// run dispatches a command off the update loop.
func (m Model) run(cmd app.Command) (tea.Model, tea.Cmd) {
	switch cmd {
	case app.CmdCopyAddress:
		addr := m.snap.Account.Address
		if addr == "" {
			m.setStatus("no address to copy", true)
			return m, nil
		}
		return m, app.CopyCmd(addr, m.opts.Clipboard)
	case app.CmdSignMessage:
		m.signing++
		return m, tea.Batch(app.RunCommand(m.ctx, m.src, cmd), m.spinner.Tick)
	default:
		return m, app.RunCommand(m.ctx, m.src, cmd)
	}
}

func (m *Model) handleResult(ev app.CommandResultEvent) {
	switch ev.Command {
	case app.CmdSignMessage:
		if m.signing > 0 {
			m.signing--
		}
		if ev.Sign == nil {
			return
		}
		switch ev.Sign.Status {
		case mirror.SignSigned:
			m.setStatus("signature: "+ev.Sign.Signature, false)
		case mirror.SignOpened:
			if ev.Sign.Err != nil {
				m.logger.Warn("open before signing failed", "error", ev.Sign.Err)
				m.setStatus("open failed: "+ev.Sign.Err.Error(), true)
			}
		}
	case app.CmdCopyAddress:
		if ev.Err != nil {
			m.logger.Warn("copy address failed", "error", ev.Err)
			m.setStatus("copy failed: "+ev.Err.Error(), true)
			return
		}
		m.setStatus("address copied", false)
	case app.CmdToggleTheme:
		m.snap = m.src.Snapshot()
		m.restyle()
		m.refresh()
	default:
		if ev.Err != nil {
			m.logger.Warn("command failed", "command", ev.Command.String(), "error", ev.Err)
			m.setStatus(ev.Command.String()+" failed: "+ev.Err.Error(), true)
		}
	}
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status, m.statusErr, m.statusAt = s, isErr, time.Now()
}

func (m *Model) scroll(delta int) {
	idx := m.focusedIndex()
	if idx < 0 {
		return
	}
	v := &m.views[idx]
	v.SetYOffset(v.YOffset + delta)
}

func (m Model) focusedIndex() int {
	for i, b := range m.blocks {
		if b.ID == m.focus.Focused() {
			return i
		}
	}
	return -1
}

// restyle rebuilds styles from the active palette and the theme variables.
func (m *Model) restyle() {
	pal := theme.Active()
	if vars := m.snap.Theme.Variables; len(vars) > 0 {
		withVars, err := theme.WithVariables(pal, vars)
		if err != nil {
			m.logger.Warn("ignoring theme variables", "error", err)
		} else {
			pal = withVars
		}
	}
	if theme.Contrast(pal.Foreground, pal.Background) < 0.2 {
		m.logger.Debug("low contrast palette", "foreground", pal.Foreground, "background", pal.Background)
	}
	m.styles = theme.NewStyles(pal)
	m.spinner.Style = m.styles.OK
	m.help.Styles.ShortKey = m.styles.HelpKey
	m.help.Styles.ShortDesc = m.styles.HelpDesc
	m.help.Styles.FullKey = m.styles.HelpKey
	m.help.Styles.FullDesc = m.styles.HelpDesc
}
