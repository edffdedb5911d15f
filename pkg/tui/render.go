package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"gitlab.com/tinyland/lab/appkit-mirror/pkg/app"
	"gitlab.com/tinyland/lab/appkit-mirror/pkg/connector"
	"gitlab.com/tinyland/lab/appkit-mirror/pkg/mirror"
)

const (
	appTitle = "Bitcoin Example"
	logoText = "reown"

	// twoColumnWidth is the terminal width at which blocks sit side by side.
	twoColumnWidth = 100

	projectWarning = "This project ID only works on localhost. Go to Cloud to get your own."
)

var footerLinks = []string{
	"Reown https://reown.com",
	"Docs https://docs.reown.com",
	"GitHub https://github.com/reown-com/appkit",
	"Cloud https://cloud.reown.com",
}

// Width returns the last known terminal width.
func (m Model) Width() int { return m.width }

// Height returns the last known terminal height.
func (m Model) Height() int { return m.height }

// Focused returns the id of the focused block.
func (m Model) Focused() string { return m.focus.Focused() }

// Status returns the status bar text and whether it reports an error.
func (m Model) Status() (string, bool) { return m.status, m.statusErr }

// Signing reports how many sign requests are in flight.
func (m Model) Signing() int { return m.signing }

// View renders the page.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Initializing..."
	}

	sections := []string{
		m.renderHeader(),
		m.renderButtons(),
		m.renderBlocks(),
		m.renderStatus(),
		m.help.View(m.keys),
	}
	if m.opts.ShowProjectWarning {
		sections = append(sections, m.renderFooter())
	}
	out := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if m.zones != nil {
		return m.zones.Scan(out)
	}
	return out
}

func (m Model) renderHeader() string {
	title := m.styles.Logo.Render(logoText) + "  " + m.styles.Title.Render(appTitle)

	acct := m.snap.Account
	summary := "not connected"
	if acct.Connected() {
		summary = shortAddress(acct.Address)
	}
	parts := []string{summary}
	if name := m.snap.Network.Name; name != "" {
		parts = append(parts, name)
	}
	if m.snap.WalletInfo.Name != "" {
		parts = append(parts, m.snap.WalletInfo.Name)
	}
	if m.snap.Provider == nil && acct.Connected() {
		parts = append(parts, "no provider")
	}
	return title + "\n" + m.styles.Subtitle.Render(strings.Join(parts, " · "))
}

func (m Model) renderButtons() string {
	rendered := make([]string, 0, len(m.buttons))
	for _, b := range m.buttons {
		label := b.label
		style := m.styles.Button
		if b.cmd == app.CmdToggleTheme {
			label = b.label + " (" + themeLabel(m.snap.Theme.Mode) + ")"
		}
		if b.cmd == app.CmdSignMessage && m.signing > 0 {
			label = m.spinner.View() + " " + b.label
			style = m.styles.ButtonActive
		}
		out := style.Render(label)
		if m.zones != nil {
			out = m.zones.Mark(b.id, out)
		}
		rendered = append(rendered, out)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderBlocks() string {
	if len(m.blocks) == 0 {
		return ""
	}
	cols := m.columns()
	colW := m.width / cols

	var rows []string
	for start := 0; start < len(m.blocks); start += cols {
		end := min(start+cols, len(m.blocks))
		cells := make([]string, 0, cols)
		for i := start; i < end; i++ {
			cells = append(cells, m.renderBlock(i, colW))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderBlock(i, colW int) string {
	b := m.blocks[i]
	style := m.styles.Block
	if b.ID == m.focus.Focused() {
		style = m.styles.BlockFocused
	}
	label := m.styles.BlockLabel.Render(b.Label)
	if b.Slot == mirror.SlotTheme && m.snap.Theme.Pending {
		label += " " + m.styles.Dim.Render("(pending)")
	}
	out := style.Width(max(colW-2, 1)).Render(label + "\n" + m.views[i].View())
	if m.zones != nil {
		out = m.zones.Mark("block-"+b.ID, out)
	}
	return out
}

func (m Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return m.styles.Error.Render(ansi.Truncate(m.status, m.width, "…"))
	}
	return m.styles.OK.Render(ansi.Truncate(m.status, m.width, "…"))
}

func (m Model) renderFooter() string {
	links := m.styles.Dim.Render(strings.Join(footerLinks, "  "))
	return m.styles.Warning.Render(projectWarning) + "\n" + links
}

func (m Model) columns() int {
	if m.width >= twoColumnWidth && len(m.blocks) > 1 {
		return 2
	}
	return 1
}

// resize recomputes viewport dimensions for the current terminal size.
func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 || len(m.blocks) == 0 {
		return
	}
	cols := m.columns()
	rows := (len(m.blocks) + cols - 1) / cols

	chrome := lipgloss.Height(m.renderHeader()) + 3 + 1 + lipgloss.Height(m.help.View(m.keys))
	if m.opts.ShowProjectWarning {
		chrome += 2
	}
	blockH := max((m.height-chrome)/rows, 4)
	// border, padding and the label line
	innerW := max(m.width/cols-4, 1)
	innerH := max(blockH-3, 1)

	for i := range m.views {
		m.views[i].Width = innerW
		m.views[i].Height = innerH
	}
	m.refresh()
}

// refresh re-encodes every block from the current snapshot.
func (m *Model) refresh() {
	for i, b := range m.blocks {
		m.views[i].SetContent(renderContent(b, m.snap, m.opts.Format, m.views[i].Width))
	}
}

// shortAddress abbreviates long addresses to their head and tail.
func shortAddress(addr string) string {
	if len(addr) <= 14 {
		return addr
	}
	return addr[:8] + "…" + addr[len(addr)-4:]
}

// themeLabel is the current mode for display.
func themeLabel(mode connector.ThemeMode) string {
	if mode == "" {
		return string(connector.ThemeLight)
	}
	return string(mode)
}
