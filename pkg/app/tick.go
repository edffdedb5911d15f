package app

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/appkit-mirror/pkg/connector"
	"gitlab.com/tinyland/lab/appkit-mirror/pkg/mirror"
)

// Commander is the command surface of the mirror.
type Commander interface {
	Open(ctx context.Context) error
	Disconnect(ctx context.Context) error
	SwitchNetwork(ctx context.Context) error
	SignMessage(ctx context.Context) mirror.SignOutcome
	ToggleTheme() connector.ThemeMode
}

// ClipboardWriter writes text to the system clipboard.
type ClipboardWriter func(text string) error

// SystemClipboard writes through atotto/clipboard.
var SystemClipboard ClipboardWriter = clipboard.WriteAll

// TickCmd returns a bubbletea Cmd that sends a TickEvent after the given
// duration.
func TickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickEvent{Time: t}
	})
}

// WaitForChange returns a Cmd that blocks for the next change notice. The
// receiver re-issues it after handling each SlotChangedEvent.
func WaitForChange(changes <-chan mirror.Slot) tea.Cmd {
	return func() tea.Msg {
		slot, ok := <-changes
		if !ok {
			return ChangesClosedEvent{}
		}
		return SlotChangedEvent{Slot: slot, Timestamp: time.Now()}
	}
}

// RunCommand returns a Cmd that runs one mirror command in a goroutine and
// delivers the result as a CommandResultEvent. CmdCopyAddress is not handled
// here; use CopyCmd.
func RunCommand(ctx context.Context, c Commander, cmd Command) tea.Cmd {
	return func() tea.Msg {
		ev := CommandResultEvent{Command: cmd}
		switch cmd {
		case CmdOpen:
			ev.Err = c.Open(ctx)
		case CmdDisconnect:
			ev.Err = c.Disconnect(ctx)
		case CmdSwitchNetwork:
			ev.Err = c.SwitchNetwork(ctx)
		case CmdSignMessage:
			out := c.SignMessage(ctx)
			ev.Sign = &out
		case CmdToggleTheme:
			ev.Mode = c.ToggleTheme()
		}
		ev.Timestamp = time.Now()
		return ev
	}
}

// CopyCmd returns a Cmd that writes text with write.
func CopyCmd(text string, write ClipboardWriter) tea.Cmd {
	return func() tea.Msg {
		return CommandResultEvent{
			Command:   CmdCopyAddress,
			Err:       write(text),
			Timestamp: time.Now(),
		}
	}
}
