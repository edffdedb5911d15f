// Package app provides the bubbletea plumbing between the state mirror and
// the interface. It defines the event types the update loop receives, the
// commands that run mirror operations off the loop, and focus navigation.
//
// Like the rest of the interface code it targets bubbletea v1.3.x.
package app

import (
	"time"

	"gitlab.com/tinyland/lab/appkit-mirror/pkg/connector"
	"gitlab.com/tinyland/lab/appkit-mirror/pkg/mirror"
)

// SlotChangedEvent reports that one mirror slot was replaced. Receivers
// re-read the slot from the mirror; the event carries no data.
type SlotChangedEvent struct {
	Slot      mirror.Slot
	Timestamp time.Time
}

// ChangesClosedEvent is sent once the mirror's change channel is closed.
type ChangesClosedEvent struct{}

// Command names a user action.
type Command int

const (
	CmdOpen Command = iota
	CmdDisconnect
	CmdSwitchNetwork
	CmdSignMessage
	CmdToggleTheme
	CmdCopyAddress
)

func (c Command) String() string {
	switch c {
	case CmdOpen:
		return "open"
	case CmdDisconnect:
		return "disconnect"
	case CmdSwitchNetwork:
		return "switch network"
	case CmdSignMessage:
		return "sign message"
	case CmdToggleTheme:
		return "toggle theme"
	case CmdCopyAddress:
		return "copy address"
	default:
		return "unknown"
	}
}

// CommandResultEvent carries the outcome of a command back into the update
// loop.
type CommandResultEvent struct {
	Command Command
	Err     error

	// Sign is set for CmdSignMessage.
	Sign *mirror.SignOutcome
	// Mode is set for CmdToggleTheme.
	Mode connector.ThemeMode

	Timestamp time.Time
}

// TickEvent is sent periodically to expire status messages.
type TickEvent struct {
	Time time.Time
}
