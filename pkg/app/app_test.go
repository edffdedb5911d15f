package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"gitlab.com/tinyland/lab/appkit-mirror/pkg/connector"
	"gitlab.com/tinyland/lab/appkit-mirror/pkg/mirror"
)

// fakeCommander records which commands ran.
type fakeCommander struct {
	calls   []string
	openErr error
	sign    mirror.SignOutcome
}

func (f *fakeCommander) Open(context.Context) error {
	f.calls = append(f.calls, "open")
	return f.openErr
}

func (f *fakeCommander) Disconnect(context.Context) error {
	f.calls = append(f.calls, "disconnect")
	return nil
}

func (f *fakeCommander) SwitchNetwork(context.Context) error {
	f.calls = append(f.calls, "switch")
	return nil
}

func (f *fakeCommander) SignMessage(context.Context) mirror.SignOutcome {
	f.calls = append(f.calls, "sign")
	return f.sign
}

func (f *fakeCommander) ToggleTheme() connector.ThemeMode {
	f.calls = append(f.calls, "theme")
	return connector.ThemeDark
}

func run(t *testing.T, f *fakeCommander, cmd Command) CommandResultEvent {
	t.Helper()
	msg := RunCommand(context.Background(), f, cmd)()
	ev, ok := msg.(CommandResultEvent)
	if !ok {
		t.Fatalf("RunCommand produced %T, want CommandResultEvent", msg)
	}
	if ev.Command != cmd {
		t.Errorf("event command = %v, want %v", ev.Command, cmd)
	}
	if ev.Timestamp.IsZero() {
		t.Error("event has no timestamp")
	}
	return ev
}

func TestRunCommandDispatch(t *testing.T) {
	f := &fakeCommander{}
	for _, cmd := range []Command{CmdOpen, CmdDisconnect, CmdSwitchNetwork, CmdSignMessage, CmdToggleTheme} {
		run(t, f, cmd)
	}
	want := []string{"open", "disconnect", "switch", "sign", "theme"}
	if len(f.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", f.calls, want)
	}
	for i := range want {
		if f.calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, f.calls[i], want[i])
		}
	}
}

func TestRunCommandCarriesError(t *testing.T) {
	boom := errors.New("modal unavailable")
	ev := run(t, &fakeCommander{openErr: boom}, CmdOpen)
	if !errors.Is(ev.Err, boom) {
		t.Errorf("Err = %v, want %v", ev.Err, boom)
	}
}

func TestRunCommandSignOutcome(t *testing.T) {
	f := &fakeCommander{sign: mirror.SignOutcome{Status: mirror.SignSigned, Signature: "H+abc"}}
	ev := run(t, f, CmdSignMessage)
	if ev.Sign == nil || ev.Sign.Signature != "H+abc" {
		t.Errorf("Sign = %+v", ev.Sign)
	}
	if ev.Err != nil {
		t.Errorf("sign command should not report Err, got %v", ev.Err)
	}
}

func TestRunCommandToggleMode(t *testing.T) {
	ev := run(t, &fakeCommander{}, CmdToggleTheme)
	if ev.Mode != connector.ThemeDark {
		t.Errorf("Mode = %q", ev.Mode)
	}
}

func TestCopyCmd(t *testing.T) {
	var got string
	msg := CopyCmd("bc1qaddr", func(s string) error { got = s; return nil })()
	ev := msg.(CommandResultEvent)
	if ev.Command != CmdCopyAddress || ev.Err != nil || got != "bc1qaddr" {
		t.Errorf("copy event = %+v, wrote %q", ev, got)
	}

	fail := errors.New("no clipboard utility")
	ev = CopyCmd("x", func(string) error { return fail })().(CommandResultEvent)
	if !errors.Is(ev.Err, fail) {
		t.Errorf("Err = %v", ev.Err)
	}
}

func TestWaitForChange(t *testing.T) {
	ch := make(chan mirror.Slot, 1)
	ch <- mirror.SlotTheme
	msg := WaitForChange(ch)()
	ev, ok := msg.(SlotChangedEvent)
	if !ok || ev.Slot != mirror.SlotTheme {
		t.Errorf("WaitForChange() = %#v", msg)
	}

	close(ch)
	if _, ok := WaitForChange(ch)().(ChangesClosedEvent); !ok {
		t.Error("closed channel should yield ChangesClosedEvent")
	}
}

func TestTickCmdNonNil(t *testing.T) {
	if TickCmd(time.Second) == nil {
		t.Fatal("TickCmd returned nil")
	}
}

func TestCommandString(t *testing.T) {
	if CmdSwitchNetwork.String() != "switch network" {
		t.Errorf("CmdSwitchNetwork = %q", CmdSwitchNetwork.String())
	}
	if Command(99).String() != "unknown" {
		t.Error("out-of-range command should be unknown")
	}
}

// --- FocusRing ---

func TestFocusRingCycles(t *testing.T) {
	r := NewFocusRing("account", "network", "theme")
	if r.Focused() != "account" {
		t.Fatalf("initial focus = %q", r.Focused())
	}
	r.Next()
	r.Next()
	if r.Focused() != "theme" {
		t.Errorf("after two Next = %q", r.Focused())
	}
	r.Next()
	if r.Focused() != "account" {
		t.Errorf("Next should wrap, got %q", r.Focused())
	}
	r.Prev()
	if r.Focused() != "theme" {
		t.Errorf("Prev should wrap, got %q", r.Focused())
	}
}

func TestFocusRingFocus(t *testing.T) {
	r := NewFocusRing("a", "b")
	r.Focus("b")
	if r.Focused() != "b" {
		t.Errorf("Focus(b) = %q", r.Focused())
	}
	r.Focus("zzz")
	if r.Focused() != "b" {
		t.Errorf("unknown id moved focus to %q", r.Focused())
	}
}

func TestEmptyFocusRing(t *testing.T) {
	var r FocusRing
	r.Next()
	r.Prev()
	if r.Focused() != "" {
		t.Errorf("empty ring focus = %q", r.Focused())
	}
}
