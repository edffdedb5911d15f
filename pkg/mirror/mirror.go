// Package mirror keeps a local, presentation-ready copy of the connector's
// externally owned state.
//
// A Mirror subscribes to the seven connector streams (account, network, app
// state, theme, events, wallet info and providers) and replaces the matching
// slot wholesale on every callback. It also exposes the five user commands,
// which delegate to the connector. The only local write is the optimistic
// theme toggle, which the next authoritative theme event supersedes.
package mirror

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"gitlab.com/tinyland/lab/appkit-mirror/pkg/connector"
	"gitlab.com/tinyland/lab/appkit-mirror/pkg/network"
)

// DefaultSignMessage is the message signed by the sign-message command.
const DefaultSignMessage = "Hello from AppKit"

// changeBuffer bounds the change notice channel.
const changeBuffer = 64

// Ambient receives every theme mode the mirror adopts. It stands for the
// process-wide presentation environment (terminal background, palette).
type Ambient interface {
	ApplyTheme(mode connector.ThemeMode)
}

// ThemeState is the mirrored theme slot.
type ThemeState struct {
	connector.ThemeSnapshot

	// Pending is true while the mode is an unconfirmed optimistic write.
	Pending bool `json:"-"`
	// Seq is the token of the optimistic write that produced Mode. It is
	// zero once an authoritative event has replaced the slot.
	Seq uint64 `json:"-"`
}

// Snapshot is a consistent copy of all seven slots.
type Snapshot struct {
	Account    connector.AccountSnapshot
	Network    connector.NetworkSnapshot
	AppState   connector.AppState
	Theme      ThemeState
	Events     []connector.EventRecord
	WalletInfo connector.WalletInfo
	Provider   connector.Provider
}

// Mirror is the reactive state mirror. Create one with New, call Start to
// subscribe, and Close to release every subscription.
type Mirror struct {
	conn    connector.Connector
	logger  *slog.Logger
	ambient Ambient
	message string
	target  connector.Network

	mu       sync.RWMutex
	account  connector.AccountSnapshot
	network  connector.NetworkSnapshot
	state    connector.AppState
	theme    ThemeState
	events   []connector.EventRecord
	wallet   connector.WalletInfo
	provider connector.Provider
	themeSeq uint64

	unsubs  []connector.Unsubscribe
	started bool
	closed  bool
	changes chan Slot
}

// Option configures a Mirror.
type Option func(*Mirror)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *Mirror) { m.logger = l }
}

// WithAmbient sets the environment that receives theme changes.
func WithAmbient(a Ambient) Option {
	return func(m *Mirror) { m.ambient = a }
}

// WithSignMessage sets the message signed by SignMessage.
func WithSignMessage(msg string) Option {
	return func(m *Mirror) { m.message = msg }
}

// WithSwitchTarget sets the network SwitchNetwork moves to.
func WithSwitchTarget(n connector.Network) Option {
	return func(m *Mirror) { m.target = n }
}

// WithInitialTheme seeds the theme slot before the first theme event.
func WithInitialTheme(mode connector.ThemeMode) Option {
	return func(m *Mirror) { m.theme.Mode = mode }
}

// New returns a mirror over conn. conn may be nil, in which case every
// command is a no-op and the slots keep their zero values.
func New(conn connector.Connector, opts ...Option) *Mirror {
	m := &Mirror{
		conn:    conn,
		logger:  slog.Default(),
		message: DefaultSignMessage,
		target:  network.Bitcoin,
		changes: make(chan Slot, changeBuffer),
	}
	m.theme.Mode = connector.ThemeLight
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start registers one subscription per slot. Connectors that replay their
// current value on subscribe fill the slots before Start returns. Calling
// Start again, or after Close, does nothing.
func (m *Mirror) Start() {
	m.mu.Lock()
	if m.started || m.closed || m.conn == nil {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.mu.Unlock()

	m.keep(m.conn.SubscribeAccount(func(a connector.AccountSnapshot) {
		m.update(SlotAccount, func() { m.account = a })
	}))
	m.keep(m.conn.SubscribeNetwork(func(n connector.NetworkSnapshot) {
		m.update(SlotNetwork, func() { m.network = n })
	}))
	m.keep(m.conn.SubscribeState(func(s connector.AppState) {
		m.update(SlotAppState, func() { m.state = s })
	}))
	m.keep(m.conn.SubscribeTheme(m.onTheme))
	m.keep(m.conn.SubscribeEvents(func(e []connector.EventRecord) {
		m.update(SlotEvents, func() { m.events = e })
	}))
	m.keep(m.conn.SubscribeWalletInfo(func(w connector.WalletInfo) {
		m.update(SlotWalletInfo, func() { m.wallet = w })
	}))
	m.keep(m.conn.SubscribeProviders(func(p connector.Providers) {
		m.update(SlotProvider, func() { m.provider = p[connector.ProviderNamespace] })
	}))

	m.logger.Debug("mirror subscribed", "subscriptions", len(m.unsubs))
}

func (m *Mirror) keep(unsub connector.Unsubscribe) {
	if unsub == nil {
		return
	}
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		unsub()
		return
	}
	m.unsubs = append(m.unsubs, unsub)
	m.mu.Unlock()
}

// onTheme replaces the theme slot and pushes the mode to the ambient
// environment. Any pending optimistic write is superseded.
func (m *Mirror) onTheme(t connector.ThemeSnapshot) {
	applied := m.update(SlotTheme, func() {
		if m.theme.Pending {
			m.logger.Debug("theme confirmed", "mode", t.Mode, "seq", m.theme.Seq)
		}
		m.theme = ThemeState{ThemeSnapshot: t}
	})
	if applied && m.ambient != nil {
		m.ambient.ApplyTheme(t.Mode)
	}
}

// update runs set under the write lock and posts a change notice. It reports
// false when the mirror is closed and the callback was ignored.
func (m *Mirror) update(slot Slot, set func()) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false
	}
	set()
	select {
	case m.changes <- slot:
	default:
		m.logger.Debug("change notice dropped", "slot", slot)
	}
	return true
}

// Close releases every subscription in reverse registration order and closes
// the change channel. It is safe to call more than once.
func (m *Mirror) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	close(m.changes)
	unsubs := m.unsubs
	m.unsubs = nil
	m.mu.Unlock()

	for i := len(unsubs) - 1; i >= 0; i-- {
		unsubs[i]()
	}
	m.logger.Debug("mirror closed", "released", len(unsubs))
}

// Changes returns the change notice channel. It is closed by Close.
func (m *Mirror) Changes() <-chan Slot {
	return m.changes
}

// Account returns the account slot.
func (m *Mirror) Account() connector.AccountSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.account
}

// Network returns the network slot.
func (m *Mirror) Network() connector.NetworkSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.network
}

// AppState returns the app state slot.
func (m *Mirror) AppState() connector.AppState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Theme returns the theme slot.
func (m *Mirror) Theme() ThemeState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.theme
}

// Events returns the event log slot.
func (m *Mirror) Events() []connector.EventRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.events
}

// WalletInfo returns the wallet info slot.
func (m *Mirror) WalletInfo() connector.WalletInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.wallet
}

// Provider returns the bip122 signing provider, or nil.
func (m *Mirror) Provider() connector.Provider {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.provider
}

// Connected reports whether the account slot holds an address.
func (m *Mirror) Connected() bool {
	return m.Account().Connected()
}

// Snapshot returns all slots read under one lock.
func (m *Mirror) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		Account:    m.account,
		Network:    m.network,
		AppState:   m.state,
		Theme:      m.theme,
		Events:     m.events,
		WalletInfo: m.wallet,
		Provider:   m.provider,
	}
}

// SwitchTarget returns the network SwitchNetwork moves to.
func (m *Mirror) SwitchTarget() connector.Network {
	return m.target
}

// Open asks the connector to open its connect modal.
func (m *Mirror) Open(ctx context.Context) error {
	if m.conn == nil {
		return nil
	}
	if err := m.conn.Open(ctx); err != nil {
		return fmt.Errorf("open: %w", err)
	}
	return nil
}

// Disconnect asks the connector to end the session.
func (m *Mirror) Disconnect(ctx context.Context) error {
	if m.conn == nil {
		return nil
	}
	if err := m.conn.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	return nil
}

// SwitchNetwork asks the connector to move to the configured target network.
func (m *Mirror) SwitchNetwork(ctx context.Context) error {
	if m.conn == nil {
		return nil
	}
	if err := m.conn.SwitchNetwork(ctx, m.target); err != nil {
		return fmt.Errorf("switch network to %s: %w", m.target.Name, err)
	}
	return nil
}

// ToggleTheme requests the opposite of the current mode and writes it to the
// theme slot optimistically. The slot stays Pending until the connector's
// next theme event replaces it. The new mode is returned.
func (m *Mirror) ToggleTheme() connector.ThemeMode {
	if m.conn == nil {
		return m.Theme().Mode
	}

	var next connector.ThemeMode
	applied := m.update(SlotTheme, func() {
		next = m.theme.Mode.Opposite()
		m.themeSeq++
		m.theme.Mode = next
		m.theme.Pending = true
		m.theme.Seq = m.themeSeq
	})
	if !applied {
		return m.Theme().Mode
	}

	// The local write comes first so a connector that confirms synchronously
	// clears Pending.
	if m.ambient != nil {
		m.ambient.ApplyTheme(next)
	}
	m.conn.SetThemeMode(next)
	return next
}
