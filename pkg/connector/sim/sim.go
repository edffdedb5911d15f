// Package sim is an in-process stand-in for the wallet connection SDK. It
// behaves like a single browser wallet that approves every pairing request,
// so appkit-mirror can run without an external AppKit host. It is a
// demonstration double and implements none of the SDK's session protocol.
package sim

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/google/uuid"

	"gitlab.com/tinyland/lab/appkit-mirror/pkg/connector"
	"gitlab.com/tinyland/lab/appkit-mirror/pkg/network"
)

// messageMagic prefixes every message signed with the Bitcoin signed-message
// scheme.
const messageMagic = "Bitcoin Signed Message:\n"

// maxEvents bounds the simulated event log.
const maxEvents = 50

var (
	// ErrNetworkNotAllowed is returned when switching to a network outside the
	// configured whitelist.
	ErrNetworkNotAllowed = errors.New("sim: network not in whitelist")
	// ErrUserRejected is the error a rejection hook typically returns.
	ErrUserRejected = errors.New("sim: user rejected the request")
	// ErrClosed is returned by operations on a closed connector.
	ErrClosed = errors.New("sim: connector closed")
)

// Wallet identity advertised once connected.
var simWallet = connector.WalletInfo{
	Name: "Simulated Wallet",
	Icon: "https://avatars.githubusercontent.com/u/179229932?s=200&v=4",
	RDNS: "lab.tinyland.simwallet",
}

// Connector implements connector.Connector entirely in memory.
type Connector struct {
	*connector.Feeds

	opts         connector.Options
	logger       *slog.Logger
	key          *secp256k1.PrivateKey
	themeDelay   time.Duration
	rejectSign   func(req connector.SignMessageRequest) error
	nowFunc      func() time.Time
	walletInfo   connector.WalletInfo
	providerName string

	mu         sync.Mutex
	current    connector.Network
	address    string
	connected  bool
	events     []connector.EventRecord
	theme      connector.ThemeSnapshot
	// themeTimer is the pending delayed confirmation, if any.
	themeTimer *time.Timer
	closed     bool
}

// Option configures a Connector.
type Option func(*Connector)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Connector) { c.logger = l }
}

// WithSeed derives the wallet key deterministically from seed.
func WithSeed(seed []byte) Option {
	return func(c *Connector) {
		sum := sha256.Sum256(seed)
		c.key = secp256k1.PrivKeyFromBytes(sum[:])
	}
}

// WithThemeDelay delays the theme confirmation that follows SetThemeMode.
// Zero confirms synchronously.
func WithThemeDelay(d time.Duration) Option {
	return func(c *Connector) { c.themeDelay = d }
}

// WithSignRejection installs a hook consulted before every signature. A
// non-nil return rejects the request with that error.
func WithSignRejection(fn func(req connector.SignMessageRequest) error) Option {
	return func(c *Connector) { c.rejectSign = fn }
}

// WithClock overrides time.Now for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Connector) { c.nowFunc = now }
}

// WithoutProvider connects without advertising a bip122 provider, which
// models wallets that expose no signing capability.
func WithoutProvider() Option {
	return func(c *Connector) { c.providerName = "" }
}

// New builds a simulated connector and publishes its initial snapshots. The
// first whitelisted network is selected.
func New(opts connector.Options, options ...Option) (*Connector, error) {
	if len(opts.Networks) == 0 {
		return nil, errors.New("sim: at least one network is required")
	}
	for _, n := range opts.Networks {
		if network.Params(n) == nil {
			return nil, fmt.Errorf("sim: unsupported network %q", n.CAIPNetworkID)
		}
	}

	c := &Connector{
		Feeds:        connector.NewFeeds(),
		opts:         opts,
		logger:       slog.Default(),
		nowFunc:      time.Now,
		walletInfo:   simWallet,
		providerName: connector.ProviderNamespace,
		current:      opts.Networks[0],
	}
	for _, opt := range options {
		opt(c)
	}
	if c.key == nil {
		key, err := secp256k1.GeneratePrivateKey()
		if err != nil {
			return nil, fmt.Errorf("sim: generate key: %w", err)
		}
		c.key = key
	}

	mode := opts.ThemeMode
	if !mode.Valid() {
		mode = connector.ThemeLight
	}
	c.theme = connector.ThemeSnapshot{Mode: mode, Variables: maps.Clone(opts.ThemeVariables)}
	if c.theme.Variables == nil {
		c.theme.Variables = map[string]string{}
	}

	c.Account.Publish(connector.AccountSnapshot{Status: connector.StatusDisconnected})
	c.Network.Publish(connector.SnapshotOf(c.current))
	c.State.Publish(c.appState(false))
	c.Theme.Publish(c.theme)
	c.Events.Publish([]connector.EventRecord{})
	c.WalletInfo.Publish(connector.WalletInfo{})
	c.Providers.Publish(connector.Providers{})

	return c, nil
}

// Open shows the (simulated) modal. A disconnected wallet pairs immediately;
// a connected one just opens and closes the account view.
func (c *Connector) Open(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}

	c.appendEventLocked("MODAL_OPEN", map[string]any{"connected": c.connected})
	c.State.Publish(c.appState(true))

	if !c.connected {
		if err := c.connectLocked(); err != nil {
			c.appendEventLocked("CONNECT_ERROR", map[string]any{"message": err.Error()})
			c.State.Publish(c.appState(false))
			return err
		}
	}

	c.appendEventLocked("MODAL_CLOSE", map[string]any{"connected": c.connected})
	c.State.Publish(c.appState(false))
	return nil
}

// Disconnect drops the session. It is a no-op when nothing is connected.
func (c *Connector) Disconnect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if !c.connected {
		return nil
	}

	c.connected = false
	c.address = ""
	c.Account.Publish(connector.AccountSnapshot{Status: connector.StatusDisconnected})
	c.WalletInfo.Publish(connector.WalletInfo{})
	c.Providers.Publish(connector.Providers{})
	c.appendEventLocked("DISCONNECT_SUCCESS", nil)
	return nil
}

// SwitchNetwork selects n, which must be whitelisted. A connected account is
// re-derived for the new network.
func (c *Connector) SwitchNetwork(ctx context.Context, n connector.Network) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if !c.opts.Allows(n) {
		c.appendEventLocked("SWITCH_NETWORK_ERROR", map[string]any{"network": n.CAIPNetworkID})
		return fmt.Errorf("%w: %s", ErrNetworkNotAllowed, n.CAIPNetworkID)
	}

	c.current = n
	c.Network.Publish(connector.SnapshotOf(n))
	c.State.Publish(c.appState(false))
	if c.connected {
		if err := c.connectLocked(); err != nil {
			return err
		}
	}
	c.appendEventLocked("SWITCH_NETWORK", map[string]any{"network": n.CAIPNetworkID})
	return nil
}

// SetThemeMode confirms the new mode through the theme feed, after the
// configured delay. A call made while an earlier confirmation is pending
// replaces it.
func (c *Connector) SetThemeMode(mode connector.ThemeMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.theme = connector.ThemeSnapshot{Mode: mode, Variables: maps.Clone(c.theme.Variables)}
	snap := c.theme

	if c.themeDelay <= 0 {
		c.Theme.Publish(snap)
		return
	}
	if c.themeTimer != nil {
		c.themeTimer.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(c.themeDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed || c.themeTimer != t {
			return
		}
		c.themeTimer = nil
		c.Theme.Publish(snap)
	})
	c.themeTimer = t
}

// Address returns the connected address, or "" when disconnected.
func (c *Connector) Address() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.address
}

// PublicKey returns the compressed public key of the simulated wallet.
func (c *Connector) PublicKey() []byte {
	return c.key.PubKey().SerializeCompressed()
}

// Close stops pending theme confirmations. Later commands fail with
// ErrClosed.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.themeTimer != nil {
		c.themeTimer.Stop()
		c.themeTimer = nil
	}
	return nil
}

// connectLocked derives the address for the current network and publishes
// the connected account, wallet and providers. Caller must hold c.mu.
func (c *Connector) connectLocked() error {
	addr, err := c.deriveAddress(c.current)
	if err != nil {
		return err
	}
	c.connected = true
	c.address = addr

	c.Account.Publish(connector.AccountSnapshot{
		Address:     addr,
		Status:      connector.StatusConnected,
		ChainID:     c.current.ChainID,
		CAIPAddress: c.current.CAIPNetworkID + ":" + addr,
		AllAccounts: []string{addr},
	})
	c.WalletInfo.Publish(c.walletInfo)

	providers := connector.Providers{}
	if c.providerName != "" {
		providers[c.providerName] = &provider{c: c}
	}
	c.Providers.Publish(providers)
	c.appendEventLocked("CONNECT_SUCCESS", map[string]any{"method": "browser", "name": c.walletInfo.Name})
	return nil
}

func (c *Connector) deriveAddress(n connector.Network) (string, error) {
	params := network.Params(n)
	if params == nil {
		return "", fmt.Errorf("sim: unsupported network %q", n.CAIPNetworkID)
	}
	hash := btcutil.Hash160(c.key.PubKey().SerializeCompressed())
	addr, err := btcutil.NewAddressWitnessPubKeyHash(hash, params)
	if err != nil {
		return "", fmt.Errorf("sim: derive address: %w", err)
	}
	return addr.EncodeAddress(), nil
}

func (c *Connector) appState(open bool) connector.AppState {
	return connector.AppState{
		Open:              open,
		Initialized:       true,
		SelectedNetworkID: c.current.CAIPNetworkID,
		ActiveChain:       c.current.ChainNamespace,
	}
}

// appendEventLocked appends to the event log and publishes a copy. Caller
// must hold c.mu.
func (c *Connector) appendEventLocked(name string, props map[string]any) {
	rec := connector.EventRecord{
		ID:         uuid.NewString(),
		Timestamp:  c.nowFunc().UTC(),
		Type:       "track",
		Event:      name,
		Properties: props,
	}
	c.events = append(c.events, rec)
	if len(c.events) > maxEvents {
		c.events = c.events[len(c.events)-maxEvents:]
	}
	c.Events.Publish(append([]connector.EventRecord(nil), c.events...))
	c.logger.Debug("sim event", "event", name)
}

// provider is the bip122 signing capability of the simulated wallet.
type provider struct {
	c *Connector
}

func (p *provider) SignMessage(ctx context.Context, req connector.SignMessageRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c := p.c
	c.mu.Lock()
	connected, addr, closed := c.connected, c.address, c.closed
	c.mu.Unlock()

	if closed {
		return "", ErrClosed
	}
	if !connected {
		return "", connector.ErrNotConnected
	}
	if req.Address != addr {
		return "", fmt.Errorf("sim: address %s is not controlled by this wallet", req.Address)
	}
	if c.rejectSign != nil {
		if err := c.rejectSign(req); err != nil {
			return "", err
		}
	}

	hash, err := MessageHash(req.Message)
	if err != nil {
		return "", err
	}
	sig := ecdsa.SignCompact(c.key, hash, true)
	return base64.StdEncoding.EncodeToString(sig), nil
}

// MessageHash returns the double-SHA256 digest signed by the Bitcoin
// signed-message scheme: varstr(magic) || varstr(message).
func MessageHash(message string) ([]byte, error) {
	var buf bytes.Buffer
	if err := wire.WriteVarString(&buf, 0, messageMagic); err != nil {
		return nil, fmt.Errorf("sim: encode magic: %w", err)
	}
	if err := wire.WriteVarString(&buf, 0, message); err != nil {
		return nil, fmt.Errorf("sim: encode message: %w", err)
	}
	return chainhash.DoubleHashB(buf.Bytes()), nil
}
