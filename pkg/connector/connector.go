// Package connector defines the contract between appkit-mirror and a wallet
// connection SDK. The SDK owns session management, signing, network
// switching and wallet discovery; this package only names the snapshots it
// pushes and the commands it accepts. Implementations live in sub-packages
// (pkg/connector/sim, pkg/connector/bridge).
package connector

import (
	"context"
	"errors"
	"time"
)

// ProviderNamespace is the provider-map key for the Bitcoin (BIP-122)
// signing capability.
const ProviderNamespace = "bip122"

// ErrNotConnected is returned by operations that require a connected account.
var ErrNotConnected = errors.New("connector: no connected account")

// Unsubscribe releases a subscription. Calling it more than once is harmless.
type Unsubscribe func()

// Connector is the externally constructed handle that mediates all wallet,
// network and session operations. Subscribe methods deliver the current value
// immediately (if any) and then every replacement, possibly from a goroutine
// owned by the implementation.
type Connector interface {
	Open(ctx context.Context) error
	Disconnect(ctx context.Context) error
	SwitchNetwork(ctx context.Context, n Network) error
	SetThemeMode(mode ThemeMode)

	SubscribeAccount(fn func(AccountSnapshot)) Unsubscribe
	SubscribeNetwork(fn func(NetworkSnapshot)) Unsubscribe
	SubscribeState(fn func(AppState)) Unsubscribe
	SubscribeTheme(fn func(ThemeSnapshot)) Unsubscribe
	SubscribeEvents(fn func([]EventRecord)) Unsubscribe
	SubscribeWalletInfo(fn func(WalletInfo)) Unsubscribe
	SubscribeProviders(fn func(Providers)) Unsubscribe
}

// Provider is a namespace-specific signing capability.
type Provider interface {
	// SignMessage asks the wallet to sign message with the key behind
	// address. It fails on user rejection or backend failure.
	SignMessage(ctx context.Context, req SignMessageRequest) (string, error)
}

// Providers maps a chain namespace (e.g. "bip122") to its provider.
type Providers map[string]Provider

// SignMessageRequest is the payload of Provider.SignMessage.
type SignMessageRequest struct {
	Address string `json:"address"`
	Message string `json:"message"`
}

// AccountStatus is the SDK's connection status string.
type AccountStatus string

const (
	StatusConnected    AccountStatus = "connected"
	StatusDisconnected AccountStatus = "disconnected"
	StatusConnecting   AccountStatus = "connecting"
	StatusReconnecting AccountStatus = "reconnecting"
)

// AccountSnapshot is the account slot payload.
type AccountSnapshot struct {
	Address     string        `json:"address,omitempty"`
	Status      AccountStatus `json:"status,omitempty"`
	ChainID     string        `json:"chainId,omitempty"`
	CAIPAddress string        `json:"caipAddress,omitempty"`
	AllAccounts []string      `json:"allAccounts,omitempty"`
}

// Connected reports whether the snapshot carries an address. An account
// without an address is never connected, whatever its Status says.
func (a AccountSnapshot) Connected() bool {
	return a.Address != ""
}

// Network identifies a chain the connector may switch to.
type Network struct {
	Name           string `json:"name"`
	CAIPNetworkID  string `json:"caipNetworkId"`
	ChainNamespace string `json:"chainNamespace"`
	ChainID        string `json:"chainId"`
	Testnet        bool   `json:"testnet"`
}

// NetworkSnapshot is the network slot payload.
type NetworkSnapshot struct {
	CAIPNetworkID string `json:"caipNetworkId,omitempty"`
	ChainID       string `json:"chainId,omitempty"`
	Name          string `json:"name,omitempty"`
	Testnet       bool   `json:"testnet,omitempty"`
}

// SnapshotOf returns the network snapshot describing n.
func SnapshotOf(n Network) NetworkSnapshot {
	return NetworkSnapshot{
		CAIPNetworkID: n.CAIPNetworkID,
		ChainID:       n.ChainID,
		Name:          n.Name,
		Testnet:       n.Testnet,
	}
}

// AppState is the modal/session state slot payload.
type AppState struct {
	Open              bool   `json:"open"`
	Loading           bool   `json:"loading"`
	Initialized       bool   `json:"initialized"`
	SelectedNetworkID string `json:"selectedNetworkId,omitempty"`
	ActiveChain       string `json:"activeChain,omitempty"`
}

// ThemeMode is "light" or "dark".
type ThemeMode string

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
)

// Opposite returns the other mode. Anything that is not dark counts as light.
func (m ThemeMode) Opposite() ThemeMode {
	if m == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Valid reports whether m is one of the two known modes.
func (m ThemeMode) Valid() bool {
	return m == ThemeLight || m == ThemeDark
}

// ThemeSnapshot is the theme slot payload.
type ThemeSnapshot struct {
	Mode      ThemeMode         `json:"themeMode"`
	Variables map[string]string `json:"themeVariables"`
}

// EventRecord is one entry of the connector's event log.
type EventRecord struct {
	ID         string         `json:"id"`
	Timestamp  time.Time      `json:"timestamp"`
	Type       string         `json:"type"`
	Event      string         `json:"event"`
	Properties map[string]any `json:"properties,omitempty"`
}

// WalletInfo describes the connected wallet. The zero value means none.
type WalletInfo struct {
	Name string `json:"name,omitempty"`
	Icon string `json:"icon,omitempty"`
	RDNS string `json:"rdns,omitempty"`
}

// Metadata is the dapp description shown by wallets during pairing.
type Metadata struct {
	Name        string   `json:"name" toml:"name"`
	Description string   `json:"description" toml:"description"`
	URL         string   `json:"url" toml:"url"`
	Icons       []string `json:"icons" toml:"icons"`
}

// Features toggles optional SDK features.
type Features struct {
	Analytics bool `json:"analytics" toml:"analytics"`
}

// Options is the fixed configuration a connector is constructed with.
type Options struct {
	Adapters       []string          `json:"adapters"`
	Networks       []Network         `json:"networks"`
	ProjectID      string            `json:"projectId"`
	Metadata       Metadata          `json:"metadata"`
	Features       Features          `json:"features"`
	ThemeMode      ThemeMode         `json:"themeMode"`
	ThemeVariables map[string]string `json:"themeVariables,omitempty"`
}

// Allows reports whether n is in the network whitelist. An empty whitelist
// allows nothing.
func (o Options) Allows(n Network) bool {
	for _, w := range o.Networks {
		if w.CAIPNetworkID == n.CAIPNetworkID {
			return true
		}
	}
	return false
}
