package bridge

import (
	"encoding/json"
	"fmt"
)

// Methods understood by the AppKit host.
const (
	MethodInit          = "appkit_init"
	MethodOpen          = "appkit_open"
	MethodDisconnect    = "appkit_disconnect"
	MethodSwitchNetwork = "appkit_switchNetwork"
	MethodSetThemeMode  = "appkit_setThemeMode"
)

// signMethodSuffix is appended to a provider namespace to form its signing
// method, e.g. "bip122_signMessage".
const signMethodSuffix = "_signMessage"

// Notification topics pushed by the host, one per state stream.
const (
	TopicAccount    = "account"
	TopicNetwork    = "network"
	TopicState      = "state"
	TopicTheme      = "theme"
	TopicEvents     = "events"
	TopicWalletInfo = "walletInfo"
	TopicProviders  = "providers"
)

// Request is a client-to-host call.
type Request struct {
	ID     string `json:"id"`
	Method string `json:"method"`
	Params any    `json:"params,omitempty"`
}

// Envelope is any host-to-client frame. Responses carry ID; notifications
// carry Topic.
type Envelope struct {
	ID      string          `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
	Topic   string          `json:"topic,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// RPCError is an error reported by the host.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("bridge: rpc error %d: %s", e.Code, e.Message)
}

// SwitchNetworkParams is the payload of MethodSwitchNetwork.
type SwitchNetworkParams struct {
	CAIPNetworkID string `json:"caipNetworkId"`
}

// ThemeModeParams is the payload of MethodSetThemeMode.
type ThemeModeParams struct {
	ThemeMode string `json:"themeMode"`
}

// ProvidersPayload lists the namespaces the connected wallet can sign for.
type ProvidersPayload struct {
	Namespaces []string `json:"namespaces"`
}
