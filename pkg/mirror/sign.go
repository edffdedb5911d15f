package mirror

import (
	"context"

	"gitlab.com/tinyland/lab/appkit-mirror/pkg/connector"
)

// SignStatus classifies how a sign-message command ended.
type SignStatus int

const (
	// SignOpened means no account was connected, so the connect modal was
	// opened instead of signing.
	SignOpened SignStatus = iota
	// SignSkipped means an account was connected but no bip122 provider
	// was available.
	SignSkipped
	// SignSigned means the provider returned a signature.
	SignSigned
	// SignFailed means the provider rejected. The error has been logged.
	SignFailed
)

func (s SignStatus) String() string {
	switch s {
	case SignOpened:
		return "opened"
	case SignSkipped:
		return "skipped"
	case SignSigned:
		return "signed"
	case SignFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SignOutcome is the result of SignMessage.
type SignOutcome struct {
	Status    SignStatus
	Address   string
	Signature string
	// Err is the provider error for SignFailed, or the Open error for
	// SignOpened.
	Err error
}

// SignMessage signs the configured message with the connected address.
//
// Without an address it opens the connect modal and returns SignOpened.
// Without a provider it returns SignSkipped and does nothing else. A provider
// error is logged once and reported as SignFailed; it is never retried and
// never returned as an error.
func (m *Mirror) SignMessage(ctx context.Context) SignOutcome {
	m.mu.RLock()
	addr := m.account.Address
	provider := m.provider
	m.mu.RUnlock()

	if addr == "" {
		return SignOutcome{Status: SignOpened, Err: m.Open(ctx)}
	}
	if provider == nil {
		return SignOutcome{Status: SignSkipped, Address: addr}
	}

	sig, err := provider.SignMessage(ctx, connector.SignMessageRequest{
		Address: addr,
		Message: m.message,
	})
	if err != nil {
		m.logger.Error("sign message failed", "address", addr, "error", err)
		return SignOutcome{Status: SignFailed, Address: addr, Err: err}
	}

	m.logger.Info("message signed", "address", addr)
	return SignOutcome{Status: SignSigned, Address: addr, Signature: sig}
}
