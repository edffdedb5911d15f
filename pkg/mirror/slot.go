package mirror

// Slot identifies one mirrored state stream.
type Slot int

const (
	SlotAccount Slot = iota
	SlotNetwork
	SlotAppState
	SlotTheme
	SlotEvents
	SlotWalletInfo
	SlotProvider
)

// Slots lists every slot in display order.
var Slots = []Slot{
	SlotAccount,
	SlotNetwork,
	SlotTheme,
	SlotAppState,
	SlotEvents,
	SlotWalletInfo,
	SlotProvider,
}

func (s Slot) String() string {
	switch s {
	case SlotAccount:
		return "account"
	case SlotNetwork:
		return "network"
	case SlotAppState:
		return "appState"
	case SlotTheme:
		return "theme"
	case SlotEvents:
		return "events"
	case SlotWalletInfo:
		return "walletInfo"
	case SlotProvider:
		return "provider"
	default:
		return "unknown"
	}
}
