package config

// Block identifiers, one per mirrored slot shown in the interface.
const (
	BlockAccount    = "account"
	BlockNetwork    = "network"
	BlockTheme      = "theme"
	BlockState      = "state"
	BlockEvents     = "events"
	BlockWalletInfo = "walletInfo"
)

// LayoutPreset returns the blocks shown by a named layout, in display order.
// If the name is not recognized, the "full" preset is returned.
func LayoutPreset(name string) []string {
	switch name {
	case "compact":
		return compactPreset()
	case "events":
		return eventsPreset()
	case "full":
		return fullPreset()
	default:
		return fullPreset()
	}
}

// LayoutNames lists the known presets.
func LayoutNames() []string {
	return []string{"compact", "events", "full"}
}

// fullPreset shows every block in the order the hooks are listed.
func fullPreset() []string {
	return []string{
		BlockAccount,
		BlockNetwork,
		BlockTheme,
		BlockState,
		BlockEvents,
		BlockWalletInfo,
	}
}

// compactPreset shows the connection essentials only.
func compactPreset() []string {
	return []string{BlockAccount, BlockNetwork, BlockWalletInfo}
}

// eventsPreset follows the event log next to the account.
func eventsPreset() []string {
	return []string{BlockAccount, BlockEvents}
}

func isLayout(name string) bool {
	for _, n := range LayoutNames() {
		if n == name {
			return true
		}
	}
	return false
}
