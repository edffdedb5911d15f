package theme

import "gitlab.com/tinyland/lab/appkit-mirror/pkg/connector"

// thRegisterBuiltins registers the built-in palettes in the registry.
func thRegisterBuiltins() {
	for _, t := range []Theme{
		thLightTheme(),
		thDarkTheme(),
	} {
		Register(t)
	}
}

// thLightTheme returns the light palette with a dark wordmark.
func thLightTheme() Theme {
	return Theme{
		Name:       "light",
		Mode:       connector.ThemeLight,
		Background: "#ffffff",
		Foreground: "#141414",
		Dim:        "#798686",
		Accent:     "#0988f0",

		Border:      "#e4e7e7",
		BorderFocus: "#0988f0",
		Title:       "#2a2a2a",

		Logo: "#202020",

		StatusOK:    "#26d962",
		StatusWarn:  "#f5a623",
		StatusError: "#f25a67",

		ButtonFg: "#ffffff",
		ButtonBg: "#0988f0",

		HelpKey:  "#0988f0",
		HelpDesc: "#798686",
	}
}

// thDarkTheme returns the dark palette with a light wordmark.
func thDarkTheme() Theme {
	return Theme{
		Name:       "dark",
		Mode:       connector.ThemeDark,
		Background: "#141414",
		Foreground: "#e4e7e7",
		Dim:        "#949e9e",
		Accent:     "#667dff",

		Border:      "#2a2a2a",
		BorderFocus: "#667dff",
		Title:       "#f5f5f5",

		Logo: "#f5f5f5",

		StatusOK:    "#30a46b",
		StatusWarn:  "#ffb340",
		StatusError: "#f05142",

		ButtonFg: "#141414",
		ButtonBg: "#667dff",

		HelpKey:  "#667dff",
		HelpDesc: "#949e9e",
	}
}
