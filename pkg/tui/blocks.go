package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"gopkg.in/yaml.v3"

	"gitlab.com/tinyland/lab/appkit-mirror/pkg/config"
	"gitlab.com/tinyland/lab/appkit-mirror/pkg/connector"
	"gitlab.com/tinyland/lab/appkit-mirror/pkg/mirror"
)

// Block formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Block is one labelled serialized view of a mirror slot.
type Block struct {
	ID    string
	Label string
	Slot  mirror.Slot
	value func(mirror.Snapshot) any
}

// Value returns the slot content to serialize.
func (b Block) Value(s mirror.Snapshot) any {
	return b.value(s)
}

var blockTable = map[string]Block{
	config.BlockAccount: {
		ID: config.BlockAccount, Label: "useAppKitAccount()", Slot: mirror.SlotAccount,
		value: func(s mirror.Snapshot) any { return s.Account },
	},
	config.BlockNetwork: {
		ID: config.BlockNetwork, Label: "useAppKitNetwork()", Slot: mirror.SlotNetwork,
		value: func(s mirror.Snapshot) any { return s.Network },
	},
	config.BlockTheme: {
		ID: config.BlockTheme, Label: "useAppKitTheme()", Slot: mirror.SlotTheme,
		value: func(s mirror.Snapshot) any {
			t := s.Theme.ThemeSnapshot
			if t.Variables == nil {
				t.Variables = map[string]string{}
			}
			return t
		},
	},
	config.BlockState: {
		ID: config.BlockState, Label: "useAppKitState()", Slot: mirror.SlotAppState,
		value: func(s mirror.Snapshot) any { return s.AppState },
	},
	config.BlockEvents: {
		ID: config.BlockEvents, Label: "useAppKitEvents()", Slot: mirror.SlotEvents,
		value: func(s mirror.Snapshot) any {
			if s.Events == nil {
				return []connector.EventRecord{}
			}
			return s.Events
		},
	},
	config.BlockWalletInfo: {
		ID: config.BlockWalletInfo, Label: "useWalletInfo()", Slot: mirror.SlotWalletInfo,
		value: func(s mirror.Snapshot) any { return s.WalletInfo },
	},
}

// Blocks resolves block ids in order. Unknown ids are skipped.
func Blocks(ids []string) []Block {
	out := make([]Block, 0, len(ids))
	for _, id := range ids {
		if b, ok := blockTable[id]; ok {
			out = append(out, b)
		}
	}
	return out
}

// Encode serializes v as indented JSON or as YAML. YAML output keeps the
// JSON field names and order.
func Encode(v any, format string) (string, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode block: %w", err)
	}
	switch format {
	case FormatJSON, "":
		return string(raw), nil
	case FormatYAML:
		return jsonToYAML(raw)
	default:
		return "", fmt.Errorf("unknown block format %q", format)
	}
}

// jsonToYAML re-encodes JSON as block-style YAML. JSON parses as a YAML flow
// document, so the node styles are reset before encoding.
func jsonToYAML(raw []byte) (string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("encode block: %w", err)
	}
	resetStyle(&doc)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return "", fmt.Errorf("encode block: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode block: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func resetStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		resetStyle(c)
	}
}

// renderContent encodes a block and truncates every line to width cells.
func renderContent(b Block, s mirror.Snapshot, format string, width int) string {
	text, err := Encode(b.Value(s), format)
	if err != nil {
		text = err.Error()
	}
	if width <= 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, width, "…")
	}
	return strings.Join(lines, "\n")
}
