// Package network is the catalogue of Bitcoin networks appkit-mirror can
// whitelist. Identifiers follow CAIP-2: the "bip122" namespace followed by
// the first 32 hex characters of the network's genesis block hash, taken
// from btcd's chain parameters.
package network

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"

	"gitlab.com/tinyland/lab/appkit-mirror/pkg/connector"
)

// caipReferenceLen is the length of a BIP-122 chain reference.
const caipReferenceLen = 32

type entry struct {
	key     string
	network connector.Network
	params  *chaincfg.Params
}

var catalogue = []entry{
	{key: "bitcoin", params: &chaincfg.MainNetParams, network: build("Bitcoin", &chaincfg.MainNetParams, false)},
	{key: "bitcoin-testnet", params: &chaincfg.TestNet3Params, network: build("Bitcoin Testnet", &chaincfg.TestNet3Params, true)},
	{key: "bitcoin-signet", params: &chaincfg.SigNetParams, network: build("Bitcoin Signet", &chaincfg.SigNetParams, true)},
}

var (
	// Bitcoin is mainnet.
	Bitcoin = catalogue[0].network
	// BitcoinTestnet is testnet3.
	BitcoinTestnet = catalogue[1].network
)

func build(name string, params *chaincfg.Params, testnet bool) connector.Network {
	ref := ChainReference(params)
	return connector.Network{
		Name:           name,
		CAIPNetworkID:  connector.ProviderNamespace + ":" + ref,
		ChainNamespace: connector.ProviderNamespace,
		ChainID:        ref,
		Testnet:        testnet,
	}
}

// ChainReference returns the BIP-122 chain reference for params: the first
// 32 characters of the genesis hash in its usual display order.
func ChainReference(params *chaincfg.Params) string {
	return params.GenesisHash.String()[:caipReferenceLen]
}

// Names returns the catalogue keys in catalogue order.
func Names() []string {
	names := make([]string, len(catalogue))
	for i, e := range catalogue {
		names[i] = e.key
	}
	return names
}

// Lookup resolves a catalogue key ("bitcoin") or a CAIP-2 id
// ("bip122:000000000019d6689c085ae165831e93"). Matching is case-insensitive.
func Lookup(name string) (connector.Network, bool) {
	e, ok := find(name)
	return e.network, ok
}

// Whitelist resolves every name in names. It fails on the first unknown name
// and on duplicates.
func Whitelist(names []string) ([]connector.Network, error) {
	out := make([]connector.Network, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		n, ok := Lookup(name)
		if !ok {
			return nil, fmt.Errorf("network: unknown network %q (known: %s)", name, strings.Join(Names(), ", "))
		}
		if seen[n.CAIPNetworkID] {
			return nil, fmt.Errorf("network: %q listed twice", name)
		}
		seen[n.CAIPNetworkID] = true
		out = append(out, n)
	}
	return out, nil
}

// Params returns the btcd chain parameters behind n, or nil if n is not in
// the catalogue.
func Params(n connector.Network) *chaincfg.Params {
	e, ok := find(n.CAIPNetworkID)
	if !ok {
		return nil
	}
	return e.params
}

// ValidateAddress checks that addr decodes as a Bitcoin address belonging to
// network n.
func ValidateAddress(addr string, n connector.Network) error {
	params := Params(n)
	if params == nil {
		return fmt.Errorf("network: %q is not a known bitcoin network", n.CAIPNetworkID)
	}
	decoded, err := btcutil.DecodeAddress(addr, params)
	if err != nil {
		return fmt.Errorf("network: decode address: %w", err)
	}
	if !decoded.IsForNet(params) {
		return fmt.Errorf("network: address %s is not for %s", addr, n.Name)
	}
	return nil
}

func find(name string) (entry, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, e := range catalogue {
		if e.key == key || strings.ToLower(e.network.CAIPNetworkID) == key {
			return e, true
		}
	}
	return entry{}, false
}
