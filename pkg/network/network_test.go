package network

import (
	"strings"
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
)

func TestCAIPIdentifiers(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"bitcoin", "bip122:000000000019d6689c085ae165831e93"},
		{"bitcoin-testnet", "bip122:000000000933ea01ad0ee984209779ba"},
		{"bitcoin-signet", "bip122:00000008819873e925422c1ff0f99f7c"},
	}
	for _, tt := range tests {
		n, ok := Lookup(tt.name)
		if !ok {
			t.Fatalf("Lookup(%q) not found", tt.name)
		}
		if n.CAIPNetworkID != tt.want {
			t.Errorf("Lookup(%q).CAIPNetworkID = %q, want %q", tt.name, n.CAIPNetworkID, tt.want)
		}
		if n.ChainNamespace != "bip122" {
			t.Errorf("Lookup(%q).ChainNamespace = %q", tt.name, n.ChainNamespace)
		}
	}
}

func TestLookupByCAIPAndCase(t *testing.T) {
	n, ok := Lookup("BIP122:000000000019D6689C085AE165831E93")
	if !ok || n.Name != "Bitcoin" {
		t.Errorf("Lookup by upper-case CAIP id = %+v, %v", n, ok)
	}
	if _, ok := Lookup(" Bitcoin-Testnet "); !ok {
		t.Error("Lookup should trim and ignore case")
	}
	if _, ok := Lookup("dogecoin"); ok {
		t.Error("Lookup(dogecoin) should fail")
	}
}

func TestWhitelist(t *testing.T) {
	nets, err := Whitelist([]string{"bitcoin", "bitcoin-testnet"})
	if err != nil {
		t.Fatalf("Whitelist() error: %v", err)
	}
	if len(nets) != 2 || nets[0].Name != "Bitcoin" || nets[1].Name != "Bitcoin Testnet" {
		t.Errorf("Whitelist() = %+v", nets)
	}
}

func TestWhitelistErrors(t *testing.T) {
	if _, err := Whitelist([]string{"bitcoin", "litecoin"}); err == nil || !strings.Contains(err.Error(), "litecoin") {
		t.Errorf("unknown network error = %v", err)
	}
	if _, err := Whitelist([]string{"bitcoin", "bip122:000000000019d6689c085ae165831e93"}); err == nil {
		t.Error("duplicate network should fail")
	}
}

func TestParams(t *testing.T) {
	if Params(Bitcoin) != &chaincfg.MainNetParams {
		t.Error("Params(Bitcoin) is not MainNetParams")
	}
	if Params(BitcoinTestnet) != &chaincfg.TestNet3Params {
		t.Error("Params(BitcoinTestnet) is not TestNet3Params")
	}
	if Params(Bitcoin) == nil || Params(BitcoinTestnet) == nil {
		t.Fatal("catalogue networks must have params")
	}
}

func TestValidateAddress(t *testing.T) {
	// BIP-173 reference vectors.
	mainnet := "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4"
	testnet := "tb1qw508d6qejxtdg4y5r3zarvary0c5xw7kxpjzsx"

	if err := ValidateAddress(mainnet, Bitcoin); err != nil {
		t.Errorf("mainnet address rejected: %v", err)
	}
	if err := ValidateAddress(testnet, BitcoinTestnet); err != nil {
		t.Errorf("testnet address rejected: %v", err)
	}
	if err := ValidateAddress(mainnet, BitcoinTestnet); err == nil {
		t.Error("mainnet address accepted for testnet")
	}
	if err := ValidateAddress("not-an-address", Bitcoin); err == nil {
		t.Error("garbage accepted")
	}
}
