package common

import (
	"os"
	"path/filepath"
	"testing"

	"topdog-arena-nft-go/internal/models"
)

func writeNetworksFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "networks.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write networks file: %v", err)
	}
	return path
}

func TestLoadNetworkConfig(t *testing.T) {
	path := writeNetworksFile(t, `networks:
  - name: testnet
    server_url: wss://s.altnet.rippletest.net:51233
    faucet_url: https://faucet.altnet.rippletest.net/accounts
  - name: mainnet
    server_url: wss://xrplcluster.com
`)

	networks, err := LoadNetworkConfig(path)
	if err != nil {
		t.Fatalf("LoadNetworkConfig failed: %v", err)
	}
	if len(networks) != 2 {
		t.Fatalf("Expected 2 networks, got %d", len(networks))
	}
	if networks[0].FaucetURL == "" {
		t.Error("Expected testnet faucet url")
	}
	if networks[1].FaucetURL != "" {
		t.Error("Mainnet must not carry a faucet url")
	}
}

func TestLoadNetworkConfig_MissingServerURL(t *testing.T) {
	path := writeNetworksFile(t, `networks:
  - name: testnet
`)
	if _, err := LoadNetworkConfig(path); err == nil {
		t.Fatal("Expected error for network without server_url")
	}
}

func TestResolveNetwork_ExplicitOverrideWins(t *testing.T) {
	cfg := models.LedgerConfig{
		Network:   "testnet",
		ServerURL: "wss://example.test:51233",
	}
	if err := ResolveNetwork(&cfg); err != nil {
		t.Fatalf("ResolveNetwork failed: %v", err)
	}
	if cfg.ServerURL != "wss://example.test:51233" {
		t.Errorf("Explicit server url must not be replaced, got %s", cfg.ServerURL)
	}
}

func TestResolveNetwork_FileLookup(t *testing.T) {
	path := writeNetworksFile(t, `networks:
  - name: devnet
    server_url: wss://dev.example:51233
    faucet_url: https://faucet.dev.example/accounts
`)
	t.Setenv("NETWORKS_FILE", path)

	cfg := models.LedgerConfig{Network: "devnet"}
	if err := ResolveNetwork(&cfg); err != nil {
		t.Fatalf("ResolveNetwork failed: %v", err)
	}
	if cfg.ServerURL != "wss://dev.example:51233" {
		t.Errorf("Expected file server url, got %s", cfg.ServerURL)
	}
	if cfg.FaucetURL != "https://faucet.dev.example/accounts" {
		t.Errorf("Expected file faucet url, got %s", cfg.FaucetURL)
	}
}

func TestResolveNetwork_UnknownNetwork(t *testing.T) {
	path := writeNetworksFile(t, `networks:
  - name: testnet
    server_url: wss://s.altnet.rippletest.net:51233
`)
	t.Setenv("NETWORKS_FILE", path)

	cfg := models.LedgerConfig{Network: "moonnet"}
	if err := ResolveNetwork(&cfg); err == nil {
		t.Fatal("Expected error for unlisted network")
	}
}
