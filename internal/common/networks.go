/**
 * Copyright 2025-present Top Dog Arena, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package common

import (
	"fmt"
	"os"
	"path/filepath"

	"topdog-arena-nft-go/internal/models"

	"gopkg.in/yaml.v2"
)

type NetworkConfig struct {
	Name      string `yaml:"name"`
	ServerURL string `yaml:"server_url"`
	FaucetURL string `yaml:"faucet_url"`
}

type NetworksConfig struct {
	Networks []NetworkConfig `yaml:"networks"`
}

// builtinNetworks backs ResolveNetwork when no networks file is present.
// Mainnet carries no faucet on purpose.
var builtinNetworks = map[string]NetworkConfig{
	"mainnet": {
		Name:      "mainnet",
		ServerURL: "wss://xrplcluster.com",
	},
	"testnet": {
		Name:      "testnet",
		ServerURL: "wss://s.altnet.rippletest.net:51233",
		FaucetURL: "https://faucet.altnet.rippletest.net/accounts",
	},
	"devnet": {
		Name:      "devnet",
		ServerURL: "wss://s.devnet.rippletest.net:51233",
		FaucetURL: "https://faucet.devnet.rippletest.net/accounts",
	},
}

func LoadNetworkConfig(networksFile string) ([]NetworkConfig, error) {
	var networksPath string
	if filepath.IsAbs(networksFile) {
		networksPath = networksFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		networksPath = filepath.Join(wd, networksFile)
	}

	data, err := os.ReadFile(networksPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", networksFile, err)
	}

	var config NetworksConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", networksFile, err)
	}

	for i, network := range config.Networks {
		if network.Name == "" {
			return nil, fmt.Errorf("network at index %d missing name", i)
		}
		if network.ServerURL == "" {
			return nil, fmt.Errorf("network at index %d missing server_url", i)
		}
	}

	return config.Networks, nil
}

// ResolveNetwork fills ServerURL and FaucetURL from the networks file (or the
// builtin table when no file exists) unless explicit overrides are set.
func ResolveNetwork(cfg *models.LedgerConfig) error {
	if cfg.ServerURL != "" {
		return nil
	}

	networksFile := os.Getenv("NETWORKS_FILE")
	if networksFile == "" {
		networksFile = "networks.yaml"
	}

	if networks, err := LoadNetworkConfig(networksFile); err == nil {
		for _, network := range networks {
			if network.Name == cfg.Network {
				cfg.ServerURL = network.ServerURL
				if cfg.FaucetURL == "" {
					cfg.FaucetURL = network.FaucetURL
				}
				return nil
			}
		}
		return fmt.Errorf("network %q not listed in %s", cfg.Network, networksFile)
	}

	network, ok := builtinNetworks[cfg.Network]
	if !ok {
		return fmt.Errorf("unknown network %q and no networks file found", cfg.Network)
	}
	cfg.ServerURL = network.ServerURL
	if cfg.FaucetURL == "" {
		cfg.FaucetURL = network.FaucetURL
	}
	return nil
}
