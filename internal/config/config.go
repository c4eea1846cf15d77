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

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"topdog-arena-nft-go/internal/models"
)

func Load() (*models.Config, error) {
	waitTimeout, err := getEnvDuration("XRPL_WAIT_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}

	pollInterval, err := getEnvDuration("XRPL_POLL_INTERVAL", 2*time.Second)
	if err != nil {
		return nil, err
	}

	connectTimeout, err := getEnvDuration("XRPL_CONNECT_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	syncInterval, err := getEnvDuration("BALANCE_SYNC_INTERVAL", 0)
	if err != nil {
		return nil, err
	}

	connMaxLifetime, err := getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxIdleTime, err := getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Second)
	if err != nil {
		return nil, err
	}

	pingTimeout, err := getEnvDuration("DB_PING_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	return &models.Config{
		Database: models.DatabaseConfig{
			Path:            getEnvString("DATABASE_PATH", "nfts.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: connMaxLifetime,
			ConnMaxIdleTime: connMaxIdleTime,
			PingTimeout:     pingTimeout,
		},
		Ledger: models.LedgerConfig{
			Network:         getEnvString("XRPL_NETWORK", "testnet"),
			ServerURL:       getEnvString("XRPL_SERVER_URL", ""),
			FaucetURL:       getEnvString("XRPL_FAUCET_URL", ""),
			WalletSeed:      os.Getenv("XRPL_WALLET_SEED"),
			WalletAddress:   getEnvString("XRPL_WALLET_ADDRESS", ""),
			WaitTimeout:     waitTimeout,
			PollInterval:    pollInterval,
			MaxQueryRetries: getEnvInt("XRPL_MAX_QUERY_RETRIES", 3),
			ConnectTimeout:  connectTimeout,
		},
		Server: models.ServerConfig{
			Port:           getEnvString("SERVER_PORT", "3000"),
			AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"*"}),
			SyncInterval:   syncInterval,
		},
		Formance: models.FormanceConfig{
			StackURL:     getEnvString("FORMANCE_STACK_URL", ""),
			ClientID:     getEnvString("FORMANCE_CLIENT_ID", ""),
			ClientSecret: os.Getenv("FORMANCE_CLIENT_SECRET"),
			LedgerName:   getEnvString("FORMANCE_LEDGER_NAME", "topdog-arena-nft"),
		},
	}, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var parts []string
		for _, part := range strings.Split(value, ",") {
			// Trailing or doubled commas must not produce empty entries.
			if part = strings.TrimSpace(part); part != "" {
				parts = append(parts, part)
			}
		}
		if len(parts) > 0 {
			return parts
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
