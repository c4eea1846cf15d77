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

package models

import "time"

// Config is the process-wide configuration, loaded once at startup and
// immutable thereafter.
type Config struct {
	Database DatabaseConfig
	Ledger   LedgerConfig
	Server   ServerConfig
	Formance FormanceConfig
}

// DatabaseConfig holds SQLite connection settings.
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// LedgerConfig holds XRPL node connection and submission settings.
type LedgerConfig struct {
	Network         string // mainnet, testnet, devnet
	ServerURL       string // overrides the networks file when set
	FaucetURL       string // overrides the networks file when set
	WalletSeed      string // opaque signing credential, never logged
	WalletAddress   string // classic address of the signing account
	WaitTimeout     time.Duration
	PollInterval    time.Duration
	MaxQueryRetries int
	ConnectTimeout  time.Duration
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
	SyncInterval   time.Duration // background balance sync cadence, 0 disables
}

// FormanceConfig enables the optional audit-ledger mirror when all three
// connection fields are set.
type FormanceConfig struct {
	StackURL     string
	ClientID     string
	ClientSecret string
	LedgerName   string
}

// Enabled reports whether the Formance mirror should be wired.
func (c FormanceConfig) Enabled() bool {
	return c.StackURL != "" && c.ClientID != "" && c.ClientSecret != ""
}
