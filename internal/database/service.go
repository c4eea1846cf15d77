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

package database

import (
	"context"
	"database/sql"
	"fmt"

	"topdog-arena-nft-go/internal/models"
	"topdog-arena-nft-go/internal/store"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Compile-time check: *Service must satisfy store.NFTStore.
var _ store.NFTStore = (*Service)(nil)

type Service struct {
	db *sql.DB
}

func NewService(ctx context.Context, cfg models.DatabaseConfig) (*Service, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if cfg.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("max open connections must be positive, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns < 0 {
		return nil, fmt.Errorf("max idle connections cannot be negative, got %d", cfg.MaxIdleConns)
	}
	if cfg.PingTimeout <= 0 {
		return nil, fmt.Errorf("ping timeout must be positive, got %v", cfg.PingTimeout)
	}

	zap.L().Info("Opening SQLite database", zap.String("file", cfg.Path))
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=1000")
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, closeErr
		}
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	service := &Service{db: db}
	if err := service.initSchema(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, closeErr
		}
		return nil, fmt.Errorf("unable to initialize schema: %w", err)
	}

	zap.L().Info("Database service initialized successfully")
	return service, nil
}

// NewServiceFromDB wraps an already-open connection. Used by tests with
// in-memory databases.
func NewServiceFromDB(db *sql.DB) (*Service, error) {
	service := &Service{db: db}
	if err := service.initSchema(); err != nil {
		return nil, fmt.Errorf("unable to initialize schema: %w", err)
	}
	return service, nil
}

func (s *Service) Close() {
	if err := s.db.Close(); err != nil {
		zap.L().Warn("Failed to close database connection", zap.Error(err))
	}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Service) initSchema() error {
	schema := `
	-- Minted tokens (local index over the ledger)
	CREATE TABLE IF NOT EXISTS nfts (
		token_id TEXT PRIMARY KEY,
		issuer TEXT NOT NULL,
		owner TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		image_uri TEXT NOT NULL DEFAULT '',
		attributes TEXT NOT NULL DEFAULT '[]',
		external_url TEXT NOT NULL DEFAULT '',
		animation_url TEXT NOT NULL DEFAULT '',
		tx_hash TEXT NOT NULL,
		transfer_fee INTEGER NOT NULL DEFAULT 0,
		flags INTEGER NOT NULL DEFAULT 0,
		minted_at TIMESTAMP NOT NULL,
		is_burned BOOLEAN NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_nfts_owner ON nfts(owner);
	CREATE INDEX IF NOT EXISTS idx_nfts_issuer ON nfts(issuer);
	CREATE INDEX IF NOT EXISTS idx_nfts_tx_hash ON nfts(tx_hash);
	CREATE INDEX IF NOT EXISTS idx_nfts_minted_at ON nfts(minted_at);

	-- Append-only audit trail: one row per submission attempt
	CREATE TABLE IF NOT EXISTS transaction_log (
		id TEXT PRIMARY KEY,
		tx_hash TEXT NOT NULL DEFAULT '',
		tx_type TEXT NOT NULL,
		account TEXT NOT NULL,
		fee_drops TEXT NOT NULL DEFAULT '0',
		ledger_index INTEGER NOT NULL DEFAULT 0,
		validated BOOLEAN NOT NULL DEFAULT 0,
		successful BOOLEAN NOT NULL DEFAULT 0,
		result_code TEXT NOT NULL DEFAULT '',
		error_message TEXT NOT NULL DEFAULT '',
		idempotency_key TEXT NOT NULL DEFAULT '',
		submitted_at TIMESTAMP NOT NULL,
		validated_at TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_txlog_hash ON transaction_log(tx_hash);
	CREATE INDEX IF NOT EXISTS idx_txlog_account ON transaction_log(account);
	CREATE INDEX IF NOT EXISTS idx_txlog_submitted_at ON transaction_log(submitted_at);
	CREATE INDEX IF NOT EXISTS idx_txlog_idempotency ON transaction_log(idempotency_key);

	-- Cached balance snapshots
	CREATE TABLE IF NOT EXISTS account_balances (
		address TEXT PRIMARY KEY,
		balance_drops TEXT NOT NULL DEFAULT '0',
		reserve_drops TEXT NOT NULL DEFAULT '0',
		available_drops TEXT NOT NULL DEFAULT '0',
		owner_count INTEGER NOT NULL DEFAULT 0,
		last_sync_at TIMESTAMP NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}
