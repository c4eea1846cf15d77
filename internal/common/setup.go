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
	"context"
	"fmt"
	"log"
	"strings"

	"topdog-arena-nft-go/internal/audit"
	"topdog-arena-nft-go/internal/database"
	"topdog-arena-nft-go/internal/mint"
	"topdog-arena-nft-go/internal/models"
	"topdog-arena-nft-go/internal/xrpl"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// Environment variables can also be set via shell export, docker, etc.
	if err := godotenv.Load(); err == nil {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

type Services struct {
	DbService   *database.Service
	Ledger      *xrpl.Client
	MintService *mint.Service
	Audit       *audit.Service
	Faucet      *xrpl.FaucetClient
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	if cfg.Ledger.WalletSeed == "" || cfg.Ledger.WalletAddress == "" {
		return nil, fmt.Errorf("missing required wallet configuration: XRPL_WALLET_SEED, XRPL_WALLET_ADDRESS")
	}
	if !xrpl.IsValidAddress(cfg.Ledger.WalletAddress) {
		return nil, fmt.Errorf("XRPL_WALLET_ADDRESS is not a valid classic address")
	}
	if err := ResolveNetwork(&cfg.Ledger); err != nil {
		return nil, err
	}

	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	auditService, err := audit.NewService(ctx, cfg.Formance)
	if err != nil {
		dbService.Close()
		return nil, err
	}

	ledger := xrpl.NewClient(cfg.Ledger)
	if err := ledger.Connect(ctx); err != nil {
		dbService.Close()
		return nil, err
	}

	services := &Services{
		DbService:   dbService,
		Ledger:      ledger,
		MintService: mint.NewService(ledger, dbService, auditService),
		Audit:       auditService,
	}

	if cfg.Ledger.FaucetURL != "" && cfg.Ledger.Network != "mainnet" {
		faucet, err := xrpl.NewFaucetClient(cfg.Ledger.FaucetURL)
		if err != nil {
			services.Close()
			return nil, err
		}
		services.Faucet = faucet
	}

	return services, nil
}

// InitializeDatabaseOnly initializes just the database service without a
// ledger connection. Useful for read-only operations like listing records.
func InitializeDatabaseOnly(ctx context.Context, cfg *models.Config) (*database.Service, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	return dbService, nil
}

func (cs *Services) Close() {
	if cs.Ledger != nil {
		cs.Ledger.Disconnect()
	}
	if cs.DbService != nil {
		cs.DbService.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
