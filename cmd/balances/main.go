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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"topdog-arena-nft-go/internal/common"
	"topdog-arena-nft-go/internal/config"
	"topdog-arena-nft-go/internal/store"

	"go.uber.org/zap"
)

func main() {
	sync := flag.Bool("sync", false, "Refresh the snapshot from the ledger before printing")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		_, _ = zap.NewProduction()
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if *sync {
		services, err := common.InitializeServices(ctx, cfg)
		if err != nil {
			zap.L().Fatal("Failed to initialize services", zap.Error(err))
		}
		defer services.Close()

		snapshot, err := services.MintService.Balances().Sync(ctx, services.Ledger.Account())
		if err != nil {
			zap.L().Fatal("Balance sync failed", zap.Error(err))
		}
		printSnapshot(snapshot.Address, snapshot.BalanceDrops.String(),
			snapshot.ReserveDrops.String(), snapshot.AvailableDrops.String(),
			snapshot.OwnerCount, snapshot.LastSyncAt)
		return
	}

	dbService, err := common.InitializeDatabaseOnly(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to open database", zap.Error(err))
	}
	defer dbService.Close()

	snapshot, err := dbService.GetBalance(ctx, cfg.Ledger.WalletAddress)
	if errors.Is(err, store.ErrNotFound) {
		fmt.Println("No cached balance. Run with -sync to fetch one from the ledger.")
		return
	}
	if err != nil {
		zap.L().Fatal("Failed to read balance", zap.Error(err))
	}
	printSnapshot(snapshot.Address, snapshot.BalanceDrops.String(),
		snapshot.ReserveDrops.String(), snapshot.AvailableDrops.String(),
		snapshot.OwnerCount, snapshot.LastSyncAt)
}

func printSnapshot(address, balance, reserve, available string, ownerCount uint32, syncedAt time.Time) {
	common.PrintHeader("WALLET BALANCE", common.DefaultWidth)
	fmt.Printf("Address:     %s\n", address)
	fmt.Printf("Balance:     %s drops\n", balance)
	fmt.Printf("Reserve:     %s drops (%d owned objects)\n", reserve, ownerCount)
	fmt.Printf("Available:   %s drops\n", available)
	fmt.Printf("Synced:      %s\n", syncedAt.Format("2006-01-02 15:04:05"))
	common.PrintFooter("Done", common.DefaultWidth)
}
