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
	"topdog-arena-nft-go/internal/xrpl"

	"go.uber.org/zap"
)

// setup verifies the environment end to end: schema creation, node
// connectivity and wallet funding. Run it once before starting the server.
func main() {
	fund := flag.Bool("fund", false, "Request faucet funding when the wallet is unfunded (test networks only)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		_, _ = zap.NewProduction()
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Setup failed", zap.Error(err))
	}
	defer services.Close()

	common.PrintHeader("TOP DOG ARENA NFT SETUP", common.DefaultWidth)
	fmt.Printf("Network:   %s\n", services.Ledger.Network())
	fmt.Printf("Wallet:    %s\n", services.Ledger.Account())
	fmt.Printf("Database:  %s (schema ready)\n", cfg.Database.Path)
	fmt.Printf("Connected: %t\n", services.Ledger.IsConnected())

	info, err := services.Ledger.QueryAccount(ctx, services.Ledger.Account())
	switch {
	case errors.Is(err, xrpl.ErrAccountNotFound):
		fmt.Println("Funding:   account not found on ledger (unfunded)")
		if *fund {
			if services.Faucet == nil {
				zap.L().Fatal("No faucet available for this network")
			}
			result, err := services.Faucet.Fund(ctx, services.Ledger.Account())
			if err != nil {
				zap.L().Fatal("Faucet funding failed", zap.Error(err))
			}
			fmt.Printf("Faucet:    funded %s with %.0f XRP\n", result.Address, result.AmountXRP)
		} else {
			fmt.Println("           run with -fund to request test funds")
		}
	case err != nil:
		zap.L().Fatal("Account query failed", zap.Error(err))
	default:
		fmt.Printf("Balance:   %s drops (sequence %d)\n", info.BalanceDrops.String(), info.Sequence)
	}

	common.PrintFooter("Setup complete", common.DefaultWidth)
}
