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
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"topdog-arena-nft-go/internal/common"
	"topdog-arena-nft-go/internal/config"
	"topdog-arena-nft-go/internal/models"
	"topdog-arena-nft-go/internal/xrpl"

	"go.uber.org/zap"
)

func main() {
	name := flag.String("name", "", "Token name (required)")
	description := flag.String("description", "", "Token description")
	image := flag.String("image", "", "Image URI")
	attributes := flag.String("attributes", "", `Attributes as JSON, e.g. [{"trait_type":"Breed","value":"Husky"}]`)
	recipient := flag.String("recipient", "", "Optional destination address")
	transferFee := flag.Uint("transfer-fee", 0, "Royalty in 1/100000 units, 0..50000")
	flag.Parse()

	if *name == "" {
		fmt.Println("Usage: mint -name <name> [-description <text>] [-image <uri>] [-attributes <json>] [-recipient <address>] [-transfer-fee <n>]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		_, _ = zap.NewProduction()
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	req := models.MintRequest{
		Name:        *name,
		Description: *description,
		ImageURI:    *image,
		Recipient:   *recipient,
	}
	if *attributes != "" {
		if err := json.Unmarshal([]byte(*attributes), &req.Attributes); err != nil {
			zap.L().Fatal("Invalid -attributes JSON", zap.Error(err))
		}
	}
	fee, err := transferFeeArg(*transferFee)
	if err != nil {
		zap.L().Fatal("Invalid -transfer-fee", zap.Error(err))
	}
	req.TransferFee = fee

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	result, err := services.MintService.Mint(ctx, req)
	if err != nil {
		zap.L().Fatal("Mint failed", zap.Error(err))
	}

	common.PrintHeader("NFT MINTED", common.DefaultWidth)
	fmt.Printf("Token ID:     %s\n", result.TokenID)
	fmt.Printf("Tx hash:      %s\n", result.TxHash)
	fmt.Printf("Ledger index: %d\n", result.LedgerIndex)
	fmt.Printf("Fee (drops):  %s\n", result.FeeDrops.String())
	common.PrintFooter("Done", common.DefaultWidth)
}

// transferFeeArg validates the flag before narrowing it to the wire type so
// out-of-range values cannot wrap into the accepted range.
func transferFeeArg(v uint) (*uint32, error) {
	if v == 0 {
		return nil, nil
	}
	if v > uint(xrpl.MaxTransferFee) {
		return nil, fmt.Errorf("transfer fee %d exceeds maximum %d", v, xrpl.MaxTransferFee)
	}
	fee := uint32(v)
	return &fee, nil
}
