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

package mint

import (
	"context"
	"fmt"

	"topdog-arena-nft-go/internal/models"
	"topdog-arena-nft-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// fallbackReserveDrops covers the case where the reserve query fails: assume
// the historical 20 XRP total reserve rather than reporting an inflated
// spendable balance.
var fallbackReserveDrops = decimal.NewFromInt(20_000_000)

// BalanceSyncer refreshes the cached balance snapshot for an account from the
// latest validated ledger.
type BalanceSyncer struct {
	ledger Ledger
	db     store.NFTStore
}

func NewBalanceSyncer(ledger Ledger, db store.NFTStore) *BalanceSyncer {
	return &BalanceSyncer{ledger: ledger, db: db}
}

// Sync queries the account and the network reserve parameters, computes the
// spendable amount and upserts the snapshot. The spendable amount is the
// balance minus the reserve locked by the base requirement plus one increment
// per owned object, floored at zero.
func (s *BalanceSyncer) Sync(ctx context.Context, address string) (*models.AccountBalance, error) {
	info, err := s.ledger.QueryAccount(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("unable to query account %s: %w", address, err)
	}

	reserve := fallbackReserveDrops
	params, err := s.ledger.ServerReserves(ctx)
	if err != nil {
		zap.L().Warn("Reserve query failed, using fallback reserve",
			zap.String("fallback_drops", fallbackReserveDrops.String()),
			zap.Error(err))
	} else {
		reserve = params.BaseDrops.Add(
			params.IncDrops.Mul(decimal.NewFromInt(int64(info.OwnerCount))))
	}

	available := info.BalanceDrops.Sub(reserve)
	if available.IsNegative() {
		available = decimal.Zero
	}

	snapshot, err := s.db.UpsertBalance(ctx, store.UpsertBalanceParams{
		Address:        address,
		BalanceDrops:   info.BalanceDrops,
		ReserveDrops:   reserve,
		AvailableDrops: available,
		OwnerCount:     info.OwnerCount,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to store balance snapshot: %w", err)
	}

	zap.L().Info("Balance synced",
		zap.String("address", address),
		zap.String("balance_drops", info.BalanceDrops.String()),
		zap.String("available_drops", available.String()))
	return snapshot, nil
}
