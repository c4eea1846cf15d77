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
	"time"

	"topdog-arena-nft-go/internal/models"
	"topdog-arena-nft-go/internal/store"

	"github.com/shopspring/decimal"
)

// UpsertBalance replaces the cached snapshot for an account.
func (s *Service) UpsertBalance(ctx context.Context, params store.UpsertBalanceParams) (*models.AccountBalance, error) {
	now := time.Now()
	if _, err := s.db.ExecContext(ctx, queryUpsertBalance,
		params.Address, params.BalanceDrops.String(), params.ReserveDrops.String(),
		params.AvailableDrops.String(), params.OwnerCount, now,
	); err != nil {
		return nil, fmt.Errorf("failed to upsert balance: %w", err)
	}
	return s.GetBalance(ctx, params.Address)
}

// GetBalance returns the cached snapshot; store.ErrNotFound when the account
// has never been synced.
func (s *Service) GetBalance(ctx context.Context, address string) (*models.AccountBalance, error) {
	var balance models.AccountBalance
	var balanceStr, reserveStr, availableStr string
	err := s.db.QueryRowContext(ctx, queryGetBalance, address).Scan(
		&balance.Address, &balanceStr, &reserveStr, &availableStr,
		&balance.OwnerCount, &balance.LastSyncAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: balance for %s", store.ErrNotFound, address)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}

	if balance.BalanceDrops, err = decimal.NewFromString(balanceStr); err != nil {
		return nil, fmt.Errorf("failed to parse balance %q: %w", balanceStr, err)
	}
	if balance.ReserveDrops, err = decimal.NewFromString(reserveStr); err != nil {
		return nil, fmt.Errorf("failed to parse reserve %q: %w", reserveStr, err)
	}
	if balance.AvailableDrops, err = decimal.NewFromString(availableStr); err != nil {
		return nil, fmt.Errorf("failed to parse available %q: %w", availableStr, err)
	}
	return &balance, nil
}
