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

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// dbExecutor lets the insert run against either the pool or an open
// transaction.
type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func insertLogEntry(ctx context.Context, exec dbExecutor, params store.AppendLogParams) error {
	// A transaction hash may appear many times (one row per attempt) but at
	// most once with successful=true.
	if params.Successful && params.TxHash != "" {
		var existing string
		err := exec.QueryRowContext(ctx, queryCheckSuccessfulHash, params.TxHash).Scan(&existing)
		if err == nil {
			zap.L().Warn("Successful log entry already exists for hash, recording follow-up as unsuccessful duplicate",
				zap.String("tx_hash", params.TxHash))
			params.Successful = false
			params.ResultCode = "duplicate"
		} else if err != sql.ErrNoRows {
			return fmt.Errorf("failed to check for successful duplicate: %w", err)
		}
	}

	if _, err := exec.ExecContext(ctx, queryInsertLogEntry,
		uuid.New().String(), params.TxHash, params.TxType, params.Account,
		params.FeeDrops.String(), params.LedgerIndex, params.Validated,
		params.Successful, params.ResultCode, params.ErrorMessage,
		params.IdempotencyKey, params.SubmittedAt, params.ValidatedAt,
	); err != nil {
		return fmt.Errorf("failed to append transaction log entry: %w", err)
	}
	return nil
}

// AppendTransactionLog records one submission attempt. Never deleted, never
// silently dropped.
func (s *Service) AppendTransactionLog(ctx context.Context, params store.AppendLogParams) (*models.TransactionLogEntry, error) {
	if err := insertLogEntry(ctx, s.db, params); err != nil {
		return nil, err
	}
	if params.TxHash != "" {
		return s.GetTransactionByHash(ctx, params.TxHash)
	}
	return nil, nil
}

func (s *Service) GetTransactionLog(ctx context.Context, account string, limit, offset int) ([]models.TransactionLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, queryGetLogByAccount, account, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction log: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var entries []models.TransactionLogEntry
	for rows.Next() {
		entry, err := scanLogEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan log row: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating log rows: %w", err)
	}
	return entries, nil
}

func (s *Service) GetTransactionByHash(ctx context.Context, txHash string) (*models.TransactionLogEntry, error) {
	entry, err := scanLogEntry(s.db.QueryRowContext(ctx, queryGetLogByHash, txHash))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: transaction %s", store.ErrNotFound, txHash)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction by hash: %w", err)
	}
	return entry, nil
}

func scanLogEntry(row rowScanner) (*models.TransactionLogEntry, error) {
	var entry models.TransactionLogEntry
	var feeStr string
	err := row.Scan(&entry.Id, &entry.TxHash, &entry.TxType, &entry.Account,
		&feeStr, &entry.LedgerIndex, &entry.Validated, &entry.Successful,
		&entry.ResultCode, &entry.ErrorMessage, &entry.IdempotencyKey,
		&entry.SubmittedAt, &entry.ValidatedAt)
	if err != nil {
		return nil, err
	}
	entry.FeeDrops, err = decimal.NewFromString(feeStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fee %q: %w", feeStr, err)
	}
	return &entry, nil
}
