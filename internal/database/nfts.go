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

	"go.uber.org/zap"
)

// RecordNFT inserts a minted token row. An existing token id answers
// store.ErrNFTExists so retried reconciliation passes never duplicate.
func (s *Service) RecordNFT(ctx context.Context, params store.RecordNFTParams) (*models.NFTRecord, error) {
	var existing string
	err := s.db.QueryRowContext(ctx, queryCheckNFTExists, params.TokenID).Scan(&existing)
	if err == nil {
		zap.L().Warn("Token already recorded, skipping insert",
			zap.String("token_id", params.TokenID))
		return nil, fmt.Errorf("%w: %s", store.ErrNFTExists, params.TokenID)
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to check for existing token: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, queryInsertNFT,
		params.TokenID, params.Issuer, params.Owner, params.Name, params.Description,
		params.ImageURI, params.Attributes, params.ExternalURL, params.AnimationURL,
		params.TxHash, params.TransferFee, params.Flags, params.MintedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to insert nft record: %w", err)
	}

	return s.GetNFT(ctx, params.TokenID)
}

// RecordMint writes the NFT record and its audit log entry in one database
// transaction. An already-recorded token id skips the NFT insert but the
// attempt is still logged, so the audit trail stays one-row-per-attempt.
func (s *Service) RecordMint(ctx context.Context, nft store.RecordNFTParams, logEntry store.AppendLogParams) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRowContext(ctx, queryCheckNFTExists, nft.TokenID).Scan(&existing)
	switch {
	case err == sql.ErrNoRows:
		if _, err := tx.ExecContext(ctx, queryInsertNFT,
			nft.TokenID, nft.Issuer, nft.Owner, nft.Name, nft.Description,
			nft.ImageURI, nft.Attributes, nft.ExternalURL, nft.AnimationURL,
			nft.TxHash, nft.TransferFee, nft.Flags, nft.MintedAt,
		); err != nil {
			return fmt.Errorf("failed to insert nft record: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to check for existing token: %w", err)
	default:
		zap.L().Warn("Token already recorded, appending log entry only",
			zap.String("token_id", nft.TokenID),
			zap.String("tx_hash", logEntry.TxHash))
	}

	if err := insertLogEntry(ctx, tx, logEntry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit mint record: %w", err)
	}

	zap.L().Info("Mint recorded",
		zap.String("token_id", nft.TokenID),
		zap.String("tx_hash", nft.TxHash),
		zap.String("owner", nft.Owner))
	return nil
}

func (s *Service) GetNFT(ctx context.Context, tokenID string) (*models.NFTRecord, error) {
	record, err := scanNFT(s.db.QueryRowContext(ctx, queryGetNFT, tokenID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: token %s", store.ErrNotFound, tokenID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get nft: %w", err)
	}
	return record, nil
}

func (s *Service) GetNFTsByOwner(ctx context.Context, owner string, limit, offset int) ([]models.NFTRecord, error) {
	return s.queryNFTs(ctx, queryGetNFTsByOwner, owner, limit, offset)
}

func (s *Service) ListNFTs(ctx context.Context, limit, offset int) ([]models.NFTRecord, error) {
	return s.queryNFTs(ctx, queryListNFTs, limit, offset)
}

func (s *Service) queryNFTs(ctx context.Context, query string, args ...interface{}) ([]models.NFTRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query nfts: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var records []models.NFTRecord
	for rows.Next() {
		record, err := scanNFT(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan nft row: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating nft rows: %w", err)
	}
	return records, nil
}

// MarkBurned flips the burned flag for a token the ledger no longer
// attributes to any tracked account.
func (s *Service) MarkBurned(ctx context.Context, tokenID string) error {
	result, err := s.db.ExecContext(ctx, queryMarkBurned, tokenID)
	if err != nil {
		return fmt.Errorf("failed to mark token burned: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: token %s", store.ErrNotFound, tokenID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanNFT(row rowScanner) (*models.NFTRecord, error) {
	var record models.NFTRecord
	err := row.Scan(&record.TokenID, &record.Issuer, &record.Owner, &record.Name,
		&record.Description, &record.ImageURI, &record.Attributes,
		&record.ExternalURL, &record.AnimationURL, &record.TxHash,
		&record.TransferFee, &record.Flags, &record.MintedAt, &record.IsBurned)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
