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
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"topdog-arena-nft-go/internal/audit"
	"topdog-arena-nft-go/internal/models"
	"topdog-arena-nft-go/internal/store"
	"topdog-arena-nft-go/internal/xrpl"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// reconcilePageSize bounds how many stored tokens one reconciliation pass
// compares against the ledger.
const reconcilePageSize = 500

// Service drives the mint lifecycle: build, submit, wait, extract, record.
// The ledger is the source of truth throughout; the local store is an index
// that must never fail a mint that the ledger accepted.
type Service struct {
	ledger   Ledger
	db       store.NFTStore
	recorder *Recorder
	balances *BalanceSyncer
}

func NewService(ledger Ledger, db store.NFTStore, mirror *audit.Service) *Service {
	return &Service{
		ledger:   ledger,
		db:       db,
		recorder: NewRecorder(db, mirror),
		balances: NewBalanceSyncer(ledger, db),
	}
}

// Balances exposes the balance syncer for the HTTP surface and the periodic
// background sync.
func (s *Service) Balances() *BalanceSyncer { return s.balances }

// Mint runs one complete mint. Validation failures return before any ledger
// traffic. After a validated submission, persistence problems are logged but
// never turn a ledger success into a caller-visible failure.
func (s *Service) Mint(ctx context.Context, req models.MintRequest) (*models.MintResult, error) {
	if !s.ledger.IsConnected() {
		return nil, xrpl.ErrNotConnected
	}

	tx, err := xrpl.BuildMintTransaction(req, s.ledger.Account())
	if err != nil {
		return nil, err
	}

	rec := MintRecord{
		Request:        req,
		Tx:             tx,
		Network:        s.ledger.Network(),
		IdempotencyKey: uuid.New().String(),
		SubmittedAt:    time.Now(),
	}

	result, err := s.ledger.Submit(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("submission failed: %w", err)
	}
	rec.Result = result

	switch result.Outcome {
	case models.OutcomeValidated:
		return s.finishValidated(ctx, rec)

	case models.OutcomeRejected:
		if err := s.recorder.RecordFailure(ctx, rec); err != nil {
			zap.L().Warn("Failed to log rejected submission", zap.Error(err))
		}
		return nil, fmt.Errorf("%w: %s", xrpl.ErrLedgerRejected, result.ResultCode)

	case models.OutcomeTimedOut:
		if err := s.recorder.RecordFailure(ctx, rec); err != nil {
			zap.L().Warn("Failed to log timed out submission", zap.Error(err))
		}
		// Not a rejection: the transaction may still validate later.
		return nil, fmt.Errorf("%w: transaction %s not validated before deadline",
			xrpl.ErrFinalityTimeout, result.TxHash)

	default:
		if err := s.recorder.RecordFailure(ctx, rec); err != nil {
			zap.L().Warn("Failed to log connection failure", zap.Error(err))
		}
		if result.Err != nil {
			return nil, result.Err
		}
		return nil, xrpl.ErrConnection
	}
}

func (s *Service) finishValidated(ctx context.Context, rec MintRecord) (*models.MintResult, error) {
	tokenID, err := xrpl.ExtractTokenID(rec.Result.Meta)
	if err != nil {
		// The mint validated on the ledger but the token cannot be identified.
		// Surface the anomaly; never pretend the mint failed.
		zap.L().Error("Validated mint with unrecoverable token id",
			zap.String("tx_hash", rec.Result.TxHash),
			zap.Error(err))
		if logErr := s.recorder.RecordExtractionAnomaly(ctx, rec, err); logErr != nil {
			zap.L().Warn("Failed to log extraction anomaly", zap.Error(logErr))
		}
		return nil, err
	}
	rec.TokenID = tokenID

	if err := s.recorder.RecordValidated(ctx, rec); err != nil {
		zap.L().Warn("Mint validated but local recording failed",
			zap.String("token_id", tokenID),
			zap.String("tx_hash", rec.Result.TxHash),
			zap.Error(err))
	}

	if _, err := s.balances.Sync(ctx, rec.Tx.Account); err != nil {
		zap.L().Warn("Post-mint balance sync failed", zap.Error(err))
	}

	zap.L().Info("NFT minted",
		zap.String("token_id", tokenID),
		zap.String("tx_hash", rec.Result.TxHash),
		zap.Uint64("ledger_index", rec.Result.LedgerIndex))

	return &models.MintResult{
		TokenID:        tokenID,
		TxHash:         rec.Result.TxHash,
		FeeDrops:       rec.Result.FeeDrops,
		LedgerIndex:    rec.Result.LedgerIndex,
		IdempotencyKey: rec.IdempotencyKey,
	}, nil
}

// GetNFT looks a token up in the local index, falling back to the ledger
// for tokens minted outside this service.
func (s *Service) GetNFT(ctx context.Context, tokenID string) (*models.NFTRecord, error) {
	if !xrpl.IsValidTokenID(tokenID) {
		return nil, fmt.Errorf("%w: malformed token id", xrpl.ErrValidation)
	}
	id := xrpl.NormalizeTokenID(tokenID)

	record, err := s.db.GetNFT(ctx, id)
	if err == nil || !errors.Is(err, store.ErrNotFound) {
		return record, err
	}
	if !s.ledger.IsConnected() {
		// Without a ledger connection the index answer stands.
		return nil, err
	}
	return s.lookupOnLedger(ctx, id)
}

// lookupOnLedger fetches a token the index has never seen and rehydrates the
// metadata from its URI. The record is served, not stored: only mints this
// service performed belong in the index.
func (s *Service) lookupOnLedger(ctx context.Context, tokenID string) (*models.NFTRecord, error) {
	detail, err := s.ledger.NFTInfo(ctx, tokenID)
	if err != nil {
		return nil, err
	}

	record := &models.NFTRecord{
		TokenID:     tokenID,
		Issuer:      detail.Issuer,
		Owner:       detail.Owner,
		TransferFee: detail.TransferFee,
		Flags:       detail.Flags,
		IsBurned:    detail.IsBurned,
	}
	if detail.URI == "" {
		return record, nil
	}

	meta, err := xrpl.DecodeTokenURI(detail.URI)
	if err != nil {
		// Foreign tokens may carry URIs in any format; serve what the
		// ledger knows and leave the metadata fields empty.
		zap.L().Warn("Token URI is not hex-encoded metadata",
			zap.String("token_id", tokenID),
			zap.Error(err))
		return record, nil
	}
	record.Name = meta.Name
	record.Description = meta.Description
	record.ImageURI = meta.ImageURI
	record.ExternalURL = meta.ExternalURL
	record.AnimationURL = meta.AnimationURL
	if len(meta.Attributes) > 0 {
		if raw, err := json.Marshal(meta.Attributes); err == nil {
			record.Attributes = string(raw)
		}
	}
	return record, nil
}

// ListNFTs pages through the local index.
func (s *Service) ListNFTs(ctx context.Context, limit, offset int) ([]models.NFTRecord, error) {
	return s.db.ListNFTs(ctx, limit, offset)
}

// NFTsByOwner pages through the unburned tokens the index attributes to an
// address.
func (s *Service) NFTsByOwner(ctx context.Context, owner string, limit, offset int) ([]models.NFTRecord, error) {
	if !xrpl.IsValidAddress(owner) {
		return nil, fmt.Errorf("%w: invalid account address", xrpl.ErrValidation)
	}
	return s.db.GetNFTsByOwner(ctx, owner, limit, offset)
}

// TransactionLog pages through the recorded submission attempts for an
// account.
func (s *Service) TransactionLog(ctx context.Context, account string, limit, offset int) ([]models.TransactionLogEntry, error) {
	if !xrpl.IsValidAddress(account) {
		return nil, fmt.Errorf("%w: invalid account address", xrpl.ErrValidation)
	}
	return s.db.GetTransactionLog(ctx, account, limit, offset)
}

// ReconcileAccount compares the index against the ledger's owned-token
// listing for one address and marks tokens the ledger no longer attributes
// to it as burned. Returns how many records changed.
func (s *Service) ReconcileAccount(ctx context.Context, address string) (int, error) {
	if !xrpl.IsValidAddress(address) {
		return 0, fmt.Errorf("%w: invalid account address", xrpl.ErrValidation)
	}
	if !s.ledger.IsConnected() {
		return 0, xrpl.ErrNotConnected
	}

	onLedger, err := s.ledger.AccountNFTs(ctx, address)
	if err != nil {
		return 0, err
	}
	held := make(map[string]bool, len(onLedger))
	for _, nft := range onLedger {
		held[xrpl.NormalizeTokenID(nft.NFTokenID)] = true
	}

	stored, err := s.db.GetNFTsByOwner(ctx, address, reconcilePageSize, 0)
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, record := range stored {
		if held[record.TokenID] {
			continue
		}
		if err := s.db.MarkBurned(ctx, record.TokenID); err != nil {
			return changed, fmt.Errorf("unable to mark %s burned: %w", record.TokenID, err)
		}
		zap.L().Info("Token no longer held on ledger, marked burned",
			zap.String("token_id", record.TokenID),
			zap.String("owner", address))
		changed++
	}
	return changed, nil
}
