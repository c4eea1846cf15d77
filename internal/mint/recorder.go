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
	"fmt"
	"time"

	"topdog-arena-nft-go/internal/audit"
	"topdog-arena-nft-go/internal/models"
	"topdog-arena-nft-go/internal/store"
	"topdog-arena-nft-go/internal/xrpl"

	"go.uber.org/zap"
)

const txTypeMint = "NFTokenMint"

// MintRecord bundles everything the recorder needs to describe one
// submission attempt after the fact.
type MintRecord struct {
	Request        models.MintRequest
	Tx             *xrpl.NFTokenMintTx
	Result         *models.SubmissionResult
	TokenID        string
	Network        string
	IdempotencyKey string
	SubmittedAt    time.Time
}

// Recorder persists submission outcomes: the token record and audit log for
// validated mints, log-only entries for everything else. The ledger remains
// the source of truth; the recorder maintains the local index and the
// append-only trail.
type Recorder struct {
	db     store.NFTStore
	mirror *audit.Service
}

func NewRecorder(db store.NFTStore, mirror *audit.Service) *Recorder {
	return &Recorder{db: db, mirror: mirror}
}

// RecordValidated writes the NFT record and its log entry as one unit, then
// mirrors the burned fee. A mirror failure never fails the recording.
func (r *Recorder) RecordValidated(ctx context.Context, rec MintRecord) error {
	owner := rec.Tx.Account
	if rec.Request.Recipient != "" {
		owner = rec.Request.Recipient
	}

	attrs := "[]"
	if len(rec.Request.Attributes) > 0 {
		raw, err := json.Marshal(rec.Request.Attributes)
		if err != nil {
			return fmt.Errorf("unable to serialize attributes: %w", err)
		}
		attrs = string(raw)
	}

	validatedAt := time.Now()
	err := r.db.RecordMint(ctx,
		store.RecordNFTParams{
			TokenID:      rec.TokenID,
			Issuer:       rec.Tx.Account,
			Owner:        owner,
			Name:         rec.Request.Name,
			Description:  rec.Request.Description,
			ImageURI:     rec.Request.ImageURI,
			Attributes:   attrs,
			ExternalURL:  rec.Request.ExternalURL,
			AnimationURL: rec.Request.AnimationURL,
			TxHash:       rec.Result.TxHash,
			TransferFee:  rec.Tx.TransferFee,
			Flags:        rec.Tx.Flags,
			MintedAt:     validatedAt,
		},
		store.AppendLogParams{
			TxHash:         rec.Result.TxHash,
			TxType:         txTypeMint,
			Account:        rec.Tx.Account,
			FeeDrops:       rec.Result.FeeDrops,
			LedgerIndex:    rec.Result.LedgerIndex,
			Validated:      true,
			Successful:     true,
			ResultCode:     rec.Result.ResultCode,
			IdempotencyKey: rec.IdempotencyKey,
			SubmittedAt:    rec.SubmittedAt,
			ValidatedAt:    &validatedAt,
		})
	if err != nil {
		return err
	}

	if err := r.mirror.RecordMintFee(ctx, rec.Tx.Account, rec.Network,
		rec.Result.TxHash, rec.TokenID, rec.Result.FeeDrops); err != nil {
		zap.L().Warn("Failed to mirror mint fee",
			zap.String("tx_hash", rec.Result.TxHash),
			zap.Error(err))
	}
	return nil
}

// RecordFailure appends a log-only entry for a submission that did not yield
// a recorded token. A rejection that reached a validated ledger (tec class)
// keeps validated=true; everything else stays false.
func (r *Recorder) RecordFailure(ctx context.Context, rec MintRecord) error {
	resultCode := rec.Result.ResultCode
	if resultCode == "" {
		resultCode = rec.Result.Outcome.String()
	}

	message := ""
	switch rec.Result.Outcome {
	case models.OutcomeTimedOut:
		message = "no validation observed before the deadline; the transaction may still validate"
	case models.OutcomeConnectionError:
		if rec.Result.Err != nil {
			message = rec.Result.Err.Error()
		} else {
			message = "connection lost during submission"
		}
	case models.OutcomeRejected:
		message = "ledger rejected the transaction"
	}

	_, err := r.db.AppendTransactionLog(ctx, store.AppendLogParams{
		TxHash:         rec.Result.TxHash,
		TxType:         txTypeMint,
		Account:        rec.Tx.Account,
		FeeDrops:       rec.Result.FeeDrops,
		LedgerIndex:    rec.Result.LedgerIndex,
		Validated:      rec.Result.LedgerIndex > 0,
		Successful:     false,
		ResultCode:     resultCode,
		ErrorMessage:   message,
		IdempotencyKey: rec.IdempotencyKey,
		SubmittedAt:    rec.SubmittedAt,
	})
	return err
}

// RecordExtractionAnomaly logs a mint that validated on the ledger but whose
// token id could not be recovered from the metadata. The transaction
// succeeded; only the local index is incomplete.
func (r *Recorder) RecordExtractionAnomaly(ctx context.Context, rec MintRecord, extractErr error) error {
	validatedAt := time.Now()
	_, err := r.db.AppendTransactionLog(ctx, store.AppendLogParams{
		TxHash:         rec.Result.TxHash,
		TxType:         txTypeMint,
		Account:        rec.Tx.Account,
		FeeDrops:       rec.Result.FeeDrops,
		LedgerIndex:    rec.Result.LedgerIndex,
		Validated:      true,
		Successful:     true,
		ResultCode:     rec.Result.ResultCode,
		ErrorMessage:   extractErr.Error(),
		IdempotencyKey: rec.IdempotencyKey,
		SubmittedAt:    rec.SubmittedAt,
		ValidatedAt:    &validatedAt,
	})
	return err
}
