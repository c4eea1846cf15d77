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

package xrpl

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"topdog-arena-nft-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// WaitConfig bounds the finality wait. The network validates in periodic
// batches (every few seconds); 60s covers several batch intervals with
// margin.
type WaitConfig struct {
	Timeout         time.Duration
	PollInterval    time.Duration
	MaxQueryRetries int
}

func (w *WaitConfig) applyDefaults() {
	if w.Timeout <= 0 {
		w.Timeout = 60 * time.Second
	}
	if w.PollInterval <= 0 {
		w.PollInterval = 2 * time.Second
	}
	if w.MaxQueryRetries <= 0 {
		w.MaxQueryRetries = 3
	}
}

// WaitForValidation polls the node until the transaction hash appears in a
// validated ledger, a definitive result code is observed, or the deadline
// elapses.
//
// TimedOut is NOT a failure: the transaction may still validate after we stop
// watching. The caller must never resubmit on timeout; it reconciles later by
// hash. Transport failures during polling retry the query (never the
// submission) with backoff, up to a small budget.
func (c *Client) WaitForValidation(ctx context.Context, txHash string) *models.SubmissionResult {
	deadline := time.Now().Add(c.waitCfg.Timeout)
	queryFailures := 0

	for {
		if time.Now().After(deadline) {
			zap.L().Warn("Finality wait deadline elapsed",
				zap.String("tx_hash", txHash),
				zap.Duration("timeout", c.waitCfg.Timeout))
			return &models.SubmissionResult{
				Outcome: models.OutcomeTimedOut,
				TxHash:  txHash,
			}
		}

		result, definitive, err := c.pollOnce(ctx, txHash)
		switch {
		case err != nil:
			queryFailures++
			if queryFailures > c.waitCfg.MaxQueryRetries {
				return &models.SubmissionResult{
					Outcome: models.OutcomeConnectionError,
					TxHash:  txHash,
					Err:     err,
				}
			}
			zap.L().Warn("Transaction status query failed, backing off",
				zap.String("tx_hash", txHash),
				zap.Int("attempt", queryFailures),
				zap.Error(err))
			// Exponential backoff on transport trouble.
			if !sleepCtx(ctx, c.waitCfg.PollInterval*time.Duration(1<<queryFailures)) {
				return &models.SubmissionResult{
					Outcome: models.OutcomeConnectionError,
					TxHash:  txHash,
					Err:     ctx.Err(),
				}
			}
		case definitive:
			return result
		default:
			queryFailures = 0
			if !sleepCtx(ctx, c.waitCfg.PollInterval) {
				// Caller cancelled the wait, not the submission; the
				// transaction may still land. Hand back the hash so it can be
				// reconciled later.
				return &models.SubmissionResult{
					Outcome: models.OutcomeTimedOut,
					TxHash:  txHash,
				}
			}
		}
	}
}

// pollOnce asks the node for the transaction's current state. Returns
// definitive=true once the transaction is in a validated ledger.
func (c *Client) pollOnce(ctx context.Context, txHash string) (*models.SubmissionResult, bool, error) {
	raw, err := c.call(ctx, "tx", map[string]interface{}{
		"transaction": txHash,
	})
	if err != nil {
		if apiErr, ok := asAPIError(err); ok && apiErr.Code == "txnNotFound" {
			// Not yet in any ledger the node knows about; keep waiting.
			return nil, false, nil
		}
		return nil, false, err
	}

	var out struct {
		Validated   bool           `json:"validated"`
		LedgerIndex uint64         `json:"ledger_index"`
		Fee         string         `json:"Fee"`
		Meta        *models.TxMeta `json:"meta"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false, err
	}
	if !out.Validated {
		return nil, false, nil
	}

	resultCode := ""
	if out.Meta != nil {
		resultCode = out.Meta.TransactionResult
	}

	fee := decimal.Zero
	if out.Fee != "" {
		if parsed, err := decimal.NewFromString(out.Fee); err == nil {
			fee = parsed
		}
	}

	result := &models.SubmissionResult{
		TxHash:      txHash,
		ResultCode:  resultCode,
		LedgerIndex: out.LedgerIndex,
		FeeDrops:    fee,
		Meta:        out.Meta,
	}

	if strings.HasPrefix(resultCode, "tes") {
		result.Outcome = models.OutcomeValidated
		zap.L().Info("Transaction validated",
			zap.String("tx_hash", txHash),
			zap.Uint64("ledger_index", out.LedgerIndex),
			zap.String("result_code", resultCode))
	} else {
		// Included in a validated ledger with a non-success code. Final; do
		// not retry.
		result.Outcome = models.OutcomeRejected
		zap.L().Warn("Transaction rejected by ledger",
			zap.String("tx_hash", txHash),
			zap.String("result_code", resultCode))
	}
	return result, true, nil
}

// sleepCtx waits d unless the context ends first. Yields the goroutine, never
// blocks a thread.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
