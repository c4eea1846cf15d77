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

package audit

import (
	"context"
	"errors"
	"fmt"

	"topdog-arena-nft-go/internal/models"

	v3 "github.com/formancehq/formance-sdk-go/v3"
	"github.com/formancehq/formance-sdk-go/v3/pkg/models/operations"
	"github.com/formancehq/formance-sdk-go/v3/pkg/models/sdkerrors"
	"github.com/formancehq/formance-sdk-go/v3/pkg/models/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// xrpAsset is the Formance UMN notation for XRP amounts expressed in drops.
const xrpAsset = "XRP/6"

const numscriptMintFee = `vars {
  asset $asset
  number $amount
  account $account
  string $tx_hash
  string $token_id
  string $network
}

send [$asset $amount] (
  source = @arena:wallet:$account allowing unbounded overdraft
  destination = @fees:burned
)

set_tx_meta("event_type", "nft_mint_fee")
set_tx_meta("tx_hash", $tx_hash)
set_tx_meta("token_id", $token_id)
set_tx_meta("network", $network)
`

// Service mirrors validated mint fees into a Formance Stack ledger. The
// mirror is an optional second audit trail; when not configured every call
// is a no-op.
type Service struct {
	client *v3.Formance
	ledger string
}

// NewService connects to the stack and creates the ledger if it does not
// already exist. Returns a no-op service when the stack is not configured.
func NewService(ctx context.Context, cfg models.FormanceConfig) (*Service, error) {
	if !cfg.Enabled() {
		zap.L().Info("Formance mirror not configured, audit mirroring disabled")
		return &Service{}, nil
	}
	if cfg.LedgerName == "" {
		cfg.LedgerName = "topdog-arena-nft"
	}

	zap.L().Info("Connecting to Formance Stack",
		zap.String("stack_url", cfg.StackURL),
		zap.String("ledger", cfg.LedgerName))

	client := v3.New(
		v3.WithServerURL(cfg.StackURL),
		v3.WithSecurity(shared.Security{
			ClientID:     v3.Pointer(cfg.ClientID),
			ClientSecret: v3.Pointer(cfg.ClientSecret),
		}),
	)

	svc := &Service{client: client, ledger: cfg.LedgerName}
	if err := svc.ensureLedger(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure ledger exists: %w", err)
	}

	zap.L().Info("Formance mirror initialized", zap.String("ledger", cfg.LedgerName))
	return svc, nil
}

// Enabled reports whether the mirror is configured and active.
func (s *Service) Enabled() bool { return s.client != nil }

func (s *Service) ensureLedger(ctx context.Context) error {
	_, err := s.client.Ledger.V2.CreateLedger(ctx, operations.V2CreateLedgerRequest{
		Ledger: s.ledger,
		V2CreateLedgerRequest: shared.V2CreateLedgerRequest{
			Metadata: map[string]string{
				"application": "topdog-arena-nft",
			},
		},
	})
	if err != nil {
		var apiErr *sdkerrors.V2ErrorResponse
		if errors.As(err, &apiErr) && apiErr.ErrorCode == shared.V2ErrorsEnumLedgerAlreadyExists {
			zap.L().Info("Ledger already exists", zap.String("ledger", s.ledger))
			return nil
		}
		return err
	}
	zap.L().Info("Ledger created", zap.String("ledger", s.ledger))
	return nil
}

// RecordMintFee mirrors the network fee a validated mint burned. The tx hash
// doubles as the idempotent reference, so replaying the same mint is a no-op.
func (s *Service) RecordMintFee(ctx context.Context, account, network, txHash, tokenID string, feeDrops decimal.Decimal) error {
	if !s.Enabled() {
		return nil
	}

	_, err := s.client.Ledger.V2.CreateTransaction(ctx, operations.V2CreateTransactionRequest{
		Ledger: s.ledger,
		V2PostTransaction: shared.V2PostTransaction{
			Reference: strPtr(txHash),
			Script: &shared.V2PostTransactionScript{
				Plain: numscriptMintFee,
				Vars: map[string]string{
					"asset":    xrpAsset,
					"amount":   feeDrops.BigInt().String(),
					"account":  account,
					"tx_hash":  txHash,
					"token_id": tokenID,
					"network":  network,
				},
			},
		},
	})
	if err != nil {
		if isConflictError(err) {
			return nil // idempotent
		}
		return fmt.Errorf("error mirroring mint fee: %w", err)
	}

	zap.L().Info("Mint fee mirrored in Formance",
		zap.String("tx_hash", txHash),
		zap.String("fee_drops", feeDrops.String()))
	return nil
}

// isConflictError checks whether a Formance SDK error is a CONFLICT
// (duplicate reference).
func isConflictError(err error) bool {
	var apiErr *sdkerrors.V2ErrorResponse
	return errors.As(err, &apiErr) && apiErr.ErrorCode == shared.V2ErrorsEnumConflict
}

func strPtr(s string) *string { return &s }
