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

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// NFTRecord is the durable row for a minted token. The ledger remains the
// source of truth; this table is the local index the API serves reads from.
type NFTRecord struct {
	TokenID      string    `db:"token_id"`
	Issuer       string    `db:"issuer"`
	Owner        string    `db:"owner"`
	Name         string    `db:"name"`
	Description  string    `db:"description"`
	ImageURI     string    `db:"image_uri"`
	Attributes   string    `db:"attributes"` // opaque JSON array
	ExternalURL  string    `db:"external_url"`
	AnimationURL string    `db:"animation_url"`
	TxHash       string    `db:"tx_hash"`
	TransferFee  uint32    `db:"transfer_fee"`
	Flags        uint32    `db:"flags"`
	MintedAt     time.Time `db:"minted_at"`
	IsBurned     bool      `db:"is_burned"`
}

// TransactionLogEntry is the append-only audit trail. Every submission
// attempt produces exactly one row, successful or not.
type TransactionLogEntry struct {
	Id             string          `db:"id"`
	TxHash         string          `db:"tx_hash"`
	TxType         string          `db:"tx_type"`
	Account        string          `db:"account"`
	FeeDrops       decimal.Decimal `db:"fee_drops"`
	LedgerIndex    uint64          `db:"ledger_index"`
	Validated      bool            `db:"validated"`
	Successful     bool            `db:"successful"`
	ResultCode     string          `db:"result_code"`
	ErrorMessage   string          `db:"error_message"`
	IdempotencyKey string          `db:"idempotency_key"`
	SubmittedAt    time.Time       `db:"submitted_at"`
	ValidatedAt    *time.Time      `db:"validated_at"`
}

// AccountBalance is the cached balance snapshot for an account. It may be
// stale between syncs; LastSyncAt tells the reader how stale.
type AccountBalance struct {
	Address        string          `db:"address"`
	BalanceDrops   decimal.Decimal `db:"balance_drops"`
	ReserveDrops   decimal.Decimal `db:"reserve_drops"`
	AvailableDrops decimal.Decimal `db:"available_drops"`
	OwnerCount     uint32          `db:"owner_count"`
	LastSyncAt     time.Time       `db:"last_sync_at"`
}
