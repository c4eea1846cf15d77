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

package store

import (
	"context"
	"errors"
	"time"

	"topdog-arena-nft-go/internal/models"

	"github.com/shopspring/decimal"
)

// Sentinel errors shared across all backend implementations.
var (
	ErrNFTExists = errors.New("nft already recorded")
	ErrNotFound  = errors.New("record not found")
)

// RecordNFTParams contains the parameters for recording a minted token.
type RecordNFTParams struct {
	TokenID      string
	Issuer       string
	Owner        string
	Name         string
	Description  string
	ImageURI     string
	Attributes   string // opaque JSON array
	ExternalURL  string
	AnimationURL string
	TxHash       string
	TransferFee  uint32
	Flags        uint32
	MintedAt     time.Time
}

// AppendLogParams captures one submission attempt for the audit trail.
type AppendLogParams struct {
	TxHash         string
	TxType         string
	Account        string
	FeeDrops       decimal.Decimal
	LedgerIndex    uint64
	Validated      bool
	Successful     bool
	ResultCode     string
	ErrorMessage   string
	IdempotencyKey string
	SubmittedAt    time.Time
	ValidatedAt    *time.Time
}

// UpsertBalanceParams contains a fresh balance snapshot for an account.
type UpsertBalanceParams struct {
	Address        string
	BalanceDrops   decimal.Decimal
	ReserveDrops   decimal.Decimal
	AvailableDrops decimal.Decimal
	OwnerCount     uint32
}

// NFTStore defines the contract the durable backend must satisfy. The store
// is a best-effort index over the ledger, but within this process it provides
// read-after-write consistency.
type NFTStore interface {
	// --- NFT records ---
	RecordNFT(ctx context.Context, params RecordNFTParams) (*models.NFTRecord, error)
	GetNFT(ctx context.Context, tokenID string) (*models.NFTRecord, error)
	GetNFTsByOwner(ctx context.Context, owner string, limit, offset int) ([]models.NFTRecord, error)
	ListNFTs(ctx context.Context, limit, offset int) ([]models.NFTRecord, error)
	MarkBurned(ctx context.Context, tokenID string) error

	// RecordMint writes the NFT record and its audit log entry as one logical
	// unit: both commit or the NFT write is rolled back. An existing token id
	// skips the NFT insert but still appends the log entry.
	RecordMint(ctx context.Context, nft RecordNFTParams, log AppendLogParams) error

	// --- Transaction log ---
	AppendTransactionLog(ctx context.Context, params AppendLogParams) (*models.TransactionLogEntry, error)
	GetTransactionLog(ctx context.Context, account string, limit, offset int) ([]models.TransactionLogEntry, error)
	GetTransactionByHash(ctx context.Context, txHash string) (*models.TransactionLogEntry, error)

	// --- Balances ---
	UpsertBalance(ctx context.Context, params UpsertBalanceParams) (*models.AccountBalance, error)
	GetBalance(ctx context.Context, address string) (*models.AccountBalance, error)

	// --- Lifecycle ---
	Ping(ctx context.Context) error
	Close()
}
