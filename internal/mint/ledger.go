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

	"topdog-arena-nft-go/internal/models"
	"topdog-arena-nft-go/internal/xrpl"
)

// Ledger is the slice of the node client the mint service consumes. Narrow on
// purpose so tests can substitute a fake.
type Ledger interface {
	IsConnected() bool
	Account() string
	Network() string
	Submit(ctx context.Context, tx *xrpl.NFTokenMintTx) (*models.SubmissionResult, error)
	QueryAccount(ctx context.Context, address string) (*models.AccountInfo, error)
	ServerReserves(ctx context.Context) (*models.ReserveParams, error)
	AccountNFTs(ctx context.Context, address string) ([]models.LedgerNFT, error)
	NFTInfo(ctx context.Context, tokenID string) (*models.LedgerNFTDetail, error)
}

// Compile-time check: the websocket client must satisfy Ledger.
var _ Ledger = (*xrpl.Client)(nil)
