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

import "time"

// APIResponse is the envelope every HTTP response carries.
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Message   string      `json:"message"`
	Timestamp time.Time   `json:"timestamp"`
}

// Stable error code strings. Clients branch on these; in particular
// finality_timeout must never be collapsed into ledger_rejected, because a
// timed-out transaction may still land and resubmitting would double-mint.
const (
	ErrCodeValidation        = "validation_error"
	ErrCodeNotConnected      = "not_connected"
	ErrCodeConnection        = "connection_error"
	ErrCodeLedgerRejected    = "ledger_rejected"
	ErrCodeFinalityTimeout   = "finality_timeout"
	ErrCodeExtractionFailure = "extraction_failure"
	ErrCodeNotFound          = "not_found"
	ErrCodeInternal          = "internal_error"
)

// CreateNFTRequest is the POST /nft/create body.
type CreateNFTRequest struct {
	Name         string         `json:"name" binding:"required"`
	Description  string         `json:"description" binding:"required"`
	ImageURI     string         `json:"image" binding:"required"`
	Attributes   []NFTAttribute `json:"attributes,omitempty"`
	ExternalURL  string         `json:"external_url,omitempty"`
	AnimationURL string         `json:"animation_url,omitempty"`
	TransferFee  *uint32        `json:"transferFee,omitempty"`
	Recipient    string         `json:"recipient,omitempty"`
	Flags        *uint32        `json:"flags,omitempty"`
}

// ToMintRequest converts the HTTP body to the internal mint request.
func (r CreateNFTRequest) ToMintRequest() MintRequest {
	return MintRequest{
		Name:         r.Name,
		Description:  r.Description,
		ImageURI:     r.ImageURI,
		Attributes:   r.Attributes,
		ExternalURL:  r.ExternalURL,
		AnimationURL: r.AnimationURL,
		TransferFee:  r.TransferFee,
		Recipient:    r.Recipient,
		Flags:        r.Flags,
	}
}

// CreateNFTResponse is the success payload of POST /nft/create.
type CreateNFTResponse struct {
	NFTId  string `json:"nftId"`
	TxHash string `json:"txHash"`
	Fee    string `json:"fee"`
}

// WalletInfoResponse is the payload of GET /wallet/info.
type WalletInfoResponse struct {
	Address   string `json:"address"`
	Network   string `json:"network"`
	Connected bool   `json:"connected"`
	Balance   string `json:"balance"`   // drops, "not synced" when unavailable
	Available string `json:"available"` // drops minus reserve
	SyncedAt  string `json:"syncedAt,omitempty"`
}
