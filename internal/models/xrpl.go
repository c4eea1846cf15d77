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
	"github.com/shopspring/decimal"
)

// NFTAttribute is a single trait on the token metadata.
type NFTAttribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// MintRequest carries everything the caller provides for a mint. Flags and
// TransferFee are optional; nil means "apply defaults".
type MintRequest struct {
	Name         string
	Description  string
	ImageURI     string
	Attributes   []NFTAttribute
	ExternalURL  string
	AnimationURL string
	TransferFee  *uint32 // basis points, 0..50000
	Recipient    string  // optional destination address
	Flags        *uint32
}

// SubmissionOutcome tags the result of a submission attempt.
type SubmissionOutcome int

const (
	// OutcomeValidated: included in a validated ledger with a success code.
	OutcomeValidated SubmissionOutcome = iota
	// OutcomeRejected: a definitive non-success result code. Final, never retried.
	OutcomeRejected
	// OutcomeTimedOut: no conclusive code before the deadline. The transaction
	// may still validate later; callers must not assume it never happened.
	OutcomeTimedOut
	// OutcomeConnectionError: transport failure while submitting or polling.
	OutcomeConnectionError
)

func (o SubmissionOutcome) String() string {
	switch o {
	case OutcomeValidated:
		return "validated"
	case OutcomeRejected:
		return "rejected"
	case OutcomeTimedOut:
		return "timed_out"
	case OutcomeConnectionError:
		return "connection_error"
	default:
		return "unknown"
	}
}

// SubmissionResult is produced by the finality waiter and consumed by the
// token id extractor and the reconciliation recorder.
type SubmissionResult struct {
	Outcome     SubmissionOutcome
	TxHash      string
	ResultCode  string
	LedgerIndex uint64
	FeeDrops    decimal.Decimal
	Meta        *TxMeta
	Err         error // underlying transport error for OutcomeConnectionError
}

// TxMeta is the read-only diff the ledger attaches to a validated
// transaction: the objects it created, modified and deleted, plus (on recent
// server versions) the new token id directly.
type TxMeta struct {
	TransactionResult string         `json:"TransactionResult"`
	NFTokenID         string         `json:"nftoken_id,omitempty"`
	AffectedNodes     []AffectedNode `json:"AffectedNodes"`
}

// AffectedNode is one entry in the metadata diff. Exactly one of the three
// pointers is set.
type AffectedNode struct {
	Created  *NodeFields `json:"CreatedNode,omitempty"`
	Modified *NodeFields `json:"ModifiedNode,omitempty"`
	Deleted  *NodeFields `json:"DeletedNode,omitempty"`
}

// NodeFields holds the before/after field sets of an affected ledger object.
type NodeFields struct {
	LedgerEntryType string      `json:"LedgerEntryType"`
	LedgerIndex     string      `json:"LedgerIndex"`
	NewFields       *PageFields `json:"NewFields,omitempty"`
	FinalFields     *PageFields `json:"FinalFields,omitempty"`
	PreviousFields  *PageFields `json:"PreviousFields,omitempty"`
}

// PageFields is the subset of NFTokenPage fields the extractor needs.
type PageFields struct {
	NFTokens []NFTokenEntry `json:"NFTokens,omitempty"`
}

// NFTokenEntry wraps a token entry inside a token page.
type NFTokenEntry struct {
	NFToken NFToken `json:"NFToken"`
}

// NFToken is a single token as stored on a page.
type NFToken struct {
	NFTokenID string `json:"NFTokenID"`
	URI       string `json:"URI,omitempty"`
}

// AccountInfo is the answer to an account query against a validated ledger.
type AccountInfo struct {
	Address      string
	BalanceDrops decimal.Decimal
	Sequence     uint32
	OwnerCount   uint32
}

// ReserveParams are the network's current reserve requirements, in drops.
type ReserveParams struct {
	BaseDrops decimal.Decimal
	IncDrops  decimal.Decimal
}

// LedgerNFT is a token as reported by the node's owned-token listing.
type LedgerNFT struct {
	NFTokenID   string `json:"NFTokenID"`
	Issuer      string `json:"Issuer"`
	URI         string `json:"URI"`
	Flags       uint32 `json:"Flags"`
	TransferFee uint32 `json:"TransferFee"`
	Serial      uint32 `json:"nft_serial"`
}

// LedgerNFTDetail is the single-token detail answer (nft_info).
type LedgerNFTDetail struct {
	NFTokenID   string `json:"nft_id"`
	LedgerIndex uint64 `json:"ledger_index"`
	Owner       string `json:"owner"`
	Issuer      string `json:"issuer"`
	URI         string `json:"uri"`
	Flags       uint32 `json:"flags"`
	TransferFee uint32 `json:"transfer_fee"`
	IsBurned    bool   `json:"is_burned"`
}

// MintResult is what a completed mint hands back to the caller.
type MintResult struct {
	TokenID        string
	TxHash         string
	FeeDrops       decimal.Decimal
	LedgerIndex    uint64
	IdempotencyKey string
}
