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
	"encoding/hex"
	"encoding/json"
	"fmt"

	"topdog-arena-nft-go/internal/models"
)

// Transfer fee is expressed in 1/100000 units; 50000 caps it at 50%.
const MaxTransferFee uint32 = 50000

// Mint transaction flags.
const (
	FlagBurnable     uint32 = 0x0001
	FlagOnlyXRP      uint32 = 0x0002
	FlagTransferable uint32 = 0x0008
)

// NFTokenMintTx is the tx_json draft handed to the node for sign-and-submit.
// Field order matters for nothing on the wire but keeps diffs readable.
type NFTokenMintTx struct {
	TransactionType string `json:"TransactionType"`
	Account         string `json:"Account"`
	NFTokenTaxon    uint32 `json:"NFTokenTaxon"`
	Flags           uint32 `json:"Flags"`
	TransferFee     uint32 `json:"TransferFee,omitempty"`
	URI             string `json:"URI,omitempty"`
	Destination     string `json:"Destination,omitempty"`
}

// tokenMetadata is the canonical JSON document encoded into the URI field.
type tokenMetadata struct {
	Name         string                `json:"name"`
	Description  string                `json:"description"`
	Image        string                `json:"image"`
	Attributes   []models.NFTAttribute `json:"attributes,omitempty"`
	ExternalURL  string                `json:"external_url,omitempty"`
	AnimationURL string                `json:"animation_url,omitempty"`
}

// BuildMintTransaction constructs a well-formed mint draft from the request.
// Pure: no network, no side effects. Validation failures fail fast here so
// nothing bad ever reaches the node.
func BuildMintTransaction(req models.MintRequest, issuer string) (*NFTokenMintTx, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !IsValidAddress(issuer) {
		return nil, fmt.Errorf("%w: invalid issuer address", ErrValidation)
	}

	fee := uint32(0)
	if req.TransferFee != nil {
		if *req.TransferFee > MaxTransferFee {
			return nil, fmt.Errorf("%w: transfer fee exceeds maximum", ErrValidation)
		}
		fee = *req.TransferFee
	}

	flags := FlagTransferable
	if req.Flags != nil {
		flags = *req.Flags
	}

	if req.Recipient != "" && !IsValidAddress(req.Recipient) {
		return nil, fmt.Errorf("%w: invalid recipient address", ErrValidation)
	}

	uri, err := EncodeTokenURI(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	return &NFTokenMintTx{
		TransactionType: "NFTokenMint",
		Account:         issuer,
		NFTokenTaxon:    0,
		Flags:           flags,
		TransferFee:     fee,
		URI:             uri,
		Destination:     req.Recipient,
	}, nil
}

// EncodeTokenURI serializes the request metadata to canonical JSON and hex
// encodes it for the ledger's URI field.
func EncodeTokenURI(req models.MintRequest) (string, error) {
	meta := tokenMetadata{
		Name:         req.Name,
		Description:  req.Description,
		Image:        req.ImageURI,
		Attributes:   req.Attributes,
		ExternalURL:  req.ExternalURL,
		AnimationURL: req.AnimationURL,
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("unable to serialize token metadata: %w", err)
	}
	return hex.EncodeToString(raw), nil
}

// DecodeTokenURI reverses EncodeTokenURI. Used when re-hydrating records from
// ledger-side token listings.
func DecodeTokenURI(uri string) (models.MintRequest, error) {
	raw, err := hex.DecodeString(uri)
	if err != nil {
		return models.MintRequest{}, fmt.Errorf("uri is not hex encoded: %w", err)
	}
	var meta tokenMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return models.MintRequest{}, fmt.Errorf("uri does not contain token metadata: %w", err)
	}
	return models.MintRequest{
		Name:         meta.Name,
		Description:  meta.Description,
		ImageURI:     meta.Image,
		Attributes:   meta.Attributes,
		ExternalURL:  meta.ExternalURL,
		AnimationURL: meta.AnimationURL,
	}, nil
}
