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
	"fmt"

	"topdog-arena-nft-go/internal/models"
)

const ledgerEntryNFTokenPage = "NFTokenPage"

// MetadataShape tags the three known encodings of a mint in transaction
// metadata, plus an explicit unrecognized variant. The shape depends on how
// the mutation manifested in the owner's token collection.
type MetadataShape int

const (
	// ShapeDirect: the metadata carries an explicit new-token-id field.
	ShapeDirect MetadataShape = iota
	// ShapeModifiedPage: an existing token page grew by one entry.
	ShapeModifiedPage
	// ShapeCreatedPage: a new token page was created holding the token.
	ShapeCreatedPage
	// ShapeUnrecognized: none of the known patterns matched.
	ShapeUnrecognized
)

func (s MetadataShape) String() string {
	switch s {
	case ShapeDirect:
		return "direct"
	case ShapeModifiedPage:
		return "modified_page"
	case ShapeCreatedPage:
		return "created_page"
	default:
		return "unrecognized"
	}
}

// ClassifyMeta decides which of the known metadata shapes applies. First
// match wins, in the documented order.
func ClassifyMeta(meta *models.TxMeta) MetadataShape {
	if meta == nil {
		return ShapeUnrecognized
	}
	if meta.NFTokenID != "" {
		return ShapeDirect
	}
	for _, node := range meta.AffectedNodes {
		if n := node.Modified; n != nil && n.LedgerEntryType == ledgerEntryNFTokenPage {
			if pageGrowth(n) != "" {
				return ShapeModifiedPage
			}
		}
	}
	for _, node := range meta.AffectedNodes {
		if n := node.Created; n != nil && n.LedgerEntryType == ledgerEntryNFTokenPage {
			if n.NewFields != nil && len(n.NewFields.NFTokens) > 0 {
				return ShapeCreatedPage
			}
		}
	}
	return ShapeUnrecognized
}

// ExtractTokenID recovers the newly minted token's id from the validated
// transaction's metadata. A validated mint whose token cannot be recovered is
// a data integrity anomaly; ErrExtractionFailure must be surfaced, never
// swallowed.
func ExtractTokenID(meta *models.TxMeta) (string, error) {
	shape := ClassifyMeta(meta)
	switch shape {
	case ShapeDirect:
		return NormalizeTokenID(meta.NFTokenID), nil

	case ShapeModifiedPage:
		for _, node := range meta.AffectedNodes {
			if n := node.Modified; n != nil && n.LedgerEntryType == ledgerEntryNFTokenPage {
				if id := pageGrowth(n); id != "" {
					return NormalizeTokenID(id), nil
				}
			}
		}

	case ShapeCreatedPage:
		for _, node := range meta.AffectedNodes {
			if n := node.Created; n != nil && n.LedgerEntryType == ledgerEntryNFTokenPage {
				if n.NewFields != nil && len(n.NewFields.NFTokens) > 0 {
					// New pages place the new token last.
					tokens := n.NewFields.NFTokens
					return NormalizeTokenID(tokens[len(tokens)-1].NFToken.NFTokenID), nil
				}
			}
		}

	case ShapeUnrecognized:
		// fall through to the error below
	}
	return "", fmt.Errorf("%w: metadata shape %s", ErrExtractionFailure, shape)
}

// pageGrowth compares a modified page's token list before and after the
// transaction. If the after-list is longer, the appended entry (by position)
// is the new token.
func pageGrowth(n *models.NodeFields) string {
	if n.FinalFields == nil || n.PreviousFields == nil {
		return ""
	}
	after := n.FinalFields.NFTokens
	before := n.PreviousFields.NFTokens
	if len(after) <= len(before) {
		return ""
	}
	seen := make(map[string]bool, len(before))
	for _, t := range before {
		seen[t.NFToken.NFTokenID] = true
	}
	for _, t := range after {
		if !seen[t.NFToken.NFTokenID] {
			return t.NFToken.NFTokenID
		}
	}
	return ""
}
