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

package database

const (
	// NFT queries
	queryInsertNFT = `
		INSERT INTO nfts (
			token_id, issuer, owner, name, description, image_uri, attributes,
			external_url, animation_url, tx_hash, transfer_fee, flags, minted_at, is_burned
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0)`

	queryCheckNFTExists = `
		SELECT token_id FROM nfts WHERE token_id = ? LIMIT 1`

	queryGetNFT = `
		SELECT token_id, issuer, owner, name, description, image_uri, attributes,
		       external_url, animation_url, tx_hash, transfer_fee, flags, minted_at, is_burned
		FROM nfts
		WHERE token_id = ?`

	queryGetNFTsByOwner = `
		SELECT token_id, issuer, owner, name, description, image_uri, attributes,
		       external_url, animation_url, tx_hash, transfer_fee, flags, minted_at, is_burned
		FROM nfts
		WHERE owner = ? AND is_burned = 0
		ORDER BY minted_at DESC
		LIMIT ? OFFSET ?`

	queryListNFTs = `
		SELECT token_id, issuer, owner, name, description, image_uri, attributes,
		       external_url, animation_url, tx_hash, transfer_fee, flags, minted_at, is_burned
		FROM nfts
		ORDER BY minted_at DESC
		LIMIT ? OFFSET ?`

	queryMarkBurned = `
		UPDATE nfts SET is_burned = 1 WHERE token_id = ?`

	// Transaction log queries
	queryInsertLogEntry = `
		INSERT INTO transaction_log (
			id, tx_hash, tx_type, account, fee_drops, ledger_index, validated,
			successful, result_code, error_message, idempotency_key, submitted_at, validated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryCheckSuccessfulHash = `
		SELECT id FROM transaction_log WHERE tx_hash = ? AND successful = 1 LIMIT 1`

	queryGetLogByAccount = `
		SELECT id, tx_hash, tx_type, account, fee_drops, ledger_index, validated,
		       successful, result_code, error_message, idempotency_key, submitted_at, validated_at
		FROM transaction_log
		WHERE account = ?
		ORDER BY submitted_at DESC
		LIMIT ? OFFSET ?`

	queryGetLogByHash = `
		SELECT id, tx_hash, tx_type, account, fee_drops, ledger_index, validated,
		       successful, result_code, error_message, idempotency_key, submitted_at, validated_at
		FROM transaction_log
		WHERE tx_hash = ?
		ORDER BY submitted_at DESC
		LIMIT 1`

	// Balance queries
	queryUpsertBalance = `
		INSERT INTO account_balances (address, balance_drops, reserve_drops, available_drops, owner_count, last_sync_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(address) DO UPDATE SET
			balance_drops = excluded.balance_drops,
			reserve_drops = excluded.reserve_drops,
			available_drops = excluded.available_drops,
			owner_count = excluded.owner_count,
			last_sync_at = excluded.last_sync_at`

	queryGetBalance = `
		SELECT address, balance_drops, reserve_drops, available_drops, owner_count, last_sync_at
		FROM account_balances
		WHERE address = ?`
)
