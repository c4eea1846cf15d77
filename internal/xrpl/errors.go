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

import "errors"

// Sentinel errors shared across the ledger client and its callers.
//
// ErrAccountNotFound is an expected outcome (unfunded or unactivated
// address), not a transport failure; callers must branch on it separately
// from ErrConnection.
var (
	ErrValidation        = errors.New("validation error")
	ErrNotConnected      = errors.New("not connected to ledger")
	ErrConnection        = errors.New("ledger connection error")
	ErrAccountNotFound   = errors.New("account not found on ledger")
	ErrLedgerRejected    = errors.New("transaction rejected by ledger")
	ErrFinalityTimeout   = errors.New("timed out waiting for validation")
	ErrExtractionFailure = errors.New("token id not recoverable from metadata")
	ErrTokenNotFound     = errors.New("token not found on ledger")
)
