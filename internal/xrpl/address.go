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
	"regexp"
	"strings"
)

var (
	// Classic address grammar: base58 without 0, O, I, l; 25-34 chars total.
	classicAddressRe = regexp.MustCompile(`^r[1-9A-HJ-NP-Za-km-z]{24,33}$`)

	// Token ids are 256-bit, hex encoded, case-insensitive on input.
	tokenIDRe = regexp.MustCompile(`^[0-9A-Fa-f]{64}$`)
)

// IsValidAddress reports whether s matches the ledger's classic address grammar.
func IsValidAddress(s string) bool {
	return classicAddressRe.MatchString(s)
}

// IsValidTokenID reports whether s is a well-formed 64-char hex token id.
func IsValidTokenID(s string) bool {
	return tokenIDRe.MatchString(s)
}

// NormalizeTokenID upper-cases a token id so lookups are case-insensitive.
func NormalizeTokenID(s string) string {
	return strings.ToUpper(s)
}
