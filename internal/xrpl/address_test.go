package xrpl

import "testing"

func TestIsValidAddress(t *testing.T) {
	valid := []string{
		"rwiYXAA45LAg6GuMVm67owGtZC3tknbf4b",
		"rN7n7otQDd6FczFgLdSqtcsAUxDkw6fzRH",
	}
	for _, addr := range valid {
		if !IsValidAddress(addr) {
			t.Errorf("Expected %q to be valid", addr)
		}
	}

	invalid := []string{
		"invalid_address_test",
		"",
		"xwiYXAA45LAg6GuMVm67owGtZC3tknbf4b", // wrong prefix
		"r0wiYXAA45LAg6GuMVm67owGtZC3tknbf",  // 0 not in alphabet
		"rShort",
	}
	for _, addr := range invalid {
		if IsValidAddress(addr) {
			t.Errorf("Expected %q to be invalid", addr)
		}
	}
}

func TestIsValidTokenID(t *testing.T) {
	if !IsValidTokenID(tokenA) {
		t.Errorf("Expected %q to be valid", tokenA)
	}
	// Case-insensitive on input.
	if !IsValidTokenID("abcdef0123456789abcdef0123456789abcdef0123456789abcdef0123456789"[:64]) {
		t.Error("Expected lowercase hex token id to be valid")
	}
	if IsValidTokenID(tokenA[:63]) {
		t.Error("Expected 63-char id to be invalid")
	}
	if IsValidTokenID(tokenA[:63] + "G") {
		t.Error("Expected non-hex character to be invalid")
	}
}
