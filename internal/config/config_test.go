package config

import "testing"

func TestGetEnvList(t *testing.T) {
	t.Setenv("TEST_LIST", "https://a.example, https://b.example")
	parts := getEnvList("TEST_LIST", []string{"*"})
	if len(parts) != 2 || parts[0] != "https://a.example" || parts[1] != "https://b.example" {
		t.Errorf("Unexpected list: %v", parts)
	}
}

func TestGetEnvList_TrailingComma(t *testing.T) {
	t.Setenv("TEST_LIST", "https://a.example,")
	parts := getEnvList("TEST_LIST", []string{"*"})
	if len(parts) != 1 || parts[0] != "https://a.example" {
		t.Errorf("Trailing comma must not yield an empty entry, got: %v", parts)
	}
}

func TestGetEnvList_OnlyCommas(t *testing.T) {
	t.Setenv("TEST_LIST", ", ,")
	parts := getEnvList("TEST_LIST", []string{"*"})
	if len(parts) != 1 || parts[0] != "*" {
		t.Errorf("Expected the default list, got: %v", parts)
	}
}

func TestGetEnvList_Unset(t *testing.T) {
	t.Setenv("TEST_LIST", "")
	parts := getEnvList("TEST_LIST", []string{"*"})
	if len(parts) != 1 || parts[0] != "*" {
		t.Errorf("Expected the default list, got: %v", parts)
	}
}
