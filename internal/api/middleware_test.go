package api

import "testing"

func TestOriginAllowed(t *testing.T) {
	allowed := []string{"https://app.topdogarena.example"}

	if !originAllowed("https://app.topdogarena.example", allowed) {
		t.Error("Listed origin must be allowed")
	}
	if originAllowed("https://evil.example", allowed) {
		t.Error("Unlisted origin must be refused")
	}
}

func TestOriginAllowed_IgnoresEmptyEntries(t *testing.T) {
	if originAllowed("https://evil.example", []string{""}) {
		t.Error("An empty allowed entry must not admit every origin")
	}
	if originAllowed("https://evil.example", []string{"", "https://app.example"}) {
		t.Error("An empty entry next to real ones must not admit every origin")
	}
}
