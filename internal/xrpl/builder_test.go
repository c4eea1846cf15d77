package xrpl

import (
	"errors"
	"testing"

	"topdog-arena-nft-go/internal/models"
)

const testIssuer = "rwiYXAA45LAg6GuMVm67owGtZC3tknbf4b"

func uint32Ptr(v uint32) *uint32 { return &v }

func TestBuildMintTransaction_Defaults(t *testing.T) {
	req := models.MintRequest{
		Name:        "Test Card",
		Description: "desc",
		ImageURI:    "https://x/y.png",
	}

	tx, err := BuildMintTransaction(req, testIssuer)
	if err != nil {
		t.Fatalf("BuildMintTransaction failed: %v", err)
	}

	if tx.TransactionType != "NFTokenMint" {
		t.Errorf("Expected NFTokenMint, got %s", tx.TransactionType)
	}
	if tx.Account != testIssuer {
		t.Errorf("Expected account %s, got %s", testIssuer, tx.Account)
	}
	if tx.Flags != FlagTransferable {
		t.Errorf("Expected default transferable flags %d, got %d", FlagTransferable, tx.Flags)
	}
	if tx.TransferFee != 0 {
		t.Errorf("Expected default transfer fee 0, got %d", tx.TransferFee)
	}
	if tx.Destination != "" {
		t.Errorf("Expected no destination, got %s", tx.Destination)
	}
	if tx.URI == "" {
		t.Error("Expected non-empty URI")
	}
}

func TestBuildMintTransaction_MetadataRoundTrip(t *testing.T) {
	req := models.MintRequest{
		Name:        "Top Dog #42",
		Description: "Arena champion",
		ImageURI:    "https://cdn.example.com/42.png",
		Attributes: []models.NFTAttribute{
			{TraitType: "Breed", Value: "Husky"},
			{TraitType: "Rank", Value: "Champion"},
		},
		ExternalURL:  "https://topdogarena.example.com/42",
		AnimationURL: "https://cdn.example.com/42.mp4",
		TransferFee:  uint32Ptr(1250),
	}

	tx, err := BuildMintTransaction(req, testIssuer)
	if err != nil {
		t.Fatalf("BuildMintTransaction failed: %v", err)
	}

	decoded, err := DecodeTokenURI(tx.URI)
	if err != nil {
		t.Fatalf("DecodeTokenURI failed: %v", err)
	}

	if decoded.Name != req.Name {
		t.Errorf("Name lost in round trip: %q != %q", decoded.Name, req.Name)
	}
	if decoded.Description != req.Description {
		t.Errorf("Description lost in round trip: %q != %q", decoded.Description, req.Description)
	}
	if decoded.ImageURI != req.ImageURI {
		t.Errorf("Image lost in round trip: %q != %q", decoded.ImageURI, req.ImageURI)
	}
	if decoded.ExternalURL != req.ExternalURL {
		t.Errorf("ExternalURL lost in round trip: %q != %q", decoded.ExternalURL, req.ExternalURL)
	}
	if decoded.AnimationURL != req.AnimationURL {
		t.Errorf("AnimationURL lost in round trip: %q != %q", decoded.AnimationURL, req.AnimationURL)
	}
	if len(decoded.Attributes) != len(req.Attributes) {
		t.Fatalf("Expected %d attributes, got %d", len(req.Attributes), len(decoded.Attributes))
	}
	for i, attr := range req.Attributes {
		if decoded.Attributes[i] != attr {
			t.Errorf("Attribute %d lost in round trip: %+v != %+v", i, decoded.Attributes[i], attr)
		}
	}
}

func TestBuildMintTransaction_FeeBoundary(t *testing.T) {
	req := models.MintRequest{Name: "n", Description: "d", ImageURI: "i"}

	req.TransferFee = uint32Ptr(MaxTransferFee)
	if _, err := BuildMintTransaction(req, testIssuer); err != nil {
		t.Errorf("Fee at maximum should be accepted, got: %v", err)
	}

	req.TransferFee = uint32Ptr(MaxTransferFee + 1)
	_, err := BuildMintTransaction(req, testIssuer)
	if err == nil {
		t.Fatal("Expected validation error for fee above maximum, got nil")
	}
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation, got: %v", err)
	}
}

func TestBuildMintTransaction_RecipientValidation(t *testing.T) {
	req := models.MintRequest{
		Name:        "n",
		Description: "d",
		ImageURI:    "i",
		Recipient:   "invalid_address_test",
	}
	_, err := BuildMintTransaction(req, testIssuer)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("Expected ErrValidation for bad recipient, got: %v", err)
	}

	req.Recipient = "rN7n7otQDd6FczFgLdSqtcsAUxDkw6fzRH"
	tx, err := BuildMintTransaction(req, testIssuer)
	if err != nil {
		t.Fatalf("Valid recipient rejected: %v", err)
	}
	if tx.Destination != req.Recipient {
		t.Errorf("Expected destination %s, got %s", req.Recipient, tx.Destination)
	}
}

func TestBuildMintTransaction_CustomFlags(t *testing.T) {
	req := models.MintRequest{
		Name:        "n",
		Description: "d",
		ImageURI:    "i",
		Flags:       uint32Ptr(FlagBurnable | FlagTransferable),
	}
	tx, err := BuildMintTransaction(req, testIssuer)
	if err != nil {
		t.Fatalf("BuildMintTransaction failed: %v", err)
	}
	if tx.Flags != FlagBurnable|FlagTransferable {
		t.Errorf("Expected flags %d, got %d", FlagBurnable|FlagTransferable, tx.Flags)
	}
}
