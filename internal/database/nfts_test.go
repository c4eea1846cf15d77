package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"topdog-arena-nft-go/internal/store"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

const (
	testTokenID = "000800006203F49C21D5D6E022CB16DE3538F248662FC73C258BA5A200000001"
	testIssuer  = "rwiYXAA45LAg6GuMVm67owGtZC3tknbf4b"
	testTxHash  = "E3FE6EA3D48F0C2B639448020EA4F03D4F4F8FFDB243A852A0F59177921B4879"
)

func setupTestDb(t *testing.T) (*Service, func()) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	service, err := NewServiceFromDB(db)
	if err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	cleanup := func() {
		db.Close()
	}

	return service, cleanup
}

func testNFTParams() store.RecordNFTParams {
	return store.RecordNFTParams{
		TokenID:     testTokenID,
		Issuer:      testIssuer,
		Owner:       testIssuer,
		Name:        "Test Card",
		Description: "desc",
		ImageURI:    "https://x/y.png",
		Attributes:  `[{"trait_type":"Breed","value":"Husky"}]`,
		TxHash:      testTxHash,
		TransferFee: 1250,
		Flags:       8,
		MintedAt:    time.Now(),
	}
}

func testLogParams() store.AppendLogParams {
	return store.AppendLogParams{
		TxHash:      testTxHash,
		TxType:      "NFTokenMint",
		Account:     testIssuer,
		FeeDrops:    decimal.NewFromInt(12),
		LedgerIndex: 812345,
		Validated:   true,
		Successful:  true,
		ResultCode:  "tesSUCCESS",
		SubmittedAt: time.Now(),
	}
}

func TestRecordNFT_AndGet(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()
	ctx := context.Background()

	record, err := service.RecordNFT(ctx, testNFTParams())
	if err != nil {
		t.Fatalf("RecordNFT failed: %v", err)
	}
	if record.TokenID != testTokenID {
		t.Errorf("Expected token id %s, got %s", testTokenID, record.TokenID)
	}
	if record.IsBurned {
		t.Error("New record should not be burned")
	}

	fetched, err := service.GetNFT(ctx, testTokenID)
	if err != nil {
		t.Fatalf("GetNFT failed: %v", err)
	}
	if fetched.Name != "Test Card" || fetched.TxHash != testTxHash {
		t.Errorf("Record fields lost: %+v", fetched)
	}
}

func TestRecordNFT_Duplicate(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := service.RecordNFT(ctx, testNFTParams()); err != nil {
		t.Fatalf("First RecordNFT failed: %v", err)
	}
	_, err := service.RecordNFT(ctx, testNFTParams())
	if !errors.Is(err, store.ErrNFTExists) {
		t.Fatalf("Expected ErrNFTExists, got: %v", err)
	}
}

func TestRecordMint_Idempotent(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()
	ctx := context.Background()

	// Record the same validated result twice, as a retried reconciliation
	// pass would.
	if err := service.RecordMint(ctx, testNFTParams(), testLogParams()); err != nil {
		t.Fatalf("First RecordMint failed: %v", err)
	}
	if err := service.RecordMint(ctx, testNFTParams(), testLogParams()); err != nil {
		t.Fatalf("Second RecordMint failed: %v", err)
	}

	// Exactly one NFT record.
	nfts, err := service.ListNFTs(ctx, 10, 0)
	if err != nil {
		t.Fatalf("ListNFTs failed: %v", err)
	}
	if len(nfts) != 1 {
		t.Fatalf("Expected exactly 1 nft record, got %d", len(nfts))
	}

	// Exactly two log entries, one per attempt.
	entries, err := service.GetTransactionLog(ctx, testIssuer, 10, 0)
	if err != nil {
		t.Fatalf("GetTransactionLog failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected exactly 2 log entries, got %d", len(entries))
	}

	// At most one of them successful.
	successful := 0
	for _, e := range entries {
		if e.Successful {
			successful++
		}
	}
	if successful != 1 {
		t.Errorf("Expected exactly 1 successful log entry, got %d", successful)
	}
}

func TestGetNFTsByOwner_ExcludesBurned(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := service.RecordNFT(ctx, testNFTParams()); err != nil {
		t.Fatalf("RecordNFT failed: %v", err)
	}

	second := testNFTParams()
	second.TokenID = "000800006203F49C21D5D6E022CB16DE3538F248662FC73C16E5DA9C00000002"
	if _, err := service.RecordNFT(ctx, second); err != nil {
		t.Fatalf("RecordNFT failed: %v", err)
	}

	if err := service.MarkBurned(ctx, second.TokenID); err != nil {
		t.Fatalf("MarkBurned failed: %v", err)
	}

	owned, err := service.GetNFTsByOwner(ctx, testIssuer, 10, 0)
	if err != nil {
		t.Fatalf("GetNFTsByOwner failed: %v", err)
	}
	if len(owned) != 1 {
		t.Fatalf("Expected 1 unburned token, got %d", len(owned))
	}
	if owned[0].TokenID != testTokenID {
		t.Errorf("Expected %s, got %s", testTokenID, owned[0].TokenID)
	}
}

func TestMarkBurned_NotFound(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	err := service.MarkBurned(context.Background(), testTokenID)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got: %v", err)
	}
}
