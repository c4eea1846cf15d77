package mint

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"topdog-arena-nft-go/internal/audit"
	"topdog-arena-nft-go/internal/database"
	"topdog-arena-nft-go/internal/models"
	"topdog-arena-nft-go/internal/store"
	"topdog-arena-nft-go/internal/xrpl"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

const (
	testAccount = "rwiYXAA45LAg6GuMVm67owGtZC3tknbf4b"
	testOwner   = "rN7n7otQDd6FczFgLdSqtcsAUxDkw6fzRH"
	testTokenID = "000800006203F49C21D5D6E022CB16DE3538F248662FC73C258BA5A200000001"
	testTxHash  = "E3FE6EA3D48F0C2B639448020EA4F03D4F4F8FFDB243A852A0F59177921B4879"
)

type fakeLedger struct {
	connected   bool
	account     string
	network     string
	result      *models.SubmissionResult
	submitErr   error
	submitCalls int
	accountInfo *models.AccountInfo
	accountErr  error
	reserves    *models.ReserveParams
	reservesErr error
	nfts        []models.LedgerNFT
	nftsErr     error
	nftDetail   *models.LedgerNFTDetail
}

func (f *fakeLedger) IsConnected() bool { return f.connected }
func (f *fakeLedger) Account() string   { return f.account }
func (f *fakeLedger) Network() string   { return f.network }

func (f *fakeLedger) Submit(ctx context.Context, tx *xrpl.NFTokenMintTx) (*models.SubmissionResult, error) {
	f.submitCalls++
	return f.result, f.submitErr
}

func (f *fakeLedger) QueryAccount(ctx context.Context, address string) (*models.AccountInfo, error) {
	if f.accountErr != nil {
		return nil, f.accountErr
	}
	return f.accountInfo, nil
}

func (f *fakeLedger) ServerReserves(ctx context.Context) (*models.ReserveParams, error) {
	if f.reservesErr != nil {
		return nil, f.reservesErr
	}
	return f.reserves, nil
}

func (f *fakeLedger) AccountNFTs(ctx context.Context, address string) ([]models.LedgerNFT, error) {
	return f.nfts, f.nftsErr
}

func (f *fakeLedger) NFTInfo(ctx context.Context, tokenID string) (*models.LedgerNFTDetail, error) {
	if f.nftDetail != nil && f.nftDetail.NFTokenID == tokenID {
		return f.nftDetail, nil
	}
	return nil, xrpl.ErrTokenNotFound
}

func setupMintService(t *testing.T, ledger Ledger) (*Service, *database.Service, func()) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	dbService, err := database.NewServiceFromDB(db)
	if err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}
	service := NewService(ledger, dbService, &audit.Service{})
	return service, dbService, func() { db.Close() }
}

func connectedLedger() *fakeLedger {
	return &fakeLedger{
		connected: true,
		account:   testAccount,
		network:   "testnet",
		accountInfo: &models.AccountInfo{
			Address:      testAccount,
			BalanceDrops: decimal.NewFromInt(100_000_000),
			Sequence:     7,
			OwnerCount:   2,
		},
		reserves: &models.ReserveParams{
			BaseDrops: decimal.NewFromInt(10_000_000),
			IncDrops:  decimal.NewFromInt(2_000_000),
		},
	}
}

func createdPageMeta(tokenID string) *models.TxMeta {
	return &models.TxMeta{
		TransactionResult: "tesSUCCESS",
		AffectedNodes: []models.AffectedNode{
			{Created: &models.NodeFields{
				LedgerEntryType: "NFTokenPage",
				NewFields: &models.PageFields{
					NFTokens: []models.NFTokenEntry{
						{NFToken: models.NFToken{NFTokenID: tokenID}},
					},
				},
			}},
		},
	}
}

func validRequest() models.MintRequest {
	return models.MintRequest{
		Name:        "Test Card",
		Description: "desc",
		ImageURI:    "https://x/y.png",
	}
}

func TestMint_ValidationFailureNeverReachesLedger(t *testing.T) {
	ledger := connectedLedger()
	service, _, cleanup := setupMintService(t, ledger)
	defer cleanup()

	badFee := uint32(50001)
	req := validRequest()
	req.TransferFee = &badFee

	_, err := service.Mint(context.Background(), req)
	if !errors.Is(err, xrpl.ErrValidation) {
		t.Fatalf("Expected ErrValidation, got: %v", err)
	}
	if ledger.submitCalls != 0 {
		t.Errorf("Rejected request must not reach the ledger, saw %d submissions", ledger.submitCalls)
	}
}

func TestMint_NotConnected(t *testing.T) {
	ledger := connectedLedger()
	ledger.connected = false
	service, _, cleanup := setupMintService(t, ledger)
	defer cleanup()

	_, err := service.Mint(context.Background(), validRequest())
	if !errors.Is(err, xrpl.ErrNotConnected) {
		t.Fatalf("Expected ErrNotConnected, got: %v", err)
	}
	if ledger.submitCalls != 0 {
		t.Errorf("Expected zero submissions while disconnected, got %d", ledger.submitCalls)
	}
}

func TestMint_ValidatedRecordsToken(t *testing.T) {
	ledger := connectedLedger()
	ledger.result = &models.SubmissionResult{
		Outcome:     models.OutcomeValidated,
		TxHash:      testTxHash,
		ResultCode:  "tesSUCCESS",
		LedgerIndex: 812345,
		FeeDrops:    decimal.NewFromInt(12),
		Meta:        createdPageMeta(testTokenID),
	}
	service, db, cleanup := setupMintService(t, ledger)
	defer cleanup()
	ctx := context.Background()

	result, err := service.Mint(ctx, validRequest())
	if err != nil {
		t.Fatalf("Mint failed: %v", err)
	}
	if result.TokenID != testTokenID {
		t.Errorf("Expected token id %s, got %s", testTokenID, result.TokenID)
	}
	if result.TxHash != testTxHash {
		t.Errorf("Expected tx hash %s, got %s", testTxHash, result.TxHash)
	}
	if result.IdempotencyKey == "" {
		t.Error("Expected a generated idempotency key")
	}

	record, err := db.GetNFT(ctx, testTokenID)
	if err != nil {
		t.Fatalf("GetNFT failed: %v", err)
	}
	if record.Issuer != testAccount || record.Owner != testAccount {
		t.Errorf("Record attribution wrong: %+v", record)
	}
	if record.IsBurned {
		t.Error("Fresh mint must not be burned")
	}

	entry, err := db.GetTransactionByHash(ctx, testTxHash)
	if err != nil {
		t.Fatalf("GetTransactionByHash failed: %v", err)
	}
	if !entry.Validated || !entry.Successful {
		t.Errorf("Expected validated successful log entry, got %+v", entry)
	}
}

func TestMint_RecipientBecomesOwner(t *testing.T) {
	ledger := connectedLedger()
	ledger.result = &models.SubmissionResult{
		Outcome:     models.OutcomeValidated,
		TxHash:      testTxHash,
		ResultCode:  "tesSUCCESS",
		LedgerIndex: 812346,
		FeeDrops:    decimal.NewFromInt(12),
		Meta:        createdPageMeta(testTokenID),
	}
	service, db, cleanup := setupMintService(t, ledger)
	defer cleanup()

	req := validRequest()
	req.Recipient = testOwner
	if _, err := service.Mint(context.Background(), req); err != nil {
		t.Fatalf("Mint failed: %v", err)
	}

	record, err := db.GetNFT(context.Background(), testTokenID)
	if err != nil {
		t.Fatalf("GetNFT failed: %v", err)
	}
	if record.Owner != testOwner {
		t.Errorf("Expected owner %s, got %s", testOwner, record.Owner)
	}
	if record.Issuer != testAccount {
		t.Errorf("Expected issuer %s, got %s", testAccount, record.Issuer)
	}
}

func TestMint_RejectedIsFinal(t *testing.T) {
	ledger := connectedLedger()
	ledger.result = &models.SubmissionResult{
		Outcome:    models.OutcomeRejected,
		TxHash:     testTxHash,
		ResultCode: "tecINSUFFICIENT_RESERVE",
	}
	service, db, cleanup := setupMintService(t, ledger)
	defer cleanup()
	ctx := context.Background()

	_, err := service.Mint(ctx, validRequest())
	if !errors.Is(err, xrpl.ErrLedgerRejected) {
		t.Fatalf("Expected ErrLedgerRejected, got: %v", err)
	}

	entry, err := db.GetTransactionByHash(ctx, testTxHash)
	if err != nil {
		t.Fatalf("Expected log entry for rejected submission: %v", err)
	}
	if entry.Successful {
		t.Error("Rejected submission must not be logged as successful")
	}
	if entry.ResultCode != "tecINSUFFICIENT_RESERVE" {
		t.Errorf("Result code lost: %s", entry.ResultCode)
	}
}

func TestMint_TimedOutIsNotRejected(t *testing.T) {
	ledger := connectedLedger()
	ledger.result = &models.SubmissionResult{
		Outcome: models.OutcomeTimedOut,
		TxHash:  testTxHash,
	}
	service, db, cleanup := setupMintService(t, ledger)
	defer cleanup()
	ctx := context.Background()

	_, err := service.Mint(ctx, validRequest())
	if !errors.Is(err, xrpl.ErrFinalityTimeout) {
		t.Fatalf("Expected ErrFinalityTimeout, got: %v", err)
	}
	if errors.Is(err, xrpl.ErrLedgerRejected) {
		t.Error("A timeout must never be reported as a rejection")
	}

	entry, err := db.GetTransactionByHash(ctx, testTxHash)
	if err != nil {
		t.Fatalf("Expected log entry for timed out submission: %v", err)
	}
	if entry.Validated || entry.Successful {
		t.Errorf("Timed out entry must be validated=false successful=false, got %+v", entry)
	}
}

func TestMint_PersistenceFailureDoesNotFailMint(t *testing.T) {
	ledger := connectedLedger()
	ledger.result = &models.SubmissionResult{
		Outcome:     models.OutcomeValidated,
		TxHash:      testTxHash,
		ResultCode:  "tesSUCCESS",
		LedgerIndex: 812347,
		FeeDrops:    decimal.NewFromInt(12),
		Meta:        createdPageMeta(testTokenID),
	}
	service, _, cleanup := setupMintService(t, ledger)
	// Close the database before minting so every write fails.
	cleanup()

	result, err := service.Mint(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("A ledger-validated mint must survive persistence failure, got: %v", err)
	}
	if result.TokenID != testTokenID {
		t.Errorf("Expected token id %s, got %s", testTokenID, result.TokenID)
	}
}

func TestMint_ExtractionFailureSurfaced(t *testing.T) {
	ledger := connectedLedger()
	ledger.result = &models.SubmissionResult{
		Outcome:     models.OutcomeValidated,
		TxHash:      testTxHash,
		ResultCode:  "tesSUCCESS",
		LedgerIndex: 812348,
		Meta: &models.TxMeta{
			TransactionResult: "tesSUCCESS",
			AffectedNodes: []models.AffectedNode{
				{Modified: &models.NodeFields{LedgerEntryType: "AccountRoot"}},
			},
		},
	}
	service, db, cleanup := setupMintService(t, ledger)
	defer cleanup()
	ctx := context.Background()

	_, err := service.Mint(ctx, validRequest())
	if !errors.Is(err, xrpl.ErrExtractionFailure) {
		t.Fatalf("Expected ErrExtractionFailure, got: %v", err)
	}

	// The transaction did validate; the log must say so.
	entry, err := db.GetTransactionByHash(ctx, testTxHash)
	if err != nil {
		t.Fatalf("Expected log entry for extraction anomaly: %v", err)
	}
	if !entry.Validated || !entry.Successful {
		t.Errorf("Anomaly entry must keep validated=true successful=true, got %+v", entry)
	}
	if entry.ErrorMessage == "" {
		t.Error("Expected the extraction error to be recorded")
	}
}

func TestGetNFT_FallsBackToLedger(t *testing.T) {
	uri, err := xrpl.EncodeTokenURI(models.MintRequest{
		Name:        "Foreign Card",
		Description: "minted elsewhere",
		ImageURI:    "https://x/foreign.png",
		Attributes: []models.NFTAttribute{
			{TraitType: "Breed", Value: "Husky"},
		},
	})
	if err != nil {
		t.Fatalf("EncodeTokenURI failed: %v", err)
	}

	ledger := connectedLedger()
	ledger.nftDetail = &models.LedgerNFTDetail{
		NFTokenID:   testTokenID,
		Owner:       testOwner,
		Issuer:      testAccount,
		URI:         uri,
		TransferFee: 1250,
	}
	service, _, cleanup := setupMintService(t, ledger)
	defer cleanup()

	record, err := service.GetNFT(context.Background(), testTokenID)
	if err != nil {
		t.Fatalf("GetNFT failed: %v", err)
	}
	if record.TokenID != testTokenID {
		t.Errorf("Expected token id %s, got %s", testTokenID, record.TokenID)
	}
	if record.Owner != testOwner || record.Issuer != testAccount {
		t.Errorf("Ledger attribution lost: %+v", record)
	}
	if record.Name != "Foreign Card" || record.ImageURI != "https://x/foreign.png" {
		t.Errorf("Metadata not rehydrated from URI: %+v", record)
	}
	if record.Attributes == "" {
		t.Error("Expected attributes JSON from the decoded URI")
	}
	if record.TransferFee != 1250 {
		t.Errorf("Expected transfer fee 1250, got %d", record.TransferFee)
	}
}

func TestGetNFT_UnknownTokenEverywhere(t *testing.T) {
	service, _, cleanup := setupMintService(t, connectedLedger())
	defer cleanup()

	_, err := service.GetNFT(context.Background(), testTokenID)
	if !errors.Is(err, xrpl.ErrTokenNotFound) {
		t.Fatalf("Expected ErrTokenNotFound, got: %v", err)
	}
}

func TestGetNFT_DisconnectedServesIndexOnly(t *testing.T) {
	ledger := connectedLedger()
	ledger.connected = false
	ledger.nftDetail = &models.LedgerNFTDetail{NFTokenID: testTokenID}
	service, _, cleanup := setupMintService(t, ledger)
	defer cleanup()

	_, err := service.GetNFT(context.Background(), testTokenID)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound while disconnected, got: %v", err)
	}
}

func TestReconcileAccount_MarksMissingTokensBurned(t *testing.T) {
	held := "000800006203F49C21D5D6E022CB16DE3538F248662FC73C16E5DA9C00000002"
	ledger := connectedLedger()
	ledger.nfts = []models.LedgerNFT{{NFTokenID: held, Issuer: testAccount}}
	service, db, cleanup := setupMintService(t, ledger)
	defer cleanup()
	ctx := context.Background()

	for _, id := range []string{testTokenID, held} {
		_, err := db.RecordNFT(ctx, store.RecordNFTParams{
			TokenID:  id,
			Issuer:   testAccount,
			Owner:    testAccount,
			Name:     "Card " + id[:8],
			TxHash:   testTxHash,
			MintedAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("RecordNFT failed: %v", err)
		}
	}

	changed, err := service.ReconcileAccount(ctx, testAccount)
	if err != nil {
		t.Fatalf("ReconcileAccount failed: %v", err)
	}
	if changed != 1 {
		t.Fatalf("Expected 1 record marked burned, got %d", changed)
	}

	remaining, err := db.GetNFTsByOwner(ctx, testAccount, 10, 0)
	if err != nil {
		t.Fatalf("GetNFTsByOwner failed: %v", err)
	}
	if len(remaining) != 1 || remaining[0].TokenID != held {
		t.Errorf("Expected only the held token to remain, got %+v", remaining)
	}
}

func TestBalanceSync_ComputesAvailable(t *testing.T) {
	ledger := connectedLedger()
	service, _, cleanup := setupMintService(t, ledger)
	defer cleanup()

	snapshot, err := service.Balances().Sync(context.Background(), testAccount)
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	// 100 XRP balance, 10 XRP base + 2 owned objects at 2 XRP each.
	wantReserve := decimal.NewFromInt(14_000_000)
	wantAvailable := decimal.NewFromInt(86_000_000)
	if !snapshot.ReserveDrops.Equal(wantReserve) {
		t.Errorf("Expected reserve %s, got %s", wantReserve, snapshot.ReserveDrops)
	}
	if !snapshot.AvailableDrops.Equal(wantAvailable) {
		t.Errorf("Expected available %s, got %s", wantAvailable, snapshot.AvailableDrops)
	}
}

func TestBalanceSync_ReserveFallback(t *testing.T) {
	ledger := connectedLedger()
	ledger.reservesErr = errors.New("server_info unavailable")
	ledger.accountInfo.BalanceDrops = decimal.NewFromInt(15_000_000)
	service, _, cleanup := setupMintService(t, ledger)
	defer cleanup()

	snapshot, err := service.Balances().Sync(context.Background(), testAccount)
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if !snapshot.ReserveDrops.Equal(decimal.NewFromInt(20_000_000)) {
		t.Errorf("Expected fallback reserve of 20 XRP, got %s", snapshot.ReserveDrops)
	}
	// Balance below reserve floors at zero rather than going negative.
	if !snapshot.AvailableDrops.Equal(decimal.Zero) {
		t.Errorf("Expected zero available, got %s", snapshot.AvailableDrops)
	}
}
