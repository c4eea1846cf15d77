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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"topdog-arena-nft-go/internal/models"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// APIError is a ledger-level error answer to a well-delivered request, e.g.
// actNotFound. Distinct from transport failures, which map to ErrConnection.
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("ledger api error %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("ledger api error %s", e.Code)
}

// Client wraps one long-lived websocket connection to one ledger node.
// Queries are safe for concurrent use; submissions are serialized per signing
// account because the ledger enforces a strict monotonic sequence number.
type Client struct {
	serverURL      string
	network        string
	seed           string // opaque signing credential; never logged, never persisted
	account        string
	connectTimeout time.Duration
	waitCfg        WaitConfig

	mu        sync.Mutex // guards conn, connected, nextID, pending
	conn      *websocket.Conn
	connected bool
	nextID    uint64
	pending   map[uint64]chan *rpcResponse

	writeMu sync.Mutex // websocket writes must not interleave

	locksMu      sync.Mutex
	accountLocks map[string]*sync.Mutex
}

type rpcResponse struct {
	ID           uint64          `json:"id"`
	Type         string          `json:"type"`
	Status       string          `json:"status"`
	Result       json.RawMessage `json:"result"`
	Error        string          `json:"error"`
	ErrorMessage string          `json:"error_message"`
}

// NewClient builds a client from configuration. No I/O happens until Connect.
func NewClient(cfg models.LedgerConfig) *Client {
	wait := WaitConfig{
		Timeout:         cfg.WaitTimeout,
		PollInterval:    cfg.PollInterval,
		MaxQueryRetries: cfg.MaxQueryRetries,
	}
	wait.applyDefaults()

	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 10 * time.Second
	}

	return &Client{
		serverURL:      cfg.ServerURL,
		network:        cfg.Network,
		seed:           cfg.WalletSeed,
		account:        cfg.WalletAddress,
		connectTimeout: connectTimeout,
		waitCfg:        wait,
		pending:        make(map[uint64]chan *rpcResponse),
		accountLocks:   make(map[string]*sync.Mutex),
	}
}

// Account returns the classic address of the signing account.
func (c *Client) Account() string { return c.account }

// Network returns the configured network name (mainnet, testnet, devnet).
func (c *Client) Network() string { return c.network }

// IsConnected reports the current connection status.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Connect dials the configured node. Calling while already connected is a
// no-op.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connected {
		return nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, c.connectTimeout)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, c.serverURL, nil)
	if err != nil {
		return fmt.Errorf("%w: dial %s: %v", ErrConnection, c.serverURL, err)
	}

	c.conn = conn
	c.connected = true
	go c.readLoop(conn)

	zap.L().Info("Connected to ledger node",
		zap.String("server", c.serverURL),
		zap.String("network", c.network))
	return nil
}

// Disconnect closes the connection and fails every in-flight request. Safe to
// call multiple times and on every exit path.
func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	wasConnected := c.connected
	c.conn = nil
	c.connected = false
	c.failPendingLocked()
	c.mu.Unlock()

	if conn != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
	}
	if wasConnected {
		zap.L().Info("Disconnected from ledger node", zap.String("server", c.serverURL))
	}
}

// readLoop dispatches correlated responses until the connection dies.
func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			// Only tear down if this loop's connection is still current.
			if c.conn == conn {
				c.conn = nil
				c.connected = false
				c.failPendingLocked()
				zap.L().Warn("Ledger connection lost", zap.Error(err))
			}
			c.mu.Unlock()
			return
		}

		var resp rpcResponse
		if err := json.Unmarshal(data, &resp); err != nil || resp.ID == 0 {
			// Subscription streams and malformed frames are not ours to handle.
			continue
		}

		c.mu.Lock()
		ch, ok := c.pending[resp.ID]
		if ok {
			delete(c.pending, resp.ID)
		}
		c.mu.Unlock()
		if ok {
			ch <- &resp
		}
	}
}

// failPendingLocked closes every waiting channel. Callers hold c.mu.
func (c *Client) failPendingLocked() {
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
}

// call sends one command and waits for its correlated response.
func (c *Client) call(ctx context.Context, command string, params map[string]interface{}) (json.RawMessage, error) {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return nil, ErrNotConnected
	}
	c.nextID++
	id := c.nextID
	ch := make(chan *rpcResponse, 1)
	c.pending[id] = ch
	conn := c.conn
	c.mu.Unlock()

	msg := make(map[string]interface{}, len(params)+2)
	for k, v := range params {
		msg[k] = v
	}
	msg["id"] = id
	msg["command"] = command

	c.writeMu.Lock()
	err := conn.WriteJSON(msg)
	c.writeMu.Unlock()
	if err != nil {
		c.dropPending(id)
		return nil, fmt.Errorf("%w: write %s: %v", ErrConnection, command, err)
	}

	select {
	case <-ctx.Done():
		c.dropPending(id)
		return nil, fmt.Errorf("%w: %s: %v", ErrConnection, command, ctx.Err())
	case resp, ok := <-ch:
		if !ok {
			return nil, fmt.Errorf("%w: connection closed during %s", ErrConnection, command)
		}
		if resp.Status != "success" {
			return nil, &APIError{Code: resp.Error, Message: resp.ErrorMessage}
		}
		return resp.Result, nil
	}
}

func (c *Client) dropPending(id uint64) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

// accountLock returns the submission mutex for an account, creating it on
// first use.
func (c *Client) accountLock(account string) *sync.Mutex {
	c.locksMu.Lock()
	defer c.locksMu.Unlock()
	lock, ok := c.accountLocks[account]
	if !ok {
		lock = &sync.Mutex{}
		c.accountLocks[account] = lock
	}
	return lock
}

// QueryAccount fetches balance and sequence from the latest validated ledger.
// An unfunded address answers ErrAccountNotFound, which is an expected
// outcome, not a failure.
func (c *Client) QueryAccount(ctx context.Context, address string) (*models.AccountInfo, error) {
	raw, err := c.call(ctx, "account_info", map[string]interface{}{
		"account":      address,
		"ledger_index": "validated",
	})
	if err != nil {
		if apiErr, ok := asAPIError(err); ok {
			if apiErr.Code == "actNotFound" {
				return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, address)
			}
			return nil, err
		}
		return nil, err
	}

	var out struct {
		AccountData struct {
			Balance    string `json:"Balance"`
			Sequence   uint32 `json:"Sequence"`
			OwnerCount uint32 `json:"OwnerCount"`
		} `json:"account_data"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unable to parse account_info result: %w", err)
	}

	balance, err := decimal.NewFromString(out.AccountData.Balance)
	if err != nil {
		return nil, fmt.Errorf("unable to parse balance %q: %w", out.AccountData.Balance, err)
	}

	return &models.AccountInfo{
		Address:      address,
		BalanceDrops: balance,
		Sequence:     out.AccountData.Sequence,
		OwnerCount:   out.AccountData.OwnerCount,
	}, nil
}

// ServerReserves fetches the network's current base and incremental reserve
// requirements, in drops. Queried per call: reserves change between ledger
// versions.
func (c *Client) ServerReserves(ctx context.Context) (*models.ReserveParams, error) {
	raw, err := c.call(ctx, "server_info", nil)
	if err != nil {
		return nil, err
	}

	var out struct {
		Info struct {
			ValidatedLedger struct {
				ReserveBaseXRP float64 `json:"reserve_base_xrp"`
				ReserveIncXRP  float64 `json:"reserve_inc_xrp"`
			} `json:"validated_ledger"`
		} `json:"info"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unable to parse server_info result: %w", err)
	}

	return &models.ReserveParams{
		BaseDrops: xrpToDrops(out.Info.ValidatedLedger.ReserveBaseXRP),
		IncDrops:  xrpToDrops(out.Info.ValidatedLedger.ReserveIncXRP),
	}, nil
}

// AccountNFTs lists the tokens the ledger currently attributes to an account.
func (c *Client) AccountNFTs(ctx context.Context, address string) ([]models.LedgerNFT, error) {
	raw, err := c.call(ctx, "account_nfts", map[string]interface{}{
		"account": address,
	})
	if err != nil {
		if apiErr, ok := asAPIError(err); ok && apiErr.Code == "actNotFound" {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, address)
		}
		return nil, err
	}

	var out struct {
		AccountNFTs []models.LedgerNFT `json:"account_nfts"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unable to parse account_nfts result: %w", err)
	}
	return out.AccountNFTs, nil
}

// NFTInfo fetches a single token's current ledger state by id.
func (c *Client) NFTInfo(ctx context.Context, tokenID string) (*models.LedgerNFTDetail, error) {
	raw, err := c.call(ctx, "nft_info", map[string]interface{}{
		"nft_id": NormalizeTokenID(tokenID),
	})
	if err != nil {
		if apiErr, ok := asAPIError(err); ok && apiErr.Code == "objectNotFound" {
			return nil, fmt.Errorf("%w: %s", ErrTokenNotFound, tokenID)
		}
		return nil, err
	}

	var detail models.LedgerNFTDetail
	if err := json.Unmarshal(raw, &detail); err != nil {
		return nil, fmt.Errorf("unable to parse nft_info result: %w", err)
	}
	return &detail, nil
}

// Submit signs and submits a mint draft, then waits for finality. The node
// signs with the held credential (sign-and-submit mode); the credential never
// leaves this process except over the node connection, and is never persisted
// or logged.
func (c *Client) Submit(ctx context.Context, tx *NFTokenMintTx) (*models.SubmissionResult, error) {
	lock := c.accountLock(tx.Account)
	lock.Lock()
	defer lock.Unlock()

	raw, err := c.call(ctx, "submit", map[string]interface{}{
		"tx_json": tx,
		"secret":  c.seed,
	})
	if err != nil {
		if apiErr, ok := asAPIError(err); ok {
			// The node refused the submission outright (bad secret, malformed
			// tx). Definitive: nothing reached the network.
			return &models.SubmissionResult{
				Outcome:    models.OutcomeRejected,
				ResultCode: apiErr.Code,
			}, nil
		}
		return &models.SubmissionResult{
			Outcome: models.OutcomeConnectionError,
			Err:     err,
		}, nil
	}

	var out struct {
		EngineResult        string `json:"engine_result"`
		EngineResultMessage string `json:"engine_result_message"`
		TxJSON              struct {
			Hash string `json:"hash"`
			Fee  string `json:"Fee"`
		} `json:"tx_json"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unable to parse submit result: %w", err)
	}

	fee := decimal.Zero
	if out.TxJSON.Fee != "" {
		if parsed, err := decimal.NewFromString(out.TxJSON.Fee); err == nil {
			fee = parsed
		}
	}

	zap.L().Info("Transaction submitted",
		zap.String("tx_hash", out.TxJSON.Hash),
		zap.String("engine_result", out.EngineResult),
		zap.String("account", tx.Account))

	// tem (malformed) and tef (failed locally) codes never validate.
	// Everything else is preliminary until a validated ledger includes the
	// transaction.
	if strings.HasPrefix(out.EngineResult, "tem") || strings.HasPrefix(out.EngineResult, "tef") {
		return &models.SubmissionResult{
			Outcome:    models.OutcomeRejected,
			TxHash:     out.TxJSON.Hash,
			ResultCode: out.EngineResult,
			FeeDrops:   fee,
		}, nil
	}

	result := c.WaitForValidation(ctx, out.TxJSON.Hash)
	if result.FeeDrops.IsZero() {
		result.FeeDrops = fee
	}
	return result, nil
}

func asAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// xrpToDrops converts a display-unit amount to drops (10^6 per XRP).
func xrpToDrops(xrp float64) decimal.Decimal {
	return decimal.NewFromFloat(xrp).Mul(decimal.NewFromInt(1_000_000)).Round(0)
}
