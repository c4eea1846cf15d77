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

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"topdog-arena-nft-go/internal/mint"
	"topdog-arena-nft-go/internal/models"
	"topdog-arena-nft-go/internal/store"
	"topdog-arena-nft-go/internal/xrpl"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultPageSize = 50

// Handler serves the HTTP surface over the mint service. The faucet is nil
// on mainnet; funding requests are refused there.
type Handler struct {
	mintService *mint.Service
	ledger      mint.Ledger
	db          store.NFTStore
	faucet      *xrpl.FaucetClient
}

func NewHandler(mintService *mint.Service, ledger mint.Ledger, db store.NFTStore, faucet *xrpl.FaucetClient) *Handler {
	return &Handler{
		mintService: mintService,
		ledger:      ledger,
		db:          db,
		faucet:      faucet,
	}
}

// nftView is the JSON shape a stored token record is served as.
type nftView struct {
	TokenID      string                `json:"nftId"`
	Issuer       string                `json:"issuer"`
	Owner        string                `json:"owner"`
	Name         string                `json:"name"`
	Description  string                `json:"description"`
	Image        string                `json:"image"`
	Attributes   []models.NFTAttribute `json:"attributes"`
	ExternalURL  string                `json:"external_url,omitempty"`
	AnimationURL string                `json:"animation_url,omitempty"`
	TxHash       string                `json:"txHash"`
	TransferFee  uint32                `json:"transferFee"`
	Flags        uint32                `json:"flags"`
	MintedAt     time.Time             `json:"mintedAt"`
	IsBurned     bool                  `json:"isBurned"`
}

func toNFTView(record *models.NFTRecord) nftView {
	var attrs []models.NFTAttribute
	if record.Attributes != "" {
		if err := json.Unmarshal([]byte(record.Attributes), &attrs); err != nil {
			zap.L().Warn("Stored attributes are not valid JSON",
				zap.String("token_id", record.TokenID))
		}
	}
	return nftView{
		TokenID:      record.TokenID,
		Issuer:       record.Issuer,
		Owner:        record.Owner,
		Name:         record.Name,
		Description:  record.Description,
		Image:        record.ImageURI,
		Attributes:   attrs,
		ExternalURL:  record.ExternalURL,
		AnimationURL: record.AnimationURL,
		TxHash:       record.TxHash,
		TransferFee:  record.TransferFee,
		Flags:        record.Flags,
		MintedAt:     record.MintedAt,
		IsBurned:     record.IsBurned,
	}
}

func pageParams(c *gin.Context) (limit, offset int) {
	limit = defaultPageSize
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 500 {
		limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}

// CreateNFT handles POST /nft/create.
func (h *Handler) CreateNFT(c *gin.Context) {
	var req models.CreateNFTRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", xrpl.ErrValidation, err))
		return
	}

	result, err := h.mintService.Mint(c.Request.Context(), req.ToMintRequest())
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, models.CreateNFTResponse{
		NFTId:  result.TokenID,
		TxHash: result.TxHash,
		Fee:    result.FeeDrops.String(),
	}, "NFT minted successfully")
}

// GetNFT handles GET /nft/:id.
func (h *Handler) GetNFT(c *gin.Context) {
	record, err := h.mintService.GetNFT(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, toNFTView(record), "NFT found")
}

// ListNFTs handles GET /nft.
func (h *Handler) ListNFTs(c *gin.Context) {
	limit, offset := pageParams(c)
	records, err := h.mintService.ListNFTs(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	views := make([]nftView, 0, len(records))
	for i := range records {
		views = append(views, toNFTView(&records[i]))
	}
	respondOK(c, http.StatusOK, views, "NFTs listed")
}

// AccountNFTs handles GET /nft/account/:address.
func (h *Handler) AccountNFTs(c *gin.Context) {
	limit, offset := pageParams(c)
	records, err := h.mintService.NFTsByOwner(c.Request.Context(), c.Param("address"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	views := make([]nftView, 0, len(records))
	for i := range records {
		views = append(views, toNFTView(&records[i]))
	}
	respondOK(c, http.StatusOK, views, "Account NFTs listed")
}

// SyncAccount handles POST /nft/sync/:address: reconciles the local index
// against the ledger's owned-token listing.
func (h *Handler) SyncAccount(c *gin.Context) {
	changed, err := h.mintService.ReconcileAccount(c.Request.Context(), c.Param("address"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"burned": changed},
		fmt.Sprintf("Reconciled, %d record(s) marked burned", changed))
}

// WalletInfo handles GET /wallet/info. Served from the cached snapshot; an
// account that was never synced still answers, with the balance marked as
// such.
func (h *Handler) WalletInfo(c *gin.Context) {
	info := models.WalletInfoResponse{
		Address:   h.ledger.Account(),
		Network:   h.ledger.Network(),
		Connected: h.ledger.IsConnected(),
		Balance:   "not synced",
		Available: "not synced",
	}

	snapshot, err := h.db.GetBalance(c.Request.Context(), h.ledger.Account())
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		respondError(c, err)
		return
	}
	if err == nil {
		info.Balance = snapshot.BalanceDrops.String()
		info.Available = snapshot.AvailableDrops.String()
		info.SyncedAt = snapshot.LastSyncAt.UTC().Format(time.RFC3339)
	}

	respondOK(c, http.StatusOK, info, "Wallet info")
}

// SyncBalance handles POST /wallet/sync-balance.
func (h *Handler) SyncBalance(c *gin.Context) {
	snapshot, err := h.mintService.Balances().Sync(c.Request.Context(), h.ledger.Account())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{
		"address":   snapshot.Address,
		"balance":   snapshot.BalanceDrops.String(),
		"reserve":   snapshot.ReserveDrops.String(),
		"available": snapshot.AvailableDrops.String(),
		"syncedAt":  snapshot.LastSyncAt.UTC().Format(time.RFC3339),
	}, "Balance synced")
}

// FundWallet handles POST /wallet/fund. Mainnet has no faucet and never will;
// the request is refused before any network traffic.
func (h *Handler) FundWallet(c *gin.Context) {
	if h.ledger.Network() == "mainnet" || h.faucet == nil {
		respondError(c, fmt.Errorf("%w: faucet funding is not available on %s",
			xrpl.ErrValidation, h.ledger.Network()))
		return
	}

	address := h.ledger.Account()
	var body struct {
		Address string `json:"address"`
	}
	if err := c.ShouldBindJSON(&body); err == nil && body.Address != "" {
		address = body.Address
	}

	result, err := h.faucet.Fund(c.Request.Context(), address)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{
		"address": result.Address,
		"amount":  result.AmountXRP,
		"balance": result.BalanceDrops,
	}, "Faucet funding requested")
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	dbOK := h.db.Ping(c.Request.Context()) == nil
	ledgerOK := h.ledger.IsConnected()

	status := http.StatusOK
	if !dbOK || !ledgerOK {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, models.APIResponse{
		Success: dbOK && ledgerOK,
		Data: gin.H{
			"database": dbOK,
			"ledger":   ledgerOK,
			"network":  h.ledger.Network(),
		},
		Message:   "health",
		Timestamp: time.Now().UTC(),
	})
}
