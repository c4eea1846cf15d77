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
	"topdog-arena-nft-go/internal/models"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the HTTP surface.
func NewRouter(handler *Handler, cfg models.ServerConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CORSMiddleware(cfg.AllowedOrigins))

	router.GET("/health", handler.Health)

	nft := router.Group("/nft")
	{
		nft.POST("/create", handler.CreateNFT)
		nft.GET("", handler.ListNFTs)
		nft.GET("/:id", handler.GetNFT)
		nft.GET("/account/:address", handler.AccountNFTs)
		nft.POST("/sync/:address", handler.SyncAccount)
	}

	wallet := router.Group("/wallet")
	{
		wallet.GET("/info", handler.WalletInfo)
		wallet.POST("/fund", handler.FundWallet)
		wallet.POST("/sync-balance", handler.SyncBalance)
	}

	return router
}
