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

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"topdog-arena-nft-go/internal/api"
	"topdog-arena-nft-go/internal/common"
	"topdog-arena-nft-go/internal/config"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = zap.NewProduction()
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zap.L().Info("Starting Top Dog Arena NFT service",
		zap.String("network", cfg.Ledger.Network),
		zap.String("port", cfg.Server.Port))

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	handler := api.NewHandler(services.MintService, services.Ledger, services.DbService, services.Faucet)
	router := api.NewRouter(handler, cfg.Server)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		zap.L().Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.Server.SyncInterval > 0 {
		group.Go(func() error {
			ticker := time.NewTicker(cfg.Server.SyncInterval)
			defer ticker.Stop()
			for {
				select {
				case <-groupCtx.Done():
					return nil
				case <-ticker.C:
					if _, err := services.MintService.Balances().Sync(groupCtx, services.Ledger.Account()); err != nil {
						zap.L().Warn("Periodic balance sync failed", zap.Error(err))
					}
				}
			}
		})
	}

	group.Go(func() error {
		<-groupCtx.Done()
		zap.L().Info("Shutdown signal received, draining connections")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		zap.L().Error("Server exited with error", zap.Error(err))
		return
	}
	zap.L().Info("Server stopped gracefully")
}
