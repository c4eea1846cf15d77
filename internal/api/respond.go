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
	"errors"
	"net/http"
	"time"

	"topdog-arena-nft-go/internal/models"
	"topdog-arena-nft-go/internal/store"
	"topdog-arena-nft-go/internal/xrpl"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func respondOK(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, models.APIResponse{
		Success:   true,
		Data:      data,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

func respondError(c *gin.Context, err error) {
	status, code := classifyError(err)
	if status >= http.StatusInternalServerError {
		zap.L().Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.String("code", code),
			zap.Error(err))
	}
	c.JSON(status, models.APIResponse{
		Success:   false,
		Error:     code,
		Message:   err.Error(),
		Timestamp: time.Now().UTC(),
	})
}

// classifyError maps domain sentinels to HTTP status and a stable error code.
// The timeout and rejection cases must stay distinct: a timed-out mint may
// still land on the ledger.
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, xrpl.ErrValidation):
		return http.StatusBadRequest, models.ErrCodeValidation
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, xrpl.ErrTokenNotFound),
		errors.Is(err, xrpl.ErrAccountNotFound):
		return http.StatusNotFound, models.ErrCodeNotFound
	case errors.Is(err, xrpl.ErrNotConnected):
		return http.StatusServiceUnavailable, models.ErrCodeNotConnected
	case errors.Is(err, xrpl.ErrConnection):
		return http.StatusServiceUnavailable, models.ErrCodeConnection
	case errors.Is(err, xrpl.ErrLedgerRejected):
		return http.StatusBadGateway, models.ErrCodeLedgerRejected
	case errors.Is(err, xrpl.ErrFinalityTimeout):
		return http.StatusGatewayTimeout, models.ErrCodeFinalityTimeout
	case errors.Is(err, xrpl.ErrExtractionFailure):
		return http.StatusInternalServerError, models.ErrCodeExtractionFailure
	default:
		return http.StatusInternalServerError, models.ErrCodeInternal
	}
}
