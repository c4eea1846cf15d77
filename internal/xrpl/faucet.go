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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/http2"
)

// FaucetClient funds accounts from a test-network faucet. Mainnet has no
// faucet; callers refuse funding there before reaching this type.
type FaucetClient struct {
	url        string
	httpClient http.Client
}

// FundResult reports what the faucet says it delivered.
type FundResult struct {
	Address      string
	AmountXRP    float64
	BalanceDrops string
}

func NewFaucetClient(faucetURL string) (*FaucetClient, error) {
	if faucetURL == "" {
		return nil, fmt.Errorf("faucet url is empty")
	}
	httpClient, err := createFaucetHTTPClient()
	if err != nil {
		return nil, fmt.Errorf("unable to create faucet http client: %w", err)
	}
	return &FaucetClient{url: faucetURL, httpClient: httpClient}, nil
}

func createFaucetHTTPClient() (http.Client, error) {
	tr := &http.Transport{
		ResponseHeaderTimeout: 30 * time.Second,
		Proxy:                 http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			KeepAlive: 30 * time.Second,
			Timeout:   15 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConnsPerHost:   5,
		ExpectContinueTimeout: 5 * time.Second,
	}

	if err := http2.ConfigureTransport(tr); err != nil {
		return http.Client{}, err
	}

	return http.Client{
		Transport: tr,
		Timeout:   60 * time.Second,
	}, nil
}

// Fund asks the faucet to send test funds to the given account.
func (f *FaucetClient) Fund(ctx context.Context, address string) (*FundResult, error) {
	if !IsValidAddress(address) {
		return nil, fmt.Errorf("%w: invalid destination address", ErrValidation)
	}

	body, err := json.Marshal(map[string]string{"destination": address})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: faucet request: %v", ErrConnection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("faucet answered status %d", resp.StatusCode)
	}

	var out struct {
		Account struct {
			ClassicAddress string `json:"classicAddress"`
			Address        string `json:"address"`
		} `json:"account"`
		Amount  float64 `json:"amount"`
		Balance string  `json:"balance"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("unable to parse faucet response: %w", err)
	}

	funded := out.Account.ClassicAddress
	if funded == "" {
		funded = out.Account.Address
	}
	if funded == "" {
		funded = address
	}

	zap.L().Info("Faucet funding requested",
		zap.String("address", funded),
		zap.Float64("amount_xrp", out.Amount))

	return &FundResult{
		Address:      funded,
		AmountXRP:    out.Amount,
		BalanceDrops: out.Balance,
	}, nil
}
