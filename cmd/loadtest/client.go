package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/chris/remittance-ledger/pkg/api"
)

// client talks to a running ledger service.
type client struct {
	baseURL string
	http    *http.Client
}

func newClient(baseURL string, timeout time.Duration) *client {
	return &client{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
}

// outcome is one request's result as seen by the caller.
type outcome struct {
	Status   int
	Replayed bool
	Latency  time.Duration
	Err      error
}

func (c *client) do(ctx context.Context, method, path string, body, out any) outcome {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return outcome{Err: err}
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return outcome{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return outcome{Err: err, Latency: time.Since(start)}
	}
	defer resp.Body.Close()

	o := outcome{Status: resp.StatusCode, Replayed: resp.Header.Get("X-Idempotent-Replay") == "true", Latency: time.Since(start)}
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			o.Err = err
		}
	}
	return o
}

func (c *client) openAccount(ctx context.Context, balance int64, seedID string) (api.Account, error) {
	var acc api.Account
	if o := c.do(ctx, http.MethodPost, "/api/accounts", nil, &acc); o.Err != nil || o.Status != http.StatusCreated {
		return acc, fmt.Errorf("open account: status %d: %v", o.Status, o.Err)
	}
	if balance > 0 {
		o := c.do(ctx, http.MethodPost, accountPath(acc.AccountId, "deposit"), api.MoneyRequest{Amount: balance, TransactionId: seedID}, nil)
		if o.Err != nil || o.Status != http.StatusOK {
			return acc, fmt.Errorf("seed deposit: status %d: %v", o.Status, o.Err)
		}
	}
	return acc, nil
}

func (c *client) setLimits(ctx context.Context, accountID, withdraw, transfer int64) error {
	o := c.do(ctx, http.MethodPut, accountPath(accountID, "limits"), api.AccountLimits{DailyWithdrawLimit: withdraw, DailyTransferLimit: transfer}, nil)
	if o.Err != nil || o.Status != http.StatusOK {
		return fmt.Errorf("set limits: status %d: %v", o.Status, o.Err)
	}
	return nil
}

func (c *client) balance(ctx context.Context, accountID int64) (int64, error) {
	var acc api.Account
	o := c.do(ctx, http.MethodGet, "/api/accounts/"+strconv.FormatInt(accountID, 10), nil, &acc)
	if o.Err != nil || o.Status != http.StatusOK {
		return 0, fmt.Errorf("get account: status %d: %v", o.Status, o.Err)
	}
	return acc.Balance, nil
}

func (c *client) historyCount(ctx context.Context, accountNo string) (int, error) {
	var page api.TransactionPage
	o := c.do(ctx, http.MethodGet, "/api/account-numbers/"+accountNo+"/transactions?page=1&pageSize=100", nil, &page)
	if o.Err != nil || o.Status != http.StatusOK {
		return 0, fmt.Errorf("list transactions: status %d: %v", o.Status, o.Err)
	}
	return page.TransactionCount, nil
}

func accountPath(accountID int64, action string) string {
	return "/api/accounts/" + strconv.FormatInt(accountID, 10) + "/" + action
}
