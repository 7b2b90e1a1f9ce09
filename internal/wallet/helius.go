package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/example/walletchat/internal/types"
)

const maxBodyBytes = 2 << 20

// Helius is the primary REST gateway adapter. Balances arrive in lamports,
// transaction history through the enhanced-transactions endpoint with
// second-precision timestamps and lamport fees.
type Helius struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHelius(baseURL, apiKey string, client *http.Client) *Helius {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Helius{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, client: client}
}

func (h *Helius) Name() string { return "helius" }

type heliusBalances struct {
	NativeBalance uint64 `json:"nativeBalance"`
}

type heliusTx struct {
	Signature        string      `json:"signature"`
	Timestamp        int64       `json:"timestamp"`
	Fee              uint64      `json:"fee"`
	Type             string      `json:"type"`
	TransactionError interface{} `json:"transactionError"`
}

func (h *Helius) FetchBalance(ctx context.Context, address string) (types.Balance, error) {
	u := fmt.Sprintf("%s/v0/addresses/%s/balances?api-key=%s", h.baseURL, url.PathEscape(address), url.QueryEscape(h.apiKey))
	var out heliusBalances
	if err := h.getJSON(ctx, u, &out); err != nil {
		return types.Balance{}, err
	}
	return types.Balance{Sol: types.LamportsToSol(out.NativeBalance), Source: h.Name()}, nil
}

func (h *Helius) FetchTransactions(ctx context.Context, address string, limit int) ([]types.Transaction, error) {
	u := fmt.Sprintf("%s/v0/addresses/%s/transactions?api-key=%s&limit=%s",
		h.baseURL, url.PathEscape(address), url.QueryEscape(h.apiKey), strconv.Itoa(limit))
	var raw []heliusTx
	if err := h.getJSON(ctx, u, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errNoData
	}
	txs := make([]types.Transaction, 0, len(raw))
	for _, tx := range raw {
		txs = append(txs, normalizeHeliusTx(h.Name(), tx))
	}
	return txs, nil
}

func (h *Helius) getJSON(ctx context.Context, u string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("helius http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("helius decode: %w", err)
	}
	return nil
}
