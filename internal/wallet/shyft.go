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

// Shyft is the indexing-gateway adapter. Requests carry the API key in an
// x-api-key header; responses use a {success, result} envelope with balances
// already in SOL and millisecond timestamps.
type Shyft struct {
	baseURL string
	apiKey  string
	network string
	client  *http.Client
}

func NewShyft(baseURL, apiKey, network string, client *http.Client) *Shyft {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if network == "" {
		network = "mainnet-beta"
	}
	return &Shyft{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, network: network, client: client}
}

func (s *Shyft) Name() string { return "shyft" }

type shyftBalanceResp struct {
	Success bool `json:"success"`
	Result  struct {
		Balance float64 `json:"balance"`
	} `json:"result"`
	Message string `json:"message"`
}

type shyftTx struct {
	Signatures []string `json:"signatures"`
	Timestamp  int64    `json:"timestamp"`
	Fee        float64  `json:"fee"`
	Status     string   `json:"status"`
	Type       string   `json:"type"`
}

type shyftHistoryResp struct {
	Success bool      `json:"success"`
	Result  []shyftTx `json:"result"`
	Message string    `json:"message"`
}

func (s *Shyft) FetchBalance(ctx context.Context, address string) (types.Balance, error) {
	u := fmt.Sprintf("%s/sol/v1/wallet/balance?network=%s&wallet=%s",
		s.baseURL, url.QueryEscape(s.network), url.QueryEscape(address))
	var out shyftBalanceResp
	if err := s.getJSON(ctx, u, &out); err != nil {
		return types.Balance{}, err
	}
	if !out.Success {
		return types.Balance{}, fmt.Errorf("shyft: %s", nonEmpty(out.Message, "request unsuccessful"))
	}
	return types.Balance{Sol: out.Result.Balance, Source: s.Name()}, nil
}

func (s *Shyft) FetchTransactions(ctx context.Context, address string, limit int) ([]types.Transaction, error) {
	u := fmt.Sprintf("%s/sol/v1/transaction/history?network=%s&account=%s&tx_num=%s",
		s.baseURL, url.QueryEscape(s.network), url.QueryEscape(address), strconv.Itoa(limit))
	var out shyftHistoryResp
	if err := s.getJSON(ctx, u, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, fmt.Errorf("shyft: %s", nonEmpty(out.Message, "request unsuccessful"))
	}
	if len(out.Result) == 0 {
		return nil, errNoData
	}
	txs := make([]types.Transaction, 0, len(out.Result))
	for _, tx := range out.Result {
		txs = append(txs, normalizeShyftTx(s.Name(), tx))
	}
	return txs, nil
}

func (s *Shyft) getJSON(ctx context.Context, u string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("x-api-key", s.apiKey)
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("shyft http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("shyft decode: %w", err)
	}
	return nil
}

func nonEmpty(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
