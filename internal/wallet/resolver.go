package wallet

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/example/walletchat/internal/types"
)

const defaultTxLimit = 10

// ErrUnsupportedNetwork rejects queries for ledgers no configured adapter
// can serve.
var ErrUnsupportedNetwork = errors.New("unsupported network")

// Params carries the classified query parameters. Limit 0 means unset.
type Params struct {
	Limit   int
	Network string
}

// Result is the outcome of a successful resolution: exactly one of Balance
// or Transactions is set, and Source names the adapter that answered.
type Result struct {
	Operation    Operation           `json:"operation"`
	Balance      *types.Balance      `json:"balance,omitempty"`
	Transactions []types.Transaction `json:"transactions,omitempty"`
	Source       string              `json:"source"`
}

// Resolver walks an ordered provider chain per operation, gated by the
// per-operation throttle. Adapters are tried strictly sequentially; the
// first usable result wins and later adapters are never invoked. Adapter
// failures are recovered at the call site and never abort the chain.
type Resolver struct {
	throttle     *Throttle
	balanceChain []Provider
	txChain      []Provider
	attemptTTL   time.Duration
	maxLimit     int
}

// NewResolver configures the chains. balanceChain and txChain are tried in
// the given priority order; the slowest no-quota adapter belongs last.
func NewResolver(throttle *Throttle, balanceChain, txChain []Provider, attemptTTL time.Duration, maxLimit int) *Resolver {
	return &Resolver{
		throttle:     throttle,
		balanceChain: balanceChain,
		txChain:      txChain,
		attemptTTL:   attemptTTL,
		maxLimit:     maxLimit,
	}
}

// Resolve runs one query to Success or AllExhausted. Failure is reported,
// never retried here; the caller may re-invoke later, subject again to the
// throttle.
func (r *Resolver) Resolve(ctx context.Context, address string, op Operation, p Params) (*Result, error) {
	if address == "" {
		return nil, ErrWalletNotConnected
	}
	if op != OpBalance && op != OpTransactions {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}
	if p.Network != "" && p.Network != "solana" && p.Network != "mainnet-beta" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedNetwork, p.Network)
	}
	if !r.throttle.Admit(op) {
		return nil, ErrRateLimited
	}

	switch op {
	case OpBalance:
		return r.resolveBalance(ctx, address)
	default:
		return r.resolveTransactions(ctx, address, p.Limit)
	}
}

func (r *Resolver) resolveBalance(ctx context.Context, address string) (*Result, error) {
	for _, prov := range r.balanceChain {
		bal, err := r.tryBalance(ctx, prov, address)
		if err != nil {
			log.Printf("event=provider_miss provider=%s op=%s err=%v", prov.Name(), OpBalance, err)
			continue
		}
		log.Printf("event=resolved provider=%s op=%s", prov.Name(), OpBalance)
		return &Result{Operation: OpBalance, Balance: &bal, Source: prov.Name()}, nil
	}
	return nil, ErrAllProvidersExhausted
}

func (r *Resolver) resolveTransactions(ctx context.Context, address string, limit int) (*Result, error) {
	if limit <= 0 {
		limit = defaultTxLimit
	}
	if r.maxLimit > 0 && limit > r.maxLimit {
		limit = r.maxLimit
	}
	for _, prov := range r.txChain {
		txs, err := r.tryTransactions(ctx, prov, address, limit)
		if err != nil {
			log.Printf("event=provider_miss provider=%s op=%s err=%v", prov.Name(), OpTransactions, err)
			continue
		}
		log.Printf("event=resolved provider=%s op=%s count=%d", prov.Name(), OpTransactions, len(txs))
		return &Result{Operation: OpTransactions, Transactions: txs, Source: prov.Name()}, nil
	}
	return nil, ErrAllProvidersExhausted
}

// tryBalance bounds one adapter attempt and converts any panic into a miss,
// so a misbehaving provider can never abort the chain.
func (r *Resolver) tryBalance(ctx context.Context, prov Provider, address string) (bal types.Balance, err error) {
	ctx, cancel := r.attemptContext(ctx)
	defer cancel()
	defer func() {
		if rec := recover(); rec != nil {
			bal, err = types.Balance{}, fmt.Errorf("provider panic: %v", rec)
		}
	}()
	return prov.FetchBalance(ctx, address)
}

func (r *Resolver) tryTransactions(ctx context.Context, prov Provider, address string, limit int) (txs []types.Transaction, err error) {
	ctx, cancel := r.attemptContext(ctx)
	defer cancel()
	defer func() {
		if rec := recover(); rec != nil {
			txs, err = nil, fmt.Errorf("provider panic: %v", rec)
		}
	}()
	txs, err = prov.FetchTransactions(ctx, address, limit)
	if err != nil {
		return nil, err
	}
	// zero records is no usable data, the chain moves on
	if len(txs) == 0 {
		return nil, errNoData
	}
	return txs, nil
}

func (r *Resolver) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.attemptTTL <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.attemptTTL)
}
