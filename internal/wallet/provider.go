package wallet

import (
	"context"
	"errors"

	"github.com/example/walletchat/internal/types"
)

// Operation selects which rate-limit bucket and provider chain a query uses.
type Operation string

const (
	OpBalance      Operation = "balance"
	OpTransactions Operation = "transactions"
)

// Resolver-level failures surfaced to the caller. Per-provider failures never
// cross the provider boundary; they are logged and the chain moves on.
var (
	ErrWalletNotConnected    = errors.New("wallet not connected")
	ErrRateLimited           = errors.New("rate limited, please wait")
	ErrAllProvidersExhausted = errors.New("all providers exhausted")
	ErrUnknownOperation      = errors.New("unknown operation")
)

// errNoData is the internal "this provider produced nothing usable" signal.
// A parse-clean response with zero transactions maps here too, so the chain
// prefers a fallback over an empty-but-technically-successful result.
var errNoData = errors.New("no usable data")

// Provider is the uniform adapter contract over one upstream data source.
// Implementations are stateless between calls, construct the provider-native
// request, and normalize successful responses into the canonical shapes.
// They never retry and never panic across this boundary.
type Provider interface {
	Name() string
	FetchBalance(ctx context.Context, address string) (types.Balance, error)
	FetchTransactions(ctx context.Context, address string, limit int) ([]types.Transaction, error)
}
