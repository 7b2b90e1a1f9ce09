package intent

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/walletchat/internal/wallet"
)

// ErrUnsupportedAction covers schema actions with no resolver behind them.
var ErrUnsupportedAction = errors.New("unsupported action")

// WalletResolver is the slice of the fallback resolver the dispatcher uses.
type WalletResolver interface {
	Resolve(ctx context.Context, address string, op wallet.Operation, p wallet.Params) (*wallet.Result, error)
}

// Dispatcher invokes the fallback resolver with concrete arguments derived
// from a classified intent.
type Dispatcher struct {
	Resolver WalletResolver
}

func NewDispatcher(r WalletResolver) *Dispatcher { return &Dispatcher{Resolver: r} }

func (d *Dispatcher) Dispatch(ctx context.Context, address string, it Intent) (*wallet.Result, error) {
	var op wallet.Operation
	switch it.Action {
	case ActionBalance:
		op = wallet.OpBalance
	case ActionTransactions:
		op = wallet.OpTransactions
	case ActionNetwork:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAction, it.Action)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAction, it.Action)
	}
	return d.Resolver.Resolve(ctx, address, op, wallet.Params{Limit: it.Params.Limit, Network: it.Params.Network})
}
