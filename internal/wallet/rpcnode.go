package wallet

import (
	"context"
	"fmt"
	"log"
	"time"

	sol "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/example/walletchat/internal/cache"
	"github.com/example/walletchat/internal/types"
)

// ledgerRPC is the slice of the RPC client the adapter uses. Kept small so
// tests can fake the node.
type ledgerRPC interface {
	GetBalance(ctx context.Context, account sol.PublicKey, commitment rpc.CommitmentType) (*rpc.GetBalanceResult, error)
	GetSignaturesForAddressWithOpts(ctx context.Context, account sol.PublicKey, opts *rpc.GetSignaturesForAddressOpts) ([]*rpc.TransactionSignature, error)
	GetTransaction(ctx context.Context, signature sol.Signature, opts *rpc.GetTransactionOpts) (*rpc.GetTransactionResult, error)
}

// RPCNode is the last-resort adapter: a direct ledger read with no third
// party quota dependency. History costs one round trip per signature for the
// fee detail, so lookups go through a singleflight TTL cache.
type RPCNode struct {
	c          ledgerRPC
	commitment rpc.CommitmentType
	details    *cache.TxDetails
}

// NewRPCNode wraps an explicitly constructed RPC client; the composition
// root owns the client lifecycle.
func NewRPCNode(client *rpc.Client, commitment string, details *cache.TxDetails) *RPCNode {
	cm := rpc.CommitmentType(commitment)
	if cm == "" {
		cm = rpc.CommitmentFinalized
	}
	return &RPCNode{c: client, commitment: cm, details: details}
}

func (n *RPCNode) Name() string { return "rpc" }

func (n *RPCNode) FetchBalance(ctx context.Context, address string) (types.Balance, error) {
	pk, err := sol.PublicKeyFromBase58(address)
	if err != nil {
		return types.Balance{}, fmt.Errorf("rpc: invalid address: %w", err)
	}
	res, err := n.c.GetBalance(ctx, pk, n.commitment)
	if err != nil {
		return types.Balance{}, fmt.Errorf("rpc getBalance: %w", err)
	}
	return types.Balance{Sol: types.LamportsToSol(uint64(res.Value)), Source: n.Name()}, nil
}

func (n *RPCNode) FetchTransactions(ctx context.Context, address string, limit int) ([]types.Transaction, error) {
	pk, err := sol.PublicKeyFromBase58(address)
	if err != nil {
		return nil, fmt.Errorf("rpc: invalid address: %w", err)
	}
	sigs, err := n.c.GetSignaturesForAddressWithOpts(ctx, pk, &rpc.GetSignaturesForAddressOpts{
		Limit:      &limit,
		Commitment: n.commitment,
	})
	if err != nil {
		return nil, fmt.Errorf("rpc getSignaturesForAddress: %w", err)
	}
	if len(sigs) == 0 {
		return nil, errNoData
	}
	txs := make([]types.Transaction, 0, len(sigs))
	for _, sig := range sigs {
		if sig == nil {
			continue
		}
		var blockTime int64
		if sig.BlockTime != nil {
			blockTime = int64(*sig.BlockTime)
		}
		// missing detail degrades to fee 0, never fails the whole set
		fee := n.feeFor(ctx, sig.Signature)
		txs = append(txs, normalizeRPCTx(n.Name(), sig.Signature.String(), blockTime, fee, sig.Err != nil))
	}
	if len(txs) == 0 {
		return nil, errNoData
	}
	return txs, nil
}

func (n *RPCNode) feeFor(ctx context.Context, signature sol.Signature) uint64 {
	maxVersion := uint64(0)
	d, err := n.details.GetOrFetch(ctx, signature.String(), func(ctx context.Context) (cache.Detail, error) {
		res, err := n.c.GetTransaction(ctx, signature, &rpc.GetTransactionOpts{
			Commitment:                     n.commitment,
			MaxSupportedTransactionVersion: &maxVersion,
		})
		if err != nil {
			return cache.Detail{}, err
		}
		var fee uint64
		if res != nil && res.Meta != nil {
			fee = res.Meta.Fee
		}
		return cache.Detail{FeeLamports: fee, FetchedAt: time.Now().UTC()}, nil
	})
	if err != nil {
		log.Printf("event=tx_detail_miss signature=%s err=%v", signature, err)
		return 0
	}
	return d.FeeLamports
}
