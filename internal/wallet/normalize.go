package wallet

import (
	"github.com/example/walletchat/internal/types"
)

// Pure mapping from each provider's native records into the canonical
// shapes. Every canonical field is always populated: fee defaults to 0,
// type to "unknown", block times are collapsed to unix seconds.

const defaultTxType = "unknown"

func normalizeHeliusTx(name string, tx heliusTx) types.Transaction {
	typ := tx.Type
	if typ == "" {
		typ = defaultTxType
	}
	return types.Transaction{
		Signature:  tx.Signature,
		BlockTime:  types.UnixSeconds(tx.Timestamp),
		Fee:        types.LamportsToSol(tx.Fee),
		Successful: tx.TransactionError == nil,
		Type:       typ,
		Source:     name,
	}
}

func normalizeShyftTx(name string, tx shyftTx) types.Transaction {
	sig := ""
	if len(tx.Signatures) > 0 {
		sig = tx.Signatures[0]
	}
	typ := tx.Type
	if typ == "" {
		typ = defaultTxType
	}
	return types.Transaction{
		Signature:  sig,
		BlockTime:  types.UnixSeconds(tx.Timestamp),
		Fee:        tx.Fee,
		Successful: tx.Status == "Success",
		Type:       typ,
		Source:     name,
	}
}

func normalizeRPCTx(name, signature string, blockTime int64, feeLamports uint64, failed bool) types.Transaction {
	return types.Transaction{
		Signature:  signature,
		BlockTime:  types.UnixSeconds(blockTime),
		Fee:        types.LamportsToSol(feeLamports),
		Successful: !failed,
		Type:       defaultTxType,
		Source:     name,
	}
}
