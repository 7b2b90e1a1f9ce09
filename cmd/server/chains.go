package main

import "github.com/example/walletchat/internal/wallet"

// orderProviders assembles the two priority chains. Balances prefer the
// gateway, history prefers the indexer; the direct ledger adapter is always
// last because it is the slowest but has no third-party quota. Disabled
// adapters (nil) are skipped.
func orderProviders(helius, shyft, node wallet.Provider) (balance, txs []wallet.Provider) {
	return compact(helius, shyft, node), compact(shyft, helius, node)
}

func compact(ps ...wallet.Provider) []wallet.Provider {
	out := make([]wallet.Provider, 0, len(ps))
	for _, p := range ps {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}
