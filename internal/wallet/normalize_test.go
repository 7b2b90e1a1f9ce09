package wallet

import (
	"math"
	"testing"

	"github.com/example/walletchat/internal/types"
)

func TestNormalize_TimestampUnitsAgree(t *testing.T) {
	// one provider reports seconds, another milliseconds, same instant
	h := normalizeHeliusTx("helius", heliusTx{Signature: "sig", Timestamp: 1_700_000_123})
	s := normalizeShyftTx("shyft", shyftTx{Signatures: []string{"sig"}, Timestamp: 1_700_000_123_000, Status: "Success"})
	if h.BlockTime != s.BlockTime {
		t.Fatalf("blockTime mismatch: helius=%d shyft=%d", h.BlockTime, s.BlockTime)
	}
	if h.BlockTime != 1_700_000_123 { t.Fatalf("blockTime=%d", h.BlockTime) }
}

func TestNormalize_Defaults(t *testing.T) {
	h := normalizeHeliusTx("helius", heliusTx{Signature: "sig"})
	if h.Fee != 0 || h.Type != "unknown" || h.BlockTime != 0 {
		t.Fatalf("defaults not applied: %+v", h)
	}
	if !h.Successful { t.Fatalf("nil transactionError means success") }
	if h.Source != "helius" { t.Fatalf("source=%s", h.Source) }

	hf := normalizeHeliusTx("helius", heliusTx{Signature: "sig", TransactionError: map[string]interface{}{"InstructionError": nil}})
	if hf.Successful { t.Fatalf("transactionError should mark failure") }

	s := normalizeShyftTx("shyft", shyftTx{Signatures: []string{"a", "b"}, Status: "Fail"})
	if s.Signature != "a" { t.Fatalf("signature=%s", s.Signature) }
	if s.Successful { t.Fatalf("Fail status should mark failure") }
}

func TestNormalize_FeeUnitConversionAgrees(t *testing.T) {
	// helius reports lamports, shyft reports SOL; same underlying fee
	h := normalizeHeliusTx("helius", heliusTx{Signature: "sig", Fee: 5000})
	s := normalizeShyftTx("shyft", shyftTx{Signatures: []string{"sig"}, Fee: 0.000005, Status: "Success"})
	if math.Abs(h.Fee-s.Fee) > 1e-12 {
		t.Fatalf("fee mismatch: helius=%v shyft=%v", h.Fee, s.Fee)
	}
}

func TestNormalize_RPCTx(t *testing.T) {
	tx := normalizeRPCTx("rpc", "sig", 1_700_000_000, 5000, true)
	if tx.Successful { t.Fatalf("failed flag ignored") }
	if tx.Type != "unknown" || tx.Source != "rpc" { t.Fatalf("tx=%+v", tx) }
	if math.Abs(tx.Fee-types.LamportsToSol(5000)) > 1e-12 { t.Fatalf("fee=%v", tx.Fee) }
}
