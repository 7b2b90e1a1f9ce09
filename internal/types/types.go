package types

const lamportsPerSOL = 1_000_000_000.0

// Balance is the canonical balance shape all providers normalize into.
// Sol is the human-readable amount in SOL, never lamports.
type Balance struct {
	Sol    float64 `json:"sol"`
	Source string  `json:"source"`
}

// Transaction is the canonical transaction record. BlockTime is unix seconds,
// 0 when the provider did not report one. Fee is in SOL, 0 when unknown.
type Transaction struct {
	Signature  string  `json:"signature"`
	BlockTime  int64   `json:"block_time,omitempty"`
	Fee        float64 `json:"fee"`
	Successful bool    `json:"successful"`
	Type       string  `json:"type"`
	Source     string  `json:"source"`
}

// ErrorEntry captures a user-visible failure rendered inline in the chat.
type ErrorEntry struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// LamportsToSol converts lamports to SOL as a float.
func LamportsToSol(l uint64) float64 { return float64(l) / lamportsPerSOL }

// UnixSeconds collapses second- and millisecond-precision unix timestamps
// into seconds. Anything above ~1e12 cannot be a plausible seconds value.
func UnixSeconds(ts int64) int64 {
	if ts > 1_000_000_000_000 {
		return ts / 1000
	}
	return ts
}
