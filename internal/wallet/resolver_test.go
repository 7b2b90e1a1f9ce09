package wallet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/walletchat/internal/types"
)

type fakeProvider struct {
	name      string
	balance   types.Balance
	balErr    error
	txs       []types.Transaction
	txErr     error
	balCalls  int
	txCalls   int
	lastLimit int
	panics    bool
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) FetchBalance(_ context.Context, _ string) (types.Balance, error) {
	f.balCalls++
	if f.panics {
		panic("boom")
	}
	return f.balance, f.balErr
}

func (f *fakeProvider) FetchTransactions(_ context.Context, _ string, limit int) ([]types.Transaction, error) {
	f.txCalls++
	f.lastLimit = limit
	if f.panics {
		panic("boom")
	}
	return f.txs, f.txErr
}

func newResolver(balChain, txChain []Provider) *Resolver {
	return NewResolver(NewThrottle(0), balChain, txChain, time.Second, 50)
}

func bal(amount float64, source string) types.Balance {
	return types.Balance{Sol: amount, Source: source}
}

func tx(sig, source string) types.Transaction {
	return types.Transaction{Signature: sig, Successful: true, Type: "unknown", Source: source}
}

func TestResolve_FirstProviderWinsShortCircuits(t *testing.T) {
	p1 := &fakeProvider{name: "primary", balance: bal(1.5, "primary")}
	p2 := &fakeProvider{name: "secondary", balance: bal(9, "secondary")}
	r := newResolver([]Provider{p1, p2}, nil)

	res, err := r.Resolve(context.Background(), "ADDR1", OpBalance, Params{})
	if err != nil { t.Fatalf("err=%v", err) }
	if res.Balance == nil || res.Balance.Sol != 1.5 { t.Fatalf("balance=%+v", res.Balance) }
	if res.Source != "primary" { t.Fatalf("source=%s", res.Source) }
	if p2.balCalls != 0 { t.Fatalf("secondary invoked %d times", p2.balCalls) }
}

func TestResolve_BalanceFallbackTagsWinner(t *testing.T) {
	p1 := &fakeProvider{name: "primary", balErr: errors.New("http 500")}
	p2 := &fakeProvider{name: "secondary", balance: bal(types.LamportsToSol(2_000_000_000), "secondary")}
	r := newResolver([]Provider{p1, p2}, nil)

	res, err := r.Resolve(context.Background(), "ADDR1", OpBalance, Params{})
	if err != nil { t.Fatalf("err=%v", err) }
	if res.Balance.Sol != 2.0 { t.Fatalf("sol=%f", res.Balance.Sol) }
	if res.Source != "secondary" { t.Fatalf("source=%s", res.Source) }
	if p1.balCalls != 1 || p2.balCalls != 1 { t.Fatalf("calls=%d/%d", p1.balCalls, p2.balCalls) }
}

func TestResolve_AllExhausted(t *testing.T) {
	p1 := &fakeProvider{name: "a", balErr: errors.New("down")}
	p2 := &fakeProvider{name: "b", balErr: errors.New("down")}
	p3 := &fakeProvider{name: "c", balErr: errors.New("down")}
	r := newResolver([]Provider{p1, p2, p3}, nil)

	res, err := r.Resolve(context.Background(), "ADDR1", OpBalance, Params{})
	if !errors.Is(err, ErrAllProvidersExhausted) { t.Fatalf("err=%v", err) }
	if res != nil { t.Fatalf("res=%+v", res) }
	if p1.balCalls != 1 || p2.balCalls != 1 || p3.balCalls != 1 { t.Fatalf("every adapter should be attempted once") }
}

func TestResolve_EmptyTransactionsFallThrough(t *testing.T) {
	// primary "succeeds" with zero records; that is no usable data
	p1 := &fakeProvider{name: "primary", txs: nil}
	p2 := &fakeProvider{name: "secondary", txs: []types.Transaction{tx("sig1", "secondary")}}
	r := newResolver(nil, []Provider{p1, p2})

	res, err := r.Resolve(context.Background(), "ADDR1", OpTransactions, Params{Limit: 5})
	if err != nil { t.Fatalf("err=%v", err) }
	if len(res.Transactions) != 1 || res.Source != "secondary" {
		t.Fatalf("txs=%d source=%s", len(res.Transactions), res.Source)
	}
	if p1.txCalls != 1 || p1.lastLimit != 5 { t.Fatalf("primary calls=%d limit=%d", p1.txCalls, p1.lastLimit) }
}

func TestResolve_TransactionLimitDefaultsAndClamps(t *testing.T) {
	p := &fakeProvider{name: "p", txs: []types.Transaction{tx("s", "p")}}
	r := NewResolver(NewThrottle(0), nil, []Provider{p}, time.Second, 50)

	if _, err := r.Resolve(context.Background(), "ADDR1", OpTransactions, Params{}); err != nil {
		t.Fatalf("err=%v", err)
	}
	if p.lastLimit != 10 { t.Fatalf("default limit=%d", p.lastLimit) }

	if _, err := r.Resolve(context.Background(), "ADDR1", OpTransactions, Params{Limit: 500}); err != nil {
		t.Fatalf("err=%v", err)
	}
	if p.lastLimit != 50 { t.Fatalf("clamped limit=%d", p.lastLimit) }
}

func TestResolve_RateLimitedSecondCall(t *testing.T) {
	p := &fakeProvider{name: "p", balance: bal(1, "p")}
	th := NewThrottle(10 * time.Second)
	base := time.Unix(1_700_000_000, 0)
	th.now = func() time.Time { return base }
	r := NewResolver(th, []Provider{p}, nil, time.Second, 50)

	if _, err := r.Resolve(context.Background(), "ADDR1", OpBalance, Params{}); err != nil {
		t.Fatalf("first err=%v", err)
	}
	_, err := r.Resolve(context.Background(), "ADDR1", OpBalance, Params{})
	if !errors.Is(err, ErrRateLimited) { t.Fatalf("err=%v", err) }
	if p.balCalls != 1 { t.Fatalf("provider hit despite rate limit, calls=%d", p.balCalls) }

	// past the interval the query is admitted again
	th.now = func() time.Time { return base.Add(11 * time.Second) }
	if _, err := r.Resolve(context.Background(), "ADDR1", OpBalance, Params{}); err != nil {
		t.Fatalf("post-interval err=%v", err)
	}
}

func TestResolve_Preconditions(t *testing.T) {
	p := &fakeProvider{name: "p", balance: bal(1, "p")}
	r := newResolver([]Provider{p}, []Provider{p})

	if _, err := r.Resolve(context.Background(), "", OpBalance, Params{}); !errors.Is(err, ErrWalletNotConnected) {
		t.Fatalf("err=%v", err)
	}
	if _, err := r.Resolve(context.Background(), "ADDR1", Operation("stake"), Params{}); !errors.Is(err, ErrUnknownOperation) {
		t.Fatalf("err=%v", err)
	}
	if _, err := r.Resolve(context.Background(), "ADDR1", OpBalance, Params{Network: "ethereum"}); !errors.Is(err, ErrUnsupportedNetwork) {
		t.Fatalf("err=%v", err)
	}
	if p.balCalls != 0 { t.Fatalf("provider should not be touched, calls=%d", p.balCalls) }
}

func TestResolve_ProviderPanicRecovered(t *testing.T) {
	p1 := &fakeProvider{name: "bad", panics: true}
	p2 := &fakeProvider{name: "good", balance: bal(3, "good")}
	r := newResolver([]Provider{p1, p2}, nil)

	res, err := r.Resolve(context.Background(), "ADDR1", OpBalance, Params{})
	if err != nil { t.Fatalf("err=%v", err) }
	if res.Source != "good" || res.Balance.Sol != 3 { t.Fatalf("res=%+v", res) }
}

func TestResolve_NativeOrderingPreserved(t *testing.T) {
	// the winning provider's ordering is returned untouched
	p := &fakeProvider{name: "p", txs: []types.Transaction{tx("newest", "p"), tx("older", "p"), tx("oldest", "p")}}
	r := newResolver(nil, []Provider{p})

	res, err := r.Resolve(context.Background(), "ADDR1", OpTransactions, Params{})
	if err != nil { t.Fatalf("err=%v", err) }
	want := []string{"newest", "older", "oldest"}
	for i, w := range want {
		if res.Transactions[i].Signature != w {
			t.Fatalf("order[%d]=%s want %s", i, res.Transactions[i].Signature, w)
		}
	}
}
