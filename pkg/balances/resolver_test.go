package balances

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/slhlabs/wallet-middleware/pkg/wallet"
)

type stubChainProvider struct {
	NativeBalanceFunc func(ctx context.Context, address string) (Amount, error)
	TokenBalanceFunc  func(ctx context.Context, address string) (Amount, error)
}

func (s *stubChainProvider) NativeBalance(ctx context.Context, address string) (Amount, error) {
	if s.NativeBalanceFunc != nil {
		return s.NativeBalanceFunc(ctx, address)
	}
	return Amount{}, nil
}

func (s *stubChainProvider) TokenBalance(ctx context.Context, address string) (Amount, error) {
	if s.TokenBalanceFunc != nil {
		return s.TokenBalanceFunc(ctx, address)
	}
	return Amount{}, nil
}

type stubTonProvider struct {
	TokenBalanceFunc func(ctx context.Context, address string) (Amount, error)
}

func (s *stubTonProvider) TokenBalance(ctx context.Context, address string) (Amount, error) {
	if s.TokenBalanceFunc != nil {
		return s.TokenBalanceFunc(ctx, address)
	}
	return Amount{}, nil
}

func testWallet() *wallet.Wallet {
	return &wallet.Wallet{
		IdentityID:      "42",
		BNBAddress:      "0x1111111111111111111111111111111111111111",
		SLHAddress:      "0x2222222222222222222222222222222222222222",
		SLHTonAddress:   "EQAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
		InternalBalance: decimal.NewFromInt(100),
		InternalLocked:  decimal.NewFromInt(30),
	}
}

func TestResolverPreservesRawAmounts(t *testing.T) {
	chain := &stubChainProvider{
		NativeBalanceFunc: func(_ context.Context, _ string) (Amount, error) {
			return Amount{Raw: "1500000000000000000", Value: decimal.NewFromFloat(1.5)}, nil
		},
		TokenBalanceFunc: func(_ context.Context, _ string) (Amount, error) {
			return Amount{Raw: "250000000000000000000", Value: decimal.NewFromInt(250)}, nil
		},
	}
	ton := &stubTonProvider{
		TokenBalanceFunc: func(_ context.Context, _ string) (Amount, error) {
			return Amount{Raw: "7000000000", Value: decimal.NewFromInt(7)}, nil
		},
	}

	r := NewResolver(chain, ton, time.Second, zap.NewNop())
	snap := r.Resolve(context.Background(), testWallet())

	if !snap.BNB.Available || snap.BNB.Raw != "1500000000000000000" {
		t.Fatalf("bnb field mismatch: %+v", snap.BNB)
	}
	if !snap.Token.Available || !snap.Token.Value.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("token field mismatch: %+v", snap.Token)
	}
	if !snap.TonToken.Available || snap.TonToken.Raw != "7000000000" {
		t.Fatalf("ton field mismatch: %+v", snap.TonToken)
	}
	if !snap.AvailableAmount.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("expected available 70, got %s", snap.AvailableAmount)
	}
}

func TestResolverProviderFailureMarksFieldUnavailable(t *testing.T) {
	chain := &stubChainProvider{
		NativeBalanceFunc: func(_ context.Context, _ string) (Amount, error) {
			return Amount{}, errors.New("rpc timeout")
		},
		TokenBalanceFunc: func(_ context.Context, _ string) (Amount, error) {
			return Amount{Raw: "5", Value: decimal.NewFromInt(5)}, nil
		},
	}

	r := NewResolver(chain, nil, time.Second, zap.NewNop())
	snap := r.Resolve(context.Background(), testWallet())

	if snap.BNB.Available {
		t.Fatal("expected bnb field to be unavailable after provider error")
	}
	if !snap.BNB.Value.IsZero() || snap.BNB.Raw != "0" {
		t.Fatalf("expected zero bnb amount, got %+v", snap.BNB)
	}

	// The other fields are independent of the failure.
	if !snap.Token.Available || !snap.Token.Value.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("token field mismatch: %+v", snap.Token)
	}
}

func TestResolverSkipsUnsetAddresses(t *testing.T) {
	called := false
	chain := &stubChainProvider{
		NativeBalanceFunc: func(_ context.Context, _ string) (Amount, error) {
			called = true
			return Amount{}, nil
		},
	}

	w := testWallet()
	w.BNBAddress = ""
	w.SLHTonAddress = ""

	r := NewResolver(chain, nil, time.Second, zap.NewNop())
	snap := r.Resolve(context.Background(), w)

	if called {
		t.Fatal("native balance provider must not be called without an address")
	}
	if snap.BNB.Available || snap.TonToken.Available {
		t.Fatalf("unset addresses must resolve unavailable: %+v", snap)
	}
	// skipped fields carry the same shape as failed lookups
	if snap.BNB.Raw != "0" || snap.TonToken.Raw != "0" {
		t.Fatalf("unresolved fields must carry raw zero: %+v", snap)
	}
}

func TestResolverWithoutProviders(t *testing.T) {
	r := NewResolver(nil, nil, time.Second, zap.NewNop())
	snap := r.Resolve(context.Background(), testWallet())

	if snap.BNB.Available || snap.Token.Available || snap.TonToken.Available {
		t.Fatalf("expected all fields unavailable, got %+v", snap)
	}
	if snap.BNB.Raw != "0" || snap.Token.Raw != "0" || snap.TonToken.Raw != "0" {
		t.Fatalf("unresolved fields must carry raw zero: %+v", snap)
	}
	if !snap.InternalBalance.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("internal balance mismatch: %s", snap.InternalBalance)
	}
}
