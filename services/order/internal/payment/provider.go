// Package payment simulates the payment gateway. Outcomes are decided locally; no money moves.
package payment

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const (
	ProviderTag        = "DummyPay"
	DefaultSuccessRate = 0.70
)

type Result struct {
	Succeeded bool
	Provider  string
}

// Provider decides whether a charge for amount succeeds. Failure is a normal outcome, not an error.
type Provider interface {
	Charge(ctx context.Context, amount decimal.Decimal) Result
}

type RandomProvider struct {
	SuccessRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomProvider clamps rate to [0, 1]. A nil rng is replaced by a time-seeded source.
func NewRandomProvider(rate float64, rng *rand.Rand) *RandomProvider {
	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &RandomProvider{SuccessRate: rate, rng: rng}
}

func (p *RandomProvider) Charge(_ context.Context, _ decimal.Decimal) Result {
	p.mu.Lock()
	roll := p.rng.Float64()
	p.mu.Unlock()

	return Result{Succeeded: roll < p.SuccessRate, Provider: ProviderTag}
}

type ForcedProvider struct {
	Outcome bool
}

func (p ForcedProvider) Charge(_ context.Context, _ decimal.Decimal) Result {
	return Result{Succeeded: p.Outcome, Provider: ProviderTag}
}

// FromSettings returns a ForcedProvider when forced is non-nil, otherwise a RandomProvider.
func FromSettings(rate float64, forced *bool) Provider {
	if forced != nil {
		return ForcedProvider{Outcome: *forced}
	}
	return NewRandomProvider(rate, nil)
}
