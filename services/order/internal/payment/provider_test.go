package payment

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestForcedProvider(t *testing.T) {
	t.Parallel()

	for _, outcome := range []bool{true, false} {
		res := ForcedProvider{Outcome: outcome}.Charge(context.Background(), decimal.NewFromInt(10))
		require.Equal(t, outcome, res.Succeeded)
		require.Equal(t, ProviderTag, res.Provider)
	}
}

func TestRandomProvider_Extremes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rate float64
		want bool
	}{
		{"always", 1, true},
		{"never", 0, false},
		{"clamped high", 3, true},
		{"clamped low", -1, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := NewRandomProvider(tt.rate, rand.New(rand.NewSource(1)))
			for i := 0; i < 50; i++ {
				require.Equal(t, tt.want, p.Charge(context.Background(), decimal.Zero).Succeeded)
			}
		})
	}
}

func TestRandomProvider_Rate(t *testing.T) {
	t.Parallel()

	p := NewRandomProvider(DefaultSuccessRate, rand.New(rand.NewSource(42)))

	const n = 10000
	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := 0
			for i := 0; i < n/8; i++ {
				if p.Charge(context.Background(), decimal.NewFromInt(1)).Succeeded {
					local++
				}
			}
			mu.Lock()
			ok += local
			mu.Unlock()
		}()
	}
	wg.Wait()

	rate := float64(ok) / n
	require.InDelta(t, DefaultSuccessRate, rate, 0.05)
}

func TestFromSettings(t *testing.T) {
	t.Parallel()

	forced := false
	p := FromSettings(1, &forced)
	require.IsType(t, ForcedProvider{}, p)
	require.False(t, p.Charge(context.Background(), decimal.Zero).Succeeded)

	p = FromSettings(0.5, nil)
	rp, ok := p.(*RandomProvider)
	require.True(t, ok)
	require.Equal(t, 0.5, rp.SuccessRate)
}
