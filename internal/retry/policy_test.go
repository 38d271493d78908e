package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/dumpsite/internal/config"
)

func TestFromConfig(t *testing.T) {
	tests := []struct {
		name string
		in   config.RetryConfig
		want Policy
	}{
		{name: "defaults", want: DefaultPolicy()},
		{
			name: "overrides",
			in:   config.RetryConfig{Backoff: "Exponential", Initial: "1s", Max: "4s", MaxRetries: 5},
			want: Policy{Mode: config.RetryBackoffExponential, Initial: time.Second, Max: 4 * time.Second, MaxRetries: 5},
		},
		{
			name: "initial clamped to max",
			in:   config.RetryConfig{Backoff: "fixed", Initial: "5s", Max: "1s"},
			want: Policy{Mode: config.RetryBackoffFixed, Initial: time.Second, Max: time.Second, MaxRetries: 2},
		},
		{
			name: "disabled",
			in:   config.RetryConfig{MaxRetries: -1},
			want: Policy{Mode: config.RetryBackoffLinear, Initial: 200 * time.Millisecond, Max: 2 * time.Second},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromConfig(tt.in))
		})
	}
}

func TestDelay(t *testing.T) {
	ms := time.Millisecond
	tests := []struct {
		mode config.RetryBackoffMode
		want []time.Duration
	}{
		{config.RetryBackoffFixed, []time.Duration{100 * ms, 100 * ms, 100 * ms, 100 * ms}},
		{config.RetryBackoffLinear, []time.Duration{100 * ms, 200 * ms, 250 * ms, 250 * ms}},
		{config.RetryBackoffExponential, []time.Duration{100 * ms, 200 * ms, 250 * ms, 250 * ms}},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			p := Policy{Mode: tt.mode, Initial: 100 * ms, Max: 250 * ms, MaxRetries: 4}
			for i, want := range tt.want {
				assert.Equal(t, want, p.Delay(i+1), "retry %d", i+1)
			}
			assert.Zero(t, p.Delay(0))
		})
	}
}

func TestDo(t *testing.T) {
	boom := errors.New("boom")
	p := Policy{Mode: config.RetryBackoffFixed, Initial: time.Millisecond, Max: time.Millisecond, MaxRetries: 2}

	calls := 0
	err := p.Do(t.Context(), func(context.Context) error {
		calls++
		if calls < 3 {
			return boom
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = p.Do(t.Context(), func(context.Context) error { calls++; return boom })
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "after 3 attempts")

	calls = 0
	err = Policy{}.Do(t.Context(), func(context.Context) error { calls++; return boom })
	assert.Equal(t, boom, err)
	assert.Equal(t, 1, calls)
}

func TestDoStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	p := Policy{Mode: config.RetryBackoffFixed, Initial: time.Hour, Max: time.Hour, MaxRetries: 3}
	err := p.Do(ctx, func(context.Context) error { return errors.New("down") })
	require.ErrorIs(t, err, context.Canceled)
}
