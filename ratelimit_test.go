package moodletl

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateLimiter_Burst(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{RequestsPerMinute: 60, BurstSize: 3})

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow(), "token %d", i)
	}
	assert.False(t, limiter.Allow())
}

func TestNewRateLimiter_Defaults(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{})

	assert.Equal(t, 1, limiter.Burst())
	assert.InDelta(t, 1.0, float64(limiter.Limit()), 0.0001)
}

type countingProvider struct {
	calls int
}

func (p *countingProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	p.calls++
	return req.Texts, nil
}

func TestRateLimitedProvider_Translate(t *testing.T) {
	inner := &countingProvider{}
	p := NewRateLimitedProvider(inner, RateLimitConfig{RequestsPerMinute: 6000, BurstSize: 2})

	for i := 0; i < 3; i++ {
		out, err := p.Translate(context.Background(), TranslateRequest{Texts: []string{"hello there"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"hello there"}, out)
	}
	assert.Equal(t, 3, inner.calls)
}

func TestRateLimitedProvider_ContextCancelled(t *testing.T) {
	inner := &countingProvider{}
	p := NewRateLimitedProvider(inner, RateLimitConfig{RequestsPerMinute: 1, BurstSize: 1})
	require.True(t, p.Limiter().Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.Translate(ctx, TranslateRequest{Texts: []string{"hello there"}})
	require.Error(t, err)

	var providerErr *ProviderError
	assert.True(t, errors.As(err, &providerErr))
	assert.False(t, providerErr.Retryable)
	assert.Equal(t, 0, inner.calls)
}
