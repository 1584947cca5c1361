// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026 go-tracecore authors.

package tracecore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampledByRate(t *testing.T) {
	assert.True(t, sampledByRate(12345, 1))
	assert.False(t, sampledByRate(12345, 0))
	// Same id and rate must always decide the same way.
	a := sampledByRate(98765, 0.5)
	b := sampledByRate(98765, 0.5)
	assert.Equal(t, a, b)
}

func TestRateLimiterAllowsWithinBurst(t *testing.T) {
	rl := newRateLimiter(100)
	now := time.Now()
	allowedCount := 0
	for i := 0; i < 50; i++ {
		sampled, _ := rl.allowOne(now)
		if sampled {
			allowedCount++
		}
	}
	assert.Equal(t, 50, allowedCount)
}

func TestRateLimiterEffectiveRateAveragesWindows(t *testing.T) {
	rl := newRateLimiter(1000)
	now := time.Now()
	for i := 0; i < 10; i++ {
		rl.allowOne(now)
	}
	_, rate := rl.allowOne(now)
	require.Greater(t, rate, 0.0)
	assert.LessOrEqual(t, rate, 1.0)

	later := now.Add(2 * time.Second)
	_, rate = rl.allowOne(later)
	assert.LessOrEqual(t, rate, 1.0)
}

func TestUnlimitedRateLimiterAlwaysAllows(t *testing.T) {
	rl := unlimitedRateLimiter()
	now := time.Now()
	for i := 0; i < 1000; i++ {
		sampled, _ := rl.allowOne(now)
		assert.True(t, sampled)
	}
}
