// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026 go-tracecore authors.

package tracecore

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// rateLimiter wraps golang.org/x/time/rate to additionally report the
// effective allow rate observed over the current and previous one-second
// windows, which TraceSampler/SpanSampler attach to span tags.
type rateLimiter struct {
	limiter *rate.Limiter

	mu          sync.Mutex
	prevTime    time.Time
	allowed     float64
	seen        float64
	prevAllowed float64
	prevSeen    float64
}

// newRateLimiter returns a limiter that allows up to perSecond events per
// second, with a burst ceiling equal to the rounded-up rate.
func newRateLimiter(perSecond float64) *rateLimiter {
	return &rateLimiter{
		limiter:  rate.NewLimiter(rate.Limit(perSecond), int(math.Ceil(perSecond))),
		prevTime: time.Now(),
	}
}

// unlimitedRateLimiter returns a limiter with no effective ceiling, the
// default for a span-sampling rule that doesn't specify max_per_second.
func unlimitedRateLimiter() *rateLimiter {
	return newRateLimiter(math.MaxFloat64)
}

// allowOne reports whether one more event may proceed now, and the
// effective rate computed by averaging the previous one-second window with
// the current one.
func (r *rateLimiter) allowOne(now time.Time) (bool, float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d := now.Sub(r.prevTime); d >= time.Second {
		if d.Truncate(time.Second) == time.Second && r.seen > 0 {
			r.prevAllowed = r.allowed
			r.prevSeen = r.seen
		} else {
			r.prevAllowed = 0
			r.prevSeen = 0
		}
		r.prevTime = now
		r.allowed = 0
		r.seen = 0
	}

	r.seen++
	var sampled bool
	if r.limiter.AllowN(now, 1) {
		r.allowed++
		sampled = true
	}
	effectiveRate := (r.prevAllowed + r.allowed) / (r.prevSeen + r.seen)
	return sampled, effectiveRate
}

// maxPerSecond returns the limiter's configured ceiling.
func (r *rateLimiter) maxPerSecond() float64 {
	return float64(r.limiter.Limit())
}

// knuthFactor is the multiplicative hashing constant used to deterministically
// decide whether an id falls within a sampling rate, matching the agent's
// own sampling decision so client and agent agree on the same ids.
const knuthFactor = uint64(1111111111111111111)

// sampledByRate reports whether n falls within the given rate, using the
// same deterministic multiplicative hash the agent uses.
func sampledByRate(n uint64, rate float64) bool {
	if rate >= 1 {
		return true
	}
	if rate <= 0 {
		return false
	}
	return n*knuthFactor < uint64(rate*math.MaxUint64)
}
