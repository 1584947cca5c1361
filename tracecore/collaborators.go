// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026 go-tracecore authors.

package tracecore

import "time"

// Collector is the external collaborator that forwards a finished span
// batch to the local agent. An application facade supplies it; HTTPCollector
// is the implementation this module provides.
type Collector interface {
	// Send delivers spans to the agent. sampler is offered so that the
	// collector can hand back agent-provided rates after a response (see
	// TraceSampler.UpdateAgentRates); the core places no further
	// requirements on how or whether the collector uses it.
	Send(spans []*SpanData, sampler SamplerFeedback) error
}

// SamplerFeedback is the subset of TraceSampler exposed to collectors so
// remote rate updates can flow back in without collectors depending on the
// whole sampler type.
type SamplerFeedback interface {
	UpdateAgentRates(rates map[ServiceEnv]float64)
}

// Clock is the external collaborator producing timestamps. Wall is used for
// reporting; Tick is a monotonic reference for duration arithmetic, so that
// system clock adjustments never produce a negative span duration.
type Clock interface {
	Now() (wall time.Time, tick int64)
}

// IDGenerator produces random 64-bit identifiers for new spans/traces.
type IDGenerator interface {
	GenerateID() uint64
}
