// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026 go-tracecore authors.

package tracecore

import "sync"

// decisionState is the thread-safe holder for a segment's sampling decision
// and the propagation tags derived from it. TraceSegment embeds it rather
// than guarding these fields with its own lock directly, keeping the
// concern isolated and independently testable, the same way span identity
// is split from trace-wide shared state.
type decisionState struct {
	mu        sync.Mutex
	decision  *SamplingDecision
	traceTags []TagKV

	fullW3CTraceIDHex              string
	additionalW3CTracestate        string
	additionalDatadogW3CTracestate string
}

// Decision returns the current decision and whether one has been made yet.
func (d *decisionState) Decision() (SamplingDecision, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.decision == nil {
		return SamplingDecision{}, false
	}
	return *d.decision, true
}

// setDecisionLocked installs dec as the decision and updates the
// `_dd.p.dm` propagating tag per the invariant that it is present iff the
// decision exists and priority > 0, valued "-" + mechanism. Caller must
// hold d.mu.
func (d *decisionState) setDecisionLocked(dec SamplingDecision) {
	d.decision = &dec
	if dec.Priority > 0 {
		d.setTraceTagLocked(tagDecisionMaker, dec.Mechanism.DecisionMakerTag())
	} else {
		d.removeTraceTagLocked(tagDecisionMaker)
	}
}

// SetDecisionIfAbsent installs dec only if no decision exists yet. Returns
// true if it was installed. Used both by finalization (materializing the
// TraceSampler's decision) and by NewRootSpan (seeding a decision carried
// in an extracted context). Manual overrides go through Override instead.
func (d *decisionState) SetDecisionIfAbsent(dec SamplingDecision) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.decision != nil {
		return false
	}
	d.setDecisionLocked(dec)
	return true
}

// Override installs dec unconditionally, overwriting any prior decision.
// This is how an application-level manual priority override takes effect;
// observers after a manual override always see that decision, never an
// earlier or concurrently materialized one.
func (d *decisionState) Override(dec SamplingDecision) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.setDecisionLocked(dec)
}

func (d *decisionState) setTraceTagLocked(key, value string) {
	for i := range d.traceTags {
		if d.traceTags[i].Key == key {
			d.traceTags[i].Value = value
			return
		}
	}
	d.traceTags = append(d.traceTags, TagKV{Key: key, Value: value})
}

func (d *decisionState) removeTraceTagLocked(key string) {
	for i := range d.traceTags {
		if d.traceTags[i].Key == key {
			d.traceTags = append(d.traceTags[:i], d.traceTags[i+1:]...)
			return
		}
	}
}

// SetTraceTag sets a propagation tag under lock.
func (d *decisionState) SetTraceTag(key, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.setTraceTagLocked(key, value)
}

// TraceTag reads a propagation tag under lock.
func (d *decisionState) TraceTag(key string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, kv := range d.traceTags {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Snapshot captures everything an injector needs under a single lock
// acquisition: TraceSegment snapshots decision and trace tags under lock,
// and an injector writes headers from the snapshot without holding it.
type Snapshot struct {
	TraceID                        TraceID
	SpanID                         SpanID
	SamplingPriority               int
	HasPriority                    bool
	Origin                         string
	TraceTags                      []TagKV
	FullW3CTraceIDHex              string
	AdditionalW3CTracestate        string
	AdditionalDatadogW3CTracestate string
}

func (d *decisionState) snapshotLocked() (priority int, hasPriority bool, tags []TagKV) {
	if d.decision != nil {
		priority, hasPriority = d.decision.Priority, true
	}
	tags = make([]TagKV, len(d.traceTags))
	copy(tags, d.traceTags)
	return
}
