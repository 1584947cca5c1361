// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026 go-tracecore authors.

package tracecore

import (
	"sync"

	"github.com/dd-trace-core/go-tracecore/internal/log"
	"github.com/dd-trace-core/go-tracecore/tracecore/ext"
)

// ServiceEnv keys the collector-fed agent-rate table consulted by
// TraceSampler.
type ServiceEnv struct {
	Service string
	Env     string
}

// traceSampler is the subset of TraceSampler that TraceSegment finalization
// needs. Declared as an interface here, rather than depending on the
// concrete *TraceSampler type, so segment.go and sampler.go stay decoupled.
type traceSampler interface {
	Decide(root *SpanData) SamplingDecision
	SamplerFeedback
}

// spanSampler is the subset of SpanSampler that finalization needs.
type spanSampler interface {
	// Sample attempts to rescue sd from an otherwise dropped trace. It
	// returns true and tags sd in place if a rule matched and the rule's
	// own rate/limiter accepted it.
	Sample(sd *SpanData) bool
}

// TraceSegment owns the process-local portion of a trace: its spans, their
// finished count, the shared sampling decision, and the trace-level
// propagation tags.
type TraceSegment struct {
	decisionState

	mu          sync.Mutex
	traceID     TraceID
	spans       []*SpanData
	numFinished int
	finalized   bool

	injectionStyles []PropagationStyle
	hostname        string

	sampler     traceSampler
	spanSampler spanSampler
	collector   Collector
	clock       Clock
	idGen       IDGenerator
}

// SegmentConfig configures a new root span and the segment it creates.
// Fields mirror the external collaborators a host application wires in: the
// application-facing facade (out of scope here) is expected to have already
// resolved configuration, clock, and id-generator instances before calling
// NewRootSpan.
type SegmentConfig struct {
	TraceID  TraceID // zero means generate a fresh 64-bit id from IDGen
	Service  string
	Name     string
	Resource string

	// Extracted carries propagation state recovered from an inbound
	// request, when this root span continues a remote trace. nil for a
	// locally originated trace.
	Extracted *ExtractedContext

	InjectionStyles []PropagationStyle
	Hostname        string

	Sampler     traceSampler
	SpanSampler spanSampler
	Collector   Collector
	Clock       Clock
	IDGen       IDGenerator
}

// NewRootSpan creates a new TraceSegment and its root Span. A segment comes
// into being when a root span is born, whether from extraction or from a
// fresh local decision.
func NewRootSpan(cfg SegmentConfig) *Span {
	wall, tick := cfg.Clock.Now()

	traceID := cfg.TraceID
	var parentID SpanID
	var decision *SamplingDecision
	var traceTags []TagKV
	var fullHex, addlW3C, addlDDW3C string
	var rootTags []TagKV

	if cfg.Extracted != nil {
		ec := cfg.Extracted
		if ec.TraceID != nil {
			traceID = *ec.TraceID
		}
		if ec.ParentID != nil {
			parentID = *ec.ParentID
		}
		if ec.SamplingPriority != nil {
			decision = &SamplingDecision{
				Priority:  *ec.SamplingPriority,
				Mechanism: ext.MechanismAppDecision,
				Origin:    ext.OriginExtracted,
			}
		}
		traceTags = append(traceTags, ec.TraceTags...)
		fullHex = ec.FullW3CTraceIDHex
		addlW3C = ec.AdditionalW3CTracestate
		addlDDW3C = ec.AdditionalDatadogW3CTracestate
		rootTags = ec.RootTags
	}
	if traceID.Empty() {
		traceID = TraceID{Low: cfg.IDGen.GenerateID()}
	}

	root := newSpanData(traceID, SpanID(cfg.IDGen.GenerateID()), parentID, startTime{Wall: wall, Tick: tick})
	root.Service = cfg.Service
	root.Name = cfg.Name
	root.Resource = cfg.Resource
	for _, kv := range rootTags {
		root.setInternalTag(kv.Key, kv.Value)
	}

	seg := &TraceSegment{
		traceID:         traceID,
		spans:           []*SpanData{root},
		injectionStyles: cfg.InjectionStyles,
		hostname:        cfg.Hostname,
		sampler:         cfg.Sampler,
		spanSampler:     cfg.SpanSampler,
		collector:       cfg.Collector,
		clock:           cfg.Clock,
		idGen:           cfg.IDGen,
	}
	seg.decisionState.traceTags = traceTags
	seg.decisionState.fullW3CTraceIDHex = fullHex
	seg.decisionState.additionalW3CTracestate = addlW3C
	seg.decisionState.additionalDatadogW3CTracestate = addlDDW3C
	if decision != nil {
		seg.decisionState.SetDecisionIfAbsent(*decision)
	}

	return &Span{data: root, segment: seg}
}

// registerSpan appends a newly created child span to the segment under
// lock. Invariant maintained: num_finished <= len(spans) at all times.
func (seg *TraceSegment) registerSpan(sd *SpanData) {
	seg.mu.Lock()
	seg.spans = append(seg.spans, sd)
	seg.mu.Unlock()
}

// finishOne is called by a Span when it finishes. If it is the last span to
// finish, finalization runs synchronously on this goroutine.
func (seg *TraceSegment) finishOne() {
	seg.mu.Lock()
	seg.numFinished++
	last := seg.numFinished == len(seg.spans)
	seg.mu.Unlock()
	if last {
		seg.finalize()
	}
}

// finalize runs the finishing sequence exactly once.
func (seg *TraceSegment) finalize() {
	seg.mu.Lock()
	if seg.finalized {
		seg.mu.Unlock()
		return
	}
	seg.finalized = true
	spans := seg.spans
	seg.mu.Unlock()

	root := spans[0]

	// Step 1: materialize the decision if still null.
	dec, existed := seg.Decision()
	if !existed {
		dec = seg.sampler.Decide(root)
		seg.decisionState.SetDecisionIfAbsent(dec)
		dec, _ = seg.Decision()
	}

	// Step 2: rescue spans if the trace is being dropped.
	if dec.Priority <= 0 && seg.spanSampler != nil {
		for _, sd := range spans {
			seg.spanSampler.Sample(sd)
		}
	}

	// Step 3: merge trace tags into root, write priority/rate tags.
	seg.decisionState.mu.Lock()
	tags := make([]TagKV, len(seg.decisionState.traceTags))
	copy(tags, seg.decisionState.traceTags)
	seg.decisionState.mu.Unlock()
	for _, kv := range tags {
		root.setInternalTag(kv.Key, kv.Value)
	}
	root.setInternalMetric(tagSamplingPriorityV1, float64(dec.Priority))
	if seg.hostname != "" {
		root.setInternalTag(tagHostname, seg.hostname)
	}
	if dec.Origin != ext.OriginExtracted {
		switch dec.Mechanism {
		case ext.MechanismAgentRate:
			if dec.ConfiguredRate != nil {
				root.setInternalMetric(tagAgentPSR, *dec.ConfiguredRate)
			}
		case ext.MechanismRule, ext.MechanismRemoteUserRate, ext.MechanismRemoteAutoRate:
			if dec.ConfiguredRate != nil {
				root.setInternalMetric(tagRulePSR, *dec.ConfiguredRate)
			}
			if dec.LimiterEffectiveRate != nil {
				root.setInternalMetric(tagLimitPSR, *dec.LimiterEffectiveRate)
			}
		}
	}

	// Step 4: copy origin onto every span.
	if origin, ok := seg.TraceTag(tagOrigin); ok && origin != "" {
		for _, sd := range spans {
			sd.setInternalTag(tagOrigin, origin)
		}
	}

	// Step 5: hand off to the collector.
	if err := seg.collector.Send(spans, seg.sampler); err != nil {
		log.Error("tracecore: failed to send trace: %v", err)
	}
}

// OverrideSamplingPriority sets a manual sampling decision, taking
// precedence over whatever TraceSampler would otherwise decide.
func (seg *TraceSegment) OverrideSamplingPriority(priority int) {
	seg.decisionState.Override(SamplingDecision{
		Priority:  priority,
		Mechanism: ext.MechanismManual,
		Origin:    ext.OriginLocal,
	})
}

// InjectionSnapshot captures the segment state an injector needs, under a
// single lock acquisition.
func (seg *TraceSegment) InjectionSnapshot(spanID SpanID) Snapshot {
	seg.decisionState.mu.Lock()
	priority, hasPriority, tags := seg.decisionState.snapshotLocked()
	snap := Snapshot{
		TraceID:                        seg.traceID,
		SpanID:                         spanID,
		SamplingPriority:               priority,
		HasPriority:                    hasPriority,
		TraceTags:                      tags,
		FullW3CTraceIDHex:              seg.decisionState.fullW3CTraceIDHex,
		AdditionalW3CTracestate:        seg.decisionState.additionalW3CTracestate,
		AdditionalDatadogW3CTracestate: seg.decisionState.additionalDatadogW3CTracestate,
	}
	if v, ok := seg.TraceTagLocked(tagOrigin); ok {
		snap.Origin = v
	}
	seg.decisionState.mu.Unlock()
	return snap
}

// TraceTagLocked is TraceTag without acquiring the lock; callers must
// already hold decisionState.mu.
func (d *decisionState) TraceTagLocked(key string) (string, bool) {
	for _, kv := range d.traceTags {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// NumSpans reports the current span count, for tests asserting the
// |spans| = num_finished invariant post-finalization.
func (seg *TraceSegment) NumSpans() int {
	seg.mu.Lock()
	defer seg.mu.Unlock()
	return len(seg.spans)
}

// NumFinished reports the current finished count.
func (seg *TraceSegment) NumFinished() int {
	seg.mu.Lock()
	defer seg.mu.Unlock()
	return seg.numFinished
}

// TraceID returns the segment's trace id.
func (seg *TraceSegment) TraceID() TraceID { return seg.traceID }
