// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026 go-tracecore authors.

package tracecore

import (
	"strings"

	"github.com/dd-trace-core/go-tracecore/tracecore/ext"
)

// SamplingDecision is the keep/drop classification attached to a trace,
// along with enough context to explain and re-propagate it.
type SamplingDecision struct {
	Priority  int
	Mechanism ext.SamplingMechanism
	Origin    ext.DecisionOrigin

	// ConfiguredRate is the rate that produced this decision, when the
	// mechanism is rate-based (RULE, AGENT_RATE, REMOTE_*_RATE).
	ConfiguredRate *float64
	// LimiterEffectiveRate is the token bucket's observed allow rate at the
	// moment this decision's span was evaluated, if a limiter was consulted.
	LimiterEffectiveRate *float64
	// LimiterMaxPerSecond is the configured limiter ceiling, if any.
	LimiterMaxPerSecond *float64
}

// Keep reports whether this decision keeps the trace (priority > 0).
func (d SamplingDecision) Keep() bool { return d.Priority > 0 }

// PropagationStyle names one of the supported wire formats for context
// propagation.
type PropagationStyle int

const (
	// StyleNone is the pseudo-style that extracts nothing and injects nothing.
	StyleNone PropagationStyle = iota
	// StyleDatadog is the x-datadog-* header format.
	StyleDatadog
	// StyleB3 is the multi-header B3 format (x-b3-traceid, etc).
	StyleB3
	// StyleW3C is the W3C Trace Context format (traceparent/tracestate).
	StyleW3C
)

func (s PropagationStyle) String() string {
	switch s {
	case StyleDatadog:
		return "datadog"
	case StyleB3:
		return "b3"
	case StyleW3C:
		return "tracecontext"
	default:
		return "none"
	}
}

// HeaderLookup records one successful header read, used to build the audit
// log attached to every ExtractedContext.
type HeaderLookup struct {
	Name  string
	Value string
}

// ExtractedContext is the intermediate form produced by a single-style
// extractor.
type ExtractedContext struct {
	Style PropagationStyle

	TraceID          *TraceID
	ParentID         *SpanID
	SamplingPriority *int
	Origin           *string

	// TraceTags holds ordered `_dd.p.*` propagating tags extracted from the
	// wire. Order matters for deterministic re-emission.
	TraceTags []TagKV

	// FullW3CTraceIDHex preserves the exact 32-hex trace id as it appeared
	// in an incoming traceparent header, so injection can round-trip it
	// byte for byte instead of reformatting from the parsed halves.
	FullW3CTraceIDHex string

	// AdditionalW3CTracestate holds non-dd vendor entries from tracestate,
	// preserved verbatim for round-trip re-emission.
	AdditionalW3CTracestate string

	// AdditionalDatadogW3CTracestate holds unknown dd-subkeys from
	// tracestate's dd= entry, preserved for re-emission.
	AdditionalDatadogW3CTracestate string

	// DatadogW3CParentID is the last Datadog parent span id as 16 hex
	// digits: read from the p: field of tracestate's dd= entry, or, during
	// merge when the primary and W3C parent ids disagree, taken from the
	// Datadog context's parent id.
	DatadogW3CParentID string

	HeadersExamined []HeaderLookup

	// RootTags carries side-effect diagnostic tags (propagation/extraction
	// error markers) that get written directly onto the root span's tags,
	// as opposed to TraceTags which propagate onward on the wire.
	RootTags []TagKV
}

func (c *ExtractedContext) setRootTag(key, value string) {
	for i := range c.RootTags {
		if c.RootTags[i].Key == key {
			c.RootTags[i].Value = value
			return
		}
	}
	c.RootTags = append(c.RootTags, TagKV{Key: key, Value: value})
}

// TagKV is an ordered key/value pair. ExtractedContext.TraceTags and the
// x-datadog-tags wire encoding both need order preservation, which a plain
// map does not give us.
type TagKV struct {
	Key   string
	Value string
}

// TraceTag looks up a key within ctx's TraceTags, returning ok=false if
// absent.
func (c *ExtractedContext) TraceTag(key string) (string, bool) {
	if c == nil {
		return "", false
	}
	for _, kv := range c.TraceTags {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// SetTraceTag sets key to value within ctx's TraceTags, replacing an
// existing entry in place or appending a new one.
func (c *ExtractedContext) SetTraceTag(key, value string) {
	for i := range c.TraceTags {
		if c.TraceTags[i].Key == key {
			c.TraceTags[i].Value = value
			return
		}
	}
	c.TraceTags = append(c.TraceTags, TagKV{Key: key, Value: value})
}

// reservedPrefix is the namespace reserved for internal tags; public tag
// mutation is a no-op for any key under it.
const reservedPrefix = "_dd."

// reservedExact names the non-_dd.-prefixed keys that are nonetheless
// reserved, writable only through dedicated error operations.
var reservedExact = map[string]bool{
	"error.message": true,
	"error.type":    true,
	"error.stack":   true,
}

// isReservedTag reports whether key falls in the internal namespace and so
// is rejected by the public Span.SetTag/RemoveTag operations.
func isReservedTag(key string) bool {
	return strings.HasPrefix(key, reservedPrefix) || reservedExact[key]
}

// Well-known tag keys.
const (
	tagPropagationError    = "_dd.propagation_error"
	tagW3CExtractionError  = "_dd.w3c_extraction_error"
	tagDecisionMaker       = "_dd.p.dm"
	tagTraceID128          = "_dd.p.tid"
	tagHostname            = "_dd.hostname"
	tagOrigin              = "_dd.origin"
	tagAgentPSR            = "_dd.agent_psr"
	tagRulePSR             = "_dd.rule_psr"
	tagLimitPSR            = "_dd.limit_psr"
	tagSamplingPriorityV1  = "_sampling_priority_v1"
	tagSpanSamplingMech    = "_dd.span_sampling.mechanism"
	tagSpanSamplingRate    = "_dd.span_sampling.rule_rate"
	tagSpanSamplingMPS     = "_dd.span_sampling.max_per_second"
)

// tagTraceTagsPrefix is the only admissible key prefix for propagating
// trace tags carried in TraceTags/x-datadog-tags/tracestate's dd= entry.
const tagTraceTagsPrefix = "_dd.p."
