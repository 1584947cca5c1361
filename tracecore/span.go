// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026 go-tracecore authors.

package tracecore

import "time"

// Span is the application-facing handle to one in-flight span. It owns a
// *SpanData exclusively until Finish is called; no lock guards
// field mutation through this handle, only the handoff at Finish time.
type Span struct {
	data    *SpanData
	segment *TraceSegment
	done    bool
}

// SpanID returns this span's id.
func (s *Span) SpanID() SpanID { return s.data.SpanID }

// TraceID returns the segment's trace id.
func (s *Span) TraceID() TraceID { return s.data.TraceID }

// Segment returns the owning TraceSegment, for collaborators that need to
// read the shared sampling decision or propagation tags (injectors).
func (s *Span) Segment() *TraceSegment { return s.segment }

// SetTag sets an arbitrary tag on the span's data. A no-op for reserved
// keys and once the span has finished.
func (s *Span) SetTag(key, value string) {
	if s.done {
		return
	}
	s.data.SetTag(key, value)
}

// RemoveTag removes a previously set tag. A no-op once the span has finished.
func (s *Span) RemoveTag(key string) {
	if s.done {
		return
	}
	s.data.RemoveTag(key)
}

// SetError records an error on the span via the dedicated error.* tags.
func (s *Span) SetError(message, typ, stack string) {
	if s.done {
		return
	}
	s.data.SetError(message, typ, stack)
}

// CreateChild starts a new span under the same segment, with s as its
// parent. A child always joins its parent's segment, never
// starts a new one.
func (s *Span) CreateChild(name, resource string) *Span {
	wall, tick := s.segment.clock.Now()
	child := newSpanData(s.data.TraceID, SpanID(s.segment.idGen.GenerateID()), s.data.SpanID, startTime{Wall: wall, Tick: tick})
	child.Service = s.data.Service
	child.Name = name
	child.Resource = resource

	s.segment.registerSpan(child)
	return &Span{data: child, segment: s.segment}
}

// FinishConfig holds the options a FinishOption can set.
type FinishConfig struct {
	// FinishTime overrides the end time used to compute duration. Zero
	// means use the configured clock.
	FinishTime time.Time
}

// FinishOption configures a single call to Span.Finish.
type FinishOption func(*FinishConfig)

// FinishTime sets an explicit end time for the span, overriding the
// segment's clock. The duration is computed against the span's start wall
// time rather than the clock's monotonic tick, since an externally supplied
// end time has no corresponding tick.
func FinishTime(t time.Time) FinishOption {
	return func(cfg *FinishConfig) {
		cfg.FinishTime = t
	}
}

// Finish marks the span complete and records its duration, using the
// configured clock unless opts supplies an explicit FinishTime. Idempotent:
// a second call is a no-op, so a repeat call is tolerated and does not
// double count.
func (s *Span) Finish(opts ...FinishOption) {
	if s.done {
		return
	}
	s.done = true

	var cfg FinishConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var d time.Duration
	if !cfg.FinishTime.IsZero() {
		d = cfg.FinishTime.Sub(s.data.start.Wall)
	} else {
		_, tick := s.segment.clock.Now()
		d = time.Duration(tick - s.data.start.Tick)
	}
	if d < 0 {
		d = 0
	}
	s.data.Duration = d
	s.segment.finishOne()
}

// OverrideSamplingPriority manually sets the trace's sampling decision.
// Delegates to the owning segment, since the decision is trace-scoped, not
// span-scoped.
func (s *Span) OverrideSamplingPriority(priority int) {
	s.segment.OverrideSamplingPriority(priority)
}
