// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026 go-tracecore authors.

package tracecore

import "time"

// startTime records both halves of the clock contract's result: Wall is
// absolute time for reporting, Tick is the monotonic reference used for
// duration arithmetic.
type startTime struct {
	Wall time.Time
	Tick int64
}

// SpanData holds one span's mutable state. It is owned by exactly one Span
// handle at a time and is never locked for plain field mutation —
// only the owning handle touches it until the span finishes.
type SpanData struct {
	TraceID     TraceID
	SpanID      SpanID
	ParentID    SpanID
	Service     string
	ServiceType string
	Name        string
	Resource    string

	start    startTime
	Duration time.Duration
	Error    bool

	Tags        map[string]string
	NumericTags map[string]float64
}

func newSpanData(traceID TraceID, spanID, parentID SpanID, start startTime) *SpanData {
	return &SpanData{
		TraceID:     traceID,
		SpanID:      spanID,
		ParentID:    parentID,
		start:       start,
		Tags:        make(map[string]string),
		NumericTags: make(map[string]float64),
	}
}

// SetTag sets an arbitrary string tag. Keys in the reserved internal
// namespace are silently rejected.
func (s *SpanData) SetTag(key, value string) {
	if isReservedTag(key) {
		return
	}
	s.Tags[key] = value
}

// RemoveTag removes a previously set string tag. A reserved key is a no-op.
func (s *SpanData) RemoveTag(key string) {
	if isReservedTag(key) {
		return
	}
	delete(s.Tags, key)
}

// SetError sets the dedicated error tags, the one path by which the
// reserved error.* namespace may be written.
func (s *SpanData) SetError(message, typ, stack string) {
	s.Error = true
	s.setInternalTag("error.message", message)
	s.setInternalTag("error.type", typ)
	s.setInternalTag("error.stack", stack)
}

// setInternalTag bypasses the reserved-key rejection; only internal
// callers (finalization, error reporting, decision materialization) use it.
func (s *SpanData) setInternalTag(key, value string) {
	s.Tags[key] = value
}

func (s *SpanData) setInternalMetric(key string, value float64) {
	s.NumericTags[key] = value
}
