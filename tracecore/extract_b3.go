// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026 go-tracecore authors.

package tracecore

import "github.com/dd-trace-core/go-tracecore/internal/log"

const (
	headerB3TraceID = "x-b3-traceid"
	headerB3SpanID  = "x-b3-spanid"
	headerB3Sampled = "x-b3-sampled"
)

// ExtractB3 reads the multi-header B3 format. The single-header variant is
// not supported.
func ExtractB3(carrier HeaderCarrier) *ExtractedContext {
	r := newAuditReader(carrier)

	raw, ok := r.lookup(headerB3TraceID)
	if !ok {
		return nil
	}
	traceID, err := TraceIDFromHex(raw)
	if err != nil {
		log.Debug("tracecore: b3 trace id: %v", err)
		return nil
	}

	ctx := &ExtractedContext{Style: StyleB3, TraceID: &traceID}

	if raw, ok := r.lookup(headerB3SpanID); ok {
		spanID, err := SpanIDFromHex(raw)
		if err != nil {
			log.Debug("tracecore: b3 span id: %v", err)
			return nil
		}
		ctx.ParentID = &spanID
	}

	if raw, ok := r.lookup(headerB3Sampled); ok {
		var p int
		switch raw {
		case "1":
			p = 1
		case "0":
			p = 0
		default:
			log.Debug("tracecore: b3 sampled: unexpected value %q", raw)
			return nil
		}
		ctx.SamplingPriority = &p
	}

	ctx.HeadersExamined = r.log
	return ctx
}
