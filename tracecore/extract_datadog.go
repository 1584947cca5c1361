// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026 go-tracecore authors.

package tracecore

import (
	"strconv"

	"github.com/dd-trace-core/go-tracecore/internal/log"
)

const (
	headerDatadogTraceID      = "x-datadog-trace-id"
	headerDatadogParentID     = "x-datadog-parent-id"
	headerDatadogSamplingPrio = "x-datadog-sampling-priority"
	headerDatadogOrigin       = "x-datadog-origin"
	headerDatadogTags         = "x-datadog-tags"
)

// ExtractDatadog reads the x-datadog-* headers from carrier. Returns nil if
// no trace id is present. An unparseable trace-id, parent-id, or priority
// is a fatal parse error for this style: it yields a nil context without
// affecting any other style.
func ExtractDatadog(carrier HeaderCarrier) *ExtractedContext {
	r := newAuditReader(carrier)

	raw, ok := r.lookup(headerDatadogTraceID)
	if !ok {
		return nil
	}
	traceID, err := TraceIDFromDecimal(raw)
	if err != nil {
		log.Debug("tracecore: datadog trace id: %v", err)
		return nil
	}

	ctx := &ExtractedContext{Style: StyleDatadog, TraceID: &traceID}

	if raw, ok := r.lookup(headerDatadogParentID); ok {
		parentID, err := SpanIDFromDecimal(raw)
		if err != nil {
			log.Debug("tracecore: datadog parent id: %v", err)
			return nil
		}
		ctx.ParentID = &parentID
	}

	if raw, ok := r.lookup(headerDatadogSamplingPrio); ok {
		p, err := strconv.Atoi(raw)
		if err != nil {
			log.Debug("tracecore: datadog sampling priority: %v", err)
			return nil
		}
		ctx.SamplingPriority = &p
	}

	if raw, ok := r.lookup(headerDatadogOrigin); ok {
		origin := raw
		ctx.Origin = &origin
	}

	if raw, ok := r.lookup(headerDatadogTags); ok {
		tags, err := decodeTraceTags(raw)
		if err != nil {
			ctx.setRootTag(tagPropagationError, "decoding_error")
		} else {
			for _, kv := range tags {
				if kv.Key == tagTraceID128 {
					if len(kv.Value) != 16 || !isHex(kv.Value) {
						ctx.setRootTag(tagPropagationError, "malformed_tid "+kv.Value)
						continue
					}
					if ctx.TraceID != nil {
						if err := ctx.TraceID.SetUpperFromHex(kv.Value); err != nil {
							ctx.setRootTag(tagPropagationError, "malformed_tid "+kv.Value)
							continue
						}
					}
				}
				ctx.SetTraceTag(kv.Key, kv.Value)
			}
		}
	}

	ctx.HeadersExamined = r.log
	return ctx
}
