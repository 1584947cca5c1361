// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026 go-tracecore authors.

package tracecore

import (
	"strconv"
	"strings"
)

const (
	headerTraceparent = "traceparent"
	headerTracestate  = "tracestate"
)

// ExtractW3C reads the W3C Trace Context traceparent/tracestate headers.
func ExtractW3C(carrier HeaderCarrier) *ExtractedContext {
	r := newAuditReader(carrier)

	raw, ok := r.lookup(headerTraceparent)
	if !ok {
		return nil
	}

	ctx := &ExtractedContext{Style: StyleW3C}
	priority, errKind := parseTraceparent(ctx, strings.TrimSpace(raw))
	if errKind != "" {
		ctx.setRootTag(tagW3CExtractionError, errKind)
		ctx.HeadersExamined = r.log
		return ctx.rootTagsOnly()
	}
	if priority != nil {
		ctx.SamplingPriority = priority
	}

	if rawState, ok := r.lookup(headerTracestate); ok {
		applyTracestate(ctx, strings.TrimSpace(rawState))
	}

	ctx.HeadersExamined = r.log
	return ctx
}

// rootTagsOnly returns an "empty" context that still carries the
// diagnostic root tags accumulated so far, per the W3C failure contract:
// the context yields no trace id / parent id, but the error tag is
// preserved for the caller to apply to the root span.
func (c *ExtractedContext) rootTagsOnly() *ExtractedContext {
	return &ExtractedContext{Style: c.Style, RootTags: c.RootTags, HeadersExamined: c.HeadersExamined}
}

// parseTraceparent parses the fixed-layout traceparent value:
//
//	VV-TTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTT-SSSSSSSSSSSSSSSS-FF(-...)
//
// populating ctx.TraceID/ParentID/FullW3CTraceIDHex on success. Returns the
// parsed sampling priority and, on failure, a non-empty error kind.
func parseTraceparent(ctx *ExtractedContext, raw string) (*int, string) {
	parts := strings.Split(raw, "-")
	if len(parts) < 4 {
		return nil, "malformed_traceparent"
	}
	version, traceHex, spanHex, flagsHex := parts[0], parts[1], parts[2], parts[3]
	if len(version) != 2 || len(traceHex) != 32 || len(spanHex) != 16 || len(flagsHex) != 2 {
		return nil, "malformed_traceparent"
	}
	if !isHex(version) || !isHex(traceHex) || !isHex(spanHex) || !isHex(flagsHex) {
		return nil, "malformed_traceparent"
	}
	if strings.EqualFold(version, "ff") {
		return nil, "invalid_version"
	}

	traceID, err := TraceIDFromHex(traceHex)
	if err != nil {
		return nil, "malformed_traceparent"
	}
	if traceID.Empty() {
		return nil, "trace_id_zero"
	}

	parentID, err := SpanIDFromHex(spanHex)
	if err != nil {
		return nil, "malformed_traceparent"
	}
	if parentID == 0 {
		return nil, "parent_id_zero"
	}

	flags, err := strconv.ParseUint(flagsHex, 16, 8)
	if err != nil {
		return nil, "malformed_traceparent"
	}

	ctx.TraceID = &traceID
	ctx.ParentID = &parentID
	ctx.FullW3CTraceIDHex = strings.ToLower(traceHex)
	priority := int(flags & 1)
	return &priority, ""
}

// applyTracestate parses the comma-separated tracestate value, locates the
// single "dd=" entry, and merges its ";"-separated k:v fields into ctx.
func applyTracestate(ctx *ExtractedContext, raw string) {
	if raw == "" {
		return
	}
	entries := strings.Split(raw, ",")
	ddIndex := -1
	var ddValue string
	kept := make([]string, 0, len(entries))
	for i, entry := range entries {
		trimmed := strings.TrimSpace(entry)
		if trimmed == "" {
			continue
		}
		idx := strings.IndexByte(trimmed, '=')
		if idx < 0 {
			continue
		}
		key := trimmed[:idx]
		if key == "dd" && ddIndex == -1 {
			ddIndex = i
			ddValue = trimmed[idx+1:]
			continue
		}
		kept = append(kept, trimmed)
	}

	if ddIndex == -1 {
		ctx.AdditionalW3CTracestate = raw
		return
	}
	ctx.AdditionalW3CTracestate = strings.Join(kept, ",")
	applyDatadogTracestate(ctx, ddValue)
}

// applyDatadogTracestate parses the ";"-separated k:v fields of a dd=
// tracestate entry.
func applyDatadogTracestate(ctx *ExtractedContext, ddValue string) {
	var unknown []string
	for _, field := range strings.Split(ddValue, ";") {
		if field == "" {
			continue
		}
		idx := strings.IndexByte(field, ':')
		if idx < 0 {
			continue
		}
		key, value := field[:idx], field[idx+1:]
		switch {
		case key == "o":
			origin := value
			ctx.Origin = &origin
		case key == "s":
			p, err := strconv.Atoi(value)
			if err != nil {
				continue
			}
			if ctx.SamplingPriority == nil || samePrioritySign(*ctx.SamplingPriority, p) {
				ctx.SamplingPriority = &p
			}
		case key == "p":
			ctx.DatadogW3CParentID = value
		case strings.HasPrefix(key, "t."):
			suffix := strings.TrimPrefix(key, "t.")
			ctx.SetTraceTag(tagTraceTagsPrefix+suffix, strings.ReplaceAll(value, "~", "="))
		default:
			unknown = append(unknown, key+":"+value)
		}
	}
	if len(unknown) > 0 {
		ctx.AdditionalDatadogW3CTracestate = strings.Join(unknown, ";")
	}
}

func samePrioritySign(a, b int) bool {
	return (a > 0) == (b > 0)
}
