// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026 go-tracecore authors.

package tracecore

// MergeContexts implements the multi-style reconciliation step: given each
// enabled style's extraction result, in priority order, produce a single
// ExtractedContext. The first style (in styles order) whose context carries
// a trace id becomes the primary; if a W3C context shares that trace id,
// its tracestate-derived fields are folded in and the parent id is
// reconciled per the authoritative-in-flight-span rule.
func MergeContexts(byStyle map[PropagationStyle]*ExtractedContext, styles []PropagationStyle) *ExtractedContext {
	var primary *ExtractedContext
	for _, style := range styles {
		if ctx := byStyle[style]; ctx != nil && ctx.TraceID != nil {
			primary = ctx
			break
		}
	}
	if primary == nil {
		var rootTags []TagKV
		for _, style := range styles {
			if ctx := byStyle[style]; ctx != nil {
				rootTags = append(rootTags, ctx.RootTags...)
			}
		}
		return &ExtractedContext{RootTags: rootTags}
	}

	for _, style := range styles {
		if ctx := byStyle[style]; ctx != nil && ctx != primary {
			primary.RootTags = append(primary.RootTags, ctx.RootTags...)
		}
	}

	w3c := byStyle[StyleW3C]
	if primary.Style != StyleW3C && w3c != nil && w3c.TraceID != nil && *w3c.TraceID == *primary.TraceID {
		primary.AdditionalW3CTracestate = w3c.AdditionalW3CTracestate
		primary.AdditionalDatadogW3CTracestate = w3c.AdditionalDatadogW3CTracestate
		primary.HeadersExamined = append(primary.HeadersExamined, w3c.HeadersExamined...)

		if primary.ParentID == nil || w3c.ParentID == nil || *primary.ParentID != *w3c.ParentID {
			if w3c.DatadogW3CParentID != "" && w3c.DatadogW3CParentID != "0000000000000000" {
				primary.DatadogW3CParentID = w3c.DatadogW3CParentID
			} else if dd := byStyle[StyleDatadog]; dd != nil && dd.TraceID != nil && *dd.TraceID == *primary.TraceID && dd.ParentID != nil {
				primary.DatadogW3CParentID = dd.ParentID.Hex()
			}
			if w3c.ParentID != nil {
				primary.ParentID = w3c.ParentID
			}
		}
	}

	return primary
}
