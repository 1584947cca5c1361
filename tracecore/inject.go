// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026 go-tracecore authors.

package tracecore

import (
	"strconv"
	"strings"
)

// InjectionConfig bounds byte-size limits enforced during injection.
type InjectionConfig struct {
	MaxTagsBytes       int
	MaxTracestateBytes int
}

// Inject writes snap onto carrier for each of styles, in order. If the
// only configured style is StyleNone, injection is a no-op. Returns the
// diagnostic root tags accumulated by individual injectors (e.g.
// inject_max_size), to be applied to the segment's root span.
func Inject(carrier HeaderCarrier, snap Snapshot, styles []PropagationStyle, cfg InjectionConfig) []TagKV {
	if len(styles) == 1 && styles[0] == StyleNone {
		return nil
	}
	var rootTags []TagKV
	for _, style := range styles {
		switch style {
		case StyleDatadog:
			rootTags = append(rootTags, injectDatadog(carrier, snap, cfg)...)
		case StyleB3:
			injectB3(carrier, snap)
		case StyleW3C:
			injectW3C(carrier, snap, cfg)
		}
	}
	return rootTags
}

func injectDatadog(carrier HeaderCarrier, snap Snapshot, cfg InjectionConfig) []TagKV {
	carrier.Set(headerDatadogTraceID, strconv.FormatUint(snap.TraceID.Low, 10))
	carrier.Set(headerDatadogParentID, strconv.FormatUint(uint64(snap.SpanID), 10))
	if snap.HasPriority {
		carrier.Set(headerDatadogSamplingPrio, strconv.Itoa(snap.SamplingPriority))
	}
	if snap.Origin != "" {
		carrier.Set(headerDatadogOrigin, snap.Origin)
	}
	return injectDatadogTags(carrier, snap, cfg)
}

func injectDatadogTags(carrier HeaderCarrier, snap Snapshot, cfg InjectionConfig) []TagKV {
	if len(snap.TraceTags) == 0 {
		return nil
	}
	encoded := encodeTraceTags(snap.TraceTags)
	if cfg.MaxTagsBytes > 0 && len(encoded) > cfg.MaxTagsBytes {
		return []TagKV{{Key: tagPropagationError, Value: "inject_max_size"}}
	}
	carrier.Set(headerDatadogTags, encoded)
	return nil
}

func injectB3(carrier HeaderCarrier, snap Snapshot) {
	carrier.Set(headerB3TraceID, snap.TraceID.FullHex())
	carrier.Set(headerB3SpanID, snap.SpanID.Hex())
	sampled := "0"
	if snap.HasPriority && snap.SamplingPriority > 0 {
		sampled = "1"
	}
	carrier.Set(headerB3Sampled, sampled)
	if snap.Origin != "" {
		carrier.Set(headerDatadogOrigin, snap.Origin)
	}
	injectDatadogTags(carrier, snap, InjectionConfig{})
}

func injectW3C(carrier HeaderCarrier, snap Snapshot, cfg InjectionConfig) {
	traceHex := snap.FullW3CTraceIDHex
	if traceHex == "" {
		traceHex = padHex32(snap.TraceID.FullHex())
	}
	flags := "00"
	if snap.HasPriority && snap.SamplingPriority > 0 {
		flags = "01"
	}
	carrier.Set(headerTraceparent, "00-"+traceHex+"-"+padHex16(snap.SpanID.Hex())+"-"+flags)
	carrier.Set(headerTracestate, buildTracestate(snap, cfg))
}

// buildTracestate assembles the dd= entry plus any preserved vendor
// entries. When cfg.MaxTracestateBytes is set and the total is over it,
// unknown dd-subkeys are dropped, last first, until it fits. The known
// fields (s, o, p and t.* tags) and the preserved vendor entries are never
// dropped, so the result can still exceed the limit.
func buildTracestate(snap Snapshot, cfg InjectionConfig) string {
	priority := 0
	if snap.HasPriority {
		priority = snap.SamplingPriority
	}
	fields := []string{"s:" + strconv.Itoa(priority)}
	if snap.Origin != "" {
		fields = append(fields, "o:"+snap.Origin)
	}
	fields = append(fields, "p:"+snap.SpanID.Hex())
	for _, kv := range snap.TraceTags {
		if !strings.HasPrefix(kv.Key, tagTraceTagsPrefix) {
			continue
		}
		suffix := strings.TrimPrefix(kv.Key, tagTraceTagsPrefix)
		fields = append(fields, "t."+suffix+":"+strings.ReplaceAll(kv.Value, "=", "~"))
	}
	var unknown []string
	if snap.AdditionalDatadogW3CTracestate != "" {
		unknown = strings.Split(snap.AdditionalDatadogW3CTracestate, ";")
	}

	dd := "dd=" + strings.Join(append(fields, unknown...), ";")
	rest := snap.AdditionalW3CTracestate

	for cfg.MaxTracestateBytes > 0 && len(dd)+len(rest) > cfg.MaxTracestateBytes && len(unknown) > 0 {
		unknown = unknown[:len(unknown)-1]
		dd = "dd=" + strings.Join(append(fields, unknown...), ";")
	}

	if rest == "" {
		return dd
	}
	return dd + "," + rest
}
