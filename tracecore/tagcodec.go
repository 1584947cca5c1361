// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026 go-tracecore authors.

package tracecore

import "strings"

// encodeTraceTags renders tags as the `x-datadog-tags` wire form:
// "key=value" pairs joined by ",". Only entries already under
// tagTraceTagsPrefix are expected; no filtering is done here, every entry
// given is written.
func encodeTraceTags(tags []TagKV) string {
	parts := make([]string, 0, len(tags))
	for _, kv := range tags {
		parts = append(parts, kv.Key+"="+kv.Value)
	}
	return strings.Join(parts, ",")
}

// decodeTraceTags parses the `x-datadog-tags` wire form. Pairs without "="
// are a decoding error; keys outside tagTraceTagsPrefix are silently
// dropped rather than treated as an error.
func decodeTraceTags(raw string) ([]TagKV, error) {
	if raw == "" {
		return nil, nil
	}
	var out []TagKV
	for _, part := range strings.Split(raw, ",") {
		if part == "" {
			continue
		}
		idx := strings.IndexByte(part, '=')
		if idx < 0 {
			return nil, &propagationError{kind: "decoding_error"}
		}
		key, value := part[:idx], part[idx+1:]
		if !strings.HasPrefix(key, tagTraceTagsPrefix) {
			continue
		}
		out = append(out, TagKV{Key: key, Value: value})
	}
	return out, nil
}

// propagationError is a design-level error kind, never surfaced to the
// application; callers translate it into a `_dd.propagation_error` tag.
type propagationError struct {
	kind string
}

func (e *propagationError) Error() string { return e.kind }

// encodedTagsExceed reports whether encoding tags would exceed maxBytes.
func encodedTagsExceed(tags []TagKV, maxBytes int) bool {
	if maxBytes <= 0 {
		return false
	}
	return len(encodeTraceTags(tags)) > maxBytes
}
