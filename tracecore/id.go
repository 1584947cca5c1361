// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026 go-tracecore authors.

package tracecore

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/xerrors"
)

// TraceID is a 128-bit trace identifier split into an upper ("High") and
// lower ("Low") 64-bit half. When High is zero the trace is treated as a
// 64-bit trace for compatibility with older propagation styles.
type TraceID struct {
	High uint64
	Low  uint64
}

// HasUpper reports whether the trace id carries a non-zero upper half, i.e.
// it is a genuine 128-bit trace id rather than a 64-bit one promoted to the
// TraceID representation.
func (t TraceID) HasUpper() bool { return t.High != 0 }

// Empty reports whether t is the zero value.
func (t TraceID) Empty() bool { return t.High == 0 && t.Low == 0 }

// LowerHex renders the lower 64 bits as 16 lowercase zero-padded hex digits.
func (t TraceID) LowerHex() string { return fmt.Sprintf("%016x", t.Low) }

// UpperHex renders the upper 64 bits as 16 lowercase zero-padded hex digits.
// This is the exact form written to the `_dd.p.tid` propagating tag.
func (t TraceID) UpperHex() string { return fmt.Sprintf("%016x", t.High) }

// FullHex renders the full 128-bit value as 32 lowercase zero-padded hex
// digits, high half first.
func (t TraceID) FullHex() string { return t.UpperHex() + t.LowerHex() }

// SetUpperFromHex parses s (expected to be 16 hex chars, the form found in
// the `_dd.p.tid` tag) and sets High from it.
func (t *TraceID) SetUpperFromHex(s string) error {
	u, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return xerrors.Errorf("malformed upper trace id %q: %w", s, err)
	}
	t.High = u
	return nil
}

// TraceIDFromDecimal parses the low-only decimal form used by the Datadog
// propagation style (e.g. x-datadog-trace-id).
func TraceIDFromDecimal(s string) (TraceID, error) {
	low, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return TraceID{}, xerrors.Errorf("malformed decimal trace id %q: %w", s, err)
	}
	return TraceID{Low: low}, nil
}

// TraceIDFromHex parses a zero-padded hex trace id of up to 32 characters.
// Strings longer than 16 characters are split into an upper and lower half;
// strings of 16 or fewer characters populate only the lower half. Leading
// zeros are tolerated.
func TraceIDFromHex(s string) (TraceID, error) {
	if len(s) == 0 {
		return TraceID{}, xerrors.New("empty hex trace id")
	}
	if len(s) > 32 {
		return TraceID{}, xerrors.Errorf("hex trace id %q exceeds 32 characters", s)
	}
	v := strings.TrimLeft(s, "0")
	if v == "" {
		return TraceID{}, nil
	}
	var id TraceID
	if len(v) <= 16 {
		low, err := strconv.ParseUint(v, 16, 64)
		if err != nil {
			return TraceID{}, xerrors.Errorf("malformed hex trace id %q: %w", s, err)
		}
		id.Low = low
		return id, nil
	}
	upperPart := v[:len(v)-16]
	lowerPart := v[len(v)-16:]
	high, err := strconv.ParseUint(upperPart, 16, 64)
	if err != nil {
		return TraceID{}, xerrors.Errorf("malformed hex trace id %q: %w", s, err)
	}
	low, err := strconv.ParseUint(lowerPart, 16, 64)
	if err != nil {
		return TraceID{}, xerrors.Errorf("malformed hex trace id %q: %w", s, err)
	}
	id.High, id.Low = high, low
	return id, nil
}

// isHex reports whether s consists entirely of lowercase or uppercase hex
// digits. Used to validate fixed-width ids (trace/span/16-hex tags) before
// parsing.
func isHex(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// SpanID is a 64-bit span identifier. Zero means "unset / no parent".
type SpanID uint64

// Hex renders the span id as 16 lowercase zero-padded hex digits.
func (s SpanID) Hex() string { return fmt.Sprintf("%016x", uint64(s)) }

// SpanIDFromHex parses a 16-or-fewer digit hex span id.
func SpanIDFromHex(s string) (SpanID, error) {
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, xerrors.Errorf("malformed hex span id %q: %w", s, err)
	}
	return SpanID(v), nil
}

// SpanIDFromDecimal parses a decimal span id, the Datadog propagation
// style's representation.
func SpanIDFromDecimal(s string) (SpanID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, xerrors.Errorf("malformed decimal span id %q: %w", s, err)
	}
	return SpanID(v), nil
}

// padHex16 left-zero-pads h to 16 characters, or truncates from the left if
// it is already longer.
func padHex16(h string) string {
	if len(h) >= 16 {
		return h[len(h)-16:]
	}
	return strings.Repeat("0", 16-len(h)) + h
}

func padHex32(h string) string {
	if len(h) >= 32 {
		return h[len(h)-32:]
	}
	return strings.Repeat("0", 32-len(h)) + h
}
