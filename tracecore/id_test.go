// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026 go-tracecore authors.

package tracecore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceIDFromDecimal(t *testing.T) {
	id, err := TraceIDFromDecimal("1234567890123456789")
	require.NoError(t, err)
	assert.EqualValues(t, 1234567890123456789, id.Low)
	assert.Zero(t, id.High)

	_, err = TraceIDFromDecimal("not-a-number")
	assert.Error(t, err)
}

func TestTraceIDFromHexSplitsAtSixteenChars(t *testing.T) {
	_, err := TraceIDFromHex("123456789012345678901234567890123")
	assert.Error(t, err) // exceeds 32 characters

	id, err := TraceIDFromHex("1111111111111111" + "2222222222222222")
	require.NoError(t, err)
	assert.EqualValues(t, 0x1111111111111111, id.High)
	assert.EqualValues(t, 0x2222222222222222, id.Low)

	id, err = TraceIDFromHex("2222222222222222")
	require.NoError(t, err)
	assert.Zero(t, id.High)
	assert.EqualValues(t, 0x2222222222222222, id.Low)
}

func TestTraceIDFromHexEmptyAndZero(t *testing.T) {
	_, err := TraceIDFromHex("")
	assert.Error(t, err)

	id, err := TraceIDFromHex("0000000000000000")
	require.NoError(t, err)
	assert.True(t, id.Empty())
}

func TestTraceIDHexRoundTrip(t *testing.T) {
	id := TraceID{High: 0xdeadbeefdeadbeef, Low: 0x1234567890abcdef}
	assert.Equal(t, "deadbeefdeadbeef", id.UpperHex())
	assert.Equal(t, "1234567890abcdef", id.LowerHex())
	assert.Equal(t, "deadbeefdeadbeef1234567890abcdef", id.FullHex())
}

func TestTraceIDSetUpperFromHex(t *testing.T) {
	var id TraceID
	require.NoError(t, id.SetUpperFromHex("00000000000001ff"))
	assert.EqualValues(t, 0x1ff, id.High)

	assert.Error(t, id.SetUpperFromHex("not-hex"))
}

func TestSpanIDHexAndParsing(t *testing.T) {
	assert.Equal(t, "0000000000000001", SpanID(1).Hex())

	id, err := SpanIDFromHex("ff")
	require.NoError(t, err)
	assert.EqualValues(t, 255, id)

	id, err = SpanIDFromDecimal("255")
	require.NoError(t, err)
	assert.EqualValues(t, 255, id)

	_, err = SpanIDFromHex("zz")
	assert.Error(t, err)
}

func TestPadHex(t *testing.T) {
	assert.Equal(t, "0000000000000abc", padHex16("abc"))
	assert.Equal(t, "1234567890abcdef", padHex16("1234567890abcdef"))
	assert.Equal(t, strings.Repeat("0", 29)+"abc", padHex32("abc"))
	assert.Len(t, padHex32("abc"), 32)
}

func TestIsHex(t *testing.T) {
	assert.True(t, isHex("deadBEEF0123"))
	assert.False(t, isHex(""))
	assert.False(t, isHex("not-hex"))
}
