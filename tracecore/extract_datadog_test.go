// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026 go-tracecore authors.

package tracecore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDatadogNilWithoutTraceID(t *testing.T) {
	assert.Nil(t, ExtractDatadog(MapCarrier{}))
}

func TestExtractDatadogBasicFields(t *testing.T) {
	carrier := MapCarrier{
		headerDatadogTraceID:      "1234567890123456789",
		headerDatadogParentID:     "987654321",
		headerDatadogSamplingPrio: "2",
		headerDatadogOrigin:       "rum",
	}
	ctx := ExtractDatadog(carrier)
	require.NotNil(t, ctx)
	assert.EqualValues(t, 1234567890123456789, ctx.TraceID.Low)
	assert.EqualValues(t, 987654321, *ctx.ParentID)
	assert.Equal(t, 2, *ctx.SamplingPriority)
	assert.Equal(t, "rum", *ctx.Origin)
	assert.Len(t, ctx.HeadersExamined, 4)
}

func TestExtractDatadogMalformedParentIDIsFatal(t *testing.T) {
	carrier := MapCarrier{
		headerDatadogTraceID:  "123",
		headerDatadogParentID: "not-a-number",
	}
	assert.Nil(t, ExtractDatadog(carrier))
}

func TestExtractDatadogTagsWithUpperTraceID(t *testing.T) {
	carrier := MapCarrier{
		headerDatadogTraceID: "123",
		headerDatadogTags:    "_dd.p.tid=0000000000000abc,_dd.p.dm=-3",
	}
	ctx := ExtractDatadog(carrier)
	require.NotNil(t, ctx)
	assert.EqualValues(t, 0xabc, ctx.TraceID.High)
	v, ok := ctx.TraceTag("_dd.p.dm")
	assert.True(t, ok)
	assert.Equal(t, "-3", v)
}

func TestExtractDatadogMalformedTraceID128TagIsNonFatal(t *testing.T) {
	carrier := MapCarrier{
		headerDatadogTraceID: "123",
		headerDatadogTags:    "_dd.p.tid=not-hex",
	}
	ctx := ExtractDatadog(carrier)
	require.NotNil(t, ctx)
	assert.Zero(t, ctx.TraceID.High)
	require.Len(t, ctx.RootTags, 1)
	assert.Equal(t, tagPropagationError, ctx.RootTags[0].Key)
	assert.Contains(t, ctx.RootTags[0].Value, "malformed_tid")
}

func TestExtractDatadogUndecodableTagsSetsRootTag(t *testing.T) {
	carrier := MapCarrier{
		headerDatadogTraceID: "123",
		headerDatadogTags:    "no-equals-sign",
	}
	ctx := ExtractDatadog(carrier)
	require.NotNil(t, ctx)
	require.Len(t, ctx.RootTags, 1)
	assert.Equal(t, "decoding_error", ctx.RootTags[0].Value)
}
