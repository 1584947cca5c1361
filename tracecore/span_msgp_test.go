// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026 go-tracecore authors.

package tracecore

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinylib/msgp/msgp"
)

func TestSpanDataEncodeMsgWritesWithoutError(t *testing.T) {
	sd := newSpanData(TraceID{Low: 1}, SpanID(2), SpanID(0), startTime{})
	sd.Service = "checkout"
	sd.Name = "http.request"
	sd.SetTag("http.method", "GET")
	sd.setInternalMetric(tagSamplingPriorityV1, 1)

	var buf bytes.Buffer
	w := msgp.NewWriter(&buf)
	require.NoError(t, sd.EncodeMsg(w))
	require.NoError(t, w.Flush())
	assert.NotZero(t, buf.Len())
	assert.LessOrEqual(t, buf.Len(), sd.Msgsize())
}

func TestSpanDataEncodeMsgIncludesErrorFlag(t *testing.T) {
	sd := newSpanData(TraceID{Low: 1}, SpanID(2), SpanID(0), startTime{})
	sd.SetError("boom", "panic", "stack")

	var buf bytes.Buffer
	w := msgp.NewWriter(&buf)
	require.NoError(t, sd.EncodeMsg(w))
	require.NoError(t, w.Flush())
	assert.NotZero(t, buf.Len())
}

func TestSpanListEncodeMsgArrayHeader(t *testing.T) {
	spans := spanList{
		newSpanData(TraceID{Low: 1}, SpanID(1), SpanID(0), startTime{}),
		newSpanData(TraceID{Low: 1}, SpanID(2), SpanID(1), startTime{}),
	}
	var buf bytes.Buffer
	w := msgp.NewWriter(&buf)
	require.NoError(t, spans.EncodeMsg(w))
	require.NoError(t, w.Flush())
	assert.LessOrEqual(t, buf.Len(), spans.Msgsize())
}

// TestSpanDataEncodeMsgMapHeaderMatchesFieldsWritten decodes sd's bytes with
// a generic msgpack reader instead of trusting EncodeMsg's own bookkeeping.
// A map header that undercounts the key/value pairs actually written would
// make this decode stop short of "meta"/"metrics", which this test would
// catch as a missing key rather than a length mismatch in the raw bytes.
func TestSpanDataEncodeMsgMapHeaderMatchesFieldsWritten(t *testing.T) {
	sd := newSpanData(TraceID{Low: 1}, SpanID(2), SpanID(0), startTime{})
	sd.Service = "checkout"
	sd.Name = "http.request"
	sd.SetTag("http.method", "GET")
	sd.setInternalMetric(tagSamplingPriorityV1, 1)

	var buf bytes.Buffer
	w := msgp.NewWriter(&buf)
	require.NoError(t, sd.EncodeMsg(w))
	require.NoError(t, w.Flush())

	decoded, err := msgp.NewReader(bytes.NewReader(buf.Bytes())).ReadIntf()
	require.NoError(t, err)
	m, ok := decoded.(map[string]interface{})
	require.True(t, ok)

	for _, key := range []string{"service", "name", "resource", "type", "trace_id", "span_id", "parent_id", "start", "duration", "meta", "metrics"} {
		assert.Contains(t, m, key)
	}
	assert.Equal(t, "checkout", m["service"])
	meta, ok := m["meta"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "GET", meta["http.method"])
}

// TestSpanListEncodeMsgRoundTripDecodesEachSpanWithoutDesync decodes every
// span in a list generically; a wrong field count in any one span's map
// header would desync the stream and corrupt every span after it.
func TestSpanListEncodeMsgRoundTripDecodesEachSpanWithoutDesync(t *testing.T) {
	spans := spanList{
		newSpanData(TraceID{Low: 1}, SpanID(1), SpanID(0), startTime{}),
		newSpanData(TraceID{Low: 1}, SpanID(2), SpanID(1), startTime{}),
	}
	spans[0].Service = "checkout"
	spans[1].Service = "payments"

	var buf bytes.Buffer
	w := msgp.NewWriter(&buf)
	require.NoError(t, spans.EncodeMsg(w))
	require.NoError(t, w.Flush())

	decoded, err := msgp.NewReader(bytes.NewReader(buf.Bytes())).ReadIntf()
	require.NoError(t, err)
	arr, ok := decoded.([]interface{})
	require.True(t, ok)
	require.Len(t, arr, 2)

	first, ok := arr[0].(map[string]interface{})
	require.True(t, ok)
	second, ok := arr[1].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "checkout", first["service"])
	assert.Equal(t, "payments", second["service"])
}
