// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026 go-tracecore authors.

package tracecore

import "github.com/tinylib/msgp/msgp"

var (
	_ msgp.Encodable = (*SpanData)(nil)
	_ msgp.Sizer     = (*SpanData)(nil)
)

// EncodeMsg writes sd in the wire form the trace agent's v0.4 endpoint
// expects: a fixed map of the span's identity and timing fields plus the
// "meta"/"metrics" sub-maps for string and numeric tags.
func (sd *SpanData) EncodeMsg(en *msgp.Writer) error {
	fieldCount := uint32(11)
	if sd.Error {
		fieldCount++
	}
	if err := en.WriteMapHeader(fieldCount); err != nil {
		return msgp.WrapError(err, "SpanData")
	}

	if err := writeStringField(en, "service", sd.Service); err != nil {
		return err
	}
	if err := writeStringField(en, "name", sd.Name); err != nil {
		return err
	}
	if err := writeStringField(en, "resource", sd.Resource); err != nil {
		return err
	}
	if err := writeStringField(en, "type", sd.ServiceType); err != nil {
		return err
	}
	if err := writeUint64Field(en, "trace_id", sd.TraceID.Low); err != nil {
		return err
	}
	if err := writeUint64Field(en, "span_id", uint64(sd.SpanID)); err != nil {
		return err
	}
	if err := writeUint64Field(en, "parent_id", uint64(sd.ParentID)); err != nil {
		return err
	}
	if err := writeInt64Field(en, "start", sd.start.Wall.UnixNano()); err != nil {
		return err
	}
	if err := writeInt64Field(en, "duration", int64(sd.Duration)); err != nil {
		return err
	}
	if sd.Error {
		if err := en.WriteString("error"); err != nil {
			return msgp.WrapError(err, "SpanData", "error")
		}
		if err := en.WriteInt32(1); err != nil {
			return msgp.WrapError(err, "SpanData", "error")
		}
	}

	if err := en.WriteString("meta"); err != nil {
		return msgp.WrapError(err, "SpanData", "meta")
	}
	if err := en.WriteMapHeader(uint32(len(sd.Tags))); err != nil {
		return msgp.WrapError(err, "SpanData", "meta")
	}
	for k, v := range sd.Tags {
		if err := en.WriteString(k); err != nil {
			return msgp.WrapError(err, "SpanData", "meta", k)
		}
		if err := en.WriteString(v); err != nil {
			return msgp.WrapError(err, "SpanData", "meta", k)
		}
	}

	if err := en.WriteString("metrics"); err != nil {
		return msgp.WrapError(err, "SpanData", "metrics")
	}
	if err := en.WriteMapHeader(uint32(len(sd.NumericTags))); err != nil {
		return msgp.WrapError(err, "SpanData", "metrics")
	}
	for k, v := range sd.NumericTags {
		if err := en.WriteString(k); err != nil {
			return msgp.WrapError(err, "SpanData", "metrics", k)
		}
		if err := en.WriteFloat64(v); err != nil {
			return msgp.WrapError(err, "SpanData", "metrics", k)
		}
	}
	return nil
}

// Msgsize returns an upper bound on the encoded size of sd, used to
// pre-size the payload buffer before encoding.
func (sd *SpanData) Msgsize() int {
	size := msgp.MapHeaderSize
	size += msgp.StringPrefixSize + len("service") + msgp.StringPrefixSize + len(sd.Service)
	size += msgp.StringPrefixSize + len("name") + msgp.StringPrefixSize + len(sd.Name)
	size += msgp.StringPrefixSize + len("resource") + msgp.StringPrefixSize + len(sd.Resource)
	size += msgp.StringPrefixSize + len("type") + msgp.StringPrefixSize + len(sd.ServiceType)
	size += msgp.StringPrefixSize + len("trace_id") + msgp.Uint64Size
	size += msgp.StringPrefixSize + len("span_id") + msgp.Uint64Size
	size += msgp.StringPrefixSize + len("parent_id") + msgp.Uint64Size
	size += msgp.StringPrefixSize + len("start") + msgp.Int64Size
	size += msgp.StringPrefixSize + len("duration") + msgp.Int64Size
	size += msgp.StringPrefixSize + len("error") + msgp.Int32Size

	size += msgp.StringPrefixSize + len("meta") + msgp.MapHeaderSize
	for k, v := range sd.Tags {
		size += msgp.StringPrefixSize + len(k) + msgp.StringPrefixSize + len(v)
	}
	size += msgp.StringPrefixSize + len("metrics") + msgp.MapHeaderSize
	for k := range sd.NumericTags {
		size += msgp.StringPrefixSize + len(k) + msgp.Float64Size
	}
	return size
}

func writeStringField(en *msgp.Writer, key, value string) error {
	if err := en.WriteString(key); err != nil {
		return msgp.WrapError(err, "SpanData", key)
	}
	if err := en.WriteString(value); err != nil {
		return msgp.WrapError(err, "SpanData", key)
	}
	return nil
}

func writeUint64Field(en *msgp.Writer, key string, value uint64) error {
	if err := en.WriteString(key); err != nil {
		return msgp.WrapError(err, "SpanData", key)
	}
	if err := en.WriteUint64(value); err != nil {
		return msgp.WrapError(err, "SpanData", key)
	}
	return nil
}

func writeInt64Field(en *msgp.Writer, key string, value int64) error {
	if err := en.WriteString(key); err != nil {
		return msgp.WrapError(err, "SpanData", key)
	}
	if err := en.WriteInt64(value); err != nil {
		return msgp.WrapError(err, "SpanData", key)
	}
	return nil
}

// spanList is one trace's worth of spans, encoded as a msgpack array. The
// agent's v0.4 endpoint expects a top-level array of these.
type spanList []*SpanData

var _ msgp.Encodable = (spanList)(nil)
var _ msgp.Sizer = (spanList)(nil)

func (sl spanList) EncodeMsg(en *msgp.Writer) error {
	if err := en.WriteArrayHeader(uint32(len(sl))); err != nil {
		return msgp.WrapError(err, "spanList")
	}
	for i, sd := range sl {
		if err := sd.EncodeMsg(en); err != nil {
			return msgp.WrapError(err, "spanList", i)
		}
	}
	return nil
}

func (sl spanList) Msgsize() int {
	size := msgp.ArrayHeaderSize
	for _, sd := range sl {
		size += sd.Msgsize()
	}
	return size
}
