// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026 go-tracecore authors.

package tracecore

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/tinylib/msgp/msgp"
)

// payload is a streaming msgpack array encoder for a batch of traces, one
// spanList per trace. Entries are pushed one at a time so the agent-facing
// transport never has to buffer every trace in memory before encoding
// starts.
type payload struct {
	header []byte
	off    int
	count  uint32
	buf    bytes.Buffer
	reader *bytes.Reader
}

var _ io.Reader = (*payload)(nil)

func newPayload() *payload {
	p := &payload{header: make([]byte, 8), off: 8}
	p.updateHeader()
	return p
}

// push encodes one trace's spans and appends them to the stream.
func (p *payload) push(spans spanList) error {
	p.buf.Grow(spans.Msgsize())
	if err := msgp.Encode(&p.buf, spans); err != nil {
		return err
	}
	p.count++
	p.updateHeader()
	return nil
}

func (p *payload) itemCount() int { return int(p.count) }

func (p *payload) size() int { return p.buf.Len() + len(p.header) - p.off }

const (
	msgpackArrayFix byte = 144
	msgpackArray16       = 0xdc
	msgpackArray32       = 0xdd
)

func (p *payload) updateHeader() {
	n := uint64(p.count)
	switch {
	case n <= 15:
		p.header[7] = msgpackArrayFix + byte(n)
		p.off = 7
	case n <= 1<<16-1:
		binary.BigEndian.PutUint64(p.header, n)
		p.header[5] = msgpackArray16
		p.off = 5
	default:
		binary.BigEndian.PutUint64(p.header, n)
		p.header[3] = msgpackArray32
		p.off = 3
	}
}

func (p *payload) Read(b []byte) (int, error) {
	if p.reader == nil {
		p.reader = bytes.NewReader(p.buf.Bytes())
	}
	if p.off < len(p.header) {
		n := copy(b, p.header[p.off:])
		p.off += n
		return n, nil
	}
	return p.reader.Read(b)
}
