// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026 go-tracecore authors.

package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebugOnlyPrintsWhenEnabled(t *testing.T) {
	rec := &RecordLogger{}
	defer UseLogger(rec)()

	SetLevel(LevelWarn)
	Debug("hidden %d", 1)
	assert.Empty(t, rec.Logs())

	SetLevel(LevelDebug)
	Debug("visible %d", 1)
	require.Len(t, rec.Logs(), 1)
	assert.Contains(t, rec.Logs()[0], "visible 1")
	SetLevel(LevelWarn)
}

func TestWarnAndInfoAlwaysPrint(t *testing.T) {
	rec := &RecordLogger{}
	defer UseLogger(rec)()

	Warn("uh oh")
	Info("fyi")
	require.Len(t, rec.Logs(), 2)
	assert.Contains(t, rec.Logs()[0], "WARN")
	assert.Contains(t, rec.Logs()[1], "INFO")
}

func TestErrorAggregatesAndFlushes(t *testing.T) {
	rec := &RecordLogger{}
	defer UseLogger(rec)()

	Error("boom: %d", 1)
	Error("boom: %d", 1)
	assert.Empty(t, rec.Logs())

	Flush()
	require.Len(t, rec.Logs(), 1)
	assert.Contains(t, rec.Logs()[0], "1 additional messages skipped")
}

func TestErrorStopsAggregatingPastLimit(t *testing.T) {
	rec := &RecordLogger{}
	defer UseLogger(rec)()

	for i := 0; i < defaultErrorLimit+5; i++ {
		Error("repeated error")
	}
	Flush()
	require.Len(t, rec.Logs(), 1)
	assert.Contains(t, rec.Logs()[0], "additional messages skipped")
}

func TestRecordLoggerIgnore(t *testing.T) {
	rec := &RecordLogger{}
	rec.Ignore("skip-me")
	rec.Log("skip-me: noisy")
	rec.Log("keep-me")
	assert.Equal(t, []string{"keep-me"}, rec.Logs())
}

func TestDiscardLoggerDropsEverything(t *testing.T) {
	defer UseLogger(DiscardLogger{})()
	Warn("anything")
}
