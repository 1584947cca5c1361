// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026 go-tracecore authors.

// Package log provides logging utilities for the tracing core. The core
// never surfaces errors to the application directly; instead it reports
// through this package so a host application can redirect, silence, or
// capture tracer diagnostics.
package log

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Level specifies the logging level that the log package prints at.
type Level int

const (
	// LevelDebug represents debug level messages.
	LevelDebug Level = iota
	// LevelWarn represents warning and errors.
	LevelWarn
)

const prefixMsg = "go-tracecore"

// Logger implementations are able to log given messages that the core might
// output.
type Logger interface {
	// Log prints the given message.
	Log(msg string)
}

var (
	mu     sync.RWMutex // guards below fields
	level               = LevelWarn
	logger Logger       = &defaultLogger{l: log.New(os.Stderr, "", log.LstdFlags)}
)

// UseLogger sets l as the active logger and returns a function to restore
// the previous logger. The return value is mostly useful when testing.
func UseLogger(l Logger) (undo func()) {
	Flush()
	mu.Lock()
	defer mu.Unlock()
	old := logger
	logger = l
	return func() {
		mu.Lock()
		defer mu.Unlock()
		logger = old
	}
}

// SetLevel sets the given lvl for logging.
func SetLevel(lvl Level) {
	mu.Lock()
	defer mu.Unlock()
	level = lvl
}

// DebugEnabled returns true if debug log messages are enabled.
func DebugEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return level == LevelDebug
}

// Debug prints the given message if the level is LevelDebug.
func Debug(format string, a ...interface{}) {
	if !DebugEnabled() {
		return
	}
	printMsg("DEBUG", format, a...)
}

// Warn prints a warning message.
func Warn(format string, a ...interface{}) {
	printMsg("WARN", format, a...)
}

// Info prints an informational message.
func Info(format string, a ...interface{}) {
	printMsg("INFO", format, a...)
}

var (
	errmu   sync.RWMutex
	erragg  = map[string]*errorReport{}
	errrate = time.Minute
	erron   bool
)

type errorReport struct {
	first time.Time
	err   error
	count uint64
}

// defaultErrorLimit specifies the maximum number of errors gathered in a report.
const defaultErrorLimit = 200

// Error reports an error. Errors get aggregated and logged periodically,
// once per minute by default, to avoid log storms from a persistently
// misbehaving collector or a flood of malformed upstream headers.
func Error(format string, a ...interface{}) {
	key := format
	if reachedLimit(key) {
		return
	}
	errmu.Lock()
	defer errmu.Unlock()
	report, ok := erragg[key]
	if !ok {
		erragg[key] = &errorReport{
			err:   fmt.Errorf(format, a...),
			first: time.Now(),
		}
		report = erragg[key]
	}
	report.count++
	if !erron {
		erron = true
		time.AfterFunc(errrate, Flush)
	}
}

func reachedLimit(key string) bool {
	errmu.RLock()
	defer errmu.RUnlock()
	e, ok := erragg[key]
	return ok && e.count > defaultErrorLimit
}

// Flush flushes and resets all aggregated errors to the logger.
func Flush() {
	errmu.Lock()
	defer errmu.Unlock()
	for _, report := range erragg {
		msg := fmt.Sprintf("%v", report.err)
		switch {
		case report.count > defaultErrorLimit:
			msg += fmt.Sprintf(", %d+ additional messages skipped (first occurrence: %s)", defaultErrorLimit, report.first.Format(time.RFC822))
		case report.count > 1:
			msg += fmt.Sprintf(", %d additional messages skipped (first occurrence: %s)", report.count-1, report.first.Format(time.RFC822))
		default:
			msg += fmt.Sprintf(" (occurred: %s)", report.first.Format(time.RFC822))
		}
		printMsg("ERROR", msg)
	}
	for k := range erragg {
		delete(erragg, k)
	}
	erron = false
}

func printMsg(lvl, format string, a ...interface{}) {
	msg := fmt.Sprintf("%s %s: %s", prefixMsg, lvl, fmt.Sprintf(format, a...))
	mu.RLock()
	logger.Log(msg)
	mu.RUnlock()
}

type defaultLogger struct{ l *log.Logger }

func (p *defaultLogger) Log(msg string) { p.l.Print(msg) }

// DiscardLogger discards every call to Log().
type DiscardLogger struct{}

// Log implements Logger.
func (DiscardLogger) Log(_ string) {}

// RecordLogger records every call to Log() and makes it available via
// Logs(). Useful in tests asserting on tag-vs-log side effects.
type RecordLogger struct {
	m      sync.Mutex
	logs   []string
	ignore []string
}

// Ignore adds substrings to the ignore list; subsequent Log calls whose
// message contains any of them are dropped.
func (r *RecordLogger) Ignore(substrings ...string) {
	r.m.Lock()
	defer r.m.Unlock()
	r.ignore = append(r.ignore, substrings...)
}

// Log implements Logger.
func (r *RecordLogger) Log(msg string) {
	r.m.Lock()
	defer r.m.Unlock()
	for _, ignored := range r.ignore {
		if strings.Contains(msg, ignored) {
			return
		}
	}
	r.logs = append(r.logs, msg)
}

// Logs returns the ordered list of logs recorded so far.
func (r *RecordLogger) Logs() []string {
	r.m.Lock()
	defer r.m.Unlock()
	out := make([]string, len(r.logs))
	copy(out, r.logs)
	return out
}

// Reset clears the logger's recorded logs and ignore list.
func (r *RecordLogger) Reset() {
	r.m.Lock()
	defer r.m.Unlock()
	r.logs = r.logs[:0]
	r.ignore = r.ignore[:0]
}
