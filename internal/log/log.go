// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package log is the leveled key=value logger used by the commands.
//
// Library packages do not log; they return errors.
package log

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync"
)

// Level is a log severity.
type Level string

// Supported levels, from most to least verbose.
const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelError Level = "ERROR"
)

var (
	mu       sync.Mutex
	logger   = stdlog.New(os.Stderr, "", stdlog.LstdFlags|stdlog.Lmicroseconds)
	minLevel = LevelInfo
)

// ParseLevel returns the level named s, case insensitively.
func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToUpper(s)); l {
	case LevelDebug, LevelInfo, LevelError:
		return l, nil
	}
	return "", fmt.Errorf("unknown log level %q: expected debug, info or error", s)
}

// SetLevel drops messages below l.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	minLevel = l
}

// SetOutput redirects the log lines.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// SetFlags sets the standard log flags of the line prefix.
func SetFlags(flag int) {
	logger.SetFlags(flag)
}

func Debug(msg string, kv ...any) {
	logWithLevel(LevelDebug, msg, kv...)
}

func Info(msg string, kv ...any) {
	logWithLevel(LevelInfo, msg, kv...)
}

// Error logs msg with err as the first key=value pair.
func Error(msg string, err error, kv ...any) {
	extended := append([]any{"err", err}, kv...)
	logWithLevel(LevelError, msg, extended...)
}

func logWithLevel(level Level, msg string, kv ...any) {
	if !enabled(level) {
		return
	}
	logger.Println("[" + string(level) + "] " + msg + formatKVs(kv...))
}

func enabled(level Level) bool {
	mu.Lock()
	defer mu.Unlock()
	switch minLevel {
	case LevelInfo:
		return level == LevelInfo || level == LevelError
	case LevelError:
		return level == LevelError
	default:
		return true
	}
}

// formatKVs expects key, value pairs. Non-string keys are skipped and an odd
// trailing argument is ignored.
func formatKVs(kv ...any) string {
	var b strings.Builder
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		b.WriteString(" ")
		b.WriteString(key)
		b.WriteString("=")
		b.WriteString(fmt.Sprint(kv[i+1]))
	}
	return b.String()
}
