// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package logging

import (
	"io"
	"log/slog"
	"strings"
	"testing"
)

// TestLogger writes each log line to the test log.
type TestLogger struct {
	Test testing.TB
}

var _ io.Writer = (*TestLogger)(nil)

func (l *TestLogger) Write(b []byte) (int, error) {
	s := string(b)
	if strings.HasSuffix(s, "\n") {
		s = s[:len(s)-1]
	}
	l.Test.Log(s)
	return len(b), nil
}

// NewTestLogger returns a text logger that writes to the test log at debug
// level.
func NewTestLogger(t testing.TB) *slog.Logger {
	h, err := NewHandler(&TestLogger{Test: t}, "text", []Rule{{Level: slog.LevelDebug}})
	if err != nil {
		t.Fatal(err)
	}
	return slog.New(h)
}
