// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package badger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// slogger adapts a slog logger to Badger's logger. Badger reports routine
// compaction and value log activity at info, which is demoted to debug.
type slogger struct {
	logger *slog.Logger
}

func (l slogger) log(level slog.Level, format string, args ...interface{}) {
	ctx := context.Background()
	if !l.logger.Enabled(ctx, level) {
		return
	}
	l.logger.Log(ctx, level, strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}

func (l slogger) Errorf(format string, args ...interface{}) {
	l.log(slog.LevelError, format, args...)
}

func (l slogger) Warningf(format string, args ...interface{}) {
	l.log(slog.LevelWarn, format, args...)
}

func (l slogger) Infof(format string, args ...interface{}) {
	l.log(slog.LevelDebug, format, args...)
}

func (l slogger) Debugf(format string, args ...interface{}) {
	l.log(slog.LevelDebug, format, args...)
}
