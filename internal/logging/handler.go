// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/errors"
)

// NewHandler returns a handler that writes text or JSON logs to w and filters
// records by the level rule of their module. Records are tagged with a module
// by a "module" attribute on the logger, the context, or the record.
func NewHandler(w io.Writer, format string, rules []Rule) (slog.Handler, error) {
	defaultLevel := slog.LevelError
	modules := map[string]slog.Level{}
	for _, r := range rules {
		if r.Module == "" {
			defaultLevel = r.Level
		} else {
			modules[strings.ToLower(r.Module)] = r.Level
		}
	}
	lowestLevel := defaultLevel
	for _, l := range modules {
		if l < lowestLevel {
			lowestLevel = l
		}
	}

	opts := &slog.HandlerOptions{
		Level: lowestLevel,
	}

	var h slog.Handler
	switch strings.ToLower(format) {
	case "", "text", "plain":
		// Use zerolog's console writer to write pretty logs
		opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if a.Key != slog.MessageKey {
				return a
			}
			if a.Value.Kind() == slog.KindString {
				return slog.Any(zerolog.MessageFieldName, a.Value)
			}
			return slog.String(zerolog.MessageFieldName, fmt.Sprint(a.Value.Any()))
		}
		h = slog.NewJSONHandler(newConsoleWriter(w), opts)
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		return nil, errors.BadRequest.WithFormat("log format %q is not supported", format)
	}

	return &logHandler{
		handler:      h,
		defaultLevel: defaultLevel,
		lowestLevel:  lowestLevel,
		modules:      modules,
	}, nil
}

func newConsoleWriter(w io.Writer) *zerolog.ConsoleWriter {
	return &zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: time.RFC3339,
		FormatLevel: func(i interface{}) string {
			if ll, ok := i.(string); ok {
				return strings.ToUpper(ll)
			}
			return "????"
		},
		FormatMessage: func(i interface{}) string {
			s, ok := i.(string)
			if ok {
				return s
			}
			return fmt.Sprint(i)
		},
	}
}

type logHandler struct {
	handler      slog.Handler
	defaultLevel slog.Level
	lowestLevel  slog.Level
	modules      map[string]slog.Level
	module       string
}

func (h *logHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	i := *h
	i.handler = h.handler.WithAttrs(attrs)
	i.module = moduleOf(h.module, attrs)
	return &i
}

func (h *logHandler) WithGroup(name string) slog.Handler {
	i := *h
	i.handler = h.handler.WithGroup(name)
	return &i
}

func (h *logHandler) Enabled(ctx context.Context, level slog.Level) bool {
	// The record may still name a module with a lower level, so only the
	// lowest level can be checked here
	if level < h.lowestLevel {
		return false
	}
	return h.handler.Enabled(ctx, level)
}

func (h *logHandler) Handle(ctx context.Context, record slog.Record) error {
	ctxAttrs := Attrs(ctx)
	module := moduleOf(h.module, ctxAttrs)
	record.Attrs(func(a slog.Attr) bool {
		if a.Key == "module" {
			module = a.Value.String()
		}
		return true
	})

	if record.Level < h.levelFor(module) {
		return nil
	}

	if len(ctxAttrs) > 0 {
		record = record.Clone()
		record.AddAttrs(ctxAttrs...)
	}
	return h.handler.Handle(ctx, record)
}

func (h *logHandler) levelFor(module string) slog.Level {
	if l, ok := h.modules[strings.ToLower(module)]; ok {
		return l
	}
	return h.defaultLevel
}

func moduleOf(module string, attrs []slog.Attr) string {
	for _, a := range attrs {
		if a.Key == "module" {
			module = a.Value.String()
		}
	}
	return module
}
