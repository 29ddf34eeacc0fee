// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides the [slog.Handler]s used by the launcher.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ErrUnknownLevel is returned for log level names that are not known.
var ErrUnknownLevel = errors.New("unknown log level")

// ErrUnknownFormat is returned for log format names that are not known.
var ErrUnknownFormat = errors.New("unknown log format")

// Format is the output format of log records.
type Format string

const (
	// FormatText renders records as terse single lines.
	FormatText Format = "text"
	// FormatJSON renders records as JSON objects.
	FormatJSON Format = "json"
)

// ParseFormat returns the [Format] with the given name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ParseLevel returns the [slog.Level] with the given name.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
}

// New returns a logger writing records of at least the given level to w.
func New(w io.Writer, format Format, level slog.Leveler) *slog.Logger {
	if format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}

	return slog.New(NewTextHandler(w, level))
}

// TextHandler renders records as "LEVEL message key=value ..." lines.
type TextHandler struct {
	writer io.Writer
	level  slog.Leveler

	// Timestamps prefixes each line with the record time.
	Timestamps bool

	mu *sync.Mutex

	// Attributes added by WithAttrs, already rendered with the groups
	// that were open at that time.
	preformatted string
	groups       []string
}

// NewTextHandler returns a new [TextHandler]. If level is nil,
// [slog.LevelInfo] is used.
func NewTextHandler(w io.Writer, level slog.Leveler) *TextHandler {
	if level == nil {
		level = slog.LevelInfo
	}

	return &TextHandler{
		writer: w,
		level:  level,
		mu:     &sync.Mutex{},
	}
}

// Enabled implements [slog.Handler].
func (h *TextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements [slog.Handler].
func (h *TextHandler) Handle(_ context.Context, record slog.Record) error {
	var builder strings.Builder

	if h.Timestamps && !record.Time.IsZero() {
		builder.WriteString(record.Time.Format(time.RFC3339))
		builder.WriteByte(' ')
	}

	builder.WriteString(record.Level.String())
	builder.WriteByte(' ')
	builder.WriteString(record.Message)

	builder.WriteString(h.preformatted)

	record.Attrs(func(attr slog.Attr) bool {
		appendAttr(&builder, h.groups, attr)
		return true
	})

	builder.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := io.WriteString(h.writer, builder.String())

	return err //nolint:wrapcheck
}

// WithAttrs implements [slog.Handler].
func (h *TextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var builder strings.Builder
	for _, attr := range attrs {
		appendAttr(&builder, h.groups, attr)
	}

	clone := *h
	clone.preformatted += builder.String()

	return &clone
}

// WithGroup implements [slog.Handler].
func (h *TextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	clone := *h
	clone.groups = append(slices.Clip(h.groups), name)

	return &clone
}

func appendAttr(builder *strings.Builder, groups []string, attr slog.Attr) {
	value := attr.Value.Resolve()

	if value.Kind() == slog.KindGroup {
		nested := groups
		if attr.Key != "" {
			nested = append(slices.Clip(groups), attr.Key)
		}

		for _, member := range value.Group() {
			appendAttr(builder, nested, member)
		}

		return
	}

	if attr.Equal(slog.Attr{}) {
		return
	}

	key := attr.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}

	builder.WriteByte(' ')
	builder.WriteString(key)
	builder.WriteByte('=')
	builder.WriteString(quote(formatValue(value)))
}

func formatValue(value slog.Value) string {
	switch value.Kind() {
	case slog.KindDuration:
		return value.Duration().String()
	case slog.KindTime:
		return value.Time().Format(time.RFC3339)
	case slog.KindAny:
		if err, ok := value.Any().(error); ok && err != nil {
			return err.Error()
		}

		return fmt.Sprint(value.Any())
	default:
		return value.String()
	}
}

func quote(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}

	return s
}
