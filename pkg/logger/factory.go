package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Format is the log output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Option configures New.
type Option func(*options)

type options struct {
	level      slog.Level
	format     Format
	output     io.Writer
	attrs      []slog.Attr
	extractors []ContextExtractor
}

// preset is the format and level an environment starts from.
type preset struct {
	name   string
	level  slog.Level
	format Format
}

var presets = map[string]preset{
	"development": {"development", slog.LevelDebug, FormatText},
	"dev":         {"development", slog.LevelDebug, FormatText},
	"staging":     {"staging", slog.LevelInfo, FormatJSON},
	"stage":       {"staging", slog.LevelInfo, FormatJSON},
	"production":  {"production", slog.LevelInfo, FormatJSON},
	"prod":        {"production", slog.LevelInfo, FormatJSON},
}

// WithEnvironment applies the preset for env and tags every record with
// "service" and "env". Unknown environments fall back to development.
// Options given later still override the preset.
func WithEnvironment(env, service string) Option {
	return func(o *options) {
		p, ok := presets[env]
		if !ok {
			p = presets["development"]
		}
		o.level = p.level
		o.format = p.format
		o.attrs = append(o.attrs, slog.String("env", p.name))
		if service != "" {
			o.attrs = append(o.attrs, slog.String("service", service))
		}
	}
}

// WithLevelName sets the minimum level from "debug", "info", "warn" or "error".
// Empty and unknown names leave the level unchanged.
func WithLevelName(name string) Option {
	return func(o *options) {
		var l slog.Level
		if name != "" && l.UnmarshalText([]byte(name)) == nil {
			o.level = l
		}
	}
}

// WithFormat sets the output format. An empty format is ignored; any other
// unknown value panics.
func WithFormat(f Format) Option {
	return func(o *options) {
		switch f {
		case "":
		case FormatJSON, FormatText:
			o.format = f
		default:
			panic(fmt.Errorf("invalid log format %q: must be %q or %q", f, FormatJSON, FormatText))
		}
	}
}

// WithOutput sets the destination. Nil writers are ignored.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.output = w
		}
	}
}

// WithAttr adds static attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(o *options) {
		o.attrs = append(o.attrs, attrs...)
	}
}

// WithContextExtractors registers functions that add attributes taken from the
// context passed to the *Context logging methods.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(o *options) {
		o.extractors = append(o.extractors, extractors...)
	}
}

// WithContextValue logs ctx.Value(key) under name whenever it is set.
func WithContextValue(name string, key any) Option {
	if name == "" || key == nil {
		return func(*options) {}
	}
	return WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
		if v := ctx.Value(key); v != nil {
			return slog.Any(name, v), true
		}
		return slog.Attr{}, false
	})
}

// SetAsDefault makes l the logger behind the slog package functions.
func SetAsDefault(l *slog.Logger) {
	slog.SetDefault(l)
}

// New builds a logger. Without options it writes JSON at info level to stdout.
func New(opts ...Option) *slog.Logger {
	o := &options{
		level:  slog.LevelInfo,
		format: FormatJSON,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(o)
	}

	handlerOpts := &slog.HandlerOptions{Level: o.level}
	var handler slog.Handler
	if o.format == FormatText {
		handler = slog.NewTextHandler(o.output, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(o.output, handlerOpts)
	}
	if len(o.attrs) > 0 {
		handler = handler.WithAttrs(o.attrs)
	}

	return slog.New(NewContextHandler(handler, o.extractors...))
}
