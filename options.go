package regbridge

import (
	"github.com/rs/zerolog"

	"github.com/auvred/regbridge/internal/encoding"
	"github.com/auvred/regbridge/internal/translator"
)

type config struct {
	logger     *zerolog.Logger
	location   Location
	possessive bool
	strict     bool
	maxDepth   int
	maxGroups  int
}

// Option configures Compile.
type Option func(*config)

// WithLogger logs the compilation of one pattern to l instead of the
// package logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.logger = &l
	}
}

// WithLocation attaches the place the pattern comes from to its syntax
// errors.
func WithLocation(file string, line, column int) Option {
	return func(c *config) {
		c.location = Location{File: file, Line: line, Column: column}
	}
}

// WithPossessive accepts a + suffix on quantifiers, as in a*+.
func WithPossessive() Option {
	return func(c *config) {
		c.possessive = true
	}
}

// WithStrict rejects the legacy syntax of Annex B in non-Unicode patterns.
func WithStrict() Option {
	return func(c *config) {
		c.strict = true
	}
}

// WithLimits caps the nesting depth and the number of capturing groups.
// Zero or negative values keep the default of 65535.
func WithLimits(depth, groups int) Option {
	return func(c *config) {
		c.maxDepth = depth
		c.maxGroups = groups
	}
}

func newConfig(opts []Option) config {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	if c.logger == nil {
		l := currentLogger()
		c.logger = &l
	}
	return c
}

func (c *config) translatorOptions(flags Flag, enc encoding.Encoding) translator.Options {
	return translator.Options{
		IgnoreCase: flags.has(FlagIgnoreCase),
		Multiline:  flags.has(FlagMultiline),
		DotAll:     flags.has(FlagDotAll),
		Unicode:    flags.has(FlagUnicode),
		Strict:     c.strict,
		Possessive: c.possessive,
		MaxDepth:   c.maxDepth,
		MaxGroups:  c.maxGroups,
		Encoding:   enc,
		Logger:     c.logger,
	}
}
