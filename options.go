package bytescope

import (
	"github.com/rs/zerolog"

	"github.com/bytescope/bytescope/analysis"
)

// Option configures an analysis.
type Option func(*options)

type options struct {
	filename         string
	signatures       analysis.SignatureProvider
	disassembly      string
	python           string
	unsafeExec       bool
	ast              bool
	staticSignatures bool
	logger           zerolog.Logger
}

func collectOptions(opts ...Option) *options {
	o := &options{
		filename:         "<string>",
		ast:              true,
		staticSignatures: true,
		logger:           zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// WithFilename sets the filename reported in results and compiled code.
func WithFilename(filename string) Option {
	return func(o *options) {
		if filename != "" {
			o.filename = filename
		}
	}
}

// WithSignatures supplies call signatures for analyzed functions. The
// provider is consulted before any signatures found in the source.
func WithSignatures(p analysis.SignatureProvider) Option {
	return func(o *options) {
		o.signatures = p
	}
}

// WithDisassembly supplies disassembly text. It is shown in results and
// parsed when no code object is available.
func WithDisassembly(text string) Option {
	return func(o *options) {
		o.disassembly = text
	}
}

// WithPython sets the interpreter used to compile source.
func WithPython(python string) Option {
	return func(o *options) {
		o.python = python
	}
}

// WithUnsafeExec enables reading signatures by executing the module body
// in the interpreter. Only enable this for trusted source.
func WithUnsafeExec(enabled bool) Option {
	return func(o *options) {
		o.unsafeExec = enabled
	}
}

// WithAST controls whether source analyses include a syntax tree dump.
// Enabled by default.
func WithAST(enabled bool) Option {
	return func(o *options) {
		o.ast = enabled
	}
}

// WithStaticSignatures controls whether signatures are read from def
// headers in the source without running it. Enabled by default.
func WithStaticSignatures(enabled bool) Option {
	return func(o *options) {
		o.staticSignatures = enabled
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
