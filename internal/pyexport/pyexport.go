// Package pyexport compiles Python source by running a CPython interpreter
// on an embedded exporter script. The script writes the compiled code
// object tree, the interpreter's own disassembly and, when explicitly
// enabled, function signatures obtained by executing the source.
package pyexport

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bytescope/bytescope/bytecode"
	"github.com/bytescope/bytescope/errz"
)

//go:embed exporter.py
var exporterScript string

// DefaultPython is the interpreter used when none is configured.
const DefaultPython = "python3"

// Request describes one compilation.
type Request struct {
	Source   string
	Filename string

	// UnsafeExec runs the module body to read function signatures. The
	// source is executed with the privileges of the current process.
	UnsafeExec bool
}

// Export is the result of a successful compilation.
type Export struct {
	Code        *bytecode.Code
	Disassembly string
	Signatures  map[string]string
	Version     string
}

type request struct {
	Source     string `json:"source"`
	Filename   string `json:"filename"`
	UnsafeExec bool   `json:"unsafe_exec"`
}

type response struct {
	Code        json.RawMessage   `json:"code"`
	Disassembly string            `json:"disassembly"`
	Signatures  map[string]string `json:"signatures"`
	Version     string            `json:"version"`
	Error       *struct {
		Kind   string `json:"kind"`
		Msg    string `json:"msg"`
		LineNo int    `json:"lineno"`
	} `json:"error"`
}

// Exporter runs the exporter script.
type Exporter struct {
	python string
	logger zerolog.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithPython sets the interpreter command or path.
func WithPython(python string) Option {
	return func(e *Exporter) {
		if python != "" {
			e.python = python
		}
	}
}

// WithLogger sets the logger used for interpreter invocations.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Exporter) {
		e.logger = logger
	}
}

// New returns an Exporter using DefaultPython unless configured otherwise.
func New(opts ...Option) *Exporter {
	e := &Exporter{python: DefaultPython, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Python returns the configured interpreter.
func (e *Exporter) Python() string {
	return e.python
}

// Available reports whether the interpreter can be found.
func (e *Exporter) Available() bool {
	_, err := exec.LookPath(e.python)
	return err == nil
}

// Export compiles the request's source. Syntax and compile failures are
// returned as *errz.StructuredError values of kind ErrSyntax or ErrCompile;
// failures to run the interpreter are of kind ErrInterpreter.
func (e *Exporter) Export(ctx context.Context, req Request) (*Export, error) {
	filename := req.Filename
	if filename == "" {
		filename = "<string>"
	}
	input, err := json.Marshal(request{
		Source:     req.Source,
		Filename:   filename,
		UnsafeExec: req.UnsafeExec,
	})
	if err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.python, "-I", "-c", exporterScript)
	cmd.Stdin = bytes.NewReader(input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	e.logger.Debug().
		Str("python", e.python).
		Str("filename", filename).
		Bool("unsafe_exec", req.UnsafeExec).
		Msg("running exporter")

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, exec.ErrNotFound) {
			return nil, errz.Newf(errz.ErrInterpreter, "python interpreter %q not found", e.python).WithCause(err)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, errz.Newf(errz.ErrInterpreter, "exporter failed: %s", lastLine(msg)).WithCause(err)
	}

	var resp response
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return nil, errz.New(errz.ErrInterpreter, "invalid exporter output").WithCause(err)
	}
	if resp.Error != nil {
		kind := errz.ErrCompile
		if resp.Error.Kind == "syntax" {
			kind = errz.ErrSyntax
		}
		return nil, errz.New(kind, resp.Error.Msg).WithLocation(errz.SourceLocation{
			Filename: filename,
			Line:     resp.Error.LineNo,
			Source:   bytecode.SourceLine(req.Source, resp.Error.LineNo),
		})
	}

	code, err := bytecode.Unmarshal(resp.Code)
	if err != nil {
		return nil, errz.New(errz.ErrInterpreter, "invalid code object from exporter").WithCause(err)
	}
	e.logger.Debug().
		Str("version", resp.Version).
		Int("instructions", code.Stats().InstructionCount).
		Msg("exported code object")

	return &Export{
		Code:        code,
		Disassembly: resp.Disassembly,
		Signatures:  resp.Signatures,
		Version:     resp.Version,
	}, nil
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
