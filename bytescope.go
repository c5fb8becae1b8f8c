// Package bytescope analyzes CPython bytecode.
//
// Analysis is structural first: the compiled code object tree is walked
// directly, giving per-function metadata. When that fails, the code is
// rendered as disassembly text and parsed instead, and the summary notes
// the fallback. Source text is compiled by running a Python interpreter:
//
//	result, err := bytescope.AnalyzeSource(ctx, "def f(x):\n    return x + 1\n")
//	if err != nil {
//		return err
//	}
//	fmt.Println(result.Summary)
package bytescope

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytescope/bytescope/analysis"
	"github.com/bytescope/bytescope/bytecode"
	"github.com/bytescope/bytescope/dis"
	"github.com/bytescope/bytescope/errz"
	"github.com/bytescope/bytescope/internal/pyast"
	"github.com/bytescope/bytescope/internal/pyexport"
	"github.com/bytescope/bytescope/report"
)

const (
	syntaxSummary      = "Cannot analyze bytecode due to syntax error"
	syntaxAST          = "Cannot parse due to syntax error"
	syntaxDisassembly  = "Cannot disassemble due to syntax error"
	compileSummary     = "Cannot analyze bytecode due to compilation error"
	fallbackNotePrefix = "Using fallback analysis: "
)

// Analyze analyzes a compiled code object. If the code object cannot be
// analyzed structurally, its disassembly is parsed instead and the reason
// is recorded in the result and at the top of its summary. A nil code is
// accepted when disassembly text is supplied with WithDisassembly; only
// when neither is available does Analyze return an error.
func Analyze(code *bytecode.Code, opts ...Option) (*Result, error) {
	o := collectOptions(opts...)
	if code == nil && o.disassembly == "" {
		return nil, errz.New(errz.ErrInput, "no code object or disassembly text to analyze")
	}
	return analyze(code, o, o.signatures), nil
}

// AnalyzeText parses disassembly text. The result has no per-function
// information.
func AnalyzeText(text string, opts ...Option) *Result {
	o := collectOptions(opts...)
	a := dis.Parse(text)
	o.logger.Debug().
		Str("filename", o.filename).
		Int("instructions", len(a.Instructions)).
		Msg("parsed disassembly text")
	return &Result{
		Filename:    o.filename,
		Success:     true,
		Disassembly: text,
		Summary:     report.Summary(a),
		Analysis:    a,
	}
}

// AnalyzeSource compiles Python source with the configured interpreter and
// analyzes the result. Source that does not compile yields an unsuccessful
// Result rather than an error; an error is returned only when the
// interpreter cannot be run or ctx ends.
func AnalyzeSource(ctx context.Context, source string, opts ...Option) (*Result, error) {
	o := collectOptions(opts...)
	exporter := pyexport.New(pyexport.WithPython(o.python), pyexport.WithLogger(o.logger))
	out, err := exporter.Export(ctx, pyexport.Request{
		Source:     source,
		Filename:   o.filename,
		UnsafeExec: o.unsafeExec,
	})
	if err != nil {
		return failedResult(o, err)
	}

	sigs := analysis.ChainSignatures{}
	if o.signatures != nil {
		sigs = append(sigs, o.signatures)
	}
	if len(out.Signatures) > 0 {
		sigs = append(sigs, analysis.SignatureMap(out.Signatures))
	}
	if o.staticSignatures {
		static, err := pyast.Signatures([]byte(source))
		if err != nil {
			o.logger.Debug().Err(err).Msg("static signatures unavailable")
		} else {
			sigs = append(sigs, static)
		}
	}

	if o.disassembly == "" {
		o.disassembly = out.Disassembly
	}
	res := analyze(out.Code, o, sigs)
	res.PythonVersion = out.Version
	if o.ast {
		res.AST = dumpAST(o, source)
	}
	return res, nil
}

func analyze(code *bytecode.Code, o *options, sigs analysis.SignatureProvider) *Result {
	res := &Result{
		Filename:    o.filename,
		Success:     true,
		Disassembly: o.disassembly,
	}
	a, err := analysis.Analyze(code, analysis.WithSignatures(sigs))
	if err == nil {
		o.logger.Debug().
			Str("filename", o.filename).
			Int("functions", len(a.Functions)).
			Int("instructions", len(a.Instructions)).
			Msg("analyzed code object")
		if res.Disassembly == "" {
			res.Disassembly = dis.Format(code)
		}
		res.Analysis = a
		res.Summary = report.Summary(a)
		return res
	}

	o.logger.Warn().
		Err(err).
		Str("filename", o.filename).
		Msg("structural analysis failed, falling back to disassembly text")
	text := dis.Format(code)
	if text == "" {
		text = o.disassembly
	}
	if res.Disassembly == "" {
		res.Disassembly = text
	}
	a = dis.Parse(text)
	res.Analysis = a
	res.FallbackReason = err.Error()
	res.Summary = fallbackNotePrefix + res.FallbackReason + "\n\n" + report.Summary(a)
	return res
}

// failedResult turns syntax and compile errors into an unsuccessful
// Result and passes every other error through.
func failedResult(o *options, err error) (*Result, error) {
	var se *errz.StructuredError
	if !errors.As(err, &se) {
		return nil, err
	}
	switch se.Kind {
	case errz.ErrSyntax:
		o.logger.Debug().Err(err).Str("filename", o.filename).Msg("source has a syntax error")
		return &Result{
			Filename:    o.filename,
			Errors:      []string{fmt.Sprintf("Syntax Error: %s (line %d)", se.Message, se.Location.Line)},
			AST:         syntaxAST,
			Disassembly: syntaxDisassembly,
			Summary:     syntaxSummary,
		}, nil
	case errz.ErrCompile:
		o.logger.Debug().Err(err).Str("filename", o.filename).Msg("source failed to compile")
		return &Result{
			Filename: o.filename,
			Errors:   []string{"Compilation error: " + se.Message},
			Summary:  compileSummary,
		}, nil
	default:
		return nil, err
	}
}

func dumpAST(o *options, source string) string {
	dump, err := pyast.Dump([]byte(source))
	if err != nil {
		// The interpreter accepted the source; the grammar may lag behind it.
		o.logger.Debug().Err(err).Msg("syntax tree unavailable")
		return ""
	}
	return dump
}
