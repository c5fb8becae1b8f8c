package bytescope

import (
	"github.com/bytescope/bytescope/analysis"
	"github.com/bytescope/bytescope/report"
)

// Result is the outcome of analyzing one input.
type Result struct {
	Filename string

	// Success is false when the source could not be compiled. Errors then
	// holds the reason and Analysis is nil.
	Success bool
	Errors  []string

	AST         string
	Disassembly string
	Summary     string
	Analysis    *analysis.Analysis

	// FallbackReason is set when structural analysis failed and the
	// disassembly text was parsed instead.
	FallbackReason string

	// PythonVersion is the version of the interpreter that compiled the
	// source, when source was compiled.
	PythonVersion string
}

// Fallback reports whether the text parser produced the analysis.
func (r *Result) Fallback() bool {
	return r.FallbackReason != ""
}

// ResultDoc is the JSON form of a Result.
type ResultDoc struct {
	FilePath string   `json:"file_path"`
	Success  bool     `json:"success"`
	Errors   []string `json:"errors"`
	Data     DataDoc  `json:"data"`
}

// DataDoc holds the analysis outputs of a ResultDoc.
type DataDoc struct {
	AST              string              `json:"ast,omitempty"`
	Disassembly      string              `json:"disassembly"`
	BytecodeAnalysis *report.AnalysisDoc `json:"bytecode_analysis,omitempty"`
	AnalysisSummary  string              `json:"analysis_summary"`
	FallbackReason   string              `json:"fallback_reason,omitempty"`
	PythonVersion    string              `json:"python_version,omitempty"`
}

// Document converts the result to its JSON form.
func (r *Result) Document() *ResultDoc {
	doc := &ResultDoc{
		FilePath: r.Filename,
		Success:  r.Success,
		Errors:   r.Errors,
		Data: DataDoc{
			AST:             r.AST,
			Disassembly:     r.Disassembly,
			AnalysisSummary: r.Summary,
			FallbackReason:  r.FallbackReason,
			PythonVersion:   r.PythonVersion,
		},
	}
	if doc.Errors == nil {
		doc.Errors = []string{}
	}
	if r.Analysis != nil {
		doc.Data.BytecodeAnalysis = report.Document(r.Analysis)
	}
	return doc
}
