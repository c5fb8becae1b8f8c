package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"

	"github.com/bytescope/bytescope"
)

var (
	bold   = color.New(color.Bold).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

// writeJSON writes v as indented JSON, colorized when colors are enabled.
func writeJSON(w io.Writer, v any) error {
	var (
		data []byte
		err  error
	)
	if color.NoColor {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = prettyjson.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func (a *app) jsonOutput() bool {
	return a.v.GetString("output") == "json"
}

// writeOutcomes renders a batch. A single input is written as one JSON
// object; several become an array.
func (a *app) writeOutcomes(outcomes []outcome) error {
	if a.jsonOutput() {
		docs := make([]*bytescope.ResultDoc, len(outcomes))
		for i, o := range outcomes {
			docs[i] = outcomeDoc(o)
		}
		if len(docs) == 1 {
			return writeJSON(a.stdout, docs[0])
		}
		return writeJSON(a.stdout, docs)
	}
	for i, o := range outcomes {
		if len(outcomes) > 1 {
			if i > 0 {
				fmt.Fprintln(a.stdout)
			}
			fmt.Fprintln(a.stdout, bold("==> "+o.in.name+" <=="))
		}
		a.writeText(o)
	}
	return nil
}

func (a *app) writeText(o outcome) {
	if o.err != nil {
		fmt.Fprintln(a.stdout, red("Error: "+o.err.Error()))
		return
	}
	r := o.result
	for _, e := range r.Errors {
		fmt.Fprintln(a.stdout, red(e))
	}
	if r.Fallback() {
		fmt.Fprintln(a.stdout, yellow("warning: structural analysis failed, used disassembly text"))
	}
	fmt.Fprintln(a.stdout, r.Summary)
}

// outcomeDoc returns the JSON document for an outcome. Inputs that could
// not be analyzed at all get a document holding only the error.
func outcomeDoc(o outcome) *bytescope.ResultDoc {
	if o.err == nil && o.result != nil {
		return o.result.Document()
	}
	msg := "analysis failed"
	if o.err != nil {
		msg = o.err.Error()
	}
	return &bytescope.ResultDoc{
		FilePath: o.in.name,
		Errors:   []string{msg},
	}
}
