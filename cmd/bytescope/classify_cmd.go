package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/bytescope/bytescope/internal/table"
	"github.com/bytescope/bytescope/op"
)

// classification is the JSON form of one classified mnemonic.
type classification struct {
	Opname     string `json:"opname"`
	Type       string `json:"instruction_type"`
	Known      bool   `json:"known"`
	Suggestion string `json:"suggestion,omitempty"`
}

func (a *app) classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [opname...]",
		Short: "Show the category of bytecode mnemonics",
		Long: `Show the category of bytecode mnemonics.

Without arguments every classified mnemonic is listed. Unknown mnemonics
are classified as "other", with suggestions for near misses.`,
		Args: cobra.ArbitraryArgs,
		RunE: a.runClassify,
	}
}

func (a *app) runClassify(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = op.Names()
	}
	results := make([]classification, len(args))
	for i, name := range args {
		results[i] = classification{
			Opname: name,
			Type:   op.Classify(name).String(),
			Known:  op.Known(name),
		}
		if !results[i].Known {
			results[i].Suggestion = op.FormatSuggestions(op.Suggest(name))
		}
	}
	if a.jsonOutput() {
		return writeJSON(a.stdout, results)
	}

	tbl := table.NewTable(a.stdout).WithHeader([]string{"OPNAME", "TYPE", "NOTE"})
	for _, c := range results {
		note := c.Suggestion
		if !c.Known && note == "" {
			note = "unknown"
		}
		tbl.Append([]string{c.Opname, strings.ToUpper(c.Type), note})
	}
	return tbl.Render()
}
