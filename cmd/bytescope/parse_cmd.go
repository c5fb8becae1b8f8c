package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bytescope/bytescope"
	"github.com/bytescope/bytescope/report"
)

func (a *app) parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a dis listing and summarize it",
		Long: `Parse a dis listing and summarize it.

The listing is read from a file, --code or --stdin. Lines that are not
instructions are ignored.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.runParse,
	}
}

func (a *app) runParse(cmd *cobra.Command, args []string) error {
	inputs, err := a.readInputs(cmd, args, kindDis)
	if err != nil {
		return err
	}
	in := inputs[0]
	result := bytescope.AnalyzeText(in.data,
		bytescope.WithFilename(in.name),
		bytescope.WithLogger(a.logger))
	if a.jsonOutput() {
		return writeJSON(a.stdout, result.Document())
	}
	if err := report.PrintInstructions(a.stdout, result.Analysis.Instructions); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout)
	fmt.Fprintln(a.stdout, result.Summary)
	return nil
}
