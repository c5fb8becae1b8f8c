package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bytescope/bytescope/analysis"
	"github.com/bytescope/bytescope/errz"
	"github.com/bytescope/bytescope/report"
)

func (a *app) disCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dis [file]",
		Short: "Print the typed instruction listing of each function",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runDis,
	}
	cmd.Flags().String("input", "", "input kind: source, code or dis (default: by extension)")
	cmd.Flags().StringSlice("func", nil, "only list the named functions")
	return cmd
}

func (a *app) runDis(cmd *cobra.Command, args []string) error {
	inputs, err := a.readInputs(cmd, args, a.v.GetString("input"))
	if err != nil {
		return err
	}
	in := inputs[0]
	result, err := a.analyzeInput(cmd.Context(), in)
	if err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("%s: %s", in.name, strings.Join(result.Errors, "; "))
	}

	an := result.Analysis
	functions, err := selectFunctions(an, a.v.GetStringSlice("func"))
	if err != nil {
		return err
	}
	if a.jsonOutput() {
		doc := report.Document(an)
		if len(functions) < len(an.Functions) {
			doc = report.Document(subset(functions))
		}
		return writeJSON(a.stdout, doc)
	}

	if result.Fallback() {
		fmt.Fprintln(a.stdout, yellow("warning: "+result.FallbackReason))
	}
	if len(functions) == 0 {
		return report.PrintInstructions(a.stdout, an.Instructions)
	}
	if err := report.PrintOverview(a.stdout, functions); err != nil {
		return err
	}
	for _, fn := range functions {
		fmt.Fprintln(a.stdout)
		fmt.Fprintln(a.stdout, bold(fn.Describe()))
		if err := report.PrintFunction(a.stdout, an, fn); err != nil {
			return err
		}
	}
	return nil
}

// selectFunctions returns the functions named in filter, or all of them
// when filter is empty. Text analyses have no functions.
func selectFunctions(an *analysis.Analysis, filter []string) ([]*analysis.FunctionInfo, error) {
	if len(filter) == 0 {
		return an.Functions, nil
	}
	if len(an.Functions) == 0 {
		return nil, errz.New(errz.ErrInput, "--func needs a code object; text listings have no functions")
	}
	var selected []*analysis.FunctionInfo
	for _, name := range filter {
		found := false
		for _, fn := range an.Functions {
			if fn.Name == name {
				selected = append(selected, fn)
				found = true
			}
		}
		if !found {
			names := make([]string, len(an.Functions))
			for i, fn := range an.Functions {
				names[i] = fn.Name
			}
			return nil, errz.Newf(errz.ErrInput, "no function named %q (have %s)", name, strings.Join(names, ", "))
		}
	}
	return selected, nil
}

// subset returns an analysis holding only the instructions and functions
// of the given functions.
func subset(functions []*analysis.FunctionInfo) *analysis.Analysis {
	an := &analysis.Analysis{Functions: functions}
	for _, fn := range functions {
		an.Instructions = append(an.Instructions, fn.Instructions...)
	}
	return an
}
