package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bytescope/bytescope/analysis"
	"github.com/bytescope/bytescope/report"
)

// references is the JSON form of the refs command.
type references struct {
	Name     string                  `json:"name"`
	Function string                  `json:"function,omitempty"`
	Scope    string                  `json:"scope"`
	Uses     []report.InstructionDoc `json:"uses"`
	Calls    []report.InstructionDoc `json:"calls"`
}

func (a *app) refsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refs NAME [file]",
		Short: "Show where a name is defined, used and called",
		Long: `Show where a name is defined, used and called.

The scope is the first function holding NAME as a local, free or cell
variable. Uses are the loads and stores of NAME, and calls are the call
instructions naming it.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: a.runRefs,
	}
	cmd.Flags().String("input", "", "input kind: source, code or dis (default: by extension)")
	return cmd
}

func (a *app) runRefs(cmd *cobra.Command, args []string) error {
	name := args[0]
	inputs, err := a.readInputs(cmd, args[1:], a.v.GetString("input"))
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
	fn, scope := an.VariableScope(name)
	uses := an.VariableUses(name)
	calls := an.CallSites(name)
	if a.jsonOutput() {
		refs := references{
			Name:  name,
			Scope: scope.String(),
			Uses:  report.InstructionDocs(uses),
			Calls: report.InstructionDocs(calls),
		}
		if fn != nil {
			refs.Function = fn.Name
		}
		return writeJSON(a.stdout, refs)
	}

	if result.Fallback() {
		fmt.Fprintln(a.stdout, yellow("warning: "+result.FallbackReason))
	}
	if fn != nil {
		fmt.Fprintf(a.stdout, "%s: %s variable of %s\n", bold(name), scope, fn.Name)
	} else {
		fmt.Fprintf(a.stdout, "%s: no function holds it\n", bold(name))
	}
	if err := printRefs(a, "uses", uses); err != nil {
		return err
	}
	return printRefs(a, "calls", calls)
}

func printRefs(a *app, title string, instrs []analysis.Instruction) error {
	fmt.Fprintf(a.stdout, "\n%s (%d)\n", bold(title), len(instrs))
	if len(instrs) == 0 {
		return nil
	}
	return report.PrintInstructions(a.stdout, instrs)
}
