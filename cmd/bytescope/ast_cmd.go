package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bytescope/bytescope/internal/pyast"
)

func (a *app) astCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ast [file]",
		Short: "Print the syntax tree of Python source",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := a.readInputs(cmd, args, kindSource)
			if err != nil {
				return err
			}
			dump, err := pyast.Dump([]byte(inputs[0].data))
			if err != nil {
				return err
			}
			if a.jsonOutput() {
				return writeJSON(a.stdout, map[string]string{
					"file_path": inputs[0].name,
					"ast":       dump,
				})
			}
			fmt.Fprintln(a.stdout, dump)
			return nil
		},
	}
}
