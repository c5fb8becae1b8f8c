package main

import (
	"context"
	"fmt"
	"runtime"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bytescope/bytescope"
	"github.com/bytescope/bytescope/bytecode"
	"github.com/bytescope/bytescope/errz"
)

func (a *app) analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Analyze Python source, exported code objects or dis listings",
		Long: `Analyze Python source, exported code objects or dis listings.

Files ending in .py are compiled with the configured interpreter, .json
files are read as exported code objects and .dis or .txt files as dis
listings. Patterns such as "src/**/*.py" are expanded.`,
		Args: cobra.ArbitraryArgs,
		RunE: a.runAnalyze,
	}
	addAnalyzeFlags(cmd)
	return cmd
}

func addAnalyzeFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("input", "", "input kind: source, code or dis (default: by extension)")
	flags.Bool("unsafe-exec", false, "execute the module to read runtime signatures")
	flags.Bool("static-signatures", true, "read signatures from def headers")
	flags.Int("jobs", runtime.NumCPU(), "number of inputs analyzed concurrently")
	flags.Bool("watch", false, "re-analyze files when they change")
}

// outcome pairs an input with its analysis result or failure.
type outcome struct {
	in     input
	result *bytescope.Result
	err    error
}

// failed reports whether the outcome should make the command fail.
func (o outcome) failed() bool {
	return o.err != nil || o.result == nil || !o.result.Success
}

func (a *app) runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	inputs, err := a.readInputs(cmd, args, a.v.GetString("input"))
	if err != nil {
		return err
	}
	if !a.v.GetBool("watch") {
		return a.analyzeAndWrite(ctx, inputs)
	}

	var paths []string
	for _, in := range inputs {
		if in.path == "" {
			return errz.New(errz.ErrInput, "--watch requires file arguments")
		}
		paths = append(paths, in.path)
	}
	if err := a.analyzeAndWrite(ctx, inputs); err != nil {
		a.printError(err)
	}
	return watchFiles(ctx, paths, watchDebounce, a.logger, func(changed []string) {
		for i := range inputs {
			if err := inputs[i].load(); err != nil {
				a.logger.Warn().Err(err).Str("file", inputs[i].path).Msg("reload failed")
			}
		}
		a.logger.Info().Strs("changed", changed).Msg("re-analyzing")
		if err := a.analyzeAndWrite(ctx, inputs); err != nil {
			a.printError(err)
		}
	})
}

func (a *app) analyzeAndWrite(ctx context.Context, inputs []input) error {
	outcomes, err := a.analyzeAll(ctx, inputs)
	if err != nil {
		return err
	}
	if err := a.writeOutcomes(outcomes); err != nil {
		return err
	}
	return outcomeErrors(outcomes)
}

// analyzeAll analyzes inputs concurrently. Outcomes are returned in input
// order. Per-input failures are recorded in the outcome; only
// cancellation aborts the batch.
func (a *app) analyzeAll(ctx context.Context, inputs []input) ([]outcome, error) {
	jobs := a.v.GetInt("jobs")
	if jobs < 1 {
		jobs = 1
	}
	outcomes := make([]outcome, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, err := a.analyzeInput(gctx, in)
			outcomes[i] = outcome{in: in, result: result, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (a *app) analyzeInput(ctx context.Context, in input) (*bytescope.Result, error) {
	opts := []bytescope.Option{
		bytescope.WithFilename(in.name),
		bytescope.WithLogger(a.logger),
	}
	switch in.kind {
	case kindDis:
		return bytescope.AnalyzeText(in.data, opts...), nil
	case kindCode:
		code, err := bytecode.Unmarshal([]byte(in.data))
		if err != nil {
			return nil, errz.New(errz.ErrInput, "invalid code object: "+err.Error()).WithCause(err)
		}
		return bytescope.Analyze(code, opts...)
	default:
		opts = append(opts,
			bytescope.WithPython(a.v.GetString("python")),
			bytescope.WithUnsafeExec(a.v.GetBool("unsafe-exec")),
			bytescope.WithStaticSignatures(a.v.GetBool("static-signatures")),
			bytescope.WithAST(a.v.GetString("output") == "json"),
		)
		return bytescope.AnalyzeSource(ctx, in.data, opts...)
	}
}

// outcomeErrors combines the failures of a batch into one error.
func outcomeErrors(outcomes []outcome) error {
	var result *multierror.Error
	for _, o := range outcomes {
		switch {
		case o.err != nil:
			result = multierror.Append(result, fmt.Errorf("%s: %w", o.in.name, o.err))
		case o.failed():
			result = multierror.Append(result, fmt.Errorf("%s: analysis failed", o.in.name))
		}
	}
	if result == nil {
		return nil
	}
	if len(result.Errors) == 1 {
		return result.Errors[0]
	}
	result.ErrorFormat = func(errs []error) string {
		return fmt.Sprintf("%d of %d inputs failed", len(errs), len(outcomes))
	}
	return result
}
