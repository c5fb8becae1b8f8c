package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bytescope/bytescope/errz"
)

const defaultConfigFile = "~/.bytescope.yaml"

// app holds the state shared by every command of one invocation.
type app struct {
	v      *viper.Viper
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger zerolog.Logger
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		v:      viper.New(),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		logger: zerolog.Nop(),
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bytescope [files...]",
		Short: "Analyze CPython bytecode",
		Long: `Analyze CPython bytecode.

Inputs are Python source files, code objects exported as JSON, or dis
listings. Without a subcommand, bytescope runs "analyze".`,
		Version:           fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default "+defaultConfigFile+")")
	flags.Bool("no-color", false, "disable colored output")
	flags.String("log-level", "warn", "log level: debug, info, warn, error")
	flags.String("python", "python3", "python interpreter used to compile source")
	flags.StringP("output", "o", "text", "output format: text or json")
	flags.StringP("code", "c", "", "analyze the given text instead of files")
	flags.Bool("stdin", false, "read input from stdin")

	analyze := a.analyzeCmd()
	root.RunE = analyze.RunE
	root.Args = analyze.Args
	addAnalyzeFlags(root)

	root.AddCommand(
		analyze,
		a.disCmd(),
		a.refsCmd(),
		a.parseCmd(),
		a.classifyCmd(),
		a.astCmd(),
		a.versionCmd(),
	)
	return root
}

// setup binds flags, environment and config file into viper and
// configures colors and logging. It runs before every command.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	v := a.v
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	v.SetEnvPrefix("BYTESCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := a.readConfig(); err != nil {
		return err
	}

	if v.GetBool("no-color") || os.Getenv("NO_COLOR") != "" || !isTerminal(a.stdout) {
		color.NoColor = true
	}

	level, err := zerolog.ParseLevel(strings.ToLower(v.GetString("log-level")))
	if err != nil {
		return fmt.Errorf("invalid log level %q", v.GetString("log-level"))
	}
	a.logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        a.stderr,
		NoColor:    color.NoColor,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Logger()

	switch format := v.GetString("output"); format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
	return nil
}

func (a *app) readConfig() error {
	path := a.v.GetString("config")
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err != nil {
		if explicit {
			return fmt.Errorf("config file: %w", err)
		}
		return nil
	}
	a.v.SetConfigFile(expanded)
	if err := a.v.ReadInConfig(); err != nil {
		return fmt.Errorf("config file %s: %w", expanded, err)
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

var red = color.New(color.FgRed).SprintFunc()

func (a *app) printError(err error) {
	msg := err.Error()
	var se *errz.StructuredError
	if errors.As(err, &se) && se.Location.Source != "" {
		msg = strings.TrimRight(se.FriendlyErrorMessage(), "\n")
	}
	fmt.Fprintln(a.stderr, red(msg))
}
