package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/bytescope/bytescope/errz"
)

// Input kinds.
const (
	kindSource = "source"
	kindCode   = "code"
	kindDis    = "dis"
)

// input is one unit of work read from a file, --code or stdin.
type input struct {
	name string // shown in output and used as the compile filename
	path string // empty unless read from a file
	kind string
	data string
}

// kindFor picks the input kind. An explicit kind wins; otherwise it is
// inferred from the file extension and defaults to source.
func kindFor(explicit, path string) (string, error) {
	switch explicit {
	case kindSource, kindCode, kindDis:
		return explicit, nil
	case "":
	default:
		return "", fmt.Errorf("unknown input kind: %s (want source, code or dis)", explicit)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return kindCode, nil
	case ".dis", ".txt":
		return kindDis, nil
	default:
		return kindSource, nil
	}
}

// expandArgs resolves file arguments. Arguments containing glob
// metacharacters are expanded with "**" support; others are kept as is.
func expandArgs(args []string) ([]string, error) {
	var paths []string
	seen := map[string]bool{}
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			if !seen[arg] {
				seen[arg] = true
				paths = append(paths, arg)
			}
			continue
		}
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", arg)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	return paths, nil
}

// readInputs determines what to analyze. There are three possibilities:
// --code, --stdin, or one or more paths and patterns as arguments.
func (a *app) readInputs(cmd *cobra.Command, args []string, explicitKind string) ([]input, error) {
	codeSet := cmd.Flags().Changed("code")
	stdinSet := a.v.GetBool("stdin")
	pathSupplied := len(args) > 0

	count := 0
	for _, set := range []bool{codeSet, stdinSet, pathSupplied} {
		if set {
			count++
		}
	}
	if count > 1 {
		return nil, errz.New(errz.ErrInput, "multiple input sources specified")
	}
	if count == 0 {
		return nil, errz.New(errz.ErrInput, "no input provided")
	}

	if codeSet || stdinSet {
		kind, err := kindFor(explicitKind, "")
		if err != nil {
			return nil, err
		}
		in := input{name: "<string>", kind: kind, data: a.v.GetString("code")}
		if stdinSet {
			data, err := io.ReadAll(a.stdin)
			if err != nil {
				return nil, err
			}
			in.name, in.data = "<stdin>", string(data)
		}
		return []input{in}, nil
	}

	paths, err := expandArgs(args)
	if err != nil {
		return nil, err
	}
	inputs := make([]input, 0, len(paths))
	for _, path := range paths {
		kind, err := kindFor(explicitKind, path)
		if err != nil {
			return nil, err
		}
		in := input{name: path, path: path, kind: kind}
		if err := in.load(); err != nil {
			return nil, err
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

// load reads the input's file.
func (in *input) load() error {
	data, err := os.ReadFile(in.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return errz.Newf(errz.ErrInput, "file not found: %s", in.path).WithCause(err)
		}
		return err
	}
	in.data = string(data)
	return nil
}
