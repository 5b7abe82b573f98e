package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bjaus/schemafmt"
)

// maxParallelLoads bounds how many schema files are decoded at once.
const maxParallelLoads = 4

// renderFlags holds the parsed flags for the render command.
type renderFlags struct {
	color     string
	constants string
	out       string
	verbose   bool
}

func newRenderCmd() *cobra.Command {
	var flags renderFlags
	cmd := &cobra.Command{
		Use:   "render [schema-file...]",
		Short: "Render one or more schema files (stdin when none are given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, flags)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.color, "color", "auto", "Color output: auto, always, or never")
	f.StringVar(&flags.constants, "constants", "", "YAML or JSON file with the schema contract constants")
	f.StringVar(&flags.out, "out", "", "Write output to file instead of stdout")
	f.BoolVar(&flags.verbose, "verbose", false, "Print processing steps to stderr")
	return cmd
}

func runRender(cmd *cobra.Command, paths []string, flags renderFlags) (err error) {
	stderr := cmd.ErrOrStderr()

	meta, err := loadMetadata(flags.constants)
	if err != nil {
		return codeError(exitCodeInput, "loading constants: %s", err)
	}
	consts, err := meta.Constants()
	if err != nil {
		return codeError(exitCodeInput, "reading constants: %s", err)
	}
	table := schemafmt.NewSlotTable(consts)
	logVerbose(stderr, flags.verbose, "Contract exposes %d slot(s)", len(table))

	var schemas []schemafmt.Schema
	if len(paths) == 0 {
		logVerbose(stderr, flags.verbose, "Reading schema from stdin")
		var s schemafmt.Schema
		s, err = schemafmt.LoadSchema(cmd.InOrStdin(), table)
		schemas = []schemafmt.Schema{s}
	} else {
		logVerbose(stderr, flags.verbose, "Loading %d schema file(s)", len(paths))
		schemas, err = loadSchemas(paths, table)
	}
	if err != nil {
		return codeError(exitCodeInput, "loading schema: %s", err)
	}

	// A regular file is never a terminal, so auto mode renders plain text.
	var target io.Writer = cmd.OutOrStdout()
	if flags.out != "" {
		target = io.Discard
	}
	mode, err := resolveMode(flags.color, target)
	if err != nil {
		return codeError(exitCodeInput, "invalid flags: %s", err)
	}

	r, err := schemafmt.New(meta, mode)
	if err != nil {
		return codeError(exitCodeInput, "assembling renderer: %s", err)
	}
	roles := 0
	for _, s := range schemas {
		roles += len(s)
	}
	logVerbose(stderr, flags.verbose, "Rendering %d role(s) (mode: %s)", roles, mode)

	w := cmd.OutOrStdout()
	if flags.out != "" {
		f, cerr := os.Create(flags.out)
		if cerr != nil {
			return codeError(exitCodeInput, "creating output file: %s", cerr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing output file: %w", cerr)
			}
		}()
		w = f
	}
	return renderSchemas(w, r, schemas)
}

// renderSchemas writes each schema in order, separating non-empty ones with
// a blank line.
func renderSchemas(w io.Writer, r *schemafmt.SchemaRenderer, schemas []schemafmt.Schema) error {
	wrote := false
	for _, s := range schemas {
		if len(s) == 0 {
			continue
		}
		if wrote {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Render(w, s); err != nil {
			return err
		}
		wrote = true
	}
	return nil
}

func loadMetadata(path string) (schemafmt.Metadata, error) {
	if path == "" {
		return schemafmt.DefaultMetadata, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return schemafmt.LoadMetadata(f)
}

// loadSchemas decodes every file concurrently and returns one schema per
// path, in argument order. A role defined by more than one file is an error.
func loadSchemas(paths []string, table schemafmt.SlotTable) ([]schemafmt.Schema, error) {
	loaded := make([]schemafmt.Schema, len(paths))
	var g errgroup.Group
	g.SetLimit(maxParallelLoads)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			s, err := loadSchemaFile(path, table)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			loaded[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	owner := map[string]string{}
	for i, s := range loaded {
		for _, role := range s.Roles() {
			if prev, dup := owner[role]; dup {
				return nil, fmt.Errorf("role %q defined in both %s and %s", role, prev, paths[i])
			}
			owner[role] = paths[i]
		}
	}
	return loaded, nil
}

func loadSchemaFile(path string, table schemafmt.SlotTable) (schemafmt.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return schemafmt.LoadSchema(bytes.NewReader(data), table)
}

// resolveMode maps the --color flag to a render mode. In auto mode color is
// used only when w is a terminal.
func resolveMode(color string, w io.Writer) (schemafmt.Mode, error) {
	switch strings.ToLower(color) {
	case "always":
		return schemafmt.ConsoleColor, nil
	case "never":
		return schemafmt.PlainText, nil
	case "auto", "":
		if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			return schemafmt.ConsoleColor, nil
		}
		return schemafmt.PlainText, nil
	default:
		// Mode names are accepted too.
		return schemafmt.ParseMode(color)
	}
}
