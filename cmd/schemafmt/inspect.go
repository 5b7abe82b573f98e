package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/bjaus/schemafmt"
)

func newRenderersCmd() *cobra.Command {
	var constants string
	cmd := &cobra.Command{
		Use:   "renderers",
		Short: "List the renderer pipeline assembled for a contract",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			meta, err := loadMetadata(constants)
			if err != nil {
				return codeError(exitCodeInput, "loading constants: %s", err)
			}
			r, err := schemafmt.New(meta, schemafmt.PlainText)
			if err != nil {
				return codeError(exitCodeInput, "assembling renderer: %s", err)
			}
			out := cmd.OutOrStdout()
			for i, rr := range r.Renderers() {
				if _, err := fmt.Fprintf(out, "%2d  %v\n", i+1, rr); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&constants, "constants", "", "YAML or JSON file with the schema contract constants")
	return cmd
}

func newDiffCmd() *cobra.Command {
	var constants string
	cmd := &cobra.Command{
		Use:   "diff <old-schema> <new-schema>",
		Short: "Show how the rendered report changes between two schema files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := loadMetadata(constants)
			if err != nil {
				return codeError(exitCodeInput, "loading constants: %s", err)
			}
			r, err := schemafmt.New(meta, schemafmt.PlainText)
			if err != nil {
				return codeError(exitCodeInput, "assembling renderer: %s", err)
			}
			consts, err := meta.Constants()
			if err != nil {
				return codeError(exitCodeInput, "reading constants: %s", err)
			}
			table := schemafmt.NewSlotTable(consts)

			before, err := renderFile(r, args[0], table)
			if err != nil {
				return codeError(exitCodeInput, "%s: %s", args[0], err)
			}
			after, err := renderFile(r, args[1], table)
			if err != nil {
				return codeError(exitCodeInput, "%s: %s", args[1], err)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), lineDiff(before, after))
			return err
		},
	}
	cmd.Flags().StringVar(&constants, "constants", "", "YAML or JSON file with the schema contract constants")
	return cmd
}

func renderFile(r *schemafmt.SchemaRenderer, path string, table schemafmt.SlotTable) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	s, err := schemafmt.LoadSchema(f, table)
	if err != nil {
		return "", err
	}
	return r.RenderString(s)
}

// lineDiff returns a line-oriented diff of two reports. Unchanged lines are
// prefixed with two spaces, removed lines with "- " and added lines with "+ ".
func lineDiff(before, after string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix)
			out.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				out.WriteString("\n")
			}
		}
	}
	return out.String()
}
