package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/schemafmt"
)

const userYAML = `user:
  ROLE: user
  TABLE: users
  PRIMARY_KEY: id
  COLUMNS:
    id: id
`

const postYAML = `post:
  PRIMARY_KEY: id
  COLUMNS:
    id: id
    title: title
`

// writeFile writes content into a file under a per-test temp dir and
// returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// run executes the CLI with args and returns stdout, stderr and the error.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd(strings.NewReader(stdin), &stdout, &stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var ee *exitErr
	require.True(t, errors.As(err, &ee), "expected exitErr, got %v", err)
	return ee.code
}

func TestRenderFilesPlainWhenNotTerminal(t *testing.T) {
	t.Parallel()
	a := writeFile(t, "user.yaml", userYAML)
	b := writeFile(t, "post.yaml", postYAML)

	out, _, err := run(t, "", "render", a, b)
	require.NoError(t, err)
	assert.NotContains(t, out, "\x1b[")
	assert.True(t, strings.HasPrefix(out, "[user] :: default.users\n"))
	assert.Contains(t, out, "\n\n[post] :: default\n")
}

func TestRenderFilesInArgumentOrder(t *testing.T) {
	t.Parallel()
	z := writeFile(t, "z.yaml", "zeta:\n  PRIMARY_KEY: id\n")
	empty := writeFile(t, "empty.yaml", "")
	a := writeFile(t, "a.yaml", "alpha:\n  PRIMARY_KEY: id\n")

	out, _, err := run(t, "", "render", z, empty, a)
	require.NoError(t, err)
	blocks := strings.Split(out, "\n\n")
	require.Len(t, blocks, 2)
	assert.True(t, strings.HasPrefix(blocks[0], "[zeta] :: default\n"))
	assert.True(t, strings.HasPrefix(blocks[1], "[alpha] :: default\n"))
}

func TestRenderStdinWithColor(t *testing.T) {
	t.Parallel()
	out, _, err := run(t, userYAML, "render", "--color", "always")
	require.NoError(t, err)
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "user")
}

func TestRenderVerboseLogsToStderr(t *testing.T) {
	t.Parallel()
	_, stderr, err := run(t, userYAML, "render", "--verbose", "--color", "never")
	require.NoError(t, err)
	assert.Contains(t, stderr, "INFO: Reading schema from stdin")
	assert.Contains(t, stderr, "mode: plain")
}

func TestRenderToOutFile(t *testing.T) {
	t.Parallel()
	in := writeFile(t, "user.yaml", userYAML)
	outPath := filepath.Join(t.TempDir(), "report.txt")

	stdout, _, err := run(t, "", "render", "--out", outPath, in)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "  Primary key: id\n")
}

func TestRenderOutFileNotCreatedOnFlagError(t *testing.T) {
	t.Parallel()
	in := writeFile(t, "user.yaml", userYAML)
	outPath := filepath.Join(t.TempDir(), "report.txt")

	_, _, err := run(t, "", "render", "--out", outPath, "--color", "sepia", in)
	assert.Equal(t, exitCodeInput, exitCode(t, err))
	assert.NoFileExists(t, outPath)
}

func TestRenderSchemasSeparatesFiles(t *testing.T) {
	t.Parallel()
	r, err := schemafmt.New(schemafmt.DefaultMetadata, schemafmt.PlainText)
	require.NoError(t, err)
	schemas := []schemafmt.Schema{{"a": {}}, {"b": {}}}

	var buf bytes.Buffer
	require.NoError(t, renderSchemas(&buf, r, schemas))
	assert.True(t, strings.HasPrefix(buf.String(), "[a] :: default\n"))
	assert.Contains(t, buf.String(), "\n\n[b] :: default\n")

	assert.ErrorIs(t, renderSchemas(failingWriter{}, r, schemas), errWrite)
}

var errWrite = errors.New("write failed")

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errWrite }

func TestRenderCustomConstants(t *testing.T) {
	t.Parallel()
	consts := writeFile(t, "consts.yaml", "ROLE: 0\nPRIMARY_KEY: 7\nNOTE: \"n/a\"\n")
	out, _, err := run(t, "user:\n  ROLE: user\n  PRIMARY_KEY: id\n", "render", "--constants", consts)
	require.NoError(t, err)
	assert.Contains(t, out, "         Role: user\n")
}

func TestRenderDuplicateRole(t *testing.T) {
	t.Parallel()
	a := writeFile(t, "a.yaml", userYAML)
	b := writeFile(t, "b.yaml", userYAML)
	_, _, err := run(t, "", "render", a, b)
	assert.Equal(t, exitCodeInput, exitCode(t, err))
	assert.Contains(t, err.Error(), `role "user" defined in both`)
}

func TestRenderInputErrors(t *testing.T) {
	t.Parallel()
	bad := writeFile(t, "bad.yaml", "user:\n  NOT_A_SLOT: 1\n")
	tests := map[string][]string{
		"missing file":      {"render", filepath.Join(t.TempDir(), "nope.yaml")},
		"invalid schema":    {"render", bad},
		"missing constants": {"render", "--constants", filepath.Join(t.TempDir(), "nope.yaml")},
		"unknown color":     {"render", "--color", "sepia"},
	}
	for name, args := range tests {
		args := args
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, _, err := run(t, userYAML, args...)
			assert.Equal(t, exitCodeInput, exitCode(t, err))
		})
	}
}

func TestRenderersCommand(t *testing.T) {
	t.Parallel()
	consts := writeFile(t, "consts.json", `{"ROLE": 0, "ENTITY": 1, "PRIMARY_KEY": 2}`)
	out, _, err := run(t, "", "renderers", "--constants", consts)
	require.NoError(t, err)
	want := strings.Join([]string{
		` 1  title`,
		` 2  property(0, "Role")`,
		` 3  property(1, "Entity")`,
		` 4  keys(2, "Primary key", required=true)`,
		` 5  columns`,
		` 6  relations`,
		` 7  custom(exclude=[0,1,2])`,
		` 8  macros`,
		``,
	}, "\n")
	assert.Equal(t, want, out)
}

func TestDiffCommand(t *testing.T) {
	t.Parallel()
	before := writeFile(t, "before.yaml", postYAML)
	after := writeFile(t, "after.yaml", strings.Replace(postYAML, "    title: title\n", "    body: body\n", 1))

	out, _, err := run(t, "", "diff", before, after)
	require.NoError(t, err)
	assert.Contains(t, out, "  [post] :: default\n")
	assert.Contains(t, out, "- "+strings.Repeat(" ", 15)+"title -> title\n")
	assert.Contains(t, out, "+ "+strings.Repeat(" ", 15)+"body -> body\n")
}

func TestDiffCommandArgs(t *testing.T) {
	t.Parallel()
	_, _, err := run(t, "", "diff", "only-one.yaml")
	assert.Error(t, err)
}

func TestLineDiffIdentical(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "  a\n  b\n", lineDiff("a\nb\n", "a\nb\n"))
}

func TestLineDiffMissingTrailingNewline(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "- a\n+ b\n", lineDiff("a", "b"))
}

func TestResolveMode(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	tests := map[string]schemafmt.Mode{
		"always": schemafmt.ConsoleColor,
		"never":  schemafmt.PlainText,
		"auto":   schemafmt.PlainText,
		"":       schemafmt.PlainText,
		"color":  schemafmt.ConsoleColor,
		"plain":  schemafmt.PlainText,
	}
	for flag, want := range tests {
		got, err := resolveMode(flag, &buf)
		require.NoError(t, err, flag)
		assert.Equal(t, want, got, flag)
	}
	_, err := resolveMode("sepia", &buf)
	assert.ErrorIs(t, err, schemafmt.ErrUnsupportedMode)
}
