package graph

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/LegacyCodeHQ/modguard/cmd/check"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const layeredDump = `{
  "modules": [
    {"module": ":app", "scopes": [{"scope": "compileClasspath", "dependencies": [":core"], "inherited": ["okio:okio"]}]},
    {"module": ":core", "scopes": [{"scope": "compileClasspath", "dependencies": ["okio:okio"]}]}
  ]
}`

const cyclicDump = `{
  "modules": [
    {"module": ":a", "scopes": [{"scope": "compileClasspath", "dependencies": [":b"]}]},
    {"module": ":b", "scopes": [{"scope": "compileClasspath", "dependencies": [":a"]}]},
    {"module": ":c", "scopes": [{"scope": "compileClasspath", "dependencies": [":a"]}]}
  ]
}`

func writeDump(t *testing.T, dump string) string {
	t.Helper()
	t.Setenv(check.EnvGraph, "")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "modguard-graph.json"), []byte(dump), 0o644))
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand()
	cmd.SetArgs(args)
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	return stdout.String(), err
}

func TestGraphCommand_DOT(t *testing.T) {
	dir := writeDump(t, layeredDump)

	output, err := execute(t, "-r", dir)

	require.NoError(t, err)
	gold := goldie.New(t)
	gold.Assert(t, t.Name(), []byte(output))
}

func TestGraphCommand_MermaidForModule(t *testing.T) {
	dir := writeDump(t, layeredDump)

	output, err := execute(t, "-r", dir, "-m", ":core", "-f", "mermaid")

	require.NoError(t, err)
	assert.Equal(t, "flowchart LR\n  n0[\":core\"]\n  n1([\"okio:okio\"])\n  n0 --> n1\n", output)
}

func TestGraphCommand_JSON(t *testing.T) {
	dir := writeDump(t, layeredDump)

	output, err := execute(t, "-r", dir, "-f", "json")

	require.NoError(t, err)
	g := goldie.New(t)
	g.Assert(t, t.Name(), []byte(output))
}

func TestGraphCommand_DeclaredOnly(t *testing.T) {
	dir := writeDump(t, layeredDump)

	output, err := execute(t, "-r", dir, "-f", "mermaid", "--declared-only")

	require.NoError(t, err)
	assert.NotContains(t, output, "-.->")
	assert.Contains(t, output, "n1 --> n2")
}

func TestGraphCommand_Cycles(t *testing.T) {
	dir := writeDump(t, cyclicDump)

	output, err := execute(t, "-r", dir, "-f", "cycles")
	require.NoError(t, err)
	assert.Equal(t, ":a, :b\n", output)

	acyclic := writeDump(t, layeredDump)
	output, err = execute(t, "-r", acyclic, "-f", "cycles")
	require.NoError(t, err)
	assert.Equal(t, "No dependency cycles.\n", output)
}

func TestGraphCommand_Errors(t *testing.T) {
	dir := writeDump(t, layeredDump)

	_, err := execute(t, "-r", dir, "-m", ":missing")
	assert.EqualError(t, err, "module :missing is not in the dependency graph")

	_, err = execute(t, "-r", dir, "-f", "png")
	assert.EqualError(t, err, "unknown format: png (valid options: dot, mermaid, json, cycles)")

	_, err = execute(t, "-r", t.TempDir())
	assert.ErrorContains(t, err, "failed to read dependency graph")
}
