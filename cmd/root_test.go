package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/kvtree/internal/ui"
)

type cliResult struct {
	out string
	err error
}

// runCLI executes a fresh command tree with stdin piped when non-empty.
func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("NO_COLOR", "")
	stubTerminal(t, stdin != "", false)

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return cliResult{out: out.String(), err: err}
}

func stubTerminal(t *testing.T, piped, tty bool) {
	t.Helper()
	origPiped, origTTY, origSize := stdinIsPiped, stdoutIsTerminal, detectTerminalSize
	stdinIsPiped = func() bool { return piped }
	stdoutIsTerminal = func() bool { return tty }
	detectTerminalSize = func() (int, int) { return 0, 0 }
	t.Cleanup(func() {
		stdinIsPiped, stdoutIsTerminal, detectTerminalSize = origPiped, origTTY, origSize
	})
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const sampleJSON = `{"a": {"b": 1}, "c": "x"}`

func TestRootTextOutputWithToggle(t *testing.T) {
	path := writeFile(t, "doc.json", sampleJSON)
	res := runCLI(t, "", path, "-o", "text", "--toggle", "a")
	require.NoError(t, res.err)
	assert.Equal(t, "▾ a:\n│   b: 1\n  c: \"x\"\n", res.out)
}

func TestRootCollapsedByDefault(t *testing.T) {
	path := writeFile(t, "doc.json", sampleJSON)
	res := runCLI(t, "", path)
	require.NoError(t, res.err)
	assert.Equal(t, "▸ a: { 1 item }\n  c: \"x\"\n", res.out)
}

func TestRootTreeOutputFromStdin(t *testing.T) {
	res := runCLI(t, "a: 1\nb: [1, 2]\n", "-o", "tree", "--toggle", "b")
	require.NoError(t, res.err)
	assert.Equal(t, ".\n├── a: 1\n└── b\n    ├── 0: 1\n    └── 1: 2\n", res.out)
}

func TestRootDashReadsStdin(t *testing.T) {
	res := runCLI(t, `{"k": true}`, "-", "-o", "text")
	require.NoError(t, res.err)
	assert.Equal(t, "  k: true\n", res.out)
}

func TestRootAutoOutput(t *testing.T) {
	path := writeFile(t, "doc.json", sampleJSON)

	res := runCLI(t, "", path)
	require.NoError(t, res.err)
	assert.NotContains(t, res.out, "\x1b[")

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	stubTerminal(t, false, true)
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{path})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "\x1b[")

	cmd = newRootCmd()
	out.Reset()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{path, "--no-color"})
	require.NoError(t, cmd.Execute())
	assert.NotContains(t, out.String(), "\x1b[")
}

func TestRootExpandDepth(t *testing.T) {
	res := runCLI(t, `{"a": {"b": {"c": 1}}}`, "-o", "text", "--expand-depth", "2")
	require.NoError(t, res.err)
	assert.Equal(t, "▾ a:\n│ ▾ b:\n│ │   c: 1\n", res.out)
}

func TestRootSelect(t *testing.T) {
	res := runCLI(t, `{"a": {"b": 1}, "list": [{"x": 2}]}`, "-o", "text", "--select", "list.0")
	require.NoError(t, res.err)
	assert.Equal(t, "  x: 2\n", res.out)

	res = runCLI(t, `{"a": 1}`, "--select", "missing")
	require.Error(t, res.err)
	assert.Contains(t, FormatError(res.err), "hint:")
}

func TestRootUnknownToggle(t *testing.T) {
	res := runCLI(t, sampleJSON, "--toggle", "a.b")
	require.Error(t, res.err)
	msg := FormatError(res.err)
	assert.Contains(t, msg, `toggle "a.b"`)
	assert.Contains(t, msg, "hint: a row can only be toggled")
}

func TestRootDecode(t *testing.T) {
	res := runCLI(t, `{"payload": "{\"x\": 1}"}`, "-o", "text", "--decode", "--expand-depth", "1")
	require.NoError(t, res.err)
	assert.Equal(t, "▾ payload:\n│   x: 1\n", res.out)
}

func TestRootHTMLOutput(t *testing.T) {
	res := runCLI(t, sampleJSON, "-o", "html", "--toggle", "a")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, `class="kvtree-block"`)
	assert.Contains(t, res.out, `data-node-id="a.b"`)
	assert.NotContains(t, res.out, "<!DOCTYPE html>")

	res = runCLI(t, sampleJSON, "-o", "html", "--standalone")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "<!DOCTYPE html>")
	assert.Contains(t, res.out, "<title>kvtree</title>")
}

func TestRootSnapshot(t *testing.T) {
	res := runCLI(t, sampleJSON, "--snapshot", "--no-color", "--width", "30", "--height", "4", "--toggle", "a")
	require.NoError(t, res.err)
	lines := strings.Split(strings.TrimSuffix(res.out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "▾ a:", strings.TrimRight(lines[0], " "))
	assert.Contains(t, lines[3], "1-3/3")
}

func TestRootThemeSelection(t *testing.T) {
	res := runCLI(t, sampleJSON, "--theme", "dark", "-o", "html")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "#60a5fa", "dark key color")

	res = runCLI(t, sampleJSON, "--theme", "nope")
	require.Error(t, res.err)
	msg := FormatError(res.err)
	assert.Contains(t, msg, `unknown theme "nope"`)
	assert.Contains(t, msg, "kvtree themes")
}

func TestRootConfigFileStyles(t *testing.T) {
	cfgPath := writeFile(t, "config.yaml", `
ui:
  behavior:
    expand_depth: 1
  styles:
    valueColor:
      number: "#ff0000"
    containerClass: my-tree
`)
	res := runCLI(t, sampleJSON, "--config-file", cfgPath, "-o", "html")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "kvtree-block my-tree")
	assert.Contains(t, res.out, "#ff0000")
	assert.Contains(t, res.out, `data-node-id="a.b"`, "expand_depth from config")

	res = runCLI(t, sampleJSON, "--config-file", cfgPath, "-o", "text", "--expand-depth", "0")
	require.NoError(t, res.err)
	assert.NotContains(t, res.out, "b: 1", "flag beats config")
}

func TestRootBadConfigFile(t *testing.T) {
	cfgPath := writeFile(t, "config.yaml", "ui: [\n")
	res := runCLI(t, sampleJSON, "--config-file", cfgPath)
	require.Error(t, res.err)
	assert.Contains(t, FormatError(res.err), "load config")
	assert.Contains(t, FormatError(res.err), "hint:")
}

func TestRootErrors(t *testing.T) {
	res := runCLI(t, sampleJSON, "-o", "xml")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "unknown output format")

	res = runCLI(t, "", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, res.err)
	assert.Contains(t, FormatError(res.err), "hint: check the path")

	res = runCLI(t, "")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Usage:")
}

func TestRootLogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "kvtree.log")
	res := runCLI(t, sampleJSON, "--debug", "--log-file", logPath, "-o", "text", "--toggle", "a")
	require.NoError(t, res.err)
	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"loaded input"`)
	assert.Contains(t, string(data), `"node":"a"`)
	assert.Contains(t, string(data), `"format":"text"`)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errNoInput))
	assert.Equal(t, 2, ExitCode(&exitError{code: 2, err: errNoInput}))
}

func TestTerminalDeviceNames(t *testing.T) {
	in, out := terminalDeviceNames("windows")
	assert.Equal(t, "CONIN$", in)
	assert.Equal(t, "CONOUT$", out)
	in, out = terminalDeviceNames("linux")
	assert.Equal(t, "/dev/tty", in)
	assert.Equal(t, "/dev/tty", out)
}

func TestMain(m *testing.M) {
	// Themes are package state in ui; start each run from the embedded set.
	if cfg, err := ui.EmbeddedDefaultConfig(); err == nil {
		_ = ui.InitializeThemes(cfg)
	}
	os.Exit(m.Run())
}
