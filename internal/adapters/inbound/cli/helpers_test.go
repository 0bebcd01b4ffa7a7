package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/pydoclens/pydoclens/internal/adapters/inbound/cli"
	"github.com/stretchr/testify/require"
)

const failingJSON = `{"result": 2, "fail_reason": "", "module_results": [{"result": 2, "fail_reason": "",
  "module_path": "pkg/mod.py",
  "function_results": [{"result": 2, "fail_reason": "Function is missing a docstring", "function": "f",
    "range": {"start_line": 3, "end_line": 5, "start_character": 0, "end_character": 12}}],
  "class_results": []}]}`

const passingJSON = `{"result": 1, "fail_reason": "", "module_results": []}`

// fakeTool writes a shell script that behaves like pydoctest: it answers -h
// with the usage banner and prints report otherwise.
func fakeTool(t *testing.T, report string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake pydoctest is a shell script")
	}
	script := "#!/bin/sh\n" +
		"if [ \"$1\" = \"-h\" ]; then echo 'usage: pydoctest [-h] [--file FILE]'; exit 0; fi\n" +
		"cat <<'JSON'\n" + report + "\nJSON\n" +
		"exit 1\n"
	path := filepath.Join(t.TempDir(), "pydoctest")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

// workspace creates a project whose config points at tool.
func workspace(t *testing.T, tool string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pkg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pkg", "mod.py"), []byte("def f():\n    pass\n"), 0o644))
	cfg := "tool: " + tool + "\ntimeout: 30s\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".pydoclens.yaml"), []byte(cfg), 0o644))
	return root
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmdForTest()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// switchableTool is like fakeTool but prints whatever the returned report
// file holds at the time it runs.
func switchableTool(t *testing.T, report string) (tool, reportPath string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake pydoctest is a shell script")
	}
	dir := t.TempDir()
	reportPath = filepath.Join(dir, "report.json")
	require.NoError(t, os.WriteFile(reportPath, []byte(report), 0o644))

	script := "#!/bin/sh\n" +
		"if [ \"$1\" = \"-h\" ]; then echo 'usage: pydoctest [-h] [--file FILE]'; exit 0; fi\n" +
		"cat '" + reportPath + "'\n" +
		"exit 1\n"
	tool = filepath.Join(dir, "pydoctest")
	require.NoError(t, os.WriteFile(tool, []byte(script), 0o755))
	return tool, reportPath
}
