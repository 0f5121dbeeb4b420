package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME and the working directory at empty temp dirs so no real config files are found. It returns the working directory.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("NO_COLOR", "")
	t.Setenv(envPrefix+"_LOG_FILE", "")
	wd := t.TempDir()
	t.Chdir(wd)
	return wd
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func run(t *testing.T, stdin string, args ...string) (int, string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	code, err := Run(append([]string{"linediff"}, args...), &RunOptions{In: strings.NewReader(stdin), Out: &out, Err: &errOut})
	return code, out.String(), errOut.String(), err
}

func TestRun_Help(t *testing.T) {
	isolate(t)
	code, out, errOut, err := run(t, "", "-h")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "diff")
	assert.Empty(t, errOut)
}

func TestRun_NoArgsShowsHelp(t *testing.T) {
	isolate(t)
	code, out, _, err := run(t, "")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Usage:")
}

func TestRun_Version(t *testing.T) {
	isolate(t)
	code, out, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "linediff "+Version+"\n", out)
}

func TestRun_DiffEqual(t *testing.T) {
	wd := isolate(t)
	writeFile(t, filepath.Join(wd, "a.txt"), "same\n")
	writeFile(t, filepath.Join(wd, "b.txt"), "same\n")

	code, out, errOut, err := run(t, "", "diff", "a.txt", "b.txt")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Empty(t, out)
	assert.Empty(t, errOut)
}

func TestRun_DiffUnified(t *testing.T) {
	wd := isolate(t)
	writeFile(t, filepath.Join(wd, "a.txt"), "a\nb\nc\n")
	writeFile(t, filepath.Join(wd, "b.txt"), "a\nX\nc\n")

	code, out, errOut, err := run(t, "", "diff", "a.txt", "b.txt")
	require.NoError(t, err)
	assert.Equal(t, 1, code)
	assert.Empty(t, errOut)

	exp := strings.Join([]string{
		"--- a.txt",
		"+++ b.txt",
		"@@ -1,3 +1,3 @@",
		" a",
		"-b",
		"+X",
		" c",
	}, "\n") + "\n"
	assert.Equal(t, exp, out)
}

func TestRun_DiffStdin(t *testing.T) {
	wd := isolate(t)
	writeFile(t, filepath.Join(wd, "b.txt"), "a\nb\n")

	code, out, _, err := run(t, "a\n", "diff", "--context", "0", "-", "b.txt")
	require.NoError(t, err)
	assert.Equal(t, 1, code)
	assert.Equal(t, "--- -\n+++ b.txt\n@@ -1,0 +2,1 @@\n+b\n", out)
}

func TestRun_DiffFormats(t *testing.T) {
	wd := isolate(t)
	writeFile(t, filepath.Join(wd, "a.txt"), "a\nb\nc\n")
	writeFile(t, filepath.Join(wd, "b.txt"), "a\nX\nc\n")

	code, out, _, err := run(t, "", "diff", "--format", "pretty", "-U", "0", "a.txt", "b.txt")
	require.NoError(t, err)
	assert.Equal(t, 1, code)
	assert.Equal(t, "a.txt -> b.txt:\n-b\n+X\n", out)

	code, out, _, err = run(t, "", "diff", "--format", "side-by-side", "--width", "23", "-U", "0", "a.txt", "b.txt")
	require.NoError(t, err)
	assert.Equal(t, 1, code)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "a.txt      | b.txt", lines[0])
	assert.Equal(t, "@@ -2,1 +2,1 @@", lines[1])
	assert.Equal(t, "b          | X", lines[2])
}

func TestRun_DiffColor(t *testing.T) {
	wd := isolate(t)
	writeFile(t, filepath.Join(wd, "a.txt"), "a\n")
	writeFile(t, filepath.Join(wd, "b.txt"), "b\n")

	_, out, _, err := run(t, "", "diff", "--color", "always", "a.txt", "b.txt")
	require.NoError(t, err)
	assert.Contains(t, out, "\x1b[")

	_, out, _, err = run(t, "", "diff", "--color", "auto", "a.txt", "b.txt")
	require.NoError(t, err)
	assert.NotContains(t, out, "\x1b[")
}

func TestRun_DiffIgnoreTrimWhitespace(t *testing.T) {
	wd := isolate(t)
	writeFile(t, filepath.Join(wd, "a.txt"), "a\n  b\n")
	writeFile(t, filepath.Join(wd, "b.txt"), "a\nb\t\n")

	code, _, _, err := run(t, "", "diff", "a.txt", "b.txt")
	require.NoError(t, err)
	assert.Equal(t, 1, code)

	code, out, _, err := run(t, "", "diff", "-b", "a.txt", "b.txt")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Empty(t, out)
}

func TestRun_UsageErrors(t *testing.T) {
	wd := isolate(t)
	writeFile(t, filepath.Join(wd, "a.txt"), "a\n")

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing arg", args: []string{"diff", "a.txt"}},
		{name: "unknown flag", args: []string{"diff", "--bogus", "a.txt", "a.txt"}},
		{name: "unknown command", args: []string{"nosuch"}},
		{name: "bad format", args: []string{"diff", "--format", "xml", "a.txt", "a.txt"}},
		{name: "negative context", args: []string{"diff", "--context", "-1", "a.txt", "a.txt"}},
		{name: "bad color", args: []string{"config", "--color", "sometimes"}},
		{name: "two stdins", args: []string{"diff", "-", "-"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, _, errOut, err := run(t, "", tc.args...)
			require.Error(t, err)
			assert.Equal(t, 2, code)
			assert.Contains(t, errOut, "linediff: ")
		})
	}
}

func TestRun_MissingFileIsRuntimeError(t *testing.T) {
	wd := isolate(t)
	writeFile(t, filepath.Join(wd, "a.txt"), "a\n")

	code, _, errOut, err := run(t, "", "diff", "a.txt", "nope.txt")
	require.Error(t, err)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "nope.txt")
}

func configOutput(t *testing.T, args ...string) map[string]any {
	t.Helper()
	code, out, errOut, err := run(t, "", append([]string{"config"}, args...)...)
	require.NoError(t, err, errOut)
	require.Equal(t, 0, code)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	return got
}

func TestRun_ConfigDefaults(t *testing.T) {
	isolate(t)
	got := configOutput(t)
	assert.Equal(t, map[string]any{
		"format":                 "unified",
		"context":                float64(3),
		"ignore_trim_whitespace": false,
		"char_changes":           true,
		"post_process":           true,
		"pretty":                 true,
		"max_time":               "5s",
		"width":                  float64(0),
		"color":                  "auto",
	}, got)
}

func TestRun_ConfigLayers(t *testing.T) {
	wd := isolate(t)
	home := os.Getenv("HOME")

	writeFile(t, filepath.Join(home, ".linediff", "config.json"), `{"context": 7, "format": "pretty", "width": 40}`)
	writeFile(t, filepath.Join(wd, ".linediff", "config.yaml"), "format: side-by-side\nwidth: 80\nmax_time: 250ms\n")
	sub := filepath.Join(wd, "sub", "dir")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	t.Chdir(sub)
	t.Setenv("LINEDIFF_WIDTH", "100")

	got := configOutput(t, "--color", "never")

	// Global config.
	assert.Equal(t, float64(7), got["context"])

	// Nearest project config overrides global config.
	assert.Equal(t, "side-by-side", got["format"])
	assert.Equal(t, "250ms", got["max_time"])

	// Env overrides files; flags override everything.
	assert.Equal(t, float64(100), got["width"])
	assert.Equal(t, "never", got["color"])

	assert.Equal(t, true, got["char_changes"])
	assert.Equal(t, false, got["ignore_trim_whitespace"])
}

func TestRun_ConfigToml(t *testing.T) {
	wd := isolate(t)
	writeFile(t, filepath.Join(wd, ".linediff", "config.toml"), "pretty = false\ncontext = 1\n")

	got := configOutput(t)
	assert.Equal(t, false, got["pretty"])
	assert.Equal(t, float64(1), got["context"])
}

func TestRun_ConfigEnvDuration(t *testing.T) {
	isolate(t)
	t.Setenv("LINEDIFF_MAX_TIME", "2s")
	t.Setenv("LINEDIFF_IGNORE_TRIM_WHITESPACE", "true")

	got := configOutput(t)
	assert.Equal(t, "2s", got["max_time"])
	assert.Equal(t, true, got["ignore_trim_whitespace"])
}

func TestRun_MalformedConfig(t *testing.T) {
	wd := isolate(t)
	writeFile(t, filepath.Join(wd, ".linediff", "config.json"), `{"context": `)

	code, _, errOut, err := run(t, "", "config")
	require.Error(t, err)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "load configuration")
}

func TestValidateConfig(t *testing.T) {
	require.NoError(t, validateConfig(defaults))

	tests := []struct {
		name   string
		mutate func(*Config)
		errSub string
	}{
		{name: "format", mutate: func(c *Config) { c.Format = "html" }, errSub: "format"},
		{name: "color", mutate: func(c *Config) { c.Color = "" }, errSub: "color"},
		{name: "context", mutate: func(c *Config) { c.Context = -1 }, errSub: "context"},
		{name: "max time", mutate: func(c *Config) { c.MaxTime = -1 }, errSub: "max_time"},
		{name: "width", mutate: func(c *Config) { c.Width = -5 }, errSub: "width"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaults
			tc.mutate(&cfg)
			err := validateConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errSub)
		})
	}
}

func TestUseColor(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	var buf bytes.Buffer
	assert.True(t, useColor(colorAlways, &buf))
	assert.False(t, useColor(colorNever, &buf))
	assert.False(t, useColor(colorAuto, &buf))
	assert.Equal(t, defaultWidth, outputWidth(&buf))
}
