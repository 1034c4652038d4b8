package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todolist/internal/store/jsonstore"
	"github.com/idilsaglam/todolist/internal/store/kv"
)

type env struct {
	dir  string
	conf string
}

func newEnv(t *testing.T, extra string) env {
	t.Helper()
	dir := t.TempDir()
	conf := filepath.Join(dir, "config.toml")
	content := "theme = \"mono\"\nlog_file = \"\"\n" + extra
	require.NoError(t, os.WriteFile(conf, []byte(content), 0o644))
	return env{dir: dir, conf: conf}
}

func (e env) run(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	full := append([]string{"--config", e.conf, "--data-dir", e.dir}, args...)
	code = Execute(full, &out, &errOut)
	return code, out.String(), errOut.String()
}

func (e env) texts(t *testing.T) []string {
	t.Helper()
	f, err := kv.NewFile(e.dir)
	require.NoError(t, err)
	var out []string
	for _, it := range jsonstore.Open(f).Items() {
		out = append(out, it.Text)
	}
	return out
}

func TestAddAndList(t *testing.T) {
	e := newEnv(t, "")
	code, out, _ := e.run(t, "add", " Buy", "milk ")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "added")

	code, _, _ = e.run(t, "add")
	require.Equal(t, exitOK, code, "empty add is accepted")
	assert.Equal(t, []string{"Buy milk", ""}, e.texts(t))

	code, out, _ = e.run(t, "ls")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, " 1. [ ] Buy milk")
	assert.Contains(t, out, " 2. [ ] (empty)")
	assert.FileExists(t, filepath.Join(e.dir, "todos.json"))
}

func TestDoneRemoveEditClear(t *testing.T) {
	e := newEnv(t, "")
	for _, text := range []string{"A", "B", "C", "D"} {
		code, _, _ := e.run(t, "add", text)
		require.Equal(t, exitOK, code)
	}

	code, _, _ := e.run(t, "done", "2")
	require.Equal(t, exitOK, code)
	code, _, _ = e.run(t, "done", "4")
	require.Equal(t, exitOK, code)

	code, out, _ := e.run(t, "ls", "--filter", "completed")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, " 2. [x] B", "filtered view keeps list positions")
	assert.Contains(t, out, " 4. [x] D")
	assert.NotContains(t, out, "] A")

	code, _, _ = e.run(t, "edit", "3", " C2 ")
	require.Equal(t, exitOK, code)

	code, out, _ = e.run(t, "clear")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "cleared 2")
	assert.Equal(t, []string{"A", "C2"}, e.texts(t))

	code, _, _ = e.run(t, "rm", "1")
	require.Equal(t, exitOK, code)
	assert.Equal(t, []string{"C2"}, e.texts(t))
}

func TestGroupedList(t *testing.T) {
	e := newEnv(t, "")
	e.run(t, "add", "open")
	e.run(t, "add", "closed")
	e.run(t, "done", "2")

	_, out, _ := e.run(t, "ls", "--group")
	pending := strings.Index(out, "Pending")
	done := strings.Index(out, "Done")
	require.True(t, pending >= 0 && done > pending)
	assert.True(t, strings.Index(out, "open") < done)
	assert.True(t, strings.Index(out, "closed") > done)
}

func TestUsageErrors(t *testing.T) {
	e := newEnv(t, "")
	e.run(t, "add", "only")

	for name, args := range map[string][]string{
		"out of range":   {"done", "5"},
		"zero":           {"rm", "0"},
		"not a number":   {"done", "two"},
		"missing index":  {"rm"},
		"unknown cmd":    {"frobnicate"},
		"unknown flag":   {"ls", "--sideways"},
		"bad filter":     {"ls", "--filter", "pending"},
		"bad storage":    {"--storage", "redis", "ls"},
		"too many args":  {"done", "1", "2"},
		"ls takes none":  {"ls", "extra"},
		"edit no index":  {"edit"},
		"edit bad index": {"edit", "9", "x"},
	} {
		t.Run(name, func(t *testing.T) {
			code, _, stderr := e.run(t, args...)
			assert.Equal(t, exitUsage, code)
			assert.NotEmpty(t, stderr)
		})
	}
	assert.Equal(t, []string{"only"}, e.texts(t))
}

func TestOutOfRangeHint(t *testing.T) {
	e := newEnv(t, "")
	_, _, stderr := e.run(t, "done", "3")
	assert.Contains(t, stderr, "index out of range: have 0, got 3")
	assert.Contains(t, stderr, "todo ls")
	assert.False(t, strings.HasSuffix(stderr, "\n\n"), "no trailing blank line")
}

func TestSQLiteBackend(t *testing.T) {
	e := newEnv(t, "storage = \"sqlite\"\n")
	code, _, _ := e.run(t, "add", "in the db")
	require.Equal(t, exitOK, code)
	assert.FileExists(t, filepath.Join(e.dir, kv.SQLiteFileName))
	assert.NoFileExists(t, filepath.Join(e.dir, "todos.json"))

	code, out, _ := e.run(t, "ls")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "in the db")
}

func TestCustomKey(t *testing.T) {
	e := newEnv(t, "")
	code, _, _ := e.run(t, "--key", "work", "add", "ship it")
	require.Equal(t, exitOK, code)
	assert.FileExists(t, filepath.Join(e.dir, "work.json"))
	assert.Empty(t, e.texts(t), "default key untouched")
}

func TestCorruptStorageStillLists(t *testing.T) {
	e := newEnv(t, "")
	require.NoError(t, os.WriteFile(filepath.Join(e.dir, "todos.json"), []byte("{not json"), 0o644))

	code, out, _ := e.run(t, "ls")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "No todos yet")
}

func TestWriteFailureExitsNonZero(t *testing.T) {
	e := newEnv(t, "")
	// a directory where the list file should be makes every write fail
	require.NoError(t, os.Mkdir(filepath.Join(e.dir, "todos.json"), 0o755))

	code, out, stderr := e.run(t, "add", "lost")
	assert.Equal(t, exitError, code)
	assert.NotContains(t, out, "added")
	assert.Contains(t, stderr, "writing the list failed")
}

func TestLogFileReceivesWarnings(t *testing.T) {
	e := newEnv(t, "")
	logPath := filepath.Join(e.dir, "logs", "todo.log")
	require.NoError(t, os.WriteFile(filepath.Join(e.dir, "todos.json"), []byte("[1,2]"), 0o644))

	code, _, _ := e.run(t, "--log-file", logPath, "ls")
	require.Equal(t, exitOK, code)
	b, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(b), "discarding malformed todos")
}
