package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// writeSnapshot saves windows as a snapshot file and returns flags pointing
// the commands at it with an isolated config.
func writeSnapshot(t *testing.T, windows ...*Element) []string {
	t.Helper()
	dir := t.TempDir()
	data, err := yaml.Marshal(&Snapshot{Windows: windows})
	require.NoError(t, err)
	path := filepath.Join(dir, "tree.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return []string{"--config", filepath.Join(dir, "config.json"), "--snapshot", path}
}

func TestLabelCommand(t *testing.T) {
	out, err := executeRoot(t, "label", "https://example.com/api/v1/users?page=2")
	require.NoError(t, err)
	assert.Equal(t, "example.com/api/v1/users\n", out)

	_, err = executeRoot(t, "label")
	assert.Error(t, err)
}

func TestLabelCommandApply(t *testing.T) {
	flags := writeSnapshot(t, hostTree(2, nil, 0, editorTab(getRequest, okResponse)))
	_, err := executeRoot(t, append([]string{"label", "--apply", "https://example.com/login"}, flags...)...)
	require.NoError(t, err)

	data, err := os.ReadFile(flags[3])
	require.NoError(t, err)
	assert.Contains(t, string(data), "example.com/login")
}

func TestExtractCommand(t *testing.T) {
	flags := writeSnapshot(t, hostTree(2, nil, 0, editorTab(getRequest, okResponse)))
	out, err := executeRoot(t, append([]string{"extract"}, flags...)...)
	require.NoError(t, err)

	var views []pairView
	require.NoError(t, yaml.Unmarshal([]byte(out), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "editor", views[0].Source)
	assert.Equal(t, "GET", views[0].Method)
	assert.Equal(t, "https://example.com/api/v1/users?page=2", views[0].URL)
	assert.Equal(t, "200 OK", views[0].Status)
}

func TestExtractCommandWithoutHost(t *testing.T) {
	_, err := executeRoot(t, "extract", "--config", filepath.Join(t.TempDir(), "config.json"))
	assert.ErrorIs(t, err, ErrNoHost)
}

func TestDumpCommand(t *testing.T) {
	flags := writeSnapshot(t, window(el("container", text("hello"))))
	out, err := executeRoot(t, append([]string{"dump", "--depth", "1"}, flags...)...)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, []string{"window", "  container"}, lines)
}
