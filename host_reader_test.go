package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSnapshot = `
windows:
  - role: window
    title: Burp Suite
    children:
      - role: container
        content: true
        children:
          - role: tabbed
            tabs: [Proxy, Repeater]
            selected: 1
            children:
              - role: container
              - role: container
                children:
                  - role: tabbed
                    tabs: ["1", "2"]
                    selected: 0
                    children:
                      - role: container
                      - role: container
`

func TestNewHostReader(t *testing.T) {
	cfg := defaultConfig()
	_, err := newHostReader(cfg)
	assert.ErrorIs(t, err, ErrNoHost)

	cfg.DumpCommand = []string{"a11y-dump"}
	h, err := newHostReader(cfg)
	require.NoError(t, err)
	assert.IsType(t, &commandHost{}, h)
	assert.ErrorIs(t, h.(Committer).Commit(), ErrReadOnlyHost)

	cfg.SnapshotFile = "/tmp/tree.yaml"
	h, err = newHostReader(cfg)
	require.NoError(t, err)
	assert.IsType(t, &fileHost{}, h, "a snapshot file wins over a dump command")
}

func TestFileHostRenameRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleSnapshot), 0o644))

	cfg := defaultConfig()
	cfg.SnapshotFile = path
	host, err := newHostReader(cfg)
	require.NoError(t, err)

	NewTabRenamer(host, cfg, newNopLogger()).Rename("https://example.com/admin")

	windows, err := host.Windows()
	require.NoError(t, err)
	root := RootContainer(windows, cfg.RootSections, cfg.MaxDepth)
	require.NotNil(t, root)
	tab, ok := ActiveSubTab(Section(root, "Repeater"), cfg.MaxDepth)
	require.True(t, ok)
	assert.Equal(t, []string{"example.com/admin", "2"}, tabTitles(tab.Pane))
}

func TestFileHostErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := (&fileHost{path: filepath.Join(dir, "missing.yaml")}).Windows()
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("windows: [unclosed"), 0o644))
	_, err = (&fileHost{path: bad}).Windows()
	assert.Error(t, err)

	assert.NoError(t, (&fileHost{path: bad}).Commit(), "nothing read, nothing to write")
}

const jsonSnapshot = `{
  "windows": [
    {
      "role": "window",
      "bridge_id": "w-1",
      "children": [
        {
          "role": "tabbed",
          "bridge_id": "root-tabs",
          "tabs": ["Proxy", "Repeater"],
          "selected": 1,
          "children": [
            {"role": "container", "bridge_id": "proxy"},
            {
              "role": "container",
              "children": [
                {
                  "role": "tabbed",
                  "bridge_id": "editor-tabs",
                  "tabs": ["1", "2"],
                  "selected": 1,
                  "children": [{"role": "container"}, {"role": "container"}]
                }
              ]
            }
          ]
        }
      ]
    }
  ]
}`

func newSnapshotHost(t *testing.T, name, content string) (*fileHost, Config) {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	cfg := defaultConfig()
	cfg.SnapshotFile = path
	return &fileHost{path: path}, cfg
}

// decodeJSONTabs returns the editor tab strip from a JSON snapshot on disk.
func decodeJSONTabs(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc), "snapshot stays JSON")
	w := doc["windows"].([]any)[0].(map[string]any)
	root := w["children"].([]any)[0].(map[string]any)
	repeater := root["children"].([]any)[1].(map[string]any)
	return repeater["children"].([]any)[0].(map[string]any)
}

func TestFileHostCommitKeepsJSONAndBridgeKeys(t *testing.T) {
	host, cfg := newSnapshotHost(t, "tree.json", jsonSnapshot)

	NewTabRenamer(host, cfg, newNopLogger()).Rename("https://example.com/x")

	data, err := os.ReadFile(host.path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
	assert.Contains(t, string(data), `"bridge_id": "w-1"`)
	assert.Contains(t, string(data), `"bridge_id": "proxy"`)

	editor := decodeJSONTabs(t, data)
	assert.Equal(t, "editor-tabs", editor["bridge_id"])
	assert.Equal(t, []any{"1", "example.com/x"}, editor["tabs"])
	assert.EqualValues(t, 1, editor["selected"])
}

func TestFileHostCommitKeepsConcurrentBridgeWrites(t *testing.T) {
	host, _ := newSnapshotHost(t, "tree.json", jsonSnapshot)

	windows, err := host.Windows()
	require.NoError(t, err)
	tab, ok := (lookup{windows: windows, sections: defaultSections, maxDepth: DefaultMaxDepth}).activeTab("Repeater")
	require.True(t, ok)
	require.NoError(t, tab.Pane.SetTitleAt(tab.Index, "example.com/x"))

	// The bridge refreshes the snapshot before the rename is committed.
	updated := strings.Replace(jsonSnapshot, `"bridge_id": "proxy"`, `"bridge_id": "proxy", "rows": 12`, 1)
	require.NoError(t, os.WriteFile(host.path, []byte(updated), 0o644))

	require.NoError(t, host.Commit())

	data, err := os.ReadFile(host.path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"rows": 12`)
	assert.Equal(t, []any{"1", "example.com/x"}, decodeJSONTabs(t, data)["tabs"])

	require.NoError(t, host.Commit(), "nothing left to write")
}

func TestFileHostCommitYAMLKeepsUnknownKeys(t *testing.T) {
	host, cfg := newSnapshotHost(t, "tree.yaml", strings.Replace(sampleSnapshot, "title: Burp Suite", "title: Burp Suite\n    widget_id: 77", 1))

	NewTabRenamer(host, cfg, newNopLogger()).Rename("https://example.com/admin")

	data, err := os.ReadFile(host.path)
	require.NoError(t, err)
	assert.False(t, json.Valid(data))
	assert.Contains(t, string(data), "widget_id: 77")
	assert.Contains(t, string(data), "example.com/admin")
}

func TestFileHostCommitStaleSnapshot(t *testing.T) {
	host, _ := newSnapshotHost(t, "tree.json", jsonSnapshot)

	windows, err := host.Windows()
	require.NoError(t, err)
	tab, ok := (lookup{windows: windows, sections: defaultSections, maxDepth: DefaultMaxDepth}).activeTab("Repeater")
	require.True(t, ok)
	require.NoError(t, tab.Pane.SetTitleAt(tab.Index, "example.com/x"))

	require.NoError(t, os.WriteFile(host.path, []byte(`{"windows": [{"role": "window"}]}`), 0o644))
	assert.ErrorIs(t, host.Commit(), ErrStaleSnapshot)
}
