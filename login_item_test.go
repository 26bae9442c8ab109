package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoginItemService(t *testing.T) *LoginItemService {
	t.Helper()
	return &LoginItemService{plistDir: t.TempDir()}
}

func readPlist(t *testing.T, svc *LoginItemService) string {
	t.Helper()
	data, err := os.ReadFile(svc.Path())
	require.NoError(t, err)
	return string(data)
}

func TestLoginItemEnable(t *testing.T) {
	svc := newTestLoginItemService(t)
	execPath := "/usr/local/bin/repeater-capture"

	require.NoError(t, svc.Enable(execPath, "--config", "/Users/me/rc & co/config.json"))

	content := readPlist(t, svc)
	assert.Contains(t, content, "<string>"+plistLabel+"</string>")
	assert.Contains(t, content, "<string>"+execPath+"</string>")
	assert.Contains(t, content, "<string>--config</string>")
	assert.Contains(t, content, "<string>/Users/me/rc &amp; co/config.json</string>", "arguments are XML-escaped")
	assert.NotContains(t, content, "StandardErrorPath")
}

func TestLoginItemEnableWithLogFile(t *testing.T) {
	svc := newTestLoginItemService(t)
	svc.logDir = filepath.Join(t.TempDir(), "logs")

	require.NoError(t, svc.Enable("/usr/local/bin/repeater-capture"))
	assert.Contains(t, readPlist(t, svc),
		"<key>StandardErrorPath</key>\n    <string>"+filepath.Join(svc.logDir, "listener.log")+"</string>")
	assert.DirExists(t, svc.logDir)

	require.NoError(t, svc.Enable("/opt/rc/repeater-capture"), "enabling again replaces the agent")
	content := readPlist(t, svc)
	assert.Contains(t, content, "/opt/rc/repeater-capture")
	assert.NotContains(t, content, "/usr/local/bin/repeater-capture")
	_, err := os.Stat(svc.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestLoginItemToggleRoundtrip(t *testing.T) {
	svc := newTestLoginItemService(t)
	assert.False(t, svc.IsEnabled())

	for i, enable := range []bool{true, false, true} {
		var err error
		if enable {
			err = svc.Enable("/usr/local/bin/repeater-capture")
		} else {
			err = svc.Disable()
		}
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, enable, svc.IsEnabled(), "step %d", i)
	}
}

func TestLoginItemDisableWhenNotEnabled(t *testing.T) {
	assert.NoError(t, newTestLoginItemService(t).Disable())
}
