package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHAR = `{
  "log": {
    "entries": [
      {
        "request": {
          "method": "POST",
          "url": "https://example.com/login?next=%2Fhome",
          "headers": [
            {"name": ":authority", "value": "example.com"},
            {"name": "Content-Type", "value": "application/x-www-form-urlencoded"}
          ],
          "postData": {"text": "user=admin"}
        },
        "response": {
          "status": 302,
          "statusText": "Found",
          "headers": [{"name": "Location", "value": "/home"}],
          "content": {"text": "aGk=", "encoding": "base64"}
        }
      },
      {
        "request": {
          "method": "GET",
          "url": "http://other.test/ping",
          "headers": [{"name": "Host", "value": "other.test"}]
        },
        "response": {"status": 0, "statusText": "", "headers": [], "content": {"text": ""}}
      }
    ]
  }
}`

func writeHAR(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.har")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestHARHistoryRecords(t *testing.T) {
	h := &harHistory{path: writeHAR(t, sampleHAR)}

	records, err := h.Records()
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t,
		"POST /login?next=%2Fhome HTTP/1.1\r\n"+
			"Content-Type: application/x-www-form-urlencoded\r\n"+
			"Host: example.com\r\n\r\n"+
			"user=admin",
		first.RequestText)
	assert.Equal(t, "HTTP/1.1 302 Found\r\nLocation: /home\r\n\r\nhi", first.ResponseText)

	second := records[1]
	assert.Equal(t, "GET /ping HTTP/1.1\r\nHost: other.test\r\n\r\n", second.RequestText)
	assert.Empty(t, second.ResponseText, "status 0 means no response")
}

func TestHARHistoryRecordsParse(t *testing.T) {
	h := &harHistory{path: writeHAR(t, sampleHAR)}
	records, err := h.Records()
	require.NoError(t, err)

	req, err := rawHTTPParser{}.ParseRequest(records[0].RequestText)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/login?next=%2Fhome", req.URL())

	resp, err := rawHTTPParser{}.ParseResponse(records[0].ResponseText)
	require.NoError(t, err)
	assert.Equal(t, 302, resp.StatusCode)
}

func TestHARHistoryErrors(t *testing.T) {
	_, err := (&harHistory{path: filepath.Join(t.TempDir(), "missing.har")}).Records()
	assert.Error(t, err)

	_, err = (&harHistory{path: writeHAR(t, "{not json")}).Records()
	assert.Error(t, err)
}
