package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Record is one past request/response exchange in raw HTTP text.
// ResponseText is empty when no response was received.
type Record struct {
	RequestText  string
	ResponseText string
}

// History is the host's ordered request history. Row i of the unsorted
// history table corresponds to record i.
type History interface {
	Records() ([]Record, error)
}

// harHistory reads a HAR export on every call so that rows added since the
// last lookup line up with the table the user is looking at.
type harHistory struct {
	path string
}

type harFile struct {
	Log struct {
		Entries []harEntry `json:"entries"`
	} `json:"log"`
}

type harEntry struct {
	Request  harRequest   `json:"request"`
	Response *harResponse `json:"response"`
}

type harHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type harRequest struct {
	Method   string      `json:"method"`
	URL      string      `json:"url"`
	Headers  []harHeader `json:"headers"`
	PostData *struct {
		Text string `json:"text"`
	} `json:"postData"`
}

type harResponse struct {
	Status     int         `json:"status"`
	StatusText string      `json:"statusText"`
	Headers    []harHeader `json:"headers"`
	Content    struct {
		Text     string `json:"text"`
		Encoding string `json:"encoding"`
	} `json:"content"`
}

func (h *harHistory) Records() ([]Record, error) {
	data, err := os.ReadFile(h.path)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	var har harFile
	if err := json.Unmarshal(data, &har); err != nil {
		return nil, fmt.Errorf("history: parse %s: %w", h.path, err)
	}
	records := make([]Record, 0, len(har.Log.Entries))
	for _, e := range har.Log.Entries {
		records = append(records, Record{
			RequestText:  renderHARRequest(e.Request),
			ResponseText: renderHARResponse(e.Response),
		})
	}
	return records, nil
}

// renderHARRequest writes the entry back as HTTP/1.1 text. HTTP/2
// pseudo-headers are dropped and a Host header is added when missing.
func renderHARRequest(r harRequest) string {
	target := r.URL
	host := ""
	if u, err := url.Parse(r.URL); err == nil && u.Host != "" {
		target = u.RequestURI()
		host = u.Host
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s HTTP/1.1\r\n", r.Method, target)
	hasHost := false
	for _, h := range r.Headers {
		if strings.HasPrefix(h.Name, ":") {
			continue
		}
		if strings.EqualFold(h.Name, "host") {
			hasHost = true
		}
		fmt.Fprintf(&b, "%s: %s\r\n", h.Name, h.Value)
	}
	if !hasHost && host != "" {
		fmt.Fprintf(&b, "Host: %s\r\n", host)
	}
	b.WriteString("\r\n")
	if r.PostData != nil {
		b.WriteString(r.PostData.Text)
	}
	return b.String()
}

// renderHARResponse returns "" for entries without a response (HAR uses
// status 0 for those).
func renderHARResponse(r *harResponse) string {
	if r == nil || r.Status == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "HTTP/1.1 %d %s\r\n", r.Status, r.StatusText)
	for _, h := range r.Headers {
		if strings.HasPrefix(h.Name, ":") {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\r\n", h.Name, h.Value)
	}
	b.WriteString("\r\n")
	body := r.Content.Text
	if r.Content.Encoding == "base64" {
		if raw, err := base64.StdEncoding.DecodeString(body); err == nil {
			body = string(raw)
		}
	}
	b.WriteString(body)
	return b.String()
}
