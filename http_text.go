package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var errEmptyMessage = errors.New("http text: empty message")

// Request is an HTTP request parsed from editor or history text.
type Request struct {
	Method string
	Target string // request-target exactly as written on the request line
	Proto  string
	Host   string
	Header http.Header
	Body   []byte
}

// URL returns the absolute URL of the request. Origin-form targets are
// resolved against the Host header; the scheme is https unless the host
// names port 80.
func (r *Request) URL() string {
	if strings.HasPrefix(r.Target, "http://") || strings.HasPrefix(r.Target, "https://") {
		return r.Target
	}
	if r.Host == "" {
		return r.Target
	}
	scheme := "https"
	if strings.HasSuffix(r.Host, ":80") {
		scheme = "http"
	}
	return scheme + "://" + r.Host + r.Target
}

// Response is an HTTP response parsed from editor or history text.
type Response struct {
	Proto      string
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
}

// HTTPParser turns raw HTTP/1.x message text into structured values.
type HTTPParser interface {
	ParseRequest(text string) (*Request, error)
	ParseResponse(text string) (*Response, error)
}

// rawHTTPParser parses with net/http. Bodies are best-effort: a body shorter
// than its Content-Length (common after hand edits) is kept as far as it goes.
type rawHTTPParser struct{}

func (rawHTTPParser) ParseRequest(text string) (*Request, error) {
	text, err := normalizeMessage(text)
	if err != nil {
		return nil, err
	}
	req, err := http.ReadRequest(bufio.NewReader(strings.NewReader(text)))
	if err != nil {
		return nil, fmt.Errorf("http text: request: %w", err)
	}
	defer req.Body.Close()
	body, _ := io.ReadAll(req.Body)
	return &Request{
		Method: req.Method,
		Target: req.RequestURI,
		Proto:  req.Proto,
		Host:   req.Host,
		Header: req.Header,
		Body:   body,
	}, nil
}

func (rawHTTPParser) ParseResponse(text string) (*Response, error) {
	text, err := normalizeMessage(text)
	if err != nil {
		return nil, err
	}
	resp, err := http.ReadResponse(bufio.NewReader(strings.NewReader(text)), nil)
	if err != nil {
		return nil, fmt.Errorf("http text: response: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return &Response{
		Proto:      resp.Proto,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// normalizeMessage drops leading blank lines and terminates a header block
// that has no body and no trailing empty line.
func normalizeMessage(text string) (string, error) {
	text = strings.TrimLeft(text, "\r\n\t ")
	if text == "" {
		return "", errEmptyMessage
	}
	if !strings.Contains(text, "\r\n\r\n") && !strings.Contains(text, "\n\n") {
		text = strings.TrimRight(text, "\r\n") + "\r\n\r\n"
	}
	return text, nil
}
