package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// SharedRequest is the document written for each shared pair.
type SharedRequest struct {
	ID         string    `json:"id"`
	SharedAt   time.Time `json:"shared_at"`
	Source     string    `json:"source"`
	Method     string    `json:"method"`
	URL        string    `json:"url"`
	Request    string    `json:"request"`
	Response   string    `json:"response,omitempty"`
	StatusCode int       `json:"status_code,omitempty"`
}

// ShareService is the request-sharing collaborator. It drops one JSON
// document per pair into a workspace directory that teammates sync.
type ShareService struct {
	dir    string
	now    func() time.Time
	logger *slog.Logger
}

func NewShareService(dir string, logger *slog.Logger) *ShareService {
	return &ShareService{dir: dir, now: time.Now, logger: logger}
}

// Share writes one pair. It is called once per extracted pair, and a failed
// pair does not stop the caller from sharing the rest.
func (s *ShareService) Share(p ExtractedPair) error {
	doc := SharedRequest{
		ID:       uuid.NewString(),
		SharedAt: s.now().UTC(),
		Source:   p.Source,
		Method:   p.Request.Method,
		URL:      p.Request.URL(),
		Request:  p.RequestText,
	}
	if p.HasResponse() {
		doc.Response = p.ResponseText
		doc.StatusCode = p.Response.StatusCode
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("share: %w", err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("share: %w", err)
	}
	path := filepath.Join(s.dir, doc.ID+".json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("share: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("share: %w", err)
	}
	s.logger.Info("share: request shared", "id", doc.ID, "method", doc.Method, "url", doc.URL)
	return nil
}
