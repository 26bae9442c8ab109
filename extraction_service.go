package main

import (
	"log/slog"
)

// ExtractedPair is a request with its optional response, pulled out of the
// host either from the history table or from the active editor.
type ExtractedPair struct {
	RequestText  string
	ResponseText string
	Request      *Request
	Response     *Response // nil when the pair carries no response
	Source       string    // "table" or "editor"
}

// HasResponse reports whether the pair carries a parsed response.
func (p ExtractedPair) HasResponse() bool { return p.Response != nil }

// ExtractionService reads the live host tree and turns whatever the user is
// focused on into ExtractedPairs. It must only run on the UI thread.
type ExtractionService struct {
	host          HostReader
	history       History
	parser        HTTPParser
	sections      []string
	editorSection string
	maxDepth      int
	logger        *slog.Logger
}

// NewExtractionService wires the pipeline from cfg. history may be nil, in
// which case the table path yields nothing.
func NewExtractionService(host HostReader, history History, cfg Config, logger *slog.Logger) *ExtractionService {
	return &ExtractionService{
		host:          host,
		history:       history,
		parser:        rawHTTPParser{},
		sections:      cfg.RootSections,
		editorSection: cfg.EditorSection,
		maxDepth:      cfg.MaxDepth,
		logger:        logger,
	}
}

// Extract tries the request history table first and falls back to the
// active editor. An empty result is a normal outcome.
func (s *ExtractionService) Extract() []ExtractedPair {
	l, ok := s.read()
	if !ok {
		return nil
	}
	if table := TableBySchema(l.windows, RequestTableSchema); table != nil {
		s.logger.Debug("extract: found request table", "columns", table.ColumnNames(), "selected", table.SelectedRows())
		return s.fromTable(table)
	}
	return s.fromEditor(l)
}

// ExtractEditor only considers the active editor.
func (s *ExtractionService) ExtractEditor() []ExtractedPair {
	l, ok := s.read()
	if !ok {
		return nil
	}
	return s.fromEditor(l)
}

func (s *ExtractionService) read() (lookup, bool) {
	windows, err := s.host.Windows()
	if err != nil {
		s.logger.Error("extract: reading host tree failed", "err", err)
		return lookup{}, false
	}
	return lookup{windows: windows, sections: s.sections, maxDepth: s.maxDepth}, true
}

// fromTable maps the selected rows, converted from view to model order,
// onto history records. Rows without a record are left out.
func (s *ExtractionService) fromTable(table TableNode) []ExtractedPair {
	rows := table.SelectedRows()
	if len(rows) == 0 {
		s.logger.Info("extract: no rows selected in request table")
		return nil
	}
	if s.history == nil {
		s.logger.Warn("extract: request table selected but no history file configured")
		return nil
	}
	records, err := s.history.Records()
	if err != nil {
		s.logger.Error("extract: reading history failed", "err", err)
		return nil
	}

	var pairs []ExtractedPair
	for _, view := range rows {
		idx := table.RowIndexToModel(view)
		if idx < 0 || idx >= len(records) {
			s.logger.Debug("extract: selected row has no history record", "view", view, "model", idx, "records", len(records))
			continue
		}
		if p, ok := s.pair(records[idx].RequestText, records[idx].ResponseText, "table"); ok {
			pairs = append(pairs, p)
		}
	}
	return pairs
}

// fromEditor reads the request and response editors of the active sub-tab.
// The first non-empty text region is taken as the request and the second
// as the response; nothing in the host marks which is which.
func (s *ExtractionService) fromEditor(l lookup) []ExtractedPair {
	regions := s.editorRegions(l)
	if len(regions) < 2 {
		return nil
	}
	p, ok := s.pair(regions[0].Text(), regions[1].Text(), "editor")
	if !ok {
		return nil
	}
	return []ExtractedPair{p}
}

// EditorRequest parses the request editor of the active sub-tab. Only the
// first text region is needed, so a request that has never been sent (its
// response editor still empty) is found too.
func (s *ExtractionService) EditorRequest() (*Request, bool) {
	l, ok := s.read()
	if !ok {
		return nil, false
	}
	regions := s.editorRegions(l)
	if len(regions) == 0 {
		return nil, false
	}
	req, err := s.parser.ParseRequest(regions[0].Text())
	if err != nil {
		s.logger.Error("extract: skipping malformed request", "source", "editor", "err", err)
		return nil, false
	}
	return req, true
}

// editorRegions returns the non-empty text regions under the split pane of
// the active editor sub-tab.
func (s *ExtractionService) editorRegions(l lookup) []TextNode {
	tab, ok := l.activeTab(s.editorSection)
	if !ok {
		s.logger.Debug("extract: no active editor tab", "section", s.editorSection)
		return nil
	}
	split := Find(tab.Component, ofKind(KindSplit), s.maxDepth)
	if split == nil {
		s.logger.Debug("extract: no split pane in active tab", "tab", tab.Pane.TitleAt(tab.Index))
		return nil
	}
	regions := TextRegionsUnderSplit(split, s.maxDepth)
	s.logger.Debug("extract: text regions", "count", len(regions))
	return regions
}

// pair parses one candidate. Malformed requests are logged and dropped; a
// malformed response leaves the pair without a response.
func (s *ExtractionService) pair(reqText, respText, source string) (ExtractedPair, bool) {
	if reqText == "" {
		return ExtractedPair{}, false
	}
	req, err := s.parser.ParseRequest(reqText)
	if err != nil {
		s.logger.Error("extract: skipping malformed request", "source", source, "err", err)
		return ExtractedPair{}, false
	}
	p := ExtractedPair{RequestText: reqText, ResponseText: respText, Request: req, Source: source}
	if respText != "" {
		resp, err := s.parser.ParseResponse(respText)
		if err != nil {
			s.logger.Error("extract: dropping malformed response", "source", source, "err", err)
		} else {
			p.Response = resp
		}
	}
	return p, true
}
