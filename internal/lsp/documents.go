package lsp

import "sync"

type document struct {
	content string
	result  *AnalysisResult
}

// DocumentStore holds open document contents keyed by URI, together with
// their analysis. The analysis is computed on first use after each change.
type DocumentStore struct {
	mu   sync.Mutex
	docs map[string]*document
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*document)}
}

// Open and Update both replace the stored content and drop any cached analysis.
func (s *DocumentStore) Open(uri, content string) {
	s.set(uri, content)
}

func (s *DocumentStore) Update(uri, content string) {
	s.set(uri, content)
}

func (s *DocumentStore) set(uri, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = &document{content: content}
}

func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

func (s *DocumentStore) Get(uri string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[uri]
	if !ok {
		return "", false
	}
	return doc.content, true
}

// Result returns the analysis of an open document, or nil if uri is not open.
func (s *DocumentStore) Result(uri string) *AnalysisResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[uri]
	if !ok {
		return nil
	}
	if doc.result == nil {
		doc.result = Analyze(uri, doc.content)
	}
	return doc.result
}
