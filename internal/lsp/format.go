package lsp

import (
	"strings"
	"unicode/utf8"

	"github.com/jsvensson/studioicons/internal/format"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// formatEdits returns a single edit replacing the whole document with its
// formatted form, or no edits when it is already formatted.
func formatEdits(filename, content string) ([]protocol.TextEdit, error) {
	formatted, err := format.Format(filename, content)
	if err != nil {
		return nil, err
	}
	if formatted == content {
		return []protocol.TextEdit{}, nil
	}
	return []protocol.TextEdit{{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   documentEnd(content),
		},
		NewText: formatted,
	}}, nil
}

// documentEnd is the position just past the last character of content.
func documentEnd(content string) protocol.Position {
	lines := strings.Split(content, "\n")
	last := lines[len(lines)-1]
	return protocol.Position{
		Line:      uint32(len(lines) - 1),
		Character: uint32(utf8.RuneCountInString(last)),
	}
}

func (s *Server) textDocumentFormatting(_ *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	uri := string(params.TextDocument.URI)
	content, ok := s.docs.Get(uri)
	if !ok {
		return nil, nil
	}
	return formatEdits(uri, content)
}
