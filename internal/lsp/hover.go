package lsp

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/jsvensson/studioicons/internal/theme"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func comparePos(a, b protocol.Position) int {
	return cmp.Or(cmp.Compare(a.Line, b.Line), cmp.Compare(a.Character, b.Character))
}

// posInRange reports whether pos lies in [r.Start, r.End).
func posInRange(pos protocol.Position, r protocol.Range) bool {
	return comparePos(pos, r.Start) >= 0 && comparePos(pos, r.End) < 0
}

// offsetOf converts pos to a byte offset into content. Characters past the
// end of a line clamp to the line end; lines past the end clamp to len(content).
func offsetOf(content string, pos protocol.Position) int {
	off := 0
	for range pos.Line {
		i := strings.IndexByte(content[off:], '\n')
		if i < 0 {
			return len(content)
		}
		off += i + 1
	}
	lineEnd := len(content)
	if i := strings.IndexByte(content[off:], '\n'); i >= 0 {
		lineEnd = off + i
	}
	return min(off+int(pos.Character), lineEnd)
}

// extractText returns the source text covered by r.
func extractText(content string, r protocol.Range) string {
	start, end := offsetOf(content, r.Start), offsetOf(content, r.End)
	if start >= end {
		return ""
	}
	return content[start:end]
}

// colorMarkdown describes a color slot: its settings path, the expression it
// is derived from, the resolved value and, for theme colors, the base color
// it replaces in the generated icons.
func colorMarkdown(cl ColorLocation, content string) string {
	var b strings.Builder
	if cl.Name != "" {
		fmt.Fprintf(&b, "**%s**\n\n", cl.Name)
	}
	if cl.IsRef {
		fmt.Fprintf(&b, "= `%s`\n\n", extractText(content, cl.Range))
	}
	fmt.Fprintf(&b, "`%s` · `%s`", cl.Color.Hex(), cl.Color.RGB())
	if cl.Base != nil {
		fmt.Fprintf(&b, "\n\nreplaces `%s`", cl.Base.Hex())
	}
	return b.String()
}

// iconMarkdown lists the file each variant of an icon is written to.
func iconMarkdown(icon IconLocation) string {
	parts := make([]string, 0, len(theme.Kinds()))
	for _, k := range theme.Kinds() {
		parts = append(parts, fmt.Sprintf("%s `%s`", k, k.FileName(icon.Path)))
	}
	return fmt.Sprintf("**%s**\n\n%s", icon.Path, strings.Join(parts, " · "))
}

// hover describes the color or icon path under the cursor, or returns nil.
func hover(result *AnalysisResult, content string, pos protocol.Position) *protocol.Hover {
	if result == nil {
		return nil
	}

	markdown := func(md string, r protocol.Range) *protocol.Hover {
		return &protocol.Hover{
			Contents: protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: md},
			Range:    &r,
		}
	}

	for _, cl := range result.Colors {
		if posInRange(pos, cl.Range) {
			return markdown(colorMarkdown(cl, content), cl.Range)
		}
	}
	for _, icon := range result.Icons {
		if posInRange(pos, icon.Range) {
			return markdown(iconMarkdown(icon), icon.Range)
		}
	}
	return nil
}

func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	uri := string(params.TextDocument.URI)
	content, ok := s.docs.Get(uri)
	if !ok {
		return nil, nil
	}
	return hover(s.getResult(uri), content, params.Position), nil
}
