package lsp

import (
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestColorRefAtCursor(t *testing.T) {
	line := "    background = brighten(colors.background, 0.5)"

	tests := []struct {
		name      string
		character uint32
		want      string
	}{
		{"on colors", 28, "colors"},
		{"on name", 35, "colors.background"},
		{"on last character", 42, "colors.background"},
		{"on function name", 19, ""},
		{"on attribute name", 6, ""},
		{"on punctuation", 25, ""},
		{"past end of line", 80, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := colorRefAtCursor(line, tt.character); got != tt.want {
				t.Errorf("colorRefAtCursor(%d) = %q, want %q", tt.character, got, tt.want)
			}
		})
	}
}

func TestDefinition_BaseColor(t *testing.T) {
	result := Analyze("icon-settings.hcl", validSettings)

	symRange, ok := result.Symbols["colors.background"]
	if !ok {
		t.Fatal("expected colors.background in symbol table")
	}

	// Line 7 is "    background = brighten(colors.background, 0.5)"
	pos := protocol.Position{Line: 7, Character: 35}
	uri := "file:///icon-settings.hcl"

	loc := definition(result, validSettings, uri, pos)
	if loc == nil {
		t.Fatal("expected non-nil definition location for colors.background reference")
	}

	if loc.URI != protocol.DocumentUri(uri) {
		t.Errorf("URI = %q, want %q", loc.URI, uri)
	}

	if loc.Range != symRange {
		t.Errorf("Range = %v, want %v", loc.Range, symRange)
	}
}

func TestDefinition_UnknownColor(t *testing.T) {
	content := `colors = {
  background = "1E1E1E"
}

dark {
  colors = {
    background = colors.missing
  }
}
`
	result := Analyze("icon-settings.hcl", content)

	// "colors.missing" starts at character 17 on line 6
	if loc := definition(result, content, "file:///icon-settings.hcl", protocol.Position{Line: 6, Character: 26}); loc != nil {
		t.Errorf("expected nil location for undefined color, got %v", loc)
	}
}

func TestDefinition_HexLiteral(t *testing.T) {
	result := Analyze("icon-settings.hcl", validSettings)

	// Line 1 is `  background = "1E1E1E"`
	if loc := definition(result, validSettings, "file:///icon-settings.hcl", protocol.Position{Line: 1, Character: 17}); loc != nil {
		t.Errorf("expected nil location on a hex literal, got %v", loc)
	}
}

func TestDefinition_OutOfRange(t *testing.T) {
	result := Analyze("icon-settings.hcl", validSettings)

	if loc := definition(result, validSettings, "file:///icon-settings.hcl", protocol.Position{Line: 500, Character: 0}); loc != nil {
		t.Errorf("expected nil location past the end of the document, got %v", loc)
	}
}

func TestDefinition_NilResult(t *testing.T) {
	if loc := definition(nil, "", "file:///icon-settings.hcl", protocol.Position{}); loc != nil {
		t.Errorf("expected nil, got %v", loc)
	}
}
