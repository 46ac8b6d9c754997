package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hashicorp/hcl/v2/hclwrite"
)

var multipleBlankLines = regexp.MustCompile(`\n{3,}`)
var blankLineAfterOpenBrace = regexp.MustCompile(`\{\n\s*\n`)
var blankLineBeforeCloseBrace = regexp.MustCompile(`\n\s*\n(\s*\})`)

// Format returns the canonical layout of a settings file. The format is
// chosen from the filename extension: .hcl files go through hclwrite, .json
// files are re-indented with two spaces and keep their key order.
func Format(filename, content string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".hcl":
		return formatHCL(content), nil
	case ".json":
		return formatJSON(content)
	default:
		return "", fmt.Errorf("cannot format %q files (valid: .hcl, .json)", ext)
	}
}

// formatHCL works even on partial or invalid HCL, which keeps it usable while
// the user is still typing.
func formatHCL(content string) string {
	formatted := hclwrite.Format([]byte(content))
	collapsed := multipleBlankLines.ReplaceAllString(string(formatted), "\n\n")
	collapsed = blankLineAfterOpenBrace.ReplaceAllString(collapsed, "{\n")
	collapsed = blankLineBeforeCloseBrace.ReplaceAllString(collapsed, "\n${1}")
	return collapsed
}

func formatJSON(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return content, nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(trimmed), "", "  "); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}
	buf.WriteByte('\n')
	return buf.String(), nil
}
