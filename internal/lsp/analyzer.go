package lsp

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/jsvensson/studioicons/internal/color"
	"github.com/jsvensson/studioicons/internal/parser"
	"github.com/jsvensson/studioicons/internal/theme"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/zclconf/go-cty/cty"
)

const diagSource = "studioicons"

var (
	DiagError   = protocol.DiagnosticSeverityError
	DiagWarning = protocol.DiagnosticSeverityWarning
	DiagInfo    = protocol.DiagnosticSeverityInformation
)

var glyphAttributes = []string{"folder", "folderExpanded", "rootFolder", "rootFolderExpanded", "file"}

var iconListAttributes = []string{"fileExtensions", "fileNames", "folderNames", "folderNamesExpanded"}

// AnalysisResult holds all information produced by analyzing a settings file.
type AnalysisResult struct {
	Diagnostics []protocol.Diagnostic
	Palette     color.Palette
	Symbols     map[string]protocol.Range // "colors.background" -> definition range
	Colors      []ColorLocation
	Icons       []IconLocation
}

// ColorLocation records a resolved color at a specific source position.
type ColorLocation struct {
	Range protocol.Range
	Name  string // "colors.background", "dark.colors.background"
	Color color.Color
	Base  *color.Color // for theme colors: the base color being replaced
	IsRef bool         // derived from the base palette rather than written as a literal
}

// IconLocation records the iconPath value of an iconDefinitions block.
type IconLocation struct {
	Range protocol.Range
	Path  string
}

// hclPosToLSP converts an HCL position to an LSP position.
// HCL positions are 1-based; LSP positions are 0-based.
func hclPosToLSP(pos hcl.Pos) protocol.Position {
	return protocol.Position{
		Line:      uint32(max(pos.Line-1, 0)),
		Character: uint32(max(pos.Column-1, 0)),
	}
}

func hclRangeToLSP(r hcl.Range) protocol.Range {
	return protocol.Range{
		Start: hclPosToLSP(r.Start),
		End:   hclPosToLSP(r.End),
	}
}

// Analyze parses settings content from memory and produces diagnostics, a
// symbol table of base colors and color locations. It collects every problem
// rather than stopping at the first.
func Analyze(filename, content string) *AnalysisResult {
	result := &AnalysisResult{
		Palette: color.Palette{},
		Symbols: make(map[string]protocol.Range),
	}

	file, diags := hclsyntax.ParseConfig([]byte(content), filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		for _, d := range diags {
			result.Diagnostics = append(result.Diagnostics, hclDiagToLSP(d))
		}
		return result
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		result.addError(hcl.Range{}, "internal error: parsed body is not *hclsyntax.Body")
		return result
	}

	for _, attr := range sortedAttributes(body) {
		if attr.Name == "colors" {
			result.analyzeBaseColors(attr)
			continue
		}
		result.addWarning(attr.NameRange, fmt.Sprintf("unknown attribute %q", attr.Name))
	}
	if _, ok := body.Attributes["colors"]; !ok {
		result.addWarning(fileStart(filename), "no colors attribute; icons are copied without recoloring")
	}

	ctx := parser.EvalContext(result.Palette)

	styles := make(map[string]bool)
	icons := make(map[string]bool)
	for _, block := range body.Blocks {
		if len(block.Labels) > 0 {
			result.addError(block.LabelRanges[0], fmt.Sprintf("%s block takes no labels", block.Type))
			continue
		}

		switch block.Type {
		case "light", "dark", "contrast":
			if styles[block.Type] {
				result.addError(block.TypeRange, fmt.Sprintf("duplicate %s block", block.Type))
				continue
			}
			styles[block.Type] = true
			result.analyzeStyle(block, ctx)
		case "iconDefinitions":
			result.analyzeIcon(block, ctx, icons)
		default:
			result.addWarning(block.TypeRange, fmt.Sprintf("unknown block type %q", block.Type))
		}
	}

	slices.SortStableFunc(result.Colors, func(a, b ColorLocation) int {
		return cmp.Or(
			cmp.Compare(a.Range.Start.Line, b.Range.Start.Line),
			cmp.Compare(a.Range.Start.Character, b.Range.Start.Character),
		)
	})

	return result
}

// hclDiagToLSP converts an HCL diagnostic to an LSP diagnostic.
func hclDiagToLSP(d *hcl.Diagnostic) protocol.Diagnostic {
	sev := DiagError
	if d.Severity == hcl.DiagWarning {
		sev = DiagWarning
	}

	diag := protocol.Diagnostic{
		Severity: &sev,
		Message:  d.Summary,
		Source:   strPtr(diagSource),
	}

	if d.Detail != "" {
		diag.Message = d.Summary + ": " + d.Detail
	}

	if d.Subject != nil {
		diag.Range = hclRangeToLSP(*d.Subject)
	}

	return diag
}

func (r *AnalysisResult) addDiagnostic(rng hcl.Range, sev protocol.DiagnosticSeverity, msg string) {
	r.Diagnostics = append(r.Diagnostics, protocol.Diagnostic{
		Range:    hclRangeToLSP(rng),
		Severity: &sev,
		Source:   strPtr(diagSource),
		Message:  msg,
	})
}

func (r *AnalysisResult) addError(rng hcl.Range, msg string) {
	r.addDiagnostic(rng, DiagError, msg)
}

func (r *AnalysisResult) addWarning(rng hcl.Range, msg string) {
	r.addDiagnostic(rng, DiagWarning, msg)
}

func strPtr(s string) *string {
	return &s
}

func fileStart(filename string) hcl.Range {
	return hcl.Range{
		Filename: filename,
		Start:    hcl.Pos{Line: 1, Column: 1, Byte: 0},
		End:      hcl.Pos{Line: 1, Column: 1, Byte: 0},
	}
}

// sortedAttributes returns the attributes of body in source order.
func sortedAttributes(body *hclsyntax.Body) []*hclsyntax.Attribute {
	attrs := slices.Collect(maps.Values(body.Attributes))
	slices.SortFunc(attrs, func(a, b *hclsyntax.Attribute) int {
		return cmp.Compare(a.SrcRange.Start.Byte, b.SrcRange.Start.Byte)
	})
	return attrs
}

// objectKey returns the name of an object constructor key, which may be a
// bare identifier or a quoted string.
func objectKey(expr hclsyntax.Expression) (string, bool) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() || !val.IsKnown() || val.IsNull() || val.Type() != cty.String {
		return "", false
	}
	return val.AsString(), true
}

// analyzeBaseColors walks the top-level colors object. Base colors are plain
// literals: they are decoded without an evaluation context.
func (r *AnalysisResult) analyzeBaseColors(attr *hclsyntax.Attribute) {
	obj, ok := attr.Expr.(*hclsyntax.ObjectConsExpr)
	if !ok {
		r.addError(attr.Expr.Range(), "colors must be an object of name = hex pairs")
		return
	}

	for _, item := range obj.Items {
		name, ok := objectKey(item.KeyExpr)
		if !ok {
			r.addError(item.KeyExpr.Range(), "color name must be an identifier or a string")
			continue
		}

		symbol := "colors." + name
		if _, dup := r.Symbols[symbol]; dup {
			r.addWarning(item.KeyExpr.Range(), fmt.Sprintf("%s is defined more than once", symbol))
		}
		r.Symbols[symbol] = hclRangeToLSP(hcl.RangeBetween(item.KeyExpr.Range(), item.ValueExpr.Range()))

		val, diags := item.ValueExpr.Value(nil)
		if diags.HasErrors() {
			r.addError(item.ValueExpr.Range(), fmt.Sprintf("%s: %s", symbol, diags.Error()))
			continue
		}
		hex, err := stringValue(val)
		if err != nil {
			r.addError(item.ValueExpr.Range(), fmt.Sprintf("%s: %s", symbol, err))
			continue
		}
		c, err := color.ParseHex(hex)
		if err != nil {
			r.addError(item.ValueExpr.Range(), fmt.Sprintf("%s: %s", symbol, err))
			continue
		}

		r.Palette[name] = hex
		r.Colors = append(r.Colors, ColorLocation{
			Range: hclRangeToLSP(item.ValueExpr.Range()),
			Name:  symbol,
			Color: c,
		})
	}
}

// analyzeStyle walks a light, dark or contrast block.
func (r *AnalysisResult) analyzeStyle(block *hclsyntax.Block, ctx *hcl.EvalContext) {
	kind, _ := theme.ParseKind(block.Type)

	for _, attr := range sortedAttributes(block.Body) {
		switch {
		case attr.Name == "colors":
			r.analyzeThemeColors(attr, ctx, block.Type)
		case slices.Contains(glyphAttributes, attr.Name):
			name, ok := r.evalString(attr, ctx, block.Type)
			if !ok {
				continue
			}
			if kind != theme.Light && name != "" && !strings.Contains(name, kind.Suffix()) {
				r.addWarning(attr.Expr.Range(),
					fmt.Sprintf("%s.%s refers to %q, which is not a generated %s icon", block.Type, attr.Name, name, kind))
			}
		default:
			r.addWarning(attr.NameRange, fmt.Sprintf("unknown attribute %q in %s block", attr.Name, block.Type))
		}
	}

	for _, nested := range block.Body.Blocks {
		r.addWarning(nested.TypeRange, fmt.Sprintf("unknown block type %q in %s block", nested.Type, block.Type))
	}
}

// analyzeThemeColors walks the colors object of a theme block. Values may
// reference the base palette and call brighten or darken.
func (r *AnalysisResult) analyzeThemeColors(attr *hclsyntax.Attribute, ctx *hcl.EvalContext, blockName string) {
	obj, ok := attr.Expr.(*hclsyntax.ObjectConsExpr)
	if !ok {
		val, diags := attr.Expr.Value(ctx)
		switch {
		case diags.HasErrors():
			r.addError(attr.Expr.Range(), fmt.Sprintf("%s.colors: %s", blockName, diags.Error()))
		case !val.Type().IsObjectType() && !val.Type().IsMapType():
			r.addError(attr.Expr.Range(), fmt.Sprintf("%s.colors must be an object of name = hex pairs", blockName))
		}
		return
	}

	for _, item := range obj.Items {
		name, ok := objectKey(item.KeyExpr)
		if !ok {
			r.addError(item.KeyExpr.Range(), "color name must be an identifier or a string")
			continue
		}

		path := blockName + ".colors." + name
		if _, known := r.Symbols["colors."+name]; !known {
			r.addWarning(item.KeyExpr.Range(), fmt.Sprintf("%s has no base color and is ignored", path))
		}

		val, diags := item.ValueExpr.Value(ctx)
		if diags.HasErrors() {
			r.addError(item.ValueExpr.Range(), fmt.Sprintf("%s: %s", path, diags.Error()))
			continue
		}
		hex, err := stringValue(val)
		if err != nil {
			r.addError(item.ValueExpr.Range(), fmt.Sprintf("%s: %s", path, err))
			continue
		}
		if hex == "" {
			// An empty value keeps the base color.
			continue
		}
		c, err := color.ParseHex(hex)
		if err != nil {
			r.addError(item.ValueExpr.Range(), fmt.Sprintf("%s: %s", path, err))
			continue
		}

		loc := ColorLocation{
			Range: hclRangeToLSP(item.ValueExpr.Range()),
			Name:  path,
			Color: c,
			IsRef: isReferenceExpr(item.ValueExpr),
		}
		if base, err := color.ParseHex(r.Palette[name]); err == nil {
			loc.Base = &base
		}
		r.Colors = append(r.Colors, loc)
	}
}

// analyzeIcon walks one iconDefinitions block. seen collects icon paths
// across blocks to report duplicates.
func (r *AnalysisResult) analyzeIcon(block *hclsyntax.Block, ctx *hcl.EvalContext, seen map[string]bool) {
	if _, ok := block.Body.Attributes["iconPath"]; !ok {
		r.addError(block.TypeRange, "iconDefinitions block requires iconPath")
	}

	for _, attr := range sortedAttributes(block.Body) {
		switch {
		case attr.Name == "iconPath":
			p, ok := r.evalString(attr, ctx, block.Type)
			if !ok {
				continue
			}
			switch {
			case p == "":
				r.addError(attr.Expr.Range(), "iconPath is empty")
			case !strings.Contains(p, ".svg"):
				r.addError(attr.Expr.Range(), fmt.Sprintf("%s has no .svg extension; its variants would overwrite each other", p))
			case seen[p]:
				r.addWarning(attr.Expr.Range(), fmt.Sprintf("%s is declared more than once", p))
			}
			seen[p] = true
			if p != "" {
				r.Icons = append(r.Icons, IconLocation{Range: hclRangeToLSP(attr.Expr.Range()), Path: p})
			}
		case slices.Contains(iconListAttributes, attr.Name):
			val, diags := attr.Expr.Value(ctx)
			if diags.HasErrors() {
				r.addError(attr.Expr.Range(), fmt.Sprintf("%s.%s: %s", block.Type, attr.Name, diags.Error()))
				continue
			}
			if !isStringList(val) {
				r.addError(attr.Expr.Range(), fmt.Sprintf("%s.%s must be a list of strings", block.Type, attr.Name))
			}
		default:
			r.addWarning(attr.NameRange, fmt.Sprintf("unknown attribute %q in %s block", attr.Name, block.Type))
		}
	}
}

func (r *AnalysisResult) evalString(attr *hclsyntax.Attribute, ctx *hcl.EvalContext, blockName string) (string, bool) {
	val, diags := attr.Expr.Value(ctx)
	if diags.HasErrors() {
		r.addError(attr.Expr.Range(), fmt.Sprintf("%s.%s: %s", blockName, attr.Name, diags.Error()))
		return "", false
	}
	s, err := stringValue(val)
	if err != nil {
		r.addError(attr.Expr.Range(), fmt.Sprintf("%s.%s: %s", blockName, attr.Name, err))
		return "", false
	}
	return s, true
}

func stringValue(val cty.Value) (string, error) {
	if val.IsNull() || !val.IsKnown() || val.Type() != cty.String {
		return "", fmt.Errorf("expected a string, got %s", val.Type().FriendlyName())
	}
	return val.AsString(), nil
}

func isStringList(val cty.Value) bool {
	ty := val.Type()
	if !ty.IsTupleType() && !ty.IsListType() {
		return false
	}
	if val.IsNull() || !val.IsKnown() {
		return false
	}
	for it := val.ElementIterator(); it.Next(); {
		_, v := it.Element()
		if v.Type() != cty.String {
			return false
		}
	}
	return true
}

// isReferenceExpr reports whether expr is derived from the base palette,
// either by a colors.<name> traversal or a brighten/darken call.
func isReferenceExpr(expr hclsyntax.Expression) bool {
	switch expr.(type) {
	case *hclsyntax.ScopeTraversalExpr, *hclsyntax.RelativeTraversalExpr, *hclsyntax.FunctionCallExpr:
		return true
	default:
		return false
	}
}
