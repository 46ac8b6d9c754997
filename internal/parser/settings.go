package parser

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/jsvensson/studioicons/internal/color"
	"github.com/jsvensson/studioicons/internal/theme"
)

// ParseResult holds the decoded settings file.
type ParseResult struct {
	Colors   color.Palette
	Light    theme.Style
	Dark     theme.Style
	Contrast theme.Style
	Icons    []theme.Entry
}

// RawSettings captures the base palette first (no EvalContext needed).
type RawSettings struct {
	Colors map[string]string `hcl:"colors,optional" toml:"colors" json:"colors"`
	Remain hcl.Body          `hcl:",remain" toml:"-" json:"-"`
}

// StyleBlock is the per-variant section of the settings.
type StyleBlock struct {
	Colors             map[string]string `hcl:"colors,optional" toml:"colors" json:"colors"`
	Folder             string            `hcl:"folder,optional" toml:"folder" json:"folder"`
	FolderExpanded     string            `hcl:"folderExpanded,optional" toml:"folderExpanded" json:"folderExpanded"`
	RootFolder         string            `hcl:"rootFolder,optional" toml:"rootFolder" json:"rootFolder"`
	RootFolderExpanded string            `hcl:"rootFolderExpanded,optional" toml:"rootFolderExpanded" json:"rootFolderExpanded"`
	File               string            `hcl:"file,optional" toml:"file" json:"file"`
	Remain             hcl.Body          `hcl:",remain" toml:"-" json:"-"`
}

// IconBlock is one entry of the iconDefinitions list.
type IconBlock struct {
	IconPath            string   `hcl:"iconPath" toml:"iconPath" json:"iconPath"`
	FileExtensions      []string `hcl:"fileExtensions,optional" toml:"fileExtensions" json:"fileExtensions"`
	FileNames           []string `hcl:"fileNames,optional" toml:"fileNames" json:"fileNames"`
	FolderNames         []string `hcl:"folderNames,optional" toml:"folderNames" json:"folderNames"`
	FolderNamesExpanded []string `hcl:"folderNamesExpanded,optional" toml:"folderNamesExpanded" json:"folderNamesExpanded"`
	Remain              hcl.Body `hcl:",remain" toml:"-" json:"-"`
}

// ResolvedSettings decodes the blocks that may reference the base palette.
type ResolvedSettings struct {
	Light    *StyleBlock `hcl:"light,block" toml:"light" json:"light"`
	Dark     *StyleBlock `hcl:"dark,block" toml:"dark" json:"dark"`
	Contrast *StyleBlock `hcl:"contrast,block" toml:"contrast" json:"contrast"`
	Icons    []IconBlock `hcl:"iconDefinitions,block" toml:"iconDefinitions" json:"iconDefinitions"`
	Remain   hcl.Body    `hcl:",remain" toml:"-" json:"-"`
}

// Parse reads a settings file. The format follows the file extension:
// .hcl is decoded with HCL, where theme colors may call brighten and darken;
// .json and .toml are decoded literally.
func Parse(path string) (*ParseResult, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading settings file: %w", err)
	}
	return ParseBytes(path, src)
}

// ParseBytes decodes settings content; filename selects the format.
func ParseBytes(filename string, src []byte) (*ParseResult, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".hcl":
		return parseHCL(filename, src)
	case ".json":
		return parseJSON(src)
	case ".toml":
		return parseTOML(src)
	default:
		return nil, fmt.Errorf("unsupported settings format %q (valid: .json, .hcl, .toml)", ext)
	}
}

func parseHCL(filename string, src []byte) (*ParseResult, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing settings: %s", diags.Error())
	}

	// First pass: base palette, literal values only.
	var raw RawSettings
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("decoding colors: %s", diags.Error())
	}

	// Second pass: theme blocks and icons, with colors.<name> in scope.
	var resolved ResolvedSettings
	if diags := gohcl.DecodeBody(raw.Remain, EvalContext(raw.Colors), &resolved); diags.HasErrors() {
		return nil, fmt.Errorf("decoding: %s", diags.Error())
	}

	return newParseResult(raw.Colors, &resolved), nil
}

// literalSettings is the whole document for the formats without expressions.
// Strings are taken as written.
type literalSettings struct {
	RawSettings
	ResolvedSettings
}

func parseJSON(src []byte) (*ParseResult, error) {
	var s literalSettings
	if err := json.Unmarshal(src, &s); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}
	return s.result()
}

func parseTOML(src []byte) (*ParseResult, error) {
	var s literalSettings
	if _, err := toml.Decode(string(src), &s); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}
	return s.result()
}

// result checks what HCL's schema enforces on its own: every icon needs an
// iconPath.
func (s *literalSettings) result() (*ParseResult, error) {
	for i, ib := range s.Icons {
		if ib.IconPath == "" {
			return nil, fmt.Errorf("decoding: iconDefinitions[%d]: missing required iconPath", i)
		}
	}
	return newParseResult(s.Colors, &s.ResolvedSettings), nil
}

func newParseResult(colors map[string]string, r *ResolvedSettings) *ParseResult {
	res := &ParseResult{
		Colors:   color.Palette(colors),
		Light:    r.Light.style(),
		Dark:     r.Dark.style(),
		Contrast: r.Contrast.style(),
		Icons:    make([]theme.Entry, 0, len(r.Icons)),
	}
	if res.Colors == nil {
		res.Colors = color.Palette{}
	}
	for _, ib := range r.Icons {
		res.Icons = append(res.Icons, theme.Entry{
			IconPath:            ib.IconPath,
			FileExtensions:      ib.FileExtensions,
			FileNames:           ib.FileNames,
			FolderNames:         ib.FolderNames,
			FolderNamesExpanded: ib.FolderNamesExpanded,
		})
	}
	return res
}

func (b *StyleBlock) style() theme.Style {
	if b == nil {
		return theme.Style{Colors: color.Palette{}}
	}
	s := theme.Style{
		Colors:             color.Palette(b.Colors),
		Folder:             b.Folder,
		FolderExpanded:     b.FolderExpanded,
		RootFolder:         b.RootFolder,
		RootFolderExpanded: b.RootFolderExpanded,
		File:               b.File,
	}
	if s.Colors == nil {
		s.Colors = color.Palette{}
	}
	return s
}
