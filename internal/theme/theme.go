package theme

import (
	"fmt"
	"strings"

	"github.com/jsvensson/studioicons/internal/color"
	"github.com/jsvensson/studioicons/internal/jsonmap"
)

// Kind identifies one of the generated icon variants.
type Kind int

const (
	Light Kind = iota
	Dark
	Contrast
)

// Kinds returns every variant in the order icons are generated.
func Kinds() []Kind {
	return []Kind{Light, Dark, Contrast}
}

// ParseKind resolves a variant from its settings name.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "light":
		return Light, nil
	case "dark":
		return Dark, nil
	case "contrast":
		return Contrast, nil
	}
	return 0, fmt.Errorf("unknown theme %q (valid: light, dark, contrast)", s)
}

// String returns the settings name of the variant.
func (k Kind) String() string {
	switch k {
	case Light:
		return "light"
	case Dark:
		return "dark"
	case Contrast:
		return "contrast"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Suffix returns the text that replaces ".svg" in a generated file name.
// Light icons keep their source name, so its suffix is empty.
func (k Kind) Suffix() string {
	switch k {
	case Dark:
		return "_inverse.svg"
	case Contrast:
		return "_contrast.svg"
	}
	return ""
}

// FileName derives the generated file name for iconPath. Only the first
// ".svg" is replaced.
func (k Kind) FileName(iconPath string) string {
	if k.Suffix() == "" {
		return iconPath
	}
	return strings.Replace(iconPath, ".svg", k.Suffix(), 1)
}

// Entry is one icon of the catalog and the keys it is used for.
// A nil slice means the category is not declared.
type Entry struct {
	IconPath            string
	FileExtensions      []string
	FileNames           []string
	FolderNames         []string
	FolderNamesExpanded []string
}

// Style holds the per-variant color overrides and default glyphs.
type Style struct {
	Colors             color.Palette
	Folder             string
	FolderExpanded     string
	RootFolder         string
	RootFolderExpanded string
	File               string
}

// Mapping is the lookup table an icon theme engine uses for one variant.
// The zero value is not usable; build one with Assemble or NewMapping.
type Mapping struct {
	FileExtensions      *jsonmap.Map[string] `json:"fileExtensions"`
	FileNames           *jsonmap.Map[string] `json:"fileNames"`
	FolderNames         *jsonmap.Map[string] `json:"folderNames"`
	FolderNamesExpanded *jsonmap.Map[string] `json:"folderNamesExpanded"`
	LanguageIDs         *jsonmap.Map[string] `json:"languageIds"`

	Folder             string `json:"folder"`
	FolderExpanded     string `json:"folderExpanded"`
	RootFolder         string `json:"rootFolder"`
	RootFolderExpanded string `json:"rootFolderExpanded"`
	File               string `json:"file"`
}

// NewMapping returns a Mapping with empty key tables and the style's glyphs.
func NewMapping(style Style) Mapping {
	return Mapping{
		FileExtensions:      jsonmap.New[string](),
		FileNames:           jsonmap.New[string](),
		FolderNames:         jsonmap.New[string](),
		FolderNamesExpanded: jsonmap.New[string](),
		LanguageIDs:         jsonmap.New[string](),
		Folder:              style.Folder,
		FolderExpanded:      style.FolderExpanded,
		RootFolder:          style.RootFolder,
		RootFolderExpanded:  style.RootFolderExpanded,
		File:                style.File,
	}
}

// Assemble builds the mapping for kind from the whole catalog. Keys keep
// catalog order; a key declared by several entries points at the last one.
func Assemble(catalog []Entry, kind Kind, style Style) Mapping {
	m := NewMapping(style)

	for _, icon := range catalog {
		name := kind.FileName(icon.IconPath)

		setAll(m.FileExtensions, icon.FileExtensions, name)
		setAll(m.FileNames, icon.FileNames, name)
		setAll(m.FolderNames, icon.FolderNames, name)
		setAll(m.FolderNamesExpanded, icon.FolderNamesExpanded, name)
	}

	return m
}

func setAll(dest *jsonmap.Map[string], keys []string, name string) {
	for _, k := range keys {
		dest.Set(k, name)
	}
}
