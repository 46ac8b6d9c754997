// Package manifest builds the icon theme document consumed by the editor.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jsvensson/studioicons/internal/jsonmap"
	"github.com/jsvensson/studioicons/internal/theme"
)

// ImagesDir is the output subdirectory holding the generated SVG files.
const ImagesDir = "images"

// IconDefinition points a generated icon name at its file.
type IconDefinition struct {
	IconPath string `json:"iconPath"`
}

// Definitions maps generated file names to their definitions.
type Definitions = jsonmap.Map[IconDefinition]

// DefinitionFor returns the definition of a generated file name, relative to
// the manifest.
func DefinitionFor(name string) IconDefinition {
	return IconDefinition{IconPath: "./" + ImagesDir + "/" + name}
}

// Manifest is the icon theme document. The editor expects the dark variant's
// tables at the top level, next to the light and high contrast sections.
type Manifest struct {
	IconDefinitions *Definitions  `json:"iconDefinitions"`
	Light           theme.Mapping `json:"light"`
	HighContrast    theme.Mapping `json:"highContrast"`
	theme.Mapping
}

// New assembles a manifest from the icon definitions and the three mappings.
func New(defs *Definitions, light, dark, contrast theme.Mapping) *Manifest {
	if defs == nil {
		defs = jsonmap.New[IconDefinition]()
	}
	return &Manifest{
		IconDefinitions: defs,
		Light:           light,
		HighContrast:    contrast,
		Mapping:         dark,
	}
}

// Dark returns the mapping stored at the top level.
func (m *Manifest) Dark() theme.Mapping {
	return m.Mapping
}

// Encode renders the manifest as JSON indented with two spaces. HTML
// characters are written as-is.
func (m *Manifest) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
