package studioicons

import (
	"fmt"
	"maps"
	"slices"

	"github.com/jsvensson/studioicons/internal/color"
	"github.com/jsvensson/studioicons/internal/parser"
	"github.com/jsvensson/studioicons/internal/theme"
)

// Settings is the frozen icon set description: the base palette, one style
// per theme variant and the ordered icon catalog. Accessors return copies,
// so a Settings value can be shared freely while a build runs.
type Settings struct {
	colors color.Palette
	styles [3]theme.Style
	icons  []theme.Entry
}

// Load parses a settings file (.json, .hcl or .toml) and freezes it.
func Load(path string) (*Settings, error) {
	raw, err := parser.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSettings, err)
	}

	return NewSettings(raw.Colors, map[theme.Kind]theme.Style{
		theme.Light:    raw.Light,
		theme.Dark:     raw.Dark,
		theme.Contrast: raw.Contrast,
	}, raw.Icons), nil
}

// NewSettings copies its arguments into a new Settings. Variants missing
// from styles get an empty style.
func NewSettings(colors color.Palette, styles map[theme.Kind]theme.Style, icons []theme.Entry) *Settings {
	s := &Settings{
		colors: clonePalette(colors),
		icons:  make([]theme.Entry, len(icons)),
	}
	for _, k := range theme.Kinds() {
		s.styles[k] = cloneStyle(styles[k])
	}
	for i, icon := range icons {
		s.icons[i] = cloneEntry(icon)
	}
	return s
}

// Palette returns the base palette used to find colors in source images.
func (s *Settings) Palette() color.Palette {
	return clonePalette(s.colors)
}

// Style returns the style of the given variant.
func (s *Settings) Style(k theme.Kind) theme.Style {
	if int(k) < 0 || int(k) >= len(s.styles) {
		return theme.Style{Colors: color.Palette{}}
	}
	return cloneStyle(s.styles[k])
}

// Icons returns the catalog in declaration order.
func (s *Settings) Icons() []theme.Entry {
	out := make([]theme.Entry, len(s.icons))
	for i, icon := range s.icons {
		out[i] = cloneEntry(icon)
	}
	return out
}

// Len returns the number of catalog entries.
func (s *Settings) Len() int {
	return len(s.icons)
}

func clonePalette(p color.Palette) color.Palette {
	if p == nil {
		return color.Palette{}
	}
	return maps.Clone(p)
}

func cloneStyle(st theme.Style) theme.Style {
	st.Colors = clonePalette(st.Colors)
	return st
}

func cloneEntry(e theme.Entry) theme.Entry {
	e.FileExtensions = slices.Clone(e.FileExtensions)
	e.FileNames = slices.Clone(e.FileNames)
	e.FolderNames = slices.Clone(e.FolderNames)
	e.FolderNamesExpanded = slices.Clone(e.FolderNamesExpanded)
	return e
}
