// Package lint inspects icon settings for problems that a build would carry
// through silently: missing sources, unused images, malformed colors and
// keys that are overridden by later entries.
package lint

import (
	"fmt"
	"io/fs"
	"maps"
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/jsvensson/studioicons/internal/color"
	"github.com/jsvensson/studioicons/internal/theme"
)

// Severity ranks a Finding.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// Finding is a single reported problem.
type Finding struct {
	Severity Severity
	Message  string
}

func (f Finding) String() string {
	return f.Severity.String() + ": " + f.Message
}

// Input is the settings data to check.
type Input struct {
	Palette color.Palette
	Styles  map[theme.Kind]theme.Style
	Icons   []theme.Entry
}

type checker struct {
	findings []Finding
}

func (c *checker) add(sev Severity, format string, args ...any) {
	c.findings = append(c.findings, Finding{Severity: sev, Message: fmt.Sprintf(format, args...)})
}

// Check runs every rule against in. Source images are looked up in fsys,
// which should be rooted at the source image directory.
func Check(fsys fs.FS, in Input) ([]Finding, error) {
	c := &checker{}

	c.checkPalette(in.Palette)
	for _, k := range theme.Kinds() {
		c.checkStyle(k, in.Styles[k], in.Palette, in.Icons)
	}
	c.checkIcons(fsys, in.Icons)
	c.checkKeys(in.Icons)
	if err := c.checkOrphans(fsys, in.Icons); err != nil {
		return c.findings, err
	}

	return c.findings, nil
}

// HasErrors reports whether any finding is an Error.
func HasErrors(findings []Finding) bool {
	return slices.ContainsFunc(findings, func(f Finding) bool {
		return f.Severity == Error
	})
}

func (c *checker) checkPalette(p color.Palette) {
	names := slices.Sorted(maps.Keys(p))

	for _, name := range names {
		if _, err := color.ParseHex(p[name]); err != nil {
			c.add(Error, "colors.%s: %v", name, err)
		}
	}

	// Recoloring assumes no base literal contains another.
	for i, a := range names {
		la := strings.ToLower(color.Normalize(p[a]))
		for _, b := range names[i+1:] {
			lb := strings.ToLower(color.Normalize(p[b]))
			switch {
			case la == lb:
				c.add(Warning, "colors.%s and colors.%s share the value %s", a, b, color.Normalize(p[a]))
			case strings.Contains(lb, la):
				c.add(Warning, "colors.%s (%s) is part of colors.%s (%s)", a, color.Normalize(p[a]), b, color.Normalize(p[b]))
			case strings.Contains(la, lb):
				c.add(Warning, "colors.%s (%s) is part of colors.%s (%s)", b, color.Normalize(p[b]), a, color.Normalize(p[a]))
			}
		}
	}
}

func (c *checker) checkStyle(k theme.Kind, st theme.Style, base color.Palette, icons []theme.Entry) {
	for _, name := range slices.Sorted(maps.Keys(st.Colors)) {
		if _, ok := base[name]; !ok {
			c.add(Warning, "%s.colors.%s has no base color and is ignored", k, name)
			continue
		}
		if _, err := color.ParseHex(st.Colors[name]); err != nil {
			c.add(Error, "%s.colors.%s: %v", k, name, err)
		}
	}

	generated := make(map[string]bool, len(icons))
	for _, icon := range icons {
		generated[k.FileName(icon.IconPath)] = true
	}

	glyphs := []struct {
		field, value string
	}{
		{"folder", st.Folder},
		{"folderExpanded", st.FolderExpanded},
		{"rootFolder", st.RootFolder},
		{"rootFolderExpanded", st.RootFolderExpanded},
		{"file", st.File},
	}
	for _, g := range glyphs {
		switch {
		case g.value == "":
			c.add(Warning, "%s.%s is not set", k, g.field)
		case !generated[g.value]:
			c.add(Warning, "%s.%s refers to %q, which is not a generated %s icon", k, g.field, g.value, k)
		}
	}
}

func (c *checker) checkIcons(fsys fs.FS, icons []theme.Entry) {
	seen := make(map[string]bool, len(icons))

	for i, icon := range icons {
		p := icon.IconPath
		if p == "" {
			c.add(Error, "iconDefinitions[%d] has an empty iconPath", i)
			continue
		}
		if seen[p] {
			c.add(Warning, "%s is declared more than once", p)
		}
		seen[p] = true

		if !strings.Contains(p, ".svg") {
			c.add(Error, "%s has no .svg extension; its variants would overwrite each other", p)
		}
		if !fs.ValidPath(p) {
			c.add(Error, "%s is not a valid relative path", p)
			continue
		}
		if _, err := fs.Stat(fsys, p); err != nil {
			c.add(Error, "%s: source image not found", p)
		}
	}
}

func (c *checker) checkKeys(icons []theme.Entry) {
	categories := []struct {
		name string
		keys func(theme.Entry) []string
	}{
		{"fileExtensions", func(e theme.Entry) []string { return e.FileExtensions }},
		{"fileNames", func(e theme.Entry) []string { return e.FileNames }},
		{"folderNames", func(e theme.Entry) []string { return e.FolderNames }},
		{"folderNamesExpanded", func(e theme.Entry) []string { return e.FolderNamesExpanded }},
	}

	for _, cat := range categories {
		owner := make(map[string]string)
		for _, icon := range icons {
			for _, key := range cat.keys(icon) {
				if prev, ok := owner[key]; ok && prev != icon.IconPath {
					c.add(Info, "%s %q: %s overrides %s", cat.name, key, icon.IconPath, prev)
				}
				owner[key] = icon.IconPath
			}
		}
	}
}

func (c *checker) checkOrphans(fsys fs.FS, icons []theme.Entry) error {
	referenced := make(map[string]bool, len(icons))
	for _, icon := range icons {
		referenced[path.Clean(icon.IconPath)] = true
	}

	err := doublestar.GlobWalk(fsys, "**/*.svg", func(p string, d fs.DirEntry) error {
		if d.IsDir() {
			return nil
		}
		if !referenced[p] {
			c.add(Info, "%s is not referenced by any icon definition", p)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scanning source images: %w", err)
	}
	return nil
}
