package color

import (
	"maps"
	"regexp"
	"slices"
	"strings"
)

// Palette maps a symbolic color name (e.g. "background") to a literal hex
// value. The leading '#' is optional.
type Palette map[string]string

// Normalize returns v with a leading '#'.
func Normalize(v string) string {
	if strings.HasPrefix(v, "#") {
		return v
	}
	return "#" + v
}

// Recolorer rewrites every occurrence of a base palette literal with the
// literal a theme assigns to the same symbolic name. Matching is
// case-insensitive. Colors the theme leaves out are not touched.
//
// All substitutions happen in a single pass over the text, so a replaced
// value is never picked up by another rule and the declaration order of the
// palettes is irrelevant. Base literals are expected not to contain one
// another; when they do, the longer literal wins.
type Recolorer struct {
	re   *regexp.Regexp
	repl map[string]string // lower-cased base literal -> replacement
}

// NewRecolorer compiles the substitution rules for one theme.
//
// Palettes are maps and carry no declaration order, so when two names share
// a base literal the name that sorts first supplies the replacement and the
// other is ignored. lint reports such collisions.
func NewRecolorer(base, theme Palette) *Recolorer {
	r := &Recolorer{repl: make(map[string]string)}

	var literals []string
	for _, name := range slices.Sorted(maps.Keys(base)) {
		to, ok := theme[name]
		if !ok || to == "" {
			continue
		}
		from := Normalize(base[name])
		key := strings.ToLower(from)
		if _, dup := r.repl[key]; dup {
			continue
		}
		r.repl[key] = Normalize(to)
		literals = append(literals, from)
	}

	if len(literals) == 0 {
		return r
	}

	// Leftmost-first alternation: longest literal has to come first.
	slices.SortStableFunc(literals, func(a, b string) int {
		return len(b) - len(a)
	})
	for i, lit := range literals {
		literals[i] = regexp.QuoteMeta(lit)
	}
	r.re = regexp.MustCompile("(?i)(?:" + strings.Join(literals, "|") + ")")

	return r
}

// Recolor returns src with the theme's substitutions applied.
func (r *Recolorer) Recolor(src string) string {
	if r.re == nil {
		return src
	}
	return r.re.ReplaceAllStringFunc(src, func(m string) string {
		if to, ok := r.repl[strings.ToLower(m)]; ok {
			return to
		}
		return m
	})
}

// Len returns the number of active substitution rules.
func (r *Recolorer) Len() int {
	return len(r.repl)
}

// Recolor is a convenience wrapper around NewRecolorer for a single text.
func Recolor(src string, base, theme Palette) string {
	return NewRecolorer(base, theme).Recolor(src)
}
