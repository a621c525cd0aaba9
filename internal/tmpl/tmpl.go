// Package tmpl compiles and renders bot-line templates with {name} placeholders.
//
// Templates are compiled once, when the scenario catalog loads, so the set of placeholders a
// step expects is known before any turn runs. Rendering never fails: a missing slot renders as
// its fallback and a malformed template renders verbatim.
package tmpl

import (
	"fmt"
	"strings"

	"github.com/flexigpt/lingo-go/spec"
)

// SummaryPlaceholder is composed from several slots instead of being looked up.
const SummaryPlaceholder = "summary"

// Summary fallbacks.
const (
	DefaultVibe     = "city"
	DefaultActivity = "a bit of everything"
	DefaultFood     = "local eats"
)

type segment struct {
	text  string
	isVar bool
}

type Template struct {
	raw       string
	segs      []segment
	names     []string
	malformed bool
}

// Compile parses raw. "{{" and "}}" are literal braces.
//
// On a syntax error Compile returns an error wrapping spec.ErrMalformedTemplate together with a
// usable Template that renders raw verbatim.
func Compile(raw string) (*Template, error) {
	t := &Template{raw: raw}
	var lit strings.Builder
	seen := map[string]struct{}{}

	fail := func(format string, args ...any) (*Template, error) {
		return &Template{raw: raw, malformed: true}, fmt.Errorf(
			"%w: %s in %q", spec.ErrMalformedTemplate, fmt.Sprintf(format, args...), raw,
		)
	}

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch c {
		case '{':
			if i+1 < len(raw) && raw[i+1] == '{' {
				lit.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(raw[i+1:], '}')
			if end < 0 {
				return fail("unclosed '{' at offset %d", i)
			}
			name := raw[i+1 : i+1+end]
			if !validName(name) {
				return fail("invalid placeholder name %q", name)
			}
			if lit.Len() > 0 {
				t.segs = append(t.segs, segment{text: lit.String()})
				lit.Reset()
			}
			t.segs = append(t.segs, segment{text: name, isVar: true})
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				t.names = append(t.names, name)
			}
			i += end + 1
		case '}':
			if i+1 < len(raw) && raw[i+1] == '}' {
				lit.WriteByte('}')
				i++
				continue
			}
			return fail("unmatched '}' at offset %d", i)
		default:
			lit.WriteByte(c)
		}
	}
	if lit.Len() > 0 {
		t.segs = append(t.segs, segment{text: lit.String()})
	}
	return t, nil
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// Raw returns the template source.
func (t *Template) Raw() string { return t.raw }

// Malformed reports whether the template failed to compile and renders verbatim.
func (t *Template) Malformed() bool { return t.malformed }

// Placeholders returns the distinct placeholder names in order of first use.
func (t *Template) Placeholders() []string { return append([]string(nil), t.names...) }

// Render substitutes placeholders from slots. A name absent from slots renders as
// fallbacks[name] when present, otherwise as "[name]". Neither map is modified.
func (t *Template) Render(slots, fallbacks map[string]string) string {
	if t == nil {
		return ""
	}
	if t.malformed {
		return t.raw
	}
	var b strings.Builder
	for _, s := range t.segs {
		if !s.isVar {
			b.WriteString(s.text)
			continue
		}
		b.WriteString(resolve(s.text, slots, fallbacks))
	}
	return b.String()
}

func resolve(name string, slots, fallbacks map[string]string) string {
	if name == SummaryPlaceholder {
		return Summary(slots)
	}
	if v, ok := slots[name]; ok {
		return v
	}
	if v, ok := fallbacks[name]; ok {
		return v
	}
	return "[" + name + "]"
}

// Summary composes the trip sentence from the vibe, activity (or location) and food slots.
func Summary(slots map[string]string) string {
	vibe := valueOr(slots, "vibe", DefaultVibe)
	doing := valueOr(slots, "activity", valueOr(slots, "location", DefaultActivity))
	food := valueOr(slots, "food", DefaultFood)
	return fmt.Sprintf("%s %s trip featuring %s with a focus on %s.", article(vibe), vibe, doing, food)
}

func article(word string) string {
	if word != "" && strings.ContainsRune("aeiouAEIOU", rune(word[0])) {
		return "An"
	}
	return "A"
}

func valueOr(slots map[string]string, key, def string) string {
	if v := strings.TrimSpace(slots[key]); v != "" {
		return v
	}
	return def
}
