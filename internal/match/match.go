// Package match implements case-insensitive whole-word keyword search over free text.
package match

import (
	"regexp"
	"strings"
)

// A keyword is bounded by the start/end of the text or by a rune that is not a letter, digit or
// underscore. Inner words of a multi-word keyword may be separated by any run of whitespace.
const (
	leftBoundary  = `(?:^|[^\p{L}\p{N}_])`
	rightBoundary = `(?:$|[^\p{L}\p{N}_])`
)

// Set is an ordered, compiled keyword set. The zero value and nil match nothing.
// A Set is immutable and safe for concurrent use.
type Set struct {
	keywords []string
	patterns []*regexp.Regexp
}

// Compile normalizes, dedupes and compiles keywords, keeping declaration order.
// Blank keywords are dropped.
func Compile(keywords []string) *Set {
	s := &Set{}
	seen := map[string]struct{}{}
	for _, k := range keywords {
		n := Normalize(k)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		s.keywords = append(s.keywords, n)
		s.patterns = append(s.patterns, pattern(n))
	}
	return s
}

// Normalize lowercases a keyword and collapses inner whitespace.
func Normalize(keyword string) string {
	return strings.Join(strings.Fields(strings.ToLower(keyword)), " ")
}

func pattern(normalized string) *regexp.Regexp {
	words := strings.Fields(normalized)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)` + leftBoundary + strings.Join(words, `\s+`) + rightBoundary)
}

// Len returns the number of distinct keywords.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keywords)
}

// Keywords returns the normalized keywords in declaration order.
func (s *Set) Keywords() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.keywords...)
}

// Any reports whether any keyword occurs in text as a whole word.
func (s *Set) Any(text string) bool {
	_, ok := s.First(text)
	return ok
}

// First returns the first keyword, in declaration order, that occurs in text.
func (s *Set) First(text string) (string, bool) {
	if s == nil || text == "" {
		return "", false
	}
	for i, re := range s.patterns {
		if re.MatchString(text) {
			return s.keywords[i], true
		}
	}
	return "", false
}

// Matches reports whether keyword occurs in utterance as a whole word.
func Matches(utterance, keyword string) bool {
	n := Normalize(keyword)
	if n == "" || utterance == "" {
		return false
	}
	return pattern(n).MatchString(utterance)
}

// MatchesAny reports whether any of keywords occurs in utterance as a whole word.
func MatchesAny(utterance string, keywords []string) bool {
	for _, k := range keywords {
		if Matches(utterance, k) {
			return true
		}
	}
	return false
}
