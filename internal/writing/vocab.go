package writing

import (
	"cmp"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

var boosts = map[string]string{
	"very good":      "outstanding",
	"very happy":     "ecstatic",
	"very sad":       "despondent",
	"very big":       "colossal",
	"very small":     "infinitesimal",
	"very tired":     "exhausted",
	"very smart":     "brilliant",
	"very angry":     "furious",
	"very beautiful": "exquisite",
	"very bad":       "atrocious",
	"good":           "excellent",
	"great":          "fantastic",
	"happy":          "elated",
	"sad":            "dejected",
	"big":            "enormous",
	"small":          "minuscule",
	"fast":           "rapid",
	"slow":           "sluggish",
	"important":      "crucial",
	"interesting":    "fascinating",
	"tired":          "fatigued",
	"smart":          "intelligent",
	"nice":           "charming",
	"bad":            "abysmal",
	"walk":           "stroll",
	"run":            "sprint",
	"look":           "glance",
	"see":            "observe",
	"think":          "ponder",
	"say":            "exclaim",
	"make":           "create",
	"do":             "execute",
	"start":          "commence",
	"end":            "conclude",
	"help":           "assist",
	"get":            "obtain",
	"use":            "utilize",
	"show":           "demonstrate",
	"ask":            "inquire",
	"tell":           "inform",
}

var boostPattern = compileBoosts(boosts)

// compileBoosts builds one alternation with longer phrases first, so "very good" wins over "good"
// and replacements are never rewritten again.
func compileBoosts(m map[string]string) *regexp.Regexp {
	phrases := make([]string, 0, len(m))
	for p := range m {
		phrases = append(phrases, p)
	}
	slices.SortFunc(phrases, func(a, b string) int {
		if c := cmp.Compare(len(b), len(a)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})

	alts := make([]string, len(phrases))
	for i, p := range phrases {
		alts[i] = strings.ReplaceAll(regexp.QuoteMeta(p), " ", `\s+`)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(alts, "|") + `)\b`)
}

// BoostVocabulary replaces plain words and phrases with stronger alternatives. A replaced word
// that started with a capital letter keeps it.
func BoostVocabulary(text string) string {
	return boostPattern.ReplaceAllStringFunc(text, func(m string) string {
		repl, ok := boosts[strings.ToLower(strings.Join(strings.Fields(m), " "))]
		if !ok {
			return m
		}
		if r, _ := utf8.DecodeRuneInString(m); unicode.IsUpper(r) {
			rr, size := utf8.DecodeRuneInString(repl)
			repl = string(unicode.ToUpper(rr)) + repl[size:]
		}
		return repl
	})
}
