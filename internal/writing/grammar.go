package writing

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

type correction struct {
	re   *regexp.Regexp
	repl string
}

func fix(pattern, repl string) correction {
	return correction{re: regexp.MustCompile(`(?i)` + pattern), repl: repl}
}

// corrections run in order over the whole text.
var corrections = []correction{
	fix(`\bi is\b`, "I am"),
	fix(`\bi am goes\b`, "I go"),
	fix(`\bi has\b`, "I have"),
	fix(`\bi were\b`, "I was"),
	fix(`\bhe go\b`, "he goes"),
	fix(`\bhe do\b`, "he does"),
	fix(`\bhe have\b`, "he has"),
	fix(`\bshe go\b`, "she goes"),
	fix(`\bshe do\b`, "she does"),
	fix(`\bshe have\b`, "she has"),
	fix(`\bthey is\b`, "they are"),
	fix(`\bthey was\b`, "they were"),
	fix(`\bwe is\b`, "we are"),
	fix(`\bwe was\b`, "we were"),
	fix(`\bdefinately\b`, "definitely"),
	fix(`\bseperate\b`, "separate"),
	fix(`\brecieve\b`, "receive"),
	fix(`\baccomodate\b`, "accommodate"),
	fix(`\bwich\b`, "which"),
	fix(`\buntill\b`, "until"),
	fix(`\bwierd\b`, "weird"),
	fix(`\bteh\b`, "the"),
	fix(`\boccured\b`, "occurred"),
	fix(`\bcalender\b`, "calendar"),
	fix(`\btommorow\b`, "tomorrow"),
	fix(`\barguement\b`, "argument"),
	fix(`\byour welcome\b`, "you're welcome"),
	fix(`\byoure\b`, "you're"),
	fix(`\bthere listening\b`, "they're listening"),
	fix(`\btheyre\b`, "they're"),
	fix(`\bto much\b`, "too much"),
	fix(`\bit was to cold\b`, "it was too cold"),
	fix(`\bless people\b`, "fewer people"),
	fix(`\bthan me\b`, "than I"),
	fix(`\bcould of\b`, "could have"),
	fix(`\bshould of\b`, "should have"),
	fix(`\bwould of\b`, "would have"),
	fix(`\bfor all intensive purposes\b`, "for all intents and purposes"),
	fix(`\bi could care less\b`, "I couldn't care less"),
}

// FixGrammar applies the correction table to text, then capitalizes the first letter and makes
// sure the text ends with sentence punctuation. Blank input yields "".
func FixGrammar(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	for _, c := range corrections {
		text = c.re.ReplaceAllLiteralString(text, c.repl)
	}

	r, size := utf8.DecodeRuneInString(text)
	text = string(unicode.ToUpper(r)) + text[size:]

	switch text[len(text)-1] {
	case '.', '!', '?':
	default:
		text += "."
	}
	return text
}
