// Package lingo provides a runtime for scripted language-practice conversations. A learner picks
// a scenario (ordering coffee, a job interview, ...) and the runtime walks them through its steps,
// extracting details from their replies and answering with templated tutor lines.
//
// Conversation state lives inside the Runtime, keyed by session id. Turns on one session are
// serialized; different sessions run in parallel.
package lingo

import "context"

// Speaker synthesizes speech audio (MP3) for text.
type Speaker interface {
	Speak(ctx context.Context, text string) ([]byte, error)
}

// Rewriter rewrites learner text for the "grammar" and "vocabulary" actions.
type Rewriter interface {
	Rewrite(ctx context.Context, action, text string) (string, error)
}

// DictionaryEntry is one word of the explanation dictionary.
type DictionaryEntry struct {
	Definition string
	Example    string
}

const (
	ActionExplain    = "explain"
	ActionGrammar    = "grammar"
	ActionVocabulary = "vocabulary"
)
