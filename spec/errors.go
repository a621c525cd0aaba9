package spec

import "errors"

var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidCatalog     = errors.New("invalid scenario catalog")
	ErrMalformedTemplate  = errors.New("malformed template")
	ErrScenarioNotFound   = errors.New("scenario not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSpeechUnavailable  = errors.New("speech synthesis unavailable")
	ErrRewriteUnavailable = errors.New("rewriter unavailable")
	ErrQuestionNotFound   = errors.New("question not found")
)
