package tutortool

import (
	"errors"

	"github.com/flexigpt/llmtools-go"

	"github.com/flexigpt/lingo-go/spec"
)

// NewTutorRegistry creates an llmtools-go Registry holding only the tutor tools.
func NewTutorRegistry(
	rt spec.Runtime,
	sessionID spec.SessionID,
	opts ...llmtools.RegistryOption,
) (*llmtools.Registry, error) {
	if rt == nil {
		return nil, errors.New("nil runtime")
	}
	r, err := llmtools.NewRegistry(opts...)
	if err != nil {
		return nil, err
	}
	if err := Register(r, rt, sessionID); err != nil {
		return nil, err
	}
	return r, nil
}
