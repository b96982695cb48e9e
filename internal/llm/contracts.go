package llm

import (
	"context"
	"errors"
)

// Backend is the one capability every model transport must provide: send an
// instruction prompt, return the raw completion text. Remote HTTP inference,
// a chat-style client and a local daemon are interchangeable behind it; the
// transport is selected by configuration at startup, never inside the
// structuring logic.
type Backend interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Failure kinds of the structuring call. They are distinct and user-visible
// so the caller can decide whether retrying with the same input makes sense.
var (
	// ErrBackendUnavailable: the model backend is unreachable, misconfigured
	// or returned a non-success status.
	ErrBackendUnavailable = errors.New("llm backend unavailable")

	// ErrBackendTimeout: the bounded call deadline elapsed.
	ErrBackendTimeout = errors.New("llm backend timeout")

	// ErrNoJSONFound: the model output contained no JSON object at all.
	ErrNoJSONFound = errors.New("no json object in model output")

	// ErrMalformedJSON: a JSON candidate was found but did not parse.
	ErrMalformedJSON = errors.New("malformed json in model output")
)
