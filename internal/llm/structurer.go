package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/zakahfir/microflow-ai/internal/domain/quote"
)

// DefaultTimeout bounds one structuring call end to end.
const DefaultTimeout = 60 * time.Second

// Structurer is the structuring client: it sends the extracted text to the
// configured backend, digs the JSON payload out of the raw completion and
// normalizes it into a canonical Quote.
type Structurer struct {
	backend        Backend
	timeout        time.Duration
	maxPromptChars int
	schema         *jsonschema.Schema
}

func NewStructurer(backend Backend, timeout time.Duration, maxPromptChars int) *Structurer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	sch, err := compileQuoteSchema()
	if err != nil {
		// advisory validation only; structuring works without it
		log.Printf("structure: schema compile failed: %v", err)
	}
	return &Structurer{
		backend:        backend,
		timeout:        timeout,
		maxPromptChars: maxPromptChars,
		schema:         sch,
	}
}

// Structure runs one structuring call. Failures come back as one of the
// sentinel kinds of this package; no failure ever panics past this boundary,
// and nothing is retried here. Retry is a caller policy.
func (s *Structurer) Structure(ctx context.Context, rawText string) (quote.Quote, error) {
	reqID := uuid.New().String()
	start := time.Now()
	log.Printf("structure req=%s start text_len=%d timeout=%s", reqID, len(rawText), s.timeout)

	prompt := BuildPrompt(rawText, s.maxPromptChars)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.backend.Complete(callCtx, prompt)
	if err != nil {
		err = classifyBackendError(callCtx, err)
		log.Printf("structure req=%s backend failed: %v took=%s", reqID, err, time.Since(start))
		return quote.Quote{}, err
	}

	payloadText, err := ExtractJSONObject(raw)
	if err != nil {
		log.Printf("structure req=%s no json in output len=%d took=%s", reqID, len(raw), time.Since(start))
		return quote.Quote{}, err
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(payloadText), &payload); err != nil {
		log.Printf("structure req=%s json parse failed: %v took=%s", reqID, err, time.Since(start))
		return quote.Quote{}, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	if s.schema != nil {
		if err := s.schema.Validate(any(payload)); err != nil {
			// lenient normalization still applies; log the drift only
			log.Printf("structure req=%s schema drift: %v", reqID, err)
		}
	}

	q := quote.Normalize(payload)
	log.Printf("structure req=%s ok lines=%d client=%q took=%s",
		reqID, len(q.Lines), q.ClientName, time.Since(start))
	return q, nil
}

// classifyBackendError maps transport failures onto the error taxonomy.
// Backends may already return a sentinel; those pass through untouched.
func classifyBackendError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, ErrBackendTimeout), errors.Is(err, ErrBackendUnavailable),
		errors.Is(err, ErrNoJSONFound), errors.Is(err, ErrMalformedJSON):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrBackendTimeout, err)
	default:
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
}
