package pdf

import (
	"errors"

	"github.com/zakahfir/microflow-ai/internal/domain/quote"
)

// ErrRenderingFailed wraps any unexpected failure while producing the PDF.
var ErrRenderingFailed = errors.New("rendering failed")

type Generator interface {
	Generate(q quote.Quote) ([]byte, error)
}
