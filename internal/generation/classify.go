package generation

import (
	"context"
	"errors"

	"github.com/abhisek/grammarquiz/internal/llm"
	"github.com/abhisek/grammarquiz/internal/quizgen"
	"github.com/abhisek/grammarquiz/internal/store"
)

// Kind classifies why a generation attempt failed.
type Kind string

const (
	KindNone        Kind = ""
	KindTransport   Kind = "transport"
	KindEnvelope    Kind = "envelope"
	KindStructure   Kind = "structure"
	KindField       Kind = "field"
	KindPersistence Kind = "persistence"
	KindCanceled    Kind = "canceled"
	KindUnknown     Kind = "unknown"
)

// Classify maps an error from any pipeline stage to its Kind. A deadline
// counts as a transport failure.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}

	var (
		tErr *llm.TransportError
		eErr *llm.EnvelopeError
		sErr *quizgen.StructureError
		fErr *quizgen.FieldError
		pErr *store.PersistenceError
	)
	switch {
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.As(err, &tErr), errors.Is(err, context.DeadlineExceeded):
		return KindTransport
	case errors.As(err, &eErr):
		return KindEnvelope
	case errors.As(err, &sErr):
		return KindStructure
	case errors.As(err, &fErr):
		return KindField
	case errors.As(err, &pErr):
		return KindPersistence
	default:
		return KindUnknown
	}
}
