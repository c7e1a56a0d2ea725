package compare

import (
	"errors"
	"fmt"

	"github.com/nconklindev/stylematch/internal/export"
	"github.com/nconklindev/stylematch/internal/types"
)

// StatusKind classifies the outcome shown to the user.
type StatusKind int

const (
	StatusIdle StatusKind = iota
	StatusError
	StatusNoMatch
	StatusSuccess
)

func (k StatusKind) String() string {
	switch k {
	case StatusError:
		return "error"
	case StatusNoMatch:
		return "no_match"
	case StatusSuccess:
		return "success"
	default:
		return "idle"
	}
}

const (
	noMatchMessage = "❌ No matches found. No file will be downloaded."
	noDataMessage  = "No data to download. Please run a comparison first."
)

// Status is the user-facing summary of a comparison or export attempt.
type Status struct {
	Kind    StatusKind
	Message string
	Hint    string
	Count   int
}

// StatusFor maps a comparison outcome to a message.
func StatusFor(result *types.MatchResult, err error) Status {
	if err != nil {
		return errorStatus(err)
	}
	if result == nil {
		return Status{Kind: StatusIdle}
	}
	if result.Count == 0 {
		return Status{Kind: StatusNoMatch, Message: noMatchMessage}
	}
	return Status{
		Kind:    StatusSuccess,
		Message: MatchMessage(result.Count),
		Count:   result.Count,
	}
}

// MatchMessage formats the success line, singular for one match.
func MatchMessage(count int) string {
	noun := "matches"
	if count == 1 {
		noun = "match"
	}
	return fmt.Sprintf("✔ %d style # %s found.", count, noun)
}

func errorStatus(err error) Status {
	s := Status{Kind: StatusError, Message: err.Error()}

	var colErr *ColumnNotFoundError
	switch {
	case errors.As(err, &colErr):
		s.Hint = colErr.Hint()
	case errors.Is(err, export.ErrNoData):
		s.Message = noDataMessage
	}
	return s
}
