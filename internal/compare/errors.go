package compare

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInputMissing reports a comparison started without both files.
var ErrInputMissing = errors.New("input missing")

// InputMissingError names which inputs were not supplied.
type InputMissingError struct {
	Missing []string
}

func (e *InputMissingError) Error() string {
	return "Please upload both files."
}

func (e *InputMissingError) Is(target error) bool {
	return target == ErrInputMissing
}

// ColumnNotFoundError reports a required key column absent from a header row.
type ColumnNotFoundError struct {
	Column string
	Table  string
	// Suggestions holds header cells equal to Column once case and whitespace are ignored.
	Suggestions []string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("Could not find %q column in %s.", e.Column, e.Table)
}

// Hint returns a remediation line for near-miss headers, or "".
func (e *ColumnNotFoundError) Hint() string {
	if len(e.Suggestions) == 0 {
		return ""
	}
	quoted := make([]string, len(e.Suggestions))
	for i, s := range e.Suggestions {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "Headers are case-sensitive. Did you mean " + strings.Join(quoted, " or ") + "?"
}
