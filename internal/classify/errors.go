package classify

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidInput is matched by every *ValidationError.
var ErrInvalidInput = errors.New("invalid input")

// Rejection describes one line that did not fit the selected mode.
type Rejection struct {
	Line   string
	Reason string
}

// ValidationError reports the lines rejected by ClassifyAll.
type ValidationError struct {
	Mode     Mode
	Rejected []Rejection
}

func (e *ValidationError) Error() string {
	if len(e.Rejected) == 1 {
		return fmt.Sprintf("%s: %s", e.Rejected[0].Reason, e.Rejected[0].Line)
	}
	parts := make([]string, len(e.Rejected))
	for i, r := range e.Rejected {
		parts[i] = r.Line
	}
	return fmt.Sprintf("%d lines rejected in %s mode: %s", len(e.Rejected), e.Mode.Label(), strings.Join(parts, ", "))
}

// Is makes errors.Is(err, ErrInvalidInput) true.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
