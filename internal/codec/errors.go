package codec

import (
	"errors"
	"fmt"
)

// ErrFormat matches every FormatError through errors.Is.
var ErrFormat = errors.New("invalid CSV format")

// FormatError reports a CSV document that cannot be decoded at all.
// Line is 1-based; 0 means the error concerns the whole document.
type FormatError struct {
	Line   int
	Reason string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid CSV format (line %d): %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("invalid CSV format: %s", e.Reason)
}

func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

func (e *FormatError) Hint() string {
	return "the file must be a tracklit CSV export with the header row intact"
}
