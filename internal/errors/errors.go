// Package errors formats command failures for the terminal.
package errors

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/tracklit/internal/logger"
)

// Hinter is implemented by errors that carry a suggestion for the user.
type Hinter interface {
	Hint() string
}

// Format formats an error message with a consistent "Error: " prefix.
// When any error in the chain implements Hinter its hint is appended on
// a second line.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	var h Hinter
	if errors.As(err, &h) {
		if hint := h.Hint(); hint != "" {
			msg += "\nHint: " + hint
		}
	}
	return msg
}

// Report logs err and writes its formatted form to w. It is a no-op for nil.
func Report(w io.Writer, err error) {
	if err == nil {
		return
	}
	logger.Error("Command execution failed", "error", err)
	fmt.Fprintln(w, Format(err))
}

// Fatal reports err on stderr and exits with code 1
func Fatal(err error) {
	if err != nil {
		Report(os.Stderr, err)
		os.Exit(1)
	}
}
