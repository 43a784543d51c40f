package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/wpnuxt/wpnuxi/internal/prompt"
)

// ErrValidation marks errors caused by bad user input. They are reported
// before any side effect happens.
var ErrValidation = errors.New("invalid input")

type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Is(target error) bool { return target == ErrValidation }

func invalidf(format string, args ...interface{}) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}

func invalid(err error) error {
	return &validationError{msg: err.Error()}
}

// errDoctorFailed is returned after the doctor report has been printed.
var errDoctorFailed = errors.New("doctor checks failed")

// Exit renders err on w and returns the process exit status.
func Exit(err error, w io.Writer) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, prompt.ErrCancelled):
		fmt.Fprintln(w, "Operation cancelled.")
		return 0
	default:
		fmt.Fprintf(w, "%s %v\n", red("error:"), err)
		return 1
	}
}
