// Package prompt collects interactive answers for the init command.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// ErrCancelled is returned when the user aborts a prompt.
var ErrCancelled = errors.New("operation cancelled")

// Option is one choice of a Select prompt.
type Option struct {
	Label string
	Value string
	Hint  string
}

// Prompter asks the user for values. Implementations return ErrCancelled
// when the user aborts.
type Prompter interface {
	// Input asks for free text. def is the prefilled value; validate may be nil.
	Input(title, placeholder, def string, validate func(string) error) (string, error)
	// Select returns the Value of the chosen option. initial preselects one.
	Select(title string, options []Option, initial string) (string, error)
	Confirm(title string, initial bool) (bool, error)
}

// IsTerminal reports whether the file refers to a terminal device.
var IsTerminal = func(file *os.File) bool {
	if file == nil {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// New returns an interactive prompter when in is a terminal and a prompter
// that accepts every default otherwise.
func New(in *os.File, out io.Writer) Prompter {
	if IsTerminal(in) {
		return &HuhPrompter{In: in, Out: out}
	}
	return Defaults{}
}

// Defaults answers every prompt with its default. It backs non-interactive
// runs such as CI or piped stdin.
type Defaults struct{}

func (Defaults) Input(title, _, def string, validate func(string) error) (string, error) {
	if validate != nil {
		if err := validate(def); err != nil {
			return "", fmt.Errorf("%s: %w (stdin is not a terminal)", title, err)
		}
	}
	return def, nil
}

func (Defaults) Select(title string, options []Option, initial string) (string, error) {
	for _, opt := range options {
		if opt.Value == initial {
			return initial, nil
		}
	}
	if len(options) == 0 {
		return "", fmt.Errorf("%s: no options", title)
	}
	return options[0].Value, nil
}

func (Defaults) Confirm(_ string, initial bool) (bool, error) {
	return initial, nil
}
