package prompt

import (
	"errors"
	"io"

	"github.com/charmbracelet/huh"
)

// HuhPrompter implements Prompter using the huh TUI library.
type HuhPrompter struct {
	In  io.Reader
	Out io.Writer
}

func (p *HuhPrompter) Input(title, placeholder, def string, validate func(string) error) (string, error) {
	value := def
	field := huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(&value)
	if validate != nil {
		field = field.Validate(validate)
	}
	if err := p.run(field); err != nil {
		return "", err
	}
	return value, nil
}

func (p *HuhPrompter) Select(title string, options []Option, initial string) (string, error) {
	huhOptions := make([]huh.Option[string], len(options))
	for i, opt := range options {
		label := opt.Label
		if opt.Hint != "" {
			label += " (" + opt.Hint + ")"
		}
		huhOptions[i] = huh.NewOption(label, opt.Value)
	}

	selected := initial
	field := huh.NewSelect[string]().
		Title(title).
		Options(huhOptions...).
		Value(&selected)
	if err := p.run(field); err != nil {
		return "", err
	}
	return selected, nil
}

func (p *HuhPrompter) Confirm(title string, initial bool) (bool, error) {
	confirmed := initial
	field := huh.NewConfirm().
		Title(title).
		Value(&confirmed)
	if err := p.run(field); err != nil {
		return false, err
	}
	return confirmed, nil
}

func (p *HuhPrompter) run(field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field))
	if p.In != nil {
		form = form.WithInput(p.In)
	}
	if p.Out != nil {
		form = form.WithOutput(p.Out)
	}
	err := form.Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrCancelled
	}
	return err
}
