package ui

import (
	"errors"
	"io"

	"github.com/charmbracelet/huh"
)

const noteNextLabelConstant = "OK"

// FormPrompter renders prompts as huh forms on a terminal.
type FormPrompter struct {
	input  io.Reader
	output io.Writer
}

// NewFormPrompter constructs a prompter that reads key presses from input and draws on output.
func NewFormPrompter(input io.Reader, output io.Writer) *FormPrompter {
	return &FormPrompter{input: input, output: output}
}

// Select shows a single-choice list.
func (prompter *FormPrompter) Select(title string, options []SelectOption) (string, error) {
	if len(options) == 0 {
		return "", ErrPromptAborted
	}
	formOptions := make([]huh.Option[string], 0, len(options))
	for _, option := range options {
		formOptions = append(formOptions, huh.NewOption(option.Label, option.Value))
	}
	var selectedValue string
	runError := prompter.run(huh.NewSelect[string]().Title(title).Options(formOptions...).Value(&selectedValue))
	return selectedValue, runError
}

// Input shows a single-line text field. A blank answer yields defaultValue.
func (prompter *FormPrompter) Input(title string, defaultValue string) (string, error) {
	var enteredValue string
	runError := prompter.run(huh.NewInput().Title(title).Placeholder(defaultValue).Value(&enteredValue))
	if runError != nil {
		return "", runError
	}
	if len(enteredValue) == 0 {
		return defaultValue, nil
	}
	return enteredValue, nil
}

// Password shows a text field that masks its input.
func (prompter *FormPrompter) Password(title string) (string, error) {
	var enteredValue string
	runError := prompter.run(huh.NewInput().Title(title).EchoMode(huh.EchoModePassword).Value(&enteredValue))
	return enteredValue, runError
}

// Confirm shows a yes/no confirmation prompt.
func (prompter *FormPrompter) Confirm(title string) (bool, error) {
	var confirmed bool
	runError := prompter.run(huh.NewConfirm().Title(title).Value(&confirmed))
	return confirmed, runError
}

// Note shows a block of text until dismissed.
func (prompter *FormPrompter) Note(title string, body string) error {
	return prompter.run(huh.NewNote().Title(title).Description(body).Next(true).NextLabel(noteNextLabelConstant))
}

func (prompter *FormPrompter) run(field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field))
	if prompter.input != nil {
		form = form.WithInput(prompter.input)
	}
	if prompter.output != nil {
		form = form.WithOutput(prompter.output)
	}
	runError := form.Run()
	if errors.Is(runError, huh.ErrUserAborted) {
		return ErrPromptAborted
	}
	return runError
}
