package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	selectTitleTemplateConstant      = "%s\n"
	selectOptionTemplateConstant     = "  %d) %s\n"
	selectPromptConstant             = "> "
	selectInvalidChoiceConstant      = "Invalid choice, enter a number from the list.\n"
	inputPromptTemplateConstant      = "%s: "
	inputWithDefaultTemplateConstant = "%s [%s]: "
	confirmPromptTemplateConstant    = "%s [y/N]: "
	noteTemplateConstant             = "%s\n%s\n"
	affirmativeShortAnswerConstant   = "y"
	affirmativeLongAnswerConstant    = "yes"
	lineDelimiterConstant            = '\n'
)

// ErrPromptAborted indicates the user cancelled a prompt or input ended.
var ErrPromptAborted = errors.New("prompt aborted")

// SelectOption is one entry of a selection prompt.
type SelectOption struct {
	Label string
	Value string
}

// Prompter collects user input for the interactive mode.
type Prompter interface {
	Select(title string, options []SelectOption) (string, error)
	Input(title string, defaultValue string) (string, error)
	Password(title string) (string, error)
	Confirm(title string) (bool, error)
	Note(title string, body string) error
}

// LinePrompter reads line-oriented responses from an io.Reader. It serves scripted and non-terminal sessions.
type LinePrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewLinePrompter constructs a prompter from the provided reader and writer.
func NewLinePrompter(input io.Reader, output io.Writer) *LinePrompter {
	if output == nil {
		output = io.Discard
	}
	return &LinePrompter{reader: bufio.NewReader(input), writer: output}
}

// Select lists the options with one-based numbers and accepts either a number or an option value.
func (prompter *LinePrompter) Select(title string, options []SelectOption) (string, error) {
	if len(options) == 0 {
		return "", ErrPromptAborted
	}
	if _, writeError := fmt.Fprintf(prompter.writer, selectTitleTemplateConstant, title); writeError != nil {
		return "", writeError
	}
	for optionIndex, option := range options {
		if _, writeError := fmt.Fprintf(prompter.writer, selectOptionTemplateConstant, optionIndex+1, option.Label); writeError != nil {
			return "", writeError
		}
	}

	for {
		response, readError := prompter.prompt(selectPromptConstant)
		if readError != nil {
			return "", readError
		}
		if selectedValue, matched := matchOption(options, response); matched {
			return selectedValue, nil
		}
		if _, writeError := io.WriteString(prompter.writer, selectInvalidChoiceConstant); writeError != nil {
			return "", writeError
		}
	}
}

// Input reads one line, returning defaultValue when the line is blank.
func (prompter *LinePrompter) Input(title string, defaultValue string) (string, error) {
	promptText := fmt.Sprintf(inputPromptTemplateConstant, title)
	if len(defaultValue) > 0 {
		promptText = fmt.Sprintf(inputWithDefaultTemplateConstant, title, defaultValue)
	}
	response, readError := prompter.prompt(promptText)
	if readError != nil {
		return "", readError
	}
	if len(response) == 0 {
		return defaultValue, nil
	}
	return response, nil
}

// Password reads one line. Line input cannot suppress echo.
func (prompter *LinePrompter) Password(title string) (string, error) {
	return prompter.prompt(fmt.Sprintf(inputPromptTemplateConstant, title))
}

// Confirm writes the prompt and interprets affirmative responses (y/yes).
func (prompter *LinePrompter) Confirm(title string) (bool, error) {
	response, readError := prompter.prompt(fmt.Sprintf(confirmPromptTemplateConstant, title))
	if readError != nil {
		return false, readError
	}
	switch strings.ToLower(response) {
	case affirmativeShortAnswerConstant, affirmativeLongAnswerConstant:
		return true, nil
	default:
		return false, nil
	}
}

// Note writes a titled block of text.
func (prompter *LinePrompter) Note(title string, body string) error {
	_, writeError := fmt.Fprintf(prompter.writer, noteTemplateConstant, title, strings.TrimRight(body, string(lineDelimiterConstant)))
	return writeError
}

func (prompter *LinePrompter) prompt(promptText string) (string, error) {
	if _, writeError := io.WriteString(prompter.writer, promptText); writeError != nil {
		return "", writeError
	}
	response, readError := prompter.reader.ReadString(lineDelimiterConstant)
	if readError != nil {
		if !errors.Is(readError, io.EOF) {
			return "", readError
		}
		if len(response) == 0 {
			return "", ErrPromptAborted
		}
	}
	return strings.TrimSpace(response), nil
}

func matchOption(options []SelectOption, response string) (string, bool) {
	if optionNumber, parseError := strconv.Atoi(response); parseError == nil {
		if optionNumber >= 1 && optionNumber <= len(options) {
			return options[optionNumber-1].Value, true
		}
		return "", false
	}
	for _, option := range options {
		if option.Value == response {
			return option.Value, true
		}
	}
	return "", false
}
