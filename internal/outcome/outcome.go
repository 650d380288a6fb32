package outcome

import (
	"errors"
	"fmt"
	"strings"
)

const (
	errorKindNoneStringConstant              = "none"
	errorKindValidationStringConstant        = "validation"
	errorKindProcessStringConstant           = "process"
	errorKindCredentialMissingStringConstant = "credential_missing"
	errorKindInvalidCredentialStringConstant = "invalid_credential"
	errorKindRateLimitedStringConstant       = "rate_limited"
	errorKindNotFoundStringConstant          = "not_found"
	errorKindConflictStringConstant          = "conflict"
	errorKindTransientStringConstant         = "transient"
	errorKindPersistenceStringConstant       = "persistence"
	validationErrorTemplateConstant          = "%s: %s"
	validationErrorWithoutFieldConstant      = "invalid input: %s"
)

// ErrorKind classifies failures surfaced to the presentation layer.
type ErrorKind string

// Supported error kinds.
const (
	ErrorKindNone              ErrorKind = ErrorKind(errorKindNoneStringConstant)
	ErrorKindValidation        ErrorKind = ErrorKind(errorKindValidationStringConstant)
	ErrorKindProcess           ErrorKind = ErrorKind(errorKindProcessStringConstant)
	ErrorKindCredentialMissing ErrorKind = ErrorKind(errorKindCredentialMissingStringConstant)
	ErrorKindInvalidCredential ErrorKind = ErrorKind(errorKindInvalidCredentialStringConstant)
	ErrorKindRateLimited       ErrorKind = ErrorKind(errorKindRateLimitedStringConstant)
	ErrorKindNotFound          ErrorKind = ErrorKind(errorKindNotFoundStringConstant)
	ErrorKindConflict          ErrorKind = ErrorKind(errorKindConflictStringConstant)
	ErrorKindTransient         ErrorKind = ErrorKind(errorKindTransientStringConstant)
	ErrorKindPersistence       ErrorKind = ErrorKind(errorKindPersistenceStringConstant)
)

// ActionResult captures the outcome of one action invocation.
type ActionResult struct {
	Succeeded    bool
	Output       string
	ErrorMessage string
	ExitCode     *int
	Kind         ErrorKind
	Warnings     []string
}

// HasErrorMessage reports whether the result carries an error description.
func (result ActionResult) HasErrorMessage() bool {
	return len(result.ErrorMessage) > 0
}

// WithWarning returns a copy of the result carrying an additional warning.
func (result ActionResult) WithWarning(warning string) ActionResult {
	trimmedWarning := strings.TrimSpace(warning)
	if len(trimmedWarning) == 0 {
		return result
	}
	copiedResult := result
	copiedResult.Warnings = append(append([]string{}, result.Warnings...), trimmedWarning)
	return copiedResult
}

// Succeed builds a successful result with the provided output.
func Succeed(output string) ActionResult {
	return ActionResult{Succeeded: true, Output: output, Kind: ErrorKindNone}
}

// Fail builds a failed result of the provided kind.
func Fail(kind ErrorKind, message string) ActionResult {
	return ActionResult{Succeeded: false, ErrorMessage: message, Kind: kind}
}

// FromProcess builds a result describing a finished external process.
func FromProcess(standardOutput string, standardError string, exitCode int) ActionResult {
	recordedExitCode := exitCode
	result := ActionResult{
		Succeeded: exitCode == 0,
		Output:    standardOutput,
		ExitCode:  &recordedExitCode,
		Kind:      ErrorKindNone,
	}
	if len(strings.TrimSpace(standardError)) > 0 {
		result.ErrorMessage = standardError
	}
	if !result.Succeeded {
		result.Kind = ErrorKindProcess
	}
	return result
}

// ValidationError reports bad or missing user input detected before any external call.
type ValidationError struct {
	FieldName string
	Message   string
}

// Error describes the validation failure.
func (validationError ValidationError) Error() string {
	if len(validationError.FieldName) == 0 {
		return fmt.Sprintf(validationErrorWithoutFieldConstant, validationError.Message)
	}
	return fmt.Sprintf(validationErrorTemplateConstant, validationError.FieldName, validationError.Message)
}

// Kind implements KindCarrier.
func (validationError ValidationError) Kind() ErrorKind {
	return ErrorKindValidation
}

// KindCarrier is implemented by errors that know their ErrorKind.
type KindCarrier interface {
	Kind() ErrorKind
}

// KindOf extracts the ErrorKind carried by the error chain, defaulting to transient.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ErrorKindNone
	}
	var carrier KindCarrier
	if errors.As(err, &carrier) {
		return carrier.Kind()
	}
	return ErrorKindTransient
}

// FromError converts an error into a failed result using its carried kind.
func FromError(err error) ActionResult {
	if err == nil {
		return Succeed("")
	}
	return Fail(KindOf(err), err.Error())
}
