package gitrepo

import (
	"fmt"
	"strings"
)

const (
	repositoryReferenceSeparatorConstant     = "/"
	repositoryReferenceErrorTemplateConstant = "invalid repository identifier %q: %s"
	requiredValueMessageConstant             = "value is required"
	repositoryReferenceFormatMessageConstant = "expected owner/name"
	repositoryReferenceOwnerMessageConstant  = "owner is empty"
	repositoryReferenceNameMessageConstant   = "repository name is empty"
	repositoryReferenceNestedMessageConstant = "repository name cannot contain /"
	repositoryReferenceFieldNameConstant     = "repository"
)

// RepositoryRef identifies a hosted repository by owner and name.
type RepositoryRef struct {
	Owner string
	Name  string
}

// String renders the reference as owner/name.
func (reference RepositoryRef) String() string {
	return reference.Owner + repositoryReferenceSeparatorConstant + reference.Name
}

// RepositoryReferenceError reports a malformed owner/name identifier.
type RepositoryReferenceError struct {
	Input   string
	Message string
}

// Error describes the malformed identifier.
func (referenceError RepositoryReferenceError) Error() string {
	return fmt.Sprintf(repositoryReferenceErrorTemplateConstant, referenceError.Input, referenceError.Message)
}

// FieldName names the user input that carried the identifier.
func (referenceError RepositoryReferenceError) FieldName() string {
	return repositoryReferenceFieldNameConstant
}

// ParseRepositoryRef splits an owner/name identifier on its first separator.
func ParseRepositoryRef(identifier string) (RepositoryRef, error) {
	trimmedIdentifier := strings.TrimSpace(identifier)
	if len(trimmedIdentifier) == 0 {
		return RepositoryRef{}, RepositoryReferenceError{Input: identifier, Message: requiredValueMessageConstant}
	}

	owner, name, separatorFound := strings.Cut(trimmedIdentifier, repositoryReferenceSeparatorConstant)
	if !separatorFound {
		return RepositoryRef{}, RepositoryReferenceError{Input: identifier, Message: repositoryReferenceFormatMessageConstant}
	}
	if len(strings.TrimSpace(owner)) == 0 {
		return RepositoryRef{}, RepositoryReferenceError{Input: identifier, Message: repositoryReferenceOwnerMessageConstant}
	}
	if len(strings.TrimSpace(name)) == 0 {
		return RepositoryRef{}, RepositoryReferenceError{Input: identifier, Message: repositoryReferenceNameMessageConstant}
	}
	if strings.Contains(name, repositoryReferenceSeparatorConstant) {
		return RepositoryRef{}, RepositoryReferenceError{Input: identifier, Message: repositoryReferenceNestedMessageConstant}
	}

	return RepositoryRef{Owner: strings.TrimSpace(owner), Name: strings.TrimSpace(name)}, nil
}
