package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/temirov/gitmaster/internal/outcome"
)

const (
	// DefaultCredentialFileName is the record location used when no path is configured.
	DefaultCredentialFileName = "github_config.yaml"

	credentialTemporaryPatternConstant = ".github_config-*.tmp"
	credentialFilePermissionsConstant  = 0o600
	credentialDirectoryPermissions     = 0o700
	persistenceErrorTemplateConstant   = "credential %s failed for %s: %v"
	persistenceOperationSaveConstant   = "save"
	persistenceOperationClearConstant  = "clear"
)

// RemoteCredential carries the access token for the remote service.
type RemoteCredential struct {
	Token string `yaml:"token"`
}

// IsEmpty reports whether the credential holds no usable token.
func (credential RemoteCredential) IsEmpty() bool {
	return len(strings.TrimSpace(credential.Token)) == 0
}

// PersistenceError reports a failure to write or remove the credential record.
type PersistenceError struct {
	Operation string
	Path      string
	Cause     error
}

// Error describes the persistence failure.
func (persistenceError PersistenceError) Error() string {
	return fmt.Sprintf(persistenceErrorTemplateConstant, persistenceError.Operation, persistenceError.Path, persistenceError.Cause)
}

// Unwrap exposes the underlying cause.
func (persistenceError PersistenceError) Unwrap() error {
	return persistenceError.Cause
}

// Kind implements outcome.KindCarrier.
func (persistenceError PersistenceError) Kind() outcome.ErrorKind {
	return outcome.ErrorKindPersistence
}

// Store keeps one credential record on disk.
type Store struct {
	recordPath string
}

// NewStore constructs a Store for the provided record path, falling back to DefaultCredentialFileName.
func NewStore(recordPath string) *Store {
	trimmedRecordPath := strings.TrimSpace(recordPath)
	if len(trimmedRecordPath) == 0 {
		trimmedRecordPath = DefaultCredentialFileName
	}
	return &Store{recordPath: trimmedRecordPath}
}

// Path returns the location of the credential record.
func (store *Store) Path() string {
	return store.recordPath
}

// Load returns the stored credential. Absent, unreadable or unparsable records report false.
func (store *Store) Load() (RemoteCredential, bool) {
	recordContent, readError := os.ReadFile(store.recordPath)
	if readError != nil {
		return RemoteCredential{}, false
	}

	var credential RemoteCredential
	if decodeError := yaml.Unmarshal(recordContent, &credential); decodeError != nil {
		return RemoteCredential{}, false
	}
	credential.Token = strings.TrimSpace(credential.Token)
	if credential.IsEmpty() {
		return RemoteCredential{}, false
	}
	return credential, true
}

// Save replaces the stored record with the provided credential, creating its directory when missing.
func (store *Store) Save(credential RemoteCredential) error {
	encodedRecord, encodeError := yaml.Marshal(RemoteCredential{Token: strings.TrimSpace(credential.Token)})
	if encodeError != nil {
		return store.persistenceError(persistenceOperationSaveConstant, encodeError)
	}

	recordDirectory := filepath.Dir(store.recordPath)
	if directoryError := os.MkdirAll(recordDirectory, credentialDirectoryPermissions); directoryError != nil {
		return store.persistenceError(persistenceOperationSaveConstant, directoryError)
	}
	temporaryFile, createError := os.CreateTemp(recordDirectory, credentialTemporaryPatternConstant)
	if createError != nil {
		return store.persistenceError(persistenceOperationSaveConstant, createError)
	}
	temporaryPath := temporaryFile.Name()
	committed := false
	defer func() {
		if !committed {
			_ = temporaryFile.Close()
			_ = os.Remove(temporaryPath)
		}
	}()

	if _, writeError := temporaryFile.Write(encodedRecord); writeError != nil {
		return store.persistenceError(persistenceOperationSaveConstant, writeError)
	}
	if chmodError := temporaryFile.Chmod(credentialFilePermissionsConstant); chmodError != nil {
		return store.persistenceError(persistenceOperationSaveConstant, chmodError)
	}
	if syncError := temporaryFile.Sync(); syncError != nil {
		return store.persistenceError(persistenceOperationSaveConstant, syncError)
	}
	if closeError := temporaryFile.Close(); closeError != nil {
		return store.persistenceError(persistenceOperationSaveConstant, closeError)
	}
	if renameError := os.Rename(temporaryPath, store.recordPath); renameError != nil {
		_ = os.Remove(temporaryPath)
		committed = true
		return store.persistenceError(persistenceOperationSaveConstant, renameError)
	}
	committed = true
	return nil
}

// Clear removes the stored record. A missing record is not an error.
func (store *Store) Clear() error {
	removeError := os.Remove(store.recordPath)
	if removeError == nil || errors.Is(removeError, os.ErrNotExist) {
		return nil
	}
	return store.persistenceError(persistenceOperationClearConstant, removeError)
}

func (store *Store) persistenceError(operation string, cause error) error {
	return PersistenceError{Operation: operation, Path: store.recordPath, Cause: cause}
}
