package githubapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	gh "github.com/google/go-github/v66/github"

	"github.com/temirov/gitmaster/internal/outcome"
)

const (
	gatewayErrorTemplateConstant         = "github %s failed: %v"
	gatewayRetryAfterTemplateConstant    = "github %s failed: %v (retry after %s)"
	retryAfterHeaderNameConstant         = "Retry-After"
	retryAfterTimeLayoutConstant         = time.RFC3339
	credentialRequiredMessageConstant    = "github credential is required"
	gatewayClientNotConfiguredMessage    = "github gateway is not configured"
	invalidCredentialDescriptionConstant = "invalid or expired credential"
	rateLimitedDescriptionConstant       = "rate limit exceeded"
	notFoundDescriptionConstant          = "resource not found"
	conflictDescriptionConstant          = "resource already exists"
	statusDescriptionTemplateConstant    = "%s (HTTP %d)"
	pathErrorTemplateConstant            = "%s: %s"
)

// OperationName identifies a gateway operation in errors and logs.
type OperationName string

// Gateway operations.
const (
	OperationAuthenticate     OperationName = OperationName("authenticate")
	OperationListRepositories OperationName = OperationName("list repositories")
	OperationListDirectory    OperationName = OperationName("list directory")
	OperationReadFile         OperationName = OperationName("read file")
	OperationCreateFile       OperationName = OperationName("create file")
	OperationDeleteRepository OperationName = OperationName("delete repository")
)

// ErrCredentialRequired indicates that a call was attempted without an access token.
var ErrCredentialRequired = errors.New(credentialRequiredMessageConstant)

// ErrGatewayNotConfigured indicates that a nil Gateway was used.
var ErrGatewayNotConfigured = errors.New(gatewayClientNotConfiguredMessage)

// GatewayError describes a failed gateway call.
type GatewayError struct {
	Operation  OperationName
	ErrorKind  outcome.ErrorKind
	RetryAfter time.Time
	StatusCode int
	Cause      error
}

// Error describes the failure.
func (gatewayError GatewayError) Error() string {
	if !gatewayError.RetryAfter.IsZero() {
		return fmt.Sprintf(gatewayRetryAfterTemplateConstant, gatewayError.Operation, gatewayError.Cause, gatewayError.RetryAfter.Format(retryAfterTimeLayoutConstant))
	}
	return fmt.Sprintf(gatewayErrorTemplateConstant, gatewayError.Operation, gatewayError.Cause)
}

// Unwrap exposes the underlying cause.
func (gatewayError GatewayError) Unwrap() error {
	return gatewayError.Cause
}

// Kind implements outcome.KindCarrier.
func (gatewayError GatewayError) Kind() outcome.ErrorKind {
	return gatewayError.ErrorKind
}

type classificationOptions struct {
	conflictStatuses map[int]struct{}
}

func classifyError(operation OperationName, callError error, options classificationOptions, now func() time.Time) error {
	if callError == nil {
		return nil
	}

	var rateLimitError *gh.RateLimitError
	if errors.As(callError, &rateLimitError) {
		return GatewayError{
			Operation:  operation,
			ErrorKind:  outcome.ErrorKindRateLimited,
			RetryAfter: rateLimitError.Rate.Reset.Time,
			StatusCode: responseStatusCode(rateLimitError.Response),
			Cause:      errors.New(rateLimitedDescriptionConstant),
		}
	}

	var abuseRateLimitError *gh.AbuseRateLimitError
	if errors.As(callError, &abuseRateLimitError) {
		retryAfter := time.Time{}
		if abuseRateLimitError.RetryAfter != nil {
			retryAfter = now().Add(*abuseRateLimitError.RetryAfter)
		}
		return GatewayError{
			Operation:  operation,
			ErrorKind:  outcome.ErrorKindRateLimited,
			RetryAfter: retryAfter,
			StatusCode: responseStatusCode(abuseRateLimitError.Response),
			Cause:      errors.New(rateLimitedDescriptionConstant),
		}
	}

	var responseError *gh.ErrorResponse
	if errors.As(callError, &responseError) && responseError.Response != nil {
		statusCode := responseError.Response.StatusCode
		switch {
		case statusCode == http.StatusUnauthorized:
			return GatewayError{Operation: operation, ErrorKind: outcome.ErrorKindInvalidCredential, StatusCode: statusCode, Cause: describeStatus(invalidCredentialDescriptionConstant, statusCode)}
		case statusCode == http.StatusTooManyRequests:
			return GatewayError{
				Operation:  operation,
				ErrorKind:  outcome.ErrorKindRateLimited,
				RetryAfter: parseRetryAfter(responseError.Response.Header, now),
				StatusCode: statusCode,
				Cause:      describeStatus(rateLimitedDescriptionConstant, statusCode),
			}
		case statusCode == http.StatusNotFound:
			return GatewayError{Operation: operation, ErrorKind: outcome.ErrorKindNotFound, StatusCode: statusCode, Cause: describeStatus(notFoundDescriptionConstant, statusCode)}
		case isConflictStatus(statusCode, options):
			return GatewayError{Operation: operation, ErrorKind: outcome.ErrorKindConflict, StatusCode: statusCode, Cause: describeStatus(conflictDescriptionConstant, statusCode)}
		default:
			return GatewayError{Operation: operation, ErrorKind: outcome.ErrorKindTransient, StatusCode: statusCode, Cause: callError}
		}
	}

	return GatewayError{Operation: operation, ErrorKind: outcome.ErrorKindTransient, Cause: callError}
}

func isConflictStatus(statusCode int, options classificationOptions) bool {
	if options.conflictStatuses == nil {
		return false
	}
	_, conflict := options.conflictStatuses[statusCode]
	return conflict
}

func describeStatus(description string, statusCode int) error {
	return fmt.Errorf(statusDescriptionTemplateConstant, description, statusCode)
}

func responseStatusCode(response *http.Response) int {
	if response == nil {
		return 0
	}
	return response.StatusCode
}

func parseRetryAfter(header http.Header, now func() time.Time) time.Time {
	retryAfterValue := strings.TrimSpace(header.Get(retryAfterHeaderNameConstant))
	if len(retryAfterValue) == 0 {
		return time.Time{}
	}
	if retryAfterSeconds, parseError := strconv.Atoi(retryAfterValue); parseError == nil {
		return now().Add(time.Duration(retryAfterSeconds) * time.Second)
	}
	if retryAfterTime, parseError := http.ParseTime(retryAfterValue); parseError == nil {
		return retryAfterTime
	}
	return time.Time{}
}

func pathError(contentPath string, message string) error {
	return fmt.Errorf(pathErrorTemplateConstant, contentPath, message)
}
