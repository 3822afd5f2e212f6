package remote

import (
	"fmt"
	"net/http"
	"strings"

	"dashboard/internal/errors"
)

// Classifier turns a non-2xx status and body into an application error
type Classifier func(status int, body []byte) error

// Messages are the user-facing texts a provider uses per error type
type Messages struct {
	Auth       string
	Permission string
	NotFound   string
	Validation string
	RateLimit  string
	Unknown    string
}

// DefaultMessages are used when a provider supplies none
var DefaultMessages = Messages{
	Auth:       "the credential is invalid or expired",
	Permission: "the credential lacks a required permission",
	NotFound:   "the requested resource was not found",
	Validation: "the request was rejected",
	RateLimit:  "the rate limit was exceeded",
	Unknown:    "the service returned an unexpected error",
}

// ProviderError is the code and message a provider puts in an error body
type ProviderError struct {
	Code    string
	Message string
}

// Extractor pulls the provider error out of a response body
type Extractor func(body []byte) ProviderError

// StatusClassifier maps status codes to the taxonomy:
//
//	401 auth, 403 permission, 404 not found, 400/422 validation,
//	429 rate limit, anything else unknown.
//
// codes refines the mapping by provider error code and takes precedence
// over the status. Validation and unknown errors carry the provider message
// when one is present.
func StatusClassifier(m Messages, extract Extractor, codes map[string]errors.ErrorType) Classifier {
	return func(status int, body []byte) error {
		var pe ProviderError
		if extract != nil && len(body) > 0 {
			pe = extract(body)
		}

		errType := typeForStatus(status)
		if t, ok := codes[pe.Code]; ok && pe.Code != "" {
			errType = t
		}
		err := m.build(errType, status, pe.Message)
		if pe.Code != "" {
			err.WithContext("provider_code", pe.Code)
		}
		return err
	}
}

func typeForStatus(status int) errors.ErrorType {
	switch status {
	case http.StatusUnauthorized:
		return errors.ErrorTypeAuth
	case http.StatusForbidden:
		return errors.ErrorTypePermission
	case http.StatusNotFound:
		return errors.ErrorTypeNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return errors.ErrorTypeValidation
	case http.StatusTooManyRequests:
		return errors.ErrorTypeRateLimit
	default:
		return errors.ErrorTypeUnknown
	}
}

func (m Messages) build(t errors.ErrorType, status int, providerMsg string) *errors.AppError {
	providerMsg = strings.TrimSpace(providerMsg)
	switch t {
	case errors.ErrorTypeAuth:
		return errors.NewAuthError(or(m.Auth, DefaultMessages.Auth), nil)
	case errors.ErrorTypePermission:
		return errors.NewPermissionError(or(m.Permission, DefaultMessages.Permission), nil)
	case errors.ErrorTypeNotFound:
		e := errors.NewNotFoundError("resource", "")
		e.Message = or(m.NotFound, DefaultMessages.NotFound)
		return e
	case errors.ErrorTypeValidation:
		msg := or(m.Validation, DefaultMessages.Validation)
		if providerMsg != "" {
			msg += ": " + providerMsg
		}
		return errors.NewValidationError(msg, nil)
	case errors.ErrorTypeRateLimit:
		return errors.NewRateLimitError(or(m.RateLimit, DefaultMessages.RateLimit), nil)
	default:
		if providerMsg != "" {
			return errors.NewUnknownError(providerMsg, nil)
		}
		return errors.NewUnknownError(fmt.Sprintf("%s (HTTP %d)", or(m.Unknown, DefaultMessages.Unknown), status), nil)
	}
}

func or(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
