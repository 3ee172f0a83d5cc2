package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind classifies a failed backend call. Kinds, not Go types: the
// whole taxonomy lives in APIError so callers switch on one field.
type ErrorKind string

const (
	// KindNetwork means no response was received at all.
	KindNetwork ErrorKind = "network"
	// KindValidation is a 4xx carrying structured field errors.
	KindValidation ErrorKind = "validation"
	// KindAuth is a 401; the session is no longer valid.
	KindAuth ErrorKind = "auth"
	// KindInvalidCoupon is a domain rejection of a coupon code
	// (expired, below minimum spend, already used, not applicable).
	KindInvalidCoupon ErrorKind = "invalid_coupon"
	// KindConflict covers stock or catalog changes that invalidated
	// the request; the next cart fetch is the recovery path.
	KindConflict ErrorKind = "conflict"
	// KindGeneric is everything else.
	KindGeneric ErrorKind = "generic"
)

// FieldError is one entry of an itemized validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is the normalized error value every backend operation fails
// with. Raw transport errors never escape this package.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Fields     []FieldError

	cause error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("backend: %s (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend: %s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error { return e.cause }

// AsAPIError unwraps err into an *APIError if there is one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func kindOf(err error) ErrorKind {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.Kind
	}
	return KindGeneric
}

func IsNetwork(err error) bool       { return kindOf(err) == KindNetwork }
func IsAuth(err error) bool          { return kindOf(err) == KindAuth }
func IsInvalidCoupon(err error) bool { return kindOf(err) == KindInvalidCoupon }
func IsConflict(err error) bool      { return kindOf(err) == KindConflict }

const genericFailureMessage = "Something went wrong. Please try again."

// ExtractMessage pulls a single human-readable message out of the
// heterogeneous error bodies the backend produces. Precedence order is
// fixed: a plain string, then a top-level "message" field, then the
// nested "response.data.message" shape some endpoints proxy through,
// else the generic fallback.
func ExtractMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return genericFailureMessage
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
		return genericFailureMessage
	}

	var shaped struct {
		Message  string `json:"message"`
		Response struct {
			Data struct {
				Message string `json:"message"`
			} `json:"data"`
		} `json:"response"`
	}
	if err := json.Unmarshal(trimmed, &shaped); err == nil {
		if shaped.Message != "" {
			return shaped.Message
		}
		if shaped.Response.Data.Message != "" {
			return shaped.Response.Data.Message
		}
		return genericFailureMessage
	}

	// Not JSON at all; some middleboxes answer with bare text.
	if !json.Valid(trimmed) {
		return string(trimmed)
	}
	return genericFailureMessage
}

// classify builds the APIError for a non-2xx response. couponOp marks
// calls against the coupon endpoints, whose 4xx rejections are domain
// errors rather than request-shape problems.
func classify(statusCode int, body []byte, couponOp bool) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Message:    ExtractMessage(body),
	}

	var shaped struct {
		Errors []FieldError `json:"errors"`
	}
	if err := json.Unmarshal(body, &shaped); err == nil {
		apiErr.Fields = shaped.Errors
	}

	switch {
	case statusCode == http.StatusUnauthorized:
		apiErr.Kind = KindAuth
	case statusCode == http.StatusConflict:
		apiErr.Kind = KindConflict
	case couponOp && statusCode >= 400 && statusCode < 500:
		apiErr.Kind = KindInvalidCoupon
	case len(apiErr.Fields) > 0 && statusCode >= 400 && statusCode < 500:
		apiErr.Kind = KindValidation
	default:
		apiErr.Kind = KindGeneric
	}
	return apiErr
}

func networkError(err error) *APIError {
	return &APIError{
		Kind:    KindNetwork,
		Message: "Unable to reach the store. Please check your connection and try again.",
		cause:   err,
	}
}
