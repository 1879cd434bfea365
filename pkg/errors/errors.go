package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

// Kind is the closed classification every client error carries. Callers branch
// on Kind instead of sniffing message text.
type Kind string

const (
	KindValidation   Kind = "VALIDATION"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindForbidden    Kind = "FORBIDDEN"
	KindNotFound     Kind = "NOT_FOUND"
	KindConflict     Kind = "CONFLICT"
	KindRateLimit    Kind = "RATE_LIMIT"
	KindServer       Kind = "SERVER"
	KindNetwork      Kind = "NETWORK"
	KindInternal     Kind = "INTERNAL"
)

type Metadata struct {
	Retryable     bool
	NeedsLogin    bool
	PublicMessage string
}

var metadataByKind = map[Kind]Metadata{
	KindValidation: {
		Retryable:     false,
		PublicMessage: "validation failed",
	},
	KindUnauthorized: {
		Retryable:     false,
		NeedsLogin:    true,
		PublicMessage: "authentication required",
	},
	KindForbidden: {
		Retryable:     false,
		PublicMessage: "access denied",
	},
	KindNotFound: {
		Retryable:     false,
		PublicMessage: "resource not found",
	},
	KindConflict: {
		Retryable:     false,
		PublicMessage: "conflict detected",
	},
	KindRateLimit: {
		Retryable:     false,
		PublicMessage: "rate limit exceeded",
	},
	KindServer: {
		Retryable:     true,
		PublicMessage: "server error",
	},
	KindNetwork: {
		Retryable:     true,
		PublicMessage: "network unavailable",
	},
	KindInternal: {
		Retryable:     false,
		PublicMessage: "internal error",
	},
}

func MetadataFor(kind Kind) Metadata {
	if meta, ok := metadataByKind[kind]; ok {
		return meta
	}
	return metadataByKind[KindInternal]
}

// KindForStatus maps an HTTP response status to the closed Kind set.
func KindForStatus(status int) Kind {
	switch status {
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusTooManyRequests:
		return KindRateLimit
	default:
		if status >= 400 && status < 500 {
			return KindValidation
		}
		return KindServer
	}
}

// FieldDetail is one entry of a server validation details array.
type FieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	kind       Kind
	message    string
	details    []FieldDetail
	statusCode int
	cause      error
}

func New(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

func Wrap(kind Kind, err error, message string) *Error {
	if err == nil {
		return New(kind, message)
	}
	return &Error{kind: kind, message: message, cause: err}
}

func (e *Error) Kind() Kind {
	if e == nil {
		return KindInternal
	}
	return e.kind
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() []FieldDetail {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details []FieldDetail) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

// StatusCode returns the originating HTTP status, or zero when the error never
// reached the wire.
func (e *Error) StatusCode() int {
	if e == nil {
		return 0
	}
	return e.statusCode
}

func (e *Error) WithStatusCode(status int) *Error {
	if e == nil {
		return nil
	}
	e.statusCode = status
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.kind, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// Retryable reports whether the error kind is worth another attempt. Untyped
// errors are treated as non-retryable.
func Retryable(err error) bool {
	typed := As(err)
	if typed == nil {
		return false
	}
	return MetadataFor(typed.Kind()).Retryable
}

// NeedsLogin reports whether the error means the stored credentials are no
// longer usable and the partner must authenticate again.
func NeedsLogin(err error) bool {
	typed := As(err)
	if typed == nil {
		return false
	}
	return MetadataFor(typed.Kind()).NeedsLogin
}
