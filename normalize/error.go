package normalize

import (
	"net/http"
)

// Kind discriminates normalized errors. It is not part of the serialized shape.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindApplication
	KindServiceDegraded
	KindMalformedUpstream
	KindNetworkUnreachable
	KindConnectionRefused
	KindTimeout
	KindUnauthorized
	KindRateLimited
)

var kindNames = [...]string{
	KindUnknown:            "Unknown",
	KindApplication:        "ApplicationError",
	KindServiceDegraded:    "ServiceDegraded",
	KindMalformedUpstream:  "MalformedUpstream",
	KindNetworkUnreachable: "NetworkUnreachable",
	KindConnectionRefused:  "ConnectionRefused",
	KindTimeout:            "Timeout",
	KindUnauthorized:       "Unauthorized",
	KindRateLimited:        "RateLimited",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[KindUnknown]
}

// Error is the single error shape every failed call resolves to.
// Status and Header keep the raw failure visible to outcome observers.
type Error struct {
	Message   string      `json:"message"`
	Code      string      `json:"code,omitempty"`
	Timestamp string      `json:"timestamp"`
	Kind      Kind        `json:"-"`
	Status    int         `json:"-"`
	Header    http.Header `json:"-"`
	cause     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Normalized reports whether e already has the caller-facing shape.
func (e *Error) Normalized() bool {
	return e != nil && e.Message != "" && e.Timestamp != ""
}

// WithMessage returns a copy of e carrying message.
func (e *Error) WithMessage(message string) *Error {
	cp := *e
	cp.Message = message
	return &cp
}

func kindFor(status int, fallback Kind) Kind {
	switch status {
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusTooManyRequests:
		return KindRateLimited
	}
	return fallback
}
