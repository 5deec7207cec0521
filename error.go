package clixon

import "fmt"

// NETCONF error (https://datatracker.ietf.org/doc/html/rfc6241#appendix-A)

// ErrorType is the NETCONF rpc-error error-type: the conceptual layer an
// error occurred in.
type ErrorType int

const (
	ETypeApplication ErrorType = iota
	ETypeProtocol
	ETypeRPC
	ETypeTransport
)

func (et ErrorType) String() string {
	switch et {
	case ETypeApplication:
		return "application"
	case ETypeProtocol:
		return "protocol"
	case ETypeRPC:
		return "rpc"
	case ETypeTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// ErrorTag is the closed taxonomy of error kinds this module raises,
// grouped the way spec.md §7 groups them: Input, Schema, Precondition,
// Backend.
type ErrorTag int

const (
	// Input
	ETagMalformedKey ErrorTag = iota
	ETagBadFormat
	ETagBadOperation

	// Schema
	ETagUnknownNode
	ETagSchemaMismatch
	ETagListWithoutKey

	// Precondition
	ETagCreateExists
	ETagDeleteMissing

	// Backend
	ETagKVScanFailed
	ETagKVWriteFailed
	ETagKVInitFailed
)

func (et ErrorTag) String() string {
	switch et {
	case ETagMalformedKey:
		return "malformed-key"
	case ETagBadFormat:
		return "bad-format"
	case ETagBadOperation:
		return "bad-operation"
	case ETagUnknownNode:
		return "unknown-node"
	case ETagSchemaMismatch:
		return "schema-mismatch"
	case ETagListWithoutKey:
		return "list-without-key"
	case ETagCreateExists:
		return "create-exists"
	case ETagDeleteMissing:
		return "delete-missing"
	case ETagKVScanFailed:
		return "kv-scan-failed"
	case ETagKVWriteFailed:
		return "kv-write-failed"
	case ETagKVInitFailed:
		return "kv-init-failed"
	default:
		return "unknown"
	}
}

// NetconfType maps an ErrorTag onto the rpc-error error-type required by
// spec.md §7: Input/Schema/Precondition kinds report as "application",
// Backend kinds report as "operation-failed".
func (et ErrorTag) NetconfType() string {
	switch et {
	case ETagKVScanFailed, ETagKVWriteFailed, ETagKVInitFailed:
		return "operation-failed"
	default:
		return ETypeApplication.String()
	}
}

// Error is the single concrete error type raised by this module.
type Error struct {
	Tag     ErrorTag
	Type    ErrorType
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return "[" + e.Tag.String() + "] " + e.Message
}

// NewError builds an *Error with a literal message.
func NewError(tag ErrorTag, message string) *Error {
	return &Error{Tag: tag, Type: ETypeApplication, Message: message}
}

// NewErrorf builds an *Error with a formatted message.
func NewErrorf(tag ErrorTag, format string, args ...interface{}) *Error {
	return &Error{Tag: tag, Type: ETypeApplication, Message: fmt.Sprintf(format, args...)}
}

// IsTag reports whether err is an *Error carrying the given tag.
func IsTag(err error, tag ErrorTag) bool {
	e, ok := err.(*Error)
	return ok && e != nil && e.Tag == tag
}
