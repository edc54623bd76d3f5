// Package errors provides structured error handling with i18n support.
package errors

import (
	stderrors "errors"

	"google.golang.org/grpc/codes"
)

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Characteristic errors
	CodeCharacteristicOutOfRange Code = "CHARACTERISTIC_OUT_OF_RANGE"
	CodeCharacteristicUnknown    Code = "CHARACTERISTIC_UNKNOWN"
	CodeCharacteristicRepeated   Code = "CHARACTERISTIC_REPEATED"

	// Ledger errors
	CodeSkillEntryDuplicate    Code = "SKILL_ENTRY_DUPLICATE"
	CodeSkillEntryNotFound     Code = "SKILL_ENTRY_NOT_FOUND"
	CodeSkillEntryInvalidField Code = "SKILL_ENTRY_INVALID_FIELD"
	CodeSkillEntryEmptyName    Code = "SKILL_ENTRY_EMPTY_NAME"

	// Game data errors
	CodeNationalityNotFound Code = "NATIONALITY_NOT_FOUND"
	CodeClassNotFound       Code = "CLASS_NOT_FOUND"
	CodeModifierInvalid     Code = "MODIFIER_INVALID"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// Kind groups codes into the caller-facing error taxonomy.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation marks input outside an allowed range or shape.
	KindValidation
	// KindNotFound marks an unresolvable reference.
	KindNotFound
	// KindDuplicate marks an insertion collision.
	KindDuplicate
)

// String returns a stable label for logs.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindDuplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// Kind returns the taxonomy bucket for a code.
func (c Code) Kind() Kind {
	switch c {
	case CodeCharacteristicOutOfRange,
		CodeCharacteristicUnknown,
		CodeCharacteristicRepeated,
		CodeSkillEntryInvalidField,
		CodeSkillEntryEmptyName,
		CodeModifierInvalid:
		return KindValidation
	case CodeSkillEntryNotFound,
		CodeNationalityNotFound,
		CodeClassNotFound,
		CodeNotFound:
		return KindNotFound
	case CodeSkillEntryDuplicate:
		return KindDuplicate
	default:
		return KindUnknown
	}
}

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c.Kind() {
	// InvalidArgument - validation failures, bad input
	case KindValidation:
		return codes.InvalidArgument
	// NotFound - resource doesn't exist
	case KindNotFound:
		return codes.NotFound
	// AlreadyExists - unique resource constraint
	case KindDuplicate:
		return codes.AlreadyExists
	default:
		return codes.Internal
	}
}

// KindOf returns the kind of the first domain error in err's chain.
func KindOf(err error) Kind {
	var domainErr *Error
	if stderrors.As(err, &domainErr) {
		return domainErr.Code.Kind()
	}
	return KindUnknown
}

// CodeOf returns the code of the first domain error in err's chain.
func CodeOf(err error) Code {
	var domainErr *Error
	if stderrors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeUnknown
}
