package errors

import (
	stderrors "errors"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/louisbranch/sheetkeeper/internal/platform/errors/i18n"
)

// Domain is the error domain for sheetkeeper errors.
const Domain = "github.com/louisbranch/sheetkeeper"

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Internal message (for logs/telemetry)
	Metadata map[string]string // Additional context for templating
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// Kind returns the taxonomy bucket of the error code.
func (e *Error) Kind() Kind {
	return e.Code.Kind()
}

// New creates a simple domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WithMetadata creates a domain error with metadata for i18n templating.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Metadata: metadata,
	}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithMetadata creates a domain error with both metadata and a cause.
func WrapWithMetadata(code Code, message string, metadata map[string]string, cause error) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Metadata: metadata,
		Cause:    cause,
	}
}

// LocalizedMessage renders the user-facing message for locale.
// Unknown locales fall back to the base catalog.
func (e *Error) LocalizedMessage(locale string) string {
	return i18n.GetCatalog(locale).Format(string(e.Code), e.Metadata)
}

// Localize renders err for locale when it carries an *Error and falls back
// to err.Error() otherwise.
func Localize(err error, locale string) string {
	if err == nil {
		return ""
	}
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.LocalizedMessage(locale)
	}
	return err.Error()
}

// ToGRPCStatus converts the error to a gRPC status with errdetails.
// The status message keeps the internal message for logging while the
// LocalizedMessage detail carries the user-facing text for locale.
func (e *Error) ToGRPCStatus(locale string) error {
	catalog := i18n.GetCatalog(locale)
	grpcCode := e.Code.GRPCCode()
	st := status.New(grpcCode, e.Message)

	st, err := st.WithDetails(
		&errdetails.ErrorInfo{
			Reason:   string(e.Code),
			Domain:   Domain,
			Metadata: e.Metadata,
		},
		&errdetails.LocalizedMessage{
			Locale:  catalog.Locale(),
			Message: catalog.Format(string(e.Code), e.Metadata),
		},
	)
	if err != nil {
		return status.New(grpcCode, e.Message).Err()
	}
	return st.Err()
}

// Status converts err to a gRPC status for locale. Domain errors carry
// ErrorInfo and LocalizedMessage details; anything else maps to Internal
// with no details. A nil err yields OK.
func Status(err error, locale string) *status.Status {
	if err == nil {
		return status.New(codes.OK, "")
	}
	var appErr *Error
	if !stderrors.As(err, &appErr) {
		return status.New(codes.Internal, err.Error())
	}
	st, _ := status.FromError(appErr.ToGRPCStatus(locale))
	return st
}

// StatusDetails extracts the ErrorInfo and LocalizedMessage details of st.
// Either result is nil when st does not carry it.
func StatusDetails(st *status.Status) (*errdetails.ErrorInfo, *errdetails.LocalizedMessage) {
	var info *errdetails.ErrorInfo
	var localized *errdetails.LocalizedMessage
	if st == nil {
		return nil, nil
	}
	for _, detail := range st.Details() {
		switch typed := detail.(type) {
		case *errdetails.ErrorInfo:
			info = typed
		case *errdetails.LocalizedMessage:
			localized = typed
		}
	}
	return info, localized
}

// ExitCode returns the process exit status for err: 0 for nil, otherwise
// the numeric gRPC code of its status (InvalidArgument 3, NotFound 5,
// AlreadyExists 6, Internal 13).
func ExitCode(err error) int {
	return int(Status(err, "").Code())
}
