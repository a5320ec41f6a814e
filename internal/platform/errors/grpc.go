package errors

import (
	"errors"

	"github.com/nseguias/otc/internal/platform/errors/i18n"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultLocale is the default locale for error messages.
const DefaultLocale = i18n.BaseLocale

// HandleError converts domain errors to gRPC status for client responses.
// It formats the user-facing message using the i18n catalog that best matches
// locale, defaulting to en-US.
func HandleError(err error, locale string) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok && !isDomain(err) {
		return err
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		catalog := i18n.GetCatalog(locale)
		userMsg := catalog.Format(string(appErr.Code), appErr.Metadata)
		return appErr.ToGRPCStatus(catalog.Locale(), userMsg)
	}

	return status.Error(codes.Internal, "an unexpected error occurred")
}

// FromStatus rebuilds a domain error from a gRPC status produced by
// HandleError. ok is false when the status carries no ErrorInfo for Domain.
func FromStatus(err error) (*Error, bool) {
	st, ok := status.FromError(err)
	if !ok || st == nil {
		return nil, false
	}
	for _, detail := range st.Details() {
		info, isInfo := detail.(*errdetails.ErrorInfo)
		if !isInfo || info.GetDomain() != Domain {
			continue
		}
		return &Error{
			Code:     Code(info.GetReason()),
			Message:  st.Message(),
			Metadata: info.GetMetadata(),
		}, true
	}
	return nil, false
}

// LocalizedMessage returns the user-facing message attached to a status, or
// the status message when none is attached.
func LocalizedMessage(err error) string {
	st, ok := status.FromError(err)
	if !ok || st == nil {
		if err == nil {
			return ""
		}
		return err.Error()
	}
	for _, detail := range st.Details() {
		if msg, isMsg := detail.(*errdetails.LocalizedMessage); isMsg && msg.GetMessage() != "" {
			return msg.GetMessage()
		}
	}
	return st.Message()
}

// GetCode extracts the error code from any error.
// Returns CodeUnknown if the error is not a domain error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// IsCode checks if the error has the specified code.
func IsCode(err error, code Code) bool {
	return GetCode(err) == code
}

// GetMetadata extracts metadata from an error if present.
func GetMetadata(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Metadata
	}
	return nil
}

func isDomain(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
