// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Funds errors
	CodeInvalidFundsLength Code = "INVALID_FUNDS_LENGTH"
	CodeInvalidFundsDenom  Code = "INVALID_FUNDS_DENOM"
	CodeInvalidFundsAmount Code = "INVALID_FUNDS_AMOUNT"

	// Deal terms errors
	CodeTimeoutCannotBeZero Code = "TIMEOUT_CANNOT_BE_ZERO"
	CodeTimeoutOverflow     Code = "TIMEOUT_OVERFLOW"
	CodeInvalidDenom        Code = "INVALID_DENOM"
	CodeInvalidAmount       Code = "INVALID_AMOUNT"
	CodeSameDenom           Code = "SAME_DENOM"
	CodeInvalidAddress      Code = "INVALID_ADDRESS"

	// Deal lifecycle errors
	CodeDealNotFound    Code = "DEAL_NOT_FOUND"
	CodeDealNotOpen     Code = "DEAL_NOT_OPEN"
	CodeDealExpired     Code = "DEAL_EXPIRED"
	CodeDealNotExpired  Code = "DEAL_NOT_EXPIRED"
	CodeUnauthorized    Code = "UNAUTHORIZED"
	CodeUnauthenticated Code = "UNAUTHENTICATED"

	// Engine configuration errors
	CodeNotInitialized     Code = "NOT_INITIALIZED"
	CodeAlreadyInitialized Code = "ALREADY_INITIALIZED"

	// Query errors
	CodeInvalidFilter    Code = "INVALID_FILTER"
	CodeInvalidPageToken Code = "INVALID_PAGE_TOKEN"

	// Custody errors
	CodeCustodyInsufficient Code = "CUSTODY_INSUFFICIENT"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeInvalidFundsLength,
		CodeInvalidFundsDenom,
		CodeInvalidFundsAmount,
		CodeTimeoutCannotBeZero,
		CodeTimeoutOverflow,
		CodeInvalidDenom,
		CodeInvalidAmount,
		CodeSameDenom,
		CodeInvalidAddress,
		CodeInvalidFilter,
		CodeInvalidPageToken:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeDealNotOpen,
		CodeDealExpired,
		CodeDealNotExpired,
		CodeNotInitialized:
		return codes.FailedPrecondition

	// NotFound - resource doesn't exist
	case CodeDealNotFound:
		return codes.NotFound

	// AlreadyExists - singleton already written
	case CodeAlreadyInitialized:
		return codes.AlreadyExists

	case CodeUnauthorized:
		return codes.PermissionDenied

	case CodeUnauthenticated:
		return codes.Unauthenticated

	default:
		return codes.Internal
	}
}
