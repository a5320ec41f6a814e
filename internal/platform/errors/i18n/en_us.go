package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeInvalidFundsLength  = "INVALID_FUNDS_LENGTH"
	CodeInvalidFundsDenom   = "INVALID_FUNDS_DENOM"
	CodeInvalidFundsAmount  = "INVALID_FUNDS_AMOUNT"
	CodeTimeoutCannotBeZero = "TIMEOUT_CANNOT_BE_ZERO"
	CodeTimeoutOverflow     = "TIMEOUT_OVERFLOW"
	CodeInvalidDenom        = "INVALID_DENOM"
	CodeInvalidAmount       = "INVALID_AMOUNT"
	CodeSameDenom           = "SAME_DENOM"
	CodeInvalidAddress      = "INVALID_ADDRESS"
	CodeDealNotFound        = "DEAL_NOT_FOUND"
	CodeDealNotOpen         = "DEAL_NOT_OPEN"
	CodeDealExpired         = "DEAL_EXPIRED"
	CodeDealNotExpired      = "DEAL_NOT_EXPIRED"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeUnauthenticated     = "UNAUTHENTICATED"
	CodeNotInitialized      = "NOT_INITIALIZED"
	CodeAlreadyInitialized  = "ALREADY_INITIALIZED"
	CodeInvalidFilter       = "INVALID_FILTER"
	CodeInvalidPageToken    = "INVALID_PAGE_TOKEN"
	CodeCustodyInsufficient = "CUSTODY_INSUFFICIENT"
)

var enUSMessages = map[Code]string{
	CodeInvalidFundsLength:  "Must send exactly one coin",
	CodeInvalidFundsDenom:   "Invalid funds denom{{if .denom}} {{.denom}}{{end}}",
	CodeInvalidFundsAmount:  "Invalid funds amount{{if .amount}} {{.amount}}{{end}}",
	CodeTimeoutCannotBeZero: "Timeout cannot be zero",
	CodeTimeoutOverflow:     "Timeout is too far in the future",
	CodeInvalidDenom:        "Invalid denom{{if .denom}} {{.denom}}{{end}}",
	CodeInvalidAmount:       "Invalid amount{{if .amount}} {{.amount}}{{end}}",
	CodeSameDenom:           "Offered and requested denoms must differ",
	CodeInvalidAddress:      "Invalid address{{if .address}} {{.address}}{{end}}",
	CodeDealNotFound:        "Deal {{.deal_id}} not found",
	CodeDealNotOpen:         "Deal {{.deal_id}} is not open",
	CodeDealExpired:         "Deal {{.deal_id}} has expired",
	CodeDealNotExpired:      "Deal {{.deal_id}} has not expired",
	CodeUnauthorized:        "Unauthorized",
	CodeUnauthenticated:     "Caller identity is required",
	CodeNotInitialized:      "Escrow engine is not initialized",
	CodeAlreadyInitialized:  "Escrow engine is already initialized",
	CodeInvalidFilter:       "Invalid filter: {{.reason}}",
	CodeInvalidPageToken:    "Invalid page token",
	CodeCustodyInsufficient: "Custody holdings are insufficient for {{.denom}}",
}
