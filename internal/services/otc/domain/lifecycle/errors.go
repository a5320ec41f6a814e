package lifecycle

import (
	"strconv"

	apperrors "github.com/nseguias/otc/internal/platform/errors"
	"github.com/nseguias/otc/internal/services/otc/domain/deal"
)

// DealNotFound reports a missing deal id.
func DealNotFound(id uint64) error {
	return apperrors.WithMetadata(apperrors.CodeDealNotFound, "deal "+dealIDString(id)+" not found", dealMeta(id))
}

// NotInitialized reports an operation before instantiation.
func NotInitialized() error {
	return apperrors.New(apperrors.CodeNotInitialized, "engine is not initialized")
}

func dealMeta(id uint64) map[string]string {
	return map[string]string{"deal_id": dealIDString(id)}
}

func errNotOpen(d deal.Deal) error {
	return apperrors.WithMetadata(apperrors.CodeDealNotOpen, "deal "+dealIDString(d.ID)+" is "+d.Status.String(), dealMeta(d.ID))
}

func errExpired(d deal.Deal) error {
	return apperrors.WithMetadata(apperrors.CodeDealExpired, "deal "+dealIDString(d.ID)+" expired", dealMeta(d.ID))
}

func errNotExpired(d deal.Deal) error {
	return apperrors.WithMetadata(apperrors.CodeDealNotExpired, "deal "+dealIDString(d.ID)+" not expired", dealMeta(d.ID))
}

func errUnauthorized(message string) error {
	return apperrors.New(apperrors.CodeUnauthorized, message)
}

func errFundsLength(n int) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidFundsLength, "expected exactly one coin", map[string]string{"count": strconv.Itoa(n)})
}

func errNoFundsAllowed(n int) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidFundsLength, "operation does not accept funds", map[string]string{"count": strconv.Itoa(n)})
}

func errFundsDenom(denom string) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidFundsDenom, "invalid funds denom", map[string]string{"denom": denom})
}

func errFundsAmount(amount deal.Amount) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidFundsAmount, "invalid funds amount", map[string]string{"amount": amount.String()})
}
