package lifecycle

import (
	"strconv"

	apperrors "github.com/nseguias/otc/internal/platform/errors"
	"github.com/nseguias/otc/internal/services/otc/domain/deal"
)

// Instantiate decides the one-time engine configuration. initialized reports
// whether a configuration already exists.
func Instantiate(initialized bool, defaultTimeout *uint64) (deal.Config, []deal.Attribute, error) {
	if initialized {
		return deal.Config{}, nil, apperrors.New(apperrors.CodeAlreadyInitialized, "engine already initialized")
	}
	timeout := deal.DefaultTimeoutSeconds
	if defaultTimeout != nil {
		if *defaultTimeout == 0 {
			return deal.Config{}, nil, apperrors.New(apperrors.CodeTimeoutCannotBeZero, "default timeout cannot be zero")
		}
		if *defaultTimeout > uint64(deal.MaxTimeoutUnix) {
			return deal.Config{}, nil, apperrors.New(apperrors.CodeTimeoutOverflow, "default timeout overflows the clock range")
		}
		timeout = *defaultTimeout
	}
	cfg := deal.Config{DefaultTimeout: timeout}
	return cfg, []deal.Attribute{
		attr(AttrAction, ActionInstantiate),
		attr(AttrDefaultTimeout, strconv.FormatUint(timeout, 10)),
	}, nil
}
