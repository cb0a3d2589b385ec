package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// Money / price value-object errors.
var (
	// ErrInvalidAmount indicates a negative or non-finite monetary amount.
	ErrInvalidAmount = errors.New("invalid monetary amount")

	// ErrCurrencyMismatch indicates arithmetic or comparison across differing currencies.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrNegativeResult indicates a subtraction that would produce a negative price.
	ErrNegativeResult = errors.New("operation would result in negative price")

	// ErrNegativeFactor indicates a multiplication by a negative factor.
	ErrNegativeFactor = errors.New("factor cannot be negative")
)

// Currency registry errors.
var (
	// ErrUnsupportedCurrency indicates a currency code unknown to the registry
	// and alias table.
	ErrUnsupportedCurrency = errors.New("unsupported currency")

	// ErrBaseCurrencyProtected indicates a delete or deactivate attempt on the
	// sole base currency.
	ErrBaseCurrencyProtected = errors.New("base currency cannot be removed or deactivated")
)

// Exchange-rate provider errors. Auth, quota, malformed-request and
// inactive-account failures are never retried; network errors are retried up to
// the configured count before the provider falls back to static rates.
var (
	ErrRateProviderAuth             = errors.New("exchange rate provider rejected the API key")
	ErrRateProviderQuotaExceeded    = errors.New("exchange rate provider quota exceeded")
	ErrRateProviderMalformedRequest = errors.New("exchange rate provider rejected the request as malformed")
	ErrRateProviderInactiveAccount  = errors.New("exchange rate provider account is inactive")
	ErrRateProviderNetwork          = errors.New("exchange rate provider network error")
)

// IsRetryableRateError reports whether an error from the rate client may be
// retried. Only transient network/HTTP failures qualify; retrying an auth or
// quota failure cannot change the outcome.
func IsRetryableRateError(err error) bool {
	return errors.Is(err, ErrRateProviderNetwork)
}

// AppError carries an HTTP-ish status code alongside the wrapped cause. Used by
// the repository layer for infrastructure failures.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}
