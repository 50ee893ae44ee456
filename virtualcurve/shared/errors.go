package shared

import "errors"

// Every failure in the quoting core is terminal; nothing is retried
// internally. Callers match with errors.Is.
var (
	ErrDivisionByZero     = errors.New("division by zero")
	ErrOverflow           = errors.New("math overflow")
	ErrUnderflow          = errors.New("math underflow")
	ErrInvalidPrice       = errors.New("sqrt price must be greater than zero")
	ErrInvalidLiquidity   = errors.New("liquidity must be greater than zero")
	ErrInvalidDenominator = errors.New("invalid denominator")

	ErrInsufficientLiquidity    = errors.New("insufficient liquidity")
	ErrPoolCompleted            = errors.New("virtual pool is completed")
	ErrZeroAmount               = errors.New("amount is zero")
	ErrAmountLeftOverThreshold  = errors.New("amount left is over the swallow threshold")
	ErrInvalidBaseFeeMode       = errors.New("invalid base fee mode")
	ErrInvalidFeeSchedulerMode  = errors.New("invalid fee scheduler mode")
	ErrExponentOutOfRange       = errors.New("pow exponent out of range")
	ErrCliffFeeOverMax          = errors.New("cliff fee numerator exceeds maximum fee numerator")
	ErrZeroFeeIncrement         = errors.New("fee increment numerator cannot be zero")

	// ErrUndetermined marks an internal invariant violation in the rate
	// limiter inversion, not a bad user input.
	ErrUndetermined = errors.New("undetermined error: fee numerator below cliff fee numerator")
)
