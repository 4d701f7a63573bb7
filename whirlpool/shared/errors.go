package shared

import "errors"

// Every failure the engine can produce reflects either a bad input or stale
// caller-supplied state; nothing here is retried internally. Callers branch
// with errors.Is.
var (
	// ErrTickOutOfBounds: tick index outside [MinTickIndex, MaxTickIndex].
	ErrTickOutOfBounds = errors.New("tick index out of bounds")

	// ErrSqrtPriceOutOfBounds: sqrt price outside the protocol bounds.
	ErrSqrtPriceOutOfBounds = errors.New("sqrt price out of bounds")

	// ErrZeroTradableAmount: the requested trade amount is zero.
	ErrZeroTradableAmount = errors.New("zero tradable amount")

	// ErrPartialFill: an exact-output swap could not produce the full
	// requested amount within the supplied tick arrays and price limit.
	ErrPartialFill = errors.New("exact-output swap filled partially")

	// ErrTickArraySequenceInvalid: the supplied tick arrays do not cover
	// the swap path contiguously in trade direction.
	ErrTickArraySequenceInvalid = errors.New("tick array sequence invalid")

	// ErrDifferentWhirlpoolTickArray: a supplied tick array belongs to a
	// different pool than the snapshot.
	ErrDifferentWhirlpoolTickArray = errors.New("tick array belongs to a different whirlpool")

	// ErrSlippageExceeded: the computed amount violates the caller's own
	// threshold; re-quote against fresh state.
	ErrSlippageExceeded = errors.New("slippage tolerance exceeded")

	// ErrLiquidityOverflow: a liquidity update left the u128 range.
	ErrLiquidityOverflow = errors.New("liquidity overflow")

	// ErrInvalidTickRange: position bounds are not ordered, not aligned to
	// the tick spacing, or out of the tick domain.
	ErrInvalidTickRange = errors.New("invalid tick range")
)
