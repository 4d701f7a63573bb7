package shared

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Enums and common types shared by math, state and the SDK layer.
type Rounding uint8

const (
	RoundingUp   Rounding = 0
	RoundingDown Rounding = 1
)

type TradeDirection uint8

const (
	TradeDirectionAtoB TradeDirection = 0
	TradeDirectionBtoA TradeDirection = 1
)

func (d TradeDirection) AtoB() bool { return d == TradeDirectionAtoB }

type SwapMode uint8

const (
	SwapModeExactIn  SwapMode = 0
	SwapModeExactOut SwapMode = 1
)

// SwapStatus is the terminal state of one swap simulation.
type SwapStatus uint8

const (
	// SwapStatusFilled means the requested amount was fully consumed.
	SwapStatusFilled SwapStatus = 0
	// SwapStatusLimitReached means the sqrt-price limit was hit first.
	SwapStatusLimitReached SwapStatus = 1
	// SwapStatusNoLiquidity means active liquidity ran out before the
	// supplied tick arrays offered another initialized tick.
	SwapStatusNoLiquidity SwapStatus = 2
)

// SwapResult is the raw outcome of the swap state machine, before any
// transfer-fee adjustment on either side.
type SwapResult struct {
	AmountIn      *big.Int
	AmountOut     *big.Int
	TotalFee      *big.Int
	ProtocolFee   *big.Int
	NextSqrtPrice *big.Int
	NextTickIndex int32
	TicksCrossed  uint32
	Status        SwapStatus

	// AppliedFeeRate is the effective fee rate of the last step, static
	// base plus adaptive surcharge when the pool carries one.
	AppliedFeeRate uint32

	// NextAdaptiveFee carries the adaptive-fee variables as they would be
	// persisted by the program after this trade; nil when the pool has no
	// adaptive fee.
	NextAdaptiveFee *AdaptiveFeeVariables
}

// SwapQuote is the caller-facing swap quote.
type SwapQuote struct {
	SwapResult

	// Amounts adjusted for transfer fees on both mints.
	EstimatedAmountIn  *big.Int
	EstimatedAmountOut *big.Int
	EstimatedFeeAmount *big.Int

	// OtherAmountThreshold is the slippage-adjusted bound the transaction
	// enforces on submission: a minimum output for exact-in, a maximum
	// input for exact-out.
	OtherAmountThreshold *big.Int

	// TransferHookAccountsRequired is set when either mint carries a
	// transfer hook, so the builder must append the hook's extra accounts.
	TransferHookAccountsRequired bool

	PriceImpact decimal.Decimal
}

// IncreaseLiquidityQuote bounds a deposit for a given liquidity delta.
type IncreaseLiquidityQuote struct {
	LiquidityDelta *big.Int
	TokenEstA      *big.Int
	TokenEstB      *big.Int
	TokenMaxA      *big.Int
	TokenMaxB      *big.Int
}

// DecreaseLiquidityQuote bounds a withdrawal for a given liquidity delta.
type DecreaseLiquidityQuote struct {
	LiquidityDelta *big.Int
	TokenEstA      *big.Int
	TokenEstB      *big.Int
	TokenMinA      *big.Int
	TokenMinB      *big.Int
}

// CollectFeesQuote is the fee amounts a position could collect now.
type CollectFeesQuote struct {
	FeeOwedA *big.Int
	FeeOwedB *big.Int
}

// CollectRewardsQuote is the reward amounts per slot as of a timestamp.
type CollectRewardsQuote struct {
	RewardsOwed [NumRewards]*big.Int
}

// AdaptiveFeeConstants mirrors the program's published tuning parameters.
// They are read from the pool's adaptive-fee account, never inferred.
type AdaptiveFeeConstants struct {
	FilterPeriod             uint16
	DecayPeriod              uint16
	ReductionFactor          uint16
	AdaptiveFeeControlFactor uint32
	MaxVolatilityAccumulator uint32
	TickGroupSize            uint16
}

// AdaptiveFeeVariables is the mutable part of the adaptive-fee state,
// threaded through the engine as a value and returned updated.
type AdaptiveFeeVariables struct {
	LastReferenceUpdateTimestamp uint64
	TickGroupIndexReference      int32
	VolatilityReference          uint32
	VolatilityAccumulator        uint32
}

// FeeRateOverRange bundles the static rate with optional adaptive state.
type AdaptiveFeeInfo struct {
	Constants AdaptiveFeeConstants
	Variables AdaptiveFeeVariables
}
