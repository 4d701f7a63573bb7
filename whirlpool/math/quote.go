package math

import (
	"math/big"

	"github.com/krazyTry/whirlpool-go/whirlpool/helpers"
	"github.com/krazyTry/whirlpool-go/whirlpool/shared"
)

// PoolFacade is the pool-level snapshot the pure quote functions run on.
// The SDK layer builds one from fetched accounts; tests build them inline.
type PoolFacade struct {
	TickSpacing      uint16
	FeeRate          uint32
	ProtocolFeeRate  uint16
	Liquidity        *big.Int
	SqrtPrice        *big.Int
	TickCurrentIndex int32

	FeeGrowthGlobalA *big.Int
	FeeGrowthGlobalB *big.Int

	RewardLastUpdatedTimestamp uint64
	Rewards                    [shared.NumRewards]PoolRewardFacade

	// AdaptiveFee is nil for pools on a static fee tier.
	AdaptiveFee *shared.AdaptiveFeeInfo
}

// SwapQuoteExactInput simulates swapping a fixed input amount. The input is
// first reduced by the input mint's transfer fee, the raw result's output is
// reduced by the output mint's transfer fee, and the slippage tolerance is
// applied to that final output. Hitting the price limit midway is a success
// with whatever filled; callers inspect Status for the partial case.
func SwapQuoteExactInput(
	pool *PoolFacade,
	tickArrays *TickArraySequence,
	amountIn *big.Int,
	aToB bool,
	sqrtPriceLimit *big.Int,
	slippageBps uint16,
	currentTimestamp uint64,
	inputTokenInfo, outputTokenInfo *helpers.TokenInfo,
	tokenADecimal, tokenBDecimal uint8,
) (*shared.SwapQuote, error) {
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, shared.ErrZeroTradableAmount
	}

	tradableIn := CalculateTransferFeeExcludedAmount(amountIn, inputTokenInfo).Amount
	if tradableIn.Sign() == 0 {
		return nil, shared.ErrZeroTradableAmount
	}

	result, err := ComputeSwap(tradableIn, pool.FeeRate, pool.ProtocolFeeRate, pool.Liquidity, pool.SqrtPrice, pool.TickCurrentIndex, sqrtPriceLimit, true, aToB, tickArrays, pool.AdaptiveFee, currentTimestamp)
	if err != nil {
		return nil, err
	}

	estimatedIn := CalculateTransferFeeIncludedAmount(result.AmountIn, inputTokenInfo).Amount
	estimatedOut := CalculateTransferFeeExcludedAmount(result.AmountOut, outputTokenInfo).Amount
	minimumOut := getAmountWithSlippage(estimatedOut, slippageBps, shared.SwapModeExactIn)

	priceImpact, _ := helpers.GetPriceImpact(estimatedIn, estimatedOut, pool.SqrtPrice, aToB, tokenADecimal, tokenBDecimal)

	return &shared.SwapQuote{
		SwapResult:                   *result,
		EstimatedAmountIn:            estimatedIn,
		EstimatedAmountOut:           estimatedOut,
		EstimatedFeeAmount:           result.TotalFee,
		OtherAmountThreshold:         minimumOut,
		TransferHookAccountsRequired: hasTransferHook(inputTokenInfo) || hasTransferHook(outputTokenInfo),
		PriceImpact:                  priceImpact,
	}, nil
}

// SwapQuoteExactOutput simulates swapping for a fixed output amount. The
// requested output is grossed up by the output mint's transfer fee before
// the simulation so the user nets the full request. Unlike the exact-input
// side, stopping short of the requested output is an error — unless the
// caller supplied an explicit sqrt-price limit, in which case stopping at
// that limit is an outcome they asked for and the partial fill is quoted.
func SwapQuoteExactOutput(
	pool *PoolFacade,
	tickArrays *TickArraySequence,
	amountOut *big.Int,
	aToB bool,
	sqrtPriceLimit *big.Int,
	slippageBps uint16,
	currentTimestamp uint64,
	inputTokenInfo, outputTokenInfo *helpers.TokenInfo,
	tokenADecimal, tokenBDecimal uint8,
) (*shared.SwapQuote, error) {
	if amountOut == nil || amountOut.Sign() <= 0 {
		return nil, shared.ErrZeroTradableAmount
	}

	requiredOut := CalculateTransferFeeIncludedAmount(amountOut, outputTokenInfo).Amount

	result, err := ComputeSwap(requiredOut, pool.FeeRate, pool.ProtocolFeeRate, pool.Liquidity, pool.SqrtPrice, pool.TickCurrentIndex, sqrtPriceLimit, false, aToB, tickArrays, pool.AdaptiveFee, currentTimestamp)
	if err != nil {
		return nil, err
	}
	explicitLimit := sqrtPriceLimit != nil && sqrtPriceLimit.Sign() != 0
	if result.Status != shared.SwapStatusFilled && !explicitLimit {
		return nil, shared.ErrPartialFill
	}

	estimatedIn := CalculateTransferFeeIncludedAmount(result.AmountIn, inputTokenInfo).Amount
	estimatedOut := CalculateTransferFeeExcludedAmount(result.AmountOut, outputTokenInfo).Amount
	maximumIn := getAmountWithSlippage(estimatedIn, slippageBps, shared.SwapModeExactOut)

	priceImpact, _ := helpers.GetPriceImpact(estimatedIn, estimatedOut, pool.SqrtPrice, aToB, tokenADecimal, tokenBDecimal)

	return &shared.SwapQuote{
		SwapResult:                   *result,
		EstimatedAmountIn:            estimatedIn,
		EstimatedAmountOut:           estimatedOut,
		EstimatedFeeAmount:           result.TotalFee,
		OtherAmountThreshold:         maximumIn,
		TransferHookAccountsRequired: hasTransferHook(inputTokenInfo) || hasTransferHook(outputTokenInfo),
		PriceImpact:                  priceImpact,
	}, nil
}

// IncreaseLiquidityQuoteByLiquidity converts a liquidity delta into token
// deposits with a slippage ceiling on each side. Token maxima are grossed
// up by each mint's transfer fee so the wire amount is what leaves the
// wallet.
func IncreaseLiquidityQuoteByLiquidity(
	liquidityDelta *big.Int,
	slippageBps uint16,
	currentSqrtPrice *big.Int,
	lowerTick, upperTick int32,
	tickSpacing uint16,
	tokenInfoA, tokenInfoB *helpers.TokenInfo,
) (*shared.IncreaseLiquidityQuote, error) {
	if err := ValidateTickRange(lowerTick, upperTick, tickSpacing); err != nil {
		return nil, err
	}
	if liquidityDelta == nil || liquidityDelta.Sign() <= 0 {
		return nil, shared.ErrZeroTradableAmount
	}

	lowerSqrt, err := TickToSqrtPrice(lowerTick)
	if err != nil {
		return nil, err
	}
	upperSqrt, err := TickToSqrtPrice(upperTick)
	if err != nil {
		return nil, err
	}

	rawA, rawB := GetTokenAmountsFromLiquidity(liquidityDelta, currentSqrtPrice, lowerSqrt, upperSqrt, true)

	estA := CalculateTransferFeeIncludedAmount(rawA, tokenInfoA).Amount
	estB := CalculateTransferFeeIncludedAmount(rawB, tokenInfoB).Amount

	return &shared.IncreaseLiquidityQuote{
		LiquidityDelta: new(big.Int).Set(liquidityDelta),
		TokenEstA:      estA,
		TokenEstB:      estB,
		TokenMaxA:      getAmountWithSlippage(estA, slippageBps, shared.SwapModeExactOut),
		TokenMaxB:      getAmountWithSlippage(estB, slippageBps, shared.SwapModeExactOut),
	}, nil
}

// DecreaseLiquidityQuoteByLiquidity converts a liquidity delta into token
// withdrawals with a slippage floor on each side. Estimates are net of each
// mint's transfer fee, which is what actually reaches the wallet.
func DecreaseLiquidityQuoteByLiquidity(
	liquidityDelta *big.Int,
	slippageBps uint16,
	currentSqrtPrice *big.Int,
	lowerTick, upperTick int32,
	tickSpacing uint16,
	tokenInfoA, tokenInfoB *helpers.TokenInfo,
) (*shared.DecreaseLiquidityQuote, error) {
	if err := ValidateTickRange(lowerTick, upperTick, tickSpacing); err != nil {
		return nil, err
	}
	if liquidityDelta == nil || liquidityDelta.Sign() <= 0 {
		return nil, shared.ErrZeroTradableAmount
	}

	lowerSqrt, err := TickToSqrtPrice(lowerTick)
	if err != nil {
		return nil, err
	}
	upperSqrt, err := TickToSqrtPrice(upperTick)
	if err != nil {
		return nil, err
	}

	rawA, rawB := GetTokenAmountsFromLiquidity(liquidityDelta, currentSqrtPrice, lowerSqrt, upperSqrt, false)

	estA := CalculateTransferFeeExcludedAmount(rawA, tokenInfoA).Amount
	estB := CalculateTransferFeeExcludedAmount(rawB, tokenInfoB).Amount

	return &shared.DecreaseLiquidityQuote{
		LiquidityDelta: new(big.Int).Set(liquidityDelta),
		TokenEstA:      estA,
		TokenEstB:      estB,
		TokenMinA:      getAmountWithSlippage(estA, slippageBps, shared.SwapModeExactIn),
		TokenMinB:      getAmountWithSlippage(estB, slippageBps, shared.SwapModeExactIn),
	}, nil
}

// IncreaseLiquidityQuoteByInputToken sizes the largest liquidity delta a
// single-token budget can fund at the current price, then quotes it.
func IncreaseLiquidityQuoteByInputToken(
	inputAmount *big.Int,
	inputIsTokenA bool,
	slippageBps uint16,
	currentSqrtPrice *big.Int,
	lowerTick, upperTick int32,
	tickSpacing uint16,
	tokenInfoA, tokenInfoB *helpers.TokenInfo,
) (*shared.IncreaseLiquidityQuote, error) {
	if err := ValidateTickRange(lowerTick, upperTick, tickSpacing); err != nil {
		return nil, err
	}
	if inputAmount == nil || inputAmount.Sign() <= 0 {
		return nil, shared.ErrZeroTradableAmount
	}

	lowerSqrt, err := TickToSqrtPrice(lowerTick)
	if err != nil {
		return nil, err
	}
	upperSqrt, err := TickToSqrtPrice(upperTick)
	if err != nil {
		return nil, err
	}

	// the budget is what survives the mint's transfer fee
	tradable := inputAmount
	if inputIsTokenA {
		tradable = CalculateTransferFeeExcludedAmount(inputAmount, tokenInfoA).Amount
	} else {
		tradable = CalculateTransferFeeExcludedAmount(inputAmount, tokenInfoB).Amount
	}

	var liquidity *big.Int
	if inputIsTokenA {
		if currentSqrtPrice.Cmp(upperSqrt) >= 0 {
			return nil, shared.ErrZeroTradableAmount
		}
		start := currentSqrtPrice
		if start.Cmp(lowerSqrt) < 0 {
			start = lowerSqrt
		}
		liquidity = GetLiquidityFromTokenA(tradable, start, upperSqrt)
	} else {
		if currentSqrtPrice.Cmp(lowerSqrt) <= 0 {
			return nil, shared.ErrZeroTradableAmount
		}
		end := currentSqrtPrice
		if end.Cmp(upperSqrt) > 0 {
			end = upperSqrt
		}
		liquidity = GetLiquidityFromTokenB(tradable, lowerSqrt, end)
	}
	if liquidity.Sign() == 0 {
		return nil, shared.ErrZeroTradableAmount
	}

	return IncreaseLiquidityQuoteByLiquidity(liquidity, slippageBps, currentSqrtPrice, lowerTick, upperTick, tickSpacing, tokenInfoA, tokenInfoB)
}

// ValidateQuoteThreshold re-checks a quote against a threshold the caller
// pinned from an earlier quote. Exact-in compares the estimated output
// against a minimum; exact-out compares the estimated input against a
// maximum. A violation means the market moved and the caller should quote
// again against fresh state.
func ValidateQuoteThreshold(quote *shared.SwapQuote, threshold *big.Int, swapMode shared.SwapMode) error {
	if threshold == nil {
		return nil
	}
	if swapMode == shared.SwapModeExactIn {
		if quote.EstimatedAmountOut.Cmp(threshold) < 0 {
			return shared.ErrSlippageExceeded
		}
		return nil
	}
	if quote.EstimatedAmountIn.Cmp(threshold) > 0 {
		return shared.ErrSlippageExceeded
	}
	return nil
}

func getAmountWithSlippage(amount *big.Int, slippageBps uint16, swapMode shared.SwapMode) *big.Int {
	if slippageBps == 0 {
		return new(big.Int).Set(amount)
	}
	if swapMode == shared.SwapModeExactOut {
		factor := new(big.Int).Add(big.NewInt(shared.BasisPointMax), big.NewInt(int64(slippageBps)))
		return new(big.Int).Div(new(big.Int).Mul(amount, factor), big.NewInt(shared.BasisPointMax))
	}
	factor := new(big.Int).Sub(big.NewInt(shared.BasisPointMax), big.NewInt(int64(slippageBps)))
	return new(big.Int).Div(new(big.Int).Mul(amount, factor), big.NewInt(shared.BasisPointMax))
}

func hasTransferHook(info *helpers.TokenInfo) bool {
	return info != nil && info.HasTransferHook
}
