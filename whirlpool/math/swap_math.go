package math

import (
	"fmt"
	"math/big"

	"github.com/krazyTry/whirlpool-go/whirlpool/shared"
)

type swapStep struct {
	amountIn      *big.Int
	amountOut     *big.Int
	feeAmount     *big.Int
	nextSqrtPrice *big.Int
}

// getAmountDelta selects the token-A or token-B segment amount. The input
// token of a trade is A when trading A to B; the output token is the other.
func getAmountDelta(sqrtPrice0, sqrtPrice1, liquidity *big.Int, isTokenA bool, rounding shared.Rounding) *big.Int {
	if isTokenA {
		return GetAmountADeltaForPriceRange(sqrtPrice0, sqrtPrice1, liquidity, rounding)
	}
	return GetAmountBDeltaForPriceRange(sqrtPrice0, sqrtPrice1, liquidity, rounding)
}

// computeSwapStep advances one price segment at constant liquidity. The fee
// is taken from the input side: for an exact-input step that fully consumes
// the remaining amount the fee is the untraded remainder, otherwise it is
// grossed up from the consumed input, always rounding in the pool's favor.
func computeSwapStep(amountRemaining *big.Int, feeRate uint32, liquidity, sqrtPrice, targetSqrtPrice *big.Int, amountSpecifiedIsInput, aToB bool) (swapStep, error) {
	inputIsA := aToB
	feeComplement := big.NewInt(int64(shared.FeeRateDenominator - int64(feeRate)))

	var step swapStep
	if amountSpecifiedIsInput {
		lessFee := MulDiv(amountRemaining, feeComplement, big.NewInt(shared.FeeRateDenominator), shared.RoundingDown)
		fixedDelta := getAmountDelta(sqrtPrice, targetSqrtPrice, liquidity, inputIsA, shared.RoundingUp)

		isMaxSwap := lessFee.Cmp(fixedDelta) >= 0
		var next *big.Int
		var err error
		if isMaxSwap {
			next = new(big.Int).Set(targetSqrtPrice)
		} else {
			next, err = GetNextSqrtPriceFromInput(sqrtPrice, liquidity, lessFee, aToB)
			if err != nil {
				return swapStep{}, err
			}
		}

		step.nextSqrtPrice = next
		step.amountIn = getAmountDelta(sqrtPrice, next, liquidity, inputIsA, shared.RoundingUp)
		step.amountOut = getAmountDelta(sqrtPrice, next, liquidity, !inputIsA, shared.RoundingDown)
		if isMaxSwap {
			step.feeAmount = MulDiv(step.amountIn, big.NewInt(int64(feeRate)), feeComplement, shared.RoundingUp)
		} else {
			// the whole remainder is consumed; whatever the curve did not
			// absorb is the fee
			step.feeAmount = new(big.Int).Sub(amountRemaining, step.amountIn)
		}
		return step, nil
	}

	fixedDelta := getAmountDelta(sqrtPrice, targetSqrtPrice, liquidity, !inputIsA, shared.RoundingDown)
	isMaxSwap := amountRemaining.Cmp(fixedDelta) >= 0
	var next *big.Int
	var err error
	if isMaxSwap {
		next = new(big.Int).Set(targetSqrtPrice)
	} else {
		next, err = GetNextSqrtPriceFromOutput(sqrtPrice, liquidity, amountRemaining, aToB)
		if err != nil {
			return swapStep{}, err
		}
	}

	step.nextSqrtPrice = next
	step.amountOut = getAmountDelta(sqrtPrice, next, liquidity, !inputIsA, shared.RoundingDown)
	if step.amountOut.Cmp(amountRemaining) > 0 {
		step.amountOut = new(big.Int).Set(amountRemaining)
	}
	step.amountIn = getAmountDelta(sqrtPrice, next, liquidity, inputIsA, shared.RoundingUp)
	step.feeAmount = MulDiv(step.amountIn, big.NewInt(int64(feeRate)), feeComplement, shared.RoundingUp)
	return step, nil
}

// ComputeSwap runs the swap simulation across initialized ticks until the
// requested amount is consumed, the sqrt-price limit is reached, or active
// liquidity runs out at the edge of the tick domain.
//
// A zero sqrtPriceLimit selects the protocol bound in trade direction. A
// limit on the wrong side of the current price clamps to the current price,
// so the swap terminates immediately with an empty fill.
//
// When adaptiveFee is non-nil the fee rate of every step is the base rate
// plus the volatility surcharge, with the accumulator advanced per tick
// group traversed; the updated variables are returned on the result.
func ComputeSwap(
	amount *big.Int,
	feeRate uint32,
	protocolFeeRate uint16,
	liquidity *big.Int,
	sqrtPrice *big.Int,
	currentTickIndex int32,
	sqrtPriceLimit *big.Int,
	amountSpecifiedIsInput bool,
	aToB bool,
	tickArrays *TickArraySequence,
	adaptiveFee *shared.AdaptiveFeeInfo,
	currentTimestamp uint64,
) (*shared.SwapResult, error) {
	if amount == nil || amount.Sign() == 0 {
		return nil, shared.ErrZeroTradableAmount
	}

	limit := sqrtPriceLimit
	if limit == nil || limit.Sign() == 0 {
		if aToB {
			limit = shared.MinSqrtPrice
		} else {
			limit = shared.MaxSqrtPrice
		}
	}
	if limit.Cmp(shared.MinSqrtPrice) < 0 || limit.Cmp(shared.MaxSqrtPrice) > 0 {
		return nil, fmt.Errorf("sqrt price limit %v: %w", limit, shared.ErrSqrtPriceOutOfBounds)
	}
	if (aToB && limit.Cmp(sqrtPrice) > 0) || (!aToB && limit.Cmp(sqrtPrice) < 0) {
		limit = sqrtPrice
	}

	var (
		vars      *shared.AdaptiveFeeVariables
		consts    *shared.AdaptiveFeeConstants
		tickGroup int32
	)
	if adaptiveFee != nil {
		v := adaptiveFee.Variables
		vars = &v
		consts = &adaptiveFee.Constants
		tickGroup = TickGroupIndex(currentTickIndex, consts.TickGroupSize)
		UpdateReference(vars, consts, tickGroup, currentTimestamp)
		UpdateVolatilityAccumulator(vars, consts, tickGroup)
	}

	remaining := new(big.Int).Set(amount)
	curSqrtPrice := new(big.Int).Set(sqrtPrice)
	curTick := currentTickIndex
	curLiquidity := new(big.Int).Set(liquidity)

	result := &shared.SwapResult{
		AmountIn:    big.NewInt(0),
		AmountOut:   big.NewInt(0),
		TotalFee:    big.NewInt(0),
		ProtocolFee: big.NewInt(0),
		Status:      shared.SwapStatusFilled,
	}

	for remaining.Sign() > 0 && curSqrtPrice.Cmp(limit) != 0 {
		nextTickIndex, nextTick, err := tickArrays.NextInitializedTick(curTick, aToB)
		if err != nil {
			return nil, err
		}

		nextTickSqrtPrice, err := TickToSqrtPrice(nextTickIndex)
		if err != nil {
			return nil, err
		}

		target := nextTickSqrtPrice
		if aToB && target.Cmp(limit) < 0 {
			target = limit
		} else if !aToB && target.Cmp(limit) > 0 {
			target = limit
		}

		// bound the segment at the tick-group edge so volatility accrues
		// group by group
		groupBounded := false
		if consts != nil {
			edge, err := tickGroupEdgeSqrtPrice(tickGroup, consts.TickGroupSize, aToB)
			if err == nil {
				if aToB && edge.Cmp(target) > 0 && edge.Cmp(curSqrtPrice) < 0 {
					target = edge
					groupBounded = true
				} else if !aToB && edge.Cmp(target) < 0 && edge.Cmp(curSqrtPrice) > 0 {
					target = edge
					groupBounded = true
				}
			}
		}

		if curLiquidity.Sign() == 0 {
			// no active liquidity in this range; the price slides to the
			// target without moving any tokens
			curSqrtPrice = new(big.Int).Set(target)
		} else {
			stepFeeRate := feeRate
			if vars != nil {
				stepFeeRate = TotalFeeRate(feeRate, vars, consts)
			}
			step, err := computeSwapStep(remaining, stepFeeRate, curLiquidity, curSqrtPrice, target, amountSpecifiedIsInput, aToB)
			if err != nil {
				return nil, err
			}

			if amountSpecifiedIsInput {
				remaining.Sub(remaining, step.amountIn)
				remaining.Sub(remaining, step.feeAmount)
			} else {
				remaining.Sub(remaining, step.amountOut)
			}
			if remaining.Sign() < 0 {
				remaining.SetInt64(0)
			}

			result.AmountIn.Add(result.AmountIn, step.amountIn)
			result.AmountIn.Add(result.AmountIn, step.feeAmount)
			result.AmountOut.Add(result.AmountOut, step.amountOut)
			result.TotalFee.Add(result.TotalFee, step.feeAmount)
			result.ProtocolFee.Add(result.ProtocolFee, CalculateProtocolFee(step.feeAmount, protocolFeeRate))
			result.AppliedFeeRate = stepFeeRate
			curSqrtPrice = step.nextSqrtPrice
		}

		reachedTickBoundary := curSqrtPrice.Cmp(nextTickSqrtPrice) == 0 && target.Cmp(nextTickSqrtPrice) == 0
		switch {
		case reachedTickBoundary:
			if nextTick != nil {
				// crossing an initialized tick flips its net liquidity in
				// or out of range
				if aToB {
					curLiquidity.Sub(curLiquidity, nextTick.LiquidityNet)
				} else {
					curLiquidity.Add(curLiquidity, nextTick.LiquidityNet)
				}
				if curLiquidity.Sign() < 0 {
					return nil, shared.ErrLiquidityOverflow
				}
				result.TicksCrossed++
			} else if remaining.Sign() > 0 && curSqrtPrice.Cmp(limit) != 0 {
				if nextTickIndex > shared.MinTickIndex && nextTickIndex < shared.MaxTickIndex {
					// the supplied windows end here but the swap still has
					// amount to trade
					return nil, shared.ErrTickArraySequenceInvalid
				}
				// ran off the tick domain with amount left over
				result.Status = shared.SwapStatusNoLiquidity
				result.NextTickIndex = nextTickIndex
				result.NextSqrtPrice = curSqrtPrice
				result.NextAdaptiveFee = vars
				return result, nil
			}
			if aToB {
				curTick = nextTickIndex - 1
			} else {
				curTick = nextTickIndex
			}
		case curSqrtPrice.Cmp(sqrtPrice) != 0:
			curTick, err = SqrtPriceToTick(curSqrtPrice)
			if err != nil {
				return nil, err
			}
		}

		if groupBounded && curSqrtPrice.Cmp(target) == 0 {
			if aToB {
				tickGroup--
			} else {
				tickGroup++
			}
			UpdateVolatilityAccumulator(vars, consts, tickGroup)
		}
	}

	if remaining.Sign() > 0 {
		result.Status = shared.SwapStatusLimitReached
	}
	result.NextTickIndex = curTick
	result.NextSqrtPrice = curSqrtPrice
	result.NextAdaptiveFee = vars
	return result, nil
}

// tickGroupEdgeSqrtPrice is the sqrt price of the far edge of a tick group
// in trade direction, clamped to the tick domain.
func tickGroupEdgeSqrtPrice(tickGroup int32, tickGroupSize uint16, aToB bool) (*big.Int, error) {
	var edgeTick int32
	if aToB {
		edgeTick = tickGroup * int32(tickGroupSize)
	} else {
		edgeTick = (tickGroup + 1) * int32(tickGroupSize)
	}
	if edgeTick < shared.MinTickIndex {
		edgeTick = shared.MinTickIndex
	}
	if edgeTick > shared.MaxTickIndex {
		edgeTick = shared.MaxTickIndex
	}
	return TickToSqrtPrice(edgeTick)
}
