package math

import (
	"fmt"
	"math/big"

	"github.com/krazyTry/whirlpool-go/whirlpool/shared"
)

// PositionFacade is the slice of position state accrual math reads.
type PositionFacade struct {
	Liquidity            *big.Int
	TickLowerIndex       int32
	TickUpperIndex       int32
	FeeGrowthCheckpointA *big.Int
	FeeGrowthCheckpointB *big.Int
	FeeOwedA             uint64
	FeeOwedB             uint64
	RewardInfos          [shared.NumRewards]PositionRewardFacade
}

type PositionRewardFacade struct {
	GrowthInsideCheckpoint *big.Int
	AmountOwed             uint64
}

// PoolRewardFacade is one of the pool's reward emission slots.
type PoolRewardFacade struct {
	EmissionsPerSecondX64 *big.Int
	GrowthGlobalX64       *big.Int
}

func (r PoolRewardFacade) Initialized() bool {
	return r.EmissionsPerSecondX64 != nil && r.EmissionsPerSecondX64.Sign() != 0
}

// ValidateTickRange checks ordering, spacing alignment and domain bounds for
// a position's tick pair.
func ValidateTickRange(lowerTick, upperTick int32, tickSpacing uint16) error {
	if lowerTick >= upperTick {
		return fmt.Errorf("lower %d upper %d: %w", lowerTick, upperTick, shared.ErrInvalidTickRange)
	}
	if lowerTick < shared.MinTickIndex || upperTick > shared.MaxTickIndex {
		return fmt.Errorf("lower %d upper %d: %w", lowerTick, upperTick, shared.ErrInvalidTickRange)
	}
	if !IsTickInitializable(lowerTick, tickSpacing) || !IsTickInitializable(upperTick, tickSpacing) {
		return fmt.Errorf("ticks not aligned to spacing %d: %w", tickSpacing, shared.ErrInvalidTickRange)
	}
	return nil
}

// GetLiquidityFromTokenA is the liquidity a token-A amount buys over a price
// range: L = Δa · √Pl · √Pu / ((√Pu − √Pl) · 2^64), truncated.
func GetLiquidityFromTokenA(amount, sqrtPriceLower, sqrtPriceUpper *big.Int) *big.Int {
	lower, upper := orderSqrtPrices(sqrtPriceLower, sqrtPriceUpper)
	if upper.Cmp(lower) == 0 {
		return big.NewInt(0)
	}
	numerator := new(big.Int).Mul(amount, lower)
	numerator.Mul(numerator, upper)
	denominator := new(big.Int).Sub(upper, lower)
	denominator.Lsh(denominator, shared.ScaleOffset)
	return MulDiv(numerator, big.NewInt(1), denominator, shared.RoundingDown)
}

// GetLiquidityFromTokenB: L = Δb · 2^64 / (√Pu − √Pl), truncated.
func GetLiquidityFromTokenB(amount, sqrtPriceLower, sqrtPriceUpper *big.Int) *big.Int {
	lower, upper := orderSqrtPrices(sqrtPriceLower, sqrtPriceUpper)
	if upper.Cmp(lower) == 0 {
		return big.NewInt(0)
	}
	numerator := new(big.Int).Lsh(amount, shared.ScaleOffset)
	return MulDiv(numerator, big.NewInt(1), new(big.Int).Sub(upper, lower), shared.RoundingDown)
}

// GetTokenAmountsFromLiquidity converts a liquidity delta into token
// amounts given where the current price sits relative to the range. Deposits
// round up (the pool never undercollects), withdrawals round down.
func GetTokenAmountsFromLiquidity(liquidityDelta, currentSqrtPrice, sqrtPriceLower, sqrtPriceUpper *big.Int, roundUp bool) (tokenA, tokenB *big.Int) {
	rounding := shared.RoundingDown
	if roundUp {
		rounding = shared.RoundingUp
	}
	lower, upper := orderSqrtPrices(sqrtPriceLower, sqrtPriceUpper)

	switch {
	case currentSqrtPrice.Cmp(lower) < 0:
		// price below the range: the position is entirely token A
		tokenA = GetAmountADeltaForPriceRange(lower, upper, liquidityDelta, rounding)
		tokenB = big.NewInt(0)
	case currentSqrtPrice.Cmp(upper) < 0:
		// price inside the range: token A above the price, B below
		tokenA = GetAmountADeltaForPriceRange(currentSqrtPrice, upper, liquidityDelta, rounding)
		tokenB = GetAmountBDeltaForPriceRange(lower, currentSqrtPrice, liquidityDelta, rounding)
	default:
		// price above the range: entirely token B
		tokenA = big.NewInt(0)
		tokenB = GetAmountBDeltaForPriceRange(lower, upper, liquidityDelta, rounding)
	}
	return tokenA, tokenB
}

// GetLiquidityFromTokenAmounts is the maximum liquidity both token amounts
// can fund at the current price, the inverse of the conversion above.
func GetLiquidityFromTokenAmounts(amountA, amountB, currentSqrtPrice, sqrtPriceLower, sqrtPriceUpper *big.Int) *big.Int {
	lower, upper := orderSqrtPrices(sqrtPriceLower, sqrtPriceUpper)

	switch {
	case currentSqrtPrice.Cmp(lower) < 0:
		return GetLiquidityFromTokenA(amountA, lower, upper)
	case currentSqrtPrice.Cmp(upper) < 0:
		liqA := GetLiquidityFromTokenA(amountA, currentSqrtPrice, upper)
		liqB := GetLiquidityFromTokenB(amountB, lower, currentSqrtPrice)
		if liqA.Cmp(liqB) < 0 {
			return liqA
		}
		return liqB
	default:
		return GetLiquidityFromTokenB(amountB, lower, upper)
	}
}

// wrapping u128 arithmetic; fee and reward growth counters wrap on chain
func wrapSubU128(a, b *big.Int) *big.Int {
	out := new(big.Int).Sub(a, b)
	if out.Sign() < 0 {
		out.Add(out, new(big.Int).Lsh(big.NewInt(1), 128))
	}
	return out
}

func wrapAddU128(a, b *big.Int) *big.Int {
	out := new(big.Int).Add(a, b)
	return out.And(out, shared.MaxU128)
}

// growthInside reconstructs the per-liquidity growth accumulated strictly
// inside [lowerIdx, upperIdx) from the global counter and the two boundary
// checkpoints.
func growthInside(currentTick, lowerIdx, upperIdx int32, global, lowerOutside, upperOutside *big.Int) *big.Int {
	var below *big.Int
	if currentTick >= lowerIdx {
		below = lowerOutside
	} else {
		below = wrapSubU128(global, lowerOutside)
	}

	var above *big.Int
	if currentTick < upperIdx {
		above = upperOutside
	} else {
		above = wrapSubU128(global, upperOutside)
	}

	return wrapSubU128(wrapSubU128(global, below), above)
}

// CollectFeesQuote is the fee amounts the position could collect now:
// the already-materialized owed amounts plus growth since the position's
// checkpoints, floored per token.
func CollectFeesQuote(pos *PositionFacade, currentTick int32, feeGrowthGlobalA, feeGrowthGlobalB *big.Int, lowerTick, upperTick *Tick) *shared.CollectFeesQuote {
	insideA := growthInside(currentTick, pos.TickLowerIndex, pos.TickUpperIndex, feeGrowthGlobalA, lowerTick.FeeGrowthOutsideA, upperTick.FeeGrowthOutsideA)
	insideB := growthInside(currentTick, pos.TickLowerIndex, pos.TickUpperIndex, feeGrowthGlobalB, lowerTick.FeeGrowthOutsideB, upperTick.FeeGrowthOutsideB)

	deltaA := wrapSubU128(insideA, pos.FeeGrowthCheckpointA)
	deltaB := wrapSubU128(insideB, pos.FeeGrowthCheckpointB)

	owedA := new(big.Int).Mul(deltaA, pos.Liquidity)
	owedA.Rsh(owedA, shared.ScaleOffset)
	owedA.Add(owedA, new(big.Int).SetUint64(pos.FeeOwedA))

	owedB := new(big.Int).Mul(deltaB, pos.Liquidity)
	owedB.Rsh(owedB, shared.ScaleOffset)
	owedB.Add(owedB, new(big.Int).SetUint64(pos.FeeOwedB))

	return &shared.CollectFeesQuote{FeeOwedA: owedA, FeeOwedB: owedB}
}

// CollectRewardsQuote extrapolates each reward slot's global growth from the
// pool's last update to currentTimestamp, then settles the position against
// it the same way fees settle.
func CollectRewardsQuote(
	pos *PositionFacade,
	currentTick int32,
	lowerTick, upperTick *Tick,
	rewards [shared.NumRewards]PoolRewardFacade,
	poolLiquidity *big.Int,
	lastUpdatedTimestamp, currentTimestamp uint64,
) *shared.CollectRewardsQuote {
	out := &shared.CollectRewardsQuote{}

	var timestampDelta uint64
	if currentTimestamp > lastUpdatedTimestamp {
		timestampDelta = currentTimestamp - lastUpdatedTimestamp
	}

	for i := 0; i < shared.NumRewards; i++ {
		if !rewards[i].Initialized() {
			out.RewardsOwed[i] = big.NewInt(0)
			continue
		}

		global := rewards[i].GrowthGlobalX64
		if global == nil {
			global = big.NewInt(0)
		}
		if timestampDelta > 0 && poolLiquidity != nil && poolLiquidity.Sign() > 0 {
			accrued := new(big.Int).SetUint64(timestampDelta)
			accrued.Mul(accrued, rewards[i].EmissionsPerSecondX64)
			accrued.Div(accrued, poolLiquidity)
			global = wrapAddU128(new(big.Int).Set(global), accrued)
		}

		inside := growthInside(currentTick, pos.TickLowerIndex, pos.TickUpperIndex, global, lowerTick.RewardGrowthsOutside[i], upperTick.RewardGrowthsOutside[i])
		delta := wrapSubU128(inside, pos.RewardInfos[i].GrowthInsideCheckpoint)

		owed := new(big.Int).Mul(delta, pos.Liquidity)
		owed.Rsh(owed, shared.ScaleOffset)
		owed.Add(owed, new(big.Int).SetUint64(pos.RewardInfos[i].AmountOwed))
		out.RewardsOwed[i] = owed
	}
	return out
}
