package shared

import "math/big"

const (
	// MinTickIndex and MaxTickIndex bound the usable tick domain.
	MinTickIndex = -443636
	MaxTickIndex = 443636

	// TickArraySize is the number of tick slots per tick-array account.
	TickArraySize = 88

	// NumRewards is the number of reward slots a pool carries.
	NumRewards = 3

	// FeeRateDenominator scales the pool fee rate (hundredths of a bp).
	FeeRateDenominator = 1_000_000

	// ProtocolFeeRateDenominator scales the protocol fee rate (bps).
	ProtocolFeeRateDenominator = 10_000

	// FeeRateHardLimit caps base + adaptive fee at 10%.
	FeeRateHardLimit = 100_000

	// VolatilityAccumulatorScaleFactor scales tick-group distances into
	// the volatility accumulator.
	VolatilityAccumulatorScaleFactor = 10_000

	// AdaptiveFeeControlFactorDenominator scales the control factor.
	AdaptiveFeeControlFactorDenominator = 100_000

	// ReductionFactorDenominator scales the volatility reduction factor.
	ReductionFactorDenominator = 10_000

	BasisPointMax = 10_000

	ScaleOffset = 64
)

var (
	// MinSqrtPrice and MaxSqrtPrice are the program's published Q64.64
	// bounds, matching the tick domain above.
	MinSqrtPrice = big.NewInt(4295048016)
	MaxSqrtPrice = mustBig("79226673515401279992447579055")

	OneQ64  = new(big.Int).Lsh(big.NewInt(1), ScaleOffset)
	MaxU64  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 64), big.NewInt(1))
	MaxU128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
)

func mustBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("shared: bad integer literal " + s)
	}
	return v
}

// FullTickArraySpan is the tick distance covered by one tick array.
func FullTickArraySpan(tickSpacing uint16) int32 {
	return int32(tickSpacing) * TickArraySize
}
