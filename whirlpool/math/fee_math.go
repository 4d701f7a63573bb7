package math

import (
	"math/big"

	"github.com/krazyTry/whirlpool-go/whirlpool/shared"
)

// CalculateProtocolFee splits the protocol share out of a collected fee.
// The share truncates; the remainder stays with liquidity providers.
func CalculateProtocolFee(feeAmount *big.Int, protocolFeeRate uint16) *big.Int {
	fee := new(big.Int).Mul(feeAmount, big.NewInt(int64(protocolFeeRate)))
	return fee.Div(fee, big.NewInt(shared.ProtocolFeeRateDenominator))
}

// UpdateReference refreshes the volatility reference ahead of a swap. Within
// the filter period the previous references stand unchanged. Between the
// filter and decay periods the accumulator decays into the reference through
// the reduction factor. Past the decay period volatility resets entirely.
func UpdateReference(variables *shared.AdaptiveFeeVariables, constants *shared.AdaptiveFeeConstants, tickGroupIndex int32, currentTimestamp uint64) {
	if currentTimestamp < variables.LastReferenceUpdateTimestamp {
		return
	}
	elapsed := currentTimestamp - variables.LastReferenceUpdateTimestamp
	switch {
	case elapsed < uint64(constants.FilterPeriod):
		// high-frequency trades keep the prior reference
	case elapsed < uint64(constants.DecayPeriod):
		variables.TickGroupIndexReference = tickGroupIndex
		variables.VolatilityReference = uint32(uint64(variables.VolatilityAccumulator) * uint64(constants.ReductionFactor) / shared.ReductionFactorDenominator)
		variables.LastReferenceUpdateTimestamp = currentTimestamp
	default:
		variables.TickGroupIndexReference = tickGroupIndex
		variables.VolatilityReference = 0
		variables.LastReferenceUpdateTimestamp = currentTimestamp
	}
}

// UpdateVolatilityAccumulator charges the accumulator for the distance the
// current tick group has moved away from the reference, capped at the pool's
// configured maximum.
func UpdateVolatilityAccumulator(variables *shared.AdaptiveFeeVariables, constants *shared.AdaptiveFeeConstants, tickGroupIndex int32) {
	delta := tickGroupIndex - variables.TickGroupIndexReference
	if delta < 0 {
		delta = -delta
	}
	accumulator := uint64(variables.VolatilityReference) + uint64(delta)*shared.VolatilityAccumulatorScaleFactor
	if accumulator > uint64(constants.MaxVolatilityAccumulator) {
		accumulator = uint64(constants.MaxVolatilityAccumulator)
	}
	variables.VolatilityAccumulator = uint32(accumulator)
}

// ComputeAdaptiveFeeRate converts the accumulated volatility into a fee
// surcharge: ceil(controlFactor * (volatility * tickGroupSize)^2 / scale),
// never exceeding the hard fee limit.
func ComputeAdaptiveFeeRate(variables *shared.AdaptiveFeeVariables, constants *shared.AdaptiveFeeConstants) uint64 {
	crossed := new(big.Int).SetUint64(uint64(variables.VolatilityAccumulator))
	crossed.Mul(crossed, big.NewInt(int64(constants.TickGroupSize)))
	squared := new(big.Int).Mul(crossed, crossed)
	squared.Mul(squared, big.NewInt(int64(constants.AdaptiveFeeControlFactor)))

	denominator := new(big.Int).SetUint64(shared.AdaptiveFeeControlFactorDenominator)
	denominator.Mul(denominator, big.NewInt(shared.VolatilityAccumulatorScaleFactor))
	denominator.Mul(denominator, big.NewInt(shared.VolatilityAccumulatorScaleFactor))

	rate := MulDiv(squared, big.NewInt(1), denominator, shared.RoundingUp)
	if rate.Cmp(big.NewInt(shared.FeeRateHardLimit)) > 0 {
		return shared.FeeRateHardLimit
	}
	return rate.Uint64()
}

// TotalFeeRate is the base fee rate plus the adaptive surcharge, clamped to
// the hard limit the program enforces on chain.
func TotalFeeRate(baseFeeRate uint32, variables *shared.AdaptiveFeeVariables, constants *shared.AdaptiveFeeConstants) uint32 {
	if constants == nil || variables == nil {
		return baseFeeRate
	}
	total := uint64(baseFeeRate) + ComputeAdaptiveFeeRate(variables, constants)
	if total > shared.FeeRateHardLimit {
		return shared.FeeRateHardLimit
	}
	return uint32(total)
}
