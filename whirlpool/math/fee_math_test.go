package math

import (
	"math/big"
	"testing"

	"github.com/krazyTry/whirlpool-go/whirlpool/shared"
)

func testAdaptiveConstants() *shared.AdaptiveFeeConstants {
	return &shared.AdaptiveFeeConstants{
		FilterPeriod:             30,
		DecayPeriod:              600,
		ReductionFactor:          5000,
		AdaptiveFeeControlFactor: 1000,
		MaxVolatilityAccumulator: 350_000,
		TickGroupSize:            64,
	}
}

func TestCalculateProtocolFee(t *testing.T) {
	fee := CalculateProtocolFee(big.NewInt(1000), 300)
	if fee.Int64() != 30 {
		t.Fatalf("protocol fee = %v, want 30", fee)
	}
	// truncation favors liquidity providers
	fee = CalculateProtocolFee(big.NewInt(33), 300)
	if fee.Int64() != 0 {
		t.Fatalf("protocol fee = %v, want 0", fee)
	}
	fee = CalculateProtocolFee(big.NewInt(1000), 0)
	if fee.Sign() != 0 {
		t.Fatalf("protocol fee = %v, want 0", fee)
	}
}

func TestUpdateReferenceWithinFilterPeriod(t *testing.T) {
	constants := testAdaptiveConstants()
	variables := &shared.AdaptiveFeeVariables{
		LastReferenceUpdateTimestamp: 1000,
		TickGroupIndexReference:      5,
		VolatilityReference:          7000,
		VolatilityAccumulator:        20_000,
	}
	UpdateReference(variables, constants, 9, 1010)
	if variables.TickGroupIndexReference != 5 || variables.VolatilityReference != 7000 {
		t.Fatalf("reference changed inside filter period: %+v", variables)
	}
	if variables.LastReferenceUpdateTimestamp != 1000 {
		t.Fatal("timestamp must not move inside filter period")
	}
}

func TestUpdateReferenceDecays(t *testing.T) {
	constants := testAdaptiveConstants()
	variables := &shared.AdaptiveFeeVariables{
		LastReferenceUpdateTimestamp: 1000,
		TickGroupIndexReference:      5,
		VolatilityAccumulator:        20_000,
	}
	UpdateReference(variables, constants, 9, 1100)
	if variables.TickGroupIndexReference != 9 {
		t.Fatalf("tick group reference = %d", variables.TickGroupIndexReference)
	}
	// 20000 * 5000 / 10000
	if variables.VolatilityReference != 10_000 {
		t.Fatalf("volatility reference = %d", variables.VolatilityReference)
	}
	if variables.LastReferenceUpdateTimestamp != 1100 {
		t.Fatal("timestamp not updated")
	}
}

func TestUpdateReferenceResets(t *testing.T) {
	constants := testAdaptiveConstants()
	variables := &shared.AdaptiveFeeVariables{
		LastReferenceUpdateTimestamp: 1000,
		VolatilityAccumulator:        20_000,
		VolatilityReference:          9000,
	}
	UpdateReference(variables, constants, 3, 2000)
	if variables.VolatilityReference != 0 {
		t.Fatalf("volatility reference = %d, want 0", variables.VolatilityReference)
	}
}

func TestUpdateVolatilityAccumulator(t *testing.T) {
	constants := testAdaptiveConstants()
	variables := &shared.AdaptiveFeeVariables{VolatilityReference: 5000, TickGroupIndexReference: 0}

	UpdateVolatilityAccumulator(variables, constants, 2)
	if variables.VolatilityAccumulator != 25_000 {
		t.Fatalf("accumulator = %d, want 25000", variables.VolatilityAccumulator)
	}

	// distance is absolute
	UpdateVolatilityAccumulator(variables, constants, -2)
	if variables.VolatilityAccumulator != 25_000 {
		t.Fatalf("accumulator = %d, want 25000", variables.VolatilityAccumulator)
	}

	UpdateVolatilityAccumulator(variables, constants, 1_000_000)
	if variables.VolatilityAccumulator != constants.MaxVolatilityAccumulator {
		t.Fatalf("accumulator = %d, want capped at %d", variables.VolatilityAccumulator, constants.MaxVolatilityAccumulator)
	}
}

func TestComputeAdaptiveFeeRate(t *testing.T) {
	constants := testAdaptiveConstants()
	variables := &shared.AdaptiveFeeVariables{VolatilityAccumulator: 10_000}

	// ceil(1000 * (10000*64)^2 / (1e5 * 1e4 * 1e4)) = ceil(40.96) = 41
	rate := ComputeAdaptiveFeeRate(variables, constants)
	if rate != 41 {
		t.Fatalf("adaptive fee rate = %d, want 41", rate)
	}

	variables.VolatilityAccumulator = constants.MaxVolatilityAccumulator
	constants.AdaptiveFeeControlFactor = 100_000
	if rate := ComputeAdaptiveFeeRate(variables, constants); rate != shared.FeeRateHardLimit {
		t.Fatalf("adaptive fee rate = %d, want hard limit", rate)
	}
}

func TestTotalFeeRateClamped(t *testing.T) {
	constants := testAdaptiveConstants()
	constants.AdaptiveFeeControlFactor = 100_000
	variables := &shared.AdaptiveFeeVariables{VolatilityAccumulator: constants.MaxVolatilityAccumulator}

	if got := TotalFeeRate(90_000, variables, constants); got != shared.FeeRateHardLimit {
		t.Fatalf("total fee rate = %d, want %d", got, shared.FeeRateHardLimit)
	}
	if got := TotalFeeRate(3000, nil, nil); got != 3000 {
		t.Fatalf("total fee rate without adaptive state = %d", got)
	}
}
