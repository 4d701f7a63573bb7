package state

import (
	"encoding/binary"
	"fmt"

	solanago "github.com/gagliardetto/solana-go"

	"github.com/krazyTry/whirlpool-go/whirlpool/shared"
)

const (
	adaptiveFeeConstantsSize = 2 + 2 + 2 + 4 + 4 + 2 + 2 + 16
	adaptiveFeeVariablesSize = 8 + 8 + 4 + 4 + 4 + 16

	// OracleMinSize covers the fields the quote engine reads; the account
	// trails reserved bytes that may grow with program upgrades.
	OracleMinSize = accountDiscriminatorSize + 32 + 8 + adaptiveFeeConstantsSize + adaptiveFeeVariablesSize
)

// Oracle carries a pool's adaptive-fee state. Pools on a static fee tier
// have no oracle account.
type Oracle struct {
	Whirlpool            solanago.PublicKey
	TradeEnableTimestamp uint64

	FilterPeriod             uint16
	DecayPeriod              uint16
	ReductionFactor          uint16
	AdaptiveFeeControlFactor uint32
	MaxVolatilityAccumulator uint32
	TickGroupSize            uint16
	MajorSwapThresholdTicks  uint16

	LastReferenceUpdateTimestamp uint64
	LastMajorSwapTimestamp       uint64
	VolatilityReference          uint32
	TickGroupIndexReference      int32
	VolatilityAccumulator        uint32
}

// ParseOracle decodes an oracle account's raw data.
func ParseOracle(data []byte) (*Oracle, error) {
	if len(data) < OracleMinSize {
		return nil, fmt.Errorf("oracle account too short: got=%d want>=%d", len(data), OracleMinSize)
	}
	if err := checkDiscriminator(data, "Oracle"); err != nil {
		return nil, err
	}
	data = data[accountDiscriminatorSize:]

	o := &Oracle{}
	offset := 0

	o.Whirlpool = solanago.PublicKeyFromBytes(data[offset : offset+32])
	offset += 32
	o.TradeEnableTimestamp = binary.LittleEndian.Uint64(data[offset : offset+8])
	offset += 8

	o.FilterPeriod = binary.LittleEndian.Uint16(data[offset : offset+2])
	offset += 2
	o.DecayPeriod = binary.LittleEndian.Uint16(data[offset : offset+2])
	offset += 2
	o.ReductionFactor = binary.LittleEndian.Uint16(data[offset : offset+2])
	offset += 2
	o.AdaptiveFeeControlFactor = binary.LittleEndian.Uint32(data[offset : offset+4])
	offset += 4
	o.MaxVolatilityAccumulator = binary.LittleEndian.Uint32(data[offset : offset+4])
	offset += 4
	o.TickGroupSize = binary.LittleEndian.Uint16(data[offset : offset+2])
	offset += 2
	o.MajorSwapThresholdTicks = binary.LittleEndian.Uint16(data[offset : offset+2])
	offset += 2
	// constants reserved bytes
	offset += 16

	o.LastReferenceUpdateTimestamp = binary.LittleEndian.Uint64(data[offset : offset+8])
	offset += 8
	o.LastMajorSwapTimestamp = binary.LittleEndian.Uint64(data[offset : offset+8])
	offset += 8
	o.VolatilityReference = binary.LittleEndian.Uint32(data[offset : offset+4])
	offset += 4
	o.TickGroupIndexReference = int32(binary.LittleEndian.Uint32(data[offset : offset+4]))
	offset += 4
	o.VolatilityAccumulator = binary.LittleEndian.Uint32(data[offset : offset+4])

	return o, nil
}

// AdaptiveFeeInfo bundles the oracle's constants and variables for the
// quote engine. Returns nil when the control factor is zero, which is how
// the program marks an oracle that is present but not in force.
func (o *Oracle) AdaptiveFeeInfo() *shared.AdaptiveFeeInfo {
	if o == nil || o.AdaptiveFeeControlFactor == 0 {
		return nil
	}
	return &shared.AdaptiveFeeInfo{
		Constants: shared.AdaptiveFeeConstants{
			FilterPeriod:             o.FilterPeriod,
			DecayPeriod:              o.DecayPeriod,
			ReductionFactor:          o.ReductionFactor,
			AdaptiveFeeControlFactor: o.AdaptiveFeeControlFactor,
			MaxVolatilityAccumulator: o.MaxVolatilityAccumulator,
			TickGroupSize:            o.TickGroupSize,
		},
		Variables: shared.AdaptiveFeeVariables{
			LastReferenceUpdateTimestamp: o.LastReferenceUpdateTimestamp,
			TickGroupIndexReference:      o.TickGroupIndexReference,
			VolatilityReference:          o.VolatilityReference,
			VolatilityAccumulator:        o.VolatilityAccumulator,
		},
	}
}
