package state

import (
	"encoding/binary"
	"fmt"
	"math/big"

	solanago "github.com/gagliardetto/solana-go"

	"github.com/krazyTry/whirlpool-go/u128"
	"github.com/krazyTry/whirlpool-go/whirlpool/math"
	"github.com/krazyTry/whirlpool-go/whirlpool/shared"
)

const (
	tickStateSize = 113

	// TickArrayAccountSize: 8 discriminator + 4 start index + 88 ticks +
	// 32 whirlpool pubkey.
	TickArrayAccountSize = accountDiscriminatorSize + 4 + shared.TickArraySize*tickStateSize + 32
)

// TickArray is the on-chain tick-array account.
type TickArray struct {
	StartTickIndex int32
	Ticks          [shared.TickArraySize]TickState
	Whirlpool      solanago.PublicKey
}

// TickState is one serialized tick slot.
type TickState struct {
	Initialized          bool
	LiquidityNet         *big.Int
	LiquidityGross       *big.Int
	FeeGrowthOutsideA    *big.Int
	FeeGrowthOutsideB    *big.Int
	RewardGrowthsOutside [shared.NumRewards]*big.Int
}

// ParseTickArray decodes a tick-array account's raw data.
func ParseTickArray(data []byte) (*TickArray, error) {
	if len(data) < TickArrayAccountSize {
		return nil, fmt.Errorf("tick array account too short: got=%d want=%d", len(data), TickArrayAccountSize)
	}
	if err := checkDiscriminator(data, "TickArray"); err != nil {
		return nil, err
	}
	data = data[accountDiscriminatorSize:]

	t := &TickArray{}
	offset := 0

	t.StartTickIndex = int32(binary.LittleEndian.Uint32(data[offset : offset+4]))
	offset += 4

	for i := 0; i < shared.TickArraySize; i++ {
		tick := &t.Ticks[i]
		tick.Initialized = data[offset] != 0
		offset++
		tick.LiquidityNet = u128.SignedBigFromBytesLE(data[offset : offset+16])
		offset += 16
		tick.LiquidityGross = u128.BigFromBytesLE(data[offset : offset+16])
		offset += 16
		tick.FeeGrowthOutsideA = u128.BigFromBytesLE(data[offset : offset+16])
		offset += 16
		tick.FeeGrowthOutsideB = u128.BigFromBytesLE(data[offset : offset+16])
		offset += 16
		for r := 0; r < shared.NumRewards; r++ {
			tick.RewardGrowthsOutside[r] = u128.BigFromBytesLE(data[offset : offset+16])
			offset += 16
		}
	}

	t.Whirlpool = solanago.PublicKeyFromBytes(data[offset : offset+32])
	return t, nil
}

// Facade converts the account into the walker's representation.
func (t *TickArray) Facade() *math.TickArray {
	out := &math.TickArray{
		StartTickIndex: t.StartTickIndex,
		Ticks:          make([]math.Tick, shared.TickArraySize),
	}
	for i := range t.Ticks {
		src := &t.Ticks[i]
		out.Ticks[i] = math.Tick{
			Initialized:       src.Initialized,
			LiquidityNet:      src.LiquidityNet,
			LiquidityGross:    src.LiquidityGross,
			FeeGrowthOutsideA: src.FeeGrowthOutsideA,
			FeeGrowthOutsideB: src.FeeGrowthOutsideB,
		}
		out.Ticks[i].RewardGrowthsOutside = src.RewardGrowthsOutside
	}
	return out
}
