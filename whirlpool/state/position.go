package state

import (
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"

	"github.com/krazyTry/whirlpool-go/u128"
	"github.com/krazyTry/whirlpool-go/whirlpool/math"
	"github.com/krazyTry/whirlpool-go/whirlpool/shared"
)

// PositionAccountSize is the full serialized size of a position account.
const PositionAccountSize = 216

// Position is the on-chain position account.
type Position struct {
	Whirlpool    solanago.PublicKey
	PositionMint solanago.PublicKey

	Liquidity      bin.Uint128
	TickLowerIndex int32
	TickUpperIndex int32

	FeeGrowthCheckpointA bin.Uint128
	FeeOwedA             uint64
	FeeGrowthCheckpointB bin.Uint128
	FeeOwedB             uint64

	RewardInfos [shared.NumRewards]PositionRewardInfo
}

type PositionRewardInfo struct {
	GrowthInsideCheckpoint bin.Uint128
	AmountOwed             uint64
}

// ParsePosition decodes a position account's raw data.
func ParsePosition(data []byte) (*Position, error) {
	if len(data) < PositionAccountSize {
		return nil, fmt.Errorf("position account too short: got=%d want=%d", len(data), PositionAccountSize)
	}
	if err := checkDiscriminator(data, "Position"); err != nil {
		return nil, err
	}
	data = data[accountDiscriminatorSize:]

	p := &Position{}
	offset := 0

	p.Whirlpool = solanago.PublicKeyFromBytes(data[offset : offset+32])
	offset += 32
	p.PositionMint = solanago.PublicKeyFromBytes(data[offset : offset+32])
	offset += 32

	p.Liquidity = u128.FromBytesLE(data[offset : offset+16])
	offset += 16
	p.TickLowerIndex = int32(binary.LittleEndian.Uint32(data[offset : offset+4]))
	offset += 4
	p.TickUpperIndex = int32(binary.LittleEndian.Uint32(data[offset : offset+4]))
	offset += 4

	p.FeeGrowthCheckpointA = u128.FromBytesLE(data[offset : offset+16])
	offset += 16
	p.FeeOwedA = binary.LittleEndian.Uint64(data[offset : offset+8])
	offset += 8
	p.FeeGrowthCheckpointB = u128.FromBytesLE(data[offset : offset+16])
	offset += 16
	p.FeeOwedB = binary.LittleEndian.Uint64(data[offset : offset+8])
	offset += 8

	for i := 0; i < shared.NumRewards; i++ {
		p.RewardInfos[i].GrowthInsideCheckpoint = u128.FromBytesLE(data[offset : offset+16])
		offset += 16
		p.RewardInfos[i].AmountOwed = binary.LittleEndian.Uint64(data[offset : offset+8])
		offset += 8
	}

	return p, nil
}

// Facade projects the account into the accrual math's representation.
func (p *Position) Facade() *math.PositionFacade {
	f := &math.PositionFacade{
		Liquidity:            p.Liquidity.BigInt(),
		TickLowerIndex:       p.TickLowerIndex,
		TickUpperIndex:       p.TickUpperIndex,
		FeeGrowthCheckpointA: p.FeeGrowthCheckpointA.BigInt(),
		FeeGrowthCheckpointB: p.FeeGrowthCheckpointB.BigInt(),
		FeeOwedA:             p.FeeOwedA,
		FeeOwedB:             p.FeeOwedB,
	}
	for i := 0; i < shared.NumRewards; i++ {
		f.RewardInfos[i] = math.PositionRewardFacade{
			GrowthInsideCheckpoint: p.RewardInfos[i].GrowthInsideCheckpoint.BigInt(),
			AmountOwed:             p.RewardInfos[i].AmountOwed,
		}
	}
	return f
}
