package state

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"

	"github.com/krazyTry/whirlpool-go/u128"
	"github.com/krazyTry/whirlpool-go/whirlpool/math"
	"github.com/krazyTry/whirlpool-go/whirlpool/shared"
)

const (
	accountDiscriminatorSize = 8

	// WhirlpoolAccountSize is the full serialized size of a pool account.
	WhirlpoolAccountSize = 653
)

// accountDiscriminator is the 8-byte anchor prefix for a named account type.
func accountDiscriminator(name string) []byte {
	h := sha256.Sum256([]byte("account:" + name))
	return h[:accountDiscriminatorSize]
}

// checkDiscriminator rejects account data whose prefix tags a different
// account type than the decoder expects.
func checkDiscriminator(data []byte, name string) error {
	want := accountDiscriminator(name)
	if !bytes.Equal(data[:accountDiscriminatorSize], want) {
		return fmt.Errorf("%s account discriminator mismatch: got=%x want=%x", name, data[:accountDiscriminatorSize], want)
	}
	return nil
}

// Whirlpool is the pool account, decoded at fixed offsets.
type Whirlpool struct {
	WhirlpoolsConfig solanago.PublicKey
	WhirlpoolBump    [1]uint8
	TickSpacing      uint16
	FeeTierIndexSeed [2]uint8
	FeeRate          uint16
	ProtocolFeeRate  uint16

	Liquidity        bin.Uint128
	SqrtPrice        bin.Uint128
	TickCurrentIndex int32

	ProtocolFeeOwedA uint64
	ProtocolFeeOwedB uint64

	TokenMintA       solanago.PublicKey
	TokenVaultA      solanago.PublicKey
	FeeGrowthGlobalA bin.Uint128

	TokenMintB       solanago.PublicKey
	TokenVaultB      solanago.PublicKey
	FeeGrowthGlobalB bin.Uint128

	RewardLastUpdatedTimestamp uint64
	RewardInfos                [shared.NumRewards]WhirlpoolRewardInfo
}

// WhirlpoolRewardInfo is one of the pool's reward emission slots.
type WhirlpoolRewardInfo struct {
	Mint                  solanago.PublicKey
	Vault                 solanago.PublicKey
	Authority             solanago.PublicKey
	EmissionsPerSecondX64 bin.Uint128
	GrowthGlobalX64       bin.Uint128
}

func (r *WhirlpoolRewardInfo) Initialized() bool {
	return !r.Mint.IsZero()
}

// ParseWhirlpool decodes a pool account's raw data.
func ParseWhirlpool(data []byte) (*Whirlpool, error) {
	if len(data) < WhirlpoolAccountSize {
		return nil, fmt.Errorf("whirlpool account too short: got=%d want=%d", len(data), WhirlpoolAccountSize)
	}
	if err := checkDiscriminator(data, "Whirlpool"); err != nil {
		return nil, err
	}
	data = data[accountDiscriminatorSize:]

	p := &Whirlpool{}
	offset := 0

	p.WhirlpoolsConfig = solanago.PublicKeyFromBytes(data[offset : offset+32])
	offset += 32
	copy(p.WhirlpoolBump[:], data[offset:offset+1])
	offset++
	p.TickSpacing = binary.LittleEndian.Uint16(data[offset : offset+2])
	offset += 2
	copy(p.FeeTierIndexSeed[:], data[offset:offset+2])
	offset += 2
	p.FeeRate = binary.LittleEndian.Uint16(data[offset : offset+2])
	offset += 2
	p.ProtocolFeeRate = binary.LittleEndian.Uint16(data[offset : offset+2])
	offset += 2

	p.Liquidity = u128.FromBytesLE(data[offset : offset+16])
	offset += 16
	p.SqrtPrice = u128.FromBytesLE(data[offset : offset+16])
	offset += 16
	p.TickCurrentIndex = int32(binary.LittleEndian.Uint32(data[offset : offset+4]))
	offset += 4

	p.ProtocolFeeOwedA = binary.LittleEndian.Uint64(data[offset : offset+8])
	offset += 8
	p.ProtocolFeeOwedB = binary.LittleEndian.Uint64(data[offset : offset+8])
	offset += 8

	p.TokenMintA = solanago.PublicKeyFromBytes(data[offset : offset+32])
	offset += 32
	p.TokenVaultA = solanago.PublicKeyFromBytes(data[offset : offset+32])
	offset += 32
	p.FeeGrowthGlobalA = u128.FromBytesLE(data[offset : offset+16])
	offset += 16

	p.TokenMintB = solanago.PublicKeyFromBytes(data[offset : offset+32])
	offset += 32
	p.TokenVaultB = solanago.PublicKeyFromBytes(data[offset : offset+32])
	offset += 32
	p.FeeGrowthGlobalB = u128.FromBytesLE(data[offset : offset+16])
	offset += 16

	p.RewardLastUpdatedTimestamp = binary.LittleEndian.Uint64(data[offset : offset+8])
	offset += 8

	for i := 0; i < shared.NumRewards; i++ {
		p.RewardInfos[i].Mint = solanago.PublicKeyFromBytes(data[offset : offset+32])
		offset += 32
		p.RewardInfos[i].Vault = solanago.PublicKeyFromBytes(data[offset : offset+32])
		offset += 32
		p.RewardInfos[i].Authority = solanago.PublicKeyFromBytes(data[offset : offset+32])
		offset += 32
		p.RewardInfos[i].EmissionsPerSecondX64 = u128.FromBytesLE(data[offset : offset+16])
		offset += 16
		p.RewardInfos[i].GrowthGlobalX64 = u128.FromBytesLE(data[offset : offset+16])
		offset += 16
	}

	return p, nil
}

// Facade projects the account into the snapshot the quote engine consumes.
// The adaptive-fee info is attached separately when the pool's fee tier
// carries one.
func (p *Whirlpool) Facade(adaptiveFee *shared.AdaptiveFeeInfo) *math.PoolFacade {
	f := &math.PoolFacade{
		TickSpacing:                p.TickSpacing,
		FeeRate:                    uint32(p.FeeRate),
		ProtocolFeeRate:            p.ProtocolFeeRate,
		Liquidity:                  p.Liquidity.BigInt(),
		SqrtPrice:                  p.SqrtPrice.BigInt(),
		TickCurrentIndex:           p.TickCurrentIndex,
		FeeGrowthGlobalA:           p.FeeGrowthGlobalA.BigInt(),
		FeeGrowthGlobalB:           p.FeeGrowthGlobalB.BigInt(),
		RewardLastUpdatedTimestamp: p.RewardLastUpdatedTimestamp,
		AdaptiveFee:                adaptiveFee,
	}
	for i := 0; i < shared.NumRewards; i++ {
		f.Rewards[i] = math.PoolRewardFacade{
			EmissionsPerSecondX64: p.RewardInfos[i].EmissionsPerSecondX64.BigInt(),
			GrowthGlobalX64:       p.RewardInfos[i].GrowthGlobalX64.BigInt(),
		}
	}
	return f
}
