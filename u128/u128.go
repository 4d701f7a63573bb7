package u128

import (
	"errors"
	"fmt"
	"math/big"

	binary "github.com/gagliardetto/binary"
)

type Uint128 binary.Uint128

func (u *Uint128) Scan(s fmt.ScanState, ch rune) error {
	i := new(big.Int)
	if err := i.Scan(s, ch); err != nil {
		return err
	} else if i.Sign() < 0 {
		return errors.New("value cannot be negative")
	} else if i.BitLen() > 128 {
		return errors.New("value overflows Uint128")
	}
	u.Lo = i.Uint64()
	u.Hi = i.Rsh(i, 64).Uint64()
	return nil
}

func GenUint128FromString(num string) binary.Uint128 {
	u128 := binary.NewUint128LittleEndian()
	if _, err := fmt.Sscan(num, (*Uint128)(u128)); err != nil {
		panic(err)
	}
	return *u128
}

// FromBytesLE reads a little-endian u128 out of exactly 16 bytes of account
// data.
func FromBytesLE(b []byte) binary.Uint128 {
	var out binary.Uint128
	out.Lo = leUint64(b[0:8])
	out.Hi = leUint64(b[8:16])
	out.Endianness = binary.LE
	return out
}

// BigFromBytesLE is FromBytesLE straight to a big.Int.
func BigFromBytesLE(b []byte) *big.Int {
	v := FromBytesLE(b)
	return v.BigInt()
}

// SignedBigFromBytesLE interprets the 16 bytes as a two's-complement i128,
// the on-chain encoding of per-tick net liquidity.
func SignedBigFromBytesLE(b []byte) *big.Int {
	v := BigFromBytesLE(b)
	if v.Bit(127) == 1 {
		v.Sub(v, new(big.Int).Lsh(big.NewInt(1), 128))
	}
	return v
}

// FromBig truncates a non-negative big.Int into a little-endian u128.
func FromBig(v *big.Int) binary.Uint128 {
	var out binary.Uint128
	out.Lo = new(big.Int).And(v, maxU64).Uint64()
	out.Hi = new(big.Int).Rsh(v, 64).Uint64()
	out.Endianness = binary.LE
	return out
}

var maxU64 = new(big.Int).SetUint64(^uint64(0))

func leUint64(b []byte) uint64 {
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
}
