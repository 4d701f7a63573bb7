package u128

import (
	"math/big"
	"testing"
)

func leBytes(v *big.Int) []byte {
	raw := make([]byte, 16)
	v.FillBytes(raw)
	out := make([]byte, 16)
	for i := range out {
		out[i] = raw[15-i]
	}
	return out
}

func TestFromBytesLE(t *testing.T) {
	v := FromBytesLE(leBytes(big.NewInt(1)))
	if v.Lo != 1 || v.Hi != 0 {
		t.Fatalf("lo=%d hi=%d", v.Lo, v.Hi)
	}

	full := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	v = FromBytesLE(leBytes(full))
	if v.Lo != ^uint64(0) || v.Hi != ^uint64(0) {
		t.Fatalf("lo=%d hi=%d", v.Lo, v.Hi)
	}
	if v.BigInt().Cmp(full) != 0 {
		t.Fatal("round trip mismatch")
	}

	crossWord := new(big.Int).Lsh(big.NewInt(7), 64)
	v = FromBytesLE(leBytes(crossWord))
	if v.Lo != 0 || v.Hi != 7 {
		t.Fatalf("lo=%d hi=%d", v.Lo, v.Hi)
	}
}

func TestBigFromBytesLE(t *testing.T) {
	want := new(big.Int).Lsh(big.NewInt(123456789), 64)
	if got := BigFromBytesLE(leBytes(want)); got.Cmp(want) != 0 {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSignedBigFromBytesLE(t *testing.T) {
	// small positive values pass through
	if got := SignedBigFromBytesLE(leBytes(big.NewInt(42))); got.Int64() != 42 {
		t.Fatalf("got %v", got)
	}

	// two's complement of -1 is all ones
	allOnes := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	if got := SignedBigFromBytesLE(leBytes(allOnes)); got.Int64() != -1 {
		t.Fatalf("got %v", got)
	}

	neg := big.NewInt(-987654321)
	encoded := new(big.Int).Add(new(big.Int).Lsh(big.NewInt(1), 128), neg)
	if got := SignedBigFromBytesLE(leBytes(encoded)); got.Cmp(neg) != 0 {
		t.Fatalf("got %v, want %v", got, neg)
	}

	// bit 127 set is the sign boundary
	minI128 := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	if got := SignedBigFromBytesLE(leBytes(new(big.Int).Lsh(big.NewInt(1), 127))); got.Cmp(minI128) != 0 {
		t.Fatalf("got %v, want %v", got, minI128)
	}

	// largest positive i128 stays positive
	maxI128 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	if got := SignedBigFromBytesLE(leBytes(maxI128)); got.Cmp(maxI128) != 0 {
		t.Fatalf("got %v, want %v", got, maxI128)
	}
}

func TestFromBig(t *testing.T) {
	v := FromBig(big.NewInt(5))
	if v.Lo != 5 || v.Hi != 0 {
		t.Fatalf("lo=%d hi=%d", v.Lo, v.Hi)
	}

	wide := new(big.Int).Add(new(big.Int).Lsh(big.NewInt(9), 64), big.NewInt(3))
	v = FromBig(wide)
	if v.Lo != 3 || v.Hi != 9 {
		t.Fatalf("lo=%d hi=%d", v.Lo, v.Hi)
	}
	if v.BigInt().Cmp(wide) != 0 {
		t.Fatal("round trip mismatch")
	}
}

func TestGenUint128FromString(t *testing.T) {
	v := GenUint128FromString("340282366920938463463374607431768211455")
	if v.Lo != ^uint64(0) || v.Hi != ^uint64(0) {
		t.Fatalf("lo=%d hi=%d", v.Lo, v.Hi)
	}
	if GenUint128FromString("0").BigInt().Sign() != 0 {
		t.Fatal("zero mismatch")
	}
}
