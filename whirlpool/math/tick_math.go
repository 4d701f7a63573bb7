package math

import (
	"fmt"
	"math/big"

	"github.com/krazyTry/whirlpool-go/whirlpool/shared"
)

// Per-bit powers of sqrt(1.0001), the program's published constant tables.
// Negative ticks multiply Q64.64 reciprocal powers with a 64-bit floor per
// step; positive ticks multiply Q32.96 powers with a 96-bit floor per step
// and collapse to Q64.64 at the end. Reproducing the table and the per-step
// flooring bit for bit is what keeps every sqrt price identical to the
// on-chain values, including MinSqrtPrice and MaxSqrtPrice at the domain
// edges.
var tickNegPowers = [19]*big.Int{
	mustBig("18445821805675392311"),
	mustBig("18444899583751176498"),
	mustBig("18443055278223354162"),
	mustBig("18439367220385604838"),
	mustBig("18431993317065449817"),
	mustBig("18417254355718160513"),
	mustBig("18387811781193591352"),
	mustBig("18329067761203520168"),
	mustBig("18212142134806087854"),
	mustBig("17980523815641551639"),
	mustBig("17526086738831147013"),
	mustBig("16651378430235024244"),
	mustBig("15030750278693429944"),
	mustBig("12247334978882834399"),
	mustBig("8131365268884726200"),
	mustBig("3584323654723342297"),
	mustBig("696457651847595233"),
	mustBig("26294789957452057"),
	mustBig("37481735321082"),
}

var tickPosPowers = [19]*big.Int{
	mustBig("79232123823359799118286999567"),
	mustBig("79236085330515764027303304731"),
	mustBig("79244008939048815603706035061"),
	mustBig("79259858533276714757314932305"),
	mustBig("79291567232598584799939703904"),
	mustBig("79355022692464371645785046466"),
	mustBig("79482085999252804386437311141"),
	mustBig("79736823300114093921829183326"),
	mustBig("80248749790819932309965073892"),
	mustBig("81282483887344747381513967011"),
	mustBig("83390072131320151908154831281"),
	mustBig("87770609709833776024991924138"),
	mustBig("97234110755111693312479820773"),
	mustBig("119332217159966728226237229890"),
	mustBig("179736315981702064433883588727"),
	mustBig("407748233172238350107850275304"),
	mustBig("2098478828474011932436660412517"),
	mustBig("55581415166113811149459800483533"),
	mustBig("38992368544603139932233054999993551"),
}

func mustBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("math: bad integer literal " + s)
	}
	return v
}

// TickToSqrtPrice converts a tick index to its Q64.64 sqrt price, bit for
// bit equal to the on-chain conversion. Strictly increasing over the valid
// domain.
func TickToSqrtPrice(tick int32) (*big.Int, error) {
	if tick < shared.MinTickIndex || tick > shared.MaxTickIndex {
		return nil, fmt.Errorf("tick %d: %w", tick, shared.ErrTickOutOfBounds)
	}
	if tick >= 0 {
		return sqrtPricePositiveTick(tick), nil
	}
	return sqrtPriceNegativeTick(tick), nil
}

func sqrtPriceNegativeTick(tick int32) *big.Int {
	mag := uint32(-tick)

	ratio := new(big.Int).Lsh(big.NewInt(1), 64)
	if mag&1 != 0 {
		ratio.Set(tickNegPowers[0])
	}
	for k := 1; k < len(tickNegPowers); k++ {
		if mag&(1<<uint(k)) != 0 {
			ratio.Mul(ratio, tickNegPowers[k])
			ratio.Rsh(ratio, 64)
		}
	}
	return ratio
}

func sqrtPricePositiveTick(tick int32) *big.Int {
	mag := uint32(tick)

	ratio := new(big.Int).Lsh(big.NewInt(1), 96)
	if mag&1 != 0 {
		ratio.Set(tickPosPowers[0])
	}
	for k := 1; k < len(tickPosPowers); k++ {
		if mag&(1<<uint(k)) != 0 {
			ratio.Mul(ratio, tickPosPowers[k])
			ratio.Rsh(ratio, 96)
		}
	}
	return ratio.Rsh(ratio, 32)
}

// SqrtPriceToTick returns the greatest tick whose sqrt price does not exceed
// p (floor semantics, the program's tick-membership rule). The search runs
// over the forward conversion, so TickToSqrtPrice(SqrtPriceToTick(p)) <= p
// holds exactly for every valid p.
func SqrtPriceToTick(sqrtPrice *big.Int) (int32, error) {
	if sqrtPrice == nil ||
		sqrtPrice.Cmp(shared.MinSqrtPrice) < 0 ||
		sqrtPrice.Cmp(shared.MaxSqrtPrice) > 0 {
		return 0, fmt.Errorf("sqrt price %v: %w", sqrtPrice, shared.ErrSqrtPriceOutOfBounds)
	}

	lo, hi := int32(shared.MinTickIndex), int32(shared.MaxTickIndex)
	for lo < hi {
		mid := lo + (hi-lo+1)/2
		p, err := TickToSqrtPrice(mid)
		if err != nil {
			return 0, err
		}
		if p.Cmp(sqrtPrice) <= 0 {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, nil
}

// IsTickInitializable reports whether a tick can hold boundary data for the
// given spacing.
func IsTickInitializable(tick int32, tickSpacing uint16) bool {
	return tick%int32(tickSpacing) == 0
}

// TickArrayStartIndex returns the start index of the array containing tick.
func TickArrayStartIndex(tick int32, tickSpacing uint16) int32 {
	span := shared.FullTickArraySpan(tickSpacing)
	return floorDiv(tick, span) * span
}

// TickGroupIndex buckets a tick for adaptive-fee volatility tracking.
func TickGroupIndex(tick int32, tickGroupSize uint16) int32 {
	return floorDiv(tick, int32(tickGroupSize))
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
