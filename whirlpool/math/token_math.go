package math

import (
	"errors"
	"math/big"

	"github.com/krazyTry/whirlpool-go/whirlpool/shared"
)

func MulDiv(x, y, denominator *big.Int, rounding shared.Rounding) *big.Int {
	if denominator.Sign() == 0 {
		return big.NewInt(0)
	}
	mul := new(big.Int).Mul(x, y)
	div, mod := new(big.Int).QuoRem(mul, denominator, new(big.Int))
	if rounding == shared.RoundingUp && mod.Sign() != 0 {
		return div.Add(div, big.NewInt(1))
	}
	return div
}

// GetAmountADeltaForPriceRange is the token A moved when price travels the
// range [sqrtPrice0, sqrtPrice1] at constant liquidity:
// Δa = L * (√P_upper - √P_lower) / (√P_upper * √P_lower).
func GetAmountADeltaForPriceRange(sqrtPrice0, sqrtPrice1, liquidity *big.Int, rounding shared.Rounding) *big.Int {
	lower, upper := orderSqrtPrices(sqrtPrice0, sqrtPrice1)
	numerator := new(big.Int).Lsh(liquidity, shared.ScaleOffset)
	numerator.Mul(numerator, new(big.Int).Sub(upper, lower))
	denominator := new(big.Int).Mul(upper, lower)
	return MulDiv(numerator, big.NewInt(1), denominator, rounding)
}

// GetAmountBDeltaForPriceRange is the token B moved for the same travel:
// Δb = L * (√P_upper - √P_lower).
func GetAmountBDeltaForPriceRange(sqrtPrice0, sqrtPrice1, liquidity *big.Int, rounding shared.Rounding) *big.Int {
	lower, upper := orderSqrtPrices(sqrtPrice0, sqrtPrice1)
	delta := new(big.Int).Sub(upper, lower)
	prod := new(big.Int).Mul(liquidity, delta)
	if rounding == shared.RoundingUp {
		prod.Add(prod, new(big.Int).Sub(shared.OneQ64, big.NewInt(1)))
	}
	return prod.Rsh(prod, shared.ScaleOffset)
}

// GetNextSqrtPriceFromAInput solves √P' = L·√P / (L + Δa·√P), rounding up.
// An A-in trade moves price down; rounding toward the current price keeps
// the user from receiving more than the exact solution allows.
func GetNextSqrtPriceFromAInput(sqrtPrice, liquidity, amountIn *big.Int) (*big.Int, error) {
	if amountIn.Sign() == 0 {
		return new(big.Int).Set(sqrtPrice), nil
	}
	numerator := new(big.Int).Lsh(liquidity, shared.ScaleOffset)
	numerator.Mul(numerator, sqrtPrice)
	denominator := new(big.Int).Lsh(liquidity, shared.ScaleOffset)
	denominator.Add(denominator, new(big.Int).Mul(amountIn, sqrtPrice))
	return MulDiv(numerator, big.NewInt(1), denominator, shared.RoundingUp), nil
}

// GetNextSqrtPriceFromBInput solves √P' = √P + Δb / L, rounding down.
func GetNextSqrtPriceFromBInput(sqrtPrice, liquidity, amountIn *big.Int) (*big.Int, error) {
	if liquidity.Sign() == 0 {
		return nil, errors.New("liquidity must be greater than 0")
	}
	quotient := new(big.Int).Lsh(amountIn, shared.ScaleOffset)
	quotient.Div(quotient, liquidity)
	return new(big.Int).Add(sqrtPrice, quotient), nil
}

// GetNextSqrtPriceFromAOutput solves √P' = L·√P / (L - Δa·√P), rounding up;
// the trade pays out token A while price moves up.
func GetNextSqrtPriceFromAOutput(sqrtPrice, liquidity, amountOut *big.Int) (*big.Int, error) {
	if amountOut.Sign() == 0 {
		return new(big.Int).Set(sqrtPrice), nil
	}
	numerator := new(big.Int).Lsh(liquidity, shared.ScaleOffset)
	numerator.Mul(numerator, sqrtPrice)
	denominator := new(big.Int).Lsh(liquidity, shared.ScaleOffset)
	denominator.Sub(denominator, new(big.Int).Mul(amountOut, sqrtPrice))
	if denominator.Sign() <= 0 {
		return nil, errors.New("amount out exceeds available token a")
	}
	return MulDiv(numerator, big.NewInt(1), denominator, shared.RoundingUp), nil
}

// GetNextSqrtPriceFromBOutput solves √P' = √P - ceil(Δb / L); the trade pays
// out token B while price moves down.
func GetNextSqrtPriceFromBOutput(sqrtPrice, liquidity, amountOut *big.Int) (*big.Int, error) {
	if liquidity.Sign() == 0 {
		return nil, errors.New("liquidity must be greater than 0")
	}
	quotient := new(big.Int).Lsh(amountOut, shared.ScaleOffset)
	quotient.Add(quotient, new(big.Int).Sub(liquidity, big.NewInt(1)))
	quotient.Div(quotient, liquidity)
	next := new(big.Int).Sub(sqrtPrice, quotient)
	if next.Sign() < 0 {
		return nil, errors.New("sqrt price cannot be negative")
	}
	return next, nil
}

// GetNextSqrtPriceFromInput dispatches on trade direction. Input side is A
// for an A-to-B trade, B otherwise.
func GetNextSqrtPriceFromInput(sqrtPrice, liquidity, amountIn *big.Int, aToB bool) (*big.Int, error) {
	if aToB {
		return GetNextSqrtPriceFromAInput(sqrtPrice, liquidity, amountIn)
	}
	return GetNextSqrtPriceFromBInput(sqrtPrice, liquidity, amountIn)
}

// GetNextSqrtPriceFromOutput dispatches on trade direction. Output side is B
// for an A-to-B trade, A otherwise.
func GetNextSqrtPriceFromOutput(sqrtPrice, liquidity, amountOut *big.Int, aToB bool) (*big.Int, error) {
	if aToB {
		return GetNextSqrtPriceFromBOutput(sqrtPrice, liquidity, amountOut)
	}
	return GetNextSqrtPriceFromAOutput(sqrtPrice, liquidity, amountOut)
}

func orderSqrtPrices(p0, p1 *big.Int) (lower, upper *big.Int) {
	if p0.Cmp(p1) <= 0 {
		return p0, p1
	}
	return p1, p0
}
