package helpers

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"
)

// GetPriceFromSqrtPrice converts a Q64.64 sqrt price into a human price of
// token A denominated in token B, adjusted for mint decimals.
func GetPriceFromSqrtPrice(sqrtPrice *big.Int, tokenADecimal, tokenBDecimal uint8) decimal.Decimal {
	decSqrt := decimal.NewFromBigInt(sqrtPrice, 0)
	return decSqrt.Mul(decSqrt).
		Mul(decimal.New(1, int32(tokenADecimal)-int32(tokenBDecimal))).
		Div(decimal.NewFromBigInt(new(big.Int).Lsh(big.NewInt(1), 128), 0))
}

// GetSqrtPriceFromPrice is the inverse conversion; precision is capped by
// the 256-bit float sqrt, which is fine for display-level prices.
func GetSqrtPriceFromPrice(price decimal.Decimal, tokenADecimal, tokenBDecimal uint8) *big.Int {
	adjusted := price.Div(decimal.New(1, int32(tokenADecimal)-int32(tokenBDecimal)))
	f, _ := new(big.Float).SetPrec(256).SetString(adjusted.String())
	if f == nil {
		return big.NewInt(0)
	}
	sqrtValue := new(big.Float).SetPrec(256).Sqrt(f)
	sqrtValue.Mul(sqrtValue, new(big.Float).SetInt(new(big.Int).Lsh(big.NewInt(1), 64)))
	sqrtValueQ64, _ := sqrtValue.Int(nil)
	return sqrtValueQ64
}

// GetPriceImpact compares the trade's execution price against the spot price
// before the trade, as a percentage.
func GetPriceImpact(amountIn, amountOut, currentSqrtPrice *big.Int, aToB bool, tokenADecimal, tokenBDecimal uint8) (decimal.Decimal, error) {
	if amountIn.Sign() == 0 {
		return decimal.Zero, nil
	}
	if amountOut.Sign() == 0 {
		return decimal.Zero, errors.New("amount out must be greater than 0")
	}
	spotPrice := GetPriceFromSqrtPrice(currentSqrtPrice, tokenADecimal, tokenBDecimal)
	executionPrice := decimal.NewFromBigInt(amountIn, 0).Div(decimal.NewFromBigInt(amountOut, 0))
	if aToB {
		executionPrice = decimal.NewFromInt(1).Div(executionPrice)
	}
	return executionPrice.Sub(spotPrice).Abs().Div(spotPrice).Mul(decimal.NewFromInt(100)), nil
}
