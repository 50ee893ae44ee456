package math

import (
	"math/big"

	"github.com/launchcurve/launchcurve-go/virtualcurve/shared"
)

// Closed-form constant-liquidity AMM deltas. Prices are Q64.64 sqrt
// prices; rounding direction is fixed by the trade side so the pool
// never pays out more or collects less than the exact curve.

// GetDeltaAmountBase returns L*(upper-lower)/(upper*lower), the base
// token amount between two sqrt prices.
func GetDeltaAmountBase(lowerSqrtPrice, upperSqrtPrice, liquidity *big.Int, rounding shared.Rounding) (*big.Int, error) {
	priceDelta, err := Sub(upperSqrtPrice, lowerSqrtPrice)
	if err != nil {
		return nil, err
	}
	denominator := new(big.Int).Mul(lowerSqrtPrice, upperSqrtPrice)
	if denominator.Sign() == 0 {
		return nil, shared.ErrInvalidDenominator
	}
	return MulDiv(liquidity, priceDelta, denominator, rounding)
}

// GetDeltaAmountQuote returns L*(upper-lower)/2^128, the quote token
// amount between two sqrt prices.
func GetDeltaAmountQuote(lowerSqrtPrice, upperSqrtPrice, liquidity *big.Int, rounding shared.Rounding) (*big.Int, error) {
	priceDelta, err := Sub(upperSqrtPrice, lowerSqrtPrice)
	if err != nil {
		return nil, err
	}
	prod := new(big.Int).Mul(liquidity, priceDelta)
	if rounding == shared.RoundingUp {
		denominator := new(big.Int).Lsh(oneBig, shared.Resolution*2)
		numerator := prod.Add(prod, new(big.Int).Sub(denominator, oneBig))
		return numerator.Div(numerator, denominator), nil
	}
	return prod.Rsh(prod, shared.Resolution*2), nil
}

// GetNextSqrtPriceFromInput moves the price by an exact input amount.
// Selling base rounds up; buying with quote rounds down. Both
// directions round against the trader.
func GetNextSqrtPriceFromInput(sqrtPrice, liquidity, amountIn *big.Int, baseForQuote bool) (*big.Int, error) {
	if sqrtPrice.Sign() == 0 {
		return nil, shared.ErrInvalidPrice
	}
	if liquidity.Sign() == 0 {
		return nil, shared.ErrInvalidLiquidity
	}
	if baseForQuote {
		return nextSqrtPriceFromBaseInput(sqrtPrice, liquidity, amountIn)
	}
	return nextSqrtPriceFromQuoteInput(sqrtPrice, liquidity, amountIn)
}

// GetNextSqrtPriceFromOutput moves the price by an exact output amount.
func GetNextSqrtPriceFromOutput(sqrtPrice, liquidity, amountOut *big.Int, baseForQuote bool) (*big.Int, error) {
	if sqrtPrice.Sign() == 0 {
		return nil, shared.ErrInvalidPrice
	}
	if liquidity.Sign() == 0 {
		return nil, shared.ErrInvalidLiquidity
	}
	if baseForQuote {
		return nextSqrtPriceFromQuoteOutput(sqrtPrice, liquidity, amountOut)
	}
	return nextSqrtPriceFromBaseOutput(sqrtPrice, liquidity, amountOut)
}

// price' = price*L/(L + amount*price), rounding up. Falls back to the
// equivalent L/(L/price + amount) when amount*price no longer fits 128
// bits.
func nextSqrtPriceFromBaseInput(sqrtPrice, liquidity, amount *big.Int) (*big.Int, error) {
	if amount.Sign() == 0 {
		return new(big.Int).Set(sqrtPrice), nil
	}
	product := new(big.Int).Mul(amount, sqrtPrice)
	if product.Cmp(shared.U128Max) > 0 {
		quotient, err := Div(liquidity, sqrtPrice)
		if err != nil {
			return nil, err
		}
		return Div(liquidity, quotient.Add(quotient, amount))
	}
	denominator := new(big.Int).Add(liquidity, product)
	return MulDiv(liquidity, sqrtPrice, denominator, shared.RoundingUp)
}

// price' = price + (amount << 128)/L, rounding down.
func nextSqrtPriceFromQuoteInput(sqrtPrice, liquidity, amount *big.Int) (*big.Int, error) {
	shifted := new(big.Int).Lsh(amount, shared.Resolution*2)
	quotient, err := Div(shifted, liquidity)
	if err != nil {
		return nil, err
	}
	return quotient.Add(quotient, sqrtPrice), nil
}

// price' = price - ceil((amount << 128)/L).
func nextSqrtPriceFromQuoteOutput(sqrtPrice, liquidity, amount *big.Int) (*big.Int, error) {
	shifted := new(big.Int).Lsh(amount, shared.Resolution*2)
	numerator := shifted.Add(shifted, new(big.Int).Sub(liquidity, oneBig))
	quotient, err := Div(numerator, liquidity)
	if err != nil {
		return nil, err
	}
	return Sub(sqrtPrice, quotient)
}

// price' = price*L/(L - amount*price), rounding up. The denominator
// must stay positive or the requested output exceeds the segment.
func nextSqrtPriceFromBaseOutput(sqrtPrice, liquidity, amount *big.Int) (*big.Int, error) {
	if amount.Sign() == 0 {
		return new(big.Int).Set(sqrtPrice), nil
	}
	product := new(big.Int).Mul(amount, sqrtPrice)
	denominator, err := Sub(liquidity, product)
	if err != nil || denominator.Sign() <= 0 {
		return nil, shared.ErrInsufficientLiquidity
	}
	return MulDiv(liquidity, sqrtPrice, denominator, shared.RoundingUp)
}

// GetInitialLiquidityFromDeltaQuote derives segment liquidity from a
// quote amount spanning [sqrtMinPrice, sqrtPrice].
func GetInitialLiquidityFromDeltaQuote(quoteAmount, sqrtMinPrice, sqrtPrice *big.Int) (*big.Int, error) {
	priceDelta, err := Sub(sqrtPrice, sqrtMinPrice)
	if err != nil {
		return nil, err
	}
	shifted := new(big.Int).Lsh(quoteAmount, shared.Resolution*2)
	return Div(shifted, priceDelta)
}

// GetInitialLiquidityFromDeltaBase derives segment liquidity from a
// base amount spanning [sqrtPrice, sqrtMaxPrice].
func GetInitialLiquidityFromDeltaBase(baseAmount, sqrtMaxPrice, sqrtPrice *big.Int) (*big.Int, error) {
	priceDelta, err := Sub(sqrtMaxPrice, sqrtPrice)
	if err != nil {
		return nil, err
	}
	prod := new(big.Int).Mul(baseAmount, sqrtPrice)
	prod.Mul(prod, sqrtMaxPrice)
	return Div(prod, priceDelta)
}
