package poolfees

import (
	"math/big"

	"github.com/launchcurve/launchcurve-go/virtualcurve/shared"
)

// Local copies of the small big.Int primitives. Keeping them here
// avoids importing the parent math package from a package it imports.

func sub(a, b *big.Int) (*big.Int, error) {
	if b.Cmp(a) > 0 {
		return nil, shared.ErrUnderflow
	}
	return new(big.Int).Sub(a, b), nil
}

func mulDiv(x, y, denominator *big.Int, rounding shared.Rounding) (*big.Int, error) {
	if denominator.Sign() == 0 {
		return nil, shared.ErrDivisionByZero
	}
	if denominator.Cmp(big.NewInt(1)) == 0 || x.Sign() == 0 || y.Sign() == 0 {
		return new(big.Int).Mul(x, y), nil
	}
	prod := new(big.Int).Mul(x, y)
	if rounding == shared.RoundingUp {
		numerator := new(big.Int).Add(prod, new(big.Int).Sub(denominator, big.NewInt(1)))
		return new(big.Int).Div(numerator, denominator), nil
	}
	return new(big.Int).Div(prod, denominator), nil
}

func sqrt(value *big.Int) *big.Int {
	if value.Sign() == 0 {
		return big.NewInt(0)
	}
	if value.Cmp(big.NewInt(1)) == 0 {
		return big.NewInt(1)
	}
	x := new(big.Int).Set(value)
	y := new(big.Int).Add(value, big.NewInt(1))
	y = y.Div(y, big.NewInt(2))

	for y.Cmp(x) < 0 {
		x = new(big.Int).Set(y)
		y = new(big.Int).Add(x, new(big.Int).Div(value, x))
		y = y.Div(y, big.NewInt(2))
	}
	return x
}

// powQ64 computes base^exponent by repeated squaring. With scaled set
// the operands are Q64.64 fixed point and every product is floored
// back to the scale.
func powQ64(base, exponent *big.Int, scaled bool) (*big.Int, error) {
	one := shared.OneQ64

	if exponent.Sign() == 0 {
		return new(big.Int).Set(one), nil
	}
	if base.Sign() == 0 {
		return big.NewInt(0), nil
	}
	if base.Cmp(one) == 0 {
		return new(big.Int).Set(one), nil
	}
	if exponent.Cmp(big.NewInt(1)) == 0 {
		return new(big.Int).Set(base), nil
	}
	if exponent.Sign() < 0 || exponent.BitLen() > 64 {
		return nil, shared.ErrExponentOutOfRange
	}

	exp := exponent.Uint64()
	result := new(big.Int).Set(one)
	currentBase := new(big.Int).Set(base)

	for exp > 0 {
		if exp&1 == 1 {
			if scaled {
				res, err := mulDiv(result, currentBase, one, shared.RoundingDown)
				if err != nil {
					return nil, err
				}
				result = res
			} else {
				result = new(big.Int).Mul(result, currentBase)
			}
		}
		exp >>= 1
		if exp > 0 {
			if scaled {
				res, err := mulDiv(currentBase, currentBase, one, shared.RoundingDown)
				if err != nil {
					return nil, err
				}
				currentBase = res
			} else {
				currentBase = new(big.Int).Mul(currentBase, currentBase)
			}
		}
	}
	return result, nil
}

func bpsToNumerator(bps *big.Int) (*big.Int, error) {
	return mulDiv(bps, big.NewInt(shared.FeeDenominator), big.NewInt(shared.MaxBasisPoint), shared.RoundingDown)
}
