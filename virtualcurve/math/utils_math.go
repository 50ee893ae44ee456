package math

import (
	"math/big"

	"github.com/launchcurve/launchcurve-go/virtualcurve/shared"
)

// MulDiv computes x*y/denominator with the requested rounding. The
// intermediate product is exact, so no operand pairing can overflow.
func MulDiv(x, y, denominator *big.Int, rounding shared.Rounding) (*big.Int, error) {
	if denominator.Sign() == 0 {
		return nil, shared.ErrDivisionByZero
	}
	if denominator.Cmp(oneBig) == 0 || x.Sign() == 0 || y.Sign() == 0 {
		return new(big.Int).Mul(x, y), nil
	}
	prod := new(big.Int).Mul(x, y)
	if rounding == shared.RoundingUp {
		numerator := new(big.Int).Add(prod, new(big.Int).Sub(denominator, oneBig))
		return numerator.Div(numerator, denominator), nil
	}
	return prod.Div(prod, denominator), nil
}

// MulShr computes (x*y) >> offset, rounding down.
func MulShr(x, y *big.Int, offset uint) *big.Int {
	if offset == 0 || x.Sign() == 0 || y.Sign() == 0 {
		return new(big.Int).Mul(x, y)
	}
	prod := new(big.Int).Mul(x, y)
	return prod.Rsh(prod, offset)
}

// Sqrt returns floor(sqrt(value)) by Newton's method. The iterates
// decrease monotonically from (value+1)/2, so termination is
// guaranteed.
func Sqrt(value *big.Int) *big.Int {
	if value.Sign() == 0 {
		return big.NewInt(0)
	}
	if value.Cmp(oneBig) == 0 {
		return big.NewInt(1)
	}
	x := new(big.Int).Set(value)
	y := new(big.Int).Add(value, oneBig)
	y.Div(y, twoBig)

	for y.Cmp(x) < 0 {
		x.Set(y)
		y.Add(x, new(big.Int).Div(value, x))
		y.Div(y, twoBig)
	}
	return x
}

// PowQ64 raises a Q64.64 base to an integer exponent by repeated
// squaring, flooring after every multiply. scaled=true keeps the
// result in Q64.64; scaled=false collapses it to an integer.
func PowQ64(base, exponent *big.Int, scaled bool) (*big.Int, error) {
	one := shared.OneQ64

	switch {
	case exponent.Sign() == 0:
		return new(big.Int).Set(one), nil
	case base.Sign() == 0:
		return big.NewInt(0), nil
	case base.Cmp(one) == 0:
		return new(big.Int).Set(one), nil
	case exponent.Cmp(oneBig) == 0:
		return new(big.Int).Set(base), nil
	}
	if exponent.Sign() < 0 || exponent.BitLen() > 64 {
		return nil, shared.ErrExponentOutOfRange
	}

	exp := exponent.Uint64()
	result := new(big.Int).Set(one)
	square := new(big.Int).Set(base)

	for exp > 0 {
		if exp&1 == 1 {
			result.Mul(result, square)
			result.Rsh(result, shared.Resolution)
		}
		exp >>= 1
		if exp > 0 {
			square.Mul(square, square)
			square.Rsh(square, shared.Resolution)
		}
	}

	if scaled {
		return result, nil
	}
	return result.Rsh(result, shared.Resolution), nil
}

var (
	oneBig = big.NewInt(1)
	twoBig = big.NewInt(2)
)
