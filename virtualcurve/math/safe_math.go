package math

import (
	"math/big"

	"github.com/launchcurve/launchcurve-go/virtualcurve/shared"
)

// Checked arithmetic over big.Int. All amounts in the core are
// unsigned; Sub and Div fail instead of producing negative or
// undefined results.

func Add(a, b *big.Int) *big.Int {
	return new(big.Int).Add(a, b)
}

func Sub(a, b *big.Int) (*big.Int, error) {
	if b.Cmp(a) > 0 {
		return nil, shared.ErrUnderflow
	}
	return new(big.Int).Sub(a, b), nil
}

func Mul(a, b *big.Int) *big.Int {
	return new(big.Int).Mul(a, b)
}

func Div(a, b *big.Int) (*big.Int, error) {
	if b.Sign() == 0 {
		return nil, shared.ErrDivisionByZero
	}
	return new(big.Int).Div(a, b), nil
}

func Mod(a, b *big.Int) (*big.Int, error) {
	if b.Sign() == 0 {
		return nil, shared.ErrDivisionByZero
	}
	return new(big.Int).Mod(a, b), nil
}

func Shl(a *big.Int, bits uint) *big.Int {
	return new(big.Int).Lsh(a, bits)
}

func Shr(a *big.Int, bits uint) *big.Int {
	return new(big.Int).Rsh(a, bits)
}
