package helpers

import (
	"math/big"

	"github.com/launchcurve/launchcurve-go/virtualcurve/shared"
	"github.com/shopspring/decimal"
)

func ConvertToLamports(amount string, tokenDecimal int32) (*big.Int, error) {
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, err
	}
	value = value.Mul(decimal.New(1, tokenDecimal))
	return FromDecimalToBig(value), nil
}

func FromDecimalToBig(value decimal.Decimal) *big.Int {
	return value.Truncate(0).BigInt()
}

func BpsToFeeNumerator(bps uint64) *big.Int {
	return new(big.Int).Div(new(big.Int).Mul(new(big.Int).SetUint64(bps), big.NewInt(shared.FeeDenominator)), big.NewInt(shared.MaxBasisPoint))
}

func FeeNumeratorToBps(feeNumerator *big.Int) uint64 {
	return new(big.Int).Div(new(big.Int).Mul(feeNumerator, big.NewInt(shared.MaxBasisPoint)), big.NewInt(shared.FeeDenominator)).Uint64()
}

// BigIntToU64 converts a non-negative big.Int to uint64 with bounds check.
func BigIntToU64(v *big.Int) (uint64, error) {
	if v == nil {
		return 0, nil
	}
	if v.Sign() < 0 {
		return 0, shared.ErrUnderflow
	}
	if v.BitLen() > 64 {
		return 0, shared.ErrOverflow
	}
	return v.Uint64(), nil
}

func bigIntToUint32(v *big.Int) (uint32, error) {
	if v.Sign() < 0 {
		return 0, shared.ErrUnderflow
	}
	if v.BitLen() > 32 {
		return 0, shared.ErrOverflow
	}
	return uint32(v.Uint64()), nil
}

func decimalFromUint64(v uint64) decimal.Decimal {
	return decimal.NewFromUint64(v)
}

func decimalFromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func lamportsFromUint64(amount uint64, tokenDecimal shared.TokenDecimal) (*big.Int, error) {
	return FromDecimalToBig(decimalFromUint64(amount).Mul(decimal.New(1, int32(tokenDecimal)))), nil
}

func lamportsFromDecimal(amount decimal.Decimal, tokenDecimal shared.TokenDecimal) (*big.Int, error) {
	return ConvertToLamports(amount.String(), int32(tokenDecimal))
}

// decimalSqrt takes the square root through big.Float at 256-bit
// precision; shopspring has no native root.
func decimalSqrt(d decimal.Decimal) (decimal.Decimal, error) {
	if d.Sign() < 0 {
		return decimal.Zero, shared.ErrUnderflow
	}
	if d.IsZero() {
		return decimal.Zero, nil
	}
	f := new(big.Float).SetPrec(256)
	if _, ok := f.SetString(d.String()); !ok {
		return decimal.Zero, shared.ErrInvalidPrice
	}
	sqrt := new(big.Float).SetPrec(256).Sqrt(f)
	return decimal.NewFromString(sqrt.Text('f', -1))
}
