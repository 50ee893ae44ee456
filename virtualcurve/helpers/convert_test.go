package helpers

import (
	"math/big"
	"testing"

	"github.com/launchcurve/launchcurve-go/virtualcurve/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToLamports(t *testing.T) {
	got, err := ConvertToLamports("1.5", 9)
	require.NoError(t, err)
	assert.Equal(t, int64(1_500_000_000), got.Int64())

	got, err = ConvertToLamports("0.000001", 6)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Int64())

	_, err = ConvertToLamports("not a number", 6)
	assert.Error(t, err)
}

func TestBpsFeeNumeratorRoundTrip(t *testing.T) {
	assert.Equal(t, int64(10_000_000), BpsToFeeNumerator(100).Int64())
	assert.Equal(t, uint64(100), FeeNumeratorToBps(big.NewInt(10_000_000)))
	assert.Equal(t, int64(shared.MaxFeeNumerator), BpsToFeeNumerator(shared.MaxFeeBps).Int64())
}

func TestBigIntToU64(t *testing.T) {
	got, err := BigIntToU64(big.NewInt(42))
	require.NoError(t, err)
	assert.Equal(t, uint64(42), got)

	_, err = BigIntToU64(new(big.Int).Lsh(big.NewInt(1), 64))
	assert.ErrorIs(t, err, shared.ErrOverflow)

	_, err = BigIntToU64(big.NewInt(-1))
	assert.ErrorIs(t, err, shared.ErrUnderflow)
}

func TestDecimalSqrt(t *testing.T) {
	got, err := decimalSqrt(decimal.NewFromFloat(2.25))
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromFloat(1.5)), "got %s", got)

	got, err = decimalSqrt(decimal.Zero)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = decimalSqrt(decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, shared.ErrUnderflow)
}
