package math

import (
	"math/big"
	"testing"

	"github.com/launchcurve/launchcurve-go/virtualcurve/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMulDivRounding(t *testing.T) {
	up, err := MulDiv(big.NewInt(3), big.NewInt(7), big.NewInt(2), shared.RoundingUp)
	require.NoError(t, err)
	assert.Equal(t, int64(11), up.Int64())

	down, err := MulDiv(big.NewInt(3), big.NewInt(7), big.NewInt(2), shared.RoundingDown)
	require.NoError(t, err)
	assert.Equal(t, int64(10), down.Int64())

	exact, err := MulDiv(big.NewInt(4), big.NewInt(5), big.NewInt(2), shared.RoundingUp)
	require.NoError(t, err)
	assert.Equal(t, int64(10), exact.Int64())
}

func TestMulDivZeroDenominator(t *testing.T) {
	_, err := MulDiv(big.NewInt(1), big.NewInt(1), big.NewInt(0), shared.RoundingDown)
	assert.ErrorIs(t, err, shared.ErrDivisionByZero)
}

func TestSqrt(t *testing.T) {
	cases := []struct {
		in   int64
		want int64
	}{
		{0, 0},
		{1, 1},
		{4, 2},
		{99, 9},
		{100, 10},
		{101, 10},
	}
	for _, tc := range cases {
		got := Sqrt(big.NewInt(tc.in))
		assert.Equal(t, tc.want, got.Int64(), "sqrt(%d)", tc.in)
	}

	big25 := new(big.Int).Lsh(big.NewInt(25), 128)
	want := new(big.Int).Lsh(big.NewInt(5), 64)
	assert.Equal(t, want, Sqrt(big25))
}

func TestPowQ64Identities(t *testing.T) {
	// base^0 is one in Q64.64.
	got, err := PowQ64(new(big.Int).Set(shared.OneQ64), big.NewInt(0), true)
	require.NoError(t, err)
	assert.Equal(t, shared.OneQ64, got)

	// one to any power stays one.
	got, err = PowQ64(new(big.Int).Set(shared.OneQ64), big.NewInt(17), true)
	require.NoError(t, err)
	assert.Equal(t, shared.OneQ64, got)

	// A sub-one base decays monotonically with the exponent.
	base := new(big.Int).Sub(shared.OneQ64, big.NewInt(1<<40))
	prev := new(big.Int).Set(shared.OneQ64)
	for _, exp := range []int64{1, 2, 8, 64} {
		v, err := PowQ64(new(big.Int).Set(base), big.NewInt(exp), true)
		require.NoError(t, err)
		assert.True(t, v.Cmp(prev) < 0, "exponent %d did not decay", exp)
		prev = v
	}
}

func TestPowQ64RejectsNegativeExponent(t *testing.T) {
	_, err := PowQ64(new(big.Int).Set(shared.OneQ64), big.NewInt(-1), true)
	assert.ErrorIs(t, err, shared.ErrExponentOutOfRange)
}

func TestSafeSubUnderflow(t *testing.T) {
	_, err := Sub(big.NewInt(1), big.NewInt(2))
	assert.ErrorIs(t, err, shared.ErrUnderflow)

	got, err := Sub(big.NewInt(5), big.NewInt(5))
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Int64())
}
