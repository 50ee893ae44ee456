package poolfees

import (
	"math/big"
	"testing"

	"github.com/launchcurve/launchcurve-go/virtualcurve/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// One percent cliff, one reference amount per percent step.
func testLimiter() RateLimiter {
	return RateLimiter{
		CliffFeeNumerator:  big.NewInt(10_000_000),
		FeeIncrementBps:    big.NewInt(100),
		MaxLimiterDuration: big.NewInt(1000),
		ReferenceAmount:    big.NewInt(1_000_000),
	}
}

func TestRateLimiterIsApplied(t *testing.T) {
	r := testLimiter()
	activation := big.NewInt(500)

	assert.True(t, r.isApplied(big.NewInt(600), activation, shared.TradeDirectionQuoteToBase))
	assert.True(t, r.isApplied(big.NewInt(1500), activation, shared.TradeDirectionQuoteToBase))
	assert.False(t, r.isApplied(big.NewInt(1501), activation, shared.TradeDirectionQuoteToBase))
	assert.False(t, r.isApplied(big.NewInt(600), activation, shared.TradeDirectionBaseToQuote))

	disabled := RateLimiter{
		CliffFeeNumerator:  big.NewInt(10_000_000),
		FeeIncrementBps:    big.NewInt(0),
		MaxLimiterDuration: big.NewInt(0),
		ReferenceAmount:    big.NewInt(0),
	}
	assert.True(t, disabled.isZero())
	assert.False(t, disabled.isApplied(big.NewInt(600), activation, shared.TradeDirectionQuoteToBase))
}

func TestRateLimiterMaxIndex(t *testing.T) {
	idx, err := testLimiter().maxIndex()
	require.NoError(t, err)
	assert.Equal(t, int64(98), idx.Int64())

	overMax := testLimiter()
	overMax.CliffFeeNumerator = big.NewInt(shared.MaxFeeNumerator + 1)
	_, err = overMax.maxIndex()
	assert.ErrorIs(t, err, shared.ErrCliffFeeOverMax)

	zeroIncrement := testLimiter()
	zeroIncrement.FeeIncrementBps = big.NewInt(0)
	_, err = zeroIncrement.maxIndex()
	assert.ErrorIs(t, err, shared.ErrZeroFeeIncrement)
}

func TestRateLimiterFeeFromIncludedAmount(t *testing.T) {
	r := testLimiter()

	// At or below the reference amount only the cliff fee applies.
	got, err := r.feeNumeratorFromIncludedAmount(big.NewInt(1_000_000))
	require.NoError(t, err)
	assert.Equal(t, int64(10_000_000), got.Int64())

	// Two reference amounts pay 1% on the first and 2% on the
	// second, averaging to 1.5%.
	got, err = r.feeNumeratorFromIncludedAmount(big.NewInt(2_000_000))
	require.NoError(t, err)
	assert.Equal(t, int64(15_000_000), got.Int64())

	// Past the cap every additional lamport pays the maximum, so the
	// effective numerator approaches but never exceeds it.
	huge := new(big.Int).Mul(big.NewInt(1_000_000), big.NewInt(100_000))
	got, err = r.feeNumeratorFromIncludedAmount(huge)
	require.NoError(t, err)
	assert.True(t, got.Cmp(big.NewInt(shared.MaxFeeNumerator)) <= 0)
	assert.True(t, got.Cmp(big.NewInt(900_000_000)) > 0)
}

func TestRateLimiterFeeFromExcludedAmount(t *testing.T) {
	r := testLimiter()

	// The net leg of the two-reference trade above: 2_000_000 gross
	// minus the 30_000 fee.
	got, err := r.feeNumeratorFromExcludedAmount(big.NewInt(1_970_000))
	require.NoError(t, err)
	assert.Equal(t, int64(15_000_000), got.Int64())

	// A net amount within the first reference pays the cliff fee.
	got, err = r.feeNumeratorFromExcludedAmount(big.NewInt(500_000))
	require.NoError(t, err)
	assert.Equal(t, int64(10_000_000), got.Int64())
}

func TestRateLimiterRoundTrip(t *testing.T) {
	r := testLimiter()
	d := big.NewInt(shared.FeeDenominator)

	for _, gross := range []int64{1_500_000, 2_000_000, 5_432_100, 42_000_000, 150_000_000} {
		included := big.NewInt(gross)
		net, err := r.excludedFeeAmount(included)
		require.NoError(t, err)

		numerator, err := r.feeNumeratorFromExcludedAmount(net)
		require.NoError(t, err)

		// Re-deriving the gross amount from the net amount and the
		// inverted numerator must reproduce the original within the
		// rounding slack of one step.
		denom := new(big.Int).Sub(d, numerator)
		reconstructed, err := mulDiv(net, d, denom, shared.RoundingUp)
		require.NoError(t, err)
		diff := new(big.Int).Sub(reconstructed, included)
		assert.True(t, diff.CmpAbs(big.NewInt(10)) <= 0, "gross %d reconstructed as %s", gross, reconstructed)
	}
}

func TestRateLimiterValidate(t *testing.T) {
	r := testLimiter()
	assert.NoError(t, r.validate(shared.CollectFeeModeQuoteToken, shared.ActivationTypeSlot))

	assert.ErrorIs(t,
		r.validate(shared.CollectFeeModeOutputToken, shared.ActivationTypeSlot),
		shared.ErrInvalidBaseFeeMode)

	longWindow := testLimiter()
	longWindow.MaxLimiterDuration = big.NewInt(shared.MaxRateLimiterDurationInSeconds + 1)
	assert.ErrorIs(t,
		longWindow.validate(shared.CollectFeeModeQuoteToken, shared.ActivationTypeTimestamp),
		shared.ErrInvalidBaseFeeMode)

	partial := testLimiter()
	partial.ReferenceAmount = big.NewInt(0)
	assert.ErrorIs(t,
		partial.validate(shared.CollectFeeModeQuoteToken, shared.ActivationTypeSlot),
		shared.ErrInvalidBaseFeeMode)
}

func TestVariableFeeNumerator(t *testing.T) {
	disabled := shared.DynamicFeeConfig{}
	got := VariableFeeNumerator(disabled, shared.VolatilityTracker{})
	assert.Equal(t, int64(0), got.Int64())

	enabled := shared.DynamicFeeConfig{Initialized: 1, BinStep: 1, VariableFeeControl: 2_000_000}
	quiet := shared.VolatilityTracker{}
	assert.Equal(t, int64(0), VariableFeeNumerator(enabled, quiet).Int64())

	active := shared.VolatilityTracker{VolatilityAccumulator: shared.MustUint128FromString("100000")}
	// ceil((100000 * 1)^2 * 2000000 / 1e11) = 200000.
	got = VariableFeeNumerator(enabled, active)
	assert.Equal(t, int64(200_000), got.Int64())
}
