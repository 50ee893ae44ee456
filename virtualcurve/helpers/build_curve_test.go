package helpers

import (
	"math/big"
	"testing"

	vcmath "github.com/launchcurve/launchcurve-go/virtualcurve/math"
	"github.com/launchcurve/launchcurve-go/virtualcurve/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSqrtPriceFromPrice(t *testing.T) {
	// Equal decimals and a price of 1 land exactly on 1.0 in Q64.64.
	got, err := GetSqrtPriceFromPrice("1", 6, 6)
	require.NoError(t, err)
	assert.Equal(t, shared.OneQ64, got)

	got, err = GetSqrtPriceFromPrice("4", 6, 6)
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Lsh(big.NewInt(2), 64), got)

	// A larger quote decimal scales the raw price up.
	small, err := GetSqrtPriceFromPrice("0.001", 6, 6)
	require.NoError(t, err)
	scaled, err := GetSqrtPriceFromPrice("0.001", 6, 9)
	require.NoError(t, err)
	assert.True(t, scaled.Cmp(small) > 0)

	_, err = GetSqrtPriceFromPrice("not a price", 6, 6)
	assert.Error(t, err)
}

func TestGetSqrtPriceFromMarketCap(t *testing.T) {
	got, err := GetSqrtPriceFromMarketCap(1_000_000, 1_000_000, shared.TokenDecimalSix, shared.TokenDecimalSix)
	require.NoError(t, err)
	assert.Equal(t, shared.OneQ64, got)

	_, err = GetSqrtPriceFromMarketCap(1_000_000, 0, shared.TokenDecimalSix, shared.TokenDecimalSix)
	assert.Error(t, err)
}

func TestGetPercentageSupplyOnMigration(t *testing.T) {
	// A 4x cap ratio means sqrt(1/4)=0.5: 100*0.5/1.5 = 33.33...%.
	pct, err := GetPercentageSupplyOnMigration(decimal.NewFromInt(25), decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.InDelta(t, 33.3333, pct.InexactFloat64(), 0.001)

	// Equal caps split the supply evenly.
	pct, err = GetPercentageSupplyOnMigration(decimal.NewFromInt(100), decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.InDelta(t, 50.0, pct.InexactFloat64(), 0.001)
}

func TestGetMigrationBaseToken(t *testing.T) {
	sqrtPrice := new(big.Int).Lsh(big.NewInt(2), 64)
	got, err := GetMigrationBaseToken(big.NewInt(1000), sqrtPrice)
	require.NoError(t, err)
	assert.Equal(t, int64(250), got.Int64())

	_, err = GetMigrationBaseToken(big.NewInt(1000), big.NewInt(0))
	assert.ErrorIs(t, err, shared.ErrInvalidPrice)
}

func TestGetLiquidity(t *testing.T) {
	minSqrtPrice := new(big.Int).Lsh(big.NewInt(1), 64)
	maxSqrtPrice := new(big.Int).Lsh(big.NewInt(2), 64)

	liquidity, err := GetLiquidity(big.NewInt(500), big.NewInt(1000), minSqrtPrice, maxSqrtPrice)
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Lsh(big.NewInt(1000), 64), liquidity)

	// The scarcer side binds.
	lessQuote, err := GetLiquidity(big.NewInt(500), big.NewInt(600), minSqrtPrice, maxSqrtPrice)
	require.NoError(t, err)
	assert.True(t, lessQuote.Cmp(liquidity) < 0)
}

func TestGetFirstCurve(t *testing.T) {
	migrationSqrtPrice := new(big.Int).Lsh(big.NewInt(2), 64)

	sqrtStartPrice, curve, err := GetFirstCurve(migrationSqrtPrice, big.NewInt(250), big.NewInt(500), big.NewInt(1000))
	require.NoError(t, err)

	assert.Equal(t, shared.OneQ64, sqrtStartPrice)
	require.Len(t, curve, 1)
	assert.Equal(t, migrationSqrtPrice, curve[0].SqrtPrice.BigInt())
	assert.Equal(t, new(big.Int).Lsh(big.NewInt(1000), 64), curve[0].Liquidity.BigInt())
}

func TestGetBaseTokenForSwap(t *testing.T) {
	sqrtStartPrice := new(big.Int).Lsh(big.NewInt(1), 64)
	migrationSqrtPrice := new(big.Int).Lsh(big.NewInt(2), 64)
	curve := []shared.CurveSegment{{
		SqrtPrice: shared.MustUint128FromString("36893488147419103232"),
		Liquidity: shared.MustUint128FromString("18446744073709551616000"),
	}}

	total, err := GetBaseTokenForSwap(sqrtStartPrice, migrationSqrtPrice, curve)
	require.NoError(t, err)
	assert.Equal(t, int64(500), total.Int64())
}

func TestGetMigrationThresholdPrice(t *testing.T) {
	sqrtStartPrice := new(big.Int).Lsh(big.NewInt(1), 64)
	curve := []shared.CurveSegment{{
		SqrtPrice: shared.MustUint128FromString("36893488147419103232"),
		Liquidity: shared.MustUint128FromString("18446744073709551616000"),
	}}

	// 250 quote lamports of the 1000 capacity lands a quarter of the
	// way up the sqrt price range.
	got, err := GetMigrationThresholdPrice(big.NewInt(250), sqrtStartPrice, curve)
	require.NoError(t, err)
	want := new(big.Int).Add(sqrtStartPrice, new(big.Int).Lsh(big.NewInt(1), 62))
	assert.Equal(t, want, got)

	_, err = GetMigrationThresholdPrice(big.NewInt(2000), sqrtStartPrice, curve)
	assert.ErrorIs(t, err, shared.ErrInsufficientLiquidity)
}

func TestGetSwapAmountWithBuffer(t *testing.T) {
	sqrtStartPrice := new(big.Int).Lsh(big.NewInt(1), 64)
	curve := []shared.CurveSegment{{
		SqrtPrice: shared.MustUint128FromString("36893488147419103232"),
		Liquidity: shared.MustUint128FromString("18446744073709551616000"),
	}}

	buffered, err := GetSwapAmountWithBuffer(big.NewInt(400), sqrtStartPrice, curve)
	require.NoError(t, err)
	assert.Equal(t, int64(500), buffered.Int64())

	// The buffer is capped by what the curve can hold up to the
	// maximum sqrt price.
	capped, err := GetSwapAmountWithBuffer(new(big.Int).Lsh(big.NewInt(1), 80), sqrtStartPrice, curve)
	require.NoError(t, err)
	maxOnCurve, err := GetBaseTokenForSwap(sqrtStartPrice, shared.MaxSqrtPrice, curve)
	require.NoError(t, err)
	assert.Equal(t, maxOnCurve, capped)
}

func TestBuildCurveConfig(t *testing.T) {
	cfg, err := BuildCurveConfig(BuildCurveParams{
		TotalTokenSupply:            1_000_000_000,
		PercentageSupplyOnMigration: 20,
		MigrationQuoteThreshold:     50,
		TokenBaseDecimal:            shared.TokenDecimalSix,
		TokenQuoteDecimal:           shared.TokenDecimalNine,
		ActivationType:              shared.ActivationTypeSlot,
		CollectFeeMode:              shared.CollectFeeModeQuoteToken,
		BaseFee: BaseFeeParams{
			BaseFeeMode:  shared.BaseFeeModeFeeSchedulerLinear,
			FeeScheduler: &FeeSchedulerParams{StartingFeeBps: 100, EndingFeeBps: 100},
		},
		DynamicFeeEnabled: true,
	})
	require.NoError(t, err)

	require.Len(t, cfg.Curve, 1)
	assert.Equal(t, uint64(50_000_000_000), cfg.MigrationQuoteThreshold)
	assert.True(t, cfg.SqrtStartPrice.BigInt().Cmp(cfg.MigrationSqrtPrice.BigInt()) < 0)
	assert.Equal(t, uint8(1), cfg.PoolFees.DynamicFee.Initialized)
	assert.NoError(t, ValidateCurveConfig(cfg))

	// The built curve is immediately quotable.
	pool := &shared.VirtualPool{SqrtPrice: cfg.SqrtStartPrice}
	quote, err := vcmath.SwapQuoteExactIn(pool, cfg, shared.TradeDirectionQuoteToBase, big.NewInt(1_000_000_000), 50, false, big.NewInt(1))
	require.NoError(t, err)
	assert.True(t, quote.OutputAmount.Sign() > 0)
	assert.True(t, quote.MinimumAmountOut.Cmp(quote.OutputAmount) < 0)
}

func TestBuildCurveConfigWithMarketCap(t *testing.T) {
	cfg, err := BuildCurveConfigWithMarketCap(BuildCurveWithMarketCapParams{
		BuildCurveParams: BuildCurveParams{
			TotalTokenSupply:  1_000_000_000,
			TokenBaseDecimal:  shared.TokenDecimalSix,
			TokenQuoteDecimal: shared.TokenDecimalNine,
			ActivationType:    shared.ActivationTypeSlot,
			CollectFeeMode:    shared.CollectFeeModeQuoteToken,
			BaseFee: BaseFeeParams{
				BaseFeeMode:  shared.BaseFeeModeFeeSchedulerLinear,
				FeeScheduler: &FeeSchedulerParams{StartingFeeBps: 100, EndingFeeBps: 100},
			},
		},
		InitialMarketCap:   5_000,
		MigrationMarketCap: 50_000,
	})
	require.NoError(t, err)
	assert.NoError(t, ValidateCurveConfig(cfg))

	_, err = BuildCurveConfigWithMarketCap(BuildCurveWithMarketCapParams{
		InitialMarketCap:   0,
		MigrationMarketCap: 50_000,
	})
	assert.Error(t, err)
}

func TestValidateCurveConfigRejectsBadShapes(t *testing.T) {
	valid, err := BuildCurveConfig(BuildCurveParams{
		TotalTokenSupply:            1_000_000_000,
		PercentageSupplyOnMigration: 20,
		MigrationQuoteThreshold:     50,
		TokenBaseDecimal:            shared.TokenDecimalSix,
		TokenQuoteDecimal:           shared.TokenDecimalNine,
		ActivationType:              shared.ActivationTypeSlot,
		CollectFeeMode:              shared.CollectFeeModeQuoteToken,
		BaseFee: BaseFeeParams{
			BaseFeeMode:  shared.BaseFeeModeFeeSchedulerLinear,
			FeeScheduler: &FeeSchedulerParams{StartingFeeBps: 100, EndingFeeBps: 100},
		},
	})
	require.NoError(t, err)

	assert.Error(t, ValidateCurveConfig(nil))

	empty := *valid
	empty.Curve = nil
	assert.Error(t, ValidateCurveConfig(&empty))

	zeroThreshold := *valid
	zeroThreshold.MigrationQuoteThreshold = 0
	assert.Error(t, ValidateCurveConfig(&zeroThreshold))

	descending := *valid
	descending.SqrtStartPrice = descending.Curve[0].SqrtPrice
	assert.ErrorIs(t, ValidateCurveConfig(&descending), shared.ErrInvalidPrice)

	migrationBeyondCurve := *valid
	beyond, err := shared.Uint128FromBig(new(big.Int).Add(valid.Curve[0].SqrtPrice.BigInt(), big.NewInt(1)))
	require.NoError(t, err)
	migrationBeyondCurve.MigrationSqrtPrice = beyond
	assert.ErrorIs(t, ValidateCurveConfig(&migrationBeyondCurve), shared.ErrInvalidPrice)
}
