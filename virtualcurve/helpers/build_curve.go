package helpers

import (
	"errors"
	"math/big"

	mathutil "github.com/launchcurve/launchcurve-go/virtualcurve/math"
	"github.com/launchcurve/launchcurve-go/virtualcurve/shared"
	"github.com/shopspring/decimal"
)

// BuildCurveParams constructs a single-segment launch curve from the
// token supply split and the quote threshold at which the sale closes.
type BuildCurveParams struct {
	TotalTokenSupply            uint64
	PercentageSupplyOnMigration float64
	MigrationQuoteThreshold     float64
	TokenBaseDecimal            shared.TokenDecimal
	TokenQuoteDecimal           shared.TokenDecimal
	ActivationType              shared.ActivationType
	CollectFeeMode              shared.CollectFeeMode
	BaseFee                     BaseFeeParams
	DynamicFeeEnabled           bool
	ProtocolFeePercent          uint8
	ReferralFeePercent          uint8
}

// BuildCurveWithMarketCapParams derives the supply split from a target
// initial and migration market cap instead of taking it directly.
type BuildCurveWithMarketCapParams struct {
	BuildCurveParams
	InitialMarketCap   float64
	MigrationMarketCap float64
}

// BuildCurveConfig assembles a quotable pool config: fee structure,
// start and migration sqrt prices, and a one-segment liquidity curve
// sized so the quote threshold is reached exactly at the migration
// price.
func BuildCurveConfig(params BuildCurveParams) (*shared.PoolConfig, error) {
	baseFee, err := GetBaseFeeConfig(params.BaseFee, params.TokenQuoteDecimal, params.ActivationType)
	if err != nil {
		return nil, err
	}

	percentage := decimalFromFloat(params.PercentageSupplyOnMigration)
	migrationQuoteThreshold := decimalFromFloat(params.MigrationQuoteThreshold)

	migrationBaseSupply := decimalFromUint64(params.TotalTokenSupply).
		Mul(percentage).
		Div(decimal.NewFromInt(100))
	if migrationBaseSupply.IsZero() {
		return nil, errors.New("migration base supply must be greater than zero")
	}

	totalSupply, err := lamportsFromUint64(params.TotalTokenSupply, params.TokenBaseDecimal)
	if err != nil {
		return nil, err
	}
	migrationPrice := migrationQuoteThreshold.DivRound(migrationBaseSupply, 25)

	migrationQuoteThresholdInLamport, err := lamportsFromDecimal(migrationQuoteThreshold, params.TokenQuoteDecimal)
	if err != nil {
		return nil, err
	}

	migrateSqrtPrice, err := GetSqrtPriceFromPrice(
		migrationPrice.String(),
		int(params.TokenBaseDecimal),
		int(params.TokenQuoteDecimal),
	)
	if err != nil {
		return nil, err
	}

	migrationBaseAmount, err := GetMigrationBaseToken(migrationQuoteThresholdInLamport, migrateSqrtPrice)
	if err != nil {
		return nil, err
	}
	swapAmount := new(big.Int).Sub(totalSupply, migrationBaseAmount)
	if swapAmount.Sign() <= 0 {
		return nil, errors.New("migration supply leaves nothing to sell on the curve")
	}

	sqrtStartPrice, curve, err := GetFirstCurve(migrateSqrtPrice, migrationBaseAmount, swapAmount, migrationQuoteThresholdInLamport)
	if err != nil {
		return nil, err
	}

	migrationQuoteThresholdU64, err := BigIntToU64(migrationQuoteThresholdInLamport)
	if err != nil {
		return nil, err
	}
	sqrtStartPriceU128, err := shared.Uint128FromBig(sqrtStartPrice)
	if err != nil {
		return nil, err
	}
	migrateSqrtPriceU128, err := shared.Uint128FromBig(migrateSqrtPrice)
	if err != nil {
		return nil, err
	}

	cfg := &shared.PoolConfig{
		PoolFees: shared.PoolFeesConfig{
			BaseFee:            baseFee,
			ProtocolFeePercent: params.ProtocolFeePercent,
			ReferralFeePercent: params.ReferralFeePercent,
		},
		CollectFeeMode:          uint8(params.CollectFeeMode),
		ActivationType:          uint8(params.ActivationType),
		MigrationQuoteThreshold: migrationQuoteThresholdU64,
		SqrtStartPrice:          sqrtStartPriceU128,
		MigrationSqrtPrice:      migrateSqrtPriceU128,
		Curve:                   curve,
	}

	if params.DynamicFeeEnabled {
		dynamicFee, err := GetDynamicFeeConfig(dynamicFeeBaseBps(params.BaseFee), uint16(shared.MaxPriceChangePercentageDefault))
		if err != nil {
			return nil, err
		}
		cfg.PoolFees.DynamicFee = dynamicFee
	}

	return cfg, nil
}

// BuildCurveConfigWithMarketCap sizes the curve from market caps: the
// supply fraction that migrates follows from the square root of the
// cap ratio.
func BuildCurveConfigWithMarketCap(params BuildCurveWithMarketCapParams) (*shared.PoolConfig, error) {
	if params.InitialMarketCap <= 0 || params.MigrationMarketCap <= 0 {
		return nil, errors.New("market caps must be greater than zero")
	}
	percentage, err := GetPercentageSupplyOnMigration(
		decimalFromFloat(params.InitialMarketCap),
		decimalFromFloat(params.MigrationMarketCap),
	)
	if err != nil {
		return nil, err
	}
	migrationQuoteAmount := GetMigrationQuoteAmount(decimalFromFloat(params.MigrationMarketCap), percentage)

	derived := params.BuildCurveParams
	derived.PercentageSupplyOnMigration = percentage.InexactFloat64()
	derived.MigrationQuoteThreshold = migrationQuoteAmount.InexactFloat64()
	return BuildCurveConfig(derived)
}

// GetPercentageSupplyOnMigration solves the constant-product relation
// between the two market caps: pct = 100*sqrt(mc0/mc1)/(1+sqrt(mc0/mc1)).
func GetPercentageSupplyOnMigration(initialMarketCap, migrationMarketCap decimal.Decimal) (decimal.Decimal, error) {
	marketCapRatio := initialMarketCap.Div(migrationMarketCap)
	sqrtRatio, err := decimalSqrt(marketCapRatio)
	if err != nil {
		return decimal.Zero, err
	}
	numerator := decimal.NewFromInt(100).Mul(sqrtRatio)
	denominator := decimal.NewFromInt(1).Add(sqrtRatio)
	return numerator.Div(denominator), nil
}

func GetMigrationQuoteAmount(migrationMarketCap, percentageSupplyOnMigration decimal.Decimal) decimal.Decimal {
	return migrationMarketCap.Mul(percentageSupplyOnMigration).Div(decimal.NewFromInt(100))
}

// GetSqrtPriceFromPrice converts a human price into a Q64.64 sqrt
// price, adjusting for the decimal difference between the tokens.
func GetSqrtPriceFromPrice(price string, tokenBaseDecimal, tokenQuoteDecimal int) (*big.Int, error) {
	decimalPrice, err := decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	adjusted := decimalPrice.DivRound(decimal.New(1, int32(tokenBaseDecimal)-int32(tokenQuoteDecimal)), 25)

	sqrtValue, err := decimalSqrt(adjusted)
	if err != nil {
		return nil, err
	}
	sqrtValueQ64 := sqrtValue.Mul(decimal.NewFromBigInt(shared.OneQ64, 0))
	return FromDecimalToBig(sqrtValueQ64), nil
}

func GetSqrtPriceFromMarketCap(marketCap float64, totalSupply uint64, tokenBaseDecimal, tokenQuoteDecimal shared.TokenDecimal) (*big.Int, error) {
	if totalSupply == 0 {
		return nil, errors.New("totalSupply must be greater than zero")
	}
	price := decimalFromFloat(marketCap).Div(decimalFromUint64(totalSupply))
	return GetSqrtPriceFromPrice(price.String(), int(tokenBaseDecimal), int(tokenQuoteDecimal))
}

// GetMigrationBaseToken is the base amount the migration pool needs to
// pair with the quote amount at the migration price, rounded up.
func GetMigrationBaseToken(migrationQuoteAmount, sqrtMigrationPrice *big.Int) (*big.Int, error) {
	price := new(big.Int).Mul(sqrtMigrationPrice, sqrtMigrationPrice)
	if price.Sign() == 0 {
		return nil, shared.ErrInvalidPrice
	}
	quote := new(big.Int).Lsh(migrationQuoteAmount, 128)
	div, mod := new(big.Int).QuoRem(quote, price, new(big.Int))
	if mod.Sign() != 0 {
		div.Add(div, big.NewInt(1))
	}
	return div, nil
}

// GetLiquidity takes the smaller of the liquidity implied by the base
// and the quote side so neither reserve is overcommitted.
func GetLiquidity(baseAmount, quoteAmount, minSqrtPrice, maxSqrtPrice *big.Int) (*big.Int, error) {
	liquidityFromBase, err := mathutil.GetInitialLiquidityFromDeltaBase(baseAmount, maxSqrtPrice, minSqrtPrice)
	if err != nil {
		return nil, err
	}
	liquidityFromQuote, err := mathutil.GetInitialLiquidityFromDeltaQuote(quoteAmount, minSqrtPrice, maxSqrtPrice)
	if err != nil {
		return nil, err
	}
	if liquidityFromBase.Cmp(liquidityFromQuote) < 0 {
		return liquidityFromBase, nil
	}
	return liquidityFromQuote, nil
}

// GetFirstCurve derives the start price and the single curve segment
// from the migration point and the sellable amount.
func GetFirstCurve(migrationSqrtPrice, migrationBaseAmount, swapAmount, migrationQuoteThreshold *big.Int) (*big.Int, []shared.CurveSegment, error) {
	if swapAmount.Sign() == 0 {
		return nil, nil, errors.New("swap amount must be non-zero")
	}
	sqrtStartPriceDecimal := decimal.NewFromBigInt(migrationSqrtPrice, 0).
		Mul(decimal.NewFromBigInt(migrationBaseAmount, 0)).
		Div(decimal.NewFromBigInt(swapAmount, 0))
	sqrtStartPrice := FromDecimalToBig(sqrtStartPriceDecimal)

	liquidity, err := GetLiquidity(swapAmount, migrationQuoteThreshold, sqrtStartPrice, migrationSqrtPrice)
	if err != nil {
		return nil, nil, err
	}

	sqrtPriceU128, err := shared.Uint128FromBig(migrationSqrtPrice)
	if err != nil {
		return nil, nil, err
	}
	liquidityU128, err := shared.Uint128FromBig(liquidity)
	if err != nil {
		return nil, nil, err
	}

	curve := []shared.CurveSegment{{SqrtPrice: sqrtPriceU128, Liquidity: liquidityU128}}
	return sqrtStartPrice, curve, nil
}

// GetBaseTokenForSwap totals the base token the curve sells between
// the start price and the migration price.
func GetBaseTokenForSwap(sqrtStartPrice, sqrtMigrationPrice *big.Int, curve []shared.CurveSegment) (*big.Int, error) {
	total := big.NewInt(0)
	for i := 0; i < len(curve); i++ {
		lower := sqrtStartPrice
		if i > 0 {
			lower = curve[i-1].SqrtPrice.BigInt()
		}
		if curve[i].SqrtPrice.BigInt().Cmp(sqrtMigrationPrice) > 0 {
			delta, err := mathutil.GetDeltaAmountBase(lower, sqrtMigrationPrice, curve[i].Liquidity.BigInt(), shared.RoundingUp)
			if err != nil {
				return nil, err
			}
			total.Add(total, delta)
			break
		}
		delta, err := mathutil.GetDeltaAmountBase(lower, curve[i].SqrtPrice.BigInt(), curve[i].Liquidity.BigInt(), shared.RoundingUp)
		if err != nil {
			return nil, err
		}
		total.Add(total, delta)
	}
	return total, nil
}

// GetSwapAmountWithBuffer pads the sellable amount by the swap buffer,
// capped at what the curve can hold up to the maximum price.
func GetSwapAmountWithBuffer(swapBaseAmount, sqrtStartPrice *big.Int, curve []shared.CurveSegment) (*big.Int, error) {
	swapAmountBuffer := new(big.Int).Add(swapBaseAmount, new(big.Int).Div(new(big.Int).Mul(swapBaseAmount, big.NewInt(shared.SwapBufferPercentage)), big.NewInt(100)))
	maxBaseAmountOnCurve, err := GetBaseTokenForSwap(sqrtStartPrice, shared.MaxSqrtPrice, curve)
	if err != nil {
		return nil, err
	}
	if swapAmountBuffer.Cmp(maxBaseAmountOnCurve) > 0 {
		return maxBaseAmountOnCurve, nil
	}
	return swapAmountBuffer, nil
}

// GetMigrationThresholdPrice walks the curve upward with the quote
// threshold and returns the sqrt price where the threshold is spent.
func GetMigrationThresholdPrice(migrationThreshold, sqrtStartPrice *big.Int, curve []shared.CurveSegment) (*big.Int, error) {
	if len(curve) == 0 {
		return nil, errors.New("curve is empty")
	}
	nextSqrtPrice := new(big.Int).Set(sqrtStartPrice)
	totalAmount, err := mathutil.GetDeltaAmountQuote(nextSqrtPrice, curve[0].SqrtPrice.BigInt(), curve[0].Liquidity.BigInt(), shared.RoundingUp)
	if err != nil {
		return nil, err
	}
	if totalAmount.Cmp(migrationThreshold) > 0 {
		return mathutil.GetNextSqrtPriceFromInput(nextSqrtPrice, curve[0].Liquidity.BigInt(), migrationThreshold, false)
	}
	amountLeft := new(big.Int).Sub(migrationThreshold, totalAmount)
	nextSqrtPrice = curve[0].SqrtPrice.BigInt()
	for i := 1; i < len(curve); i++ {
		maxAmount, err := mathutil.GetDeltaAmountQuote(nextSqrtPrice, curve[i].SqrtPrice.BigInt(), curve[i].Liquidity.BigInt(), shared.RoundingUp)
		if err != nil {
			return nil, err
		}
		if maxAmount.Cmp(amountLeft) > 0 {
			nextSqrtPrice, err = mathutil.GetNextSqrtPriceFromInput(nextSqrtPrice, curve[i].Liquidity.BigInt(), amountLeft, false)
			if err != nil {
				return nil, err
			}
			amountLeft = big.NewInt(0)
			break
		}
		amountLeft.Sub(amountLeft, maxAmount)
		nextSqrtPrice = curve[i].SqrtPrice.BigInt()
	}
	if amountLeft.Sign() != 0 {
		return nil, shared.ErrInsufficientLiquidity
	}
	return nextSqrtPrice, nil
}

func dynamicFeeBaseBps(params BaseFeeParams) uint16 {
	if params.BaseFeeMode == shared.BaseFeeModeRateLimiter {
		if params.RateLimiter == nil {
			return 0
		}
		return params.RateLimiter.BaseFeeBps
	}
	if params.FeeScheduler == nil {
		return 0
	}
	return params.FeeScheduler.EndingFeeBps
}
