package shared

import "math/big"

const (
	// MaxCurveSegments bounds the piecewise curve carried by a pool config.
	MaxCurveSegments = 16

	// Resolution is the number of fractional bits in a Q64.64 sqrt price.
	Resolution = 64

	FeeDenominator = 1_000_000_000
	MaxBasisPoint  = 10_000

	U16Max = 65_535

	MinFeeBps = 25
	MaxFeeBps = 9900

	MinFeeNumerator = 2_500_000
	MaxFeeNumerator = 990_000_000

	MaxRateLimiterDurationInSeconds = 43_200
	MaxRateLimiterDurationInSlots   = 108_000

	DynamicFeeFilterPeriodDefault    = 10
	DynamicFeeDecayPeriodDefault     = 120
	DynamicFeeReductionFactorDefault = 5000
	BinStepBpsDefault                = 1
	MaxPriceChangePercentageDefault  = 20

	DefaultProtocolFeePercent = 20
	DefaultReferralFeePercent = 20

	// SwapBufferPercentage is how much of the migration quote threshold an
	// exact-in quote may leave unconsumed before it is rejected.
	SwapBufferPercentage = 25
)

var (
	OneQ64 = new(big.Int).Lsh(big.NewInt(1), Resolution)

	U64Max  = new(big.Int).SetUint64(^uint64(0))
	U128Max = mustBigInt("340282366920938463463374607431768211455")

	MinSqrtPrice = mustBigInt("4295048016")
	MaxSqrtPrice = mustBigInt("79226673521066979257578248091")

	DynamicFeeScalingFactor  = mustBigInt("100000000000")
	DynamicFeeRoundingOffset = mustBigInt("99999999999")

	BinStepBpsU128Default = mustBigInt("1844674407370955")
)

func mustBigInt(v string) *big.Int {
	out, ok := new(big.Int).SetString(v, 10)
	if !ok {
		panic("invalid big integer literal: " + v)
	}
	return out
}
