package poolfees

import (
	"math/big"

	"github.com/launchcurve/launchcurve-go/virtualcurve/shared"
)

func IsDynamicFeeEnabled(dynamicFee shared.DynamicFeeConfig) bool {
	return dynamicFee.Initialized != 0
}

// VariableFeeNumerator derives the volatility fee component from the
// tracked accumulator: ceil((accumulator * binStep)^2 * control / 1e11).
func VariableFeeNumerator(dynamicFee shared.DynamicFeeConfig, volatilityTracker shared.VolatilityTracker) *big.Int {
	if !IsDynamicFeeEnabled(dynamicFee) {
		return big.NewInt(0)
	}
	accumulator := volatilityTracker.VolatilityAccumulator.BigInt()
	if accumulator.Sign() == 0 {
		return big.NewInt(0)
	}
	volatilityTimesBinStep := new(big.Int).Mul(accumulator, big.NewInt(int64(dynamicFee.BinStep)))
	squared := new(big.Int).Mul(volatilityTimesBinStep, volatilityTimesBinStep)
	vFee := new(big.Int).Mul(squared, big.NewInt(int64(dynamicFee.VariableFeeControl)))
	scaled := new(big.Int).Add(vFee, shared.DynamicFeeRoundingOffset)
	return scaled.Div(scaled, shared.DynamicFeeScalingFactor)
}
