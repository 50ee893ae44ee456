package helpers

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/launchcurve/launchcurve-go/virtualcurve/shared"
	"github.com/shopspring/decimal"
)

// FeeSchedulerParams describes a decaying base fee in basis points.
// Equal starting and ending fees mean a flat fee with no decay.
type FeeSchedulerParams struct {
	StartingFeeBps uint16
	EndingFeeBps   uint16
	NumberOfPeriod uint64
	TotalDuration  uint64
}

// RateLimiterParams describes the volume-stepped buy fee. The
// reference amount is in whole quote tokens and is converted to
// lamports with the quote decimal.
type RateLimiterParams struct {
	BaseFeeBps         uint16
	FeeIncrementBps    uint16
	ReferenceAmount    uint64
	MaxLimiterDuration uint64
}

type BaseFeeParams struct {
	BaseFeeMode  shared.BaseFeeMode
	FeeScheduler *FeeSchedulerParams
	RateLimiter  *RateLimiterParams
}

// GetBaseFeeConfig resolves user-facing basis-point fee parameters
// into the packed on-curve representation.
func GetBaseFeeConfig(params BaseFeeParams, tokenQuoteDecimal shared.TokenDecimal, activationType shared.ActivationType) (shared.BaseFeeConfig, error) {
	if params.BaseFeeMode == shared.BaseFeeModeRateLimiter {
		if params.RateLimiter == nil {
			return shared.BaseFeeConfig{}, errors.New("rate limiter parameters are required for RateLimiter mode")
		}
		return getRateLimiterConfig(*params.RateLimiter, tokenQuoteDecimal, activationType)
	}
	if params.FeeScheduler == nil {
		return shared.BaseFeeConfig{}, errors.New("fee scheduler parameters are required for FeeScheduler mode")
	}
	return getFeeSchedulerConfig(*params.FeeScheduler, params.BaseFeeMode)
}

func getFeeSchedulerConfig(params FeeSchedulerParams, baseFeeMode shared.BaseFeeMode) (shared.BaseFeeConfig, error) {
	if params.StartingFeeBps == params.EndingFeeBps {
		if params.NumberOfPeriod != 0 || params.TotalDuration != 0 {
			return shared.BaseFeeConfig{}, errors.New("numberOfPeriod and totalDuration must both be zero")
		}
		cliffFeeNumerator := BpsToFeeNumerator(uint64(params.StartingFeeBps))
		return shared.BaseFeeConfig{
			CliffFeeNumerator: cliffFeeNumerator.Uint64(),
			BaseFeeMode:       uint8(shared.BaseFeeModeFeeSchedulerLinear),
		}, nil
	}

	if params.NumberOfPeriod == 0 {
		return shared.BaseFeeConfig{}, errors.New("numberOfPeriod must be greater than zero")
	}
	if params.StartingFeeBps > shared.MaxFeeBps {
		return shared.BaseFeeConfig{}, fmt.Errorf("startingFeeBps (%d) exceeds maximum", params.StartingFeeBps)
	}
	if params.EndingFeeBps < shared.MinFeeBps {
		return shared.BaseFeeConfig{}, fmt.Errorf("endingFeeBps (%d) is less than minimum", params.EndingFeeBps)
	}
	if params.EndingFeeBps > params.StartingFeeBps {
		return shared.BaseFeeConfig{}, errors.New("endingFeeBps must be <= startingFeeBps")
	}
	if params.TotalDuration == 0 {
		return shared.BaseFeeConfig{}, errors.New("totalDuration must be greater than zero")
	}
	if params.NumberOfPeriod > uint64(^uint16(0)) {
		return shared.BaseFeeConfig{}, errors.New("numberOfPeriod overflows uint16")
	}

	maxBaseFeeNumerator := BpsToFeeNumerator(uint64(params.StartingFeeBps))
	minBaseFeeNumerator := BpsToFeeNumerator(uint64(params.EndingFeeBps))

	periodFrequency := params.TotalDuration / params.NumberOfPeriod
	var reductionFactor *big.Int
	if baseFeeMode == shared.BaseFeeModeFeeSchedulerLinear {
		totalReduction := new(big.Int).Sub(maxBaseFeeNumerator, minBaseFeeNumerator)
		reductionFactor = new(big.Int).Div(totalReduction, big.NewInt(int64(params.NumberOfPeriod)))
	} else {
		// Solve (1 - r/10000)^n = minFee/maxFee for the per-period
		// reduction r.
		ratio := decimal.NewFromBigInt(minBaseFeeNumerator, 0).Div(decimal.NewFromBigInt(maxBaseFeeNumerator, 0))
		decayBase := ratio.Pow(decimal.NewFromInt(1).Div(decimal.NewFromInt(int64(params.NumberOfPeriod))))
		reductionFactor = FromDecimalToBig(
			decimal.NewFromInt(shared.MaxBasisPoint).Mul(decimal.NewFromInt(1).Sub(decayBase)),
		)
	}

	reductionFactorU64, err := BigIntToU64(reductionFactor)
	if err != nil {
		return shared.BaseFeeConfig{}, err
	}

	return shared.BaseFeeConfig{
		CliffFeeNumerator: maxBaseFeeNumerator.Uint64(),
		FirstFactor:       uint16(params.NumberOfPeriod),
		SecondFactor:      periodFrequency,
		ThirdFactor:       reductionFactorU64,
		BaseFeeMode:       uint8(baseFeeMode),
	}, nil
}

func getRateLimiterConfig(params RateLimiterParams, tokenQuoteDecimal shared.TokenDecimal, activationType shared.ActivationType) (shared.BaseFeeConfig, error) {
	cliffFeeNumerator := BpsToFeeNumerator(uint64(params.BaseFeeBps))
	feeIncrementNumerator := BpsToFeeNumerator(uint64(params.FeeIncrementBps))

	if params.BaseFeeBps == 0 || params.FeeIncrementBps == 0 || params.ReferenceAmount == 0 || params.MaxLimiterDuration == 0 {
		return shared.BaseFeeConfig{}, errors.New("all rate limiter parameters must be greater than zero")
	}
	if params.BaseFeeBps > shared.MaxFeeBps {
		return shared.BaseFeeConfig{}, fmt.Errorf("baseFeeBps (%d) exceeds maximum allowed", params.BaseFeeBps)
	}
	if params.BaseFeeBps < shared.MinFeeBps {
		return shared.BaseFeeConfig{}, fmt.Errorf("baseFeeBps (%d) is less than minimum allowed", params.BaseFeeBps)
	}
	if params.FeeIncrementBps > shared.MaxFeeBps {
		return shared.BaseFeeConfig{}, fmt.Errorf("feeIncrementBps (%d) exceeds maximum allowed", params.FeeIncrementBps)
	}
	if feeIncrementNumerator.Cmp(big.NewInt(shared.FeeDenominator)) >= 0 {
		return shared.BaseFeeConfig{}, errors.New("fee increment numerator must be less than the fee denominator")
	}

	deltaNumerator := new(big.Int).Sub(big.NewInt(shared.MaxFeeNumerator), cliffFeeNumerator)
	maxIndex := new(big.Int).Div(deltaNumerator, feeIncrementNumerator)
	if maxIndex.Cmp(big.NewInt(1)) < 0 {
		return shared.BaseFeeConfig{}, errors.New("fee increment is too large for the given base fee")
	}
	if cliffFeeNumerator.Cmp(big.NewInt(shared.MinFeeNumerator)) < 0 || cliffFeeNumerator.Cmp(big.NewInt(shared.MaxFeeNumerator)) > 0 {
		return shared.BaseFeeConfig{}, errors.New("base fee must be between minimum and maximum")
	}

	maxDuration := uint64(shared.MaxRateLimiterDurationInSeconds)
	if activationType == shared.ActivationTypeSlot {
		maxDuration = uint64(shared.MaxRateLimiterDurationInSlots)
	}
	if params.MaxLimiterDuration > maxDuration {
		return shared.BaseFeeConfig{}, fmt.Errorf("max limiter duration exceeds maximum allowed value of %d", maxDuration)
	}

	referenceAmountLamports, err := lamportsFromUint64(params.ReferenceAmount, tokenQuoteDecimal)
	if err != nil {
		return shared.BaseFeeConfig{}, err
	}
	referenceAmountU64, err := BigIntToU64(referenceAmountLamports)
	if err != nil {
		return shared.BaseFeeConfig{}, err
	}

	return shared.BaseFeeConfig{
		CliffFeeNumerator: cliffFeeNumerator.Uint64(),
		FirstFactor:       params.FeeIncrementBps,
		SecondFactor:      params.MaxLimiterDuration,
		ThirdFactor:       referenceAmountU64,
		BaseFeeMode:       uint8(shared.BaseFeeModeRateLimiter),
	}, nil
}

// GetDynamicFeeConfig derives the volatility fee controls so that the
// dynamic component tops out at maxPriceChangePercentage of the base
// fee.
func GetDynamicFeeConfig(baseFeeBps uint16, maxPriceChangePercentage uint16) (shared.DynamicFeeConfig, error) {
	maxAllowed := uint16(shared.MaxPriceChangePercentageDefault)
	if maxPriceChangePercentage > maxAllowed {
		return shared.DynamicFeeConfig{}, fmt.Errorf("maxPriceChangePercentage (%d) must be <= %d", maxPriceChangePercentage, maxAllowed)
	}

	priceRatio := decimal.NewFromInt(int64(maxPriceChangePercentage)).
		Div(decimal.NewFromInt(int64(shared.MaxBasisPoint))).
		Add(decimal.NewFromInt(1))
	sqrtPriceRatio, err := decimalSqrt(priceRatio)
	if err != nil {
		return shared.DynamicFeeConfig{}, err
	}
	sqrtPriceRatioQ64 := FromDecimalToBig(sqrtPriceRatio.Mul(decimal.NewFromBigInt(shared.OneQ64, 0)))

	deltaBinId := new(big.Int).Sub(sqrtPriceRatioQ64, shared.OneQ64)
	deltaBinId.Div(deltaBinId, shared.BinStepBpsU128Default)
	deltaBinId.Mul(deltaBinId, big.NewInt(2))

	maxVolatilityAccumulator := new(big.Int).Mul(deltaBinId, big.NewInt(shared.MaxBasisPoint))

	squareVfaBin := new(big.Int).Mul(maxVolatilityAccumulator, big.NewInt(shared.BinStepBpsDefault))
	squareVfaBin.Mul(squareVfaBin, squareVfaBin)
	if squareVfaBin.Sign() == 0 {
		return shared.DynamicFeeConfig{}, errors.New("squareVfaBin must be greater than zero")
	}

	baseFeeNumerator := BpsToFeeNumerator(uint64(baseFeeBps))
	maxDynamicFeeNumerator := new(big.Int).Mul(baseFeeNumerator, big.NewInt(int64(maxPriceChangePercentage)))
	maxDynamicFeeNumerator.Div(maxDynamicFeeNumerator, big.NewInt(100))

	vFee := new(big.Int).Mul(maxDynamicFeeNumerator, shared.DynamicFeeScalingFactor)
	vFee.Sub(vFee, shared.DynamicFeeRoundingOffset)

	variableFeeControl, err := bigIntToUint32(new(big.Int).Div(vFee, squareVfaBin))
	if err != nil {
		return shared.DynamicFeeConfig{}, err
	}

	return shared.DynamicFeeConfig{
		Initialized:        1,
		BinStep:            uint16(shared.BinStepBpsDefault),
		VariableFeeControl: variableFeeControl,
	}, nil
}
