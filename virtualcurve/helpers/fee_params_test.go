package helpers

import (
	"testing"

	"github.com/launchcurve/launchcurve-go/virtualcurve/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBaseFeeConfigFlatFee(t *testing.T) {
	cfg, err := GetBaseFeeConfig(BaseFeeParams{
		BaseFeeMode:  shared.BaseFeeModeFeeSchedulerLinear,
		FeeScheduler: &FeeSchedulerParams{StartingFeeBps: 100, EndingFeeBps: 100},
	}, shared.TokenDecimalNine, shared.ActivationTypeSlot)
	require.NoError(t, err)

	assert.Equal(t, uint64(10_000_000), cfg.CliffFeeNumerator)
	assert.Equal(t, uint16(0), cfg.FirstFactor)
	assert.Equal(t, uint64(0), cfg.SecondFactor)
	assert.Equal(t, uint64(0), cfg.ThirdFactor)
	assert.Equal(t, uint8(shared.BaseFeeModeFeeSchedulerLinear), cfg.BaseFeeMode)
}

func TestGetBaseFeeConfigLinearScheduler(t *testing.T) {
	cfg, err := GetBaseFeeConfig(BaseFeeParams{
		BaseFeeMode: shared.BaseFeeModeFeeSchedulerLinear,
		FeeScheduler: &FeeSchedulerParams{
			StartingFeeBps: 500,
			EndingFeeBps:   100,
			NumberOfPeriod: 10,
			TotalDuration:  100,
		},
	}, shared.TokenDecimalNine, shared.ActivationTypeSlot)
	require.NoError(t, err)

	assert.Equal(t, uint64(50_000_000), cfg.CliffFeeNumerator)
	assert.Equal(t, uint16(10), cfg.FirstFactor)
	assert.Equal(t, uint64(10), cfg.SecondFactor)
	assert.Equal(t, uint64(4_000_000), cfg.ThirdFactor)
}

func TestGetBaseFeeConfigExponentialScheduler(t *testing.T) {
	cfg, err := GetBaseFeeConfig(BaseFeeParams{
		BaseFeeMode: shared.BaseFeeModeFeeSchedulerExponential,
		FeeScheduler: &FeeSchedulerParams{
			StartingFeeBps: 400,
			EndingFeeBps:   100,
			NumberOfPeriod: 2,
			TotalDuration:  120,
		},
	}, shared.TokenDecimalNine, shared.ActivationTypeSlot)
	require.NoError(t, err)

	assert.Equal(t, uint64(40_000_000), cfg.CliffFeeNumerator)
	// (1 - r/10000)^2 = 1/4 gives r = 5000, modulo decimal rounding.
	assert.InDelta(t, 5000, float64(cfg.ThirdFactor), 1)
	assert.Equal(t, uint8(shared.BaseFeeModeFeeSchedulerExponential), cfg.BaseFeeMode)
}

func TestGetBaseFeeConfigSchedulerValidation(t *testing.T) {
	cases := []struct {
		name   string
		params FeeSchedulerParams
	}{
		{"ending above starting", FeeSchedulerParams{StartingFeeBps: 100, EndingFeeBps: 200, NumberOfPeriod: 5, TotalDuration: 50}},
		{"ending below minimum", FeeSchedulerParams{StartingFeeBps: 100, EndingFeeBps: 10, NumberOfPeriod: 5, TotalDuration: 50}},
		{"zero periods with decay", FeeSchedulerParams{StartingFeeBps: 200, EndingFeeBps: 100, NumberOfPeriod: 0, TotalDuration: 50}},
		{"zero duration with decay", FeeSchedulerParams{StartingFeeBps: 200, EndingFeeBps: 100, NumberOfPeriod: 5, TotalDuration: 0}},
		{"flat fee with stray duration", FeeSchedulerParams{StartingFeeBps: 100, EndingFeeBps: 100, TotalDuration: 50}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := tc.params
			_, err := GetBaseFeeConfig(BaseFeeParams{
				BaseFeeMode:  shared.BaseFeeModeFeeSchedulerLinear,
				FeeScheduler: &params,
			}, shared.TokenDecimalNine, shared.ActivationTypeSlot)
			assert.Error(t, err)
		})
	}
}

func TestGetBaseFeeConfigRateLimiter(t *testing.T) {
	cfg, err := GetBaseFeeConfig(BaseFeeParams{
		BaseFeeMode: shared.BaseFeeModeRateLimiter,
		RateLimiter: &RateLimiterParams{
			BaseFeeBps:         100,
			FeeIncrementBps:    10,
			ReferenceAmount:    1,
			MaxLimiterDuration: 1000,
		},
	}, shared.TokenDecimalNine, shared.ActivationTypeSlot)
	require.NoError(t, err)

	assert.Equal(t, uint64(10_000_000), cfg.CliffFeeNumerator)
	assert.Equal(t, uint16(10), cfg.FirstFactor)
	assert.Equal(t, uint64(1000), cfg.SecondFactor)
	assert.Equal(t, uint64(1_000_000_000), cfg.ThirdFactor)
	assert.Equal(t, uint8(shared.BaseFeeModeRateLimiter), cfg.BaseFeeMode)
}

func TestGetBaseFeeConfigRateLimiterValidation(t *testing.T) {
	base := RateLimiterParams{
		BaseFeeBps:         100,
		FeeIncrementBps:    10,
		ReferenceAmount:    1,
		MaxLimiterDuration: 1000,
	}

	zeroed := base
	zeroed.ReferenceAmount = 0
	_, err := GetBaseFeeConfig(BaseFeeParams{BaseFeeMode: shared.BaseFeeModeRateLimiter, RateLimiter: &zeroed},
		shared.TokenDecimalNine, shared.ActivationTypeSlot)
	assert.Error(t, err)

	tooLong := base
	tooLong.MaxLimiterDuration = shared.MaxRateLimiterDurationInSlots + 1
	_, err = GetBaseFeeConfig(BaseFeeParams{BaseFeeMode: shared.BaseFeeModeRateLimiter, RateLimiter: &tooLong},
		shared.TokenDecimalNine, shared.ActivationTypeSlot)
	assert.Error(t, err)

	_, err = GetBaseFeeConfig(BaseFeeParams{BaseFeeMode: shared.BaseFeeModeRateLimiter},
		shared.TokenDecimalNine, shared.ActivationTypeSlot)
	assert.Error(t, err)
}

func TestGetDynamicFeeConfig(t *testing.T) {
	cfg, err := GetDynamicFeeConfig(100, 20)
	require.NoError(t, err)

	assert.Equal(t, uint8(1), cfg.Initialized)
	assert.Equal(t, uint16(shared.BinStepBpsDefault), cfg.BinStep)
	assert.True(t, cfg.VariableFeeControl > 0)

	_, err = GetDynamicFeeConfig(100, 21)
	assert.Error(t, err)
}
