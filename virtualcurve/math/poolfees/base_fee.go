package poolfees

import (
	"math/big"

	"github.com/launchcurve/launchcurve-go/virtualcurve/shared"
)

// FeeScheduler decays the cliff fee over elapsed periods, linearly or
// exponentially.
type FeeScheduler struct {
	CliffFeeNumerator *big.Int
	NumberOfPeriods   uint16
	PeriodFrequency   *big.Int
	ReductionFactor   *big.Int
	Mode              shared.BaseFeeMode
}

// RateLimiter raises the fee stepwise with traded volume while the
// limiter window is open.
type RateLimiter struct {
	CliffFeeNumerator  *big.Int
	FeeIncrementBps    *big.Int
	MaxLimiterDuration *big.Int
	ReferenceAmount    *big.Int
}

// Handler is the closed union over the three base fee modes. The
// variant set is fixed; dispatch is a switch on mode rather than an
// open interface.
type Handler struct {
	mode      shared.BaseFeeMode
	scheduler FeeScheduler
	limiter   RateLimiter
}

func NewHandler(cfg shared.BaseFeeConfig) (Handler, error) {
	cliff := new(big.Int).SetUint64(cfg.CliffFeeNumerator)
	switch shared.BaseFeeMode(cfg.BaseFeeMode) {
	case shared.BaseFeeModeFeeSchedulerLinear, shared.BaseFeeModeFeeSchedulerExponential:
		return Handler{
			mode: shared.BaseFeeMode(cfg.BaseFeeMode),
			scheduler: FeeScheduler{
				CliffFeeNumerator: cliff,
				NumberOfPeriods:   cfg.FirstFactor,
				PeriodFrequency:   new(big.Int).SetUint64(cfg.SecondFactor),
				ReductionFactor:   new(big.Int).SetUint64(cfg.ThirdFactor),
				Mode:              shared.BaseFeeMode(cfg.BaseFeeMode),
			},
		}, nil
	case shared.BaseFeeModeRateLimiter:
		return Handler{
			mode: shared.BaseFeeModeRateLimiter,
			limiter: RateLimiter{
				CliffFeeNumerator:  cliff,
				FeeIncrementBps:    big.NewInt(int64(cfg.FirstFactor)),
				MaxLimiterDuration: new(big.Int).SetUint64(cfg.SecondFactor),
				ReferenceAmount:    new(big.Int).SetUint64(cfg.ThirdFactor),
			},
		}, nil
	default:
		return Handler{}, shared.ErrInvalidBaseFeeMode
	}
}

func (h Handler) Mode() shared.BaseFeeMode { return h.mode }

// MinBaseFeeNumerator is the lowest fee this handler can ever charge:
// the fully decayed scheduler fee, or the cliff fee for the limiter.
func (h Handler) MinBaseFeeNumerator() (*big.Int, error) {
	if h.mode == shared.BaseFeeModeRateLimiter {
		return new(big.Int).Set(h.limiter.CliffFeeNumerator), nil
	}
	s := h.scheduler
	return FeeNumeratorByPeriod(s.CliffFeeNumerator, s.NumberOfPeriods, big.NewInt(int64(s.NumberOfPeriods)), s.ReductionFactor, s.Mode)
}

// BaseFeeNumeratorFromIncludedAmount resolves the fee numerator for a
// gross (fee-included) traded amount.
func (h Handler) BaseFeeNumeratorFromIncludedAmount(currentPoint, activationPoint *big.Int, tradeDirection shared.TradeDirection, includedFeeAmount *big.Int) (*big.Int, error) {
	if h.mode == shared.BaseFeeModeRateLimiter {
		if h.limiter.isApplied(currentPoint, activationPoint, tradeDirection) {
			return h.limiter.feeNumeratorFromIncludedAmount(includedFeeAmount)
		}
		return new(big.Int).Set(h.limiter.CliffFeeNumerator), nil
	}
	return h.scheduler.currentFeeNumerator(currentPoint, activationPoint)
}

// BaseFeeNumeratorFromExcludedAmount resolves the fee numerator for a
// net (fee-excluded) traded amount, inverting the limiter's volume
// relation when it applies.
func (h Handler) BaseFeeNumeratorFromExcludedAmount(currentPoint, activationPoint *big.Int, tradeDirection shared.TradeDirection, excludedFeeAmount *big.Int) (*big.Int, error) {
	if h.mode == shared.BaseFeeModeRateLimiter {
		if h.limiter.isApplied(currentPoint, activationPoint, tradeDirection) {
			return h.limiter.feeNumeratorFromExcludedAmount(excludedFeeAmount)
		}
		return new(big.Int).Set(h.limiter.CliffFeeNumerator), nil
	}
	return h.scheduler.currentFeeNumerator(currentPoint, activationPoint)
}

// Validate checks the handler's parameters against the pool's fee
// collection mode and activation clock.
func (h Handler) Validate(collectFeeMode shared.CollectFeeMode, activationType shared.ActivationType) error {
	if h.mode == shared.BaseFeeModeRateLimiter {
		return h.limiter.validate(collectFeeMode, activationType)
	}
	return h.scheduler.validate()
}
