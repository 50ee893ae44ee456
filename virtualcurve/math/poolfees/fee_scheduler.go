package poolfees

import (
	"math/big"

	"github.com/launchcurve/launchcurve-go/virtualcurve/shared"
)

// currentFeeNumerator maps the elapsed time since activation to a fee
// numerator. A zero period frequency means no decay is configured.
// Before activation the schedule is already fully decayed: the floor
// fee applies.
func (s FeeScheduler) currentFeeNumerator(currentPoint, activationPoint *big.Int) (*big.Int, error) {
	if s.PeriodFrequency.Sign() == 0 {
		return new(big.Int).Set(s.CliffFeeNumerator), nil
	}
	var period *big.Int
	if currentPoint.Cmp(activationPoint) < 0 {
		period = big.NewInt(int64(s.NumberOfPeriods))
	} else {
		period = new(big.Int).Sub(currentPoint, activationPoint)
		period.Div(period, s.PeriodFrequency)
	}
	return FeeNumeratorByPeriod(s.CliffFeeNumerator, s.NumberOfPeriods, period, s.ReductionFactor, s.Mode)
}

// FeeNumeratorByPeriod clamps the period to the configured count and
// dispatches to the linear or exponential decay curve.
func FeeNumeratorByPeriod(cliffFeeNumerator *big.Int, numberOfPeriods uint16, period, reductionFactor *big.Int, mode shared.BaseFeeMode) (*big.Int, error) {
	clamped := new(big.Int).Set(period)
	if clamped.Cmp(big.NewInt(int64(numberOfPeriods))) > 0 {
		clamped.SetInt64(int64(numberOfPeriods))
	}
	if clamped.Cmp(big.NewInt(shared.U16Max)) > 0 {
		return nil, shared.ErrOverflow
	}
	periodCount := clamped.Uint64()

	switch mode {
	case shared.BaseFeeModeFeeSchedulerLinear:
		return LinearFeeNumerator(cliffFeeNumerator, reductionFactor, periodCount), nil
	case shared.BaseFeeModeFeeSchedulerExponential:
		return ExponentialFeeNumerator(cliffFeeNumerator, reductionFactor, periodCount)
	default:
		return nil, shared.ErrInvalidFeeSchedulerMode
	}
}

// LinearFeeNumerator is cliff - period*reduction, saturating at zero
// once the schedule has fully decayed.
func LinearFeeNumerator(cliffFeeNumerator, reductionFactor *big.Int, period uint64) *big.Int {
	reduction := new(big.Int).Mul(new(big.Int).SetUint64(period), reductionFactor)
	if reduction.Cmp(cliffFeeNumerator) >= 0 {
		return big.NewInt(0)
	}
	return reduction.Sub(cliffFeeNumerator, reduction)
}

// ExponentialFeeNumerator is cliff * (1 - reduction/10000)^period,
// evaluated in Q64.64 with floors at every step.
func ExponentialFeeNumerator(cliffFeeNumerator, reductionFactor *big.Int, period uint64) (*big.Int, error) {
	if period == 0 {
		return new(big.Int).Set(cliffFeeNumerator), nil
	}
	bps := new(big.Int).Lsh(reductionFactor, shared.Resolution)
	bps.Div(bps, big.NewInt(shared.MaxBasisPoint))
	base, err := sub(shared.OneQ64, bps)
	if err != nil {
		return nil, err
	}
	decay, err := powQ64(base, new(big.Int).SetUint64(period), true)
	if err != nil {
		return nil, err
	}
	result := new(big.Int).Mul(cliffFeeNumerator, decay)
	return result.Rsh(result, shared.Resolution), nil
}

// A scheduler is valid either fully zeroed (flat fee) or with all
// three decay parameters set, and its fee range must stay inside the
// protocol bounds.
func (s FeeScheduler) validate() error {
	if s.PeriodFrequency.Sign() != 0 || s.NumberOfPeriods != 0 || s.ReductionFactor.Sign() != 0 {
		if s.NumberOfPeriods == 0 || s.PeriodFrequency.Sign() == 0 || s.ReductionFactor.Sign() == 0 {
			return shared.ErrInvalidBaseFeeMode
		}
	}
	minFee, err := FeeNumeratorByPeriod(s.CliffFeeNumerator, s.NumberOfPeriods, big.NewInt(int64(s.NumberOfPeriods)), s.ReductionFactor, s.Mode)
	if err != nil {
		return err
	}
	if minFee.Cmp(big.NewInt(shared.MinFeeNumerator)) < 0 {
		return shared.ErrInvalidBaseFeeMode
	}
	if s.CliffFeeNumerator.Cmp(big.NewInt(shared.MaxFeeNumerator)) > 0 {
		return shared.ErrCliffFeeOverMax
	}
	return nil
}
