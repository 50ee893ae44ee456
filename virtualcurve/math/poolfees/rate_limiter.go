package poolfees

import (
	"math/big"

	"github.com/launchcurve/launchcurve-go/virtualcurve/shared"
)

// The rate limiter charges the cliff fee on the first reference amount
// of a buy and one extra increment per further reference amount, up to
// the protocol-wide fee cap. It only ever applies to quote-to-base
// trades inside the limiter window.

func (r RateLimiter) isZero() bool {
	return r.ReferenceAmount.Sign() == 0 && r.MaxLimiterDuration.Sign() == 0 && r.FeeIncrementBps.Sign() == 0
}

func (r RateLimiter) isApplied(currentPoint, activationPoint *big.Int, tradeDirection shared.TradeDirection) bool {
	if r.isZero() {
		return false
	}
	if tradeDirection == shared.TradeDirectionBaseToQuote {
		return false
	}
	lastEffectivePoint := new(big.Int).Add(activationPoint, r.MaxLimiterDuration)
	return currentPoint.Cmp(lastEffectivePoint) <= 0
}

// maxIndex is the largest whole fee step before the numerator clamps
// to MaxFeeNumerator.
func (r RateLimiter) maxIndex() (*big.Int, error) {
	if r.CliffFeeNumerator.Cmp(big.NewInt(shared.MaxFeeNumerator)) > 0 {
		return nil, shared.ErrCliffFeeOverMax
	}
	headroom := new(big.Int).Sub(big.NewInt(shared.MaxFeeNumerator), r.CliffFeeNumerator)
	increment, err := bpsToNumerator(r.FeeIncrementBps)
	if err != nil {
		return nil, err
	}
	if increment.Sign() == 0 {
		return nil, shared.ErrZeroFeeIncrement
	}
	return headroom.Div(headroom, increment), nil
}

// feeNumeratorFromIncludedAmount aggregates the stepped per-reference
// fees over a gross amount and converts the total back into an
// effective numerator, rounding up.
func (r RateLimiter) feeNumeratorFromIncludedAmount(includedFeeAmount *big.Int) (*big.Int, error) {
	if includedFeeAmount.Cmp(r.ReferenceAmount) <= 0 {
		return new(big.Int).Set(r.CliffFeeNumerator), nil
	}

	c := r.CliffFeeNumerator
	x0 := r.ReferenceAmount
	diff := new(big.Int).Sub(includedFeeAmount, x0)
	a := new(big.Int).Div(diff, x0)
	b := new(big.Int).Mod(diff, x0)

	maxIndex, err := r.maxIndex()
	if err != nil {
		return nil, err
	}
	i, err := bpsToNumerator(r.FeeIncrementBps)
	if err != nil {
		return nil, err
	}

	one := big.NewInt(1)
	two := big.NewInt(2)

	// Fees per step grow linearly, so the aggregate over a whole
	// steps is an arithmetic series: x0*(c*(a+1) + i*a*(a+1)/2),
	// with the remainder b charged at the next step's rate.
	var feeNumeratorTotal *big.Int
	if a.Cmp(maxIndex) < 0 {
		seriesTerm := new(big.Int).Add(c, new(big.Int).Mul(c, a))
		seriesTerm.Add(seriesTerm, new(big.Int).Div(new(big.Int).Mul(i, new(big.Int).Mul(a, new(big.Int).Add(a, one))), two))
		remainderRate := new(big.Int).Add(c, new(big.Int).Mul(i, new(big.Int).Add(a, one)))
		feeNumeratorTotal = new(big.Int).Mul(x0, seriesTerm)
		feeNumeratorTotal.Add(feeNumeratorTotal, new(big.Int).Mul(b, remainderRate))
	} else {
		seriesTerm := new(big.Int).Add(c, new(big.Int).Mul(c, maxIndex))
		seriesTerm.Add(seriesTerm, new(big.Int).Div(new(big.Int).Mul(i, new(big.Int).Mul(maxIndex, new(big.Int).Add(maxIndex, one))), two))
		feeNumeratorTotal = new(big.Int).Mul(x0, seriesTerm)
		// Everything beyond maxIndex whole steps pays the capped fee.
		excess := new(big.Int).Sub(a, maxIndex)
		cappedAmount := new(big.Int).Add(new(big.Int).Mul(excess, x0), b)
		feeNumeratorTotal.Add(feeNumeratorTotal, new(big.Int).Mul(cappedAmount, big.NewInt(shared.MaxFeeNumerator)))
	}

	denominator := big.NewInt(shared.FeeDenominator)
	tradingFee := feeNumeratorTotal.Add(feeNumeratorTotal, new(big.Int).Sub(denominator, one))
	tradingFee.Div(tradingFee, denominator)

	return mulDiv(tradingFee, big.NewInt(shared.FeeDenominator), includedFeeAmount, shared.RoundingUp)
}

// excludedFeeAmount runs the forward relation: gross amount in, net
// amount out.
func (r RateLimiter) excludedFeeAmount(includedFeeAmount *big.Int) (*big.Int, error) {
	feeNumerator, err := r.feeNumeratorFromIncludedAmount(includedFeeAmount)
	if err != nil {
		return nil, err
	}
	tradingFee, err := mulDiv(includedFeeAmount, feeNumerator, big.NewInt(shared.FeeDenominator), shared.RoundingUp)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Sub(includedFeeAmount, tradingFee), nil
}

// checkedAmounts returns the (net, gross) pair at the fee cap
// boundary. When the boundary gross amount no longer fits 64 bits the
// pair is evaluated at U64Max and flagged.
func (r RateLimiter) checkedAmounts() (excluded, included *big.Int, overflow bool, err error) {
	maxIndex, err := r.maxIndex()
	if err != nil {
		return nil, nil, false, err
	}
	boundary := new(big.Int).Add(maxIndex, big.NewInt(1))
	boundary.Mul(boundary, r.ReferenceAmount)
	if boundary.Cmp(shared.U64Max) <= 0 {
		ex, err := r.excludedFeeAmount(boundary)
		return ex, boundary, false, err
	}
	ex, err := r.excludedFeeAmount(shared.U64Max)
	return ex, new(big.Int).Set(shared.U64Max), true, err
}

// feeNumeratorFromExcludedAmount inverts the stepped fee relation for
// a net amount. Below the cap boundary the gross amount solves a
// quadratic (the arithmetic fee series is quadratic in the step
// index); above it the excess is charged at the capped maximum.
func (r RateLimiter) feeNumeratorFromExcludedAmount(excludedFeeAmount *big.Int) (*big.Int, error) {
	referenceExcluded, err := r.excludedFeeAmount(r.ReferenceAmount)
	if err != nil {
		return nil, err
	}
	if excludedFeeAmount.Cmp(referenceExcluded) <= 0 {
		return new(big.Int).Set(r.CliffFeeNumerator), nil
	}

	checkedExcluded, checkedIncluded, overflow, err := r.checkedAmounts()
	if err != nil {
		return nil, err
	}
	if excludedFeeAmount.Cmp(checkedExcluded) == 0 {
		return r.feeNumeratorFromIncludedAmount(checkedIncluded)
	}

	d := big.NewInt(shared.FeeDenominator)
	var includedFeeAmount *big.Int

	if excludedFeeAmount.Cmp(checkedExcluded) < 0 {
		two := big.NewInt(2)
		four := big.NewInt(4)

		i, err := bpsToNumerator(r.FeeIncrementBps)
		if err != nil {
			return nil, err
		}
		c := r.CliffFeeNumerator
		x0 := r.ReferenceAmount

		// i*x^2 - y*x + z = 0 in the included amount x, smaller root.
		y := new(big.Int).Mul(two, d)
		y.Mul(y, x0)
		y.Add(y, new(big.Int).Mul(i, x0))
		y.Sub(y, new(big.Int).Mul(two, new(big.Int).Mul(c, x0)))
		z := new(big.Int).Mul(two, excludedFeeAmount)
		z.Mul(z, d)
		z.Mul(z, x0)

		discriminant := new(big.Int).Mul(y, y)
		discriminant.Sub(discriminant, new(big.Int).Mul(four, new(big.Int).Mul(i, z)))
		root := sqrt(discriminant)
		includedFeeAmount = new(big.Int).Sub(y, root)
		includedFeeAmount.Div(includedFeeAmount, new(big.Int).Mul(two, i))

		// The root lands on a whole-step boundary; reconcile the
		// fractional reference amount at the next step's rate.
		stepsPlusOne := new(big.Int).Div(includedFeeAmount, x0)
		solvedExcluded, err := r.excludedFeeAmount(includedFeeAmount)
		if err != nil {
			return nil, err
		}
		excludedRemaining := new(big.Int).Sub(excludedFeeAmount, solvedExcluded)
		remainderRate := new(big.Int).Add(c, new(big.Int).Mul(i, stepsPlusOne))
		includedRemaining, err := mulDiv(excludedRemaining, d, new(big.Int).Sub(d, remainderRate), shared.RoundingUp)
		if err != nil {
			return nil, err
		}
		includedFeeAmount.Add(includedFeeAmount, includedRemaining)
	} else {
		if overflow {
			return nil, shared.ErrOverflow
		}
		excludedRemaining := new(big.Int).Sub(excludedFeeAmount, checkedExcluded)
		includedRemaining, err := mulDiv(excludedRemaining, d, new(big.Int).Sub(d, big.NewInt(shared.MaxFeeNumerator)), shared.RoundingUp)
		if err != nil {
			return nil, err
		}
		includedFeeAmount = new(big.Int).Add(checkedIncluded, includedRemaining)
	}

	tradingFee := new(big.Int).Sub(includedFeeAmount, excludedFeeAmount)
	feeNumerator, err := mulDiv(tradingFee, d, includedFeeAmount, shared.RoundingUp)
	if err != nil {
		return nil, err
	}
	if feeNumerator.Cmp(r.CliffFeeNumerator) < 0 {
		return nil, shared.ErrUndetermined
	}
	return feeNumerator, nil
}

// A limiter is valid only with quote-token fee collection, either all
// zero (disabled) or all non-zero with the duration and increment
// inside protocol bounds.
func (r RateLimiter) validate(collectFeeMode shared.CollectFeeMode, activationType shared.ActivationType) error {
	if collectFeeMode != shared.CollectFeeModeQuoteToken {
		return shared.ErrInvalidBaseFeeMode
	}
	if r.isZero() {
		return nil
	}
	if r.ReferenceAmount.Sign() <= 0 || r.MaxLimiterDuration.Sign() <= 0 || r.FeeIncrementBps.Sign() <= 0 {
		return shared.ErrInvalidBaseFeeMode
	}
	durationLimit := big.NewInt(shared.MaxRateLimiterDurationInSeconds)
	if activationType == shared.ActivationTypeSlot {
		durationLimit = big.NewInt(shared.MaxRateLimiterDurationInSlots)
	}
	if r.MaxLimiterDuration.Cmp(durationLimit) > 0 {
		return shared.ErrInvalidBaseFeeMode
	}
	increment, err := bpsToNumerator(r.FeeIncrementBps)
	if err != nil {
		return err
	}
	if increment.Cmp(big.NewInt(shared.FeeDenominator)) >= 0 {
		return shared.ErrInvalidBaseFeeMode
	}
	return nil
}
