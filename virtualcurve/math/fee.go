package math

import (
	"math/big"

	"github.com/launchcurve/launchcurve-go/virtualcurve/math/poolfees"
	"github.com/launchcurve/launchcurve-go/virtualcurve/shared"
)

func ToNumerator(bps *big.Int, feeDenominator *big.Int) (*big.Int, error) {
	return MulDiv(bps, feeDenominator, big.NewInt(shared.MaxBasisPoint), shared.RoundingDown)
}

// GetFeeMode places the fee for one trade. Sells never pay on input;
// buys pay on the quote input under quote-token collection, otherwise
// on the base output.
func GetFeeMode(collectFeeMode shared.CollectFeeMode, tradeDirection shared.TradeDirection, hasReferral bool) shared.FeeMode {
	feesOnInput := false
	feesOnBaseToken := false

	if tradeDirection == shared.TradeDirectionQuoteToBase {
		if collectFeeMode == shared.CollectFeeModeQuoteToken {
			feesOnInput = true
		} else {
			feesOnBaseToken = true
		}
	}

	return shared.FeeMode{FeesOnInput: feesOnInput, FeesOnBaseToken: feesOnBaseToken, HasReferral: hasReferral}
}

// GetTotalFeeNumeratorFromIncludedFeeAmount composes the base fee for
// a gross amount with the volatility fee, capped at MaxFeeNumerator.
func GetTotalFeeNumeratorFromIncludedFeeAmount(poolFees shared.PoolFeesConfig, volatilityTracker shared.VolatilityTracker, currentPoint, activationPoint, includedFeeAmount *big.Int, tradeDirection shared.TradeDirection) (*big.Int, error) {
	handler, err := poolfees.NewHandler(poolFees.BaseFee)
	if err != nil {
		return nil, err
	}
	baseFeeNumerator, err := handler.BaseFeeNumeratorFromIncludedAmount(currentPoint, activationPoint, tradeDirection, includedFeeAmount)
	if err != nil {
		return nil, err
	}
	return GetTotalFeeNumerator(baseFeeNumerator, poolFees.DynamicFee, volatilityTracker), nil
}

// GetTotalFeeNumeratorFromExcludedFeeAmount is the net-amount variant.
func GetTotalFeeNumeratorFromExcludedFeeAmount(poolFees shared.PoolFeesConfig, volatilityTracker shared.VolatilityTracker, currentPoint, activationPoint, excludedFeeAmount *big.Int, tradeDirection shared.TradeDirection) (*big.Int, error) {
	handler, err := poolfees.NewHandler(poolFees.BaseFee)
	if err != nil {
		return nil, err
	}
	baseFeeNumerator, err := handler.BaseFeeNumeratorFromExcludedAmount(currentPoint, activationPoint, tradeDirection, excludedFeeAmount)
	if err != nil {
		return nil, err
	}
	return GetTotalFeeNumerator(baseFeeNumerator, poolFees.DynamicFee, volatilityTracker), nil
}

func GetTotalFeeNumerator(baseFeeNumerator *big.Int, dynamicFee shared.DynamicFeeConfig, volatilityTracker shared.VolatilityTracker) *big.Int {
	variableFeeNumerator := poolfees.VariableFeeNumerator(dynamicFee, volatilityTracker)
	total := new(big.Int).Add(variableFeeNumerator, baseFeeNumerator)
	maxFee := big.NewInt(shared.MaxFeeNumerator)
	if total.Cmp(maxFee) > 0 {
		return maxFee
	}
	return total
}

func protocolFeePercent(poolFees shared.PoolFeesConfig) *big.Int {
	if poolFees.ProtocolFeePercent == 0 {
		return big.NewInt(shared.DefaultProtocolFeePercent)
	}
	return big.NewInt(int64(poolFees.ProtocolFeePercent))
}

func referralFeePercent(poolFees shared.PoolFeesConfig) *big.Int {
	if poolFees.ReferralFeePercent == 0 {
		return big.NewInt(shared.DefaultReferralFeePercent)
	}
	return big.NewInt(int64(poolFees.ReferralFeePercent))
}

// GetFeeOnAmount charges the total fee on an amount and splits it.
// The gross fee rounds up against the trader; the protocol and
// referral cuts round down so the pool keeps the dust.
func GetFeeOnAmount(tradeFeeNumerator, amount *big.Int, poolFees shared.PoolFeesConfig, hasReferral bool) (shared.FeeBreakdown, error) {
	amountAfterFee, grossFee, err := GetExcludedFeeAmount(tradeFeeNumerator, amount)
	if err != nil {
		return shared.FeeBreakdown{}, err
	}
	tradingFee, protocolFee, referralFee, err := SplitFees(poolFees, grossFee, hasReferral)
	if err != nil {
		return shared.FeeBreakdown{}, err
	}
	return shared.FeeBreakdown{
		Amount:      amountAfterFee,
		TradingFee:  tradingFee,
		ProtocolFee: protocolFee,
		ReferralFee: referralFee,
	}, nil
}

// GetExcludedFeeAmount returns (net amount, fee) for a gross amount.
func GetExcludedFeeAmount(tradeFeeNumerator, includedFeeAmount *big.Int) (*big.Int, *big.Int, error) {
	tradingFee, err := MulDiv(includedFeeAmount, tradeFeeNumerator, big.NewInt(shared.FeeDenominator), shared.RoundingUp)
	if err != nil {
		return nil, nil, err
	}
	excluded, err := Sub(includedFeeAmount, tradingFee)
	if err != nil {
		return nil, nil, err
	}
	return excluded, tradingFee, nil
}

// GetIncludedFeeAmount inverts GetExcludedFeeAmount: the gross amount
// whose net part is at least excludedFeeAmount, rounding the gross up.
func GetIncludedFeeAmount(tradeFeeNumerator, excludedFeeAmount *big.Int) (*big.Int, *big.Int, error) {
	denom, err := Sub(big.NewInt(shared.FeeDenominator), tradeFeeNumerator)
	if err != nil {
		return nil, nil, err
	}
	if denom.Sign() <= 0 {
		return nil, nil, shared.ErrInvalidDenominator
	}
	included, err := MulDiv(excludedFeeAmount, big.NewInt(shared.FeeDenominator), denom, shared.RoundingUp)
	if err != nil {
		return nil, nil, err
	}
	feeAmount, err := Sub(included, excludedFeeAmount)
	if err != nil {
		return nil, nil, err
	}
	return included, feeAmount, nil
}

// SplitFees divides a gross fee into (trading, protocol, referral):
// the protocol takes its percentage, the referrer takes a percentage
// of that, both floored.
func SplitFees(poolFees shared.PoolFeesConfig, feeAmount *big.Int, hasReferral bool) (*big.Int, *big.Int, *big.Int, error) {
	hundred := big.NewInt(100)
	protocolFee, err := MulDiv(feeAmount, protocolFeePercent(poolFees), hundred, shared.RoundingDown)
	if err != nil {
		return nil, nil, nil, err
	}
	tradingFee, err := Sub(feeAmount, protocolFee)
	if err != nil {
		return nil, nil, nil, err
	}
	referralFee := big.NewInt(0)
	if hasReferral {
		referralFee, err = MulDiv(protocolFee, referralFeePercent(poolFees), hundred, shared.RoundingDown)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	protocolAfterReferral, err := Sub(protocolFee, referralFee)
	if err != nil {
		return nil, nil, nil, err
	}
	return tradingFee, protocolAfterReferral, referralFee, nil
}
