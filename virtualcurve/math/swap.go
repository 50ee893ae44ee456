package math

import (
	"math/big"

	"github.com/launchcurve/launchcurve-go/virtualcurve/shared"
)

type curvePoint struct {
	SqrtPrice *big.Int
	Liquidity *big.Int
}

func curveFromConfig(config *shared.PoolConfig) []curvePoint {
	curve := make([]curvePoint, 0, len(config.Curve))
	for _, c := range config.Curve {
		curve = append(curve, curvePoint{SqrtPrice: c.SqrtPrice.BigInt(), Liquidity: c.Liquidity.BigInt()})
	}
	return curve
}

// CalculateBaseToQuoteFromAmountIn walks the curve downward from the
// current price, selling base for quote. Boundary i pairs with the
// liquidity of segment i+1; whatever the bottom segment cannot absorb
// above the start price is returned in AmountLeft.
func CalculateBaseToQuoteFromAmountIn(config *shared.PoolConfig, currentSqrtPrice, amountIn *big.Int) (shared.SwapAmount, error) {
	curve := curveFromConfig(config)
	totalOutput := big.NewInt(0)
	current := new(big.Int).Set(currentSqrtPrice)
	amountLeft := new(big.Int).Set(amountIn)

	for i := len(curve) - 2; i >= 0; i-- {
		if curve[i].SqrtPrice.Sign() == 0 || curve[i].Liquidity.Sign() == 0 {
			continue
		}
		if curve[i].SqrtPrice.Cmp(current) < 0 {
			maxAmountIn, err := GetDeltaAmountBase(curve[i].SqrtPrice, current, curve[i+1].Liquidity, shared.RoundingUp)
			if err != nil {
				return shared.SwapAmount{}, err
			}
			if amountLeft.Cmp(maxAmountIn) < 0 {
				nextSqrtPrice, err := GetNextSqrtPriceFromInput(current, curve[i+1].Liquidity, amountLeft, true)
				if err != nil {
					return shared.SwapAmount{}, err
				}
				outputAmount, err := GetDeltaAmountQuote(nextSqrtPrice, current, curve[i+1].Liquidity, shared.RoundingDown)
				if err != nil {
					return shared.SwapAmount{}, err
				}
				totalOutput.Add(totalOutput, outputAmount)
				return shared.SwapAmount{OutputAmount: totalOutput, NextSqrtPrice: nextSqrtPrice, AmountLeft: big.NewInt(0)}, nil
			}
			nextSqrtPrice := curve[i].SqrtPrice
			outputAmount, err := GetDeltaAmountQuote(nextSqrtPrice, current, curve[i+1].Liquidity, shared.RoundingDown)
			if err != nil {
				return shared.SwapAmount{}, err
			}
			totalOutput.Add(totalOutput, outputAmount)
			current = nextSqrtPrice
			amountLeft.Sub(amountLeft, maxAmountIn)
		}
	}

	if amountLeft.Sign() != 0 {
		sqrtStartPrice := config.SqrtStartPrice.BigInt()
		nextSqrtPrice, err := GetNextSqrtPriceFromInput(current, curve[0].Liquidity, amountLeft, true)
		if err != nil {
			return shared.SwapAmount{}, err
		}
		if nextSqrtPrice.Cmp(sqrtStartPrice) < 0 {
			nextSqrtPrice = sqrtStartPrice
			consumed, err := GetDeltaAmountBase(nextSqrtPrice, current, curve[0].Liquidity, shared.RoundingUp)
			if err != nil {
				return shared.SwapAmount{}, err
			}
			amountLeft, err = Sub(amountLeft, consumed)
			if err != nil {
				return shared.SwapAmount{}, err
			}
		} else {
			amountLeft = big.NewInt(0)
		}
		outputAmount, err := GetDeltaAmountQuote(nextSqrtPrice, current, curve[0].Liquidity, shared.RoundingDown)
		if err != nil {
			return shared.SwapAmount{}, err
		}
		totalOutput.Add(totalOutput, outputAmount)
		current = nextSqrtPrice
	}

	return shared.SwapAmount{OutputAmount: totalOutput, NextSqrtPrice: current, AmountLeft: amountLeft}, nil
}

// CalculateQuoteToBaseFromAmountIn walks the curve upward, buying base
// with quote. Each segment fills up to the smaller of its boundary and
// the stop price; input not consumed below the stop price stays in
// AmountLeft.
func CalculateQuoteToBaseFromAmountIn(config *shared.PoolConfig, currentSqrtPrice, amountIn, stopSqrtPrice *big.Int) (shared.SwapAmount, error) {
	if amountIn.Sign() == 0 {
		return shared.SwapAmount{OutputAmount: big.NewInt(0), NextSqrtPrice: new(big.Int).Set(currentSqrtPrice), AmountLeft: big.NewInt(0)}, nil
	}
	curve := curveFromConfig(config)
	current := new(big.Int).Set(currentSqrtPrice)
	amountLeft := new(big.Int).Set(amountIn)
	totalOutput := big.NewInt(0)

	for i := 0; i < len(curve); i++ {
		if curve[i].SqrtPrice.Sign() == 0 || curve[i].Liquidity.Sign() == 0 {
			break
		}
		reference := minBig(stopSqrtPrice, curve[i].SqrtPrice)
		if reference.Cmp(current) > 0 {
			maxAmountIn, err := GetDeltaAmountQuote(current, reference, curve[i].Liquidity, shared.RoundingUp)
			if err != nil {
				return shared.SwapAmount{}, err
			}
			if amountLeft.Cmp(maxAmountIn) < 0 {
				nextSqrtPrice, err := GetNextSqrtPriceFromInput(current, curve[i].Liquidity, amountLeft, false)
				if err != nil {
					return shared.SwapAmount{}, err
				}
				outputAmount, err := GetDeltaAmountBase(current, nextSqrtPrice, curve[i].Liquidity, shared.RoundingDown)
				if err != nil {
					return shared.SwapAmount{}, err
				}
				totalOutput.Add(totalOutput, outputAmount)
				return shared.SwapAmount{OutputAmount: totalOutput, NextSqrtPrice: nextSqrtPrice, AmountLeft: big.NewInt(0)}, nil
			}
			outputAmount, err := GetDeltaAmountBase(current, reference, curve[i].Liquidity, shared.RoundingDown)
			if err != nil {
				return shared.SwapAmount{}, err
			}
			totalOutput.Add(totalOutput, outputAmount)
			current = reference
			amountLeft.Sub(amountLeft, maxAmountIn)
			if current.Cmp(stopSqrtPrice) == 0 {
				break
			}
		}
	}

	return shared.SwapAmount{OutputAmount: totalOutput, NextSqrtPrice: current, AmountLeft: amountLeft}, nil
}

// CalculateBaseToQuoteFromAmountOut finds the base input needed to
// produce an exact quote output. OutputAmount carries the input side
// here; the walk fails once the start price cannot cover the request.
func CalculateBaseToQuoteFromAmountOut(config *shared.PoolConfig, currentSqrtPrice, outAmount *big.Int) (shared.SwapAmount, error) {
	curve := curveFromConfig(config)
	current := new(big.Int).Set(currentSqrtPrice)
	amountLeft := new(big.Int).Set(outAmount)
	totalAmountIn := big.NewInt(0)

	for i := len(curve) - 2; i >= 0; i-- {
		if curve[i].SqrtPrice.Sign() == 0 || curve[i].Liquidity.Sign() == 0 {
			continue
		}
		if curve[i].SqrtPrice.Cmp(current) < 0 {
			maxAmountOut, err := GetDeltaAmountQuote(curve[i].SqrtPrice, current, curve[i+1].Liquidity, shared.RoundingDown)
			if err != nil {
				return shared.SwapAmount{}, err
			}
			if amountLeft.Cmp(maxAmountOut) < 0 {
				nextSqrtPrice, err := GetNextSqrtPriceFromOutput(current, curve[i+1].Liquidity, amountLeft, true)
				if err != nil {
					return shared.SwapAmount{}, err
				}
				inAmount, err := GetDeltaAmountBase(nextSqrtPrice, current, curve[i+1].Liquidity, shared.RoundingUp)
				if err != nil {
					return shared.SwapAmount{}, err
				}
				totalAmountIn.Add(totalAmountIn, inAmount)
				return shared.SwapAmount{OutputAmount: totalAmountIn, NextSqrtPrice: nextSqrtPrice, AmountLeft: big.NewInt(0)}, nil
			}
			nextSqrtPrice := curve[i].SqrtPrice
			inAmount, err := GetDeltaAmountBase(nextSqrtPrice, current, curve[i+1].Liquidity, shared.RoundingUp)
			if err != nil {
				return shared.SwapAmount{}, err
			}
			totalAmountIn.Add(totalAmountIn, inAmount)
			current = nextSqrtPrice
			amountLeft.Sub(amountLeft, maxAmountOut)
		}
	}

	if amountLeft.Sign() != 0 {
		sqrtStartPrice := config.SqrtStartPrice.BigInt()
		maxAmountOut, err := GetDeltaAmountQuote(sqrtStartPrice, current, curve[0].Liquidity, shared.RoundingDown)
		if err != nil {
			return shared.SwapAmount{}, err
		}
		if amountLeft.Cmp(maxAmountOut) > 0 {
			return shared.SwapAmount{}, shared.ErrInsufficientLiquidity
		}
		nextSqrtPrice, err := GetNextSqrtPriceFromOutput(current, curve[0].Liquidity, amountLeft, true)
		if err != nil {
			return shared.SwapAmount{}, err
		}
		if nextSqrtPrice.Cmp(sqrtStartPrice) < 0 {
			return shared.SwapAmount{}, shared.ErrInsufficientLiquidity
		}
		inAmount, err := GetDeltaAmountBase(nextSqrtPrice, current, curve[0].Liquidity, shared.RoundingUp)
		if err != nil {
			return shared.SwapAmount{}, err
		}
		totalAmountIn.Add(totalAmountIn, inAmount)
		current = nextSqrtPrice
	}

	return shared.SwapAmount{OutputAmount: totalAmountIn, NextSqrtPrice: current, AmountLeft: big.NewInt(0)}, nil
}

// CalculateQuoteToBaseFromAmountOut finds the quote input needed to
// produce an exact base output.
func CalculateQuoteToBaseFromAmountOut(config *shared.PoolConfig, currentSqrtPrice, outAmount *big.Int) (shared.SwapAmount, error) {
	curve := curveFromConfig(config)
	current := new(big.Int).Set(currentSqrtPrice)
	amountLeft := new(big.Int).Set(outAmount)
	totalIn := big.NewInt(0)

	for i := 0; i < len(curve); i++ {
		if curve[i].SqrtPrice.Sign() == 0 || curve[i].Liquidity.Sign() == 0 {
			break
		}
		if curve[i].SqrtPrice.Cmp(current) > 0 {
			maxAmountOut, err := GetDeltaAmountBase(current, curve[i].SqrtPrice, curve[i].Liquidity, shared.RoundingDown)
			if err != nil {
				return shared.SwapAmount{}, err
			}
			if amountLeft.Cmp(maxAmountOut) < 0 {
				nextSqrtPrice, err := GetNextSqrtPriceFromOutput(current, curve[i].Liquidity, amountLeft, false)
				if err != nil {
					return shared.SwapAmount{}, err
				}
				inAmount, err := GetDeltaAmountQuote(current, nextSqrtPrice, curve[i].Liquidity, shared.RoundingUp)
				if err != nil {
					return shared.SwapAmount{}, err
				}
				totalIn.Add(totalIn, inAmount)
				return shared.SwapAmount{OutputAmount: totalIn, NextSqrtPrice: nextSqrtPrice, AmountLeft: big.NewInt(0)}, nil
			}
			inAmount, err := GetDeltaAmountQuote(current, curve[i].SqrtPrice, curve[i].Liquidity, shared.RoundingUp)
			if err != nil {
				return shared.SwapAmount{}, err
			}
			totalIn.Add(totalIn, inAmount)
			current = curve[i].SqrtPrice
			amountLeft.Sub(amountLeft, maxAmountOut)
		}
	}

	if amountLeft.Sign() != 0 {
		return shared.SwapAmount{}, shared.ErrInsufficientLiquidity
	}
	return shared.SwapAmount{OutputAmount: totalIn, NextSqrtPrice: current, AmountLeft: big.NewInt(0)}, nil
}

func walkFromAmountIn(config *shared.PoolConfig, tradeDirection shared.TradeDirection, currentSqrtPrice, amountIn *big.Int) (shared.SwapAmount, error) {
	if tradeDirection == shared.TradeDirectionBaseToQuote {
		return CalculateBaseToQuoteFromAmountIn(config, currentSqrtPrice, amountIn)
	}
	return CalculateQuoteToBaseFromAmountIn(config, currentSqrtPrice, amountIn, config.MigrationSqrtPrice.BigInt())
}

// reconcilePartialInput recomputes fees after a walk consumed less
// than the net input. The fee is re-derived from the consumed amount
// by inverting the net relation, so the quoted gross input matches
// what execution would actually charge.
func reconcilePartialInput(virtualPool *shared.VirtualPool, config *shared.PoolConfig, feeMode shared.FeeMode, tradeDirection shared.TradeDirection, currentPoint, consumedAmountIn *big.Int) (includedFeeInput, tradingFee, protocolFee, referralFee *big.Int, err error) {
	if !feeMode.FeesOnInput {
		return consumedAmountIn, big.NewInt(0), big.NewInt(0), big.NewInt(0), nil
	}
	activationPoint := new(big.Int).SetUint64(virtualPool.ActivationPoint)
	tradeFeeNumerator, err := GetTotalFeeNumeratorFromExcludedFeeAmount(config.PoolFees, virtualPool.VolatilityTracker, currentPoint, activationPoint, consumedAmountIn, tradeDirection)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	includedFeeAmount, feeAmount, err := GetIncludedFeeAmount(tradeFeeNumerator, consumedAmountIn)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	tradingFee, protocolFee, referralFee, err = SplitFees(config.PoolFees, feeAmount, feeMode.HasReferral)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return includedFeeAmount, tradingFee, protocolFee, referralFee, nil
}

// GetSwapResultFromExactInput prices an exact-in swap. A buy that
// exhausts the curve may still succeed when the unconsumed quote stays
// within the migration buffer; the fees are then recomputed from the
// consumed amount.
func GetSwapResultFromExactInput(virtualPool *shared.VirtualPool, config *shared.PoolConfig, amountIn *big.Int, feeMode shared.FeeMode, tradeDirection shared.TradeDirection, currentPoint *big.Int) (shared.SwapResult, error) {
	actualTradingFee := big.NewInt(0)
	actualProtocolFee := big.NewInt(0)
	actualReferralFee := big.NewInt(0)

	activationPoint := new(big.Int).SetUint64(virtualPool.ActivationPoint)
	tradeFeeNumerator, err := GetTotalFeeNumeratorFromIncludedFeeAmount(config.PoolFees, virtualPool.VolatilityTracker, currentPoint, activationPoint, amountIn, tradeDirection)
	if err != nil {
		return shared.SwapResult{}, err
	}

	actualAmountIn := amountIn
	if feeMode.FeesOnInput {
		feeResult, err := GetFeeOnAmount(tradeFeeNumerator, amountIn, config.PoolFees, feeMode.HasReferral)
		if err != nil {
			return shared.SwapResult{}, err
		}
		actualTradingFee = feeResult.TradingFee
		actualProtocolFee = feeResult.ProtocolFee
		actualReferralFee = feeResult.ReferralFee
		actualAmountIn = feeResult.Amount
	}

	swapAmount, err := walkFromAmountIn(config, tradeDirection, virtualPool.SqrtPrice.BigInt(), actualAmountIn)
	if err != nil {
		return shared.SwapResult{}, err
	}

	includedFeeInputAmount := amountIn
	if swapAmount.AmountLeft.Sign() != 0 {
		if tradeDirection == shared.TradeDirectionBaseToQuote {
			return shared.SwapResult{}, shared.ErrInsufficientLiquidity
		}
		// A buy may overshoot the migration price by a bounded
		// buffer of the quote threshold; anything larger is a
		// quoting error the caller must size down.
		buffer := new(big.Int).SetUint64(config.MigrationQuoteThreshold)
		buffer.Mul(buffer, big.NewInt(shared.SwapBufferPercentage))
		buffer.Div(buffer, big.NewInt(100))
		if swapAmount.AmountLeft.Cmp(buffer) > 0 {
			return shared.SwapResult{}, shared.ErrAmountLeftOverThreshold
		}
		actualAmountIn, err = Sub(actualAmountIn, swapAmount.AmountLeft)
		if err != nil {
			return shared.SwapResult{}, err
		}
		if feeMode.FeesOnInput {
			includedFeeInputAmount, actualTradingFee, actualProtocolFee, actualReferralFee, err = reconcilePartialInput(virtualPool, config, feeMode, tradeDirection, currentPoint, actualAmountIn)
			if err != nil {
				return shared.SwapResult{}, err
			}
		} else {
			includedFeeInputAmount = actualAmountIn
		}
	}

	actualAmountOut := swapAmount.OutputAmount
	if !feeMode.FeesOnInput {
		feeResult, err := GetFeeOnAmount(tradeFeeNumerator, swapAmount.OutputAmount, config.PoolFees, feeMode.HasReferral)
		if err != nil {
			return shared.SwapResult{}, err
		}
		actualTradingFee = feeResult.TradingFee
		actualProtocolFee = feeResult.ProtocolFee
		actualReferralFee = feeResult.ReferralFee
		actualAmountOut = feeResult.Amount
	}

	return shared.SwapResult{
		AmountLeft:             swapAmount.AmountLeft,
		IncludedFeeInputAmount: includedFeeInputAmount,
		ExcludedFeeInputAmount: actualAmountIn,
		OutputAmount:           actualAmountOut,
		NextSqrtPrice:          swapAmount.NextSqrtPrice,
		TradingFee:             actualTradingFee,
		ProtocolFee:            actualProtocolFee,
		ReferralFee:            actualReferralFee,
	}, nil
}

// GetSwapResultFromPartialInput prices a fill-what-you-can swap: the
// walk consumes what the curve can absorb and the unfilled remainder
// is reported, never an error.
func GetSwapResultFromPartialInput(virtualPool *shared.VirtualPool, config *shared.PoolConfig, amountIn *big.Int, feeMode shared.FeeMode, tradeDirection shared.TradeDirection, currentPoint *big.Int) (shared.SwapResult, error) {
	actualTradingFee := big.NewInt(0)
	actualProtocolFee := big.NewInt(0)
	actualReferralFee := big.NewInt(0)

	activationPoint := new(big.Int).SetUint64(virtualPool.ActivationPoint)
	tradeFeeNumerator, err := GetTotalFeeNumeratorFromIncludedFeeAmount(config.PoolFees, virtualPool.VolatilityTracker, currentPoint, activationPoint, amountIn, tradeDirection)
	if err != nil {
		return shared.SwapResult{}, err
	}

	actualAmountIn := amountIn
	if feeMode.FeesOnInput {
		feeResult, err := GetFeeOnAmount(tradeFeeNumerator, amountIn, config.PoolFees, feeMode.HasReferral)
		if err != nil {
			return shared.SwapResult{}, err
		}
		actualTradingFee = feeResult.TradingFee
		actualProtocolFee = feeResult.ProtocolFee
		actualReferralFee = feeResult.ReferralFee
		actualAmountIn = feeResult.Amount
	}

	swapAmount, err := walkFromAmountIn(config, tradeDirection, virtualPool.SqrtPrice.BigInt(), actualAmountIn)
	if err != nil {
		return shared.SwapResult{}, err
	}

	includedFeeInputAmount := amountIn
	if swapAmount.AmountLeft.Sign() != 0 {
		actualAmountIn, err = Sub(actualAmountIn, swapAmount.AmountLeft)
		if err != nil {
			return shared.SwapResult{}, err
		}
		if feeMode.FeesOnInput {
			includedFeeInputAmount, actualTradingFee, actualProtocolFee, actualReferralFee, err = reconcilePartialInput(virtualPool, config, feeMode, tradeDirection, currentPoint, actualAmountIn)
			if err != nil {
				return shared.SwapResult{}, err
			}
		} else {
			includedFeeInputAmount = actualAmountIn
		}
	}

	actualAmountOut := swapAmount.OutputAmount
	if !feeMode.FeesOnInput {
		feeResult, err := GetFeeOnAmount(tradeFeeNumerator, swapAmount.OutputAmount, config.PoolFees, feeMode.HasReferral)
		if err != nil {
			return shared.SwapResult{}, err
		}
		actualTradingFee = feeResult.TradingFee
		actualProtocolFee = feeResult.ProtocolFee
		actualReferralFee = feeResult.ReferralFee
		actualAmountOut = feeResult.Amount
	}

	return shared.SwapResult{
		AmountLeft:             swapAmount.AmountLeft,
		IncludedFeeInputAmount: includedFeeInputAmount,
		ExcludedFeeInputAmount: actualAmountIn,
		OutputAmount:           actualAmountOut,
		NextSqrtPrice:          swapAmount.NextSqrtPrice,
		TradingFee:             actualTradingFee,
		ProtocolFee:            actualProtocolFee,
		ReferralFee:            actualReferralFee,
	}, nil
}

// GetSwapResultFromExactOutput prices a swap backward from the desired
// output. The output is grossed up first when the fee sits on that
// side, then the walk derives the input, which is grossed up in turn
// when the fee sits on the input.
func GetSwapResultFromExactOutput(virtualPool *shared.VirtualPool, config *shared.PoolConfig, amountOut *big.Int, feeMode shared.FeeMode, tradeDirection shared.TradeDirection, currentPoint *big.Int) (shared.SwapResult, error) {
	actualTradingFee := big.NewInt(0)
	actualProtocolFee := big.NewInt(0)
	actualReferralFee := big.NewInt(0)
	activationPoint := new(big.Int).SetUint64(virtualPool.ActivationPoint)

	includedFeeOutAmount := amountOut
	if !feeMode.FeesOnInput {
		tradeFeeNumerator, err := GetTotalFeeNumeratorFromExcludedFeeAmount(config.PoolFees, virtualPool.VolatilityTracker, currentPoint, activationPoint, amountOut, tradeDirection)
		if err != nil {
			return shared.SwapResult{}, err
		}
		var feeAmount *big.Int
		includedFeeOutAmount, feeAmount, err = GetIncludedFeeAmount(tradeFeeNumerator, amountOut)
		if err != nil {
			return shared.SwapResult{}, err
		}
		actualTradingFee, actualProtocolFee, actualReferralFee, err = SplitFees(config.PoolFees, feeAmount, feeMode.HasReferral)
		if err != nil {
			return shared.SwapResult{}, err
		}
	}

	currentSqrtPrice := virtualPool.SqrtPrice.BigInt()
	var swapAmount shared.SwapAmount
	var err error
	if tradeDirection == shared.TradeDirectionBaseToQuote {
		swapAmount, err = CalculateBaseToQuoteFromAmountOut(config, currentSqrtPrice, includedFeeOutAmount)
	} else {
		swapAmount, err = CalculateQuoteToBaseFromAmountOut(config, currentSqrtPrice, includedFeeOutAmount)
	}
	if err != nil {
		return shared.SwapResult{}, err
	}
	if swapAmount.NextSqrtPrice.Cmp(config.MigrationSqrtPrice.BigInt()) > 0 {
		return shared.SwapResult{}, shared.ErrInsufficientLiquidity
	}

	amountIn := swapAmount.OutputAmount
	excludedFeeInputAmount := amountIn
	includedFeeInputAmount := amountIn
	if feeMode.FeesOnInput {
		tradeFeeNumerator, err := GetTotalFeeNumeratorFromExcludedFeeAmount(config.PoolFees, virtualPool.VolatilityTracker, currentPoint, activationPoint, amountIn, tradeDirection)
		if err != nil {
			return shared.SwapResult{}, err
		}
		var feeAmount *big.Int
		includedFeeInputAmount, feeAmount, err = GetIncludedFeeAmount(tradeFeeNumerator, amountIn)
		if err != nil {
			return shared.SwapResult{}, err
		}
		actualTradingFee, actualProtocolFee, actualReferralFee, err = SplitFees(config.PoolFees, feeAmount, feeMode.HasReferral)
		if err != nil {
			return shared.SwapResult{}, err
		}
	}

	return shared.SwapResult{
		AmountLeft:             big.NewInt(0),
		IncludedFeeInputAmount: includedFeeInputAmount,
		ExcludedFeeInputAmount: excludedFeeInputAmount,
		OutputAmount:           amountOut,
		NextSqrtPrice:          swapAmount.NextSqrtPrice,
		TradingFee:             actualTradingFee,
		ProtocolFee:            actualProtocolFee,
		ReferralFee:            actualReferralFee,
	}, nil
}

func checkQuotePreconditions(virtualPool *shared.VirtualPool, config *shared.PoolConfig, amount *big.Int) error {
	if virtualPool.QuoteReserve >= config.MigrationQuoteThreshold {
		return shared.ErrPoolCompleted
	}
	if amount.Sign() == 0 {
		return shared.ErrZeroAmount
	}
	return nil
}

func applySlippageDown(amount *big.Int, slippageBps uint16) *big.Int {
	if slippageBps == 0 {
		return amount
	}
	factor := big.NewInt(int64(shared.MaxBasisPoint - int(slippageBps)))
	return new(big.Int).Div(new(big.Int).Mul(amount, factor), big.NewInt(shared.MaxBasisPoint))
}

func applySlippageUp(amount *big.Int, slippageBps uint16) *big.Int {
	if slippageBps == 0 {
		return amount
	}
	factor := big.NewInt(int64(shared.MaxBasisPoint + int(slippageBps)))
	return new(big.Int).Div(new(big.Int).Mul(amount, factor), big.NewInt(shared.MaxBasisPoint))
}

// SwapQuoteExactIn quotes an exact-in swap against a live pool state
// and applies the slippage tolerance to the output.
func SwapQuoteExactIn(virtualPool *shared.VirtualPool, config *shared.PoolConfig, tradeDirection shared.TradeDirection, amountIn *big.Int, slippageBps uint16, hasReferral bool, currentPoint *big.Int) (shared.SwapQuoteResult, error) {
	if err := checkQuotePreconditions(virtualPool, config, amountIn); err != nil {
		return shared.SwapQuoteResult{}, err
	}
	feeMode := GetFeeMode(shared.CollectFeeMode(config.CollectFeeMode), tradeDirection, hasReferral)
	result, err := GetSwapResultFromExactInput(virtualPool, config, amountIn, feeMode, tradeDirection, currentPoint)
	if err != nil {
		return shared.SwapQuoteResult{}, err
	}
	return shared.SwapQuoteResult{
		SwapResult:       result,
		MinimumAmountOut: applySlippageDown(result.OutputAmount, slippageBps),
	}, nil
}

// SwapQuotePartialFill quotes a swap that fills as much of the input
// as the curve allows.
func SwapQuotePartialFill(virtualPool *shared.VirtualPool, config *shared.PoolConfig, tradeDirection shared.TradeDirection, amountIn *big.Int, slippageBps uint16, hasReferral bool, currentPoint *big.Int) (shared.SwapQuoteResult, error) {
	if err := checkQuotePreconditions(virtualPool, config, amountIn); err != nil {
		return shared.SwapQuoteResult{}, err
	}
	feeMode := GetFeeMode(shared.CollectFeeMode(config.CollectFeeMode), tradeDirection, hasReferral)
	result, err := GetSwapResultFromPartialInput(virtualPool, config, amountIn, feeMode, tradeDirection, currentPoint)
	if err != nil {
		return shared.SwapQuoteResult{}, err
	}
	return shared.SwapQuoteResult{
		SwapResult:       result,
		MinimumAmountOut: applySlippageDown(result.OutputAmount, slippageBps),
	}, nil
}

// SwapQuoteExactOut quotes a swap for an exact output amount and
// applies the slippage tolerance to the gross input.
func SwapQuoteExactOut(virtualPool *shared.VirtualPool, config *shared.PoolConfig, tradeDirection shared.TradeDirection, outAmount *big.Int, slippageBps uint16, hasReferral bool, currentPoint *big.Int) (shared.SwapQuoteResult, error) {
	if err := checkQuotePreconditions(virtualPool, config, outAmount); err != nil {
		return shared.SwapQuoteResult{}, err
	}
	feeMode := GetFeeMode(shared.CollectFeeMode(config.CollectFeeMode), tradeDirection, hasReferral)
	result, err := GetSwapResultFromExactOutput(virtualPool, config, outAmount, feeMode, tradeDirection, currentPoint)
	if err != nil {
		return shared.SwapQuoteResult{}, err
	}
	return shared.SwapQuoteResult{
		SwapResult:      result,
		MaximumAmountIn: applySlippageUp(result.IncludedFeeInputAmount, slippageBps),
	}, nil
}

// SwapQuoteRemainingCurve quotes the buy that takes the pool exactly
// to its migration quote threshold. When fees are collected on the
// quote input the remaining reserve gap is grossed up so the net
// amount lands on the threshold.
func SwapQuoteRemainingCurve(virtualPool *shared.VirtualPool, config *shared.PoolConfig, slippageBps uint16, hasReferral bool, currentPoint *big.Int) (shared.SwapQuoteResult, error) {
	if virtualPool.QuoteReserve >= config.MigrationQuoteThreshold {
		return shared.SwapQuoteResult{}, shared.ErrPoolCompleted
	}
	remaining := new(big.Int).SetUint64(config.MigrationQuoteThreshold - virtualPool.QuoteReserve)

	tradeDirection := shared.TradeDirectionQuoteToBase
	feeMode := GetFeeMode(shared.CollectFeeMode(config.CollectFeeMode), tradeDirection, hasReferral)

	amountIn := remaining
	if feeMode.FeesOnInput {
		activationPoint := new(big.Int).SetUint64(virtualPool.ActivationPoint)
		tradeFeeNumerator, err := GetTotalFeeNumeratorFromExcludedFeeAmount(config.PoolFees, virtualPool.VolatilityTracker, currentPoint, activationPoint, remaining, tradeDirection)
		if err != nil {
			return shared.SwapQuoteResult{}, err
		}
		amountIn, _, err = GetIncludedFeeAmount(tradeFeeNumerator, remaining)
		if err != nil {
			return shared.SwapQuoteResult{}, err
		}
	}

	result, err := GetSwapResultFromExactInput(virtualPool, config, amountIn, feeMode, tradeDirection, currentPoint)
	if err != nil {
		return shared.SwapQuoteResult{}, err
	}
	return shared.SwapQuoteResult{
		SwapResult:       result,
		MinimumAmountOut: applySlippageDown(result.OutputAmount, slippageBps),
	}, nil
}

func minBig(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}
