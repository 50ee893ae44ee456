package shared

import (
	"math/big"

	bin "github.com/gagliardetto/binary"
)

type ActivationType uint8

const (
	ActivationTypeSlot      ActivationType = 0
	ActivationTypeTimestamp ActivationType = 1
)

type TokenDecimal uint8

const (
	TokenDecimalSix   TokenDecimal = 6
	TokenDecimalSeven TokenDecimal = 7
	TokenDecimalEight TokenDecimal = 8
	TokenDecimalNine  TokenDecimal = 9
)

type CollectFeeMode uint8

const (
	CollectFeeModeQuoteToken  CollectFeeMode = 0
	CollectFeeModeOutputToken CollectFeeMode = 1
)

type BaseFeeMode uint8

const (
	BaseFeeModeFeeSchedulerLinear      BaseFeeMode = 0
	BaseFeeModeFeeSchedulerExponential BaseFeeMode = 1
	BaseFeeModeRateLimiter             BaseFeeMode = 2
)

type TradeDirection uint8

const (
	TradeDirectionBaseToQuote TradeDirection = 0
	TradeDirectionQuoteToBase TradeDirection = 1
)

type Rounding uint8

const (
	RoundingUp   Rounding = 0
	RoundingDown Rounding = 1
)

type SwapMode uint8

const (
	SwapModeExactIn     SwapMode = 0
	SwapModePartialFill SwapMode = 1
	SwapModeExactOut    SwapMode = 2
)

// CurveSegment is one (sqrt price, liquidity) point of the piecewise
// curve. Segments are ordered by strictly increasing sqrt price; the
// first zero entry terminates the active curve.
type CurveSegment struct {
	SqrtPrice bin.Uint128
	Liquidity bin.Uint128
}

// BaseFeeConfig reinterprets its three factors per mode:
// schedulers read (numberOfPeriods, periodFrequency, reductionFactor),
// the rate limiter reads (feeIncrementBps, maxLimiterDuration,
// referenceAmount).
type BaseFeeConfig struct {
	CliffFeeNumerator uint64
	FirstFactor       uint16
	SecondFactor      uint64
	ThirdFactor       uint64
	BaseFeeMode       uint8
}

type DynamicFeeConfig struct {
	Initialized        uint8
	BinStep            uint16
	VariableFeeControl uint32
}

type PoolFeesConfig struct {
	BaseFee            BaseFeeConfig
	DynamicFee         DynamicFeeConfig
	ProtocolFeePercent uint8
	ReferralFeePercent uint8
}

// PoolConfig is immutable once the pool is created; every quote reads
// it as a snapshot.
type PoolConfig struct {
	PoolFees                PoolFeesConfig
	CollectFeeMode          uint8
	ActivationType          uint8
	MigrationQuoteThreshold uint64
	SqrtStartPrice          bin.Uint128
	MigrationSqrtPrice      bin.Uint128
	Curve                   []CurveSegment
}

// VolatilityTracker is maintained by the swap-execution loop between
// swaps; the quoting core only reads the accumulator.
type VolatilityTracker struct {
	VolatilityAccumulator bin.Uint128
}

// VirtualPool is the mutable runtime state of one bonding-curve pool.
// The core never writes it back; NextSqrtPrice in a SwapResult is what
// the caller persists.
type VirtualPool struct {
	SqrtPrice         bin.Uint128
	ActivationPoint   uint64
	QuoteReserve      uint64
	VolatilityTracker VolatilityTracker
}

// FeeMode says where fees are charged for one trade.
type FeeMode struct {
	FeesOnInput     bool
	FeesOnBaseToken bool
	HasReferral     bool
}

// SwapAmount is the raw result of one curve walk, before fees.
type SwapAmount struct {
	OutputAmount  *big.Int
	NextSqrtPrice *big.Int
	AmountLeft    *big.Int
}

type SwapResult struct {
	AmountLeft             *big.Int
	IncludedFeeInputAmount *big.Int
	ExcludedFeeInputAmount *big.Int
	OutputAmount           *big.Int
	NextSqrtPrice          *big.Int
	TradingFee             *big.Int
	ProtocolFee            *big.Int
	ReferralFee            *big.Int
}

type SwapQuoteResult struct {
	SwapResult
	MinimumAmountOut *big.Int
	MaximumAmountIn  *big.Int
}

// FeeBreakdown is the result of charging a fee on an amount.
type FeeBreakdown struct {
	Amount      *big.Int
	TradingFee  *big.Int
	ProtocolFee *big.Int
	ReferralFee *big.Int
}
