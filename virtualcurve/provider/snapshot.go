package provider

import (
	"context"
	"fmt"
	"math/big"
	"os"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/launchcurve/launchcurve-go/virtualcurve/shared"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// SnapshotProvider serves pool state from a JSON snapshot file. The
// snapshot holds a top-level currentSlot and currentTimestamp plus a
// pools object keyed by base58 pool address.
type SnapshotProvider struct {
	data   []byte
	logger *zap.Logger
}

// NewSnapshotProvider loads the snapshot at path. A nil logger is
// replaced with a no-op one.
func NewSnapshotProvider(path string, logger *zap.Logger) (*SnapshotProvider, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("snapshot %s is not valid JSON", path)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotProvider{data: raw, logger: logger}, nil
}

func (p *SnapshotProvider) poolEntry(address solana.PublicKey) (gjson.Result, error) {
	entry := gjson.GetBytes(p.data, "pools."+address.String())
	if !entry.Exists() {
		return gjson.Result{}, fmt.Errorf("pool %s not found in snapshot", address)
	}
	return entry, nil
}

func (p *SnapshotProvider) PoolConfig(ctx context.Context, address solana.PublicKey) (*shared.PoolConfig, error) {
	entry, err := p.poolEntry(address)
	if err != nil {
		return nil, err
	}
	cfgJSON := entry.Get("config")
	if !cfgJSON.Exists() {
		return nil, fmt.Errorf("pool %s has no config in snapshot", address)
	}

	sqrtStartPrice, err := parseUint128(cfgJSON.Get("sqrtStartPrice"))
	if err != nil {
		return nil, fmt.Errorf("pool %s sqrtStartPrice: %w", address, err)
	}
	migrationSqrtPrice, err := parseUint128(cfgJSON.Get("migrationSqrtPrice"))
	if err != nil {
		return nil, fmt.Errorf("pool %s migrationSqrtPrice: %w", address, err)
	}

	var curve []shared.CurveSegment
	for i, seg := range cfgJSON.Get("curve").Array() {
		sqrtPrice, err := parseUint128(seg.Get("sqrtPrice"))
		if err != nil {
			return nil, fmt.Errorf("pool %s curve[%d] sqrtPrice: %w", address, i, err)
		}
		liquidity, err := parseUint128(seg.Get("liquidity"))
		if err != nil {
			return nil, fmt.Errorf("pool %s curve[%d] liquidity: %w", address, i, err)
		}
		curve = append(curve, shared.CurveSegment{SqrtPrice: sqrtPrice, Liquidity: liquidity})
	}

	baseFee := cfgJSON.Get("poolFees.baseFee")
	dynamicFee := cfgJSON.Get("poolFees.dynamicFee")
	cfg := &shared.PoolConfig{
		PoolFees: shared.PoolFeesConfig{
			BaseFee: shared.BaseFeeConfig{
				CliffFeeNumerator: baseFee.Get("cliffFeeNumerator").Uint(),
				FirstFactor:       uint16(baseFee.Get("firstFactor").Uint()),
				SecondFactor:      baseFee.Get("secondFactor").Uint(),
				ThirdFactor:       baseFee.Get("thirdFactor").Uint(),
				BaseFeeMode:       uint8(baseFee.Get("baseFeeMode").Uint()),
			},
			DynamicFee: shared.DynamicFeeConfig{
				Initialized:        uint8(dynamicFee.Get("initialized").Uint()),
				BinStep:            uint16(dynamicFee.Get("binStep").Uint()),
				VariableFeeControl: uint32(dynamicFee.Get("variableFeeControl").Uint()),
			},
			ProtocolFeePercent: uint8(cfgJSON.Get("poolFees.protocolFeePercent").Uint()),
			ReferralFeePercent: uint8(cfgJSON.Get("poolFees.referralFeePercent").Uint()),
		},
		CollectFeeMode:          uint8(cfgJSON.Get("collectFeeMode").Uint()),
		ActivationType:          uint8(cfgJSON.Get("activationType").Uint()),
		MigrationQuoteThreshold: cfgJSON.Get("migrationQuoteThreshold").Uint(),
		SqrtStartPrice:          sqrtStartPrice,
		MigrationSqrtPrice:      migrationSqrtPrice,
		Curve:                   curve,
	}

	p.logger.Debug("loaded pool config from snapshot",
		zap.String("pool", address.String()),
		zap.Int("segments", len(curve)),
	)
	return cfg, nil
}

func (p *SnapshotProvider) VirtualPool(ctx context.Context, address solana.PublicKey) (*shared.VirtualPool, error) {
	entry, err := p.poolEntry(address)
	if err != nil {
		return nil, err
	}
	poolJSON := entry.Get("pool")
	if !poolJSON.Exists() {
		return nil, fmt.Errorf("pool %s has no state in snapshot", address)
	}

	sqrtPrice, err := parseUint128(poolJSON.Get("sqrtPrice"))
	if err != nil {
		return nil, fmt.Errorf("pool %s sqrtPrice: %w", address, err)
	}
	volatilityAccumulator, err := parseUint128(poolJSON.Get("volatilityAccumulator"))
	if err != nil {
		return nil, fmt.Errorf("pool %s volatilityAccumulator: %w", address, err)
	}

	return &shared.VirtualPool{
		SqrtPrice:       sqrtPrice,
		ActivationPoint: poolJSON.Get("activationPoint").Uint(),
		QuoteReserve:    poolJSON.Get("quoteReserve").Uint(),
		VolatilityTracker: shared.VolatilityTracker{
			VolatilityAccumulator: volatilityAccumulator,
		},
	}, nil
}

func (p *SnapshotProvider) CurrentPoint(ctx context.Context, activationType shared.ActivationType) (*big.Int, error) {
	var key string
	switch activationType {
	case shared.ActivationTypeSlot:
		key = "currentSlot"
	case shared.ActivationTypeTimestamp:
		key = "currentTimestamp"
	default:
		return nil, fmt.Errorf("unknown activation type %d", activationType)
	}
	point := gjson.GetBytes(p.data, key)
	if !point.Exists() {
		return nil, fmt.Errorf("snapshot has no %s", key)
	}
	return new(big.Int).SetUint64(point.Uint()), nil
}

// parseUint128 accepts a decimal string or a JSON number.
func parseUint128(result gjson.Result) (bin.Uint128, error) {
	if !result.Exists() {
		return bin.Uint128{}, fmt.Errorf("value missing")
	}
	v, ok := new(big.Int).SetString(result.String(), 10)
	if !ok {
		return bin.Uint128{}, fmt.Errorf("invalid u128 %q", result.String())
	}
	return shared.Uint128FromBig(v)
}

var _ StateProvider = (*SnapshotProvider)(nil)
