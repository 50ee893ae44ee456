package helpers

import (
	"errors"
	"fmt"

	"github.com/launchcurve/launchcurve-go/virtualcurve/math/poolfees"
	"github.com/launchcurve/launchcurve-go/virtualcurve/shared"
)

// ValidateCurveConfig checks a pool config for the structural
// invariants the quote engine assumes: an ascending, bounded curve, a
// start price below the first boundary, a migration price the curve
// covers, and a coherent fee configuration.
func ValidateCurveConfig(cfg *shared.PoolConfig) error {
	if cfg == nil {
		return errors.New("pool config is nil")
	}
	if len(cfg.Curve) == 0 {
		return errors.New("curve has no segments")
	}
	if len(cfg.Curve) > shared.MaxCurveSegments {
		return fmt.Errorf("curve has %d segments, maximum is %d", len(cfg.Curve), shared.MaxCurveSegments)
	}

	sqrtStartPrice := cfg.SqrtStartPrice.BigInt()
	if sqrtStartPrice.Cmp(shared.MinSqrtPrice) < 0 || sqrtStartPrice.Cmp(shared.MaxSqrtPrice) > 0 {
		return shared.ErrInvalidPrice
	}

	previous := sqrtStartPrice
	for i, segment := range cfg.Curve {
		sqrtPrice := segment.SqrtPrice.BigInt()
		if sqrtPrice.Cmp(previous) <= 0 {
			return fmt.Errorf("curve segment %d: sqrt price not ascending: %w", i, shared.ErrInvalidPrice)
		}
		if sqrtPrice.Cmp(shared.MaxSqrtPrice) > 0 {
			return fmt.Errorf("curve segment %d: sqrt price above maximum: %w", i, shared.ErrInvalidPrice)
		}
		if segment.Liquidity.BigInt().Sign() == 0 {
			return fmt.Errorf("curve segment %d: %w", i, shared.ErrInvalidLiquidity)
		}
		previous = sqrtPrice
	}

	migrationSqrtPrice := cfg.MigrationSqrtPrice.BigInt()
	if migrationSqrtPrice.Cmp(sqrtStartPrice) <= 0 {
		return fmt.Errorf("migration sqrt price below start price: %w", shared.ErrInvalidPrice)
	}
	lastBoundary := cfg.Curve[len(cfg.Curve)-1].SqrtPrice.BigInt()
	if migrationSqrtPrice.Cmp(lastBoundary) > 0 {
		return fmt.Errorf("migration sqrt price beyond last curve boundary: %w", shared.ErrInvalidPrice)
	}

	if cfg.MigrationQuoteThreshold == 0 {
		return errors.New("migration quote threshold must be greater than zero")
	}

	handler, err := poolfees.NewHandler(cfg.PoolFees.BaseFee)
	if err != nil {
		return err
	}
	if err := handler.Validate(shared.CollectFeeMode(cfg.CollectFeeMode), shared.ActivationType(cfg.ActivationType)); err != nil {
		return err
	}

	if cfg.PoolFees.ProtocolFeePercent > 100 {
		return errors.New("protocol fee percent exceeds 100")
	}
	if cfg.PoolFees.ReferralFeePercent > 100 {
		return errors.New("referral fee percent exceeds 100")
	}
	return nil
}
