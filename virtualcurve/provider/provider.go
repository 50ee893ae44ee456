// Package provider supplies pool state to the quoting engine. The
// engine itself is pure math; everything it needs about a pool at a
// point in time comes through a StateProvider.
package provider

import (
	"context"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/launchcurve/launchcurve-go/virtualcurve/shared"
)

// StateProvider resolves pool state by address.
type StateProvider interface {
	// PoolConfig returns the immutable configuration of the pool.
	PoolConfig(ctx context.Context, address solana.PublicKey) (*shared.PoolConfig, error)

	// VirtualPool returns the current mutable state of the pool.
	VirtualPool(ctx context.Context, address solana.PublicKey) (*shared.VirtualPool, error)

	// CurrentPoint returns the current slot or unix timestamp,
	// depending on the activation type.
	CurrentPoint(ctx context.Context, activationType shared.ActivationType) (*big.Int, error)
}
