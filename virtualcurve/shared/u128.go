package shared

import (
	"errors"
	"math/big"

	bin "github.com/gagliardetto/binary"
)

// Uint128FromBig packs a non-negative big.Int into the 128-bit storage
// type used by pool state.
func Uint128FromBig(v *big.Int) (bin.Uint128, error) {
	if v.Sign() < 0 {
		return bin.Uint128{}, errors.New("value cannot be negative")
	}
	if v.BitLen() > 128 {
		return bin.Uint128{}, ErrOverflow
	}
	out := bin.NewUint128LittleEndian()
	out.Lo = v.Uint64()
	out.Hi = new(big.Int).Rsh(v, 64).Uint64()
	return *out, nil
}

// MustUint128FromString parses a decimal literal; panics on malformed
// input. Intended for constants and test fixtures.
func MustUint128FromString(s string) bin.Uint128 {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("invalid uint128 literal: " + s)
	}
	out, err := Uint128FromBig(v)
	if err != nil {
		panic(err)
	}
	return out
}
