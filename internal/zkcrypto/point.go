package zkcrypto

import (
	"fmt"

	blst "github.com/supranational/blst/bindings/go"
)

// PointLen is the uncompressed serialized length of a BLS12-381 G1
// point (96 bytes), the wire size every group element uses throughout
// the verifier's proof formats.
const PointLen = 96

// pedersenHDST and pedersenHMsg are the hash-to-curve parameters used
// to derive the second Pedersen basis point H, nothing-up-my-sleeve.
var (
	pedersenHMsg = []byte("PEDERSEN_H")
	pedersenHDST = []byte("SGS_CANGKULAN_V1")
)

// Point is a BLS12-381 G1 group element in affine form.
type Point struct {
	p *blst.P1Affine
}

// scalarToBLST converts an Fr scalar into blst's internal scalar
// representation for use in group scalar multiplication.
func scalarToBLST(s Scalar) *blst.Scalar {
	b := s.Bytes()
	sc := new(blst.Scalar)
	sc.FromBEndian(b[:])
	return sc
}

// Generator returns the BLS12-381 G1 standard generator, the `G` basis
// point.
func Generator() Point {
	return Point{p: blst.P1Generator().ToAffine()}
}

// HGenerator returns the second Pedersen basis point `H`, derived
// deterministically by hashing to G1 with the fixed domain-separation
// string, independent of G by construction.
func HGenerator() Point {
	p := blst.HashToG1(pedersenHMsg, pedersenHDST)
	return Point{p: p.ToAffine()}
}

// ScalarBaseMul returns s*G.
func ScalarBaseMul(s Scalar) Point {
	return Generator().ScalarMul(s)
}

// ScalarMul returns s*p.
func (p Point) ScalarMul(s Scalar) Point {
	sc := scalarToBLST(s)
	jac := new(blst.P1)
	jac.FromAffine(p.p)
	jac = jac.Mult(sc)
	return Point{p: jac.ToAffine()}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	jp := new(blst.P1)
	jp.FromAffine(p.p)
	jq := new(blst.P1)
	jq.FromAffine(q.p)
	jp = jp.Add(jq)
	return Point{p: jp.ToAffine()}
}

// Neg returns -p.
func (p Point) Neg() Point {
	jp := new(blst.P1)
	jp.FromAffine(p.p)
	jp = new(blst.P1).Sub(jp)
	return Point{p: jp.ToAffine()}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return p.Add(q.Neg())
}

// IsIdentity reports whether p is the point at infinity.
func (p Point) IsIdentity() bool {
	return p.p == nil || p.p.Equals(&blst.P1Affine{})
}

// InSubgroup reports whether p is a member of the prime-order G1
// subgroup. Every group element received from a prover must pass this
// check before use.
func (p Point) InSubgroup() bool {
	return p.p != nil && p.p.InG1()
}

// Equal reports whether p and q represent the same point.
func (p Point) Equal(q Point) bool {
	if p.p == nil || q.p == nil {
		return p.p == q.p
	}
	return p.p.Equals(q.p)
}

// Serialize encodes p uncompressed in PointLen bytes.
func (p Point) Serialize() [PointLen]byte {
	var out [PointLen]byte
	if p.p == nil {
		return out
	}
	copy(out[:], p.p.Serialize())
	return out
}

// DecodePoint decodes an uncompressed G1 point and verifies it lies on
// the curve and in the correct subgroup.
func DecodePoint(b []byte) (Point, error) {
	if len(b) != PointLen {
		return Point{}, fmt.Errorf("zkcrypto: point must be %d bytes, got %d", PointLen, len(b))
	}
	aff := new(blst.P1Affine).Deserialize(b)
	if aff == nil {
		return Point{}, fmt.Errorf("zkcrypto: invalid point encoding")
	}
	pt := Point{p: aff}
	if !pt.InSubgroup() {
		return Point{}, fmt.Errorf("zkcrypto: point not in G1 subgroup")
	}
	return pt, nil
}

// MultiScalarMul computes the sum of scalars[i]*points[i]. No verifier
// mode calls it; the ring-sigma mode accumulates its scalar sum and
// compares the resulting multiples of G directly.
func MultiScalarMul(scalars []Scalar, points []Point) Point {
	if len(scalars) != len(points) {
		panic("zkcrypto: MultiScalarMul length mismatch")
	}
	acc := Point{}
	for i := range scalars {
		term := points[i].ScalarMul(scalars[i])
		if acc.p == nil {
			acc = term
			continue
		}
		acc = acc.Add(term)
	}
	return acc
}
