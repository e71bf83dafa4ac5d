// Copyright (c) 2025 walletcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package secp256k1

import (
	dcrec "github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Point is an affine point on secp256k1: either the identity ∞, or (x, y)
// with y² ≡ x³ + 7 (mod p). It is immutable — every operation returns a
// new Point, per spec.md §3 ("never mutated in place after construction").
//
// The field/group arithmetic itself is delegated to decred's
// dcrec/secp256k1/v4 Jacobian-coordinate implementation (see
// DESIGN.md — grounded on EXCCoin-exccd's go.mod dependency on that
// module); this type narrows that general-purpose API down to exactly
// the operations spec.md §4.1 names.
type Point struct {
	j        dcrec.JacobianPoint
	infinity bool
}

// Infinity returns the point at infinity.
func Infinity() Point {
	var p Point
	p.infinity = true
	return p
}

// IsInfinity reports whether p is the identity element.
func (p Point) IsInfinity() bool { return p.infinity }

// Generator returns the secp256k1 base point G.
func Generator() Point {
	one, _ := ScalarFromBytes([]byte{1})
	return BaseMultiply(one)
}

// BaseMultiply computes k·G.
func BaseMultiply(k Scalar) Point {
	var result dcrec.JacobianPoint
	dcrec.ScalarBaseMultNonConst(k.modN(), &result)
	return fromJacobian(result)
}

// ScalarMultiply computes k·P.
func (p Point) ScalarMultiply(k Scalar) Point {
	if p.infinity {
		return Infinity()
	}
	var result dcrec.JacobianPoint
	dcrec.ScalarMultNonConst(k.modN(), &p.j, &result)
	return fromJacobian(result)
}

// Add computes p + q using the affine addition law, with the identity
// handled explicitly: ∞ + q = q, p + ∞ = p, and p + (−p) = ∞.
func (p Point) Add(q Point) Point {
	if p.infinity {
		return q
	}
	if q.infinity {
		return p
	}
	var result dcrec.JacobianPoint
	dcrec.AddNonConst(&p.j, &q.j, &result)
	return fromJacobian(result)
}

// Double computes p + p.
func (p Point) Double() Point {
	if p.infinity {
		return Infinity()
	}
	var result dcrec.JacobianPoint
	dcrec.DoubleNonConst(&p.j, &result)
	return fromJacobian(result)
}

// Negate computes −p, i.e. (x, p − y).
func (p Point) Negate() Point {
	if p.infinity {
		return Infinity()
	}
	var y dcrec.FieldVal
	y.Set(&p.j.Y).Negate(1).Normalize()
	var j dcrec.JacobianPoint
	j.X.Set(&p.j.X)
	j.Y.Set(&y)
	j.Z.SetInt(1)
	return Point{j: j}
}

// HasEvenY reports whether y mod 2 == 0. Callers must not assume which
// representative of y the library normalizes to beyond this parity check,
// per spec.md §4.1 ("Y parity is defined as y mod 2").
func (p Point) HasEvenY() bool {
	if p.infinity {
		return false
	}
	yb := p.j.Y.Bytes()
	return yb[31]&1 == 0
}

// IsOnCurve reports whether p satisfies y² ≡ x³ + 7 (mod p). The identity
// is considered on-curve by convention.
func (p Point) IsOnCurve() bool {
	if p.infinity {
		return true
	}
	var y2, x2, x3 dcrec.FieldVal
	y2.SquareVal(&p.j.Y).Normalize()
	x2.SquareVal(&p.j.X)
	x3.Mul2(&x2, &p.j.X).AddInt(7).Normalize()
	return y2.Equals(&x3)
}

// X returns the affine x-coordinate as a 32-byte big-endian value. Callers
// must not call this on the point at infinity.
func (p Point) X() [32]byte {
	var x dcrec.FieldVal
	x.Set(&p.j.X).Normalize()
	return x.Bytes()
}

// Y returns the affine y-coordinate as a 32-byte big-endian value.
func (p Point) Y() [32]byte {
	var y dcrec.FieldVal
	y.Set(&p.j.Y).Normalize()
	return y.Bytes()
}

// LiftX implements BIP-340's lift_x(x): it finds the point with the given
// x-coordinate and even y, failing with CurveMathFailure if x³ + 7 has no
// square root mod p (spec.md §4.1).
func LiftX(x [32]byte) (Point, error) {
	return decompress(x, false)
}

// Decompress recovers the affine point with the given x-coordinate and the
// given y-parity, as used by compressed-key parsing (spec.md §3,
// "compressed (33 bytes, prefix 0x02/0x03 by Y parity)").
func Decompress(x [32]byte, oddY bool) (Point, error) {
	return decompress(x, oddY)
}

func decompress(xBytes [32]byte, oddY bool) (Point, error) {
	var x dcrec.FieldVal
	if overflow := x.SetByteSlice(xBytes[:]); overflow {
		return Point{}, ErrInvalidKeyMaterial("x coordinate is not less than the field prime p")
	}
	var y dcrec.FieldVal
	if !dcrec.DecompressY(&x, oddY, &y) {
		return Point{}, ErrCurveMathFailure("x has no square root mod p")
	}
	y.Normalize()
	var j dcrec.JacobianPoint
	j.X.Set(&x)
	j.Y.Set(&y)
	j.Z.SetInt(1)
	return Point{j: j}, nil
}

// ParsePoint parses a 33-byte compressed, 65-byte uncompressed, or 32-byte
// x-only (implicit even Y) encoding.
func ParsePoint(data []byte) (Point, error) {
	switch len(data) {
	case 33:
		if data[0] != 0x02 && data[0] != 0x03 {
			return Point{}, ErrInvalidKeyMaterial("compressed point must start with 0x02 or 0x03")
		}
		var x [32]byte
		copy(x[:], data[1:])
		return decompress(x, data[0] == 0x03)
	case 65:
		if data[0] != 0x04 {
			return Point{}, ErrInvalidKeyMaterial("uncompressed point must start with 0x04")
		}
		var x, y dcrec.FieldVal
		if x.SetByteSlice(data[1:33]) {
			return Point{}, ErrInvalidKeyMaterial("x coordinate is not less than the field prime p")
		}
		if y.SetByteSlice(data[33:65]) {
			return Point{}, ErrInvalidKeyMaterial("y coordinate is not less than the field prime p")
		}
		var j dcrec.JacobianPoint
		j.X.Set(&x)
		j.Y.Set(&y)
		j.Z.SetInt(1)
		p := Point{j: j}
		if !p.IsOnCurve() {
			return Point{}, ErrInvalidKeyMaterial("point is not on the curve")
		}
		return p, nil
	case 32:
		var x [32]byte
		copy(x[:], data)
		return LiftX(x)
	default:
		return Point{}, ErrInvalidKeyMaterial("point encoding must be 32, 33, or 65 bytes")
	}
}

// EncodeCompressed returns the 33-byte SEC1 compressed encoding.
func (p Point) EncodeCompressed() ([33]byte, error) {
	if p.infinity {
		return [33]byte{}, ErrCurveMathFailure("cannot encode the point at infinity")
	}
	pub := dcrec.NewPublicKey(&p.j.X, &p.j.Y)
	var out [33]byte
	copy(out[:], pub.SerializeCompressed())
	return out, nil
}

// EncodeUncompressed returns the 65-byte SEC1 uncompressed encoding.
func (p Point) EncodeUncompressed() ([65]byte, error) {
	if p.infinity {
		return [65]byte{}, ErrCurveMathFailure("cannot encode the point at infinity")
	}
	pub := dcrec.NewPublicKey(&p.j.X, &p.j.Y)
	var out [65]byte
	copy(out[:], pub.SerializeUncompressed())
	return out, nil
}

// EncodeXOnly returns the 32-byte x-only encoding used by BIP-340/341.
func (p Point) EncodeXOnly() ([32]byte, error) {
	if p.infinity {
		return [32]byte{}, ErrCurveMathFailure("cannot encode the point at infinity")
	}
	return p.X(), nil
}

func fromJacobian(j dcrec.JacobianPoint) Point {
	j.ToAffine()
	if j.X.IsZero() && j.Y.IsZero() {
		return Infinity()
	}
	return Point{j: j}
}
