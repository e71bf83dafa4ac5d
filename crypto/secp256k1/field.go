// Copyright (c) 2025 walletcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package secp256k1

import (
	dcrec "github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// FieldElement is an integer modulo the curve's field prime
// p = 2²⁵⁶ − 2³² − 977, stored as its canonical 32-byte big-endian
// representative.
type FieldElement struct {
	v dcrec.FieldVal
}

// FieldElementFromBytes parses a 32-byte big-endian integer mod p. The
// returned bool is false if the raw bytes were >= p (in which case the
// value was reduced).
func FieldElementFromBytes(b []byte) (FieldElement, bool) {
	var f FieldElement
	overflow := f.v.SetByteSlice(b)
	return f, !overflow
}

// Bytes returns the canonical 32-byte big-endian encoding.
func (f FieldElement) Bytes() [32]byte {
	var v dcrec.FieldVal
	v.Set(&f.v).Normalize()
	return v.Bytes()
}

// Add returns f + other mod p.
func (f FieldElement) Add(other FieldElement) FieldElement {
	var out FieldElement
	out.v.Add2(&f.v, &other.v)
	out.v.Normalize()
	return out
}

// Sub returns f - other mod p.
func (f FieldElement) Sub(other FieldElement) FieldElement {
	neg := other.Negate()
	return f.Add(neg)
}

// Negate returns p - f mod p.
func (f FieldElement) Negate() FieldElement {
	var out FieldElement
	out.v.Set(&f.v)
	out.v.Normalize()
	out.v.Negate(1)
	out.v.Normalize()
	return out
}

// Mul returns f * other mod p.
func (f FieldElement) Mul(other FieldElement) FieldElement {
	var out FieldElement
	out.v.Mul2(&f.v, &other.v)
	out.v.Normalize()
	return out
}

// Square returns f² mod p.
func (f FieldElement) Square() FieldElement {
	var out FieldElement
	out.v.SquareVal(&f.v)
	out.v.Normalize()
	return out
}

// Inverse returns f⁻¹ mod p.
func (f FieldElement) Inverse() FieldElement {
	var out FieldElement
	out.v.Set(&f.v)
	out.v.Inverse()
	out.v.Normalize()
	return out
}

// IsZero reports whether f is 0.
func (f FieldElement) IsZero() bool {
	var v dcrec.FieldVal
	v.Set(&f.v).Normalize()
	return v.IsZero()
}

// IsEqual reports whether two field elements represent the same value.
func (f FieldElement) IsEqual(other FieldElement) bool {
	var a, b dcrec.FieldVal
	a.Set(&f.v).Normalize()
	b.Set(&other.v).Normalize()
	return a.Equals(&b)
}
