// Copyright (c) 2025 walletcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package secp256k1

import (
	dcrec "github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Scalar is an integer modulo the curve order n, stored as the canonical
// 32-byte big-endian representative in [0, n). The underlying arithmetic
// is performed by decred's constant-time ModNScalar implementation; this
// type exists to give walletcore's own domain vocabulary (Scalar, not
// ModNScalar) over that primitive, per spec.md §3's data model.
type Scalar struct {
	v dcrec.ModNScalar
}

// ScalarFromBytes parses a 32-byte big-endian integer as a Scalar modulo
// n, reducing it if it overflows. The returned bool is true when the
// input needed no reduction (i.e. the raw bytes already represented a
// value in [0, n)) and false when it was reduced.
func ScalarFromBytes(b []byte) (Scalar, bool) {
	var s Scalar
	overflowed := s.v.SetByteSlice(b)
	return s, !overflowed
}

// ScalarFromPrivateKeyBytes parses a 32-byte private-key scalar, requiring
// it to satisfy 0 < s < n per spec.md §3's Scalar invariant.
func ScalarFromPrivateKeyBytes(b []byte) (Scalar, error) {
	if len(b) != 32 {
		return Scalar{}, ErrInvalidKeyMaterial("private key scalar must be 32 bytes")
	}
	s, ok := ScalarFromBytes(b)
	if !ok {
		return Scalar{}, ErrInvalidKeyMaterial("private key scalar >= curve order n")
	}
	if s.IsZero() {
		return Scalar{}, ErrInvalidKeyMaterial("private key scalar is zero")
	}
	return s, nil
}

// IsZero reports whether the scalar is 0.
func (s Scalar) IsZero() bool { return s.v.IsZero() }

// Bytes returns the canonical 32-byte big-endian encoding.
func (s Scalar) Bytes() [32]byte { return s.v.Bytes() }

// Add returns s + other mod n.
func (s Scalar) Add(other Scalar) Scalar {
	var out Scalar
	out.v.Set(&s.v)
	out.v.Add(&other.v)
	return out
}

// Sub returns s - other mod n.
func (s Scalar) Sub(other Scalar) Scalar {
	neg := other.Negate()
	return s.Add(neg)
}

// Negate returns n - s mod n (0 if s is 0).
func (s Scalar) Negate() Scalar {
	var out Scalar
	out.v.Set(&s.v)
	out.v.Negate()
	return out
}

// Mul returns s * other mod n.
func (s Scalar) Mul(other Scalar) Scalar {
	var out Scalar
	out.v.Set(&s.v)
	out.v.Mul(&other.v)
	return out
}

// Inverse returns s⁻¹ mod n. The caller must ensure s is non-zero;
// inverting zero returns zero, matching decred's ModNScalar semantics.
func (s Scalar) Inverse() Scalar {
	var out Scalar
	out.v.Set(&s.v)
	out.v.InverseNonConst()
	return out
}

// IsEqual reports whether two scalars are the same value mod n.
func (s Scalar) IsEqual(other Scalar) bool {
	return s.v.Equals(&other.v)
}

func (s Scalar) modN() *dcrec.ModNScalar { return &s.v }

func scalarFromModN(v *dcrec.ModNScalar) Scalar {
	var s Scalar
	s.v.Set(v)
	return s
}
