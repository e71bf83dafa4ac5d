// Copyright (c) 2025 walletcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ecdsa implements RFC-6979 deterministic ECDSA signing and
// verification over secp256k1 (spec.md §4.3). The scalar/point arithmetic
// and the constant-time nonce derivation are delegated to
// github.com/btcsuite/btcd/btcec/v2/ecdsa, which already implements this
// to the bit (low-S normalization, r==0/s==0 retry); this package adapts
// that library to walletcore's own key/signature vocabulary.
package ecdsa

import (
	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	dcrec "github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/coreledger/walletcore/errs"
)

// PrivateKey is a secp256k1 scalar used for ECDSA signing.
type PrivateKey struct {
	inner *btcec.PrivateKey
}

// PublicKey is a secp256k1 point used for ECDSA verification.
type PublicKey struct {
	inner *btcec.PublicKey
}

// NewPrivateKey parses a 32-byte big-endian scalar as a private key,
// requiring 0 < d < n.
func NewPrivateKey(d []byte) (PrivateKey, error) {
	if len(d) != 32 {
		return PrivateKey{}, errs.New(errs.InvalidKeyMaterial, "private key must be 32 bytes")
	}
	priv, pub := btcec.PrivKeyFromBytes(d)
	if pub == nil {
		return PrivateKey{}, errs.New(errs.InvalidKeyMaterial, "scalar is zero or >= curve order")
	}
	return PrivateKey{inner: priv}, nil
}

// PubKey returns the corresponding public key d·G.
func (k PrivateKey) PubKey() PublicKey {
	return PublicKey{inner: k.inner.PubKey()}
}

// ParsePublicKey parses a 33-byte compressed or 65-byte uncompressed SEC1
// point.
func ParsePublicKey(data []byte) (PublicKey, error) {
	pub, err := btcec.ParsePubKey(data)
	if err != nil {
		return PublicKey{}, errs.Wrap(errs.InvalidKeyMaterial, "invalid public key encoding", err)
	}
	return PublicKey{inner: pub}, nil
}

// Signature is a compact (r, s) ECDSA signature, s always normalized to
// the low-S form per BIP-62.
type Signature struct {
	inner  *btcecdsa.Signature
	rBytes [32]byte
	sBytes [32]byte
}

// Sign produces a deterministic (RFC-6979) low-S signature over a
// 32-byte message digest, retrying internally (inside btcec) if r or s
// would be zero.
func Sign(priv PrivateKey, msgHash [32]byte) Signature {
	// SignCompact yields the raw (r, s) pair directly, avoiding a DER
	// round trip to recover them.
	compact := btcecdsa.SignCompact(priv.inner, msgHash[:], false)
	var rBytes, sBytes [32]byte
	copy(rBytes[:], compact[1:33])
	copy(sBytes[:], compact[33:65])
	return signatureFromParts(rBytes, sBytes)
}

// Verify reports whether sig is a valid signature by pub over msgHash,
// rejecting r or s outside [1, n).
func Verify(sig Signature, msgHash [32]byte, pub PublicKey) bool {
	return sig.inner.Verify(msgHash[:], pub.inner)
}

// SerializeCompact returns the 64-byte (r || s) compact encoding.
func (s Signature) SerializeCompact() [64]byte {
	var out [64]byte
	copy(out[:32], s.rBytes[:])
	copy(out[32:], s.sBytes[:])
	return out
}

// SerializeDER returns the DER encoding of the signature.
func (s Signature) SerializeDER() []byte {
	return s.inner.Serialize()
}

// ParseCompact parses a 64-byte (r || s) compact signature, rejecting r
// or s outside [1, n).
func ParseCompact(b [64]byte) (Signature, error) {
	var rBytes, sBytes [32]byte
	copy(rBytes[:], b[:32])
	copy(sBytes[:], b[32:])

	var r, s dcrec.ModNScalar
	if r.SetByteSlice(rBytes[:]) || r.IsZero() {
		return Signature{}, errs.New(errs.InvalidKeyMaterial, "signature r out of range")
	}
	if s.SetByteSlice(sBytes[:]) || s.IsZero() {
		return Signature{}, errs.New(errs.InvalidKeyMaterial, "signature s out of range")
	}
	return signatureFromParts(rBytes, sBytes), nil
}

// ParseDER parses a BER/DER encoded ECDSA signature.
func ParseDER(der []byte) (Signature, error) {
	sig, err := btcecdsa.ParseDERSignature(der)
	if err != nil {
		return Signature{}, errs.Wrap(errs.InvalidEncoding, "invalid DER signature", err)
	}
	// Re-derive the compact (r, s) bytes by walking btcec's canonical
	// DER re-serialization of the parsed signature with rsFromDER.
	der2 := sig.Serialize()
	rBytes, sBytes, perr := rsFromDER(der2)
	if perr != nil {
		return Signature{}, perr
	}
	return signatureFromParts(rBytes, sBytes), nil
}

func signatureFromParts(rBytes, sBytes [32]byte) Signature {
	var r, s dcrec.ModNScalar
	r.SetByteSlice(rBytes[:])
	s.SetByteSlice(sBytes[:])
	return Signature{
		inner:  btcecdsa.NewSignature(&r, &s),
		rBytes: rBytes,
		sBytes: sBytes,
	}
}

// rsFromDER extracts the two big-endian integers from a minimal DER
// ECDSA signature (SEQUENCE { INTEGER r, INTEGER s }), left-padding each
// to 32 bytes.
func rsFromDER(der []byte) (r, s [32]byte, err error) {
	if len(der) < 8 || der[0] != 0x30 {
		return r, s, errs.New(errs.InvalidEncoding, "malformed DER signature")
	}
	i := 2
	if der[i] != 0x02 {
		return r, s, errs.New(errs.InvalidEncoding, "malformed DER signature: expected r INTEGER")
	}
	i++
	rLen := int(der[i])
	i++
	rRaw := der[i : i+rLen]
	i += rLen
	if i >= len(der) || der[i] != 0x02 {
		return r, s, errs.New(errs.InvalidEncoding, "malformed DER signature: expected s INTEGER")
	}
	i++
	sLen := int(der[i])
	i++
	sRaw := der[i : i+sLen]

	copyRightAligned(r[:], rRaw)
	copyRightAligned(s[:], sRaw)
	return r, s, nil
}

func copyRightAligned(dst, src []byte) {
	// DER integers may carry a leading 0x00 to keep the high bit clear;
	// trim it before right-aligning into the fixed-width output.
	for len(src) > 0 && src[0] == 0x00 && len(src) > len(dst) {
		src = src[1:]
	}
	if len(src) > len(dst) {
		src = src[len(src)-len(dst):]
	}
	copy(dst[len(dst)-len(src):], src)
}
