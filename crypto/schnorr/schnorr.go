// Copyright (c) 2025 walletcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package schnorr implements BIP-340 Schnorr signatures over secp256k1
// (spec.md §4.3). It wraps github.com/btcsuite/btcd/btcec/v2/schnorr,
// already a bit-exact BIP-340 implementation, following the same
// dependency the teacher's crypto/musig2/musig2.go imports.
package schnorr

import (
	"github.com/btcsuite/btcd/btcec/v2"
	btcschnorr "github.com/btcsuite/btcd/btcec/v2/schnorr"

	"github.com/coreledger/walletcore/errs"
)

// PrivateKey is a secp256k1 scalar used for Schnorr signing. BIP-340
// requires negating the scalar when its public key has an odd Y; that
// negation happens inside Sign, matching §4.3's algorithm.
type PrivateKey struct {
	inner *btcec.PrivateKey
}

// PublicKey is the 32-byte x-only public key BIP-340/341 sign against.
type PublicKey struct {
	inner *btcec.PublicKey
}

// NewPrivateKey parses a 32-byte big-endian scalar, requiring 0 < d < n.
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

// PubKey returns the x-only public key for this private key.
func (k PrivateKey) PubKey() PublicKey {
	return PublicKey{inner: k.inner.PubKey()}
}

// ParsePublicKey parses a 32-byte x-only public key, lifting it to the
// point with even Y per BIP-340.
func ParsePublicKey(x []byte) (PublicKey, error) {
	pub, err := btcschnorr.ParsePubKey(x)
	if err != nil {
		return PublicKey{}, errs.Wrap(errs.CurveMathFailure, "x has no valid lift", err)
	}
	return PublicKey{inner: pub}, nil
}

// SerializeXOnly returns the 32-byte x-only encoding.
func (p PublicKey) SerializeXOnly() [32]byte {
	var out [32]byte
	copy(out[:], btcschnorr.SerializePubKey(p.inner))
	return out
}

// Signature is a 64-byte (r, s) BIP-340 signature.
type Signature struct {
	inner *btcschnorr.Signature
}

// Sign produces a BIP-340 signature over a 32-byte message using the
// given 32 bytes of auxiliary randomness, refusing a zero nonce
// internally (btcschnorr retries by construction).
func Sign(priv PrivateKey, msg [32]byte, auxRand [32]byte) (Signature, error) {
	sig, err := btcschnorr.Sign(priv.inner, msg[:], btcschnorr.CustomNonce(auxRand))
	if err != nil {
		return Signature{}, errs.Wrap(errs.CurveMathFailure, "schnorr signing failed", err)
	}
	return Signature{inner: sig}, nil
}

// Verify reports whether sig is valid for msg under pub, rejecting
// r >= p or s >= n per spec.md §4.3.
func Verify(sig Signature, msg [32]byte, pub PublicKey) bool {
	return sig.inner.Verify(msg[:], pub.inner)
}

// Serialize returns the 64-byte (r || s) encoding.
func (s Signature) Serialize() [64]byte {
	var out [64]byte
	copy(out[:], s.inner.Serialize())
	return out
}

// ParseSignature parses a 64-byte BIP-340 signature.
func ParseSignature(b [64]byte) (Signature, error) {
	sig, err := btcschnorr.ParseSignature(b[:])
	if err != nil {
		return Signature{}, errs.Wrap(errs.InvalidEncoding, "invalid schnorr signature encoding", err)
	}
	return Signature{inner: sig}, nil
}
