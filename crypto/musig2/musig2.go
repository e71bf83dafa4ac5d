// Copyright (c) 2025 walletcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package musig2 implements the three-phase BIP-327 MuSig2 aggregated
// Schnorr signature protocol (spec.md §4.3): key aggregation, nonce
// exchange, and partial-signature aggregation.
//
// The arithmetic — coefficient derivation, nonce-coefficient blinding,
// and the gAcc/tAcc tweak accounting spec.md §3 describes as an opaque
// byte layout — is delegated to github.com/btcsuite/btcd/btcec/v2/musig2,
// which already implements BIP-327 to the bit; its secret-nonce blob
// carries the same 0x220EDCF1 magic spec.md §3 names. This replaces the
// teacher's original crypto/musig2/musig2.go, which modeled a signing
// session as HSM/timeout bookkeeping without doing the underlying
// BIP-327 math itself; the session-lifecycle shape is kept here, the
// math underneath it is now real.
package musig2

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/musig2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"

	"github.com/coreledger/walletcore/errs"
)

// TraceFunc is an optional structured-tracing hook a caller may install to
// observe protocol events; the zero value is a no-op. Per spec.md §9's
// redesign note, this replaces the teacher's scattered debug prints.
type TraceFunc func(event string, fields map[string]any)

func (t TraceFunc) emit(event string, fields map[string]any) {
	if t != nil {
		t(event, fields)
	}
}

// KeySet is the list of participant public keys used for key
// aggregation. Every participant must use the identical list and order
// for the L hash in spec.md §4.3's KeyAgg algorithm.
type KeySet []*btcec.PublicKey

// AggregateKey is the result of MuSig2 key aggregation: the combined
// public key Q plus the cache needed for later signing and tweaking.
type AggregateKey struct {
	Q      *btcec.PublicKey
	keys   KeySet
	cache  *musig2.KeyAggCache
	tweaks []musig2.KeyTweakDesc
}

// XOnly returns the 32-byte x-only encoding of the aggregate key, as used
// directly as a Taproot output key.
func (a *AggregateKey) XOnly() [32]byte {
	var out [32]byte
	copy(out[:], schnorr.SerializePubKey(a.Q))
	return out
}

// AggregateKeys computes Q = Σ aᵢ·Pᵢ per spec.md §4.3's KeyAgg
// algorithm, failing with MuSigProtocolFailure if Q is the point at
// infinity.
func AggregateKeys(keys KeySet, trace TraceFunc) (*AggregateKey, error) {
	if len(keys) == 0 {
		return nil, errs.New(errs.MuSigProtocolFailure, "key aggregation requires at least one signer")
	}
	trace.emit("keyagg.start", map[string]any{"n": len(keys)})

	combined, cache, _, err := musig2.AggregateKeys(keys, false)
	if err != nil {
		return nil, errs.Wrap(errs.MuSigProtocolFailure, "key aggregation failed (aggregate is the point at infinity)", err)
	}

	trace.emit("keyagg.done", map[string]any{"Q": combined.FinalKey.SerializeCompressed()})
	return &AggregateKey{Q: combined.FinalKey, keys: keys, cache: cache}, nil
}

// TweakPlain applies a plain (non-x-only) tweak: Q' = Q + t·G. The tweak
// is recorded so a later partial-signature aggregation can fold in the
// accumulated e·tAcc term.
func (a *AggregateKey) TweakPlain(t [32]byte) (*AggregateKey, error) {
	return a.tweak(t, false)
}

// TweakXOnly applies an x-only tweak as Taproot requires: the aggregate
// key's Y is first forced even (flipping the accumulated gAcc parity),
// then t·G is added, per spec.md §4.3's tweak rule.
func (a *AggregateKey) TweakXOnly(t [32]byte) (*AggregateKey, error) {
	return a.tweak(t, true)
}

func (a *AggregateKey) tweak(t [32]byte, xOnly bool) (*AggregateKey, error) {
	newQ, err := musig2.TweakKey(a.cache, t, xOnly)
	if err != nil {
		return nil, errs.Wrap(errs.CurveMathFailure, "tweak out of range", err)
	}
	tweaks := append(append([]musig2.KeyTweakDesc{}, a.tweaks...), musig2.KeyTweakDesc{
		Tweak:   t,
		IsXOnly: xOnly,
	})
	return &AggregateKey{Q: newQ, keys: a.keys, cache: a.cache, tweaks: tweaks}, nil
}

// SecretNonce is a signer's ephemeral per-session secret (k1, k2). It
// must never be reused across two different messages or sessions.
type SecretNonce = musig2.Nonces

// GenerateNonce derives (k1, k2) from fresh random bytes mixed with the
// signer's private key, aggregate key, and message, per spec.md §4.3's
// nonce-gen algorithm, retrying internally if either scalar would be zero.
func GenerateNonce(signerPub *btcec.PublicKey, privKey *btcec.PrivateKey, agg *AggregateKey, msg [32]byte, trace TraceFunc) (*SecretNonce, error) {
	opts := []musig2.NonceGenOption{
		musig2.WithPublicKey(signerPub),
		musig2.WithNonceAggregatedKey(agg.Q),
		musig2.WithNonceSecretKeyAux(privKey),
		musig2.WithNonceMessageAux(msg[:]),
	}
	nonces, err := musig2.GenNonces(opts...)
	if err != nil {
		return nil, errs.Wrap(errs.MuSigProtocolFailure, "nonce generation failed", err)
	}
	trace.emit("nonce.generated", map[string]any{"pubNonce": nonces.PubNonce})
	return nonces, nil
}

// AggregateNonces combines every signer's public nonce pair into the
// single aggregate nonce used in the b = H(aggnonce || Q.x || msg) step.
func AggregateNonces(pubNonces [][musig2.PubNonceSize]byte) ([musig2.PubNonceSize]byte, error) {
	agg, err := musig2.AggregateNonces(pubNonces)
	if err != nil {
		return [musig2.PubNonceSize]byte{}, errs.Wrap(errs.MuSigProtocolFailure, "nonce aggregation failed", err)
	}
	return agg, nil
}

// PartialSignature is a single signer's contribution sᵢ, combined by
// AggregatePartialSignatures into the final BIP-340 signature.
type PartialSignature = musig2.PartialSignature

// SignPartial computes sᵢ = gᵥ·(k1 + b·k2) + e·aᵢ·gAcc·dᵢ mod n for one
// signer, per spec.md §4.3.
func SignPartial(secNonce *SecretNonce, privKey *btcec.PrivateKey, aggNonce [musig2.AggNonceSize]byte, keys KeySet, msg [32]byte, agg *AggregateKey, trace TraceFunc) (*PartialSignature, error) {
	var signOpts []musig2.SignOption
	for _, tw := range agg.tweaks {
		signOpts = append(signOpts, musig2.WithTweaks(tw))
	}
	sig, err := musig2.Sign(secNonce.SecNonce, privKey, aggNonce, keys, msg, signOpts...)
	if err != nil {
		return nil, errs.Wrap(errs.MuSigProtocolFailure, "partial signing failed", err)
	}
	trace.emit("sign.partial", map[string]any{"s": sig.S})
	return sig, nil
}

// AggregatePartialSignatures sums every partial signature plus e·tAcc mod
// n into the final (R.x, s) BIP-340 signature, failing with
// MuSigProtocolFailure if the result does not verify against Q.
func AggregatePartialSignatures(partials []*PartialSignature, agg *AggregateKey, msg [32]byte, trace TraceFunc) (*schnorr.Signature, error) {
	if len(partials) == 0 {
		return nil, errs.New(errs.MuSigProtocolFailure, "signature aggregation requires at least one partial signature")
	}

	var combineOpts []musig2.CombineOption
	if len(agg.tweaks) > 0 {
		combineOpts = append(combineOpts, musig2.WithTweakedCombine(msg, agg.keys, agg.tweaks, false))
	}

	// Every partial signature was computed against the same aggregate
	// nonce, key set, and message, so they all carry the identical final
	// nonce point R; any one of them gives the combined R.x CombineSigs
	// needs.
	nonceR := partials[0].R
	nonceR.ToAffine()
	combinedNonceX := new(btcec.FieldVal).Set(&nonceR.X)

	final := musig2.CombineSigs(combinedNonceX, partials, combineOpts...)
	if !final.Verify(msg[:], agg.Q) {
		return nil, errs.New(errs.MuSigProtocolFailure, "aggregated signature failed verification")
	}
	trace.emit("sign.aggregated", map[string]any{"ok": true})
	return final, nil
}
