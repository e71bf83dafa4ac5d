// Copyright (c) 2025 walletcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package hash provides the pure hash primitives the rest of walletcore is
// built on: SHA-256, double-SHA-256, RIPEMD-160, HASH160, HMAC-SHA-512,
// Keccak-256, BLAKE2b with personalization, and the BIP-340/341/327
// tagged-hash construction. Every function here operates on byte slices
// and has no side effects.
package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"

	"github.com/decred/dcrd/crypto/ripemd160"
	"github.com/minio/blake2b-simd"
	"golang.org/x/crypto/sha3"
)

// Size256 is the output size, in bytes, of SHA-256, RIPEMD-160-then-SHA-256
// (HASH160 is 20), Keccak-256, and tagged hash.
const Size256 = 32

// SHA256 returns the SHA-256 digest of data.
func SHA256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// DoubleSHA256 returns SHA256(SHA256(data)), the digest bitcoin-lineage
// chains use for txid/wtxid and Base58Check checksums.
func DoubleSHA256(data []byte) [32]byte {
	first := sha256.Sum256(data)
	return sha256.Sum256(first[:])
}

// RIPEMD160 returns the RIPEMD-160 digest of data.
func RIPEMD160(data []byte) [20]byte {
	h := ripemd160.New()
	h.Write(data)
	var out [20]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Hash160 returns RIPEMD160(SHA256(data)), used for P2PKH/P2WPKH/P2SH
// hashes and BIP-32 key fingerprints.
func Hash160(data []byte) [20]byte {
	sha := sha256.Sum256(data)
	return RIPEMD160(sha[:])
}

// HMACSHA512 returns HMAC-SHA512(key, data), the primitive BIP-32 uses to
// derive a child key and chain code from a parent.
func HMACSHA512(key, data []byte) [64]byte {
	mac := hmac.New(sha512.New, key)
	mac.Write(data)
	var out [64]byte
	copy(out[:], mac.Sum(nil))
	return out
}

// Keccak256 returns the Keccak-256 digest (NOT SHA3-256) used by Ethereum
// for addresses and the EIP-55 checksum.
func Keccak256(data ...[]byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// BLAKE2b256 returns BLAKE2b-256 of data, configured with the given
// 16-byte personalization string, as ZIP-243 requires for Zcash's
// Sapling sighash (personalization "ZcashSigHash" || LE32(branchId)).
func BLAKE2b256(personalization []byte, data ...[]byte) [32]byte {
	h, err := blake2b.New(&blake2b.Config{Size: 32, Person: personalization})
	if err != nil {
		panic(err)
	}
	for _, d := range data {
		h.Write(d)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// TaggedHash implements the BIP-340/341/327 tagged-hash construction:
// SHA256(SHA256(tag) || SHA256(tag) || msg...).
func TaggedHash(tag string, msg ...[]byte) [32]byte {
	tagHash := sha256.Sum256([]byte(tag))
	h := sha256.New()
	h.Write(tagHash[:])
	h.Write(tagHash[:])
	for _, m := range msg {
		h.Write(m)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
