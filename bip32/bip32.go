// Copyright (c) 2025 walletcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package bip32 implements the BIP-32 hierarchical-deterministic key
// tree (spec.md §4.5): master key generation, hardened and
// non-hardened child derivation, and the 78-byte extended-key
// serialization with its xprv/xpub and SegWit-flavored version bytes.
// The scalar/point arithmetic is delegated to
// github.com/coreledger/walletcore/crypto/secp256k1, itself a facade
// over github.com/decred/dcrd/dcrec/secp256k1/v4, following the same
// layering the teacher's crypto packages use.
package bip32

import (
	"encoding/binary"

	"github.com/btcsuite/btcd/btcutil/base58"

	"github.com/coreledger/walletcore/chaincfg"
	"github.com/coreledger/walletcore/crypto/hash"
	"github.com/coreledger/walletcore/crypto/secp256k1"
	"github.com/coreledger/walletcore/errs"
)

const (
	// HardenedOffset marks a child index as hardened (i' = i + 2^31).
	HardenedOffset = uint32(0x80000000)

	serializedLen = 78
)

// ExtendedKey is one node of a BIP-32 key tree. A node is private if
// hasPriv is true; PublicKey is always populated.
type ExtendedKey struct {
	Version           [4]byte
	Depth             byte
	ParentFingerprint [4]byte
	ChildNumber       uint32
	ChainCode         [32]byte

	hasPriv    bool
	PrivateKey secp256k1.Scalar
	PublicKey  secp256k1.Point
}

// IsPrivate reports whether this node carries a private key.
func (k ExtendedKey) IsPrivate() bool { return k.hasPriv }

// seedHMACKey is the fixed HMAC-SHA512 key BIP-32 uses to derive the
// master key from a seed.
var seedHMACKey = []byte("Bitcoin seed")

// NewMaster derives the master extended key from a seed, per spec.md
// §4.5's generate(seed). version selects the xprv-family version bytes
// this key will serialize under.
func NewMaster(seed []byte, version [4]byte) (ExtendedKey, error) {
	i := hash.HMACSHA512(seedHMACKey, seed)
	il, ir := i[:32], i[32:]

	var ilArr [32]byte
	copy(ilArr[:], il)
	scalar, err := secp256k1.ScalarFromPrivateKeyBytes(ilArr[:])
	if err != nil {
		return ExtendedKey{}, errs.Wrap(errs.InvalidKeyMaterial, "master key derivation produced an invalid scalar", err)
	}

	var cc [32]byte
	copy(cc[:], ir)

	k := ExtendedKey{
		Version:    version,
		hasPriv:    true,
		PrivateKey: scalar,
		ChainCode:  cc,
	}
	k.PublicKey = secp256k1.BaseMultiply(scalar)
	return k, nil
}

// Fingerprint returns the first 4 bytes of HASH160(compressed pubkey),
// per spec.md §4.5.
func (k ExtendedKey) Fingerprint() [4]byte {
	h := hash.Hash160(k.compressedPub())
	var out [4]byte
	copy(out[:], h[:4])
	return out
}

func (k ExtendedKey) compressedPub() []byte {
	enc, err := k.PublicKey.EncodeCompressed()
	if err != nil {
		// A node's PublicKey is always set from a non-infinity scalar
		// multiply or point addition during derivation; see NewMaster,
		// DerivePrivate, and DerivePublic.
		return make([]byte, 33)
	}
	return enc[:]
}

// IsHardened reports whether index requests a hardened child.
func IsHardened(index uint32) bool {
	return index >= HardenedOffset
}

// DerivePrivate derives a private child node at index, per spec.md
// §4.5's derivePrivate. Returns a CurveMathFailure error if IL >= n or the
// resulting child scalar is zero; per BIP-32, the caller should then
// retry at index+1.
func (k ExtendedKey) DerivePrivate(index uint32) (ExtendedKey, error) {
	if !k.hasPriv {
		return ExtendedKey{}, errs.New(errs.InvalidKeyMaterial, "cannot derive a private child from a public-only node")
	}

	var data []byte
	if IsHardened(index) {
		priv := k.PrivateKey.Bytes()
		data = make([]byte, 0, 37)
		data = append(data, 0x00)
		data = append(data, priv[:]...)
	} else {
		data = append([]byte(nil), k.compressedPub()...)
	}
	data = append(data, be32(index)...)

	i := hash.HMACSHA512(k.ChainCode[:], data)
	il, ir := i[:32], i[32:]

	ilScalar, ok := secp256k1.ScalarFromBytes(il)
	if !ok {
		return ExtendedKey{}, errs.New(errs.CurveMathFailure, "IL out of range; caller should retry at the next index")
	}
	childScalar := ilScalar.Add(k.PrivateKey)
	if childScalar.IsZero() {
		return ExtendedKey{}, errs.New(errs.CurveMathFailure, "derived child key is zero; caller should retry at the next index")
	}

	var cc [32]byte
	copy(cc[:], ir)

	child := ExtendedKey{
		Version:           k.Version,
		Depth:             k.Depth + 1,
		ParentFingerprint: k.Fingerprint(),
		ChildNumber:       index,
		ChainCode:         cc,
		hasPriv:           true,
		PrivateKey:        childScalar,
	}
	child.PublicKey = secp256k1.BaseMultiply(childScalar)
	return child, nil
}

// DerivePublic derives a public-only child node at a non-hardened
// index, per spec.md §4.5's derivePublic. It is an error to call this
// with a hardened index, since a hardened child cannot be derived
// without the parent's private key.
func (k ExtendedKey) DerivePublic(index uint32) (ExtendedKey, error) {
	if IsHardened(index) {
		return ExtendedKey{}, errs.New(errs.InvalidKeyMaterial, "hardened children require the parent private key")
	}

	data := append(append([]byte(nil), k.compressedPub()...), be32(index)...)
	i := hash.HMACSHA512(k.ChainCode[:], data)
	il, ir := i[:32], i[32:]

	ilScalar, ok := secp256k1.ScalarFromBytes(il)
	if !ok {
		return ExtendedKey{}, errs.New(errs.CurveMathFailure, "IL out of range; caller should retry at the next index")
	}
	point := secp256k1.BaseMultiply(ilScalar).Add(k.PublicKey)
	if point.IsInfinity() {
		return ExtendedKey{}, errs.New(errs.CurveMathFailure, "derived child point is the point at infinity; caller should retry at the next index")
	}

	var cc [32]byte
	copy(cc[:], ir)

	return ExtendedKey{
		Version:           publicVersionOf(k.Version),
		Depth:             k.Depth + 1,
		ParentFingerprint: k.Fingerprint(),
		ChildNumber:       index,
		ChainCode:         cc,
		hasPriv:           false,
		PublicKey:         point,
	}, nil
}

// Neuter strips the private key, returning the public-only node with
// the matching public version bytes (xprv -> xpub, and so on).
func (k ExtendedKey) Neuter() ExtendedKey {
	pub := k
	pub.hasPriv = false
	pub.PrivateKey = secp256k1.Scalar{}
	pub.Version = publicVersionOf(k.Version)
	return pub
}

// Derive walks a BIP-32 path expressed as a slice of indices (with the
// HardenedOffset bit already set where needed), deriving private
// children when k carries a private key and public children otherwise.
func (k ExtendedKey) Derive(path []uint32) (ExtendedKey, error) {
	cur := k
	for _, idx := range path {
		var err error
		if cur.hasPriv {
			cur, err = cur.DerivePrivate(idx)
		} else {
			cur, err = cur.DerivePublic(idx)
		}
		if err != nil {
			return ExtendedKey{}, err
		}
	}
	return cur, nil
}

// Serialize encodes k as the 78-byte extended-key payload per spec.md
// §4.5, without the Base58Check checksum.
func (k ExtendedKey) Serialize() [serializedLen]byte {
	var out [serializedLen]byte
	copy(out[0:4], k.Version[:])
	out[4] = k.Depth
	copy(out[5:9], k.ParentFingerprint[:])
	binary.BigEndian.PutUint32(out[9:13], k.ChildNumber)
	copy(out[13:45], k.ChainCode[:])

	if k.hasPriv {
		out[45] = 0x00
		priv := k.PrivateKey.Bytes()
		copy(out[46:78], priv[:])
	} else {
		copy(out[45:78], k.compressedPub())
	}
	return out
}

// String returns the Base58Check text form (xprv.../xpub... etc).
func (k ExtendedKey) String() string {
	payload := k.Serialize()
	sum := hash.DoubleSHA256(payload[:])
	full := append(append([]byte(nil), payload[:]...), sum[:4]...)
	return base58.Encode(full)
}

// Parse decodes a Base58Check extended-key string, validating its
// checksum and 78-byte payload length, per spec.md §4.5.
func Parse(s string) (ExtendedKey, error) {
	decoded := base58.Decode(s)
	if len(decoded) != serializedLen+4 {
		return ExtendedKey{}, errs.New(errs.InvalidEncoding, "extended key must decode to 82 bytes (78 + checksum)")
	}
	payload, checksum := decoded[:serializedLen], decoded[serializedLen:]
	want := hash.DoubleSHA256(payload)
	for i := 0; i < 4; i++ {
		if checksum[i] != want[i] {
			return ExtendedKey{}, errs.New(errs.InvalidEncoding, "extended key checksum mismatch")
		}
	}

	var k ExtendedKey
	copy(k.Version[:], payload[0:4])
	k.Depth = payload[4]
	copy(k.ParentFingerprint[:], payload[5:9])
	k.ChildNumber = binary.BigEndian.Uint32(payload[9:13])
	copy(k.ChainCode[:], payload[13:45])

	marker := payload[45]
	keyMaterial := payload[46:78]
	if marker == 0x00 {
		scalar, err := secp256k1.ScalarFromPrivateKeyBytes(keyMaterial)
		if err != nil {
			return ExtendedKey{}, errs.Wrap(errs.InvalidKeyMaterial, "invalid private key material", err)
		}
		k.hasPriv = true
		k.PrivateKey = scalar
		k.PublicKey = secp256k1.BaseMultiply(scalar)
	} else {
		point, err := secp256k1.ParsePoint(payload[45:78])
		if err != nil {
			return ExtendedKey{}, errs.Wrap(errs.InvalidKeyMaterial, "invalid public key material", err)
		}
		k.PublicKey = point
	}
	return k, nil
}

func be32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

// publicVersionOf maps a private version's HD prefix to its matching
// public prefix (xprv->xpub, yprv->ypub, zprv->zpub) using the
// registered pairs in chaincfg.DefaultNetworks; an unrecognized
// version is returned unchanged.
func publicVersionOf(version [4]byte) [4]byte {
	for _, net := range chaincfg.DefaultNetworks {
		for _, v := range net.HDVersions {
			if v.Private == version {
				return v.Public
			}
		}
	}
	return version
}
