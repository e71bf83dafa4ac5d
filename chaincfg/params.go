// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2025 walletcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chaincfg carries the one piece of "configuration" the core
// crypto/encoding engine needs: per-network address prefixes and HD key
// version bytes. Per spec.md §9's redesign note ("pass a NetworkParams
// record ... by value into every codec call"), this package intentionally
// does not carry the teacher's consensus parameters (PoW limits, BIP-9
// deployment schedules, DNS seeds, genesis blocks) — those belong to a
// full node, which is out of scope per spec.md §1's non-goals.
package chaincfg

import (
	"errors"
	"strings"
)

// Params defines the address and HD-key encoding parameters for one
// network, passed by value into every codec call per spec.md §9.
type Params struct {
	// Name is a human-readable identifier, e.g. "mainnet".
	Name string

	// Bech32HRPSegwit is the human-readable part for Bech32/Bech32m
	// SegWit addresses, e.g. "bc", "tb", "bcrt" (spec.md §6).
	Bech32HRPSegwit string

	// PubKeyHashAddrID is the version byte prefixing a Base58Check
	// P2PKH address.
	PubKeyHashAddrID byte

	// ScriptHashAddrID is the version byte prefixing a Base58Check
	// P2SH address.
	ScriptHashAddrID byte

	// PrivateKeyID is the version byte prefixing a WIF-encoded private
	// key.
	PrivateKeyID byte

	// HDVersions lists every registered BIP-32 extended-key version
	// pair this network accepts (xprv/xpub, plus the SegWit-flavored
	// yprv/ypub, zprv/zpub variants per spec.md §6).
	HDVersions []HDVersionPair

	// HDCoinType is the BIP-44 coin type used in m/purpose'/coin'/...
	// derivation paths for this network.
	HDCoinType uint32
}

// HDVersionPair is one registered (private, public) BIP-32 version-byte
// pair, e.g. xprv/xpub.
type HDVersionPair struct {
	Name    string
	Private [4]byte
	Public  [4]byte
}

// Bitcoin mainnet/testnet/regtest version-byte constants (spec.md §6).
var (
	xprv = [4]byte{0x04, 0x88, 0xAD, 0xE4}
	xpub = [4]byte{0x04, 0x88, 0xB2, 0x1E}
	yprv = [4]byte{0x04, 0x9D, 0x78, 0x78}
	ypub = [4]byte{0x04, 0x9D, 0x7C, 0xB2}
	zprv = [4]byte{0x04, 0xB2, 0x43, 0x0C}
	zpub = [4]byte{0x04, 0xB2, 0x47, 0x46}

	tprv = [4]byte{0x04, 0x35, 0x83, 0x94}
	tpub = [4]byte{0x04, 0x35, 0x87, 0xCF}
)

// MainNetParams defines Bitcoin mainnet's address and HD-key parameters.
var MainNetParams = Params{
	Name:             "mainnet",
	Bech32HRPSegwit:  "bc",
	PubKeyHashAddrID: 0x00,
	ScriptHashAddrID: 0x05,
	PrivateKeyID:     0x80,
	HDVersions: []HDVersionPair{
		{Name: "xprv/xpub", Private: xprv, Public: xpub},
		{Name: "yprv/ypub", Private: yprv, Public: ypub},
		{Name: "zprv/zpub", Private: zprv, Public: zpub},
	},
	HDCoinType: 0,
}

// TestNetParams defines Bitcoin testnet3's address and HD-key parameters.
var TestNetParams = Params{
	Name:             "testnet",
	Bech32HRPSegwit:  "tb",
	PubKeyHashAddrID: 0x6F,
	ScriptHashAddrID: 0xC4,
	PrivateKeyID:     0xEF,
	HDVersions: []HDVersionPair{
		{Name: "tprv/tpub", Private: tprv, Public: tpub},
	},
	HDCoinType: 1,
}

// RegressionNetParams defines the local regression-test network's
// address and HD-key parameters.
var RegressionNetParams = Params{
	Name:             "regtest",
	Bech32HRPSegwit:  "bcrt",
	PubKeyHashAddrID: 0x6F,
	ScriptHashAddrID: 0xC4,
	PrivateKeyID:     0xEF,
	HDVersions: []HDVersionPair{
		{Name: "tprv/tpub", Private: tprv, Public: tpub},
	},
	HDCoinType: 1,
}

var (
	// ErrUnknownHDVersion reports that a 4-byte version prefix is not
	// registered for any known network.
	ErrUnknownHDVersion = errors.New("unknown HD extended-key version bytes")
)

// LookupHDVersion finds the HDVersionPair a private or public version
// prefix belongs to, searching every Params passed in. Callers
// typically pass the small fixed set of networks their application
// supports.
func LookupHDVersion(version [4]byte, networks ...Params) (Params, HDVersionPair, error) {
	for _, net := range networks {
		for _, v := range net.HDVersions {
			if v.Private == version || v.Public == version {
				return net, v, nil
			}
		}
	}
	return Params{}, HDVersionPair{}, ErrUnknownHDVersion
}

// IsBech32SegwitHRP reports whether hrp (case-insensitive) matches one of
// the given networks' Bech32 HRP.
func IsBech32SegwitHRP(hrp string, networks ...Params) bool {
	hrp = strings.ToLower(hrp)
	for _, net := range networks {
		if strings.ToLower(net.Bech32HRPSegwit) == hrp {
			return true
		}
	}
	return false
}

// DefaultNetworks is the Bitcoin network set most callers pass to
// LookupHDVersion/IsBech32SegwitHRP.
var DefaultNetworks = []Params{MainNetParams, TestNetParams, RegressionNetParams}
