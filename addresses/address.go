// Copyright (c) 2025 walletcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package addresses implements the address codecs: Base58Check,
// Bech32/Bech32m SegWit and Taproot synthesis, and Ethereum's EIP-55
// mixed-case checksum (spec.md §3, §6). This replaces the teacher's
// original addresses/shell_addresses.go, which hard-coded a single
// "xsl" HRP and a single Taproot/P2PKH pair behind a ShellAddress
// interface; the encode/decode plumbing (btcutil/base58,
// btcutil/bech32) is kept, generalized behind the spec's Address
// discriminated union and NetworkParams-by-value style.
package addresses

import (
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"

	"github.com/coreledger/walletcore/chaincfg"
	"github.com/coreledger/walletcore/crypto/hash"
	"github.com/coreledger/walletcore/errs"
)

// Kind discriminates the four address forms spec.md §3 names.
type Kind int

const (
	// LegacyBase58 is a version byte plus a 20-byte hash (P2PKH/P2SH).
	LegacyBase58 Kind = iota
	// SegWit is an HRP, witness version 0..16, and 2-40 byte program.
	SegWit
	// Taproot is witness version 1 with a 32-byte x-only program; kept
	// distinct from SegWit because its program length is fixed.
	Taproot
	// EthereumHex is a 20-byte hash with an EIP-55 mixed-case checksum.
	EthereumHex
)

// Address is the discriminated union spec.md §3 describes. Only the
// fields relevant to Kind are meaningful; callers should switch on Kind
// before reading them.
type Address struct {
	Kind Kind

	// Base58 fields.
	Version byte
	Hash    [20]byte

	// SegWit/Taproot fields.
	HRP            string
	WitnessVersion byte
	Program        []byte

	// Ethereum field.
	EthHash [20]byte
}

// NewLegacyBase58 builds a Base58Check P2PKH/P2SH address for version.
func NewLegacyBase58(version byte, h160 [20]byte) Address {
	return Address{Kind: LegacyBase58, Version: version, Hash: h160}
}

// NewSegWit builds a native SegWit address. version must be 0..16; for
// version 0, program must be 20 (P2WPKH) or 32 (P2WSH) bytes, per
// spec.md §6's SegWit address rule.
func NewSegWit(hrp string, version byte, program []byte) (Address, error) {
	if version > 16 {
		return Address{}, errs.New(errs.InvalidEncoding, "witness version must be 0..16")
	}
	if len(program) < 2 || len(program) > 40 {
		return Address{}, errs.New(errs.InvalidEncoding, "witness program must be 2..40 bytes")
	}
	if version == 0 && len(program) != 20 && len(program) != 32 {
		return Address{}, errs.New(errs.InvalidEncoding, "witness v0 program must be 20 or 32 bytes")
	}
	return Address{Kind: SegWit, HRP: hrp, WitnessVersion: version, Program: append([]byte(nil), program...)}, nil
}

// NewTaproot builds a witness-v1 Taproot address from a 32-byte x-only
// output key.
func NewTaproot(hrp string, outputKey [32]byte) Address {
	return Address{Kind: Taproot, HRP: hrp, WitnessVersion: 1, Program: outputKey[:]}
}

// NewEthereum builds an Ethereum address from a 20-byte hash (the low
// 20 bytes of keccak256(uncompressed pubkey[1:])).
func NewEthereum(h [20]byte) Address {
	return Address{Kind: EthereumHex, EthHash: h}
}

// String encodes addr in its canonical text form.
func (addr Address) String() string {
	switch addr.Kind {
	case LegacyBase58:
		payload := make([]byte, 21)
		payload[0] = addr.Version
		copy(payload[1:], addr.Hash[:])
		sum := hash.DoubleSHA256(payload)
		return base58.Encode(append(payload, sum[:4]...))

	case SegWit, Taproot:
		conv, err := bech32.ConvertBits(addr.Program, 8, 5, true)
		if err != nil {
			return ""
		}
		data := append([]byte{addr.WitnessVersion}, conv...)
		var encoded string
		if addr.WitnessVersion == 0 {
			encoded, err = bech32.Encode(addr.HRP, data)
		} else {
			encoded, err = bech32.EncodeM(addr.HRP, data)
		}
		if err != nil {
			return ""
		}
		return encoded

	case EthereumHex:
		return eip55Encode(addr.EthHash)

	default:
		return ""
	}
}

// ParseBase58 decodes a Base58Check legacy address, validating the
// checksum and returning the version byte and 20-byte hash.
func ParseBase58(s string) (Address, error) {
	decoded := base58.Decode(s)
	if len(decoded) != 25 {
		return Address{}, errs.New(errs.InvalidEncoding, "base58check payload must decode to 25 bytes")
	}
	payload, checksum := decoded[:21], decoded[21:]
	want := hash.DoubleSHA256(payload)
	if !equalBytes(checksum, want[:4]) {
		return Address{}, errs.New(errs.InvalidEncoding, "base58check checksum mismatch")
	}
	var h [20]byte
	copy(h[:], payload[1:])
	return NewLegacyBase58(payload[0], h), nil
}

// ParseSegWitOrTaproot decodes a Bech32/Bech32m SegWit or Taproot
// address, validating that the checksum constant matches the decoded
// witness version per spec.md §6.
func ParseSegWitOrTaproot(s string) (Address, error) {
	hrp, data, err := bech32.DecodeNoLimit(s)
	if err != nil {
		return Address{}, errs.Wrap(errs.InvalidEncoding, "invalid bech32 encoding", err)
	}
	if len(data) < 1 {
		return Address{}, errs.New(errs.InvalidEncoding, "empty bech32 payload")
	}
	version := data[0]
	program, err := bech32.ConvertBits(data[1:], 5, 8, false)
	if err != nil {
		return Address{}, errs.Wrap(errs.InvalidEncoding, "invalid witness program padding", err)
	}
	if len(program) < 2 || len(program) > 40 {
		return Address{}, errs.New(errs.InvalidEncoding, "witness program must be 2..40 bytes")
	}
	if version == 0 && len(program) != 20 && len(program) != 32 {
		return Address{}, errs.New(errs.InvalidEncoding, "witness v0 program must be 20 or 32 bytes")
	}

	// Re-encode under the expected variant and compare, since
	// bech32.DecodeNoLimit accepts either constant; this enforces
	// spec.md §6's "choose Bech32 constant when version == 0 else
	// Bech32m" rule rather than trusting whichever checksum decoded.
	conv, _ := bech32.ConvertBits(program, 8, 5, true)
	reData := append([]byte{version}, conv...)
	var reencoded string
	if version == 0 {
		reencoded, err = bech32.Encode(hrp, reData)
	} else {
		reencoded, err = bech32.EncodeM(hrp, reData)
	}
	if err != nil || !strings.EqualFold(reencoded, s) {
		return Address{}, errs.New(errs.InvalidEncoding, "bech32 checksum constant does not match witness version")
	}

	if version == 1 && len(program) == 32 {
		var out [32]byte
		copy(out[:], program)
		return NewTaproot(hrp, out), nil
	}
	return NewSegWit(hrp, version, program)
}

// ParseEthereum decodes a 0x-prefixed 40-hex-digit Ethereum address and
// validates its EIP-55 checksum when the string has mixed case.
func ParseEthereum(s string) (Address, error) {
	s = strings.TrimPrefix(s, "0x")
	if len(s) != 40 {
		return Address{}, errs.New(errs.InvalidEncoding, "ethereum address must be 40 hex digits")
	}
	raw, err := decodeHex(s)
	if err != nil {
		return Address{}, errs.Wrap(errs.InvalidEncoding, "invalid hex", err)
	}
	var h [20]byte
	copy(h[:], raw)

	hasUpper := strings.ToLower(s) != s
	hasLower := strings.ToUpper(s) != s
	if hasUpper && hasLower {
		if eip55Encode(h) != "0x"+s {
			return Address{}, errs.New(errs.InvalidEncoding, "EIP-55 checksum mismatch")
		}
	}
	return NewEthereum(h), nil
}

// eip55Encode applies EIP-55: each alphabetic hex character is
// uppercased iff the corresponding nibble of keccak256(lowercase hex)
// is >= 8, per spec.md §6.
func eip55Encode(h [20]byte) string {
	lower := lowerHex(h[:])
	digest := hash.Keccak256([]byte(lower))

	out := make([]byte, len(lower))
	for i, c := range []byte(lower) {
		if c >= 'a' && c <= 'f' {
			nibble := digest[i/2]
			if i%2 == 0 {
				nibble >>= 4
			} else {
				nibble &= 0x0F
			}
			if nibble >= 8 {
				c -= 'a' - 'A'
			}
		}
		out[i] = c
	}
	return "0x" + string(out)
}

const hexDigits = "0123456789abcdef"

func lowerHex(b []byte) string {
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[2*i] = hexDigits[v>>4]
		out[2*i+1] = hexDigits[v&0x0F]
	}
	return string(out)
}

func decodeHex(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, errs.New(errs.InvalidEncoding, "odd-length hex string")
	}
	out := make([]byte, len(s)/2)
	for i := range out {
		hi, ok1 := hexVal(s[2*i])
		lo, ok2 := hexVal(s[2*i+1])
		if !ok1 || !ok2 {
			return nil, errs.New(errs.InvalidEncoding, "invalid hex digit")
		}
		out[i] = hi<<4 | lo
	}
	return out, nil
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

func equalBytes(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// NetworkHRP returns the Bech32 HRP for a network's SegWit addresses,
// per spec.md §6 (mainnet "bc", testnet "tb", regtest "bcrt").
func NetworkHRP(params chaincfg.Params) string {
	return params.Bech32HRPSegwit
}
