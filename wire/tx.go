// Copyright (c) 2025 walletcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wire implements the Bitcoin-lineage transaction model spec.md
// §4.6 describes: standard serialization and sighash are delegated to
// github.com/btcsuite/btcd/wire and github.com/btcsuite/btcd/txscript —
// the same upstream packages the teacher repo already required
// directly in its go.mod (not just through btcec) for its settlement
// and covenant layers. Dash's version-packing and Zcash's Sapling
// (ZIP-243) transaction shapes have no upstream Go implementation in
// the example pack, so those two are hand-rolled here following the
// same varint/double-SHA256 conventions btcd's own wire package uses.
package wire

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/btcsuite/btcd/txscript"
	btcwire "github.com/btcsuite/btcd/wire"

	"github.com/coreledger/walletcore/crypto/hash"
	"github.com/coreledger/walletcore/errs"
)

// Transaction is the standard Bitcoin-shaped transaction: version,
// inputs, outputs, witnesses, and lockTime, per spec.md §4.6. It is a
// thin alias over btcd's wire.MsgTx, which already implements the
// marker/flag SegWit serialization rule (§4.6: "serialization then
// inserts the SegWit marker 0x00 0x01 after the version").
type Transaction = btcwire.MsgTx

// OutPoint identifies the previous output an input spends.
type OutPoint = btcwire.OutPoint

// TxIn is one transaction input.
type TxIn = btcwire.TxIn

// TxOut is one transaction output.
type TxOut = btcwire.TxOut

// SigHashType is the one-byte (or masked u32) signature hash type:
// ALL/NONE/SINGLE optionally OR'd with ANYONECANPAY.
type SigHashType = txscript.SigHashType

const (
	SigHashAll          = txscript.SigHashAll
	SigHashNone         = txscript.SigHashNone
	SigHashSingle       = txscript.SigHashSingle
	SigHashAnyOneCanPay = txscript.SigHashAnyOneCanPay
)

// TxID returns the double-SHA256 of the legacy (non-witness)
// serialization.
func TxID(tx *Transaction) [32]byte {
	return tx.TxHash()
}

// WTxID returns the double-SHA256 of the full witness serialization.
func WTxID(tx *Transaction) [32]byte {
	return tx.WitnessHash()
}

// LegacySigHash computes the pre-SegWit signature hash for input idx
// against scriptCode, per spec.md §4.6's legacy rule — including the
// well-known SIGHASH_SINGLE-out-of-range bug, which
// txscript.CalcSignatureHash already reproduces bit-for-bit.
func LegacySigHash(tx *Transaction, idx int, scriptCode []byte, hashType SigHashType) ([32]byte, error) {
	h, err := txscript.CalcSignatureHash(scriptCode, hashType, tx, idx)
	if err != nil {
		return [32]byte{}, errs.Wrap(errs.SighashOutOfRange, "legacy sighash computation failed", err)
	}
	var out [32]byte
	copy(out[:], h)
	return out, nil
}

// PrevOutputs maps each input's outpoint to the UTXO it spends, needed
// to compute SegWit and Taproot sighashes (amounts are committed to the
// signature under both schemes).
type PrevOutputs = txscript.PrevOutputFetcher

// NewPrevOutputs builds a PrevOutputs fetcher from an outpoint->TxOut
// map.
func NewPrevOutputs(m map[OutPoint]*TxOut) PrevOutputs {
	return txscript.NewMultiPrevOutFetcher(m)
}

// SegWitSigHash computes the BIP-143 signature hash for input idx, per
// spec.md §4.6.
func SegWitSigHash(tx *Transaction, prevOuts PrevOutputs, idx int, scriptCode []byte, amount int64, hashType SigHashType) ([32]byte, error) {
	sigHashes := txscript.NewTxSigHashes(tx, prevOuts)
	h, err := txscript.CalcWitnessSigHash(scriptCode, sigHashes, hashType, tx, idx, amount)
	if err != nil {
		return [32]byte{}, errs.Wrap(errs.SighashOutOfRange, "BIP-143 sighash computation failed", err)
	}
	var out [32]byte
	copy(out[:], h)
	return out, nil
}

// TaprootSigHash computes the BIP-341 signature hash for input idx's
// key-path spend, per spec.md §4.6.
func TaprootSigHash(tx *Transaction, prevOuts PrevOutputs, idx int, hashType SigHashType) ([32]byte, error) {
	sigHashes := txscript.NewTxSigHashes(tx, prevOuts)
	h, err := txscript.CalcTaprootSignatureHash(sigHashes, hashType, tx, idx, prevOuts)
	if err != nil {
		return [32]byte{}, errs.Wrap(errs.SighashOutOfRange, "BIP-341 sighash computation failed", err)
	}
	var out [32]byte
	copy(out[:], h)
	return out, nil
}

// TapTweak returns the BIP-86 key-path-only tweak scalar
// t = taggedHash("TapTweak", P.x), per spec.md §4.6. The output key is
// Q = P + t·G; this function does not compute Q itself.
func TapTweak(internalX [32]byte) [32]byte {
	return hash.TaggedHash("TapTweak", internalX[:])
}

// --- VarInt, shared by the Dash/Zcash hand-rolled serializers below. ---

// WriteVarInt writes n using Bitcoin's variable-length integer
// encoding, per spec.md §6.
func WriteVarInt(w io.Writer, n uint64) error {
	switch {
	case n < 0xFD:
		_, err := w.Write([]byte{byte(n)})
		return err
	case n <= 0xFFFF:
		buf := make([]byte, 3)
		buf[0] = 0xFD
		binary.LittleEndian.PutUint16(buf[1:], uint16(n))
		_, err := w.Write(buf)
		return err
	case n <= 0xFFFFFFFF:
		buf := make([]byte, 5)
		buf[0] = 0xFE
		binary.LittleEndian.PutUint32(buf[1:], uint32(n))
		_, err := w.Write(buf)
		return err
	default:
		buf := make([]byte, 9)
		buf[0] = 0xFF
		binary.LittleEndian.PutUint64(buf[1:], n)
		_, err := w.Write(buf)
		return err
	}
}

// ReadVarInt reads a Bitcoin variable-length integer.
func ReadVarInt(r io.Reader) (uint64, error) {
	var prefix [1]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return 0, err
	}
	switch prefix[0] {
	case 0xFD:
		var b [2]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		return uint64(binary.LittleEndian.Uint16(b[:])), nil
	case 0xFE:
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		return uint64(binary.LittleEndian.Uint32(b[:])), nil
	case 0xFF:
		var b [8]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		return binary.LittleEndian.Uint64(b[:]), nil
	default:
		return uint64(prefix[0]), nil
	}
}

func writeVarIntBytes(buf *bytes.Buffer, b []byte) {
	_ = WriteVarInt(buf, uint64(len(b)))
	buf.Write(b)
}
