// Copyright (c) 2025 walletcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"encoding/binary"

	"github.com/coreledger/walletcore/crypto/hash"
)

// overwintered is the high bit of a Zcash transaction's header field
// that marks it as a post-Overwinter (NU2+) transaction.
const overwintered = uint32(1) << 31

// saplingVersionGroupID is the fixed nVersionGroupId for Sapling (v4)
// transactions.
const saplingVersionGroupID = uint32(0x892F2085)

// ZcashV4Transaction is Zcash's Sapling (v4) transaction shape, per
// spec.md §4.6: transparent inputs/outputs plus the version-group ID,
// expiry height, Sapling value balance, and empty shielded-spend/
// shielded-output/joinsplit vectors this module does not construct.
type ZcashV4Transaction struct {
	Inputs       []TxIn
	Outputs      []TxOut
	LockTime     uint32
	ExpiryHeight uint32
	ValueBalance int64
}

func (tx *ZcashV4Transaction) header() uint32 { return overwintered | 4 }

// hashPersonalized computes BLAKE2b-256 with a 16-byte personalization
// string, the hash construction ZIP-243 uses throughout.
func hashPersonalized(person string, data []byte) [32]byte {
	return hash.BLAKE2b256([]byte(person), data)
}

func (tx *ZcashV4Transaction) hashPrevouts() [32]byte {
	var buf bytes.Buffer
	for _, in := range tx.Inputs {
		writeOutPoint(&buf, in.PreviousOutPoint)
	}
	return hashPersonalized("ZcashPrevoutHash", buf.Bytes())
}

func (tx *ZcashV4Transaction) hashSequence() [32]byte {
	var buf bytes.Buffer
	for _, in := range tx.Inputs {
		writeUint32(&buf, in.Sequence)
	}
	return hashPersonalized("ZcashSequencHash", buf.Bytes())
}

func (tx *ZcashV4Transaction) hashOutputs() [32]byte {
	var buf bytes.Buffer
	for _, out := range tx.Outputs {
		writeInt64(&buf, out.Value)
		writeVarIntBytes(&buf, out.PkScript)
	}
	return hashPersonalized("ZcashOutputsHash", buf.Bytes())
}

// SigHash computes the ZIP-243 signature hash for input idx against
// scriptCode and amount, under consensus branch ID branchID, per
// spec.md §4.6: BLAKE2b-256 with personalization
// "ZcashSigHash" || LE32(branchId) over the ZIP-243 preimage. The
// shielded-spend/output and joinsplit vectors this type always leaves
// empty contribute their all-zero hashes to the preimage, matching
// the transparent-only case.
func (tx *ZcashV4Transaction) SigHash(idx int, scriptCode []byte, amount int64, hashType SigHashType, branchID uint32) [32]byte {
	var buf bytes.Buffer
	writeUint32(&buf, tx.header())
	writeUint32(&buf, saplingVersionGroupID)

	anyoneCanPay := hashType&SigHashAnyOneCanPay != 0
	base := hashType &^ SigHashAnyOneCanPay

	var zero [32]byte
	if anyoneCanPay {
		buf.Write(zero[:])
	} else {
		h := tx.hashPrevouts()
		buf.Write(h[:])
	}
	if !anyoneCanPay && base == SigHashAll {
		h := tx.hashSequence()
		buf.Write(h[:])
	} else {
		buf.Write(zero[:])
	}
	if base == SigHashAll {
		h := tx.hashOutputs()
		buf.Write(h[:])
	} else if base == SigHashSingle && idx >= 0 && idx < len(tx.Outputs) {
		var out bytes.Buffer
		writeInt64(&out, tx.Outputs[idx].Value)
		writeVarIntBytes(&out, tx.Outputs[idx].PkScript)
		h := hashPersonalized("ZcashOutputsHash", out.Bytes())
		buf.Write(h[:])
	} else {
		buf.Write(zero[:])
	}
	buf.Write(zero[:]) // hashJoinSplits: empty vector
	buf.Write(zero[:]) // hashShieldedSpends: empty vector
	buf.Write(zero[:]) // hashShieldedOutputs: empty vector

	writeUint32(&buf, tx.LockTime)
	writeUint32(&buf, tx.ExpiryHeight)
	writeInt64(&buf, tx.ValueBalance)
	writeUint32(&buf, uint32(hashType))

	if idx >= 0 && idx < len(tx.Inputs) {
		writeOutPoint(&buf, tx.Inputs[idx].PreviousOutPoint)
		writeVarIntBytes(&buf, scriptCode)
		writeInt64(&buf, amount)
		writeUint32(&buf, tx.Inputs[idx].Sequence)
	}

	person := make([]byte, 16)
	copy(person, "ZcashSigHash")
	binary.LittleEndian.PutUint32(person[12:], branchID)
	return hashPersonalized(string(person), buf.Bytes())
}
