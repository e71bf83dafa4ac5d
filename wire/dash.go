// Copyright (c) 2025 walletcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"encoding/binary"

	"github.com/coreledger/walletcore/crypto/hash"
	"github.com/coreledger/walletcore/errs"
)

// DashTransaction is Dash's transaction shape: structurally identical
// to legacy Bitcoin except the 32-bit version field packs a special
// transaction type in its upper 16 bits, and version >= 3 special
// types append an extraPayload after lockTime, per spec.md §4.6.
type DashTransaction struct {
	BaseVersion  uint16
	Type         uint16
	Inputs       []TxIn
	Outputs      []TxOut
	LockTime     uint32
	ExtraPayload []byte // only serialized when BaseVersion >= 3 and Type != 0
}

// PackedVersion returns the 32-bit version field: (type << 16) | base.
func (tx *DashTransaction) PackedVersion() uint32 {
	return uint32(tx.Type)<<16 | uint32(tx.BaseVersion)
}

// Serialize writes the full Dash transaction wire encoding.
func (tx *DashTransaction) Serialize(buf *bytes.Buffer) error {
	var v [4]byte
	binary.LittleEndian.PutUint32(v[:], tx.PackedVersion())
	buf.Write(v[:])

	if err := WriteVarInt(buf, uint64(len(tx.Inputs))); err != nil {
		return err
	}
	for _, in := range tx.Inputs {
		writeOutPoint(buf, in.PreviousOutPoint)
		writeVarIntBytes(buf, in.SignatureScript)
		writeUint32(buf, in.Sequence)
	}

	if err := WriteVarInt(buf, uint64(len(tx.Outputs))); err != nil {
		return err
	}
	for _, out := range tx.Outputs {
		writeInt64(buf, out.Value)
		writeVarIntBytes(buf, out.PkScript)
	}

	writeUint32(buf, tx.LockTime)

	if tx.BaseVersion >= 3 && tx.Type != 0 {
		writeVarIntBytes(buf, tx.ExtraPayload)
	}
	return nil
}

// SigHash computes the Dash signature hash for input idx against
// scriptCode: the same legacy algorithm spec.md §4.6 describes
// (blank every input script but the signed one, serialize, append
// u32 LE hashType, double-SHA256), applied over Dash's serialization
// rather than Bitcoin's, including the SIGHASH_SINGLE out-of-range
// consensus bug.
func (tx *DashTransaction) SigHash(idx int, scriptCode []byte, hashType SigHashType) ([32]byte, error) {
	if idx < 0 || idx >= len(tx.Inputs) {
		return [32]byte{}, errs.New(errs.SighashOutOfRange, "input index out of range")
	}

	base := hashType &^ SigHashAnyOneCanPay

	var buf bytes.Buffer
	var v [4]byte
	binary.LittleEndian.PutUint32(v[:], tx.PackedVersion())
	buf.Write(v[:])

	anyoneCanPay := hashType&SigHashAnyOneCanPay != 0

	if anyoneCanPay {
		_ = WriteVarInt(&buf, 1)
		writeOutPoint(&buf, tx.Inputs[idx].PreviousOutPoint)
		writeVarIntBytes(&buf, scriptCode)
		writeUint32(&buf, tx.Inputs[idx].Sequence)
	} else {
		_ = WriteVarInt(&buf, uint64(len(tx.Inputs)))
		for i, in := range tx.Inputs {
			writeOutPoint(&buf, in.PreviousOutPoint)
			if i == idx {
				writeVarIntBytes(&buf, scriptCode)
			} else {
				writeVarIntBytes(&buf, nil)
			}
			seq := in.Sequence
			if (base == SigHashNone || base == SigHashSingle) && i != idx {
				seq = 0
			}
			writeUint32(&buf, seq)
		}
	}

	switch base {
	case SigHashNone:
		_ = WriteVarInt(&buf, 0)
	case SigHashSingle:
		if idx >= len(tx.Outputs) {
			// The well-known consensus bug: return 1 rather than hash
			// this preimage at all (spec.md §4.6).
			var one [32]byte
			one[0] = 1
			return one, nil
		}
		_ = WriteVarInt(&buf, uint64(idx+1))
		for i := 0; i <= idx; i++ {
			if i != idx {
				writeInt64(&buf, -1)
				writeVarIntBytes(&buf, nil)
				continue
			}
			writeInt64(&buf, tx.Outputs[i].Value)
			writeVarIntBytes(&buf, tx.Outputs[i].PkScript)
		}
	default: // SigHashAll
		_ = WriteVarInt(&buf, uint64(len(tx.Outputs)))
		for _, out := range tx.Outputs {
			writeInt64(&buf, out.Value)
			writeVarIntBytes(&buf, out.PkScript)
		}
	}

	writeUint32(&buf, tx.LockTime)
	if tx.BaseVersion >= 3 && tx.Type != 0 {
		writeVarIntBytes(&buf, tx.ExtraPayload)
	}
	writeUint32(&buf, uint32(hashType))

	return hash.DoubleSHA256(buf.Bytes()), nil
}

func writeOutPoint(buf *bytes.Buffer, op OutPoint) {
	buf.Write(op.Hash[:])
	writeUint32(buf, op.Index)
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeInt64(buf *bytes.Buffer, v int64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	buf.Write(b[:])
}
