// Copyright (c) 2025 walletcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package miniscript

import (
	"bytes"

	"github.com/coreledger/walletcore/crypto/hash"
	"github.com/coreledger/walletcore/errs"
)

// TapLeaf is one leaf of a Taproot script tree: a script and its leaf
// version (0xc0 for the tapscript Miniscript dialect).
type TapLeaf struct {
	Script     []byte
	LeafVersion byte
}

const defaultTapLeafVersion byte = 0xc0

// NewTapLeaf builds a leaf from a Fragment's synthesized script.
func NewTapLeaf(f *Fragment) (TapLeaf, error) {
	script, err := Script(f)
	if err != nil {
		return TapLeaf{}, err
	}
	return TapLeaf{Script: script, LeafVersion: defaultTapLeafVersion}, nil
}

// tapLeafHash is TapLeaf's tagged hash, per BIP-341: TaggedHash("TapLeaf", leafVersion || compactSize(script) || script).
func tapLeafHash(l TapLeaf) [32]byte {
	var buf bytes.Buffer
	buf.WriteByte(l.LeafVersion)
	writeCompactSize(&buf, uint64(len(l.Script)))
	buf.Write(l.Script)
	return hash.TaggedHash("TapLeaf", buf.Bytes())
}

func writeCompactSize(buf *bytes.Buffer, n uint64) {
	switch {
	case n < 0xfd:
		buf.WriteByte(byte(n))
	case n <= 0xffff:
		buf.WriteByte(0xfd)
		buf.WriteByte(byte(n))
		buf.WriteByte(byte(n >> 8))
	default:
		buf.WriteByte(0xfe)
		for i := 0; i < 4; i++ {
			buf.WriteByte(byte(n >> (8 * i)))
		}
	}
}

// tapBranchHash is the hash of an internal node of the Taproot script
// tree: the tagged hash of its two children, taken over the
// lexicographically smaller one first, per BIP-341's canonical-ordering
// rule.
func tapBranchHash(left, right [32]byte) [32]byte {
	if bytes.Compare(left[:], right[:]) > 0 {
		left, right = right, left
	}
	var buf bytes.Buffer
	buf.Write(left[:])
	buf.Write(right[:])
	return hash.TaggedHash("TapBranch", buf.Bytes())
}

// TapTree is a binary tree of TapLeaf scripts. A nil TapTree denotes a
// key-path-only output (no script path).
type TapTree struct {
	Leaf     *TapLeaf
	Left     *TapTree
	Right    *TapTree
}

// Leaf builds a single-leaf TapTree.
func Leaf(f *Fragment) (*TapTree, error) {
	l, err := NewTapLeaf(f)
	if err != nil {
		return nil, err
	}
	return &TapTree{Leaf: &l}, nil
}

// Branch combines two subtrees under one TapBranch node.
func Branch(left, right *TapTree) *TapTree {
	return &TapTree{Left: left, Right: right}
}

// MerkleRoot computes the tree's Taproot Merkle root, per BIP-341.
func (t *TapTree) MerkleRoot() ([32]byte, error) {
	if t == nil {
		return [32]byte{}, errs.New(errs.InvalidKeyMaterial, "cannot compute a Merkle root for an empty Taproot tree")
	}
	if t.Leaf != nil {
		return tapLeafHash(*t.Leaf), nil
	}
	l, err := t.Left.MerkleRoot()
	if err != nil {
		return [32]byte{}, err
	}
	r, err := t.Right.MerkleRoot()
	if err != nil {
		return [32]byte{}, err
	}
	return tapBranchHash(l, r), nil
}

// ControlBlock builds the control block proving leaf is present in t
// under the given internal key and parity, per BIP-341's script-path
// spend witness format. Returns (nil, false) if leaf is not found.
func (t *TapTree) ControlBlock(leaf TapLeaf, internalKeyXOnly [32]byte, outputKeyIsOdd bool) ([]byte, bool) {
	path, ok := t.merklePath(leaf)
	if !ok {
		return nil, false
	}
	leafVersionAndParity := leaf.LeafVersion
	if outputKeyIsOdd {
		leafVersionAndParity |= 1
	}
	var buf bytes.Buffer
	buf.WriteByte(leafVersionAndParity)
	buf.Write(internalKeyXOnly[:])
	for _, h := range path {
		buf.Write(h[:])
	}
	return buf.Bytes(), true
}

func (t *TapTree) merklePath(target TapLeaf) ([][32]byte, bool) {
	if t == nil {
		return nil, false
	}
	if t.Leaf != nil {
		if bytes.Equal(t.Leaf.Script, target.Script) && t.Leaf.LeafVersion == target.LeafVersion {
			return nil, true
		}
		return nil, false
	}
	if path, ok := t.Left.merklePath(target); ok {
		rightHash, err := t.Right.MerkleRoot()
		if err != nil {
			return nil, false
		}
		return append(path, rightHash), true
	}
	if path, ok := t.Right.merklePath(target); ok {
		leftHash, err := t.Left.MerkleRoot()
		if err != nil {
			return nil, false
		}
		return append(path, leftHash), true
	}
	return nil, false
}
