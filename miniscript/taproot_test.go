package miniscript

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTapTreeSingleLeafRootIsLeafHash(t *testing.T) {
	f, err := Parse("pk(" + testKey1 + ")")
	require.NoError(t, err)
	tree, err := Leaf(f)
	require.NoError(t, err)

	root, err := tree.MerkleRoot()
	require.NoError(t, err)

	leaf, err := NewTapLeaf(f)
	require.NoError(t, err)
	require.Equal(t, tapLeafHash(leaf), root)
}

func TestTapTreeBranchRootIsOrderIndependent(t *testing.T) {
	fa, err := Parse("pk(" + testKey1 + ")")
	require.NoError(t, err)
	fb, err := Parse("pk(" + testKey2 + ")")
	require.NoError(t, err)

	la, err := Leaf(fa)
	require.NoError(t, err)
	lb, err := Leaf(fb)
	require.NoError(t, err)

	t1 := Branch(la, lb)
	t2 := Branch(lb, la)

	r1, err := t1.MerkleRoot()
	require.NoError(t, err)
	r2, err := t2.MerkleRoot()
	require.NoError(t, err)
	require.Equal(t, r1, r2)
}

func TestTapTreeControlBlockFindsLeaf(t *testing.T) {
	fa, err := Parse("pk(" + testKey1 + ")")
	require.NoError(t, err)
	fb, err := Parse("pk(" + testKey2 + ")")
	require.NoError(t, err)

	la, err := Leaf(fa)
	require.NoError(t, err)
	lb, err := Leaf(fb)
	require.NoError(t, err)
	tree := Branch(la, lb)

	leafA, err := NewTapLeaf(fa)
	require.NoError(t, err)

	var internal [32]byte
	cb, ok := tree.ControlBlock(leafA, internal, false)
	require.True(t, ok)
	require.Len(t, cb, 1+32+32)
}

func TestTapTreeControlBlockMissingLeaf(t *testing.T) {
	fa, err := Parse("pk(" + testKey1 + ")")
	require.NoError(t, err)
	fc, err := Parse("older(10)")
	require.NoError(t, err)

	la, err := Leaf(fa)
	require.NoError(t, err)

	leafC, err := NewTapLeaf(fc)
	require.NoError(t, err)

	var internal [32]byte
	_, ok := la.ControlBlock(leafC, internal, false)
	require.False(t, ok)
}
