package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDashSigHashSingleOutOfRangeReturnsOne(t *testing.T) {
	tx := &DashTransaction{
		BaseVersion: 2,
		Inputs: []TxIn{
			{PreviousOutPoint: OutPoint{Index: 0}, Sequence: 0xffffffff},
		},
		Outputs: nil,
	}
	h, err := tx.SigHash(0, []byte{0x51}, SigHashSingle)
	require.NoError(t, err)
	var want [32]byte
	want[0] = 1
	require.Equal(t, want, h)
}

func TestDashPackedVersion(t *testing.T) {
	tx := &DashTransaction{BaseVersion: 3, Type: 5}
	require.Equal(t, uint32(5)<<16|3, tx.PackedVersion())
}

func TestZcashSigHashDeterministic(t *testing.T) {
	tx := &ZcashV4Transaction{
		Inputs: []TxIn{
			{PreviousOutPoint: OutPoint{Index: 0}, Sequence: 0xffffffff},
		},
		Outputs:      []TxOut{{Value: 1000, PkScript: []byte{0x51}}},
		LockTime:     0,
		ExpiryHeight: 100,
		ValueBalance: 0,
	}
	h1 := tx.SigHash(0, []byte{0x51}, 1000, SigHashAll, 0x76b809bb)
	h2 := tx.SigHash(0, []byte{0x51}, 1000, SigHashAll, 0x76b809bb)
	require.Equal(t, h1, h2)

	h3 := tx.SigHash(0, []byte{0x51}, 1000, SigHashAll, 0x5ba81b19)
	require.NotEqual(t, h1, h3)
}

func TestVarIntRoundTrip(t *testing.T) {
	for _, n := range []uint64{0, 1, 0xFC, 0xFD, 0xFFFF, 0x10000, 0xFFFFFFFF, 0x100000000} {
		var buf bytes.Buffer
		require.NoError(t, WriteVarInt(&buf, n))
		got, err := ReadVarInt(&buf)
		require.NoError(t, err)
		require.Equal(t, n, got)
	}
}
