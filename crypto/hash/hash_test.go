package hash

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSHA256Empty(t *testing.T) {
	got := SHA256(nil)
	require.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		hex.EncodeToString(got[:]))
}

func TestDoubleSHA256(t *testing.T) {
	got := DoubleSHA256([]byte("hello"))
	require.Len(t, got, 32)
	// double hashing must differ from single hashing for non-fixed-point input.
	single := SHA256([]byte("hello"))
	require.NotEqual(t, single, got)
}

func TestHash160Length(t *testing.T) {
	got := Hash160([]byte{0x02, 0x01, 0x02})
	require.Len(t, got, 20)
}

func TestTaggedHashDeterministic(t *testing.T) {
	a := TaggedHash("BIP0340/challenge", []byte("m1"), []byte("m2"))
	b := TaggedHash("BIP0340/challenge", []byte("m1m2"))
	// tagged hash concatenates its message parts, so splitting the same
	// bytes across calls must produce the same digest.
	require.Equal(t, a, b)

	c := TaggedHash("BIP0340/aux", []byte("m1"), []byte("m2"))
	require.NotEqual(t, a, c)
}

func TestKeccak256(t *testing.T) {
	got := Keccak256([]byte{})
	require.Equal(t, "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		hex.EncodeToString(got[:]))
}

func TestBLAKE2b256Personalization(t *testing.T) {
	p1 := BLAKE2b256([]byte("ZcashSigHash\x76\xb8\x09\xbb"), []byte("payload"))
	p2 := BLAKE2b256([]byte("ZcashSigHash\x00\x00\x00\x00"), []byte("payload"))
	require.NotEqual(t, p1, p2, "different personalization must change the digest")
	require.Len(t, p1, 32)
}
