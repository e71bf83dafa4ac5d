package ecdsa

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		dBytes := rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(rt, "d")
		priv, err := NewPrivateKey(dBytes)
		if err != nil {
			return // zero or out-of-range scalar; not a valid private key
		}
		msg := rapid.SliceOfN(rapid.Byte(), 1, 64).Draw(rt, "msg")
		digest := sha256.Sum256(msg)

		sig := Sign(priv, digest)
		require.True(t, Verify(sig, digest, priv.PubKey()))
	})
}

func TestVerifyRejectsWrongMessage(t *testing.T) {
	priv, err := NewPrivateKey(bytesN(32, 7))
	require.NoError(t, err)

	digest := sha256.Sum256([]byte("hello"))
	sig := Sign(priv, digest)

	wrongDigest := sha256.Sum256([]byte("goodbye"))
	require.False(t, Verify(sig, wrongDigest, priv.PubKey()))
}

func TestCompactRoundTrip(t *testing.T) {
	priv, err := NewPrivateKey(bytesN(32, 11))
	require.NoError(t, err)
	digest := sha256.Sum256([]byte("compact"))
	sig := Sign(priv, digest)

	compact := sig.SerializeCompact()
	parsed, err := ParseCompact(compact)
	require.NoError(t, err)
	require.True(t, Verify(parsed, digest, priv.PubKey()))
}

func bytesN(n int, fill byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = fill
	}
	return b
}
