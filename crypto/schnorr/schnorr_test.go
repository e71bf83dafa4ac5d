package schnorr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	var d [32]byte
	d[31] = 7
	priv, err := NewPrivateKey(d[:])
	require.NoError(t, err)

	var msg, aux [32]byte
	msg[0] = 0xAB
	sig, err := Sign(priv, msg, aux)
	require.NoError(t, err)

	require.True(t, Verify(sig, msg, priv.PubKey()))
}

func TestVerifyRejectsWrongMessage(t *testing.T) {
	var d [32]byte
	d[31] = 9
	priv, err := NewPrivateKey(d[:])
	require.NoError(t, err)

	var msg, wrongMsg, aux [32]byte
	msg[0] = 0x01
	wrongMsg[0] = 0x02
	sig, err := Sign(priv, msg, aux)
	require.NoError(t, err)

	require.False(t, Verify(sig, wrongMsg, priv.PubKey()))
}

func TestSignatureSerializeRoundTrip(t *testing.T) {
	var d [32]byte
	d[31] = 11
	priv, err := NewPrivateKey(d[:])
	require.NoError(t, err)

	var msg, aux [32]byte
	sig, err := Sign(priv, msg, aux)
	require.NoError(t, err)

	encoded := sig.Serialize()
	decoded, err := ParseSignature(encoded)
	require.NoError(t, err)
	require.Equal(t, encoded, decoded.Serialize())
}

func TestParsePublicKeyXOnlyRoundTrip(t *testing.T) {
	var d [32]byte
	d[31] = 13
	priv, err := NewPrivateKey(d[:])
	require.NoError(t, err)

	xOnly := priv.PubKey().SerializeXOnly()
	pub, err := ParsePublicKey(xOnly[:])
	require.NoError(t, err)
	require.Equal(t, xOnly, pub.SerializeXOnly())
}

func TestNewPrivateKeyRejectsWrongLength(t *testing.T) {
	_, err := NewPrivateKey([]byte{1, 2, 3})
	require.Error(t, err)
}
