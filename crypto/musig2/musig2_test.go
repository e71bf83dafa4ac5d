package musig2

import (
	"crypto/sha256"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/require"
)

func genKey(t *testing.T) (*btcec.PrivateKey, *btcec.PublicKey) {
	t.Helper()
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	return priv, priv.PubKey()
}

// TestTwoOfTwoSignAggregate walks the full three-phase protocol for two
// signers and checks the aggregated signature verifies against the
// aggregate key, matching spec.md §4.3's end-to-end shape.
func TestTwoOfTwoSignAggregate(t *testing.T) {
	priv1, pub1 := genKey(t)
	priv2, pub2 := genKey(t)

	keys := KeySet{pub1, pub2}
	agg, err := AggregateKeys(keys, nil)
	require.NoError(t, err)
	require.NotNil(t, agg.Q)

	msg := sha256.Sum256([]byte("walletcore musig2 vector"))

	nonce1, err := GenerateNonce(pub1, priv1, agg, msg, nil)
	require.NoError(t, err)
	nonce2, err := GenerateNonce(pub2, priv2, agg, msg, nil)
	require.NoError(t, err)

	aggNonce, err := AggregateNonces([][66]byte{nonce1.PubNonce, nonce2.PubNonce})
	require.NoError(t, err)

	sig1, err := SignPartial(nonce1, priv1, aggNonce, keys, msg, agg, nil)
	require.NoError(t, err)
	sig2, err := SignPartial(nonce2, priv2, aggNonce, keys, msg, agg, nil)
	require.NoError(t, err)

	final, err := AggregatePartialSignatures([]*PartialSignature{sig1, sig2}, agg, msg, nil)
	require.NoError(t, err)
	require.True(t, final.Verify(msg[:], agg.Q))
}

func TestAggregateKeysRejectsEmptySet(t *testing.T) {
	_, err := AggregateKeys(nil, nil)
	require.Error(t, err)
}

func TestXOnlyTweakChangesAggregateKey(t *testing.T) {
	_, pub1 := genKey(t)
	_, pub2 := genKey(t)
	keys := KeySet{pub1, pub2}
	agg, err := AggregateKeys(keys, nil)
	require.NoError(t, err)

	var tweak [32]byte
	tweak[31] = 7
	tweaked, err := agg.TweakXOnly(tweak)
	require.NoError(t, err)
	require.NotEqual(t, agg.XOnly(), tweaked.XOnly())
}
