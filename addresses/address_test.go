package addresses

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/stretchr/testify/require"

	"github.com/coreledger/walletcore/crypto/hash"
	"github.com/coreledger/walletcore/crypto/secp256k1"
)

// TestBase58CheckVector reproduces spec.md §8 vector 5: payload
// 010966776006953D5567439E5E39F86A0D273BEE with version 0x00.
func TestBase58CheckVector(t *testing.T) {
	var h [20]byte
	raw := hexBytes(t, "010966776006953D5567439E5E39F86A0D273BEE")
	copy(h[:], raw)
	addr := NewLegacyBase58(0x00, h)
	require.Equal(t, "16UwLL9Risc3QfPqBUvKofHmBQ7wMtjvM", addr.String())

	parsed, err := ParseBase58(addr.String())
	require.NoError(t, err)
	require.Equal(t, addr, parsed)
}

// TestSegWitP2WPKHVector reproduces spec.md §8 vector 3.
func TestSegWitP2WPKHVector(t *testing.T) {
	h160 := hexBytes(t, "74b8d7b96009c4e043aec5a73026c9171c406faf")
	addr, err := NewSegWit("bc", 0, h160)
	require.NoError(t, err)
	require.Equal(t, "bc1qwjud0wtqp8zwqsawcknnqfkfzuwyqma0dvmpe6", addr.String())

	parsed, err := ParseSegWitOrTaproot(addr.String())
	require.NoError(t, err)
	require.Equal(t, SegWit, parsed.Kind)
	require.Equal(t, h160, parsed.Program)
}

// TestTaprootVector reproduces spec.md §8 vector 4 (BIP-86).
func TestTaprootVector(t *testing.T) {
	var internal [32]byte
	copy(internal[:], hexBytes(t, "cc8a4bc64d897bddc5fbc2f670f7a8ba0b386779106cf1223c6fc5d7cd6fc115"))
	// NewTaproot takes the output key Q = P + taggedHash("TapTweak", P.x)·G.
	p, err := secp256k1.LiftX(internal)
	require.NoError(t, err)
	tweakHash := hash.TaggedHash("TapTweak", internal[:])
	tweak, ok := secp256k1.ScalarFromBytes(tweakHash[:])
	require.True(t, ok)
	addr := NewTaproot("bc", p.Add(secp256k1.BaseMultiply(tweak)).X())
	require.Equal(t, "bc1p5cyxnuxmeuwuvkwfem96lqzszd02n6xdcjrs20cac6yqjjwudpxqkedrcr", addr.String())

	parsed, err := ParseSegWitOrTaproot(addr.String())
	require.NoError(t, err)
	require.Equal(t, Taproot, parsed.Kind)
}

func TestSegWitRejectsWrongChecksumConstant(t *testing.T) {
	h160 := hexBytes(t, "74b8d7b96009c4e043aec5a73026c9171c406faf")
	conv, err := bech32.ConvertBits(h160, 8, 5, true)
	require.NoError(t, err)
	// witness version 1 under the Bech32 (v0) checksum constant instead of Bech32m
	mismatched, err := bech32.Encode("bc", append([]byte{1}, conv...))
	require.NoError(t, err)

	_, err = ParseSegWitOrTaproot(mismatched)
	require.Error(t, err)
}

func TestEIP55ChecksumRoundTrip(t *testing.T) {
	addr, err := ParseEthereum("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	require.NoError(t, err)
	require.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", addr.String())
}

func TestEIP55RejectsBadChecksum(t *testing.T) {
	_, err := ParseEthereum("0x5aaeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	require.Error(t, err)
}

func hexBytes(t *testing.T, s string) []byte {
	t.Helper()
	b, err := decodeHex(s)
	require.NoError(t, err)
	return b
}
