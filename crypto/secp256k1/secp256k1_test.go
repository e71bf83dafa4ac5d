package secp256k1

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestGeneratorOnCurve(t *testing.T) {
	g := Generator()
	require.True(t, g.IsOnCurve())
	require.False(t, g.IsInfinity())
}

func TestPointAddIdentity(t *testing.T) {
	g := Generator()
	inf := Infinity()
	require.True(t, g.Add(inf).IsOnCurve())
	sum := g.Add(inf)
	gx, gy := g.X(), g.Y()
	sx, sy := sum.X(), sum.Y()
	require.Equal(t, gx, sx)
	require.Equal(t, gy, sy)
}

func TestPointAddNegateIsInfinity(t *testing.T) {
	g := Generator()
	neg := g.Negate()
	sum := g.Add(neg)
	require.True(t, sum.IsInfinity())
}

func TestScalarMultiplyMatchesDoubleAndAdd(t *testing.T) {
	g := Generator()
	three, _ := ScalarFromBytes([]byte{3})
	viaScalarMult := g.ScalarMultiply(three)

	// textbook double-and-add for k=3: G + G + G
	viaAdd := g.Add(g).Add(g)

	vx, vy := viaScalarMult.X(), viaScalarMult.Y()
	ax, ay := viaAdd.X(), viaAdd.Y()
	require.Equal(t, vx, ax)
	require.Equal(t, vy, ay)
}

func TestLiftXRoundTrip(t *testing.T) {
	g := Generator()
	xOnly, err := g.EncodeXOnly()
	require.NoError(t, err)

	p, err := LiftX(xOnly)
	require.NoError(t, err)
	require.True(t, p.HasEvenY())
	require.Equal(t, xOnly, p.X())
}

func TestEncodeParseRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		kb := rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(rt, "k")
		k, ok := ScalarFromBytes(kb)
		if !ok || k.IsZero() {
			return
		}
		p := BaseMultiply(k)
		if p.IsInfinity() {
			return
		}

		compressed, err := p.EncodeCompressed()
		require.NoError(rt, err)
		parsed, err := ParsePoint(compressed[:])
		require.NoError(rt, err)
		require.Equal(rt, p.X(), parsed.X())
		require.Equal(rt, p.Y(), parsed.Y())

		uncompressed, err := p.EncodeUncompressed()
		require.NoError(rt, err)
		parsedU, err := ParsePoint(uncompressed[:])
		require.NoError(rt, err)
		require.Equal(rt, p.X(), parsedU.X())
	})
}

func TestScalarInverse(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		kb := rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(rt, "k")
		k, ok := ScalarFromBytes(kb)
		if !ok || k.IsZero() {
			return
		}
		inv := k.Inverse()
		one := k.Mul(inv)
		oneBytes := one.Bytes()
		for i := 0; i < 31; i++ {
			require.Zero(rt, oneBytes[i])
		}
		require.Equal(rt, byte(1), oneBytes[31])
	})
}
