package miniscript

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeFlattensNestedAnd(t *testing.T) {
	k1 := Key([]byte{1})
	k2 := Key([]byte{2})
	k3 := Key([]byte{3})

	nested := And(And(k1, k2), k3)
	flat := And(k1, And(k2, k3))

	eq, err := Equal(nested, flat)
	require.NoError(t, err)
	require.True(t, eq)
}

func TestNormalizeDropsTrivialFromAnd(t *testing.T) {
	k1 := Key([]byte{1})
	withTrivial := And(k1, &Semantic{Kind: SemTrivial})
	n, err := Normalize(withTrivial)
	require.NoError(t, err)
	require.Equal(t, SemKey, n.Kind)
}

func TestNormalizeOrWithUnsatisfiableChild(t *testing.T) {
	k1 := Key([]byte{1})
	withUnsat := Or(k1, &Semantic{Kind: SemUnsatisfiable})
	n, err := Normalize(withUnsat)
	require.NoError(t, err)
	require.Equal(t, SemKey, n.Kind)
}

func TestNormalizeAndWithUnsatisfiableChildIsUnsatisfiable(t *testing.T) {
	k1 := Key([]byte{1})
	withUnsat := And(k1, &Semantic{Kind: SemUnsatisfiable})
	n, err := Normalize(withUnsat)
	require.NoError(t, err)
	require.Equal(t, SemUnsatisfiable, n.Kind)
}

func TestThreshCollapsesToAndWhenKEqualsLen(t *testing.T) {
	k1 := Key([]byte{1})
	k2 := Key([]byte{2})
	th := ThreshPolicy(2, k1, k2)
	n, err := Normalize(th)
	require.NoError(t, err)
	require.Equal(t, SemAnd, n.Kind)
}

func TestThreshBecomesUnsatisfiableWhenKExceedsAvailable(t *testing.T) {
	k1 := Key([]byte{1})
	th := ThreshPolicy(2, k1, &Semantic{Kind: SemUnsatisfiable})
	n, err := Normalize(th)
	require.NoError(t, err)
	require.Equal(t, SemUnsatisfiable, n.Kind)
}

func TestEqualIgnoresChildOrder(t *testing.T) {
	k1 := Key([]byte{1})
	k2 := Key([]byte{2})
	eq, err := Equal(Or(k1, k2), Or(k2, k1))
	require.NoError(t, err)
	require.True(t, eq)
}
