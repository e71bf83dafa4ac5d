package chainid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseEIP155Vector(t *testing.T) {
	id, err := Parse("eip155:1")
	require.NoError(t, err)
	require.Equal(t, "eip155", id.Namespace)
	require.Equal(t, "1", id.Reference)
	require.Equal(t, "eip155:1", id.String())
}

func TestParseBip122Vector(t *testing.T) {
	id, err := Parse("bip122:000000000019d6689c085ae165831e93")
	require.NoError(t, err)
	require.Equal(t, "bip122", id.Namespace)
}

func TestParseRejectsMissingSeparator(t *testing.T) {
	_, err := Parse("eip1551")
	require.Error(t, err)
}

func TestParseRejectsOversizedNamespace(t *testing.T) {
	_, err := Parse("waytoolongnamespace:1")
	require.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	id := EIP155("137")
	reparsed, err := Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, reparsed)
}
