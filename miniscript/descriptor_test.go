package miniscript

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDescriptorChecksumRoundTrip(t *testing.T) {
	body := "pkh(02c6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5)"
	full, err := AppendChecksum(body)
	require.NoError(t, err)
	require.Len(t, full, len(body)+9)

	stripped, err := VerifyChecksum(full)
	require.NoError(t, err)
	require.Equal(t, body, stripped)
}

func TestDescriptorChecksumRejectsTamperedBody(t *testing.T) {
	body := "pkh(02c6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5)"
	full, err := AppendChecksum(body)
	require.NoError(t, err)
	tampered := "pkh(03c6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5)" + full[len(body):]
	_, err = VerifyChecksum(tampered)
	require.Error(t, err)
}

func TestTokenizeNested(t *testing.T) {
	tree, err := Tokenize("andor(pk_k(aa),older(10),pk_h(bb))")
	require.NoError(t, err)
	require.Equal(t, "andor", tree.Name)
	require.Len(t, tree.Children, 3)
	require.Equal(t, "pk_k", tree.Children[0].Name)
	require.Equal(t, "aa", tree.Children[0].Children[0].Leaf)
	require.Equal(t, "older", tree.Children[1].Name)
	require.Equal(t, "10", tree.Children[1].Children[0].Leaf)
}

func TestTokenizeWrapperPrefix(t *testing.T) {
	tree, err := Tokenize("vc:pk_k(aa)")
	require.NoError(t, err)
	require.Equal(t, "vc", tree.Wrappers)
	require.Equal(t, "pk_k", tree.Name)
}

var testKey1 = "02c6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5"
var testKey2 = "03774ae7f858a9411e5ef4246b70c65aac5649980be5c17891bbec17895da008cb"

func TestParseAndScriptPkH(t *testing.T) {
	f, err := Parse("pkh(" + testKey1 + ")")
	require.NoError(t, err)
	require.Equal(t, TypeB, f.Type().Base)

	script, err := Script(f)
	require.NoError(t, err)
	require.NotEmpty(t, script)
}

func TestParseMulti(t *testing.T) {
	f, err := Parse("multi(2," + testKey1 + "," + testKey2 + ")")
	require.NoError(t, err)
	require.Equal(t, KindMulti, f.Kind)
	script, err := Script(f)
	require.NoError(t, err)
	require.NotEmpty(t, script)
}

func TestParseOrD(t *testing.T) {
	f, err := Parse("or_d(pk(" + testKey1 + "),and_v(vc:pk_k(" + testKey2 + "),older(100)))")
	require.NoError(t, err)
	require.Equal(t, KindOrD, f.Kind)
	_, err = Script(f)
	require.NoError(t, err)
}
