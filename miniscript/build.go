// Copyright (c) 2025 walletcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package miniscript

import (
	"encoding/hex"
	"strconv"

	"github.com/coreledger/walletcore/errs"
)

// Build translates a TokenTree produced by Tokenize into a typed
// Fragment, applying each node's wrapper letters back-to-front (the
// descriptor source nests wrappers outside-in: "asdv:X" applies v,
// then d, then s, then a), per spec.md §4.7.
func Build(t *TokenTree) (*Fragment, error) {
	f, err := buildBase(t)
	if err != nil {
		return nil, err
	}
	for i := len(t.Wrappers) - 1; i >= 0; i-- {
		f, err = Wrap(Wrapper(t.Wrappers[i]), f)
		if err != nil {
			return nil, err
		}
	}
	return f, nil
}

func buildChildren(t *TokenTree) ([]*Fragment, error) {
	out := make([]*Fragment, len(t.Children))
	for i, c := range t.Children {
		f, err := Build(c)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func buildBase(t *TokenTree) (*Fragment, error) {
	switch t.Name {
	case "0":
		return False(), nil
	case "1":
		return True(), nil
	case "pk_k":
		key, err := hex.DecodeString(t.Children[0].Leaf)
		if err != nil {
			return nil, errs.New(errs.InvalidEncoding, "pk_k expects a hex-encoded public key")
		}
		return PkK(key)
	case "pk_h":
		key, err := hex.DecodeString(t.Children[0].Leaf)
		if err != nil {
			return nil, errs.New(errs.InvalidEncoding, "pk_h expects a hex-encoded public key")
		}
		return PkH(key)
	case "pk":
		// pk(key) is shorthand for c:pk_k(key), per spec.md §4.7.
		key, err := hex.DecodeString(t.Children[0].Leaf)
		if err != nil {
			return nil, errs.New(errs.InvalidEncoding, "pk expects a hex-encoded public key")
		}
		inner, err := PkK(key)
		if err != nil {
			return nil, err
		}
		return Wrap(WrapC, inner)
	case "pkh":
		// pkh(key) is shorthand for c:pk_h(key).
		key, err := hex.DecodeString(t.Children[0].Leaf)
		if err != nil {
			return nil, errs.New(errs.InvalidEncoding, "pkh expects a hex-encoded public key")
		}
		inner, err := PkH(key)
		if err != nil {
			return nil, err
		}
		return Wrap(WrapC, inner)
	case "older":
		n, err := parseUint(t.Children[0].Leaf)
		if err != nil {
			return nil, err
		}
		return Older(n)
	case "after":
		n, err := parseUint(t.Children[0].Leaf)
		if err != nil {
			return nil, err
		}
		return After(n)
	case "sha256":
		h, err := parseHash32(t.Children[0].Leaf)
		if err != nil {
			return nil, err
		}
		return Sha256(h), nil
	case "hash256":
		h, err := parseHash32(t.Children[0].Leaf)
		if err != nil {
			return nil, err
		}
		return Hash256(h), nil
	case "ripemd160":
		h, err := parseHash32(t.Children[0].Leaf)
		if err != nil {
			return nil, err
		}
		return Ripemd160(h), nil
	case "hash160":
		h, err := parseHash32(t.Children[0].Leaf)
		if err != nil {
			return nil, err
		}
		return Hash160(h), nil
	case "and_v":
		kids, err := buildChildren(t)
		if err != nil {
			return nil, err
		}
		if len(kids) != 2 {
			return nil, errs.New(errs.InvalidEncoding, "and_v requires exactly 2 subexpressions")
		}
		return AndV(kids[0], kids[1])
	case "and_b":
		kids, err := buildChildren(t)
		if err != nil {
			return nil, err
		}
		if len(kids) != 2 {
			return nil, errs.New(errs.InvalidEncoding, "and_b requires exactly 2 subexpressions")
		}
		return AndB(kids[0], kids[1])
	case "andor":
		kids, err := buildChildren(t)
		if err != nil {
			return nil, err
		}
		if len(kids) != 3 {
			return nil, errs.New(errs.InvalidEncoding, "andor requires exactly 3 subexpressions")
		}
		return AndOr(kids[0], kids[1], kids[2])
	case "or_b":
		kids, err := buildChildren(t)
		if err != nil {
			return nil, err
		}
		if len(kids) != 2 {
			return nil, errs.New(errs.InvalidEncoding, "or_b requires exactly 2 subexpressions")
		}
		return OrB(kids[0], kids[1])
	case "or_c":
		kids, err := buildChildren(t)
		if err != nil {
			return nil, err
		}
		if len(kids) != 2 {
			return nil, errs.New(errs.InvalidEncoding, "or_c requires exactly 2 subexpressions")
		}
		return OrC(kids[0], kids[1])
	case "or_d":
		kids, err := buildChildren(t)
		if err != nil {
			return nil, err
		}
		if len(kids) != 2 {
			return nil, errs.New(errs.InvalidEncoding, "or_d requires exactly 2 subexpressions")
		}
		return OrD(kids[0], kids[1])
	case "or_i":
		kids, err := buildChildren(t)
		if err != nil {
			return nil, err
		}
		if len(kids) != 2 {
			return nil, errs.New(errs.InvalidEncoding, "or_i requires exactly 2 subexpressions")
		}
		return OrI(kids[0], kids[1])
	case "thresh":
		if len(t.Children) < 2 {
			return nil, errs.New(errs.InvalidEncoding, "thresh requires a threshold and at least one subexpression")
		}
		k, err := strconv.Atoi(t.Children[0].Leaf)
		if err != nil {
			return nil, errs.New(errs.InvalidEncoding, "thresh's first argument must be an integer")
		}
		subs, err := buildChildren(&TokenTree{Children: t.Children[1:]})
		if err != nil {
			return nil, err
		}
		return Thresh(k, subs)
	case "multi":
		return buildMultiKeyed(t, Multi)
	case "multi_a":
		return buildMultiKeyed(t, MultiA)
	default:
		return nil, errs.New(errs.InvalidEncoding, "unrecognized miniscript fragment name "+t.Name)
	}
}

func buildMultiKeyed(t *TokenTree, ctor func(int, [][]byte) (*Fragment, error)) (*Fragment, error) {
	if len(t.Children) < 2 {
		return nil, errs.New(errs.InvalidEncoding, "multi requires a threshold and at least one key")
	}
	k, err := strconv.Atoi(t.Children[0].Leaf)
	if err != nil {
		return nil, errs.New(errs.InvalidEncoding, "multi's first argument must be an integer")
	}
	keys := make([][]byte, len(t.Children)-1)
	for i, c := range t.Children[1:] {
		key, err := hex.DecodeString(c.Leaf)
		if err != nil {
			return nil, errs.New(errs.InvalidEncoding, "multi expects hex-encoded public keys")
		}
		keys[i] = key
	}
	return ctor(k, keys)
}

func parseUint(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, errs.New(errs.InvalidEncoding, "expected an unsigned integer argument")
	}
	return uint32(n), nil
}

func parseHash32(s string) ([32]byte, error) {
	var out [32]byte
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 32 {
		return out, errs.New(errs.InvalidEncoding, "expected a 32-byte hex-encoded hash")
	}
	copy(out[:], b)
	return out, nil
}

// Parse tokenizes and builds a full Miniscript expression (without any
// trailing "#checksum"), per spec.md §4.7.
func Parse(expr string) (*Fragment, error) {
	tree, err := Tokenize(expr)
	if err != nil {
		return nil, err
	}
	return Build(tree)
}

// ParseDescriptor verifies and strips a trailing BIP-380 checksum, then
// parses the remaining body as a Miniscript expression.
func ParseDescriptor(descriptor string) (*Fragment, error) {
	body, err := VerifyChecksum(descriptor)
	if err != nil {
		return nil, err
	}
	return Parse(body)
}
