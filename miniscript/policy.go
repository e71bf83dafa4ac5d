// Copyright (c) 2025 walletcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package miniscript

import (
	"sort"

	"github.com/coreledger/walletcore/errs"
)

// SemanticKind discriminates the nodes of an abstract spending policy,
// per spec.md §4.7's policy layer: a policy describes who can spend
// under what conditions without committing to a Miniscript encoding.
type SemanticKind int

const (
	SemUnsatisfiable SemanticKind = iota
	SemTrivial
	SemKey
	SemAfter
	SemOlder
	SemSha256
	SemHash256
	SemRipemd160
	SemHash160
	SemAnd
	SemOr
	SemThresh
)

// Semantic is one node of the abstract policy tree.
type Semantic struct {
	Kind     SemanticKind
	Key      []byte  // SemKey
	Value    uint32  // SemAfter/SemOlder's lock value, SemThresh's k
	Hash     [32]byte
	Children []*Semantic
}

// Key builds a `pk(key)` policy leaf.
func Key(pubKey []byte) *Semantic { return &Semantic{Kind: SemKey, Key: pubKey} }

// PolicyAfter builds an `after(n)` policy leaf.
func PolicyAfter(n uint32) *Semantic { return &Semantic{Kind: SemAfter, Value: n} }

// PolicyOlder builds an `older(n)` policy leaf.
func PolicyOlder(n uint32) *Semantic { return &Semantic{Kind: SemOlder, Value: n} }

// And combines two subpolicies that must both hold.
func And(a, b *Semantic) *Semantic { return &Semantic{Kind: SemAnd, Children: []*Semantic{a, b}} }

// Or combines subpolicies where at least one must hold.
func Or(subs ...*Semantic) *Semantic { return &Semantic{Kind: SemOr, Children: subs} }

// ThreshPolicy requires k of the given subpolicies to hold.
func ThreshPolicy(k uint32, subs ...*Semantic) *Semantic {
	return &Semantic{Kind: SemThresh, Value: k, Children: subs}
}

// Normalize flattens nested and/or nodes, removes Trivial/Unsatisfiable
// children where the surrounding combinator allows it, and sorts each
// node's children into a canonical order, producing a form that two
// policies equivalent up to restructuring compare equal under, per
// spec.md §4.7's "policy normalization" step.
func Normalize(s *Semantic) (*Semantic, error) {
	if s == nil {
		return nil, errs.New(errs.PolicyUnsatisfiable, "cannot normalize a nil policy")
	}
	switch s.Kind {
	case SemKey, SemAfter, SemOlder, SemSha256, SemHash256, SemRipemd160, SemHash160, SemTrivial, SemUnsatisfiable:
		return s, nil

	case SemAnd:
		flat, err := flattenAssociative(SemAnd, s.Children)
		if err != nil {
			return nil, err
		}
		kept := make([]*Semantic, 0, len(flat))
		for _, c := range flat {
			switch c.Kind {
			case SemUnsatisfiable:
				return &Semantic{Kind: SemUnsatisfiable}, nil
			case SemTrivial:
				continue
			default:
				kept = append(kept, c)
			}
		}
		if len(kept) == 0 {
			return &Semantic{Kind: SemTrivial}, nil
		}
		if len(kept) == 1 {
			return kept[0], nil
		}
		sortSemantics(kept)
		return &Semantic{Kind: SemAnd, Children: kept}, nil

	case SemOr:
		flat, err := flattenAssociative(SemOr, s.Children)
		if err != nil {
			return nil, err
		}
		kept := make([]*Semantic, 0, len(flat))
		for _, c := range flat {
			switch c.Kind {
			case SemTrivial:
				return &Semantic{Kind: SemTrivial}, nil
			case SemUnsatisfiable:
				continue
			default:
				kept = append(kept, c)
			}
		}
		if len(kept) == 0 {
			return &Semantic{Kind: SemUnsatisfiable}, nil
		}
		if len(kept) == 1 {
			return kept[0], nil
		}
		sortSemantics(kept)
		return &Semantic{Kind: SemOr, Children: kept}, nil

	case SemThresh:
		norm := make([]*Semantic, len(s.Children))
		for i, c := range s.Children {
			n, err := Normalize(c)
			if err != nil {
				return nil, err
			}
			norm[i] = n
		}
		kept := make([]*Semantic, 0, len(norm))
		mandatorySatisfied := 0
		for _, c := range norm {
			switch c.Kind {
			case SemTrivial:
				mandatorySatisfied++
			case SemUnsatisfiable:
				// drops out: cannot ever contribute to the threshold.
			default:
				kept = append(kept, c)
			}
		}
		k := int(s.Value) - mandatorySatisfied
		if k <= 0 {
			return &Semantic{Kind: SemTrivial}, nil
		}
		if k > len(kept) {
			return &Semantic{Kind: SemUnsatisfiable}, nil
		}
		if k == len(kept) {
			// normalize as an and so nested and children are flattened.
			return Normalize(&Semantic{Kind: SemAnd, Children: kept})
		}
		sortSemantics(kept)
		return &Semantic{Kind: SemThresh, Value: uint32(k), Children: kept}, nil

	default:
		return nil, errs.New(errs.PolicyUnsatisfiable, "unknown policy node kind")
	}
}

func flattenAssociative(kind SemanticKind, children []*Semantic) ([]*Semantic, error) {
	var out []*Semantic
	for _, c := range children {
		n, err := Normalize(c)
		if err != nil {
			return nil, err
		}
		if n.Kind == kind {
			out = append(out, n.Children...)
		} else {
			out = append(out, n)
		}
	}
	return out, nil
}

// canonicalKey returns a stable sort/comparison key for a normalized
// Semantic subtree.
func canonicalKey(s *Semantic) string {
	switch s.Kind {
	case SemKey:
		return "k:" + string(s.Key)
	case SemAfter:
		return "after:" + itoa(s.Value)
	case SemOlder:
		return "older:" + itoa(s.Value)
	case SemSha256, SemHash256, SemRipemd160, SemHash160:
		return "h:" + string(s.Hash[:])
	case SemTrivial:
		return "1"
	case SemUnsatisfiable:
		return "0"
	default:
		parts := make([]string, len(s.Children))
		for i, c := range s.Children {
			parts[i] = canonicalKey(c)
		}
		sort.Strings(parts)
		joined := ""
		for _, p := range parts {
			joined += p + ","
		}
		return itoa(uint32(s.Kind)) + ":" + itoa(s.Value) + "(" + joined + ")"
	}
}

func sortSemantics(s []*Semantic) {
	sort.Slice(s, func(i, j int) bool { return canonicalKey(s[i]) < canonicalKey(s[j]) })
}

func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	digits := [10]byte{}
	i := len(digits)
	for v > 0 {
		i--
		digits[i] = byte('0' + v%10)
		v /= 10
	}
	return string(digits[i:])
}

// Equal reports whether two policies are equivalent after
// normalization.
func Equal(a, b *Semantic) (bool, error) {
	na, err := Normalize(a)
	if err != nil {
		return false, err
	}
	nb, err := Normalize(b)
	if err != nil {
		return false, err
	}
	return canonicalKey(na) == canonicalKey(nb), nil
}
