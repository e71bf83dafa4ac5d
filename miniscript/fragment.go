// Copyright (c) 2025 walletcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package miniscript implements the typed Miniscript AST spec.md §4.7
// describes: fragment constructors, the type-checking rules that
// reject invalid combinations with TypeCheckFailure, a tree-height
// RecursionLimit guard, and canonical script synthesis. There is no
// upstream Miniscript library in the example pack (none of the pack
// repos vendor one), so this package is grounded directly on spec.md
// and on the teacher's general code-organization style (small
// typed value objects, constructors that validate and return errors
// rather than panicking).
package miniscript

import (
	"github.com/coreledger/walletcore/errs"
)

// MaxTreeHeight is the maximum Miniscript AST depth; exceeding it fails
// with RecursionLimit, per spec.md §4.7.
const MaxTreeHeight = 402

// Kind discriminates every Miniscript fragment constructor spec.md
// §4.7 names.
type Kind int

const (
	KindTrue Kind = iota
	KindFalse
	KindPkK
	KindPkH
	KindOlder
	KindAfter
	KindSha256
	KindHash256
	KindRipemd160
	KindHash160
	KindAndV
	KindAndB
	KindAndOr
	KindOrB
	KindOrC
	KindOrD
	KindOrI
	KindThresh
	KindMulti
	KindMultiA
)

// Wrapper is a single wrapper letter applied to a fragment (a, s, c, d,
// v, j, n, t), per spec.md §4.7's "wrapper letters before a leading :".
type Wrapper byte

const (
	WrapA Wrapper = 'a'
	WrapS Wrapper = 's'
	WrapC Wrapper = 'c'
	WrapD Wrapper = 'd'
	WrapV Wrapper = 'v'
	WrapJ Wrapper = 'j'
	WrapN Wrapper = 'n'
	WrapT Wrapper = 't'
)

// BaseType is one of Miniscript's four base types: B (script pushes a
// boolean), V (verify, pushes nothing, must succeed), K (pushes a
// public key), W (wrapped B expecting one extra stack element).
type BaseType byte

const (
	TypeB BaseType = 'B'
	TypeV BaseType = 'V'
	TypeK BaseType = 'K'
	TypeW BaseType = 'W'
)

// Properties are the boolean type properties spec.md §4.7 composes
// alongside BaseType: z (zero-arg, consumes no stack input),
// o (one-arg), n (nonzero: dissatisfaction is impossible once
// satisfied), d (dissatisfiable), u (unit: satisfaction pushes
// exactly a 1).
type Properties struct {
	Z, O, N, D, U bool
}

// Type is a fragment's full type: base type plus properties.
type Type struct {
	Base  BaseType
	Props Properties
}

// ExtData carries the satisfaction/dissatisfaction witness-size upper
// bounds spec.md §4.7's "ExtData propagation" describes, plus the
// timelock-mixing flag used to detect unsatisfiable combinations.
type ExtData struct {
	// PkCount / SigCount are used by multi/thresh script synthesis and
	// by malleability analysis.
	PkCount  int
	SigCount int

	// MaxSatisfactionSize is the upper bound, in witness stack bytes,
	// on a satisfying witness. -1 means "no known bound" (e.g. after
	// combining branches with very different costs is deferred to the
	// caller).
	MaxSatisfactionSize int

	// MaxDissatisfactionSize is the same bound for a dissatisfying
	// witness; nil (HasDissatisfaction=false) if the fragment has no
	// valid dissatisfaction path, per spec.md §4.7 ("when one child has
	// no dissatisfaction, the parent inherits None").
	HasDissatisfaction     bool
	MaxDissatisfactionSize int

	// HasHeightLock / HasTimeLock record whether this fragment (or any
	// descendant) contains an `older`/`after` using block-height or
	// MTP-time units respectively.
	HasHeightLock bool
	HasTimeLock   bool

	// TimelockMixUnsatisfiable is set once a height-lock and a
	// time-lock are combined under and/thresh(k>1), per spec.md §4.7's
	// "unsatisfiable combination flag".
	TimelockMixUnsatisfiable bool
}

// Fragment is one node of the typed Miniscript AST.
type Fragment struct {
	Kind     Kind
	Wrappers []Wrapper

	// Key material / time values, populated depending on Kind.
	PubKeys [][]byte
	Hash    [32]byte
	Value   uint32 // older()/after() argument, or thresh()'s k

	Children []*Fragment

	typ     Type
	ext     ExtData
	height  int
}

// Type returns the fragment's computed type.
func (f *Fragment) Type() Type { return f.typ }

// ExtData returns the fragment's computed size/timelock metadata.
func (f *Fragment) ExtData() ExtData { return f.ext }

// Height returns the fragment's AST height (a leaf has height 1).
func (f *Fragment) Height() int { return f.height }

func leaf(kind Kind) *Fragment {
	return &Fragment{Kind: kind}
}

// True builds the `1` fragment (unconditionally satisfiable).
func True() *Fragment {
	f := leaf(KindTrue)
	f.typ = Type{Base: TypeB, Props: Properties{Z: true, U: true}}
	f.ext = ExtData{MaxSatisfactionSize: 0, HasDissatisfaction: false}
	f.height = 1
	return f
}

// False builds the `0` fragment (never satisfiable).
func False() *Fragment {
	f := leaf(KindFalse)
	f.typ = Type{Base: TypeB, Props: Properties{Z: true, D: true, U: true}}
	f.ext = ExtData{MaxSatisfactionSize: -1, HasDissatisfaction: true, MaxDissatisfactionSize: 0}
	f.height = 1
	return f
}

// PkK builds `pk_k(key)`: push a 33-byte compressed key, type K.
func PkK(pubKey []byte) (*Fragment, error) {
	if len(pubKey) != 33 {
		return nil, errs.New(errs.TypeCheckFailure, "pk_k requires a 33-byte compressed public key")
	}
	f := leaf(KindPkK)
	f.PubKeys = [][]byte{pubKey}
	f.typ = Type{Base: TypeK, Props: Properties{O: true, N: true, D: true, U: true}}
	f.ext = ExtData{PkCount: 1, SigCount: 1, MaxSatisfactionSize: 73, HasDissatisfaction: true, MaxDissatisfactionSize: 1}
	f.height = 1
	return f, nil
}

// PkH builds `pk_h(key)`: hash160 of a compressed key, type K.
func PkH(pubKey []byte) (*Fragment, error) {
	if len(pubKey) != 33 {
		return nil, errs.New(errs.TypeCheckFailure, "pk_h requires a 33-byte compressed public key")
	}
	f := leaf(KindPkH)
	f.PubKeys = [][]byte{pubKey}
	f.typ = Type{Base: TypeK, Props: Properties{N: true, D: true, U: true}}
	f.ext = ExtData{PkCount: 1, SigCount: 1, MaxSatisfactionSize: 73 + 34, HasDissatisfaction: true, MaxDissatisfactionSize: 35}
	f.height = 1
	return f, nil
}

// Older builds `older(n)`: CHECKSEQUENCEVERIFY, type B, z/n, no
// dissatisfaction (spec.md §4.7's timelock fragments are never
// dissatisfiable).
func Older(n uint32) (*Fragment, error) {
	if n == 0 || n >= 1<<31 {
		return nil, errs.New(errs.TypeCheckFailure, "older() requires 0 < n < 2^31")
	}
	f := leaf(KindOlder)
	f.Value = n
	f.typ = Type{Base: TypeB, Props: Properties{Z: true, N: true}}
	f.ext = ExtData{MaxSatisfactionSize: 0, HasDissatisfaction: false, HasHeightLock: n < 1<<22, HasTimeLock: n >= 1<<22}
	f.height = 1
	return f, nil
}

// After builds `after(n)`: CHECKLOCKTIMEVERIFY, type B, z/n.
func After(n uint32) (*Fragment, error) {
	if n == 0 {
		return nil, errs.New(errs.TypeCheckFailure, "after() requires n > 0")
	}
	f := leaf(KindAfter)
	f.Value = n
	f.typ = Type{Base: TypeB, Props: Properties{Z: true, N: true}}
	f.ext = ExtData{MaxSatisfactionSize: 0, HasDissatisfaction: false, HasHeightLock: n < 500000000, HasTimeLock: n >= 500000000}
	f.height = 1
	return f, nil
}

func hashFragment(kind Kind, h [32]byte, satSize int) *Fragment {
	f := leaf(kind)
	f.Hash = h
	f.typ = Type{Base: TypeB, Props: Properties{N: true, D: true, U: true}}
	f.ext = ExtData{MaxSatisfactionSize: satSize, HasDissatisfaction: true, MaxDissatisfactionSize: 1}
	f.height = 1
	return f
}

// Sha256 builds `sha256(h)`.
func Sha256(h [32]byte) *Fragment { return hashFragment(KindSha256, h, 33) }

// Hash256 builds `hash256(h)`.
func Hash256(h [32]byte) *Fragment { return hashFragment(KindHash256, h, 33) }

// Ripemd160 builds `ripemd160(h)`.
func Ripemd160(h [32]byte) *Fragment { return hashFragment(KindRipemd160, h, 33) }

// Hash160 builds `hash160(h)`.
func Hash160(h [32]byte) *Fragment { return hashFragment(KindHash160, h, 33) }

func combinedHeight(children ...*Fragment) (int, error) {
	max := 0
	for _, c := range children {
		if c.height > max {
			max = c.height
		}
	}
	h := max + 1
	if h > MaxTreeHeight {
		return 0, errs.New(errs.RecursionLimit, "miniscript AST exceeds the maximum tree height")
	}
	return h, nil
}

func mixesTimelocks(children ...*Fragment) bool {
	hasHeight, hasTime := false, false
	for _, c := range children {
		if c.ext.HasHeightLock || c.ext.TimelockMixUnsatisfiable {
			hasHeight = true
		}
		if c.ext.HasTimeLock || c.ext.TimelockMixUnsatisfiable {
			hasTime = true
		}
	}
	return hasHeight && hasTime
}

// AndV builds `and_v(A, B)`: requires A.V, type is B's type, per
// spec.md §4.7's `and_v(V, B) = B` rule.
func AndV(a, b *Fragment) (*Fragment, error) {
	if a.typ.Base != TypeV {
		return nil, errs.New(errs.TypeCheckFailure, "and_v requires its first child to have type V")
	}
	h, err := combinedHeight(a, b)
	if err != nil {
		return nil, err
	}
	f := &Fragment{Kind: KindAndV, Children: []*Fragment{a, b}, height: h}
	f.typ = Type{Base: b.typ.Base, Props: Properties{
		Z: a.typ.Props.Z && b.typ.Props.Z,
		N: a.typ.Props.N || b.typ.Props.N,
		U: b.typ.Props.U,
	}}
	f.ext = ExtData{
		MaxSatisfactionSize:    addSizes(a.ext.MaxSatisfactionSize, b.ext.MaxSatisfactionSize),
		HasDissatisfaction:     false,
		HasHeightLock:          a.ext.HasHeightLock || b.ext.HasHeightLock,
		HasTimeLock:            a.ext.HasTimeLock || b.ext.HasTimeLock,
		TimelockMixUnsatisfiable: a.ext.TimelockMixUnsatisfiable || b.ext.TimelockMixUnsatisfiable || mixesTimelocks(a, b),
	}
	return f, nil
}

// AndB builds `and_b(A, W)`: A is type B, second child is type W.
func AndB(a, w *Fragment) (*Fragment, error) {
	if a.typ.Base != TypeB {
		return nil, errs.New(errs.TypeCheckFailure, "and_b requires its first child to have type B")
	}
	if w.typ.Base != TypeW {
		return nil, errs.New(errs.TypeCheckFailure, "and_b requires its second child to have type W")
	}
	h, err := combinedHeight(a, w)
	if err != nil {
		return nil, err
	}
	f := &Fragment{Kind: KindAndB, Children: []*Fragment{a, w}, height: h}
	f.typ = Type{Base: TypeB, Props: Properties{
		Z: a.typ.Props.Z && w.typ.Props.Z,
		N: a.typ.Props.N || w.typ.Props.N,
		D: a.typ.Props.D && w.typ.Props.D,
		U: true,
	}}
	f.ext = ExtData{
		MaxSatisfactionSize:    addSizes(a.ext.MaxSatisfactionSize, w.ext.MaxSatisfactionSize),
		HasDissatisfaction:     a.ext.HasDissatisfaction && w.ext.HasDissatisfaction,
		MaxDissatisfactionSize: addSizes(a.ext.MaxDissatisfactionSize, w.ext.MaxDissatisfactionSize),
		HasHeightLock:          a.ext.HasHeightLock || w.ext.HasHeightLock,
		HasTimeLock:            a.ext.HasTimeLock || w.ext.HasTimeLock,
		TimelockMixUnsatisfiable: a.ext.TimelockMixUnsatisfiable || w.ext.TimelockMixUnsatisfiable || mixesTimelocks(a, w),
	}
	return f, nil
}

// AndOr builds `andor(A, B, C)`: A is type B with d, B and C share a
// base type (the parent's base type).
func AndOr(a, b, c *Fragment) (*Fragment, error) {
	if a.typ.Base != TypeB || !a.typ.Props.D {
		return nil, errs.New(errs.TypeCheckFailure, "andor requires its first child to have type B and property d")
	}
	if b.typ.Base != c.typ.Base {
		return nil, errs.New(errs.TypeCheckFailure, "andor requires its second and third children to share a base type")
	}
	h, err := combinedHeight(a, b, c)
	if err != nil {
		return nil, err
	}
	f := &Fragment{Kind: KindAndOr, Children: []*Fragment{a, b, c}, height: h}
	f.typ = Type{Base: b.typ.Base, Props: Properties{
		Z: a.typ.Props.Z && b.typ.Props.Z && c.typ.Props.Z,
		U: b.typ.Props.U && c.typ.Props.U,
		D: c.typ.Props.D,
	}}
	f.ext = ExtData{
		MaxSatisfactionSize: maxInt(
			addSizes(a.ext.MaxSatisfactionSize, b.ext.MaxSatisfactionSize),
			addSizes(a.ext.MaxDissatisfactionSize, c.ext.MaxSatisfactionSize),
		),
		HasDissatisfaction:     c.ext.HasDissatisfaction,
		MaxDissatisfactionSize: addSizes(a.ext.MaxDissatisfactionSize, c.ext.MaxDissatisfactionSize),
		HasHeightLock:          a.ext.HasHeightLock || b.ext.HasHeightLock || c.ext.HasHeightLock,
		HasTimeLock:            a.ext.HasTimeLock || b.ext.HasTimeLock || c.ext.HasTimeLock,
	}
	f.ext.TimelockMixUnsatisfiable = mixesTimelocks(a, b) || mixesTimelocks(a, c)
	return f, nil
}

func orFragment(kind Kind, a, b *Fragment, requireBothB bool) (*Fragment, error) {
	if a.typ.Base != TypeB || !a.typ.Props.D {
		return nil, errs.New(errs.TypeCheckFailure, "or combinators require their first child to have type B and property d")
	}
	if requireBothB && b.typ.Base != TypeB {
		return nil, errs.New(errs.TypeCheckFailure, "or combinator requires its second child to have type B")
	}
	h, err := combinedHeight(a, b)
	if err != nil {
		return nil, err
	}
	f := &Fragment{Kind: kind, Children: []*Fragment{a, b}, height: h}
	f.typ = Type{Base: b.typ.Base, Props: Properties{
		Z: a.typ.Props.Z && b.typ.Props.Z,
		D: b.typ.Props.D,
		U: b.typ.Props.U,
	}}
	f.ext = ExtData{
		MaxSatisfactionSize: maxInt(
			addSizes(a.ext.MaxSatisfactionSize, b.ext.MaxDissatisfactionSize),
			addSizes(a.ext.MaxDissatisfactionSize, b.ext.MaxSatisfactionSize),
		),
		HasDissatisfaction:     a.ext.HasDissatisfaction && b.ext.HasDissatisfaction,
		MaxDissatisfactionSize: addSizes(a.ext.MaxDissatisfactionSize, b.ext.MaxDissatisfactionSize),
		HasHeightLock:          a.ext.HasHeightLock || b.ext.HasHeightLock,
		HasTimeLock:            a.ext.HasTimeLock || b.ext.HasTimeLock,
	}
	return f, nil
}

// OrB builds `or_b(A, W)`.
func OrB(a, w *Fragment) (*Fragment, error) { return orFragment(KindOrB, a, w, false) }

// OrC builds `or_c(A, V)`.
func OrC(a, v *Fragment) (*Fragment, error) {
	if v.typ.Base != TypeV {
		return nil, errs.New(errs.TypeCheckFailure, "or_c requires its second child to have type V")
	}
	return orFragment(KindOrC, a, v, false)
}

// OrD builds `or_d(A, B)`.
func OrD(a, b *Fragment) (*Fragment, error) { return orFragment(KindOrD, a, b, true) }

// OrI builds `or_i(A, B)`: both children share the parent's base type.
func OrI(a, b *Fragment) (*Fragment, error) {
	if a.typ.Base != b.typ.Base {
		return nil, errs.New(errs.TypeCheckFailure, "or_i requires both children to share a base type")
	}
	h, err := combinedHeight(a, b)
	if err != nil {
		return nil, err
	}
	f := &Fragment{Kind: KindOrI, Children: []*Fragment{a, b}, height: h}
	f.typ = Type{Base: a.typ.Base, Props: Properties{
		D: a.typ.Props.D || b.typ.Props.D,
		U: a.typ.Props.U && b.typ.Props.U,
	}}
	f.ext = ExtData{
		MaxSatisfactionSize: maxInt(
			addSizes(2, a.ext.MaxSatisfactionSize),
			addSizes(2, b.ext.MaxSatisfactionSize),
		),
		HasDissatisfaction: a.ext.HasDissatisfaction || b.ext.HasDissatisfaction,
		HasHeightLock:      a.ext.HasHeightLock || b.ext.HasHeightLock,
		HasTimeLock:        a.ext.HasTimeLock || b.ext.HasTimeLock,
	}
	return f, nil
}

// Thresh builds `thresh(k, subs...)`: the first sub has type B, the
// rest type W; k of len(subs) must be satisfied.
func Thresh(k int, subs []*Fragment) (*Fragment, error) {
	if k <= 0 || k > len(subs) {
		return nil, errs.New(errs.TypeCheckFailure, "thresh requires 0 < k <= len(subs)")
	}
	if len(subs) == 0 || subs[0].typ.Base != TypeB {
		return nil, errs.New(errs.TypeCheckFailure, "thresh requires its first subexpression to have type B")
	}
	for _, s := range subs[1:] {
		if s.typ.Base != TypeW {
			return nil, errs.New(errs.TypeCheckFailure, "thresh requires every subexpression after the first to have type W")
		}
	}
	h, err := combinedHeight(subs...)
	if err != nil {
		return nil, err
	}
	if mixesTimelocks(subs...) && k > 1 {
		// tracked via TimelockMixUnsatisfiable below; still constructible,
		// the flag surfaces the issue to policy analysis rather than
		// rejecting outright, per spec.md §4.7.
	}
	f := &Fragment{Kind: KindThresh, Children: subs, Value: uint32(k), height: h}
	allZ := true
	for _, s := range subs {
		allZ = allZ && s.typ.Props.Z
	}
	f.typ = Type{Base: TypeB, Props: Properties{Z: allZ, D: true, U: true}}
	total := 0
	for _, s := range subs {
		total = addSizes(total, s.ext.MaxSatisfactionSize)
	}
	f.ext = ExtData{
		MaxSatisfactionSize:      total,
		HasDissatisfaction:       true,
		MaxDissatisfactionSize:   len(subs),
		TimelockMixUnsatisfiable: mixesTimelocks(subs...) && k > 1,
	}
	for _, s := range subs {
		f.ext.HasHeightLock = f.ext.HasHeightLock || s.ext.HasHeightLock
		f.ext.HasTimeLock = f.ext.HasTimeLock || s.ext.HasTimeLock
	}
	return f, nil
}

// Multi builds `multi(k, keys...)`: CHECKMULTISIG over up to 20 keys.
func Multi(k int, keys [][]byte) (*Fragment, error) {
	if k <= 0 || k > len(keys) || len(keys) > 20 {
		return nil, errs.New(errs.TypeCheckFailure, "multi requires 0 < k <= len(keys) <= 20")
	}
	f := leaf(KindMulti)
	f.PubKeys = keys
	f.Value = uint32(k)
	f.typ = Type{Base: TypeB, Props: Properties{N: true, D: true, U: true}}
	f.ext = ExtData{PkCount: len(keys), SigCount: k, MaxSatisfactionSize: 1 + 73*k, HasDissatisfaction: true, MaxDissatisfactionSize: k + 1}
	f.height = 1
	return f, nil
}

// MultiA builds `multi_a(k, keys...)`: the Tapscript OP_CHECKSIGADD
// multisig variant, up to 999 keys.
func MultiA(k int, keys [][]byte) (*Fragment, error) {
	if k <= 0 || k > len(keys) || len(keys) > 999 {
		return nil, errs.New(errs.TypeCheckFailure, "multi_a requires 0 < k <= len(keys) <= 999")
	}
	f := leaf(KindMultiA)
	f.PubKeys = keys
	f.Value = uint32(k)
	f.typ = Type{Base: TypeB, Props: Properties{D: true, U: true}}
	f.ext = ExtData{PkCount: len(keys), SigCount: k, MaxSatisfactionSize: 66 * k, HasDissatisfaction: true, MaxDissatisfactionSize: len(keys)}
	f.height = 1
	return f, nil
}

func addSizes(a, b int) int {
	if a < 0 || b < 0 {
		return -1
	}
	return a + b
}

func maxInt(a, b int) int {
	if a < 0 {
		return b
	}
	if b < 0 {
		return a
	}
	if a > b {
		return a
	}
	return b
}
