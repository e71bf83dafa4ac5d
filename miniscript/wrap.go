// Copyright (c) 2025 walletcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package miniscript

import "github.com/coreledger/walletcore/errs"

// Wrap applies a single wrapper letter to f, per spec.md §4.7's typing
// table (e.g. `j:X requires X.n`). Wrappers nest outside-in in the
// descriptor source (`asdv:X` applies v, then d, then s, then a), so
// callers fold a token's wrapper string back-to-front through Wrap.
func Wrap(w Wrapper, f *Fragment) (*Fragment, error) {
	switch w {
	case WrapA:
		if f.typ.Base != TypeB {
			return nil, errs.New(errs.TypeCheckFailure, "a: wrapper requires its child to have type B")
		}
		return wrapped(w, f, Type{Base: TypeW, Props: Properties{Z: f.typ.Props.Z, N: f.typ.Props.N, D: f.typ.Props.D, U: f.typ.Props.U}}, f.ext)

	case WrapS:
		if f.typ.Base != TypeB || !f.typ.Props.O {
			return nil, errs.New(errs.TypeCheckFailure, "s: wrapper requires its child to have type B and property o")
		}
		return wrapped(w, f, Type{Base: TypeW, Props: Properties{N: f.typ.Props.N, D: f.typ.Props.D, U: f.typ.Props.U}}, f.ext)

	case WrapC:
		if f.typ.Base != TypeK {
			return nil, errs.New(errs.TypeCheckFailure, "c: wrapper requires its child to have type K")
		}
		ext := f.ext
		ext.MaxSatisfactionSize = addSizes(ext.MaxSatisfactionSize, 0)
		return wrapped(w, f, Type{Base: TypeB, Props: Properties{O: f.typ.Props.O, N: true, D: f.typ.Props.D, U: true}}, ext)

	case WrapD:
		if f.typ.Base != TypeV {
			return nil, errs.New(errs.TypeCheckFailure, "d: wrapper requires its child to have type V")
		}
		ext := f.ext
		ext.HasDissatisfaction = true
		ext.MaxDissatisfactionSize = 1
		return wrapped(w, f, Type{Base: TypeB, Props: Properties{Z: f.typ.Props.Z, N: true, D: true, U: true}}, ext)

	case WrapV:
		if f.typ.Base != TypeB {
			return nil, errs.New(errs.TypeCheckFailure, "v: wrapper requires its child to have type B")
		}
		ext := f.ext
		ext.HasDissatisfaction = false
		return wrapped(w, f, Type{Base: TypeV, Props: Properties{Z: f.typ.Props.Z, N: f.typ.Props.N}}, ext)

	case WrapJ:
		if f.typ.Base != TypeB || !f.typ.Props.N {
			return nil, errs.New(errs.TypeCheckFailure, "j: wrapper requires its child to have type B and property n")
		}
		return wrapped(w, f, Type{Base: TypeB, Props: Properties{N: true, D: true, U: f.typ.Props.U}}, f.ext)

	case WrapN:
		if f.typ.Base != TypeB {
			return nil, errs.New(errs.TypeCheckFailure, "n: wrapper requires its child to have type B")
		}
		return wrapped(w, f, Type{Base: TypeB, Props: Properties{Z: f.typ.Props.Z, N: f.typ.Props.N, D: f.typ.Props.D, U: true}}, f.ext)

	case WrapT:
		if f.typ.Base != TypeV {
			return nil, errs.New(errs.TypeCheckFailure, "t: wrapper requires its child to have type V")
		}
		ext := f.ext
		ext.HasDissatisfaction = false
		return wrapped(w, f, Type{Base: TypeB, Props: Properties{Z: f.typ.Props.Z, N: true, U: true}}, ext)

	default:
		return nil, errs.New(errs.TypeCheckFailure, "unknown wrapper letter")
	}
}

func wrapped(w Wrapper, inner *Fragment, typ Type, ext ExtData) (*Fragment, error) {
	f := &Fragment{
		Kind:     inner.Kind,
		Wrappers: append(append([]Wrapper{w}, inner.Wrappers...)),
		PubKeys:  inner.PubKeys,
		Hash:     inner.Hash,
		Value:    inner.Value,
		Children: inner.Children,
		typ:      typ,
		ext:      ext,
		height:   inner.height,
	}
	return f, nil
}
