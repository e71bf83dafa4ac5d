// Copyright (c) 2025 walletcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package secp256k1

import "github.com/coreledger/walletcore/errs"

// ErrInvalidKeyMaterial is raised for a scalar of 0 or >= n, an off-curve
// point, or key material of the wrong length.
func ErrInvalidKeyMaterial(msg string) error {
	return errs.New(errs.InvalidKeyMaterial, msg)
}

// ErrCurveMathFailure is raised when an operation produces the point at
// infinity where a non-infinity result was required, or liftX finds no
// square root.
func ErrCurveMathFailure(msg string) error {
	return errs.New(errs.CurveMathFailure, msg)
}

// ErrTweakOutOfRange is raised when a key tweak pushes a scalar to 0 or
// >= n, or collapses a point to infinity.
func ErrTweakOutOfRange(msg string) error {
	return errs.New(errs.CurveMathFailure, "tweak out of range: "+msg)
}
