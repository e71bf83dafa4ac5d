// Package errs defines the stable error discriminants that callers of
// walletcore switch on, per the error taxonomy in spec.md §7. Individual
// packages raise these via errors.Is/errors.As; the string text is
// advisory only and may change between releases.
package errs

import "fmt"

// Code identifies a single stable error discriminant.
type Code int

const (
	// InvalidEncoding covers malformed Base58/Bech32/hex/varint/PSBT input.
	InvalidEncoding Code = iota
	// InvalidKeyMaterial covers a scalar of 0 or >= n, an off-curve point,
	// or key material of the wrong length.
	InvalidKeyMaterial
	// CurveMathFailure covers infinity results, an absent square root, or
	// a tweak that pushed a scalar out of range.
	CurveMathFailure
	// SighashOutOfRange covers an input index >= inputs during sighash.
	SighashOutOfRange
	// TypeCheckFailure covers a Miniscript type rule violation.
	TypeCheckFailure
	// RecursionLimit covers a Miniscript tree deeper than 402 nodes.
	RecursionLimit
	// PolicyUnsatisfiable covers a timelock combination proven unsatisfiable.
	PolicyUnsatisfiable
	// MuSigProtocolFailure covers nonce-aggregation infinity, an
	// out-of-range partial signature, or a verification mismatch.
	MuSigProtocolFailure
	// InsufficientFunds covers coin selection failing to reach its target.
	InsufficientFunds
	// ReplacementFeeTooLow covers an RBF candidate violating BIP-125.
	ReplacementFeeTooLow
)

var names = map[Code]string{
	InvalidEncoding:       "InvalidEncoding",
	InvalidKeyMaterial:    "InvalidKeyMaterial",
	CurveMathFailure:      "CurveMathFailure",
	SighashOutOfRange:     "SighashOutOfRange",
	TypeCheckFailure:      "TypeCheckFailure",
	RecursionLimit:        "RecursionLimit",
	PolicyUnsatisfiable:   "PolicyUnsatisfiable",
	MuSigProtocolFailure:  "MuSigProtocolFailure",
	InsufficientFunds:     "InsufficientFunds",
	ReplacementFeeTooLow:  "ReplacementFeeTooLow",
}

func (c Code) String() string {
	if s, ok := names[c]; ok {
		return s
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// Error is a typed error carrying a stable Code plus an advisory message
// and optional wrapped cause.
type Error struct {
	Code   Code
	Msg    string
	Reason error
}

func (e *Error) Error() string {
	if e.Reason != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Msg, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func (e *Error) Unwrap() error { return e.Reason }

// Is reports whether target is a *Error with the same Code, so callers can
// write errors.Is(err, errs.New(errs.InsufficientFunds, "")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New builds an *Error with the given discriminant and message.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// Wrap builds an *Error with the given discriminant, message, and
// underlying cause.
func Wrap(code Code, msg string, reason error) *Error {
	return &Error{Code: code, Msg: msg, Reason: reason}
}
