// Copyright (c) 2025 walletcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainid parses and formats CAIP-2 chain identifiers
// ("namespace:reference", e.g. "eip155:1"), per spec.md §8 test
// vector 6. There is no upstream CAIP-2 library in the example pack;
// this is grounded directly on the CAIP-2 grammar spec.md names, in
// the same small-value-object style the rest of this module uses for
// its data-model types.
package chainid

import (
	"strings"

	"github.com/coreledger/walletcore/errs"
)

// ChainID is a parsed CAIP-2 identifier.
type ChainID struct {
	Namespace string
	Reference string
}

const (
	minNamespaceLen = 3
	maxNamespaceLen = 8
	minReferenceLen = 1
	maxReferenceLen = 32
)

func isCAIPChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-'
}

// Parse splits and validates a CAIP-2 string "namespace:reference".
func Parse(s string) (ChainID, error) {
	idx := strings.IndexByte(s, ':')
	if idx < 0 {
		return ChainID{}, errs.New(errs.InvalidEncoding, "chain id missing ':' separator")
	}
	namespace, reference := s[:idx], s[idx+1:]

	if len(namespace) < minNamespaceLen || len(namespace) > maxNamespaceLen {
		return ChainID{}, errs.New(errs.InvalidEncoding, "chain id namespace must be 3-8 characters")
	}
	if len(reference) < minReferenceLen || len(reference) > maxReferenceLen {
		return ChainID{}, errs.New(errs.InvalidEncoding, "chain id reference must be 1-32 characters")
	}
	for i := 0; i < len(namespace); i++ {
		if !isCAIPChar(namespace[i]) {
			return ChainID{}, errs.New(errs.InvalidEncoding, "chain id namespace contains an invalid character")
		}
	}
	for i := 0; i < len(reference); i++ {
		c := reference[i]
		if !isCAIPChar(c) && !(c >= 'A' && c <= 'Z') {
			return ChainID{}, errs.New(errs.InvalidEncoding, "chain id reference contains an invalid character")
		}
	}
	return ChainID{Namespace: namespace, Reference: reference}, nil
}

// String renders "namespace:reference".
func (c ChainID) String() string {
	return c.Namespace + ":" + c.Reference
}

// Well-known namespaces referenced elsewhere in this module.
const (
	NamespaceEIP155 = "eip155" // Ethereum and EVM-compatible chains
	NamespaceBIP122 = "bip122" // Bitcoin and Bitcoin-lineage chains
)

// EIP155 builds the CAIP-2 id for an EVM chain given its numeric
// chain id (e.g. EIP155(1) == "eip155:1").
func EIP155(numericChainID string) ChainID {
	return ChainID{Namespace: NamespaceEIP155, Reference: numericChainID}
}
