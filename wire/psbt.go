// Copyright (c) 2025 walletcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"

	"github.com/btcsuite/btcd/btcutil/psbt"

	"github.com/coreledger/walletcore/errs"
)

// Psbt is the BIP-174 Partially Signed Bitcoin Transaction skeleton
// spec.md §4.6 (C7) names, delegated entirely to
// github.com/btcsuite/btcd/btcutil/psbt, which already preserves
// unknown keys verbatim on decode/encode round-trips.
type Psbt = psbt.Packet

// DecodePsbt parses a base64 or raw-binary PSBT, matching spec.md
// §7's round-trip invariant (decode(encode(x)) == x).
func DecodePsbt(data []byte) (*Psbt, error) {
	b64 := !bytes.HasPrefix(data, []byte("psbt\xff"))
	p, err := psbt.NewFromRawBytes(bytes.NewReader(data), b64)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidEncoding, "malformed PSBT", err)
	}
	return p, nil
}

// EncodePsbt serializes a PSBT back to its raw binary form.
func EncodePsbt(p *Psbt) ([]byte, error) {
	var buf bytes.Buffer
	if err := p.Serialize(&buf); err != nil {
		return nil, errs.Wrap(errs.InvalidEncoding, "failed to serialize PSBT", err)
	}
	return buf.Bytes(), nil
}
