// Copyright 2026 The Nanoc Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the standard CBOR encoding configuration for
// on-disk state: the compiled-content cache index and the checksum
// store. The encoder uses Core Deterministic Encoding (RFC 8949 §4.2)
// — sorted map keys, smallest integer encoding, no indefinite-length
// items — so the same logical state always serializes to identical
// bytes and state files diff cleanly across runs.
package codec

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

var encMode cbor.EncMode

// decMode accepts standard CBOR and silently ignores unknown fields,
// so older binaries can read state written by newer ones.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// State files only ever use string map keys. When decoding
		// into an any-typed target the decoder must pick a concrete
		// map type; the CBOR default map[interface{}]interface{} is
		// unusable by most Go code, so force map[string]any.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v to CBOR using Core Deterministic Encoding.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}
