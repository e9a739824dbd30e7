// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package record

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync"
)

const KeyHashLength = 32

// debugKeys records the composite key of every hash so String can print it.
var debugKeys = false

var debugKeyMap = map[KeyHash]string{}
var debugKeyMu = new(sync.RWMutex)

// EnableKeyDebugging makes [KeyHash.String] print the original composite
// key. It leaks memory and is meant for tests and debugging sessions.
func EnableKeyDebugging() { debugKeys = true }

type KeyHash [KeyHashLength]byte

// String hex encodes the key. If debugging is enabled, String looks up the original composite key.
func (k KeyHash) String() string {
	if !debugKeys {
		return fmt.Sprintf("%X", k[:])
	}

	debugKeyMu.RLock()
	v := debugKeyMap[k]
	debugKeyMu.RUnlock()

	if v != "" {
		return v
	}
	return fmt.Sprintf("%X", k[:])
}

// MarshalJSON is implemented for JSON-based logging
func (k KeyHash) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// Append hashes each value into the key, in order. Each step computes
// sha256(k || bytes(value)). Append panics if a value is not a supported key
// part; use [IsKeyPart] or [Key.Valid] to check first.
func (k KeyHash) Append(key ...interface{}) KeyHash {
	// If k is the zero value, don't stringify it
	var s string
	if debugKeys && k != (KeyHash{}) {
		s = k.String()
	}

	for _, key := range key {
		bytes, printv := convert(key)
		b := make([]byte, KeyHashLength+len(bytes))
		copy(b, k[:])
		copy(b[KeyHashLength:], bytes)
		k = sha256.Sum256(b)

		if debugKeys {
			if printv {
				s += fmt.Sprintf(".%v", key)
			} else {
				s += fmt.Sprintf(".%X", bytes)
			}
		}
	}

	if !debugKeys {
		return k
	}

	// If k was originally the zero value, remove the leading dot
	if len(s) > 0 && s[0] == '.' {
		s = s[1:]
	}

	debugKeyMu.Lock()
	debugKeyMap[k] = s
	debugKeyMu.Unlock()
	return k
}

func convert(key interface{}) (bytes []byte, printVal bool) {
	bytes, ok := keyBytes(key)
	if !ok {
		panic(fmt.Errorf("cannot use %T as a key part", key))
	}

	switch key.(type) {
	case nil, []byte, [32]byte, *[32]byte, interface{ Bytes() []byte }:
		return bytes, false
	default:
		return bytes, true
	}
}

// IsKeyPart returns true if the value can be used as part of a key.
func IsKeyPart(v interface{}) bool {
	_, ok := keyBytes(v)
	return ok
}

func keyBytes(v interface{}) ([]byte, bool) {
	switch v := v.(type) {
	case nil:
		return []byte{}, true
	case []byte:
		return v, true
	case [32]byte:
		return v[:], true
	case *[32]byte:
		return v[:], true
	case KeyHash:
		return v[:], true
	case string:
		return []byte(v), true
	case interface{ Bytes() []byte }:
		return v.Bytes(), true
	case fmt.Stringer:
		return []byte(v.String()), true
	case uint:
		return encodeUint(uint64(v)), true
	case uint8:
		return encodeUint(uint64(v)), true
	case uint16:
		return encodeUint(uint64(v)), true
	case uint32:
		return encodeUint(uint64(v)), true
	case uint64:
		return encodeUint(v), true
	case int:
		return encodeInt(int64(v)), true
	case int8:
		return encodeInt(int64(v)), true
	case int16:
		return encodeInt(int64(v)), true
	case int32:
		return encodeInt(int64(v)), true
	case int64:
		return encodeInt(v), true
	default:
		return nil, false
	}
}

func encodeUint(v uint64) []byte {
	var buf [16]byte
	n := binary.PutUvarint(buf[:], v)
	return buf[:n]
}

func encodeInt(v int64) []byte {
	var buf [16]byte
	n := binary.PutVarint(buf[:], v)
	return buf[:n]
}
