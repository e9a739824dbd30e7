// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package record

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// A Key is the key for a record.
type Key struct {
	values []any
}

func NewKey(v ...any) *Key {
	return &Key{v}
}

func (k *Key) Len() int {
	if k == nil {
		return 0
	}
	return len(k.values)
}

func (k *Key) Get(i int) any {
	if i < 0 || i >= k.Len() {
		return nil
	}
	return k.values[i]
}

func (k *Key) SliceI(i int) *Key {
	return &Key{k.values[i:]}
}

func (k *Key) SliceJ(j int) *Key {
	return &Key{k.values[:j]}
}

// Append creates a child key of this key.
func (k *Key) Append(v ...any) *Key {
	if len(v) == 0 {
		return k
	}
	if k.Len() == 0 {
		return &Key{v}
	}
	l := make([]any, len(k.values)+len(v))
	n := copy(l, k.values)
	copy(l[n:], v)
	return &Key{l}
}

// AppendKey appends one key to another. AppendKey will panic if K is not empty
// and L starts with a precomputed [KeyHash].
func (k *Key) AppendKey(l *Key) *Key {
	if k.Len() == 0 {
		return l
	}
	if l.Len() == 0 {
		return k
	}
	if _, ok := l.values[0].(KeyHash); ok {
		panic("cannot append a precomputed key hash to another key")
	}
	return k.Append(l.values...)
}

// Hash converts the record key to a storage key.
func (k *Key) Hash() KeyHash {
	if k.Len() == 0 {
		return KeyHash{}
	}

	// If the first value is a KeyHash, append to that
	if h, ok := k.values[0].(KeyHash); ok {
		return h.Append(k.values[1:]...)
	}
	return (KeyHash{}).Append(k.values...)
}

// Valid returns an error if any part of the key cannot be hashed.
func (k *Key) Valid() error {
	for i, v := range k.values {
		if !IsKeyPart(v) {
			return fmt.Errorf("key part %d: %T is not a supported key part type", i, v)
		}
	}
	return nil
}

// String returns a human-readable string for the key.
func (k *Key) String() string {
	if k.Len() == 0 {
		return "()"
	}
	s := make([]string, len(k.values))
	for i, v := range k.values {
		switch v := v.(type) {
		case []byte:
			s[i] = hex.EncodeToString(v)
		case [32]byte:
			s[i] = hex.EncodeToString(v[:])
		case string:
			s[i] = v
		default:
			s[i] = fmt.Sprint(v)
		}
	}
	return strings.Join(s, ".")
}

// Copy returns a copy of the key.
func (k *Key) Copy() *Key {
	if k == nil {
		return nil
	}
	l := make([]any, len(k.values))
	copy(l, k.values)
	return &Key{l}
}

// Equal checks if the two keys are equal.
func (k *Key) Equal(l *Key) bool {
	if k.Len() != l.Len() {
		return false
	}
	if k == nil || l == nil {
		return k.Len() == 0 && l.Len() == 0
	}
	for i := range k.values {
		a, okA := keyBytes(k.values[i])
		b, okB := keyBytes(l.values[i])
		if !okA || !okB || string(a) != string(b) {
			return false
		}
	}
	return true
}
