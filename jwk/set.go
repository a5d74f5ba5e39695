package jwk

import (
	"encoding/json"
	"reflect"

	"github.com/joseware/jose/jwa"
)

// Len returns the number of keys in the set.
func (set *Set) Len() int {
	if set == nil {
		return 0
	}
	return len(set.Keys)
}

// At returns the key at index i, or nil if i is out of range.
func (set *Set) At(i int) *Key {
	if set == nil || i < 0 || i >= len(set.Keys) {
		return nil
	}
	return set.Keys[i]
}

// Append adds key to the end of the set.
func (set *Set) Append(key *Key) {
	set.Keys = append(set.Keys, key)
}

// ReplaceAt replaces the key at index i. It returns an error if i is
// out of range.
func (set *Set) ReplaceAt(i int, key *Key) error {
	if i < 0 || i >= len(set.Keys) {
		return errIndexOutOfRange
	}
	set.Keys[i] = key
	return nil
}

// RemoveAt removes the key at index i, preserving order. It returns an
// error if i is out of range.
func (set *Set) RemoveAt(i int) error {
	if i < 0 || i >= len(set.Keys) {
		return errIndexOutOfRange
	}
	set.Keys = append(set.Keys[:i], set.Keys[i+1:]...)
	return nil
}

// Clear removes every key from the set.
func (set *Set) Clear() {
	set.Keys = nil
}

// Clone returns a deep-ish copy of the set: a new backing slice holding
// the same *Key pointers, since Key values are treated as immutable
// once constructed.
func (set *Set) Clone() *Set {
	if set == nil {
		return nil
	}
	clone := &Set{Keys: make([]*Key, len(set.Keys))}
	copy(clone.Keys, set.Keys)
	return clone
}

// Equal reports whether a and b contain the same keys, in the same
// order.
func (a *Set) Equal(b *Set) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Keys) != len(b.Keys) {
		return false
	}
	for i := range a.Keys {
		ja, err := a.Keys[i].MarshalJSON()
		if err != nil {
			return false
		}
		jb, err := b.Keys[i].MarshalJSON()
		if err != nil {
			return false
		}
		var ma, mb map[string]any
		if json.Unmarshal(ja, &ma) != nil || json.Unmarshal(jb, &mb) != nil {
			return false
		}
		if !reflect.DeepEqual(ma, mb) {
			return false
		}
	}
	return true
}

// Search returns a new set containing every key that matches template,
// per Match.
func (set *Set) Search(template map[string]any) *Set {
	result := &Set{}
	for _, key := range set.Keys {
		if Match(key, template) {
			result.Append(key)
		}
	}
	return result
}

// SelectKey resolves the open question of how a JWS/JWE verification
// query should pick among multiple candidates in a set: first match by
// kid (insertion order), else first match by alg, else the first key
// in the set.
func (set *Set) SelectKey(kid string, alg jwa.KeyAlgorithm) (*Key, bool) {
	if set == nil || len(set.Keys) == 0 {
		return nil, false
	}
	if kid != "" {
		for _, key := range set.Keys {
			if key.kid == kid {
				return key, true
			}
		}
	}
	if alg != "" {
		for _, key := range set.Keys {
			if key.alg == alg {
				return key, true
			}
		}
	}
	return set.Keys[0], true
}

// Match implements spec section 4.1's "match": every key/value pair in
// template must structurally equal the corresponding member of key's
// JSON view.
func Match(key *Key, template map[string]any) bool {
	if len(template) == 0 {
		return true
	}
	data, err := key.MarshalJSON()
	if err != nil {
		return false
	}
	var view map[string]any
	if err := json.Unmarshal(data, &view); err != nil {
		return false
	}
	for name, want := range template {
		got, ok := view[name]
		if !ok {
			return false
		}
		if !reflect.DeepEqual(normalizeJSON(want), normalizeJSON(got)) {
			return false
		}
	}
	return true
}

// normalizeJSON round-trips a value through JSON so numeric/string
// comparisons made against a freshly unmarshaled template (which may
// use plain Go numbers) line up with a json.Number-decoded view.
func normalizeJSON(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}

type indexOutOfRangeError struct{}

func (indexOutOfRangeError) Error() string { return "jwk: index out of range" }

var errIndexOutOfRange error = indexOutOfRangeError{}
