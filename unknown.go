package propconf

// UnknownTokens is an ordered key/value table of records that named no
// property of the owning type. Setting an existing key replaces the value in
// place and keeps its position.
type UnknownTokens struct {
	keys   []string
	values map[string]string
}

// Set stores value under key.
func (u *UnknownTokens) Set(key, value string) {
	if u.values == nil {
		u.values = map[string]string{}
	}
	if _, ok := u.values[key]; !ok {
		u.keys = append(u.keys, key)
	}
	u.values[key] = value
}

// Lookup returns the value stored under key.
func (u *UnknownTokens) Lookup(key string) (string, bool) {
	v, ok := u.values[key]
	return v, ok
}

// Delete removes key and reports whether it was present.
func (u *UnknownTokens) Delete(key string) bool {
	if _, ok := u.values[key]; !ok {
		return false
	}
	delete(u.values, key)
	for i, k := range u.keys {
		if k == key {
			u.keys = append(u.keys[:i], u.keys[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of entries.
func (u *UnknownTokens) Len() int { return len(u.keys) }

// Keys returns the keys in insertion order.
func (u *UnknownTokens) Keys() []string {
	out := make([]string, len(u.keys))
	copy(out, u.keys)
	return out
}

// Range calls fn for each entry in insertion order until fn returns false.
func (u *UnknownTokens) Range(fn func(key, value string) bool) {
	for _, k := range u.keys {
		if !fn(k, u.values[k]) {
			return
		}
	}
}

// Clone returns an independent copy.
func (u *UnknownTokens) Clone() *UnknownTokens {
	c := &UnknownTokens{keys: make([]string, len(u.keys)), values: make(map[string]string, len(u.values))}
	copy(c.keys, u.keys)
	for k, v := range u.values {
		c.values[k] = v
	}
	return c
}

// Equal reports whether both tables hold the same entries in the same order.
func (u *UnknownTokens) Equal(o *UnknownTokens) bool {
	if u.Len() != o.Len() {
		return false
	}
	for i, k := range u.keys {
		if o.keys[i] != k || o.values[k] != u.values[k] {
			return false
		}
	}
	return true
}

// Clear removes every entry.
func (u *UnknownTokens) Clear() {
	u.keys = nil
	u.values = nil
}
