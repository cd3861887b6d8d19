package session

import "sort"

// Report is an immutable view of the store taken at one point in time.
type Report struct {
	records map[string]*Record
}

// Len returns the number of sessions in the report.
func (r Report) Len() int {
	return len(r.records)
}

// Keys returns the session keys in lexical order.
func (r Report) Keys() []string {
	keys := make([]string, 0, len(r.records))
	for k := range r.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the record for key.
func (r Report) Get(key string) (*Record, bool) {
	rec, ok := r.records[key]
	return rec, ok
}

// Records calls fn for every session in key order.
func (r Report) Records(fn func(key string, rec *Record)) {
	for _, key := range r.Keys() {
		fn(key, r.records[key])
	}
}
