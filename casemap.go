// Copyright (c) the Warren authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package warren

import (
	"strings"

	cmap "github.com/orcaman/concurrent-map"
)

// CaseMapping is the server-advertised rule for folding the case of
// nicknames and channel names when comparing them. It defaults to RFC1459
// until an ISUPPORT CASEMAPPING token says otherwise.
type CaseMapping int

const (
	// CaseMappingRFC1459 folds A-Z onto a-z, and []\^ onto {}|~.
	CaseMappingRFC1459 CaseMapping = iota
	// CaseMappingStrictRFC1459 folds A-Z onto a-z, and []\ onto {}|.
	CaseMappingStrictRFC1459
	// CaseMappingASCII folds A-Z onto a-z only.
	CaseMappingASCII
)

// ParseCaseMapping translates an ISUPPORT CASEMAPPING value. Anything
// unrecognised falls back to rfc1459, which is what most networks run.
func ParseCaseMapping(raw string) CaseMapping {
	switch strings.ToLower(raw) {
	case "strict-rfc1459":
		return CaseMappingStrictRFC1459
	case "ascii":
		return CaseMappingASCII
	default:
		return CaseMappingRFC1459
	}
}

func (m CaseMapping) String() string {
	switch m {
	case CaseMappingStrictRFC1459:
		return "strict-rfc1459"
	case CaseMappingASCII:
		return "ascii"
	default:
		return "rfc1459"
	}
}

// Canonical returns the comparison form of a nickname or channel name
// under this mapping. Display forms are preserved elsewhere; this is only
// used as a lookup key.
func (m CaseMapping) Canonical(name string) string {
	out := []byte(name)

	for i := 0; i < len(out); i++ {
		c := out[i]

		switch {
		case c >= 'A' && c <= 'Z':
			out[i] = c + 0x20
		case m != CaseMappingASCII && c >= '[' && c <= ']':
			// [ -> {, \ -> |, ] -> }
			out[i] = c + 0x20
		case m == CaseMappingRFC1459 && c == '^':
			out[i] = '~'
		}
	}

	return string(out)
}

// Equal reports whether two names compare equal under this mapping.
func (m CaseMapping) Equal(a, b string) bool {
	return m.Canonical(a) == m.Canonical(b)
}

// mappedMap is a container keyed by the canonical form of a nickname or
// channel name, while values keep their original display form. All
// nickname- and channel-keyed state is built on this so a CASEMAPPING
// change can rebuild every container consistently.
type mappedMap struct {
	mapping CaseMapping
	inner   cmap.ConcurrentMap
}

func newMappedMap(mapping CaseMapping) *mappedMap {
	return &mappedMap{mapping: mapping, inner: cmap.New()}
}

func (m *mappedMap) Get(name string) (interface{}, bool) {
	return m.inner.Get(m.mapping.Canonical(name))
}

func (m *mappedMap) Set(name string, value interface{}) {
	m.inner.Set(m.mapping.Canonical(name), value)
}

func (m *mappedMap) Has(name string) bool {
	return m.inner.Has(m.mapping.Canonical(name))
}

func (m *mappedMap) Remove(name string) {
	m.inner.Remove(m.mapping.Canonical(name))
}

func (m *mappedMap) Pop(name string) (interface{}, bool) {
	return m.inner.Pop(m.mapping.Canonical(name))
}

func (m *mappedMap) Count() int {
	return m.inner.Count()
}

// Each calls fn for every entry, keyed by canonical form.
func (m *mappedMap) Each(fn func(key string, value interface{})) {
	for entry := range m.inner.IterBuffered() {
		fn(entry.Key, entry.Val)
	}
}

// rekey rebuilds the container under a new case mapping. Keys are derived
// again from the stored display forms via keyOf, so entries that now fold
// together collapse instead of silently desynchronising lookups.
func (m *mappedMap) rekey(mapping CaseMapping, keyOf func(value interface{}) string) {
	rebuilt := cmap.New()

	for entry := range m.inner.IterBuffered() {
		rebuilt.Set(mapping.Canonical(keyOf(entry.Val)), entry.Val)
	}

	m.mapping = mapping
	m.inner = rebuilt
}
