// Package prefixindex implements the per-notifier IPv4 longest-prefix-match
// table described in the core's Prefix Index component: for a single
// vantage point (notifier ASN), it maps a covering prefix to the AS path
// observed for that prefix.
//
// The index is a binary-string-keyed PATRICIA trie: a /n prefix is
// inserted under the first n characters of the address's 32-bit binary
// string, and longest-prefix-match is simply "look up the full 32-bit
// binary string of the address and take the longest existing prefix of it".
package prefixindex

import (
	"net/netip"

	radix "github.com/Emeline-1/radix"
)

const ipv4Bits = 32

// Entry is what a Tree maps a matched prefix to: the AS path observed for
// that prefix, plus the prefix itself so callers can report match
// specificity.
type Entry struct {
	Prefix netip.Prefix
	Path   []uint64
}

// Tree is one notifier's longest-prefix-match table. The zero value is not
// usable; construct with New.
//
// Longest-prefix-match lookup is served by the radix trie. A side map of
// the same entries, keyed by exact prefix, supports Range — enumerating
// every inserted (prefix, path) pair, needed when merging partial trees
// built concurrently (see corpus.Builder.LoadDumps) — without depending on
// the radix library's post-order Walk_post traversal shape for a job it
// was never built for.
type Tree struct {
	t       *radix.Tree
	entries map[netip.Prefix]*Entry
}

// New returns an empty Tree.
func New() *Tree {
	return &Tree{t: radix.New(), entries: make(map[netip.Prefix]*Entry)}
}

// Insert stores path under prefix, overwriting whatever path was
// previously stored for the exact same prefix (last writer wins, per the
// Prefix Index invariant).
func (tr *Tree) Insert(prefix netip.Prefix, path []uint64) {
	key := binaryKey(prefix)
	cp := make([]uint64, len(path))
	copy(cp, path)
	entry := &Entry{Prefix: prefix, Path: cp}
	tr.t.Insert(key, entry)
	tr.entries[prefix] = entry
}

// Range calls fn once for every (prefix, path) pair currently stored, in
// unspecified order.
func (tr *Tree) Range(fn func(netip.Prefix, []uint64)) {
	for _, e := range tr.entries {
		fn(e.Prefix, e.Path)
	}
}

// Lookup returns the most specific entry whose prefix covers addr, or
// (Entry{}, false) if none covers it.
func (tr *Tree) Lookup(addr netip.Addr) (Entry, bool) {
	if !addr.Is4() {
		return Entry{}, false
	}
	key := addrBits(addr)
	_, val, ok := tr.t.LongestPrefix(key)
	if !ok {
		return Entry{}, false
	}
	entry, _ := val.(*Entry)
	if entry == nil {
		return Entry{}, false
	}
	return *entry, true
}

// binaryKey returns the bitstring the trie indexes prefix under: the
// address's binary representation truncated to the prefix's mask length.
func binaryKey(prefix netip.Prefix) string {
	bits := addrBits(prefix.Addr())
	return bits[:prefix.Bits()]
}

// addrBits renders addr as a 32-character string of '0'/'1', most
// significant bit first.
func addrBits(addr netip.Addr) string {
	a4 := addr.As4()
	var buf [ipv4Bits]byte
	for i, b := range a4 {
		for bit := 0; bit < 8; bit++ {
			if b&(1<<(7-bit)) != 0 {
				buf[i*8+bit] = '1'
			} else {
				buf[i*8+bit] = '0'
			}
		}
	}
	return string(buf[:])
}

