package prefixindex

import (
	"net/netip"
	"testing"
)

func pathEqual(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i, v := range a {
		if v != b[i] {
			return false
		}
	}
	return true
}

func TestLookupNoMatch(t *testing.T) {
	tr := New()
	tr.Insert(netip.MustParsePrefix("10.0.0.0/8"), []uint64{10, 20})

	if _, ok := tr.Lookup(netip.MustParseAddr("192.168.1.1")); ok {
		t.Fatalf("expected no match for address outside any inserted prefix")
	}
}

func TestLongestPrefixMatchWins(t *testing.T) {
	tr := New()
	tr.Insert(netip.MustParsePrefix("1.0.0.0/8"), []uint64{10, 99})
	tr.Insert(netip.MustParsePrefix("1.2.0.0/16"), []uint64{10, 20, 30})
	tr.Insert(netip.MustParsePrefix("2.0.0.0/8"), []uint64{10, 20, 40})

	got, ok := tr.Lookup(netip.MustParseAddr("1.2.3.4"))
	if !ok {
		t.Fatalf("expected a match")
	}
	if got.Prefix.Bits() != 16 {
		t.Fatalf("expected the /16 to win, got /%d", got.Prefix.Bits())
	}
	if !pathEqual(got.Path, []uint64{10, 20, 30}) {
		t.Fatalf("unexpected path: %v", got.Path)
	}
}

func TestOverwriteSamePrefix(t *testing.T) {
	tr := New()
	tr.Insert(netip.MustParsePrefix("1.0.0.0/8"), []uint64{10, 20})
	tr.Insert(netip.MustParsePrefix("1.0.0.0/8"), []uint64{10, 30})

	got, ok := tr.Lookup(netip.MustParseAddr("1.2.3.4"))
	if !ok {
		t.Fatalf("expected a match")
	}
	if !pathEqual(got.Path, []uint64{10, 30}) {
		t.Fatalf("expected last writer to win, got %v", got.Path)
	}
}

func TestInsertedPathIsImmutable(t *testing.T) {
	tr := New()
	path := []uint64{10, 20}
	tr.Insert(netip.MustParsePrefix("1.0.0.0/8"), path)
	path[0] = 999 // mutating the caller's slice must not affect the stored entry

	got, _ := tr.Lookup(netip.MustParseAddr("1.2.3.4"))
	if !pathEqual(got.Path, []uint64{10, 20}) {
		t.Fatalf("tree entry was mutated via caller's slice: %v", got.Path)
	}
}
