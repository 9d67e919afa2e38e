package predict

import (
	"net/netip"
	"os"
	"path/filepath"
	"testing"

	"aspredict/corpus"
	"aspredict/policy"
)

func mustAddr(t *testing.T, s string) netip.Addr {
	t.Helper()
	a, err := netip.ParseAddr(s)
	if err != nil {
		t.Fatalf("ParseAddr(%q): %v", s, err)
	}
	return a
}

func writeTemp(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func uint64sEqual(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestPredictJoinsAcrossNotifier: a single notifier covering both
// endpoints, joined at the deepest shared AS.
func TestPredictJoinsAcrossNotifier(t *testing.T) {
	dump := writeTemp(t, "dump.txt",
		"a|b|c|d|100|203.0.113.0/24|100 200 300\n"+
			"a|b|c|d|100|198.51.100.0/24|100 200 400\n")

	b := corpus.NewBuilder()
	if err := b.LoadDump(dump, corpus.DefaultLoadOptions()); err != nil {
		t.Fatalf("LoadDump: %v", err)
	}
	co := New(b.Build(), policy.DefaultOptions())

	s := mustAddr(t, "203.0.113.5")
	d := mustAddr(t, "198.51.100.5")
	res, ok := co.Predict(s, d)
	if !ok {
		t.Fatal("expected a result")
	}
	want := []uint64{300, 200, 400}
	if !uint64sEqual(res.Path, want) {
		t.Fatalf("got %v, want %v", res.Path, want)
	}
}

// TestPredictNoCoverage: neither endpoint covered by any notifier.
func TestPredictNoCoverage(t *testing.T) {
	dump := writeTemp(t, "dump.txt", "a|b|c|d|100|203.0.113.0/24|100 200\n")

	b := corpus.NewBuilder()
	if err := b.LoadDump(dump, corpus.DefaultLoadOptions()); err != nil {
		t.Fatalf("LoadDump: %v", err)
	}
	co := New(b.Build(), policy.DefaultOptions())

	_, ok := co.Predict(mustAddr(t, "10.0.0.1"), mustAddr(t, "10.0.0.2"))
	if ok {
		t.Fatal("expected no result")
	}
}

// TestPredictPrefersValleyFreeOverShorterNonVF: notifier 1 yields a
// shorter 2-hop candidate that starts with a peer edge (rejected by the
// default StrictPeerStart policy); notifier 2 yields a longer but
// genuinely valley-free (up-then-down) candidate. The valley-free one
// must win despite being longer.
func TestPredictPrefersValleyFreeOverShorterNonVF(t *testing.T) {
	dump := writeTemp(t, "dump.txt",
		"a|b|c|d|1|203.0.113.0/24|100 900\n"+
			"a|b|c|d|1|198.51.100.0/24|900 100\n"+
			"a|b|c|d|2|203.0.113.0/24|100 400 500\n"+
			"a|b|c|d|2|198.51.100.0/24|100 400 600\n")
	rel := writeTemp(t, "rel.txt",
		"900|100|0\n"+
			"400|500|-1\n"+
			"400|600|-1\n")

	b := corpus.NewBuilder()
	if err := b.LoadDump(dump, corpus.DefaultLoadOptions()); err != nil {
		t.Fatalf("LoadDump: %v", err)
	}
	if err := b.LoadRelations(rel); err != nil {
		t.Fatalf("LoadRelations: %v", err)
	}
	co := New(b.Build(), policy.DefaultOptions())

	res, ok := co.Predict(mustAddr(t, "203.0.113.5"), mustAddr(t, "198.51.100.5"))
	if !ok {
		t.Fatal("expected a result")
	}
	if !res.ValleyFree {
		t.Fatalf("expected the valley-free candidate to win, got path %v valleyFree=%v", res.Path, res.ValleyFree)
	}
	want := []uint64{500, 400, 600}
	if !uint64sEqual(res.Path, want) {
		t.Fatalf("got %v, want %v", res.Path, want)
	}
}

// TestPredictFallsBackToBestAnyWithoutRelations: no relations loaded means
// C5 is never consulted and the shortest candidate overall wins.
func TestPredictFallsBackToBestAnyWithoutRelations(t *testing.T) {
	dump := writeTemp(t, "dump.txt",
		"a|b|c|d|1|203.0.113.0/24|100 200 300\n"+
			"a|b|c|d|1|198.51.100.0/24|100 200 400\n"+
			"a|b|c|d|2|203.0.113.0/24|100 200\n"+
			"a|b|c|d|2|198.51.100.0/24|200 500\n")

	b := corpus.NewBuilder()
	if err := b.LoadDump(dump, corpus.DefaultLoadOptions()); err != nil {
		t.Fatalf("LoadDump: %v", err)
	}
	co := New(b.Build(), policy.DefaultOptions())

	res, ok := co.Predict(mustAddr(t, "203.0.113.5"), mustAddr(t, "198.51.100.5"))
	if !ok {
		t.Fatal("expected a result")
	}
	if res.HasRelation {
		t.Fatal("expected HasRelation to be false")
	}
	want := []uint64{200, 500}
	if !uint64sEqual(res.Path, want) {
		t.Fatalf("got %v, want %v", res.Path, want)
	}
}
