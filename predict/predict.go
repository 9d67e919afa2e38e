// Package predict implements the core's Query Coordinator (C6): given a
// source and destination IPv4 address, it fans out over every notifier in
// a corpus.Corpus, joins the two observed AS paths at their deepest shared
// AS (pathjoin), and ranks candidates by policy.Classify when relation
// data is available.
package predict

import (
	"net/netip"

	"aspredict/corpus"
	"aspredict/pathjoin"
	"aspredict/policy"

	pool "github.com/Emeline-1/pool"
)

// Result is the outcome of a Predict call.
type Result struct {
	Path        []uint64
	ValleyFree  bool
	HasRelation bool
}

// Coordinator answers predict queries against a fixed corpus. The zero
// value is not usable; construct with New.
type Coordinator struct {
	corpus *corpus.Corpus
	opts   policy.Options
}

// New returns a Coordinator over c, classifying candidate paths with opts.
func New(c *corpus.Corpus, opts policy.Options) *Coordinator {
	return &Coordinator{corpus: c, opts: opts}
}

type candidate struct {
	path       []uint64
	valleyFree bool
}

// Predict searches every notifier for a candidate path between s and d,
// preferring a valley-free candidate over a shorter but policy-violating
// one. It performs no I/O and is safe to call concurrently from multiple
// goroutines.
func (co *Coordinator) Predict(s, d netip.Addr) (Result, bool) {
	notifiers := co.corpus.Notifiers()
	relations, hasRelations := co.corpus.Relations()

	cands := make([]*candidate, len(notifiers))
	work := func(n uint64) {
		idx := indexOfNotifier(notifiers, n)
		cands[idx] = co.searchNotifier(n, s, d, relations, hasRelations)
	}
	pool.Launch_pool(workerCount(len(notifiers)), notifiers, work)

	var bestVF, bestAny *candidate
	for _, c := range cands {
		if c == nil {
			continue
		}
		if hasRelations && c.valleyFree {
			bestVF = shorter(bestVF, c)
		} else {
			bestAny = shorter(bestAny, c)
		}
	}

	chosen := bestVF
	if chosen == nil {
		chosen = bestAny
	}
	if chosen == nil {
		return Result{}, false
	}
	return Result{Path: chosen.path, ValleyFree: hasRelations && chosen == bestVF, HasRelation: hasRelations}, true
}

func (co *Coordinator) searchNotifier(n uint64, s, d netip.Addr, relations corpus.RelationMap, hasRelations bool) *candidate {
	ps, ok := co.corpus.Lookup(n, s)
	if !ok {
		return nil
	}
	pd, ok := co.corpus.Lookup(n, d)
	if !ok {
		return nil
	}
	joined, ok := pathjoin.Join(ps.Path, pd.Path)
	if !ok {
		return nil
	}
	vf := false
	if hasRelations {
		vf = policy.Classify(joined, relations.Lookup, co.opts)
	}
	return &candidate{path: joined, valleyFree: vf}
}

// shorter returns whichever of a, b has fewer hops, preferring the
// already-held a on ties (first-encountered wins).
func shorter(a, b *candidate) *candidate {
	if a == nil {
		return b
	}
	if len(b.path) < len(a.path) {
		return b
	}
	return a
}

func indexOfNotifier(s []uint64, v uint64) int {
	for i, e := range s {
		if e == v {
			return i
		}
	}
	return -1
}

func workerCount(n int) int {
	const max = 16
	if n < 1 {
		return 1
	}
	if n > max {
		return max
	}
	return n
}
