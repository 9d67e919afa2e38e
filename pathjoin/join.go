// Package pathjoin implements the core's Path Joiner (C4): given two AS
// paths observed from the same vantage point toward two different
// destinations, synthesize a single end-to-end candidate path by joining
// them at their deepest shared AS.
package pathjoin

// Join finds the branch point between a and b — the pair of indices (i, j)
// with a[i] == b[j] maximizing i+j — and returns:
//
//	reverse(a[i:]) ++ b[j+1:]
//
// with a[i] (== b[j]) appearing exactly once, as the leading element of the
// reversed slice. If a and b share no AS, ok is false.
//
// Ties on i+j are broken by keeping the last (i, j) pair encountered while
// scanning a in order and, for each a[i], scanning b for a match.
//
// This maximizes i+j over every matching pair, not the first match of
// each a[i] found in b. The two agree whenever neither path repeats an
// AS, but diverge when b contains a duplicate of a shared AS: e.g.
// Join([10,20,30], [10,20,20,40]) picks the second, deeper 20 in b and
// returns [30,20,40]. That choice is deliberate — it is what makes
// Join(p, p) pick the deepest (m, m) pair on a self-join of a path that
// revisits an AS, rather than the shallowest.
func Join(a, b []uint64) (path []uint64, ok bool) {
	bestI, bestJ, found := -1, -1, false

	for i, av := range a {
		for j, bv := range b {
			if av != bv {
				continue
			}
			if !found || i+j >= bestI+bestJ {
				bestI, bestJ, found = i, j, true
			}
		}
	}

	if !found {
		return nil, false
	}

	tail := a[bestI:]
	head := b[bestJ+1:]

	out := make([]uint64, 0, len(tail)+len(head))
	for k := len(tail) - 1; k >= 0; k-- {
		out = append(out, tail[k])
	}
	out = append(out, head...)

	return out, true
}
