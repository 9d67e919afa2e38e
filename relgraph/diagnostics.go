// Package relgraph provides connectivity diagnostics over a loaded
// Relation Map: which ASes the relationship data ties together, and
// which fall into disconnected fragments. Predict never consults it;
// aspredict runs it once at startup, after a corpus is loaded or
// restored from a snapshot, and logs its findings so an operator can
// sanity-check a relations file before trusting it to drive policy
// classification.
package relgraph

import (
	"strconv"

	"aspredict/corpus"

	graph "github.com/Emeline-1/basic_graph"
)

// Component is one connected component of the relationship graph: every
// AS in it is reachable from every other AS through some chain of
// recorded relationships.
type Component struct {
	ASes []uint64
	// CustomerCone is the sum of CAIDA customer-cone sizes known for the
	// ASes in this component (0 if no -ppdc file was loaded).
	CustomerCone int
}

// Report summarizes the connectivity of a corpus's Relation Map.
type Report struct {
	Components []Component
}

// LargestComponentSize returns the size of the largest component, or 0
// if the report has none.
func (r Report) LargestComponentSize() int {
	max := 0
	for _, c := range r.Components {
		if len(c.ASes) > max {
			max = len(c.ASes)
		}
	}
	return max
}

// LargestComponentCustomerCone returns the summed customer-cone size of
// the largest component, or 0 if the report has none or no -ppdc file
// was loaded.
func (r Report) LargestComponentCustomerCone() int {
	max, cone := 0, 0
	for _, c := range r.Components {
		if len(c.ASes) > max {
			max = len(c.ASes)
			cone = c.CustomerCone
		}
	}
	return cone
}

// Analyze builds an undirected graph over every AS pair that the corpus's
// Relation Map records a relationship for, and reports its connected
// components: accumulate edges with Add_edge, then iterate
// Next_connected_component.
func Analyze(c *corpus.Corpus) Report {
	relations, ok := c.Relations()
	if !ok {
		return Report{}
	}

	g := graph.New()
	seen := make(map[[2]uint64]struct{})
	for pair := range relations {
		a, b := pair[0], pair[1]
		key := pair
		if b < a {
			key = [2]uint64{b, a}
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		g.Add_edge(formatASN(a), formatASN(b))
	}

	var components []Component
	g.Set_iterator()
	for g.Next_connected_component() {
		cc := g.Connected_component()
		ases := make([]uint64, 0, len(cc))
		cone := 0
		for _, s := range cc {
			asn, err := strconv.ParseUint(s, 10, 64)
			if err != nil {
				continue
			}
			ases = append(ases, asn)
			if size, ok := c.CustomerCone(asn); ok {
				cone += size
			}
		}
		components = append(components, Component{ASes: ases, CustomerCone: cone})
	}
	return Report{Components: components}
}

func formatASN(asn uint64) string {
	return strconv.FormatUint(asn, 10)
}
