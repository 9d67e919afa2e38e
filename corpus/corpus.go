// Package corpus implements the Dump Loader (C1) and Relation Loader
// (C2), and holds the frozen, read-only Corpus they build: the
// notifier -> Prefix Index mapping plus the Relation Map.
package corpus

import (
	"fmt"
	"net/netip"

	"aspredict/policy"
	"aspredict/prefixindex"
)

// LoadError is a fatal, diagnosable failure while parsing a dump or
// relations file.
type LoadError struct {
	File string
	Line int
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// RelationMap is the mapping (ASN, ASN) -> Relationship. Its Lookup
// method value can be passed wherever a policy.RelationLookup is taken.
type RelationMap map[[2]uint64]policy.Relation

// Lookup implements policy.RelationLookup.
func (m RelationMap) Lookup(from, to uint64) policy.Relation {
	return m[[2]uint64{from, to}]
}

// Corpus is the frozen result of a load phase: every notifier's Prefix
// Index, plus the (optional) Relation Map. It is immutable after
// construction and safe for concurrent read-only use.
type Corpus struct {
	notifiers     []uint64
	trees         map[uint64]*prefixindex.Tree
	relations     RelationMap
	hasRelations  bool
	customerCones map[uint64]int // supplemented: CAIDA ppdc cone sizes, diagnostics only
}

// Notifiers returns every vantage-point ASN seen during load, in the order
// first encountered. Iteration order across notifiers is otherwise
// unspecified by the core contract.
func (c *Corpus) Notifiers() []uint64 {
	out := make([]uint64, len(c.notifiers))
	copy(out, c.notifiers)
	return out
}

// Lookup performs the C3 longest-prefix-match for a single notifier. It
// returns (prefixindex.Entry{}, false) if the notifier is unknown or
// nothing covers addr.
func (c *Corpus) Lookup(notifier uint64, addr netip.Addr) (prefixindex.Entry, bool) {
	tree, ok := c.trees[notifier]
	if !ok {
		return prefixindex.Entry{}, false
	}
	return tree.Lookup(addr)
}

// Relations returns the loaded Relation Map and whether relation data was
// loaded at all. If it was not, the policy automaton is never consulted.
func (c *Corpus) Relations() (RelationMap, bool) {
	return c.relations, c.hasRelations
}

// CustomerCone returns the CAIDA customer-cone size recorded for asn, if a
// ppdc file was loaded. It never influences Predict; it exists for the
// relgraph diagnostics pass.
func (c *Corpus) CustomerCone(asn uint64) (int, bool) {
	n, ok := c.customerCones[asn]
	return n, ok
}

func (c *Corpus) treeFor(notifier uint64) *prefixindex.Tree {
	tree, ok := c.trees[notifier]
	if !ok {
		tree = prefixindex.New()
		c.trees[notifier] = tree
		c.notifiers = append(c.notifiers, notifier)
	}
	return tree
}
