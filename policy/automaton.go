// Package policy implements the core's Policy Automaton (C5): a total
// transition function over AS-relationship edge directions that classifies
// a synthesized path as valley-free or valleyed.
package policy

// Relation is one of the three canonical AS business relationships,
// attached to an ordered pair (A, B).
type Relation int

const (
	// RelationUnknown means no relationship is recorded for a given
	// ordered pair; a no-op for the automaton (see step).
	RelationUnknown Relation = iota
	// RelationProvides means A is a provider of B: A -> B is transit
	// downward.
	RelationProvides
	// RelationConsumes means A is a customer of B: A -> B is transit
	// upward.
	RelationConsumes
	// RelationPeers means a lateral peer link.
	RelationPeers
	// RelationSibling records CAIDA relationship code 1. It is kept
	// explicit in the Relation Map (see corpus.RelationMap) but, like
	// RelationUnknown, never drives an automaton transition.
	RelationSibling
)

// edge is the automaton's input alphabet: the direction a single hop
// takes, derived from a Relation.
type edge int

const (
	edgeNone edge = iota // no-op: RelationUnknown or RelationSibling
	edgeUp               // U: customer -> provider
	edgePeer             // P: lateral peering
	edgeDown             // D: provider -> customer
)

func edgeFor(r Relation) edge {
	switch r {
	case RelationConsumes:
		return edgeUp
	case RelationPeers:
		return edgePeer
	case RelationProvides:
		return edgeDown
	default:
		return edgeNone
	}
}

// State is the automaton's pre-edge path classification.
type State int

const (
	Null State = iota
	U
	P
	D
	UP
	UD
	PD
	UPD
	Valleyed
)

// Options configures deviations from strict Gao-Rexford kept for
// compatibility with observed source behavior.
type Options struct {
	// StrictPeerStart, when true (the default), makes a path that opens
	// with a peering edge unconditionally Valleyed — preserving the
	// observed Null->Peer->Valleyed collapse. When false, a leading peer
	// edge is accepted the way the textbook U* P? D* grammar allows.
	StrictPeerStart bool
}

// DefaultOptions matches the legacy/observed behavior this system
// preserves by default.
func DefaultOptions() Options {
	return Options{StrictPeerStart: true}
}

// transition is the total state x edge -> state table for valley-free
// classification.
var transition = [...][4]State{
	Null:     {edgeNone: Null, edgeUp: U, edgePeer: P, edgeDown: D},
	U:        {edgeNone: U, edgeUp: U, edgePeer: UP, edgeDown: UD},
	P:        {edgeNone: P, edgeUp: Valleyed, edgePeer: P, edgeDown: PD},
	D:        {edgeNone: D, edgeUp: Valleyed, edgePeer: Valleyed, edgeDown: D},
	UP:       {edgeNone: UP, edgeUp: Valleyed, edgePeer: UP, edgeDown: UPD},
	UD:       {edgeNone: UD, edgeUp: Valleyed, edgePeer: Valleyed, edgeDown: UD},
	PD:       {edgeNone: PD, edgeUp: Valleyed, edgePeer: Valleyed, edgeDown: PD},
	UPD:      {edgeNone: UPD, edgeUp: Valleyed, edgePeer: Valleyed, edgeDown: UPD},
	Valleyed: {edgeNone: Valleyed, edgeUp: Valleyed, edgePeer: Valleyed, edgeDown: Valleyed},
}

// step applies a single edge to state, with the Null->Peer collapse applied
// when opts.StrictPeerStart is set.
func step(state State, e edge, opts Options) State {
	next := transition[state][e]
	if opts.StrictPeerStart && state == Null && e == edgePeer {
		return Valleyed
	}
	return next
}

// RelationLookup resolves the Relation recorded for the ordered pair
// (from, to), or RelationUnknown if none is known. The method value
// Lookup of the corpus's Relation Map has this signature.
type RelationLookup func(from, to uint64) Relation

// Classify walks path edge by edge and returns whether it is valley-free
// (terminal state != Valleyed) under the given relation data and options.
// A path of length 0 or 1 has no edges and is trivially valley-free.
func Classify(path []uint64, lookup RelationLookup, opts Options) bool {
	state := Null
	for i := 0; i+1 < len(path); i++ {
		r := lookup(path[i], path[i+1])
		state = step(state, edgeFor(r), opts)
		if state == Valleyed {
			return false
		}
	}
	return true
}
