package corpus

import (
	"strconv"
	"strings"

	"aspredict/policy"
)

// LoadRelations parses a pipe-delimited AS-relationships file (C2) into
// the corpus under construction. Fields: ASN A, ASN B, relation code.
// Code -1 records Provides(A,B)/Consumes(B,A), code 0 records Peers both
// ways, code 1 (sibling) is recorded explicitly as RelationSibling but —
// like a pair with no recorded relation — never drives the policy
// automaton. Any other code is skipped.
func (b *Builder) LoadRelations(filename string) error {
	r := newCompressedReader(filename)
	if err := r.open(); err != nil {
		return err
	}
	defer r.close()

	if b.corpus.relations == nil {
		b.corpus.relations = make(RelationMap)
	}
	b.corpus.hasRelations = true

	scanner := r.scanner()
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if text == "" || strings.Contains(text, "#") {
			continue
		}
		if err := b.loadRelationLine(filename, line, text); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func (b *Builder) loadRelationLine(filename string, line int, text string) error {
	fields := strings.Split(text, "|")
	if len(fields) < 3 {
		return &LoadError{File: filename, Line: line, Err: errTooFewRelationFields}
	}

	a, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return &LoadError{File: filename, Line: line, Err: err}
	}
	c, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return &LoadError{File: filename, Line: line, Err: err}
	}
	code, err := strconv.Atoi(strings.TrimSpace(fields[2]))
	if err != nil {
		return &LoadError{File: filename, Line: line, Err: err}
	}

	switch code {
	case -1:
		b.corpus.relations[[2]uint64{a, c}] = policy.RelationProvides
		b.corpus.relations[[2]uint64{c, a}] = policy.RelationConsumes
	case 0:
		b.corpus.relations[[2]uint64{a, c}] = policy.RelationPeers
		b.corpus.relations[[2]uint64{c, a}] = policy.RelationPeers
	case 1:
		b.corpus.relations[[2]uint64{a, c}] = policy.RelationSibling
		b.corpus.relations[[2]uint64{c, a}] = policy.RelationSibling
	default:
		// unrecognized code: silently skipped.
	}
	return nil
}

// LoadCustomerCones parses a CAIDA ppdc-style customer cone file:
// "<asn> <customer1> <customer2> ..." one line per AS, recording the
// number of customers listed on the line as the cone size (repeated
// entries are counted each time). Consumed only by
// relgraph diagnostics, never by Predict.
func (b *Builder) LoadCustomerCones(filename string) error {
	r := newCompressedReader(filename)
	if err := r.open(); err != nil {
		return err
	}
	defer r.close()

	scanner := r.scanner()
	for scanner.Scan() {
		text := scanner.Text()
		if text == "" || strings.Contains(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			continue
		}
		asn, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			continue
		}
		b.corpus.customerCones[asn] = len(fields) - 1
	}
	return scanner.Err()
}
