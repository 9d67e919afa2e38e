package corpus

import (
	"net/netip"
	"strconv"
	"strings"

	"aspredict/prefixindex"

	pool "github.com/Emeline-1/pool"
)

// ASSetElement selects which element of a brace-delimited AS-set token
// (`{a,b,c}`) the loader extracts.
type ASSetElement int

const (
	// ASSetSecond preserves the observed source behavior: the second
	// comma-separated element of the set is taken. This is almost
	// certainly a bug (first-or-any would be more defensible) but is
	// kept as the default to match observed behavior bit-exactly.
	ASSetSecond ASSetElement = iota
	// ASSetFirst takes the first element instead — the more defensible
	// alternative, offered as an explicit opt-in.
	ASSetFirst
)

// LoadOptions configures the dump loader.
type LoadOptions struct {
	ASSetElement ASSetElement
}

// DefaultLoadOptions matches the legacy/observed behavior.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{ASSetElement: ASSetSecond}
}

// Builder accumulates a Corpus across one or more LoadDump/LoadRelations
// calls. The zero value is not usable; construct with NewBuilder.
type Builder struct {
	corpus *Corpus
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		corpus: &Corpus{
			trees:         make(map[uint64]*prefixindex.Tree),
			customerCones: make(map[uint64]int),
		},
	}
}

// Build freezes and returns the accumulated Corpus. The Builder must not be
// used afterward.
func (b *Builder) Build() *Corpus {
	return b.corpus
}

// LoadDump parses a single pipe-delimited BGP table dump file (C1) and
// merges its (notifier, prefix, as path) triples into the corpus under
// construction: field 4 is the notifier ASN, field 5 the IPv4 CIDR
// prefix, field 6 the space-separated AS path.
func (b *Builder) LoadDump(filename string, opts LoadOptions) error {
	r := newCompressedReader(filename)
	if err := r.open(); err != nil {
		return err
	}
	defer r.close()

	scanner := r.scanner()
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if text == "" {
			continue
		}
		if err := b.loadDumpLine(filename, line, text, opts); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func (b *Builder) loadDumpLine(filename string, line int, text string, opts LoadOptions) error {
	fields := strings.Split(text, "|")
	if len(fields) < 7 {
		return &LoadError{File: filename, Line: line, Err: errTooFewDumpFields}
	}

	notifier, err := strconv.ParseUint(fields[4], 10, 64)
	if err != nil {
		return &LoadError{File: filename, Line: line, Err: err}
	}

	prefix, err := netip.ParsePrefix(fields[5])
	if err != nil {
		return &LoadError{File: filename, Line: line, Err: err}
	}
	if !prefix.Addr().Is4() {
		return &LoadError{File: filename, Line: line, Err: errNotIPv4}
	}
	prefix = prefix.Masked()

	path, err := parseASPath(fields[6], opts)
	if err != nil {
		return &LoadError{File: filename, Line: line, Err: err}
	}

	b.corpus.treeFor(notifier).Insert(prefix, path)
	return nil
}

// LoadDumps parses multiple dump files concurrently, bounded by a worker
// pool, then merges them sequentially into the corpus under construction.
// Real route collector exports are commonly split one file per collector;
// each file is parsed into its own partial corpus before the merge.
func (b *Builder) LoadDumps(filenames []string, opts LoadOptions) error {
	partials := make([]*Builder, len(filenames))
	errs := make([]error, len(filenames))

	work := func(filename string) {
		idx := indexOf(filenames, filename)
		part := NewBuilder()
		errs[idx] = part.LoadDump(filename, opts)
		partials[idx] = part
	}
	pool.Launch_pool(workerCount(len(filenames)), filenames, work)

	for i, err := range errs {
		if err != nil {
			return err
		}
		b.merge(partials[i].corpus)
	}
	return nil
}

func (b *Builder) merge(other *Corpus) {
	for _, notifier := range other.notifiers {
		tree := other.trees[notifier]
		dst := b.corpus.treeFor(notifier)
		tree.Range(func(p netip.Prefix, path []uint64) {
			dst.Insert(p, path)
		})
	}
}

func indexOf(s []string, v string) int {
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

// parseASPath splits an AS-path field on whitespace and resolves each
// token: a plain decimal ASN, or an AS-set `{a,b,c}` from which one
// element is extracted according to opts.
func parseASPath(field string, opts LoadOptions) ([]uint64, error) {
	tokens := strings.Fields(field)
	path := make([]uint64, 0, len(tokens))
	for _, tok := range tokens {
		asn, err := parseASPathToken(tok, opts)
		if err != nil {
			return nil, err
		}
		path = append(path, asn)
	}
	if len(path) == 0 {
		return nil, errEmptyPath
	}
	return path, nil
}

func parseASPathToken(tok string, opts LoadOptions) (uint64, error) {
	if strings.HasPrefix(tok, "{") && strings.HasSuffix(tok, "}") {
		inner := tok[1 : len(tok)-1]
		parts := strings.Split(inner, ",")
		idx := 1 // ASSetSecond
		if opts.ASSetElement == ASSetFirst {
			idx = 0
		}
		if idx >= len(parts) {
			return 0, errMalformedASSet
		}
		return strconv.ParseUint(parts[idx], 10, 64)
	}
	return strconv.ParseUint(tok, 10, 64)
}
