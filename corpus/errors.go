package corpus

import "errors"

var (
	errTooFewDumpFields     = errors.New("record has fewer than 7 fields")
	errTooFewRelationFields = errors.New("record has fewer than 3 fields")
	errNotIPv4              = errors.New("prefix is not IPv4")
	errEmptyPath            = errors.New("AS path has no tokens")
	errMalformedASSet       = errors.New("malformed AS-set token")
)
