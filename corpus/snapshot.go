package corpus

import (
	"database/sql"
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"aspredict/policy"
	"aspredict/prefixindex"

	_ "github.com/mattn/go-sqlite3"
)

// SaveSnapshot writes c to a sqlite database at filename. A snapshot lets
// a large corpus be rebuilt once from raw dump/relations files and
// reloaded instantly on subsequent runs.
func SaveSnapshot(c *Corpus, filename string) error {
	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return err
	}
	defer db.Close()

	stmts := []string{
		`DROP TABLE IF EXISTS entries`,
		`DROP TABLE IF EXISTS relations`,
		`DROP TABLE IF EXISTS cones`,
		`CREATE TABLE entries (notifier INTEGER, prefix TEXT, path TEXT)`,
		`CREATE TABLE relations (a INTEGER, b INTEGER, relation INTEGER)`,
		`CREATE TABLE cones (asn INTEGER, size INTEGER)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	insertEntry, err := db.Prepare(`INSERT INTO entries (notifier, prefix, path) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insertEntry.Close()

	for _, notifier := range c.notifiers {
		tree := c.trees[notifier]
		var execErr error
		tree.Range(func(p netip.Prefix, path []uint64) {
			if execErr != nil {
				return
			}
			_, execErr = insertEntry.Exec(int64(notifier), p.String(), formatPath(path))
		})
		if execErr != nil {
			return execErr
		}
	}

	if c.hasRelations {
		insertRel, err := db.Prepare(`INSERT INTO relations (a, b, relation) VALUES (?, ?, ?)`)
		if err != nil {
			return err
		}
		defer insertRel.Close()
		for pair, rel := range c.relations {
			if _, err := insertRel.Exec(int64(pair[0]), int64(pair[1]), int(rel)); err != nil {
				return err
			}
		}
	}

	insertCone, err := db.Prepare(`INSERT INTO cones (asn, size) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer insertCone.Close()
	for asn, size := range c.customerCones {
		if _, err := insertCone.Exec(int64(asn), size); err != nil {
			return err
		}
	}

	return nil
}

// LoadSnapshot reads back a Corpus previously written by SaveSnapshot.
func LoadSnapshot(filename string) (*Corpus, error) {
	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	c := &Corpus{
		trees:         make(map[uint64]*prefixindex.Tree),
		customerCones: make(map[uint64]int),
	}

	rows, err := db.Query(`SELECT notifier, prefix, path FROM entries`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var notifier int64
		var prefixStr, pathStr string
		if err := rows.Scan(&notifier, &prefixStr, &pathStr); err != nil {
			rows.Close()
			return nil, err
		}
		prefix, err := netip.ParsePrefix(prefixStr)
		if err != nil {
			rows.Close()
			return nil, err
		}
		path, err := parsePath(pathStr)
		if err != nil {
			rows.Close()
			return nil, err
		}
		c.treeFor(uint64(notifier)).Insert(prefix, path)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	relRows, err := db.Query(`SELECT a, b, relation FROM relations`)
	if err != nil {
		return nil, err
	}
	relations := make(RelationMap)
	any := false
	for relRows.Next() {
		var a, b int64
		var relation int
		if err := relRows.Scan(&a, &b, &relation); err != nil {
			relRows.Close()
			return nil, err
		}
		relations[[2]uint64{uint64(a), uint64(b)}] = policy.Relation(relation)
		any = true
	}
	if err := relRows.Err(); err != nil {
		return nil, err
	}
	relRows.Close()
	if any {
		c.relations = relations
		c.hasRelations = true
	}

	coneRows, err := db.Query(`SELECT asn, size FROM cones`)
	if err != nil {
		return nil, err
	}
	for coneRows.Next() {
		var asn int64
		var size int
		if err := coneRows.Scan(&asn, &size); err != nil {
			coneRows.Close()
			return nil, err
		}
		c.customerCones[uint64(asn)] = size
	}
	if err := coneRows.Err(); err != nil {
		return nil, err
	}
	coneRows.Close()

	return c, nil
}

func formatPath(path []uint64) string {
	parts := make([]string, len(path))
	for i, asn := range path {
		parts[i] = strconv.FormatUint(asn, 10)
	}
	return strings.Join(parts, " ")
}

func parsePath(s string) ([]uint64, error) {
	fields := strings.Fields(s)
	path := make([]uint64, 0, len(fields))
	for _, f := range fields {
		asn, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsePath: %w", err)
		}
		path = append(path, asn)
	}
	return path, nil
}
