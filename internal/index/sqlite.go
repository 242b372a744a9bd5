// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Find My URI Contributors

package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"github.com/lazlop/find-my-uri/internal/ontology"
	fmuerr "github.com/lazlop/find-my-uri/pkg/errors"
)

func init() {
	sqlite_vec.Auto()
}

// collectionFile is the fixed name of the delegated collection inside the
// index directory.
const collectionFile = "entities.db"

// SQLite is the delegated backend: a sqlite-vec collection keyed by URI that
// handles both storage and KNN search, scoring by cosine distance. Unlike
// the flat backend it appends incrementally across runs.
type SQLite struct {
	db   *sql.DB
	dims int
}

var _ Index = (*SQLite)(nil)

// openSQLite opens the collection under dir. With create false the database
// file must already exist; its absence at query-serving start is fatal.
// The recorded embedding model and dimensionality are checked against the
// configured ones either way.
func openSQLite(dir, model string, dims int, create bool) (*SQLite, error) {
	dbPath := filepath.Join(dir, collectionFile)

	if create {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmuerr.Wrap(err, fmuerr.CodeIndexDatabaseFailure, "creating index directory", fmuerr.FieldPath(dir))
		}
	} else if _, err := os.Stat(dbPath); err != nil {
		return nil, fmuerr.Wrap(err, fmuerr.CodeIndexLoadMissing, "index collection not found", fmuerr.FieldPath(dbPath))
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmuerr.Wrap(err, fmuerr.CodeIndexDatabaseFailure, "opening index collection", fmuerr.FieldPath(dbPath))
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmuerr.Wrap(err, fmuerr.CodeIndexDatabaseFailure, "pinging index collection", fmuerr.FieldPath(dbPath))
	}

	if err := migrate(db, dims); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := checkMeta(db, model, dims); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLite{db: db, dims: dims}, nil
}

func migrate(db *sql.DB, dims int) error {
	vecDDL := fmt.Sprintf(`CREATE VIRTUAL TABLE IF NOT EXISTS entity_vectors USING vec0(
	uri TEXT PRIMARY KEY,
	embedding float[%d] distance_metric=cosine,
	namespace TEXT partition key
)`, dims)
	if _, err := db.Exec(vecDDL); err != nil {
		return fmuerr.Wrap(err, fmuerr.CodeIndexDatabaseFailure, "creating vector table")
	}

	const metaDDL = `
CREATE TABLE IF NOT EXISTS entity_metadata (
	uri        TEXT PRIMARY KEY,
	label      TEXT NOT NULL,
	local_name TEXT NOT NULL,
	namespace  TEXT NOT NULL,
	ordinal    INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS index_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`
	if _, err := db.Exec(metaDDL); err != nil {
		return fmuerr.Wrap(err, fmuerr.CodeIndexDatabaseFailure, "creating metadata tables")
	}

	return nil
}

// checkMeta verifies the collection's recorded embedding model and
// dimensionality, recording them on first use. Vectors from a different
// model would silently corrupt similarity scores, so a mismatch is fatal.
func checkMeta(db *sql.DB, model string, dims int) error {
	storedModel, err := metaValue(db, "model")
	if err != nil {
		return err
	}

	if storedModel == "" {
		if _, err := db.Exec(
			`INSERT OR REPLACE INTO index_meta(key, value) VALUES ('model', ?), ('dimensions', ?)`,
			model, strconv.Itoa(dims),
		); err != nil {
			return fmuerr.Wrap(err, fmuerr.CodeIndexDatabaseFailure, "recording index metadata")
		}
		return nil
	}

	if storedModel != model {
		return fmuerr.New(fmuerr.CodeIndexLoadModelMismatch,
			"index was built with a different embedding model",
			fmuerr.Field("index_model", storedModel),
			fmuerr.Field("configured_model", model))
	}

	storedDims, err := metaValue(db, "dimensions")
	if err != nil {
		return err
	}
	if storedDims != strconv.Itoa(dims) {
		return fmuerr.New(fmuerr.CodeIndexLoadDimensionMismatch,
			"index vector dimensionality does not match the configured model",
			fmuerr.Field("index_dims", storedDims),
			fmuerr.Field("configured_dims", dims))
	}

	return nil
}

func metaValue(db *sql.DB, key string) (string, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM index_meta WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmuerr.Wrap(err, fmuerr.CodeIndexDatabaseFailure, "reading index metadata")
	}
	return value, nil
}

// Add appends records, skipping any URI that already exists in the
// collection or appeared earlier in the same batch.
func (s *SQLite) Add(ctx context.Context, entities []ontology.Entity, vectors [][]float32) (int, error) {
	if err := validateBatch(entities, vectors, s.dims); err != nil {
		return 0, err
	}
	if len(entities) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmuerr.Wrap(err, fmuerr.CodeIndexDatabaseFailure, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	var nextOrdinal int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(ordinal), -1) + 1 FROM entity_metadata`,
	).Scan(&nextOrdinal); err != nil {
		return 0, fmuerr.Wrap(err, fmuerr.CodeIndexDatabaseFailure, "reading next ordinal")
	}

	added := 0
	batch := make(map[string]bool, len(entities))
	for i, e := range entities {
		if batch[e.URI] {
			continue
		}
		batch[e.URI] = true

		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM entity_metadata WHERE uri = ?`, e.URI).Scan(&exists)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, fmuerr.Wrap(err, fmuerr.CodeIndexDatabaseFailure, "checking for existing uri", fmuerr.FieldURI(e.URI))
		}

		blob, err := sqlite_vec.SerializeFloat32(vectors[i])
		if err != nil {
			return 0, fmuerr.Wrap(err, fmuerr.CodeIndexDatabaseFailure, "serializing embedding", fmuerr.FieldURI(e.URI))
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO entity_vectors(uri, embedding, namespace) VALUES (?, ?, ?)`,
			e.URI, blob, e.Namespace,
		); err != nil {
			return 0, fmuerr.Wrap(err, fmuerr.CodeIndexDatabaseFailure, "inserting vector", fmuerr.FieldURI(e.URI))
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO entity_metadata(uri, label, local_name, namespace, ordinal) VALUES (?, ?, ?, ?, ?)`,
			e.URI, e.Label, e.LocalName, e.Namespace, nextOrdinal,
		); err != nil {
			return 0, fmuerr.Wrap(err, fmuerr.CodeIndexDatabaseFailure, "inserting metadata", fmuerr.FieldURI(e.URI))
		}

		nextOrdinal++
		added++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmuerr.Wrap(err, fmuerr.CodeIndexDatabaseFailure, "committing batch")
	}
	return added, nil
}

// Search delegates the KNN query to sqlite-vec and converts the reported
// cosine distance to a similarity (1 - distance).
func (s *SQLite) Search(ctx context.Context, query []float32, namespace string, k int) ([]Match, error) {
	if len(query) != s.dims {
		return nil, fmuerr.Errorf(fmuerr.CodeIndexSearchFailure,
			"query vector has %d dimensions, index has %d", len(query), s.dims)
	}

	if namespace != "" {
		var n int
		if err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM entity_metadata WHERE namespace = ?`, namespace,
		).Scan(&n); err != nil {
			return nil, fmuerr.Wrap(err, fmuerr.CodeIndexDatabaseFailure, "counting namespace members")
		}
		if n == 0 {
			return nil, fmuerr.New(fmuerr.CodeNamespaceFilterEmptyMatch,
				"no indexed entities in namespace", fmuerr.FieldNamespace(namespace))
		}
	}

	blob, err := sqlite_vec.SerializeFloat32(query)
	if err != nil {
		return nil, fmuerr.Wrap(err, fmuerr.CodeIndexDatabaseFailure, "serializing query vector")
	}

	q := `SELECT v.uri, v.distance, m.label, m.local_name, m.namespace, m.ordinal
FROM entity_vectors v
JOIN entity_metadata m ON m.uri = v.uri
WHERE v.embedding MATCH ? AND k = ?`
	args := []any{blob, k}
	if namespace != "" {
		q += ` AND v.namespace = ?`
		args = append(args, namespace)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmuerr.Wrap(err, fmuerr.CodeIndexSearchFailure, "running knn query")
	}
	defer func() { _ = rows.Close() }()

	var candidates []scored
	for rows.Next() {
		var (
			e        ontology.Entity
			distance float64
			ordinal  int
		)
		if err := rows.Scan(&e.URI, &distance, &e.Label, &e.LocalName, &e.Namespace, &ordinal); err != nil {
			return nil, fmuerr.Wrap(err, fmuerr.CodeIndexSearchFailure, "scanning knn result")
		}
		candidates = append(candidates, scored{
			entity:  e,
			score:   1 - distance,
			ordinal: ordinal,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmuerr.Wrap(err, fmuerr.CodeIndexSearchFailure, "iterating knn results")
	}

	return rank(candidates, k), nil
}

func (s *SQLite) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entity_metadata`).Scan(&n); err != nil {
		return 0, fmuerr.Wrap(err, fmuerr.CodeIndexDatabaseFailure, "counting records")
	}
	return n, nil
}

// Save is a no-op: the collection persists every Add immediately.
func (s *SQLite) Save(_ context.Context) error {
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
