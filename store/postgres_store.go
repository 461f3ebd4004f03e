package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/phanxgames/sprig"
)

// DefaultTable is the table PostgresStore uses when none is given.
const DefaultTable = "sprig_scenes"

// PostgresStore keeps scene documents as JSONB rows in PostgreSQL.
type PostgresStore struct {
	db    *sql.DB
	table string
}

// NewPostgresStore connects to connectionString and creates the scene table
// if needed. An empty table means DefaultTable.
func NewPostgresStore(ctx context.Context, connectionString, table string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping database: %w", err)
	}
	ps := NewPostgresStoreFromDB(db, table)
	if err := ps.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: initialize schema: %w", err)
	}
	return ps, nil
}

// NewPostgresStoreFromDB wraps an open database. The schema is not created.
func NewPostgresStoreFromDB(db *sql.DB, table string) *PostgresStore {
	if table == "" {
		table = DefaultTable
	}
	return &PostgresStore{db: db, table: pq.QuoteIdentifier(table)}
}

func (ps *PostgresStore) initSchema(ctx context.Context) error {
	_, err := ps.db.ExecContext(ctx, ps.withTable(`
	CREATE TABLE IF NOT EXISTS %s (
		name TEXT PRIMARY KEY,
		document JSONB NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`))
	return err
}

// withTable substitutes the quoted table name into query.
func (ps *PostgresStore) withTable(query string) string {
	return fmt.Sprintf(query, ps.table)
}

// SaveScene upserts doc under doc.Name.
func (ps *PostgresStore) SaveScene(ctx context.Context, doc sprig.SceneDocument) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("store: marshal scene %q: %w", doc.Name, err)
	}
	_, err = ps.db.ExecContext(ctx, ps.withTable(`
	INSERT INTO %s (name, document) VALUES ($1, $2)
	ON CONFLICT (name)
	DO UPDATE SET document = $2, updated_at = NOW()`), doc.Name, string(raw))
	if err != nil {
		return fmt.Errorf("store: save scene %q: %w", doc.Name, describe(err))
	}
	return nil
}

// LoadScene returns the document stored under name.
func (ps *PostgresStore) LoadScene(ctx context.Context, name string) (sprig.SceneDocument, error) {
	var raw string
	err := ps.db.QueryRowContext(ctx, ps.withTable(`SELECT document FROM %s WHERE name = $1`), name).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return sprig.SceneDocument{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return sprig.SceneDocument{}, fmt.Errorf("store: load scene %q: %w", name, describe(err))
	}
	var doc sprig.SceneDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return sprig.SceneDocument{}, fmt.Errorf("store: unmarshal scene %q: %w", name, err)
	}
	return doc, nil
}

// ListScenes returns the stored scene names in ascending order.
func (ps *PostgresStore) ListScenes(ctx context.Context) ([]string, error) {
	rows, err := ps.db.QueryContext(ctx, ps.withTable(`SELECT name FROM %s ORDER BY name`))
	if err != nil {
		return nil, fmt.Errorf("store: list scenes: %w", describe(err))
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("store: list scenes: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DeleteScene removes the document stored under name.
func (ps *PostgresStore) DeleteScene(ctx context.Context, name string) error {
	res, err := ps.db.ExecContext(ctx, ps.withTable(`DELETE FROM %s WHERE name = $1`), name)
	if err != nil {
		return fmt.Errorf("store: delete scene %q: %w", name, describe(err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}

// Close closes the database connection.
func (ps *PostgresStore) Close() error {
	sprig.Logger().Info("closing scene database")
	return ps.db.Close()
}

// describe adds the SQLSTATE code to PostgreSQL errors.
func describe(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("%s (%s): %w", pqErr.Code.Name(), pqErr.Code, err)
	}
	return err
}
