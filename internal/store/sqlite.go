package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	_ "modernc.org/sqlite"

	"github.com/eventware/queryspec/pkg/query"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNotFound is returned when no stored query matches the given id.
var ErrNotFound = errors.New("stored query not found")

// SQLiteStore implements QueryStore on a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore creates an unopened store instance.
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{}
}

// Open opens the database at path; use ":memory:" for tests.
func (s *SQLiteStore) Open(path string) error {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("opening sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("pinging sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save inserts the query, or updates it in place when its id already
// exists. Only storable scopes are accepted; a missing id is generated.
func (s *SQLiteStore) Save(q *StoredQuery) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	scope, ok := query.ParseScope(q.Scope)
	if !ok {
		return fmt.Errorf("unknown scope %q", q.Scope)
	}
	if !scope.SupportsStoring() {
		return fmt.Errorf("scope %q does not support stored queries", q.Scope)
	}
	if q.Name == "" {
		return fmt.Errorf("stored query needs a name")
	}

	payload, err := json.Marshal(q.Serialized)
	if err != nil {
		return fmt.Errorf("encoding query payload: %w", err)
	}

	now := time.Now().UTC()
	if q.ID == "" {
		q.ID = uuid.New().String()
		q.CreatedAt = now
	}
	q.UpdatedAt = now

	_, err = s.db.Exec(
		`INSERT INTO stored_queries (id, scope, event_id, name, payload, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   scope = excluded.scope,
		   event_id = excluded.event_id,
		   name = excluded.name,
		   payload = excluded.payload,
		   updated_at = excluded.updated_at`,
		q.ID, q.Scope, q.EventID, q.Name, string(payload), q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving query %q: %w", q.Name, err)
	}
	return nil
}

// Get retrieves one stored query by id.
func (s *SQLiteStore) Get(id string) (*StoredQuery, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRow(
		`SELECT id, scope, event_id, name, payload, created_at, updated_at
		 FROM stored_queries WHERE id = ?`, id,
	)
	q, err := scanStoredQuery(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return q, err
}

// List returns the stored queries of one scope, filtered by event when
// eventID is nonzero, newest first.
func (s *SQLiteStore) List(scope string, eventID int) ([]*StoredQuery, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	queryText := `SELECT id, scope, event_id, name, payload, created_at, updated_at
		 FROM stored_queries WHERE scope = ?`
	args := []any{scope}
	if eventID != 0 {
		queryText += ` AND event_id = ?`
		args = append(args, eventID)
	}
	queryText += ` ORDER BY updated_at DESC, name ASC`

	rows, err := s.db.Query(queryText, args...)
	if err != nil {
		return nil, fmt.Errorf("listing queries for scope %q: %w", scope, err)
	}
	defer rows.Close()

	var out []*StoredQuery
	for rows.Next() {
		q, err := scanStoredQuery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// Delete removes a stored query. Deleting an unknown id returns
// ErrNotFound.
func (s *SQLiteStore) Delete(id string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	res, err := s.db.Exec(`DELETE FROM stored_queries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting query %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStoredQuery(row rowScanner) (*StoredQuery, error) {
	q := &StoredQuery{}
	var payload string
	if err := row.Scan(&q.ID, &q.Scope, &q.EventID, &q.Name, &payload, &q.CreatedAt, &q.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(payload), &q.Serialized); err != nil {
		return nil, fmt.Errorf("decoding query payload: %w", err)
	}
	return q, nil
}
