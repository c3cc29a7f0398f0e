// Package store persists named queries for later reuse.
package store

import "time"

// StoredQuery is one saved query in its wire form. The serialized map
// is the same flat format the UI exchanges; the store never interprets
// it beyond round-tripping.
type StoredQuery struct {
	ID         string
	Scope      string
	EventID    int
	Name       string
	Serialized map[string]string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// QueryStore is the persistence interface for saved queries.
type QueryStore interface {
	Save(q *StoredQuery) error
	Get(id string) (*StoredQuery, error)
	List(scope string, eventID int) ([]*StoredQuery, error)
	Delete(id string) error
	Close() error
}
