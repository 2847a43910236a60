// Package sessionindex resolves session identifiers to human-readable
// labels for display grouping.
//
// The index is a BoltDB database maintained by the session browser; this
// package only ever reads it. A missing database, a closed database, or an
// unindexed session are all normal: the resolver then falls back to a short
// prefix of the raw identifier and never errors.
package sessionindex

import (
	"encoding/json"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names.
var bucketSessions = []byte("sessions") // UUID -> Metadata

// prefixLen is the length of the fallback label cut from the identifier.
const prefixLen = 8

// Metadata is the per-session record the session browser writes.
type Metadata struct {
	Title     string    `json:"title"`
	Summary   string    `json:"summary,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Resolver looks up display labels. Pure lookup, no mutation.
type Resolver interface {
	// Label returns the indexed title for a session, or the identifier's
	// short prefix when the session is not indexed.
	Label(sessionID string) string

	// Close releases the underlying database, if any.
	Close() error
}

// boltResolver implements Resolver over a read-only BoltDB handle.
type boltResolver struct {
	db *bolt.DB
}

// Open opens the session index at path. When the database does not exist
// or cannot be opened, a prefix-only resolver is returned instead of an
// error: reports must run without the index.
func Open(path string) Resolver {
	db, err := bolt.Open(path, 0400, &bolt.Options{
		ReadOnly: true,
		Timeout:  time.Second,
	})
	if err != nil {
		return prefixResolver{}
	}
	return &boltResolver{db: db}
}

// Label implements Resolver.Label.
func (r *boltResolver) Label(sessionID string) string {
	var label string

	_ = r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSessions)
		if b == nil {
			return nil
		}

		data := b.Get([]byte(sessionID))
		if data == nil {
			return nil
		}

		var meta Metadata
		if err := json.Unmarshal(data, &meta); err != nil {
			return nil
		}
		label = meta.Title

		return nil
	})

	if label == "" {
		return ShortPrefix(sessionID)
	}
	return label
}

// Close implements Resolver.Close.
func (r *boltResolver) Close() error {
	return r.db.Close()
}

// prefixResolver is the no-index fallback.
type prefixResolver struct{}

// Label implements Resolver.Label.
func (prefixResolver) Label(sessionID string) string {
	return ShortPrefix(sessionID)
}

// Close implements Resolver.Close.
func (prefixResolver) Close() error {
	return nil
}

// ShortPrefix returns the first characters of a session identifier,
// enough to tell sessions apart in a report without a full UUID column.
func ShortPrefix(sessionID string) string {
	if len(sessionID) <= prefixLen {
		return sessionID
	}
	return sessionID[:prefixLen]
}
