package sessionindex

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	bolt "go.etcd.io/bbolt"
)

const testSessionID = "a1b2c3d4-e5f6-7890-abcd-ef1234567890"

// createIndex writes a session index database the way the session browser
// would, then closes it so the read-only resolver can open it.
func createIndex(t *testing.T, sessions map[string]Metadata) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sessions.db")
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		t.Fatalf("bolt.Open() error = %v", err)
	}
	defer db.Close()

	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketSessions)
		if err != nil {
			return err
		}
		for id, meta := range sessions {
			data, err := json.Marshal(meta)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(id), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seeding index: %v", err)
	}

	return path
}

func TestLabelFromIndex(t *testing.T) {
	t.Parallel()

	path := createIndex(t, map[string]Metadata{
		testSessionID: {Title: "Refactor the billing pipeline", UpdatedAt: time.Now()},
	})

	r := Open(path)
	defer r.Close()

	if got := r.Label(testSessionID); got != "Refactor the billing pipeline" {
		t.Errorf("Label() = %q, want indexed title", got)
	}
}

func TestLabelUnindexedSession(t *testing.T) {
	t.Parallel()

	path := createIndex(t, map[string]Metadata{
		testSessionID: {Title: "Something else"},
	})

	r := Open(path)
	defer r.Close()

	other := "b2c3d4e5-f6a7-8901-bcde-f23456789012"
	if got := r.Label(other); got != "b2c3d4e5" {
		t.Errorf("Label() = %q, want short prefix b2c3d4e5", got)
	}
}

func TestLabelEmptyTitleFallsBack(t *testing.T) {
	t.Parallel()

	path := createIndex(t, map[string]Metadata{
		testSessionID: {Title: ""},
	})

	r := Open(path)
	defer r.Close()

	if got := r.Label(testSessionID); got != ShortPrefix(testSessionID) {
		t.Errorf("Label() = %q, want short prefix", got)
	}
}

func TestOpenMissingDatabase(t *testing.T) {
	t.Parallel()

	r := Open(filepath.Join(t.TempDir(), "absent.db"))
	defer r.Close()

	if got := r.Label(testSessionID); got != "a1b2c3d4" {
		t.Errorf("Label() = %q, want prefix fallback a1b2c3d4", got)
	}
}

func TestLabelCorruptMetadata(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sessions.db")
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		t.Fatal(err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketSessions)
		if err != nil {
			return err
		}
		return b.Put([]byte(testSessionID), []byte("{not json"))
	})
	db.Close()
	if err != nil {
		t.Fatal(err)
	}

	r := Open(path)
	defer r.Close()

	if got := r.Label(testSessionID); got != ShortPrefix(testSessionID) {
		t.Errorf("Label() = %q, want prefix fallback for corrupt entry", got)
	}
}

func TestShortPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{testSessionID, "a1b2c3d4"},
		{"short", "short"},
		{"", ""},
		{"exactly8", "exactly8"},
	}

	for _, tt := range tests {
		if got := ShortPrefix(tt.in); got != tt.want {
			t.Errorf("ShortPrefix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
