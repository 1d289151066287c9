package bolt

import (
	"os"
	"path/filepath"
	"time"

	bbolt "go.etcd.io/bbolt"
)

// Client owns the bbolt file every namespace lives in. Each store keeps
// its own bucket; there is no cross-bucket transaction guarantee beyond
// what a single mutation needs.
type Client struct {
	db *bbolt.DB
}

// Open initializes the database file and ensures the requested buckets
// exist.
func Open(path string, buckets ...string) (*Client, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		for _, bucket := range buckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Client{db: db}, nil
}

// DB exposes the underlying handle for the repository layer.
func (c *Client) DB() *bbolt.DB {
	if c == nil {
		return nil
	}
	return c.db
}

// Close closes the database file.
func (c *Client) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Stats exposes bbolt statistics for status reporting.
func (c *Client) Stats() bbolt.Stats {
	if c == nil || c.db == nil {
		return bbolt.Stats{}
	}
	return c.db.Stats()
}
