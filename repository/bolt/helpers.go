package bolt

import (
	"encoding/json"

	bbolt "go.etcd.io/bbolt"

	"github.com/tasktrophy/hub/domain"
)

// Bucket names, one per persisted namespace.
const (
	BucketIdentity    = "identity"
	BucketTasks       = "tasks"
	BucketMessages    = "messages"
	BucketCredentials = "credentials"
)

// Buckets lists every namespace the storage client must create.
var Buckets = []string{BucketIdentity, BucketTasks, BucketMessages, BucketCredentials}

// Each bucket holds a single logical record under this key: the full
// collection (or the single identity) serialized as JSON.
var stateKey = []byte("state")

// readState decodes the namespace record into dst. It reports absent=true
// when no record exists and domain.ErrMalformedState when the payload does
// not decode; callers recover by rewriting defaults.
func readState(b *bbolt.Bucket, dst any) (absent bool, err error) {
	raw := b.Get(stateKey)
	if raw == nil {
		return true, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, domain.WrapError(domain.ErrCodeMalformed, "malformed persisted state", err)
	}
	return false, nil
}

// writeState replaces the namespace record with the full collection.
func writeState(b *bbolt.Bucket, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.Put(stateKey, payload)
}
