package bolt

import (
	"context"
	"path/filepath"
	"testing"

	bbolt "go.etcd.io/bbolt"

	"github.com/tasktrophy/hub/domain"
)

func TestIdentityRepository_SaveGetClear(t *testing.T) {
	db := openDB(t, filepath.Join(t.TempDir(), "hub.db"))
	defer db.Close()

	repo := NewIdentityRepository(db, nil)
	ctx := context.Background()

	got, err := repo.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("Get on empty store = %+v, want nil", got)
	}

	user := testUser("2", "user", domain.RoleUser)
	if err := repo.Save(ctx, &user); err != nil {
		t.Fatal(err)
	}
	got, err = repo.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.ID != "2" {
		t.Fatalf("Get = %+v, want user 2", got)
	}

	if err := repo.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	got, err = repo.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("Get after Clear = %+v, want nil", got)
	}
}

func TestIdentityRepository_MalformedRecordIsDiscarded(t *testing.T) {
	db := openDB(t, filepath.Join(t.TempDir(), "hub.db"))
	defer db.Close()

	if err := db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(BucketIdentity)).Put(stateKey, []byte("###"))
	}); err != nil {
		t.Fatal(err)
	}

	repo := NewIdentityRepository(db, nil)
	got, err := repo.Get(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("Get = %+v, want nil after discarding corrupt record", got)
	}

	// The corrupt record is gone, not just skipped.
	if err := db.View(func(tx *bbolt.Tx) error {
		if raw := tx.Bucket([]byte(BucketIdentity)).Get(stateKey); raw != nil {
			t.Fatalf("record still present: %q", raw)
		}
		return nil
	}); err != nil {
		t.Fatal(err)
	}
}
