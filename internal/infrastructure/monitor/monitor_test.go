package monitor

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/tasktrophy/hub/domain"
	boltRepo "github.com/tasktrophy/hub/repository/bolt"
)

func TestSnapshot(t *testing.T) {
	db, err := bbolt.Open(filepath.Join(t.TempDir(), "hub.db"), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if err := db.Update(func(tx *bbolt.Tx) error {
		for _, bucket := range boltRepo.Buckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	user := domain.User{ID: "2", Name: "Test User", Role: domain.RoleUser}
	tasks := []domain.Task{{ID: "1", Title: "only", AssignedTo: user, Status: domain.StatusPending}}
	messages := []domain.ChatMessage{
		{ID: "m1", Text: "hi", Sender: user, Timestamp: time.Now()},
		{ID: "m2", Text: "again", Sender: user, Timestamp: time.Now()},
	}

	taskRepo, err := boltRepo.NewTaskRepository(db, tasks, nil)
	if err != nil {
		t.Fatal(err)
	}
	messageRepo, err := boltRepo.NewMessageRepository(db, messages, nil)
	if err != nil {
		t.Fatal(err)
	}
	identityRepo := boltRepo.NewIdentityRepository(db, nil)

	ctx := context.Background()
	m := New(taskRepo, messageRepo, identityRepo, nil)

	status, err := m.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if status.Tasks != 1 || status.Messages != 2 {
		t.Fatalf("status = %+v, want 1 task and 2 messages", status)
	}
	if status.Authenticated {
		t.Fatal("Authenticated = true with no stored identity")
	}

	if err := identityRepo.Save(ctx, &user); err != nil {
		t.Fatal(err)
	}
	status, err = m.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !status.Authenticated || status.CurrentUser != "Test User" {
		t.Fatalf("status = %+v, want authenticated as Test User", status)
	}
}
