package bolt

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/tasktrophy/hub/domain"
)

func openDB(t *testing.T, path string) *bbolt.DB {
	t.Helper()
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		for _, bucket := range Buckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	return db
}

func testUser(id, name string, role domain.Role) domain.User {
	return domain.User{ID: id, Name: name, Email: name + "@example.com", Role: role}
}

func seedTasks() []domain.Task {
	admin := testUser("1", "admin", domain.RoleAdmin)
	user := testUser("2", "user", domain.RoleUser)
	return []domain.Task{
		{
			ID:         "1",
			Title:      "First",
			AssignedTo: user,
			AssignedBy: admin,
			Priority:   domain.PriorityHigh,
			Status:     domain.StatusPending,
			DueDate:    "2026-09-01",
			CreatedAt:  time.Now().Add(-time.Hour),
		},
		{
			ID:         "2",
			Title:      "Second",
			AssignedTo: user,
			AssignedBy: admin,
			Priority:   domain.PriorityLow,
			Status:     domain.StatusInProgress,
			DueDate:    "2026-09-10",
			CreatedAt:  time.Now().Add(-30 * time.Minute),
		},
	}
}

func TestTaskRepository_SeedsDefaultsOnFirstRun(t *testing.T) {
	db := openDB(t, filepath.Join(t.TempDir(), "hub.db"))
	defer db.Close()

	repo, err := NewTaskRepository(db, seedTasks(), nil)
	if err != nil {
		t.Fatal(err)
	}

	tasks, err := repo.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 2 {
		t.Fatalf("len(tasks) = %d, want 2", len(tasks))
	}
	if tasks[0].ID != "1" || tasks[1].ID != "2" {
		t.Fatalf("ids = %s, %s, want 1, 2", tasks[0].ID, tasks[1].ID)
	}
}

func TestTaskRepository_CreateAssignsMonotoneIDs(t *testing.T) {
	db := openDB(t, filepath.Join(t.TempDir(), "hub.db"))
	defer db.Close()

	repo, err := NewTaskRepository(db, seedTasks(), nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	// Fresh ids must start past the seeded ones.
	created, err := repo.Create(ctx, &domain.Task{Title: "Third", Status: domain.StatusPending})
	if err != nil {
		t.Fatal(err)
	}
	if created.ID != "3" {
		t.Fatalf("ID = %q, want 3", created.ID)
	}

	// Deleting must not free the id for reuse.
	if err := repo.Delete(ctx, "3"); err != nil {
		t.Fatal(err)
	}
	next, err := repo.Create(ctx, &domain.Task{Title: "Fourth", Status: domain.StatusPending})
	if err != nil {
		t.Fatal(err)
	}
	if next.ID != "4" {
		t.Fatalf("ID = %q, want 4", next.ID)
	}
}

func TestTaskRepository_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hub.db")
	db := openDB(t, path)

	repo, err := NewTaskRepository(db, seedTasks(), nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if _, err := repo.Create(ctx, &domain.Task{Title: "Third", Status: domain.StatusPending, CreatedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	before, err := repo.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	db = openDB(t, path)
	defer db.Close()
	repo, err = NewTaskRepository(db, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	after, err := repo.List(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if len(after) != len(before) {
		t.Fatalf("len(after) = %d, want %d", len(after), len(before))
	}
	for i := range before {
		if after[i].ID != before[i].ID {
			t.Fatalf("after[%d].ID = %q, want %q", i, after[i].ID, before[i].ID)
		}
		if after[i].Title != before[i].Title {
			t.Fatalf("after[%d].Title = %q, want %q", i, after[i].Title, before[i].Title)
		}
		if !after[i].CreatedAt.Equal(before[i].CreatedAt) {
			t.Fatalf("after[%d].CreatedAt = %v, want %v", i, after[i].CreatedAt, before[i].CreatedAt)
		}
	}
}

func TestTaskRepository_MalformedRecordRevertsToDefaults(t *testing.T) {
	db := openDB(t, filepath.Join(t.TempDir(), "hub.db"))
	defer db.Close()

	if err := db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(BucketTasks)).Put(stateKey, []byte("{not json"))
	}); err != nil {
		t.Fatal(err)
	}

	repo, err := NewTaskRepository(db, seedTasks(), nil)
	if err != nil {
		t.Fatal(err)
	}
	tasks, err := repo.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 2 {
		t.Fatalf("len(tasks) = %d, want the 2 defaults", len(tasks))
	}
}

func TestTaskRepository_UpdateMissingID(t *testing.T) {
	db := openDB(t, filepath.Join(t.TempDir(), "hub.db"))
	defer db.Close()

	repo, err := NewTaskRepository(db, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	title := "nope"
	if _, err := repo.Update(context.Background(), "42", domain.TaskPatch{Title: &title}); err != domain.ErrTaskNotFound {
		t.Fatalf("err = %v, want ErrTaskNotFound", err)
	}
	if err := repo.Delete(context.Background(), "42"); err != domain.ErrTaskNotFound {
		t.Fatalf("err = %v, want ErrTaskNotFound", err)
	}
}
