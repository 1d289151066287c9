package seed

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tasktrophy/hub/domain"
)

func TestDefaults_Materializes(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	set, err := Defaults(now)
	if err != nil {
		t.Fatal(err)
	}

	if len(set.Credentials) != 2 {
		t.Fatalf("len(Credentials) = %d, want 2", len(set.Credentials))
	}
	if len(set.Tasks) != 3 {
		t.Fatalf("len(Tasks) = %d, want 3", len(set.Tasks))
	}
	if len(set.Messages) != 4 {
		t.Fatalf("len(Messages) = %d, want 4", len(set.Messages))
	}
}

func TestDefaults_CredentialsVerify(t *testing.T) {
	set, err := Defaults(time.Now())
	if err != nil {
		t.Fatal(err)
	}
	for i, password := range []string{"admin123", "user123"} {
		cred := set.Credentials[i]
		if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
			t.Fatalf("credential %s does not verify: %v", cred.User.Email, err)
		}
	}
	if set.Credentials[0].User.Role != domain.RoleAdmin {
		t.Fatalf("first seed user role = %q, want admin", set.Credentials[0].User.Role)
	}
}

func TestDefaults_TaskInvariants(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	set, err := Defaults(now)
	if err != nil {
		t.Fatal(err)
	}

	for _, task := range set.Tasks {
		if (task.CompletedAt != nil) != (task.Status == domain.StatusCompleted) {
			t.Fatalf("task %q: CompletedAt set does not match status %q", task.Title, task.Status)
		}
		if _, err := time.Parse(domain.DueDateLayout, task.DueDate); err != nil {
			t.Fatalf("task %q: due date %q: %v", task.Title, task.DueDate, err)
		}
		if task.AssignedBy.Role != domain.RoleAdmin {
			t.Fatalf("task %q assigned by %q, want the admin", task.Title, task.AssignedBy.Name)
		}
	}

	// The seeded completed task finished before its deadline.
	if !set.Tasks[0].CompletedOnTime() {
		t.Fatal("seeded completed task should count as on time")
	}
}

func TestDefaults_MessagesOldestFirst(t *testing.T) {
	set, err := Defaults(time.Now())
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(set.Messages); i++ {
		if set.Messages[i].Timestamp.Before(set.Messages[i-1].Timestamp) {
			t.Fatalf("messages out of order at %d", i)
		}
	}
}
