package achievement

import (
	"testing"
	"time"

	"github.com/tasktrophy/hub/domain"
)

func completedTask(priority domain.Priority, completedAt time.Time, dueDate string) domain.Task {
	at := completedAt
	return domain.Task{
		Title:       "done",
		Priority:    priority,
		Status:      domain.StatusCompleted,
		DueDate:     dueDate,
		CompletedAt: &at,
	}
}

func pendingTask() domain.Task {
	return domain.Task{Title: "todo", Status: domain.StatusPending, Priority: domain.PriorityHigh}
}

func byTitle(achievements []domain.Achievement, title string) domain.Achievement {
	for _, a := range achievements {
		if a.Title == title {
			return a
		}
	}
	return domain.Achievement{}
}

func TestCompute_CatalogShape(t *testing.T) {
	achievements := Compute(nil)
	if len(achievements) != 6 {
		t.Fatalf("len = %d, want 6", len(achievements))
	}
	for _, a := range achievements {
		if a.Progress != 0 {
			t.Fatalf("%s progress = %d, want 0 with no tasks", a.Title, a.Progress)
		}
		if a.Earned() {
			t.Fatalf("%s earned with no tasks", a.Title)
		}
	}
}

func TestTaskStarter_EarnedFromFirstCompletion(t *testing.T) {
	now := time.Now()
	tasks := []domain.Task{pendingTask(), completedTask(domain.PriorityLow, now, "2026-12-31")}

	starter := byTitle(Compute(tasks), "Task Starter")
	if !starter.Earned() {
		t.Fatal("Task Starter not earned with one completion")
	}
	if starter.Progress != 1 {
		t.Fatalf("progress = %d, want 1", starter.Progress)
	}
}

func TestTaskStarter_OnlyCountsVisibleTasks(t *testing.T) {
	// The engine is handed the viewer's visible set; a viewer with zero
	// own completions earns nothing regardless of what other users did.
	starter := byTitle(Compute([]domain.Task{pendingTask()}), "Task Starter")
	if starter.Earned() {
		t.Fatal("Task Starter earned without a visible completion")
	}
}

func TestHighPerformer_CountsHighPriorityOnly(t *testing.T) {
	now := time.Now()
	tasks := []domain.Task{
		completedTask(domain.PriorityHigh, now, "2026-12-31"),
		completedTask(domain.PriorityHigh, now, "2026-12-31"),
		completedTask(domain.PriorityLow, now, "2026-12-31"),
	}
	hp := byTitle(Compute(tasks), "High Performer")
	if hp.Progress != 2 {
		t.Fatalf("progress = %d, want 2", hp.Progress)
	}
	if hp.Earned() {
		t.Fatal("High Performer earned at 2/3")
	}
}

func TestDeadlineCrusher_ComparesCalendarDates(t *testing.T) {
	onTime := completedTask(domain.PriorityMedium, time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC), "2026-03-10")
	late := completedTask(domain.PriorityMedium, time.Date(2026, 3, 11, 0, 1, 0, 0, time.UTC), "2026-03-10")

	summary := Summarize([]domain.Task{onTime, late})
	if summary.OnTimeCompleted != 1 {
		t.Fatalf("OnTimeCompleted = %d, want 1 (same-day completion counts, next-day does not)", summary.OnTimeCompleted)
	}
}

func TestCompute_ProgressIsNeverClamped(t *testing.T) {
	now := time.Now()
	var tasks []domain.Task
	for i := 0; i < 25; i++ {
		tasks = append(tasks, completedTask(domain.PriorityLow, now, "2026-12-31"))
	}
	ultimate := byTitle(Compute(tasks), "Ultimate Task Manager")
	if ultimate.Progress != 25 {
		t.Fatalf("progress = %d, want raw 25 past the requirement of 20", ultimate.Progress)
	}
	if !ultimate.Earned() {
		t.Fatal("Ultimate Task Manager not earned at 25/20")
	}
}

func TestSummarize_IgnoresIncompleteTasks(t *testing.T) {
	now := time.Now()
	tasks := []domain.Task{
		pendingTask(),
		{Title: "cancelled", Status: domain.StatusCancelled, Priority: domain.PriorityHigh},
		completedTask(domain.PriorityHigh, now, now.Format(domain.DueDateLayout)),
	}
	summary := Summarize(tasks)
	if summary.Completed != 1 || summary.HighPriorityCompleted != 1 || summary.OnTimeCompleted != 1 {
		t.Fatalf("summary = %+v, want 1/1/1", summary)
	}
}
