// Package achievement derives the badge catalog from a viewer's visible
// tasks. Everything here is a pure function over the slice it is handed:
// no state, no caching, recomputed on every call.
package achievement

import "github.com/tasktrophy/hub/domain"

// Summary carries the aggregate counters behind the badge catalog.
type Summary struct {
	Completed             int
	HighPriorityCompleted int
	OnTimeCompleted       int
}

// Summarize counts the viewer's completions. Counters are raw and never
// clamped; any percentage capping happens at display time.
func Summarize(tasks []domain.Task) Summary {
	var s Summary
	for i := range tasks {
		t := &tasks[i]
		if !t.IsCompleted() {
			continue
		}
		s.Completed++
		if t.Priority == domain.PriorityHigh {
			s.HighPriorityCompleted++
		}
		if t.CompletedOnTime() {
			s.OnTimeCompleted++
		}
	}
	return s
}

type entry struct {
	id          string
	title       string
	description string
	tier        domain.Tier
	requirement int
	progress    func(Summary) int
}

var catalog = []entry{
	{"1", "Task Starter", "Complete your first task", domain.TierBronze, 1,
		func(s Summary) int { return s.Completed }},
	{"2", "Task Master", "Complete 5 tasks", domain.TierSilver, 5,
		func(s Summary) int { return s.Completed }},
	{"3", "Task Champion", "Complete 10 tasks", domain.TierGold, 10,
		func(s Summary) int { return s.Completed }},
	{"4", "High Performer", "Complete 3 high-priority tasks", domain.TierSilver, 3,
		func(s Summary) int { return s.HighPriorityCompleted }},
	{"5", "Deadline Crusher", "Complete 5 tasks before their due date", domain.TierGold, 5,
		func(s Summary) int { return s.OnTimeCompleted }},
	{"6", "Ultimate Task Manager", "Complete 20 tasks", domain.TierPlatinum, 20,
		func(s Summary) int { return s.Completed }},
}

// Compute evaluates the fixed catalog against the viewer's visible tasks.
func Compute(tasks []domain.Task) []domain.Achievement {
	summary := Summarize(tasks)
	out := make([]domain.Achievement, 0, len(catalog))
	for _, e := range catalog {
		out = append(out, domain.Achievement{
			ID:          e.id,
			Title:       e.title,
			Description: e.description,
			Tier:        e.tier,
			Requirement: e.requirement,
			Progress:    e.progress(summary),
		})
	}
	return out
}
