// Package seed provides the default data each namespace falls back to on
// first run or after malformed-state recovery.
package seed

import (
	_ "embed"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/tasktrophy/hub/domain"
	"github.com/tasktrophy/hub/repository"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type userEntry struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Email      string `yaml:"email"`
	Password   string `yaml:"password"`
	Role       string `yaml:"role"`
	AvatarSeed string `yaml:"avatar_seed"`
}

type taskEntry struct {
	Title            string `yaml:"title"`
	Description      string `yaml:"description"`
	AssignedTo       string `yaml:"assigned_to"`
	AssignedBy       string `yaml:"assigned_by"`
	Priority         string `yaml:"priority"`
	Status           string `yaml:"status"`
	DueInDays        int    `yaml:"due_in_days"`
	CreatedDaysAgo   int    `yaml:"created_days_ago"`
	CompletedDaysAgo *int   `yaml:"completed_days_ago"`
}

type messageEntry struct {
	Text         string `yaml:"text"`
	Sender       string `yaml:"sender"`
	DaysAgo      int    `yaml:"days_ago"`
	MinutesLater int    `yaml:"minutes_later"`
}

type document struct {
	Users    []userEntry    `yaml:"users"`
	Tasks    []taskEntry    `yaml:"tasks"`
	Messages []messageEntry `yaml:"messages"`
}

// Set holds the materialized default collections, ready for the
// repositories.
type Set struct {
	Credentials []repository.Credential
	Tasks       []domain.Task
	Messages    []domain.ChatMessage
}

// Defaults parses the embedded seed document and materializes it relative
// to now. Timestamps in the document are expressed as day offsets so the
// seeded data always looks recent.
func Defaults(now time.Time) (*Set, error) {
	var doc document
	if err := yaml.Unmarshal(defaultsYAML, &doc); err != nil {
		return nil, fmt.Errorf("parsing seed document: %w", err)
	}

	users := make(map[string]domain.User, len(doc.Users))
	set := &Set{}

	for _, entry := range doc.Users {
		user := domain.User{
			ID:        entry.ID,
			Name:      entry.Name,
			Email:     entry.Email,
			Role:      domain.Role(entry.Role),
			AvatarRef: domain.AvatarRef(entry.AvatarSeed),
		}
		if user.ID == "" {
			user.ID = uuid.NewString()
		}
		users[user.ID] = user

		hash, err := bcrypt.GenerateFromPassword([]byte(entry.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hashing seed credential for %s: %w", entry.Email, err)
		}
		set.Credentials = append(set.Credentials, repository.Credential{
			User:         user,
			PasswordHash: string(hash),
		})
	}

	for i, entry := range doc.Tasks {
		assignee, ok := users[entry.AssignedTo]
		if !ok {
			return nil, fmt.Errorf("seed task %q references unknown assignee %q", entry.Title, entry.AssignedTo)
		}
		assigner, ok := users[entry.AssignedBy]
		if !ok {
			return nil, fmt.Errorf("seed task %q references unknown assigner %q", entry.Title, entry.AssignedBy)
		}

		task := domain.Task{
			ID:          strconv.Itoa(i + 1),
			Title:       entry.Title,
			Description: entry.Description,
			AssignedTo:  assignee,
			AssignedBy:  assigner,
			Priority:    domain.Priority(entry.Priority),
			Status:      domain.Status(entry.Status),
			DueDate:     now.AddDate(0, 0, entry.DueInDays).Format(domain.DueDateLayout),
			CreatedAt:   now.AddDate(0, 0, -entry.CreatedDaysAgo),
		}
		if entry.CompletedDaysAgo != nil {
			at := now.AddDate(0, 0, -*entry.CompletedDaysAgo)
			task.CompletedAt = &at
		}
		set.Tasks = append(set.Tasks, task)
	}

	for _, entry := range doc.Messages {
		sender, ok := users[entry.Sender]
		if !ok {
			return nil, fmt.Errorf("seed message %q references unknown sender %q", entry.Text, entry.Sender)
		}
		set.Messages = append(set.Messages, domain.ChatMessage{
			ID:        uuid.NewString(),
			Text:      entry.Text,
			Sender:    sender,
			Timestamp: now.AddDate(0, 0, -entry.DaysAgo).Add(time.Duration(entry.MinutesLater) * time.Minute),
		})
	}

	return set, nil
}
