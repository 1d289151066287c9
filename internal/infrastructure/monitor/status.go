package monitor

import "time"

type Status struct {
	Tasks         int       `json:"tasks"`
	Messages      int       `json:"messages"`
	Authenticated bool      `json:"authenticated"`
	CurrentUser   string    `json:"current_user,omitempty"`
	LastCheck     time.Time `json:"last_check"`
}
