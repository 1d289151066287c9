package domain

import "fmt"

// Role determines which tasks a viewer may see. The store layer never
// rejects a call based on role; route guards do that upstream.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents an authenticated identity. Tasks and messages embed a
// copy taken at assignment/send time, so later changes to the canonical
// user never rewrite history.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	AvatarRef string `json:"avatarRef,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// AvatarRef builds the opaque avatar reference assigned to new identities.
func AvatarRef(seed string) string {
	return fmt.Sprintf("https://api.dicebear.com/7.x/personas/svg?seed=%s", seed)
}
