package domain

import "time"

// Roles a principal can hold. The role travels inside access tokens only;
// refresh tokens carry identity and nothing else.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User is a registered principal. The numeric ID is assigned by the store
// and becomes the subject of every token issued for this user.
type User struct {
	ID            int64
	Username      string
	PreferredName string
	PasswordHash  string
	Role          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
