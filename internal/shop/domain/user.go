package domain

import "time"

type User struct {
	ID           string
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string // argon2id encoded, empty for unusable passwords
	IsStaff      bool
	IsSuperuser  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Group is a named membership bucket. Role resolution reads group names;
// nothing else about a group carries meaning here.
type Group struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
