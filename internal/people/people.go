package people

import (
	"time"

	"github.com/google/uuid"
)

// Role of a Membership inside a Group.
type Role string

const (
	RoleParent Role = "parent"
	RoleChild  Role = "child"
	RoleFriend Role = "friend"
	RoleNone   Role = "none"
)

type Person struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ClerkID   *string   `json:"-" db:"clerk_id"`
	Name      string    `json:"name" db:"name"`
	BirthDate time.Time `json:"birth_date" db:"birth_date"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Group struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Pronoun set used for narrative string substitution.
type Pronoun struct {
	Personal   string `json:"personal" db:"pronoun_personal"`
	Pronoun    string `json:"pronoun" db:"pronoun_subject"`
	Possessive string `json:"possessive" db:"pronoun_possessive"`
}

type Membership struct {
	ID       uuid.UUID `json:"id" db:"id"`
	PersonID uuid.UUID `json:"person_id" db:"person_id"`
	GroupID  uuid.UUID `json:"group_id" db:"group_id"`
	Role     Role      `json:"role" db:"role"`
	Pronoun  Pronoun   `json:"pronoun"`
}

// Member is a Person joined with their Membership in one Group.
type Member struct {
	Person  Person  `json:"person"`
	Role    Role    `json:"role"`
	Pronoun Pronoun `json:"pronoun"`
}

type GroupDetail struct {
	Group   Group    `json:"group"`
	Members []Member `json:"members"`
}

type PersonDetail struct {
	Person       Person `json:"person"`
	Role         Role   `json:"role,omitempty"`
	LastPullTime *int64 `json:"last_pull_time"`
}
