package domain

import "time"

// Role determines which routes an account may reach.
type Role string

const (
	RoleStaff Role = "staff"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known literals.
func (r Role) Valid() bool {
	return r == RoleStaff || r == RoleAdmin
}

// Gender is a closed enum; values are matched case-sensitively.
type Gender string

const (
	GenderMale         Gender = "male"
	GenderFemale       Gender = "female"
	GenderRatherNotSay Gender = "rather-not-say"
)

// Valid reports whether the gender is one of the known literals.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale || g == GenderRatherNotSay
}

// Account is the domain model for a registered user.
// PasswordHash is write-only: default repository reads leave it empty.
type Account struct {
	ID            string
	FirstName     string
	LastName      string
	MiddleInitial string
	Email         string
	PasswordHash  string
	Age           int
	Gender        Gender
	Role          Role
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
