package model

import "time"

const (
	StatusPlanned  = "planned"
	StatusDone     = "done"
	StatusCanceled = "canceled"
)

// ValidStatus reports whether s is one of the three allowed
// appointment statuses. The database enforces the same set with a
// CHECK constraint.
func ValidStatus(s string) bool {
	switch s {
	case StatusPlanned, StatusDone, StatusCanceled:
		return true
	}
	return false
}

type User struct {
	ID           int64
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

type Appointment struct {
	ID       int64
	OwnerID  *int64 // nil once the owning user is deleted
	Title    string
	DateText string
	TimeText string
	Location string
	Notes    string
	Status   string

	UpdatedAt       *time.Time // last content edit
	StatusUpdatedAt *time.Time // last admin status change
	StatusUpdatedBy *int64     // admin who made the change
	CreatedAt       time.Time

	// Joined for display; the store never exposes password hashes.
	OwnerEmail           string
	StatusUpdatedByEmail string
}
