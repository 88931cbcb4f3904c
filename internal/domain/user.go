package domain

import "time"

// User is the domain model for accounts that submit and answer tickets.
// Users are immutable after registration.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
