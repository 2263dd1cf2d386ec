package domain

import "time"

// User is an experiment owner.
type User struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
}
