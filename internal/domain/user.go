package domain

import "time"

// User represents an account that can authenticate against the API.
// Password holds the normalized encoding of the secret, never the plaintext.
type User struct {
	ID        string
	Name      string
	Email     string
	Password  string
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
