package domain

import "time"

// User represents a registered account. PasswordHash is never serialized
// outside the store and service layers.
type User struct {
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	JoinedAt     time.Time
	LastLoginAt  *time.Time
}

// Profile is the public part of a user, safe to embed in message listings.
type Profile struct {
	Username  string
	FirstName string
	LastName  string
	Phone     string
}

// Profile strips credentials and timestamps from the user.
func (u User) Profile() Profile {
	return Profile{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
	}
}
