package models

// User represents a person who can be a member of groups.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Name is the display name of the user.
	Name string

	// Email is the user's email address. Optional.
	Email string

	// Avatar is a URL or path to the user's profile picture. Optional.
	Avatar string

	// CreatedAt is the Unix timestamp when the user was created.
	CreatedAt int64
}
