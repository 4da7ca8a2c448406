package models

import "time"

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Profile is the public view of a user returned by profile update.
type Profile struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProfileWithNotes is Profile plus the derived notes count. Only the profile
// read endpoint carries the count; a zero here is a real count, so the field
// must not be omitempty.
type ProfileWithNotes struct {
	Profile
	NotesCount int `json:"notesCount"`
}
