// Package models defines server-side data models persisted in the database.
package models

import "time"

// Identity is a registered user. PasswordHash is never the plaintext.
// MaxTextLength is the width of the VARCHAR columns holding emails and
// entry names, counted in characters.
const MaxTextLength = 255

type Identity struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IdentitySummary is the public view of an Identity returned to clients.
type IdentitySummary struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

func (i *Identity) Summary() IdentitySummary {
	return IdentitySummary{ID: i.ID, Email: i.Email}
}
