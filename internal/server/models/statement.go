package models

import "time"

// Statement points at an exported CSV statement in object storage.
type Statement struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}
