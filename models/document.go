package models

import "time"

// Document is implemented by every stored record. The store assigns the id and
// creation time on insert unless the record already carries them (imports).
type Document interface {
	Stamp(id string, at time.Time)
	Key() string
}

func stamp(id *string, createdAt *time.Time, newID string, at time.Time) {
	if *id == "" {
		*id = newID
	}
	if createdAt.IsZero() {
		*createdAt = at
	}
}
