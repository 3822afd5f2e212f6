package sqlite

import "time"

// Slot is one stored row: a key and its whole JSON blob
type Slot struct {
	Key       string
	Value     []byte
	UpdatedAt time.Time
}
