// Package domain holds the dashboard's records: locally stored items and
// snapshots fetched from remote providers.
package domain

import "time"

// Record is an item kept in a persisted list store. WithIdentity returns a
// copy carrying the given id and creation instant, which the store uses to
// keep both fields immutable across partial updates.
type Record[T any] interface {
	RecordID() string
	Created() time.Time
	WithIdentity(id string, createdAt time.Time) T
}
