// Package repository defines the durable key-value slot space shared by the
// dashboard stores. Every slot holds one JSON blob that is read and written
// whole.
package repository

import "context"

// Fixed slot keys. The key space is process-wide; concurrent writers of the
// same key race and the last write wins.
const (
	KeyTasks          = "tasks"
	KeyCoworkers      = "coworkers"
	KeyDevOpsSettings = "settings.devops"
	KeyGraphSettings  = "settings.graph"
	KeyChatSettings   = "settings.chat"
	KeyNewsSettings   = "settings.news"
	KeyChatRateLimit  = "chat.ratelimit"
	KeyChatHistory    = "chat.history"
	KeyUIPreferences  = "ui.preferences"
)

// Repository defines the interface for slot storage operations
type Repository interface {
	// Get returns the blob stored under key, or a not-found AppError.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put overwrites the blob stored under key.
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists every stored key in ascending order.
	Keys(ctx context.Context) ([]string, error)

	Close() error
}
