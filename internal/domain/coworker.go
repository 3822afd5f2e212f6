package domain

import "time"

// Coworker is a person on the timezone/presence board
type Coworker struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Role        string    `json:"role,omitempty"`
	Email       string    `json:"email,omitempty"`
	Timezone    string    `json:"timezone"`
	GraphUserID string    `json:"graphUserId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RecordID implements Record
func (c Coworker) RecordID() string { return c.ID }

// Created implements Record
func (c Coworker) Created() time.Time { return c.CreatedAt }

// WithIdentity implements Record
func (c Coworker) WithIdentity(id string, createdAt time.Time) Coworker {
	c.ID = id
	c.CreatedAt = createdAt
	return c
}
