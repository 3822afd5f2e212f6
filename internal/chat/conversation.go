package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"dashboard/internal/domain"
	"dashboard/internal/repository"
	"dashboard/internal/store"

	"go.uber.org/zap"
)

// MaxHistory is the number of messages a conversation keeps; older turns
// are dropped first
const MaxHistory = 100

// Conversation is a persisted chat thread
type Conversation struct {
	mu      sync.Mutex
	client  *Client
	slot    *store.Slot[[]domain.ChatMessage]
	history []domain.ChatMessage
	now     func() time.Time
	logger  *zap.Logger
}

// NewConversation binds a thread stored in repo to client
func NewConversation(client *Client, repo repository.Repository) *Conversation {
	return &Conversation{
		client: client,
		slot:   store.NewSlot[[]domain.ChatMessage](repo, repository.KeyChatHistory, "chat history"),
		now:    client.now,
		logger: client.logger,
	}
}

// Load reads the stored thread; an unreadable thread starts empty
func (c *Conversation) Load(ctx context.Context) error {
	history, _, err := c.slot.Load(ctx)
	if err != nil {
		c.logger.Warn("discarding stored chat history", zap.Error(err))
		history = nil
	}
	c.mu.Lock()
	c.history = history
	c.mu.Unlock()
	return nil
}

// History returns a copy of the thread
func (c *Conversation) History() []domain.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.ChatMessage, len(c.history))
	copy(out, c.history)
	return out
}

// Ask sends text with the thread so far. On success both turns are
// appended and persisted; on failure the thread is unchanged.
func (c *Conversation) Ask(ctx context.Context, text string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	reply, err := c.client.Send(ctx, text, c.history)
	if err != nil {
		return "", err
	}

	now := c.now()
	history := append(c.history,
		domain.ChatMessage{Role: domain.RoleUser, Content: strings.TrimSpace(text), At: now},
		domain.ChatMessage{Role: domain.RoleAssistant, Content: reply, At: now},
	)
	if len(history) > MaxHistory {
		history = append([]domain.ChatMessage(nil), history[len(history)-MaxHistory:]...)
	}
	c.history = history

	if err := c.slot.Save(ctx, history); err != nil {
		c.logger.Warn("failed to persist chat history", zap.Error(err))
	}
	return reply, nil
}

// Clear empties the thread
func (c *Conversation) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = nil
	return c.slot.Clear(ctx)
}
