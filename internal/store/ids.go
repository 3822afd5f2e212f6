package store

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// IDGenerator issues "<unix millis base36>-<8 hex>" ids and remembers every
// id it has issued or been told about, so an id is never handed out twice
// in a session, even after its record was removed.
type IDGenerator struct {
	mu     sync.Mutex
	issued map[string]struct{}
	now    func() time.Time
	suffix func() string
}

// NewIDGenerator creates a generator reading the given clock
func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{
		issued: make(map[string]struct{}),
		now:    now,
		suffix: randomSuffix,
	}
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Next returns a fresh id
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	prefix := strconv.FormatInt(g.now().UnixMilli(), 36)
	for {
		id := prefix + "-" + g.suffix()
		if _, taken := g.issued[id]; !taken {
			g.issued[id] = struct{}{}
			return id
		}
	}
}

// Reserve marks ids that came from storage or an import as taken
func (g *IDGenerator) Reserve(ids ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, id := range ids {
		g.issued[id] = struct{}{}
	}
}

// Issued reports whether id has been issued or reserved
func (g *IDGenerator) Issued(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.issued[id]
	return ok
}
