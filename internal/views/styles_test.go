package views

import (
	"testing"

	"dashboard/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestLookups_KnownValues(t *testing.T) {
	assert.Equal(t, "#cc293d", WorkItemTypeStyle("Bug").Color)
	assert.Equal(t, "#009ccc", WorkItemTypeStyle("user story").Color)
	assert.Equal(t, "#007acc", StateColor("Active"))
	assert.Equal(t, "#d13438", PriorityColor(1))
	assert.Equal(t, "#ef4444", TaskPriorityColor(domain.PriorityHigh))
	assert.Equal(t, "#92c353", PresenceStyle(domain.AvailabilityAvailable).Color)
	assert.Equal(t, "#dc2626", UrgencyColor(UrgencyOverdue))
	assert.Equal(t, "💼", CategoryIcon(" Work "))
}

func TestLookups_NeutralDefaults(t *testing.T) {
	assert.Equal(t, NeutralColor, WorkItemTypeStyle("Spike").Color)
	assert.Equal(t, NeutralColor, StateColor("Blocked"))
	assert.Equal(t, NeutralColor, PriorityColor(9))
	assert.Equal(t, NeutralColor, TaskPriorityColor("urgent"))
	assert.Equal(t, NeutralColor, PresenceStyle(domain.AvailabilityUnknown).Color)
	assert.Equal(t, NeutralColor, UrgencyColor("later"))
	assert.Equal(t, "📌", CategoryIcon(""))
}
