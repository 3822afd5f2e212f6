package views

import (
	"strings"

	"dashboard/internal/domain"
)

// Style is a display color and icon pair
type Style struct {
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// NeutralColor is returned for anything outside the lookup tables
const NeutralColor = "#6b7280"

var workItemTypeStyles = map[string]Style{
	"bug":        {Color: "#cc293d", Icon: "🐞"},
	"task":       {Color: "#f2cb1d", Icon: "✔"},
	"user story": {Color: "#009ccc", Icon: "📖"},
	"feature":    {Color: "#773b93", Icon: "🏆"},
	"epic":       {Color: "#ff7b00", Icon: "👑"},
	"issue":      {Color: "#b4009e", Icon: "❗"},
	"test case":  {Color: "#004b50", Icon: "🧪"},
}

var stateColors = map[string]string{
	"new":         "#b2b2b2",
	"to do":       "#b2b2b2",
	"proposed":    "#b2b2b2",
	"active":      "#007acc",
	"in progress": "#007acc",
	"committed":   "#007acc",
	"resolved":    "#ff9d00",
	"ready":       "#ff9d00",
	"closed":      "#339933",
	"done":        "#339933",
	"removed":     "#cccccc",
}

var workItemPriorityColors = map[int]string{
	1: "#d13438",
	2: "#ff8c00",
	3: "#0078d4",
	4: "#8a8886",
}

var taskPriorityColors = map[domain.Priority]string{
	domain.PriorityHigh:   "#ef4444",
	domain.PriorityMedium: "#f59e0b",
	domain.PriorityLow:    "#10b981",
}

var presenceStyles = map[string]Style{
	domain.AvailabilityAvailable:    {Color: "#92c353", Icon: "●"},
	domain.AvailabilityBusy:         {Color: "#c4314b", Icon: "●"},
	domain.AvailabilityDoNotDisturb: {Color: "#c4314b", Icon: "⛔"},
	domain.AvailabilityAway:         {Color: "#fcd116", Icon: "◐"},
	domain.AvailabilityBeRightBack:  {Color: "#fcd116", Icon: "◐"},
	domain.AvailabilityOffline:      {Color: "#8a8886", Icon: "○"},
}

var urgencyColors = map[SprintUrgency]string{
	UrgencyOverdue:  "#dc2626",
	UrgencyCritical: "#ea580c",
	UrgencyWarning:  "#d97706",
	UrgencyCurrent:  "#2563eb",
	UrgencyFuture:   "#7c3aed",
	UrgencyNone:     NeutralColor,
}

var categoryIcons = map[string]string{
	"work":     "💼",
	"personal": "🏠",
	"shopping": "🛒",
	"health":   "❤",
	"learning": "📚",
	"finance":  "💰",
	"meeting":  "📅",
}

// WorkItemTypeStyle looks up an Azure DevOps work item type
func WorkItemTypeStyle(workItemType string) Style {
	if s, ok := workItemTypeStyles[strings.ToLower(workItemType)]; ok {
		return s
	}
	return Style{Color: NeutralColor, Icon: "•"}
}

// StateColor looks up a work item state
func StateColor(state string) string {
	if c, ok := stateColors[strings.ToLower(state)]; ok {
		return c
	}
	return NeutralColor
}

// PriorityColor looks up a work item priority (1 is highest)
func PriorityColor(priority int) string {
	if c, ok := workItemPriorityColors[priority]; ok {
		return c
	}
	return NeutralColor
}

// TaskPriorityColor looks up a local task priority
func TaskPriorityColor(p domain.Priority) string {
	if c, ok := taskPriorityColors[p]; ok {
		return c
	}
	return NeutralColor
}

// PresenceStyle looks up a Graph availability value
func PresenceStyle(availability string) Style {
	if s, ok := presenceStyles[availability]; ok {
		return s
	}
	return Style{Color: NeutralColor, Icon: "?"}
}

// UrgencyColor looks up a sprint urgency
func UrgencyColor(u SprintUrgency) string {
	if c, ok := urgencyColors[u]; ok {
		return c
	}
	return NeutralColor
}

// CategoryIcon looks up a task category
func CategoryIcon(category string) string {
	if i, ok := categoryIcons[strings.ToLower(strings.TrimSpace(category))]; ok {
		return i
	}
	return "📌"
}
