package domain

import "time"

// Source identifies where a remote record came from
type Source struct {
	Organization string `json:"organization"`
	Project      string `json:"project"`
	DisplayName  string `json:"displayName,omitempty"`
}

// Label is the display name, falling back to the project name
func (s Source) Label() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.Project
}

// WorkItem is an Azure DevOps work item snapshot
type WorkItem struct {
	ID            int        `json:"id"`
	Title         string     `json:"title"`
	Type          string     `json:"type"`
	State         string     `json:"state"`
	AssignedTo    string     `json:"assignedTo,omitempty"`
	Priority      int        `json:"priority,omitempty"`
	IterationPath string     `json:"iterationPath,omitempty"`
	AreaPath      string     `json:"areaPath,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	ChangedDate   *time.Time `json:"changedDate,omitempty"`
	URL           string     `json:"url,omitempty"`
	Source        Source     `json:"source"`
}

// Iteration is a sprint listed for a team
type Iteration struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Path       string     `json:"path"`
	StartDate  *time.Time `json:"startDate,omitempty"`
	FinishDate *time.Time `json:"finishDate,omitempty"`
	TimeFrame  string     `json:"timeFrame,omitempty"`
}
