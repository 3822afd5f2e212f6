package devops

import (
	"fmt"
	"strings"
)

// WorkItemQuery selects the work items to read from each project
type WorkItemQuery struct {
	AssignedToMe     bool
	States           []string
	Types            []string
	IterationPath    string
	CurrentIteration bool
	MaxResults       int
}

// DefaultMaxResults caps a query when MaxResults is unset
const DefaultMaxResults = 200

// DefaultQuery is the dashboard's "my open work" query
func DefaultQuery() WorkItemQuery {
	return WorkItemQuery{
		AssignedToMe: true,
		States:       []string{"New", "Active", "Committed", "In Progress"},
		MaxResults:   DefaultMaxResults,
	}
}

// WIQL renders the query for project
func (q WorkItemQuery) WIQL(project string) string {
	clauses := []string{fmt.Sprintf("[System.TeamProject] = %s", quote(project))}
	if q.AssignedToMe {
		clauses = append(clauses, "[System.AssignedTo] = @Me")
	}
	if len(q.States) > 0 {
		clauses = append(clauses, "[System.State] IN ("+quoteAll(q.States)+")")
	}
	if len(q.Types) > 0 {
		clauses = append(clauses, "[System.WorkItemType] IN ("+quoteAll(q.Types)+")")
	}
	switch {
	case q.IterationPath != "":
		clauses = append(clauses, "[System.IterationPath] UNDER "+quote(q.IterationPath))
	case q.CurrentIteration:
		clauses = append(clauses, "[System.IterationPath] = @CurrentIteration")
	}

	return "SELECT [System.Id] FROM WorkItems WHERE " +
		strings.Join(clauses, " AND ") +
		" ORDER BY [System.ChangedDate] DESC"
}

func (q WorkItemQuery) top() int {
	if q.MaxResults <= 0 {
		return DefaultMaxResults
	}
	return q.MaxResults
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = quote(v)
	}
	return strings.Join(quoted, ", ")
}
