// Package devops reads work items and sprints from Azure DevOps across one
// or more projects of an organization.
package devops

import (
	"strings"

	"dashboard/internal/domain"
	"dashboard/internal/errors"
	"dashboard/internal/validation"
)

// DefaultBaseURL is the Azure DevOps services endpoint
const DefaultBaseURL = "https://dev.azure.com"

// ProjectRef names a project and, optionally, the team whose iterations are used
type ProjectRef struct {
	Name        string `json:"name" yaml:"name"`
	Team        string `json:"team,omitempty" yaml:"team,omitempty"`
	DisplayName string `json:"displayName,omitempty" yaml:"display_name,omitempty"`
}

// Settings are the credentials and sources for the client
type Settings struct {
	Organization string       `json:"organization"`
	Projects     []ProjectRef `json:"projects"`
	PAT          string       `json:"pat"`
	BaseURL      string       `json:"baseUrl,omitempty"`
}

// Configured reports whether the settings are complete enough to query
func (s Settings) Configured() bool {
	return s.Organization != "" && s.PAT != "" && len(s.Projects) > 0
}

// Validate checks that every required field is present
func (s Settings) Validate() error {
	verr := validation.NewValidationError()
	if strings.TrimSpace(s.Organization) == "" {
		verr.AddRequiredError("organization")
	}
	if strings.TrimSpace(s.PAT) == "" {
		verr.AddRequiredError("pat")
	}
	if len(s.Projects) == 0 {
		verr.AddRequiredError("projects")
	}
	for _, p := range s.Projects {
		if strings.TrimSpace(p.Name) == "" {
			verr.AddRequiredError("projects.name")
			break
		}
	}
	if verr.HasErrors() {
		return validation.ToAppError(verr)
	}
	return nil
}

func (s Settings) normalized() Settings {
	s.Organization = strings.TrimSpace(s.Organization)
	s.PAT = strings.TrimSpace(s.PAT)
	s.BaseURL = strings.TrimRight(strings.TrimSpace(s.BaseURL), "/")
	if s.BaseURL == "" {
		s.BaseURL = DefaultBaseURL
	}
	projects := make([]ProjectRef, len(s.Projects))
	for i, p := range s.Projects {
		projects[i] = ProjectRef{
			Name:        strings.TrimSpace(p.Name),
			Team:        strings.TrimSpace(p.Team),
			DisplayName: strings.TrimSpace(p.DisplayName),
		}
	}
	s.Projects = projects
	return s
}

func (s Settings) source(p ProjectRef) domain.Source {
	return domain.Source{Organization: s.Organization, Project: p.Name, DisplayName: p.DisplayName}
}

func notConfigured() error {
	return errors.NewNotConfiguredError("Azure DevOps")
}
