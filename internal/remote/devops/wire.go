package devops

import (
	"encoding/json"
	"strings"
	"time"
)

const apiVersion = "7.0"

// fields requested from workitemsbatch
var batchFields = []string{
	"System.Id",
	"System.Title",
	"System.WorkItemType",
	"System.State",
	"System.AssignedTo",
	"System.IterationPath",
	"System.AreaPath",
	"System.Tags",
	"System.ChangedDate",
	"Microsoft.VSTS.Common.Priority",
}

type wiqlRequest struct {
	Query string `json:"query"`
}

type wiqlResponse struct {
	WorkItems []struct {
		ID int `json:"id"`
	} `json:"workItems"`
}

type batchRequest struct {
	IDs    []int    `json:"ids"`
	Fields []string `json:"fields"`
}

type batchResponse struct {
	Count int             `json:"count"`
	Value []workItemEntry `json:"value"`
}

type workItemEntry struct {
	ID     int            `json:"id"`
	Fields workItemFields `json:"fields"`
}

type workItemFields struct {
	Title         string     `json:"System.Title"`
	Type          string     `json:"System.WorkItemType"`
	State         string     `json:"System.State"`
	AssignedTo    *identity  `json:"System.AssignedTo"`
	IterationPath string     `json:"System.IterationPath"`
	AreaPath      string     `json:"System.AreaPath"`
	Tags          string     `json:"System.Tags"`
	ChangedDate   *time.Time `json:"System.ChangedDate"`
	Priority      int        `json:"Microsoft.VSTS.Common.Priority"`
}

// identity is either an identity reference object or, in older
// responses, a "Name <email>" string
type identity struct {
	DisplayName string `json:"displayName"`
	UniqueName  string `json:"uniqueName"`
}

func (i *identity) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if at := strings.Index(s, " <"); at >= 0 {
			s = s[:at]
		}
		i.DisplayName = s
		return nil
	}
	type plain identity
	return json.Unmarshal(data, (*plain)(i))
}

type iterationsResponse struct {
	Value []struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Path       string `json:"path"`
		Attributes struct {
			StartDate  *time.Time `json:"startDate"`
			FinishDate *time.Time `json:"finishDate"`
			TimeFrame  string     `json:"timeFrame"`
		} `json:"attributes"`
	} `json:"value"`
}

type apiError struct {
	Message string `json:"message"`
	TypeKey string `json:"typeKey"`
}

func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ";")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
