// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package dashboard

import (
	"sort"

	"github.com/danielhkuo/collabhub/models"
)

// State holds the latest application slice seen for each project id.
type State map[string][]models.Application

// Reduce returns a copy of state with the slice for projectID replaced by
// apps. state itself is not modified.
func Reduce(state State, projectID string, apps []models.Application) State {
	next := make(State, len(state)+1)
	for k, v := range state {
		next[k] = v
	}
	slice := make([]models.Application, len(apps))
	copy(slice, apps)
	next[projectID] = slice
	return next
}

// Flatten merges every slice into one collection keyed by application id,
// newest submission first. When an id appears under two projects the one
// from the later project id wins.
func Flatten(state State) []models.Application {
	projectIDs := make([]string, 0, len(state))
	for id := range state {
		projectIDs = append(projectIDs, id)
	}
	sort.Strings(projectIDs)

	byID := make(map[string]models.Application)
	for _, pid := range projectIDs {
		for _, a := range state[pid] {
			byID[a.ID] = a
		}
	}

	merged := make([]models.Application, 0, len(byID))
	for _, a := range byID {
		merged = append(merged, a)
	}
	sort.Slice(merged, func(i, j int) bool {
		if !merged[i].SubmittedAt.Equal(merged[j].SubmittedAt) {
			return merged[i].SubmittedAt.After(merged[j].SubmittedAt)
		}
		return merged[i].ID < merged[j].ID
	})
	return merged
}

// Counters are the company dashboard totals.
type Counters struct {
	ProjectsPosted    int `json:"projects_posted"`
	ProposalsReceived int `json:"proposals_received"`
	DevelopersHired   int `json:"developers_hired"`
}

// Count derives the counters from the company's projects and its merged
// applications.
func Count(projects []models.Project, merged []models.Application) Counters {
	c := Counters{
		ProjectsPosted:    len(projects),
		ProposalsReceived: len(merged),
	}
	for _, a := range merged {
		if a.Status == models.StatusAccepted {
			c.DevelopersHired++
		}
	}
	return c
}
