// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package workflow

import "github.com/danielhkuo/collabhub/models"

// IsTerminal reports whether no other status can follow s.
func IsTerminal(s models.ApplicationStatus) bool {
	return s == models.StatusAccepted || s == models.StatusRejected
}

// CanTransition reports whether an application in from may be moved to
// to. Re-applying the current status is always allowed and changes
// nothing. Submitted is only ever the initial status.
func CanTransition(from, to models.ApplicationStatus) bool {
	if from == to {
		return true
	}
	if st, ok := models.ParseStatus(string(to)); !ok || st != to || to == models.StatusSubmitted {
		return false
	}
	return !IsTerminal(from)
}

// Targets lists the statuses reachable from s, excluding s itself.
func Targets(s models.ApplicationStatus) []models.ApplicationStatus {
	targets := []models.ApplicationStatus{}
	for _, to := range models.AllStatuses {
		if to != s && CanTransition(s, to) {
			targets = append(targets, to)
		}
	}
	return targets
}
