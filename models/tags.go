// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"strings"

	"golang.org/x/text/cases"
)

var folder = cases.Fold()

// ParseTags splits a comma-separated tech stack into trimmed tags.
// Duplicates that differ only by case are dropped; the first spelling wins.
func ParseTags(techStack string) []string {
	seen := make(map[string]bool)
	tags := []string{}
	for _, part := range strings.Split(techStack, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		key := FoldTag(tag)
		if seen[key] {
			continue
		}
		seen[key] = true
		tags = append(tags, tag)
	}
	return tags
}

// FoldTag returns the case-folded form used to compare tags and skills.
func FoldTag(tag string) string {
	return folder.String(strings.TrimSpace(tag))
}

// Tags returns the project's parsed tech stack.
func (p Project) Tags() []string {
	return ParseTags(p.TechStack)
}
