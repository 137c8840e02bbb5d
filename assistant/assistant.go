// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"
)

var (
	// ErrUnavailable means no generator is configured.
	ErrUnavailable = errors.New("proposal assistant is not configured")
	// ErrEmptyProposal means the model answered without any proposal text.
	ErrEmptyProposal = errors.New("model returned an empty proposal")
)

// Input is the project metadata a draft is written from.
type Input struct {
	Title            string
	Description      string
	TechStack        string
	ExampleProposals string
}

// Generator completes a prompt. Implementations return the raw model text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

var promptTemplate = template.Must(template.New("proposal").Parse(
	`You are an expert proposal writer for software development projects.

Based on the project requirements and examples of successful application proposals, generate a compelling project proposal.

Project Title: {{.Title}}
Project Description: {{.Description}}
Tech Stack: {{.TechStack}}
Successful Application Examples: {{.ExampleProposals}}

Write a proposal that highlights your understanding of the project requirements, your skills and experience with the required tech stack, and your unique approach to solving the project's challenges. The proposal should be concise and persuasive.

Respond with a JSON object of the form {"proposal": "<the proposal text>"}.
`))

// BuildPrompt renders the fixed prompt for in.
func BuildPrompt(in Input) (string, error) {
	var b strings.Builder
	if err := promptTemplate.Execute(&b, in); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return b.String(), nil
}

// Assistant drafts proposals with a Generator.
type Assistant struct {
	gen             Generator
	defaultExamples string
}

// New returns an Assistant. A nil gen makes every call return
// ErrUnavailable. defaultExamples is used when an Input has none.
func New(gen Generator, defaultExamples string) *Assistant {
	return &Assistant{gen: gen, defaultExamples: defaultExamples}
}

// Available reports whether a generator is configured.
func (a *Assistant) Available() bool {
	return a != nil && a.gen != nil
}

// GenerateProposal returns a draft proposal for in. There is no retry; any
// generator failure is returned as is.
func (a *Assistant) GenerateProposal(ctx context.Context, in Input) (string, error) {
	if !a.Available() {
		return "", ErrUnavailable
	}
	if strings.TrimSpace(in.ExampleProposals) == "" {
		in.ExampleProposals = a.defaultExamples
	}

	prompt, err := BuildPrompt(in)
	if err != nil {
		return "", err
	}

	raw, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("proposal generation failed: %w", err)
	}

	proposal := parseProposal(raw)
	if proposal == "" {
		return "", ErrEmptyProposal
	}
	return proposal, nil
}

// parseProposal extracts the proposal field from the model output. Output
// that is not the expected JSON object is taken as the proposal itself.
func parseProposal(raw string) string {
	cleaned := cleanMarkdownJSON(raw)

	var out struct {
		Proposal *string `json:"proposal"`
	}
	if err := json.Unmarshal([]byte(cleaned), &out); err == nil && out.Proposal != nil {
		return strings.TrimSpace(*out.Proposal)
	}
	if strings.HasPrefix(cleaned, "{") {
		return ""
	}
	return cleaned
}

// cleanMarkdownJSON removes backticks and "json" prefix if the AI model tries to be helpful
func cleanMarkdownJSON(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}
	return strings.TrimSpace(content)
}
