// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package assistant drafts application proposals from project metadata
// using a hosted text-generation model.
//
// The prompt is fixed; only the project title, description, tech stack and
// example proposals vary. The model is asked for {"proposal": "..."} and the
// only check on the answer is that the proposal is not blank.
package assistant
