// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package workflow implements the form-driven writes: creating projects,
submitting applications and moving applications through review.

# Validation

ValidateApplication and ValidateProject run before any write and return a
*ValidationError whose Fields map each bad field to its message.

# Application Status

	Submitted ─┬─> In Review ───┐
	           ├─> Shortlisted ─┤ (any of these to any other)
	           ├─> Waitlisted ──┘
	           └─> Accepted | Rejected   (terminal)

Every non-terminal status can move to any status except Submitted. Accepted
and Rejected accept no further change. Writing the current status again
succeeds without touching the record. Anything else fails with
ErrIllegalTransition.

# Permission Errors

When a store rule rejects a write, the service emits an
events.PermissionEvent before returning the error.
*/
package workflow
