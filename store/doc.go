// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store implements the document collections on top of database/sql.

# Collections

  - ProfileStore: users, keyed by principal id
  - ProjectStore: projects
  - ApplicationStore: projects/{id}/applications

Each store supports create, read by id, filtered queries, live Subscribe
(through a pubsub.Broker) and, for applications, the single-field status
update.

# Write Rules

Writes take the acting profile and are checked before touching the
database:

	projects                             create: role company, company_id == principal
	projects/{id}/applications           create: role developer, developer_id == principal
	projects/{id}/applications/{aid}     update: project.company_id == principal

A rejected write returns *PermissionError, which carries the path,
operation and attempted payload and matches ErrPermissionDenied.

# Errors

	ErrNotFound              missing document
	ErrConflict              compare-and-set failed
	ErrDuplicateApplication  second application for (project, developer)
*/
package store
