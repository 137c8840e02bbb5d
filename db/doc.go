// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db manages connections and the database schema.

# Connections

Open picks the driver from the configured database type:

	conn, err := db.Open(ctx, db.TypePostgres, "postgres://...")
	conn, err := db.Open(ctx, db.TypeSQLite, "file:collabhub.db?_pragma=foreign_keys(1)")

PostgreSQL uses github.com/lib/pq; SQLite uses the pure Go modernc.org/sqlite
driver and is limited to one open connection.

# Schema Creation

CreateSchema creates all tables if they don't exist:

	err := db.CreateSchema(conn)

Safe to call on every startup. The same statements run on both databases,
and queries use $N placeholders, which both drivers accept.

# Tables

  - credential: email, bcrypt hash and display name per principal
  - auth_session: issued session tokens (revoked on sign-out)
  - users: profiles keyed by principal id, with the immutable role
  - project: postings owned by a company profile
  - application: proposals, unique per (project_id, developer_id)

# Constraint Errors

IsUniqueViolation and IsForeignKeyViolation inspect *pq.Error and
*sqlite.Error so callers need not match driver message strings.
*/
package db
