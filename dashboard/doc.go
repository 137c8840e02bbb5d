// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package dashboard builds the read-only views over projects and
applications.

# Developer

Developer lists every open project, newest first, as cards with parsed
tags, a relative "posted" time and a formatted budget. An optional skill
list keeps only projects whose tags intersect it.

# Company

Company state is a map of project id to that project's applications.
Reduce replaces one project's slice and is pure, so the live view and the
one-shot snapshot share the same merge:

	state = dashboard.Reduce(state, projectID, apps)
	merged := dashboard.Flatten(state)
	counters := dashboard.Count(projects, merged)

Counters are derived only from the company's own projects:

  - projects_posted: number of projects
  - proposals_received: number of merged applications
  - developers_hired: applications with status Accepted

Watch keeps a snapshot current by subscribing to each project's
applications collection and to the projects collection. Notifications only
signal that a slice changed; the slice is re-queried before reducing.
*/
package dashboard
