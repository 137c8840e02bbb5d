// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import "github.com/danielhkuo/collabhub/models"

// Write rules, checked before every write:
//   - projects: create only by a company, for itself
//   - projects/{id}/applications: create only by a developer, for itself
//   - projects/{id}/applications/{aid}: update only by the owning company

func canCreateProject(principal models.Profile, p models.Project) bool {
	return principal.Role == models.RoleCompany && p.CompanyID == principal.ID
}

func canCreateApplication(principal models.Profile, project models.Project, a models.Application) bool {
	return principal.Role == models.RoleDeveloper &&
		a.DeveloperID == principal.ID &&
		a.ProjectID == project.ID
}

func canUpdateApplication(principal models.Profile, project models.Project) bool {
	return principal.Role == models.RoleCompany && project.CompanyID == principal.ID
}
