package authroles

import (
	domainauth "github.com/brnlabs/staffdesk/internal/domain/auth"
)

// StaticRoleMapper maps groups by simple string membership rules.
// Group names come from configuration; anyone outside both groups gets
// the Default role (guest when unset). Form logins carry no groups, so
// deployments using local accounts set Default to the user role.
type StaticRoleMapper struct {
	AdminGroup string
	UserGroup  string
	Default    domainauth.Role
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	for _, g := range groups {
		if m.AdminGroup != "" && g == m.AdminGroup {
			return domainauth.RoleAdmin
		}
	}
	for _, g := range groups {
		if m.UserGroup != "" && g == m.UserGroup {
			return domainauth.RoleUser
		}
	}
	if m.Default != "" {
		return m.Default
	}
	return domainauth.RoleGuest
}
