package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

type Permission string

const (
	PermDashboardView     Permission = "dashboard.view"
	PermIncidentsView     Permission = "incidents.view"
	PermIncidentsRespond  Permission = "incidents.respond"
	PermIncidentsAssign   Permission = "incidents.assign"
	PermReportsView       Permission = "reports.view"
	PermSetupManage       Permission = "setup.manage"
	PermNotificationsView Permission = "notifications.view"
)

type Role struct {
	Name        string
	Permissions []Permission
}

const policyModel = `
[request_definition]
r = sub, obj

[policy_definition]
p = sub, obj

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj
`

// Policy answers "may any of these roles do this". Decisions fail closed:
// enforcement errors and unknown roles both deny.
type Policy struct {
	enforcer *casbin.Enforcer
}

func NewPolicy(roles []Role) *Policy {
	m, err := model.NewModelFromString(policyModel)
	if err != nil {
		return &Policy{}
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return &Policy{}
	}
	for _, role := range roles {
		for _, perm := range role.Permissions {
			_, _ = enforcer.AddPolicy(role.Name, string(perm))
		}
	}
	return &Policy{enforcer: enforcer}
}

func (p *Policy) Allowed(roles []string, perm Permission) bool {
	if p == nil || p.enforcer == nil {
		return false
	}
	for _, role := range roles {
		ok, err := p.enforcer.Enforce(role, string(perm))
		if err == nil && ok {
			return true
		}
	}
	return false
}

var sectionPermissions = map[Section]Permission{
	SectionDashboard:     PermDashboardView,
	SectionIncidents:     PermIncidentsView,
	SectionReports:       PermReportsView,
	SectionSetup:         PermSetupManage,
	SectionNotifications: PermNotificationsView,
}

// DefaultPolicy derives role permissions from the visibility and action
// tables so there is exactly one source of truth for who sees what.
func DefaultPolicy() *Policy {
	var roles []Role
	for name := range knownRoles {
		var perms []Permission
		for _, section := range SectionsFor(name) {
			if perm, ok := sectionPermissions[section]; ok {
				perms = append(perms, perm)
			}
		}
		if len(AssignmentTargets(name)) > 0 {
			perms = append(perms, PermIncidentsRespond, PermIncidentsAssign)
		}
		roles = append(roles, Role{Name: name, Permissions: perms})
	}
	return NewPolicy(roles)
}
