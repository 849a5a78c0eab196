package rbac

import (
	"reflect"
	"testing"
)

func TestSectionsForRole(t *testing.T) {
	cases := []struct {
		role string
		want []Section
	}{
		{RoleSuper, []Section{SectionDashboard, SectionSetup, SectionNotifications}},
		{RoleNPFAdminVerifier, []Section{SectionDashboard, SectionSetup, SectionNotifications}},
		{RoleCustomerService, []Section{SectionDashboard, SectionIncidents, SectionReports, SectionNotifications}},
		{RoleBankRisk, []Section{SectionDashboard, SectionIncidents, SectionReports, SectionNotifications}},
		{RoleNPFProsecutor, []Section{SectionDashboard, SectionIncidents, SectionReports, SectionNotifications}},
		{"made-up-role", nil},
		{"", nil},
	}
	for _, tc := range cases {
		got := SectionsFor(tc.role)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("SectionsFor(%q) = %v, want %v", tc.role, got, tc.want)
		}
	}
}

func TestSectionVisibleFailsClosed(t *testing.T) {
	if SectionVisible("intruder", SectionDashboard) {
		t.Fatalf("unknown role must not see any section")
	}
	if SectionVisible(RoleSuper, SectionIncidents) {
		t.Fatalf("super must not see incidents")
	}
	if !SectionVisible(RoleBankFraudDesk, SectionIncidents) {
		t.Fatalf("bank fraud desk must see incidents")
	}
}

func TestActionsForStatus(t *testing.T) {
	cases := []struct {
		role   string
		status string
		want   []Action
	}{
		{RoleBankFraudDesk, "Pending", []Action{ActionAccept, ActionDecline}},
		{RoleCustomerService, "Pending", []Action{ActionAccept}},
		{RoleBankFraudDesk, "Accepted", []Action{ActionAssign}},
		{RoleBankFraudDesk, "Declined", nil},
		{RoleNPFProsecutor, "Pending", nil},
		{RoleBankFinance, "Accepted", nil},
		{RoleSuper, "Pending", nil},
		{"made-up-role", "Pending", nil},
		{RoleBankRisk, "In Progress", nil},
	}
	for _, tc := range cases {
		got := ActionsFor(tc.role, tc.status)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("ActionsFor(%q, %q) = %v, want %v", tc.role, tc.status, got, tc.want)
		}
	}
}

func TestCanRespondDeclineRules(t *testing.T) {
	if CanRespond(RoleCustomerService, "Pending", false) {
		t.Fatalf("customer service must not decline")
	}
	if !CanRespond(RoleCustomerService, "Pending", true) {
		t.Fatalf("customer service must accept pending assignments")
	}
	if CanRespond(RoleBankFraudDesk, "Accepted", true) {
		t.Fatalf("responding twice must be refused locally")
	}
}

func TestAssignmentTargetsChain(t *testing.T) {
	cases := []struct {
		role string
		want []Target
	}{
		{RoleCustomerService, []Target{
			{Kind: TargetBank, EntityName: EntityBank},
			{Kind: TargetPolice, EntityName: EntityNPFVigilant},
		}},
		{RoleNPFInvestigator, []Target{{Kind: TargetPolice, EntityName: EntityNPFVigilant}}},
		{RoleBankFraudDesk, []Target{{Kind: TargetEntity, EntityName: EntityInternalControl}}},
		{RoleBankInternalControl, []Target{{Kind: TargetEntity, EntityName: EntityInternalAudit}}},
		{RoleBankInternalAudit, []Target{{Kind: TargetEntity, EntityName: EntityRisk}}},
		{RoleBankRisk, []Target{{Kind: TargetEntity, EntityName: EntityFinance}}},
	}
	for _, tc := range cases {
		got := AssignmentTargets(tc.role)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("AssignmentTargets(%q) = %v, want %v", tc.role, got, tc.want)
		}
	}
	if targets := AssignmentTargets(RoleNPFProsecutor); len(targets) != 0 {
		t.Errorf("prosecutor must have no targets, got %v", targets)
	}
	if targets := AssignmentTargets("made-up-role"); len(targets) != 0 {
		t.Errorf("unknown role must have no targets, got %v", targets)
	}
}

func TestDefaultPolicy(t *testing.T) {
	policy := DefaultPolicy()
	cases := []struct {
		roles []string
		perm  Permission
		want  bool
	}{
		{[]string{RoleCustomerService}, PermIncidentsView, true},
		{[]string{RoleCustomerService}, PermSetupManage, false},
		{[]string{RoleSuper}, PermSetupManage, true},
		{[]string{RoleSuper}, PermIncidentsView, false},
		{[]string{RoleNPFProsecutor}, PermIncidentsRespond, false},
		{[]string{RoleBankRisk}, PermIncidentsAssign, true},
		{[]string{"made-up-role"}, PermDashboardView, false},
		{nil, PermDashboardView, false},
	}
	for _, tc := range cases {
		if got := policy.Allowed(tc.roles, tc.perm); got != tc.want {
			t.Errorf("Allowed(%v, %s) = %v, want %v", tc.roles, tc.perm, got, tc.want)
		}
	}
}
