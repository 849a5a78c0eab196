package rbac

// Role slugs as the platform issues them. Anything outside this set is
// treated as hostile: no sections, no actions, no permissions.
const (
	RoleSuper               = "super"
	RoleNPFAdminInputter    = "npf-admin-inputter"
	RoleNPFAdminVerifier    = "npf-admin-verifier"
	RoleNIBSSAdminInputter  = "nibss-admin-inputter"
	RoleNIBSSAdminVerifier  = "nibss-admin-verifier"
	RoleCustomerService     = "vgn-customer-service"
	RoleNPFInvestigator     = "npf-investigator"
	RoleNPFProsecutor       = "npf-prosecutor"
	RoleBankFraudDesk       = "bank-fraud-desk"
	RoleBankInternalControl = "bank-internal-control"
	RoleBankInternalAudit   = "bank-internal-audit"
	RoleBankRisk            = "bank-risk"
	RoleBankFinance         = "bank-finance"
)

type Section string

const (
	SectionDashboard     Section = "dashboard"
	SectionIncidents     Section = "incidents"
	SectionReports       Section = "reports"
	SectionSetup         Section = "setup"
	SectionNotifications Section = "notifications"
)

var allSections = []Section{
	SectionDashboard,
	SectionIncidents,
	SectionReports,
	SectionSetup,
	SectionNotifications,
}

var knownRoles = map[string]bool{
	RoleSuper:               true,
	RoleNPFAdminInputter:    true,
	RoleNPFAdminVerifier:    true,
	RoleNIBSSAdminInputter:  true,
	RoleNIBSSAdminVerifier:  true,
	RoleCustomerService:     true,
	RoleNPFInvestigator:     true,
	RoleNPFProsecutor:       true,
	RoleBankFraudDesk:       true,
	RoleBankInternalControl: true,
	RoleBankInternalAudit:   true,
	RoleBankRisk:            true,
	RoleBankFinance:         true,
}

// sectionExclusions is the single canonical visibility table. A section
// absent from the map is visible to every known role.
var sectionExclusions = map[Section]map[string]bool{
	SectionSetup: {
		RoleCustomerService:     true,
		RoleNPFInvestigator:     true,
		RoleNPFProsecutor:       true,
		RoleBankFraudDesk:       true,
		RoleBankInternalControl: true,
		RoleBankInternalAudit:   true,
		RoleBankRisk:            true,
	},
	SectionIncidents: {
		RoleSuper:              true,
		RoleNPFAdminInputter:   true,
		RoleNPFAdminVerifier:   true,
		RoleNIBSSAdminInputter: true,
		RoleNIBSSAdminVerifier: true,
	},
	SectionReports: {
		RoleSuper:              true,
		RoleNPFAdminInputter:   true,
		RoleNPFAdminVerifier:   true,
		RoleNIBSSAdminInputter: true,
		RoleNIBSSAdminVerifier: true,
	},
}

func KnownRole(role string) bool { return knownRoles[role] }

// SectionsFor returns the sections visible to role, in stable order. Unknown
// roles see nothing.
func SectionsFor(role string) []Section {
	if !knownRoles[role] {
		return nil
	}
	var visible []Section
	for _, section := range allSections {
		if sectionExclusions[section][role] {
			continue
		}
		visible = append(visible, section)
	}
	return visible
}

func SectionVisible(role string, section Section) bool {
	if !knownRoles[role] {
		return false
	}
	return !sectionExclusions[section][role]
}
