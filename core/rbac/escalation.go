package rbac

type TargetKind string

const (
	// TargetBank routes the assignment to a specific bank chosen at assign
	// time; the others resolve to a fixed platform entity by name.
	TargetBank   TargetKind = "bank"
	TargetPolice TargetKind = "police"
	TargetEntity TargetKind = "entity"
)

type Target struct {
	Kind       TargetKind
	EntityName string
}

// Platform entity names the chain resolves against. These are reference data
// on the platform side; a missing one is a deployment defect, not a crash.
const (
	EntityNPFVigilant     = "NPFVigilant"
	EntityBank            = "Bank"
	EntityInternalControl = "Internal Control"
	EntityInternalAudit   = "Internal Audit"
	EntityRisk            = "Risk"
	EntityFinance         = "Finance"
)

// escalationChain is the complete forwarding graph. The order within a slice
// is the order the console presents the choices; there is no fallthrough and
// no computed hop anywhere.
var escalationChain = map[string][]Target{
	RoleCustomerService: {
		{Kind: TargetBank, EntityName: EntityBank},
		{Kind: TargetPolice, EntityName: EntityNPFVigilant},
	},
	RoleNPFInvestigator: {
		{Kind: TargetPolice, EntityName: EntityNPFVigilant},
	},
	RoleBankFraudDesk: {
		{Kind: TargetEntity, EntityName: EntityInternalControl},
	},
	RoleBankInternalControl: {
		{Kind: TargetEntity, EntityName: EntityInternalAudit},
	},
	RoleBankInternalAudit: {
		{Kind: TargetEntity, EntityName: EntityRisk},
	},
	RoleBankRisk: {
		{Kind: TargetEntity, EntityName: EntityFinance},
	},
}

// AssignmentTargets returns the role's outbound escalation hops, or nil for
// roles that never assign.
func AssignmentTargets(role string) []Target {
	if !knownRoles[role] || nonAssigningRoles[role] {
		return nil
	}
	targets := escalationChain[role]
	out := make([]Target, len(targets))
	copy(out, targets)
	return out
}
