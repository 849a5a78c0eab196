package rbac

type Action string

const (
	ActionAccept  Action = "accept"
	ActionDecline Action = "decline"
	ActionAssign  Action = "assign"
)

// nonAssigningRoles receive escalations as a terminal stop. They review but
// never respond or forward.
var nonAssigningRoles = map[string]bool{
	RoleNPFProsecutor: true,
	RoleBankFinance:   true,
}

// ActionsFor maps a role plus the assignment's acceptance status to the
// actions the console may offer. The status string is the platform's own
// ("Pending", "Accepted", "Declined"); anything else yields nothing.
func ActionsFor(role, acceptanceStatus string) []Action {
	if !knownRoles[role] || nonAssigningRoles[role] {
		return nil
	}
	if len(escalationChain[role]) == 0 {
		return nil
	}
	switch acceptanceStatus {
	case "Pending":
		actions := []Action{ActionAccept}
		// Customer service triages every report; declining is not theirs.
		if role != RoleCustomerService {
			actions = append(actions, ActionDecline)
		}
		return actions
	case "Accepted":
		return []Action{ActionAssign}
	default:
		return nil
	}
}

func CanRespond(role, acceptanceStatus string, accept bool) bool {
	want := ActionDecline
	if accept {
		want = ActionAccept
	}
	for _, a := range ActionsFor(role, acceptanceStatus) {
		if a == want {
			return true
		}
	}
	return false
}

func CanAssign(role, acceptanceStatus string) bool {
	for _, a := range ActionsFor(role, acceptanceStatus) {
		if a == ActionAssign {
			return true
		}
	}
	return false
}
