package gateway

import "encoding/json"

// PageMeta mirrors the platform's pagination envelope. Activity logs use
// total_pages where everything else uses last_page.
type PageMeta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	TotalPages  int `json:"total_pages"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

// Pages returns whichever page-count field the endpoint filled in.
func (m *PageMeta) Pages() int {
	if m == nil {
		return 0
	}
	if m.LastPage > 0 {
		return m.LastPage
	}
	return m.TotalPages
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Meta    *PageMeta       `json:"meta"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

type AdminUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	BankID    *int64 `json:"bank_id,omitempty"`
	Status    string `json:"status,omitempty"`
}

const (
	AcceptancePending  = "Pending"
	AcceptanceAccepted = "Accepted"
	AcceptanceDeclined = "Declined"
)

type Assignment struct {
	ID               int64  `json:"id"`
	IncidentID       int64  `json:"incident_id"`
	AcceptanceStatus string `json:"acceptance_status"`
	AssignedRole     string `json:"assigned_role,omitempty"`
	SegmentID        *int64 `json:"segment_id,omitempty"`
	EntityID         *int64 `json:"entity_id,omitempty"`
	BankID           *int64 `json:"bank_id,omitempty"`
	CreatedAt        string `json:"created_at,omitempty"`
}

type Incident struct {
	ID          int64        `json:"id"`
	Reference   string       `json:"reference"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      string       `json:"status"`
	Category    string       `json:"category,omitempty"`
	BankID      *int64       `json:"bank_id,omitempty"`
	ReportedAt  string       `json:"reported_at,omitempty"`
	CreatedAt   string       `json:"created_at,omitempty"`
	Assignments []Assignment `json:"incident_assignments,omitempty"`
}

type Bank struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

type Entity struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Segment struct {
	ID         int64 `json:"id"`
	IncidentID int64 `json:"incident_id"`
	EntityID   int64 `json:"segment_entity_id"`
}

type Comment struct {
	ID         int64  `json:"id"`
	IncidentID int64  `json:"incident_id"`
	Author     string `json:"author,omitempty"`
	Body       string `json:"comment"`
	CreatedAt  string `json:"created_at,omitempty"`
}

type ActivityLog struct {
	ID         int64  `json:"id"`
	IncidentID int64  `json:"incident_id"`
	Action     string `json:"action"`
	Actor      string `json:"actor,omitempty"`
	Detail     string `json:"detail,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}

type Notification struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body,omitempty"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at,omitempty"`
}

type PlatformRole struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type MemberAction struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Role      string `json:"role,omitempty"`
	Status    string `json:"status"`
}

// AssignmentRequest carries the make-assignment payload. The platform expects
// every field stringified; BankID stays empty unless the target is a bank.
type AssignmentRequest struct {
	IncidentAssignmentID string `json:"incident_assignment_id"`
	SegmentID            string `json:"segment_id"`
	IncidentID           string `json:"incident_id"`
	BankID               string `json:"bank_id,omitempty"`
	EntityID             string `json:"entity_id"`
	Comment              string `json:"comment"`
}

type RegisterAdminRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	RoleID    string `json:"role_id"`
	BankID    string `json:"bank_id,omitempty"`
}
