package workflow

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"vigilant-console/core/auth"
	"vigilant-console/core/gateway"
	"vigilant-console/core/rbac"
	"vigilant-console/core/store"
	"vigilant-console/core/utils"

	"github.com/gofrs/uuid/v5"
)

// IncidentView is what the presentation layer renders: the server's incident
// state plus the actions this role may take right now. Acceptance status is
// always the server's word, never a local guess.
type IncidentView struct {
	Incident   gateway.Incident    `json:"incident"`
	Assignment *gateway.Assignment `json:"assignment,omitempty"`
	Actions    []rbac.Action       `json:"actions"`
}

// RespondResult reports a respond outcome. Violation is set when somebody
// else got there first; View then carries the re-synced state.
type RespondResult struct {
	Violation string        `json:"violation,omitempty"`
	View      *IncidentView `json:"view"`
}

// ResolvedTarget is one escalation hop with its platform entity attached.
type ResolvedTarget struct {
	Kind       rbac.TargetKind `json:"kind"`
	EntityID   int64           `json:"entity_id"`
	EntityName string          `json:"entity_name"`
	NeedsBank  bool            `json:"needs_bank"`
}

type AssignInput struct {
	EntityID int64  `json:"entity_id"`
	BankID   *int64 `json:"bank_id,omitempty"`
	Comment  string `json:"comment"`
}

// Coordinator drives the incident workflow for authenticated sessions. All
// incident data lives on the platform; the coordinator only keeps the
// per-session context needed to make the next call coherent.
type Coordinator struct {
	gw        *gateway.Client
	sessions  *auth.SessionManager
	workspace store.WorkspaceStore
	logger    *utils.Logger

	mu        sync.Mutex
	inflight  map[int64]bool
	selection map[string]string
}

func NewCoordinator(gw *gateway.Client, sessions *auth.SessionManager, workspace store.WorkspaceStore, logger *utils.Logger) *Coordinator {
	return &Coordinator{
		gw:        gw,
		sessions:  sessions,
		workspace: workspace,
		logger:    logger,
		inflight:  make(map[int64]bool),
		selection: make(map[string]string),
	}
}

func sessionRole(rec *store.SessionRecord) string {
	if rec == nil || len(rec.Roles) == 0 {
		return ""
	}
	return rec.Roles[0]
}

// LoadIncident fetches the incident, picks the caller's assignment and
// commits the workspace context. Every mutation requires this to have run.
func (c *Coordinator) LoadIncident(ctx context.Context, rec *store.SessionRecord, incidentID int64) (*IncidentView, error) {
	token, err := c.sessions.Token(rec)
	if err != nil {
		return nil, err
	}
	incident, err := c.gw.GetIncident(ctx, token, incidentID)
	if err != nil {
		return nil, err
	}
	role := sessionRole(rec)
	assignment := pickAssignment(incident, role)
	state := &store.WorkspaceState{
		SessionID:      rec.ID,
		IncidentID:     incident.ID,
		BankID:         incident.BankID,
		IncidentStatus: incident.Status,
		UpdatedAt:      utils.NowUTC(),
	}
	if assignment != nil {
		state.AssignmentID = &assignment.ID
		state.AcceptanceStatus = assignment.AcceptanceStatus
		state.SegmentID = assignment.SegmentID
	}
	if err := c.workspace.SaveWorkspace(ctx, state); err != nil {
		return nil, err
	}
	// Each commit rotates the session's selection tag; a mutation that
	// started against the previous selection now fails its currency check.
	c.mu.Lock()
	c.selection[rec.ID] = uuid.Must(uuid.NewV4()).String()
	c.mu.Unlock()
	return c.viewFor(incident, assignment, role), nil
}

func (c *Coordinator) viewFor(incident *gateway.Incident, assignment *gateway.Assignment, role string) *IncidentView {
	view := &IncidentView{Incident: *incident, Assignment: assignment}
	if assignment != nil {
		view.Actions = rbac.ActionsFor(role, assignment.AcceptanceStatus)
	}
	return view
}

// pickAssignment prefers the assignment addressed to the caller's role and
// falls back to the newest one.
func pickAssignment(incident *gateway.Incident, role string) *gateway.Assignment {
	var newest *gateway.Assignment
	for i := range incident.Assignments {
		a := &incident.Assignments[i]
		if a.AssignedRole == role {
			return a
		}
		if newest == nil || a.ID > newest.ID {
			newest = a
		}
	}
	return newest
}

func (c *Coordinator) loadContext(ctx context.Context, rec *store.SessionRecord) (*store.WorkspaceState, error) {
	state, err := c.workspace.GetWorkspace(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	if state == nil || state.IncidentID == 0 {
		return nil, ErrMissingContext
	}
	return state, nil
}

// begin claims the assignment for one mutation and captures the session's
// selection tag at that moment.
func (c *Coordinator) begin(sessionID string, assignmentID int64) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight[assignmentID] {
		return "", ErrOperationInFlight
	}
	c.inflight[assignmentID] = true
	return c.selection[sessionID], nil
}

func (c *Coordinator) finish(assignmentID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, assignmentID)
}

// current reports whether tag still matches the session's selection. A
// response arriving after the operator moved to another incident carries a
// superseded tag and is discarded, not applied.
func (c *Coordinator) current(sessionID, tag string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection[sessionID] == tag
}

// Respond accepts or declines the loaded assignment. "Somebody else already
// responded" is a business outcome, not a failure: the incident is re-synced
// and returned together with the violation message.
func (c *Coordinator) Respond(ctx context.Context, rec *store.SessionRecord, accept bool) (*RespondResult, error) {
	state, err := c.loadContext(ctx, rec)
	if err != nil {
		return nil, err
	}
	if state.AssignmentID == nil {
		return nil, ErrMissingContext
	}
	role := sessionRole(rec)
	if !rbac.CanRespond(role, state.AcceptanceStatus, accept) {
		return nil, &gateway.BusinessRuleViolation{
			Message: fmt.Sprintf("role %s may not respond while assignment is %q", role, state.AcceptanceStatus),
		}
	}
	assignmentID := *state.AssignmentID
	tag, err := c.begin(rec.ID, assignmentID)
	if err != nil {
		return nil, err
	}
	defer c.finish(assignmentID)

	token, err := c.sessions.Token(rec)
	if err != nil {
		return nil, err
	}
	respondErr := c.gw.Respond(ctx, token, assignmentID, accept)
	if !c.current(rec.ID, tag) {
		return nil, ErrSelectionChanged
	}
	var violation string
	if respondErr != nil {
		var brv *gateway.BusinessRuleViolation
		if !errors.As(respondErr, &brv) {
			return nil, respondErr
		}
		violation = brv.Message
		if c.logger != nil {
			c.logger.Printf("WORKFLOW respond conflict on assignment %d: %s", assignmentID, violation)
		}
	}
	view, err := c.LoadIncident(ctx, rec, state.IncidentID)
	if err != nil {
		return nil, err
	}
	return &RespondResult{Violation: violation, View: view}, nil
}

// ResolveAssignmentTargets matches the role's escalation hops against the
// platform's entity list by name. A hop with no matching entity is a
// configuration defect and is reported as such.
func (c *Coordinator) ResolveAssignmentTargets(ctx context.Context, rec *store.SessionRecord) ([]ResolvedTarget, error) {
	if _, err := c.loadContext(ctx, rec); err != nil {
		return nil, err
	}
	role := sessionRole(rec)
	targets := rbac.AssignmentTargets(role)
	if len(targets) == 0 {
		return nil, &gateway.BusinessRuleViolation{Message: fmt.Sprintf("role %s has no assignment targets", role)}
	}
	token, err := c.sessions.Token(rec)
	if err != nil {
		return nil, err
	}
	entities, err := c.gw.Entities(ctx, token)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]gateway.Entity, len(entities))
	for _, e := range entities {
		byName[e.Name] = e
	}
	resolved := make([]ResolvedTarget, 0, len(targets))
	for _, target := range targets {
		entity, ok := byName[target.EntityName]
		if !ok {
			return nil, &gateway.ConfigurationError{
				Message: fmt.Sprintf("platform entity %q is missing; escalation for role %s cannot proceed", target.EntityName, role),
			}
		}
		resolved = append(resolved, ResolvedTarget{
			Kind:       target.Kind,
			EntityID:   entity.ID,
			EntityName: entity.Name,
			NeedsBank:  target.Kind == rbac.TargetBank,
		})
	}
	return resolved, nil
}

// ChooseSegment commits the escalation segment for the loaded incident. It
// must succeed before Assign.
func (c *Coordinator) ChooseSegment(ctx context.Context, rec *store.SessionRecord, entityID int64) (*store.WorkspaceState, error) {
	state, err := c.loadContext(ctx, rec)
	if err != nil {
		return nil, err
	}
	token, err := c.sessions.Token(rec)
	if err != nil {
		return nil, err
	}
	segment, err := c.gw.SetSegment(ctx, token, state.IncidentID, entityID)
	if err != nil {
		return nil, err
	}
	state.SegmentID = &segment.ID
	state.UpdatedAt = utils.NowUTC()
	if err := c.workspace.SaveWorkspace(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// Assign escalates the loaded assignment to the chosen entity. Every payload
// field is stringified the way the platform expects; bank_id is only sent
// for bank targets.
func (c *Coordinator) Assign(ctx context.Context, rec *store.SessionRecord, input AssignInput) (*IncidentView, error) {
	state, err := c.loadContext(ctx, rec)
	if err != nil {
		return nil, err
	}
	if state.AssignmentID == nil {
		return nil, ErrMissingContext
	}
	if state.SegmentID == nil {
		return nil, ErrNoSegment
	}
	role := sessionRole(rec)
	if !rbac.CanAssign(role, state.AcceptanceStatus) {
		return nil, &gateway.BusinessRuleViolation{
			Message: fmt.Sprintf("role %s may not assign while assignment is %q", role, state.AcceptanceStatus),
		}
	}
	targets, err := c.ResolveAssignmentTargets(ctx, rec)
	if err != nil {
		return nil, err
	}
	var target *ResolvedTarget
	for i := range targets {
		if targets[i].EntityID == input.EntityID {
			target = &targets[i]
			break
		}
	}
	if target == nil {
		return nil, &gateway.BusinessRuleViolation{Message: "entity is not a valid escalation target for this role"}
	}
	if target.NeedsBank && input.BankID == nil {
		return nil, &gateway.BusinessRuleViolation{Message: "bank target requires a bank"}
	}

	assignmentID := *state.AssignmentID
	tag, err := c.begin(rec.ID, assignmentID)
	if err != nil {
		return nil, err
	}
	defer c.finish(assignmentID)

	req := gateway.AssignmentRequest{
		IncidentAssignmentID: strconv.FormatInt(assignmentID, 10),
		SegmentID:            strconv.FormatInt(*state.SegmentID, 10),
		IncidentID:           strconv.FormatInt(state.IncidentID, 10),
		EntityID:             strconv.FormatInt(target.EntityID, 10),
		Comment:              input.Comment,
	}
	if target.NeedsBank {
		req.BankID = strconv.FormatInt(*input.BankID, 10)
	}
	token, err := c.sessions.Token(rec)
	if err != nil {
		return nil, err
	}
	if err := c.gw.MakeAssignment(ctx, token, req); err != nil {
		return nil, err
	}
	if !c.current(rec.ID, tag) {
		return nil, ErrSelectionChanged
	}
	return c.LoadIncident(ctx, rec, state.IncidentID)
}

// AddComment appends optimistically: the comment is returned to the caller
// right away and reconciled against the server list on the next Comments
// call.
func (c *Coordinator) AddComment(ctx context.Context, rec *store.SessionRecord, body string) (*gateway.Comment, error) {
	state, err := c.loadContext(ctx, rec)
	if err != nil {
		return nil, err
	}
	token, err := c.sessions.Token(rec)
	if err != nil {
		return nil, err
	}
	if err := c.gw.AddComment(ctx, token, state.IncidentID, body); err != nil {
		return nil, err
	}
	return &gateway.Comment{
		IncidentID: state.IncidentID,
		Author:     rec.Email,
		Body:       body,
		CreatedAt:  utils.NowUTC().Format("2006-01-02T15:04:05Z"),
	}, nil
}

func (c *Coordinator) Comments(ctx context.Context, rec *store.SessionRecord, incidentID int64) ([]gateway.Comment, error) {
	token, err := c.sessions.Token(rec)
	if err != nil {
		return nil, err
	}
	return c.gw.Comments(ctx, token, incidentID)
}

// ActivityLogs pages through the incident's audit trail. The server's meta is
// the only source of page counts.
func (c *Coordinator) ActivityLogs(ctx context.Context, rec *store.SessionRecord, incidentID int64, page, perPage int) ([]gateway.ActivityLog, *gateway.PageMeta, error) {
	token, err := c.sessions.Token(rec)
	if err != nil {
		return nil, nil, err
	}
	if perPage <= 0 {
		perPage = c.gw.DefaultPerPage()
	}
	if page <= 0 {
		page = 1
	}
	return c.gw.ActivityLogs(ctx, token, incidentID, page, perPage)
}

// AssignedIncidents and ListIncidents surface the dashboards.
func (c *Coordinator) AssignedIncidents(ctx context.Context, rec *store.SessionRecord) ([]gateway.Incident, error) {
	token, err := c.sessions.Token(rec)
	if err != nil {
		return nil, err
	}
	return c.gw.AssignedIncidents(ctx, token)
}

func (c *Coordinator) ListIncidents(ctx context.Context, rec *store.SessionRecord, page, perPage int) ([]gateway.Incident, *gateway.PageMeta, error) {
	token, err := c.sessions.Token(rec)
	if err != nil {
		return nil, nil, err
	}
	if perPage <= 0 {
		perPage = c.gw.DefaultPerPage()
	}
	if page <= 0 {
		page = 1
	}
	return c.gw.ListIncidents(ctx, token, page, perPage)
}

func (c *Coordinator) Banks(ctx context.Context, rec *store.SessionRecord) ([]gateway.Bank, error) {
	token, err := c.sessions.Token(rec)
	if err != nil {
		return nil, err
	}
	return c.gw.Banks(ctx, token)
}
