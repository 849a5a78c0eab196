package gateway

import (
	"context"
	"fmt"
	"net/http"
)

type dashboardIndex struct {
	AssignedIncidents []Incident `json:"assigned_incidents"`
}

// AssignedIncidents returns the incidents currently assigned to the caller's
// role, from the dashboard index endpoint.
func (c *Client) AssignedIncidents(ctx context.Context, token string) ([]Incident, error) {
	var out dashboardIndex
	_, _, err := c.do(ctx, token, http.MethodGet, "/admin/dashboard/index", nil, nil, &out, true)
	if err != nil {
		return nil, err
	}
	return out.AssignedIncidents, nil
}

func (c *Client) ListIncidents(ctx context.Context, token string, page, perPage int) ([]Incident, *PageMeta, error) {
	var out []Incident
	meta, _, err := c.do(ctx, token, http.MethodGet, "/admin/dashboard/incidents",
		pageQuery(page, perPage), nil, &out, true)
	if err != nil {
		return nil, nil, err
	}
	return out, meta, nil
}

func (c *Client) GetIncident(ctx context.Context, token string, incidentID int64) (*Incident, error) {
	var out Incident
	_, _, err := c.do(ctx, token, http.MethodGet,
		fmt.Sprintf("/admin/dashboard/incident/%d", incidentID), nil, nil, &out, true)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Respond accepts or declines an assignment. A duplicate response comes back
// as BusinessRuleViolation with the platform's message.
func (c *Client) Respond(ctx context.Context, token string, assignmentID int64, accept bool) error {
	verb := "decline"
	if accept {
		verb = "accept"
	}
	_, _, err := c.do(ctx, token, http.MethodPost,
		fmt.Sprintf("/admin/incidents/respond/%d/%s", assignmentID, verb), nil, nil, nil, true)
	return err
}

type segmentRequest struct {
	IncidentID      string `json:"incident_id"`
	SegmentEntityID string `json:"segment_entity_id"`
}

// SetSegment records which entity the incident is being escalated through and
// returns the segment the platform created.
func (c *Client) SetSegment(ctx context.Context, token string, incidentID, segmentEntityID int64) (*Segment, error) {
	var out Segment
	_, _, err := c.do(ctx, token, http.MethodPost, "/admin/incidents/segment", nil,
		segmentRequest{
			IncidentID:      fmt.Sprintf("%d", incidentID),
			SegmentEntityID: fmt.Sprintf("%d", segmentEntityID),
		}, &out, true)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MakeAssignment(ctx context.Context, token string, req AssignmentRequest) error {
	_, _, err := c.do(ctx, token, http.MethodPost, "/admin/incidents/make-assignment", nil, req, nil, true)
	return err
}

func (c *Client) Banks(ctx context.Context, token string) ([]Bank, error) {
	var out []Bank
	_, _, err := c.do(ctx, token, http.MethodGet, "/admin/banks/get", nil, nil, &out, true)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Entities(ctx context.Context, token string) ([]Entity, error) {
	var out []Entity
	_, _, err := c.do(ctx, token, http.MethodGet, "/admin/entities/get", nil, nil, &out, true)
	if err != nil {
		return nil, err
	}
	return out, nil
}

type commentRequest struct {
	IncidentID string `json:"incident_id"`
	Comment    string `json:"comment"`
}

func (c *Client) AddComment(ctx context.Context, token string, incidentID int64, body string) error {
	_, _, err := c.do(ctx, token, http.MethodPost, "/admin/comment/add", nil,
		commentRequest{IncidentID: fmt.Sprintf("%d", incidentID), Comment: body}, nil, true)
	return err
}

func (c *Client) Comments(ctx context.Context, token string, incidentID int64) ([]Comment, error) {
	var out []Comment
	_, _, err := c.do(ctx, token, http.MethodGet,
		fmt.Sprintf("/admin/comment/all/%d", incidentID), nil, nil, &out, true)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ActivityLogs(ctx context.Context, token string, incidentID int64, page, perPage int) ([]ActivityLog, *PageMeta, error) {
	var out []ActivityLog
	meta, _, err := c.do(ctx, token, http.MethodGet,
		fmt.Sprintf("/admin/dashboard/incident/%d/logs", incidentID),
		pageQuery(page, perPage), nil, &out, true)
	if err != nil {
		return nil, nil, err
	}
	return out, meta, nil
}
