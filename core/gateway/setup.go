package gateway

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) PlatformRoles(ctx context.Context, token string) ([]PlatformRole, error) {
	var out []PlatformRole
	_, _, err := c.do(ctx, token, http.MethodGet, "/admin/the-roles", nil, nil, &out, true)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RegisterAdmin(ctx context.Context, token string, req RegisterAdminRequest) error {
	_, _, err := c.do(ctx, token, http.MethodPost, "/admin/auth/register-admin", nil, req, nil, true)
	return err
}

// MemberActions lists admin-member registrations by review state. state is
// one of pending, declined, approved.
func (c *Client) MemberActions(ctx context.Context, token, state string) ([]MemberAction, error) {
	var out []MemberAction
	_, _, err := c.do(ctx, token, http.MethodGet,
		fmt.Sprintf("/admin/admin-members/%s-actions", state), nil, nil, &out, true)
	if err != nil {
		return nil, err
	}
	return out, nil
}

type memberActionRequest struct {
	ActionID string `json:"action_id"`
}

func (c *Client) ApproveMemberAction(ctx context.Context, token string, actionID int64) error {
	_, _, err := c.do(ctx, token, http.MethodPost, "/admin/admin-members/approve-action", nil,
		memberActionRequest{ActionID: fmt.Sprintf("%d", actionID)}, nil, true)
	return err
}

func (c *Client) DeclineMemberAction(ctx context.Context, token string, actionID int64) error {
	_, _, err := c.do(ctx, token, http.MethodPost, "/admin/admin-members/decline-action", nil,
		memberActionRequest{ActionID: fmt.Sprintf("%d", actionID)}, nil, true)
	return err
}
