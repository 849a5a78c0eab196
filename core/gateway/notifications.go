package gateway

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) Notifications(ctx context.Context, token string) ([]Notification, error) {
	var out []Notification
	_, _, err := c.do(ctx, token, http.MethodGet, "/notifications", nil, nil, &out, true)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UnreadNotifications(ctx context.Context, token string) ([]Notification, error) {
	var out []Notification
	_, _, err := c.do(ctx, token, http.MethodGet, "/notifications/unread", nil, nil, &out, true)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ReadNotifications(ctx context.Context, token string) ([]Notification, error) {
	var out []Notification
	_, _, err := c.do(ctx, token, http.MethodGet, "/notifications/read", nil, nil, &out, true)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) NotificationDetails(ctx context.Context, token string, id int64) (*Notification, error) {
	var out Notification
	_, _, err := c.do(ctx, token, http.MethodGet,
		fmt.Sprintf("/notifications/%d/details", id), nil, nil, &out, true)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, token string, id int64) error {
	_, _, err := c.do(ctx, token, http.MethodPost,
		fmt.Sprintf("/notifications/%d/read", id), nil, nil, nil, true)
	return err
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context, token string) error {
	_, _, err := c.do(ctx, token, http.MethodPost, "/notifications/read/all", nil, nil, nil, true)
	return err
}
