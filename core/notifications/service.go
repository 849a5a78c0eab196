package notifications

import (
	"context"

	"vigilant-console/core/auth"
	"vigilant-console/core/gateway"
	"vigilant-console/core/store"
	"vigilant-console/core/utils"
)

// Service fronts the platform's notification endpoints for authenticated
// sessions.
type Service struct {
	gw       *gateway.Client
	sessions *auth.SessionManager
	logger   *utils.Logger
}

func NewService(gw *gateway.Client, sessions *auth.SessionManager, logger *utils.Logger) *Service {
	return &Service{gw: gw, sessions: sessions, logger: logger}
}

func (s *Service) All(ctx context.Context, rec *store.SessionRecord) ([]gateway.Notification, error) {
	token, err := s.sessions.Token(rec)
	if err != nil {
		return nil, err
	}
	return s.gw.Notifications(ctx, token)
}

func (s *Service) Unread(ctx context.Context, rec *store.SessionRecord) ([]gateway.Notification, error) {
	token, err := s.sessions.Token(rec)
	if err != nil {
		return nil, err
	}
	return s.gw.UnreadNotifications(ctx, token)
}

func (s *Service) Read(ctx context.Context, rec *store.SessionRecord) ([]gateway.Notification, error) {
	token, err := s.sessions.Token(rec)
	if err != nil {
		return nil, err
	}
	return s.gw.ReadNotifications(ctx, token)
}

func (s *Service) Details(ctx context.Context, rec *store.SessionRecord, id int64) (*gateway.Notification, error) {
	token, err := s.sessions.Token(rec)
	if err != nil {
		return nil, err
	}
	return s.gw.NotificationDetails(ctx, token, id)
}

func (s *Service) MarkRead(ctx context.Context, rec *store.SessionRecord, id int64) error {
	token, err := s.sessions.Token(rec)
	if err != nil {
		return err
	}
	return s.gw.MarkNotificationRead(ctx, token, id)
}

func (s *Service) MarkAllRead(ctx context.Context, rec *store.SessionRecord) error {
	token, err := s.sessions.Token(rec)
	if err != nil {
		return err
	}
	return s.gw.MarkAllNotificationsRead(ctx, token)
}
