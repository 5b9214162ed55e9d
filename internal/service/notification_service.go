package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/aarothfresh/orderflow/internal/client"
	"github.com/aarothfresh/orderflow/internal/domain"
	"github.com/aarothfresh/orderflow/internal/view"
)

// NotificationService keeps the vendor notification view populated and
// derives the unread count. It is a consumer of the polling surface, not
// part of the workflow state machine.
type NotificationService struct {
	api    client.API
	store  view.Store
	logger *zap.Logger
}

// NewNotificationService creates a notification service
func NewNotificationService(api client.API, store view.Store, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{api: api, store: store, logger: logger}
}

// Refresh fetches the notification list into the view store
func (s *NotificationService) Refresh(ctx context.Context) error {
	resp, err := s.api.GetNotifications(ctx)
	if err != nil {
		s.logger.Warn("Failed to refresh notifications", zap.Error(err))
		return err
	}
	s.store.Write(view.NotificationsKey, resp.Data)
	s.store.ClearStale(view.NotificationsKey)
	s.logger.Debug("Notifications refreshed",
		zap.Int("count", len(resp.Data)),
		zap.Int("unread", resp.UnreadCount),
	)
	return nil
}

// Notifications reads the cached notification list
func (s *NotificationService) Notifications() []domain.Notification {
	if v, ok := s.store.Read(view.NotificationsKey); ok {
		if list, ok := v.([]domain.Notification); ok {
			return list
		}
	}
	return nil
}

// UnreadCount derives the number of unread notifications from the cached list
func (s *NotificationService) UnreadCount() int {
	count := 0
	for _, n := range s.Notifications() {
		if !n.Read {
			count++
		}
	}
	return count
}
