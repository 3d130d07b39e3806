package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vcisolabs/vciso-engine/pkg/models"
	"github.com/vcisolabs/vciso-engine/pkg/repositories"
)

// defaultNotificationLimit caps a single notification page.
const defaultNotificationLimit = 50

// NotificationService provides operations for dashboard notifications.
type NotificationService interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	Notify(ctx context.Context, n *models.Notification) error
}

type notificationService struct {
	repo   repositories.NotificationRepository
	logger *zap.Logger
}

// NewNotificationService creates a new notification service.
func NewNotificationService(repo repositories.NotificationRepository, logger *zap.Logger) NotificationService {
	return &notificationService{
		repo:   repo,
		logger: logger.Named("notifications"),
	}
}

var _ NotificationService = (*notificationService)(nil)

func (s *notificationService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error) {
	notifications, err := s.repo.ListByUser(ctx, userID, defaultNotificationLimit)
	if err != nil {
		s.logger.Error("Failed to list notifications",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, err
	}
	return notifications, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, id); err != nil {
		s.logger.Error("Failed to mark notification read",
			zap.String("notification_id", id.String()),
			zap.Error(err))
		return err
	}
	return nil
}

func (s *notificationService) Notify(ctx context.Context, n *models.Notification) error {
	if !models.IsValidNotificationType(n.Type) {
		return fmt.Errorf("invalid notification type %q", n.Type)
	}
	if n.Priority != "" && !models.IsValidPriority(n.Priority) {
		return fmt.Errorf("invalid notification priority %q", n.Priority)
	}
	return s.repo.Insert(ctx, n)
}
