package service

import (
	"context"

	"asset-ledger-backend/internal/domain"
	"asset-ledger-backend/internal/repository"
)

type notificationService struct {
	store repository.Store
}

func NewNotificationService(store repository.Store) NotificationService {
	return &notificationService{store: store}
}

func (s *notificationService) List(ctx context.Context, actor *domain.Actor, limit, offset int64) ([]domain.Notification, error) {
	if actor == nil || !actor.Active {
		return nil, domain.Forbidden(domain.DenyRoleInsufficient, "inactive or missing actor")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.store.Notifications().ListByUser(ctx, actor.UserID, limit, offset)
}

func (s *notificationService) MarkRead(ctx context.Context, actor *domain.Actor, notificationID int64) error {
	if actor == nil || !actor.Active {
		return domain.Forbidden(domain.DenyRoleInsufficient, "inactive or missing actor")
	}
	return s.store.Notifications().MarkRead(ctx, notificationID, actor.UserID)
}
