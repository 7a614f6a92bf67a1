package notify

import (
	"context"
	"fmt"

	"github.com/ManuelReschke/Lebensenergie/app/models"
	"github.com/ManuelReschke/Lebensenergie/app/repository"
)

// Service stores formatted notifications.
type Service struct {
	repo repository.NotificationRepository
}

func NewService(repo repository.NotificationRepository) *Service {
	return &Service{repo: repo}
}

// Create persists c for userID.
func (s *Service) Create(ctx context.Context, userID uint, c Content) (*models.Notification, error) {
	n := &models.Notification{
		UserID:    userID,
		Kind:      c.Kind,
		Title:     c.Title,
		Message:   Truncate(c.Message),
		ActionURL: c.ActionURL,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return n, nil
}
