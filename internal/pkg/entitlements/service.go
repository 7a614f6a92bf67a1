package entitlements

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ManuelReschke/Lebensenergie/app/models"
	"github.com/ManuelReschke/Lebensenergie/app/repository"
	"github.com/gofiber/fiber/v2/log"
)

// ErrMissingCourse is returned when a grant names no course.
var ErrMissingCourse = errors.New("course id is required")

// Service grants and revokes course access.
type Service struct {
	repo repository.EntitlementRepository
	now  func() time.Time
}

func NewService(repo repository.EntitlementRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Grant creates or restores access to courseID.
func (s *Service) Grant(ctx context.Context, userID uint, courseID string, expiresAt *time.Time, sourceEventID string) (*models.Entitlement, error) {
	courseID = strings.TrimSpace(courseID)
	if courseID == "" {
		return nil, ErrMissingCourse
	}
	e := &models.Entitlement{
		UserID:        userID,
		CourseID:      courseID,
		GrantedAt:     s.now(),
		ExpiresAt:     expiresAt,
		SourceEventID: sourceEventID,
	}
	if err := s.repo.Upsert(ctx, e); err != nil {
		return nil, fmt.Errorf("grant entitlement: %w", err)
	}
	log.Infof("[Entitlements] Granted course %s to user %d", courseID, userID)
	return e, nil
}

// Revoke revokes access to courseID, or to every active course when
// courseID is empty.
func (s *Service) Revoke(ctx context.Context, userID uint, courseID string) (int64, error) {
	n, err := s.repo.Revoke(ctx, userID, strings.TrimSpace(courseID), s.now())
	if err != nil {
		return 0, fmt.Errorf("revoke entitlement: %w", err)
	}
	log.Infof("[Entitlements] Revoked %d grant(s) of user %d (course=%q)", n, userID, courseID)
	return n, nil
}

// Active returns the course ids the user can currently access.
func (s *Service) Active(ctx context.Context, userID uint) ([]string, error) {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	var out []string
	for i := range list {
		if list[i].IsActive(now) {
			out = append(out, list[i].CourseID)
		}
	}
	return out, nil
}
