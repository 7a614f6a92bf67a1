package checkin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ManuelReschke/Lebensenergie/app/models"
	"github.com/ManuelReschke/Lebensenergie/app/repository"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/badges"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/cache"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/journey"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/notify"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/streak"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var validate = validator.New()

// Input is a check-in submission.
type Input struct {
	EnergyLevel    int      `json:"energyLevel" validate:"required,min=1,max=10"`
	SleepQuality   int      `json:"sleepQuality" validate:"required,min=1,max=10"`
	MoodLevel      int      `json:"moodLevel" validate:"required,min=1,max=10"`
	EnergyGivers   []string `json:"energyGivers" validate:"max=20,dive,max=64"`
	EnergyDrainers []string `json:"energyDrainers" validate:"max=20,dive,max=64"`
	Notes          string   `json:"notes" validate:"max=2000"`
}

// Result is the outcome of a successful check-in.
type Result struct {
	CheckIn   *models.CheckIn
	NewBadges []badges.Badge
	Streak    int
	Journey   *models.UserJourney
}

// Service records check-ins and drives the journey counters and badges.
type Service struct {
	users    repository.UserRepository
	checkIns repository.CheckInRepository
	journeys *journey.Service
	badges   *badges.Engine
	notify   *notify.Service
	streaks  *cache.StreakCache
	cfg      Config
	now      func() time.Time
}

// NewService wires a check-in service. streaks may be nil.
func NewService(repos *repository.Repositories, journeyCfg journey.Config, streaks *cache.StreakCache, cfg Config) *Service {
	if cfg.DefaultLocation == nil {
		cfg.DefaultLocation = time.UTC
	}
	return &Service{
		users:    repos.User,
		checkIns: repos.CheckIn,
		journeys: journey.NewService(repos.Journey, journeyCfg),
		badges:   badges.NewEngine(repos.Badge),
		notify:   notify.NewService(repos.Notification),
		streaks:  streaks,
		cfg:      cfg,
		now:      time.Now,
	}
}

// WithClock replaces the time source of the service and its collaborators.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	s.journeys.WithClock(now)
	s.badges.WithClock(now)
	return s
}

func (s *Service) location(ctx context.Context, userID uint) *time.Location {
	settings, err := s.users.GetOrCreateSettings(ctx, userID)
	if err != nil {
		log.Warnf("[CheckIn] Could not load settings of user %d: %v", userID, err)
		return s.cfg.DefaultLocation
	}
	return settings.Location(s.cfg.DefaultLocation)
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Submit stores today's check-in of userID. A second check-in on the same
// calendar day returns *DuplicateCheckInError with the stored record.
func (s *Service) Submit(ctx context.Context, userID uint, in Input) (*Result, error) {
	if err := validate.Struct(in); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	now := s.now()
	day := streak.DayKey(now, s.location(ctx, userID))

	existing, err := s.checkIns.FindByUserAndDay(ctx, userID, day)
	if err == nil {
		return nil, &DuplicateCheckInError{Existing: existing}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("look up check-in: %w", err)
	}

	record := &models.CheckIn{
		ID:                 uuid.NewString(),
		UserID:             userID,
		CheckInDay:         day,
		EnergyLevel:        in.EnergyLevel,
		SleepQuality:       in.SleepQuality,
		MoodLevel:          in.MoodLevel,
		LebensenergieScore: Score(in.EnergyLevel, in.SleepQuality, in.MoodLevel),
		EnergyGivers:       cleanTags(in.EnergyGivers),
		EnergyDrainers:     cleanTags(in.EnergyDrainers),
		Notes:              strings.TrimSpace(in.Notes),
		CheckedInAt:        now.UTC(),
	}
	if err := s.checkIns.Create(ctx, record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost a race against a concurrent submission for the same day
			stored, findErr := s.checkIns.FindByUserAndDay(ctx, userID, day)
			if findErr != nil {
				return nil, fmt.Errorf("load concurrent check-in: %w", findErr)
			}
			return nil, &DuplicateCheckInError{Existing: stored}
		}
		return nil, fmt.Errorf("create check-in: %w", err)
	}
	if err := s.streaks.Invalidate(ctx, userID); err != nil {
		log.Warnf("[CheckIn] Could not invalidate streak cache of user %d: %v", userID, err)
	}

	total, err := s.checkIns.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count check-ins: %w", err)
	}
	days, err := s.checkIns.ListDays(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list check-in days: %w", err)
	}
	current := streak.Compute(days, day)
	if err := s.streaks.Set(ctx, userID, day, current); err != nil {
		log.Warnf("[CheckIn] Could not cache streak of user %d: %v", userID, err)
	}

	j, err := s.journeys.RecordProgress(ctx, userID, journey.Progress{
		CheckIns:   int(total),
		Streak:     current,
		DaysActive: countDistinct(days),
	})
	if err != nil {
		return nil, err
	}

	recent, err := s.checkIns.ListRecent(ctx, userID, 7)
	if err != nil {
		return nil, fmt.Errorf("list recent check-ins: %w", err)
	}
	scores := make([]float64, 0, len(recent))
	for _, c := range recent {
		scores = append(scores, c.LebensenergieScore)
	}

	earned, err := s.badges.Evaluate(ctx, userID, badges.Inputs{
		TotalCheckIns: int(total),
		Streak:        current,
		LatestScore:   record.LebensenergieScore,
		RecentScores:  scores,
		Level:         j.CurrentLevel,
	})
	if err != nil {
		return nil, err
	}
	for _, b := range earned {
		if _, err := s.notify.Create(ctx, userID, notify.BadgeEarned(b.Name, b.Description)); err != nil {
			log.Errorf("[CheckIn] Could not store badge notification for user %d: %v", userID, err)
		}
	}

	return &Result{CheckIn: record, NewBadges: earned, Streak: current, Journey: j}, nil
}

func countDistinct(days []string) int {
	seen := make(map[string]struct{}, len(days))
	for _, d := range days {
		seen[d] = struct{}{}
	}
	return len(seen)
}

// currentStreak returns the streak of userID as of day, using the cache.
func (s *Service) currentStreak(ctx context.Context, userID uint, day string) (int, error) {
	if v, ok, err := s.streaks.Get(ctx, userID, day); err == nil && ok {
		return v, nil
	} else if err != nil {
		log.Warnf("[CheckIn] Streak cache read failed for user %d: %v", userID, err)
	}

	days, err := s.checkIns.ListDays(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("list check-in days: %w", err)
	}
	v := streak.Compute(days, day)
	if err := s.streaks.SetIfAbsent(ctx, userID, day, v); err != nil {
		log.Warnf("[CheckIn] Streak cache write failed for user %d: %v", userID, err)
	}
	return v, nil
}
