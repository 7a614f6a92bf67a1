package checkin

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ManuelReschke/Lebensenergie/app/models"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/streak"
	"gorm.io/gorm"
)

const (
	DefaultHistoryDays = 30
	MaxHistoryDays     = 365
)

// Today is the check-in state of the current calendar day.
type Today struct {
	Day       string          `json:"day"`
	CheckedIn bool            `json:"checkedIn"`
	CheckIn   *models.CheckIn `json:"checkIn"`
	Streak    int             `json:"streak"`
}

// Stats aggregates check-ins of a period.
type Stats struct {
	Count           int     `json:"count"`
	AverageEnergy   float64 `json:"averageEnergy"`
	AverageSleep    float64 `json:"averageSleep"`
	AverageMood     float64 `json:"averageMood"`
	AverageScore    float64 `json:"averageScore"`
	BestScore       float64 `json:"bestScore"`
	LowestScore     float64 `json:"lowestScore"`
	CurrentStreak   int     `json:"currentStreak"`
	CompletionRatio float64 `json:"completionRatio"`
}

// Week summarises the check-ins of one Monday-based week.
type Week struct {
	WeekStart    string  `json:"weekStart"`
	Count        int     `json:"count"`
	AverageScore float64 `json:"averageScore"`
}

// History is the check-in history of the last Days calendar days.
type History struct {
	Days     int              `json:"days"`
	From     string           `json:"from"`
	To       string           `json:"to"`
	CheckIns []models.CheckIn `json:"checkIns"`
	Stats    Stats            `json:"stats"`
	Weekly   []Week           `json:"weekly"`
}

// ClampDays bounds a requested history length to 1..365, with 30 for
// non-positive values.
func ClampDays(days int) int {
	switch {
	case days <= 0:
		return DefaultHistoryDays
	case days > MaxHistoryDays:
		return MaxHistoryDays
	default:
		return days
	}
}

// Today returns today's check-in of userID, if any, and the current streak.
func (s *Service) Today(ctx context.Context, userID uint) (*Today, error) {
	day := streak.DayKey(s.now(), s.location(ctx, userID))
	out := &Today{Day: day}

	c, err := s.checkIns.FindByUserAndDay(ctx, userID, day)
	switch {
	case err == nil:
		out.CheckedIn = true
		out.CheckIn = c
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("look up check-in: %w", err)
	}

	if out.Streak, err = s.currentStreak(ctx, userID, day); err != nil {
		return nil, err
	}
	return out, nil
}

// History returns the check-ins of the last days calendar days including
// today with aggregate statistics and a weekly breakdown.
func (s *Service) History(ctx context.Context, userID uint, days int) (*History, error) {
	days = ClampDays(days)
	loc := s.location(ctx, userID)
	now := s.now().In(loc)
	today := now.Format(streak.DayLayout)
	fromDay := now.AddDate(0, 0, -(days - 1))
	from := time.Date(fromDay.Year(), fromDay.Month(), fromDay.Day(), 0, 0, 0, 0, loc)

	list, err := s.checkIns.ListSince(ctx, userID, from.UTC())
	if err != nil {
		return nil, fmt.Errorf("list check-ins: %w", err)
	}
	if list == nil {
		list = []models.CheckIn{}
	}

	current, err := s.currentStreak(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	stats := summarize(list)
	stats.CurrentStreak = current
	stats.CompletionRatio = round1(float64(countDistinctCheckInDays(list)) / float64(days) * 100)

	return &History{
		Days:     days,
		From:     from.Format(streak.DayLayout),
		To:       today,
		CheckIns: list,
		Stats:    stats,
		Weekly:   weekly(list),
	}, nil
}

func summarize(list []models.CheckIn) Stats {
	st := Stats{Count: len(list)}
	if len(list) == 0 {
		return st
	}
	var energy, sleep, mood, score float64
	st.BestScore = list[0].LebensenergieScore
	st.LowestScore = list[0].LebensenergieScore
	for _, c := range list {
		energy += float64(c.EnergyLevel)
		sleep += float64(c.SleepQuality)
		mood += float64(c.MoodLevel)
		score += c.LebensenergieScore
		if c.LebensenergieScore > st.BestScore {
			st.BestScore = c.LebensenergieScore
		}
		if c.LebensenergieScore < st.LowestScore {
			st.LowestScore = c.LebensenergieScore
		}
	}
	n := float64(len(list))
	st.AverageEnergy = round1(energy / n)
	st.AverageSleep = round1(sleep / n)
	st.AverageMood = round1(mood / n)
	st.AverageScore = round1(score / n)
	return st
}

func countDistinctCheckInDays(list []models.CheckIn) int {
	seen := make(map[string]struct{}, len(list))
	for _, c := range list {
		seen[c.CheckInDay] = struct{}{}
	}
	return len(seen)
}

// weekStart returns the Monday of the week containing day.
func weekStart(day string) (string, bool) {
	t, err := time.Parse(streak.DayLayout, day)
	if err != nil {
		return "", false
	}
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset).Format(streak.DayLayout), true
}

func weekly(list []models.CheckIn) []Week {
	type acc struct {
		count int
		sum   float64
	}
	byWeek := map[string]*acc{}
	for _, c := range list {
		ws, ok := weekStart(c.CheckInDay)
		if !ok {
			continue
		}
		a, found := byWeek[ws]
		if !found {
			a = &acc{}
			byWeek[ws] = a
		}
		a.count++
		a.sum += c.LebensenergieScore
	}

	out := make([]Week, 0, len(byWeek))
	for ws, a := range byWeek {
		out = append(out, Week{WeekStart: ws, Count: a.count, AverageScore: round1(a.sum / float64(a.count))})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStart < out[j].WeekStart })
	return out
}
