package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"profile-service/internal/events"
	"profile-service/internal/models"
	"profile-service/internal/repository"
	"profile-service/internal/utils"
)

// StatsService records interaction events and aggregates them into profile
// statistics on demand. Aggregates are derived fresh on every call and never
// cached.
type StatsService struct {
	repo     repository.EventRepository
	producer *events.Publisher // nil when kafka is disabled
	loc      *time.Location
	logger   *zap.SugaredLogger
}

func NewStatsService(repo repository.EventRepository, producer *events.Publisher, loc *time.Location, logger *zap.SugaredLogger) *StatsService {
	if loc == nil {
		loc = time.UTC
	}
	return &StatsService{repo: repo, producer: producer, loc: loc, logger: logger}
}

// RecordEvent appends one event with a server-assigned timestamp. The kafka
// mirror is best-effort; only the store write decides success.
func (s *StatsService) RecordEvent(ctx context.Context, profileID string, eventType models.EventType) error {
	if profileID == "" {
		return fmt.Errorf("profile id is required")
	}
	if !eventType.Valid() {
		return fmt.Errorf("invalid event type %q", eventType)
	}

	ev := &models.InteractionEvent{
		ID:        utils.NewID(),
		ProfileID: profileID,
		EventType: eventType,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, ev); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrStoreUnavailable, err)
	}
	if s.producer != nil {
		if err := s.producer.PublishEvent(ctx, ev); err != nil {
			s.logger.Warnw("kafka publish", "error", err)
		}
	}
	return nil
}

// ProfileStats aggregates events with timestamps in [from, to): four running
// totals plus per-calendar-date buckets, newest date first. An empty or
// inverted window yields zero totals and an empty bucket list.
func (s *StatsService) ProfileStats(ctx context.Context, profileID string, from, to time.Time) (*models.ProfileStats, error) {
	stats := &models.ProfileStats{DailyStats: []models.DailyStats{}}
	if !from.Before(to) {
		return stats, nil
	}

	evs, err := s.repo.FindByProfile(ctx, profileID, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrStoreUnavailable, err)
	}

	byDate := make(map[string]*models.DailyStats)
	for _, ev := range evs {
		day := DateKey(ev.CreatedAt, s.loc)
		bucket := byDate[day]
		if bucket == nil {
			bucket = &models.DailyStats{Date: day}
			byDate[day] = bucket
		}
		switch ev.EventType {
		case models.EventView:
			stats.TotalViews++
			bucket.Views++
		case models.EventPhoneClick:
			stats.TotalPhoneClicks++
			bucket.PhoneClicks++
		case models.EventWhatsAppClick:
			stats.TotalWhatsAppClicks++
			bucket.WhatsAppClicks++
		case models.EventTelegramClick:
			stats.TotalTelegramClicks++
			bucket.TelegramClicks++
		}
	}

	for _, bucket := range byDate {
		stats.DailyStats = append(stats.DailyStats, *bucket)
	}
	sort.Slice(stats.DailyStats, func(i, j int) bool {
		return stats.DailyStats[i].Date > stats.DailyStats[j].Date
	})
	return stats, nil
}

// DateKey derives the calendar date of an instant in the given zone. Two
// events milliseconds apart on either side of local midnight land on
// different dates.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}
