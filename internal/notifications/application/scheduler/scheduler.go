// Package scheduler fires the daily reminder and the weekly summary.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/teambition/rrule-go"

	analytics "github.com/felixgeelhaar/mindful/internal/analytics/domain"
	"github.com/felixgeelhaar/mindful/internal/notifications/application"
	"github.com/felixgeelhaar/mindful/internal/notifications/domain"
)

// Job names.
const (
	JobDailyReminder = "daily_reminder"
	JobWeeklySummary = "weekly_summary"
)

// Weekly summary time, local.
const (
	weeklySummaryHour   = 20
	weeklySummaryMinute = 0
)

// Config configures the scheduler.
type Config struct {
	Tick                 time.Duration
	WeeklySummaryEnabled bool
}

// Scheduler evaluates recurrence rules on every tick. Each occurrence fires at
// most once, and occurrences before the scheduler started never fire.
type Scheduler struct {
	settings *application.SettingsReader
	notifier domain.Notifier
	engine   analytics.Engine
	sessions analytics.SessionSource
	config   Config
	now      func() time.Time
	logger   *slog.Logger

	startedAt time.Time
	lastFired map[string]time.Time

	wg       sync.WaitGroup
	stopChan chan struct{}
	running  bool
	mu       sync.Mutex
}

// New creates a new scheduler.
func New(
	settings *application.SettingsReader,
	notifier domain.Notifier,
	engine analytics.Engine,
	sessions analytics.SessionSource,
	config Config,
	logger *slog.Logger,
) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Tick <= 0 {
		config.Tick = 30 * time.Second
	}
	return &Scheduler{
		settings:  settings,
		notifier:  notifier,
		engine:    engine,
		sessions:  sessions,
		config:    config,
		now:       time.Now,
		logger:    logger,
		lastFired: make(map[string]time.Time),
		stopChan:  make(chan struct{}),
	}
}

// Start begins the tick loop in a goroutine.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.stopChan = make(chan struct{})
	s.startedAt = s.now()
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("notification scheduler started",
		"tick", s.config.Tick,
		"timezone", s.engine.Calendar().Location().String(),
	)
	return nil
}

// IsRunning reports whether the tick loop is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopChan)
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("notification scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			if err := s.Tick(ctx); err != nil {
				s.logger.Error("scheduler tick failed", "error", err)
			}
		}
	}
}

// Tick fires every job whose latest occurrence is due and not yet fired.
func (s *Scheduler) Tick(ctx context.Context) error {
	now := s.now()
	settings, err := s.settings.Effective(ctx)
	if err != nil {
		return err
	}

	reminder, err := DailyRule(settings.ReminderHour, settings.ReminderMinute, now, s.engine.Calendar())
	if err != nil {
		return err
	}
	if occurrence, due := s.due(JobDailyReminder, reminder, now); due {
		if settings.ReminderEnabled && settings.Configured() {
			if err := s.sendReminder(ctx, settings, now); err != nil {
				return err
			}
		}
		s.markFired(JobDailyReminder, occurrence)
	}

	if !s.config.WeeklySummaryEnabled {
		return nil
	}
	weekly, err := WeeklyRule(now, s.engine.Calendar())
	if err != nil {
		return err
	}
	if occurrence, due := s.due(JobWeeklySummary, weekly, now); due {
		if settings.Configured() {
			if err := s.sendWeeklySummary(ctx, settings, now); err != nil {
				return err
			}
		}
		s.markFired(JobWeeklySummary, occurrence)
	}
	return nil
}

func (s *Scheduler) due(job string, rule *rrule.RRule, now time.Time) (time.Time, bool) {
	occurrence := rule.Before(now, true)
	if occurrence.IsZero() {
		return time.Time{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.startedAt.IsZero() && occurrence.Before(s.startedAt) {
		return time.Time{}, false
	}
	if last, ok := s.lastFired[job]; ok && !occurrence.After(last) {
		return time.Time{}, false
	}
	return occurrence, true
}

func (s *Scheduler) markFired(job string, occurrence time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFired[job] = occurrence
}

func (s *Scheduler) sendReminder(ctx context.Context, settings domain.Settings, now time.Time) error {
	cal := s.engine.Calendar()
	startOfToday := cal.StartOf(cal.DateOf(now))
	today, err := s.sessions.CompletedFacts(ctx, &startOfToday)
	if err != nil {
		return fmt.Errorf("failed to check today's sessions: %w", err)
	}
	if len(today) > 0 {
		s.logger.DebugContext(ctx, "already practiced today, skipping reminder")
		return nil
	}

	if err := s.notifier.Send(ctx, settings.WebhookURL, domain.ReminderEmbed()); err != nil {
		s.logger.WarnContext(ctx, "failed to send reminder", "error", err)
		return nil
	}
	s.logger.InfoContext(ctx, "daily reminder sent")
	return nil
}

func (s *Scheduler) sendWeeklySummary(ctx context.Context, settings domain.Settings, now time.Time) error {
	facts, err := s.sessions.CompletedFacts(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to load sessions for weekly summary: %w", err)
	}
	summary := s.engine.SummarizeWeek(facts, now)

	if err := s.notifier.Send(ctx, settings.WebhookURL, domain.WeeklySummaryEmbed(summary)); err != nil {
		s.logger.WarnContext(ctx, "failed to send weekly summary", "error", err)
		return nil
	}
	s.logger.InfoContext(ctx, "weekly summary sent", "sessions", summary.Sessions, "minutes", summary.Minutes)
	return nil
}

// DailyRule recurs every day at hour:minute in the calendar's zone. The rule
// starts a week before now, which is enough to find the latest occurrence.
func DailyRule(hour, minute int, now time.Time, cal analytics.Calendar) (*rrule.RRule, error) {
	if err := domain.ValidateReminderTime(hour, minute); err != nil {
		return nil, err
	}
	return rrule.NewRRule(rrule.ROption{
		Freq:     rrule.DAILY,
		Dtstart:  anchor(now, cal),
		Byhour:   []int{hour},
		Byminute: []int{minute},
		Bysecond: []int{0},
	})
}

// WeeklyRule recurs every Sunday at 20:00 in the calendar's zone.
func WeeklyRule(now time.Time, cal analytics.Calendar) (*rrule.RRule, error) {
	return rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   anchor(now, cal),
		Byweekday: []rrule.Weekday{rrule.SU},
		Byhour:    []int{weeklySummaryHour},
		Byminute:  []int{weeklySummaryMinute},
		Bysecond:  []int{0},
	})
}

func anchor(now time.Time, cal analytics.Calendar) time.Time {
	return cal.StartOf(cal.DateOf(now).AddDays(-8))
}
