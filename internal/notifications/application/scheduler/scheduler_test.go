package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analytics "github.com/felixgeelhaar/mindful/internal/analytics/domain"
	"github.com/felixgeelhaar/mindful/internal/notifications/application"
	"github.com/felixgeelhaar/mindful/internal/notifications/domain"
)

type memorySettings struct {
	settings *domain.Settings
}

func (m *memorySettings) Get(context.Context) (*domain.Settings, error) { return m.settings, nil }
func (m *memorySettings) Save(_ context.Context, s domain.Settings) error {
	m.settings = &s
	return nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	titles []string
	err    error
}

func (n *recordingNotifier) Send(_ context.Context, _ string, embed domain.Embed) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.titles = append(n.titles, embed.Title)
	return n.err
}

type factSource struct {
	facts []analytics.SessionFact
}

func (f *factSource) CompletedFacts(_ context.Context, since *time.Time) ([]analytics.SessionFact, error) {
	var out []analytics.SessionFact
	for _, fact := range f.facts {
		if since == nil || !fact.StartedAt.Before(*since) {
			out = append(out, fact)
		}
	}
	return out, nil
}

type fixture struct {
	scheduler *Scheduler
	notifier  *recordingNotifier
	sessions  *factSource
	clock     time.Time
}

func newFixture(t *testing.T, stored *domain.Settings, weekly bool) *fixture {
	t.Helper()
	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)

	f := &fixture{notifier: &recordingNotifier{}, sessions: &factSource{}}
	reader := application.NewSettingsReader(&memorySettings{settings: stored}, domain.DefaultSettings())
	f.scheduler = New(reader, f.notifier, analytics.NewEngine(analytics.NewCalendar(seoul)), f.sessions,
		Config{Tick: time.Second, WeeklySummaryEnabled: weekly}, nil)
	f.scheduler.now = func() time.Time { return f.clock }
	return f
}

func (f *fixture) start(at time.Time) {
	f.clock = at
	f.scheduler.startedAt = at
}

func (f *fixture) tickAt(t *testing.T, at time.Time) {
	t.Helper()
	f.clock = at
	require.NoError(t, f.scheduler.Tick(context.Background()))
}

func reminderSettings(hour, minute int) *domain.Settings {
	s := domain.DefaultSettings()
	s.WebhookURL = "https://discord.test/hook"
	s.ReminderEnabled = true
	s.ReminderHour = hour
	s.ReminderMinute = minute
	return &s
}

// seoulTime builds a Seoul wall-clock instant in March 2024.
func seoulTime(t *testing.T, day, hour, minute int) time.Time {
	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	return time.Date(2024, time.March, day, hour, minute, 0, 0, seoul)
}

func TestScheduler_DailyReminderFiresOncePerOccurrence(t *testing.T) {
	f := newFixture(t, reminderSettings(20, 0), false)
	f.start(seoulTime(t, 15, 19, 0))

	f.tickAt(t, seoulTime(t, 15, 19, 59))
	assert.Empty(t, f.notifier.titles)

	f.tickAt(t, seoulTime(t, 15, 20, 0))
	f.tickAt(t, seoulTime(t, 15, 20, 0).Add(30*time.Second))
	f.tickAt(t, seoulTime(t, 15, 23, 0))
	assert.Equal(t, []string{"Time for Mindfulness"}, f.notifier.titles)

	f.tickAt(t, seoulTime(t, 16, 20, 1))
	assert.Len(t, f.notifier.titles, 2)
}

func TestScheduler_NoRetroactiveFiringAtStartup(t *testing.T) {
	f := newFixture(t, reminderSettings(8, 0), false)
	f.start(seoulTime(t, 15, 9, 0))

	f.tickAt(t, seoulTime(t, 15, 9, 0).Add(time.Second))

	assert.Empty(t, f.notifier.titles)
}

func TestScheduler_SkipsReminderWhenPracticedToday(t *testing.T) {
	f := newFixture(t, reminderSettings(20, 0), false)
	f.start(seoulTime(t, 15, 7, 0))
	actual := 600
	f.sessions.facts = []analytics.SessionFact{
		// 00:30 Seoul time is still today locally even though it is the 14th in UTC.
		{StartedAt: seoulTime(t, 15, 0, 30), Completed: true, ActualDurationSeconds: &actual},
	}

	f.tickAt(t, seoulTime(t, 15, 20, 0))
	assert.Empty(t, f.notifier.titles)

	// The skipped occurrence is consumed; adding no session later doesn't refire.
	f.sessions.facts = nil
	f.tickAt(t, seoulTime(t, 15, 21, 0))
	assert.Empty(t, f.notifier.titles)
}

func TestScheduler_ReminderDisabledOrUnconfigured(t *testing.T) {
	disabled := reminderSettings(20, 0)
	disabled.ReminderEnabled = false
	unconfigured := reminderSettings(20, 0)
	unconfigured.WebhookURL = ""

	for name, s := range map[string]*domain.Settings{"disabled": disabled, "unconfigured": unconfigured} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, s, false)
			f.start(seoulTime(t, 15, 19, 0))
			f.tickAt(t, seoulTime(t, 15, 20, 5))
			assert.Empty(t, f.notifier.titles)
		})
	}
}

func TestScheduler_WeeklySummarySundayEvening(t *testing.T) {
	s := reminderSettings(20, 0)
	s.ReminderEnabled = false
	f := newFixture(t, s, true)
	f.start(seoulTime(t, 16, 12, 0)) // Saturday
	actual := 900
	f.sessions.facts = []analytics.SessionFact{
		{StartedAt: seoulTime(t, 16, 8, 0), Completed: true, ActualDurationSeconds: &actual},
		{StartedAt: seoulTime(t, 17, 8, 0), Completed: true, ActualDurationSeconds: &actual},
	}

	f.tickAt(t, seoulTime(t, 16, 20, 30))
	assert.Empty(t, f.notifier.titles, "Saturday is not a summary day")

	f.tickAt(t, seoulTime(t, 17, 20, 0))
	f.tickAt(t, seoulTime(t, 17, 21, 0))
	assert.Equal(t, []string{"📊 Weekly Meditation Summary"}, f.notifier.titles)
}

func TestScheduler_WeeklySummaryDisabled(t *testing.T) {
	f := newFixture(t, reminderSettings(3, 0), false)
	f.start(seoulTime(t, 17, 19, 0))

	f.tickAt(t, seoulTime(t, 17, 20, 30))

	assert.Empty(t, f.notifier.titles)
}

func TestScheduler_DeliveryFailureStillConsumesOccurrence(t *testing.T) {
	f := newFixture(t, reminderSettings(20, 0), false)
	f.notifier.err = errors.New("discord down")
	f.start(seoulTime(t, 15, 19, 0))

	f.tickAt(t, seoulTime(t, 15, 20, 0))
	f.tickAt(t, seoulTime(t, 15, 20, 1))

	assert.Len(t, f.notifier.titles, 1)
}

func TestDailyRule(t *testing.T) {
	cal := analytics.NewCalendar(time.UTC)
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

	rule, err := DailyRule(6, 30, now, cal)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 15, 6, 30, 0, 0, time.UTC), rule.Before(now, true))
	assert.Equal(t, time.Date(2024, time.March, 16, 6, 30, 0, 0, time.UTC), rule.After(now, false))

	_, err = DailyRule(25, 0, now, cal)
	assert.ErrorIs(t, err, domain.ErrInvalidReminderTime)
}

func TestWeeklyRule(t *testing.T) {
	cal := analytics.NewCalendar(time.UTC)
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC) // Friday

	rule, err := WeeklyRule(now, cal)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 10, 20, 0, 0, 0, time.UTC), rule.Before(now, true))
	assert.Equal(t, time.Date(2024, time.March, 17, 20, 0, 0, 0, time.UTC), rule.After(now, false))
}

func TestScheduler_StartStop(t *testing.T) {
	f := newFixture(t, nil, true)

	require.NoError(t, f.scheduler.Start(context.Background()))
	require.NoError(t, f.scheduler.Start(context.Background()))
	f.scheduler.Stop()
	f.scheduler.Stop()
}
