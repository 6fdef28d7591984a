// Package caldav mirrors completed sessions into a CalDAV calendar such as
// Apple Calendar, Fastmail or Nextcloud.
package caldav

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"

	"github.com/felixgeelhaar/mindful/internal/export/domain"
	"github.com/felixgeelhaar/mindful/internal/export/infrastructure/encoders"
	practice "github.com/felixgeelhaar/mindful/internal/practice/domain"
)

// PropXMindful marks events written by the mirror.
const PropXMindful = "X-MINDFUL"

// ErrForeignEvent is returned when the target path holds an event the mirror
// did not write.
var ErrForeignEvent = errors.New("calendar object exists and is not managed by mindful")

const productID = "-//Mindfulness App//Calendar Mirror//EN"

// Mirror pushes sessions into a CalDAV calendar. Each session maps to one
// object named after its id, so repeated syncs update in place.
type Mirror struct {
	baseURL      string
	username     string
	password     string
	calendarPath string
	httpClient   *http.Client
	logger       *slog.Logger
	now          func() time.Time
}

// NewMirror creates a CalDAV mirror.
func NewMirror(baseURL, username, password string, logger *slog.Logger) *Mirror {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mirror{
		baseURL:    baseURL,
		username:   username,
		password:   password,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
		now:        time.Now,
	}
}

// WithCalendarPath pins the calendar to write to. Without it the first
// calendar in the user's home set is used.
func (m *Mirror) WithCalendarPath(path string) *Mirror {
	m.calendarPath = path
	return m
}

var _ domain.CalendarMirror = (*Mirror)(nil)

// Sync upserts every session. Individual failures are counted, not returned.
func (m *Mirror) Sync(ctx context.Context, sessions []*practice.Session) (*domain.SyncResult, error) {
	client, err := m.client()
	if err != nil {
		return nil, err
	}

	calPath, err := m.findCalendarPath(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("failed to find calendar: %w", err)
	}

	result := &domain.SyncResult{}
	for _, s := range sessions {
		eventPath := fmt.Sprintf("%s%s.ics", calPath, s.ID())
		updated, err := m.upsert(ctx, client, eventPath, m.toCalendar(s))
		if err != nil {
			m.logger.Warn("caldav sync failed", "event_path", eventPath, "error", err)
			result.Failed++
			continue
		}
		if updated {
			result.Updated++
		} else {
			result.Created++
		}
	}

	m.logger.Info("caldav sync finished",
		"created", result.Created, "updated", result.Updated, "failed", result.Failed)
	return result, nil
}

func (m *Mirror) client() (*caldav.Client, error) {
	client, err := caldav.NewClient(webdav.HTTPClientWithBasicAuth(m.httpClient, m.username, m.password), m.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create caldav client: %w", err)
	}
	return client, nil
}

func (m *Mirror) findCalendarPath(ctx context.Context, client *caldav.Client) (string, error) {
	if m.calendarPath != "" {
		return m.calendarPath, nil
	}

	principal, err := client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to find principal: %w", err)
	}
	homeSet, err := client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return "", fmt.Errorf("failed to find calendar home set: %w", err)
	}
	cals, err := client.FindCalendars(ctx, homeSet)
	if err != nil {
		return "", fmt.Errorf("failed to find calendars: %w", err)
	}
	if len(cals) == 0 {
		return "", fmt.Errorf("no calendars found")
	}
	return cals[0].Path, nil
}

func (m *Mirror) upsert(ctx context.Context, client *caldav.Client, eventPath string, cal *ical.Calendar) (bool, error) {
	existing, err := client.GetCalendarObject(ctx, eventPath)
	exists := err == nil
	if exists && !isMindfulEvent(existing) {
		return false, ErrForeignEvent
	}

	if _, err := client.PutCalendarObject(ctx, eventPath, cal); err != nil {
		return false, err
	}
	return exists, nil
}

func (m *Mirror) toCalendar(s *practice.Session) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	event := encoders.SessionEvent(s, s.ID().String())
	event.Props.SetDateTime(ical.PropDateTimeStamp, m.now().UTC())

	marker := ical.NewProp(PropXMindful)
	marker.Value = "1"
	event.Props[PropXMindful] = []ical.Prop{*marker}

	cal.Children = append(cal.Children, event.Component)
	return cal
}

// isMindfulEvent reports whether a calendar object was written by the mirror.
func isMindfulEvent(obj *caldav.CalendarObject) bool {
	if obj == nil || obj.Data == nil {
		return false
	}
	for _, child := range obj.Data.Children {
		if child.Name != ical.CompEvent {
			continue
		}
		if props := child.Props[PropXMindful]; len(props) > 0 && props[0].Value == "1" {
			return true
		}
	}
	return false
}
