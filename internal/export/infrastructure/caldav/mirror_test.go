package caldav

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav/caldav"

	practice "github.com/felixgeelhaar/mindful/internal/practice/domain"
)

func completedSession(t *testing.T) *practice.Session {
	t.Helper()
	s, err := practice.NewSession(600, nil, nil, time.Date(2024, time.May, 1, 7, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	actual, done := 540, true
	ended := s.StartedAt().Add(9 * time.Minute)
	if err := s.Apply(practice.SessionPatch{EndedAt: &ended, ActualDurationSeconds: &actual, Completed: &done}); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNewMirror(t *testing.T) {
	m := NewMirror("https://caldav.example.com", "user", "pass", nil)

	if m.baseURL != "https://caldav.example.com" {
		t.Errorf("expected baseURL 'https://caldav.example.com', got %s", m.baseURL)
	}
	if m.calendarPath != "" {
		t.Errorf("expected empty calendarPath, got %s", m.calendarPath)
	}
	if m.WithCalendarPath("/calendars/user/personal/") != m {
		t.Error("expected same mirror instance returned for chaining")
	}
	if m.calendarPath != "/calendars/user/personal/" {
		t.Errorf("expected calendarPath to be set, got %s", m.calendarPath)
	}
}

func TestMirror_ToCalendar(t *testing.T) {
	s := completedSession(t)
	m := NewMirror("https://caldav.example.com", "user", "pass", nil)
	m.now = func() time.Time { return time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC) }

	cal := m.toCalendar(s)

	if len(cal.Children) != 1 || cal.Children[0].Name != ical.CompEvent {
		t.Fatalf("expected a single VEVENT, got %d children", len(cal.Children))
	}
	vevent := cal.Children[0]
	if uid := vevent.Props.Get(ical.PropUID); uid == nil || uid.Value != s.ID().String() {
		t.Error("expected UID matching the session id")
	}
	if summary := vevent.Props.Get(ical.PropSummary); summary == nil || summary.Value != "Meditation (9 min)" {
		t.Errorf("unexpected SUMMARY %v", summary)
	}
	if vevent.Props.Get(ical.PropDateTimeStamp) == nil {
		t.Error("expected DTSTAMP")
	}
	if !isMindfulEvent(&caldav.CalendarObject{Data: cal}) {
		t.Error("expected the event to carry the X-MINDFUL marker")
	}
}

func TestIsMindfulEvent(t *testing.T) {
	if isMindfulEvent(nil) {
		t.Error("nil object is not a mindful event")
	}

	cal := ical.NewCalendar()
	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, "someone-else")
	cal.Children = append(cal.Children, event.Component)

	if isMindfulEvent(&caldav.CalendarObject{Data: cal}) {
		t.Error("event without marker should not be a mindful event")
	}
}

type fakeServer struct {
	mu   sync.Mutex
	puts map[string]string
	auth string
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auth = r.Header.Get("Authorization")

	switch r.Method {
	case http.MethodGet:
		http.NotFound(w, r)
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.puts[r.URL.Path] = string(body)
		w.WriteHeader(http.StatusCreated)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestMirror_Sync_CreatesEvents(t *testing.T) {
	fake := &fakeServer{puts: map[string]string{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	s := completedSession(t)
	m := NewMirror(srv.URL, "user", "pass", nil).WithCalendarPath("/calendars/user/mindful/")

	result, err := m.Sync(context.Background(), []*practice.Session{s})
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if result.Created != 1 || result.Updated != 0 || result.Failed != 0 {
		t.Errorf("unexpected result %+v", result)
	}

	body, ok := fake.puts["/calendars/user/mindful/"+s.ID().String()+".ics"]
	if !ok {
		t.Fatalf("expected PUT for the session, got %v", fake.puts)
	}
	if !strings.Contains(body, "X-MINDFUL:1") {
		t.Error("expected X-MINDFUL marker in uploaded event")
	}
	if !strings.HasPrefix(fake.auth, "Basic ") {
		t.Errorf("expected basic auth, got %q", fake.auth)
	}
}
