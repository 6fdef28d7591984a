package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	practiceCommands "github.com/felixgeelhaar/mindful/internal/practice/application/commands"
	practiceQueries "github.com/felixgeelhaar/mindful/internal/practice/application/queries"
	practiceDomain "github.com/felixgeelhaar/mindful/internal/practice/domain"
)

type createSessionRequest struct {
	PlannedDurationSeconds int        `json:"planned_duration_seconds"`
	VisualType             *string    `json:"visual_type"`
	BellSound              *string    `json:"bell_sound"`
	StartedAt              *time.Time `json:"started_at"`
}

type updateSessionRequest struct {
	EndedAt               *time.Time `json:"ended_at"`
	ActualDurationSeconds *int       `json:"actual_duration_seconds"`
	Completed             *bool      `json:"completed"`
	MoodBefore            *string    `json:"mood_before"`
	MoodAfter             *string    `json:"mood_after"`
	Note                  *string    `json:"note"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	result, err := s.deps.CreateSession.Handle(r.Context(), practiceCommands.CreateSessionCommand{
		PlannedDurationSeconds: req.PlannedDurationSeconds,
		VisualType:             req.VisualType,
		BellSound:              req.BellSound,
		StartedAt:              req.StartedAt,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeSession(w, r, result.SessionID)
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	query, err := s.listSessionsQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sessions, err := s.deps.ListSessions.Handle(r.Context(), query)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) listSessionsQuery(r *http.Request) (practiceQueries.ListSessionsQuery, error) {
	var q practiceQueries.ListSessionsQuery
	var err error
	if q.Limit, err = queryInt(r, "limit", practiceQueries.DefaultListLimit); err != nil {
		return q, err
	}
	if q.Offset, err = queryInt(r, "offset", 0); err != nil {
		return q, err
	}
	if q.CompletedOnly, err = queryBool(r, "completed_only", false); err != nil {
		return q, err
	}
	if q.From, q.To, err = s.timeRange(r); err != nil {
		return q, err
	}
	if v := r.URL.Query().Get("tag_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return q, badRequest("invalid tag_id %q", v)
		}
		q.TagID = &id
	}
	return q, nil
}

// timeRange reads the inclusive from/to filters. from_date and to_date are
// accepted as aliases.
func (s *Server) timeRange(r *http.Request) (from, to *time.Time, err error) {
	if v := queryValue(r, "from", "from_date"); v != "" {
		t, err := practiceQueries.ParseTimeBound(v, s.deps.Location, false)
		if err != nil {
			return nil, nil, badRequest("%v", err)
		}
		from = &t
	}
	if v := queryValue(r, "to", "to_date"); v != "" {
		t, err := practiceQueries.ParseTimeBound(v, s.deps.Location, true)
		if err != nil {
			return nil, nil, badRequest("%v", err)
		}
		to = &t
	}
	return from, to, nil
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeSession(w, r, id)
}

func (s *Server) updateSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req updateSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	err = s.deps.UpdateSession.Handle(r.Context(), practiceCommands.UpdateSessionCommand{
		SessionID: id,
		Patch: practiceDomain.SessionPatch{
			EndedAt:               req.EndedAt,
			ActualDurationSeconds: req.ActualDurationSeconds,
			Completed:             req.Completed,
			MoodBefore:            req.MoodBefore,
			MoodAfter:             req.MoodAfter,
			Note:                  req.Note,
		},
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeSession(w, r, id)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.deps.DeleteSession.Handle(r.Context(), practiceCommands.DeleteSessionCommand{SessionID: id}); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (s *Server) writeSession(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	dto, err := s.deps.GetSession.Handle(r.Context(), practiceQueries.GetSessionQuery{SessionID: id})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}
