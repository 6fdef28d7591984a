package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	analytics "github.com/felixgeelhaar/mindful/internal/analytics/domain"
	"github.com/felixgeelhaar/mindful/internal/practice/domain"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/database"
)

const sessionColumns = `id, planned_duration_seconds, visual_type, bell_sound, started_at, ended_at,
	actual_duration_seconds, completed, mood_before, mood_after, note, created_at`

// SessionRepository implements domain.SessionRepository for SQLite and PostgreSQL.
type SessionRepository struct {
	conn database.Connection
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(conn database.Connection) *SessionRepository {
	return &SessionRepository{conn: conn}
}

func (r *SessionRepository) q(query string) string {
	return database.Rebind(r.conn.Driver(), query)
}

// Save persists a session to the database.
func (r *SessionRepository) Save(ctx context.Context, s *domain.Session) error {
	query := r.q(`
		INSERT INTO sessions (` + sessionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			ended_at = EXCLUDED.ended_at,
			actual_duration_seconds = EXCLUDED.actual_duration_seconds,
			completed = EXCLUDED.completed,
			mood_before = EXCLUDED.mood_before,
			mood_after = EXCLUDED.mood_after,
			note = EXCLUDED.note`)

	snap := s.Snapshot()
	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err := exec.Exec(ctx, query,
		snap.ID.String(),
		snap.PlannedDurationSeconds,
		nullString(snap.VisualType),
		nullString(snap.BellSound),
		database.FormatTime(snap.StartedAt),
		database.NullTime(snap.EndedAt),
		nullInt(snap.ActualDurationSeconds),
		snap.Completed,
		nullString(snap.MoodBefore),
		nullString(snap.MoodAfter),
		nullString(snap.Note),
		database.FormatTime(snap.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// FindByID retrieves a session by its ID.
func (r *SessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	query := r.q(`SELECT ` + sessionColumns + ` FROM sessions WHERE id = ?`)

	exec := database.ExecutorFromContext(ctx, r.conn)
	s, err := scanSession(exec.QueryRow(ctx, query, id.String()))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// List returns sessions matching the filter ordered by started_at descending.
func (r *SessionRepository) List(ctx context.Context, filter domain.SessionFilter) ([]*domain.Session, error) {
	var (
		where []string
		args  []any
	)
	if filter.From != nil {
		where = append(where, "started_at >= ?")
		args = append(args, database.FormatTime(*filter.From))
	}
	if filter.To != nil {
		where = append(where, "started_at <= ?")
		args = append(args, database.FormatTime(*filter.To))
	}
	if filter.CompletedOnly {
		where = append(where, "completed = ?")
		args = append(args, true)
	}
	if filter.TagID != nil {
		where = append(where, "id IN (SELECT session_id FROM session_tags WHERE tag_id = ?)")
		args = append(args, filter.TagID.String())
	}

	query := `SELECT ` + sessionColumns + ` FROM sessions`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY started_at DESC, id`
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, r.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]*domain.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// Delete removes a session and its tag associations.
func (r *SessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	if _, err := exec.Exec(ctx, r.q(`DELETE FROM session_tags WHERE session_id = ?`), id.String()); err != nil {
		return fmt.Errorf("failed to delete session tags: %w", err)
	}
	if _, err := exec.Exec(ctx, r.q(`DELETE FROM sessions WHERE id = ?`), id.String()); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// CompletedFacts returns the analytics projection of completed sessions that
// started at or after since. A nil since returns the full history.
func (r *SessionRepository) CompletedFacts(ctx context.Context, since *time.Time) ([]analytics.SessionFact, error) {
	query := `SELECT started_at, actual_duration_seconds, planned_duration_seconds
		FROM sessions WHERE completed = ?`
	args := []any{true}
	if since != nil {
		query += ` AND started_at >= ?`
		args = append(args, database.FormatTime(*since))
	}

	rows, err := r.conn.Query(ctx, r.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed sessions: %w", err)
	}
	defer rows.Close()

	facts := make([]analytics.SessionFact, 0)
	for rows.Next() {
		var (
			startedAt string
			actual    sql.NullInt64
			planned   int
		)
		if err := rows.Scan(&startedAt, &actual, &planned); err != nil {
			return nil, err
		}
		ts, err := database.ParseTime(startedAt)
		if err != nil {
			return nil, err
		}
		facts = append(facts, analytics.SessionFact{
			StartedAt:              ts,
			Completed:              true,
			ActualDurationSeconds:  intPtr(actual),
			PlannedDurationSeconds: planned,
		})
	}
	return facts, rows.Err()
}

func scanSession(row database.Row) (*domain.Session, error) {
	var (
		id, startedAt, createdAt          string
		planned                           int
		visualType, bellSound             sql.NullString
		endedAt                           sql.NullString
		actual                            sql.NullInt64
		completed                         bool
		moodBefore, moodAfter, noteColumn sql.NullString
	)
	err := row.Scan(
		&id,
		&planned,
		&visualType,
		&bellSound,
		&startedAt,
		&endedAt,
		&actual,
		&completed,
		&moodBefore,
		&moodAfter,
		&noteColumn,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	snap := domain.SessionSnapshot{
		PlannedDurationSeconds: planned,
		VisualType:             stringPtr(visualType),
		BellSound:              stringPtr(bellSound),
		ActualDurationSeconds:  intPtr(actual),
		Completed:              completed,
		MoodBefore:             stringPtr(moodBefore),
		MoodAfter:              stringPtr(moodAfter),
		Note:                   stringPtr(noteColumn),
	}
	if snap.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid session id %q: %w", id, err)
	}
	if snap.StartedAt, err = database.ParseTime(startedAt); err != nil {
		return nil, err
	}
	if snap.EndedAt, err = database.ParseNullTime(endedAt); err != nil {
		return nil, err
	}
	if snap.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return nil, err
	}

	return domain.RehydrateSession(snap), nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func intPtr(i sql.NullInt64) *int {
	if !i.Valid {
		return nil
	}
	v := int(i.Int64)
	return &v
}
