package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	analytics "github.com/felixgeelhaar/mindful/internal/analytics/domain"
	"github.com/felixgeelhaar/mindful/internal/goals/domain"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/database"
)

const goalColumns = `id, goal_type, target_value, start_date, end_date, is_active, created_at`

// GoalRepository implements domain.Repository for SQLite and PostgreSQL.
type GoalRepository struct {
	conn database.Connection
}

// NewGoalRepository creates a new goal repository.
func NewGoalRepository(conn database.Connection) *GoalRepository {
	return &GoalRepository{conn: conn}
}

func (r *GoalRepository) q(query string) string {
	return database.Rebind(r.conn.Driver(), query)
}

// Save persists a goal to the database.
func (r *GoalRepository) Save(ctx context.Context, g *domain.Goal) error {
	query := r.q(`
		INSERT INTO goals (` + goalColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			target_value = EXCLUDED.target_value,
			end_date = EXCLUDED.end_date,
			is_active = EXCLUDED.is_active`)

	snap := g.Snapshot()
	var endDate sql.NullString
	if snap.EndDate != nil {
		endDate = sql.NullString{String: snap.EndDate.String(), Valid: true}
	}

	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err := exec.Exec(ctx, query,
		snap.ID.String(),
		string(snap.GoalType),
		snap.TargetValue,
		snap.StartDate.String(),
		endDate,
		snap.IsActive,
		database.FormatTime(snap.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save goal: %w", err)
	}
	return nil
}

// FindByID retrieves a goal by its ID.
func (r *GoalRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Goal, error) {
	query := r.q(`SELECT ` + goalColumns + ` FROM goals WHERE id = ?`)

	exec := database.ExecutorFromContext(ctx, r.conn)
	g, err := scanGoal(exec.QueryRow(ctx, query, id.String()))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return g, nil
}

// List returns goals newest first, optionally only the active ones.
func (r *GoalRepository) List(ctx context.Context, activeOnly bool) ([]*domain.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals`
	var args []any
	if activeOnly {
		query += ` WHERE is_active = ?`
		args = append(args, true)
	}
	query += ` ORDER BY created_at DESC, id`

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, r.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	goals := make([]*domain.Goal, 0)
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// Delete removes a goal.
func (r *GoalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	if _, err := exec.Exec(ctx, r.q(`DELETE FROM goals WHERE id = ?`), id.String()); err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	return nil
}

// ActiveDefinitions returns the engine projection of every active goal.
func (r *GoalRepository) ActiveDefinitions(ctx context.Context) ([]analytics.GoalDefinition, error) {
	goals, err := r.List(ctx, true)
	if err != nil {
		return nil, err
	}
	defs := make([]analytics.GoalDefinition, 0, len(goals))
	for _, g := range goals {
		defs = append(defs, g.Definition())
	}
	return defs, nil
}

func scanGoal(row database.Row) (*domain.Goal, error) {
	var (
		id, goalType, startDate, createdAt string
		target                             int
		endDate                            sql.NullString
		isActive                           bool
	)
	if err := row.Scan(&id, &goalType, &target, &startDate, &endDate, &isActive, &createdAt); err != nil {
		return nil, err
	}

	snap := domain.GoalSnapshot{
		GoalType:    analytics.GoalType(goalType),
		TargetValue: target,
		IsActive:    isActive,
	}
	var err error
	if snap.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid goal id %q: %w", id, err)
	}
	if snap.StartDate, err = analytics.ParseDate(startDate); err != nil {
		return nil, err
	}
	if endDate.Valid {
		end, err := analytics.ParseDate(endDate.String)
		if err != nil {
			return nil, err
		}
		snap.EndDate = &end
	}
	if snap.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return nil, err
	}
	return domain.RehydrateGoal(snap), nil
}
