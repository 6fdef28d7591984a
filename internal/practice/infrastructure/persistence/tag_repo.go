package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/mindful/internal/practice/domain"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/database"
)

const tagColumns = `id, name_ko, name_en, color, is_default`

// TagRepository implements domain.TagRepository for SQLite and PostgreSQL.
type TagRepository struct {
	conn database.Connection
}

// NewTagRepository creates a new tag repository.
func NewTagRepository(conn database.Connection) *TagRepository {
	return &TagRepository{conn: conn}
}

func (r *TagRepository) q(query string) string {
	return database.Rebind(r.conn.Driver(), query)
}

// Save persists a tag.
func (r *TagRepository) Save(ctx context.Context, tag *domain.Tag) error {
	query := r.q(`
		INSERT INTO tags (` + tagColumns + `) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name_ko = EXCLUDED.name_ko,
			name_en = EXCLUDED.name_en,
			color = EXCLUDED.color,
			is_default = EXCLUDED.is_default`)

	exec := database.ExecutorFromContext(ctx, r.conn)
	if _, err := exec.Exec(ctx, query, tag.ID.String(), tag.NameKo, tag.NameEn, tag.Color, tag.IsDefault); err != nil {
		return fmt.Errorf("failed to save tag: %w", err)
	}
	return nil
}

// FindByID retrieves a tag by its ID.
func (r *TagRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	tag, err := scanTag(exec.QueryRow(ctx, r.q(`SELECT `+tagColumns+` FROM tags WHERE id = ?`), id.String()))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return tag, nil
}

// List returns every tag, defaults first.
func (r *TagRepository) List(ctx context.Context) ([]*domain.Tag, error) {
	return r.query(ctx, `SELECT `+tagColumns+` FROM tags ORDER BY is_default DESC, name_en`)
}

// Delete removes a tag and its session associations.
func (r *TagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	if _, err := exec.Exec(ctx, r.q(`DELETE FROM session_tags WHERE tag_id = ?`), id.String()); err != nil {
		return fmt.Errorf("failed to delete tag associations: %w", err)
	}
	if _, err := exec.Exec(ctx, r.q(`DELETE FROM tags WHERE id = ?`), id.String()); err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	return nil
}

// ReplaceSessionTags swaps the session's tag set. Callers wrap it in a unit of
// work so the swap is atomic.
func (r *TagRepository) ReplaceSessionTags(ctx context.Context, sessionID uuid.UUID, tagIDs []uuid.UUID) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	if _, err := exec.Exec(ctx, r.q(`DELETE FROM session_tags WHERE session_id = ?`), sessionID.String()); err != nil {
		return fmt.Errorf("failed to clear session tags: %w", err)
	}

	seen := make(map[uuid.UUID]bool, len(tagIDs))
	for _, tagID := range tagIDs {
		if seen[tagID] {
			continue
		}
		seen[tagID] = true
		if _, err := exec.Exec(ctx, r.q(`INSERT INTO session_tags (session_id, tag_id) VALUES (?, ?)`),
			sessionID.String(), tagID.String()); err != nil {
			return fmt.Errorf("failed to tag session: %w", err)
		}
	}
	return nil
}

// FindBySession lists the tags attached to a session.
func (r *TagRepository) FindBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.Tag, error) {
	return r.query(ctx, `
		SELECT t.id, t.name_ko, t.name_en, t.color, t.is_default
		FROM tags t
		JOIN session_tags st ON st.tag_id = t.id
		WHERE st.session_id = ?
		ORDER BY t.name_en`, sessionID.String())
}

func (r *TagRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Tag, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, r.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	tags := make([]*domain.Tag, 0)
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func scanTag(row database.Row) (*domain.Tag, error) {
	var (
		tag domain.Tag
		id  string
	)
	if err := row.Scan(&id, &tag.NameKo, &tag.NameEn, &tag.Color, &tag.IsDefault); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid tag id %q: %w", id, err)
	}
	tag.ID = parsed
	return &tag, nil
}
