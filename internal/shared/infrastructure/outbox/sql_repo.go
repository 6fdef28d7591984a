package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/database"
)

const messageColumns = `id, event_id, aggregate_type, aggregate_id, event_type, routing_key,
	payload, metadata, created_at, published_at, next_retry_at, retry_count,
	last_error, dead_lettered_at, dead_letter_reason`

// SQLRepository implements Repository for any database.Connection.
// Writes join the caller's transaction when one is in the context.
type SQLRepository struct {
	conn database.Connection
	now  func() time.Time
}

// NewSQLRepository creates a new outbox repository.
func NewSQLRepository(conn database.Connection) *SQLRepository {
	return &SQLRepository{conn: conn, now: time.Now}
}

func (r *SQLRepository) q(query string) string {
	return database.Rebind(r.conn.Driver(), query)
}

// Save stores a new outbox message.
func (r *SQLRepository) Save(ctx context.Context, msg *Message) error {
	return r.insert(ctx, database.ExecutorFromContext(ctx, r.conn), msg)
}

// SaveBatch stores multiple outbox messages atomically.
func (r *SQLRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
	if len(msgs) == 0 {
		return nil
	}

	if tx := database.TxFromContext(ctx); tx != nil {
		for _, msg := range msgs {
			if err := r.insert(ctx, tx, msg); err != nil {
				return err
			}
		}
		return nil
	}

	tx, err := r.conn.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin outbox batch: %w", err)
	}
	for _, msg := range msgs {
		if err := r.insert(ctx, tx, msg); err != nil {
			_ = tx.Rollback(ctx)
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *SQLRepository) insert(ctx context.Context, exec database.Executor, msg *Message) error {
	query := r.q(`
		INSERT INTO outbox (event_id, aggregate_type, aggregate_id, event_type, routing_key,
		                    payload, metadata, created_at, retry_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0)
		RETURNING id`)

	var metadata sql.NullString
	if len(msg.Metadata) > 0 {
		metadata = sql.NullString{String: string(msg.Metadata), Valid: true}
	}

	err := exec.QueryRow(ctx, query,
		msg.EventID.String(),
		msg.AggregateType,
		msg.AggregateID.String(),
		msg.EventType,
		msg.RoutingKey,
		string(msg.Payload),
		metadata,
		database.FormatTime(msg.CreatedAt),
	).Scan(&msg.ID)
	if err != nil {
		return fmt.Errorf("failed to insert outbox message: %w", err)
	}
	return nil
}

// GetUnpublished retrieves unpublished messages ordered by creation time.
func (r *SQLRepository) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	query := r.q(`
		SELECT ` + messageColumns + `
		FROM outbox
		WHERE published_at IS NULL
		  AND dead_lettered_at IS NULL
		  AND (next_retry_at IS NULL OR next_retry_at <= ?)
		ORDER BY created_at, id
		LIMIT ?`)

	rows, err := r.conn.Query(ctx, query, database.FormatTime(r.now()), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

// MarkPublished marks a message as successfully published.
func (r *SQLRepository) MarkPublished(ctx context.Context, id int64) error {
	query := r.q(`UPDATE outbox SET published_at = ?, dead_lettered_at = NULL WHERE id = ?`)
	_, err := r.conn.Exec(ctx, query, database.FormatTime(r.now()), id)
	return err
}

// MarkFailed records a publish failure with error message.
func (r *SQLRepository) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	query := r.q(`
		UPDATE outbox
		SET retry_count = retry_count + 1,
			last_error = ?,
			next_retry_at = ?
		WHERE id = ?`)
	_, err := r.conn.Exec(ctx, query, errMsg, database.FormatTime(nextRetryAt), id)
	return err
}

// MarkDead marks a message as dead-lettered.
func (r *SQLRepository) MarkDead(ctx context.Context, id int64, reason string) error {
	query := r.q(`
		UPDATE outbox
		SET dead_lettered_at = ?,
			dead_letter_reason = ?
		WHERE id = ?`)
	_, err := r.conn.Exec(ctx, query, database.FormatTime(r.now()), reason, id)
	return err
}

// DeleteOld removes successfully published messages older than the retention period.
func (r *SQLRepository) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	cutoff := r.now().Add(-time.Duration(olderThanDays) * 24 * time.Hour)
	query := r.q(`
		DELETE FROM outbox
		WHERE published_at IS NOT NULL
		  AND published_at < ?`)
	result, err := r.conn.Exec(ctx, query, database.FormatTime(cutoff))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanMessages(rows database.Rows) ([]*Message, error) {
	var messages []*Message

	for rows.Next() {
		var (
			msg                                  Message
			eventID, aggregateID, payload        string
			createdAt                            string
			metadata, lastError, deadReason      sql.NullString
			publishedAt, nextRetryAt, deadLetter sql.NullString
		)
		err := rows.Scan(
			&msg.ID,
			&eventID,
			&msg.AggregateType,
			&aggregateID,
			&msg.EventType,
			&msg.RoutingKey,
			&payload,
			&metadata,
			&createdAt,
			&publishedAt,
			&nextRetryAt,
			&msg.RetryCount,
			&lastError,
			&deadLetter,
			&deadReason,
		)
		if err != nil {
			return nil, err
		}

		if msg.EventID, err = uuid.Parse(eventID); err != nil {
			return nil, fmt.Errorf("outbox %d: invalid event id: %w", msg.ID, err)
		}
		if msg.AggregateID, err = uuid.Parse(aggregateID); err != nil {
			return nil, fmt.Errorf("outbox %d: invalid aggregate id: %w", msg.ID, err)
		}
		if msg.CreatedAt, err = database.ParseTime(createdAt); err != nil {
			return nil, err
		}
		if msg.PublishedAt, err = database.ParseNullTime(publishedAt); err != nil {
			return nil, err
		}
		if msg.NextRetryAt, err = database.ParseNullTime(nextRetryAt); err != nil {
			return nil, err
		}
		if msg.DeadLetteredAt, err = database.ParseNullTime(deadLetter); err != nil {
			return nil, err
		}

		msg.Payload = json.RawMessage(payload)
		if metadata.Valid {
			msg.Metadata = json.RawMessage(metadata.String)
		}
		if lastError.Valid {
			msg.LastError = &lastError.String
		}
		if deadReason.Valid {
			msg.DeadLetterReason = &deadReason.String
		}

		messages = append(messages, &msg)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}
