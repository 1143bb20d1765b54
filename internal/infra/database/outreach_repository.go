package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/lead-insights/internal/entity"
)

type OutreachRepository struct {
	DB *sql.DB
}

func NewOutreachRepository(db *sql.DB) *OutreachRepository {
	return &OutreachRepository{DB: db}
}

func (r *OutreachRepository) Create(ctx context.Context, o *entity.Outreach) error {
	query := `
		INSERT INTO outreach (id, lead_id, channel, recipient, subject, body, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.DB.ExecContext(ctx, query,
		o.ID,
		o.LeadID,
		string(o.Channel),
		o.Recipient,
		nullString(o.Subject),
		o.Body,
		o.Status,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert outreach: %w", err)
	}
	return nil
}

func (r *OutreachRepository) UpdateStatus(ctx context.Context, id, status, errMsg string) error {
	query := `
		UPDATE outreach
		SET status = $2, error = $3, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query, id, status, nullString(errMsg))
	if err != nil {
		return fmt.Errorf("update outreach status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("outreach %s not found", id)
	}
	return nil
}

func (r *OutreachRepository) ListByLead(ctx context.Context, leadID string) ([]entity.Outreach, error) {
	query := `
		SELECT id, lead_id, channel, recipient, COALESCE(subject, ''), body, status,
		       COALESCE(error, ''), created_at, updated_at
		FROM outreach
		WHERE lead_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, leadID)
	if err != nil {
		return nil, fmt.Errorf("list outreach: %w", err)
	}
	defer rows.Close()

	var out []entity.Outreach
	for rows.Next() {
		var o entity.Outreach
		var channel string
		if err := rows.Scan(
			&o.ID, &o.LeadID, &channel, &o.Recipient, &o.Subject, &o.Body,
			&o.Status, &o.Error, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan outreach: %w", err)
		}
		o.Channel = entity.Channel(channel)
		out = append(out, o)
	}
	return out, rows.Err()
}

// FailStale marks outreach queued for longer than olderThanSeconds as failed
// and returns the ids it touched.
func (r *OutreachRepository) FailStale(ctx context.Context, olderThanSeconds int) ([]string, error) {
	query := `
		UPDATE outreach
		SET status = $1, error = 'not delivered in time', updated_at = NOW()
		WHERE status = $2
		  AND created_at < NOW() - make_interval(secs => $3)
		RETURNING id
	`
	rows, err := r.DB.QueryContext(ctx, query, entity.OutreachFailed, entity.OutreachQueued, olderThanSeconds)
	if err != nil {
		return nil, fmt.Errorf("fail stale outreach: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
