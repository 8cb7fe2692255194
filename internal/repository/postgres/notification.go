package postgres

import (
	"context"
	"encoding/json"
	"time"

	"asset-ledger-backend/internal/domain"
)

type notificationRepository struct {
	q dbtx
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	attrs, err := json.Marshal(n.Attributes)
	if err != nil {
		return err
	}
	query := `INSERT INTO notifications (user_id, base_id, title, message, is_read, attributes, created_on)
	          VALUES ($1, $2, $3, $4, false, $5, $6) RETURNING id`
	n.CreatedOn = time.Now()
	return r.q.QueryRowContext(ctx, query, n.UserID, n.BaseID, n.Title, n.Message, attrs, n.CreatedOn).Scan(&n.ID)
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID int64, limit, offset int64) ([]domain.Notification, error) {
	query := `SELECT id, user_id, base_id, title, message, is_read, attributes, created_on
	          FROM notifications WHERE user_id = $1 ORDER BY id DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var attrs []byte
		if err := rows.Scan(&n.ID, &n.UserID, &n.BaseID, &n.Title, &n.Message, &n.IsRead, &attrs, &n.CreatedOn); err != nil {
			return nil, err
		}
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &n.Attributes); err != nil {
				return nil, err
			}
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	query := `UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`
	res, err := r.q.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.InvalidReference("notification", id)
	}
	return nil
}
