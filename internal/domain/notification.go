package domain

import "time"

// Notification is an in-app event record written by workflow services and
// scheduled jobs.
type Notification struct {
	ID         int64             `json:"id"`
	UserID     int64             `json:"user_id"`
	BaseID     *int64            `json:"base_id,omitempty"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	IsRead     bool              `json:"is_read"`
	Attributes map[string]string `json:"attributes"`
	CreatedOn  time.Time         `json:"created_on"`
}
