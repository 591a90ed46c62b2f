package repository

import (
	"context"
	"database/sql"

	"github.com/locmanager/locmanager/internal/identity"
)

// NotificationRepo serves the notification feed and the internal
// messaging boxes.
type NotificationRepo struct {
	DB *sql.DB
}

func NewNotificationRepo(db *sql.DB) *NotificationRepo {
	return &NotificationRepo{DB: db}
}

// Notification is one feed entry.
type Notification struct {
	Message string `json:"message"`
	Date    string `json:"date"`
}

// Recent returns the latest notifications. Admins see the whole feed,
// everyone else only their own rows.
func (r *NotificationRepo) Recent(ctx context.Context, userID int64, role identity.Role) ([]Notification, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if role == identity.RoleAdmin {
		rows, err = r.DB.QueryContext(ctx,
			"SELECT message, date FROM notifications ORDER BY date DESC LIMIT 5")
	} else {
		rows, err = r.DB.QueryContext(ctx,
			"SELECT message, date FROM notifications WHERE user_id=? ORDER BY date DESC LIMIT 5", userID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.Message, &n.Date); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Message is one entry of the internal messaging table.
type Message struct {
	SenderID     int64  `json:"sender_id"`
	SenderType   string `json:"sender_type"`
	ReceiverID   int64  `json:"receiver_id"`
	ReceiverType string `json:"receiver_type"`
	Subject      string `json:"subject"`
	Body         string `json:"message"`
}

// SendMessage stores a message and returns its id.
func (r *NotificationRepo) SendMessage(ctx context.Context, m Message) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO messages (sender_id, sender_type, receiver_id, receiver_type, subject, message)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.SenderID, m.SenderType, m.ReceiverID, m.ReceiverType, m.Subject, m.Body)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Recipient is a user reachable through messaging.
type Recipient struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// UsersForMessaging lists admins and owners as message recipients.
func (r *NotificationRepo) UsersForMessaging(ctx context.Context) ([]Recipient, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT admin_id AS id, admin_name AS name, 'admin' AS type FROM block_admin
		UNION ALL
		SELECT owner_id AS id, name, 'owner' AS type FROM owner`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Recipient
	for rows.Next() {
		var rec Recipient
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Type); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
