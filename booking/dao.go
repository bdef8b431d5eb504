package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Accessor runs queries against the bookings table.
type Accessor struct {
	db *sql.DB
}

func NewAccessor(db *sql.DB) *Accessor {
	return &Accessor{db: db}
}

func (a *Accessor) CreateBooking(ctx context.Context, b Booking, now time.Time) (*Booking, error) {
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	id := b.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}

	query := `INSERT INTO bookings (id, user_id, scheduled_time, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := a.db.ExecContext(ctx, query, id, b.UserID, b.ScheduledTime, b.CreatedAt); err != nil {
		return nil, fmt.Errorf("exec context: %w", err)
	}

	return &Booking{
		ID:            id,
		UserID:        b.UserID,
		ScheduledTime: b.ScheduledTime,
		CreatedAt:     b.CreatedAt,
	}, nil
}

// GetBookings returns every booking in the order it was made.
func (a *Accessor) GetBookings(ctx context.Context) ([]Booking, error) {
	var bookings []Booking

	query := `SELECT id, user_id, scheduled_time, created_at FROM bookings ORDER BY created_at, id`
	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query context: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.ScheduledTime, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}
