package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"laundry-scheduler/scheduler"

	"github.com/google/uuid"
)

// Booking is a persisted slot assignment.
type Booking struct {
	ID            uuid.UUID `json:"id"`
	UserID        string    `json:"user_id"`
	ScheduledTime string    `json:"scheduled_time"`
	CreatedAt     time.Time `json:"created_at"`
}

func (b *Booking) Validate() error {
	if strings.TrimSpace(b.UserID) == "" {
		return errors.New("user ID is required")
	}
	if _, err := scheduler.ParseOffset(b.ScheduledTime); err != nil {
		return fmt.Errorf("scheduled time: %w", err)
	}
	return nil
}

// Offset parses ScheduledTime.
func (b *Booking) Offset() (scheduler.Offset, error) {
	return scheduler.ParseOffset(b.ScheduledTime)
}
