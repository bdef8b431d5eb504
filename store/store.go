// Package store persists users and bookings between sessions.
package store

import (
	"context"

	"laundry-scheduler/booking"
	"laundry-scheduler/user"

	"github.com/cockroachdb/errors"
)

// ErrPersistence marks every failure to read from or write to a store.
var ErrPersistence = errors.New("persistence failure")

// Store is a durable home for the users and bookings tables.
// A table that does not exist yet loads as empty.
type Store interface {
	LoadUsers(ctx context.Context) ([]user.User, error)
	SaveUser(ctx context.Context, u user.User) error
	LoadBookings(ctx context.Context) ([]booking.Booking, error)
	SaveBooking(ctx context.Context, b booking.Booking) error
	Close() error
}

func persistenceError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Mark(errors.Wrap(err, msg), ErrPersistence)
}
