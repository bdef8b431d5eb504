package store

import (
	"context"
	"database/sql"
	"time"

	"laundry-scheduler/booking"
	"laundry-scheduler/user"
)

// SQLStore keeps users and bookings in PostgreSQL.
type SQLStore struct {
	db       *sql.DB
	users    *user.Accessor
	bookings *booking.Accessor
	now      func() time.Time
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{
		db:       db,
		users:    user.NewAccessor(db),
		bookings: booking.NewAccessor(db),
		now:      time.Now,
	}
}

func (s *SQLStore) LoadUsers(ctx context.Context) ([]user.User, error) {
	users, err := s.users.GetUsers(ctx)
	if err != nil {
		return nil, persistenceError(err, "get users")
	}
	return users, nil
}

func (s *SQLStore) SaveUser(ctx context.Context, u user.User) error {
	_, err := s.users.CreateUser(ctx, u)
	return persistenceError(err, "create user")
}

func (s *SQLStore) LoadBookings(ctx context.Context) ([]booking.Booking, error) {
	bookings, err := s.bookings.GetBookings(ctx)
	if err != nil {
		return nil, persistenceError(err, "get bookings")
	}
	return bookings, nil
}

func (s *SQLStore) SaveBooking(ctx context.Context, b booking.Booking) error {
	_, err := s.bookings.CreateBooking(ctx, b, s.now())
	return persistenceError(err, "create booking")
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
