package store

import (
	"context"
	"sort"
	"strings"

	"laundry-scheduler/booking"
	"laundry-scheduler/user"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps users in a hash and bookings in an append-only list.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) usersKey() string    { return s.prefix + ":users" }
func (s *RedisStore) bookingsKey() string { return s.prefix + ":bookings" }

func (s *RedisStore) LoadUsers(ctx context.Context) ([]user.User, error) {
	fields, err := s.client.HGetAll(ctx, s.usersKey()).Result()
	if err != nil {
		return nil, persistenceError(err, "hgetall users")
	}

	users := make([]user.User, 0, len(fields))
	for id, name := range fields {
		users = append(users, user.User{ID: id, Name: name})
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// SaveUser keeps the first display name recorded for an ID.
func (s *RedisStore) SaveUser(ctx context.Context, u user.User) error {
	err := s.client.HSetNX(ctx, s.usersKey(), u.ID, u.DisplayName()).Err()
	return persistenceError(err, "hsetnx user")
}

func (s *RedisStore) LoadBookings(ctx context.Context) ([]booking.Booking, error) {
	entries, err := s.client.LRange(ctx, s.bookingsKey(), 0, -1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, persistenceError(err, "lrange bookings")
	}

	bookings := make([]booking.Booking, 0, len(entries))
	for _, entry := range entries {
		i := strings.LastIndexByte(entry, '|')
		if i <= 0 {
			continue
		}
		bookings = append(bookings, booking.Booking{UserID: entry[:i], ScheduledTime: entry[i+1:]})
	}
	return bookings, nil
}

func (s *RedisStore) SaveBooking(ctx context.Context, b booking.Booking) error {
	err := s.client.RPush(ctx, s.bookingsKey(), encodeBooking(b)).Err()
	return persistenceError(err, "rpush booking")
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func encodeBooking(b booking.Booking) string {
	return b.UserID + "|" + b.ScheduledTime
}
