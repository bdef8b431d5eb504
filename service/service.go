// Package service runs a scheduling session: it owns the allocator,
// rehydrates it from a store and persists every booking it makes.
package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"laundry-scheduler/booking"
	"laundry-scheduler/scheduler"
	"laundry-scheduler/user"

	"github.com/cockroachdb/errors"
)

var (
	ErrInvalidUser     = errors.New("user ID is required")
	ErrNoSlotAvailable = errors.New("no available slots at or after the preferred time")
)

// Store is the persistence the session depends on.
type Store interface {
	LoadUsers(ctx context.Context) ([]user.User, error)
	SaveUser(ctx context.Context, u user.User) error
	LoadBookings(ctx context.Context) ([]booking.Booking, error)
	SaveBooking(ctx context.Context, b booking.Booking) error
}

// Result describes a successful booking.
type Result struct {
	UserID  string `json:"user_id"`
	Time    string `json:"time"`
	NewUser bool   `json:"new_user"`
	// Queued is set when the booking could not be written and waits for Flush.
	Queued bool `json:"queued"`
}

// Entry is one row of the bookings view.
type Entry struct {
	UserID string `json:"user_id"`
	Time   string `json:"time"`
}

// Scheduler serializes all requests against one allocator.
type Scheduler struct {
	mu      sync.Mutex
	alloc   *scheduler.Allocator
	store   Store
	logger  *slog.Logger
	users   map[string]user.User
	pending []write
}

func New(alloc *scheduler.Allocator, store Store, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		alloc:  alloc,
		store:  store,
		logger: logger,
		users:  make(map[string]user.User),
	}
}

// Start loads users and replays stored bookings onto the calendar.
// Unreadable tables are treated as empty.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.store.LoadUsers(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "load users, starting with none", slog.Any("error", err))
	}
	for _, u := range users {
		s.users[u.ID] = u
	}

	bookings, err := s.store.LoadBookings(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "load bookings, starting with an empty calendar", slog.Any("error", err))
	}

	replayed := 0
	for _, b := range bookings {
		at, err := b.Offset()
		if err != nil {
			s.logger.DebugContext(ctx, "skip malformed booking", slog.String("user_id", b.UserID), slog.String("time", b.ScheduledTime))
			continue
		}
		if !s.alloc.Replay(b.UserID, at) {
			s.logger.DebugContext(ctx, "skip booking without a free slot", slog.String("user_id", b.UserID), slog.String("time", b.ScheduledTime))
			continue
		}
		replayed++
	}

	s.logger.InfoContext(ctx, "session started",
		slog.Int("users", len(s.users)),
		slog.Int("bookings", replayed),
		slog.Int("slots", len(s.alloc.Calendar())),
	)
}

// KnownUser reports whether id has booked before.
func (s *Scheduler) KnownUser(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.users[id]
	return ok
}

// Book assigns userID the first free slot at or after preferred (HH:MM).
// name is only used the first time a user books.
func (s *Scheduler) Book(ctx context.Context, userID, name, preferred string) (Result, error) {
	userID = strings.TrimSpace(userID)
	candidate := user.User{ID: userID, Name: strings.TrimSpace(name)}
	if err := candidate.Validate(); err != nil {
		return Result{}, errors.Mark(errors.Wrap(err, "validate"), ErrInvalidUser)
	}
	at, err := scheduler.ParseOffset(preferred)
	if err != nil {
		return Result{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.alloc.RequestSlot(userID, at)
	if !ok {
		return Result{}, ErrNoSlotAvailable
	}

	res := Result{UserID: userID, Time: slot.String()}
	if _, known := s.users[userID]; !known {
		candidate.Name = candidate.DisplayName()
		s.users[userID] = candidate
		res.NewUser = true
		s.enqueue(userWrite(candidate))
	}
	s.enqueue(bookingWrite(booking.Booking{UserID: userID, ScheduledTime: res.Time}))

	if err := s.flushLocked(ctx); err != nil {
		s.logger.WarnContext(ctx, "booking kept in memory, write queued",
			slog.String("user_id", userID),
			slog.String("time", res.Time),
			slog.Int("pending", len(s.pending)),
			slog.Any("error", err),
		)
		res.Queued = true
	}

	s.logger.InfoContext(ctx, "slot booked", slog.String("user_id", userID), slog.String("time", res.Time))
	return res, nil
}

// Flush retries queued writes in order.
func (s *Scheduler) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.flushLocked(ctx)
}

// Pending is the number of writes waiting for Flush.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.pending)
}

func (s *Scheduler) Calendar() []scheduler.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.alloc.Calendar()
}

// Bookings lists current assignments ordered by user ID.
func (s *Scheduler) Bookings() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	assigned := s.alloc.Bookings()
	entries := make([]Entry, 0, len(assigned))
	for id, at := range assigned {
		entries = append(entries, Entry{UserID: id, Time: at.String()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].UserID < entries[j].UserID })
	return entries
}

// User returns the registered user with id, if any.
func (s *Scheduler) User(id string) (user.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	return u, ok
}

// Users lists registered users ordered by ID.
func (s *Scheduler) Users() []user.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]user.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

func (s *Scheduler) Config() scheduler.Config {
	return s.alloc.Config()
}
