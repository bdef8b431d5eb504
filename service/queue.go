package service

import (
	"context"

	"laundry-scheduler/booking"
	"laundry-scheduler/user"
)

// write is a store operation that has not succeeded yet.
type write struct {
	desc string
	do   func(ctx context.Context, st Store) error
}

func userWrite(u user.User) write {
	return write{
		desc: "user " + u.ID,
		do: func(ctx context.Context, st Store) error {
			return st.SaveUser(ctx, u)
		},
	}
}

func bookingWrite(b booking.Booking) write {
	return write{
		desc: "booking " + b.UserID + " at " + b.ScheduledTime,
		do: func(ctx context.Context, st Store) error {
			return st.SaveBooking(ctx, b)
		},
	}
}

func (s *Scheduler) enqueue(w write) {
	s.pending = append(s.pending, w)
}

// flushLocked stops at the first failure so writes land in order.
func (s *Scheduler) flushLocked(ctx context.Context) error {
	for len(s.pending) > 0 {
		w := s.pending[0]
		if err := w.do(ctx, s.store); err != nil {
			return err
		}
		s.pending = s.pending[1:]
		s.logger.DebugContext(ctx, "persisted", "write", w.desc)
	}
	return nil
}
