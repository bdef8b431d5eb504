package scheduler

import (
	"maps"
	"sort"
)

type Option func(*Allocator)

// WithReleaseOnRebook gives the previous slot's capacity back when a user
// who already holds a booking is assigned a new one.
func WithReleaseOnRebook() Option {
	return func(a *Allocator) {
		a.releaseOnRebook = true
	}
}

// Allocator assigns users to the earliest slot at or after their preferred
// time that still has capacity. It is not safe for concurrent use.
type Allocator struct {
	cfg             Config
	releaseOnRebook bool

	offsets   []Offset // ascending
	remaining map[Offset]int
	bookings  map[string]Offset
}

func NewAllocator(cfg Config, opts ...Option) (*Allocator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Allocator{
		cfg:      cfg,
		bookings: make(map[string]Offset),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.GenerateSlots()

	return a, nil
}

func (a *Allocator) Config() Config {
	return a.cfg
}

// GenerateSlots rebuilds the calendar with every slot at full capacity.
// Recorded bookings are kept but not replayed.
func (a *Allocator) GenerateSlots() {
	a.offsets = a.offsets[:0]
	a.remaining = make(map[Offset]int)

	for t := a.cfg.Start; t < a.cfg.End; t += Offset(a.cfg.SlotDuration) {
		a.offsets = append(a.offsets, t)
		a.remaining[t] = a.cfg.MaxCapacity
	}
}

// RequestSlot books the first slot at or after preferred with capacity
// left. The second return value is false when no such slot exists, in which
// case nothing is changed.
func (a *Allocator) RequestSlot(userID string, preferred Offset) (Offset, bool) {
	i := sort.Search(len(a.offsets), func(i int) bool {
		return a.offsets[i] >= preferred
	})
	for ; i < len(a.offsets); i++ {
		t := a.offsets[i]
		if a.remaining[t] > 0 {
			a.assign(userID, t)
			return t, true
		}
	}
	return 0, false
}

// Replay re-applies a persisted booking at exactly at. Bookings that match
// no slot, or a slot that is already full, are ignored.
func (a *Allocator) Replay(userID string, at Offset) bool {
	left, ok := a.remaining[at]
	if !ok || left <= 0 {
		return false
	}
	a.assign(userID, at)
	return true
}

// RestoreCapacities overwrites remaining capacities from a saved map.
// Offsets that are not in the calendar are ignored.
func (a *Allocator) RestoreCapacities(capacities map[Offset]int) {
	for t, left := range capacities {
		if _, ok := a.remaining[t]; !ok {
			continue
		}
		a.remaining[t] = min(max(left, 0), a.cfg.MaxCapacity)
	}
}

func (a *Allocator) assign(userID string, t Offset) {
	if prev, ok := a.bookings[userID]; ok && a.releaseOnRebook {
		if left, exists := a.remaining[prev]; exists && left < a.cfg.MaxCapacity {
			a.remaining[prev] = left + 1
		}
	}
	a.remaining[t]--
	a.bookings[userID] = t
}

// Calendar returns the slots in chronological order.
func (a *Allocator) Calendar() []Slot {
	slots := make([]Slot, 0, len(a.offsets))
	for _, t := range a.offsets {
		slots = append(slots, Slot{
			Offset:    t,
			Remaining: a.remaining[t],
			Capacity:  a.cfg.MaxCapacity,
		})
	}
	return slots
}

// Bookings returns a copy of the user to slot mapping.
func (a *Allocator) Bookings() map[string]Offset {
	return maps.Clone(a.bookings)
}
