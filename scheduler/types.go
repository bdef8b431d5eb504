package scheduler

import "github.com/cockroachdb/errors"

// Config describes the daily calendar.
type Config struct {
	Start        Offset
	End          Offset
	SlotDuration int // minutes
	MaxCapacity  int
}

func (c Config) Validate() error {
	if !c.Start.valid() {
		return errors.Mark(errors.Newf("start %d is outside the day", c.Start), ErrInvalidConfig)
	}
	if !c.End.valid() {
		return errors.Mark(errors.Newf("end %d is outside the day", c.End), ErrInvalidConfig)
	}
	if c.SlotDuration <= 0 {
		return errors.Mark(errors.Newf("slot duration must be greater than 0, got %d", c.SlotDuration), ErrInvalidConfig)
	}
	if c.SlotDuration > minutesPerDay {
		return errors.Mark(errors.Newf("slot duration must not exceed %d minutes, got %d", minutesPerDay, c.SlotDuration), ErrInvalidConfig)
	}
	if c.MaxCapacity < 0 {
		return errors.Mark(errors.Newf("max capacity must not be negative, got %d", c.MaxCapacity), ErrInvalidConfig)
	}
	return nil
}

// Slot is a read-only view of one calendar entry.
type Slot struct {
	Offset    Offset `json:"time"`
	Remaining int    `json:"available"`
	Capacity  int    `json:"capacity"`
}
