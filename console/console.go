// Package console is the interactive text menu for a scheduling session.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"laundry-scheduler/scheduler"
	"laundry-scheduler/service"

	"github.com/cockroachdb/errors"
)

const menu = `
Options:
1. Schedule a laundry slot
2. View current schedule
3. View user schedules
4. Exit
`

// Console reads commands from in and writes results to out.
type Console struct {
	svc *service.Scheduler
	in  *bufio.Scanner
	out io.Writer
}

func New(svc *service.Scheduler, in io.Reader, out io.Writer) *Console {
	return &Console{
		svc: svc,
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// Run loops until the user exits or input ends. Queued writes are flushed
// before returning; a failed flush is reported to the user, not returned.
func (c *Console) Run(ctx context.Context) error {
	cfg := c.svc.Config()
	c.printf("Welcome to the Laundry Scheduler!\n")
	c.printf("Available time slots are from %s to %s, every %d minutes.\n", cfg.Start, cfg.End, cfg.SlotDuration)

	for {
		if err := ctx.Err(); err != nil {
			return c.finish(ctx)
		}

		c.printf("%s", menu)
		choice, ok := c.prompt("Enter your choice (1-4): ")
		if !ok {
			return c.finish(ctx)
		}

		switch choice {
		case "1":
			if !c.book(ctx) {
				return c.finish(ctx)
			}
		case "2":
			c.showCalendar()
		case "3":
			c.showBookings()
		case "4":
			return c.finish(ctx)
		default:
			c.printf("Invalid choice. Please try again.\n")
		}
	}
}

// book returns false when input ran out mid-dialog.
func (c *Console) book(ctx context.Context) bool {
	var userID string
	for userID == "" {
		id, ok := c.prompt("Enter user ID: ")
		if !ok {
			return false
		}
		userID = id
		if userID == "" {
			c.printf("User ID is required.\n")
		}
	}

	var name string
	if !c.svc.KnownUser(userID) {
		n, ok := c.prompt("Enter display name: ")
		if !ok {
			return false
		}
		name = n
	}

	for {
		preferred, ok := c.prompt("Enter preferred time (HH:MM): ")
		if !ok {
			return false
		}
		if _, err := scheduler.ParseOffset(preferred); err != nil {
			c.printf("Invalid time format. Please use HH:MM (24-hour).\n")
			continue
		}

		res, err := c.svc.Book(ctx, userID, name, preferred)
		switch {
		case errors.Is(err, service.ErrNoSlotAvailable):
			c.printf("No available slots at or after the preferred time.\n")
		case err != nil:
			c.printf("Could not schedule: %v\n", err)
		default:
			c.printf("Slot scheduled for User %s at %s\n", res.UserID, res.Time)
			if res.Queued {
				c.printf("Warning: the booking could not be saved yet and will be retried.\n")
			}
		}
		return true
	}
}

func (c *Console) showCalendar() {
	c.printf("\nCurrent Schedule:\n")
	for _, s := range c.svc.Calendar() {
		c.printf("Time: %s, Available: %d/%d\n", s.Offset, s.Remaining, s.Capacity)
	}
}

func (c *Console) showBookings() {
	c.printf("\nUser Schedules:\n")
	for _, e := range c.svc.Bookings() {
		c.printf("User %s: Scheduled at %s\n", e.UserID, e.Time)
	}
}

func (c *Console) finish(ctx context.Context) error {
	if err := c.svc.Flush(context.WithoutCancel(ctx)); err != nil {
		c.printf("Warning: %d unsaved change(s) could not be written: %v\n", c.svc.Pending(), err)
	}
	c.printf("Thank you for using the Laundry Scheduler. Goodbye!\n")
	return nil
}

func (c *Console) prompt(label string) (string, bool) {
	c.printf("%s", label)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}
