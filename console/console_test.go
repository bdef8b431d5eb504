package console_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"laundry-scheduler/console"
	"laundry-scheduler/scheduler"
	"laundry-scheduler/service"
	"laundry-scheduler/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSession(t *testing.T, st service.Store, input string) string {
	t.Helper()
	alloc, err := scheduler.NewAllocator(scheduler.Config{
		Start:        480,
		End:          540,
		SlotDuration: 30,
		MaxCapacity:  1,
	})
	require.NoError(t, err)

	svc := service.New(alloc, st, slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.Start(context.Background())

	var out bytes.Buffer
	require.NoError(t, console.New(svc, strings.NewReader(input), &out).Run(context.Background()))
	return out.String()
}

func newStore(t *testing.T) *store.FileStore {
	t.Helper()
	dir := t.TempDir()
	return store.NewFileStore(filepath.Join(dir, "users.csv"), filepath.Join(dir, "bookings.csv"))
}

func TestConsole(t *testing.T) {
	t.Parallel()

	t.Run("book and view", func(t *testing.T) {
		t.Parallel()
		input := strings.Join([]string{
			"1", "alice", "Alice", "08:00",
			"1", "bob", "", "08:00",
			"1", "carol", "", "08:00",
			"2",
			"3",
			"4",
		}, "\n") + "\n"

		out := runSession(t, newStore(t), input)

		assert.Contains(t, out, "Welcome to the Laundry Scheduler!")
		assert.Contains(t, out, "Available time slots are from 08:00 to 09:00, every 30 minutes.")
		assert.Contains(t, out, "Slot scheduled for User alice at 08:00\n")
		assert.Contains(t, out, "Slot scheduled for User bob at 08:30\n")
		assert.Contains(t, out, "No available slots at or after the preferred time.\n")
		assert.Contains(t, out, "Current Schedule:\nTime: 08:00, Available: 0/1\nTime: 08:30, Available: 0/1\n")
		assert.Contains(t, out, "User Schedules:\nUser alice: Scheduled at 08:00\nUser bob: Scheduled at 08:30\n")
		assert.True(t, strings.HasSuffix(out, "Thank you for using the Laundry Scheduler. Goodbye!\n"))
	})

	t.Run("invalid choice re-prompts", func(t *testing.T) {
		t.Parallel()
		out := runSession(t, newStore(t), "9\nabc\n4\n")

		assert.Equal(t, 2, strings.Count(out, "Invalid choice. Please try again.\n"))
		assert.Equal(t, 3, strings.Count(out, "Enter your choice (1-4): "))
	})

	t.Run("malformed time re-prompts", func(t *testing.T) {
		t.Parallel()
		out := runSession(t, newStore(t), "1\n\nalice\n\n8.30\n25:00\n08:30\n4\n")

		assert.Contains(t, out, "User ID is required.\n")
		assert.Equal(t, 2, strings.Count(out, "Invalid time format. Please use HH:MM (24-hour).\n"))
		assert.Contains(t, out, "Slot scheduled for User alice at 08:30\n")
	})

	t.Run("end of input exits cleanly", func(t *testing.T) {
		t.Parallel()
		out := runSession(t, newStore(t), "1\nalice\n")

		assert.NotContains(t, out, "Slot scheduled")
		assert.Contains(t, out, "Goodbye!")
	})

	t.Run("bookings survive a restart", func(t *testing.T) {
		t.Parallel()
		st := newStore(t)
		runSession(t, st, "1\nalice\nAlice\n08:00\n4\n")

		out := runSession(t, st, "1\nalice\n08:00\n2\n4\n")

		assert.NotContains(t, out, "Enter display name: ")
		assert.Contains(t, out, "Slot scheduled for User alice at 08:30\n")
		assert.Contains(t, out, "Time: 08:00, Available: 0/1\nTime: 08:30, Available: 0/1\n")
	})

	t.Run("cancelled context ends the session", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		alloc, err := scheduler.NewAllocator(scheduler.Config{Start: 480, End: 540, SlotDuration: 30, MaxCapacity: 1})
		require.NoError(t, err)
		svc := service.New(alloc, newStore(t), slog.New(slog.NewTextHandler(io.Discard, nil)))

		var out bytes.Buffer
		require.NoError(t, console.New(svc, strings.NewReader("1\n"), &out).Run(ctx))
		assert.NotContains(t, out.String(), "Enter your choice")
	})
}
