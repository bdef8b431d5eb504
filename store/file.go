package store

import (
	"context"
	"encoding/csv"
	"io"
	"io/fs"
	"os"
	"slices"

	"laundry-scheduler/booking"
	"laundry-scheduler/user"

	"github.com/cockroachdb/errors"
)

var (
	usersHeader    = []string{"user_id", "display_name"}
	bookingsHeader = []string{"user_id", "scheduled_time"}
)

// FileStore keeps each table in its own CSV file.
type FileStore struct {
	usersPath    string
	bookingsPath string
}

func NewFileStore(usersPath, bookingsPath string) *FileStore {
	return &FileStore{
		usersPath:    usersPath,
		bookingsPath: bookingsPath,
	}
}

func (s *FileStore) LoadUsers(_ context.Context) ([]user.User, error) {
	records, err := readRecords(s.usersPath, usersHeader)
	if err != nil {
		return nil, persistenceError(err, "read users")
	}

	users := make([]user.User, 0, len(records))
	for _, rec := range records {
		u := user.User{ID: rec[0]}
		if len(rec) > 1 {
			u.Name = rec[1]
		}
		users = append(users, u)
	}
	return users, nil
}

func (s *FileStore) SaveUser(_ context.Context, u user.User) error {
	err := appendRecord(s.usersPath, usersHeader, []string{u.ID, u.DisplayName()})
	return persistenceError(err, "write user")
}

func (s *FileStore) LoadBookings(_ context.Context) ([]booking.Booking, error) {
	records, err := readRecords(s.bookingsPath, bookingsHeader)
	if err != nil {
		return nil, persistenceError(err, "read bookings")
	}

	bookings := make([]booking.Booking, 0, len(records))
	for _, rec := range records {
		if len(rec) < 2 {
			continue
		}
		bookings = append(bookings, booking.Booking{UserID: rec[0], ScheduledTime: rec[1]})
	}
	return bookings, nil
}

func (s *FileStore) SaveBooking(_ context.Context, b booking.Booking) error {
	err := appendRecord(s.bookingsPath, bookingsHeader, []string{b.UserID, b.ScheduledTime})
	return persistenceError(err, "write booking")
}

func (s *FileStore) Close() error {
	return nil
}

// readRecords returns the rows of path without the header. A missing file
// has no rows.
func readRecords(path string, header []string) ([][]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var records [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(records) == 0 && slices.Equal(rec, header) {
			continue
		}
		if len(rec) == 0 || rec[0] == "" {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func appendRecord(path string, header, rec []string) (err error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(header); err != nil {
			return err
		}
	}
	if err := w.Write(rec); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
