package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"laundry-scheduler/api"
	"laundry-scheduler/booking"
	"laundry-scheduler/scheduler"
	"laundry-scheduler/service"
	"laundry-scheduler/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	fail     bool
	users    []user.User
	bookings []booking.Booking
}

func (m *memoryStore) LoadUsers(context.Context) ([]user.User, error) { return m.users, nil }

func (m *memoryStore) SaveUser(_ context.Context, u user.User) error {
	if m.fail {
		return errors.New("store unavailable")
	}
	m.users = append(m.users, u)
	return nil
}

func (m *memoryStore) LoadBookings(context.Context) ([]booking.Booking, error) {
	return m.bookings, nil
}

func (m *memoryStore) SaveBooking(_ context.Context, b booking.Booking) error {
	if m.fail {
		return errors.New("store unavailable")
	}
	m.bookings = append(m.bookings, b)
	return nil
}

func setupAPI(t *testing.T, st *memoryStore) *api.API {
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

	a := api.NewAPI(svc, io.Discard)
	a.RegisterRoutes()
	return a
}

func do(t *testing.T, a *api.API, method, path, body string) (*httptest.ResponseRecorder, api.Response) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	a.Handler().ServeHTTP(rec, req)

	var res api.Response
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	}
	return rec, res
}

func TestBookingsAPI(t *testing.T) {
	t.Parallel()

	t.Run("first fit scenario", func(t *testing.T) {
		t.Parallel()
		st := &memoryStore{}
		a := setupAPI(t, st)

		rec, res := do(t, a, http.MethodPost, "/api/bookings", `{"user_id":"alice","name":"Alice","preferred_time":"08:00"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		created, ok := res.Response.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "alice", created["user_id"])
		assert.Equal(t, "08:00", created["time"])
		assert.Equal(t, true, created["new_user"])

		rec, res = do(t, a, http.MethodPost, "/api/bookings", `{"user_id":"bob","preferred_time":"08:00"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "08:30", res.Response.(map[string]any)["time"])

		rec, _ = do(t, a, http.MethodPost, "/api/bookings", `{"user_id":"carol","preferred_time":"08:00"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)

		rec, res = do(t, a, http.MethodGet, "/api/bookings", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []any{
			map[string]any{"user_id": "alice", "time": "08:00"},
			map[string]any{"user_id": "bob", "time": "08:30"},
		}, res.Response)

		rec, res = do(t, a, http.MethodGet, "/api/slots", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []any{
			map[string]any{"time": "08:00", "available": float64(0), "capacity": float64(1)},
			map[string]any{"time": "08:30", "available": float64(0), "capacity": float64(1)},
		}, res.Response)

		assert.Len(t, st.bookings, 2)
	})

	t.Run("invalid body", func(t *testing.T) {
		t.Parallel()
		a := setupAPI(t, &memoryStore{})

		rec, _ := do(t, a, http.MethodPost, "/api/bookings", "invalid json")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validation errors", func(t *testing.T) {
		t.Parallel()
		a := setupAPI(t, &memoryStore{})

		rec, res := do(t, a, http.MethodPost, "/api/bookings", `{"user_id":"","preferred_time":"08:00"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "user ID is required", res.Response)

		rec, res = do(t, a, http.MethodPost, "/api/bookings", `{"user_id":"alice","preferred_time":"8am"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "preferred time must be HH:MM", res.Response)
	})

	t.Run("store outage keeps the booking and fails health", func(t *testing.T) {
		t.Parallel()
		st := &memoryStore{fail: true}
		a := setupAPI(t, st)

		rec, res := do(t, a, http.MethodPost, "/api/bookings", `{"user_id":"alice","preferred_time":"08:00"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, true, res.Response.(map[string]any)["queued"])

		rec, _ = do(t, a, http.MethodGet, "/api/health", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "2 pending writes", rec.Body.String())

		rec, res = do(t, a, http.MethodGet, "/api/bookings", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, res.Response, 1)
	})
}

func TestUsersAPI(t *testing.T) {
	t.Parallel()

	a := setupAPI(t, &memoryStore{users: []user.User{{ID: "zoe", Name: "Zoe"}}})

	rec, _ := do(t, a, http.MethodPost, "/api/bookings", `{"user_id":"alice","preferred_time":"08:00"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, res := do(t, a, http.MethodGet, "/api/users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{
		"users": []any{
			map[string]any{"user_id": "alice", "user_name": "alice"},
			map[string]any{"user_id": "zoe", "user_name": "Zoe"},
		},
	}, res.Response)

	rec, res = do(t, a, http.MethodGet, "/api/users/zoe", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"user_id": "zoe", "user_name": "Zoe"}, res.Response)

	rec, res = do(t, a, http.MethodGet, "/api/users/nobody", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "user not found", res.Response)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	a := setupAPI(t, &memoryStore{})
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()

	a.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
