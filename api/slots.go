package api

import (
	"encoding/json"
	"net/http"

	"laundry-scheduler/scheduler"
	"laundry-scheduler/service"
	"laundry-scheduler/user"

	"github.com/cockroachdb/errors"
	"github.com/gorilla/mux"
)

type slot struct {
	Time      string `json:"time"`
	Available int    `json:"available"`
	Capacity  int    `json:"capacity"`
}

func (a *API) getSlots(w http.ResponseWriter, _ *http.Request) {
	calendar := a.svc.Calendar()
	slots := make([]slot, 0, len(calendar))
	for _, s := range calendar {
		slots = append(slots, slot{
			Time:      s.Offset.String(),
			Available: s.Remaining,
			Capacity:  s.Capacity,
		})
	}
	a.Response(w, http.StatusOK, slots)
}

func (a *API) getBookings(w http.ResponseWriter, _ *http.Request) {
	a.Response(w, http.StatusOK, a.svc.Bookings())
}

type createBookingRequest struct {
	UserID        string `json:"user_id"`
	Name          string `json:"name"`
	PreferredTime string `json:"preferred_time"`
}

func (a *API) createBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := a.svc.Book(r.Context(), req.UserID, req.Name, req.PreferredTime)
	switch {
	case errors.Is(err, service.ErrInvalidUser):
		a.Response(w, http.StatusBadRequest, "user ID is required")
	case errors.Is(err, scheduler.ErrInvalidTime):
		a.Response(w, http.StatusBadRequest, "preferred time must be HH:MM")
	case errors.Is(err, service.ErrNoSlotAvailable):
		a.Response(w, http.StatusConflict, service.ErrNoSlotAvailable.Error())
	case err != nil:
		a.Response(w, http.StatusInternalServerError, err.Error())
	default:
		a.Response(w, http.StatusCreated, res)
	}
}

type getUsersResponse struct {
	Users []user.User `json:"users"`
}

func (a *API) getUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	u, ok := a.svc.User(id)
	if !ok {
		a.Response(w, http.StatusNotFound, "user not found")
		return
	}
	a.Response(w, http.StatusOK, u)
}

func (a *API) getUsers(w http.ResponseWriter, _ *http.Request) {
	a.Response(w, http.StatusOK, getUsersResponse{Users: a.svc.Users()})
}
