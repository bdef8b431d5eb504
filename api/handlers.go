package api

import (
	"encoding/json"
	"io"
	"net/http"

	"laundry-scheduler/service"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

type API struct {
	router *mux.Router
	svc    *service.Scheduler
	access io.Writer
}

// NewAPI serves svc under /api. Access logs go to access.
func NewAPI(svc *service.Scheduler, access io.Writer) *API {
	r := mux.NewRouter()
	r = r.PathPrefix("/api").Subrouter()
	return &API{
		router: r,
		svc:    svc,
		access: access,
	}
}

func (a *API) Router() *mux.Router {
	return a.router
}

func (a *API) Handler() http.Handler {
	return handlers.LoggingHandler(a.access, a.router)
}

type Response struct {
	Status   int `json:"status"`
	Response any `json:"response"`
}

func (a *API) Response(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Response{
		Status:   status,
		Response: data,
	}); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (a *API) RegisterRoutes() {
	a.router.HandleFunc("/health", a.health).Methods(http.MethodGet)
	a.router.HandleFunc("/slots", a.getSlots).Methods(http.MethodGet)
	a.router.HandleFunc("/bookings", a.getBookings).Methods(http.MethodGet)
	a.router.HandleFunc("/bookings", a.createBooking).Methods(http.MethodPost)
	a.router.HandleFunc("/users", a.getUsers).Methods(http.MethodGet)
	a.router.HandleFunc("/users/{id}", a.getUser).Methods(http.MethodGet)
}
