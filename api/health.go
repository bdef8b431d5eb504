package api

import (
	"fmt"
	"net/http"
)

// health fails while bookings are waiting to be written to the store.
func (a *API) health(w http.ResponseWriter, _ *http.Request) {
	if n := a.svc.Pending(); n > 0 {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = fmt.Fprintf(w, "%d pending writes", n)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
