package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

type observation struct {
	method string
	route  string
	status int
}

type fakeObserver struct {
	seen []observation
}

func (f *fakeObserver) Observe(method, route string, status int, _ time.Duration) {
	f.seen = append(f.seen, observation{method: method, route: route, status: status})
}

func TestMetricsLabelsByRoutePattern(t *testing.T) {
	obs := &fakeObserver{}
	r := chi.NewRouter()
	r.Use(Metrics(obs))
	r.Get("/api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/products/abc", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	if len(obs.seen) != 2 {
		t.Fatalf("expected 2 observations got %d", len(obs.seen))
	}
	if obs.seen[0].route != "/api/products/{id}" || obs.seen[0].status != http.StatusNotFound {
		t.Fatalf("unexpected first observation %+v", obs.seen[0])
	}
	if obs.seen[1].route != "unmatched" {
		t.Fatalf("expected unmatched label got %q", obs.seen[1].route)
	}
}
