package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ramanasai/tally/internal/clock"
	"github.com/ramanasai/tally/internal/timeentry"
)

// fakeService is a minimal in-memory stand-in for the hosted API.
type fakeService struct {
	entries map[string]timeentry.TimeEntry
	nextID  int
	token   string
	fail    int
}

func (s *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer "+s.token {
		http.Error(w, "bad token", http.StatusUnauthorized)
		return
	}
	if s.fail != 0 {
		http.Error(w, "boom", s.fail)
		return
	}

	id := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, entriesPath), "/")
	switch {
	case r.Method == http.MethodGet && id == "":
		q := r.URL.Query()
		out := []timeentry.TimeEntry{}
		for _, e := range s.entries {
			if d := q.Get("date"); d != "" && e.Date == d {
				out = append(out, e)
			}
			if st, en := q.Get("start"), q.Get("end"); st != "" && e.Date >= st && e.Date <= en {
				out = append(out, e)
			}
		}
		_ = json.NewEncoder(w).Encode(out)
	case r.Method == http.MethodPost && id == "":
		var d timeentry.Draft
		if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.nextID++
		e := d.WithID("srv-" + strconv.Itoa(s.nextID))
		s.entries[e.ID] = e
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(e)
	case r.Method == http.MethodPut:
		if _, ok := s.entries[id]; !ok {
			http.NotFound(w, r)
			return
		}
		var e timeentry.TimeEntry
		if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.entries[id] = e
		_ = json.NewEncoder(w).Encode(e)
	case r.Method == http.MethodDelete:
		if _, ok := s.entries[id]; !ok {
			http.NotFound(w, r)
			return
		}
		delete(s.entries, id)
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "unsupported", http.StatusMethodNotAllowed)
	}
}

func newTestClient(t *testing.T) (*Client, *fakeService) {
	t.Helper()
	svc := &fakeService{entries: map[string]timeentry.TimeEntry{}, token: "t0ken"}
	srv := httptest.NewServer(svc)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "t0ken", 5*time.Second, nil), svc
}

func TestClient_CacheRoundTrip(t *testing.T) {
	client, svc := newTestClient(t)
	ctx := context.Background()
	c := timeentry.NewCache(client, nil)

	created, err := c.Add(ctx, timeentry.Draft{
		ClientID:  "acme",
		Date:      "2024-01-10",
		StartTime: clock.MustParse("17:00"),
		EndTime:   clock.MustParse("09:00"),
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if created.ID != "srv-1" || created.Duration != 960 {
		t.Fatalf("created = %+v", created)
	}
	if svc.entries["srv-1"].StartTime.String() != "17:00" {
		t.Fatalf("server stored %+v", svc.entries["srv-1"])
	}

	c.Reset()
	got, err := c.LoadForDate(ctx, "2024-01-10")
	if err != nil || len(got) != 1 {
		t.Fatalf("load: %v %v", got, err)
	}

	edited := got[0]
	edited.Description = "late deploy"
	if _, err := c.Update(ctx, edited); err != nil {
		t.Fatalf("update: %v", err)
	}
	if svc.entries["srv-1"].Description != "late deploy" {
		t.Fatalf("update not sent")
	}

	if err := c.Remove(ctx, "srv-1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(svc.entries) != 0 {
		t.Fatalf("delete not sent")
	}
}

func TestClient_StatusMapping(t *testing.T) {
	client, svc := newTestClient(t)
	ctx := context.Background()

	svc.fail = http.StatusBadGateway
	if _, err := client.FetchByDate(ctx, "2024-01-10"); !errors.Is(err, timeentry.ErrNetwork) {
		t.Fatalf("5xx: %v", err)
	}
	svc.fail = 0

	if err := client.Delete(ctx, "missing"); !errors.Is(err, timeentry.ErrNotFound) {
		t.Fatalf("404: %v", err)
	}

	client.token = "wrong"
	if _, err := client.FetchByRange(ctx, "2024-01-01", "2024-01-31"); !errors.Is(err, timeentry.ErrAuth) {
		t.Fatalf("401: %v", err)
	}
}

func TestClient_TransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(url, "", time.Second, nil)
	c := timeentry.NewCache(client, nil)
	p, err := c.Add(context.Background(), timeentry.Draft{
		ClientID:  "acme",
		Date:      "2024-01-10",
		StartTime: clock.MustParse("09:00"),
		EndTime:   clock.MustParse("10:00"),
	})
	if !errors.Is(err, timeentry.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
	if !p.Local() || len(c.Unsaved()) != 1 {
		t.Fatalf("placeholder missing: %+v", p)
	}
}

func TestClient_KeepsBaseURLPath(t *testing.T) {
	svc := &fakeService{entries: map[string]timeentry.TimeEntry{}, token: "t0ken"}
	srv := httptest.NewServer(http.StripPrefix("/tenant", svc))
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL+"/tenant/", "t0ken", 5*time.Second, nil)
	ctx := context.Background()

	created, err := client.Create(ctx, timeentry.Draft{
		ClientID:  "acme",
		Date:      "2024-01-10",
		StartTime: clock.MustParse("09:00"),
		EndTime:   clock.MustParse("10:00"),
	})
	if err != nil {
		t.Fatalf("create under prefix: %v", err)
	}
	if got, err := client.FetchByDate(ctx, "2024-01-10"); err != nil || len(got) != 1 {
		t.Fatalf("fetch under prefix: %v %v", got, err)
	}
	if err := client.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete under prefix: %v", err)
	}
}
