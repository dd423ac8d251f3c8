package spinitron

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.RequestURI()]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCurrentPlaylist(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/playlists?count=1": `{"items":[{"id":42,"title":"Night Drive","start":"2026-03-01T02:00:00+0000","end":"2026-03-01T04:00:00+0000","automation":false,"persona_id":7,"show_id":3}]}`,
	})
	c := NewClient(srv.URL)

	pl, err := c.CurrentPlaylist()
	if err != nil {
		t.Fatalf("CurrentPlaylist: %v", err)
	}
	if pl.ID != 42 || pl.Title != "Night Drive" || pl.PersonaID != 7 || pl.ShowID != 3 {
		t.Errorf("playlist = %+v", pl)
	}
	if pl.Automation {
		t.Error("automation should be false")
	}
}

func TestCurrentPlaylistEmpty(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/playlists?count=1": `{"items":[]}`,
	})
	c := NewClient(srv.URL)

	_, err := c.CurrentPlaylist()
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPersonaNotFound(t *testing.T) {
	srv := newTestServer(t, nil)
	c := NewClient(srv.URL)

	_, err := c.Persona(99)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPersona(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/personas/7": `{"id":7,"name":"Alex","email":"alex@example.org"}`,
	})
	c := NewClient(srv.URL)

	p, err := c.Persona(7)
	if err != nil {
		t.Fatalf("Persona: %v", err)
	}
	if p.Name != "Alex" || p.Email != "alex@example.org" {
		t.Errorf("persona = %+v", p)
	}
}

func TestShowPersonaIDs(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/shows/3": `{"id":3,"_links":{"personas":[
			{"href":"https://example.org/api/personas/7"},
			{"href":"https://example.org/api/personas/9/"},
			{"href":"https://example.org/api/personas/not-a-number"},
			{"href":""}
		]}}`,
	})
	c := NewClient(srv.URL)

	s, err := c.Show(3)
	if err != nil {
		t.Fatalf("Show: %v", err)
	}
	got := s.PersonaIDs()
	want := []int{7, 9}
	if len(got) != len(want) {
		t.Fatalf("PersonaIDs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("PersonaIDs[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestBaseURLTrailingSlash(t *testing.T) {
	c := NewClient("https://example.org/api/")
	if c.BaseURL() != "https://example.org/api" {
		t.Errorf("BaseURL = %q", c.BaseURL())
	}
}
