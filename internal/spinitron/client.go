// Package spinitron is a read-only client for the Spinitron scheduling
// directory: the currently airing playlist, persona (DJ) records, and show
// records. Lookups are made fresh per event and never cached.
package spinitron

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound reports that a record does not exist. Callers treat it the
// same as any other lookup failure: degrade, never crash.
var ErrNotFound = errors.New("spinitron: not found")

const requestTimeout = 10 * time.Second

// Playlist is a scheduled on-air program record. Start and End are ISO
// 8601 strings as returned by the API.
type Playlist struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Automation bool   `json:"automation"`
	PersonaID  int    `json:"persona_id"`
	ShowID     int    `json:"show_id"`
	Image      string `json:"image"`
}

// Persona is a DJ profile record.
type Persona struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Website string `json:"website"`
	Bio     string `json:"bio"`
	Image   string `json:"image"`
}

// Show is a show record. Linked personas are exposed as HAL-style links.
type Show struct {
	ID    int `json:"id"`
	Links struct {
		Personas []struct {
			Href string `json:"href"`
		} `json:"personas"`
	} `json:"_links"`
}

// PersonaIDs extracts persona IDs from the show's links, in the order the
// directory returns them. Links that do not end in a numeric segment are
// skipped.
func (s *Show) PersonaIDs() []int {
	var ids []int
	for _, link := range s.Links.Personas {
		href := strings.TrimRight(link.Href, "/")
		idx := strings.LastIndex(href, "/")
		if idx < 0 {
			continue
		}
		id, err := strconv.Atoi(href[idx+1:])
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// Client calls the Spinitron HTTP API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the given API base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// BaseURL returns the configured API base URL, used for building links in
// notification payloads.
func (c *Client) BaseURL() string { return c.baseURL }

// CurrentPlaylist fetches the playlist currently on air.
func (c *Client) CurrentPlaylist() (*Playlist, error) {
	var page struct {
		Items []Playlist `json:"items"`
	}
	if err := c.get("playlists?count=1", &page); err != nil {
		return nil, err
	}
	if len(page.Items) == 0 {
		return nil, fmt.Errorf("current playlist: %w", ErrNotFound)
	}
	return &page.Items[0], nil
}

// Persona fetches a persona record by ID.
func (c *Client) Persona(id int) (*Persona, error) {
	var p Persona
	if err := c.get(fmt.Sprintf("personas/%d", id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Show fetches a show record by ID.
func (c *Client) Show(id int) (*Show, error) {
	var s Show
	if err := c.get(fmt.Sprintf("shows/%d", id), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) get(endpoint string, out any) error {
	url := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	resp, err := c.client.Get(url)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("fetch %s: %w", endpoint, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: status %d", endpoint, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}
