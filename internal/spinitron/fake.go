package spinitron

import "fmt"

// FakeDirectory is a scripted Directory for resolver tests. It records
// lookup calls so tests can assert which tiers were queried.
type FakeDirectory struct {
	Personas map[int]*Persona
	Shows    map[int]*Show

	// PersonaCalls and ShowCalls record lookups in order.
	PersonaCalls []int
	ShowCalls    []int
}

// NewFakeDirectory creates an empty FakeDirectory.
func NewFakeDirectory() *FakeDirectory {
	return &FakeDirectory{
		Personas: make(map[int]*Persona),
		Shows:    make(map[int]*Show),
	}
}

// Persona returns the scripted persona or ErrNotFound.
func (f *FakeDirectory) Persona(id int) (*Persona, error) {
	f.PersonaCalls = append(f.PersonaCalls, id)
	p, ok := f.Personas[id]
	if !ok {
		return nil, fmt.Errorf("persona %d: %w", id, ErrNotFound)
	}
	return p, nil
}

// Show returns the scripted show or ErrNotFound.
func (f *FakeDirectory) Show(id int) (*Show, error) {
	f.ShowCalls = append(f.ShowCalls, id)
	s, ok := f.Shows[id]
	if !ok {
		return nil, fmt.Errorf("show %d: %w", id, ErrNotFound)
	}
	return s, nil
}

// AddShow scripts a show whose links point at the given persona IDs.
func (f *FakeDirectory) AddShow(id int, personaIDs ...int) {
	s := &Show{ID: id}
	for _, pid := range personaIDs {
		s.Links.Personas = append(s.Links.Personas, struct {
			Href string `json:"href"`
		}{Href: fmt.Sprintf("https://example.org/api/personas/%d", pid)})
	}
	f.Shows[id] = s
}
