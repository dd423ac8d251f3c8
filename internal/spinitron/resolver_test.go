package spinitron

import "testing"

func TestResolveNilAndAutomation(t *testing.T) {
	r := NewResolver(NewFakeDirectory())

	if got := r.Resolve(nil); got != nil {
		t.Errorf("Resolve(nil) = %+v, want nil", got)
	}
	if got := r.Resolve(&Playlist{ID: 1, Automation: true, PersonaID: 7}); got != nil {
		t.Errorf("automation playlist should resolve to nil, got %+v", got)
	}
}

func TestResolvePrimaryEmailShortCircuits(t *testing.T) {
	dir := NewFakeDirectory()
	dir.Personas[7] = &Persona{ID: 7, Name: "Alex", Email: "alex@example.org"}
	dir.AddShow(3, 7, 8)
	r := NewResolver(dir)

	got := r.Resolve(&Playlist{ID: 1, PersonaID: 7, ShowID: 3})
	if got == nil {
		t.Fatal("expected a contact")
	}
	if got.Name != "Alex" || got.Email != "alex@example.org" || got.PersonaID != 7 {
		t.Errorf("contact = %+v", got)
	}

	// The preferred path makes no show or alternate-persona lookups.
	if len(dir.ShowCalls) != 0 {
		t.Errorf("expected no show lookups, got %v", dir.ShowCalls)
	}
	if len(dir.PersonaCalls) != 1 {
		t.Errorf("expected exactly one persona lookup, got %v", dir.PersonaCalls)
	}
}

func TestResolveAlternateInShowOrder(t *testing.T) {
	dir := NewFakeDirectory()
	dir.Personas[7] = &Persona{ID: 7, Name: "Alex"} // no email
	dir.Personas[8] = &Persona{ID: 8, Name: "Blair"}
	dir.Personas[9] = &Persona{ID: 9, Name: "Casey", Email: "casey@example.org"}
	dir.Personas[10] = &Persona{ID: 10, Name: "Drew", Email: "drew@example.org"}
	dir.AddShow(3, 7, 8, 9, 10)
	r := NewResolver(dir)

	got := r.Resolve(&Playlist{ID: 1, PersonaID: 7, ShowID: 3})
	if got == nil {
		t.Fatal("expected a contact")
	}
	// First alternate with an email wins; order is the show-link order.
	if got.Email != "casey@example.org" || got.Name != "Casey" {
		t.Errorf("contact = %+v, want Casey", got)
	}

	// Probing stopped at the first match: Drew was never fetched, and the
	// primary was not fetched twice.
	want := []int{7, 8, 9}
	if len(dir.PersonaCalls) != len(want) {
		t.Fatalf("persona lookups = %v, want %v", dir.PersonaCalls, want)
	}
	for i, id := range want {
		if dir.PersonaCalls[i] != id {
			t.Errorf("persona lookup %d = %d, want %d", i, dir.PersonaCalls[i], id)
		}
	}
}

func TestResolveNoEmailAnywhere(t *testing.T) {
	dir := NewFakeDirectory()
	dir.Personas[7] = &Persona{ID: 7, Name: "Alex"}
	dir.Personas[8] = &Persona{ID: 8, Name: "Blair"}
	dir.AddShow(3, 7, 8)
	r := NewResolver(dir)

	got := r.Resolve(&Playlist{ID: 1, PersonaID: 7, ShowID: 3})
	if got == nil {
		t.Fatal("expected a named-but-emailless contact")
	}
	if got.Name != "Alex" || got.Email != "" {
		t.Errorf("contact = %+v, want Alex with empty email", got)
	}
}

func TestResolveLookupFailuresDegrade(t *testing.T) {
	dir := NewFakeDirectory()
	// Persona 7 and show 3 do not exist; persona lookups fail over.
	r := NewResolver(dir)

	got := r.Resolve(&Playlist{ID: 1, PersonaID: 7, ShowID: 3})
	if got == nil {
		t.Fatal("lookup failures should degrade, not suppress the contact")
	}
	if got.Name != "Unknown DJ" || got.Email != "" {
		t.Errorf("contact = %+v, want unknown and emailless", got)
	}
}

func TestResolveFailedAlternateSkipped(t *testing.T) {
	dir := NewFakeDirectory()
	dir.Personas[7] = &Persona{ID: 7, Name: "Alex"}
	// Persona 8 missing entirely; 9 has the email.
	dir.Personas[9] = &Persona{ID: 9, Name: "Casey", Email: "casey@example.org"}
	dir.AddShow(3, 7, 8, 9)
	r := NewResolver(dir)

	got := r.Resolve(&Playlist{ID: 1, PersonaID: 7, ShowID: 3})
	if got == nil || got.Email != "casey@example.org" {
		t.Errorf("contact = %+v, want casey@example.org", got)
	}
}
