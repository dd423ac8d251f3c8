package spinitron

import "log"

// Directory is the subset of the client the resolver needs.
type Directory interface {
	Persona(id int) (*Persona, error)
	Show(id int) (*Show, error)
}

// Contact is the best-available DJ contact for a playlist. Email is empty
// when no emailable persona exists; the caller then falls back to a
// broadcast channel instead of a directed email.
type Contact struct {
	PersonaID int
	Name      string
	Email     string
}

// Resolver finds the on-air DJ's contact for a playlist.
type Resolver struct {
	dir Directory
}

// NewResolver creates a resolver backed by the given directory.
func NewResolver(dir Directory) *Resolver {
	return &Resolver{dir: dir}
}

// Resolve returns the contact for the playlist's DJ, or nil when the
// playlist is automation (no live DJ) or nil.
//
// The primary persona's email is preferred and short-circuits further
// lookups. When the primary has no email, sibling personas of the show
// are tried in the order the show record lists them; the first with an
// email wins and contributes its name. Lookup failures are treated as
// "not found" and resolution degrades to the next tier.
func (r *Resolver) Resolve(pl *Playlist) *Contact {
	if pl == nil || pl.Automation {
		return nil
	}

	contact := &Contact{PersonaID: pl.PersonaID, Name: "Unknown DJ"}

	if pl.PersonaID != 0 {
		p, err := r.dir.Persona(pl.PersonaID)
		if err != nil {
			log.Printf("spinitron: persona %d lookup failed: %v", pl.PersonaID, err)
		} else {
			if p.Name != "" {
				contact.Name = p.Name
			}
			if p.Email != "" {
				contact.Email = p.Email
				return contact
			}
		}
	}

	if pl.ShowID == 0 {
		return contact
	}

	show, err := r.dir.Show(pl.ShowID)
	if err != nil {
		log.Printf("spinitron: show %d lookup failed: %v", pl.ShowID, err)
		return contact
	}

	for _, id := range show.PersonaIDs() {
		if id == pl.PersonaID {
			continue // already checked
		}
		alt, err := r.dir.Persona(id)
		if err != nil {
			log.Printf("spinitron: persona %d lookup failed: %v", id, err)
			continue
		}
		if alt.Email == "" {
			continue
		}
		contact.Email = alt.Email
		// The primary had no email (or we would have returned above),
		// so the alternate with the email is the one to name.
		if alt.Name != "" {
			contact.Name = alt.Name
		}
		log.Printf("spinitron: found email via alternate persona %q", contact.Name)
		return contact
	}

	return contact
}
