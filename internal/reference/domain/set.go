package domain

import "strings"

// Selection is a reference choice made by the caller. ID is kept from the
// moment of choice; Name is only consulted when no ID was attached.
type Selection struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

func (s Selection) IsZero() bool {
	return s.ID == 0 && strings.TrimSpace(s.Name) == ""
}

// Set is the reference data loaded once for an editing session.
type Set struct {
	Categories    []Category     `json:"categories"`
	Manufacturers []Manufacturer `json:"manufacturers"`
	Suppliers     []Supplier     `json:"suppliers"`
	Units         []Unit         `json:"units"`
}

type entry struct {
	id   int64
	name string
}

func (s Set) entries(kind Kind) []entry {
	var out []entry
	switch kind {
	case KindCategory:
		for _, item := range s.Categories {
			out = append(out, entry{id: item.ID, name: item.Name})
		}
	case KindManufacturer:
		for _, item := range s.Manufacturers {
			out = append(out, entry{id: item.ID, name: item.Name})
		}
	case KindSupplier:
		for _, item := range s.Suppliers {
			out = append(out, entry{id: item.ID, name: item.Name})
		}
	case KindUnit:
		for _, item := range s.Units {
			out = append(out, entry{id: item.ID, name: item.Name})
		}
	}
	return out
}

// Resolve maps a selection to a foreign key. An attached ID must exist in the
// set; otherwise the name is matched exactly. Anything unresolved is nil.
func (s Set) Resolve(kind Kind, sel Selection) *int64 {
	if sel.IsZero() {
		return nil
	}
	entries := s.entries(kind)

	if sel.ID != 0 {
		for _, e := range entries {
			if e.id == sel.ID {
				id := e.id
				return &id
			}
		}
		return nil
	}

	name := sel.Name
	if kind == KindUnit {
		// unit labels are rendered as "name (short)"
		if idx := strings.Index(name, " ("); idx >= 0 {
			name = name[:idx]
		}
	}
	for _, e := range entries {
		if e.name == name {
			id := e.id
			return &id
		}
	}
	return nil
}

// NameOf returns the display name for id, or "" when id is nil or unknown.
func (s Set) NameOf(kind Kind, id *int64) string {
	if id == nil {
		return ""
	}
	for _, e := range s.entries(kind) {
		if e.id == *id {
			return e.name
		}
	}
	return ""
}
