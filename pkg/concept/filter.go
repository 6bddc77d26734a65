package concept

// Entity is the common surface of Concept, Property, and Relationship:
// anything with a name and a class tag.
type Entity interface {
	Name() string
	Class() *Class
}

// Filter narrows an iteration by name and/or class. Criteria are ANDed; the
// zero value matches everything.
//
// The class criterion matches the class itself and its descendants, so
// filtering by a broad class walks the whole conforming family.
type Filter struct {
	Name  string // exact name match, empty = no filter
	Class *Class // class conformance match, nil = no filter
}

// Matches returns true if the entity satisfies all active criteria.
func (f Filter) Matches(e Entity) bool {
	if e == nil {
		return false
	}
	if f.Name != "" && e.Name() != f.Name {
		return false
	}
	if f.Class != nil && !e.Class().ConformsTo(f.Class) {
		return false
	}
	return true
}

// HasFilters returns true if any criterion is active.
func (f Filter) HasFilters() bool {
	return f.Name != "" || f.Class != nil
}
