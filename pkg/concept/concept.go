package concept

import (
	"iter"
	"sort"
	"sync"
)

// Concept is the universal named, property-bearing entity. Its primary
// responsibilities are to name an abstraction and to characterize it with
// Properties. A concept holds at most one Property per distinct Property
// class; the class is the slot, the Property the occupant.
//
// Concept names are identifiers with no enforced shape: two concepts may
// share a name and remain distinct entities, because identity is the
// instance, not the name. All methods are safe for concurrent use.
type Concept struct {
	mu         sync.RWMutex
	name       string
	class      *Class
	properties map[*Class]*Property
}

// New creates a concept of the root Concept class.
func New(name string) *Concept {
	return &Concept{
		name:       name,
		class:      ClassConcept,
		properties: make(map[*Class]*Property),
	}
}

// NewOfClass creates a concept carrying the given class tag.
// Returns a KindTypeMismatch error unless the class specializes BaseConcept.
func NewOfClass(name string, class *Class) (*Concept, error) {
	if class == nil || class.Base() != BaseConcept {
		return nil, NewError(KindTypeMismatch, "concept class is not well-formed")
	}
	return &Concept{
		name:       name,
		class:      class,
		properties: make(map[*Class]*Property),
	}, nil
}

// Name returns the concept's name.
func (c *Concept) Name() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

// SetName sets the concept's name. Names are not validated beyond presence.
func (c *Concept) SetName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.name = name
}

// Class returns the concept's class tag.
func (c *Concept) Class() *Class { return c.class }

// AddProperty attaches a property to the concept.
// Returns a KindTypeMismatch error if the property is nil, and a
// KindValidation error if the concept already holds a property of the same
// class.
func (c *Concept) AddProperty(p *Property) error {
	if p == nil {
		return NewError(KindTypeMismatch, "property is not well-formed")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.properties[p.Class()]; exists {
		return NewError(KindValidation, "property of class %q already exists", p.Class().Name())
	}
	c.properties[p.Class()] = p
	return nil
}

// RemoveProperty detaches the property of the given class.
// Returns a KindTypeMismatch error if the class is nil, and a KindValidation
// error if no property of that class is present.
func (c *Concept) RemoveProperty(class *Class) error {
	if class == nil {
		return NewError(KindTypeMismatch, "property class is not well-formed")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.properties[class]; !exists {
		return NewError(KindValidation, "property of class %q does not exist", class.Name())
	}
	delete(c.properties, class)
	return nil
}

// RemoveAllProperties detaches every property from the concept.
func (c *Concept) RemoveAllProperties() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.properties)
}

// PropertyExists reports whether a property of the given class is present.
func (c *Concept) PropertyExists(class *Class) bool {
	if class == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, exists := c.properties[class]
	return exists
}

// Property returns the property of the given class, if present.
func (c *Concept) Property(class *Class) (*Property, bool) {
	if class == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.properties[class]
	return p, ok
}

// NumberOfProperties returns the count of attached properties.
func (c *Concept) NumberOfProperties() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.properties)
}

// Properties iterates over the concept's properties in class-name order.
// The sequence is a snapshot taken when iteration starts: mutation during
// iteration is safe and is not reflected in the sequence. The sequence is
// restartable.
func (c *Concept) Properties() iter.Seq[*Property] {
	return func(yield func(*Property) bool) {
		for _, p := range c.snapshotProperties() {
			if !yield(p) {
				return
			}
		}
	}
}

func (c *Concept) snapshotProperties() []*Property {
	c.mu.RLock()
	out := make([]*Property, 0, len(c.properties))
	for _, p := range c.properties {
		out = append(out, p)
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		return out[i].Class().Name() < out[j].Class().Name()
	})
	return out
}
