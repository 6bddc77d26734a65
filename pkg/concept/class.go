package concept

import (
	"fmt"
	"sort"
	"sync"
)

// Base identifies which of the three core abstractions a class specializes.
// Class conformance is a tag check against an explicit parent chain, not a
// language-level inheritance hierarchy.
type Base string

const (
	// BaseConcept marks classes whose instances are Concepts.
	BaseConcept Base = "Concept"

	// BaseProperty marks classes whose instances are Properties.
	BaseProperty Base = "Property"

	// BaseRelationship marks classes whose instances are Relationships.
	BaseRelationship Base = "Relationship"
)

// Validate checks if the Base is a valid enum value.
func (b Base) Validate() error {
	switch b {
	case BaseConcept, BaseProperty, BaseRelationship:
		return nil
	default:
		return fmt.Errorf("unknown base abstraction: %q", b)
	}
}

// Class is an explicit type tag carried by every Concept, Property, and
// Relationship instance. Conformance is decided by walking the parent chain.
// The root of the chain is ClassConcept, which is its own parent: a Concept
// is a kind of Concept, modeled as a reflexive relation rather than as a
// circular type definition.
type Class struct {
	name   string
	base   Base
	parent *Class
}

// The three root classes. ClassConcept parents itself; ClassProperty and
// ClassRelationship parent ClassConcept, preserving the rule that everything
// is a kind of Concept.
var (
	ClassConcept      *Class
	ClassProperty     *Class
	ClassRelationship *Class
)

func init() {
	ClassConcept = &Class{name: "Concept", base: BaseConcept}
	ClassConcept.parent = ClassConcept
	ClassProperty = &Class{name: "Property", base: BaseProperty, parent: ClassConcept}
	ClassRelationship = &Class{name: "Relationship", base: BaseRelationship, parent: ClassConcept}
}

// NewClass creates a class tag with the given name and base abstraction.
// When parent is nil, the class parents the root class for its base.
// Returns a KindValidation error if the base is unknown or the name is empty.
func NewClass(name string, base Base, parent *Class) (*Class, error) {
	if name == "" {
		return nil, NewError(KindValidation, "class name cannot be empty")
	}
	if err := base.Validate(); err != nil {
		return nil, NewError(KindValidation, "class %q: %v", name, err)
	}
	if parent == nil {
		switch base {
		case BaseProperty:
			parent = ClassProperty
		case BaseRelationship:
			parent = ClassRelationship
		default:
			parent = ClassConcept
		}
	}
	return &Class{name: name, base: base, parent: parent}, nil
}

// MustNewClass is like NewClass but panics on error.
// Intended for package-level class tables with known-good entries.
func MustNewClass(name string, base Base, parent *Class) *Class {
	c, err := NewClass(name, base, parent)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the class name.
func (c *Class) Name() string { return c.name }

// Base returns the base abstraction the class specializes.
func (c *Class) Base() Base { return c.base }

// Parent returns the parent class. The root class is its own parent.
func (c *Class) Parent() *Class { return c.parent }

// ConformsTo reports whether the class is k or a descendant of k.
// The walk terminates at the reflexive root.
func (c *Class) ConformsTo(k *Class) bool {
	if c == nil || k == nil {
		return false
	}
	for cur := c; ; cur = cur.parent {
		if cur == k {
			return true
		}
		if cur.parent == nil || cur.parent == cur {
			return false
		}
	}
}

// Registry holds the known class tags for a society, keyed by name.
// A new registry is pre-seeded with the three root classes. The registry is
// safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]*Class
}

// NewRegistry creates a registry containing the root Concept, Property, and
// Relationship classes.
func NewRegistry() *Registry {
	return &Registry{
		classes: map[string]*Class{
			ClassConcept.Name():      ClassConcept,
			ClassProperty.Name():     ClassProperty,
			ClassRelationship.Name(): ClassRelationship,
		},
	}
}

// Register adds a class to the registry.
// Registering the same *Class twice is a no-op; registering a different class
// under an already-taken name is a KindValidation error.
func (r *Registry) Register(c *Class) error {
	if c == nil {
		return NewError(KindTypeMismatch, "class is not well-formed")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.classes[c.name]; ok {
		if existing == c {
			return nil
		}
		return NewError(KindValidation, "class %q is already registered", c.name)
	}
	r.classes[c.name] = c
	return nil
}

// Alias registers an additional name for an already-registered class.
// Vocabularies use this for synonym entries (Action for Event, PartOf for
// ComponentOf) without minting a second class identity.
func (r *Registry) Alias(name string, c *Class) error {
	if c == nil {
		return NewError(KindTypeMismatch, "class is not well-formed")
	}
	if name == "" {
		return NewError(KindValidation, "alias name cannot be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.classes[name]; ok {
		if existing == c {
			return nil
		}
		return NewError(KindValidation, "class %q is already registered", name)
	}
	r.classes[name] = c
	return nil
}

// Lookup returns the class registered under name.
func (r *Registry) Lookup(name string) (*Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.classes[name]
	return c, ok
}

// Registered reports whether exactly this class tag is known to the registry.
func (r *Registry) Registered(c *Class) bool {
	if c == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.classes[c.name] == c
}

// Classes returns all distinct registered classes sorted by name.
// Aliases do not produce duplicate entries.
func (r *Registry) Classes() []*Class {
	r.mu.RLock()
	seen := make(map[*Class]struct{}, len(r.classes))
	out := make([]*Class, 0, len(r.classes))
	for _, c := range r.classes {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// NumberOfClasses returns the count of registered names, aliases included.
func (r *Registry) NumberOfClasses() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.classes)
}
