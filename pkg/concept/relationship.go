package concept

import (
	"fmt"
	"iter"
	"sort"
	"sync"
)

// EdgeSelector picks one of a relationship's two edges.
type EdgeSelector int

const (
	// Edge1 selects the first edge.
	Edge1 EdgeSelector = iota + 1

	// Edge2 selects the second edge.
	Edge2
)

// Validate checks if the EdgeSelector is a valid enum value.
func (e EdgeSelector) Validate() error {
	switch e {
	case Edge1, Edge2:
		return nil
	default:
		return fmt.Errorf("unknown edge selector: %d", e)
	}
}

// EdgeRef is a non-owning back-reference from a relationship edge to either a
// concrete Concept or a Concept class. Exactly one of the two is set in a
// well-formed reference; the zero value is unresolved.
type EdgeRef struct {
	concept *Concept
	class   *Class
}

// EdgeOf references a concrete concept.
func EdgeOf(c *Concept) EdgeRef { return EdgeRef{concept: c} }

// EdgeOfClass references a concept class, standing for all current and
// future instances of that class.
func EdgeOfClass(k *Class) EdgeRef { return EdgeRef{class: k} }

// Concept returns the referenced concept, or nil for a class reference.
func (e EdgeRef) Concept() *Concept { return e.concept }

// Class returns the referenced class, or nil for an instance reference.
func (e EdgeRef) Class() *Class { return e.class }

// IsClass reports whether the reference designates a concept class.
func (e EdgeRef) IsClass() bool { return e.class != nil }

// Resolved reports whether the reference designates anything at all.
// A relationship may never carry an unresolved edge.
func (e EdgeRef) Resolved() bool { return e.concept != nil || e.class != nil }

// Relationship is a typed, attributed edge between two Concept references.
// Its primary responsibility is to define the meaning of how two concepts
// (or concept classes) are connected. Each edge carries its own property set
// with the same one-property-per-class invariant as Concept. Edge references
// are back-references only: a relationship never owns the concepts it
// connects. All methods are safe for concurrent use.
type Relationship struct {
	mu    sync.RWMutex
	name  string
	class *Class
	edges map[EdgeSelector]EdgeRef
	props map[EdgeSelector]map[*Class]*Property
}

// NewRelationship creates a relationship of the root Relationship class.
// Returns a KindValidation error if either edge is unresolved: a
// relationship cannot exist with a dangling edge.
func NewRelationship(name string, edge1, edge2 EdgeRef) (*Relationship, error) {
	return NewRelationshipOfClass(name, ClassRelationship, edge1, edge2)
}

// NewRelationshipOfClass creates a relationship carrying the given class tag.
// Returns a KindTypeMismatch error unless the class specializes
// BaseRelationship, and a KindValidation error if either edge is unresolved.
func NewRelationshipOfClass(name string, class *Class, edge1, edge2 EdgeRef) (*Relationship, error) {
	if class == nil || class.Base() != BaseRelationship {
		return nil, NewError(KindTypeMismatch, "relationship class is not well-formed")
	}
	if !edge1.Resolved() || !edge2.Resolved() {
		return nil, NewError(KindValidation, "relationship edge is unresolved")
	}
	return &Relationship{
		name:  name,
		class: class,
		edges: map[EdgeSelector]EdgeRef{Edge1: edge1, Edge2: edge2},
		props: map[EdgeSelector]map[*Class]*Property{
			Edge1: make(map[*Class]*Property),
			Edge2: make(map[*Class]*Property),
		},
	}, nil
}

// Name returns the relationship's name.
func (r *Relationship) Name() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.name
}

// SetName sets the relationship's name.
func (r *Relationship) SetName(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.name = name
}

// Class returns the relationship's class tag.
func (r *Relationship) Class() *Class { return r.class }

// Edge returns the reference held by the selected edge.
func (r *Relationship) Edge(sel EdgeSelector) EdgeRef {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.edges[sel]
}

// SetEdge rebinds the selected edge.
// Returns a KindTypeMismatch error for an invalid selector and a
// KindValidation error for an unresolved reference.
func (r *Relationship) SetEdge(sel EdgeSelector, ref EdgeRef) error {
	if err := sel.Validate(); err != nil {
		return NewError(KindTypeMismatch, "%v", err)
	}
	if !ref.Resolved() {
		return NewError(KindValidation, "relationship edge is unresolved")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.edges[sel] = ref
	return nil
}

// References reports whether either edge designates the given concept.
func (r *Relationship) References(c *Concept) bool {
	if c == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.edges[Edge1].concept == c || r.edges[Edge2].concept == c
}

// AddEdgeProperty attaches a property to the selected edge.
// Returns a KindTypeMismatch error for an invalid selector or nil property,
// and a KindValidation error if the edge already holds a property of the
// same class.
func (r *Relationship) AddEdgeProperty(sel EdgeSelector, p *Property) error {
	if err := sel.Validate(); err != nil {
		return NewError(KindTypeMismatch, "%v", err)
	}
	if p == nil {
		return NewError(KindTypeMismatch, "edge property is not well-formed")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.props[sel][p.Class()]; exists {
		return NewError(KindValidation, "edge property of class %q already exists", p.Class().Name())
	}
	r.props[sel][p.Class()] = p
	return nil
}

// RemoveEdgeProperty detaches the property of the given class from the
// selected edge.
func (r *Relationship) RemoveEdgeProperty(sel EdgeSelector, class *Class) error {
	if err := sel.Validate(); err != nil {
		return NewError(KindTypeMismatch, "%v", err)
	}
	if class == nil {
		return NewError(KindTypeMismatch, "edge property class is not well-formed")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.props[sel][class]; !exists {
		return NewError(KindValidation, "edge property of class %q does not exist", class.Name())
	}
	delete(r.props[sel], class)
	return nil
}

// RemoveAllEdgeProperties detaches every property from the selected edge.
func (r *Relationship) RemoveAllEdgeProperties(sel EdgeSelector) error {
	if err := sel.Validate(); err != nil {
		return NewError(KindTypeMismatch, "%v", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.props[sel])
	return nil
}

// EdgePropertyExists reports whether the selected edge holds a property of
// the given class.
func (r *Relationship) EdgePropertyExists(sel EdgeSelector, class *Class) bool {
	if sel.Validate() != nil || class == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.props[sel][class]
	return exists
}

// EdgeProperty returns the selected edge's property of the given class.
func (r *Relationship) EdgeProperty(sel EdgeSelector, class *Class) (*Property, bool) {
	if sel.Validate() != nil || class == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.props[sel][class]
	return p, ok
}

// NumberOfEdgeProperties returns the count of properties on the selected edge.
func (r *Relationship) NumberOfEdgeProperties(sel EdgeSelector) int {
	if sel.Validate() != nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.props[sel])
}

// EdgeProperties iterates the selected edge's properties in class-name order.
// The sequence is a snapshot taken when iteration starts and is restartable.
func (r *Relationship) EdgeProperties(sel EdgeSelector) iter.Seq[*Property] {
	return func(yield func(*Property) bool) {
		if sel.Validate() != nil {
			return
		}
		r.mu.RLock()
		out := make([]*Property, 0, len(r.props[sel]))
		for _, p := range r.props[sel] {
			out = append(out, p)
		}
		r.mu.RUnlock()
		sort.Slice(out, func(i, j int) bool {
			return out[i].Class().Name() < out[j].Class().Name()
		})
		for _, p := range out {
			if !yield(p) {
				return
			}
		}
	}
}
