package ontology

import (
	"iter"
	"sort"
	"sync"

	"github.com/dyluth/warren/pkg/concept"
)

// Ontology is a closed, complete collection of concepts and relationships.
//
// Closed: every relationship edge resolves to a concept in this ontology's
// concept set, or to a class registered with this ontology's registry.
// Complete: no relationship carries an unresolved edge. Both invariants hold
// after every successful operation; every mutating operation either fully
// succeeds or leaves the ontology exactly as it was.
//
// All operations are linearizable: a single RWMutex orders them, so each
// mutation takes effect atomically between invocation and return, and
// readers never observe a state that violates closure or completeness.
// Iteration is snapshot-at-start: the sequence reflects the membership at
// the moment iteration begins and ignores concurrent mutation.
type Ontology struct {
	mu            sync.RWMutex
	name          string
	registry      *concept.Registry
	concepts      map[*concept.Concept]struct{}
	relationships map[*concept.Relationship]struct{}
}

// New creates an empty ontology. When registry is nil, a fresh registry
// holding only the root classes is used for class-edge closure checks.
func New(name string, registry *concept.Registry) *Ontology {
	if registry == nil {
		registry = concept.NewRegistry()
	}
	return &Ontology{
		name:          name,
		registry:      registry,
		concepts:      make(map[*concept.Concept]struct{}),
		relationships: make(map[*concept.Relationship]struct{}),
	}
}

// Name returns the ontology's name.
func (o *Ontology) Name() string { return o.name }

// Registry returns the class registry used for class-edge closure checks.
func (o *Ontology) Registry() *concept.Registry { return o.registry }

// AddConcept adds a concept to the ontology. Concepts may share a name and
// remain distinct members; identity is the instance.
// Returns a KindTypeMismatch error for a nil concept and a KindValidation
// error for a concept already present.
func (o *Ontology) AddConcept(c *concept.Concept) error {
	if c == nil {
		return concept.NewError(concept.KindTypeMismatch, "concept is not well-formed")
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, exists := o.concepts[c]; exists {
		return concept.NewError(concept.KindValidation, "concept %q already exists", c.Name())
	}
	o.concepts[c] = struct{}{}
	return nil
}

// RemoveConcept removes a concept from the ontology.
//
// Without cascade, removing a bound concept fails with a
// KindReferentialIntegrity error and the ontology is unchanged. With
// cascade, every relationship referencing the concept is removed together
// with the concept in one atomic step: no intermediate state violating
// closure is observable.
func (o *Ontology) RemoveConcept(c *concept.Concept, cascade bool) error {
	if c == nil {
		return concept.NewError(concept.KindTypeMismatch, "concept is not well-formed")
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, exists := o.concepts[c]; !exists {
		return concept.NewError(concept.KindValidation, "concept %q does not exist", c.Name())
	}

	var referencing []*concept.Relationship
	for r := range o.relationships {
		if r.References(c) {
			referencing = append(referencing, r)
		}
	}
	if len(referencing) > 0 && !cascade {
		return concept.NewError(concept.KindReferentialIntegrity,
			"concept %q is bound by %d relationship(s)", c.Name(), len(referencing))
	}
	for _, r := range referencing {
		delete(o.relationships, r)
	}
	delete(o.concepts, c)
	return nil
}

// RemoveAllConcepts unconditionally empties the ontology.
// Relationships are cleared together with the concepts, so closure holds
// throughout.
func (o *Ontology) RemoveAllConcepts() {
	o.mu.Lock()
	defer o.mu.Unlock()
	clear(o.relationships)
	clear(o.concepts)
}

// ConceptExists reports whether the concept is a member of the ontology.
func (o *Ontology) ConceptExists(c *concept.Concept) bool {
	if c == nil {
		return false
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	_, exists := o.concepts[c]
	return exists
}

// NumberOfConcepts returns the count of member concepts.
func (o *Ontology) NumberOfConcepts() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.concepts)
}

// Concepts iterates the member concepts matching the filter, in name order.
// The sequence is a snapshot taken when iteration starts and is restartable.
func (o *Ontology) Concepts(f concept.Filter) iter.Seq[*concept.Concept] {
	return func(yield func(*concept.Concept) bool) {
		for _, c := range o.snapshotConcepts(f) {
			if !yield(c) {
				return
			}
		}
	}
}

// AddRelationship adds a relationship to the ontology.
//
// The relationship must be closed: a concept edge must reference a member of
// this ontology, and a class edge must reference a class registered with
// this ontology's registry. Returns a KindValidation error otherwise, or for
// a relationship already present; the ontology is unchanged on failure.
// On success both referenced concepts become bound.
func (o *Ontology) AddRelationship(r *concept.Relationship) error {
	if r == nil {
		return concept.NewError(concept.KindTypeMismatch, "relationship is not well-formed")
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, exists := o.relationships[r]; exists {
		return concept.NewError(concept.KindValidation, "relationship %q already exists", r.Name())
	}
	for _, sel := range []concept.EdgeSelector{concept.Edge1, concept.Edge2} {
		if err := o.edgeResolves(r.Edge(sel)); err != nil {
			return err
		}
	}
	o.relationships[r] = struct{}{}
	return nil
}

// edgeResolves checks one edge against the closure invariant.
// Caller holds the lock.
func (o *Ontology) edgeResolves(e concept.EdgeRef) error {
	if e.IsClass() {
		if !o.registry.Registered(e.Class()) {
			return concept.NewError(concept.KindValidation,
				"relationship is not closed: class %q is not registered", e.Class().Name())
		}
		return nil
	}
	if _, member := o.concepts[e.Concept()]; !member {
		return concept.NewError(concept.KindValidation,
			"relationship is not closed: concept %q is not a member", e.Concept().Name())
	}
	return nil
}

// RemoveRelationship removes a relationship from the ontology.
func (o *Ontology) RemoveRelationship(r *concept.Relationship) error {
	if r == nil {
		return concept.NewError(concept.KindTypeMismatch, "relationship is not well-formed")
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, exists := o.relationships[r]; !exists {
		return concept.NewError(concept.KindValidation, "relationship %q does not exist", r.Name())
	}
	delete(o.relationships, r)
	return nil
}

// RemoveAllRelationships removes every relationship, leaving every concept
// unbound.
func (o *Ontology) RemoveAllRelationships() {
	o.mu.Lock()
	defer o.mu.Unlock()
	clear(o.relationships)
}

// RelationshipExists reports whether the relationship is a member.
func (o *Ontology) RelationshipExists(r *concept.Relationship) bool {
	if r == nil {
		return false
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	_, exists := o.relationships[r]
	return exists
}

// NumberOfRelationships returns the count of member relationships.
func (o *Ontology) NumberOfRelationships() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.relationships)
}

// Relationships iterates the member relationships matching the filter, in
// name order. Snapshot-at-start, restartable.
func (o *Ontology) Relationships(f concept.Filter) iter.Seq[*concept.Relationship] {
	return func(yield func(*concept.Relationship) bool) {
		o.mu.RLock()
		out := make([]*concept.Relationship, 0, len(o.relationships))
		for r := range o.relationships {
			if f.Matches(r) {
				out = append(out, r)
			}
		}
		o.mu.RUnlock()
		sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
		for _, r := range out {
			if !yield(r) {
				return
			}
		}
	}
}

// ConceptIsBound reports whether the concept participates in at least one
// relationship in the ontology.
func (o *Ontology) ConceptIsBound(c *concept.Concept) bool {
	if c == nil {
		return false
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.isBound(c)
}

// isBound checks relationship participation. Caller holds the lock.
func (o *Ontology) isBound(c *concept.Concept) bool {
	for r := range o.relationships {
		if r.References(c) {
			return true
		}
	}
	return false
}

// NumberOfBoundConcepts returns the count of member concepts participating
// in at least one relationship.
func (o *Ontology) NumberOfBoundConcepts() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	n := 0
	for c := range o.concepts {
		if o.isBound(c) {
			n++
		}
	}
	return n
}

// NumberOfUnboundConcepts returns the count of member concepts participating
// in no relationship.
func (o *Ontology) NumberOfUnboundConcepts() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	n := 0
	for c := range o.concepts {
		if !o.isBound(c) {
			n++
		}
	}
	return n
}

// BoundConcepts iterates the bound member concepts matching the filter, in
// name order. Snapshot-at-start, restartable.
func (o *Ontology) BoundConcepts(f concept.Filter) iter.Seq[*concept.Concept] {
	return o.boundness(f, true)
}

// UnboundConcepts iterates the unbound member concepts matching the filter,
// in name order. Snapshot-at-start, restartable.
func (o *Ontology) UnboundConcepts(f concept.Filter) iter.Seq[*concept.Concept] {
	return o.boundness(f, false)
}

func (o *Ontology) boundness(f concept.Filter, bound bool) iter.Seq[*concept.Concept] {
	return func(yield func(*concept.Concept) bool) {
		o.mu.RLock()
		out := make([]*concept.Concept, 0, len(o.concepts))
		for c := range o.concepts {
			if o.isBound(c) == bound && f.Matches(c) {
				out = append(out, c)
			}
		}
		o.mu.RUnlock()
		sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
		for _, c := range out {
			if !yield(c) {
				return
			}
		}
	}
}

func (o *Ontology) snapshotConcepts(f concept.Filter) []*concept.Concept {
	o.mu.RLock()
	out := make([]*concept.Concept, 0, len(o.concepts))
	for c := range o.concepts {
		if f.Matches(c) {
			out = append(out, c)
		}
	}
	o.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
