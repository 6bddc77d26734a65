// Package ontology provides the closed, complete collection engine over
// concepts and relationships.
//
// # Invariants
//
// Closure: every relationship edge resolves within the ontology — to a
// member concept or to a registered class. Completeness: no relationship
// carries an unresolved edge. A concept participating in at least one
// relationship is bound; removing a bound concept requires an explicit
// cascade, which removes the referencing relationships atomically with the
// concept.
//
// # Concurrency
//
// Ontologies are shared mutable resources. Every operation is linearizable;
// iteration is snapshot-at-start and never corrupted by concurrent
// mutation.
//
// # Usage Example
//
//	o := ontology.New("house", nil)
//	door := concept.New("Door")
//	room := concept.New("Room")
//	o.AddConcept(door)
//	o.AddConcept(room)
//
//	partOf, _ := concept.NewRelationship("PartOf",
//		concept.EdgeOf(door), concept.EdgeOf(room))
//	if err := o.AddRelationship(partOf); err != nil {
//		log.Fatal(err)
//	}
//	// o.ConceptIsBound(door) == true
package ontology
