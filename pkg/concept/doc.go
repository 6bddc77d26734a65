// Package concept provides the foundational abstractions of the Warren
// knowledge substrate: Concept, Property, Relationship, and the class-tag
// registry that types them.
//
// # Overview
//
// A Concept is a named entity characterized by Properties. A Property reifies
// a single name/value characteristic and is exclusively owned by the Concept
// or Relationship edge it describes. A Relationship is a typed edge between
// two Concept references, each end carrying its own Property set.
//
// # Class tags
//
// Strict type enforcement is implemented as an explicit class-tag check
// rather than a type hierarchy. Every instance carries a *Class; classes form
// a parent chain whose root, ClassConcept, is its own parent. ConformsTo
// walks the chain, so "everything is a kind of Concept" holds without a
// circular type definition. A Registry collects the class tags a society has
// agreed on; package vocabulary ships the inherent catalog.
//
// # Errors
//
// All packages in this module report failures as *concept.Error values
// classified by ErrorKind. Use the Is* helpers to branch on a condition:
//
//	if err := o.AddRelationship(r); concept.IsValidation(err) {
//		// relationship was not closed
//	}
//
// # Concurrency
//
// Concepts and Relationships guard their own state and are safe for
// concurrent use. Iteration produces a snapshot taken when the sequence
// starts; concurrent mutation is safe and is not reflected mid-iteration.
package concept
