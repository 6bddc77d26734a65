// Package vocabulary ships the inherent concept catalog: the class tags a
// society can rely on being present without defining them itself. The
// catalog is pure data — each entry names a class, the base abstraction it
// specializes, and its semantic intent. No entry adds mechanism beyond the
// base Concept, Property, and Relationship contracts.
//
// The agent-facing classes (Source, Message, Channel, Status) and the
// blackboard classes (Publication, Subscription) are exported as package
// variables because the engines construct notices with them; everything else
// is reached through Register and Class.
package vocabulary

import "github.com/dyluth/warren/pkg/concept"

// Group names the taxonomy section an entry belongs to.
type Group string

const (
	GroupMeta           Group = "meta-organizational"
	GroupIdentification Group = "identification"
	GroupClassification Group = "classification"
	GroupRole           Group = "role"
	GroupCompositional  Group = "compositional"
	GroupSpatial        Group = "spatial"
	GroupTemporal       Group = "temporal"
	GroupCausal         Group = "causal"
	GroupRelational     Group = "relational"
	GroupBlackboard     Group = "blackboard"
	GroupAgent          Group = "agent"
)

// Entry describes one inherent class: its name, the base abstraction it
// specializes, its taxonomy group, optional parent (empty means the root for
// its base), synonyms, and a one-line semantic description.
type Entry struct {
	Name        string
	Base        concept.Base
	Group       Group
	Parent      string
	Aliases     []string
	Description string
}

var catalog = []Entry{
	// Meta organizational
	{Name: "Model", Base: concept.BaseConcept, Group: GroupMeta, Description: "Collection of ontologies capturing past or current state"},
	{Name: "Theory", Base: concept.BaseConcept, Group: GroupMeta, Description: "Collection of ontologies capturing potential or future state"},
	{Name: "Society", Base: concept.BaseConcept, Group: GroupMeta, Description: "Collection of collaborating agents"},
	{Name: "Layer", Base: concept.BaseConcept, Group: GroupMeta, Description: "Collection of societies at the same level of abstraction"},
	{Name: "Subsystem", Base: concept.BaseConcept, Group: GroupMeta, Description: "Collection of ontologies, agents, and blackboards"},
	{Name: "System", Base: concept.BaseConcept, Group: GroupMeta, Description: "Collection of subsystems that form a whole"},

	// Identification
	{Name: "Identity", Base: concept.BaseProperty, Group: GroupIdentification, Description: "Internal name for a concept"},
	{Name: "AliasFor", Base: concept.BaseRelationship, Group: GroupIdentification, Description: "Alternate for a concept"},
	{Name: "IsA", Base: concept.BaseRelationship, Group: GroupIdentification, Description: "Concept is an instance of another concept"},

	// Classification
	{Name: "AKindOf", Base: concept.BaseRelationship, Group: GroupClassification, Description: "Concept is a subclass of another concept"},
	{Name: "SimilarTo", Base: concept.BaseRelationship, Group: GroupClassification, Description: "Concept shares characteristics of another concept"},
	{Name: "UnlikeA", Base: concept.BaseRelationship, Group: GroupClassification, Description: "Concept has characteristics orthogonal to another concept"},

	// Role
	{Name: "Event", Base: concept.BaseConcept, Group: GroupRole, Aliases: []string{"Action", "Occurrence"}, Description: "Instance in time and space, typically demarking state change"},
	{Name: "State", Base: concept.BaseConcept, Group: GroupRole, Aliases: []string{"Condition"}, Description: "Instance or region in a landscape of potentials"},
	{Name: "Operator", Base: concept.BaseConcept, Group: GroupRole, Description: "Instigator of activity"},
	{Name: "Operand", Base: concept.BaseConcept, Group: GroupRole, Description: "Target of activity"},
	{Name: "Instrument", Base: concept.BaseConcept, Group: GroupRole, Description: "Mechanism contributing to activity"},
	{Name: "Resource", Base: concept.BaseConcept, Group: GroupRole, Description: "Finite or infinite material used for activity"},
	{Name: "Input", Base: concept.BaseConcept, Group: GroupRole, Aliases: []string{"Sensor"}, Description: "Signal entering the system boundary"},
	{Name: "Output", Base: concept.BaseConcept, Group: GroupRole, Aliases: []string{"Actuator"}, Description: "Signal leaving the system boundary"},
	{Name: "InputOutput", Base: concept.BaseConcept, Group: GroupRole, Aliases: []string{"SensorActuator"}, Description: "Signal entering and leaving the system boundary"},

	// Compositional
	{Name: "ComponentOf", Base: concept.BaseRelationship, Group: GroupCompositional, Aliases: []string{"PartOf"}, Description: "Concept is a structural part of another concept"},
	{Name: "ChildOf", Base: concept.BaseRelationship, Group: GroupCompositional, Description: "Concept is a product of another concept"},
	{Name: "ElementOf", Base: concept.BaseRelationship, Group: GroupCompositional, Description: "Concept is a functional part of another concept"},
	{Name: "MaterialOf", Base: concept.BaseRelationship, Group: GroupCompositional, Description: "Concept is an elemental part of another concept"},
	{Name: "MemberOf", Base: concept.BaseRelationship, Group: GroupCompositional, Description: "Concept is a community member of another concept"},
	{Name: "PortionOf", Base: concept.BaseRelationship, Group: GroupCompositional, Description: "Concept is a quantifiable member of another concept"},

	// Spatial
	{Name: "Location", Base: concept.BaseProperty, Group: GroupSpatial, Description: "Named place in logical or physical space"},
	{Name: "Position", Base: concept.BaseProperty, Group: GroupSpatial, Description: "Instance or region in three-dimensional space"},
	{Name: "Orientation", Base: concept.BaseProperty, Group: GroupSpatial, Description: "Absolute or relative direction in three-dimensional space"},
	{Name: "HasContactWith", Base: concept.BaseRelationship, Group: GroupSpatial, Description: "Concept has a direct connection to another concept"},
	{Name: "HasNoContactWith", Base: concept.BaseRelationship, Group: GroupSpatial, Description: "Concept has no direct connection to another concept"},
	{Name: "InteractsWith", Base: concept.BaseRelationship, Group: GroupSpatial, Description: "Concept has a collaborative connection with another concept"},
	{Name: "NoInteractionWith", Base: concept.BaseRelationship, Group: GroupSpatial, Description: "Concept has no collaborative connection with another concept"},
	{Name: "EnclosesA", Base: concept.BaseRelationship, Group: GroupSpatial, Description: "Concept contains another concept"},
	{Name: "IntersectsA", Base: concept.BaseRelationship, Group: GroupSpatial, Description: "Concept intersects another concept"},
	{Name: "PlacementIn", Base: concept.BaseRelationship, Group: GroupSpatial, Description: "Absolute position or orientation within another concept"},
	{Name: "PlacementWith", Base: concept.BaseRelationship, Group: GroupSpatial, Description: "Relative position or orientation to another concept"},

	// Temporal
	{Name: "Date", Base: concept.BaseProperty, Group: GroupTemporal, Description: "Absolute or relative date"},
	{Name: "Time", Base: concept.BaseProperty, Group: GroupTemporal, Description: "Absolute or relative time"},
	{Name: "DateTime", Base: concept.BaseProperty, Group: GroupTemporal, Description: "Date and time"},
	{Name: "Before", Base: concept.BaseRelationship, Group: GroupTemporal, Description: "Concept precedes another concept in time"},
	{Name: "After", Base: concept.BaseRelationship, Group: GroupTemporal, Description: "Concept follows another concept in time"},
	{Name: "CoOccurs", Base: concept.BaseRelationship, Group: GroupTemporal, Description: "Concept is concurrent with another concept in time"},

	// Causal
	{Name: "Goal", Base: concept.BaseConcept, Group: GroupCausal, Aliases: []string{"Aim", "Purpose", "Reason"}, Description: "Desired state"},
	{Name: "Cause", Base: concept.BaseConcept, Group: GroupCausal, Aliases: []string{"Stimuli", "Factor"}, Description: "Precipitating concept"},
	{Name: "Consequence", Base: concept.BaseConcept, Group: GroupCausal, Aliases: []string{"Result", "Response", "Effect"}, Description: "Outcome of some causal chain"},
	{Name: "PreconditionOf", Base: concept.BaseRelationship, Group: GroupCausal, Description: "Concept depends on another concept in some causal chain"},
	{Name: "ConstraintOn", Base: concept.BaseRelationship, Group: GroupCausal, Description: "Concept opposes another concept in some causal chain"},

	// Relational
	{Name: "Weight", Base: concept.BaseProperty, Group: GroupRelational, Description: "Edge property representing value-based qualification"},
	{Name: "Directed", Base: concept.BaseProperty, Group: GroupRelational, Description: "Edge property representing directionality"},
	{Name: "Describes", Base: concept.BaseRelationship, Group: GroupRelational, Aliases: []string{"Represents", "Specifies"}, Description: "Concept describes another concept"},
	{Name: "Realizes", Base: concept.BaseRelationship, Group: GroupRelational, Description: "Concept makes manifest another concept"},
	{Name: "Satisfies", Base: concept.BaseRelationship, Group: GroupRelational, Description: "Concept meets the conditions of another concept"},
	{Name: "Delivers", Base: concept.BaseRelationship, Group: GroupRelational, Description: "Concept makes manifest a concept for another concept"},
	{Name: "Influences", Base: concept.BaseRelationship, Group: GroupRelational, Description: "Concept encourages or inhibits another concept"},
	{Name: "Encourages", Base: concept.BaseRelationship, Group: GroupRelational, Description: "Concept promotes activity of another concept"},
	{Name: "Inhibits", Base: concept.BaseRelationship, Group: GroupRelational, Description: "Concept discourages activity of another concept"},

	// Blackboard
	{Name: "Publication", Base: concept.BaseRelationship, Group: GroupBlackboard, Description: "Reification of publishing or withdrawing a concept"},
	{Name: "Subscription", Base: concept.BaseRelationship, Group: GroupBlackboard, Description: "Reification of subscribing or unsubscribing"},

	// Agent
	{Name: "Source", Base: concept.BaseConcept, Group: GroupAgent, Description: "Reification of a signal source"},
	{Name: "Message", Base: concept.BaseConcept, Group: GroupAgent, Description: "Reification of a signal message"},
	{Name: "Parameters", Base: concept.BaseConcept, Group: GroupAgent, Description: "Reification of agent method parameters"},
	{Name: "Channel", Base: concept.BaseConcept, Group: GroupAgent, Description: "Reification of a connection path"},
	{Name: "Status", Base: concept.BaseConcept, Group: GroupAgent, Description: "Reification of agent state"},
}

// classes maps primary names and aliases to their class tags, built once at
// package init.
var classes = make(map[string]*concept.Class, len(catalog)*2)

// Classes the engines construct notices and sources with.
var (
	Publication  *concept.Class
	Subscription *concept.Class
	Source       *concept.Class
	Message      *concept.Class
	Parameters   *concept.Class
	Channel      *concept.Class
	Status       *concept.Class
)

func init() {
	for _, e := range catalog {
		var parent *concept.Class
		if e.Parent != "" {
			parent = classes[e.Parent]
		}
		c := concept.MustNewClass(e.Name, e.Base, parent)
		classes[e.Name] = c
		for _, alias := range e.Aliases {
			classes[alias] = c
		}
	}
	Publication = classes["Publication"]
	Subscription = classes["Subscription"]
	Source = classes["Source"]
	Message = classes["Message"]
	Parameters = classes["Parameters"]
	Channel = classes["Channel"]
	Status = classes["Status"]
}

// Catalog returns a copy of the inherent concept table.
func Catalog() []Entry {
	out := make([]Entry, len(catalog))
	copy(out, catalog)
	return out
}

// Class returns the inherent class registered under name, primary or alias,
// or nil when no such class exists.
func Class(name string) *concept.Class {
	return classes[name]
}

// Register adds every inherent class and alias to the registry.
func Register(r *concept.Registry) error {
	for _, e := range catalog {
		c := classes[e.Name]
		if err := r.Register(c); err != nil {
			return err
		}
		for _, alias := range e.Aliases {
			if err := r.Alias(alias, c); err != nil {
				return err
			}
		}
	}
	return nil
}

// NewRegistry returns a class registry pre-loaded with the inherent catalog.
func NewRegistry() (*concept.Registry, error) {
	r := concept.NewRegistry()
	if err := Register(r); err != nil {
		return nil, err
	}
	return r, nil
}
