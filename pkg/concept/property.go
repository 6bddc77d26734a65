package concept

import "sync"

// Property reifies a name/value characteristic of a Concept or of a
// Relationship edge. A map would also hold name/value pairs, but a Property
// is a subtly different abstraction: reifying the pair makes it possible to
// define distinct Property classes and to hand individual instances around.
// A Property is exclusively owned by the single Concept or edge it
// characterizes and has no independent lifecycle.
//
// The value is deliberately untyped; value validation belongs to the
// vocabulary that defines the property class.
type Property struct {
	mu    sync.RWMutex
	name  string
	class *Class
	value any
}

// NewProperty creates a property of the root Property class.
func NewProperty(name string, value any) *Property {
	return &Property{name: name, class: ClassProperty, value: value}
}

// NewPropertyOfClass creates a property carrying the given class tag.
// Returns a KindTypeMismatch error unless the class specializes BaseProperty.
func NewPropertyOfClass(name string, class *Class, value any) (*Property, error) {
	if class == nil || class.Base() != BaseProperty {
		return nil, NewError(KindTypeMismatch, "property class is not well-formed")
	}
	return &Property{name: name, class: class, value: value}, nil
}

// Name returns the property's name.
func (p *Property) Name() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.name
}

// SetName sets the property's name. Names are not validated beyond presence.
func (p *Property) SetName(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.name = name
}

// Class returns the property's class tag.
func (p *Property) Class() *Class { return p.class }

// Value returns the property's value.
func (p *Property) Value() any {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.value
}

// SetValue sets the property's value.
func (p *Property) SetValue(value any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value = value
}
