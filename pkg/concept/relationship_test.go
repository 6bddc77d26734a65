package concept

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRelationship(t *testing.T) {
	door := New("Door")
	room := New("Room")

	t.Run("connects two concepts", func(t *testing.T) {
		partOf, err := NewRelationship("PartOf", EdgeOf(door), EdgeOf(room))
		require.NoError(t, err)
		assert.Equal(t, door, partOf.Edge(Edge1).Concept())
		assert.Equal(t, room, partOf.Edge(Edge2).Concept())
		assert.Equal(t, ClassRelationship, partOf.Class())
	})

	t.Run("connects a concept to a class", func(t *testing.T) {
		event := MustNewClass("Event", BaseConcept, nil)
		isA, err := NewRelationship("IsA", EdgeOf(door), EdgeOfClass(event))
		require.NoError(t, err)
		assert.True(t, isA.Edge(Edge2).IsClass())
		assert.Equal(t, event, isA.Edge(Edge2).Class())
	})

	t.Run("rejects an unresolved edge", func(t *testing.T) {
		_, err := NewRelationship("PartOf", EdgeOf(door), EdgeRef{})
		assert.True(t, IsValidation(err))
		_, err = NewRelationship("PartOf", EdgeOf(nil), EdgeOf(room))
		assert.True(t, IsValidation(err))
	})

	t.Run("rejects a non-relationship class", func(t *testing.T) {
		_, err := NewRelationshipOfClass("PartOf", ClassConcept, EdgeOf(door), EdgeOf(room))
		assert.True(t, IsTypeMismatch(err))
	})
}

func TestSetEdge(t *testing.T) {
	door := New("Door")
	room := New("Room")
	hall := New("Hall")

	r, err := NewRelationship("PartOf", EdgeOf(door), EdgeOf(room))
	require.NoError(t, err)

	t.Run("rebinds", func(t *testing.T) {
		require.NoError(t, r.SetEdge(Edge2, EdgeOf(hall)))
		assert.Equal(t, hall, r.Edge(Edge2).Concept())
	})

	t.Run("rejects an unresolved rebind", func(t *testing.T) {
		err := r.SetEdge(Edge2, EdgeRef{})
		assert.True(t, IsValidation(err))
		assert.Equal(t, hall, r.Edge(Edge2).Concept())
	})

	t.Run("rejects a bad selector", func(t *testing.T) {
		err := r.SetEdge(EdgeSelector(7), EdgeOf(door))
		assert.True(t, IsTypeMismatch(err))
	})
}

func TestReferences(t *testing.T) {
	door := New("Door")
	room := New("Room")
	hall := New("Hall")

	r, err := NewRelationship("PartOf", EdgeOf(door), EdgeOf(room))
	require.NoError(t, err)

	assert.True(t, r.References(door))
	assert.True(t, r.References(room))
	assert.False(t, r.References(hall))
	assert.False(t, r.References(nil))
}

func TestEdgeProperties(t *testing.T) {
	weight := MustNewClass("Weight", BaseProperty, nil)
	directed := MustNewClass("Directed", BaseProperty, nil)

	door := New("Door")
	room := New("Room")
	r, err := NewRelationship("PartOf", EdgeOf(door), EdgeOf(room))
	require.NoError(t, err)

	t.Run("edges hold independent property sets", func(t *testing.T) {
		w, err := NewPropertyOfClass("weight", weight, 0.8)
		require.NoError(t, err)
		require.NoError(t, r.AddEdgeProperty(Edge1, w))

		assert.True(t, r.EdgePropertyExists(Edge1, weight))
		assert.False(t, r.EdgePropertyExists(Edge2, weight))
		assert.Equal(t, 1, r.NumberOfEdgeProperties(Edge1))
		assert.Equal(t, 0, r.NumberOfEdgeProperties(Edge2))
	})

	t.Run("one property per class per edge", func(t *testing.T) {
		w, err := NewPropertyOfClass("weight", weight, 0.2)
		require.NoError(t, err)
		err = r.AddEdgeProperty(Edge1, w)
		assert.True(t, IsValidation(err))
	})

	t.Run("lookup and remove", func(t *testing.T) {
		d, err := NewPropertyOfClass("directed", directed, true)
		require.NoError(t, err)
		require.NoError(t, r.AddEdgeProperty(Edge2, d))

		got, ok := r.EdgeProperty(Edge2, directed)
		require.True(t, ok)
		assert.Equal(t, true, got.Value())

		require.NoError(t, r.RemoveEdgeProperty(Edge2, directed))
		assert.True(t, IsValidation(r.RemoveEdgeProperty(Edge2, directed)))
	})

	t.Run("iteration in class-name order", func(t *testing.T) {
		d, err := NewPropertyOfClass("directed", directed, false)
		require.NoError(t, err)
		require.NoError(t, r.AddEdgeProperty(Edge1, d))

		var names []string
		for p := range r.EdgeProperties(Edge1) {
			names = append(names, p.Class().Name())
		}
		assert.Equal(t, []string{"Directed", "Weight"}, names)
	})

	t.Run("remove all", func(t *testing.T) {
		require.NoError(t, r.RemoveAllEdgeProperties(Edge1))
		assert.Equal(t, 0, r.NumberOfEdgeProperties(Edge1))
	})

	t.Run("rejects malformed arguments", func(t *testing.T) {
		assert.True(t, IsTypeMismatch(r.AddEdgeProperty(Edge1, nil)))
		assert.True(t, IsTypeMismatch(r.AddEdgeProperty(EdgeSelector(0), NewProperty("x", 1))))
		assert.True(t, IsTypeMismatch(r.RemoveEdgeProperty(Edge1, nil)))
	})
}

func TestPropertyValue(t *testing.T) {
	p := NewProperty("count", 3)
	assert.Equal(t, 3, p.Value())
	p.SetValue(4)
	assert.Equal(t, 4, p.Value())
	p.SetName("total")
	assert.Equal(t, "total", p.Name())
	assert.Equal(t, ClassProperty, p.Class())
}
