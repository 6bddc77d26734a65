package boardfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/warren/pkg/blackboard"
	"github.com/dyluth/warren/pkg/concept"
	"github.com/dyluth/warren/pkg/vocabulary"
)

type fakeAgent struct{ id string }

func (a *fakeAgent) ID() string { return a.id }

func (a *fakeAgent) Signal(source, m *concept.Concept) {}

func populatedBoard(t *testing.T) *blackboard.Board {
	t.Helper()
	board := blackboard.New("garden", nil)
	publisher := &fakeAgent{id: "publisher-1"}
	watcher := &fakeAgent{id: "watcher-1"}

	alarm, err := concept.NewOfClass("alarm", vocabulary.Class("Event"))
	require.NoError(t, err)
	require.NoError(t, board.Publish(alarm, publisher))
	require.NoError(t, board.Subscribe(alarm, watcher))
	require.NoError(t, board.Publish(concept.New("plain"), publisher))
	return board
}

func TestFormatConceptTable(t *testing.T) {
	t.Run("formats published concepts", func(t *testing.T) {
		var buf bytes.Buffer
		n := FormatConceptTable(&buf, populatedBoard(t))

		assert.Equal(t, 2, n)
		out := buf.String()
		assert.Contains(t, out, "Concepts on board 'garden'")
		assert.Contains(t, out, "NAME")
		assert.Contains(t, out, "alarm")
		assert.Contains(t, out, "Event")
		assert.Contains(t, out, "publisher-1")
		assert.Contains(t, out, "2 concepts published")
	})

	t.Run("empty board", func(t *testing.T) {
		var buf bytes.Buffer
		n := FormatConceptTable(&buf, blackboard.New("garden", nil))

		assert.Equal(t, 0, n)
		assert.Contains(t, buf.String(), "No concepts published on board 'garden'")
	})
}

func TestFormatConceptJSONL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatConceptJSONL(&buf, populatedBoard(t)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "alarm", first["name"])
	assert.Equal(t, "Event", first["class"])
	assert.Equal(t, "publisher-1", first["publisher"])
	assert.Equal(t, []any{"watcher-1"}, first["subscribers"])
}

func TestFormatVocabularyTable(t *testing.T) {
	var buf bytes.Buffer
	n := FormatVocabularyTable(&buf)

	assert.Equal(t, len(vocabulary.Catalog()), n)
	out := buf.String()
	assert.Contains(t, out, "BASE")
	assert.Contains(t, out, "Event*")
	assert.Contains(t, out, "Publication")
	assert.Contains(t, out, "classes (* has aliases)")
}

func TestFormatVocabularyJSONL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatVocabularyJSONL(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, len(vocabulary.Catalog()))

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.NotEmpty(t, first["Name"])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, strings.Repeat("a", 10), truncate(strings.Repeat("a", 10), 10))
	assert.Equal(t, strings.Repeat("a", 9)+"…", truncate(strings.Repeat("a", 11), 10))
}
