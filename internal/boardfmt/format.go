// Package boardfmt formats blackboard and vocabulary listings for CLI
// output.
package boardfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dyluth/warren/pkg/blackboard"
	"github.com/dyluth/warren/pkg/concept"
	"github.com/dyluth/warren/pkg/vocabulary"
)

// conceptRow is the JSONL shape of a published concept.
type conceptRow struct {
	Name        string   `json:"name"`
	Class       string   `json:"class"`
	Publisher   string   `json:"publisher,omitempty"`
	Subscribers []string `json:"subscribers,omitempty"`
}

// FormatConceptTable writes the board's published concepts as a formatted
// table. Returns the number of concepts formatted.
func FormatConceptTable(w io.Writer, board *blackboard.Board) int {
	rows := conceptRows(board)
	if len(rows) == 0 {
		fmt.Fprintf(w, "No concepts published on board '%s'\n", board.Name())
		return 0
	}

	fmt.Fprintf(w, "Concepts on board '%s':\n\n", board.Name())

	fmt.Fprintf(w, "%-24s %-16s %-38s %s\n",
		"NAME", "CLASS", "PUBLISHER", "SUBS")
	fmt.Fprintf(w, "%-24s %-16s %-38s %s\n",
		"------------------------", "----------------", "--------------------------------------", "----")

	for _, row := range rows {
		fmt.Fprintf(w, "%-24s %-16s %-38s %d\n",
			truncate(row.Name, 24),
			truncate(row.Class, 16),
			row.Publisher,
			len(row.Subscribers),
		)
	}

	countMsg := "concept"
	if len(rows) != 1 {
		countMsg = "concepts"
	}
	fmt.Fprintf(w, "\n%d %s published\n", len(rows), countMsg)

	return len(rows)
}

// FormatConceptJSONL writes the board's published concepts as line-delimited
// JSON, one concept per line. Suited to processing with tools like jq.
func FormatConceptJSONL(w io.Writer, board *blackboard.Board) error {
	for _, row := range conceptRows(board) {
		data, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("failed to marshal concept to JSON: %w", err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
			return fmt.Errorf("failed to write JSONL output: %w", err)
		}
	}
	return nil
}

// FormatVocabularyTable writes the inherent vocabulary as a formatted table
// grouped the way the catalog is grouped. Returns the number of entries.
func FormatVocabularyTable(w io.Writer) int {
	entries := vocabulary.Catalog()

	fmt.Fprintf(w, "%-12s %-20s %-18s %s\n",
		"BASE", "NAME", "GROUP", "DESCRIPTION")
	fmt.Fprintf(w, "%-12s %-20s %-18s %s\n",
		"------------", "--------------------", "------------------", "----------------------------------------")

	for _, e := range entries {
		name := e.Name
		if len(e.Aliases) > 0 {
			name = fmt.Sprintf("%s*", e.Name)
		}
		fmt.Fprintf(w, "%-12s %-20s %-18s %s\n",
			string(e.Base),
			truncate(name, 20),
			string(e.Group),
			e.Description,
		)
	}

	fmt.Fprintf(w, "\n%d classes (* has aliases)\n", len(entries))
	return len(entries)
}

// FormatVocabularyJSONL writes the inherent vocabulary as line-delimited
// JSON, one class per line.
func FormatVocabularyJSONL(w io.Writer) error {
	for _, e := range vocabulary.Catalog() {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to marshal vocabulary entry to JSON: %w", err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
			return fmt.Errorf("failed to write JSONL output: %w", err)
		}
	}
	return nil
}

func conceptRows(board *blackboard.Board) []conceptRow {
	var rows []conceptRow
	for c := range board.Concepts(concept.Filter{}) {
		row := conceptRow{
			Name:  c.Name(),
			Class: c.Class().Name(),
		}
		if publisher, err := board.Publisher(c); err == nil && publisher != nil {
			row.Publisher = publisher.ID()
		}
		if subs, err := board.Subscribers(c); err == nil {
			for _, s := range subs {
				row.Subscribers = append(row.Subscribers, s.ID())
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// truncate shortens a string for compact column display.
func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max-1] + "…"
	}
	return s
}
