package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dyluth/warren/internal/boardfmt"
	"github.com/dyluth/warren/internal/printer"
)

var vocabJSON bool

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Print the inherent vocabulary",
	Long: `Print the inherent vocabulary: the catalog of concept, property,
and relationship classes every society starts from.

By default the catalog is printed as a table. With --json, each class is
printed as one JSON object per line, suitable for piping into jq.`,
	RunE: runVocab,
}

func init() {
	vocabCmd.Flags().BoolVar(&vocabJSON, "json", false, "Emit line-delimited JSON")
	rootCmd.AddCommand(vocabCmd)
}

func runVocab(cmd *cobra.Command, args []string) error {
	if vocabJSON {
		if err := boardfmt.FormatVocabularyJSONL(os.Stdout); err != nil {
			return printer.Error("Failed to format vocabulary", err.Error(), nil)
		}
		return nil
	}
	boardfmt.FormatVocabularyTable(os.Stdout)
	return nil
}
