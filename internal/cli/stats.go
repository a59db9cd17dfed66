package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"gendata/internal/adapter/analyzer"
	"gendata/internal/adapter/emitter"
	"gendata/internal/domain"
)

var statsCmd = &cobra.Command{
	Use:   "stats <file.jsonl>...",
	Short: "Validate and summarize training data files",
	Long: `Read JSONL artifacts written by gendata, check that every record holds the
system, user and assistant messages in order, and print simple size statistics.

Examples:
  gendata stats training_data.jsonl
  gendata stats comment_based_training_data.jsonl training_data.jsonl`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// ArtifactStats summarizes one JSONL artifact.
type ArtifactStats struct {
	Records          int
	Invalid          int
	AvgPromptChars   float64
	AvgResponseChars float64
	MaxResponseChars int
	EstimatedTokens  int
}

func summarize(records []domain.TrainingRecord) ArtifactStats {
	var s ArtifactStats
	var promptChars, responseChars int
	for _, r := range records {
		s.Records++
		if r.Validate() != nil {
			s.Invalid++
			continue
		}
		prompt, response := r.Content(domain.MessageUser), r.Content(domain.MessageAssistant)
		s.EstimatedTokens += analyzer.EstimateTokens(r.Content(domain.MessageSystem)) +
			analyzer.EstimateTokens(prompt) + analyzer.EstimateTokens(response)
		promptChars += len(prompt)
		n := len(response)
		responseChars += n
		if n > s.MaxResponseChars {
			s.MaxResponseChars = n
		}
	}
	if valid := s.Records - s.Invalid; valid > 0 {
		s.AvgPromptChars = float64(promptChars) / float64(valid)
		s.AvgResponseChars = float64(responseChars) / float64(valid)
	}
	return s
}

func runStats(cmd *cobra.Command, args []string) error {
	invalid := 0
	for _, path := range args {
		records, err := emitter.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		s := summarize(records)
		invalid += s.Invalid

		fmt.Printf("%s:\n", path)
		fmt.Printf("  Records:            %d\n", s.Records)
		fmt.Printf("  Invalid:            %d\n", s.Invalid)
		fmt.Printf("  Avg prompt chars:   %.1f\n", s.AvgPromptChars)
		fmt.Printf("  Avg response chars: %.1f\n", s.AvgResponseChars)
		fmt.Printf("  Max response chars: %d\n", s.MaxResponseChars)
		fmt.Printf("  Estimated tokens:   %d\n", s.EstimatedTokens)
	}
	if invalid > 0 {
		return fmt.Errorf("%d invalid records", invalid)
	}
	return nil
}
