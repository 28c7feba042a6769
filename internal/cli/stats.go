package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/hugo-study/backend/internal/corpus"
	"github.com/hugo-study/backend/internal/models"
	"github.com/spf13/cobra"
)

var statsFormat string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Report corpus partition sizes and questionnaire capacity",
	Long: `Counts the files of every corpus partition, lists Hugo paragraphs with no
restored counterpart, and shows how many questions of each category one
questionnaire can hold before the corpus is exhausted.

Example:
  corpusctl stats
  corpusctl stats --data ./data --format json`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVar(&statsFormat, "format", "text", "output format (text, yaml, json)")
}

type capacity struct {
	Category  models.QuestionCategory `json:"category" yaml:"category"`
	Max       int                     `json:"max" yaml:"max"`
	Unbounded bool                    `json:"unbounded,omitempty" yaml:"unbounded,omitempty"`
}

type corpusReport struct {
	Root            string                           `json:"root" yaml:"root"`
	Partitions      map[models.ParagraphCategory]int `json:"partitions" yaml:"partitions"`
	MissingRestored []string                         `json:"missing_restored" yaml:"missing_restored"`
	Malformed       []string                         `json:"malformed,omitempty" yaml:"malformed,omitempty"`
	Capacity        []capacity                       `json:"capacity" yaml:"capacity"`
}

func runStats(cmd *cobra.Command, args []string) error {
	report, err := buildReport(openCorpus())
	if err != nil {
		return err
	}
	if statsFormat == "text" {
		printReport(os.Stdout, report)
		return nil
	}
	return render(os.Stdout, statsFormat, report)
}

// buildReport computes what one questionnaire can draw from c. A contrastive
// category is capped by the Hugo pool (references are never reused within a
// category) and needs a non-empty counter pool. Irrelevant questions reuse
// freely but fail when the sampled partition is empty.
func buildReport(c *corpus.Corpus) (*corpusReport, error) {
	counts, err := c.Stats()
	if err != nil {
		return nil, fmt.Errorf("count partitions: %w", err)
	}

	report := &corpusReport{
		Root:            c.Root(),
		Partitions:      counts,
		MissingRestored: []string{},
	}

	restored, err := c.Keys(models.CategoryRestored)
	if err != nil {
		return nil, err
	}
	restoredLinks := map[int]bool{}
	for _, key := range restored {
		if fn, err := corpus.ParseKey(key); err == nil && fn.HasLinkID {
			restoredLinks[fn.LinkID] = true
		}
	}

	hugo, err := c.Keys(models.CategoryHugo)
	if err != nil {
		return nil, err
	}
	for _, key := range hugo {
		fn, err := corpus.ParseKey(key)
		if err != nil {
			report.Malformed = append(report.Malformed, key)
			continue
		}
		if !fn.HasLinkID || !restoredLinks[fn.LinkID] {
			report.MissingRestored = append(report.MissingRestored, key)
		}
	}

	contrast := func(category models.QuestionCategory, pool models.ParagraphCategory) capacity {
		if counts[pool] == 0 {
			return capacity{Category: category}
		}
		return capacity{Category: category, Max: counts[models.CategoryHugo]}
	}

	allFilled := true
	for _, n := range counts {
		if n == 0 {
			allFilled = false
		}
	}

	report.Capacity = []capacity{
		contrast(models.QuestionHugoVsOther, models.CategoryOther),
		contrast(models.QuestionHugoVsNeutralized, models.CategoryNeutralized),
		contrast(models.QuestionHugoVsOther2Hugo, models.CategoryOther2Hugo),
		{Category: models.QuestionHugoVsRestored, Max: len(hugo) - len(report.Malformed) - len(report.MissingRestored)},
		{Category: models.QuestionIrrelevant, Unbounded: allFilled},
	}
	return report, nil
}

func printReport(w io.Writer, r *corpusReport) {
	fmt.Fprintf(w, "Corpus: %s\n\n", r.Root)

	fmt.Fprintln(w, "Partitions:")
	for _, category := range models.AllParagraphCategories {
		fmt.Fprintf(w, "  %-20s %6d\n", category, r.Partitions[category])
	}

	fmt.Fprintln(w, "\nCapacity per questionnaire:")
	for _, c := range r.Capacity {
		limit := strconv.Itoa(c.Max)
		if c.Unbounded {
			limit = "unbounded"
		}
		fmt.Fprintf(w, "  %-20s %9s\n", c.Category, limit)
	}

	if len(r.MissingRestored) > 0 {
		fmt.Fprintf(w, "\nHugo paragraphs without a restored counterpart (%d):\n", len(r.MissingRestored))
		for _, key := range r.MissingRestored {
			fmt.Fprintf(w, "  %s\n", key)
		}
	}
	if len(r.Malformed) > 0 {
		fmt.Fprintf(w, "\nMalformed file names (%d):\n", len(r.Malformed))
		for _, key := range r.Malformed {
			fmt.Fprintf(w, "  %s\n", key)
		}
	}
}
