package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hugo-study/backend/internal/models"
	"github.com/hugo-study/backend/internal/questionnaire"
	"github.com/spf13/cobra"
)

var (
	previewSeed   uint64
	previewDist   string
	previewFormat string
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Generate a questionnaire from the corpus without storing it",
	Long: `Runs the questionnaire engine against the corpus and prints the result,
including paragraph files and authors that participants never see.

Without --dist the default distribution is used. A seed makes the output
reproducible for an unchanged corpus.

Example:
  corpusctl preview
  corpusctl preview --seed 42 --dist "Hugo VS Other=2,Irrelevant=1" --format json`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().Uint64Var(&previewSeed, "seed", 0, "random seed (0 picks a random one)")
	previewCmd.Flags().StringVar(&previewDist, "dist", "", `distribution, e.g. "Hugo VS Other=4,Hugo VS Restored=2"`)
	previewCmd.Flags().StringVar(&previewFormat, "format", "yaml", "output format (yaml, json)")
}

type previewOutput struct {
	Seed         uint64                          `json:"seed,omitempty" yaml:"seed,omitempty"`
	Distribution map[models.QuestionCategory]int `json:"distribution" yaml:"distribution"`
	Questions    []*models.Question              `json:"questions" yaml:"questions"`
}

func runPreview(cmd *cobra.Command, args []string) error {
	dist, err := parseDistribution(previewDist)
	if err != nil {
		return err
	}
	if err := dist.Validate(); err != nil {
		return err
	}

	c := openCorpus()
	var engine *questionnaire.Engine
	if previewSeed != 0 {
		engine = questionnaire.NewSeeded(c, previewSeed)
	} else {
		engine = questionnaire.NewRandom(c)
	}

	questions, err := engine.Assemble(dist)
	if err != nil {
		return fmt.Errorf("assemble questionnaire: %w", err)
	}

	return render(os.Stdout, previewFormat, previewOutput{
		Seed:         previewSeed,
		Distribution: dist,
		Questions:    questions,
	})
}

// parseDistribution reads "Category=count" pairs separated by commas. An
// empty string selects the default distribution. Category names are checked
// later by Distribution.Validate.
func parseDistribution(s string) (questionnaire.Distribution, error) {
	if strings.TrimSpace(s) == "" {
		return questionnaire.DefaultDistribution(), nil
	}

	dist := questionnaire.Distribution{}
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		name, count, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("distribution entry %q: want Category=count", part)
		}
		n, err := strconv.Atoi(strings.TrimSpace(count))
		if err != nil {
			return nil, fmt.Errorf("distribution entry %q: %w", part, err)
		}
		category := models.QuestionCategory(strings.TrimSpace(name))
		if _, dup := dist[category]; dup {
			return nil, fmt.Errorf("distribution entry %q: category repeated", part)
		}
		dist[category] = n
	}
	return dist, nil
}
