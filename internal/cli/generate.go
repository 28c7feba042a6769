package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/hugo-study/backend/internal/generator"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	generateLimit   int
	generateTimeout time.Duration
	generateFormat  string
)

var generateCmd = &cobra.Command{
	Use:   "generate <neutralize|restore|stylize>",
	Short: "Derive a corpus partition with an LLM",
	Long: `Rewrites source paragraphs into a derived partition, keeping file names so
link ids carry over:

  neutralize  hugo_paragraphs  -> hugo2neutral
  restore     hugo2neutral     -> restored_hugo
  stylize     other_paragraphs -> other2hugo

Files already present in the target partition are skipped, so an interrupted
run can be resumed. Rewrites that fail validation are logged and skipped.

The backend is the Anthropic API (ANTHROPIC_API_KEY) unless --mock is set or
USE_CLI_GENERATOR=true.

Example:
  corpusctl generate neutralize --limit 20
  corpusctl generate restore --model claude-sonnet-4-5 --timeout 1h`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().IntVar(&generateLimit, "limit", 0, "maximum number of files to write (0 = no limit)")
	generateCmd.Flags().DurationVar(&generateTimeout, "timeout", 30*time.Minute, "total timeout for the run")
	generateCmd.Flags().StringVar(&generateFormat, "format", "yaml", "report format (yaml, json)")
	generateCmd.Flags().Bool("mock", false, "use the mock backend")
	generateCmd.Flags().String("model", "", "Anthropic model (overrides ANTHROPIC_MODEL)")

	_ = viper.BindPFlag("mock_generator", generateCmd.Flags().Lookup("mock"))
	_ = viper.BindPFlag("anthropic_model", generateCmd.Flags().Lookup("model"))
}

func runGenerate(cmd *cobra.Command, args []string) error {
	transform, err := generator.ParseTransform(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	gen := newGenerator()
	fmt.Fprintf(os.Stderr, "Generating %s (%s -> %s) with %s\n",
		transform, transform.Source(), transform.Target(), gen.ModelName())

	report, err := gen.Run(ctx, openCorpus(), transform, generateLimit)
	if report != nil {
		if rerr := render(os.Stdout, generateFormat, report); rerr != nil && err == nil {
			err = rerr
		}
	}
	return err
}

func newGenerator() *generator.Generator {
	if viper.GetBool("mock_generator") {
		return generator.NewGeneratorWithClient(generator.NewMockClient(), "mock")
	}
	if model := viper.GetString("anthropic_model"); model != "" {
		return generator.NewGeneratorWithClient(generator.NewAPIClient(model), model)
	}
	return generator.NewGenerator()
}
