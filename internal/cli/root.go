package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hugo-study/backend/internal/corpus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "corpusctl",
	Short: "Operate the Hugo style study corpus",
	Long: `corpusctl inspects and maintains the paragraph corpus behind the
Hugo style perception study.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (HUGO_STUDY_*)
3. Config file (~/.hugo-study/config.yaml)
4. Defaults`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.hugo-study/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("data", "data", "corpus root directory")
	rootCmd.PersistentFlags().String("mask-marker", corpus.DefaultMaskMarker, "mask token stored in corpus files")
	rootCmd.PersistentFlags().String("mask-display", corpus.DefaultMaskDisplay, "what the mask token is shown as")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("data_path", rootCmd.PersistentFlags().Lookup("data"))
	_ = viper.BindPFlag("mask_marker", rootCmd.PersistentFlags().Lookup("mask-marker"))
	_ = viper.BindPFlag("mask_display", rootCmd.PersistentFlags().Lookup("mask-display"))
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.hugo-study")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// HUGO_STUDY_DATA_PATH, HUGO_STUDY_MASK_MARKER, ...
	viper.SetEnvPrefix("HUGO_STUDY")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

func openCorpus() *corpus.Corpus {
	return corpus.New(viper.GetString("data_path"), corpus.Options{
		MaskMarker:  viper.GetString("mask_marker"),
		MaskDisplay: viper.GetString("mask_display"),
	})
}

// render writes v as YAML or indented JSON.
func render(w io.Writer, format string, v interface{}) error {
	switch format {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (want yaml or json)", format)
	}
}
