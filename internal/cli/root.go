package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/byq630/us-census-income-analysis/internal/config"
	"github.com/byq630/us-census-income-analysis/internal/logger"
	"github.com/byq630/us-census-income-analysis/pkg/schema"
)

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries the state shared by the subcommands once the root command has
// loaded the configuration.
type app struct {
	envFile    string
	debug      bool
	dictionary string
	layout     string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:          "census",
		Short:        "Encode, explore and score the census-income dataset",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.init()
		},
	}

	cmd.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file read before the environment")
	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&a.dictionary, "dictionary", "", "data dictionary (.yaml, or the raw column listing); overrides CENSUS_DICTIONARY")
	cmd.PersistentFlags().StringVar(&a.layout, "layout", "", "encoder layout YAML; overrides CENSUS_ENCODING")

	cmd.AddCommand(namesCmd(a))
	cmd.AddCommand(encodeCmd(a))
	cmd.AddCommand(associationsCmd(a))
	cmd.AddCommand(evaluateCmd(a))
	return cmd
}

func (a *app) init() error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return err
	}
	if a.layout != "" {
		cfg.Encoding = a.layout
	}
	if a.debug {
		cfg.LogLevel = "debug"
	}
	logger.Setup(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	a.cfg = cfg
	return nil
}

// loadDictionary prefers the --dictionary flag. YAML files are decoded as
// dictionaries; anything else is parsed as the raw "name: domain" listing.
func (a *app) loadDictionary() (schema.Dictionary, error) {
	if a.dictionary == "" {
		return a.cfg.DataDictionary()
	}
	if hasYAMLExt(a.dictionary) {
		return schema.LoadDictionary(a.dictionary)
	}
	f, err := os.Open(a.dictionary)
	if err != nil {
		return schema.Dictionary{}, fmt.Errorf("dictionary: %w", err)
	}
	defer f.Close()
	return schema.ParseDictionary(f)
}

func hasYAMLExt(path string) bool {
	p := strings.ToLower(path)
	return strings.HasSuffix(p, ".yaml") || strings.HasSuffix(p, ".yml")
}
