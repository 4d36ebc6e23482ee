package cmd

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/ats-scorer/internal/ai/gemini"
	"github.com/spigell/ats-scorer/internal/skills"
)

const (
	app = "ats-scorer"
)

type Config struct {
	Taxonomy   *TaxonomyConfig   `mapstructure:"taxonomy"`
	Matching   *MatchingConfig   `mapstructure:"matching"`
	Scoring    *ScoringConfig    `mapstructure:"scoring"`
	Similarity *SimilarityConfig `mapstructure:"similarity"`
}

type TaxonomyConfig struct {
	File   string `mapstructure:"file"`
	Strict bool   `mapstructure:"strict"`
}

type MatchingConfig struct {
	Fuzzy skills.Config `mapstructure:"fuzzy"`
}

type ScoringConfig struct {
	SemanticWeight float64 `mapstructure:"semantic-weight" validate:"gte=0,lte=1"`
}

type SimilarityConfig struct {
	Provider string        `mapstructure:"provider" validate:"omitempty,oneof=none gemini"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gte=0"`
	Require  bool          `mapstructure:"require"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries" validate:"gte=0,lte=10"`
	MaxLogLength int    `mapstructure:"max-log-length" validate:"gte=0"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "ats-scorer scores how well a résumé matches a job description and suggests improvements",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("similarity.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	setDefaults(viper.GetViper())

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is ats-scorer.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults(v *viper.Viper) {
	fuzzy := skills.DefaultConfig()

	v.SetDefault("taxonomy.file", "")
	v.SetDefault("taxonomy.strict", false)
	v.SetDefault("matching.fuzzy.enabled", fuzzy.FuzzyEnabled)
	v.SetDefault("matching.fuzzy.threshold", fuzzy.Threshold)
	v.SetDefault("matching.fuzzy.scorer", fuzzy.Scorer)
	v.SetDefault("matching.fuzzy.min-length", fuzzy.MinLength)
	v.SetDefault("matching.fuzzy.max-hits", fuzzy.MaxHits)
	v.SetDefault("scoring.semantic-weight", 0.55)
	v.SetDefault("similarity.provider", gemini.ProviderName)
	v.SetDefault("similarity.timeout", "30s")
	v.SetDefault("similarity.require", false)
	v.SetDefault("similarity.gemini.model", "text-embedding-004")
	v.SetDefault("similarity.gemini.max-retries", 3)
	v.SetDefault("similarity.gemini.max-log-length", 200)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless it was passed explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config == nil {
		return nil
	}

	if err := validator.New().Struct(config); err != nil {
		var invalid validator.ValidationErrors
		if !errors.As(err, &invalid) {
			return err
		}

		msgs := make([]string, 0, len(invalid))
		for _, fe := range invalid {
			msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
		}
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}

	return nil
}
