package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/ats-scorer/internal/document"
	"github.com/spigell/ats-scorer/internal/logger"
)

var skillsCmd = &cobra.Command{
	Use:   "skills FILE",
	Short: "Print the canonical skills found in a document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
		if err != nil {
			log.Fatalf("creating a logger: %s", err)
		}
		defer logger.Sync()

		config, err := getConfig()
		if err != nil {
			logger.Fatal("getting a config", zap.Error(err))
		}
		if config == nil {
			config = &Config{}
		}

		text, err := document.ReadFile(args[0])
		if err != nil {
			logger.Fatal("reading document", zap.Error(err))
		}

		extractor, err := newExtractor(config, logger)
		if err != nil {
			logger.Fatal("building the skill extractor", zap.Error(err))
		}

		exact := extractor.Exact(text)
		found := extractor.Extract(text)

		out := cmd.OutOrStdout()
		for _, skill := range found.Sorted() {
			if exact.Has(skill) || !mustBool(cmd, "show-fuzzy") {
				fmt.Fprintln(out, skill)
				continue
			}
			fmt.Fprintf(out, "%s (fuzzy)\n", skill)
		}

		logger.Debug("skills printed", zap.Int("count", found.Len()), zap.String("file", args[0]))
	},
}

func init() {
	rootCmd.AddCommand(skillsCmd)

	skillsCmd.Flags().Bool("show-fuzzy", false, "mark skills found only by the fuzzy pass")
}
