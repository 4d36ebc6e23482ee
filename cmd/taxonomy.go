package cmd

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/ats-scorer/internal/logger"
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Print the skill taxonomy and its alias index",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
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

		idx, err := loadIndex(config.Taxonomy, logger)
		if err != nil {
			logger.Fatal("loading taxonomy", zap.Error(err))
		}

		out := cmd.OutOrStdout()

		if !mustBool(cmd, "variants") {
			for _, canonical := range idx.Canonical() {
				if aliases := idx.Aliases(canonical); len(aliases) > 0 {
					fmt.Fprintf(out, "%s: %s\n", canonical, strings.Join(aliases, ", "))
					continue
				}
				fmt.Fprintln(out, canonical)
			}
		} else {
			for _, v := range idx.Variants() {
				fmt.Fprintf(out, "%s -> %s\n", v.Text, v.Canonical)
			}
		}

		for _, c := range idx.Collisions() {
			fmt.Fprintf(out, "collision: %q was %s, now %s\n", c.Variant, c.Previous, c.Winner)
		}
	},
}

func init() {
	rootCmd.AddCommand(taxonomyCmd)

	taxonomyCmd.Flags().Bool("variants", false, "print every variant with its canonical skill")
}
