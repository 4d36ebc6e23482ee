package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/ats-scorer/internal/advisor"
	"github.com/spigell/ats-scorer/internal/analysis"
	"github.com/spigell/ats-scorer/internal/document"
	"github.com/spigell/ats-scorer/internal/logger"
)

const (
	PromptShowReport      = "Show report"
	PromptShowSuggestions = "Show suggestions"
	PromptDumpToFile      = "Dump report to file"
	PromptExit            = "Exit"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowReport, PromptShowSuggestions, PromptDumpToFile, PromptExit},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a résumé against a job description",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("resume", "r", "", "plain text or markdown résumé file (required)")
	analyzeCmd.Flags().String("job", "", "plain text or markdown job description file")
	analyzeCmd.Flags().StringP("output", "o", "", "write the JSON report to this file")
	analyzeCmd.Flags().StringSlice("category", nil, "only show suggestions of these categories")
	analyzeCmd.Flags().BoolP("yes", "y", false, "do not prompt; print the report and exit")

	analyzeCmd.MarkFlagRequired("resume")
}

func analyze(cmd *cobra.Command) {
	ctx := context.Background()

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

	logger.Info("starting the ats-scorer", zap.String("version", version))

	categories, err := parseCategories(cmd)
	if err != nil {
		logger.Fatal("parsing suggestion categories", zap.Error(err))
	}

	interactive := !mustBool(cmd, "yes")

	resume, err := document.ReadFile(cmd.Flag("resume").Value.String())
	if err != nil {
		logger.Fatal("reading résumé", zap.Error(err))
	}

	job, err := readJob(cmd.Flag("job").Value.String(), interactive)
	if err != nil {
		logger.Fatal("reading job description", zap.Error(err))
	}

	engine, err := newEngine(config, logger)
	if err != nil {
		logger.Fatal("building the analysis engine", zap.Error(err))
	}

	for _, status := range engine.Stages() {
		logger.Debug("analysis stage", zap.String("name", status.Name), zap.Bool("enabled", status.Enabled), zap.String("reason", status.Reason))
	}

	report, err := engine.Analyze(ctx, analysis.Request{Resume: resume, JobDescription: job})
	if err != nil {
		logger.Fatal("analysis failed", zap.Error(err))
	}

	view := *report
	view.Suggestions = advisor.Filter(report.Suggestions, categories...)

	out := cmd.OutOrStdout()
	if output := cmd.Flag("output").Value.String(); output != "" {
		if err := dumpReport(&view, output, logger); err != nil {
			logger.Fatal("dumping report", zap.Error(err))
		}
	}

	if !interactive {
		if err := view.WriteText(out); err != nil {
			logger.Fatal("writing report", zap.Error(err))
		}
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, out, &view, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, out io.Writer, report *analysis.Report, logger *zap.Logger) error {
	switch action {
	case PromptShowReport:
		return report.WriteText(out)
	case PromptShowSuggestions:
		return analysis.WriteSuggestions(out, report.Suggestions)
	case PromptDumpToFile:
		return dumpReport(report, "", logger)
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func dumpReport(report *analysis.Report, path string, logger *zap.Logger) error {
	filename, err := report.DumpToFile(path)
	if err != nil {
		return fmt.Errorf("dump report to file: %w", err)
	}
	logger.Info("dumping report to file", zap.String("filename", filename))
	return nil
}

// readJob reads the job description file. In an interactive run without
// --job the path is asked for; an empty answer analyses the résumé alone.
func readJob(path string, interactive bool) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" && interactive {
		answer, err := (&promptui.Prompt{
			Label: "Job description file (empty to skip)",
			Validate: func(s string) error {
				s = strings.TrimSpace(s)
				if s == "" {
					return nil
				}
				if _, err := os.Stat(s); err != nil {
					return err
				}
				return nil
			},
		}).Run()
		if err != nil {
			return "", err
		}
		path = strings.TrimSpace(answer)
	}

	if path == "" {
		return "", nil
	}
	return document.ReadFile(path)
}

func parseCategories(cmd *cobra.Command) ([]advisor.Category, error) {
	names, err := cmd.Flags().GetStringSlice("category")
	if err != nil {
		return nil, err
	}

	categories := make([]advisor.Category, 0, len(names))
	for _, name := range names {
		c, err := advisor.ParseCategory(name)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, nil
}

func mustBool(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	return err == nil && v
}
