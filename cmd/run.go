package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/hirescreen/hirescreen/internal/ai/gemini"
	"github.com/hirescreen/hirescreen/internal/ingest"
	"github.com/hirescreen/hirescreen/internal/logger"
	"github.com/hirescreen/hirescreen/internal/pipeline"
	"github.com/hirescreen/hirescreen/internal/report"
	"github.com/hirescreen/hirescreen/internal/secrets"
)

const (
	PromptShowReport = "Show markdown report"
	PromptShowJSON   = "Show raw JSON bundle"
	PromptSaveReport = "Save markdown report to file"
	PromptQuit       = "Quit"
)

var errExit = errors.New("exit requested")

var resultPrompt = promptui.Select{
	Label: "Analysis finished. What next?",
	Items: []string{PromptShowReport, PromptShowJSON, PromptSaveReport, PromptQuit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the hiring analysis pipeline on a resume",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("resume", "r", "", "path to the resume file (pdf or plain text)")
	runCmd.Flags().String("job", "", "path to a job description file")
	runCmd.Flags().String("job-text", "", "job description passed inline")
	runCmd.Flags().StringP("output", "o", "", "write the markdown report to this path")
	runCmd.Flags().BoolP("auto-approve", "y", false, "print the report and exit without the interactive menu")

	runCmd.MarkFlagRequired("resume")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	appLogger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		appLogger.Fatal("getting a config", zap.Error(err))
	}

	runLogger := logger.WithGenerationFields(appLogger, "gemini", config.Gemini.Model)
	runLogger.Info("starting hirescreen", zap.String("version", version))

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: config.Gemini.APIKey,
		File:  config.Gemini.APIKeyFile,
	})
	if err != nil {
		runLogger.Fatal(
			"loading gemini api key",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY, GEMINI_API_KEY_FILE or the gemini section in the configuration file"),
		)
	}

	resumePath := cmd.Flag("resume").Value.String()
	resumeText, err := ingest.ReadResume(resumePath)
	if err != nil {
		runLogger.Fatal("reading resume", zap.Error(err), zap.String("path", resumePath))
	}
	runLogger.Info("resume loaded", zap.String("path", resumePath), zap.Int("length", len(resumeText)))

	jobDescription, err := resolveJobDescription(cmd)
	if err != nil {
		runLogger.Fatal("reading job description", zap.Error(err))
	}
	if jobDescription == "" {
		runLogger.Info("no job description supplied, matching and decision stages will be skipped")
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, config.Gemini.Model)
	if err != nil {
		runLogger.Fatal("creating gemini generator", zap.Error(err))
	}

	result := pipeline.New(generator, runLogger, config.MaxLogLength).Run(ctx, resumeText, jobDescription)

	if cmd.Flag("auto-approve").Value.String() == "true" {
		fmt.Println(report.Markdown(result))
		saveIfRequested(cmd, result, runLogger)
		return
	}

	saveIfRequested(cmd, result, runLogger)

	for {
		_, action, err := resultPrompt.Run()
		if err != nil {
			runLogger.Fatal("exiting", zap.Error(err))
		}
		if err := handleAction(action, result, runLogger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			runLogger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, result *pipeline.Result, logger *zap.Logger) error {
	switch action {
	case PromptShowReport:
		fmt.Println(report.Markdown(result))
		return nil
	case PromptShowJSON:
		pretty, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result bundle: %w", err)
		}
		fmt.Println(string(pretty))
		return nil
	case PromptSaveReport:
		filename := fmt.Sprintf("hirescreen-report-%s.md", result.RunID)
		if err := writeReport(filename, result); err != nil {
			return err
		}
		logger.Info("report saved", zap.String("filename", filename))
		return nil
	case PromptQuit:
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func resolveJobDescription(cmd *cobra.Command) (string, error) {
	if inline := strings.TrimSpace(cmd.Flag("job-text").Value.String()); inline != "" {
		return ingest.CleanText(inline), nil
	}

	path := cmd.Flag("job").Value.String()
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read job description: %w", err)
	}
	return ingest.CleanText(string(data)), nil
}

func saveIfRequested(cmd *cobra.Command, result *pipeline.Result, logger *zap.Logger) {
	output := cmd.Flag("output").Value.String()
	if output == "" {
		return
	}
	if err := writeReport(output, result); err != nil {
		logger.Fatal("writing report", zap.Error(err), zap.String("path", output))
	}
	logger.Info("report saved", zap.String("path", output))
}

func writeReport(path string, result *pipeline.Result) error {
	if err := os.WriteFile(path, []byte(report.Markdown(result)), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
