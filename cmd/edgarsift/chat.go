package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/edgarsift/internal/chat"
	"github.com/fyrsmithlabs/edgarsift/internal/llm"
	"github.com/fyrsmithlabs/edgarsift/internal/pipeline"
	"github.com/fyrsmithlabs/edgarsift/internal/transform"
)

var (
	chatExamples  string
	chatDashboard bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive session over detected patterns",
	Long: `Chat opens an interactive terminal session with the completion model.
When --examples is given, the detected schema differences and patterns
are loaded into the system prompt so the model can explain them.

With --dashboard the session is replaced by a read-only confidence
dashboard over the filtered patterns (no API key needed).

Examples:
  edgarsift chat --examples pairs.json
  edgarsift chat --examples pairs.json --dashboard`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatExamples, "examples", "", "example pairs file to load as context")
	chatCmd.Flags().BoolVar(&chatDashboard, "dashboard", false, "show the pattern confidence dashboard instead of chatting")
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if chatDashboard {
		if chatExamples == "" {
			return fmt.Errorf("--dashboard requires --examples")
		}
		pairs, err := pipeline.LoadPairs(chatExamples)
		if err != nil {
			return err
		}
		parsed := newDetector(cfg.Extraction.MaxSampleValues).Detect(pairs)
		filtered, err := transform.NewFilterService().Filter(parsed, cfg.Extraction.ConfidenceThreshold)
		if err != nil {
			return err
		}
		_, err = tea.NewProgram(chat.NewDashboard(filtered), tea.WithAltScreen()).Run()
		return err
	}

	apiKey := os.Getenv(cfg.LLM.APIKeyEnv)
	if apiKey == "" {
		return fmt.Errorf("environment variable %s is not set", cfg.LLM.APIKeyEnv)
	}
	client, err := llm.NewClient(llm.Config{
		APIKey:    apiKey,
		Model:     cfg.LLM.Model,
		BaseURL:   cfg.LLM.BaseURL,
		MaxTokens: cfg.LLM.MaxTokens,
		Timeout:   cfg.LLM.Timeout.Duration(),
	})
	if err != nil {
		return err
	}

	system := "You are an assistant that explains schema transformations detected in SEC EDGAR data."
	if chatExamples != "" {
		pairs, err := pipeline.LoadPairs(chatExamples)
		if err != nil {
			return err
		}
		parsed := newDetector(cfg.Extraction.MaxSampleValues).Detect(pairs)
		system += "\n\nContext:\n" + llm.SchemaPrompt(parsed.Differences, parsed.Patterns)
	}

	_, err = tea.NewProgram(chat.NewModel(client, system), tea.WithAltScreen()).Run()
	return err
}
