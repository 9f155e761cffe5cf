package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ephemere-io/pickles/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application settings",
	Long: `View and change the stored settings. Environment variables such as
NOTION_API_KEY or OPENAI_API_KEY override stored values.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective settings",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a setting",
	Long: `Store a single setting. Run 'pickles config keys' for the accepted keys.

Examples:
  pickles config set analysis.language Japanese
  pickles config set delivery.methods console,file_html
  pickles config set notion.full_scan true`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	RunE:  runConfigKeys,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the effective settings",
	RunE:  runConfigValidate,
}

var configLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure the model provider",
	Long:  `Interactively choose the model provider, model name and API key.`,
	RunE:  runConfigLLM,
}

var configPing bool

func init() {
	configValidateCmd.Flags().BoolVar(&configPing, "ping", false, "also check that the model provider answers")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configKeysCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configLLMCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Source]")
	cmd.Printf("  Source: %s\n", settings.Source.Description())
	cmd.Printf("  Data dir: %s\n", settings.DataDir)
	cmd.Println()

	cmd.Println("[Notion]")
	cmd.Printf("  API Key: %s\n", secret(settings.Notion.APIKey))
	if settings.Notion.DatabaseID != "" {
		cmd.Printf("  Database: %s\n", settings.Notion.DatabaseID)
	}
	cmd.Printf("  Stale threshold: %d\n", settings.Notion.StaleThreshold)
	cmd.Printf("  Max records: %d\n", settings.Notion.MaxRecords)
	cmd.Printf("  Full scan: %s\n", yesNo(settings.Notion.FullScan))
	cmd.Println()

	cmd.Println("[Google Docs]")
	cmd.Printf("  Document: %s\n", orNotSet(settings.GDocs.DocumentURL))
	switch {
	case settings.GDocs.CredentialsJSON != "":
		cmd.Printf("  Credentials: (inline key)\n")
	default:
		cmd.Printf("  Credentials: %s\n", orNotSet(settings.GDocs.CredentialsPath))
	}
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", secret(settings.LLM.APIKey))
	}
	cmd.Printf("  Effort: %s\n", settings.LLM.Effort)
	cmd.Printf("  Max output tokens: %d\n", settings.LLM.MaxOutputTokens)
	status := "configured"
	if !settings.LLM.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[Analysis]")
	cmd.Printf("  Type: %s\n", settings.Analysis.Type.Description())
	cmd.Printf("  Language: %s\n", settings.Analysis.Language)
	cmd.Printf("  User name: %s\n", orNotSet(settings.Analysis.UserName))
	cmd.Printf("  Days: %d\n", settings.Analysis.Days)
	cmd.Printf("  History: %s\n", yesNo(settings.Analysis.History))
	if settings.Analysis.MinLength > 0 {
		cmd.Printf("  Min length: %d\n", settings.Analysis.MinLength)
	}
	cmd.Println()

	cmd.Println("[Delivery]")
	cmd.Printf("  Methods: %s\n", strings.Join(settings.Delivery.Methods, ", "))
	cmd.Printf("  Output dir: %s\n", settings.Delivery.OutputDir)
	if settings.Delivery.WantsEmail() {
		cmd.Printf("  Email to: %s\n", orNotSet(settings.Delivery.EmailTo))
		switch {
		case settings.Delivery.ResendAPIKey != "":
			cmd.Printf("  Transport: Resend (%s)\n", maskAPIKey(settings.Delivery.ResendAPIKey))
		case settings.Delivery.SMTPHost != "":
			cmd.Printf("  Transport: SMTP %s:%d\n", settings.Delivery.SMTPHost, settings.Delivery.SMTPPort)
		default:
			cmd.Printf("  Transport: (not set)\n")
		}
	}
	cmd.Println()

	cmd.Println("[Schedule]")
	cmd.Printf("  Cron: %s (%s)\n", settings.Schedule.Cron, settings.Schedule.Timezone)
	cmd.Println()

	cmd.Printf("Config file: %s\n", settingsService.ConfigPath())
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'pickles config set' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key := args[0]
	if err := settingsService.Set(key, parseValue(key, args[1])); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s\n", key)
	return nil
}

func runConfigKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

func runConfigValidate(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cmd.Println("Configuration is valid.")

	if configPing {
		if modelPinger == nil {
			return errors.New("model provider not configured")
		}
		cmd.Print("Checking model provider... ")
		if err := modelPinger(cmd.Context()); err != nil {
			cmd.Println("FAILED")
			return fmt.Errorf("model provider check failed: %w", err)
		}
		cmd.Println("OK")
	}
	return nil
}

func runConfigLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureLLMProvider(cmd, reader)
}

func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	defaultModel := domain.DefaultLLMModels()[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	values := map[string]any{
		"llm.provider": selectedProvider.String(),
		"llm.model":    model,
	}
	if apiKey != "" {
		values["llm.api_key"] = apiKey
	}
	for _, key := range []string{"llm.provider", "llm.model", "llm.api_key"} {
		value, ok := values[key]
		if !ok {
			continue
		}
		if err := settingsService.Set(key, value); err != nil {
			return fmt.Errorf("failed to configure LLM provider: %w", err)
		}
	}

	cmd.Printf("LLM provider configured: %s (%s)\n", selectedProvider.Description(), model)
	return nil
}

// parseValue converts a command-line value to the type stored for key.
func parseValue(key, raw string) any {
	if key == "delivery.methods" {
		return splitList(raw)
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo on a terminal and falls back to reader.
func readPassword(reader *bufio.Reader) string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func secret(key string) string {
	if key == "" {
		return "(not set)"
	}
	return maskAPIKey(key)
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

