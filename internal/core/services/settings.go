package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ephemere-io/pickles/internal/core/domain"
	"github.com/ephemere-io/pickles/internal/core/ports/driven"
	"github.com/ephemere-io/pickles/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keySource               = "source"
	keyDataDir              = "data_dir"
	keyNotionAPIKey         = "notion.api_key"
	keyNotionStaleThreshold = "notion.stale_threshold"
	keyNotionMaxRecords     = "notion.max_records"
	keyNotionFullScan       = "notion.full_scan"
	keyNotionPageSize       = "notion.page_size"
	keyNotionDatabaseID     = "notion.database_id"
	keyGDocsURL             = "gdocs.document_url"
	keyGDocsCredentials     = "gdocs.credentials_path"
	keyLLMProvider          = "llm.provider"
	keyLLMModel             = "llm.model"
	keyLLMAPIKey            = "llm.api_key"
	keyLLMBaseURL           = "llm.base_url"
	keyLLMMaxOutputTokens   = "llm.max_output_tokens"
	keyLLMEffort            = "llm.effort"
	keyAnalysisType         = "analysis.type"
	keyAnalysisLanguage     = "analysis.language"
	keyAnalysisUserName     = "analysis.user_name"
	keyAnalysisDays         = "analysis.days"
	keyAnalysisHistory      = "analysis.history"
	keyAnalysisMinLength    = "analysis.min_length"
	keyDeliveryMethods      = "delivery.methods"
	keyDeliveryOutputDir    = "delivery.output_dir"
	keyDeliveryEmailTo      = "delivery.email_to"
	keyDeliveryEmailFrom    = "delivery.email_from"
	keyDeliverySMTPHost     = "delivery.smtp_host"
	keyDeliverySMTPPort     = "delivery.smtp_port"
	keyDeliverySMTPUser     = "delivery.smtp_user"
	keyDeliverySMTPPassword = "delivery.smtp_password"
	keyDeliveryResendAPIKey = "delivery.resend_api_key"
	keyScheduleCron         = "schedule.cron"
	keyScheduleTimezone     = "schedule.timezone"
)

// SettingKeys returns every key accepted by Set, sorted.
func SettingKeys() []string {
	keys := []string{
		keySource, keyDataDir,
		keyNotionAPIKey, keyNotionStaleThreshold, keyNotionMaxRecords, keyNotionFullScan, keyNotionPageSize,
		keyNotionDatabaseID,
		keyGDocsURL, keyGDocsCredentials,
		keyLLMProvider, keyLLMModel, keyLLMAPIKey, keyLLMBaseURL, keyLLMMaxOutputTokens, keyLLMEffort,
		keyAnalysisType, keyAnalysisLanguage, keyAnalysisUserName, keyAnalysisDays, keyAnalysisHistory,
		keyAnalysisMinLength,
		keyDeliveryMethods, keyDeliveryOutputDir, keyDeliveryEmailTo, keyDeliveryEmailFrom,
		keyDeliverySMTPHost, keyDeliverySMTPPort, keyDeliverySMTPUser, keyDeliverySMTPPassword,
		keyDeliveryResendAPIKey,
		keyScheduleCron, keyScheduleTimezone,
	}
	sort.Strings(keys)
	return keys
}

// providerKeyEnv maps each hosted provider to its API key variable.
var providerKeyEnv = map[domain.AIProvider]string{
	domain.AIProviderOpenAI:    "OPENAI_API_KEY",
	domain.AIProviderAnthropic: "ANTHROPIC_API_KEY",
	domain.AIProviderGemini:    "GEMINI_API_KEY",
}

// SettingsService resolves settings from the config store and the
// environment. Environment variables win over stored values.
type SettingsService struct {
	configStore driven.ConfigStore
	validator   driven.SettingsValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service. validator may be nil.
func NewSettingsService(configStore driven.ConfigStore, validator driven.SettingsValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		validator:   validator,
		getenv:      os.Getenv,
	}
}

// SetEnv overrides the environment lookup.
func (s *SettingsService) SetEnv(getenv func(string) string) {
	s.getenv = getenv
}

// Get retrieves the effective settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	d := domain.DefaultSettings()

	settings := &domain.Settings{
		Source:  domain.SourceName(s.getString(keySource, d.Source.String())),
		DataDir: s.getString(keyDataDir, d.DataDir),
		Notion: domain.NotionSettings{
			APIKey:         s.configStore.GetString(keyNotionAPIKey),
			StaleThreshold: s.getInt(keyNotionStaleThreshold, d.Notion.StaleThreshold),
			MaxRecords:     s.getInt(keyNotionMaxRecords, d.Notion.MaxRecords),
			FullScan:       s.getBool(keyNotionFullScan, d.Notion.FullScan),
			PageSize:       s.getInt(keyNotionPageSize, d.Notion.PageSize),
			DatabaseID:     s.configStore.GetString(keyNotionDatabaseID),
		},
		GDocs: domain.GDocsSettings{
			DocumentURL:     s.configStore.GetString(keyGDocsURL),
			CredentialsPath: s.configStore.GetString(keyGDocsCredentials),
		},
		LLM: domain.LLMSettings{
			Provider:        s.getProvider(d.LLM.Provider),
			APIKey:          s.configStore.GetString(keyLLMAPIKey),
			BaseURL:         s.configStore.GetString(keyLLMBaseURL),
			MaxOutputTokens: s.getInt(keyLLMMaxOutputTokens, d.LLM.MaxOutputTokens),
			Effort:          s.getString(keyLLMEffort, d.LLM.Effort),
		},
		Analysis: domain.AnalysisSettings{
			Type:      domain.AnalysisType(s.getString(keyAnalysisType, string(d.Analysis.Type))),
			Language:  s.getString(keyAnalysisLanguage, d.Analysis.Language),
			UserName:  s.configStore.GetString(keyAnalysisUserName),
			Days:      s.getInt(keyAnalysisDays, d.Analysis.Days),
			History:   s.getBool(keyAnalysisHistory, d.Analysis.History),
			MinLength: s.getInt(keyAnalysisMinLength, d.Analysis.MinLength),
		},
		Delivery: domain.DeliverySettings{
			Methods:      s.getStringSlice(keyDeliveryMethods, d.Delivery.Methods),
			OutputDir:    s.configStore.GetString(keyDeliveryOutputDir),
			EmailTo:      s.configStore.GetString(keyDeliveryEmailTo),
			EmailFrom:    s.configStore.GetString(keyDeliveryEmailFrom),
			SMTPHost:     s.configStore.GetString(keyDeliverySMTPHost),
			SMTPPort:     s.getInt(keyDeliverySMTPPort, d.Delivery.SMTPPort),
			SMTPUser:     s.configStore.GetString(keyDeliverySMTPUser),
			SMTPPassword: s.configStore.GetString(keyDeliverySMTPPassword),
			ResendAPIKey: s.configStore.GetString(keyDeliveryResendAPIKey),
		},
		Schedule: domain.ScheduleSettings{
			Cron:     s.getString(keyScheduleCron, d.Schedule.Cron),
			Timezone: s.getString(keyScheduleTimezone, d.Schedule.Timezone),
		},
	}

	s.applyEnv(settings)

	if settings.LLM.Model == "" {
		settings.LLM.Model = s.configStore.GetString(keyLLMModel)
	}
	if settings.LLM.Model == "" {
		settings.LLM.Model = domain.DefaultLLMModels()[settings.LLM.Provider]
	}
	if settings.DataDir == "" {
		settings.DataDir = filepath.Dir(s.configStore.Path())
	}
	if settings.Delivery.OutputDir == "" {
		settings.Delivery.OutputDir = filepath.Join(settings.DataDir, "reports")
	}
	settings.Notion.Enabled = settings.Source == domain.SourceNotion
	settings.GDocs.Enabled = settings.Source == domain.SourceGDocs

	return settings, nil
}

// applyEnv overlays environment variables. The provider is resolved first
// so that its API key variable can be picked.
func (s *SettingsService) applyEnv(settings *domain.Settings) {
	if v := s.getenv("AI_PROVIDER"); v != "" {
		settings.LLM.Provider = domain.AIProvider(v)
	}
	if v := s.getenv("AI_MODEL"); v != "" {
		settings.LLM.Model = v
	}
	if env, ok := providerKeyEnv[settings.LLM.Provider]; ok {
		if v := s.getenv(env); v != "" {
			settings.LLM.APIKey = v
		}
	}
	if settings.LLM.Provider == domain.AIProviderOllama {
		if v := s.getenv("OLLAMA_HOST"); v != "" {
			settings.LLM.BaseURL = v
		}
	}

	overlay := []struct {
		env    string
		target *string
	}{
		{"PICKLES_SOURCE", (*string)(&settings.Source)},
		{"NOTION_API_KEY", &settings.Notion.APIKey},
		{"NOTION_DATABASE_ID", &settings.Notion.DatabaseID},
		{"GOOGLE_DOCS_URL", &settings.GDocs.DocumentURL},
		{"GOOGLE_APPLICATION_CREDENTIALS", &settings.GDocs.CredentialsPath},
		{"GOOGLE_SERVICE_ACCOUNT_KEY", &settings.GDocs.CredentialsJSON},
		{"USER_NAME", &settings.Analysis.UserName},
		{"EMAIL_TO", &settings.Delivery.EmailTo},
		{"EMAIL_FROM", &settings.Delivery.EmailFrom},
		{"EMAIL_HOST", &settings.Delivery.SMTPHost},
		{"EMAIL_USER", &settings.Delivery.SMTPUser},
		{"EMAIL_PASS", &settings.Delivery.SMTPPassword},
		{"RESEND_API_KEY", &settings.Delivery.ResendAPIKey},
	}
	for _, o := range overlay {
		if v := s.getenv(o.env); v != "" {
			*o.target = v
		}
	}

	if v := s.getenv("EMAIL_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			settings.Delivery.SMTPPort = port
		}
	}
	if settings.Delivery.EmailFrom == "" && strings.Contains(settings.Delivery.SMTPUser, "@") {
		settings.Delivery.EmailFrom = settings.Delivery.SMTPUser
	}
}

// Set stores a single key in the config file.
func (s *SettingsService) Set(key string, value any) error {
	if !isSettingKey(key) {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Validate checks the effective settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if s.validator == nil {
		return nil
	}
	return s.validator.Validate(settings)
}

// Keys lists the keys accepted by Set.
func (s *SettingsService) Keys() []string {
	return SettingKeys()
}

// ConfigPath returns the config file location.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

func isSettingKey(key string) bool {
	keys := SettingKeys()
	i := sort.SearchStrings(keys, key)
	return i < len(keys) && keys[i] == key
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	val := s.configStore.GetStringSlice(key)
	if len(val) == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getProvider(defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(keyLLMProvider)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
