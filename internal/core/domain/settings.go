package domain

// SourceName identifies a configured document source.
type SourceName string

// Available sources.
const (
	// SourceNotion is a Notion workspace (databases and pages).
	SourceNotion SourceName = "notion"

	// SourceGDocs is a single shared Google Doc with dated sections.
	SourceGDocs SourceName = "gdocs"
)

// IsValid returns true if the source is recognised.
func (s SourceName) IsValid() bool {
	return s == SourceNotion || s == SourceGDocs
}

// String returns the string representation.
func (s SourceName) String() string {
	return string(s)
}

// Description returns a human-readable description of the source.
func (s SourceName) Description() string {
	switch s {
	case SourceNotion:
		return "Notion workspace"
	case SourceGDocs:
		return "Google Docs journal"
	default:
		return unknownDescription
	}
}

// AIProvider identifies a model backend provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOpenAI is the OpenAI Responses API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic Messages API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGemini is the Google Gemini API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini, AIProviderOllama:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p != AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOpenAI:
		return "OpenAI"
	case AIProviderAnthropic:
		return "Anthropic"
	case AIProviderGemini:
		return "Google Gemini"
	case AIProviderOllama:
		return "Ollama (local)"
	default:
		return unknownDescription
	}
}

// AllLLMProviders returns every supported model provider.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderGemini,
		AIProviderOllama,
	}
}

// DefaultLLMModels returns default models for each provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOpenAI:    "gpt-5",
		AIProviderAnthropic: "claude-sonnet-4-5",
		AIProviderGemini:    "gemini-2.5-pro",
		AIProviderOllama:    "llama3.2",
	}
}

// NotionSettings configures the Notion workspace source.
type NotionSettings struct {
	APIKey string `validate:"required_if=Enabled true"`

	// Enabled is derived: true when notion is the selected source.
	Enabled bool

	// StaleThreshold is the consecutive out-of-window record count that
	// ends unstructured pagination.
	StaleThreshold int `validate:"gte=1"`

	// MaxRecords caps the records examined by unstructured pagination.
	MaxRecords int `validate:"gte=1"`

	// FullScan disables early termination.
	FullScan bool

	// PageSize is the search page size requested from the API.
	PageSize int `validate:"gte=1,lte=100"`

	// DatabaseID pins the structured container. When empty the most
	// recently edited database visible to the integration is used.
	DatabaseID string
}

// GDocsSettings configures the Google Docs source.
type GDocsSettings struct {
	DocumentURL     string `validate:"required_if=Enabled true"`
	CredentialsPath string

	// CredentialsJSON is an inline service account key. It takes
	// precedence over CredentialsPath.
	CredentialsJSON string

	// Enabled is derived: true when gdocs is the selected source.
	Enabled bool
}

// LLMSettings configures the model backend.
type LLMSettings struct {
	Provider        AIProvider `validate:"oneof=openai anthropic gemini ollama"`
	Model           string     `validate:"required"`
	APIKey          string     `validate:"required_unless=Provider ollama"`
	BaseURL         string     `validate:"omitempty,url"`
	MaxOutputTokens int        `validate:"gte=1"`
	Effort          string     `validate:"omitempty,oneof=minimal low medium high"`
}

// IsConfigured returns true if the provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// AnalysisSettings configures analysis defaults.
type AnalysisSettings struct {
	Type     AnalysisType `validate:"required"`
	Language string       `validate:"required"`
	UserName string
	Days     int `validate:"gte=7"`
	History  bool

	// MinLength drops documents shorter than this before analysis.
	// Zero disables the filter.
	MinLength int `validate:"gte=0"`
}

// DeliverySettings configures report delivery.
type DeliverySettings struct {
	Methods      []string `validate:"dive,oneof=console email_text email_html file_text file_html"`
	OutputDir    string
	EmailTo      string `validate:"omitempty,email"`
	EmailFrom    string `validate:"omitempty,email"`
	SMTPHost     string
	SMTPPort     int `validate:"omitempty,gte=1,lte=65535"`
	SMTPUser     string
	SMTPPassword string
	ResendAPIKey string
}

// WantsEmail returns true if any email delivery method is selected.
func (d DeliverySettings) WantsEmail() bool {
	for _, m := range d.Methods {
		if m == DeliveryEmailText || m == DeliveryEmailHTML {
			return true
		}
	}
	return false
}

// ScheduleSettings configures schedule mode.
type ScheduleSettings struct {
	Cron     string `validate:"required"`
	Timezone string `validate:"required,timezone"`
}

// Settings holds all application settings.
type Settings struct {
	Source   SourceName `validate:"oneof=notion gdocs"`
	Notion   NotionSettings
	GDocs    GDocsSettings
	LLM      LLMSettings
	Analysis AnalysisSettings
	Delivery DeliverySettings
	Schedule ScheduleSettings

	// DataDir holds the database, prompts and reports.
	DataDir string
}

// Default tuning values.
const (
	DefaultStaleThreshold  = 50
	DefaultMaxRecords      = 500
	DefaultPageSize        = 100
	DefaultMaxOutputTokens = 50000
	DefaultEffort          = "high"
	DefaultLanguage        = "English"
	DefaultCron            = "0 7 * * 1"
	DefaultTimezone        = "Asia/Tokyo"
)

// DefaultSettings returns settings with sensible defaults.
// Credentials are left empty; they come from the config file or environment.
func DefaultSettings() Settings {
	return Settings{
		Source: SourceNotion,
		Notion: NotionSettings{
			StaleThreshold: DefaultStaleThreshold,
			MaxRecords:     DefaultMaxRecords,
			PageSize:       DefaultPageSize,
		},
		LLM: LLMSettings{
			Provider:        AIProviderOpenAI,
			Model:           DefaultLLMModels()[AIProviderOpenAI],
			MaxOutputTokens: DefaultMaxOutputTokens,
			Effort:          DefaultEffort,
		},
		Analysis: AnalysisSettings{
			Type:     AnalysisDomi,
			Language: DefaultLanguage,
			Days:     RecentWindowDays,
			History:  true,
		},
		Delivery: DeliverySettings{
			Methods:  []string{DeliveryConsole},
			SMTPPort: 587,
		},
		Schedule: ScheduleSettings{
			Cron:     DefaultCron,
			Timezone: DefaultTimezone,
		},
	}
}
