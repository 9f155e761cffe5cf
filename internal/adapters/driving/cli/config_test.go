package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ephemere-io/pickles/internal/core/domain"
)

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Very long key",
			input:    "sk-proj-1234567890abcdefghijklmnop",
			expected: "sk-p...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, 30, parseValue("analysis.days", "30"))
	assert.Equal(t, true, parseValue("notion.full_scan", "true"))
	assert.Equal(t, "Japanese", parseValue("analysis.language", "Japanese"))
	assert.Equal(t, []string{"console", "file_html"}, parseValue("delivery.methods", "console,file_html"))
}

func TestConfigShowCmd(t *testing.T) {
	ts := setupTestServices(t)
	ts.settings.settings.Notion.APIKey = "secret_abcdefghijkl"
	ts.settings.settings.LLM.APIKey = "sk-1234567890abcdef"
	ts.settings.settings.Delivery.Methods = []string{domain.DeliveryConsole, domain.DeliveryEmailHTML}
	ts.settings.settings.Delivery.SMTPHost = "smtp.example.com"

	out, err := execute(t, "config", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Source: Notion workspace")
	assert.Contains(t, out, "API Key: secr...ijkl")
	assert.Contains(t, out, "API Key: sk-1...cdef")
	assert.NotContains(t, out, "sk-1234567890abcdef")
	assert.Contains(t, out, "Transport: SMTP smtp.example.com:587")
	assert.Contains(t, out, "Cron: 0 7 * * 1 (Asia/Tokyo)")
	assert.Contains(t, out, "Config file: /tmp/pickles/config.toml")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestConfigShowCmd_InvalidWarns(t *testing.T) {
	ts := setupTestServices(t)
	ts.settings.validateErr = domain.ErrInvalidInput

	out, err := execute(t, "config")

	require.NoError(t, err)
	assert.Contains(t, out, "Warning: invalid input")
}

func TestConfigSetCmd(t *testing.T) {
	ts := setupTestServices(t)

	out, err := execute(t, "config", "set", "analysis.days", "14")

	require.NoError(t, err)
	assert.Equal(t, 14, ts.settings.stored["analysis.days"])
	assert.Contains(t, out, "Set analysis.days")
}

func TestConfigSetCmd_UnknownKey(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "config", "set", "bogus", "1")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConfigKeysCmd(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "config", "keys")

	require.NoError(t, err)
	assert.Equal(t, "analysis.language\nllm.provider\nsource\n", out)
}

func TestConfigValidateCmd(t *testing.T) {
	ts := setupTestServices(t)

	out, err := execute(t, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid.")

	ts.settings.validateErr = domain.ErrInvalidInput
	_, err = execute(t, "config", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestConfigValidateCmd_Ping(t *testing.T) {
	setupTestServices(t)
	defer func() { configPing = false }()

	pinged := false
	modelPinger = func(context.Context) error {
		pinged = true
		return nil
	}
	out, err := execute(t, "config", "validate", "--ping")
	require.NoError(t, err)
	assert.True(t, pinged)
	assert.Contains(t, out, "Checking model provider... OK")

	modelPinger = func(context.Context) error { return errBoom }
	out, err = execute(t, "config", "validate", "--ping")
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, out, "FAILED")
}

func TestConfigLLMCmd(t *testing.T) {
	ts := setupTestServices(t)
	rootCmd.SetIn(strings.NewReader("2\n\nsk-ant-0123456789\n"))

	out, err := execute(t, "config", "llm")

	require.NoError(t, err)
	assert.Equal(t, "anthropic", ts.settings.stored["llm.provider"])
	assert.Equal(t, "claude-sonnet-4-5", ts.settings.stored["llm.model"])
	assert.Equal(t, "sk-ant-0123456789", ts.settings.stored["llm.api_key"])
	assert.Contains(t, out, "LLM provider configured: Anthropic (claude-sonnet-4-5)")
}

func TestConfigLLMCmd_OllamaNeedsNoKey(t *testing.T) {
	ts := setupTestServices(t)
	rootCmd.SetIn(strings.NewReader("4\nmistral\n"))

	_, err := execute(t, "config", "llm")

	require.NoError(t, err)
	assert.Equal(t, "ollama", ts.settings.stored["llm.provider"])
	assert.Equal(t, "mistral", ts.settings.stored["llm.model"])
	assert.NotContains(t, ts.settings.stored, "llm.api_key")
}

func TestConfigLLMCmd_MissingKey(t *testing.T) {
	setupTestServices(t)
	rootCmd.SetIn(strings.NewReader("1\n\n\n"))

	_, err := execute(t, "config", "llm")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}
