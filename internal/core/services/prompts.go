package services

import (
	"bytes"
	"fmt"
	"sync"
	"text/template"

	"github.com/ephemere-io/pickles/internal/core/domain"
	"github.com/ephemere-io/pickles/internal/core/ports/driven"
)

// Ensure PromptBuilder implements PromptStoreAware.
var _ driven.PromptStoreAware = (*PromptBuilder)(nil)

// DefaultSalutation opens aga letters when no user name is configured.
const DefaultSalutation = "Yuki,"

// PromptData is the data passed to every prompt template.
type PromptData struct {
	// Data is the formatted recent window. Used by the plain templates.
	Data string

	// ContextData and RecentData are the formatted windows for the
	// "_context" templates.
	ContextData string
	RecentData  string
	ContextDays int
	RecentDays  int

	Language   string
	Writer     string
	Recipient  string
	Salutation string
}

//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptDomi: `Please analyze the following data:

{{.Data}}

Analyze the writer's thinking patterns, interests and activity trends over this period. Extract changes and tendencies the writer may not have noticed, and write a detailed report.

Focus in particular on:
- changes in the depth and complexity of thinking
- newly emerging areas of interest
- changes in behavior patterns
- latent challenges or opportunities

Please write your response in {{.Language}}.`,

	driven.PromptDomiContext: `Please analyze the following data. The first section is background from a longer period; the second is the primary subject.

[Context: past {{.ContextDays}} days]
{{.ContextData}}

[Recent: past {{.RecentDays}} days]
{{.RecentData}}

Using the longer period as background, analyze the writer's thinking patterns, interests and activity trends in the recent period. Extract changes and tendencies the writer may not have noticed, and write a detailed report.

Focus in particular on:
- how the recent period continues or departs from the longer trend
- changes in the depth and complexity of thinking
- newly emerging areas of interest
- changes in behavior patterns
- latent challenges or opportunities

Please write your response in {{.Language}}.`,

	driven.PromptAga: `You are someone who listens to the inner voice of a writer. Do not judge or evaluate; savor the richness of the experience that is already there.

Day by day, {{.Writer}} puts experience into words to catch questions and wavering that are not yet noticed. This is not a search for answers but a way of living with the questions themselves.

Below are the daily notes {{.Writer}} wrote during this period. Search these fragments, together with {{.Writer}}, for something that has not yet found words.

First, read slowly and sense the themes or patterns underneath. They need not be clear concepts; they may still be taking shape.

Then share what you found as a letter to {{.Recipient}}. It is not an analysis report but a sharing of what you noticed while staying close to these days. Use open expressions such as "perhaps", "it seems" and "I sense". Choose evocative words that widen {{.Recipient}}'s view.

In the letter, touch on:
- questions or themes that keep returning, however small
- connections or resonances between different events
- wavering or hesitation felt between the words
- something not yet formed that is trying to be born
- small surprises or discomforts hidden in everyday life

Begin the letter with "{{.Salutation}}". Close with words that remind {{.Recipient}} of the richness of writing, so that writing again tomorrow feels inviting. Sign it "from Pickles".

・・・・・・・・・・

{{.Data}}

Please write your response in {{.Language}}.`,

	driven.PromptAgaContext: `You are someone who listens to the inner voice of a writer. Do not judge or evaluate; savor the richness of the experience that is already there.

Day by day, {{.Writer}} puts experience into words to catch questions and wavering that are not yet noticed. This is not a search for answers but a way of living with the questions themselves.

Below are the notes {{.Writer}} wrote over the past {{.ContextDays}} days and over the most recent {{.RecentDays}} days. Find where the recent days sit within the longer flow, and search these fragments for something that has not yet found words.

[Context: past {{.ContextDays}} days]
{{.ContextData}}

[Recent: past {{.RecentDays}} days]
{{.RecentData}}

First, read the whole longer period slowly and sense its larger themes or patterns. Then read the recent days and notice what changed and what continued.

Then share what you found as a letter to {{.Recipient}}. It is not an analysis report but a sharing of what you noticed. Use open expressions such as "perhaps", "it seems" and "I sense".

In the letter, touch on:
- questions or themes that recur across the longer period
- elements that are especially strong or shifting in the recent days
- connections or resonances between events at different times
- how wavering or hesitation between the words has changed
- signs of something not yet formed that is trying to be born

Begin the letter with "{{.Salutation}}". Close with words that remind {{.Recipient}} of the richness of writing. Sign it "from Pickles".

Please write your response in {{.Language}}.`,

	driven.PromptGeneric: `Please analyze the following data:

{{.Data}}

Analyze the characteristics and trends of this data and write a report.

Please write your response in {{.Language}}.`,

	driven.PromptGenericContext: `Please analyze the following data.

[Context: past {{.ContextDays}} days]
{{.ContextData}}

[Recent: past {{.RecentDays}} days]
{{.RecentData}}

Analyze the characteristics and trends of the recent data, using the longer period as background, and write a report.

Please write your response in {{.Language}}.`,
}

// DefaultPrompts returns a copy of the built-in prompt templates keyed by
// prompt name.
func DefaultPrompts() map[string]string {
	out := make(map[string]string, len(defaultPrompts))
	for k, v := range defaultPrompts {
		out[k] = v
	}
	return out
}

// PromptName returns the template name for an analysis type. Unknown types
// map to the generic family.
func PromptName(t domain.AnalysisType, withContext bool) string {
	var name string
	switch t {
	case domain.AnalysisDomi:
		name = driven.PromptDomi
	case domain.AnalysisAga:
		name = driven.PromptAga
	default:
		name = driven.PromptGeneric
	}
	if withContext {
		name += "_context"
	}
	return name
}

// PromptBuilder renders analysis prompts from templates. Templates come
// from the prompt store when one is set and fall back to the built-ins.
type PromptBuilder struct {
	mu       sync.RWMutex
	store    driven.PromptStore
	observer driven.Observer
}

// NewPromptBuilder creates a builder using the built-in templates.
func NewPromptBuilder(observer driven.Observer) *PromptBuilder {
	return &PromptBuilder{observer: observer}
}

// SetPromptStore sets the store for user-editable templates.
func (b *PromptBuilder) SetPromptStore(store driven.PromptStore) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.store = store
}

// NewPromptData builds template data for a request.
func NewPromptData(req domain.AnalysisRequest) PromptData {
	language := req.Language
	if language == "" {
		language = domain.DefaultLanguage
	}

	writer, recipient, salutation := "the writer", "the writer", DefaultSalutation
	if req.UserName != "" {
		writer, recipient, salutation = req.UserName, req.UserName, req.UserName+","
	}

	data := PromptData{
		Language:   language,
		Writer:     writer,
		Recipient:  recipient,
		Salutation: salutation,
		RecentDays: domain.RecentWindowDays,
	}
	recent := FormatDocuments(req.Recent)
	if req.HasContext() {
		data.ContextData = FormatDocuments(req.Context)
		data.RecentData = recent
		data.ContextDays = req.ContextDays
	} else {
		data.Data = recent
	}
	return data
}

// Build renders the prompt for req. A custom template that fails to parse
// or render is reported and replaced by the built-in one.
func (b *PromptBuilder) Build(req domain.AnalysisRequest) (string, error) {
	name := PromptName(req.Type, req.HasContext())
	data := NewPromptData(req)

	if custom, ok := b.custom(name); ok {
		out, err := render(name, custom, data)
		if err == nil {
			return out, nil
		}
		if b.observer != nil {
			b.observer.Notify(domain.Event{
				Level:   domain.EventWarn,
				Stage:   "prompt",
				Message: "custom prompt failed, using built-in",
				Fields:  map[string]string{"prompt": name, "error": err.Error()},
			})
		}
	}

	return render(name, defaultPrompts[name], data)
}

func (b *PromptBuilder) custom(name string) (string, bool) {
	b.mu.RLock()
	store := b.store
	b.mu.RUnlock()
	if store == nil {
		return "", false
	}
	text, err := store.Load(name)
	if err != nil || text == "" || text == defaultPrompts[name] {
		return "", false
	}
	return text, true
}

func render(name, text string, data PromptData) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse prompt %q: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt %q: %w", name, err)
	}
	return buf.String(), nil
}
