package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/autofill"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/observability"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/resolver"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/tools"
)

// ErrNoDraft is returned when the model answers without a usable draft.
var ErrNoDraft = errors.New("model returned no draft")

const draftToolName = "propose_draft"

// Extractor asks a language model to fill in a draft from a document.
type Extractor struct {
	Model   llms.Model
	Prompts *PromptManager
	Logger  *observability.Logger

	// Vocabulary lists the accepted values per field name, so the model
	// picks names the resolver knows.
	Vocabulary map[string][]string
}

func NewExtractor(model llms.Model, prompts *PromptManager, logger *observability.Logger) *Extractor {
	return &Extractor{
		Model:   model,
		Prompts: prompts,
		Logger:  logger,
	}
}

// VocabularyFromRules collects the values a rule set recognises.
func VocabularyFromRules(rules resolver.Rules) map[string][]string {
	keys := func(m map[string]string) []string {
		out := make([]string, 0, len(m))
		for k := range m {
			out = append(out, k)
		}
		sort.Strings(out)
		return out
	}
	names := keys(rules.ToolAccess)
	for _, t := range keys(rules.ToolInstall) {
		if !containsString(names, t) {
			names = append(names, t)
		}
	}
	if rules.AITool.Name != "" && !containsString(names, rules.AITool.Name) {
		names = append(names, rules.AITool.Name)
	}
	sort.Strings(names)

	return map[string][]string{
		"businessUnit":         append([]string{}, rules.PrivilegedBusinessUnits...),
		"codingLanguage":       keys(rules.LanguageSteps),
		"ide":                  keys(rules.IDESteps),
		"toolsAndTechnologies": names,
	}
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// Extract turns doc into a draft.
func (e *Extractor) Extract(ctx context.Context, sessionID string, doc tools.Document) (autofill.Draft, error) {
	systemPrompt, err := e.Prompts.GetExtractorPrompt()
	if err != nil {
		log.Printf("Warning: Failed to load extractor prompt: %v", err)
		systemPrompt = DefaultExtractorPrompt
	}
	if vocab := e.vocabularySection(); vocab != "" {
		systemPrompt += "\n\n" + vocab
	}

	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(systemPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(documentText(doc))},
		},
	}

	resp, err := e.Model.GenerateContent(ctx, messages, llms.WithTools([]llms.Tool{draftTool()}))
	if err != nil {
		return autofill.Draft{}, fmt.Errorf("generate draft: %w", err)
	}
	if len(resp.Choices) == 0 {
		return autofill.Draft{}, ErrNoDraft
	}
	choice := resp.Choices[0]

	if e.Logger != nil {
		var calls []string
		for _, tc := range choice.ToolCalls {
			if tc.FunctionCall != nil {
				calls = append(calls, tc.FunctionCall.Arguments)
			}
		}
		e.Logger.LogLLM(sessionID, messages, choice.Content+strings.Join(calls, "\n"))
	}

	for _, tc := range choice.ToolCalls {
		if tc.FunctionCall != nil && tc.FunctionCall.Name == draftToolName {
			var draft autofill.Draft
			if err := json.Unmarshal([]byte(tc.FunctionCall.Arguments), &draft); err != nil {
				return autofill.Draft{}, fmt.Errorf("failed to parse %s arguments: %w", draftToolName, err)
			}
			return draft, nil
		}
	}

	// Some models answer in plain text even when offered a tool.
	if raw := jsonObject(choice.Content); raw != "" {
		var draft autofill.Draft
		if err := json.Unmarshal([]byte(raw), &draft); err == nil {
			return draft, nil
		}
	}
	return autofill.Draft{}, ErrNoDraft
}

func (e *Extractor) vocabularySection() string {
	if len(e.Vocabulary) == 0 {
		return ""
	}
	names := make([]string, 0, len(e.Vocabulary))
	for name := range e.Vocabulary {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("## Known values")
	for _, name := range names {
		if len(e.Vocabulary[name]) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n- %s: %s", name, strings.Join(e.Vocabulary[name], ", "))
	}
	return b.String()
}

func documentText(doc tools.Document) string {
	output := fmt.Sprintf("TITLE: %s\n", doc.Title)
	if doc.Excerpt != "" {
		output += fmt.Sprintf("EXCERPT: %s\n", doc.Excerpt)
	}
	output += "\n-- CONTENT --\n"
	return output + doc.Content
}

// jsonObject returns the outermost {...} span of s, or "".
func jsonObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

func draftTool() llms.Tool {
	text := func(desc string) map[string]any {
		return map[string]any{"type": "string", "description": desc}
	}
	flag := func(desc string) map[string]any {
		return map[string]any{"type": "boolean", "description": desc}
	}
	list := func(desc string) map[string]any {
		return map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": desc,
		}
	}
	return llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        draftToolName,
			Description: "Submit the form values found in the document.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"useCaseName":     text("Short name of the use case"),
					"description":     text("What the use case does"),
					"problem":         text("The problem it solves"),
					"benefits":        text("Expected benefits"),
					"notes":           text("Anything else worth keeping"),
					"businessUnit":    text("Owning business unit"),
					"forDevelopers":   flag("Whether developers build or use it"),
					"codingLanguage":  text("Main programming language"),
					"ide":             text("Editor or IDE used"),
					"isIdeAlsoAiTool": flag("Whether the IDE is itself one of the AI tools"),

					"toolsAndTechnologies": list("Tools and technologies involved"),
					"tags":                 list("Free-form tags"),
					"links": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"name": text("Link label"),
								"url":  text("Absolute URL"),
							},
							"required": []string{"url"},
						},
					},
					"shouldAutoGenerateSteps": flag("Whether setup steps should be generated from these values"),
				},
			},
		},
	}
}
