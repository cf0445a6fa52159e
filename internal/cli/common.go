package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/agent"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/autofill"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/catalog"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/governance"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/observability"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/resolver"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/submission"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/tools"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/pkg/config"
)

// loadConfig reads --config, or returns the defaults when it is unset.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.LoadConfig(configPath)
}

// newResolver loads the catalog and its rules from the same document.
func newResolver(cfg *config.Config) (*catalog.Catalog, *resolver.Resolver, error) {
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, nil, err
	}
	rules, err := resolver.LoadRules(cfg.Catalog.Path)
	if err != nil {
		return nil, nil, err
	}
	return cat, resolver.New(cat, rules), nil
}

func newController(cfg *config.Config, logger *observability.Logger) (*submission.Controller, *resolver.Resolver, error) {
	cat, res, err := newResolver(cfg)
	if err != nil {
		return nil, nil, err
	}
	c := submission.NewController(cat, res, nil, logger)
	if bu := cfg.Autofill.GenerationBusinessUnit; bu != "" {
		c.GenerationBusinessUnit = bu
	}
	return c, res, nil
}

func newPolicy(cfg *config.Config) (*governance.DefaultPolicyEngine, error) {
	gov := governance.NewDefaultPolicyEngine()
	for _, t := range cfg.Governance.DeniedTypes {
		gov.DenySourceType(t)
	}
	for _, pattern := range cfg.Governance.DenyPatterns {
		if err := gov.DenyValues(pattern); err != nil {
			return nil, fmt.Errorf("invalid deny pattern %q: %w", pattern, err)
		}
	}
	for _, host := range cfg.Governance.AllowedHosts {
		gov.AllowHost(host)
	}
	return gov, nil
}

// newRegistry registers the link and file fetchers. The returned func
// releases the headless browser when one is used.
func newRegistry(cfg *config.Config) (*tools.Registry, func()) {
	registry := tools.NewRegistry()
	registry.Register(autofill.SourceFile, tools.NewFileFetcher(cfg.App.Workspace))

	if cfg.Autofill.Browser {
		browser := tools.NewBrowserFetcher()
		registry.Register(autofill.SourceLink, browser)
		return registry, browser.Close
	}
	link := tools.NewLinkFetcher()
	if cfg.Autofill.UserAgent != "" {
		link.UserAgent = cfg.Autofill.UserAgent
	}
	registry.Register(autofill.SourceLink, link)
	return registry, func() {}
}

// newModel builds the enabled LLM provider. A nil model without error means
// none is configured.
func newModel(cfg *config.Config) (llms.Model, error) {
	name, p := cfg.GetDefaultProvider()
	switch name {
	case "":
		return nil, nil
	case "openai", "openrouter":
		opts := []openai.Option{
			openai.WithToken(p.APIKey),
			openai.WithModel(p.Model),
		}
		if p.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(p.BaseURL))
		}
		return openai.New(opts...)
	}
	return nil, fmt.Errorf("provider %s is not supported", name)
}

func newAutofillProvider(cfg *config.Config, res *resolver.Resolver, logger *observability.Logger) (*agent.AutofillProvider, func(), error) {
	gov, err := newPolicy(cfg)
	if err != nil {
		return nil, nil, err
	}
	model, err := newModel(cfg)
	if err != nil {
		return nil, nil, err
	}
	var extractor *agent.Extractor
	if model != nil {
		extractor = agent.NewExtractor(model, agent.NewPromptManager(cfg.Autofill.PromptsDir), logger)
		extractor.Vocabulary = agent.VocabularyFromRules(res.Rules())
	}
	registry, closeRegistry := newRegistry(cfg)
	return agent.NewAutofillProvider(registry, gov, extractor, logger), closeRegistry, nil
}

// outputJSON writes v as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func stepTitles(steps []catalog.Step) []string {
	titles := make([]string, len(steps))
	for i, s := range steps {
		titles[i] = s.Title
	}
	return titles
}
