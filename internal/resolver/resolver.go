// Package resolver maps a user's configuration choices to an ordered,
// duplicate-free list of catalog steps.
//
// Resolution is a pure function of the configuration, the catalog and the
// rules: the same inputs always give the same steps in the same order.
// Rules run in a fixed sequence and each appends only the steps it owns:
//   - the anchor (identity verification) step
//   - access steps for tools that need an access grant
//   - the local admin step, behind one broad gate
//   - at most one language runtime step
//   - the IDE install step, unless the IDE is also the AI tool
//   - install steps for AI tools (and the IDE when it doubles as one)
//   - the designated AI tool's account and enablement pair
//
// A lookup that finds nothing is skipped, so Resolve never fails.
package resolver

import (
	"sort"
	"strings"

	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/catalog"
)

// Config is the snapshot of form fields that drive resolution.
type Config struct {
	BusinessUnit         string   `json:"businessUnit"`
	CodingLanguage       string   `json:"codingLanguage"`
	IDE                  string   `json:"ide"`
	ToolsAndTechnologies []string `json:"toolsAndTechnologies"`
	// IsIDEAlsoAITool marks the IDE as the same program as an AI tool in
	// the tools list, so it is installed once rather than twice.
	IsIDEAlsoAITool bool `json:"isIdeAlsoAiTool"`
}

// Resolver binds a catalog to a rule set.
type Resolver struct {
	catalog *catalog.Catalog
	rules   Rules
}

// New creates a Resolver.
func New(cat *catalog.Catalog, rules Rules) *Resolver {
	return &Resolver{catalog: cat, rules: rules}
}

// Rules returns the rule set in use.
func (r *Resolver) Rules() Rules {
	return r.rules
}

// Resolve runs the rules against cfg.
func (r *Resolver) Resolve(cfg Config) []catalog.Step {
	return Resolve(cfg, r.catalog, r.rules)
}

// Resolve maps cfg to an ordered list of steps drawn from cat.
func Resolve(cfg Config, cat *catalog.Catalog, rules Rules) []catalog.Step {
	b := newBuilder(cat)
	tools := cleanTools(cfg.ToolsAndTechnologies)

	b.appendRule(rules.Anchor)

	var access []string
	for _, tool := range tools {
		if id, ok := lookup(rules.ToolAccess, tool); ok {
			access = append(access, id)
		}
	}
	b.appendRule(access...)

	if rules.IsPrivileged(cfg.BusinessUnit) ||
		strings.TrimSpace(cfg.CodingLanguage) != "" ||
		strings.TrimSpace(cfg.IDE) != "" ||
		len(tools) > 0 {
		b.appendRule(rules.LocalAdmin)
	}

	if id, ok := lookup(rules.LanguageSteps, cfg.CodingLanguage); ok {
		b.appendRule(id)
	}

	if !cfg.IsIDEAlsoAITool {
		if id, ok := lookup(rules.IDESteps, cfg.IDE); ok {
			b.appendRule(id)
		}
	}

	installable := tools
	if cfg.IsIDEAlsoAITool && strings.TrimSpace(cfg.IDE) != "" {
		installable = append(append([]string{}, tools...), cfg.IDE)
	}
	var installs []string
	for _, tool := range installable {
		if id, ok := lookup(rules.ToolInstall, tool); ok {
			installs = append(installs, id)
		}
	}
	b.appendRule(installs...)

	if rules.AITool.Name != "" && containsFold(tools, rules.AITool.Name) {
		// Account before enablement regardless of catalog order.
		b.appendRule(rules.AITool.AccountStep)
		b.appendRule(rules.AITool.EnableStep)
	}

	return b.steps
}

type builder struct {
	catalog *catalog.Catalog
	steps   []catalog.Step
	seen    map[string]bool
}

func newBuilder(cat *catalog.Catalog) *builder {
	return &builder{
		catalog: cat,
		steps:   []catalog.Step{},
		seen:    make(map[string]bool),
	}
}

// appendRule appends the steps owned by one rule in catalog order,
// skipping ids that are unknown or already present.
func (b *builder) appendRule(ids ...string) {
	var found []catalog.Step
	for _, id := range ids {
		if id == "" || b.seen[id] {
			continue
		}
		s, ok := b.catalog.Get(id)
		if !ok {
			continue
		}
		b.seen[id] = true
		found = append(found, s)
	}
	sort.SliceStable(found, func(i, j int) bool {
		return b.catalog.Position(found[i].ID) < b.catalog.Position(found[j].ID)
	})
	b.steps = append(b.steps, found...)
}

func cleanTools(tools []string) []string {
	out := make([]string, 0, len(tools))
	for _, t := range tools {
		if strings.TrimSpace(t) != "" {
			out = append(out, t)
		}
	}
	return out
}

func containsFold(list []string, want string) bool {
	want = normalize(want)
	for _, v := range list {
		if normalize(v) == want {
			return true
		}
	}
	return false
}
