// Package submission owns the state of one use case submission and the
// transitions a user can apply to it.
//
// A Controller holds the shared, read-only collaborators (catalog, rules,
// parser, logger). Each transition takes the State it mutates, so one
// Controller serves every session. Callers must not run two transitions on
// the same State at once.
package submission

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/autofill"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/catalog"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/clock"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/observability"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/plan"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/resolver"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/steptext"
)

// DefaultGenerationBusinessUnit is the business unit whose autofill drafts
// may trigger step generation.
const DefaultGenerationBusinessUnit = "Global Technology"

// Controller applies transitions to submission states.
type Controller struct {
	catalog  *catalog.Catalog
	resolver *resolver.Resolver
	parser   *steptext.Parser
	logger   *observability.Logger

	Clock                  clock.Clock
	GenerationBusinessUnit string
}

// NewController creates a Controller. A nil parser or logger gets a
// default.
func NewController(cat *catalog.Catalog, res *resolver.Resolver, parser *steptext.Parser, logger *observability.Logger) *Controller {
	if parser == nil {
		parser = steptext.NewParser(nil)
	}
	if logger == nil {
		logger = observability.NewLogger(io.Discard)
	}
	return &Controller{
		catalog:                cat,
		resolver:               res,
		parser:                 parser,
		logger:                 logger,
		Clock:                  clock.RealClock{},
		GenerationBusinessUnit: DefaultGenerationBusinessUnit,
	}
}

// Catalog returns the step catalog.
func (c *Controller) Catalog() *catalog.Catalog {
	return c.catalog
}

// SetFields replaces every field value. The plan is left alone.
func (c *Controller) SetFields(s *State, f autofill.Fields) {
	s.Fields = f.Clone()
}

// SetConfig updates the fields that drive resolution. Naming a language or
// IDE turns on the developer section.
func (c *Controller) SetConfig(s *State, cfg resolver.Config) {
	s.Fields.BusinessUnit = cfg.BusinessUnit
	s.Fields.CodingLanguage = cfg.CodingLanguage
	s.Fields.IDE = cfg.IDE
	s.Fields.IsIDEAlsoAITool = cfg.IsIDEAlsoAITool
	s.Fields.Tools = append([]string(nil), cfg.ToolsAndTechnologies...)
	if strings.TrimSpace(cfg.CodingLanguage) != "" || strings.TrimSpace(cfg.IDE) != "" {
		s.Fields.ForDevelopers = true
	}
}

// Generate resolves the current configuration and replaces the plan with
// the result. Manual edits since the last generation are discarded;
// annotations are kept.
func (c *Controller) Generate(s *State) []string {
	cfg := s.Fields.ResolverConfig()
	s.Plan.Replace(c.resolver.Resolve(cfg))
	ids := s.Plan.IDs()
	c.logger.LogResolve(s.ID, cfg, ids)
	return ids
}

// AddStep appends the catalog step id. It reports false when the step was
// already in the plan.
func (c *Controller) AddStep(s *State, id string) (bool, error) {
	step, ok := c.catalog.Get(id)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownStep, id)
	}
	added := s.Plan.Add(step)
	if added {
		c.logger.LogPlanEdit(s.ID, "add", id)
	}
	return added, nil
}

// AddCustom mints a custom step and appends it.
func (c *Controller) AddCustom(s *State, title, description string) (catalog.Step, error) {
	if strings.TrimSpace(title) == "" && strings.TrimSpace(description) == "" {
		return catalog.Step{}, ErrEmptyStep
	}
	step := c.parser.NewStep(title, description)
	s.Plan.Add(step)
	c.logger.LogPlanEdit(s.ID, "add_custom", step.ID)
	return step, nil
}

// ImportText parses text into custom steps and appends them. Text with no
// steps returns steptext.ErrNoSteps and leaves the plan unchanged.
func (c *Controller) ImportText(s *State, text string) ([]catalog.Step, error) {
	res := c.parser.Parse(text)
	if err := res.Err(); err != nil {
		return nil, err
	}
	s.Plan.AddAll(res.Steps)
	c.logger.LogPlanEdit(s.ID, "import", fmt.Sprintf("%d steps", len(res.Steps)))
	return res.Steps, nil
}

// RemoveStep drops id from the plan. Its annotation is kept.
func (c *Controller) RemoveStep(s *State, id string) error {
	if !s.Plan.Remove(id) {
		return fmt.Errorf("%w: %s", ErrUnknownStep, id)
	}
	c.logger.LogPlanEdit(s.ID, "remove", id)
	return nil
}

// Reorder moves the step at from to position to.
func (c *Controller) Reorder(s *State, from, to int) {
	s.Plan.Reorder(from, to)
	c.logger.LogPlanEdit(s.ID, "reorder", fmt.Sprintf("%d->%d", from, to))
}

// DragOver handles one pointer-over event of a drag gesture: the step at
// from moves to over right away. It returns the dragged step's new index,
// which the caller passes as from on the next event. An out-of-range from
// leaves the plan unchanged and returns -1.
func (c *Controller) DragOver(s *State, from, over int) int {
	d := plan.NewDragSession(s.Plan)
	d.Begin(from)
	d.Over(over)
	index := d.Index()
	d.End()
	if index >= 0 {
		c.logger.LogPlanEdit(s.ID, "drag", fmt.Sprintf("%d->%d", from, index))
	}
	return index
}

// EditStep changes a step's title and description. An empty title is
// derived from the description.
func (c *Controller) EditStep(s *State, id, title, description string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		title = steptext.Title(description)
	}
	if !s.Plan.Edit(id, title, strings.TrimSpace(description)) {
		return fmt.Errorf("%w: %s", ErrUnknownStep, id)
	}
	c.logger.LogPlanEdit(s.ID, "edit", id)
	return nil
}

// Select opens id in the editor. Ids outside the plan clear the selection.
func (c *Controller) Select(s *State, id string) {
	s.Plan.Select(id)
}

// Comment sets or clears the comment on a planned step.
func (c *Controller) Comment(s *State, id, text string) error {
	if !s.Plan.Contains(id) {
		return fmt.Errorf("%w: %s", ErrUnknownStep, id)
	}
	s.Annotations.SetComment(id, text)
	c.logger.LogPlanEdit(s.ID, "comment", id)
	return nil
}

// OverrideContent replaces the guide content of a planned step. Nil
// restores the default.
func (c *Controller) OverrideContent(s *State, id string, blocks []catalog.Block) error {
	if !s.Plan.Contains(id) {
		return fmt.Errorf("%w: %s", ErrUnknownStep, id)
	}
	s.Annotations.SetContentOverride(id, blocks)
	c.logger.LogPlanEdit(s.ID, "override_content", id)
	return nil
}

// Content returns the guide content shown for id: the user's override if
// set, otherwise the catalog default.
func (c *Controller) Content(s *State, id string) ([]catalog.Block, error) {
	step, ok := s.Plan.Get(id)
	if !ok {
		if !c.catalog.Has(id) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownStep, id)
		}
		step, _ = c.catalog.Get(id)
	}
	fallback := c.catalog.Content(id)
	if fallback == nil {
		fallback = step.Content
	}
	return s.Annotations.Content(id, fallback), nil
}

// SetDraft stores a fetched draft until the user picks a conflict policy.
// A newer draft replaces an unresolved one.
func (c *Controller) SetDraft(s *State, d autofill.Draft) {
	s.PendingDraft = &d
}

// ResolveAutofill merges the pending draft under policy and discards the
// draft. It reports whether the plan was regenerated.
func (c *Controller) ResolveAutofill(s *State, policy autofill.Policy) (bool, error) {
	if s.PendingDraft == nil {
		return false, ErrNoPendingDraft
	}
	draft := *s.PendingDraft
	s.PendingDraft = nil

	merged := autofill.Merge(s.Fields, draft, policy)
	s.Fields = merged

	regenerate := autofill.ShouldGenerate(policy, draft, merged, c.GenerationBusinessUnit)
	c.logger.LogMerge(s.ID, string(policy), regenerate)
	if regenerate {
		c.Generate(s)
	}
	return regenerate, nil
}

// Bundle assembles the finished submission. Annotations of steps no longer
// in the plan are left out.
func (c *Controller) Bundle(s *State) Bundle {
	steps := append([]catalog.Step{}, s.Plan.Steps...)
	ann := plan.Annotations{}
	for _, step := range steps {
		if a, ok := s.Annotations.Get(step.ID); ok {
			ann[step.ID] = a
		}
	}
	return Bundle{
		SessionID:   s.ID,
		Fields:      s.Fields.Clone(),
		Plan:        steps,
		Annotations: ann,
		SubmittedAt: c.Clock.Now(),
	}
}

// Submit hands the finished submission to sink. A use case name is
// required.
func (c *Controller) Submit(ctx context.Context, s *State, sink Sink) (Bundle, error) {
	if strings.TrimSpace(s.Fields.UseCaseName) == "" {
		return Bundle{}, fmt.Errorf("%w: use case name is required", ErrIncomplete)
	}
	b := c.Bundle(s)
	err := sink.Submit(ctx, b)
	c.logger.LogSubmit(s.ID, len(b.Plan), err)
	if err != nil {
		return Bundle{}, fmt.Errorf("submit: %w", err)
	}
	return b, nil
}
