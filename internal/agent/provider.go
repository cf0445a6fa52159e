package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/autofill"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/governance"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/observability"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/tools"
)

var (
	// ErrSourceDenied is returned when governance rejects a source.
	ErrSourceDenied = errors.New("autofill source denied")

	// ErrNoExtractor is returned for prose documents when no model is
	// configured.
	ErrNoExtractor = errors.New("no extractor configured for unstructured documents")
)

// AutofillProvider produces drafts from links and files. Structured JSON or
// YAML documents are decoded directly; everything else goes through the
// Extractor.
type AutofillProvider struct {
	Registry  *tools.Registry
	Policy    governance.PolicyEngine
	Extractor *Extractor
	Logger    *observability.Logger
}

func NewAutofillProvider(registry *tools.Registry, policy governance.PolicyEngine, extractor *Extractor, logger *observability.Logger) *AutofillProvider {
	if logger == nil {
		logger = observability.NewLogger(io.Discard)
	}
	return &AutofillProvider{
		Registry:  registry,
		Policy:    policy,
		Extractor: extractor,
		Logger:    logger,
	}
}

// Fetch retrieves src and turns it into a draft tagged with src.
func (p *AutofillProvider) Fetch(ctx context.Context, sessionID string, src autofill.Source) (autofill.Draft, error) {
	draft, err := p.fetch(ctx, sessionID, src)
	p.Logger.LogAutofill(sessionID, string(src.Type), src.Value, err)
	if err != nil {
		return autofill.Draft{}, err
	}
	draft.Source = src
	return draft, nil
}

func (p *AutofillProvider) fetch(ctx context.Context, sessionID string, src autofill.Source) (autofill.Draft, error) {
	if err := src.Validate(); err != nil {
		return autofill.Draft{}, err
	}

	if p.Policy != nil {
		res, err := p.Policy.Evaluate(ctx, governance.Request{
			SourceType: string(src.Type),
			Value:      src.Value,
			SessionID:  sessionID,
		})
		if err != nil {
			return autofill.Draft{}, fmt.Errorf("policy check: %w", err)
		}
		p.Logger.LogPolicyCheck(sessionID, src.Value, string(res.Effect), res.Reason)
		if !res.Allowed() {
			return autofill.Draft{}, fmt.Errorf("%w: %s", ErrSourceDenied, res.Reason)
		}
	}

	doc, err := p.Registry.Fetch(ctx, src)
	if err != nil {
		return autofill.Draft{}, err
	}

	if doc.Structured() {
		return DecodeDraft(doc)
	}
	if p.Extractor == nil {
		return autofill.Draft{}, ErrNoExtractor
	}
	return p.Extractor.Extract(ctx, sessionID, doc)
}

// DecodeDraft reads a draft stored as JSON or YAML.
func DecodeDraft(doc tools.Document) (autofill.Draft, error) {
	var draft autofill.Draft
	var err error
	switch doc.Format {
	case tools.FormatJSON:
		err = json.Unmarshal([]byte(doc.Content), &draft)
	case tools.FormatYAML:
		err = yaml.Unmarshal([]byte(doc.Content), &draft)
	default:
		return autofill.Draft{}, fmt.Errorf("document format %q is not structured", doc.Format)
	}
	if err != nil {
		return autofill.Draft{}, fmt.Errorf("decode %s draft: %w", doc.Format, err)
	}
	return draft, nil
}
