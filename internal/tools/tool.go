// Package tools fetches the documents an autofill draft is extracted from.
package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/autofill"
)

// ErrNoFetcher is returned when no fetcher handles a source type.
var ErrNoFetcher = errors.New("no fetcher for source type")

// Format says how a document's content is encoded.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Document is fetched source material.
type Document struct {
	Source  autofill.Source `json:"source"`
	Title   string          `json:"title,omitempty"`
	Excerpt string          `json:"excerpt,omitempty"`
	Content string          `json:"content"`
	Format  Format          `json:"format"`
}

// Structured reports whether the content is a machine-readable draft
// rather than prose.
func (d Document) Structured() bool {
	return d.Format == FormatJSON || d.Format == FormatYAML
}

// Fetcher retrieves one kind of source.
type Fetcher interface {
	Name() string
	Description() string
	Fetch(ctx context.Context, value string) (Document, error)
}

// Registry manages the fetchers available per source type.
type Registry struct {
	Fetchers map[autofill.SourceType]Fetcher
}

func NewRegistry() *Registry {
	return &Registry{
		Fetchers: make(map[autofill.SourceType]Fetcher),
	}
}

func (r *Registry) Register(t autofill.SourceType, f Fetcher) {
	r.Fetchers[t] = f
}

func (r *Registry) Get(t autofill.SourceType) Fetcher {
	return r.Fetchers[t]
}

// Fetch validates src and hands it to the fetcher registered for its type.
func (r *Registry) Fetch(ctx context.Context, src autofill.Source) (Document, error) {
	if err := src.Validate(); err != nil {
		return Document{}, err
	}
	f := r.Get(src.Type)
	if f == nil {
		return Document{}, fmt.Errorf("%w: %s", ErrNoFetcher, src.Type)
	}
	doc, err := f.Fetch(ctx, src.Value)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", f.Name(), err)
	}
	doc.Source = src
	return doc, nil
}
