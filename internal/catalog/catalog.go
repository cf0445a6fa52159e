// Package catalog holds the canonical list of onboarding setup steps.
//
// A catalog is read-only once loaded. Guides with OS-specific wording are a
// rendering concern and share a single entry here, keyed by step id.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultData []byte

// Category groups steps by the kind of action they describe.
type Category string

const (
	CategoryAccess  Category = "access"
	CategoryInstall Category = "install"
	CategoryConfig  Category = "config"
	CategoryCustom  Category = "custom"
)

// Block is one renderable piece of a guide. The engine passes blocks through
// without looking inside them.
type Block struct {
	Kind  string   `json:"kind" yaml:"kind"`
	Text  string   `json:"text,omitempty" yaml:"text,omitempty"`
	Items []string `json:"items,omitempty" yaml:"items,omitempty"`
}

// Step describes one setup action.
type Step struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Category    Category `json:"category" yaml:"category"`
	Content     []Block  `json:"content,omitempty" yaml:"content,omitempty"`
}

// clone returns s with its own copy of the content blocks and their items.
func (s Step) clone() Step {
	if s.Content == nil {
		return s
	}
	blocks := make([]Block, len(s.Content))
	for i, b := range s.Content {
		if b.Items != nil {
			b.Items = append([]string(nil), b.Items...)
		}
		blocks[i] = b
	}
	s.Content = blocks
	return s
}

// Catalog is an ordered, id-indexed set of steps.
type Catalog struct {
	steps []Step
	index map[string]int
}

type file struct {
	Steps []Step `yaml:"steps"`
}

// New builds a catalog from steps in the given order. Empty or repeated ids
// are rejected.
func New(steps []Step) (*Catalog, error) {
	c := &Catalog{
		steps: make([]Step, 0, len(steps)),
		index: make(map[string]int, len(steps)),
	}
	for _, s := range steps {
		if s.ID == "" {
			return nil, fmt.Errorf("catalog step %q has no id", s.Title)
		}
		if _, dup := c.index[s.ID]; dup {
			return nil, fmt.Errorf("duplicate catalog step id %q", s.ID)
		}
		if s.Category == "" {
			s.Category = CategoryConfig
		}
		c.index[s.ID] = len(c.steps)
		c.steps = append(c.steps, s.clone())
	}
	return c, nil
}

// Parse decodes a catalog document. Keys other than "steps" are ignored so
// the same file can carry resolver rules.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return New(f.Steps)
}

// Load reads a catalog file. An empty path loads the built-in catalog.
func Load(path string) (*Catalog, error) {
	data, err := Data(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Data returns the raw catalog document at path, or the built-in one.
func Data(path string) ([]byte, error) {
	if path == "" {
		return defaultData, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return data, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultData)
	if err != nil {
		panic(fmt.Sprintf("built-in catalog is invalid: %v", err))
	}
	return c
}

// Get returns the step with the given id.
func (c *Catalog) Get(id string) (Step, bool) {
	i, ok := c.index[id]
	if !ok {
		return Step{}, false
	}
	return c.steps[i].clone(), true
}

// Has reports whether id is in the catalog.
func (c *Catalog) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Steps returns a copy of all steps in catalog order.
func (c *Catalog) Steps() []Step {
	out := make([]Step, len(c.steps))
	for i, s := range c.steps {
		out[i] = s.clone()
	}
	return out
}

// Position returns the catalog order of id, or -1.
func (c *Catalog) Position(id string) int {
	i, ok := c.index[id]
	if !ok {
		return -1
	}
	return i
}

// Content returns the default guide blocks for a step, or nil.
func (c *Catalog) Content(id string) []Block {
	s, ok := c.Get(id)
	if !ok || len(s.Content) == 0 {
		return nil
	}
	return s.Content
}

// Len returns the number of steps.
func (c *Catalog) Len() int {
	return len(c.steps)
}
