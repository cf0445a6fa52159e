package autofill

import (
	"fmt"
	"strings"
)

// SourceType says where a draft came from.
type SourceType string

const (
	SourceLink SourceType = "link"
	SourceFile SourceType = "file"
)

// Source identifies the document a draft was produced from.
type Source struct {
	Type  SourceType `json:"type" yaml:"type"`
	Value string     `json:"value" yaml:"value"`
}

// Validate checks the source type and that a value is present.
func (s Source) Validate() error {
	switch s.Type {
	case SourceLink, SourceFile:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSource, s.Type)
	}
	if strings.TrimSpace(s.Value) == "" {
		return fmt.Errorf("%w: empty %s source", ErrUnknownSource, s.Type)
	}
	return nil
}

// Draft holds externally produced field values. A nil field was not
// supplied and is never applied; a non-nil empty value was supplied empty.
type Draft struct {
	UseCaseName *string `json:"useCaseName,omitempty" yaml:"useCaseName,omitempty"`
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
	Problem     *string `json:"problem,omitempty" yaml:"problem,omitempty"`
	Benefits    *string `json:"benefits,omitempty" yaml:"benefits,omitempty"`
	Notes       *string `json:"notes,omitempty" yaml:"notes,omitempty"`

	BusinessUnit    *string `json:"businessUnit,omitempty" yaml:"businessUnit,omitempty"`
	ForDevelopers   *bool   `json:"forDevelopers,omitempty" yaml:"forDevelopers,omitempty"`
	CodingLanguage  *string `json:"codingLanguage,omitempty" yaml:"codingLanguage,omitempty"`
	IDE             *string `json:"ide,omitempty" yaml:"ide,omitempty"`
	IsIDEAlsoAITool *bool   `json:"isIdeAlsoAiTool,omitempty" yaml:"isIdeAlsoAiTool,omitempty"`

	Tools []string `json:"toolsAndTechnologies,omitempty" yaml:"toolsAndTechnologies,omitempty"`
	Tags  []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Links []Link   `json:"links,omitempty" yaml:"links,omitempty"`

	ShouldAutoGenerateSteps bool   `json:"shouldAutoGenerateSteps,omitempty" yaml:"shouldAutoGenerateSteps,omitempty"`
	Source                  Source `json:"source" yaml:"source"`
}

// DevelopmentContext reports whether the draft names a language or IDE.
func (d Draft) DevelopmentContext() bool {
	return (d.CodingLanguage != nil && !blank(*d.CodingLanguage)) ||
		(d.IDE != nil && !blank(*d.IDE))
}

// Empty reports whether the draft supplies no field at all.
func (d Draft) Empty() bool {
	return d.UseCaseName == nil && d.Description == nil && d.Problem == nil &&
		d.Benefits == nil && d.Notes == nil && d.BusinessUnit == nil &&
		d.ForDevelopers == nil && d.CodingLanguage == nil && d.IDE == nil &&
		d.IsIDEAlsoAITool == nil && d.Tools == nil && d.Tags == nil && d.Links == nil
}

// String returns a pointer to s, for building drafts.
func String(s string) *string {
	return &s
}

// Bool returns a pointer to b, for building drafts.
func Bool(b bool) *bool {
	return &b
}
