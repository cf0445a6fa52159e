package autofill

import (
	"strings"

	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/resolver"
)

// Link is a named reference attached to a submission.
type Link struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// Fields are the user-editable values of a use case submission.
type Fields struct {
	UseCaseName string `json:"useCaseName"`
	Description string `json:"description"`
	Problem     string `json:"problem"`
	Benefits    string `json:"benefits"`
	Notes       string `json:"notes"`

	BusinessUnit string `json:"businessUnit"`

	// ForDevelopers gates the language and IDE inputs.
	ForDevelopers   bool   `json:"forDevelopers"`
	CodingLanguage  string `json:"codingLanguage"`
	IDE             string `json:"ide"`
	IsIDEAlsoAITool bool   `json:"isIdeAlsoAiTool"`

	Tools []string `json:"toolsAndTechnologies"`
	Tags  []string `json:"tags"`
	Links []Link   `json:"links"`
}

// Clone returns a deep copy.
func (f Fields) Clone() Fields {
	out := f
	out.Tools = cloneStrings(f.Tools)
	out.Tags = cloneStrings(f.Tags)
	if f.Links != nil {
		out.Links = append([]Link{}, f.Links...)
	}
	return out
}

// ResolverConfig extracts the configuration snapshot used for resolution.
func (f Fields) ResolverConfig() resolver.Config {
	return resolver.Config{
		BusinessUnit:         f.BusinessUnit,
		CodingLanguage:       f.CodingLanguage,
		IDE:                  f.IDE,
		ToolsAndTechnologies: cloneStrings(f.Tools),
		IsIDEAlsoAITool:      f.IsIDEAlsoAITool,
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string{}, in...)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
