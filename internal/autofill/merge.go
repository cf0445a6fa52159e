// Package autofill merges externally produced field values into a use case
// submission under an explicit conflict policy.
//
// Merge works on a copy and returns the finished result, so a caller never
// observes a half-applied draft. Writes happen in two phases: first the
// "for developers" flag, then the language and IDE values it gates.
package autofill

import (
	"strings"
)

// textSeparator sits between existing text and appended draft text.
const textSeparator = "\n\n"

// Merge combines draft into current according to policy.
func Merge(current Fields, draft Draft, policy Policy) Fields {
	if policy == PolicyCancel {
		return current.Clone()
	}
	next := current.Clone()

	language := mergeChoice(current.CodingLanguage, draft.CodingLanguage, policy)
	ide := mergeChoice(current.IDE, draft.IDE, policy)

	// Phase one: the flag that unlocks language and IDE input.
	next.ForDevelopers = mergeFlag(current.ForDevelopers, draft.ForDevelopers, policy)
	if writes(draft.CodingLanguage, language) || writes(draft.IDE, ide) {
		next.ForDevelopers = true
	}

	// Phase two: every value.
	next.CodingLanguage = language
	next.IDE = ide
	next.IsIDEAlsoAITool = mergeFlag(current.IsIDEAlsoAITool, draft.IsIDEAlsoAITool, policy)
	next.BusinessUnit = mergeChoice(current.BusinessUnit, draft.BusinessUnit, policy)

	next.UseCaseName = mergeText(current.UseCaseName, draft.UseCaseName, policy)
	next.Description = mergeText(current.Description, draft.Description, policy)
	next.Problem = mergeText(current.Problem, draft.Problem, policy)
	next.Benefits = mergeText(current.Benefits, draft.Benefits, policy)
	next.Notes = mergeText(current.Notes, draft.Notes, policy)

	next.Tools = mergeList(next.Tools, draft.Tools, policy)
	next.Tags = mergeList(next.Tags, draft.Tags, policy)
	next.Links = mergeLinks(next.Links, draft.Links, policy)

	return next
}

// ShouldGenerate reports whether steps must be regenerated after merging
// draft into merged: the draft asks for it and the resulting business unit
// is the one that enables generation.
func ShouldGenerate(policy Policy, draft Draft, merged Fields, generationBusinessUnit string) bool {
	if policy == PolicyCancel || !draft.ShouldAutoGenerateSteps {
		return false
	}
	if blank(generationBusinessUnit) {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(merged.BusinessUnit), strings.TrimSpace(generationBusinessUnit))
}

// writes reports whether a non-empty value from the draft lands in the
// result.
func writes(in *string, result string) bool {
	if in == nil || blank(*in) {
		return false
	}
	return result == *in
}

// mergeText handles free-text fields.
func mergeText(current string, in *string, policy Policy) string {
	if in == nil {
		return current
	}
	switch policy {
	case PolicyOverwrite:
		return *in
	case PolicyEmptyOnly:
		if blank(current) {
			return *in
		}
		return current
	case PolicyKeepBoth:
		switch {
		case blank(*in):
			return current
		case blank(current):
			return *in
		case strings.TrimSpace(current) == strings.TrimSpace(*in):
			return current
		}
		return current + textSeparator + strings.TrimSpace(*in)
	}
	return current
}

// mergeChoice handles single-choice fields such as the business unit.
// Two choices cannot be joined, so keep-both keeps a non-empty current
// value.
func mergeChoice(current string, in *string, policy Policy) string {
	if in == nil {
		return current
	}
	switch policy {
	case PolicyOverwrite:
		return *in
	case PolicyEmptyOnly, PolicyKeepBoth:
		if blank(current) {
			return *in
		}
	}
	return current
}

// mergeFlag treats false as the empty value.
func mergeFlag(current bool, in *bool, policy Policy) bool {
	if in == nil {
		return current
	}
	switch policy {
	case PolicyOverwrite:
		return *in
	case PolicyEmptyOnly, PolicyKeepBoth:
		return current || *in
	}
	return current
}

func mergeList(current, in []string, policy Policy) []string {
	if in == nil {
		return current
	}
	switch policy {
	case PolicyOverwrite:
		return cloneStrings(in)
	case PolicyEmptyOnly:
		if len(current) == 0 {
			return cloneStrings(in)
		}
		return current
	case PolicyKeepBoth:
		return union(current, in)
	}
	return current
}

// union returns a unchanged followed by the values of b not already present,
// compared without case or surrounding whitespace. Blank values of b are
// dropped.
func union(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	seen := make(map[string]bool, len(a)+len(b))
	for _, v := range a {
		seen[strings.ToLower(strings.TrimSpace(v))] = true
		out = append(out, v)
	}
	for _, v := range b {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}

func mergeLinks(current, in []Link, policy Policy) []Link {
	if in == nil {
		return current
	}
	switch policy {
	case PolicyOverwrite:
		return append([]Link{}, in...)
	case PolicyEmptyOnly:
		if len(current) == 0 {
			return append([]Link{}, in...)
		}
		return current
	case PolicyKeepBoth:
		return unionLinks(current, in)
	}
	return current
}

// unionLinks returns a unchanged followed by the links of b that share
// neither a name nor a URL with an earlier link.
func unionLinks(a, b []Link) []Link {
	out := make([]Link, 0, len(a)+len(b))
	names := make(map[string]bool)
	urls := make(map[string]bool)
	mark := func(l Link) {
		if name := strings.ToLower(strings.TrimSpace(l.Name)); name != "" {
			names[name] = true
		}
		if url := strings.TrimSpace(l.URL); url != "" {
			urls[url] = true
		}
	}
	for _, l := range a {
		mark(l)
		out = append(out, l)
	}
	for _, l := range b {
		name := strings.ToLower(strings.TrimSpace(l.Name))
		url := strings.TrimSpace(l.URL)
		if name == "" && url == "" {
			continue
		}
		if (name != "" && names[name]) || (url != "" && urls[url]) {
			continue
		}
		mark(l)
		out = append(out, l)
	}
	return out
}
