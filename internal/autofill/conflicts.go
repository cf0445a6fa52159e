package autofill

import "strings"

// Conflicts lists the fields, by JSON name, where draft would change a
// value the user already entered. A draft without conflicts merges the
// same way under every policy except cancel.
func Conflicts(current Fields, draft Draft) []string {
	var out []string
	text := func(name, cur string, in *string) {
		if in != nil && !blank(cur) && !blank(*in) && strings.TrimSpace(cur) != strings.TrimSpace(*in) {
			out = append(out, name)
		}
	}
	flag := func(name string, cur bool, in *bool) {
		if in != nil && cur && !*in {
			out = append(out, name)
		}
	}

	text("useCaseName", current.UseCaseName, draft.UseCaseName)
	text("description", current.Description, draft.Description)
	text("problem", current.Problem, draft.Problem)
	text("benefits", current.Benefits, draft.Benefits)
	text("notes", current.Notes, draft.Notes)
	text("businessUnit", current.BusinessUnit, draft.BusinessUnit)
	flag("forDevelopers", current.ForDevelopers, draft.ForDevelopers)
	text("codingLanguage", current.CodingLanguage, draft.CodingLanguage)
	text("ide", current.IDE, draft.IDE)
	flag("isIdeAlsoAiTool", current.IsIDEAlsoAITool, draft.IsIDEAlsoAITool)

	if len(current.Tools) > 0 && len(union(current.Tools, draft.Tools)) != len(union(current.Tools, nil)) {
		out = append(out, "toolsAndTechnologies")
	}
	if len(current.Tags) > 0 && len(union(current.Tags, draft.Tags)) != len(union(current.Tags, nil)) {
		out = append(out, "tags")
	}
	if len(current.Links) > 0 && len(unionLinks(current.Links, draft.Links)) != len(unionLinks(current.Links, nil)) {
		out = append(out, "links")
	}
	return out
}
