package autofill

import (
	"errors"
	"reflect"
	"testing"
)

func sampleFields() Fields {
	return Fields{
		UseCaseName:    "Foo",
		Description:    "Existing description",
		BusinessUnit:   "Retail",
		ForDevelopers:  true,
		CodingLanguage: "Python",
		IDE:            "VS Code",
		Tools:          []string{"A"},
		Tags:           []string{"internal"},
		Links:          []Link{{Name: "Wiki", URL: "https://wiki.example.com"}},
	}
}

func TestMergeEmptyOnlyNeverClobbers(t *testing.T) {
	current := sampleFields()
	draft := Draft{
		UseCaseName:    String("Bar"),
		Description:    String("New description"),
		Problem:        String("Slow onboarding"),
		BusinessUnit:   String("Global Technology"),
		CodingLanguage: String("Go"),
		IDE:            String("Cursor"),
		Tools:          []string{"B"},
	}

	got := Merge(current, draft, PolicyEmptyOnly)

	if got.UseCaseName != "Foo" {
		t.Errorf("UseCaseName = %q, want Foo", got.UseCaseName)
	}
	if got.Description != "Existing description" {
		t.Errorf("Description = %q", got.Description)
	}
	if got.Problem != "Slow onboarding" {
		t.Errorf("Problem = %q, want empty field filled", got.Problem)
	}
	if got.BusinessUnit != "Retail" || got.CodingLanguage != "Python" || got.IDE != "VS Code" {
		t.Errorf("choices changed: %+v", got)
	}
	if !reflect.DeepEqual(got.Tools, []string{"A"}) {
		t.Errorf("Tools = %v, want [A]", got.Tools)
	}
}

func TestMergeKeepBothUnionsLists(t *testing.T) {
	current := Fields{Tools: []string{"A"}}
	draft := Draft{Tools: []string{"A", "B"}}

	got := Merge(current, draft, PolicyKeepBoth)

	if !reflect.DeepEqual(got.Tools, []string{"A", "B"}) {
		t.Errorf("Tools = %v, want [A B]", got.Tools)
	}
}

func TestMergeKeepBothListCaseInsensitive(t *testing.T) {
	current := Fields{Tags: []string{"GitHub", " "}}
	draft := Draft{Tags: []string{"github", "Jira", ""}}

	got := Merge(current, draft, PolicyKeepBoth)

	if !reflect.DeepEqual(got.Tags, []string{"GitHub", " ", "Jira"}) {
		t.Errorf("Tags = %q, want [GitHub \" \" Jira]", got.Tags)
	}
}

func TestMergeKeepBothKeepsCurrentListIntact(t *testing.T) {
	current := Fields{
		Tags:  []string{"Go", "go", "  "},
		Links: []Link{{Name: "Wiki", URL: "https://a.example.com"}, {Name: "wiki", URL: "https://b.example.com"}},
	}
	draft := Draft{
		Tags:  []string{"Python", "GO"},
		Links: []Link{{Name: "Board", URL: "https://c.example.com"}},
	}

	got := Merge(current, draft, PolicyKeepBoth)

	if !reflect.DeepEqual(got.Tags, []string{"Go", "go", "  ", "Python"}) {
		t.Errorf("Tags = %q", got.Tags)
	}
	if len(got.Links) != 3 || !reflect.DeepEqual(got.Links[:2], current.Links) {
		t.Errorf("Links = %+v, want current links followed by Board", got.Links)
	}
	if got.Links[2].Name != "Board" {
		t.Errorf("appended link = %+v", got.Links[2])
	}
}

func TestMergeKeepBothText(t *testing.T) {
	tests := []struct {
		name    string
		current string
		draft   *string
		want    string
	}{
		{"append", "Old", String("New"), "Old\n\nNew"},
		{"fill empty", "", String("New"), "New"},
		{"identical", "Same", String(" Same "), "Same"},
		{"blank draft", "Old", String("  "), "Old"},
		{"absent draft", "Old", nil, "Old"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(Fields{Notes: tt.current}, Draft{Notes: tt.draft}, PolicyKeepBoth)
			if got.Notes != tt.want {
				t.Errorf("Notes = %q, want %q", got.Notes, tt.want)
			}
		})
	}
}

func TestMergeKeepBothKeepsChoice(t *testing.T) {
	current := Fields{BusinessUnit: "Retail"}
	got := Merge(current, Draft{BusinessUnit: String("Global Technology")}, PolicyKeepBoth)
	if got.BusinessUnit != "Retail" {
		t.Errorf("BusinessUnit = %q, want Retail", got.BusinessUnit)
	}
}

func TestMergeCancelIsNoOp(t *testing.T) {
	current := sampleFields()
	draft := Draft{
		UseCaseName: String("Bar"),
		Tools:       []string{"B"},
		Links:       []Link{{Name: "Other", URL: "https://other.example.com"}},
	}

	got := Merge(current, draft, PolicyCancel)

	if !reflect.DeepEqual(got, current) {
		t.Errorf("cancel changed fields:\n got %+v\nwant %+v", got, current)
	}
}

func TestMergeDoesNotAliasCurrent(t *testing.T) {
	current := sampleFields()
	got := Merge(current, Draft{}, PolicyKeepBoth)
	got.Tools[0] = "changed"
	if current.Tools[0] != "A" {
		t.Errorf("merge result shares the Tools slice with current")
	}
}

func TestMergeOverwrite(t *testing.T) {
	current := sampleFields()
	draft := Draft{
		UseCaseName:    String("Bar"),
		CodingLanguage: String("Go"),
		Tools:          []string{"B"},
	}

	got := Merge(current, draft, PolicyOverwrite)

	if got.UseCaseName != "Bar" {
		t.Errorf("UseCaseName = %q, want Bar", got.UseCaseName)
	}
	if got.CodingLanguage != "Go" {
		t.Errorf("CodingLanguage = %q, want Go", got.CodingLanguage)
	}
	if !reflect.DeepEqual(got.Tools, []string{"B"}) {
		t.Errorf("Tools = %v, want [B]", got.Tools)
	}
	if got.Description != current.Description {
		t.Errorf("absent draft field changed Description to %q", got.Description)
	}
}

func TestMergeDevelopmentFlagComesFirst(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		draft  Draft
		want   bool
	}{
		{"overwrite language", PolicyOverwrite, Draft{CodingLanguage: String("Go")}, true},
		{"overwrite ide", PolicyOverwrite, Draft{IDE: String("Cursor")}, true},
		{"empty-only language", PolicyEmptyOnly, Draft{CodingLanguage: String("Go")}, true},
		{"flag false and language", PolicyOverwrite, Draft{ForDevelopers: Bool(false), IDE: String("Cursor")}, true},
		{"blank language", PolicyOverwrite, Draft{CodingLanguage: String("")}, false},
		{"nothing", PolicyOverwrite, Draft{UseCaseName: String("x")}, false},
		{"flag only", PolicyKeepBoth, Draft{ForDevelopers: Bool(true)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(Fields{}, tt.draft, tt.policy)
			if got.ForDevelopers != tt.want {
				t.Errorf("ForDevelopers = %v, want %v", got.ForDevelopers, tt.want)
			}
		})
	}
}

func TestMergeEmptyOnlyKeepsLanguageWithoutRaisingFlag(t *testing.T) {
	current := Fields{CodingLanguage: "Python"}
	got := Merge(current, Draft{CodingLanguage: String("Go")}, PolicyEmptyOnly)
	if got.CodingLanguage != "Python" {
		t.Errorf("CodingLanguage = %q, want Python", got.CodingLanguage)
	}
	if got.ForDevelopers {
		t.Errorf("ForDevelopers set although the draft language was not written")
	}
}

func TestMergeLinks(t *testing.T) {
	current := Fields{Links: []Link{{Name: "Wiki", URL: "https://wiki.example.com"}}}
	draft := Draft{Links: []Link{
		{Name: "wiki", URL: "https://elsewhere.example.com"},
		{Name: "Repo", URL: "https://wiki.example.com"},
		{Name: "Board", URL: "https://board.example.com"},
		{},
	}}

	got := Merge(current, draft, PolicyKeepBoth)

	want := []Link{
		{Name: "Wiki", URL: "https://wiki.example.com"},
		{Name: "Board", URL: "https://board.example.com"},
	}
	if !reflect.DeepEqual(got.Links, want) {
		t.Errorf("Links = %+v, want %+v", got.Links, want)
	}
}

func TestShouldGenerate(t *testing.T) {
	const gt = "Global Technology"
	tests := []struct {
		name   string
		policy Policy
		draft  Draft
		merged Fields
		want   bool
	}{
		{"requested and matching", PolicyOverwrite, Draft{ShouldAutoGenerateSteps: true}, Fields{BusinessUnit: gt}, true},
		{"case differs", PolicyKeepBoth, Draft{ShouldAutoGenerateSteps: true}, Fields{BusinessUnit: " global technology"}, true},
		{"not requested", PolicyOverwrite, Draft{}, Fields{BusinessUnit: gt}, false},
		{"other unit", PolicyOverwrite, Draft{ShouldAutoGenerateSteps: true}, Fields{BusinessUnit: "Retail"}, false},
		{"cancelled", PolicyCancel, Draft{ShouldAutoGenerateSteps: true}, Fields{BusinessUnit: gt}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldGenerate(tt.policy, tt.draft, tt.merged, gt); got != tt.want {
				t.Errorf("ShouldGenerate = %v, want %v", got, tt.want)
			}
		})
	}
	if ShouldGenerate(PolicyOverwrite, Draft{ShouldAutoGenerateSteps: true}, Fields{}, "") {
		t.Errorf("ShouldGenerate with no generation unit must be false")
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want Policy
	}{
		{"overwrite", PolicyOverwrite},
		{"Keep-Both", PolicyKeepBoth},
		{"empty_only", PolicyEmptyOnly},
		{" cancel ", PolicyCancel},
		{"", PolicyCancel},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if err != nil {
			t.Fatalf("ParsePolicy(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParsePolicy(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := ParsePolicy("merge"); !errors.Is(err, ErrUnknownPolicy) {
		t.Errorf("ParsePolicy(merge) error = %v, want ErrUnknownPolicy", err)
	}
}

func TestSourceValidate(t *testing.T) {
	if err := (Source{Type: SourceLink, Value: "https://example.com"}).Validate(); err != nil {
		t.Errorf("valid link: %v", err)
	}
	if err := (Source{Type: SourceFile, Value: "  "}).Validate(); !errors.Is(err, ErrUnknownSource) {
		t.Errorf("empty value error = %v", err)
	}
	if err := (Source{Type: "ftp", Value: "x"}).Validate(); !errors.Is(err, ErrUnknownSource) {
		t.Errorf("unknown type error = %v", err)
	}
}

func TestDraftEmpty(t *testing.T) {
	if !(Draft{ShouldAutoGenerateSteps: true}).Empty() {
		t.Errorf("draft without fields should be empty")
	}
	if (Draft{Tags: []string{}}).Empty() {
		t.Errorf("draft with supplied empty list should not be empty")
	}
	if !(Draft{IDE: String("Cursor")}).DevelopmentContext() {
		t.Errorf("IDE should give development context")
	}
}
