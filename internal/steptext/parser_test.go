package steptext

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/catalog"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/clock"
)

func newTestParser() *Parser {
	return NewParser(clock.NewFakeClock(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))
}

func TestParse_Bullets(t *testing.T) {
	res := newTestParser().Parse("- Install Node\n- Configure Git\n")

	if len(res.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(res.Steps))
	}
	if res.Steps[0].Description != "Install Node" {
		t.Errorf("step 0 description = %q", res.Steps[0].Description)
	}
	if res.Steps[1].Description != "Configure Git" {
		t.Errorf("step 1 description = %q", res.Steps[1].Description)
	}
	for _, s := range res.Steps {
		if utf8.RuneCountInString(s.Title) > MaxTitleLength {
			t.Errorf("title %q longer than %d", s.Title, MaxTitleLength)
		}
		if s.Category != catalog.CategoryCustom {
			t.Errorf("category = %q, want custom", s.Category)
		}
	}
	if res.Steps[0].ID == res.Steps[1].ID {
		t.Errorf("ids not unique: %q", res.Steps[0].ID)
	}
	if res.Empty() || res.Err() != nil {
		t.Error("expected non-empty result")
	}
}

func TestParse_Markers(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"dash", "- Install Git", "Install Git"},
		{"star", "*   Install Git", "Install Git"},
		{"bullet glyph", "• Install Git", "Install Git"},
		{"number dot", "12. Install Git", "Install Git"},
		{"number paren", "3) Install Git", "Install Git"},
		{"number dot without space", "1.Install Node", "Install Node"},
		{"number paren without space", "2)Configure Git", "Configure Git"},
		{"indented", "    - Install Git   ", "Install Git"},
		{"no marker", "Install Git", "Install Git"},
		{"only one marker", "- - nested", "- nested"},
		{"decimal is not a marker", "3.5 GB free disk", "3.5 GB free disk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripMarker(tt.line); got != tt.want {
				t.Errorf("StripMarker(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestParse_SkipsBlankAndMarkerOnlyLines(t *testing.T) {
	res := newTestParser().Parse("\n   \n-\n* \n1.\r\nReal step\r\n")
	if len(res.Steps) != 1 {
		t.Fatalf("expected 1 step, got %d: %+v", len(res.Steps), res.Steps)
	}
	if res.Steps[0].Description != "Real step" {
		t.Errorf("description = %q", res.Steps[0].Description)
	}
}

func TestParse_Empty(t *testing.T) {
	for _, in := range []string{"", "\n\n", "  -  \n *"} {
		res := newTestParser().Parse(in)
		if !res.Empty() {
			t.Errorf("Parse(%q) expected empty result", in)
		}
		if !errors.Is(res.Err(), ErrNoSteps) {
			t.Errorf("Parse(%q).Err() = %v, want ErrNoSteps", in, res.Err())
		}
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name string
		desc string
		want string
	}{
		{"short", "Install Node", "Install Node"},
		{"seven words", "one two three four five six seven eight nine", "one two three four five six seven"},
		{
			"long words truncated",
			"Configure internationalization localization settings for enterprise deployments",
			"Configure internationalization localization set...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Title(tt.desc)
			if got != tt.want {
				t.Errorf("Title(%q) = %q, want %q", tt.desc, got, tt.want)
			}
			if utf8.RuneCountInString(got) > MaxTitleLength {
				t.Errorf("title too long: %d", utf8.RuneCountInString(got))
			}
		})
	}
}

func TestParser_IDsUniqueAcrossCalls(t *testing.T) {
	p := newTestParser()
	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		for _, s := range p.Parse("- a\n- b").Steps {
			if seen[s.ID] {
				t.Fatalf("duplicate id %q", s.ID)
			}
			if !strings.HasPrefix(s.ID, "custom-") {
				t.Errorf("unexpected id format %q", s.ID)
			}
			seen[s.ID] = true
		}
	}
}

func TestParser_NewStep(t *testing.T) {
	p := newTestParser()

	s := p.NewStep("", "  Ask your manager for the team calendar  ")
	if s.Title != "Ask your manager for the team calendar" {
		t.Errorf("derived title = %q", s.Title)
	}

	s = p.NewStep("Calendar", "Ask your manager")
	if s.Title != "Calendar" || s.Description != "Ask your manager" {
		t.Errorf("unexpected step %+v", s)
	}
}

func TestParse_NumberedWithoutSpace(t *testing.T) {
	res := newTestParser().Parse("1.Install Node\n2.Configure Git\n")
	if len(res.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(res.Steps))
	}
	for i, want := range []string{"Install Node", "Configure Git"} {
		if got := res.Steps[i]; got.Description != want || got.Title != want {
			t.Errorf("step %d = %q / %q, want %q", i, got.Title, got.Description, want)
		}
	}
}
