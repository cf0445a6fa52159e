package plan

import (
	"reflect"
	"testing"

	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/catalog"
)

func TestAnnotations_Comment(t *testing.T) {
	a := Annotations{}
	a.SetComment("a", "ask IT first")

	if got := a.Comment("a"); got != "ask IT first" {
		t.Errorf("Comment(a) = %q", got)
	}
	if got := a.Comment("b"); got != "" {
		t.Errorf("Comment(b) = %q, want empty", got)
	}

	a.SetComment("a", "")
	if _, ok := a.Get("a"); ok {
		t.Error("clearing the only field should drop the entry")
	}
}

func TestAnnotations_ContentOverride(t *testing.T) {
	a := Annotations{}
	fallback := []catalog.Block{{Kind: "paragraph", Text: "default"}}
	override := []catalog.Block{{Kind: "paragraph", Text: "mine"}}

	if got := a.Content("a", fallback); !reflect.DeepEqual(got, fallback) {
		t.Errorf("Content without override = %v", got)
	}

	a.SetContentOverride("a", override)
	override[0].Text = "mutated"
	if got := a.Content("a", fallback); got[0].Text != "mine" {
		t.Errorf("override not copied: %v", got)
	}

	a.SetContentOverride("a", []catalog.Block{})
	if got := a.Content("a", fallback); len(got) != 0 {
		t.Errorf("empty override should hide the default, got %v", got)
	}

	a.SetContentOverride("a", nil)
	if got := a.Content("a", fallback); !reflect.DeepEqual(got, fallback) {
		t.Errorf("cleared override should fall back, got %v", got)
	}
}

func TestAnnotations_SurviveRemoveAndReAdd(t *testing.T) {
	p := planOf("a", "b")
	a := Annotations{}
	a.SetComment("a", "note")
	a.SetContentOverride("a", []catalog.Block{{Kind: "code", Text: "make"}})

	p.Remove("a")
	p.Add(step("a"))

	if got := a.Comment("a"); got != "note" {
		t.Errorf("comment lost after re-add: %q", got)
	}
	if got := a.Content("a", nil); len(got) != 1 || got[0].Text != "make" {
		t.Errorf("override lost after re-add: %v", got)
	}
}

func TestAnnotations_IndependentFields(t *testing.T) {
	a := Annotations{}
	a.SetComment("a", "c")
	a.SetContentOverride("a", []catalog.Block{{Kind: "k"}})
	a.SetComment("a", "")

	ann, ok := a.Get("a")
	if !ok || ann.ContentOverride == nil || ann.Comment != nil {
		t.Errorf("unexpected annotation %+v", ann)
	}
}
