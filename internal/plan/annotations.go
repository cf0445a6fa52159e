package plan

import "github.com/madschaaf/ai-dev-tools-demo-sub002/internal/catalog"

// Annotation is what a user attached to one step.
type Annotation struct {
	Comment         *string         `json:"comment,omitempty"`
	ContentOverride []catalog.Block `json:"contentOverride"`
}

func (a Annotation) empty() bool {
	return a.Comment == nil && a.ContentOverride == nil
}

// Annotations maps step ids to annotations. Entries outlive plan membership,
// so a step removed and re-added with the same id gets its notes back.
type Annotations map[string]Annotation

// Get returns the annotation for id.
func (a Annotations) Get(id string) (Annotation, bool) {
	ann, ok := a[id]
	return ann, ok
}

// SetComment stores a comment for id. An empty text removes it.
func (a Annotations) SetComment(id, text string) {
	ann := a[id]
	if text == "" {
		ann.Comment = nil
	} else {
		ann.Comment = &text
	}
	a.put(id, ann)
}

// SetContentOverride replaces the guide content shown for id. A nil slice
// removes the override so the catalog default applies again.
func (a Annotations) SetContentOverride(id string, content []catalog.Block) {
	ann := a[id]
	if content == nil {
		ann.ContentOverride = nil
	} else {
		ann.ContentOverride = append([]catalog.Block{}, content...)
	}
	a.put(id, ann)
}

// Comment returns the comment for id, or "".
func (a Annotations) Comment(id string) string {
	if ann, ok := a[id]; ok && ann.Comment != nil {
		return *ann.Comment
	}
	return ""
}

// Content returns the override for id if one is set, and fallback
// otherwise.
func (a Annotations) Content(id string, fallback []catalog.Block) []catalog.Block {
	if ann, ok := a[id]; ok && ann.ContentOverride != nil {
		return ann.ContentOverride
	}
	return fallback
}

func (a Annotations) put(id string, ann Annotation) {
	if ann.empty() {
		delete(a, id)
		return
	}
	a[id] = ann
}
