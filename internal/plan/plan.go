// Package plan holds the working list of setup steps and the per-step
// annotations a user attaches to it.
//
// Every operation is total. Attempts to break the no-duplicate-id invariant
// are absorbed as no-ops, and out-of-range positions are clamped.
package plan

import (
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/catalog"
)

// Plan is an ordered list of steps, unique by id.
type Plan struct {
	Steps []catalog.Step `json:"steps"`

	// Selected is the id of the step currently open in the editor.
	Selected string `json:"selected,omitempty"`
}

// New creates a plan from steps, dropping repeated ids.
func New(steps []catalog.Step) *Plan {
	p := &Plan{Steps: []catalog.Step{}}
	p.AddAll(steps)
	return p
}

// Len returns the number of steps.
func (p *Plan) Len() int {
	return len(p.Steps)
}

// Index returns the position of id, or -1.
func (p *Plan) Index(id string) int {
	for i, s := range p.Steps {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Contains reports whether id is in the plan.
func (p *Plan) Contains(id string) bool {
	return p.Index(id) >= 0
}

// Get returns the step with id.
func (p *Plan) Get(id string) (catalog.Step, bool) {
	if i := p.Index(id); i >= 0 {
		return p.Steps[i], true
	}
	return catalog.Step{}, false
}

// IDs returns the step ids in order.
func (p *Plan) IDs() []string {
	out := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		out[i] = s.ID
	}
	return out
}

// Add appends step unless a step with the same id is already present.
func (p *Plan) Add(step catalog.Step) bool {
	if step.ID == "" || p.Contains(step.ID) {
		return false
	}
	p.Steps = append(p.Steps, step)
	return true
}

// AddAll appends each step in order and returns how many were added.
func (p *Plan) AddAll(steps []catalog.Step) int {
	n := 0
	for _, s := range steps {
		if p.Add(s) {
			n++
		}
	}
	return n
}

// Replace discards the current steps and selection in favour of steps.
func (p *Plan) Replace(steps []catalog.Step) {
	p.Steps = []catalog.Step{}
	p.Selected = ""
	p.AddAll(steps)
}

// Remove drops the step with id and clears the selection if it pointed
// there.
func (p *Plan) Remove(id string) bool {
	i := p.Index(id)
	if i < 0 {
		return false
	}
	p.Steps = append(p.Steps[:i], p.Steps[i+1:]...)
	if p.Selected == id {
		p.Selected = ""
	}
	return true
}

// Reorder moves the step at from to position to, shifting the others.
// Indices outside the plan are clamped to its ends.
func (p *Plan) Reorder(from, to int) {
	n := len(p.Steps)
	if n < 2 {
		return
	}
	from = clamp(from, 0, n-1)
	to = clamp(to, 0, n-1)
	if from == to {
		return
	}

	moved := p.Steps[from]
	if from < to {
		copy(p.Steps[from:to], p.Steps[from+1:to+1])
	} else {
		copy(p.Steps[to+1:from+1], p.Steps[to:from])
	}
	p.Steps[to] = moved
}

// Edit replaces the title and description of a step. Id and category never
// change.
func (p *Plan) Edit(id, title, description string) bool {
	i := p.Index(id)
	if i < 0 {
		return false
	}
	p.Steps[i].Title = title
	p.Steps[i].Description = description
	return true
}

// Select marks id as the open step. Ids not in the plan clear the
// selection.
func (p *Plan) Select(id string) {
	if !p.Contains(id) {
		p.Selected = ""
		return
	}
	p.Selected = id
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
