package submission

import (
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/autofill"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/plan"
)

// State is everything one user has entered into a submission.
type State struct {
	ID          string           `json:"id"`
	Fields      autofill.Fields  `json:"fields"`
	Plan        *plan.Plan       `json:"plan"`
	Annotations plan.Annotations `json:"annotations"`

	// PendingDraft is set between an autofill fetch and the user's choice
	// of conflict policy.
	PendingDraft *autofill.Draft `json:"pendingDraft,omitempty"`
}

// NewState returns an empty submission.
func NewState(id string) *State {
	s := &State{ID: id}
	s.EnsureDefaults()
	return s
}

// EnsureDefaults fills in the containers a decoded state may lack.
func (s *State) EnsureDefaults() {
	if s.Plan == nil {
		s.Plan = plan.New(nil)
	}
	if s.Plan.Steps == nil {
		s.Plan.Steps = plan.New(nil).Steps
	}
	if s.Annotations == nil {
		s.Annotations = plan.Annotations{}
	}
}
