package gateway

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/autofill"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/catalog"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/observability"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/resolver"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/submission"
)

type addStepRequest struct {
	StepID      string `json:"stepId"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type importRequest struct {
	Text string `json:"text"`
}

type reorderRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type dragRequest struct {
	From int `json:"from"`
	Over int `json:"over"`
}

type dragResponse struct {
	Index int               `json:"index"`
	State *submission.State `json:"state"`
}

type editRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type commentRequest struct {
	Comment string `json:"comment"`
}

type contentRequest struct {
	Blocks []catalog.Block `json:"blocks"`
}

type resolveRequest struct {
	Policy string `json:"policy"`
}

// DraftResponse is returned once an autofill draft waits for a policy.
type DraftResponse struct {
	Draft     autofill.Draft `json:"draft"`
	Conflicts []string       `json:"conflicts"`
}

// ResolveResponse reports the outcome of applying a draft.
type ResolveResponse struct {
	State       *submission.State `json:"state"`
	Regenerated bool              `json:"regenerated"`
}

// GetCatalog lists every step a user can add.
func (g *HTTPGateway) GetCatalog(w http.ResponseWriter, r *http.Request) {
	g.writeJSON(w, http.StatusOK, map[string]any{
		"steps": g.Controller.Catalog().Steps(),
	})
}

// CreateSession starts an empty submission.
func (g *HTTPGateway) CreateSession(w http.ResponseWriter, r *http.Request) {
	state, err := g.Sessions.Create(r.Context())
	if err != nil {
		g.writeErr(w, err)
		return
	}
	g.writeJSON(w, http.StatusCreated, state)
}

// GetSession returns the stored state.
func (g *HTTPGateway) GetSession(w http.ResponseWriter, r *http.Request) {
	state, err := g.Sessions.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		g.writeErr(w, err)
		return
	}
	g.writeJSON(w, http.StatusOK, state)
}

// PutFields replaces the form fields.
func (g *HTTPGateway) PutFields(w http.ResponseWriter, r *http.Request) {
	var req autofill.Fields
	if err := g.decode(r, &req); err != nil {
		g.writeErr(w, err)
		return
	}
	g.update(w, r, http.StatusOK, func(s *submission.State) (any, error) {
		g.Controller.SetFields(s, req)
		return nil, nil
	})
}

// PutConfig updates the fields that drive step generation.
func (g *HTTPGateway) PutConfig(w http.ResponseWriter, r *http.Request) {
	var req resolver.Config
	if err := g.decode(r, &req); err != nil {
		g.writeErr(w, err)
		return
	}
	g.update(w, r, http.StatusOK, func(s *submission.State) (any, error) {
		g.Controller.SetConfig(s, req)
		return nil, nil
	})
}

// Generate replaces the plan with the steps resolved from the fields.
func (g *HTTPGateway) Generate(w http.ResponseWriter, r *http.Request) {
	g.update(w, r, http.StatusOK, func(s *submission.State) (any, error) {
		g.Controller.Generate(s)
		return nil, nil
	})
}

// AddStep appends a catalog step by id, or a custom step by title and
// description.
func (g *HTTPGateway) AddStep(w http.ResponseWriter, r *http.Request) {
	var req addStepRequest
	if err := g.decode(r, &req); err != nil {
		g.writeErr(w, err)
		return
	}
	g.update(w, r, http.StatusOK, func(s *submission.State) (any, error) {
		if req.StepID != "" {
			_, err := g.Controller.AddStep(s, req.StepID)
			return nil, err
		}
		_, err := g.Controller.AddCustom(s, req.Title, req.Description)
		return nil, err
	})
}

// ImportSteps appends custom steps parsed from pasted text.
func (g *HTTPGateway) ImportSteps(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := g.decode(r, &req); err != nil {
		g.writeErr(w, err)
		return
	}
	g.update(w, r, http.StatusOK, func(s *submission.State) (any, error) {
		_, err := g.Controller.ImportText(s, req.Text)
		return nil, err
	})
}

// ReorderSteps moves one step.
func (g *HTTPGateway) ReorderSteps(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := g.decode(r, &req); err != nil {
		g.writeErr(w, err)
		return
	}
	g.update(w, r, http.StatusOK, func(s *submission.State) (any, error) {
		g.Controller.Reorder(s, req.From, req.To)
		return nil, nil
	})
}

// DragStep applies one pointer-over event of a drag gesture.
func (g *HTTPGateway) DragStep(w http.ResponseWriter, r *http.Request) {
	var req dragRequest
	if err := g.decode(r, &req); err != nil {
		g.writeErr(w, err)
		return
	}
	g.update(w, r, http.StatusOK, func(s *submission.State) (any, error) {
		return dragResponse{Index: g.Controller.DragOver(s, req.From, req.Over), State: s}, nil
	})
}

// EditStep changes a step's title and description.
func (g *HTTPGateway) EditStep(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if err := g.decode(r, &req); err != nil {
		g.writeErr(w, err)
		return
	}
	stepID := chi.URLParam(r, "stepID")
	g.update(w, r, http.StatusOK, func(s *submission.State) (any, error) {
		return nil, g.Controller.EditStep(s, stepID, req.Title, req.Description)
	})
}

// RemoveStep drops a step from the plan.
func (g *HTTPGateway) RemoveStep(w http.ResponseWriter, r *http.Request) {
	stepID := chi.URLParam(r, "stepID")
	g.update(w, r, http.StatusOK, func(s *submission.State) (any, error) {
		return nil, g.Controller.RemoveStep(s, stepID)
	})
}

// SelectStep opens a step in the editor.
func (g *HTTPGateway) SelectStep(w http.ResponseWriter, r *http.Request) {
	stepID := chi.URLParam(r, "stepID")
	g.update(w, r, http.StatusOK, func(s *submission.State) (any, error) {
		if !s.Plan.Contains(stepID) {
			return nil, submission.ErrUnknownStep
		}
		g.Controller.Select(s, stepID)
		return nil, nil
	})
}

// CommentStep sets or clears a step comment.
func (g *HTTPGateway) CommentStep(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := g.decode(r, &req); err != nil {
		g.writeErr(w, err)
		return
	}
	stepID := chi.URLParam(r, "stepID")
	g.update(w, r, http.StatusOK, func(s *submission.State) (any, error) {
		return nil, g.Controller.Comment(s, stepID, req.Comment)
	})
}

// GetContent returns the guide content shown for a step.
func (g *HTTPGateway) GetContent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	unlock := g.locks.Lock(id)
	defer unlock()

	state, err := g.Sessions.Get(r.Context(), id)
	if err != nil {
		g.writeErr(w, err)
		return
	}
	blocks, err := g.Controller.Content(state, chi.URLParam(r, "stepID"))
	if err != nil {
		g.writeErr(w, err)
		return
	}
	if blocks == nil {
		blocks = []catalog.Block{}
	}
	g.writeJSON(w, http.StatusOK, contentRequest{Blocks: blocks})
}

// PutContent overrides a step's guide content. Null blocks restore the
// default.
func (g *HTTPGateway) PutContent(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if err := g.decode(r, &req); err != nil {
		g.writeErr(w, err)
		return
	}
	stepID := chi.URLParam(r, "stepID")
	g.update(w, r, http.StatusOK, func(s *submission.State) (any, error) {
		return nil, g.Controller.OverrideContent(s, stepID, req.Blocks)
	})
}

// FetchAutofill retrieves a draft and parks it on the session until a
// policy is chosen. The fetch runs outside the session lock.
func (g *HTTPGateway) FetchAutofill(w http.ResponseWriter, r *http.Request) {
	if g.Autofill == nil {
		g.writeError(w, http.StatusNotImplemented, "autofill is not configured")
		return
	}
	var src autofill.Source
	if err := g.decode(r, &src); err != nil {
		g.writeErr(w, err)
		return
	}
	id := chi.URLParam(r, "sessionID")
	if _, err := g.Sessions.Get(r.Context(), id); err != nil {
		g.writeErr(w, err)
		return
	}

	draft, err := g.Autofill.Fetch(r.Context(), id, src)
	g.Metrics.RecordAutofill(string(src.Type), err)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		g.writeError(w, status, err.Error())
		return
	}

	g.update(w, r, http.StatusOK, func(s *submission.State) (any, error) {
		g.Controller.SetDraft(s, draft)
		conflicts := autofill.Conflicts(s.Fields, draft)
		if conflicts == nil {
			conflicts = []string{}
		}
		return DraftResponse{Draft: draft, Conflicts: conflicts}, nil
	})
}

// ResolveAutofill applies the pending draft under the chosen policy.
func (g *HTTPGateway) ResolveAutofill(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := g.decode(r, &req); err != nil {
		g.writeErr(w, err)
		return
	}
	policy, err := autofill.ParsePolicy(req.Policy)
	if err != nil {
		g.writeErr(w, err)
		return
	}
	g.update(w, r, http.StatusOK, func(s *submission.State) (any, error) {
		regenerated, err := g.Controller.ResolveAutofill(s, policy)
		if err != nil {
			return nil, err
		}
		g.Metrics.RecordMerge(string(policy), regenerated)
		return ResolveResponse{State: s, Regenerated: regenerated}, nil
	})
}

// Submit hands the finished submission to the sink.
func (g *HTTPGateway) Submit(w http.ResponseWriter, r *http.Request) {
	if g.Sink == nil {
		g.writeErr(w, errors.New("no submission sink configured"))
		return
	}
	g.update(w, r, http.StatusCreated, func(s *submission.State) (any, error) {
		bundle, err := g.Controller.Submit(r.Context(), s, g.Sink)
		g.Metrics.RecordSubmission(err)
		if err != nil {
			return nil, err
		}
		observability.RecordSubmission()
		return bundle, nil
	})
}
