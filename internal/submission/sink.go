package submission

import (
	"context"
	"time"

	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/autofill"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/catalog"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/plan"
)

// Bundle is a finished submission.
type Bundle struct {
	SessionID   string           `json:"sessionId"`
	Fields      autofill.Fields  `json:"fields"`
	Plan        []catalog.Step   `json:"plan"`
	Annotations plan.Annotations `json:"annotations"`
	SubmittedAt time.Time        `json:"submittedAt"`
}

// Sink receives finished submissions.
type Sink interface {
	Submit(ctx context.Context, b Bundle) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, b Bundle) error

func (f SinkFunc) Submit(ctx context.Context, b Bundle) error {
	return f(ctx, b)
}

// MultiSink hands a bundle to each sink in turn and stops at the first
// error.
type MultiSink []Sink

func (m MultiSink) Submit(ctx context.Context, b Bundle) error {
	for _, s := range m {
		if err := s.Submit(ctx, b); err != nil {
			return err
		}
	}
	return nil
}
