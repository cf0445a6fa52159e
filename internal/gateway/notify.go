package gateway

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/submission"
)

// Target is one chat a submission announcement goes to.
type Target struct {
	Messenger Messenger
	ChatID    string
}

// NotifyingSink stores a submission through Next, then announces it on
// every target. Announcement failures are logged and never fail the
// submission.
type NotifyingSink struct {
	Next    submission.Sink
	Targets []Target
}

func (n *NotifyingSink) Submit(ctx context.Context, b submission.Bundle) error {
	if n.Next != nil {
		if err := n.Next.Submit(ctx, b); err != nil {
			return err
		}
	}
	text := FormatSubmission(b)
	for _, t := range n.Targets {
		if err := t.Messenger.Send(t.ChatID, text); err != nil {
			log.Printf("submission notice to %s failed: %v", t.ChatID, err)
		}
	}
	return nil
}

// FormatSubmission renders a short announcement of b.
func FormatSubmission(b submission.Bundle) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "*New use case submitted:* %s\n", b.Fields.UseCaseName)
	if b.Fields.BusinessUnit != "" {
		fmt.Fprintf(&sb, "Business unit: %s\n", b.Fields.BusinessUnit)
	}
	if len(b.Fields.Tools) > 0 {
		fmt.Fprintf(&sb, "Tools: %s\n", strings.Join(b.Fields.Tools, ", "))
	}
	fmt.Fprintf(&sb, "Setup steps (%d):", len(b.Plan))
	for i, step := range b.Plan {
		fmt.Fprintf(&sb, "\n%d. %s", i+1, step.Title)
	}
	return sb.String()
}
