package gateway

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/autofill"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/catalog"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/submission"
)

type fakeMessenger struct {
	sent map[string][]string
	err  error
}

func (m *fakeMessenger) Start() error { return nil }
func (m *fakeMessenger) Stop() error  { return nil }
func (m *fakeMessenger) Send(chatID string, text string) error {
	if m.err != nil {
		return m.err
	}
	if m.sent == nil {
		m.sent = map[string][]string{}
	}
	m.sent[chatID] = append(m.sent[chatID], text)
	return nil
}

func sampleBundle() submission.Bundle {
	return submission.Bundle{
		SessionID: "s1",
		Fields: autofill.Fields{
			UseCaseName:  "Copilot rollout",
			BusinessUnit: "Global Technology",
			Tools:        []string{"GitHub Copilot"},
		},
		Plan: []catalog.Step{
			{ID: "verify-sso-ping", Title: "Verify SSO"},
			{ID: "setup-github-copilot", Title: "Enable Copilot"},
		},
	}
}

func TestFormatSubmission(t *testing.T) {
	text := FormatSubmission(sampleBundle())
	assert.Contains(t, text, "Copilot rollout")
	assert.Contains(t, text, "Business unit: Global Technology")
	assert.Contains(t, text, "Setup steps (2):")
	assert.True(t, strings.HasSuffix(text, "2. Enable Copilot"), text)
}

func TestNotifyingSink(t *testing.T) {
	stored := &recordingSink{}
	tg := &fakeMessenger{}
	broken := &fakeMessenger{err: errors.New("offline")}
	sink := &NotifyingSink{
		Next: stored,
		Targets: []Target{
			{Messenger: broken, ChatID: "x"},
			{Messenger: tg, ChatID: "42"},
		},
	}

	require.NoError(t, sink.Submit(context.Background(), sampleBundle()))
	assert.Len(t, stored.bundles, 1)
	require.Len(t, tg.sent["42"], 1)
	assert.Contains(t, tg.sent["42"][0], "Copilot rollout")
}

func TestNotifyingSinkStopsOnStoreError(t *testing.T) {
	tg := &fakeMessenger{}
	boom := errors.New("db down")
	sink := &NotifyingSink{
		Next:    submission.SinkFunc(func(context.Context, submission.Bundle) error { return boom }),
		Targets: []Target{{Messenger: tg, ChatID: "42"}},
	}

	assert.ErrorIs(t, sink.Submit(context.Background(), sampleBundle()), boom)
	assert.Empty(t, tg.sent)
}

func TestTelegramCommandReply(t *testing.T) {
	assert.Equal(t, "This chat's id is 42", commandReply("/chatid", 42))
	assert.Equal(t, "This chat's id is -7", commandReply("/chatid@onboard_bot", -7))
	assert.NotEmpty(t, commandReply("/help", 1))
	assert.Empty(t, commandReply("hello", 1))
	assert.Empty(t, commandReply("   ", 1))
}
