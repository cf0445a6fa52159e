package observability

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EventType defines the category of the log event.
type EventType string

const (
	EventTypeResolve     EventType = "resolve"
	EventTypePlanEdit    EventType = "plan_edit"
	EventTypeMerge       EventType = "merge"
	EventTypeAutofill    EventType = "autofill"
	EventTypePolicyCheck EventType = "policy_check"
	EventTypeSubmit      EventType = "submit"
	EventTypeRequest     EventType = "request"
	EventTypeLLM         EventType = "llm"
)

// Event represents a structured log entry.
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// Logger handles structured logging.
type Logger struct {
	mu         sync.Mutex
	out        io.Writer
	llmLogPath string
	maxSize    int64
}

// NewLogger writes events to out, or to stdout when out is nil.
func NewLogger(out io.Writer) *Logger {
	if out == nil {
		out = os.Stdout
	}
	return &Logger{
		out:        out,
		llmLogPath: filepath.Join("logs", "llm.jsonl"),
		maxSize:    10 * 1024 * 1024, // 10MB
	}
}

// SetLLMLogPath changes where LLM exchanges are appended. An empty path
// disables the file.
func (l *Logger) SetLLMLogPath(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.llmLogPath = path
}

// Log emits a structured JSON event.
func (l *Logger) Log(evt Event) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	data, err := json.Marshal(evt)
	if err != nil {
		data = []byte(fmt.Sprintf("{\"error\": \"failed to marshal event: %v\"}", err))
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.out.Write(append(data, '\n')); err != nil {
		log.Printf("failed to write event: %v", err)
	}

	if evt.Type == EventTypeLLM && l.llmLogPath != "" {
		l.writeToFile(data)
	}
}

func (l *Logger) writeToFile(data []byte) {
	if err := os.MkdirAll(filepath.Dir(l.llmLogPath), 0755); err != nil {
		log.Printf("failed to create log directory: %v", err)
		return
	}

	// Check size before writing
	info, err := os.Stat(l.llmLogPath)
	if err == nil && info.Size() > l.maxSize {
		l.rotateLogs()
	}

	f, err := os.OpenFile(l.llmLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("failed to open log file: %v", err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		log.Printf("failed to write to log file: %v", err)
	}
}

func (l *Logger) rotateLogs() {
	// Simple rotation: keep one .old file
	oldPath := l.llmLogPath + ".old"
	_ = os.Remove(oldPath)
	_ = os.Rename(l.llmLogPath, oldPath)
}

// Helper methods for common events

func (l *Logger) LogResolve(sessionID string, config any, stepIDs []string) {
	l.Log(Event{
		Type:      EventTypeResolve,
		SessionID: sessionID,
		Data: map[string]any{
			"config": config,
			"steps":  stepIDs,
		},
	})
}

func (l *Logger) LogPlanEdit(sessionID, op, stepID string) {
	l.Log(Event{
		Type:      EventTypePlanEdit,
		SessionID: sessionID,
		Data: map[string]string{
			"op":      op,
			"step_id": stepID,
		},
	})
}

func (l *Logger) LogMerge(sessionID, policy string, regenerated bool) {
	l.Log(Event{
		Type:      EventTypeMerge,
		SessionID: sessionID,
		Data: map[string]any{
			"policy":      policy,
			"regenerated": regenerated,
		},
	})
}

func (l *Logger) LogAutofill(sessionID, sourceType, source string, err error) {
	data := map[string]string{
		"source_type": sourceType,
		"source":      source,
	}
	if err != nil {
		data["error"] = err.Error()
	}
	l.Log(Event{
		Type:      EventTypeAutofill,
		SessionID: sessionID,
		Data:      data,
	})
}

func (l *Logger) LogPolicyCheck(sessionID, subject, effect, reason string) {
	l.Log(Event{
		Type:      EventTypePolicyCheck,
		SessionID: sessionID,
		Data: map[string]string{
			"subject": subject,
			"effect":  effect,
			"reason":  reason,
		},
	})
}

func (l *Logger) LogSubmit(sessionID string, steps int, err error) {
	data := map[string]any{"steps": steps}
	if err != nil {
		data["error"] = err.Error()
	}
	l.Log(Event{
		Type:      EventTypeSubmit,
		SessionID: sessionID,
		Data:      data,
	})
}

func (l *Logger) LogRequest(method, path string, status int, elapsed time.Duration) {
	l.Log(Event{
		Type: EventTypeRequest,
		Data: map[string]any{
			"method":      method,
			"path":        path,
			"status":      status,
			"duration_ms": elapsed.Milliseconds(),
		},
	})
}

func (l *Logger) LogLLM(sessionID string, prompt any, response string) {
	l.Log(Event{
		Type:      EventTypeLLM,
		SessionID: sessionID,
		Data: map[string]any{
			"prompt":   prompt,
			"response": response,
		},
	})
}
