package observability

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoggerWritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)
	l.SetLLMLogPath("")

	l.LogResolve("s1", map[string]string{"ide": "Cursor"}, []string{"verify-sso-ping"})
	l.LogSubmit("s1", 3, errors.New("sink down"))

	sc := bufio.NewScanner(&buf)
	var events []Event
	for sc.Scan() {
		var evt Event
		if err := json.Unmarshal(sc.Bytes(), &evt); err != nil {
			t.Fatalf("line is not JSON: %v", err)
		}
		events = append(events, evt)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Type != EventTypeResolve || events[0].SessionID != "s1" {
		t.Errorf("first event = %+v", events[0])
	}
	if events[1].Timestamp.IsZero() {
		t.Errorf("timestamp not set")
	}
	data, _ := events[1].Data.(map[string]any)
	if data["error"] != "sink down" {
		t.Errorf("submit error = %v", data["error"])
	}
}

func TestLoggerLLMFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "llm.jsonl")
	var buf bytes.Buffer
	l := NewLogger(&buf)
	l.SetLLMLogPath(path)

	l.LogLLM("s1", "prompt text", "{}")
	l.LogMerge("s1", "overwrite", false)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read llm log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("llm log has %d lines, want 1", len(lines))
	}
	if !strings.Contains(lines[0], `"type":"llm"`) {
		t.Errorf("unexpected llm line: %s", lines[0])
	}
}

func TestLoggerRotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "llm.jsonl")
	l := NewLogger(&bytes.Buffer{})
	l.SetLLMLogPath(path)
	l.maxSize = 10

	l.LogLLM("s1", "first", "a")
	l.LogLLM("s1", "second", "b")

	if _, err := os.Stat(path + ".old"); err != nil {
		t.Errorf("expected rotated file: %v", err)
	}
}

func TestStatusLine(t *testing.T) {
	resetActivity()
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

	if line := StatusLine(GetActivity(), now); !strings.Contains(line, "IDLE") {
		t.Errorf("fresh status = %q", line)
	}

	RecordRequest(200)
	RecordRequest(201)
	RecordSubmission()
	a := GetActivity()
	if a.Requests != 2 || a.Failures != 0 || a.Submissions != 1 {
		t.Fatalf("activity = %+v", a)
	}
	line := StatusLine(a, a.LastRequest)
	if !strings.Contains(line, "SERVING") || !strings.Contains(line, "submissions 1") {
		t.Errorf("status = %q", line)
	}

	RecordRequest(500)
	if line := StatusLine(GetActivity(), time.Now()); !strings.Contains(line, "FAILING") {
		t.Errorf("status after failure = %q", line)
	}
	resetActivity()
}
