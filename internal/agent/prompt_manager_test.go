package agent

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPromptManager_GetExtractorPrompt(t *testing.T) {
	tempDir := t.TempDir()

	files := map[string]string{
		"identity.md":  "Identity Content",
		"extractor.md": "Extractor Content",
		"fields.md":    "Fields Content",
		"extra.md":     "Extra Content",
		"notes.txt":    "Ignored Content",
	}

	for name, content := range files {
		err := os.WriteFile(filepath.Join(tempDir, name), []byte(content), 0644)
		if err != nil {
			t.Fatal(err)
		}
	}

	pm := NewPromptManager(tempDir)
	prompt, err := pm.GetExtractorPrompt()
	if err != nil {
		t.Fatal(err)
	}

	expectedParts := []string{
		"Identity Content",
		"Extractor Content",
		"Fields Content",
		"Extra Content",
	}

	for _, part := range expectedParts {
		if !strings.Contains(prompt, part) {
			t.Errorf("Prompt missing expected part: %s", part)
		}
	}
	if strings.Contains(prompt, "Ignored Content") {
		t.Error("Non-markdown files should be ignored")
	}

	// Verify order
	if strings.Index(prompt, "Identity Content") >= strings.Index(prompt, "Extractor Content") {
		t.Error("Identity should be before Extractor")
	}
	if strings.Index(prompt, "Fields Content") >= strings.Index(prompt, "Extra Content") {
		t.Error("Fields should be before unlisted files")
	}
}

func TestPromptManager_Default(t *testing.T) {
	prompt, err := NewPromptManager("").GetExtractorPrompt()
	if err != nil {
		t.Fatal(err)
	}
	if prompt != DefaultExtractorPrompt {
		t.Error("Expected the built-in prompt")
	}

	if _, err := NewPromptManager(t.TempDir()).GetExtractorPrompt(); err == nil {
		t.Error("Expected error for a directory without prompts")
	}
}
