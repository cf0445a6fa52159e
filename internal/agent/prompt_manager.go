package agent

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExtractorPrompt is used when no prompt directory is configured.
const DefaultExtractorPrompt = `You read a document describing an internal AI use case and fill in the
submission form for it. Call propose_draft exactly once. Only set a field
when the document states it; leave everything else out. Keep the wording of
the document. Use one of the listed business units, languages and IDEs when
the document names one of them.`

type PromptManager struct {
	Directory string
}

func NewPromptManager(dir string) *PromptManager {
	return &PromptManager{Directory: dir}
}

// GetExtractorPrompt joins the markdown files of the prompt directory.
// An empty Directory yields DefaultExtractorPrompt.
func (pm *PromptManager) GetExtractorPrompt() (string, error) {
	if pm.Directory == "" {
		return DefaultExtractorPrompt, nil
	}
	files, err := os.ReadDir(pm.Directory)
	if err != nil {
		return "", fmt.Errorf("failed to read prompts directory: %w", err)
	}

	var contents []string

	// Sort files to ensure deterministic prompt order
	order := map[string]int{
		"identity.md":  1,
		"extractor.md": 2,
		"fields.md":    3,
		"examples.md":  4,
	}

	sort.Slice(files, func(i, j int) bool {
		oi, okI := order[files[i].Name()]
		oj, okJ := order[files[j].Name()]
		if okI && okJ {
			return oi < oj
		}
		if okI {
			return true
		}
		if okJ {
			return false
		}
		return files[i].Name() < files[j].Name()
	})

	for _, f := range files {
		if !f.IsDir() && strings.HasSuffix(f.Name(), ".md") {
			path := filepath.Join(pm.Directory, f.Name())
			data, err := os.ReadFile(path)
			if err != nil {
				log.Printf("Warning: Failed to read prompt file %s: %v", path, err)
				continue
			}
			contents = append(contents, string(data))
		}
	}

	if len(contents) == 0 {
		return "", fmt.Errorf("no prompt files found in %s", pm.Directory)
	}

	return strings.Join(contents, "\n\n---\n\n"), nil
}
