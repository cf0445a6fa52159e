package tools

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// FileFetcher reads uploaded documents from a workspace directory.
type FileFetcher struct {
	Root string
}

func NewFileFetcher(root string) *FileFetcher {
	absRoot, _ := filepath.Abs(root)
	return &FileFetcher{Root: absRoot}
}

func (f *FileFetcher) Name() string {
	return "file"
}

func (f *FileFetcher) Description() string {
	return "Read a document from the upload workspace: JSON or YAML drafts, HTML, Markdown or plain text."
}

func (f *FileFetcher) Fetch(ctx context.Context, filename string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	targetPath := filepath.Join(f.Root, filename)

	// Safety check: ensure targetPath is within f.Root
	rel, err := filepath.Rel(f.Root, targetPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return Document{}, fmt.Errorf("unsafe path attempt: %s", filename)
	}

	file, err := os.Open(targetPath)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, 10*maxContent))
	if err != nil {
		return Document{}, fmt.Errorf("failed to read file: %w", err)
	}

	title := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return Document{Title: title, Content: string(data), Format: FormatJSON}, nil
	case ".yaml", ".yml":
		return Document{Title: title, Content: string(data), Format: FormatYAML}, nil
	case ".html", ".htm":
		doc := extractArticle(data, &url.URL{Scheme: "file", Path: filepath.ToSlash(targetPath)})
		if doc.Title == "" {
			doc.Title = title
		}
		return doc, nil
	default:
		return Document{Title: title, Content: truncate(string(data)), Format: FormatText}, nil
	}
}
