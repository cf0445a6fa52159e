// Package steptext turns free-form bulleted or numbered text into custom
// setup steps.
//
// Each non-blank line becomes one step. A single leading list marker is
// stripped; the rest of the line is the step description and its first few
// words become the title.
package steptext

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/catalog"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/clock"
)

const (
	// MaxTitleWords is the number of description words used for a title.
	MaxTitleWords = 7
	// MaxTitleLength is the longest title produced, ellipsis included.
	MaxTitleLength = 50

	ellipsis = "..."
)

// ErrNoSteps is returned by Result.Err when the input held no steps.
var ErrNoSteps = errors.New("no steps found")

var (
	lineBreak = regexp.MustCompile(`\r\n|\r|\n`)
	marker    = regexp.MustCompile(`^(?:[-*•]|\d+[.)])\s*`)
	decimal   = regexp.MustCompile(`^\d+\.\d`)
)

// Result is the outcome of a parse.
type Result struct {
	Steps []catalog.Step
}

// Empty reports whether the parse yielded no steps.
func (r Result) Empty() bool {
	return len(r.Steps) == 0
}

// Err returns ErrNoSteps for an empty result and nil otherwise.
func (r Result) Err() error {
	if r.Empty() {
		return ErrNoSteps
	}
	return nil
}

// Parser mints custom steps. Ids combine the clock's milliseconds with a
// counter that never repeats for the lifetime of the Parser.
type Parser struct {
	clock clock.Clock

	mu  sync.Mutex
	seq int
}

// NewParser creates a Parser. A nil clock uses the system time.
func NewParser(clk clock.Clock) *Parser {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Parser{clock: clk}
}

// Parse converts text into steps, one per non-blank line.
func (p *Parser) Parse(text string) Result {
	var res Result
	for _, line := range lineBreak.Split(text, -1) {
		desc := StripMarker(line)
		if desc == "" {
			continue
		}
		res.Steps = append(res.Steps, p.NewStep("", desc))
	}
	return res
}

// NewStep mints a custom step. An empty title is derived from the
// description.
func (p *Parser) NewStep(title, description string) catalog.Step {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		title = Title(description)
	}
	return catalog.Step{
		ID:          p.nextID(),
		Title:       title,
		Description: description,
		Category:    catalog.CategoryCustom,
	}
}

func (p *Parser) nextID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := fmt.Sprintf("custom-%d-%d", p.clock.Now().UnixMilli(), p.seq)
	p.seq++
	return id
}

// StripMarker removes one leading bullet or number marker and the
// surrounding whitespace.
func StripMarker(line string) string {
	line = strings.TrimSpace(line)
	// A leading decimal such as "3.5 GB" is text, not a numbered marker.
	if decimal.MatchString(line) {
		return line
	}
	line = marker.ReplaceAllString(line, "")
	return strings.TrimSpace(line)
}

// Title builds a step title from the first MaxTitleWords words of a
// description, cut with an ellipsis when longer than MaxTitleLength.
func Title(description string) string {
	words := strings.Fields(description)
	if len(words) > MaxTitleWords {
		words = words[:MaxTitleWords]
	}
	title := strings.Join(words, " ")

	runes := []rune(title)
	if len(runes) <= MaxTitleLength {
		return title
	}
	cut := strings.TrimRight(string(runes[:MaxTitleLength-len(ellipsis)]), " ")
	return cut + ellipsis
}
