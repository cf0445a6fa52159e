package resolver

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/catalog"
)

// AITool names the AI assistant whose account and enablement steps are
// added as a fixed pair.
type AITool struct {
	Name        string `yaml:"name" json:"name"`
	AccountStep string `yaml:"accountStep" json:"accountStep"`
	EnableStep  string `yaml:"enableStep" json:"enableStep"`
}

// Rules are the lookup tables that drive resolution. Keys are matched
// case-insensitively against configuration values.
type Rules struct {
	Anchor                  string            `yaml:"anchor" json:"anchor"`
	LocalAdmin              string            `yaml:"localAdmin" json:"localAdmin"`
	PrivilegedBusinessUnits []string          `yaml:"privilegedBusinessUnits" json:"privilegedBusinessUnits"`
	ToolAccess              map[string]string `yaml:"toolAccess" json:"toolAccess"`
	LanguageSteps           map[string]string `yaml:"languageSteps" json:"languageSteps"`
	IDESteps                map[string]string `yaml:"ideSteps" json:"ideSteps"`
	ToolInstall             map[string]string `yaml:"toolInstall" json:"toolInstall"`
	AITool                  AITool            `yaml:"aiTool" json:"aiTool"`
}

// DefaultRules returns the rules shipped with the built-in catalog.
func DefaultRules() Rules {
	data, _ := catalog.Data("")
	r, err := ParseRules(data)
	if err != nil {
		panic(fmt.Sprintf("built-in rules are invalid: %v", err))
	}
	return r
}

// ParseRules decodes the "rules" section of a catalog document.
func ParseRules(data []byte) (Rules, error) {
	var doc struct {
		Rules Rules `yaml:"rules"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Rules{}, fmt.Errorf("failed to decode rules: %w", err)
	}
	return doc.Rules, nil
}

// LoadRules reads rules from a catalog file, or the built-in one when path
// is empty. A file without a rules section falls back to the defaults.
func LoadRules(path string) (Rules, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	data, err := catalog.Data(path)
	if err != nil {
		return Rules{}, err
	}
	r, err := ParseRules(data)
	if err != nil {
		return Rules{}, err
	}
	if r.Anchor == "" && len(r.LanguageSteps) == 0 && len(r.IDESteps) == 0 {
		return DefaultRules(), nil
	}
	return r, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// lookup finds key in m ignoring case and surrounding whitespace. An exact
// key wins; otherwise keys are tried in sorted order so the result never
// depends on map iteration.
func lookup(m map[string]string, key string) (string, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	want := normalize(key)
	if want == "" {
		return "", false
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if normalize(k) == want {
			return m[k], true
		}
	}
	return "", false
}

// IsPrivileged reports whether the business unit is one of the privileged
// units.
func (r Rules) IsPrivileged(businessUnit string) bool {
	bu := normalize(businessUnit)
	if bu == "" {
		return false
	}
	for _, p := range r.PrivilegedBusinessUnits {
		if normalize(p) == bu {
			return true
		}
	}
	return false
}
