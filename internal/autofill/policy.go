package autofill

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownPolicy indicates a conflict policy name that is not recognised.
	ErrUnknownPolicy = errors.New("unknown conflict policy")

	// ErrUnknownSource indicates an unsupported or empty draft source.
	ErrUnknownSource = errors.New("invalid autofill source")
)

// Policy decides how draft values combine with values already entered.
type Policy string

const (
	// PolicyOverwrite replaces every field the draft supplies.
	PolicyOverwrite Policy = "overwrite"
	// PolicyKeepBoth appends draft text below existing text and unions lists.
	PolicyKeepBoth Policy = "keep-both"
	// PolicyEmptyOnly fills only fields that are still empty.
	PolicyEmptyOnly Policy = "empty-only"
	// PolicyCancel discards the draft.
	PolicyCancel Policy = "cancel"
)

// Policies lists every policy in the order a chooser presents them.
var Policies = []Policy{PolicyOverwrite, PolicyKeepBoth, PolicyEmptyOnly, PolicyCancel}

// ParsePolicy accepts a policy name in any case, with dashes or
// underscores. An empty name means the user dismissed the chooser and maps
// to PolicyCancel.
func ParsePolicy(s string) (Policy, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	if name == "" {
		return PolicyCancel, nil
	}
	for _, p := range Policies {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}
