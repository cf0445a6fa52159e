// Package governance decides which autofill sources may be fetched.
package governance

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Effect defines the result of a policy evaluation.
type Effect string

const (
	EffectAllow Effect = "allow"
	EffectDeny  Effect = "deny"
)

// Request describes an autofill source about to be fetched.
type Request struct {
	SourceType string
	Value      string
	SessionID  string
}

// Result contains the outcome of a policy evaluation.
type Result struct {
	Effect Effect
	Reason string
}

// Allowed reports whether the effect is allow.
func (r Result) Allowed() bool {
	return r.Effect == EffectAllow
}

// PolicyEngine evaluates autofill sources against a set of rules.
type PolicyEngine interface {
	Evaluate(ctx context.Context, req Request) (Result, error)
}

// DefaultPolicyEngine denies by source type, by value pattern and, once
// any host is allowed, by link host.
type DefaultPolicyEngine struct {
	DeniedTypes  map[string]bool
	DeniedRegex  []*regexp.Regexp
	AllowedHosts map[string]bool
}

func NewDefaultPolicyEngine() *DefaultPolicyEngine {
	return &DefaultPolicyEngine{
		DeniedTypes:  make(map[string]bool),
		DeniedRegex:  make([]*regexp.Regexp, 0),
		AllowedHosts: make(map[string]bool),
	}
}

func (e *DefaultPolicyEngine) DenySourceType(sourceType string) {
	e.DeniedTypes[sourceType] = true
}

func (e *DefaultPolicyEngine) DenyValues(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	e.DeniedRegex = append(e.DeniedRegex, re)
	return nil
}

// AllowHost adds host to the link allowlist. Subdomains of host are
// allowed too.
func (e *DefaultPolicyEngine) AllowHost(host string) {
	e.AllowedHosts[strings.ToLower(strings.TrimSpace(host))] = true
}

func (e *DefaultPolicyEngine) Evaluate(ctx context.Context, req Request) (Result, error) {
	if e.DeniedTypes[req.SourceType] {
		return Result{
			Effect: EffectDeny,
			Reason: fmt.Sprintf("Source type '%s' is restricted by system policy", req.SourceType),
		}, nil
	}

	for _, re := range e.DeniedRegex {
		if re.MatchString(req.Value) {
			return Result{
				Effect: EffectDeny,
				Reason: fmt.Sprintf("Source matches restricted pattern: %s", re.String()),
			}, nil
		}
	}

	if req.SourceType == "link" && len(e.AllowedHosts) > 0 {
		u, err := url.Parse(req.Value)
		if err != nil || !e.hostAllowed(u.Hostname()) {
			return Result{
				Effect: EffectDeny,
				Reason: fmt.Sprintf("Host of '%s' is not on the allowlist", req.Value),
			}, nil
		}
	}

	return Result{
		Effect: EffectAllow,
		Reason: "Approved by default policy",
	}, nil
}

func (e *DefaultPolicyEngine) hostAllowed(host string) bool {
	host = strings.ToLower(host)
	for allowed := range e.AllowedHosts {
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}
