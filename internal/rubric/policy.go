package rubric

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

type MatchKind string

const (
	MatchSubstring MatchKind = "substring"
	MatchRegex     MatchKind = "regex"
)

// Matcher is one entry of a pattern list in the policy table.
type Matcher struct {
	Kind       MatchKind `yaml:"kind"`
	Pattern    string    `yaml:"pattern"`
	IgnoreCase bool      `yaml:"ignore_case"`

	re *regexp.Regexp
}

func (m *Matcher) compile() error {
	switch m.Kind {
	case "", MatchSubstring:
		m.Kind = MatchSubstring
		return nil
	case MatchRegex:
		expr := m.Pattern
		if m.IgnoreCase {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return err
		}
		m.re = re
		return nil
	default:
		return fmt.Errorf("unknown matcher kind %q", m.Kind)
	}
}

// Match reports whether the pattern occurs in text.
func (m *Matcher) Match(text string) bool {
	if m.re != nil {
		return m.re.MatchString(text)
	}
	if m.IgnoreCase {
		return strings.Contains(strings.ToLower(text), strings.ToLower(m.Pattern))
	}
	return strings.Contains(text, m.Pattern)
}

// RuneRange is an inclusive code point range.
type RuneRange struct {
	From rune `yaml:"from"`
	To   rune `yaml:"to"`
}

// Script describes the target script of the purity heuristic.
type Script struct {
	Name   string      `yaml:"name"`
	Ranges []RuneRange `yaml:"ranges"`
}

func (s Script) Contains(r rune) bool {
	for _, rr := range s.Ranges {
		if r >= rr.From && r <= rr.To {
			return true
		}
	}
	return false
}

// Policy is the versioned pattern table driving the purity and boldness rules.
type Policy struct {
	Version    string    `yaml:"version"`
	Script     Script    `yaml:"script"`
	Hedging    []Matcher `yaml:"hedging"`
	Assertive  []Matcher `yaml:"assertive"`
	Invitation []Matcher `yaml:"invitation"`
}

//go:embed policies/default_v1.yaml
var defaultPolicyYAML []byte

// DefaultPolicy returns a fresh copy of the built-in policy table.
func DefaultPolicy() *Policy {
	p, err := ParsePolicy(defaultPolicyYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded rubric policy is invalid: %v", err))
	}
	return p
}

func LoadPolicyFile(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}
	return ParsePolicy(data)
}

func ParsePolicy(data []byte) (*Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse policy YAML: %w", err)
	}
	if err := validatePolicy(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func validatePolicy(p *Policy) error {
	if p.Version == "" {
		return fmt.Errorf("policy has no version")
	}
	if len(p.Script.Ranges) == 0 {
		return fmt.Errorf("policy script %q has no ranges", p.Script.Name)
	}
	for i, rr := range p.Script.Ranges {
		if rr.From <= 0 || rr.To < rr.From {
			return fmt.Errorf("script range at index %d is invalid: %#x-%#x", i, rr.From, rr.To)
		}
	}

	lists := []struct {
		name     string
		matchers []Matcher
	}{
		{"hedging", p.Hedging},
		{"assertive", p.Assertive},
		{"invitation", p.Invitation},
	}
	for _, l := range lists {
		for i := range l.matchers {
			m := &l.matchers[i]
			if m.Pattern == "" {
				return fmt.Errorf("%s matcher at index %d has no pattern", l.name, i)
			}
			if err := m.compile(); err != nil {
				return fmt.Errorf("%s matcher %q: %w", l.name, m.Pattern, err)
			}
		}
	}
	return nil
}

func anyMatch(matchers []Matcher, text string) bool {
	for i := range matchers {
		if matchers[i].Match(text) {
			return true
		}
	}
	return false
}
