// Package moderation holds the local pattern matcher, the fast
// deterministic first pass of content screening. Pattern lists live in
// external configuration (config/denylist.yaml), not in code.
package moderation

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// LocalVerdict is the matcher's three-way outcome. Clean means the
// matcher certifies the text; Review means it cannot, and the AI
// reviewer decides; Reject is a definite high-confidence violation.
type LocalVerdict int

const (
	LocalClean LocalVerdict = iota
	LocalReview
	LocalReject
)

type denylistFile struct {
	Reject []string `yaml:"reject"`
	Review []string `yaml:"review"`
}

type Matcher struct {
	reject []string
	review []string
}

// NewMatcher builds a matcher from explicit pattern lists. Patterns are
// matched whole-word, case-insensitive; multi-word phrases are allowed.
func NewMatcher(reject, review []string) *Matcher {
	return &Matcher{
		reject: normalizePatterns(reject),
		review: normalizePatterns(review),
	}
}

// LoadMatcher reads the denylist configuration file.
func LoadMatcher(path string) (*Matcher, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read denylist %s: %w", path, err)
	}
	var f denylistFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse denylist %s: %w", path, err)
	}
	if len(f.Reject) == 0 && len(f.Review) == 0 {
		return nil, fmt.Errorf("denylist %s has no patterns", path)
	}
	return NewMatcher(f.Reject, f.Review), nil
}

// Classify runs the text through both pattern classes. Reject patterns
// win over review patterns. The second return value is the matched term.
func (m *Matcher) Classify(text string) (LocalVerdict, string) {
	normalized := normalizeText(text)
	if normalized == "" {
		return LocalClean, ""
	}
	// Both sides are space-padded by normalizeText, so whole-word
	// containment is a plain substring check.
	for _, p := range m.reject {
		if strings.Contains(normalized, p) {
			return LocalReject, strings.TrimSpace(p)
		}
	}
	for _, p := range m.review {
		if strings.Contains(normalized, p) {
			return LocalReview, strings.TrimSpace(p)
		}
	}
	return LocalClean, ""
}

func normalizePatterns(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = normalizeText(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// normalizeText lowercases and collapses every non-letter/digit run to a
// single space, padded at both ends.
func normalizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte(' ')
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}
	if !lastSpace {
		b.WriteByte(' ')
	}
	out := b.String()
	if strings.TrimSpace(out) == "" {
		return ""
	}
	return out
}
