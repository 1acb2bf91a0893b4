package desensitize

import (
	"regexp"
	"strings"
	"sync/atomic"

	"github.com/kochabx/clea/errors"
)

// Rule rewrites sensitive parts of a log line.
type Rule interface {
	Name() string
	Enabled() bool
	SetEnabled(enabled bool)
	Process(s string) string
}

type toggle struct {
	name     string
	disabled atomic.Bool
}

func (t *toggle) Name() string {
	return t.name
}

func (t *toggle) Enabled() bool {
	return !t.disabled.Load()
}

func (t *toggle) SetEnabled(enabled bool) {
	t.disabled.Store(!enabled)
}

func compile(name, pattern string) (*regexp.Regexp, error) {
	if name == "" {
		return nil, errors.InvalidInput("desensitize: rule name is empty")
	}
	if pattern == "" {
		return nil, errors.InvalidInput("desensitize: rule %s has an empty pattern", name)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.InvalidInput("desensitize: rule %s pattern %q", name, pattern).WithCause(err)
	}
	return re, nil
}

// ContentRule replaces every match of a pattern anywhere in the line.
type ContentRule struct {
	toggle
	pattern     *regexp.Regexp
	replacement string
}

func NewContentRule(name, pattern, replacement string) (*ContentRule, error) {
	re, err := compile(name, pattern)
	if err != nil {
		return nil, err
	}
	return &ContentRule{toggle: toggle{name: name}, pattern: re, replacement: replacement}, nil
}

// MustNewContentRule is NewContentRule that panics on error.
func MustNewContentRule(name, pattern, replacement string) *ContentRule {
	r, err := NewContentRule(name, pattern, replacement)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *ContentRule) Process(s string) string {
	if !r.Enabled() {
		return s
	}
	return r.pattern.ReplaceAllString(s, r.replacement)
}

// FieldRule rewrites the value of JSON string fields named field, or
// ending in _field, such as server_authority_private_key for private_key.
// Only the value is matched against the pattern.
type FieldRule struct {
	toggle
	value       *regexp.Regexp
	field       *regexp.Regexp
	replacement string
}

func NewFieldRule(name, field, pattern, replacement string) (*FieldRule, error) {
	if field == "" {
		return nil, errors.InvalidInput("desensitize: rule %s has no field", name)
	}
	value, err := compile(name, pattern)
	if err != nil {
		return nil, err
	}
	return &FieldRule{
		toggle:      toggle{name: name},
		value:       value,
		field:       regexp.MustCompile(`"(?:\w+_)?` + regexp.QuoteMeta(field) + `"\s*:\s*"([^"]*)"`),
		replacement: replacement,
	}, nil
}

// MustNewFieldRule is NewFieldRule that panics on error.
func MustNewFieldRule(name, field, pattern, replacement string) *FieldRule {
	r, err := NewFieldRule(name, field, pattern, replacement)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *FieldRule) Process(s string) string {
	if !r.Enabled() {
		return s
	}
	matches := r.field.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, m := range matches {
		// m[2]:m[3] is the value inside the quotes.
		b.WriteString(s[last:m[2]])
		b.WriteString(r.value.ReplaceAllString(s[m[2]:m[3]], r.replacement))
		last = m[3]
	}
	b.WriteString(s[last:])
	return b.String()
}
