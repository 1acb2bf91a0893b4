// Package desensitize masks sensitive values in serialized log lines.
package desensitize

import (
	"sync"
	"sync/atomic"
)

// Hook holds a set of named rules applied to every log line.
type Hook struct {
	rules     sync.Map // name -> Rule
	ruleCount int64
}

func NewHook() *Hook {
	return &Hook{}
}

// AddRule registers rule, replacing any rule with the same name.
func (h *Hook) AddRule(rule Rule) {
	if rule == nil {
		return
	}
	if _, loaded := h.rules.Swap(rule.Name(), rule); !loaded {
		atomic.AddInt64(&h.ruleCount, 1)
	}
}

// AddContentRule registers a rule matching anywhere in the line.
func (h *Hook) AddContentRule(name, pattern, replacement string) error {
	rule, err := NewContentRule(name, pattern, replacement)
	if err != nil {
		return err
	}
	h.AddRule(rule)
	return nil
}

// AddFieldRule registers a rule matching the value of a JSON string field.
func (h *Hook) AddFieldRule(name, fieldName, pattern, replacement string) error {
	rule, err := NewFieldRule(name, fieldName, pattern, replacement)
	if err != nil {
		return err
	}
	h.AddRule(rule)
	return nil
}

func (h *Hook) AddBuiltin(rules ...Rule) {
	for _, rule := range rules {
		h.AddRule(rule)
	}
}

func (h *Hook) RemoveRule(name string) bool {
	_, loaded := h.rules.LoadAndDelete(name)
	if loaded {
		atomic.AddInt64(&h.ruleCount, -1)
	}
	return loaded
}

func (h *Hook) EnableRule(name string) bool {
	return h.setEnabled(name, true)
}

func (h *Hook) DisableRule(name string) bool {
	return h.setEnabled(name, false)
}

func (h *Hook) setEnabled(name string, enabled bool) bool {
	r, ok := h.GetRule(name)
	if ok {
		r.SetEnabled(enabled)
	}
	return ok
}

func (h *Hook) GetRule(name string) (Rule, bool) {
	if rule, ok := h.rules.Load(name); ok {
		r, ok := rule.(Rule)
		return r, ok
	}
	return nil, false
}

// GetRules lists the registered rule names.
func (h *Hook) GetRules() []string {
	names := make([]string, 0, h.RuleCount())
	h.rules.Range(func(key, _ any) bool {
		if name, ok := key.(string); ok {
			names = append(names, name)
		}
		return true
	})
	return names
}

func (h *Hook) RuleCount() int {
	return int(atomic.LoadInt64(&h.ruleCount))
}

// Clear removes every rule.
func (h *Hook) Clear() {
	h.rules.Range(func(key, _ any) bool {
		h.RemoveRule(key.(string))
		return true
	})
}

// Desensitize applies every enabled rule to s.
func (h *Hook) Desensitize(s string) string {
	if s == "" || h.RuleCount() == 0 {
		return s
	}

	result := s
	h.rules.Range(func(_, value any) bool {
		if rule, ok := value.(Rule); ok && rule.Enabled() {
			result = rule.Process(result)
		}
		return true
	})
	return result
}
