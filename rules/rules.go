// Package rules provides validation-rule constructors and combinators for
// blueprint forms. Every constructor returns a blueprint.Rule; rules report a
// failure message or an empty string, they never panic on unexpected types.
package rules

import (
	"fmt"
	"regexp"
	"strings"

	blueprint "github.com/Hank-IT/blueprint-core"
)

// Func adapts a bare function into a Rule.
func Func(fn func(value any, state blueprint.State) string) blueprint.Rule {
	return funcRule(fn)
}

type funcRule func(value any, state blueprint.State) string

func (r funcRule) Check(value any, state blueprint.State) string { return r(value, state) }

// Required fails on nil, empty strings, and empty sequences.
func Required(msg string) blueprint.Rule {
	if msg == "" {
		msg = "required"
	}
	return funcRule(func(value any, _ blueprint.State) string {
		switch t := value.(type) {
		case nil:
			return msg
		case string:
			if strings.TrimSpace(t) == "" {
				return msg
			}
		case []any:
			if len(t) == 0 {
				return msg
			}
		case *blueprint.TrackedArray:
			if t.Len() == 0 {
				return msg
			}
		}
		return ""
	})
}

// MinLen fails when a string (runes) or sequence is shorter than n. Nil
// values pass; combine with Required when absence should fail.
func MinLen(n int, msg string) blueprint.Rule {
	return lengthRule(msg, fmt.Sprintf("must have at least %d elements", n), func(l int) bool { return l < n })
}

// MaxLen fails when a string (runes) or sequence is longer than n.
func MaxLen(n int, msg string) blueprint.Rule {
	return lengthRule(msg, fmt.Sprintf("must have at most %d elements", n), func(l int) bool { return l > n })
}

func lengthRule(msg, fallback string, bad func(int) bool) blueprint.Rule {
	if msg == "" {
		msg = fallback
	}
	return funcRule(func(value any, _ blueprint.State) string {
		switch t := value.(type) {
		case nil:
			return ""
		case string:
			if bad(len([]rune(t))) {
				return msg
			}
		case []any:
			if bad(len(t)) {
				return msg
			}
		case *blueprint.TrackedArray:
			if bad(t.Len()) {
				return msg
			}
		}
		return ""
	})
}

// Min fails when a numeric value is below n. Non-numeric values pass.
func Min(n float64, msg string) blueprint.Rule {
	if msg == "" {
		msg = fmt.Sprintf("must be at least %v", n)
	}
	return funcRule(func(value any, _ blueprint.State) string {
		if f, ok := asFloat(value); ok && f < n {
			return msg
		}
		return ""
	})
}

// Max fails when a numeric value is above n.
func Max(n float64, msg string) blueprint.Rule {
	if msg == "" {
		msg = fmt.Sprintf("must be at most %v", n)
	}
	return funcRule(func(value any, _ blueprint.State) string {
		if f, ok := asFloat(value); ok && f > n {
			return msg
		}
		return ""
	})
}

// Matches fails when a string value does not match the pattern. Non-string
// and nil values pass.
func Matches(pattern, msg string) blueprint.Rule {
	re := regexp.MustCompile(pattern)
	if msg == "" {
		msg = "invalid format"
	}
	return funcRule(func(value any, _ blueprint.State) string {
		if s, ok := value.(string); ok && !re.MatchString(s) {
			return msg
		}
		return ""
	})
}

// In fails when the value is not one of the allowed set.
func In(allowed []any, msg string) blueprint.Rule {
	if msg == "" {
		msg = "not an allowed value"
	}
	return funcRule(func(value any, _ blueprint.State) string {
		for _, a := range allowed {
			if value == a {
				return ""
			}
		}
		return msg
	})
}

// When gates a rule behind a predicate over the full state.
func When(pred func(state blueprint.State) bool, rule blueprint.Rule) blueprint.Rule {
	return funcRule(func(value any, state blueprint.State) string {
		if !pred(state) {
			return ""
		}
		return rule.Check(value, state)
	})
}

// DependsOn wraps a rule with revalidation edges: a change to any of the
// given field paths reschedules the carrying field's validation (for fields
// in ModeOnDependentChange).
func DependsOn(rule blueprint.Rule, paths ...string) blueprint.Rule {
	return dependentRule{Rule: rule, deps: paths}
}

type dependentRule struct {
	blueprint.Rule
	deps []string
}

func (r dependentRule) DependsOn() []string { return r.deps }

// Linked wraps a rule with bidirectional edges: validating the carrying
// field also validates the linked fields, and vice versa.
func Linked(rule blueprint.Rule, paths ...string) blueprint.Rule {
	return linkedRule{Rule: rule, links: paths}
}

type linkedRule struct {
	blueprint.Rule
	links []string
}

func (r linkedRule) LinkedWith() []string { return r.links }

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
