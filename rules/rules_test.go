package rules_test

import (
	"testing"

	blueprint "github.com/Hank-IT/blueprint-core"
	"github.com/Hank-IT/blueprint-core/rules"
)

func TestRequired_FailsOnEmptyValues(t *testing.T) {
	r := rules.Required("")
	cases := []struct {
		value any
		fail  bool
	}{
		{nil, true},
		{"", true},
		{"   ", true},
		{"x", false},
		{[]any{}, true},
		{[]any{1}, false},
		{blueprint.NewTrackedArray(), true},
		{0, false}, // zero numbers are values, not absence
	}
	for _, tc := range cases {
		msg := r.Check(tc.value, nil)
		if (msg != "") != tc.fail {
			t.Fatalf("Required(%#v): got %q, want fail=%v", tc.value, msg, tc.fail)
		}
	}
}

func TestLengthRules_CountRunesAndElements(t *testing.T) {
	if msg := rules.MinLen(3, "").Check("ab", nil); msg == "" {
		t.Fatalf("two runes must fail MinLen(3)")
	}
	if msg := rules.MinLen(3, "").Check("äöü", nil); msg != "" {
		t.Fatalf("three runes must pass MinLen(3), got %q", msg)
	}
	if msg := rules.MaxLen(1, "").Check([]any{1, 2}, nil); msg == "" {
		t.Fatalf("two elements must fail MaxLen(1)")
	}
	if msg := rules.MinLen(3, "").Check(nil, nil); msg != "" {
		t.Fatalf("nil must pass length rules, got %q", msg)
	}
}

func TestMatches_AppliesOnlyToStrings(t *testing.T) {
	r := rules.Matches(`^\d+$`, "digits only")
	if msg := r.Check("123", nil); msg != "" {
		t.Fatalf("matching string must pass, got %q", msg)
	}
	if msg := r.Check("12a", nil); msg != "digits only" {
		t.Fatalf("non-matching string must fail, got %q", msg)
	}
	if msg := r.Check(42, nil); msg != "" {
		t.Fatalf("non-strings must pass, got %q", msg)
	}
}

func TestMinMax_CompareNumerically(t *testing.T) {
	if msg := rules.Min(5, "").Check(4, nil); msg == "" {
		t.Fatalf("4 must fail Min(5)")
	}
	if msg := rules.Min(5, "").Check(5.0, nil); msg != "" {
		t.Fatalf("5.0 must pass Min(5), got %q", msg)
	}
	if msg := rules.Max(5, "").Check(int64(6), nil); msg == "" {
		t.Fatalf("int64(6) must fail Max(5)")
	}
}

func TestWhen_GatesTheInnerRule(t *testing.T) {
	r := rules.When(func(s blueprint.State) bool {
		on, _ := s["strict"].(bool)
		return on
	}, rules.Required("needed"))

	if msg := r.Check(nil, blueprint.State{"strict": false}); msg != "" {
		t.Fatalf("gated rule must pass when the predicate is false, got %q", msg)
	}
	if msg := r.Check(nil, blueprint.State{"strict": true}); msg != "needed" {
		t.Fatalf("gated rule must apply when the predicate holds, got %q", msg)
	}
}

func TestExpr_EvaluatesAgainstValueAndState(t *testing.T) {
	r := rules.Expr(`value != nil && len(value) >= 3`, "too short")
	if msg := r.Check("abcd", nil); msg != "" {
		t.Fatalf("passing expression must return no message, got %q", msg)
	}
	if msg := r.Check("ab", nil); msg != "too short" {
		t.Fatalf("failing expression must return the message, got %q", msg)
	}

	cross := rules.Expr(`value == state.other`, "must match other")
	if msg := cross.Check("x", blueprint.State{"other": "x"}); msg != "" {
		t.Fatalf("cross-field expression must pass, got %q", msg)
	}
	if msg := cross.Check("y", blueprint.State{"other": "x"}); msg != "must match other" {
		t.Fatalf("cross-field expression must fail, got %q", msg)
	}
}

func TestExpr_SurfacesCompileErrors(t *testing.T) {
	r := rules.Expr(`value ===`, "unused")
	if msg := r.Check("x", nil); msg == "" {
		t.Fatalf("broken expression must not silently pass")
	}
}
