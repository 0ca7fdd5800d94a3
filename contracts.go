package blueprint

import "context"

// omission is the type of the Omit sentinel.
type omission struct{}

// Omit is the omission marker. A payload getter returning Omit excludes its
// key from the request body entirely; it is the only special-cased getter
// return value.
var Omit = omission{}

// IsOmitted reports whether v is the omission marker.
func IsOmitted(v any) bool {
	_, ok := v.(omission)
	return ok
}

// ValidationMode governs when a field's rules re-run automatically.
type ValidationMode int

const (
	// ModeDefault revalidates when the field's value changes, when it is
	// touched, and on an explicit Validate call.
	ModeDefault ValidationMode = iota
	// ModePassive revalidates only on an explicit Validate call.
	ModePassive
	// ModeAggressive behaves like ModeDefault and additionally validates
	// once at construction.
	ModeAggressive
	// ModeOnDependentChange behaves like ModeDefault and additionally
	// revalidates when any declared dependency changes value.
	ModeOnDependentChange
)

// Rule is one constraint over a field. Check returns an empty string when the
// value passes, or the failure message. The full current state is supplied
// for cross-field rules.
type Rule interface {
	Check(value any, state State) string
}

// DependentRule optionally declares field paths whose changes schedule a
// revalidation of the field carrying this rule (ModeOnDependentChange).
type DependentRule interface {
	Rule
	DependsOn() []string
}

// LinkedRule optionally declares a bidirectional validation edge: validating
// the field carrying this rule also validates the linked paths, and changes
// to the linked paths revalidate this field.
type LinkedRule interface {
	Rule
	LinkedWith() []string
}

// FieldRules bundles the ordered rules and validation mode for one field
// path. Rule sets are fixed at construction.
type FieldRules struct {
	Rules []Rule
	Mode  ValidationMode
}

// PersistedRecord is the baseline/live state pair mirrored into a
// persistence driver.
type PersistedRecord struct {
	Original State
	Current  State
}

// Driver is the persistence backend contract. Implementations are external
// key-value stores; Load reports ok=false when no record is held under key.
type Driver interface {
	Load(ctx context.Context, key string) (PersistedRecord, bool, error)
	Store(ctx context.Context, key string, rec PersistedRecord) error
}

// Response is the transport reply contract.
type Response interface {
	GetData() any
}

// Requester is the transport contract consumed by Submit. The body is the
// payload transformer's output.
type Requester interface {
	Send(ctx context.Context, body map[string]any, headers map[string]string) (Response, error)
}
