package blueprint

import "log/slog"

// FieldGetter transforms one top-level field (or one immediate child of a
// branch) during payload building. Returning Omit excludes the key.
type FieldGetter func(value any, state State) any

// AppendedGetter computes a payload-only field from the full current state.
// Returning Omit excludes the key.
type AppendedGetter func(state State) any

// Option configures a Form at construction.
type Option func(*Form)

// WithName sets the form identity used for persistence key derivation and
// log attributes.
func WithName(name string) Option {
	return func(f *Form) { f.name = name }
}

// WithRules installs the rule sets, keyed by field pointer path. The mapping
// is fixed after construction.
func WithRules(rules map[string]FieldRules) Option {
	return func(f *Form) {
		for p, fr := range rules {
			f.rules[normalizePath(p)] = fr
		}
	}
}

// WithFieldGetter registers a payload transformer for a top-level field.
// Field getters are terminal: their return value is not walked further.
func WithFieldGetter(field string, fn FieldGetter) Option {
	return func(f *Form) { f.fieldGetters[field] = fn }
}

// WithChildGetter registers a payload transformer for an immediate child
// property of a top-level branch. When the branch is an array of objects the
// getter applies to that child in every element.
func WithChildGetter(field, child string, fn FieldGetter) Option {
	return func(f *Form) {
		m := f.childGetters[field]
		if m == nil {
			m = map[string]FieldGetter{}
			f.childGetters[field] = m
		}
		m[child] = fn
	}
}

// WithAppended registers a computed payload field evaluated after the state
// walk, in registration order.
func WithAppended(name string, fn AppendedGetter) Option {
	return func(f *Form) {
		f.appended = append(f.appended, appendedField{name: name, fn: fn})
	}
}

// WithIgnored excludes top-level fields from the payload walk regardless of
// registered getters.
func WithIgnored(fields ...string) Option {
	return func(f *Form) {
		for _, name := range fields {
			f.ignored[name] = struct{}{}
		}
	}
}

// WithErrorMap remaps server error keys to one or more local field pointer
// paths for FillErrors.
func WithErrorMap(m map[string][]string) Option {
	return func(f *Form) {
		for k, paths := range m {
			f.errorMap[k] = append([]string(nil), paths...)
		}
	}
}

// WithPersistence enables state mirroring through the given driver. The
// storage key is the form name, extended by "/suffix" when suffix is
// non-empty. Forms holding blob fields must not enable persistence.
func WithPersistence(d Driver, suffix string) Option {
	return func(f *Form) {
		f.driver = d
		f.persistSuffix = suffix
	}
}

// WithRequester wires the transport used by Submit.
func WithRequester(r Requester) Option {
	return func(f *Form) { f.requester = r }
}

// WithHeaders sets the headers passed to the requester on Submit.
func WithHeaders(h map[string]string) Option {
	return func(f *Form) {
		for k, v := range h {
			f.headers[k] = v
		}
	}
}

// WithLogger sets the logger for best-effort diagnostics (persistence
// failures, submit traces). Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(f *Form) {
		if l != nil {
			f.logger = l
		}
	}
}

type appendedField struct {
	name string
	fn   AppendedGetter
}
