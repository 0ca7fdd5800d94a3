package blueprint

import (
	"context"
	"log/slog"
	"sort"
)

// Form tracks a baseline and a live copy of caller-defined state, derives
// per-path dirty/touched flags and validation errors, rebuilds request
// payloads, and mirrors itself into an optional persistence driver.
//
// A Form is not safe for concurrent use; edits and their derived
// recomputation are synchronous and strictly ordered.
type Form struct {
	name     string
	original State
	current  State

	touched map[string]bool     // identity keys
	errors  map[string][]string // identity keys

	fieldGetters map[string]FieldGetter
	childGetters map[string]map[string]FieldGetter
	appended     []appendedField
	ignored      map[string]struct{}
	errorMap     map[string][]string

	rules  map[string]FieldRules // normalized pointer -> rules
	depOf  map[string][]string   // dependency pointer -> dependent fields
	linked map[string][]string   // field -> bidirectionally linked fields

	driver        Driver
	persistSuffix string

	requester Requester
	headers   map[string]string

	watchers  map[string]map[int]func(old, new any)
	nextWatch int

	logger *slog.Logger
}

// NewForm builds a form over the given defaults. The defaults are cloned
// twice, into the baseline and the live copy. When persistence is enabled a
// previously stored record is restored, but only if its baseline still
// deep-equals the defaults; a stale record is discarded.
func NewForm(defaults State, opts ...Option) *Form {
	f := &Form{
		name:         "form",
		touched:      map[string]bool{},
		errors:       map[string][]string{},
		fieldGetters: map[string]FieldGetter{},
		childGetters: map[string]map[string]FieldGetter{},
		ignored:      map[string]struct{}{},
		errorMap:     map[string][]string{},
		rules:        map[string]FieldRules{},
		headers:      map[string]string{},
		watchers:     map[string]map[int]func(old, new any){},
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}

	f.original = deepClone(defaults).(State)
	f.current = deepClone(defaults).(State)
	f.buildDependencyGraph()

	if f.driver != nil {
		f.restore(defaults)
	}
	for _, p := range f.rulePaths() {
		if f.rules[p].Mode == ModeAggressive {
			f.validateField(p, map[string]bool{})
		}
	}
	return f
}

// Name returns the form identity.
func (f *Form) Name() string { return f.name }

// Current returns the live state. Mutate it only through Set and the array
// helpers, otherwise derived bookkeeping will not run.
func (f *Form) Current() State { return f.current }

// Original returns the baseline state. Treat it as read-only.
func (f *Form) Original() State { return f.original }

// Get resolves the live value at path.
func (f *Form) Get(path string) (any, bool) {
	return stateGet(f.current, path)
}

// Set writes v at path in the live copy, marks the path touched, and runs the
// derived bookkeeping: watcher notification, reactive validation triggers,
// and the persistence mirror.
func (f *Form) Set(path string, v any) error {
	path = normalizePath(path)
	old, _ := stateGet(f.current, path)
	if err := stateSet(f.current, path, v); err != nil {
		return err
	}
	f.markTouched(path)
	f.notify(path, old, v)
	f.triggerOnChange(path)
	f.persist()
	return nil
}

// SyncValue writes v at path into both the baseline and the live copy,
// leaving the path clean. Sync is for externally confirmed values, not user
// edits: touched flags are left as they are.
func (f *Form) SyncValue(path string, v any) error {
	path = normalizePath(path)
	old, _ := stateGet(f.current, path)
	if err := stateSet(f.current, path, v); err != nil {
		return err
	}
	if err := stateSet(f.original, path, deepClone(v)); err != nil {
		return err
	}
	f.notify(path, old, v)
	f.persist()
	return nil
}

// FillState replaces the given top-level fields in both the baseline and the
// live copy, as after a successful server sync.
func (f *Form) FillState(values State) {
	for k, v := range values {
		f.current[k] = deepClone(v)
		f.original[k] = deepClone(v)
	}
	f.persist()
}

// Reset restores the live copy from the baseline and clears every touched
// flag and validation error. Reset is idempotent.
func (f *Form) Reset() {
	f.current = deepClone(f.original).(State)
	f.touched = map[string]bool{}
	f.errors = map[string][]string{}
	f.persist()
}

// Touch marks path and all of its ancestors touched, and fires the touch
// validation triggers.
func (f *Form) Touch(path string) {
	path = normalizePath(path)
	f.markTouched(path)
	f.triggerOnTouch(path)
}

func (f *Form) markTouched(path string) {
	f.touched[f.key(path)] = true
	for _, p := range parentPaths(path) {
		f.touched[f.key(p)] = true
	}
	if path != "/" {
		f.touched["/"] = true
	}
}

// IsTouched reports whether the optional path (default: the whole form) or
// anything beneath it has been touched.
func (f *Form) IsTouched(path ...string) bool {
	if len(path) == 0 || normalizePath(path[0]) == "/" {
		return len(f.touched) > 0
	}
	key := f.key(normalizePath(path[0]))
	if f.touched[key] {
		return true
	}
	prefix := key + "/"
	for k := range f.touched {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

// IsDirty reports whether the live value at the optional path (default: the
// whole form) differs from the baseline under deep structural equality.
// Inside tracked arrays the baseline element is located by identity, so
// sibling inserts and removals do not shift the comparison.
func (f *Form) IsDirty(path ...string) bool {
	if len(path) == 0 || normalizePath(path[0]) == "/" {
		return !deepEqual(f.current, f.original)
	}
	p := normalizePath(path[0])
	cur, okC := stateGet(f.current, p)
	orig, okO := stateGetAligned(f.original, f.current, p)
	if okC != okO {
		return true
	}
	if !okC {
		return false
	}
	return !deepEqual(cur, orig)
}

// Watch subscribes to writes at path. The callback fires synchronously after
// each Set or SyncValue touching exactly that path.
func (f *Form) Watch(path string, fn func(old, new any)) (unsubscribe func()) {
	key := f.key(normalizePath(path))
	m := f.watchers[key]
	if m == nil {
		m = map[int]func(old, new any){}
		f.watchers[key] = m
	}
	id := f.nextWatch
	f.nextWatch++
	m[id] = fn
	return func() { delete(m, id) }
}

func (f *Form) notify(path string, old, new any) {
	for _, fn := range f.watchers[f.key(path)] {
		fn(old, new)
	}
}

// ArrayAppend adds v to the tracked array at path under a fresh identity.
// The baseline array is left alone, so the array reads dirty until the next
// sync or reset.
func (f *Form) ArrayAppend(path string, v any) error {
	ta, err := f.trackedAt(path)
	if err != nil {
		return err
	}
	ta.Append(v)
	f.markTouched(path)
	f.triggerOnChange(normalizePath(path))
	f.persist()
	return nil
}

// ArrayInsert places v at index i in the tracked array at path.
func (f *Form) ArrayInsert(path string, i int, v any) error {
	ta, err := f.trackedAt(path)
	if err != nil {
		return err
	}
	if i < 0 || i > ta.Len() {
		return ErrUnknownPath
	}
	ta.Insert(i, v)
	f.markTouched(path)
	f.triggerOnChange(normalizePath(path))
	f.persist()
	return nil
}

// ArrayRemove deletes element i from the tracked array at path and drops the
// touched flags and errors attached to that element's identity.
func (f *Form) ArrayRemove(path string, i int) error {
	ta, err := f.trackedAt(path)
	if err != nil {
		return err
	}
	if i < 0 || i >= ta.Len() {
		return ErrUnknownPath
	}
	id := ta.Remove(i)
	f.pruneIdentity(id)
	f.markTouched(path)
	f.triggerOnChange(normalizePath(path))
	f.persist()
	return nil
}

func (f *Form) trackedAt(path string) (*TrackedArray, error) {
	v, ok := stateGet(f.current, path)
	if !ok {
		return nil, ErrUnknownPath
	}
	ta, ok := v.(*TrackedArray)
	if !ok {
		return nil, ErrNotArray
	}
	return ta, nil
}

func (f *Form) pruneIdentity(id string) {
	frag := "#" + id
	for k := range f.touched {
		if containsSegment(k, frag) {
			delete(f.touched, k)
		}
	}
	for k := range f.errors {
		if containsSegment(k, frag) {
			delete(f.errors, k)
		}
	}
}

// key maps a pointer path to its identity key against the live state.
func (f *Form) key(path string) string {
	return identityKey(f.current, path)
}

// Submit validates (touching every ruled field), builds the payload, and
// hands it to the configured requester.
func (f *Form) Submit(ctx context.Context) (Response, error) {
	if f.requester == nil {
		return nil, ErrNoTransport
	}
	if !f.Validate(true) {
		return nil, f.fieldErrors()
	}
	body := f.BuildPayload()
	resp, err := f.requester.Send(ctx, body, f.headers)
	if err != nil {
		f.logger.Warn("form submit failed", "form", f.name, "error", err)
		return nil, err
	}
	return resp, nil
}

func (f *Form) fieldErrors() error {
	var fe FieldErrors
	keys := make([]string, 0, len(f.errors))
	for k := range f.errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, msg := range f.errors[k] {
			fe = append(fe, FieldError{Path: k, Message: msg})
		}
	}
	if len(fe) == 0 {
		return ErrValidationFailed
	}
	return fe
}

func containsSegment(key, frag string) bool {
	for i := 0; i+len(frag) <= len(key); i++ {
		if key[i:i+len(frag)] != frag {
			continue
		}
		end := i + len(frag)
		if end == len(key) || key[end] == '/' {
			if i > 0 && key[i-1] == '/' {
				return true
			}
		}
	}
	return false
}
