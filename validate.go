package blueprint

import "sort"

// Validation runs rule sets declared per field path. Rules evaluate in
// declared order and the first failure wins: later rules for the same field
// do not run once one has produced a message.

func (f *Form) rulePaths() []string {
	out := make([]string, 0, len(f.rules))
	for p := range f.rules {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (f *Form) buildDependencyGraph() {
	f.depOf = map[string][]string{}
	f.linked = map[string][]string{}
	for field, fr := range f.rules {
		for _, r := range fr.Rules {
			if dr, ok := r.(DependentRule); ok {
				for _, dep := range dr.DependsOn() {
					dep = normalizePath(dep)
					f.depOf[dep] = append(f.depOf[dep], field)
				}
			}
			if lr, ok := r.(LinkedRule); ok {
				for _, other := range lr.LinkedWith() {
					other = normalizePath(other)
					f.linked[field] = appendUnique(f.linked[field], other)
					f.linked[other] = appendUnique(f.linked[other], field)
				}
			}
		}
	}
}

// Validate evaluates every field's rule set against the live state and
// returns the AND of the per-field results. With markTouched, every ruled
// field is marked touched first.
func (f *Form) Validate(markTouched bool) bool {
	visited := map[string]bool{}
	ok := true
	for _, p := range f.rulePaths() {
		if markTouched {
			f.markTouched(p)
		}
		if !f.validateField(p, visited) {
			ok = false
		}
	}
	return ok
}

// validateField runs one field's rules, records or clears its errors, and
// schedules bidirectionally linked fields. visited guards the linked-edge
// recursion.
func (f *Form) validateField(path string, visited map[string]bool) bool {
	if visited[path] {
		return len(f.errors[f.key(path)]) == 0
	}
	visited[path] = true

	fr, ok := f.rules[path]
	key := f.key(path)
	pass := true
	if ok {
		value, _ := stateGet(f.current, path)
		delete(f.errors, key)
		for _, r := range fr.Rules {
			if msg := r.Check(value, f.current); msg != "" {
				f.errors[key] = []string{msg}
				pass = false
				break
			}
		}
	}
	for _, other := range f.linked[path] {
		f.validateField(other, visited)
	}
	return pass
}

// triggerOnChange fires the automatic revalidation owed to a value change at
// path: fields whose own subtree overlaps the change (all modes except
// passive), plus fields that declared the changed path as a dependency.
func (f *Form) triggerOnChange(path string) {
	visited := map[string]bool{}
	for _, field := range f.rulePaths() {
		if f.rules[field].Mode == ModePassive {
			continue
		}
		if pathsOverlap(field, path) {
			f.validateField(field, visited)
		}
	}
	for dep, fields := range f.depOf {
		if !pathsOverlap(dep, path) {
			continue
		}
		for _, field := range fields {
			if f.rules[field].Mode == ModeOnDependentChange {
				f.validateField(field, visited)
			}
		}
	}
}

// triggerOnTouch fires the automatic revalidation owed to an explicit touch.
func (f *Form) triggerOnTouch(path string) {
	visited := map[string]bool{}
	for _, field := range f.rulePaths() {
		if f.rules[field].Mode == ModePassive {
			continue
		}
		if pathsOverlap(field, path) {
			f.validateField(field, visited)
		}
	}
}

// Errors returns the validation messages currently attached at path.
func (f *Form) Errors(path string) []string {
	return f.errors[f.key(normalizePath(path))]
}

// SetErrors replaces the messages attached at path.
func (f *Form) SetErrors(path string, msgs []string) {
	key := f.key(normalizePath(path))
	if len(msgs) == 0 {
		delete(f.errors, key)
		return
	}
	f.errors[key] = append([]string(nil), msgs...)
}

// FillErrors attaches server-side validation messages to local fields.
// Server keys run through the error map first; a key mapped to local paths
// attaches to each of them. Unmapped keys attach to the same-named local
// path when it resolves (dot notation with integer segments indexes into
// arrays) and are dropped silently otherwise.
func (f *Form) FillErrors(server map[string]any) {
	for key, raw := range server {
		msgs := toMessages(raw)
		if len(msgs) == 0 {
			continue
		}
		if mapped, ok := f.errorMap[key]; ok {
			for _, p := range mapped {
				f.errors[f.key(normalizePath(p))] = append([]string(nil), msgs...)
			}
			continue
		}
		p := dotToPointer(key)
		if _, ok := stateGet(f.current, p); !ok {
			continue
		}
		f.errors[f.key(p)] = append([]string(nil), msgs...)
	}
}

func toMessages(raw any) []string {
	switch t := raw.(type) {
	case string:
		return []string{t}
	case []string:
		return append([]string(nil), t...)
	case []any:
		out := make([]string, 0, len(t))
		for _, v := range t {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// pathsOverlap reports whether one pointer is equal to or an ancestor of the
// other.
func pathsOverlap(a, b string) bool {
	if a == b {
		return true
	}
	if a == "/" || b == "/" {
		return true
	}
	return hasPathPrefix(a, b) || hasPathPrefix(b, a)
}

func hasPathPrefix(p, prefix string) bool {
	return len(p) > len(prefix) && p[:len(prefix)] == prefix && p[len(prefix)] == '/'
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}
