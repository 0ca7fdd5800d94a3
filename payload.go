package blueprint

// BuildPayload walks the live state depth-first and produces a plain,
// request-ready object. Three override hooks participate, in precedence
// order: top-level field getters (terminal, own the full returned shape),
// per-child composite getters on branches, then verbatim deep copies.
// Appended getters run last. The omission marker is the only special-cased
// getter return: it drops the key entirely. Explicit nil values survive.
func (f *Form) BuildPayload() map[string]any {
	out := make(map[string]any, len(f.current)+len(f.appended))
	for name, value := range f.current {
		if _, skip := f.ignored[name]; skip {
			continue
		}
		if getter, ok := f.fieldGetters[name]; ok {
			v := getter(value, f.current)
			if IsOmitted(v) {
				continue
			}
			out[name] = v
			continue
		}
		out[name] = f.copyBranch(name, value)
	}
	for _, ap := range f.appended {
		v := ap.fn(f.current)
		if IsOmitted(v) {
			continue
		}
		out[ap.name] = v
	}
	return out
}

// copyBranch rebuilds one top-level value, consulting composite getters for
// the immediate children of objects, and of every element when the value is
// an array of objects. Composite getter results are terminal. Dates and
// blobs are atomic and pass through untouched.
func (f *Form) copyBranch(field string, value any) any {
	getters := f.childGetters[field]
	switch t := value.(type) {
	case State:
		return f.copyObject(t, getters)
	case []any:
		out := make([]any, len(t))
		for i, el := range t {
			out[i] = f.copyElement(el, getters)
		}
		return out
	case *TrackedArray:
		out := make([]any, t.Len())
		for i := 0; i < t.Len(); i++ {
			out[i] = f.copyElement(t.At(i), getters)
		}
		return out
	default:
		return value
	}
}

func (f *Form) copyElement(el any, getters map[string]FieldGetter) any {
	if obj, ok := el.(State); ok {
		return f.copyObject(obj, getters)
	}
	return plainClone(el)
}

func (f *Form) copyObject(obj State, getters map[string]FieldGetter) map[string]any {
	out := make(map[string]any, len(obj))
	for k, v := range obj {
		if getter, ok := getters[k]; ok {
			res := getter(v, f.current)
			if IsOmitted(res) {
				continue
			}
			out[k] = res
			continue
		}
		out[k] = plainClone(v)
	}
	return out
}

// plainClone deep-copies a value for payload use, flattening tracked arrays
// into plain slices. Dates and blobs stay atomic.
func plainClone(v any) any {
	switch t := v.(type) {
	case State:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = plainClone(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = plainClone(val)
		}
		return out
	case *TrackedArray:
		out := make([]any, t.Len())
		for i := 0; i < t.Len(); i++ {
			out[i] = plainClone(t.At(i))
		}
		return out
	default:
		return v
	}
}
