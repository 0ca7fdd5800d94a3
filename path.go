package blueprint

import (
	"strconv"
	"strings"
)

// Paths are JSON Pointers ("/positions/0/value"). A missing leading slash is
// tolerated on input. Segment escaping follows RFC 6901 ("~0" for '~',
// "~1" for '/').

func normalizePath(p string) string {
	if p == "" || p == "/" {
		return "/"
	}
	if p[0] != '/' {
		return "/" + p
	}
	return p
}

func splitPath(pointer string) []string {
	pointer = normalizePath(pointer)
	if pointer == "/" {
		return nil
	}
	raw := strings.Split(pointer[1:], "/")
	parts := make([]string, len(raw))
	for i, seg := range raw {
		parts[i] = strings.ReplaceAll(strings.ReplaceAll(seg, "~1", "/"), "~0", "~")
	}
	return parts
}

func escapeSegment(name string) string {
	return strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
}

// topField returns the first segment of a pointer, or "" for the root.
func topField(pointer string) string {
	parts := splitPath(pointer)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// parentPaths lists the ancestors of a pointer from the immediate parent up
// to (excluding) the root.
func parentPaths(pointer string) []string {
	parts := splitPath(pointer)
	var out []string
	for n := len(parts) - 1; n > 0; n-- {
		segs := make([]string, n)
		for i := 0; i < n; i++ {
			segs[i] = escapeSegment(parts[i])
		}
		out = append(out, "/"+strings.Join(segs, "/"))
	}
	return out
}

// PathRef builds pointer paths in a chain-safe way.
type PathRef struct {
	parts []string
}

// Path anchors a PathRef at a top-level field.
func Path(field string) PathRef {
	return PathRef{parts: []string{escapeSegment(field)}}
}

// Field appends an object key segment.
func (p PathRef) Field(name string) PathRef {
	return PathRef{parts: append(append([]string{}, p.parts...), escapeSegment(name))}
}

// Index appends an array index segment.
func (p PathRef) Index(i int) PathRef {
	return PathRef{parts: append(append([]string{}, p.parts...), strconv.Itoa(i))}
}

// Pointer renders the accumulated path as a JSON Pointer.
func (p PathRef) Pointer() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}

// stateGet navigates root by pointer and reports whether the full path
// resolved.
func stateGet(root any, pointer string) (any, bool) {
	cur := root
	for _, seg := range splitPath(pointer) {
		switch t := cur.(type) {
		case State:
			v, ok := t[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			i, ok := parseIndex(seg)
			if !ok || i < 0 || i >= len(t) {
				return nil, false
			}
			cur = t[i]
		case *TrackedArray:
			i, ok := parseIndex(seg)
			if !ok || i < 0 || i >= t.Len() {
				return nil, false
			}
			cur = t.At(i)
		default:
			return nil, false
		}
	}
	return cur, true
}

// stateSet writes v at pointer inside root. Intermediate containers must
// already exist; the form's shape is established by its defaults, not by
// writes.
func stateSet(root State, pointer string, v any) error {
	parts := splitPath(pointer)
	if len(parts) == 0 {
		return ErrUnknownPath
	}
	var cur any = root
	for _, seg := range parts[:len(parts)-1] {
		switch t := cur.(type) {
		case State:
			next, ok := t[seg]
			if !ok {
				return ErrUnknownPath
			}
			cur = next
		case []any:
			i, ok := parseIndex(seg)
			if !ok || i < 0 || i >= len(t) {
				return ErrUnknownPath
			}
			cur = t[i]
		case *TrackedArray:
			i, ok := parseIndex(seg)
			if !ok || i < 0 || i >= t.Len() {
				return ErrUnknownPath
			}
			cur = t.At(i)
		default:
			return ErrUnknownPath
		}
	}
	last := parts[len(parts)-1]
	switch t := cur.(type) {
	case State:
		t[last] = v
		return nil
	case []any:
		i, ok := parseIndex(last)
		if !ok || i < 0 || i >= len(t) {
			return ErrUnknownPath
		}
		t[i] = v
		return nil
	case *TrackedArray:
		i, ok := parseIndex(last)
		if !ok || i < 0 || i >= t.Len() {
			return ErrUnknownPath
		}
		t.Set(i, v)
		return nil
	default:
		return ErrUnknownPath
	}
}

// stateGetAligned resolves pointer against baseline, translating array
// indices through the identity tags of the live copy's tracked arrays. When
// the live element's identity is absent from the baseline array the path does
// not resolve (the element was added after the baseline was taken).
func stateGetAligned(baseline, live any, pointer string) (any, bool) {
	curB, curL := baseline, live
	for _, seg := range splitPath(pointer) {
		switch tl := curL.(type) {
		case State:
			tb, ok := curB.(State)
			if !ok {
				return nil, false
			}
			vl, ok := tl[seg]
			if !ok {
				return nil, false
			}
			vb, ok := tb[seg]
			if !ok {
				return nil, false
			}
			curL, curB = vl, vb
		case *TrackedArray:
			i, ok := parseIndex(seg)
			if !ok || i < 0 || i >= tl.Len() {
				return nil, false
			}
			tb, ok := curB.(*TrackedArray)
			if !ok {
				return nil, false
			}
			j := tb.IndexOf(tl.ID(i))
			if j < 0 {
				return nil, false
			}
			curL, curB = tl.At(i), tb.At(j)
		case []any:
			i, ok := parseIndex(seg)
			if !ok || i < 0 || i >= len(tl) {
				return nil, false
			}
			tb, ok := curB.([]any)
			if !ok || i >= len(tb) {
				return nil, false
			}
			curL, curB = tl[i], tb[i]
		default:
			return nil, false
		}
	}
	return curB, true
}

// identityKey rewrites pointer indices that land in tracked arrays as
// "#<id>" segments, producing a key that is stable across sibling inserts
// and removals. Plain array indices stay positional.
func identityKey(root any, pointer string) string {
	parts := splitPath(pointer)
	if len(parts) == 0 {
		return "/"
	}
	cur := root
	out := make([]string, 0, len(parts))
	for _, seg := range parts {
		switch t := cur.(type) {
		case State:
			out = append(out, escapeSegment(seg))
			cur = t[seg]
		case *TrackedArray:
			i, ok := parseIndex(seg)
			if ok && i >= 0 && i < t.Len() {
				out = append(out, "#"+t.ID(i))
				cur = t.At(i)
			} else {
				out = append(out, seg)
				cur = nil
			}
		case []any:
			out = append(out, seg)
			if i, ok := parseIndex(seg); ok && i >= 0 && i < len(t) {
				cur = t[i]
			} else {
				cur = nil
			}
		default:
			out = append(out, escapeSegment(seg))
			cur = nil
		}
	}
	return "/" + strings.Join(out, "/")
}

// dotToPointer converts the server-side dot notation ("positions.0.value")
// into a JSON Pointer. Integer segments become array indices by position, no
// special handling is needed beyond the split.
func dotToPointer(key string) string {
	if key == "" {
		return "/"
	}
	segs := strings.Split(key, ".")
	for i, s := range segs {
		segs[i] = escapeSegment(s)
	}
	return "/" + strings.Join(segs, "/")
}

func parseIndex(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
