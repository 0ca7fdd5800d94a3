package blueprint

import (
	"sort"
	"strconv"
)

// Property is one node of the tree the UI binds to, isomorphic to the form
// state's shape. Nodes are live views addressed by path, not snapshots:
// children are derived from the state on every access, so array membership
// follows the state while per-element flags stay keyed by identity.
type Property struct {
	form *Form
	path string
}

// Properties returns the root of the property tree.
func (f *Form) Properties() *Property {
	return &Property{form: f, path: "/"}
}

// Prop returns the property node at path.
func (f *Form) Prop(path string) *Property {
	return &Property{form: f, path: normalizePath(path)}
}

// Path returns the node's pointer path.
func (p *Property) Path() string { return p.path }

// Model returns the read/write cell proxying into the live state at this
// node. Writes run the full derived bookkeeping synchronously.
func (p *Property) Model() Cell {
	return modelCell{form: p.form, path: p.path}
}

// Value reads the live value at this node.
func (p *Property) Value() any {
	v, _ := p.form.Get(p.path)
	return v
}

// SetValue writes the live value at this node.
func (p *Property) SetValue(v any) error {
	return p.form.Set(p.path, v)
}

// Errors returns the validation messages attached to this node.
func (p *Property) Errors() []string {
	return p.form.Errors(p.path)
}

// Dirty reports whether this node's value differs from the baseline.
func (p *Property) Dirty() bool {
	return p.form.IsDirty(p.path)
}

// Touched reports whether this node or anything beneath it was touched.
func (p *Property) Touched() bool {
	return p.form.IsTouched(p.path)
}

// Touch marks this node (and its ancestors) touched.
func (p *Property) Touch() {
	p.form.Touch(p.path)
}

// Child returns the branch child addressed by key.
func (p *Property) Child(name string) *Property {
	return &Property{form: p.form, path: p.childPath(escapeSegment(name))}
}

// Index returns the array element node at i.
func (p *Property) Index(i int) *Property {
	return &Property{form: p.form, path: p.childPath(strconv.Itoa(i))}
}

func (p *Property) childPath(seg string) string {
	if p.path == "/" {
		return "/" + seg
	}
	return p.path + "/" + seg
}

// Len reports the element count when this node is an array, otherwise 0.
func (p *Property) Len() int {
	switch t := p.Value().(type) {
	case []any:
		return len(t)
	case *TrackedArray:
		return t.Len()
	default:
		return 0
	}
}

// Keys lists the child keys when this node is an object, sorted for
// deterministic iteration.
func (p *Property) Keys() []string {
	obj, ok := p.Value().(State)
	if !ok {
		if p.path == "/" {
			obj = p.form.current
		} else {
			return nil
		}
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Children returns the branch children: one node per key for objects, one
// per element for arrays, nil for leaves.
func (p *Property) Children() []*Property {
	if n := p.Len(); n > 0 || isArray(p.Value()) {
		out := make([]*Property, n)
		for i := 0; i < n; i++ {
			out[i] = p.Index(i)
		}
		return out
	}
	keys := p.Keys()
	if keys == nil {
		return nil
	}
	out := make([]*Property, len(keys))
	for i, k := range keys {
		out[i] = p.Child(k)
	}
	return out
}

func isArray(v any) bool {
	switch v.(type) {
	case []any, *TrackedArray:
		return true
	default:
		return false
	}
}

