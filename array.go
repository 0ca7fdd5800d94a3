package blueprint

import "github.com/google/uuid"

// TrackedArray is a sequence whose elements carry a stable identity across
// insertions and removals. The property tree walks it like a plain array, but
// dirty and touched bookkeeping for its elements is keyed by identity, so
// removing an element from the middle does not shift the flags of its
// surviving siblings onto the wrong index.
type TrackedArray struct {
	items []any
	ids   []string
}

// NewTrackedArray builds a tracked array over the given elements. Each
// element is assigned a fresh identity tag.
func NewTrackedArray(items ...any) *TrackedArray {
	ta := &TrackedArray{
		items: append([]any(nil), items...),
		ids:   make([]string, len(items)),
	}
	for i := range ta.ids {
		ta.ids[i] = uuid.NewString()
	}
	return ta
}

// Len reports the number of elements.
func (ta *TrackedArray) Len() int { return len(ta.items) }

// At returns the element at index i.
func (ta *TrackedArray) At(i int) any { return ta.items[i] }

// Set replaces the element at index i, keeping its identity.
func (ta *TrackedArray) Set(i int, v any) { ta.items[i] = v }

// ID returns the identity tag of the element at index i.
func (ta *TrackedArray) ID(i int) string { return ta.ids[i] }

// IndexOf returns the current index of the element with the given identity,
// or -1 when it is no longer present.
func (ta *TrackedArray) IndexOf(id string) int {
	for i, v := range ta.ids {
		if v == id {
			return i
		}
	}
	return -1
}

// Append adds an element to the end under a fresh identity and returns its
// identity tag.
func (ta *TrackedArray) Append(v any) string {
	id := uuid.NewString()
	ta.items = append(ta.items, v)
	ta.ids = append(ta.ids, id)
	return id
}

// Insert places an element at index i under a fresh identity and returns its
// identity tag.
func (ta *TrackedArray) Insert(i int, v any) string {
	id := uuid.NewString()
	ta.items = append(ta.items, nil)
	copy(ta.items[i+1:], ta.items[i:])
	ta.items[i] = v
	ta.ids = append(ta.ids, "")
	copy(ta.ids[i+1:], ta.ids[i:])
	ta.ids[i] = id
	return id
}

// Remove deletes the element at index i and returns its identity tag.
func (ta *TrackedArray) Remove(i int) string {
	id := ta.ids[i]
	ta.items = append(ta.items[:i], ta.items[i+1:]...)
	ta.ids = append(ta.ids[:i], ta.ids[i+1:]...)
	return id
}

// Items returns the live backing slice. Callers must treat it as read-only.
func (ta *TrackedArray) Items() []any { return ta.items }

// clone copies the array, keeping identity tags so a cloned baseline stays
// alignable with the live copy.
func (ta *TrackedArray) clone() *TrackedArray {
	out := &TrackedArray{
		items: make([]any, len(ta.items)),
		ids:   append([]string(nil), ta.ids...),
	}
	for i, v := range ta.items {
		out.items[i] = deepClone(v)
	}
	return out
}

// equal compares element values positionally against another sequence.
// Identity tags do not participate: equality is a value question, identity
// only drives per-element flag attribution.
func (ta *TrackedArray) equal(b any) bool {
	return equalSlices(ta.items, b)
}
