package blueprint

// Cell is the reactive-cell contract: a single readable, writable value with
// change notification. The form core depends only on this contract; any
// state-management primitive that can express get/set/subscribe satisfies it.
type Cell interface {
	Get() any
	Set(v any)
	// OnChange registers a callback fired after every write. It returns an
	// unsubscribe function.
	OnChange(fn func(old, new any)) (unsubscribe func())
}

// NewCell returns a plain in-memory Cell holding v. Like the rest of the
// form core it assumes single-threaded use.
func NewCell(v any) Cell {
	return &basicCell{value: v, subs: map[int]func(old, new any){}}
}

type basicCell struct {
	value any
	subs  map[int]func(old, new any)
	next  int
}

func (c *basicCell) Get() any { return c.value }

func (c *basicCell) Set(v any) {
	old := c.value
	c.value = v
	for _, fn := range c.subs {
		fn(old, v)
	}
}

func (c *basicCell) OnChange(fn func(old, new any)) func() {
	id := c.next
	c.next++
	c.subs[id] = fn
	return func() { delete(c.subs, id) }
}

// modelCell is the live proxy bound to one property path. Reads and writes go
// straight through the owning form so derived bookkeeping (dirty, touched,
// validation triggers, persistence mirroring) stays strictly ordered with
// the edit.
type modelCell struct {
	form *Form
	path string
}

func (c modelCell) Get() any {
	v, _ := c.form.Get(c.path)
	return v
}

func (c modelCell) Set(v any) {
	_ = c.form.Set(c.path, v)
}

func (c modelCell) OnChange(fn func(old, new any)) func() {
	return c.form.Watch(c.path, fn)
}
