package blueprint

import "context"

// Persistence is best-effort: the live and baseline states are mirrored into
// the driver after every mutating operation, and failures are logged, never
// propagated. Blob fields are excluded from the mirrored record entirely;
// forms that carry blobs should not enable persistence.

func (f *Form) persistKey() string {
	if f.persistSuffix == "" {
		return f.name
	}
	return f.name + "/" + f.persistSuffix
}

// restore adopts a previously stored record as the form's state, but only
// when its baseline still deep-equals the constructor defaults. A mismatch
// means the form's shape changed since the record was written, so the record
// is discarded.
func (f *Form) restore(defaults State) {
	rec, ok, err := f.driver.Load(context.Background(), f.persistKey())
	if err != nil {
		f.logger.Warn("form restore failed", "form", f.name, "error", err)
		return
	}
	if !ok {
		return
	}
	if !deepEqual(stripTracking(rec.Original), stripTracking(dehydrate(defaults).(State))) {
		return
	}
	f.original = rehydrate(rec.Original).(State)
	f.current = rehydrate(rec.Current).(State)
}

func (f *Form) persist() {
	if f.driver == nil {
		return
	}
	rec := PersistedRecord{
		Original: dehydrate(f.original).(State),
		Current:  dehydrate(f.current).(State),
	}
	if err := f.driver.Store(context.Background(), f.persistKey(), rec); err != nil {
		f.logger.Warn("form persist failed", "form", f.name, "error", err)
	}
}

const (
	trackedTag   = "$tracked"
	trackedIDs   = "$ids"
	trackedItems = "$items"
)

// dehydrate rewrites tracked arrays into tagged plain maps so any codec can
// carry them, and drops blob values (blobs are never serialized).
func dehydrate(v any) any {
	switch t := v.(type) {
	case State:
		out := make(State, len(t))
		for k, val := range t {
			if _, isBlob := val.(*Blob); isBlob {
				continue
			}
			out[k] = dehydrate(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = dehydrate(val)
		}
		return out
	case *TrackedArray:
		items := make([]any, t.Len())
		for i := 0; i < t.Len(); i++ {
			items[i] = dehydrate(t.At(i))
		}
		return State{
			trackedTag:   true,
			trackedIDs:   append([]string(nil), t.ids...),
			trackedItems: items,
		}
	default:
		return v
	}
}

// rehydrate reverses dehydrate, rebuilding tracked arrays with their stored
// identity tags.
func rehydrate(v any) any {
	switch t := v.(type) {
	case State:
		if isTracked, _ := t[trackedTag].(bool); isTracked {
			return rehydrateTracked(t)
		}
		out := make(State, len(t))
		for k, val := range t {
			out[k] = rehydrate(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = rehydrate(val)
		}
		return out
	default:
		return v
	}
}

func rehydrateTracked(t State) *TrackedArray {
	rawItems, _ := t[trackedItems].([]any)
	ta := &TrackedArray{
		items: make([]any, len(rawItems)),
		ids:   make([]string, len(rawItems)),
	}
	for i, val := range rawItems {
		ta.items[i] = rehydrate(val)
	}
	switch ids := t[trackedIDs].(type) {
	case []string:
		copy(ta.ids, ids)
	case []any:
		for i, id := range ids {
			if i < len(ta.ids) {
				ta.ids[i], _ = id.(string)
			}
		}
	}
	return ta
}

// stripTracking reduces a dehydrated state to pure values so the stale-record
// guard compares shapes and values, not identity tags.
func stripTracking(v any) any {
	switch t := v.(type) {
	case State:
		if isTracked, _ := t[trackedTag].(bool); isTracked {
			items, _ := t[trackedItems].([]any)
			out := make([]any, len(items))
			for i, val := range items {
				out[i] = stripTracking(val)
			}
			return out
		}
		out := make(State, len(t))
		for k, val := range t {
			out[k] = stripTracking(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = stripTracking(val)
		}
		return out
	default:
		return v
	}
}
