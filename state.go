package blueprint

import (
	"fmt"
	"time"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// State is the raw form state: an arbitrarily nested structure of string-keyed
// maps, sequences ([]any or *TrackedArray), scalars, time.Time values, and
// *Blob handles. A nil value under a present key means "null"; an absent key
// means "no value".
type State = map[string]any

// Blob is an opaque binary attachment. Blobs are atomic: they are never
// decomposed during cloning, payload building, or equality checks, and two
// blobs compare equal only when they are the same *Blob.
type Blob struct {
	Name        string
	ContentType string
	Data        []byte
}

// NewBlob wraps binary data into a form-attachable handle.
func NewBlob(name, contentType string, data []byte) *Blob {
	return &Blob{Name: name, ContentType: contentType, Data: data}
}

// StateFromJSON decodes a JSON document into a State.
func StateFromJSON(data []byte) (State, error) {
	var s State
	if err := gojson.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("blueprint: decode json state: %w", err)
	}
	return s, nil
}

// StateFromYAML decodes a YAML document into a State. Useful for seeding
// form defaults from fixtures.
func StateFromYAML(data []byte) (State, error) {
	var s State
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("blueprint: decode yaml state: %w", err)
	}
	return s, nil
}

// deepClone copies a state value. Maps and sequences are rebuilt; time.Time
// is copied by value; *Blob is carried by reference (blobs are atomic);
// tracked arrays keep their element identities so dirty alignment survives
// a clone.
func deepClone(v any) any {
	switch t := v.(type) {
	case State:
		out := make(State, len(t))
		for k, val := range t {
			out[k] = deepClone(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = deepClone(val)
		}
		return out
	case *TrackedArray:
		return t.clone()
	default:
		// scalars, time.Time (value semantics), *Blob (reference semantics)
		return v
	}
}

// deepEqual compares two state values structurally. Sequences are
// order-sensitive, maps compare by key set and per-key value, time.Time by
// time.Equal, blobs by identity. Numeric values widen to float64 before
// comparing, so an int and the float64 a codec round-trip made of it stay
// equal.
func deepEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch ta := a.(type) {
	case State:
		tb, ok := b.(State)
		if !ok || len(ta) != len(tb) {
			return false
		}
		for k, av := range ta {
			bv, ok := tb[k]
			if !ok || !deepEqual(av, bv) {
				return false
			}
		}
		return true
	case []any:
		return equalSlices(ta, b)
	case *TrackedArray:
		return ta.equal(b)
	case time.Time:
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	case *Blob:
		tb, ok := b.(*Blob)
		return ok && ta == tb
	default:
		// codecs widen or narrow numeric types; compare them numerically
		if fa, ok := toFloat(a); ok {
			fb, ok := toFloat(b)
			return ok && fa == fb
		}
		return a == b
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func equalSlices(a []any, b any) bool {
	switch tb := b.(type) {
	case []any:
		if len(a) != len(tb) {
			return false
		}
		for i := range a {
			if !deepEqual(a[i], tb[i]) {
				return false
			}
		}
		return true
	case *TrackedArray:
		return equalSlices(a, tb.items)
	default:
		return false
	}
}
